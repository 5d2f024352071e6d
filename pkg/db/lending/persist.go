package lending

import (
	"context"
	"fmt"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	lendingmodels "github.com/loansx/loansx/pkg/db/models/lending"
	"github.com/shopspring/decimal"
)

// Persist inserts one entity into its table. Identity collisions are resolved by the
// ReplacingMergeTree engine, so a retried write is harmless.
func (db *DB) Persist(ctx context.Context, entity lendingmodels.Entity) error {
	spec, ok := specFor(entity.TableName())
	if !ok {
		return fmt.Errorf("no table for entity %T", entity)
	}
	values, err := rowValues(entity)
	if err != nil {
		return fmt.Errorf("%s %s: %w", spec.Name, entity.EntityID(), err)
	}

	query := insertQuery(db.Name, spec)
	batch, err := db.PrepareBatch(ctx, query)
	if err != nil {
		return err
	}
	defer func(batch driver.Batch) {
		_ = batch.Abort()
	}(batch)

	if err := batch.Append(values...); err != nil {
		return fmt.Errorf("append %s %s: %w", spec.Name, entity.EntityID(), err)
	}
	return batch.Send()
}

func insertQuery(dbName string, spec tableSpec) string {
	return fmt.Sprintf(`INSERT INTO "%s"."%s" (%s) VALUES`, dbName, spec.Name, joinNames(spec.Columns))
}

func joinNames(columns []lendingmodels.ColumnDef) string {
	return strings.Join(lendingmodels.ColumnsToNameList(columns), ", ")
}

// rowValues flattens an entity in the column order of its table. Amount strings become decimals
// so they land in Decimal256 columns without losing digits.
func rowValues(entity lendingmodels.Entity) ([]any, error) {
	var amounts amountParser
	var values []any
	switch e := entity.(type) {
	case *lendingmodels.Position:
		values = []any{
			e.ID, e.BlockHeight, e.Address, e.AssetID,
			amounts.parse(e.BorrowBalance), amounts.parse(e.SupplyBalance), amounts.parse(e.BorrowIndex),
			amounts.parse(e.TotalEarnedPrior), amounts.parse(e.ExchangeRatePrior), amounts.parse(e.ExchangeRate),
			e.Timestamp,
		}
	case *lendingmodels.LendingAction:
		values = []any{e.ID, e.BlockHeight, e.Address, e.Method, e.AssetID, amounts.parse(e.Value), e.PositionID, e.Timestamp}
	case *lendingmodels.MarketAction:
		values = []any{e.ID, e.BlockHeight, e.Method, e.Admin, e.AssetID, e.Timestamp}
	case *lendingmodels.LiquidatedEvent:
		values = []any{
			e.ID, e.BlockHeight, e.Liquidator, e.Borrower, e.LiquidateAssetID, e.CollateralAssetID,
			amounts.parse(e.RepayAmount), amounts.parse(e.CollateralAmount),
			e.BorrowerPositionID, e.CollateralPositionID, e.LiquidatorPositionID, e.Timestamp,
		}
	case *lendingmodels.LendingAssetConfigure:
		values = []any{
			e.ID, e.BlockHeight, e.AssetID,
			amounts.parse(e.TotalSupply), amounts.parse(e.TotalBorrows), amounts.parse(e.TotalReserves),
			amounts.parse(e.BorrowIndex), amounts.parse(e.ExchangeRate), amounts.parse(e.BorrowRate), amounts.parse(e.SupplyRate),
			e.UtilizationRatio, e.Timestamp,
		}
	case *lendingmodels.LendingMarketConfigure:
		values = []any{
			e.ID, e.BlockHeight, e.AssetID, e.CollateralFactor, e.ReserveFactor, e.CloseFactor,
			amounts.parse(e.LiquidationIncentive), amounts.parse(e.BorrowCap), amounts.parse(e.SupplyCap),
			e.Timestamp,
		}
	case *lendingmodels.MarketMeta:
		values = []any{
			e.ID, e.BlockHeight, e.AssetID, e.CollateralFactor, e.ReserveFactor, e.CloseFactor,
			amounts.parse(e.LiquidationIncentive), e.RateModel,
			amounts.parse(e.BaseRate), amounts.parse(e.JumpRate), amounts.parse(e.FullRate), e.JumpUtilization,
			e.State, amounts.parse(e.SupplyCap), amounts.parse(e.BorrowCap), e.PTokenID, e.Timestamp,
		}
	case *lendingmodels.MarketSnapshot:
		values = []any{
			e.ID, e.BlockHeight, e.AssetID,
			amounts.parse(e.TotalSupply), amounts.parse(e.TotalBorrows), amounts.parse(e.TotalReserves),
			amounts.parse(e.BorrowIndex), amounts.parse(e.ExchangeRate), amounts.parse(e.BorrowRate), amounts.parse(e.SupplyRate),
			e.UtilizationRatio, e.BorrowerCount, e.SupplierCount, e.Timestamp,
		}
	case *lendingmodels.LastAccruedTimestamp:
		values = []any{e.ID, e.BlockHeight, e.LastAccruedTimestamp}
	default:
		return nil, fmt.Errorf("unsupported entity %T", entity)
	}
	if amounts.err != nil {
		return nil, amounts.err
	}
	return values, nil
}

// amountParser converts decimal strings and keeps the first failure.
type amountParser struct {
	err error
}

func (p *amountParser) parse(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("amount %q: %w", s, err)
	}
	return d
}
