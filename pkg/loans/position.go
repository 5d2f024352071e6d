package loans

import (
	"context"
	"fmt"
	"time"

	"github.com/loansx/loansx/pkg/db/models/lending"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PositionResolver turns the raw account storage of one market into a Position and persists it.
type PositionResolver struct {
	logger *zap.Logger
	chain  ChainQuery
	store  Persister
}

func NewPositionResolver(logger *zap.Logger, chain ChainQuery, store Persister) *PositionResolver {
	return &PositionResolver{logger: logger, chain: chain, store: store}
}

// Resolve reads the borrow, deposit and earned records of address together with the market's
// borrow index and exchange rate, all at height, then persists the derived position.
// Any failed read aborts the pair; nothing partial is written.
func (r *PositionResolver) Resolve(ctx context.Context, assetID uint32, address string, height uint64, ts time.Time) (*lending.Position, error) {
	if ts.IsZero() {
		return nil, ErrZeroTimestamp
	}
	var (
		borrow       BorrowSnapshot
		deposit      DepositSnapshot
		earned       EarnedSnapshot
		borrowIndex  string
		exchangeRate string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		borrow, err = r.chain.AccountBorrows(gctx, height, assetID, address)
		return wrapRead("account borrows", err)
	})
	g.Go(func() (err error) {
		borrowIndex, err = r.chain.BorrowIndex(gctx, height, assetID)
		return wrapRead("borrow index", err)
	})
	g.Go(func() (err error) {
		deposit, err = r.chain.AccountDeposits(gctx, height, assetID, address)
		return wrapRead("account deposits", err)
	})
	g.Go(func() (err error) {
		earned, err = r.chain.AccountEarned(gctx, height, assetID, address)
		return wrapRead("account earned", err)
	})
	g.Go(func() (err error) {
		exchangeRate, err = r.chain.ExchangeRate(gctx, height, assetID)
		return wrapRead("exchange rate", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	borrowBalance, err := AccruedBorrowBalance(orZero(borrow.Principal), orZero(borrow.BorrowIndex), orZero(borrowIndex))
	if err != nil {
		return nil, fmt.Errorf("borrow balance: %w", err)
	}

	pos := &lending.Position{
		ID:                lending.PositionID(address, assetID, ts),
		BlockHeight:       height,
		Address:           address,
		AssetID:           assetID,
		BorrowBalance:     borrowBalance,
		SupplyBalance:     orZero(deposit.VoucherBalance),
		BorrowIndex:       orZero(borrowIndex),
		TotalEarnedPrior:  orZero(earned.TotalEarnedPrior),
		ExchangeRatePrior: orZero(earned.ExchangeRatePrior),
		ExchangeRate:      orZero(exchangeRate),
		Timestamp:         ts.UTC(),
	}
	if err := r.store.Persist(ctx, pos); err != nil {
		return nil, fmt.Errorf("persist position %s: %w", pos.ID, err)
	}

	r.logger.Debug("position resolved",
		zap.String("id", pos.ID),
		zap.Uint64("height", height),
		zap.Uint32("assetId", assetID),
		zap.String("address", address),
		zap.String("borrowBalance", pos.BorrowBalance),
		zap.String("supplyBalance", pos.SupplyBalance),
	)
	return pos, nil
}

func wrapRead(what string, err error) error {
	if err != nil {
		return fmt.Errorf("read %s: %w", what, err)
	}
	return nil
}

// orZero maps an absent storage value to "0".
func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
