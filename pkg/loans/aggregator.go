package loans

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/loansx/loansx/pkg/db/models/lending"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// assetState is everything read from the chain for one market at one height.
type assetState struct {
	market        Market
	totalSupply   string
	totalBorrows  string
	totalReserves string
	borrowIndex   string
	exchangeRate  string
	borrowRate    string
	supplyRate    string
	utilization   uint32
	borrowers     uint64
	suppliers     uint64
}

// AggregateResult reports the read phase of one snapshot pass. Writes may still be in flight.
type AggregateResult struct {
	Height uint64
	// Queued lists the assets whose records were built and handed to the writer.
	Queued []uint32
	// Failed lists the assets skipped because a read failed.
	Failed []uint32

	writes   pond.TaskGroup
	mu       sync.Mutex
	writeErr []error
}

// WaitWrites blocks until every queued write of the pass has finished and returns their failures.
func (r *AggregateResult) WaitWrites() error {
	if r.writes == nil {
		return nil
	}
	if err := r.writes.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, pond.ErrGroupStopped) {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return errors.Join(r.writeErr...)
}

func (r *AggregateResult) recordWriteErr(err error) {
	r.mu.Lock()
	r.writeErr = append(r.writeErr, err)
	r.mu.Unlock()
}

// MarketAggregator builds the per-block market rows for every known asset.
type MarketAggregator struct {
	logger *zap.Logger
	chain  MarketQuery
	store  Persister
	pool   pond.Pool
}

func NewMarketAggregator(logger *zap.Logger, chain MarketQuery, store Persister, pool pond.Pool) *MarketAggregator {
	return &MarketAggregator{logger: logger, chain: chain, store: store, pool: pool}
}

// Run reads every asset concurrently and returns once all reads are done. The rows of each asset
// that read cleanly are written in the background; a failing asset is logged and skipped without
// affecting the others.
func (a *MarketAggregator) Run(ctx context.Context, assetIDs []uint32, height uint64, ts time.Time) *AggregateResult {
	res := &AggregateResult{Height: height}
	if len(assetIDs) == 0 {
		return res
	}

	states := make([]*assetState, len(assetIDs))
	reads := a.pool.NewGroup()
	for i, assetID := range assetIDs {
		reads.Submit(func() {
			st, err := a.read(ctx, height, assetID)
			if err != nil {
				a.logger.Error("market snapshot read failed, skipping asset",
					zap.Uint64("height", height),
					zap.Uint32("assetId", assetID),
					zap.Error(err),
				)
				return
			}
			states[i] = st
		})
	}
	if err := reads.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, pond.ErrGroupStopped) {
		a.logger.Warn("market snapshot read group ended with error", zap.Uint64("height", height), zap.Error(err))
	}

	var entities []lending.Entity
	for i, assetID := range assetIDs {
		st := states[i]
		if st == nil {
			res.Failed = append(res.Failed, assetID)
			continue
		}
		res.Queued = append(res.Queued, assetID)
		entities = append(entities, buildMarketRows(height, assetID, ts.UTC(), st)...)
	}

	if len(entities) == 0 {
		return res
	}
	// writes must outlive the caller's context
	writeCtx := context.WithoutCancel(ctx)
	res.writes = a.pool.NewGroup()
	for _, entity := range entities {
		res.writes.Submit(func() {
			if err := a.store.Persist(writeCtx, entity); err != nil {
				a.logger.Error("market snapshot write failed",
					zap.Uint64("height", height),
					zap.String("table", entity.TableName()),
					zap.String("id", entity.EntityID()),
					zap.Error(err),
				)
				res.recordWriteErr(fmt.Errorf("%s %s: %w", entity.TableName(), entity.EntityID(), err))
			}
		})
	}
	return res
}

func (a *MarketAggregator) read(ctx context.Context, height uint64, assetID uint32) (*assetState, error) {
	st := &assetState{}
	g, gctx := errgroup.WithContext(ctx)
	str := func(name string, dst *string, fn func(context.Context, uint64, uint32) (string, error)) {
		g.Go(func() error {
			v, err := fn(gctx, height, assetID)
			if err != nil {
				return wrapRead(name, err)
			}
			*dst = orZero(v)
			return nil
		})
	}
	str("total supply", &st.totalSupply, a.chain.TotalSupply)
	str("total borrows", &st.totalBorrows, a.chain.TotalBorrows)
	str("total reserves", &st.totalReserves, a.chain.TotalReserves)
	str("borrow index", &st.borrowIndex, a.chain.BorrowIndex)
	str("exchange rate", &st.exchangeRate, a.chain.ExchangeRate)
	str("borrow rate", &st.borrowRate, a.chain.BorrowRate)
	str("supply rate", &st.supplyRate, a.chain.SupplyRate)
	g.Go(func() (err error) {
		st.utilization, err = a.chain.UtilizationRatio(gctx, height, assetID)
		return wrapRead("utilization ratio", err)
	})
	g.Go(func() (err error) {
		st.market, err = a.chain.Market(gctx, height, assetID)
		return wrapRead("market", err)
	})
	g.Go(func() (err error) {
		st.borrowers, err = a.chain.BorrowerCount(gctx, height, assetID)
		return wrapRead("borrower count", err)
	})
	g.Go(func() (err error) {
		st.suppliers, err = a.chain.SupplierCount(gctx, height, assetID)
		return wrapRead("supplier count", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return st, nil
}

func buildMarketRows(height uint64, assetID uint32, ts time.Time, st *assetState) []lending.Entity {
	id := lending.SnapshotID(height, assetID)
	m := st.market
	return []lending.Entity{
		&lending.LendingAssetConfigure{
			ID:               id,
			BlockHeight:      height,
			AssetID:          assetID,
			TotalSupply:      st.totalSupply,
			TotalBorrows:     st.totalBorrows,
			TotalReserves:    st.totalReserves,
			BorrowIndex:      st.borrowIndex,
			ExchangeRate:     st.exchangeRate,
			BorrowRate:       st.borrowRate,
			SupplyRate:       st.supplyRate,
			UtilizationRatio: st.utilization,
			Timestamp:        ts,
		},
		&lending.LendingMarketConfigure{
			ID:                   id,
			BlockHeight:          height,
			AssetID:              assetID,
			CollateralFactor:     m.CollateralFactor,
			ReserveFactor:        m.ReserveFactor,
			CloseFactor:          m.CloseFactor,
			LiquidationIncentive: orZero(m.LiquidationIncentive),
			BorrowCap:            orZero(m.BorrowCap),
			SupplyCap:            orZero(m.SupplyCap),
			Timestamp:            ts,
		},
		&lending.MarketMeta{
			ID:                   id,
			BlockHeight:          height,
			AssetID:              assetID,
			CollateralFactor:     m.CollateralFactor,
			ReserveFactor:        m.ReserveFactor,
			CloseFactor:          m.CloseFactor,
			LiquidationIncentive: orZero(m.LiquidationIncentive),
			RateModel:            m.RateModel.Kind,
			BaseRate:             orZero(m.RateModel.BaseRate),
			JumpRate:             orZero(m.RateModel.JumpRate),
			FullRate:             orZero(m.RateModel.FullRate),
			JumpUtilization:      m.RateModel.JumpUtilization,
			State:                m.State,
			SupplyCap:            orZero(m.SupplyCap),
			BorrowCap:            orZero(m.BorrowCap),
			PTokenID:             m.PTokenID,
			Timestamp:            ts,
		},
		&lending.MarketSnapshot{
			ID:               id,
			BlockHeight:      height,
			AssetID:          assetID,
			TotalSupply:      st.totalSupply,
			TotalBorrows:     st.totalBorrows,
			TotalReserves:    st.totalReserves,
			BorrowIndex:      st.borrowIndex,
			ExchangeRate:     st.exchangeRate,
			BorrowRate:       st.borrowRate,
			SupplyRate:       st.supplyRate,
			UtilizationRatio: st.utilization,
			BorrowerCount:    st.borrowers,
			SupplierCount:    st.suppliers,
			Timestamp:        ts,
		},
	}
}
