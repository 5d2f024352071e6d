package loans

import (
	"context"
	"fmt"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/loansx/loansx/pkg/db/models/lending"
	"go.uber.org/zap"
)

// EventOutcome summarises what OnEvent derived from one event.
type EventOutcome struct {
	Kind EventKind
	// Action is the id of the action row written, empty when none was written.
	Action    string
	Positions []*lending.Position
	Err       error
}

// BlockOutcome summarises what OnBlock did for one block.
type BlockOutcome struct {
	Height   uint64
	Decision Decision
	Assets   int
	Result   *AggregateResult
	Err      error
}

// Indexer is the derivation engine. OnEvent and OnBlock are its only entry points and neither
// ever returns an error or panics: failures are logged and reported in the outcome.
type Indexer struct {
	logger     *zap.Logger
	chain      ChainQuery
	store      Persister
	positions  *PositionResolver
	scheduler  *SnapshotScheduler
	aggregator *MarketAggregator
}

// Config carries the collaborators of an Indexer. Now defaults to time.Now.
type Config struct {
	Logger *zap.Logger
	Chain  ChainQuery
	Store  Persister
	Pool   pond.Pool
	Now    func() time.Time
}

func NewIndexer(cfg Config) *Indexer {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Indexer{
		logger:     logger,
		chain:      cfg.Chain,
		store:      cfg.Store,
		positions:  NewPositionResolver(logger.Named("position"), cfg.Chain, cfg.Store),
		scheduler:  NewSnapshotScheduler(logger.Named("scheduler"), cfg.Now),
		aggregator: NewMarketAggregator(logger.Named("aggregator"), cfg.Chain, cfg.Store, cfg.Pool),
	}
}

// OnEvent routes one decoded event to its handler.
func (ix *Indexer) OnEvent(ctx context.Context, ev Event) (out EventOutcome) {
	out.Kind = Classify(ev.Method)
	defer func() {
		if r := recover(); r != nil {
			out.Err = fmt.Errorf("event handler panicked: %v", r)
			ix.logger.Error("event handler panicked", zap.String("hash", ev.Hash), zap.String("method", ev.Method), zap.Any("panic", r))
		}
	}()

	switch out.Kind {
	case KindTransfer:
		out.Err = ix.onTransfer(ctx, ev, &out)
	case KindLiquidate:
		out.Err = ix.onLiquidate(ctx, ev, &out)
	case KindMarket:
		out.Err = ix.onMarket(ctx, ev, &out)
	case KindReserve:
		args, err := ev.Reserve()
		if err != nil {
			out.Err = err
			break
		}
		ix.logger.Debug("reserve event not materialized",
			zap.String("hash", ev.Hash),
			zap.String("method", ev.Method),
			zap.Uint32("assetId", args.AssetID),
			zap.String("amount", args.Amount),
		)
	case KindIgnore:
		ix.logger.Debug("event ignored", zap.String("hash", ev.Hash), zap.String("method", ev.Method))
	default:
		ix.logger.Warn("unknown event method", zap.String("hash", ev.Hash), zap.String("method", ev.Method), zap.Uint64("height", ev.BlockHeight))
	}

	if out.Err != nil {
		ix.logger.Error("event derivation failed",
			zap.String("hash", ev.Hash),
			zap.String("method", ev.Method),
			zap.Uint64("height", ev.BlockHeight),
			zap.Error(out.Err),
		)
	}
	return out
}

func (ix *Indexer) onTransfer(ctx context.Context, ev Event, out *EventOutcome) error {
	args, err := ev.Transfer()
	if err != nil {
		return err
	}
	pos, err := ix.positions.Resolve(ctx, args.AssetID, args.Address, ev.BlockHeight, ev.Timestamp)
	if err != nil {
		return fmt.Errorf("resolve position %s/%d: %w", args.Address, args.AssetID, err)
	}
	out.Positions = append(out.Positions, pos)

	action := &lending.LendingAction{
		ID:          ev.Hash,
		BlockHeight: ev.BlockHeight,
		Address:     args.Address,
		Method:      ev.Method,
		AssetID:     args.AssetID,
		Value:       args.Amount,
		PositionID:  pos.ID,
		Timestamp:   ev.Timestamp.UTC(),
	}
	if err := ix.store.Persist(ctx, action); err != nil {
		return fmt.Errorf("persist lending action: %w", err)
	}
	out.Action = action.ID
	return nil
}

// onLiquidate refreshes the borrower in the repaid market and the collateral market, and the
// liquidator in the collateral market, before recording the liquidation.
func (ix *Indexer) onLiquidate(ctx context.Context, ev Event, out *EventOutcome) error {
	args, err := ev.Liquidate()
	if err != nil {
		return err
	}
	touched := []struct {
		address string
		assetID uint32
	}{
		{args.Borrower, args.LiquidateAssetID},
		{args.Borrower, args.CollateralAssetID},
		{args.Liquidator, args.CollateralAssetID},
	}
	ids := make([]string, len(touched))
	resolved := make(map[string]string, len(touched))
	for i, t := range touched {
		key := fmt.Sprintf("%s|%d", t.address, t.assetID)
		if id, ok := resolved[key]; ok {
			ids[i] = id
			continue
		}
		pos, err := ix.positions.Resolve(ctx, t.assetID, t.address, ev.BlockHeight, ev.Timestamp)
		if err != nil {
			return fmt.Errorf("resolve position %s/%d: %w", t.address, t.assetID, err)
		}
		ids[i] = pos.ID
		resolved[key] = pos.ID
		out.Positions = append(out.Positions, pos)
	}

	liquidation := &lending.LiquidatedEvent{
		ID:                   ev.Hash,
		BlockHeight:          ev.BlockHeight,
		Liquidator:           args.Liquidator,
		Borrower:             args.Borrower,
		LiquidateAssetID:     args.LiquidateAssetID,
		CollateralAssetID:    args.CollateralAssetID,
		RepayAmount:          args.RepayAmount,
		CollateralAmount:     args.CollateralAmount,
		BorrowerPositionID:   ids[0],
		CollateralPositionID: ids[1],
		LiquidatorPositionID: ids[2],
		Timestamp:            ev.Timestamp.UTC(),
	}
	if err := ix.store.Persist(ctx, liquidation); err != nil {
		return fmt.Errorf("persist liquidated event: %w", err)
	}
	out.Action = liquidation.ID
	return nil
}

func (ix *Indexer) onMarket(ctx context.Context, ev Event, out *EventOutcome) error {
	args, err := ev.Market()
	if err != nil {
		return err
	}
	action := &lending.MarketAction{
		ID:          ev.Hash,
		BlockHeight: ev.BlockHeight,
		Method:      ev.Method,
		Admin:       args.Admin,
		AssetID:     args.AssetID,
		Timestamp:   ev.Timestamp.UTC(),
	}
	if err := ix.store.Persist(ctx, action); err != nil {
		return fmt.Errorf("persist market action: %w", err)
	}
	out.Action = action.ID
	return nil
}

// OnBlock runs the snapshot pass for a block when the scheduler admits it. A rejected block
// causes no chain reads at all.
func (ix *Indexer) OnBlock(ctx context.Context, b Block) (out BlockOutcome) {
	out.Height = b.Height
	defer func() {
		if r := recover(); r != nil {
			out.Err = fmt.Errorf("block handler panicked: %v", r)
			ix.logger.Error("block handler panicked", zap.Uint64("height", b.Height), zap.Any("panic", r))
		}
	}()

	out.Decision = ix.scheduler.Decide(b.Timestamp)
	if !out.Decision.Run {
		return out
	}

	start := time.Now()
	assetIDs, err := ix.chain.AssetIDs(ctx, b.Height)
	if err != nil {
		out.Err = fmt.Errorf("list asset ids: %w", err)
		ix.logger.Error("snapshot pass aborted", zap.Uint64("height", b.Height), zap.Error(out.Err))
		return out
	}
	out.Assets = len(assetIDs)

	ix.recordAccrual(ctx, b)
	out.Result = ix.aggregator.Run(ctx, assetIDs, b.Height, b.Timestamp)

	ix.logger.Info("snapshot pass read phase complete",
		zap.Uint64("height", b.Height),
		zap.String("policy", out.Decision.Policy.String()),
		zap.Int("assets", out.Assets),
		zap.Int("failed", len(out.Result.Failed)),
		zap.Float64("durationMs", float64(time.Since(start).Microseconds())/1000.0),
	)
	return out
}

// recordAccrual stores the module's interest accrual clock as seen at the block.
func (ix *Indexer) recordAccrual(ctx context.Context, b Block) {
	ts, err := ix.chain.LastAccruedTimestamp(ctx, b.Height)
	if err != nil {
		ix.logger.Warn("read last accrued timestamp failed", zap.Uint64("height", b.Height), zap.Error(err))
		return
	}
	row := &lending.LastAccruedTimestamp{
		ID:                   fmt.Sprintf("%d", b.Height),
		BlockHeight:          b.Height,
		LastAccruedTimestamp: ts,
	}
	if err := ix.store.Persist(ctx, row); err != nil {
		ix.logger.Warn("persist last accrued timestamp failed", zap.Uint64("height", b.Height), zap.Error(err))
	}
}
