package activity

import (
	"context"
	"time"

	"github.com/loansx/loansx/app/indexer/types"
	lendingstore "github.com/loansx/loansx/pkg/db/lending"
	sdktemporal "go.temporal.io/sdk/temporal"
	"go.uber.org/zap"
)

// GetLatestHead returns the chain head. When the gateway reports a head it cannot serve yet,
// head-1 is returned instead so no workflow waits on a missing block.
func (c *Context) GetLatestHead(ctx context.Context) (uint64, error) {
	head, err := c.RPC.ChainHead(ctx)
	if err != nil {
		return 0, sdktemporal.NewApplicationErrorWithCause("chain head failed", "rpc_error", err)
	}
	if head > 0 {
		if _, err := c.RPC.BlockByHeight(ctx, head); err != nil {
			c.Logger.Debug("Head block not yet available, using head-1",
				zap.Uint64("reported_head", head),
				zap.Error(err),
			)
			head--
		}
	}
	return head, nil
}

// GetLastIndexed returns the highest height already recorded.
func (c *Context) GetLastIndexed(ctx context.Context) (uint64, error) {
	last, err := c.Store.LastIndexed(ctx)
	if err != nil {
		return 0, sdktemporal.NewApplicationErrorWithCause("last indexed lookup failed", "store_error", err)
	}
	return last, nil
}

// RecordIndexed stores the progress row of a completed height.
func (c *Context) RecordIndexed(ctx context.Context, in types.RecordIndexedInput) error {
	elapsed := time.Duration(in.IndexingTimeMs * float64(time.Millisecond))
	progress := lendingstore.NewIndexProgress(in.Height, in.Events, in.Snapshot, elapsed)
	if err := c.Store.RecordIndexed(ctx, progress); err != nil {
		return sdktemporal.NewApplicationErrorWithCause("record indexed failed", "store_error", err)
	}
	c.Metrics.SetLastIndexed(in.Height)
	return nil
}
