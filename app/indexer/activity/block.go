package activity

import (
	"context"
	"time"

	"github.com/loansx/loansx/app/indexer/types"
	sdktemporal "go.temporal.io/sdk/temporal"
	"go.uber.org/zap"
)

// FetchBlock retrieves the block at the requested height and decodes its loans events.
func (c *Context) FetchBlock(ctx context.Context, in types.IndexBlockInput) (types.FetchBlockOutput, error) {
	start := time.Now()

	b, err := c.RPC.BlockByHeight(ctx, in.Height)
	if err != nil {
		return types.FetchBlockOutput{}, sdktemporal.NewApplicationErrorWithCause("fetch block failed", "rpc_error", err)
	}
	events := b.LoansEvents()
	durationMs := float64(time.Since(start).Microseconds()) / 1000.0
	c.Metrics.ObserveStage("fetch", time.Since(start))

	c.Logger.Debug("block fetched",
		zap.Uint64("height", in.Height),
		zap.Int("events", len(events)),
		zap.Float64("durationMs", durationMs),
	)
	return types.FetchBlockOutput{Block: b.Header(), Events: events, DurationMs: durationMs}, nil
}
