package activity

import (
	"context"
	"time"

	"github.com/loansx/loansx/app/indexer/types"
	"github.com/loansx/loansx/pkg/redis"
	"go.uber.org/zap"
)

// SnapshotBlock runs the engine's block pass and waits for its writes, so a height is only
// recorded once every row it produced has been attempted.
func (c *Context) SnapshotBlock(ctx context.Context, in types.SnapshotBlockInput) (types.SnapshotBlockOutput, error) {
	start := time.Now()

	res := c.Engine.OnBlock(ctx, in.Block)
	out := types.SnapshotBlockOutput{
		Ran:    res.Decision.Run,
		Policy: res.Decision.Policy.String(),
		Assets: res.Assets,
	}
	if res.Result != nil {
		out.Failed = res.Result.Failed
		if err := res.Result.WaitWrites(); err != nil {
			c.Logger.Warn("snapshot writes failed",
				zap.Uint64("height", in.Block.Height),
				zap.Error(err),
			)
		}
	}
	c.Metrics.ObserveSnapshot(out.Policy, out.Ran, len(out.Failed))

	if out.Ran && res.Err == nil {
		c.Redis.Publish(ctx, redis.BlockSnapshottedEvent, redis.BlockSnapshotted{
			Height:   in.Block.Height,
			Policy:   out.Policy,
			EndOfDay: res.Decision.EndOfDay,
			Assets:   out.Assets,
			Failed:   out.Failed,
		})
	}

	out.DurationMs = float64(time.Since(start).Microseconds()) / 1000.0
	c.Metrics.ObserveStage("snapshot", time.Since(start))
	return out, nil
}
