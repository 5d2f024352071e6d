package activity

import (
	"context"
	"time"

	"github.com/loansx/loansx/app/indexer/types"
	"github.com/loansx/loansx/pkg/redis"
	"go.uber.org/zap"
)

// IndexEvents hands every event to the engine strictly in emission order. Derivation failures
// are counted, never returned: a bad event must not stall the chain.
func (c *Context) IndexEvents(ctx context.Context, in types.IndexEventsInput) (types.IndexEventsOutput, error) {
	start := time.Now()
	out := types.IndexEventsOutput{Events: len(in.Events)}

	for _, ev := range in.Events {
		res := c.Engine.OnEvent(ctx, ev)
		failed := res.Err != nil
		if failed {
			out.Failed++
		}
		c.Metrics.ObserveEvent(res.Kind.String(), failed)

		for _, pos := range res.Positions {
			out.Positions++
			c.Redis.Publish(ctx, redis.PositionUpdatedEvent, pos)
		}
	}

	out.DurationMs = float64(time.Since(start).Microseconds()) / 1000.0
	c.Metrics.ObserveStage("events", time.Since(start))
	if out.Failed > 0 {
		c.Logger.Warn("events with derivation failures",
			zap.Uint64("height", in.Height),
			zap.Int("events", out.Events),
			zap.Int("failed", out.Failed),
		)
	}
	return out, nil
}
