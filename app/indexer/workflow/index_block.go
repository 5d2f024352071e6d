package workflow

import (
	"time"

	"github.com/loansx/loansx/app/indexer/types"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// IndexBlockWorkflow derives everything a single height produces: the block is fetched, its
// events are handled in emission order, the snapshot pass runs, and only then is the height
// recorded as indexed.
func (wc *Context) IndexBlockWorkflow(ctx workflow.Context, in types.IndexBlockInput) (types.IndexBlockOutput, error) {
	retry := &temporal.RetryPolicy{
		InitialInterval:    100 * time.Millisecond,
		BackoffCoefficient: 1.2,
		MaximumInterval:    2 * time.Second,
		MaximumAttempts:    0, // unlimited: a height must not be skipped
	}
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy:         retry,
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	out := types.IndexBlockOutput{Height: in.Height, Timings: map[string]float64{}}

	// Local activity: retries fast while the block propagates to the gateway.
	var fetchOut types.FetchBlockOutput
	localCtx := workflow.WithLocalActivityOptions(ctx, workflow.LocalActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy:         retry,
	})
	if err := workflow.ExecuteLocalActivity(localCtx, wc.ActivityContext.FetchBlock, in).Get(localCtx, &fetchOut); err != nil {
		return out, err
	}
	out.Timings["fetch_block_ms"] = fetchOut.DurationMs

	var eventsOut types.IndexEventsOutput
	eventsIn := types.IndexEventsInput{Height: in.Height, Events: fetchOut.Events}
	if err := workflow.ExecuteActivity(ctx, wc.ActivityContext.IndexEvents, eventsIn).Get(ctx, &eventsOut); err != nil {
		return out, err
	}
	out.Events = eventsOut.Events
	out.Failed = eventsOut.Failed
	out.Timings["index_events_ms"] = eventsOut.DurationMs

	var snapOut types.SnapshotBlockOutput
	if err := workflow.ExecuteActivity(ctx, wc.ActivityContext.SnapshotBlock, types.SnapshotBlockInput{Block: fetchOut.Block}).Get(ctx, &snapOut); err != nil {
		return out, err
	}
	out.Snapshot = snapOut.Ran
	out.Timings["snapshot_ms"] = snapOut.DurationMs

	total := fetchOut.DurationMs + eventsOut.DurationMs + snapOut.DurationMs
	record := types.RecordIndexedInput{
		Height:         in.Height,
		Events:         out.Events,
		Snapshot:       out.Snapshot,
		IndexingTimeMs: total,
	}
	if err := workflow.ExecuteActivity(ctx, wc.ActivityContext.RecordIndexed, record).Get(ctx, nil); err != nil {
		return out, err
	}
	return out, nil
}
