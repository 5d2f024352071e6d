package workflow

import (
	"time"

	"github.com/loansx/loansx/app/indexer/types"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const defaultHeadScanBatch = 500

// HeadScanWorkflow indexes the heights between the last recorded one and the chain head.
// Heights run one child workflow at a time, in order, so events and snapshots of height N are
// always committed before height N+1 starts.
func (wc *Context) HeadScanWorkflow(ctx workflow.Context, in types.HeadScanInput) (types.HeadScanOutput, error) {
	logger := workflow.GetLogger(ctx)

	localCtx := workflow.WithLocalActivityOptions(ctx, workflow.LocalActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    500 * time.Millisecond,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	})

	var out types.HeadScanOutput
	if err := workflow.ExecuteLocalActivity(localCtx, wc.ActivityContext.GetLatestHead).Get(localCtx, &out.Head); err != nil {
		return out, err
	}
	if err := workflow.ExecuteLocalActivity(localCtx, wc.ActivityContext.GetLastIndexed).Get(localCtx, &out.Last); err != nil {
		return out, err
	}
	if out.Head == 0 {
		return out, temporal.NewApplicationError("unable to get head block", "no_blocks_found", nil)
	}
	if out.Head <= out.Last {
		return out, nil
	}

	batch := in.Limit
	if batch == 0 {
		batch = wc.Config.HeadScanBatch
	}
	if batch == 0 {
		batch = defaultHeadScanBatch
	}
	end := out.Head
	if end-out.Last > batch {
		end = out.Last + batch
	}

	logger.Info("HeadScan starting",
		"range_start", out.Last+1,
		"range_end", end,
		"head", out.Head,
	)

	for h := out.Last + 1; h <= end; h++ {
		childCtx := workflow.WithChildOptions(ctx, workflow.ChildWorkflowOptions{
			WorkflowID:          wc.TemporalClient.GetIndexBlockWorkflowID(h),
			WorkflowTaskTimeout: time.Minute,
		})
		var res types.IndexBlockOutput
		if err := workflow.ExecuteChildWorkflow(childCtx, wc.IndexBlockWorkflow, types.IndexBlockInput{Height: h}).Get(ctx, &res); err != nil {
			logger.Error("IndexBlock failed, stopping scan", "height", h, "error", err.Error())
			return out, err
		}
		out.Indexed++
	}

	logger.Info("HeadScan finished", "indexed", out.Indexed, "head", out.Head)
	return out, nil
}
