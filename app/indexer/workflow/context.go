package workflow

import (
	"github.com/loansx/loansx/app/indexer/activity"
	"github.com/loansx/loansx/pkg/temporal"
)

// Config holds the workflow configuration.
type Config struct {
	// HeadScanBatch caps the heights one HeadScanWorkflow run indexes.
	HeadScanBatch uint64
}

// Context holds the workflow context.
type Context struct {
	TemporalClient  *temporal.Client
	ActivityContext *activity.Context
	Config          Config
}
