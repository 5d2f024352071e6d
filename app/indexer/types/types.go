package types

import (
	"github.com/loansx/loansx/pkg/loans"
)

// IndexBlockInput identifies the height an IndexBlockWorkflow processes.
type IndexBlockInput struct {
	Height uint64 `json:"height"`
}

// IndexBlockOutput is the per-height summary returned to HeadScanWorkflow.
type IndexBlockOutput struct {
	Height   uint64             `json:"height"`
	Events   int                `json:"events"`
	Failed   int                `json:"failed"`
	Snapshot bool               `json:"snapshot"`
	Timings  map[string]float64 `json:"timings"`
}

type FetchBlockOutput struct {
	Block      loans.Block   `json:"block"`
	Events     []loans.Event `json:"events"`
	DurationMs float64       `json:"durationMs"`
}

// IndexEventsInput carries the block's loans events in emission order.
type IndexEventsInput struct {
	Height uint64        `json:"height"`
	Events []loans.Event `json:"events"`
}

type IndexEventsOutput struct {
	Events     int     `json:"events"`
	Failed     int     `json:"failed"`
	Positions  int     `json:"positions"`
	DurationMs float64 `json:"durationMs"`
}

type SnapshotBlockInput struct {
	Block loans.Block `json:"block"`
}

type SnapshotBlockOutput struct {
	Ran        bool     `json:"ran"`
	Policy     string   `json:"policy"`
	Assets     int      `json:"assets"`
	Failed     []uint32 `json:"failed,omitempty"`
	DurationMs float64  `json:"durationMs"`
}

type RecordIndexedInput struct {
	Height         uint64  `json:"height"`
	Events         int     `json:"events"`
	Snapshot       bool    `json:"snapshot"`
	IndexingTimeMs float64 `json:"indexingTimeMs"`
}

// HeadScanInput is empty for cron starts. Limit overrides the configured batch when set.
type HeadScanInput struct {
	Limit uint64 `json:"limit,omitempty"`
}

type HeadScanOutput struct {
	Head    uint64 `json:"head"`
	Last    uint64 `json:"last"`
	Indexed uint64 `json:"indexed"`
}
