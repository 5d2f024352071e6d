package activity

import (
	"runtime"

	"go.uber.org/zap"

	lendingstore "github.com/loansx/loansx/pkg/db/lending"
	"github.com/loansx/loansx/pkg/loans"
	"github.com/loansx/loansx/pkg/metrics"
	"github.com/loansx/loansx/pkg/redis"
	"github.com/loansx/loansx/pkg/rpc"
)

// Context holds the collaborators shared by every indexer activity.
type Context struct {
	Logger  *zap.Logger
	ChainID string
	// Store persists derived rows and index progress.
	Store lendingstore.Store
	// RPC fetches blocks and serves the engine's storage reads.
	RPC rpc.Client
	// Engine is the derivation engine; built over RPC and Store.
	Engine *loans.Indexer
	// Redis publishes real-time notifications. Nil disables publishing.
	Redis *redis.Client
	// Metrics may be nil.
	Metrics *metrics.IndexerMetrics
}

// WorkerParallelism sizes the shared snapshot pool: four workers per CPU, capped at 512,
// unless overridden.
func WorkerParallelism(override int) int {
	if override > 0 {
		if override > 512 {
			return 512
		}
		return override
	}

	n := runtime.NumCPU()
	if n < 1 {
		n = 1
	}
	parallelism := n * 4
	if parallelism > 512 {
		parallelism = 512
	}
	return parallelism
}

// WorkerQueueSize bounds the pool queue. Each snapshot pass submits one read task per asset
// and up to four write tasks per asset.
func WorkerQueueSize(parallelism int) int {
	if parallelism < 1 {
		parallelism = 1
	}
	queue := parallelism * 64
	if queue < 4096 {
		queue = 4096
	}
	if queue > 262144 {
		queue = 262144
	}
	return queue
}
