package lending

import (
	"context"
	"time"

	lendingmodels "github.com/loansx/loansx/pkg/db/models/lending"
	"github.com/loansx/loansx/pkg/utils"
)

// Store is the persistence surface of the indexer.
type Store interface {
	DatabaseName() string

	InitializeDB(ctx context.Context) error

	// Persist writes one derived entity under its own identity.
	Persist(ctx context.Context, entity lendingmodels.Entity) error

	// RecordIndexed marks a height as processed by both the event and the snapshot pass.
	RecordIndexed(ctx context.Context, progress *lendingmodels.IndexProgress) error
	// LastIndexed returns the highest recorded height, 0 when nothing was indexed yet.
	LastIndexed(ctx context.Context) (uint64, error)

	Close() error
}

// NewIndexProgress builds the progress row for a height that finished processing now.
func NewIndexProgress(height uint64, events int, snapshot bool, elapsed time.Duration) *lendingmodels.IndexProgress {
	return &lendingmodels.IndexProgress{
		Height:         height,
		IndexedAt:      time.Now().UTC(),
		Events:         uint32(events),
		Snapshot:       utils.BoolToUInt8(snapshot),
		IndexingTimeMs: float64(elapsed.Microseconds()) / 1000.0,
	}
}
