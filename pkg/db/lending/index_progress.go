package lending

import (
	"context"
	"fmt"

	"github.com/loansx/loansx/pkg/db/clickhouse"
	lendingmodels "github.com/loansx/loansx/pkg/db/models/lending"
)

// RecordIndexed appends a progress row for a processed height.
func (db *DB) RecordIndexed(ctx context.Context, p *lendingmodels.IndexProgress) error {
	spec, _ := specFor(lendingmodels.IndexProgressTableName)
	return db.Db.Exec(ctx, fmt.Sprintf(`INSERT INTO "%s"."%s" (%s) VALUES (?, ?, ?, ?, ?)`,
		db.Name, spec.Name, joinNames(spec.Columns)),
		p.Height, p.IndexedAt, p.Events, p.Snapshot, p.IndexingTimeMs,
	)
}

// LastIndexed returns the highest recorded height.
func (db *DB) LastIndexed(ctx context.Context) (uint64, error) {
	var h uint64
	query := fmt.Sprintf(`SELECT max(height) FROM "%s"."%s"`, db.Name, lendingmodels.IndexProgressTableName)
	if err := db.Db.QueryRow(clickhouse.WithSequentialConsistency(ctx), query).Scan(&h); err != nil {
		if clickhouse.IsNoRows(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("query last indexed: %w", err)
	}
	return h, nil
}
