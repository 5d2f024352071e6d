package lending

import (
	"fmt"

	lendingmodels "github.com/loansx/loansx/pkg/db/models/lending"
)

// tableSpec describes one ClickHouse table. Rows are deduplicated on OrderBy by ReplacingMergeTree,
// keeping the row with the highest Version.
type tableSpec struct {
	Name    string
	Columns []lendingmodels.ColumnDef
	OrderBy string
	Version string
}

var tableSpecs = []tableSpec{
	{Name: lendingmodels.PositionsTableName, Columns: lendingmodels.PositionColumns, OrderBy: "(address, asset_id, block_height)", Version: "block_height"},
	{Name: lendingmodels.LendingActionsTableName, Columns: lendingmodels.LendingActionColumns, OrderBy: "(id)", Version: "block_height"},
	{Name: lendingmodels.MarketActionsTableName, Columns: lendingmodels.MarketActionColumns, OrderBy: "(id)", Version: "block_height"},
	{Name: lendingmodels.LiquidatedEventsTableName, Columns: lendingmodels.LiquidatedEventColumns, OrderBy: "(id)", Version: "block_height"},
	{Name: lendingmodels.AssetConfiguresTableName, Columns: lendingmodels.AssetConfigureColumns, OrderBy: "(asset_id, block_height)", Version: "block_height"},
	{Name: lendingmodels.MarketConfiguresTableName, Columns: lendingmodels.MarketConfigureColumns, OrderBy: "(asset_id, block_height)", Version: "block_height"},
	{Name: lendingmodels.MarketMetasTableName, Columns: lendingmodels.MarketMetaColumns, OrderBy: "(asset_id, block_height)", Version: "block_height"},
	{Name: lendingmodels.MarketSnapshotsTableName, Columns: lendingmodels.MarketSnapshotColumns, OrderBy: "(asset_id, block_height)", Version: "block_height"},
	{Name: lendingmodels.LastAccruedTimestampsTableName, Columns: lendingmodels.LastAccruedTimestampColumns, OrderBy: "(block_height)", Version: "block_height"},
	{Name: lendingmodels.IndexProgressTableName, Columns: lendingmodels.IndexProgressColumns, OrderBy: "(height)", Version: "indexed_at"},
}

// DDL renders the CREATE TABLE statement for database dbName.
func (s tableSpec) DDL(dbName string) string {
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS "%s"."%s" (
			%s
		) ENGINE = ReplacingMergeTree(%s)
		ORDER BY %s
		SETTINGS index_granularity = 8192
	`, dbName, s.Name, lendingmodels.ColumnsToSchemaSQL(s.Columns), s.Version, s.OrderBy)
}

func specFor(table string) (tableSpec, bool) {
	for _, s := range tableSpecs {
		if s.Name == table {
			return s, true
		}
	}
	return tableSpec{}, false
}
