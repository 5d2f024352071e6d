package lending

import "time"

const IndexProgressTableName = "index_progress"

// IndexProgressColumns defines the schema for the per-height indexing log.
var IndexProgressColumns = []ColumnDef{
	{Name: "height", Type: "UInt64", Codec: "DoubleDelta, ZSTD(1)"},
	{Name: "indexed_at", Type: "DateTime64(6)", Codec: "DoubleDelta, ZSTD(1)"},
	{Name: "events", Type: "UInt32", Codec: "ZSTD(1)"},
	{Name: "snapshot", Type: "UInt8"},
	{Name: "indexing_time_ms", Type: "Float64", Codec: "ZSTD(1)"},
}

// IndexProgress records that a height went through the event and snapshot passes.
type IndexProgress struct {
	Height         uint64    `ch:"height" json:"height"`
	IndexedAt      time.Time `ch:"indexed_at" json:"indexedAt"`
	Events         uint32    `ch:"events" json:"events"`
	Snapshot       uint8     `ch:"snapshot" json:"snapshot"`
	IndexingTimeMs float64   `ch:"indexing_time_ms" json:"indexingTimeMs"`
}
