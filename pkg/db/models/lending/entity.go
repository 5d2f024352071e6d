package lending

import (
	"fmt"
	"time"
)

// Entity is a derived row ready to be persisted.
// EntityID is the explicit identity key and TableName selects the destination table.
type Entity interface {
	EntityID() string
	TableName() string
}

// SnapshotID is the identity of every per-block, per-asset row: "<height>-<assetId>".
func SnapshotID(height uint64, assetID uint32) string {
	return fmt.Sprintf("%d-%d", height, assetID)
}

// DayBucket truncates t to its UTC calendar day and formats it as YYYY-MM-DD.
func DayBucket(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

// PositionID is the canonical identity of a position row: "address|assetId|day".
func PositionID(address string, assetID uint32, ts time.Time) string {
	return fmt.Sprintf("%s|%d|%s", address, assetID, DayBucket(ts))
}
