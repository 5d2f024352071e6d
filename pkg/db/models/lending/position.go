package lending

import "time"

const PositionsTableName = "positions"

// PositionColumns defines the schema for account positions.
var PositionColumns = []ColumnDef{
	{Name: "id", Type: "String", Codec: "ZSTD(1)"},
	{Name: "block_height", Type: "UInt64", Codec: "DoubleDelta, ZSTD(1)"},
	{Name: "address", Type: "String", Codec: "ZSTD(1)"},
	{Name: "asset_id", Type: "UInt32", Codec: "ZSTD(1)"},
	amountColumn("borrow_balance"),
	amountColumn("supply_balance"),
	amountColumn("borrow_index"),
	amountColumn("total_earned_prior"),
	amountColumn("exchange_rate_prior"),
	amountColumn("exchange_rate"),
	{Name: "timestamp", Type: "DateTime64(3)", Codec: "DoubleDelta, ZSTD(1)"},
}

// Position is the point-in-time lending position of one account in one market.
//
// The id is address|assetId|day, so a day keeps a single canonical identity while every
// qualifying event appends a new row at its own block height. Amounts are decimal strings.
type Position struct {
	ID                string    `ch:"id" json:"id"`
	BlockHeight       uint64    `ch:"block_height" json:"blockHeight"`
	Address           string    `ch:"address" json:"address"`
	AssetID           uint32    `ch:"asset_id" json:"assetId"`
	BorrowBalance     string    `ch:"borrow_balance" json:"borrowBalance"`
	SupplyBalance     string    `ch:"supply_balance" json:"supplyBalance"`
	BorrowIndex       string    `ch:"borrow_index" json:"borrowIndex"`
	TotalEarnedPrior  string    `ch:"total_earned_prior" json:"totalEarnedPrior"`
	ExchangeRatePrior string    `ch:"exchange_rate_prior" json:"exchangeRatePrior"`
	ExchangeRate      string    `ch:"exchange_rate" json:"exchangeRate"`
	Timestamp         time.Time `ch:"timestamp" json:"timestamp"`
}

func (p *Position) EntityID() string  { return p.ID }
func (p *Position) TableName() string { return PositionsTableName }
