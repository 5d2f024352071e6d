package lending

import "time"

const (
	LendingActionsTableName   = "lending_actions"
	MarketActionsTableName    = "market_actions"
	LiquidatedEventsTableName = "liquidated_events"
)

// LendingActionColumns defines the schema for deposit/redeem/borrow/repay actions.
var LendingActionColumns = []ColumnDef{
	{Name: "id", Type: "String", Codec: "ZSTD(1)"},
	{Name: "block_height", Type: "UInt64", Codec: "DoubleDelta, ZSTD(1)"},
	{Name: "address", Type: "String", Codec: "ZSTD(1)"},
	{Name: "method", Type: "LowCardinality(String)"},
	{Name: "asset_id", Type: "UInt32", Codec: "ZSTD(1)"},
	amountColumn("value"),
	{Name: "position_id", Type: "String", Codec: "ZSTD(1)"},
	{Name: "timestamp", Type: "DateTime64(3)", Codec: "DoubleDelta, ZSTD(1)"},
}

// LendingAction is an append-only record of one balance-affecting extrinsic.
type LendingAction struct {
	ID          string    `ch:"id" json:"id"`
	BlockHeight uint64    `ch:"block_height" json:"blockHeight"`
	Address     string    `ch:"address" json:"address"`
	Method      string    `ch:"method" json:"method"`
	AssetID     uint32    `ch:"asset_id" json:"assetId"`
	Value       string    `ch:"value" json:"value"`
	PositionID  string    `ch:"position_id" json:"positionId"`
	Timestamp   time.Time `ch:"timestamp" json:"timestamp"`
}

func (a *LendingAction) EntityID() string  { return a.ID }
func (a *LendingAction) TableName() string { return LendingActionsTableName }

// MarketActionColumns defines the schema for market administration actions.
var MarketActionColumns = []ColumnDef{
	{Name: "id", Type: "String", Codec: "ZSTD(1)"},
	{Name: "block_height", Type: "UInt64", Codec: "DoubleDelta, ZSTD(1)"},
	{Name: "method", Type: "LowCardinality(String)"},
	{Name: "admin", Type: "String", Codec: "ZSTD(1)"},
	{Name: "asset_id", Type: "UInt32", Codec: "ZSTD(1)"},
	{Name: "timestamp", Type: "DateTime64(3)", Codec: "DoubleDelta, ZSTD(1)"},
}

// MarketAction records a NewMarket, ActivateMarket or UpdateMarket event.
type MarketAction struct {
	ID          string    `ch:"id" json:"id"`
	BlockHeight uint64    `ch:"block_height" json:"blockHeight"`
	Method      string    `ch:"method" json:"method"`
	Admin       string    `ch:"admin" json:"admin"`
	AssetID     uint32    `ch:"asset_id" json:"assetId"`
	Timestamp   time.Time `ch:"timestamp" json:"timestamp"`
}

func (a *MarketAction) EntityID() string  { return a.ID }
func (a *MarketAction) TableName() string { return MarketActionsTableName }

// LiquidatedEventColumns defines the schema for liquidations.
var LiquidatedEventColumns = []ColumnDef{
	{Name: "id", Type: "String", Codec: "ZSTD(1)"},
	{Name: "block_height", Type: "UInt64", Codec: "DoubleDelta, ZSTD(1)"},
	{Name: "liquidator", Type: "String", Codec: "ZSTD(1)"},
	{Name: "borrower", Type: "String", Codec: "ZSTD(1)"},
	{Name: "liquidate_asset_id", Type: "UInt32", Codec: "ZSTD(1)"},
	{Name: "collateral_asset_id", Type: "UInt32", Codec: "ZSTD(1)"},
	amountColumn("repay_amount"),
	amountColumn("collateral_amount"),
	{Name: "borrower_position_id", Type: "String", Codec: "ZSTD(1)"},
	{Name: "collateral_position_id", Type: "String", Codec: "ZSTD(1)"},
	{Name: "liquidator_position_id", Type: "String", Codec: "ZSTD(1)"},
	{Name: "timestamp", Type: "DateTime64(3)", Codec: "DoubleDelta, ZSTD(1)"},
}

// LiquidatedEvent records a LiquidatedBorrow event together with the ids of the
// positions it refreshed: the borrower's debt position in the liquidated asset, the
// borrower's collateral position and the liquidator's collateral position.
type LiquidatedEvent struct {
	ID                   string    `ch:"id" json:"id"`
	BlockHeight          uint64    `ch:"block_height" json:"blockHeight"`
	Liquidator           string    `ch:"liquidator" json:"liquidator"`
	Borrower             string    `ch:"borrower" json:"borrower"`
	LiquidateAssetID     uint32    `ch:"liquidate_asset_id" json:"liquidateAssetId"`
	CollateralAssetID    uint32    `ch:"collateral_asset_id" json:"collateralAssetId"`
	RepayAmount          string    `ch:"repay_amount" json:"repayAmount"`
	CollateralAmount     string    `ch:"collateral_amount" json:"collateralAmount"`
	BorrowerPositionID   string    `ch:"borrower_position_id" json:"borrowerPositionId"`
	CollateralPositionID string    `ch:"collateral_position_id" json:"collateralPositionId"`
	LiquidatorPositionID string    `ch:"liquidator_position_id" json:"liquidatorPositionId"`
	Timestamp            time.Time `ch:"timestamp" json:"timestamp"`
}

func (e *LiquidatedEvent) EntityID() string  { return e.ID }
func (e *LiquidatedEvent) TableName() string { return LiquidatedEventsTableName }
