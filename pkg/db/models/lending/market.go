package lending

import "time"

const (
	AssetConfiguresTableName       = "asset_configures"
	MarketConfiguresTableName      = "market_configures"
	MarketMetasTableName           = "market_metas"
	MarketSnapshotsTableName       = "market_snapshots"
	LastAccruedTimestampsTableName = "last_accrued_timestamps"
)

// AssetConfigureColumns defines the schema for per-block market totals and rates.
var AssetConfigureColumns = []ColumnDef{
	{Name: "id", Type: "String", Codec: "ZSTD(1)"},
	{Name: "block_height", Type: "UInt64", Codec: "DoubleDelta, ZSTD(1)"},
	{Name: "asset_id", Type: "UInt32", Codec: "ZSTD(1)"},
	amountColumn("total_supply"),
	amountColumn("total_borrows"),
	amountColumn("total_reserves"),
	amountColumn("borrow_index"),
	amountColumn("exchange_rate"),
	amountColumn("borrow_rate"),
	amountColumn("supply_rate"),
	{Name: "utilization_ratio", Type: "UInt32", Codec: "ZSTD(1)"},
	{Name: "timestamp", Type: "DateTime64(3)", Codec: "DoubleDelta, ZSTD(1)"},
}

// LendingAssetConfigure holds the totals and rates of one market at one block.
// UtilizationRatio is a Permill (parts per million).
type LendingAssetConfigure struct {
	ID               string    `ch:"id" json:"id"`
	BlockHeight      uint64    `ch:"block_height" json:"blockHeight"`
	AssetID          uint32    `ch:"asset_id" json:"assetId"`
	TotalSupply      string    `ch:"total_supply" json:"totalSupply"`
	TotalBorrows     string    `ch:"total_borrows" json:"totalBorrows"`
	TotalReserves    string    `ch:"total_reserves" json:"totalReserves"`
	BorrowIndex      string    `ch:"borrow_index" json:"borrowIndex"`
	ExchangeRate     string    `ch:"exchange_rate" json:"exchangeRate"`
	BorrowRate       string    `ch:"borrow_rate" json:"borrowRate"`
	SupplyRate       string    `ch:"supply_rate" json:"supplyRate"`
	UtilizationRatio uint32    `ch:"utilization_ratio" json:"utilizationRatio"`
	Timestamp        time.Time `ch:"timestamp" json:"timestamp"`
}

func (c *LendingAssetConfigure) EntityID() string  { return c.ID }
func (c *LendingAssetConfigure) TableName() string { return AssetConfiguresTableName }

// MarketConfigureColumns defines the schema for per-block risk parameters.
var MarketConfigureColumns = []ColumnDef{
	{Name: "id", Type: "String", Codec: "ZSTD(1)"},
	{Name: "block_height", Type: "UInt64", Codec: "DoubleDelta, ZSTD(1)"},
	{Name: "asset_id", Type: "UInt32", Codec: "ZSTD(1)"},
	{Name: "collateral_factor", Type: "UInt32", Codec: "ZSTD(1)"},
	{Name: "reserve_factor", Type: "UInt32", Codec: "ZSTD(1)"},
	{Name: "close_factor", Type: "UInt32", Codec: "ZSTD(1)"},
	amountColumn("liquidation_incentive"),
	amountColumn("borrow_cap"),
	amountColumn("supply_cap"),
	{Name: "timestamp", Type: "DateTime64(3)", Codec: "DoubleDelta, ZSTD(1)"},
}

// LendingMarketConfigure holds the risk parameters of one market at one block.
// Factors are Permill values.
type LendingMarketConfigure struct {
	ID                   string    `ch:"id" json:"id"`
	BlockHeight          uint64    `ch:"block_height" json:"blockHeight"`
	AssetID              uint32    `ch:"asset_id" json:"assetId"`
	CollateralFactor     uint32    `ch:"collateral_factor" json:"collateralFactor"`
	ReserveFactor        uint32    `ch:"reserve_factor" json:"reserveFactor"`
	CloseFactor          uint32    `ch:"close_factor" json:"closeFactor"`
	LiquidationIncentive string    `ch:"liquidation_incentive" json:"liquidationIncentive"`
	BorrowCap            string    `ch:"borrow_cap" json:"borrowCap"`
	SupplyCap            string    `ch:"supply_cap" json:"supplyCap"`
	Timestamp            time.Time `ch:"timestamp" json:"timestamp"`
}

func (c *LendingMarketConfigure) EntityID() string  { return c.ID }
func (c *LendingMarketConfigure) TableName() string { return MarketConfiguresTableName }

// MarketMetaColumns defines the schema for the full market metadata.
var MarketMetaColumns = []ColumnDef{
	{Name: "id", Type: "String", Codec: "ZSTD(1)"},
	{Name: "block_height", Type: "UInt64", Codec: "DoubleDelta, ZSTD(1)"},
	{Name: "asset_id", Type: "UInt32", Codec: "ZSTD(1)"},
	{Name: "collateral_factor", Type: "UInt32", Codec: "ZSTD(1)"},
	{Name: "reserve_factor", Type: "UInt32", Codec: "ZSTD(1)"},
	{Name: "close_factor", Type: "UInt32", Codec: "ZSTD(1)"},
	amountColumn("liquidation_incentive"),
	{Name: "rate_model", Type: "LowCardinality(String)"},
	amountColumn("base_rate"),
	amountColumn("jump_rate"),
	amountColumn("full_rate"),
	{Name: "jump_utilization", Type: "UInt32", Codec: "ZSTD(1)"},
	{Name: "state", Type: "LowCardinality(String)"},
	amountColumn("supply_cap"),
	amountColumn("borrow_cap"),
	{Name: "ptoken_id", Type: "UInt32", Codec: "ZSTD(1)"},
	{Name: "timestamp", Type: "DateTime64(3)", Codec: "DoubleDelta, ZSTD(1)"},
}

// MarketMeta is the complete market definition as stored on chain at one block.
type MarketMeta struct {
	ID                   string    `ch:"id" json:"id"`
	BlockHeight          uint64    `ch:"block_height" json:"blockHeight"`
	AssetID              uint32    `ch:"asset_id" json:"assetId"`
	CollateralFactor     uint32    `ch:"collateral_factor" json:"collateralFactor"`
	ReserveFactor        uint32    `ch:"reserve_factor" json:"reserveFactor"`
	CloseFactor          uint32    `ch:"close_factor" json:"closeFactor"`
	LiquidationIncentive string    `ch:"liquidation_incentive" json:"liquidationIncentive"`
	RateModel            string    `ch:"rate_model" json:"rateModel"`
	BaseRate             string    `ch:"base_rate" json:"baseRate"`
	JumpRate             string    `ch:"jump_rate" json:"jumpRate"`
	FullRate             string    `ch:"full_rate" json:"fullRate"`
	JumpUtilization      uint32    `ch:"jump_utilization" json:"jumpUtilization"`
	State                string    `ch:"state" json:"state"`
	SupplyCap            string    `ch:"supply_cap" json:"supplyCap"`
	BorrowCap            string    `ch:"borrow_cap" json:"borrowCap"`
	PTokenID             uint32    `ch:"ptoken_id" json:"ptokenId"`
	Timestamp            time.Time `ch:"timestamp" json:"timestamp"`
}

func (m *MarketMeta) EntityID() string  { return m.ID }
func (m *MarketMeta) TableName() string { return MarketMetasTableName }

// MarketSnapshotColumns defines the schema for the per-block market snapshot.
var MarketSnapshotColumns = []ColumnDef{
	{Name: "id", Type: "String", Codec: "ZSTD(1)"},
	{Name: "block_height", Type: "UInt64", Codec: "DoubleDelta, ZSTD(1)"},
	{Name: "asset_id", Type: "UInt32", Codec: "ZSTD(1)"},
	amountColumn("total_supply"),
	amountColumn("total_borrows"),
	amountColumn("total_reserves"),
	amountColumn("borrow_index"),
	amountColumn("exchange_rate"),
	amountColumn("borrow_rate"),
	amountColumn("supply_rate"),
	{Name: "utilization_ratio", Type: "UInt32", Codec: "ZSTD(1)"},
	{Name: "borrower_count", Type: "UInt64", Codec: "Delta, ZSTD(1)"},
	{Name: "supplier_count", Type: "UInt64", Codec: "Delta, ZSTD(1)"},
	{Name: "timestamp", Type: "DateTime64(3)", Codec: "DoubleDelta, ZSTD(1)"},
}

// MarketSnapshot extends the asset totals with the number of borrowers and suppliers.
type MarketSnapshot struct {
	ID               string    `ch:"id" json:"id"`
	BlockHeight      uint64    `ch:"block_height" json:"blockHeight"`
	AssetID          uint32    `ch:"asset_id" json:"assetId"`
	TotalSupply      string    `ch:"total_supply" json:"totalSupply"`
	TotalBorrows     string    `ch:"total_borrows" json:"totalBorrows"`
	TotalReserves    string    `ch:"total_reserves" json:"totalReserves"`
	BorrowIndex      string    `ch:"borrow_index" json:"borrowIndex"`
	ExchangeRate     string    `ch:"exchange_rate" json:"exchangeRate"`
	BorrowRate       string    `ch:"borrow_rate" json:"borrowRate"`
	SupplyRate       string    `ch:"supply_rate" json:"supplyRate"`
	UtilizationRatio uint32    `ch:"utilization_ratio" json:"utilizationRatio"`
	BorrowerCount    uint64    `ch:"borrower_count" json:"borrowerCount"`
	SupplierCount    uint64    `ch:"supplier_count" json:"supplierCount"`
	Timestamp        time.Time `ch:"timestamp" json:"timestamp"`
}

func (s *MarketSnapshot) EntityID() string  { return s.ID }
func (s *MarketSnapshot) TableName() string { return MarketSnapshotsTableName }

// LastAccruedTimestampColumns defines the schema for the interest accrual clock.
var LastAccruedTimestampColumns = []ColumnDef{
	{Name: "id", Type: "String", Codec: "ZSTD(1)"},
	{Name: "block_height", Type: "UInt64", Codec: "DoubleDelta, ZSTD(1)"},
	{Name: "last_accrued_timestamp", Type: "UInt64", Codec: "DoubleDelta, ZSTD(1)"},
}

// LastAccruedTimestamp is the unix second at which the loans module last accrued interest,
// observed at BlockHeight.
type LastAccruedTimestamp struct {
	ID                   string `ch:"id" json:"id"`
	BlockHeight          uint64 `ch:"block_height" json:"blockHeight"`
	LastAccruedTimestamp uint64 `ch:"last_accrued_timestamp" json:"lastAccruedTimestamp"`
}

func (l *LastAccruedTimestamp) EntityID() string  { return l.ID }
func (l *LastAccruedTimestamp) TableName() string { return LastAccruedTimestampsTableName }
