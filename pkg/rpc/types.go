package rpc

// QueryByHeightRequest is the body of chain-wide queries.
type QueryByHeightRequest struct {
	Height uint64 `json:"height"`
}

// MarketQueryRequest is the body of per-market queries.
type MarketQueryRequest struct {
	Height  uint64 `json:"height"`
	AssetID uint32 `json:"assetId"`
}

// AccountQueryRequest is the body of per-account queries.
type AccountQueryRequest struct {
	Height  uint64 `json:"height"`
	AssetID uint32 `json:"assetId"`
	Address string `json:"address"`
}

type headResponse struct {
	Height Uint `json:"height"`
}

type amountResponse struct {
	Value Amount `json:"value"`
}

type uintResponse struct {
	Value Uint `json:"value"`
}

type assetIDsResponse struct {
	AssetIDs []string `json:"assetIds"`
}

// RpcBorrowSnapshot is loans.accountBorrows.
type RpcBorrowSnapshot struct {
	Principal   Amount `json:"principal"`
	BorrowIndex Amount `json:"borrowIndex"`
}

// RpcDeposits is loans.accountDeposits.
type RpcDeposits struct {
	VoucherBalance Amount `json:"voucherBalance"`
	IsCollateral   bool   `json:"isCollateral"`
}

// RpcEarnedSnapshot is loans.accountEarned.
type RpcEarnedSnapshot struct {
	TotalEarnedPrior  Amount `json:"totalEarnedPrior"`
	ExchangeRatePrior Amount `json:"exchangeRatePrior"`
}

// RpcJumpModel is the jump variant of the market's rate model.
type RpcJumpModel struct {
	BaseRate        Amount `json:"baseRate"`
	JumpRate        Amount `json:"jumpRate"`
	FullRate        Amount `json:"fullRate"`
	JumpUtilization Uint   `json:"jumpUtilization"`
}

// RpcCurveModel is the curve variant of the market's rate model.
type RpcCurveModel struct {
	BaseRate Amount `json:"baseRate"`
}

// RpcRateModel holds exactly one model variant.
type RpcRateModel struct {
	Jump  *RpcJumpModel  `json:"jump,omitempty"`
	Curve *RpcCurveModel `json:"curve,omitempty"`
}

// RpcMarket is loans.markets(assetId).
type RpcMarket struct {
	CollateralFactor     Uint         `json:"collateralFactor"`
	LiquidationThreshold Uint         `json:"liquidationThreshold"`
	ReserveFactor        Uint         `json:"reserveFactor"`
	CloseFactor          Uint         `json:"closeFactor"`
	LiquidateIncentive   Amount       `json:"liquidateIncentive"`
	RateModel            RpcRateModel `json:"rateModel"`
	State                string       `json:"state"`
	SupplyCap            Amount       `json:"supplyCap"`
	BorrowCap            Amount       `json:"borrowCap"`
	PTokenID             Uint         `json:"ptokenId"`
}

// RpcEvent is one runtime event of a block. Hash is the hash of the extrinsic that emitted it.
type RpcEvent struct {
	Index   uint32   `json:"index"`
	Hash    string   `json:"hash"`
	Section string   `json:"section"`
	Method  string   `json:"method"`
	Args    []string `json:"args"`
}

// RpcBlock is a block with its events. Timestamp is unix milliseconds.
type RpcBlock struct {
	Height    Uint       `json:"height"`
	Hash      string     `json:"hash"`
	Timestamp Uint       `json:"timestamp"`
	Events    []RpcEvent `json:"events"`
}
