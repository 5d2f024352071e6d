package loans

import (
	"context"

	"github.com/loansx/loansx/pkg/db/models/lending"
)

// BorrowSnapshot is the raw borrow record of an account in one market.
type BorrowSnapshot struct {
	Principal   string
	BorrowIndex string
}

// DepositSnapshot is the raw deposit record of an account in one market.
type DepositSnapshot struct {
	VoucherBalance string
	IsCollateral   bool
}

// EarnedSnapshot holds the earnings accumulated up to the last exchange-rate checkpoint.
type EarnedSnapshot struct {
	TotalEarnedPrior  string
	ExchangeRatePrior string
}

// RateModel describes a jump rate model. Kind is empty when the chain reports no model.
type RateModel struct {
	Kind            string
	BaseRate        string
	JumpRate        string
	FullRate        string
	JumpUtilization uint32
}

// Market is the on-chain definition of a lending market.
type Market struct {
	CollateralFactor     uint32
	ReserveFactor        uint32
	CloseFactor          uint32
	LiquidationIncentive string
	RateModel            RateModel
	State                string
	SupplyCap            string
	BorrowCap            string
	PTokenID             uint32
}

// AccountQuery reads per-account storage of the loans module at a block height.
type AccountQuery interface {
	AccountBorrows(ctx context.Context, height uint64, assetID uint32, address string) (BorrowSnapshot, error)
	AccountDeposits(ctx context.Context, height uint64, assetID uint32, address string) (DepositSnapshot, error)
	AccountEarned(ctx context.Context, height uint64, assetID uint32, address string) (EarnedSnapshot, error)
}

// MarketQuery reads per-market storage of the loans module at a block height.
type MarketQuery interface {
	AssetIDs(ctx context.Context, height uint64) ([]uint32, error)
	Market(ctx context.Context, height uint64, assetID uint32) (Market, error)
	BorrowIndex(ctx context.Context, height uint64, assetID uint32) (string, error)
	ExchangeRate(ctx context.Context, height uint64, assetID uint32) (string, error)
	BorrowRate(ctx context.Context, height uint64, assetID uint32) (string, error)
	SupplyRate(ctx context.Context, height uint64, assetID uint32) (string, error)
	UtilizationRatio(ctx context.Context, height uint64, assetID uint32) (uint32, error)
	TotalSupply(ctx context.Context, height uint64, assetID uint32) (string, error)
	TotalBorrows(ctx context.Context, height uint64, assetID uint32) (string, error)
	TotalReserves(ctx context.Context, height uint64, assetID uint32) (string, error)
	BorrowerCount(ctx context.Context, height uint64, assetID uint32) (uint64, error)
	SupplierCount(ctx context.Context, height uint64, assetID uint32) (uint64, error)
	LastAccruedTimestamp(ctx context.Context, height uint64) (uint64, error)
}

// ChainQuery is the complete read surface the engine needs from the chain.
// Every read is pinned to a block height so paired reads see one consistent state.
type ChainQuery interface {
	AccountQuery
	MarketQuery
}

// Persister stores a fully populated derived entity under its explicit identity.
type Persister interface {
	Persist(ctx context.Context, entity lending.Entity) error
}
