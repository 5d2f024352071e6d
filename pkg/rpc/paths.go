package rpc

// Gateway endpoint paths. Every query is a POST with a JSON body.
const (
	headPath          = "/v1/chain/head"
	blockByHeightPath = "/v1/chain/block"

	assetIDsPath             = "/v1/loans/markets"
	marketPath               = "/v1/loans/market"
	accountBorrowsPath       = "/v1/loans/account-borrows"
	accountDepositsPath      = "/v1/loans/account-deposits"
	accountEarnedPath        = "/v1/loans/account-earned"
	borrowIndexPath          = "/v1/loans/borrow-index"
	exchangeRatePath         = "/v1/loans/exchange-rate"
	borrowRatePath           = "/v1/loans/borrow-rate"
	supplyRatePath           = "/v1/loans/supply-rate"
	utilizationRatioPath     = "/v1/loans/utilization-ratio"
	totalSupplyPath          = "/v1/loans/total-supply"
	totalBorrowsPath         = "/v1/loans/total-borrows"
	totalReservesPath        = "/v1/loans/total-reserves"
	borrowerCountPath        = "/v1/loans/borrower-count"
	supplierCountPath        = "/v1/loans/supplier-count"
	lastAccruedTimestampPath = "/v1/loans/last-accrued-timestamp"
)
