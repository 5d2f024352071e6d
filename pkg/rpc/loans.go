package rpc

import (
	"context"
	"fmt"

	"github.com/loansx/loansx/pkg/loans"
)

func (c *HTTPClient) amount(ctx context.Context, path string, height uint64, assetID uint32) (string, error) {
	var resp amountResponse
	if err := c.doJSON(ctx, path, MarketQueryRequest{Height: height, AssetID: assetID}, &resp); err != nil {
		return "", err
	}
	return resp.Value.String(), nil
}

func (c *HTTPClient) count(ctx context.Context, path string, height uint64, assetID uint32) (uint64, error) {
	var resp uintResponse
	if err := c.doJSON(ctx, path, MarketQueryRequest{Height: height, AssetID: assetID}, &resp); err != nil {
		return 0, err
	}
	return uint64(resp.Value), nil
}

// AssetIDs lists the asset id of every market registered at height.
func (c *HTTPClient) AssetIDs(ctx context.Context, height uint64) ([]uint32, error) {
	var resp assetIDsResponse
	if err := c.doJSON(ctx, assetIDsPath, QueryByHeightRequest{Height: height}, &resp); err != nil {
		return nil, err
	}
	return ParseAssetIDs(resp.AssetIDs)
}

func (c *HTTPClient) Market(ctx context.Context, height uint64, assetID uint32) (loans.Market, error) {
	var m RpcMarket
	if err := c.doJSON(ctx, marketPath, MarketQueryRequest{Height: height, AssetID: assetID}, &m); err != nil {
		return loans.Market{}, err
	}
	return marketFromRpc(m)
}

func marketFromRpc(m RpcMarket) (loans.Market, error) {
	for name, v := range map[string]Uint{
		"collateralFactor": m.CollateralFactor,
		"reserveFactor":    m.ReserveFactor,
		"closeFactor":      m.CloseFactor,
		"ptokenId":         m.PTokenID,
	} {
		if v > 1<<32-1 {
			return loans.Market{}, fmt.Errorf("market %s %d overflows uint32", name, v)
		}
	}
	out := loans.Market{
		CollateralFactor:     uint32(m.CollateralFactor),
		ReserveFactor:        uint32(m.ReserveFactor),
		CloseFactor:          uint32(m.CloseFactor),
		LiquidationIncentive: m.LiquidateIncentive.String(),
		State:                m.State,
		SupplyCap:            m.SupplyCap.String(),
		BorrowCap:            m.BorrowCap.String(),
		PTokenID:             uint32(m.PTokenID),
	}
	switch {
	case m.RateModel.Jump != nil:
		j := m.RateModel.Jump
		out.RateModel = loans.RateModel{
			Kind:            "Jump",
			BaseRate:        j.BaseRate.String(),
			JumpRate:        j.JumpRate.String(),
			FullRate:        j.FullRate.String(),
			JumpUtilization: uint32(j.JumpUtilization),
		}
	case m.RateModel.Curve != nil:
		out.RateModel = loans.RateModel{Kind: "Curve", BaseRate: m.RateModel.Curve.BaseRate.String()}
	}
	return out, nil
}

func (c *HTTPClient) AccountBorrows(ctx context.Context, height uint64, assetID uint32, address string) (loans.BorrowSnapshot, error) {
	var resp RpcBorrowSnapshot
	if err := c.doJSON(ctx, accountBorrowsPath, AccountQueryRequest{Height: height, AssetID: assetID, Address: address}, &resp); err != nil {
		return loans.BorrowSnapshot{}, err
	}
	return loans.BorrowSnapshot{Principal: resp.Principal.String(), BorrowIndex: resp.BorrowIndex.String()}, nil
}

func (c *HTTPClient) AccountDeposits(ctx context.Context, height uint64, assetID uint32, address string) (loans.DepositSnapshot, error) {
	var resp RpcDeposits
	if err := c.doJSON(ctx, accountDepositsPath, AccountQueryRequest{Height: height, AssetID: assetID, Address: address}, &resp); err != nil {
		return loans.DepositSnapshot{}, err
	}
	return loans.DepositSnapshot{VoucherBalance: resp.VoucherBalance.String(), IsCollateral: resp.IsCollateral}, nil
}

func (c *HTTPClient) AccountEarned(ctx context.Context, height uint64, assetID uint32, address string) (loans.EarnedSnapshot, error) {
	var resp RpcEarnedSnapshot
	if err := c.doJSON(ctx, accountEarnedPath, AccountQueryRequest{Height: height, AssetID: assetID, Address: address}, &resp); err != nil {
		return loans.EarnedSnapshot{}, err
	}
	return loans.EarnedSnapshot{
		TotalEarnedPrior:  resp.TotalEarnedPrior.String(),
		ExchangeRatePrior: resp.ExchangeRatePrior.String(),
	}, nil
}

func (c *HTTPClient) BorrowIndex(ctx context.Context, height uint64, assetID uint32) (string, error) {
	return c.amount(ctx, borrowIndexPath, height, assetID)
}

func (c *HTTPClient) ExchangeRate(ctx context.Context, height uint64, assetID uint32) (string, error) {
	return c.amount(ctx, exchangeRatePath, height, assetID)
}

func (c *HTTPClient) BorrowRate(ctx context.Context, height uint64, assetID uint32) (string, error) {
	return c.amount(ctx, borrowRatePath, height, assetID)
}

func (c *HTTPClient) SupplyRate(ctx context.Context, height uint64, assetID uint32) (string, error) {
	return c.amount(ctx, supplyRatePath, height, assetID)
}

func (c *HTTPClient) TotalSupply(ctx context.Context, height uint64, assetID uint32) (string, error) {
	return c.amount(ctx, totalSupplyPath, height, assetID)
}

func (c *HTTPClient) TotalBorrows(ctx context.Context, height uint64, assetID uint32) (string, error) {
	return c.amount(ctx, totalBorrowsPath, height, assetID)
}

func (c *HTTPClient) TotalReserves(ctx context.Context, height uint64, assetID uint32) (string, error) {
	return c.amount(ctx, totalReservesPath, height, assetID)
}

// UtilizationRatio returns the market utilization as a Permill.
func (c *HTTPClient) UtilizationRatio(ctx context.Context, height uint64, assetID uint32) (uint32, error) {
	v, err := c.count(ctx, utilizationRatioPath, height, assetID)
	if err != nil {
		return 0, err
	}
	if v > 1_000_000 {
		return 0, fmt.Errorf("utilization ratio %d exceeds one million parts", v)
	}
	return uint32(v), nil
}

func (c *HTTPClient) BorrowerCount(ctx context.Context, height uint64, assetID uint32) (uint64, error) {
	return c.count(ctx, borrowerCountPath, height, assetID)
}

func (c *HTTPClient) SupplierCount(ctx context.Context, height uint64, assetID uint32) (uint64, error) {
	return c.count(ctx, supplierCountPath, height, assetID)
}

// LastAccruedTimestamp returns the unix second of the module's last interest accrual.
func (c *HTTPClient) LastAccruedTimestamp(ctx context.Context, height uint64) (uint64, error) {
	var resp uintResponse
	if err := c.doJSON(ctx, lastAccruedTimestampPath, QueryByHeightRequest{Height: height}, &resp); err != nil {
		return 0, err
	}
	return uint64(resp.Value), nil
}
