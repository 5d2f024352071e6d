package activity_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/loansx/loansx/app/indexer/activity"
	lendingstore "github.com/loansx/loansx/pkg/db/lending"
	"github.com/loansx/loansx/pkg/loans"
	"github.com/loansx/loansx/pkg/metrics"
	"github.com/loansx/loansx/pkg/rpc"
	"go.uber.org/zap/zaptest"
)

var (
	// 10:30 UTC: blocks from today are Blockly, blocks from yesterday evening are Hourly.
	fixedNow  = time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
	errNoHead = errors.New("gateway down")
)

const (
	alice = "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"
	bob   = "5FHneW46xGXgs5mUiveU4sbTyGBzmstUspZC92UhjJM694ty"
)

// fakeGateway is an in-memory rpc.Client. Every storage read returns the same healthy market.
type fakeGateway struct {
	head     uint64
	headErr  error
	blocks   map[uint64]*rpc.RpcBlock
	assetIDs []uint32
	reads    atomic.Int64
}

var _ rpc.Client = (*fakeGateway)(nil)

func newFakeGateway() *fakeGateway {
	return &fakeGateway{blocks: map[uint64]*rpc.RpcBlock{}, assetIDs: []uint32{100, 101}}
}

func (g *fakeGateway) addBlock(height uint64, ts time.Time, events ...rpc.RpcEvent) {
	g.blocks[height] = &rpc.RpcBlock{
		Height:    rpc.Uint(height),
		Hash:      fmt.Sprintf("0xblock%d", height),
		Timestamp: rpc.Uint(ts.UnixMilli()),
		Events:    events,
	}
	if height > g.head {
		g.head = height
	}
}

func (g *fakeGateway) ChainHead(context.Context) (uint64, error) {
	return g.head, g.headErr
}

func (g *fakeGateway) BlockByHeight(_ context.Context, height uint64) (*rpc.RpcBlock, error) {
	b, ok := g.blocks[height]
	if !ok {
		return nil, fmt.Errorf("block %d not found", height)
	}
	return b, nil
}

func (g *fakeGateway) read() { g.reads.Add(1) }

func (g *fakeGateway) AccountBorrows(context.Context, uint64, uint32, string) (loans.BorrowSnapshot, error) {
	g.read()
	return loans.BorrowSnapshot{Principal: "1000000000000", BorrowIndex: "1000000000000000000"}, nil
}

func (g *fakeGateway) AccountDeposits(context.Context, uint64, uint32, string) (loans.DepositSnapshot, error) {
	g.read()
	return loans.DepositSnapshot{VoucherBalance: "5000000000000", IsCollateral: true}, nil
}

func (g *fakeGateway) AccountEarned(context.Context, uint64, uint32, string) (loans.EarnedSnapshot, error) {
	g.read()
	return loans.EarnedSnapshot{TotalEarnedPrior: "0", ExchangeRatePrior: "20000000000000000"}, nil
}

func (g *fakeGateway) AssetIDs(context.Context, uint64) ([]uint32, error) {
	g.read()
	return g.assetIDs, nil
}

func (g *fakeGateway) Market(context.Context, uint64, uint32) (loans.Market, error) {
	g.read()
	return loans.Market{
		CollateralFactor:     500000,
		ReserveFactor:        150000,
		CloseFactor:          500000,
		LiquidationIncentive: "1100000000000000000",
		RateModel:            loans.RateModel{Kind: "Jump", BaseRate: "20000000000000000", JumpRate: "100000000000000000", FullRate: "320000000000000000", JumpUtilization: 800000},
		State:                "Active",
		SupplyCap:            "100000000000000000000000",
		BorrowCap:            "100000000000000000000000",
		PTokenID:             2100,
	}, nil
}

func (g *fakeGateway) BorrowIndex(context.Context, uint64, uint32) (string, error) {
	g.read()
	return "1020000000000000000", nil
}

func (g *fakeGateway) ExchangeRate(context.Context, uint64, uint32) (string, error) {
	g.read()
	return "20000000000000000", nil
}

func (g *fakeGateway) BorrowRate(context.Context, uint64, uint32) (string, error) {
	g.read()
	return "31709791", nil
}

func (g *fakeGateway) SupplyRate(context.Context, uint64, uint32) (string, error) {
	g.read()
	return "13476660", nil
}

func (g *fakeGateway) UtilizationRatio(context.Context, uint64, uint32) (uint32, error) {
	g.read()
	return 500000, nil
}

func (g *fakeGateway) TotalSupply(context.Context, uint64, uint32) (string, error) {
	g.read()
	return "250000000000000", nil
}

func (g *fakeGateway) TotalBorrows(context.Context, uint64, uint32) (string, error) {
	g.read()
	return "2500000000000", nil
}

func (g *fakeGateway) TotalReserves(context.Context, uint64, uint32) (string, error) {
	g.read()
	return "0", nil
}

func (g *fakeGateway) BorrowerCount(context.Context, uint64, uint32) (uint64, error) {
	g.read()
	return 3, nil
}

func (g *fakeGateway) SupplierCount(context.Context, uint64, uint32) (uint64, error) {
	g.read()
	return 7, nil
}

func (g *fakeGateway) LastAccruedTimestamp(context.Context, uint64) (uint64, error) {
	g.read()
	return uint64(fixedNow.Unix()), nil
}

type fixture struct {
	gateway *fakeGateway
	store   *lendingstore.MemoryStore
	metrics *metrics.IndexerMetrics
	actx    *activity.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zaptest.NewLogger(t)
	gateway := newFakeGateway()
	store := lendingstore.NewMemoryStore()
	pool := pond.NewPool(4)
	t.Cleanup(pool.StopAndWait)

	m := metrics.New("test")
	return &fixture{
		gateway: gateway,
		store:   store,
		metrics: m,
		actx: &activity.Context{
			Logger:  logger,
			ChainID: "test",
			Store:   store,
			RPC:     gateway,
			Engine: loans.NewIndexer(loans.Config{
				Logger: logger,
				Chain:  gateway,
				Store:  store,
				Pool:   pool,
				Now:    func() time.Time { return fixedNow },
			}),
			Metrics: m,
		},
	}
}
