package loans_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/loansx/loansx/pkg/db/models/lending"
	"github.com/loansx/loansx/pkg/loans"
	"github.com/puzpuzpuz/xsync/v4"
)

var errChainDown = errors.New("chain unavailable")

type fakeMarket struct {
	borrowIndex   string
	exchangeRate  string
	borrowRate    string
	supplyRate    string
	utilization   uint32
	totalSupply   string
	totalBorrows  string
	totalReserves string
	borrowers     uint64
	suppliers     uint64
	market        loans.Market
}

// fakeChain serves canned storage values. It is read-only once a test starts.
type fakeChain struct {
	calls    atomic.Int64
	heights  *xsync.Map[uint64, int]
	assetIDs []uint32
	accrued  uint64
	borrows  map[string]loans.BorrowSnapshot
	deposits map[string]loans.DepositSnapshot
	earned   map[string]loans.EarnedSnapshot
	markets  map[uint32]fakeMarket
	// failing makes every market read of these assets fail
	failing map[uint32]bool
	// failingAccounts makes the borrow read of these address|asset keys fail
	failingAccounts map[string]bool
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		heights:         xsync.NewMap[uint64, int](),
		borrows:         map[string]loans.BorrowSnapshot{},
		deposits:        map[string]loans.DepositSnapshot{},
		earned:          map[string]loans.EarnedSnapshot{},
		markets:         map[uint32]fakeMarket{},
		failing:         map[uint32]bool{},
		failingAccounts: map[string]bool{},
	}
}

func accountKey(address string, assetID uint32) string {
	return fmt.Sprintf("%s|%d", address, assetID)
}

func (f *fakeChain) touch(height uint64) {
	f.calls.Add(1)
	f.heights.Compute(height, func(old int, _ bool) (int, xsync.ComputeOp) {
		return old + 1, xsync.UpdateOp
	})
}

func (f *fakeChain) seenHeights() []uint64 {
	var out []uint64
	f.heights.Range(func(h uint64, _ int) bool {
		out = append(out, h)
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (f *fakeChain) market(height uint64, assetID uint32) (fakeMarket, error) {
	f.touch(height)
	if f.failing[assetID] {
		return fakeMarket{}, errChainDown
	}
	m, ok := f.markets[assetID]
	if !ok {
		return fakeMarket{}, fmt.Errorf("market %d not found", assetID)
	}
	return m, nil
}

func (f *fakeChain) AccountBorrows(_ context.Context, height uint64, assetID uint32, address string) (loans.BorrowSnapshot, error) {
	f.touch(height)
	if f.failingAccounts[accountKey(address, assetID)] {
		return loans.BorrowSnapshot{}, errChainDown
	}
	return f.borrows[accountKey(address, assetID)], nil
}

func (f *fakeChain) AccountDeposits(_ context.Context, height uint64, assetID uint32, address string) (loans.DepositSnapshot, error) {
	f.touch(height)
	return f.deposits[accountKey(address, assetID)], nil
}

func (f *fakeChain) AccountEarned(_ context.Context, height uint64, assetID uint32, address string) (loans.EarnedSnapshot, error) {
	f.touch(height)
	return f.earned[accountKey(address, assetID)], nil
}

func (f *fakeChain) AssetIDs(_ context.Context, height uint64) ([]uint32, error) {
	f.touch(height)
	return f.assetIDs, nil
}

func (f *fakeChain) Market(_ context.Context, height uint64, assetID uint32) (loans.Market, error) {
	m, err := f.market(height, assetID)
	return m.market, err
}

func (f *fakeChain) BorrowIndex(_ context.Context, height uint64, assetID uint32) (string, error) {
	m, err := f.market(height, assetID)
	return m.borrowIndex, err
}

func (f *fakeChain) ExchangeRate(_ context.Context, height uint64, assetID uint32) (string, error) {
	m, err := f.market(height, assetID)
	return m.exchangeRate, err
}

func (f *fakeChain) BorrowRate(_ context.Context, height uint64, assetID uint32) (string, error) {
	m, err := f.market(height, assetID)
	return m.borrowRate, err
}

func (f *fakeChain) SupplyRate(_ context.Context, height uint64, assetID uint32) (string, error) {
	m, err := f.market(height, assetID)
	return m.supplyRate, err
}

func (f *fakeChain) UtilizationRatio(_ context.Context, height uint64, assetID uint32) (uint32, error) {
	m, err := f.market(height, assetID)
	return m.utilization, err
}

func (f *fakeChain) TotalSupply(_ context.Context, height uint64, assetID uint32) (string, error) {
	m, err := f.market(height, assetID)
	return m.totalSupply, err
}

func (f *fakeChain) TotalBorrows(_ context.Context, height uint64, assetID uint32) (string, error) {
	m, err := f.market(height, assetID)
	return m.totalBorrows, err
}

func (f *fakeChain) TotalReserves(_ context.Context, height uint64, assetID uint32) (string, error) {
	m, err := f.market(height, assetID)
	return m.totalReserves, err
}

func (f *fakeChain) BorrowerCount(_ context.Context, height uint64, assetID uint32) (uint64, error) {
	m, err := f.market(height, assetID)
	return m.borrowers, err
}

func (f *fakeChain) SupplierCount(_ context.Context, height uint64, assetID uint32) (uint64, error) {
	m, err := f.market(height, assetID)
	return m.suppliers, err
}

func (f *fakeChain) LastAccruedTimestamp(_ context.Context, height uint64) (uint64, error) {
	f.touch(height)
	return f.accrued, nil
}

// memStore keeps persisted entities keyed by table and id.
type memStore struct {
	rows *xsync.Map[string, lending.Entity]
	fail atomic.Bool
}

func newMemStore() *memStore {
	return &memStore{rows: xsync.NewMap[string, lending.Entity]()}
}

func (s *memStore) Persist(_ context.Context, e lending.Entity) error {
	if s.fail.Load() {
		return errors.New("store unavailable")
	}
	s.rows.Store(e.TableName()+"/"+e.EntityID(), e)
	return nil
}

func (s *memStore) get(table, id string) (lending.Entity, bool) {
	return s.rows.Load(table + "/" + id)
}

func (s *memStore) count(table string) int {
	n := 0
	s.rows.Range(func(_ string, e lending.Entity) bool {
		if e.TableName() == table {
			n++
		}
		return true
	})
	return n
}
