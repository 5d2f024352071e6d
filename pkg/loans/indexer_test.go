package loans_test

import (
	"context"
	"testing"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/loansx/loansx/pkg/db/models/lending"
	"github.com/loansx/loansx/pkg/loans"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const bob = "5FHneW46xGXgs5mUiveU4sbTyGBzmstUspZC92UhjJM694ty"

type indexerFixture struct {
	chain *fakeChain
	store *memStore
	ix    *loans.Indexer
}

func newIndexerFixture(t *testing.T) *indexerFixture {
	t.Helper()
	pool := pond.NewPool(4)
	t.Cleanup(pool.StopAndWait)

	chain := newFakeChain()
	store := newMemStore()
	ix := loans.NewIndexer(loans.Config{
		Logger: zaptest.NewLogger(t),
		Chain:  chain,
		Store:  store,
		Pool:   pool,
		Now:    func() time.Time { return schedulerNow },
	})
	return &indexerFixture{chain: chain, store: store, ix: ix}
}

func TestOnEvent_BorrowedWritesActionAndPosition(t *testing.T) {
	f := newIndexerFixture(t)
	seedAccount(f.chain, alice, 100)
	seedMarket(f.chain, 100)

	ts := utc("2024-06-15T09:12:00Z")
	out := f.ix.OnEvent(context.Background(), loans.Event{
		Hash:        "0xabc",
		BlockHeight: 42,
		Timestamp:   ts,
		Method:      "Borrowed",
		Args:        []string{alice, "100", "1000000000000"},
	})
	require.NoError(t, out.Err)
	require.Equal(t, loans.KindTransfer, out.Kind)
	require.Equal(t, "0xabc", out.Action)

	require.Equal(t, 1, f.store.count(lending.LendingActionsTableName))
	require.Equal(t, 1, f.store.count(lending.PositionsTableName))

	row, ok := f.store.get(lending.LendingActionsTableName, "0xabc")
	require.True(t, ok)
	action := row.(*lending.LendingAction)
	require.Equal(t, uint64(42), action.BlockHeight)
	require.Equal(t, "Borrowed", action.Method)
	require.Equal(t, "1000000000000", action.Value)
	require.Equal(t, alice+"|100|2024-06-15", action.PositionID)

	row, ok = f.store.get(lending.PositionsTableName, alice+"|100|2024-06-15")
	require.True(t, ok)
	pos := row.(*lending.Position)
	require.Equal(t, uint64(42), pos.BlockHeight)
	// 1000000000000 * 1.02e18 / 1e18
	require.Equal(t, "1020000000000", pos.BorrowBalance)
}

func TestOnEvent_PositionFailureWritesNoAction(t *testing.T) {
	f := newIndexerFixture(t)
	seedAccount(f.chain, alice, 100)
	seedMarket(f.chain, 100)
	f.chain.failingAccounts[accountKey(alice, 100)] = true

	out := f.ix.OnEvent(context.Background(), loans.Event{
		Hash: "0xabc", BlockHeight: 42, Timestamp: utc("2024-06-15T09:12:00Z"),
		Method: "Deposited", Args: []string{alice, "100", "5"},
	})
	require.ErrorIs(t, out.Err, errChainDown)
	require.Empty(t, out.Action)
	require.Zero(t, f.store.count(lending.LendingActionsTableName))
	require.Zero(t, f.store.count(lending.PositionsTableName))
}

func TestOnEvent_LiquidationUpdatesThreePositions(t *testing.T) {
	f := newIndexerFixture(t)
	seedMarket(f.chain, 100)
	seedMarket(f.chain, 1)
	seedAccount(f.chain, alice, 100)
	seedAccount(f.chain, alice, 1)
	seedAccount(f.chain, bob, 1)

	out := f.ix.OnEvent(context.Background(), loans.Event{
		Hash: "0xliq", BlockHeight: 50, Timestamp: utc("2024-06-15T09:30:00Z"),
		Method: "LiquidatedBorrow",
		Args:   []string{bob, alice, "100", "1", "500", "550"},
	})
	require.NoError(t, out.Err)
	require.Equal(t, loans.KindLiquidate, out.Kind)
	require.Len(t, out.Positions, 3)
	require.Equal(t, 3, f.store.count(lending.PositionsTableName))

	row, ok := f.store.get(lending.LiquidatedEventsTableName, "0xliq")
	require.True(t, ok)
	liq := row.(*lending.LiquidatedEvent)
	require.Equal(t, alice+"|100|2024-06-15", liq.BorrowerPositionID)
	require.Equal(t, alice+"|1|2024-06-15", liq.CollateralPositionID)
	require.Equal(t, bob+"|1|2024-06-15", liq.LiquidatorPositionID)
	require.Equal(t, "500", liq.RepayAmount)
	require.Equal(t, "550", liq.CollateralAmount)
}

func TestOnEvent_LiquidationSameAssetResolvesPairOnce(t *testing.T) {
	f := newIndexerFixture(t)
	seedMarket(f.chain, 1)
	seedAccount(f.chain, alice, 1)
	seedAccount(f.chain, bob, 1)

	out := f.ix.OnEvent(context.Background(), loans.Event{
		Hash: "0xliq", BlockHeight: 50, Timestamp: utc("2024-06-15T09:30:00Z"),
		Method: "LiquidatedBorrow",
		Args:   []string{bob, alice, "1", "1", "500", "550"},
	})
	require.NoError(t, out.Err)
	require.Len(t, out.Positions, 2)

	row, _ := f.store.get(lending.LiquidatedEventsTableName, "0xliq")
	liq := row.(*lending.LiquidatedEvent)
	require.Equal(t, liq.BorrowerPositionID, liq.CollateralPositionID)
}

func TestOnEvent_MarketEventWritesMarketAction(t *testing.T) {
	f := newIndexerFixture(t)

	out := f.ix.OnEvent(context.Background(), loans.Event{
		Hash: "0xmkt", BlockHeight: 3, Timestamp: utc("2024-06-15T09:30:00Z"),
		Method: "NewMarket", Args: []string{bob, "100"},
	})
	require.NoError(t, out.Err)
	row, ok := f.store.get(lending.MarketActionsTableName, "0xmkt")
	require.True(t, ok)
	require.Equal(t, uint32(100), row.(*lending.MarketAction).AssetID)
	require.Zero(t, f.chain.calls.Load())
}

func TestOnEvent_NonMaterializedKinds(t *testing.T) {
	f := newIndexerFixture(t)
	for _, ev := range []loans.Event{
		{Hash: "0x1", Method: "SomeRandomEvent"},
		{Hash: "0x2", Method: "CollateralAssetAdded", Args: []string{alice, "100"}},
		{Hash: "0x3", Method: "ReservesAdded", Args: []string{bob, "100", "10", "1234"}},
	} {
		out := f.ix.OnEvent(context.Background(), ev)
		require.NoError(t, out.Err, ev.Method)
		require.Empty(t, out.Action)
	}
	require.Zero(t, f.chain.calls.Load())
	require.Zero(t, f.store.rows.Size())
}

func TestOnEvent_MalformedEventIsReported(t *testing.T) {
	f := newIndexerFixture(t)
	for _, args := range [][]string{
		{alice},
		{alice, "not-a-number", "5"},
		{alice, "100", "-5"},
	} {
		out := f.ix.OnEvent(context.Background(), loans.Event{Hash: "0xbad", Method: "Redeemed", Args: args})
		require.ErrorIs(t, out.Err, loans.ErrMalformedEvent)
	}
	require.Zero(t, f.store.rows.Size())
}

func TestOnBlock_SkippedBlockMakesNoChainCalls(t *testing.T) {
	f := newIndexerFixture(t)
	f.chain.assetIDs = []uint32{1}
	seedMarket(f.chain, 1)

	out := f.ix.OnBlock(context.Background(), loans.Block{
		Height:    10,
		Timestamp: schedulerNow.Add(-40 * 24 * time.Hour),
	})
	require.False(t, out.Decision.Run)
	require.Nil(t, out.Result)
	require.Zero(t, f.chain.calls.Load())
	require.Zero(t, f.store.rows.Size())
}

func TestOnBlock_SnapshotPass(t *testing.T) {
	f := newIndexerFixture(t)
	f.chain.assetIDs = []uint32{1, 100}
	f.chain.accrued = 1718442000
	seedMarket(f.chain, 1)
	seedMarket(f.chain, 100)

	out := f.ix.OnBlock(context.Background(), loans.Block{
		Height:    99,
		Timestamp: schedulerNow.Add(-30 * time.Second),
	})
	require.NoError(t, out.Err)
	require.True(t, out.Decision.Run)
	require.Equal(t, loans.Blockly, out.Decision.Policy)
	require.Equal(t, 2, out.Assets)
	require.NoError(t, out.Result.WaitWrites())

	for _, id := range []string{"99-1", "99-100"} {
		for _, table := range []string{
			lending.AssetConfiguresTableName,
			lending.MarketConfiguresTableName,
			lending.MarketMetasTableName,
			lending.MarketSnapshotsTableName,
		} {
			_, ok := f.store.get(table, id)
			require.True(t, ok, "%s %s", table, id)
		}
	}
	row, ok := f.store.get(lending.LastAccruedTimestampsTableName, "99")
	require.True(t, ok)
	require.Equal(t, uint64(1718442000), row.(*lending.LastAccruedTimestamp).LastAccruedTimestamp)
	require.Equal(t, []uint64{99}, f.chain.seenHeights())
}
