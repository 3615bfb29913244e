package market

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hxuan190/fundswap/internal/domain"
)

const seed = `
slot: 7
tokens:
  - id: 0
    mint: EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v
    pdaAccount: TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA
    oraclePriceFeed: MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr
    decimals: 6
  - id: 1
    mint: So11111111111111111111111111111111111111112
    pdaAccount: metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s
    oraclePriceFeed: whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc
    decimals: 6
prices:
  - {tokenId: 0, price: "1"}
  - {tokenId: 1, price: "2"}
funds:
  - address: 9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin
    manager: JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4
    hostWallet: SysvarRent111111111111111111111111111111111
    holdings:
      - {tokenId: 0, amount: 1000000000, targetWeight: 1}
      - {tokenId: 1, amount: 500000000, targetWeight: 1}
    weightSum: 2
    rebalanceThreshold: 10000
    lpOffsetThreshold: 10000
`

func writeSeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestSnapshotStoreEmpty(t *testing.T) {
	store := NewSnapshotStore()

	_, err := store.Current()
	assert.ErrorIs(t, err, ErrNoSnapshot)
	assert.Equal(t, Stats{}, store.Stats())
}

func TestSnapshotStoreUpdate(t *testing.T) {
	store := NewSnapshotStore()
	snap := &domain.Snapshot{
		Slot:   42,
		Tokens: domain.TokenTable{{ID: 0, Decimals: 6, IsBaseAsset: true}},
		Prices: domain.PriceTable{{Price: 1_000_000}},
	}
	require.NoError(t, store.Update(snap))

	view, err := store.Current()
	require.NoError(t, err)
	assert.Same(t, snap, view.Snapshot)
	assert.NotNil(t, view.Quoter)
	assert.False(t, snap.UpdatedAt.IsZero(), "missing update time is stamped")

	st := store.Stats()
	assert.True(t, st.Ready)
	assert.Equal(t, uint64(42), st.Slot)
	assert.Equal(t, 1, st.Tokens)
	assert.Equal(t, uint64(1), st.Updates)
}

func TestSnapshotStoreRejectsInvalid(t *testing.T) {
	store := NewSnapshotStore()
	good := &domain.Snapshot{Slot: 1}
	require.NoError(t, store.Update(good))

	assert.ErrorIs(t, store.Update(nil), domain.ErrInvalidSnapshot)
	bad := &domain.Snapshot{Slot: 2, Tokens: domain.TokenTable{{ID: 3}}}
	assert.ErrorIs(t, store.Update(bad), domain.ErrInvalidSnapshot)

	view, err := store.Current()
	require.NoError(t, err)
	assert.Same(t, good, view.Snapshot, "a rejected update keeps the current snapshot")
}

func TestSnapshotStoreConcurrentReaders(t *testing.T) {
	store := NewSnapshotStore()
	require.NoError(t, store.Update(&domain.Snapshot{Slot: 1}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				view, err := store.Current()
				if err != nil || view.Snapshot == nil || view.Quoter == nil {
					t.Error("reader saw an incomplete view")
					return
				}
			}
		}()
	}
	for slot := uint64(2); slot < 50; slot++ {
		require.NoError(t, store.Update(&domain.Snapshot{Slot: slot}))
	}
	wg.Wait()
	assert.Equal(t, uint64(49), store.Stats().Slot)
}

func TestRefresherLoadsIntoStore(t *testing.T) {
	store := NewSnapshotStore()
	path := writeSeed(t, seed)
	r := NewRefresher(path, "", store.Update)

	require.NoError(t, r.Refresh())
	require.NoError(t, r.LastError())

	view, err := store.Current()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), view.Snapshot.Slot)

	route, err := view.Quoter.BestRoute(view.Snapshot.Funds, 0, 1, decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.True(t, route.Found())
	assert.Equal(t, solana.MustPublicKeyFromBase58("9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"), route.SwapAccounts.FundState)
}

func TestRefresherSkipsUnchangedFile(t *testing.T) {
	path := writeSeed(t, seed)
	calls := 0
	r := NewRefresher(path, "", func(*domain.Snapshot) error {
		calls++
		return nil
	})

	require.NoError(t, r.load(false))
	require.NoError(t, r.load(false))
	assert.Equal(t, 1, calls)

	require.NoError(t, r.Refresh())
	assert.Equal(t, 2, calls, "Refresh always reloads")

	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))
	require.NoError(t, r.load(false))
	assert.Equal(t, 3, calls)
}

func TestRefresherErrors(t *testing.T) {
	r := NewRefresher(filepath.Join(t.TempDir(), "missing.yaml"), "", func(*domain.Snapshot) error { return nil })
	assert.Error(t, r.Refresh())
	assert.Error(t, r.LastError())

	sinkErr := errors.New("rejected")
	r = NewRefresher(writeSeed(t, seed), "", func(*domain.Snapshot) error { return sinkErr })
	assert.ErrorIs(t, r.Refresh(), sinkErr)

	r = NewRefresher(writeSeed(t, "tokens: [{id: 5}]"), "", func(*domain.Snapshot) error { return nil })
	assert.Error(t, r.Refresh())
}

func TestRefresherSchedule(t *testing.T) {
	r := NewRefresher(writeSeed(t, seed), "not a schedule", func(*domain.Snapshot) error { return nil })
	assert.Error(t, r.Start())

	idle := NewRefresher(writeSeed(t, seed), "", func(*domain.Snapshot) error { return nil })
	require.NoError(t, idle.Start())
	idle.Stop()

	scheduled := NewRefresher(writeSeed(t, seed), "@every 1h", func(*domain.Snapshot) error { return nil })
	require.NoError(t, scheduled.Start())
	scheduled.Stop()
}

func TestQuoteCache(t *testing.T) {
	cache := NewQuoteCache(2)
	k1 := QuoteKey{Version: 1, From: 0, To: 1, AmountRaw: 100}
	k2 := QuoteKey{Version: 1, From: 0, To: 1, AmountRaw: 200}
	k3 := QuoteKey{Version: 2, From: 0, To: 1, AmountRaw: 100}

	cache.Set(k1, domain.RouteData{ToAmountRaw: 1})
	cache.Set(k2, domain.RouteData{ToAmountRaw: 2})

	got, ok := cache.Get(k1)
	require.True(t, ok)
	assert.Equal(t, uint64(1), got.ToAmountRaw)

	cache.Set(k3, domain.RouteData{ToAmountRaw: 3})
	assert.Equal(t, 2, cache.Size())
	_, ok = cache.Get(k2)
	assert.False(t, ok, "least recently used entry is evicted")
	_, ok = cache.Get(k1)
	assert.True(t, ok)

	cache.Set(k1, domain.RouteData{ToAmountRaw: 10})
	got, _ = cache.Get(k1)
	assert.Equal(t, uint64(10), got.ToAmountRaw)

	cache.Clear()
	assert.Zero(t, cache.Size())
}

func TestNilQuoteCache(t *testing.T) {
	cache := NewQuoteCache(0)
	assert.Nil(t, cache)

	cache.Set(QuoteKey{}, domain.RouteData{ToAmountRaw: 1})
	_, ok := cache.Get(QuoteKey{})
	assert.False(t, ok)
	assert.Zero(t, cache.Size())
}

func TestSnapshotStoreVersions(t *testing.T) {
	store := NewSnapshotStore()
	require.NoError(t, store.Update(&domain.Snapshot{Slot: 1}))
	first, _ := store.Current()
	require.NoError(t, store.Update(&domain.Snapshot{Slot: 1}))
	second, _ := store.Current()
	assert.Greater(t, second.Version, first.Version)
}
