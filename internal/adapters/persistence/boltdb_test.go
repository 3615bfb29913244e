package persistence

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hxuan190/fundswap/internal/domain"
)

func TestStorageSnapshotRoundTrip(t *testing.T) {
	snap, err := ParseSeed([]byte(seedYAML), SeedFormatYAML)
	require.NoError(t, err)
	snap.UpdatedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	snap.Accounts.SwapFeeWallet = solana.MustPublicKeyFromBase58("SysvarC1ock11111111111111111111111111111111")

	path := filepath.Join(t.TempDir(), "nested", "fundswap.db")
	store, err := NewStorage(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveSnapshot(snap))
	require.NoError(t, store.Close())

	reopened, err := NewStorage(path)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.LoadSnapshot()
	require.NoError(t, err)

	assert.Equal(t, snap.Slot, loaded.Slot)
	assert.True(t, snap.UpdatedAt.Equal(loaded.UpdatedAt))
	assert.Equal(t, snap.Accounts, loaded.Accounts)
	assert.Equal(t, snap.Tokens, loaded.Tokens)
	assert.Equal(t, snap.Prices, loaded.Prices)
	assert.Equal(t, snap.Curves, loaded.Curves)
	assert.Equal(t, snap.Funds, loaded.Funds)
}

func TestStorageKeepsLatestSnapshot(t *testing.T) {
	snap, err := ParseSeed([]byte(seedYAML), SeedFormatYAML)
	require.NoError(t, err)

	store, err := NewStorage(filepath.Join(t.TempDir(), "fundswap.db"))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.SaveSnapshot(snap))

	smaller := *snap
	smaller.Slot = snap.Slot + 10
	smaller.Funds = nil
	smaller.Prices = domain.PriceTable{{Price: 1_000_000}, {Price: 99_000_000}}
	require.NoError(t, store.SaveSnapshot(&smaller))

	loaded, err := store.LoadSnapshot()
	require.NoError(t, err)
	assert.Equal(t, smaller.Slot, loaded.Slot)
	assert.Empty(t, loaded.Funds)
	assert.Equal(t, uint64(99_000_000), loaded.Prices[1].Price)
}
