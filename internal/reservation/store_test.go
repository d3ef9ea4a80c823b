package reservation

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"tls-constraints/internal/config"
	"tls-constraints/internal/csr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTableOwner(t *testing.T) {
	table := NewTable()
	table.DNS["api.example.com"] = "tenant-1"
	table.IP["10.0.0.1"] = "tenant-2"
	table.OID["1.2.3.4"] = "tenant-3"

	tests := []struct {
		name      string
		kind      Kind
		value     string
		wantOwner string
		wantFound bool
	}{
		{"dns hit", KindDNS, "api.example.com", "tenant-1", true},
		{"dns miss", KindDNS, "other.example.com", "", false},
		{"ip hit", KindIP, "10.0.0.1", "tenant-2", true},
		{"oid hit", KindOID, "1.2.3.4", "tenant-3", true},
		{"kind mismatch", KindIP, "api.example.com", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, found := table.Owner(tt.kind, tt.value)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.wantOwner, owner)
		})
	}
}

func TestReserveMergesWithExistingEntries(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	require.NoError(t, store.Put(ctx, Table{
		DNS: map[string]string{"existing.example.com": "tenant-0"},
	}))

	details := &csr.Details{
		DNSNames:    []string{"api.example.com"},
		IPAddresses: []string{"10.0.0.1"},
		OIDs:        []string{"1.3.6.1.4.1.999"},
	}
	require.NoError(t, Reserve(ctx, store, details, "tenant-1"))

	table, err := store.Get(ctx)
	require.NoError(t, err)

	assert.Equal(t, "tenant-0", table.DNS["existing.example.com"])
	assert.Equal(t, "tenant-1", table.DNS["api.example.com"])
	assert.Equal(t, "tenant-1", table.IP["10.0.0.1"])
	assert.Equal(t, "tenant-1", table.OID["1.3.6.1.4.1.999"])
}

func TestReserveIsIdempotentForSameOwner(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	details := &csr.Details{DNSNames: []string{"api.example.com"}}
	require.NoError(t, Reserve(ctx, store, details, "tenant-1"))

	before, err := store.Get(ctx)
	require.NoError(t, err)

	require.NoError(t, Reserve(ctx, store, details, "tenant-1"))

	after, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestReserveNeverRecordsCommonNames(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	details := &csr.Details{
		CommonNames: []string{"cn.example.com"},
		DNSNames:    []string{"api.example.com"},
	}
	require.NoError(t, Reserve(ctx, store, details, "tenant-1"))

	table, err := store.Get(ctx)
	require.NoError(t, err)

	_, found := table.Owner(KindDNS, "cn.example.com")
	assert.False(t, found)
}

func TestMemStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	table, err := store.Get(ctx)
	require.NoError(t, err)
	table.DNS["sneaky.example.com"] = "tenant-x"

	fresh, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, fresh.DNS)
}

func TestNewStoreSelectsBackend(t *testing.T) {
	t.Run("memory by default", func(t *testing.T) {
		cfg := &config.Config{}
		store, err := NewStore(cfg, discardLogger(), nil)
		require.NoError(t, err)
		assert.IsType(t, &MemStore{}, store)
	})

	t.Run("redis requires client", func(t *testing.T) {
		cfg := &config.Config{Store: config.StoreConfig{Type: "redis"}}
		_, err := NewStore(cfg, discardLogger(), nil)
		require.Error(t, err)
	})
}
