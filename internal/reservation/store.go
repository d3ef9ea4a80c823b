package reservation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tls-constraints/internal/config"
	"tls-constraints/internal/csr"
	"tls-constraints/internal/metrics"
)

// ErrStoreUnavailable is returned when the shared reservation collaborator
// cannot be reached. Admission treats it as a fail-closed condition.
var ErrStoreUnavailable = errors.New("reservation store unavailable")

// Kind is the identifier namespace a reservation lives in.
type Kind string

const (
	KindDNS Kind = "dns"
	KindIP  Kind = "ip"
	KindOID Kind = "oid"
)

// Table is the shared identifier reservation document. Each map binds an
// identifier value to the tenant that first claimed it. Entries are only ever
// added; nothing removes a claim, not even revocation of the owning
// certificate.
type Table struct {
	DNS map[string]string `json:"dns"`
	IP  map[string]string `json:"ip"`
	OID map[string]string `json:"oid"`
}

func NewTable() Table {
	return Table{
		DNS: make(map[string]string),
		IP:  make(map[string]string),
		OID: make(map[string]string),
	}
}

// Owner reports the tenant holding the given identifier, if any.
func (t Table) Owner(kind Kind, value string) (string, bool) {
	var m map[string]string
	switch kind {
	case KindDNS:
		m = t.DNS
	case KindIP:
		m = t.IP
	case KindOID:
		m = t.OID
	}
	owner, ok := m[value]
	return owner, ok
}

func (t *Table) ensureMaps() {
	if t.DNS == nil {
		t.DNS = make(map[string]string)
	}
	if t.IP == nil {
		t.IP = make(map[string]string)
	}
	if t.OID == nil {
		t.OID = make(map[string]string)
	}
}

// Store is the read/write port to the externally persisted reservation
// document.
type Store interface {
	Get(ctx context.Context) (Table, error)
	Put(ctx context.Context, table Table) error
}

// NewStore returns a Store backed by the configured collaborator.
func NewStore(cfg *config.Config, logger *slog.Logger, client RedisClient) (Store, error) {
	switch cfg.Store.Type {
	case metrics.StoreTypeRedis:
		if client == nil {
			return nil, fmt.Errorf("redis reservation store requires a redis client")
		}
		return NewRedisStore(client, logger), nil
	case metrics.StoreTypeMemory:
		fallthrough
	default:
		return NewMemStore(), nil
	}
}

// Reserve merges the SAN identifiers of an admitted CSR into the table under
// the given tenant, preserving unrelated entries. Re-claiming an identifier
// already owned by the same tenant leaves the table unchanged. Subject common
// names are checked during evaluation but never recorded.
func Reserve(ctx context.Context, store Store, details *csr.Details, tenantID string) error {
	table, err := store.Get(ctx)
	if err != nil {
		return err
	}
	table.ensureMaps()

	merge := func(kind Kind, m map[string]string, values []string) {
		for _, v := range values {
			if owner, ok := m[v]; ok && owner == tenantID {
				continue
			}
			m[v] = tenantID
			metrics.ReservationsWrittenTotal.WithLabelValues(string(kind)).Inc()
		}
	}
	merge(KindDNS, table.DNS, details.DNSNames)
	merge(KindIP, table.IP, details.IPAddresses)
	merge(KindOID, table.OID, details.OIDs)

	return store.Put(ctx, table)
}
