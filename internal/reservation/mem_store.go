package reservation

import (
	"context"
	"sync"
)

// MemStore is an in-process reservation table, used in tests and as a
// single-instance fallback when no shared collaborator is configured.
type MemStore struct {
	mutex sync.RWMutex
	table Table
}

func NewMemStore() *MemStore {
	return &MemStore{
		table: NewTable(),
	}
}

func (s *MemStore) Get(ctx context.Context) (Table, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return copyTable(s.table), nil
}

func (s *MemStore) Put(ctx context.Context, table Table) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	table.ensureMaps()
	s.table = copyTable(table)
	return nil
}

func copyTable(t Table) Table {
	out := NewTable()
	for k, v := range t.DNS {
		out.DNS[k] = v
	}
	for k, v := range t.IP {
		out.IP[k] = v
	}
	for k, v := range t.OID {
		out.OID[k] = v
	}
	return out
}
