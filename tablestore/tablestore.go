package tablestore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/opaldb/opal/gologger"
	"github.com/opaldb/opal/storage"
	"github.com/opaldb/opal/utils"
)

var (
	logger = gologger.NewLogger()

	ErrTableNotFound      = utils.PermError("table not found")
	ErrTableAlreadyExists = utils.PermError("table already exists")
)

// TableStore is the catalog of named tables the engine can execute against.
type TableStore interface {
	// GetTable returns the named table, or ErrTableNotFound.
	GetTable(ctx context.Context, name string) (storage.Table, error)

	// PutTable registers a table under its name. With overwrite false an
	// existing name returns ErrTableAlreadyExists.
	PutTable(ctx context.Context, table storage.Table, overwrite bool) error

	// ListTables returns the registered table names in sorted order.
	ListTables(ctx context.Context) ([]string, error)

	Shutdown(ctx context.Context) error
}

// MemTableStore keeps the catalog in process memory.
type MemTableStore struct {
	mu     sync.RWMutex
	tables map[string]storage.Table
}

func NewMemTableStore() *MemTableStore {
	return &MemTableStore{
		tables: map[string]storage.Table{},
	}
}

func (m *MemTableStore) GetTable(ctx context.Context, name string) (storage.Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	table, ok := m.tables[name]
	if !ok {
		return nil, fmt.Errorf("error getting table '%s': %w", name, ErrTableNotFound)
	}
	return table, nil
}

func (m *MemTableStore) PutTable(ctx context.Context, table storage.Table, overwrite bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.tables[table.Name()]; exists && !overwrite {
		return fmt.Errorf("error putting table '%s': %w", table.Name(), ErrTableAlreadyExists)
	}
	m.tables[table.Name()] = table
	return nil
}

// GetOrCreateMemTable returns the named table if registered, creating and
// registering an empty MemTable otherwise.
func (m *MemTableStore) GetOrCreateMemTable(ctx context.Context, name string) (storage.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if table, ok := m.tables[name]; ok {
		return table, nil
	}
	table := storage.NewMemTable(name)
	m.tables[name] = table
	logger.Debug().Str("table", name).Msg("created table")
	return table, nil
}

func (m *MemTableStore) ListTables(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.tables))
	for name := range m.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *MemTableStore) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables = map[string]storage.Table{}
	return nil
}
