package lending

import (
	"context"
	"sync"

	lendingmodels "github.com/loansx/loansx/pkg/db/models/lending"
	"github.com/puzpuzpuz/xsync/v4"
)

// MemoryStore keeps everything in process memory. It implements Store and backs local runs
// without a ClickHouse server (STORE=memory) as well as tests.
type MemoryStore struct {
	rows     *xsync.Map[string, lendingmodels.Entity]
	mu       sync.Mutex
	progress []*lendingmodels.IndexProgress
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: xsync.NewMap[string, lendingmodels.Entity]()}
}

func memoryKey(table, id string) string {
	return table + "/" + id
}

func (m *MemoryStore) DatabaseName() string { return "memory" }

func (m *MemoryStore) InitializeDB(context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) Persist(_ context.Context, entity lendingmodels.Entity) error {
	if _, err := rowValues(entity); err != nil {
		return err
	}
	m.rows.Store(memoryKey(entity.TableName(), entity.EntityID()), entity)
	return nil
}

// Get returns the stored entity of a table by id.
func (m *MemoryStore) Get(table, id string) (lendingmodels.Entity, bool) {
	return m.rows.Load(memoryKey(table, id))
}

// Count returns the number of rows stored in table.
func (m *MemoryStore) Count(table string) int {
	n := 0
	m.rows.Range(func(_ string, e lendingmodels.Entity) bool {
		if e.TableName() == table {
			n++
		}
		return true
	})
	return n
}

func (m *MemoryStore) RecordIndexed(_ context.Context, p *lendingmodels.IndexProgress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progress = append(m.progress, p)
	return nil
}

func (m *MemoryStore) LastIndexed(context.Context) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var h uint64
	for _, p := range m.progress {
		if p.Height > h {
			h = p.Height
		}
	}
	return h, nil
}

// Progress returns a copy of the recorded progress rows in insertion order.
func (m *MemoryStore) Progress() []*lendingmodels.IndexProgress {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*lendingmodels.IndexProgress(nil), m.progress...)
}
