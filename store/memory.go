package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"ytimport/schema"
)

// MemoryStore is an in-process TableStore used by tests and dry runs.
type MemoryStore struct {
	mu     sync.Mutex
	tables map[string]*memoryTable
}

type memoryTable struct {
	fields []schema.ExistingField
	rows   []Fields
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string]*memoryTable)}
}

// EnsureTable creates the table with its primary field if missing.
func (m *MemoryStore) EnsureTable(_ context.Context, table string, primary schema.FieldSpec) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tables[table]; ok {
		return nil
	}
	if _, err := schema.OptionsFor(primary.Kind); err != nil {
		return &StoreError{Op: "ensure table", Entity: table, Err: err}
	}
	m.tables[table] = &memoryTable{
		fields: []schema.ExistingField{{Name: primary.Name, Kind: primary.Kind}},
	}
	return nil
}

// ListFields reports the table's fields.
func (m *MemoryStore) ListFields(_ context.Context, table string) ([]schema.ExistingField, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tables[table]
	if !ok {
		return nil, &StoreError{Op: "list fields", Entity: table, Err: ErrTableNotFound}
	}
	out := make([]schema.ExistingField, len(t.fields))
	copy(out, t.fields)
	return out, nil
}

// CreateField adds a field; duplicate names are invalid input.
func (m *MemoryStore) CreateField(_ context.Context, table string, spec schema.FieldSpec) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tables[table]
	if !ok {
		return &StoreError{Op: "create field", Entity: table, Err: ErrTableNotFound}
	}
	if _, err := schema.OptionsFor(spec.Kind); err != nil {
		return &StoreError{Op: "create field", Entity: spec.Name, Err: err}
	}
	for _, f := range t.fields {
		if f.Name == spec.Name {
			return &StoreError{Op: "create field", Entity: spec.Name, Err: fmt.Errorf("%w: duplicate field", ErrInvalidInput)}
		}
	}
	t.fields = append(t.fields, schema.ExistingField{Name: spec.Name, Kind: spec.Kind})
	return nil
}

// UpdateFieldChoices appends choices to a select field.
func (m *MemoryStore) UpdateFieldChoices(_ context.Context, table, fieldName string, add []schema.Choice) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tables[table]
	if !ok {
		return &StoreError{Op: "update choices", Entity: table, Err: ErrTableNotFound}
	}
	for i := range t.fields {
		if t.fields[i].Name != fieldName {
			continue
		}
		t.fields[i].Choices = append(t.fields[i].Choices, add...)
		return nil
	}
	return &StoreError{Op: "update choices", Entity: fieldName, Err: ErrFieldNotFound}
}

// CreateRecords appends rows and mints ids for them.
func (m *MemoryStore) CreateRecords(_ context.Context, table string, rows []Fields) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tables[table]
	if !ok {
		return nil, &StoreError{Op: "create records", Entity: table, Err: ErrTableNotFound}
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		t.rows = append(t.rows, row)
		ids = append(ids, "rec"+uuid.NewString())
	}
	return ids, nil
}

// Rows returns a copy of the table's rows, for assertions.
func (m *MemoryStore) Rows(table string) []Fields {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tables[table]
	if !ok {
		return nil
	}
	out := make([]Fields, len(t.rows))
	copy(out, t.rows)
	return out
}
