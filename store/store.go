// Package store defines the destination table contract the importer writes
// through. Implementations: an Airtable-backed client in the airtable
// sub-package and an in-memory store for tests and dry runs.
package store

import (
	"context"
	"errors"
	"fmt"

	"ytimport/schema"
)

// Sentinel errors for store operations.
var (
	// ErrTableNotFound means the named table does not exist.
	ErrTableNotFound = errors.New("table not found")
	// ErrFieldNotFound means the named field does not exist.
	ErrFieldNotFound = errors.New("field not found")
	// ErrInvalidInput means the caller supplied unusable data.
	ErrInvalidInput = errors.New("invalid input")
)

// StoreError wraps an error with the operation and entity it concerns.
type StoreError struct {
	Op     string
	Entity string
	Err    error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Entity, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Fields is one row's field-name-to-value map.
type Fields map[string]any

// TableStore is the destination table surface the importer needs. All
// mutations are additive: fields are only created, choice sets only grow,
// and records are only inserted.
type TableStore interface {
	// EnsureTable creates the table with the given primary field if it does
	// not already exist.
	EnsureTable(ctx context.Context, table string, primary schema.FieldSpec) error
	// ListFields reports the table's current fields, including choice sets
	// for select fields.
	ListFields(ctx context.Context, table string) ([]schema.ExistingField, error)
	// CreateField adds a field with its canonical options.
	CreateField(ctx context.Context, table string, spec schema.FieldSpec) error
	// UpdateFieldChoices appends choices to a select field's choice set.
	UpdateFieldChoices(ctx context.Context, table, fieldName string, add []schema.Choice) error
	// CreateRecords inserts rows and returns their new record ids.
	CreateRecords(ctx context.Context, table string, rows []Fields) ([]string, error)
}
