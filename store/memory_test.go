package store

import (
	"context"
	"errors"
	"testing"

	"ytimport/schema"
)

func TestMemoryStoreEnsureTableIdempotent(t *testing.T) {
	s := NewMemoryStore()
	primary := schema.FieldSpec{Name: "Title", Kind: schema.KindSingleLineText}

	if err := s.EnsureTable(context.Background(), "Videos", primary); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}
	if err := s.EnsureTable(context.Background(), "Videos", primary); err != nil {
		t.Fatalf("EnsureTable second call: %v", err)
	}

	fields, err := s.ListFields(context.Background(), "Videos")
	if err != nil {
		t.Fatalf("ListFields: %v", err)
	}
	if len(fields) != 1 || fields[0].Name != "Title" {
		t.Fatalf("unexpected fields after ensure: %+v", fields)
	}
}

func TestMemoryStoreUnknownTable(t *testing.T) {
	s := NewMemoryStore()

	if _, err := s.ListFields(context.Background(), "Nope"); !errors.Is(err, ErrTableNotFound) {
		t.Errorf("ListFields error = %v, want ErrTableNotFound", err)
	}
	if _, err := s.CreateRecords(context.Background(), "Nope", []Fields{{"a": 1}}); !errors.Is(err, ErrTableNotFound) {
		t.Errorf("CreateRecords error = %v, want ErrTableNotFound", err)
	}
}

func TestMemoryStoreCreateField(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	if err := s.EnsureTable(ctx, "Videos", schema.FieldSpec{Name: "Title", Kind: schema.KindSingleLineText}); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}

	spec := schema.FieldSpec{Name: "View Count", Kind: schema.KindNumber}
	if err := s.CreateField(ctx, "Videos", spec); err != nil {
		t.Fatalf("CreateField: %v", err)
	}
	if err := s.CreateField(ctx, "Videos", spec); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("duplicate CreateField error = %v, want ErrInvalidInput", err)
	}

	bad := schema.FieldSpec{Name: "Mystery", Kind: schema.FieldKind("hologram")}
	if err := s.CreateField(ctx, "Videos", bad); !errors.Is(err, schema.ErrUnknownFieldKind) {
		t.Errorf("unknown kind error = %v, want ErrUnknownFieldKind", err)
	}
}

func TestMemoryStoreUpdateFieldChoices(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	if err := s.EnsureTable(ctx, "Videos", schema.FieldSpec{Name: "Title", Kind: schema.KindSingleLineText}); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}
	if err := s.CreateField(ctx, "Videos", schema.FieldSpec{Name: "Video Tags", Kind: schema.KindMultipleSelects}); err != nil {
		t.Fatalf("CreateField: %v", err)
	}

	add := []schema.Choice{{Name: "music", Color: "blueBright"}, {Name: "live", Color: "redBright"}}
	if err := s.UpdateFieldChoices(ctx, "Videos", "Video Tags", add); err != nil {
		t.Fatalf("UpdateFieldChoices: %v", err)
	}

	fields, err := s.ListFields(ctx, "Videos")
	if err != nil {
		t.Fatalf("ListFields: %v", err)
	}
	var tags *schema.ExistingField
	for i := range fields {
		if fields[i].Name == "Video Tags" {
			tags = &fields[i]
		}
	}
	if tags == nil || len(tags.Choices) != 2 {
		t.Fatalf("choices not recorded: %+v", fields)
	}

	if err := s.UpdateFieldChoices(ctx, "Videos", "Missing", add); !errors.Is(err, ErrFieldNotFound) {
		t.Errorf("missing field error = %v, want ErrFieldNotFound", err)
	}
}

func TestMemoryStoreCreateRecords(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	if err := s.EnsureTable(ctx, "Videos", schema.FieldSpec{Name: "Title", Kind: schema.KindSingleLineText}); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}

	rows := []Fields{{"Title": "a"}, {"Title": "b"}, {"Title": "c"}}
	ids, err := s.CreateRecords(ctx, "Videos", rows)
	if err != nil {
		t.Fatalf("CreateRecords: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("got %d ids, want 3", len(ids))
	}
	seen := map[string]bool{}
	for _, id := range ids {
		if seen[id] {
			t.Fatalf("duplicate record id %q", id)
		}
		seen[id] = true
	}
	if got := s.Rows("Videos"); len(got) != 3 || got[1]["Title"] != "b" {
		t.Fatalf("stored rows mismatch: %+v", got)
	}
}
