package tablestore

import (
	"context"
	"errors"
	"testing"

	"github.com/opaldb/opal/storage"
)

func TestMemTableStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	ts := NewMemTableStore()

	table := storage.NewMemTable("events")
	if err := ts.PutTable(ctx, table, false); err != nil {
		t.Fatal(err)
	}

	got, err := ts.GetTable(ctx, "events")
	if err != nil {
		t.Fatal(err)
	}
	if got != storage.Table(table) {
		t.Fatal("got a different table back")
	}

	_, err = ts.GetTable(ctx, "missing")
	if !errors.Is(err, ErrTableNotFound) {
		t.Fatalf("expected ErrTableNotFound, got %v", err)
	}
}

func TestMemTableStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	ts := NewMemTableStore()

	if err := ts.PutTable(ctx, storage.NewMemTable("events"), false); err != nil {
		t.Fatal(err)
	}
	err := ts.PutTable(ctx, storage.NewMemTable("events"), false)
	if !errors.Is(err, ErrTableAlreadyExists) {
		t.Fatalf("expected ErrTableAlreadyExists, got %v", err)
	}
	if err := ts.PutTable(ctx, storage.NewMemTable("events"), true); err != nil {
		t.Fatal(err)
	}
}

func TestMemTableStoreGetOrCreate(t *testing.T) {
	ctx := context.Background()
	ts := NewMemTableStore()

	first, err := ts.GetOrCreateMemTable(ctx, "events")
	if err != nil {
		t.Fatal(err)
	}
	second, err := ts.GetOrCreateMemTable(ctx, "events")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatal("expected the same table on the second call")
	}

	names, err := ts.ListTables(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 || names[0] != "events" {
		t.Fatalf("unexpected table list: %v", names)
	}
}

func TestMemTableStoreListSorted(t *testing.T) {
	ctx := context.Background()
	ts := NewMemTableStore()

	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := ts.PutTable(ctx, storage.NewMemTable(name), false); err != nil {
			t.Fatal(err)
		}
	}

	names, err := ts.ListTables(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"alpha", "mid", "zeta"}
	for i, name := range want {
		if names[i] != name {
			t.Fatalf("unexpected order: %v", names)
		}
	}
}
