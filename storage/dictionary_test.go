package storage

import (
	"errors"
	"testing"
)

func TestMapDictionaryRoundTrip(t *testing.T) {
	d := NewMapDictionary[string]()

	a := d.AddValue("a")
	b := d.AddValue("b")
	if a == b {
		t.Fatal("distinct values got the same value id")
	}

	if again := d.AddValue("a"); again != a {
		t.Fatalf("re-adding a value must return its existing id, got %d want %d", again, a)
	}
	if d.Size() != 2 {
		t.Fatalf("expected size 2, got %d", d.Size())
	}

	if got := d.FindValueIDForValue("b"); got != b {
		t.Fatalf("got %d, want %d", got, b)
	}
	v, err := d.ValueForValueID(a)
	if err != nil {
		t.Fatal(err)
	}
	if v != "a" {
		t.Fatalf("got %q, want %q", v, "a")
	}
}

func TestMapDictionaryNotFound(t *testing.T) {
	d := NewMapDictionary[int64]()
	d.AddValue(42)

	if got := d.FindValueIDForValue(7); got != NotFoundValueID {
		t.Fatalf("expected NotFoundValueID, got %d", got)
	}

	_, err := d.ValueForValueID(99)
	if !errors.Is(err, ErrValueIDOutOfRange) {
		t.Fatalf("expected ErrValueIDOutOfRange, got %v", err)
	}
}
