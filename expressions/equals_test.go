package expressions

import (
	"errors"
	"fmt"
	"testing"

	"github.com/opaldb/opal/storage"
)

// countingDict is a string dictionary that counts lookups, to prove binding
// does exactly one lookup and evaluation does none.
type countingDict struct {
	values  []string
	lookups int
}

func (d *countingDict) FindValueIDForValue(v string) storage.ValueID {
	d.lookups++
	for i, existing := range d.values {
		if existing == v {
			return storage.ValueID(i)
		}
	}
	return storage.NotFoundValueID
}

func (d *countingDict) ValueForValueID(id storage.ValueID) (string, error) {
	if int(id) >= len(d.values) {
		return "", fmt.Errorf("bad value id %d", id)
	}
	return d.values[id], nil
}

func (d *countingDict) Size() uint64 {
	return uint64(len(d.values))
}

// stubTable is a single-column table over a countingDict.
type stubTable struct {
	dict *countingDict
	ids  []storage.ValueID
}

func (s *stubTable) Name() string                 { return "stub" }
func (s *stubTable) RowCount() uint64             { return uint64(len(s.ids)) }
func (s *stubTable) FieldCount() int              { return 1 }
func (s *stubTable) FieldName(field int) string   { return "col" }
func (s *stubTable) DictionaryAt(field int) any   { return storage.Dictionary[string](s.dict) }
func (s *stubTable) FieldIndex(name string) (int, error) {
	if name == "col" {
		return 0, nil
	}
	return 0, storage.ErrFieldNotFound
}
func (s *stubTable) ValueIDAt(field int, row uint64) storage.ValueID { return s.ids[row] }
func (s *stubTable) ValueAt(field int, row uint64) any {
	v, _ := s.dict.ValueForValueID(s.ids[row])
	return v
}

func mustTable(t *testing.T, name string, rows []map[string]any) *storage.MemTable {
	t.Helper()
	table := storage.NewMemTable(name)
	for _, row := range rows {
		if err := table.AppendRow(row); err != nil {
			t.Fatal(err)
		}
	}
	return table
}

func TestEqualsAbsentValueNeverMatches(t *testing.T) {
	table := &stubTable{
		dict: &countingDict{values: []string{"a", "b"}},
		ids:  []storage.ValueID{0, 1, 0, 1, 0},
	}

	expr := NewEqualsExpression[string](0, 0, "missing")
	if err := expr.Walk([]storage.Table{table}); err != nil {
		t.Fatal(err)
	}
	if table.dict.lookups != 1 {
		t.Fatalf("expected exactly 1 dictionary lookup at walk time, got %d", table.dict.lookups)
	}

	for row := uint64(0); row < table.RowCount(); row++ {
		if expr.Evaluate(row) {
			t.Fatalf("absent value matched row %d", row)
		}
	}
	if table.dict.lookups != 1 {
		t.Fatalf("evaluation must not hit the dictionary, got %d lookups", table.dict.lookups)
	}
}

func TestEqualsPresentValue(t *testing.T) {
	table := mustTable(t, "visits", []map[string]any{
		{"country": "DE", "hits": 2.0},
		{"country": "US", "hits": 5.0},
		{"country": "DE", "hits": 9.0},
	})

	expr := NewEqualsExpressionByName[string](0, "country", "DE")
	if err := expr.Walk([]storage.Table{table}); err != nil {
		t.Fatal(err)
	}

	want := []bool{true, false, true}
	for row, expected := range want {
		if got := expr.Evaluate(uint64(row)); got != expected {
			t.Fatalf("row %d: got %v, want %v", row, got, expected)
		}
	}
}

func TestEqualsFloatColumn(t *testing.T) {
	table := mustTable(t, "visits", []map[string]any{
		{"hits": 2.0},
		{"hits": 5.0},
	})

	expr := NewEqualsExpressionByName[float64](0, "hits", 5)
	if err := expr.Walk([]storage.Table{table}); err != nil {
		t.Fatal(err)
	}
	if expr.Evaluate(0) {
		t.Fatal("row 0 should not match")
	}
	if !expr.Evaluate(1) {
		t.Fatal("row 1 should match")
	}
}

func TestEvaluateBeforeWalkPanics(t *testing.T) {
	expr := NewEqualsExpression[string](0, 0, "x")
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic evaluating an unbound expression")
		}
	}()
	expr.Evaluate(0)
}

func TestCloneIsUnboundAndRebindable(t *testing.T) {
	first := mustTable(t, "first", []map[string]any{
		{"country": "DE"},
		{"country": "US"},
	})
	second := mustTable(t, "second", []map[string]any{
		{"country": "US"},
		{"country": "DE"},
	})

	expr := NewEqualsExpressionByName[string](0, "country", "DE")
	if err := expr.Walk([]storage.Table{first}); err != nil {
		t.Fatal(err)
	}
	if !expr.Evaluate(0) || expr.Evaluate(1) {
		t.Fatal("wrong semantics against first table")
	}

	clone := expr.Clone()

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic evaluating an unbound clone")
			}
		}()
		clone.Evaluate(0)
	}()

	if err := clone.Walk([]storage.Table{second}); err != nil {
		t.Fatal(err)
	}
	if clone.Evaluate(0) || !clone.Evaluate(1) {
		t.Fatal("clone did not reproduce predicate semantics against the second table")
	}

	// the original stays bound to the first table
	if !expr.Evaluate(0) || expr.Evaluate(1) {
		t.Fatal("original expression lost its binding")
	}
}

func TestWalkTypeMismatch(t *testing.T) {
	table := mustTable(t, "visits", []map[string]any{
		{"country": "DE"},
	})

	expr := NewEqualsExpressionByName[float64](0, "country", 1)
	err := expr.Walk([]storage.Table{table})
	if !errors.Is(err, ErrDictionaryTypeMismatch) {
		t.Fatalf("expected ErrDictionaryTypeMismatch, got %v", err)
	}
}

func TestFailedRewalkDropsPreviousBinding(t *testing.T) {
	strTable := mustTable(t, "first", []map[string]any{
		{"v": "a"},
		{"v": "b"},
	})
	floatTable := mustTable(t, "second", []map[string]any{
		{"v": 1.0},
	})

	expr := NewEqualsExpressionByName[string](0, "v", "b")
	if err := expr.Walk([]storage.Table{strTable}); err != nil {
		t.Fatal(err)
	}
	if !expr.Evaluate(1) {
		t.Fatal("wrong semantics against first table")
	}

	err := expr.Walk([]storage.Table{floatTable})
	if !errors.Is(err, ErrDictionaryTypeMismatch) {
		t.Fatalf("expected ErrDictionaryTypeMismatch, got %v", err)
	}

	// the stale binding must not survive the failed re-walk
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic evaluating after a failed re-walk")
		}
	}()
	expr.Evaluate(0)
}

func TestWalkUnknownField(t *testing.T) {
	table := mustTable(t, "visits", []map[string]any{
		{"country": "DE"},
	})

	expr := NewEqualsExpressionByName[string](0, "nope", "DE")
	err := expr.Walk([]storage.Table{table})
	if !errors.Is(err, storage.ErrFieldNotFound) {
		t.Fatalf("expected ErrFieldNotFound, got %v", err)
	}
}

func TestWalkInputSlotOutOfRange(t *testing.T) {
	table := mustTable(t, "visits", []map[string]any{
		{"country": "DE"},
	})

	expr := NewEqualsExpression[string](3, 0, "DE")
	err := expr.Walk([]storage.Table{table})
	if !errors.Is(err, ErrInputOutOfRange) {
		t.Fatalf("expected ErrInputOutOfRange, got %v", err)
	}
}

func TestEqualsOnDirectTable(t *testing.T) {
	table := mustTable(t, "visits", []map[string]any{
		{"country": "DE"},
		{"country": "US"},
	})

	expr := NewEqualsExpressionOnTable[string](table, 0, "US")
	// the slot list is ignored for direct-table expressions
	if err := expr.Walk(nil); err != nil {
		t.Fatal(err)
	}
	if expr.Evaluate(0) || !expr.Evaluate(1) {
		t.Fatal("wrong semantics for direct-table expression")
	}
}
