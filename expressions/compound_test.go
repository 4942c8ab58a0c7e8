package expressions

import (
	"testing"

	"github.com/opaldb/opal/storage"
)

func compoundTestTable(t *testing.T) *storage.MemTable {
	return mustTable(t, "orders", []map[string]any{
		{"country": "DE", "qty": 1.0},
		{"country": "DE", "qty": 5.0},
		{"country": "US", "qty": 5.0},
	})
}

func TestAndExpression(t *testing.T) {
	table := compoundTestTable(t)

	expr := NewAndExpression(
		NewEqualsExpressionByName[string](0, "country", "DE"),
		NewEqualsExpressionByName[float64](0, "qty", 5),
	)
	if err := expr.Walk([]storage.Table{table}); err != nil {
		t.Fatal(err)
	}

	want := []bool{false, true, false}
	for row, expected := range want {
		if got := expr.Evaluate(uint64(row)); got != expected {
			t.Fatalf("row %d: got %v, want %v", row, got, expected)
		}
	}
}

func TestOrExpression(t *testing.T) {
	table := compoundTestTable(t)

	expr := NewOrExpression(
		NewEqualsExpressionByName[string](0, "country", "US"),
		NewEqualsExpressionByName[float64](0, "qty", 1),
	)
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

func TestNotExpression(t *testing.T) {
	table := compoundTestTable(t)

	expr := NewNotExpression(NewEqualsExpressionByName[string](0, "country", "DE"))
	if err := expr.Walk([]storage.Table{table}); err != nil {
		t.Fatal(err)
	}

	want := []bool{false, false, true}
	for row, expected := range want {
		if got := expr.Evaluate(uint64(row)); got != expected {
			t.Fatalf("row %d: got %v, want %v", row, got, expected)
		}
	}
}

func TestCompoundCloneIsDeep(t *testing.T) {
	table := compoundTestTable(t)

	expr := NewAndExpression(
		NewEqualsExpressionByName[string](0, "country", "DE"),
		NewEqualsExpressionByName[float64](0, "qty", 5),
	)
	if err := expr.Walk([]storage.Table{table}); err != nil {
		t.Fatal(err)
	}

	clone := expr.Clone()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic evaluating an unbound compound clone")
		}
	}()
	clone.Evaluate(0)
}

func TestLessThanExpression(t *testing.T) {
	table := compoundTestTable(t)

	expr := NewLessThanExpressionByName[float64](0, "qty", 5)
	if err := expr.Walk([]storage.Table{table}); err != nil {
		t.Fatal(err)
	}

	want := []bool{true, false, false}
	for row, expected := range want {
		if got := expr.Evaluate(uint64(row)); got != expected {
			t.Fatalf("row %d: got %v, want %v", row, got, expected)
		}
	}
}

func TestGreaterThanExpression(t *testing.T) {
	table := compoundTestTable(t)

	expr := NewGreaterThanExpressionByName[float64](0, "qty", 1)
	if err := expr.Walk([]storage.Table{table}); err != nil {
		t.Fatal(err)
	}

	want := []bool{false, true, true}
	for row, expected := range want {
		if got := expr.Evaluate(uint64(row)); got != expected {
			t.Fatalf("row %d: got %v, want %v", row, got, expected)
		}
	}
}

func TestGreaterThanOnStrings(t *testing.T) {
	table := compoundTestTable(t)

	expr := NewGreaterThanExpressionByName[string](0, "country", "DE")
	if err := expr.Walk([]storage.Table{table}); err != nil {
		t.Fatal(err)
	}

	want := []bool{false, false, true}
	for row, expected := range want {
		if got := expr.Evaluate(uint64(row)); got != expected {
			t.Fatalf("row %d: got %v, want %v", row, got, expected)
		}
	}
}
