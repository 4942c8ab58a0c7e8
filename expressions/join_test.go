package expressions

import (
	"testing"

	"github.com/opaldb/opal/storage"
)

func joinTestTables(t *testing.T) (*storage.MemTable, *storage.MemTable) {
	users := mustTable(t, "users", []map[string]any{
		{"id": "u1", "name": "ada"},
		{"id": "u2", "name": "bob"},
	})
	orders := mustTable(t, "orders", []map[string]any{
		{"user_id": "u2", "qty": 3.0},
		{"user_id": "u3", "qty": 7.0},
	})
	return users, orders
}

func TestEqualsJoinExpression(t *testing.T) {
	users, orders := joinTestTables(t)

	expr := NewEqualsJoinExpressionByName[string](0, "id", 1, "user_id")
	if err := expr.Walk([]storage.Table{users, orders}); err != nil {
		t.Fatal(err)
	}

	if expr.EvaluateRows(0, 0) {
		t.Fatal("u1 should not match order of u2")
	}
	if !expr.EvaluateRows(1, 0) {
		t.Fatal("u2 should match its own order")
	}
	if expr.EvaluateRows(1, 1) {
		t.Fatal("u2 should not match order of u3")
	}
}

func TestJoinEvaluateBeforeWalkPanics(t *testing.T) {
	expr := NewEqualsJoinExpression[string](0, 0, 1, 0)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic evaluating an unbound join expression")
		}
	}()
	expr.EvaluateRows(0, 0)
}

func TestJoinCloneIsUnbound(t *testing.T) {
	users, orders := joinTestTables(t)

	expr := NewEqualsJoinExpressionByName[string](0, "id", 1, "user_id")
	if err := expr.Walk([]storage.Table{users, orders}); err != nil {
		t.Fatal(err)
	}

	clone := expr.Clone()

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic evaluating an unbound join clone")
			}
		}()
		clone.EvaluateRows(0, 0)
	}()

	if err := clone.Walk([]storage.Table{users, orders}); err != nil {
		t.Fatal(err)
	}
	if !clone.EvaluateRows(1, 0) {
		t.Fatal("rebound clone did not reproduce join semantics")
	}
}

func TestAndJoinExpression(t *testing.T) {
	left := mustTable(t, "left", []map[string]any{
		{"a": "x", "b": "1"},
	})
	right := mustTable(t, "right", []map[string]any{
		{"a": "x", "b": "1"},
		{"a": "x", "b": "2"},
	})

	expr := NewAndJoinExpression(
		NewEqualsJoinExpressionByName[string](0, "a", 1, "a"),
		NewEqualsJoinExpressionByName[string](0, "b", 1, "b"),
	)
	if err := expr.Walk([]storage.Table{left, right}); err != nil {
		t.Fatal(err)
	}

	if !expr.EvaluateRows(0, 0) {
		t.Fatal("both clauses match, expected true")
	}
	if expr.EvaluateRows(0, 1) {
		t.Fatal("second clause differs, expected false")
	}
}
