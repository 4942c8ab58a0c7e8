package access

import (
	"context"
	"errors"
	"testing"

	"github.com/opaldb/opal/storage"
	"github.com/opaldb/opal/tablestore"
)

func ordersTable(t *testing.T) *storage.MemTable {
	t.Helper()
	table := storage.NewMemTable("orders")
	rows := []map[string]any{
		{"country": "DE", "qty": 2.0},
		{"country": "US", "qty": 9.0},
		{"country": "DE", "qty": 9.0},
	}
	for _, row := range rows {
		if err := table.AppendRow(row); err != nil {
			t.Fatal(err)
		}
	}
	return table
}

func TestBuildUnknownOperator(t *testing.T) {
	_, err := BuildPlanOperation("Teleport", map[string]any{})
	if !errors.Is(err, ErrUnknownOperator) {
		t.Fatalf("expected ErrUnknownOperator, got %v", err)
	}
}

func TestRegisterLastWins(t *testing.T) {
	RegisterPlanOperation("registry_test_op", func(payload map[string]any) (PlanOperation, error) {
		return NewNoOp(), nil
	})
	RegisterPlanOperation("registry_test_op", func(payload map[string]any) (PlanOperation, error) {
		return NewTableLoad("replacement"), nil
	})

	op, err := BuildPlanOperation("registry_test_op", map[string]any{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := op.(*TableLoad); !ok {
		t.Fatalf("expected the later registration to win, got %T", op)
	}
}

func TestNoOpForwardsInput(t *testing.T) {
	table := ordersTable(t)

	op := NewNoOp()
	op.AddInput(table)
	if err := op.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}
	if op.Output() != storage.Table(table) {
		t.Fatal("NoOp must forward its input unchanged")
	}

	// NoOp is the one operation that may run again
	if err := op.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}

	if _, err := op.TraceValue(); err != nil {
		t.Fatalf("expected a trace value after execution, got %v", err)
	}
}

func TestNoOpAcceptsAnyPayload(t *testing.T) {
	op, err := BuildPlanOperation("NoOp", map[string]any{"type": "NoOp", "junk": []any{1, 2}})
	if err != nil {
		t.Fatal(err)
	}
	if err := op.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}
	if op.Output() != nil {
		t.Fatal("NoOp with no input should output nil")
	}
}

func TestExecuteTwiceRejected(t *testing.T) {
	op := NewProjectionScan([]string{"qty"})
	op.AddInput(ordersTable(t))
	if err := op.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}
	err := op.Execute(context.Background())
	if !errors.Is(err, ErrAlreadyExecuted) {
		t.Fatalf("expected ErrAlreadyExecuted, got %v", err)
	}
}

func TestTableLoad(t *testing.T) {
	ts := tablestore.NewMemTableStore()
	table := ordersTable(t)
	if err := ts.PutTable(context.Background(), table, false); err != nil {
		t.Fatal(err)
	}
	SetDefaultTableStore(ts)

	op := NewTableLoad("orders")
	if err := op.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}
	if op.Output() != storage.Table(table) {
		t.Fatal("TableLoad should output the stored table")
	}
}

func TestTableLoadMissingTable(t *testing.T) {
	SetDefaultTableStore(tablestore.NewMemTableStore())

	op := NewTableLoad("ghost")
	err := op.Execute(context.Background())
	if !errors.Is(err, tablestore.ErrTableNotFound) {
		t.Fatalf("expected ErrTableNotFound, got %v", err)
	}
}
