package access

import (
	"context"
	"fmt"

	"github.com/opaldb/opal/expressions"
	"github.com/opaldb/opal/storage"
	"github.com/opaldb/opal/utils"
)

func init() {
	RegisterPlanOperation("SimpleTableScan", parseSimpleTableScan)
}

var ErrMissingInput = utils.PermError("operation is missing an input table")

// SimpleTableScan filters its input table row by row with a predicate and
// outputs a position-list view of the matching rows. The view shares the
// input's dictionaries, so downstream ValueID comparisons stay valid.
type SimpleTableScan struct {
	BasePlanOperation
	predicate expressions.Expression
}

func NewSimpleTableScan(predicate expressions.Expression) *SimpleTableScan {
	op := &SimpleTableScan{
		predicate: predicate,
	}
	op.BasePlanOperation = newBasePlanOperation(func(ctx context.Context, inputs []storage.Table) (storage.Table, error) {
		if len(inputs) == 0 || inputs[0] == nil {
			return nil, fmt.Errorf("%w: scan needs one input", ErrMissingInput)
		}
		if err := op.predicate.Walk(inputs); err != nil {
			return nil, fmt.Errorf("error binding scan predicate: %w", err)
		}

		input := inputs[0]
		var positions []uint64
		for row := uint64(0); row < input.RowCount(); row++ {
			if op.predicate.Evaluate(row) {
				positions = append(positions, row)
			}
		}
		return storage.NewViewTable(input, positions), nil
	})
	return op
}

func parseSimpleTableScan(payload map[string]any) (PlanOperation, error) {
	desc, ok := payload["predicate"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: missing 'predicate'", ErrMalformedOperator)
	}
	predicate, err := expressions.ParseExpression(desc)
	if err != nil {
		return nil, fmt.Errorf("error parsing scan predicate: %w", err)
	}
	return NewSimpleTableScan(predicate), nil
}
