package access

import (
	"context"
	"fmt"

	"github.com/opaldb/opal/expressions"
	"github.com/opaldb/opal/storage"
)

func init() {
	RegisterPlanOperation("JoinScan", parseJoinScan)
}

// JoinScan joins its two input tables with a nested-loop pass over all row
// pairs and materializes the matches into a fresh table. Field names that
// exist on both sides get a `_0` (left) or `_1` (right) appendix so the output
// schema stays unambiguous.
type JoinScan struct {
	BasePlanOperation
	predicate expressions.JoinExpression
}

func NewJoinScan(predicate expressions.JoinExpression) *JoinScan {
	op := &JoinScan{
		predicate: predicate,
	}
	op.BasePlanOperation = newBasePlanOperation(func(ctx context.Context, inputs []storage.Table) (storage.Table, error) {
		if len(inputs) < 2 || inputs[0] == nil || inputs[1] == nil {
			return nil, fmt.Errorf("%w: join needs two inputs", ErrMissingInput)
		}
		if err := op.predicate.Walk(inputs); err != nil {
			return nil, fmt.Errorf("error binding join predicate: %w", err)
		}

		left, right := inputs[0], inputs[1]
		leftNames := joinFieldNames(left, right, "_0")
		rightNames := joinFieldNames(right, left, "_1")

		output := storage.NewMemTable(left.Name() + "_" + right.Name())
		for l := uint64(0); l < left.RowCount(); l++ {
			for r := uint64(0); r < right.RowCount(); r++ {
				if !op.predicate.EvaluateRows(l, r) {
					continue
				}
				row := make(map[string]any, len(leftNames)+len(rightNames))
				for field, name := range leftNames {
					row[name] = left.ValueAt(field, l)
				}
				for field, name := range rightNames {
					row[name] = right.ValueAt(field, r)
				}
				if err := output.AppendRow(row); err != nil {
					return nil, fmt.Errorf("error materializing join row: %w", err)
				}
			}
		}
		return output, nil
	})
	return op
}

// joinFieldNames returns the output name per field of `table`, renaming fields
// whose name also exists on `other` by appending the side's appendix.
func joinFieldNames(table, other storage.Table, appendix string) []string {
	names := make([]string, table.FieldCount())
	for field := range names {
		name := table.FieldName(field)
		if _, err := other.FieldIndex(name); err == nil {
			name += appendix
		}
		names[field] = name
	}
	return names
}

func parseJoinScan(payload map[string]any) (PlanOperation, error) {
	if jtype, ok := payload["jtype"].(string); ok && jtype != "EQUI" {
		return nil, fmt.Errorf("%w: unsupported join type %q", ErrMalformedOperator, jtype)
	}
	desc, ok := payload["predicate"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: missing 'predicate'", ErrMalformedOperator)
	}
	predicate, err := expressions.ParseJoinExpression(desc)
	if err != nil {
		return nil, fmt.Errorf("error parsing join predicate: %w", err)
	}
	return NewJoinScan(predicate), nil
}
