package access

import (
	"context"
	"fmt"

	"github.com/opaldb/opal/storage"
)

func init() {
	RegisterPlanOperation("ProjectionScan", parseProjectionScan)
}

// ProjectionScan narrows its input table to a subset of fields, output rows
// are untouched. Fields may be addressed by name or by index.
type ProjectionScan struct {
	BasePlanOperation
	fieldNames []string
	fieldIdxs  []int
}

func NewProjectionScan(fieldNames []string) *ProjectionScan {
	op := &ProjectionScan{
		fieldNames: fieldNames,
	}
	op.BasePlanOperation = newBasePlanOperation(op.execute)
	return op
}

func NewProjectionScanByIndex(fields []int) *ProjectionScan {
	op := &ProjectionScan{
		fieldIdxs: fields,
	}
	op.BasePlanOperation = newBasePlanOperation(op.execute)
	return op
}

func (p *ProjectionScan) execute(ctx context.Context, inputs []storage.Table) (storage.Table, error) {
	if len(inputs) == 0 || inputs[0] == nil {
		return nil, fmt.Errorf("%w: projection needs one input", ErrMissingInput)
	}
	input := inputs[0]

	fields := p.fieldIdxs
	if p.fieldNames != nil {
		fields = make([]int, len(p.fieldNames))
		for i, name := range p.fieldNames {
			field, err := input.FieldIndex(name)
			if err != nil {
				return nil, fmt.Errorf("error resolving projected field: %w", err)
			}
			fields[i] = field
		}
	}
	for _, field := range fields {
		if field < 0 || field >= input.FieldCount() {
			return nil, fmt.Errorf("%w: projected field %d with %d fields", storage.ErrFieldNotFound, field, input.FieldCount())
		}
	}
	return storage.NewProjectedTable(input, fields), nil
}

func parseProjectionScan(payload map[string]any) (PlanOperation, error) {
	raw, ok := payload["fields"].([]any)
	if !ok || len(raw) == 0 {
		return nil, fmt.Errorf("%w: missing 'fields' list", ErrMalformedOperator)
	}

	switch raw[0].(type) {
	case string:
		names := make([]string, len(raw))
		for i, f := range raw {
			name, ok := f.(string)
			if !ok {
				return nil, fmt.Errorf("%w: mixed field kinds in 'fields'", ErrMalformedOperator)
			}
			names[i] = name
		}
		return NewProjectionScan(names), nil
	case float64:
		fields := make([]int, len(raw))
		for i, f := range raw {
			idx, ok := f.(float64)
			if !ok {
				return nil, fmt.Errorf("%w: mixed field kinds in 'fields'", ErrMalformedOperator)
			}
			fields[i] = int(idx)
		}
		return NewProjectionScanByIndex(fields), nil
	default:
		return nil, fmt.Errorf("%w: 'fields' entries must be names or indexes", ErrMalformedOperator)
	}
}
