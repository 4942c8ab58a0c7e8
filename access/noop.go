package access

import (
	"context"

	"github.com/opaldb/opal/storage"
)

func init() {
	RegisterPlanOperation("NoOp", parseNoOp)
}

type NoOp struct {
	BasePlanOperation
}

// NewNoOp returns an operation that forwards its first input unchanged. It is
// the only operation that may be executed more than once, as a placeholder for
// plan positions that need a node but no work.
func NewNoOp() *NoOp {
	op := &NoOp{}
	op.BasePlanOperation = newBasePlanOperation(func(ctx context.Context, inputs []storage.Table) (storage.Table, error) {
		if len(inputs) == 0 {
			return nil, nil
		}
		return inputs[0], nil
	})
	op.reentrant = true
	return op
}

// parseNoOp ignores the payload entirely, any well-formed JSON object is fine.
func parseNoOp(payload map[string]any) (PlanOperation, error) {
	return NewNoOp(), nil
}
