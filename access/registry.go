package access

import (
	"fmt"
	"sort"

	"github.com/opaldb/opal/utils"
)

var (
	ErrUnknownOperator = utils.PermError("unknown operator type")

	// operation parsers by type tag, populated by the init funcs of the
	// operation files. Registering a tag twice replaces the earlier parser.
	operations = map[string]ParseOperationFunc{}
)

// ParseOperationFunc builds an unexecuted operation from its plan payload.
type ParseOperationFunc func(payload map[string]any) (PlanOperation, error)

func RegisterPlanOperation(tag string, parse ParseOperationFunc) {
	operations[tag] = parse
}

func BuildPlanOperation(tag string, payload map[string]any) (PlanOperation, error) {
	parse, ok := operations[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %q, registered: %v", ErrUnknownOperator, tag, RegisteredOperationTypes())
	}
	op, err := parse(payload)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s operation: %w", tag, err)
	}
	return op, nil
}

func RegisteredOperationTypes() []string {
	tags := make([]string, 0, len(operations))
	for tag := range operations {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
