package access

import (
	"context"
	"fmt"

	"github.com/opaldb/opal/storage"
	"github.com/opaldb/opal/tablestore"
	"github.com/opaldb/opal/utils"
)

func init() {
	RegisterPlanOperation("TableLoad", parseTableLoad)
}

var (
	ErrNoTableStore      = utils.PermError("no table store configured")
	ErrMalformedOperator = utils.PermError("malformed operator payload")

	defaultTableStore tablestore.TableStore
)

// SetDefaultTableStore wires the catalog TableLoad operations resolve names
// against. Called once at boot before any plan runs.
func SetDefaultTableStore(ts tablestore.TableStore) {
	defaultTableStore = ts
}

// TableLoad resolves a named table from the table store. It takes no inputs
// and is the leaf of every plan that reads stored data.
type TableLoad struct {
	BasePlanOperation
	tableName string
}

func NewTableLoad(tableName string) *TableLoad {
	op := &TableLoad{
		tableName: tableName,
	}
	op.BasePlanOperation = newBasePlanOperation(func(ctx context.Context, inputs []storage.Table) (storage.Table, error) {
		if defaultTableStore == nil {
			return nil, ErrNoTableStore
		}
		table, err := defaultTableStore.GetTable(ctx, op.tableName)
		if err != nil {
			return nil, fmt.Errorf("error loading table: %w", err)
		}
		return table, nil
	})
	return op
}

func parseTableLoad(payload map[string]any) (PlanOperation, error) {
	name, ok := payload["table"].(string)
	if !ok || name == "" {
		return nil, fmt.Errorf("%w: missing 'table' name", ErrMalformedOperator)
	}
	return NewTableLoad(name), nil
}
