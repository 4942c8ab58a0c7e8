package expressions

import (
	"errors"
	"fmt"

	"github.com/opaldb/opal/storage"
)

var (
	ErrInputOutOfRange        = errors.New("expression input slot is out of range")
	ErrDictionaryTypeMismatch = errors.New("column dictionary does not match the expression's value type")
)

type (
	// Expression is a row predicate over one input table. It is constructed
	// unbound, bound exactly once to concrete tables via Walk, and evaluated
	// any number of times afterwards. Evaluating before Walk is a framework
	// bug and panics.
	Expression interface {
		Walk(tables []storage.Table) error
		Evaluate(row uint64) bool
		// Clone returns an unbound copy carrying the same slot, field and
		// value configuration, for rebinding against another partition
		Clone() Expression
	}

	// SimpleFieldExpression holds the field reference shared by all
	// single-field predicates: an input slot plus a field (by index or by
	// name), or a direct table handle that skips the slot indirection.
	SimpleFieldExpression struct {
		input     int
		field     int
		fieldName string
		byName    bool
		direct    storage.Table

		// resolved by Walk
		table storage.Table
		bound bool
	}
)

func newFieldExpression(input, field int) SimpleFieldExpression {
	return SimpleFieldExpression{
		input: input,
		field: field,
	}
}

func newFieldExpressionByName(input int, fieldName string) SimpleFieldExpression {
	return SimpleFieldExpression{
		input:     input,
		fieldName: fieldName,
		byName:    true,
	}
}

func newFieldExpressionOnTable(table storage.Table, field int) SimpleFieldExpression {
	return SimpleFieldExpression{
		direct: table,
		field:  field,
	}
}

// Walk resolves the table from the slot list and the field name to an index.
// Calling it again re-resolves from scratch.
func (e *SimpleFieldExpression) Walk(tables []storage.Table) error {
	e.bound = false
	if e.direct != nil {
		e.table = e.direct
	} else {
		if e.input < 0 || e.input >= len(tables) {
			return fmt.Errorf("%w: slot %d with %d input tables", ErrInputOutOfRange, e.input, len(tables))
		}
		e.table = tables[e.input]
	}
	if e.byName {
		field, err := e.table.FieldIndex(e.fieldName)
		if err != nil {
			return fmt.Errorf("error resolving field name: %w", err)
		}
		e.field = field
	}
	e.bound = true
	return nil
}

// boundTable is the per-row entry point into the bound table. Evaluation
// before binding is unrecoverable by design.
func (e *SimpleFieldExpression) boundTable() storage.Table {
	if !e.bound {
		panic("expression evaluated before walk")
	}
	return e.table
}

// cloneConfig copies the slot/field/table configuration without any bind state.
func (e *SimpleFieldExpression) cloneConfig() SimpleFieldExpression {
	return SimpleFieldExpression{
		input:     e.input,
		field:     e.field,
		fieldName: e.fieldName,
		byName:    e.byName,
		direct:    e.direct,
	}
}
