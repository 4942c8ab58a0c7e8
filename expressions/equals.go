package expressions

import (
	"fmt"

	"github.com/opaldb/opal/storage"
)

// EqualsExpression tests one field for equality with a literal value. Walk
// resolves the literal against the column's dictionary exactly once; after
// that every row costs one ValueID fetch and one integer comparison. A
// literal that is absent from the dictionary can never match, so evaluation
// short-circuits to false without touching the table.
type EqualsExpression[T comparable] struct {
	SimpleFieldExpression
	value T

	valueID     storage.ValueID
	valueExists bool
}

func NewEqualsExpression[T comparable](input, field int, value T) *EqualsExpression[T] {
	return &EqualsExpression[T]{
		SimpleFieldExpression: newFieldExpression(input, field),
		value:                 value,
	}
}

func NewEqualsExpressionByName[T comparable](input int, fieldName string, value T) *EqualsExpression[T] {
	return &EqualsExpression[T]{
		SimpleFieldExpression: newFieldExpressionByName(input, fieldName),
		value:                 value,
	}
}

func NewEqualsExpressionOnTable[T comparable](table storage.Table, field int, value T) *EqualsExpression[T] {
	return &EqualsExpression[T]{
		SimpleFieldExpression: newFieldExpressionOnTable(table, field),
		value:                 value,
	}
}

func (e *EqualsExpression[T]) Walk(tables []storage.Table) error {
	e.valueExists = false
	if err := e.SimpleFieldExpression.Walk(tables); err != nil {
		return err
	}
	dict, ok := e.table.DictionaryAt(e.field).(storage.Dictionary[T])
	if !ok {
		// a failed re-walk must not leave the previous binding live
		e.bound = false
		return fmt.Errorf("%w: field %q of table %q", ErrDictionaryTypeMismatch, e.table.FieldName(e.field), e.table.Name())
	}
	e.valueID = dict.FindValueIDForValue(e.value)
	e.valueExists = e.valueID != storage.NotFoundValueID
	return nil
}

func (e *EqualsExpression[T]) Evaluate(row uint64) bool {
	table := e.boundTable()
	return e.valueExists && table.ValueIDAt(e.field, row) == e.valueID
}

func (e *EqualsExpression[T]) Clone() Expression {
	return &EqualsExpression[T]{
		SimpleFieldExpression: e.cloneConfig(),
		value:                 e.value,
	}
}
