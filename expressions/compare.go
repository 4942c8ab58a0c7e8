package expressions

import (
	"cmp"
	"fmt"

	"github.com/opaldb/opal/storage"
)

// LessThanExpression tests one field against a literal upper bound. Unlike
// equality it cannot compare ValueIDs (the dictionaries are insertion
// ordered), so each row reverse-looks-up its value through the dictionary.
type LessThanExpression[T cmp.Ordered] struct {
	SimpleFieldExpression
	value T

	dict storage.Dictionary[T]
}

func NewLessThanExpression[T cmp.Ordered](input, field int, value T) *LessThanExpression[T] {
	return &LessThanExpression[T]{
		SimpleFieldExpression: newFieldExpression(input, field),
		value:                 value,
	}
}

func NewLessThanExpressionByName[T cmp.Ordered](input int, fieldName string, value T) *LessThanExpression[T] {
	return &LessThanExpression[T]{
		SimpleFieldExpression: newFieldExpressionByName(input, fieldName),
		value:                 value,
	}
}

func (e *LessThanExpression[T]) Walk(tables []storage.Table) error {
	e.dict = nil
	if err := e.SimpleFieldExpression.Walk(tables); err != nil {
		return err
	}
	dict, ok := e.table.DictionaryAt(e.field).(storage.Dictionary[T])
	if !ok {
		e.bound = false
		return fmt.Errorf("%w: field %q of table %q", ErrDictionaryTypeMismatch, e.table.FieldName(e.field), e.table.Name())
	}
	e.dict = dict
	return nil
}

func (e *LessThanExpression[T]) Evaluate(row uint64) bool {
	table := e.boundTable()
	return rowValue(e.dict, table, e.field, row) < e.value
}

func (e *LessThanExpression[T]) Clone() Expression {
	return &LessThanExpression[T]{
		SimpleFieldExpression: e.cloneConfig(),
		value:                 e.value,
	}
}

// GreaterThanExpression is LessThanExpression with the comparison flipped.
type GreaterThanExpression[T cmp.Ordered] struct {
	SimpleFieldExpression
	value T

	dict storage.Dictionary[T]
}

func NewGreaterThanExpression[T cmp.Ordered](input, field int, value T) *GreaterThanExpression[T] {
	return &GreaterThanExpression[T]{
		SimpleFieldExpression: newFieldExpression(input, field),
		value:                 value,
	}
}

func NewGreaterThanExpressionByName[T cmp.Ordered](input int, fieldName string, value T) *GreaterThanExpression[T] {
	return &GreaterThanExpression[T]{
		SimpleFieldExpression: newFieldExpressionByName(input, fieldName),
		value:                 value,
	}
}

func (e *GreaterThanExpression[T]) Walk(tables []storage.Table) error {
	e.dict = nil
	if err := e.SimpleFieldExpression.Walk(tables); err != nil {
		return err
	}
	dict, ok := e.table.DictionaryAt(e.field).(storage.Dictionary[T])
	if !ok {
		e.bound = false
		return fmt.Errorf("%w: field %q of table %q", ErrDictionaryTypeMismatch, e.table.FieldName(e.field), e.table.Name())
	}
	e.dict = dict
	return nil
}

func (e *GreaterThanExpression[T]) Evaluate(row uint64) bool {
	table := e.boundTable()
	return rowValue(e.dict, table, e.field, row) > e.value
}

func (e *GreaterThanExpression[T]) Clone() Expression {
	return &GreaterThanExpression[T]{
		SimpleFieldExpression: e.cloneConfig(),
		value:                 e.value,
	}
}

func rowValue[T comparable](dict storage.Dictionary[T], table storage.Table, field int, row uint64) T {
	v, err := dict.ValueForValueID(table.ValueIDAt(field, row))
	if err != nil {
		// a table's ValueIDs always resolve in its own dictionary
		panic(fmt.Sprintf("unresolvable value id in field %q: %s", table.FieldName(field), err))
	}
	return v
}
