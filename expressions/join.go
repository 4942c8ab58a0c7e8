package expressions

import (
	"fmt"

	"github.com/opaldb/opal/storage"
)

type (
	// JoinExpression is a predicate over one row of each of two input tables.
	// ValueIDs of different columns are never comparable, so join predicates
	// always go through the dictionaries' reverse lookup and compare domain
	// values.
	JoinExpression interface {
		Walk(tables []storage.Table) error
		EvaluateRows(leftRow, rightRow uint64) bool
		Clone() JoinExpression
	}

	// EqualsJoinExpression is the equi-join condition between a field of the
	// left input and a field of the right input.
	EqualsJoinExpression[T comparable] struct {
		inputLeft      int
		fieldLeft      int
		fieldLeftName  string
		inputRight     int
		fieldRight     int
		fieldRightName string
		byName         bool

		leftTable  storage.Table
		rightTable storage.Table
		leftDict   storage.Dictionary[T]
		rightDict  storage.Dictionary[T]
		bound      bool
	}

	// AndJoinExpression combines two join predicates.
	AndJoinExpression struct {
		left  JoinExpression
		right JoinExpression
	}

	OrJoinExpression struct {
		left  JoinExpression
		right JoinExpression
	}
)

func NewEqualsJoinExpression[T comparable](inputLeft, fieldLeft, inputRight, fieldRight int) *EqualsJoinExpression[T] {
	return &EqualsJoinExpression[T]{
		inputLeft:  inputLeft,
		fieldLeft:  fieldLeft,
		inputRight: inputRight,
		fieldRight: fieldRight,
	}
}

func NewEqualsJoinExpressionByName[T comparable](inputLeft int, fieldLeftName string, inputRight int, fieldRightName string) *EqualsJoinExpression[T] {
	return &EqualsJoinExpression[T]{
		inputLeft:      inputLeft,
		fieldLeftName:  fieldLeftName,
		inputRight:     inputRight,
		fieldRightName: fieldRightName,
		byName:         true,
	}
}

func (e *EqualsJoinExpression[T]) Walk(tables []storage.Table) error {
	e.bound = false
	if e.inputLeft < 0 || e.inputLeft >= len(tables) {
		return fmt.Errorf("%w: left slot %d with %d input tables", ErrInputOutOfRange, e.inputLeft, len(tables))
	}
	if e.inputRight < 0 || e.inputRight >= len(tables) {
		return fmt.Errorf("%w: right slot %d with %d input tables", ErrInputOutOfRange, e.inputRight, len(tables))
	}
	e.leftTable = tables[e.inputLeft]
	e.rightTable = tables[e.inputRight]

	if e.byName {
		fieldLeft, err := e.leftTable.FieldIndex(e.fieldLeftName)
		if err != nil {
			return fmt.Errorf("error resolving left field name: %w", err)
		}
		fieldRight, err := e.rightTable.FieldIndex(e.fieldRightName)
		if err != nil {
			return fmt.Errorf("error resolving right field name: %w", err)
		}
		e.fieldLeft = fieldLeft
		e.fieldRight = fieldRight
	}

	leftDict, ok := e.leftTable.DictionaryAt(e.fieldLeft).(storage.Dictionary[T])
	if !ok {
		return fmt.Errorf("%w: field %q of table %q", ErrDictionaryTypeMismatch, e.leftTable.FieldName(e.fieldLeft), e.leftTable.Name())
	}
	rightDict, ok := e.rightTable.DictionaryAt(e.fieldRight).(storage.Dictionary[T])
	if !ok {
		return fmt.Errorf("%w: field %q of table %q", ErrDictionaryTypeMismatch, e.rightTable.FieldName(e.fieldRight), e.rightTable.Name())
	}
	e.leftDict = leftDict
	e.rightDict = rightDict
	e.bound = true
	return nil
}

func (e *EqualsJoinExpression[T]) EvaluateRows(leftRow, rightRow uint64) bool {
	if !e.bound {
		panic("join expression evaluated before walk")
	}
	leftVal := rowValue(e.leftDict, e.leftTable, e.fieldLeft, leftRow)
	rightVal := rowValue(e.rightDict, e.rightTable, e.fieldRight, rightRow)
	return leftVal == rightVal
}

func (e *EqualsJoinExpression[T]) Clone() JoinExpression {
	return &EqualsJoinExpression[T]{
		inputLeft:      e.inputLeft,
		fieldLeft:      e.fieldLeft,
		fieldLeftName:  e.fieldLeftName,
		inputRight:     e.inputRight,
		fieldRight:     e.fieldRight,
		fieldRightName: e.fieldRightName,
		byName:         e.byName,
	}
}

func NewAndJoinExpression(left, right JoinExpression) *AndJoinExpression {
	return &AndJoinExpression{left: left, right: right}
}

func (e *AndJoinExpression) Walk(tables []storage.Table) error {
	if err := e.left.Walk(tables); err != nil {
		return err
	}
	return e.right.Walk(tables)
}

func (e *AndJoinExpression) EvaluateRows(leftRow, rightRow uint64) bool {
	return e.left.EvaluateRows(leftRow, rightRow) && e.right.EvaluateRows(leftRow, rightRow)
}

func (e *AndJoinExpression) Clone() JoinExpression {
	return NewAndJoinExpression(e.left.Clone(), e.right.Clone())
}

func NewOrJoinExpression(left, right JoinExpression) *OrJoinExpression {
	return &OrJoinExpression{left: left, right: right}
}

func (e *OrJoinExpression) Walk(tables []storage.Table) error {
	if err := e.left.Walk(tables); err != nil {
		return err
	}
	return e.right.Walk(tables)
}

func (e *OrJoinExpression) EvaluateRows(leftRow, rightRow uint64) bool {
	return e.left.EvaluateRows(leftRow, rightRow) || e.right.EvaluateRows(leftRow, rightRow)
}

func (e *OrJoinExpression) Clone() JoinExpression {
	return NewOrJoinExpression(e.left.Clone(), e.right.Clone())
}
