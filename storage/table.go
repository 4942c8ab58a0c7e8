package storage

import "errors"

var (
	ErrFieldNotFound = errors.New("field not found")
)

type (
	// Table is the columnar storage contract the execution core consumes.
	// Every field is dictionary encoded: ValueIDAt returns the row's position
	// in that field's dictionary, DictionaryAt returns the dictionary itself
	// (typed as Dictionary[T] behind any, expressions cast it at walk time).
	Table interface {
		Name() string
		RowCount() uint64
		FieldCount() int
		FieldName(field int) string
		FieldIndex(name string) (int, error)
		ValueIDAt(field int, row uint64) ValueID
		DictionaryAt(field int) any
		// ValueAt reverse-looks-up the row's value through the dictionary
		ValueAt(field int, row uint64) any
	}
)
