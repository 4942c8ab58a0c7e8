package storage

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnknownField         = errors.New("row contains a field the table does not have")
	ErrColumnTypeMismatch   = errors.New("value type does not match column type")
	ErrUnsupportedValueType = errors.New("unsupported value type")
)

type (
	// MemTable is an in-memory dictionary-encoded table. Columns are typed as
	// string or float64, following the same rule the insert path applies to
	// JSON rows (strings stay strings, every number becomes a double).
	//
	// Rows are appended while the table is loaded; the execution core treats
	// the table as immutable afterwards.
	MemTable struct {
		name       string
		fieldNames []string
		fieldIdx   map[string]int
		cols       []column
		rowCount   uint64
	}

	column interface {
		appendValue(v any) error
		appendZero()
		valueIDAt(row uint64) ValueID
		dictionary() any
		valueAt(row uint64) any
	}

	typedColumn[T comparable] struct {
		ids  []ValueID
		dict *MapDictionary[T]
	}
)

func newTypedColumn[T comparable]() *typedColumn[T] {
	return &typedColumn[T]{
		dict: NewMapDictionary[T](),
	}
}

func (c *typedColumn[T]) appendValue(v any) error {
	tv, ok := v.(T)
	if !ok {
		return fmt.Errorf("%w: got %T", ErrColumnTypeMismatch, v)
	}
	c.ids = append(c.ids, c.dict.AddValue(tv))
	return nil
}

func (c *typedColumn[T]) appendZero() {
	var zero T
	c.ids = append(c.ids, c.dict.AddValue(zero))
}

func (c *typedColumn[T]) valueIDAt(row uint64) ValueID {
	return c.ids[row]
}

func (c *typedColumn[T]) dictionary() any {
	return c.dict
}

func (c *typedColumn[T]) valueAt(row uint64) any {
	v, err := c.dict.ValueForValueID(c.ids[row])
	if err != nil {
		// a column's own ids always resolve, this is a framework bug
		panic(fmt.Sprintf("value id %d unresolvable in own dictionary: %s", c.ids[row], err))
	}
	return v
}

func NewMemTable(name string) *MemTable {
	return &MemTable{
		name:     name,
		fieldIdx: make(map[string]int),
	}
}

// AppendRow dictionary-encodes one flat row into the table. The first row
// establishes the table's fields (sorted by name) and their types; later rows
// must not introduce new fields, missing fields are filled with the column
// type's zero value.
func (t *MemTable) AppendRow(row map[string]any) error {
	if len(t.fieldNames) == 0 && t.rowCount == 0 {
		if err := t.establishFields(row); err != nil {
			return err
		}
	}
	for name := range row {
		if _, exists := t.fieldIdx[name]; !exists {
			return fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
	}
	for i, name := range t.fieldNames {
		v, exists := row[name]
		if !exists || v == nil {
			t.cols[i].appendZero()
			continue
		}
		nv, err := normalizeValue(v)
		if err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		if err := t.cols[i].appendValue(nv); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
	}
	t.rowCount++
	return nil
}

func (t *MemTable) establishFields(row map[string]any) error {
	names := make([]string, 0, len(row))
	for name := range row {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if row[name] == nil {
			return fmt.Errorf("%w: field %q is null in the first row", ErrUnsupportedValueType, name)
		}
		nv, err := normalizeValue(row[name])
		if err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		t.fieldIdx[name] = len(t.fieldNames)
		t.fieldNames = append(t.fieldNames, name)
		if _, isStr := nv.(string); isStr {
			t.cols = append(t.cols, newTypedColumn[string]())
		} else {
			t.cols = append(t.cols, newTypedColumn[float64]())
		}
	}
	return nil
}

// normalizeValue maps JSON-ish values onto the two column types: strings stay
// strings, numbers and bools become float64.
func normalizeValue(v any) (any, error) {
	switch tv := v.(type) {
	case string:
		return tv, nil
	case float64:
		return tv, nil
	case float32:
		return float64(tv), nil
	case int:
		return float64(tv), nil
	case int32:
		return float64(tv), nil
	case int64:
		return float64(tv), nil
	case uint64:
		return float64(tv), nil
	case bool:
		if tv {
			return float64(1), nil
		}
		return float64(0), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValueType, v)
	}
}

func (t *MemTable) Name() string {
	return t.name
}

func (t *MemTable) RowCount() uint64 {
	return t.rowCount
}

func (t *MemTable) FieldCount() int {
	return len(t.fieldNames)
}

func (t *MemTable) FieldName(field int) string {
	return t.fieldNames[field]
}

func (t *MemTable) FieldIndex(name string) (int, error) {
	i, exists := t.fieldIdx[name]
	if !exists {
		return 0, fmt.Errorf("%w: %q in table %q", ErrFieldNotFound, name, t.name)
	}
	return i, nil
}

func (t *MemTable) ValueIDAt(field int, row uint64) ValueID {
	return t.cols[field].valueIDAt(row)
}

func (t *MemTable) DictionaryAt(field int) any {
	return t.cols[field].dictionary()
}

func (t *MemTable) ValueAt(field int, row uint64) any {
	return t.cols[field].valueAt(row)
}
