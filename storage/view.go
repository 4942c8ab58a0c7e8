package storage

import "fmt"

type (
	// ViewTable is a position-list row view over a base table. It shares the
	// base table's dictionaries, so ValueIDs read through the view stay
	// comparable with ValueIDs resolved against the base table's columns.
	ViewTable struct {
		base      Table
		positions []uint64
	}

	// ProjectedTable is a field-subset view over a base table.
	ProjectedTable struct {
		base   Table
		fields []int
	}
)

func NewViewTable(base Table, positions []uint64) *ViewTable {
	return &ViewTable{
		base:      base,
		positions: positions,
	}
}

func (v *ViewTable) Name() string {
	return v.base.Name()
}

func (v *ViewTable) RowCount() uint64 {
	return uint64(len(v.positions))
}

func (v *ViewTable) FieldCount() int {
	return v.base.FieldCount()
}

func (v *ViewTable) FieldName(field int) string {
	return v.base.FieldName(field)
}

func (v *ViewTable) FieldIndex(name string) (int, error) {
	return v.base.FieldIndex(name)
}

func (v *ViewTable) ValueIDAt(field int, row uint64) ValueID {
	return v.base.ValueIDAt(field, v.positions[row])
}

func (v *ViewTable) DictionaryAt(field int) any {
	return v.base.DictionaryAt(field)
}

func (v *ViewTable) ValueAt(field int, row uint64) any {
	return v.base.ValueAt(field, v.positions[row])
}

func NewProjectedTable(base Table, fields []int) *ProjectedTable {
	return &ProjectedTable{
		base:   base,
		fields: fields,
	}
}

func (p *ProjectedTable) Name() string {
	return p.base.Name()
}

func (p *ProjectedTable) RowCount() uint64 {
	return p.base.RowCount()
}

func (p *ProjectedTable) FieldCount() int {
	return len(p.fields)
}

func (p *ProjectedTable) FieldName(field int) string {
	return p.base.FieldName(p.fields[field])
}

func (p *ProjectedTable) FieldIndex(name string) (int, error) {
	for i, f := range p.fields {
		if p.base.FieldName(f) == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q in projection of table %q", ErrFieldNotFound, name, p.base.Name())
}

func (p *ProjectedTable) ValueIDAt(field int, row uint64) ValueID {
	return p.base.ValueIDAt(p.fields[field], row)
}

func (p *ProjectedTable) DictionaryAt(field int) any {
	return p.base.DictionaryAt(p.fields[field])
}

func (p *ProjectedTable) ValueAt(field int, row uint64) any {
	return p.base.ValueAt(p.fields[field], row)
}
