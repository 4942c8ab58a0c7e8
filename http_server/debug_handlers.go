package http_server

import (
	"errors"
	"net/http"

	"github.com/opaldb/opal/storage"
	"github.com/opaldb/opal/tablestore"
)

type (
	ListTablesRes struct {
		Tables []string
	}

	TableColumnsRes struct {
		Table   string
		Columns []ColumnInfo
		NumRows uint64
	}

	ColumnInfo struct {
		Name string
		// `string` or `float`
		Type string
		// Distinct values in the column's dictionary
		DictionarySize uint64
	}
)

func (s *HTTPServer) ListTablesHandler(c *CustomContext) error {
	tables, err := s.TableStore.ListTables(c.Request().Context())
	if err != nil {
		return c.InternalError(err, "error listing tables")
	}
	return c.JSON(http.StatusOK, ListTablesRes{Tables: tables})
}

func (s *HTTPServer) TableColumnsHandler(c *CustomContext) error {
	tableName := c.Param("table")
	table, err := s.TableStore.GetTable(c.Request().Context(), tableName)
	if err != nil {
		if errors.Is(err, tablestore.ErrTableNotFound) {
			return c.String(http.StatusNotFound, err.Error())
		}
		return c.InternalError(err, "error getting table")
	}

	res := TableColumnsRes{
		Table:   tableName,
		NumRows: table.RowCount(),
	}
	for field := 0; field < table.FieldCount(); field++ {
		info := ColumnInfo{
			Name: table.FieldName(field),
		}
		switch dict := table.DictionaryAt(field).(type) {
		case storage.Dictionary[string]:
			info.Type = "string"
			info.DictionarySize = dict.Size()
		case storage.Dictionary[float64]:
			info.Type = "float"
			info.DictionarySize = dict.Size()
		}
		res.Columns = append(res.Columns, info)
	}
	return c.JSON(http.StatusOK, res)
}
