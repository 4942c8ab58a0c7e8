package parquetio

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/opaldb/opal/gologger"
	"github.com/opaldb/opal/storage"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"
)

var logger = gologger.NewLogger()

// WriteTableSnapshot writes every row of a table to a parquet file at path.
// The snapshot flattens the table back to plain rows, ValueIDs are an
// in-memory artifact and are rebuilt on load.
func WriteTableSnapshot(table storage.Table, path string) error {
	accumulator := NewSchemaAccumulator()
	rows := make([]map[string]any, 0, table.RowCount())
	for row := uint64(0); row < table.RowCount(); row++ {
		rowMap := make(map[string]any, table.FieldCount())
		for field := 0; field < table.FieldCount(); field++ {
			rowMap[exportedName(table.FieldName(field))] = table.ValueAt(field, row)
		}
		accumulator.WriteRow(rowMap)
		rows = append(rows, rowMap)
	}

	schema, err := accumulator.SchemaString()
	if err != nil {
		return fmt.Errorf("error getting schema string: %w", err)
	}

	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("error creating local file writer: %w", err)
	}
	defer fw.Close()

	pw, err := writer.NewJSONWriter(schema, fw, 4)
	if err != nil {
		return fmt.Errorf("error creating new JSON writer: %w", err)
	}

	for _, row := range rows {
		rowBytes, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("error in json.Marshal of row: %w", err)
		}
		if err := pw.Write(rowBytes); err != nil {
			return fmt.Errorf("error in pw.Write for row %s: %w", string(rowBytes), err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("error in pw.WriteStop: %w", err)
	}

	logger.Debug().Str("table", table.Name()).Str("path", path).Uint64("rows", table.RowCount()).Msg("wrote table snapshot")
	return nil
}

// LoadTableSnapshot reads a parquet snapshot back into a fresh MemTable,
// re-encoding every column dictionary from scratch.
func LoadTableSnapshot(path, tableName string) (*storage.MemTable, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("error creating local file reader: %w", err)
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, nil, 4)
	if err != nil {
		return nil, fmt.Errorf("error creating parquet reader: %w", err)
	}
	defer pr.ReadStop()

	rows, err := pr.ReadByNumber(int(pr.GetNumRows()))
	if err != nil {
		return nil, fmt.Errorf("error reading rows: %w", err)
	}

	table := storage.NewMemTable(tableName)
	for _, row := range rows {
		// row is a struct generated from the schema
		rowMap := make(map[string]any)
		v := reflect.ValueOf(row)
		typeOf := v.Type()
		for i := 0; i < v.NumField(); i++ {
			name := storedName(typeOf.Field(i).Name)
			switch val := v.Field(i).Interface().(type) {
			case *string:
				if val != nil {
					rowMap[name] = *val
				}
			case *float64:
				if val != nil {
					rowMap[name] = *val
				}
			case string:
				rowMap[name] = val
			case float64:
				rowMap[name] = val
			}
		}
		if err := table.AppendRow(rowMap); err != nil {
			return nil, fmt.Errorf("error appending snapshot row: %w", err)
		}
	}

	logger.Debug().Str("table", tableName).Str("path", path).Uint64("rows", table.RowCount()).Msg("loaded table snapshot")
	return table, nil
}
