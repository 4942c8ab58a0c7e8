package parquetio

import (
	"encoding/json"
	"fmt"
	"strings"
)

type (
	// SchemaAccumulator builds a parquet JSON schema from flat rows as they
	// stream through. Columns are scalar only: strings become BYTE_ARRAY/UTF8
	// and everything else DOUBLE, matching how tables encode values.
	SchemaAccumulator struct {
		fields []fieldSchema
	}

	fieldSchema struct {
		name     string
		isString bool
	}

	jsonSchema struct {
		Tag    string        `json:",omitempty"`
		Fields []*jsonSchema `json:",omitempty"`
	}
)

func NewSchemaAccumulator() *SchemaAccumulator {
	return &SchemaAccumulator{}
}

func (a *SchemaAccumulator) WriteRow(row map[string]any) {
	for key, val := range row {
		if a.fieldExists(key) {
			continue
		}
		_, isString := val.(string)
		a.fields = append(a.fields, fieldSchema{
			name:     key,
			isString: isString,
		})
	}
}

func (a *SchemaAccumulator) fieldExists(name string) bool {
	for _, field := range a.fields {
		if field.name == name {
			return true
		}
	}
	return false
}

func (a *SchemaAccumulator) ColumnNames() []string {
	var cols []string
	for _, field := range a.fields {
		cols = append(cols, field.name)
	}
	return cols
}

// ColumnTypes returns `string` or `float` per column, in ColumnNames order.
func (a *SchemaAccumulator) ColumnTypes() []string {
	var cols []string
	for _, field := range a.fields {
		if field.isString {
			cols = append(cols, "string")
		} else {
			cols = append(cols, "float")
		}
	}
	return cols
}

// SchemaString returns the JSON formatted schema string the parquet JSON
// writer consumes. Field names are mangled to exported form, the writer
// rejects lowercase names.
func (a *SchemaAccumulator) SchemaString() (string, error) {
	var fields []*jsonSchema
	for _, field := range a.fields {
		tagArr := []string{}
		if field.isString {
			tagArr = append(tagArr, "type=BYTE_ARRAY", "convertedtype=UTF8", "encoding=PLAIN")
		} else {
			tagArr = append(tagArr, "type=DOUBLE")
		}
		tagArr = append(tagArr, "name="+exportedName(field.name), "repetitiontype=OPTIONAL")
		fields = append(fields, &jsonSchema{
			Tag: strings.Join(tagArr, ", "),
		})
	}
	js := jsonSchema{
		Tag:    "name=parquet_go_root, repetitiontype=REQUIRED",
		Fields: fields,
	}

	b, err := json.Marshal(js)
	if err != nil {
		return "", fmt.Errorf("error in json.Marshal: %w", err)
	}
	return string(b), nil
}

func exportedName(name string) string {
	return strings.ToUpper(name[:1]) + name[1:]
}

func storedName(name string) string {
	return strings.ToLower(name[:1]) + name[1:]
}
