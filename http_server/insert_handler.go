package http_server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/opaldb/opal/storage"

	"github.com/danthegoodman1/gojsonutils"
)

type (
	InsertReqBody struct {
		// Line-delimited JSON (NDJSON)
		RowsString *string
		// Array of JSON
		Rows []*map[string]any
	}

	InsertStats struct {
		Table   string
		NumRows int64
		TimeMS  int64
	}
)

var ErrNotFlatMap = errors.New("not a flat map")

func (s *HTTPServer) InsertHandler(c *CustomContext) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), time.Second*60)
	defer cancel()

	start := time.Now()

	var reqBody InsertReqBody
	if err := ValidateRequest(c, &reqBody); err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}
	defer c.Request().Body.Close()

	// Extract rows (flattened) from format (JSON, NDJSON)
	var flatRows []map[string]any

	if reqBody.RowsString != nil {
		ndJSONScanner := bufio.NewScanner(strings.NewReader(*reqBody.RowsString))
		for ndJSONScanner.Scan() {
			var raw any
			err := json.Unmarshal([]byte(ndJSONScanner.Text()), &raw)
			if err != nil {
				return c.String(http.StatusBadRequest, fmt.Sprintf("error in json.Unmarshal: %s", err))
			}
			jsonMap, ok := raw.(map[string]any)
			if !ok {
				return c.String(http.StatusBadRequest, "line was not JSON")
			}
			flat, err := gojsonutils.Flatten(jsonMap, nil)
			if err != nil {
				return c.InternalError(err, "error flattening JSON map")
			}
			flatMap, ok := flat.(map[string]any)
			if !ok {
				return c.InternalError(ErrNotFlatMap, fmt.Sprintf("got a non flat map: %+v", flat))
			}
			flatRows = append(flatRows, flatMap)
		}
	} else if reqBody.Rows != nil {
		for _, row := range reqBody.Rows {
			flat, err := gojsonutils.Flatten(*row, nil)
			if err != nil {
				return c.InternalError(err, "error flattening JSON map")
			}
			flatMap, ok := flat.(map[string]any)
			if !ok {
				return c.InternalError(ErrNotFlatMap, fmt.Sprintf("got a non flat map: %+v", flat))
			}
			flatRows = append(flatRows, flatMap)
		}
	}

	if len(flatRows) == 0 {
		return c.String(http.StatusBadRequest, "no rows found")
	}

	tableName := c.Param("table")
	table, err := s.TableStore.GetOrCreateMemTable(ctx, tableName)
	if err != nil {
		return c.InternalError(err, "error getting table")
	}
	memTable, ok := table.(*storage.MemTable)
	if !ok {
		return c.String(http.StatusBadRequest, fmt.Sprintf("table '%s' is not writable", tableName))
	}

	var numRows int64
	for _, row := range flatRows {
		if err := memTable.AppendRow(row); err != nil {
			if errors.Is(err, storage.ErrUnknownField) || errors.Is(err, storage.ErrColumnTypeMismatch) || errors.Is(err, storage.ErrUnsupportedValueType) {
				return c.String(http.StatusBadRequest, fmt.Sprintf("error appending row %d: %s", numRows, err))
			}
			return c.InternalError(err, "error appending row")
		}
		numRows++
	}

	stats := InsertStats{
		Table:   tableName,
		NumRows: numRows,
		TimeMS:  time.Since(start).Milliseconds(),
	}

	return c.JSON(http.StatusAccepted, stats)
}
