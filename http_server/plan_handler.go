package http_server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/opaldb/opal/access"
	"github.com/opaldb/opal/gologger"
	"github.com/opaldb/opal/storage"
	"github.com/opaldb/opal/tablestore"
	"github.com/opaldb/opal/utils"

	"github.com/rs/zerolog"
)

type QueryRes struct {
	QueryID string
	Columns []string
	Rows    [][]any
	NumRows uint64
	TimeMS  int64
	// Tracer counter value per plan operator id
	OperatorTraces map[string]int64
}

// QueryHandler parses the posted plan document, runs it, and returns the sink
// table's rows. The body is consumed raw, plan payloads are operator-specific.
func (s *HTTPServer) QueryHandler(c *CustomContext) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), time.Second*60)
	defer cancel()

	start := time.Now()
	queryID := utils.GenKSortedID("q_")

	ctx = context.WithValue(ctx, gologger.PlanIDKey, queryID)
	logger := zerolog.Ctx(ctx)
	logger.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("queryID", queryID)
	})

	defer c.Request().Body.Close()
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.InternalError(err, "error reading request body")
	}

	plan, err := access.ParsePlan(raw)
	if err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}

	result, err := plan.Run(ctx)
	if err != nil {
		if errors.Is(err, tablestore.ErrTableNotFound) {
			return c.String(http.StatusNotFound, err.Error())
		}
		var permErr utils.PermError
		if errors.As(err, &permErr) {
			return c.String(http.StatusBadRequest, err.Error())
		}
		return c.InternalError(err, "error running plan")
	}

	res := QueryRes{
		QueryID:        queryID,
		OperatorTraces: plan.OperationTraces(),
	}
	if result != nil {
		res.Columns, res.Rows = materializeRows(result)
		res.NumRows = result.RowCount()
	}
	// empty results render as [] rather than null
	res.Columns = utils.ArrayOrEmpty(res.Columns)
	res.Rows = utils.ArrayOrEmpty(res.Rows)
	res.TimeMS = time.Since(start).Milliseconds()

	logger.Debug().Uint64("numRows", res.NumRows).Int64("timeMS", res.TimeMS).Msg("ran plan")

	return c.JSON(http.StatusOK, res)
}

func materializeRows(table storage.Table) ([]string, [][]any) {
	columns := make([]string, table.FieldCount())
	for field := range columns {
		columns[field] = table.FieldName(field)
	}
	rows := make([][]any, 0, table.RowCount())
	for row := uint64(0); row < table.RowCount(); row++ {
		vals := make([]any, table.FieldCount())
		for field := range vals {
			vals[field] = table.ValueAt(field, row)
		}
		rows = append(rows, vals)
	}
	return columns, rows
}
