package access

import (
	"context"
	"fmt"

	"github.com/opaldb/opal/gologger"
	"github.com/opaldb/opal/storage"
	"github.com/opaldb/opal/tracer"
	"github.com/opaldb/opal/utils"
)

var (
	logger = gologger.NewLogger()

	ErrAlreadyExecuted = utils.PermError("plan operation already executed")
)

type (
	// PlanOperation is one node of a query plan: it consumes the output tables
	// of its predecessors and produces one output table. Operations are
	// single-shot, a second Execute returns ErrAlreadyExecuted.
	PlanOperation interface {
		ID() string
		AddInput(table storage.Table)
		Execute(ctx context.Context) error
		Output() storage.Table
		// TraceValue returns the cost of the Execute window for the counter
		// every operation registers at construction
		TraceValue() (int64, error)
	}

	executeFunc func(ctx context.Context, inputs []storage.Table) (storage.Table, error)

	// BasePlanOperation carries the state shared by every operation and owns
	// the only execution entry point, so the tracer window around executeFn
	// cannot be bypassed or forgotten by a concrete operation.
	BasePlanOperation struct {
		id     string
		inputs []storage.Table
		output storage.Table
		tr     tracer.Tracer

		executed  bool
		reentrant bool
		executeFn executeFunc
	}
)

func newBasePlanOperation(executeFn executeFunc) BasePlanOperation {
	tr := tracer.New()
	if err := tr.AddEvent(utils.TRACER_EVENT); err != nil {
		// keep executing, just without measurements
		logger.Warn().Err(err).Str("event", utils.TRACER_EVENT).Msg("disabling tracer for plan operation")
		tr = tracer.New()
		_ = tr.AddEvent(tracer.NoCounters)
	}
	return BasePlanOperation{
		id:        utils.GenRandomID("op_"),
		tr:        tr,
		executeFn: executeFn,
	}
}

func (b *BasePlanOperation) ID() string {
	return b.id
}

func (b *BasePlanOperation) AddInput(table storage.Table) {
	b.inputs = append(b.inputs, table)
}

func (b *BasePlanOperation) Output() storage.Table {
	return b.output
}

func (b *BasePlanOperation) TraceValue() (int64, error) {
	return b.tr.Value(utils.TRACER_EVENT)
}

func (b *BasePlanOperation) Execute(ctx context.Context) error {
	if b.executed && !b.reentrant {
		return fmt.Errorf("error in plan operation %s: %w", b.id, ErrAlreadyExecuted)
	}
	b.executed = true

	if err := b.tr.Start(); err != nil {
		return fmt.Errorf("error starting tracer for plan operation %s: %w", b.id, err)
	}
	output, err := b.executeFn(ctx, b.inputs)
	if stopErr := b.tr.Stop(); stopErr != nil {
		logger.Warn().Err(stopErr).Str("op", b.id).Msg("error stopping tracer")
	}
	if err != nil {
		return fmt.Errorf("error in plan operation %s: %w", b.id, err)
	}

	b.output = output
	return nil
}
