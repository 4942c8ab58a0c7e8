package access

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/opaldb/opal/storage"
	"github.com/opaldb/opal/utils"
)

var (
	ErrMalformedPlan = utils.PermError("malformed plan")
	ErrCyclicPlan    = utils.PermError("plan contains a cycle")
	ErrNotSingleSink = utils.PermError("plan must have exactly one sink operation")
)

type (
	planDoc struct {
		Operators map[string]map[string]any `json:"operators"`
		Edges     [][]string                `json:"edges"`
	}

	// Plan is a parsed operator DAG ready to run once. Operator ids are the
	// keys of the plan document, edges carry outputs from source to target in
	// their declaration order.
	Plan struct {
		operations map[string]PlanOperation
		edges      [][2]string
		order      []string
		sink       string
	}
)

// ParsePlan builds all operations of a plan document and fixes the execution
// order. The document must describe an acyclic graph with exactly one sink.
func ParsePlan(raw []byte) (*Plan, error) {
	var doc planDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedPlan, err)
	}
	if len(doc.Operators) == 0 {
		return nil, fmt.Errorf("%w: no operators", ErrMalformedPlan)
	}

	plan := &Plan{
		operations: make(map[string]PlanOperation, len(doc.Operators)),
	}
	for id, payload := range doc.Operators {
		tag, ok := payload["type"].(string)
		if !ok {
			return nil, fmt.Errorf("%w: operator %q has no type tag", ErrMalformedPlan, id)
		}
		op, err := BuildPlanOperation(tag, payload)
		if err != nil {
			return nil, fmt.Errorf("error building operator %q: %w", id, err)
		}
		plan.operations[id] = op
	}

	for _, edge := range doc.Edges {
		if len(edge) != 2 {
			return nil, fmt.Errorf("%w: edges must be [src, dst] pairs", ErrMalformedPlan)
		}
		for _, id := range edge {
			if _, ok := plan.operations[id]; !ok {
				return nil, fmt.Errorf("%w: edge references unknown operator %q", ErrMalformedPlan, id)
			}
		}
		plan.edges = append(plan.edges, [2]string{edge[0], edge[1]})
	}

	if err := plan.resolveOrder(); err != nil {
		return nil, err
	}
	return plan, nil
}

// resolveOrder topologically sorts the operators and picks the sink. Ready
// operators are taken in sorted id order so execution order is deterministic.
func (p *Plan) resolveOrder() error {
	indegree := make(map[string]int, len(p.operations))
	outdegree := make(map[string]int, len(p.operations))
	for id := range p.operations {
		indegree[id] = 0
	}
	for _, edge := range p.edges {
		indegree[edge[1]]++
		outdegree[edge[0]]++
	}

	var ready []string
	for id, deg := range indegree {
		if deg == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		p.order = append(p.order, id)

		var unblocked []string
		for _, edge := range p.edges {
			if edge[0] != id {
				continue
			}
			indegree[edge[1]]--
			if indegree[edge[1]] == 0 {
				unblocked = append(unblocked, edge[1])
			}
		}
		sort.Strings(unblocked)
		ready = append(ready, unblocked...)
	}
	if len(p.order) != len(p.operations) {
		return ErrCyclicPlan
	}

	var sinks []string
	for id := range p.operations {
		if outdegree[id] == 0 {
			sinks = append(sinks, id)
		}
	}
	if len(sinks) != 1 {
		return fmt.Errorf("%w: found %d", ErrNotSingleSink, len(sinks))
	}
	p.sink = sinks[0]
	return nil
}

// Run executes the plan and returns the sink's output table. Each operation
// receives the outputs of its predecessors in edge declaration order.
func (p *Plan) Run(ctx context.Context) (storage.Table, error) {
	for _, id := range p.order {
		op := p.operations[id]
		for _, edge := range p.edges {
			if edge[1] == id {
				op.AddInput(p.operations[edge[0]].Output())
			}
		}
		if err := op.Execute(ctx); err != nil {
			return nil, fmt.Errorf("error executing operator %q: %w", id, err)
		}
	}
	return p.operations[p.sink].Output(), nil
}

// OperationTraces returns the per-operator tracer value of the last run, keyed
// by plan operator id. Operators whose tracer is disabled report zero.
func (p *Plan) OperationTraces() map[string]int64 {
	traces := make(map[string]int64, len(p.operations))
	for id, op := range p.operations {
		v, err := op.TraceValue()
		if err != nil {
			logger.Debug().Err(err).Str("operator", id).Msg("no trace value")
			continue
		}
		traces[id] = v
	}
	return traces
}
