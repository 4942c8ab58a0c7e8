package tracer

import (
	"fmt"
	"runtime/metrics"
	"sync"
)

var (
	catalogOnce sync.Once
	catalog     map[string]metrics.ValueKind
)

// metricCatalog lazily builds the process-wide set of valid counter names.
// Every tracer constructor path funnels through here exactly once.
func metricCatalog() map[string]metrics.ValueKind {
	catalogOnce.Do(func() {
		all := metrics.All()
		catalog = make(map[string]metrics.ValueKind, len(all))
		for _, d := range all {
			catalog[d.Name] = d.Kind
		}
	})
	return catalog
}

// RuntimeTracer measures a start/stop window with runtime/metrics counters.
// Each registered event is a metric name (e.g. "/gc/heap/allocs:bytes"), the
// reported value is the delta across the window. Float metrics are reported
// in millionths so seconds come out as microseconds.
//
// Invalid metric names fail at AddEvent, not at Start.
type RuntimeTracer struct {
	counters  []string
	samples   []metrics.Sample
	startVals []int64
	results   []int64
	disabled  bool
	running   bool
}

func NewRuntimeTracer() *RuntimeTracer {
	metricCatalog()
	return &RuntimeTracer{}
}

func (t *RuntimeTracer) AddEvent(name string) error {
	if name == NoCounters {
		t.disabled = true
		return nil
	}
	kind, exists := metricCatalog()[name]
	if !exists {
		return TracingError(fmt.Sprintf("unknown runtime metric %q", name))
	}
	if kind != metrics.KindUint64 && kind != metrics.KindFloat64 {
		return TracingError(fmt.Sprintf("runtime metric %q is not a scalar counter", name))
	}
	t.counters = append(t.counters, name)
	return nil
}

func (t *RuntimeTracer) Start() error {
	if t.disabled {
		return nil
	}
	if len(t.counters) == 0 {
		return ErrNoEvents
	}
	if t.running {
		panic("tracer started while already running")
	}
	t.samples = make([]metrics.Sample, len(t.counters))
	for i, name := range t.counters {
		t.samples[i].Name = name
	}
	metrics.Read(t.samples)
	t.startVals = make([]int64, len(t.samples))
	for i := range t.samples {
		t.startVals[i] = sampleValue(t.samples[i])
	}
	t.results = nil
	t.running = true
	return nil
}

func (t *RuntimeTracer) Stop() error {
	if t.disabled {
		return nil
	}
	if !t.running {
		return TracingError("tracer stopped but was never started")
	}
	metrics.Read(t.samples)
	t.results = make([]int64, len(t.samples))
	for i := range t.samples {
		t.results[i] = sampleValue(t.samples[i]) - t.startVals[i]
	}
	t.running = false
	return nil
}

func (t *RuntimeTracer) Reset() error {
	if t.disabled {
		return nil
	}
	t.running = false
	t.samples = nil
	t.startVals = nil
	t.results = nil
	return nil
}

func (t *RuntimeTracer) Value(name string) (int64, error) {
	if t.disabled {
		return 0, nil
	}
	for i, counter := range t.counters {
		if counter == name {
			if i >= len(t.results) {
				return 0, nil
			}
			return t.results[i], nil
		}
	}
	return 0, errUnregisteredEvent(name, t.counters)
}

func sampleValue(s metrics.Sample) int64 {
	switch s.Value.Kind() {
	case metrics.KindUint64:
		return int64(s.Value.Uint64())
	case metrics.KindFloat64:
		return int64(s.Value.Float64() * 1_000_000)
	default:
		// kinds are validated in AddEvent
		panic(fmt.Sprintf("unexpected metric kind %d for %s", s.Value.Kind(), s.Name))
	}
}
