package tracer

import (
	"time"

	"github.com/opaldb/opal/utils"
)

// FallbackTracer behaves like RuntimeTracer for adding events but only ever
// reports the wall-clock time of the last start/stop window in microseconds.
// Every registered event name maps to that single value.
//
// Event names are not validated, any string is accepted.
type FallbackTracer struct {
	counters []string
	result   int64
	start    time.Time
	disabled bool
	running  bool
}

func NewFallbackTracer() *FallbackTracer {
	return &FallbackTracer{}
}

func (t *FallbackTracer) AddEvent(name string) error {
	if name == NoCounters {
		t.disabled = true
		return nil
	}
	t.counters = append(t.counters, name)
	return nil
}

func (t *FallbackTracer) Start() error {
	if t.disabled {
		return nil
	}
	if len(t.counters) == 0 {
		return ErrNoEvents
	}
	if t.running {
		panic("tracer started while already running")
	}
	t.result = 0
	t.start = time.Now()
	t.running = true
	return nil
}

func (t *FallbackTracer) Stop() error {
	if t.disabled {
		return nil
	}
	t.result = time.Since(t.start).Microseconds()
	t.running = false
	return nil
}

func (t *FallbackTracer) Reset() error {
	if t.disabled {
		return nil
	}
	t.running = false
	t.start = time.Time{}
	t.result = 0
	return nil
}

func (t *FallbackTracer) Value(name string) (int64, error) {
	if t.disabled {
		return 0, nil
	}
	if !utils.ContainsString(t.counters, name) {
		return 0, errUnregisteredEvent(name, t.counters)
	}
	return t.result, nil
}
