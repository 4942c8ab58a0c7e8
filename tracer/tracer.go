package tracer

import (
	"fmt"
	"strings"
)

// NoCounters is the reserved event name that disables a tracer instance: every
// call becomes a no-op and Value returns zero for any name. Meant for
// environments where measuring is pointless, e.g. busy virtualized hosts.
const NoCounters = "NO_COUNTERS"

type (
	// Tracer measures the cost of one bracketed region of work. Instances are
	// owned by exactly one plan operation and must be started and stopped on
	// the goroutine that executes it; start/stop pairs do not nest.
	Tracer interface {
		// AddEvent registers a named counter to measure
		AddEvent(name string) error
		Start() error
		Stop() error
		// Reset stops a running window and clears accumulated results
		Reset() error
		// Value returns the most recent result for a registered counter name
		Value(name string) (int64, error)
	}

	// TracingError covers everything that can go wrong while measuring:
	// invalid counter names, starting without events, unregistered lookups.
	TracingError string
)

func (e TracingError) Error() string {
	return "tracing error: " + string(e)
}

var ErrNoEvents = TracingError("no events set")

func errUnregisteredEvent(name string, registered []string) error {
	return TracingError(fmt.Sprintf("trying to access unregistered event %q, available: %s", name, strings.Join(registered, " ")))
}
