//go:build runtimetrace

package tracer

// New returns the runtime/metrics backed tracer. Selected with the
// `runtimetrace` build tag.
func New() Tracer {
	return NewRuntimeTracer()
}
