//go:build !runtimetrace

package tracer

// New returns the wall-clock fallback tracer. Build with the `runtimetrace`
// tag to get the runtime/metrics backend instead.
func New() Tracer {
	return NewFallbackTracer()
}
