package tracer

import (
	"strings"
	"testing"
)

func TestRuntimeTracerInvalidEvent(t *testing.T) {
	tr := NewRuntimeTracer()
	err := tr.AddEvent("NOT_A_METRIC")
	if err == nil {
		t.Fatal("expected error for invalid metric name")
	}
	if _, isTracing := err.(TracingError); !isTracing {
		t.Fatalf("expected TracingError, got %T", err)
	}
}

func TestRuntimeTracerRoundTrip(t *testing.T) {
	tr := NewRuntimeTracer()

	if err := tr.AddEvent("/gc/heap/allocs:bytes"); err != nil {
		t.Fatal(err)
	}

	if err := tr.Start(); err != nil {
		t.Fatal(err)
	}
	// allocate something measurable
	buf := make([][]byte, 0, 1024)
	for i := 0; i < 1024; i++ {
		buf = append(buf, make([]byte, 1024))
	}
	_ = buf
	if err := tr.Stop(); err != nil {
		t.Fatal(err)
	}

	v, err := tr.Value("/gc/heap/allocs:bytes")
	if err != nil {
		t.Fatal(err)
	}
	if v < 0 {
		t.Fatalf("allocation counter went backwards: %d", v)
	}

	_, err = tr.Value("/sched/goroutines:goroutines")
	if err == nil {
		t.Fatal("expected error for unregistered event")
	}
	if !strings.Contains(err.Error(), "/gc/heap/allocs:bytes") {
		t.Fatalf("error should list registered events, got: %s", err.Error())
	}
}

func TestRuntimeTracerStartWithoutEvents(t *testing.T) {
	tr := NewRuntimeTracer()
	if err := tr.Start(); err != ErrNoEvents {
		t.Fatalf("expected ErrNoEvents, got %v", err)
	}
}

func TestRuntimeTracerStopBeforeStart(t *testing.T) {
	tr := NewRuntimeTracer()
	if err := tr.AddEvent("/gc/heap/allocs:bytes"); err != nil {
		t.Fatal(err)
	}
	if err := tr.Stop(); err == nil {
		t.Fatal("expected error stopping a tracer that was never started")
	}
}

func TestRuntimeTracerDisabled(t *testing.T) {
	tr := NewRuntimeTracer()
	if err := tr.AddEvent(NoCounters); err != nil {
		t.Fatal(err)
	}
	if err := tr.Start(); err != nil {
		t.Fatal("start should be a no-op when disabled")
	}
	if err := tr.Stop(); err != nil {
		t.Fatal("stop should be a no-op when disabled")
	}
	v, err := tr.Value("anything")
	if err != nil || v != 0 {
		t.Fatalf("expected 0, nil when disabled, got %d, %v", v, err)
	}
}
