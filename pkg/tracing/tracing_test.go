package tracing

import (
	"testing"

	"github.com/opentracing/opentracing-go"
)

func TestDisabledTracerIsNoop(t *testing.T) {
	tr, closeFn, err := InitTracer(Config{Enabled: false})
	if err != nil {
		t.Fatalf("InitTracer: %v", err)
	}
	defer closeFn()
	if _, ok := tr.(opentracing.NoopTracer); !ok {
		t.Fatalf("expected noop tracer, got %T", tr)
	}
}
