// Package trace wraps the Datadog tracer. Tracing is off unless
// QUILLC_TRACE=1 is set in the environment, so normal builds pay
// nothing.
package trace

import (
	"context"
	"os"

	"github.com/google/uuid"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// MaybeTrace starts the tracer if QUILLC_TRACE=1. It returns whether
// tracing was started, so the caller knows to call Stop on exit.
func MaybeTrace(serviceVersion string) bool {
	if os.Getenv("QUILLC_TRACE") != "1" {
		return false
	}

	tracer.Start(
		tracer.WithService("quillc"),
		tracer.WithServiceVersion(serviceVersion),
		tracer.WithGlobalTag("session", uuid.NewString()),
	)
	return true
}

// Stop flushes and stops the tracer.
func Stop() {
	tracer.Stop()
}

// StartSpan opens a span for one CLI command.
func StartSpan(name string) (ddtrace.Span, context.Context) {
	return tracer.StartSpanFromContext(context.Background(), name)
}
