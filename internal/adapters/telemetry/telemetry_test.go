package telemetry_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/patchwork/internal/adapters/logger"
	"go.trai.ch/patchwork/internal/adapters/telemetry"
)

// setupRecorder installs a tracer provider with an in-memory span recorder
// and restores the previous global provider on cleanup.
func setupRecorder(t *testing.T, extra ...sdktrace.TracerProviderOption) *tracetest.SpanRecorder {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	opts := append([]sdktrace.TracerProviderOption{sdktrace.WithSpanProcessor(recorder)}, extra...)
	tp := sdktrace.NewTracerProvider(opts...)

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(t.Context())
	})

	return recorder
}

func TestOTelTracer_StartEnd(t *testing.T) {
	recorder := setupRecorder(t)

	tracer := telemetry.NewOTelTracer("patchwork-test")
	_, span := tracer.Start(t.Context(), "node-a")
	span.SetAttribute("patchwork.kind", "const")
	span.SetAttribute("patchwork.cached", true)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "node-a", ended[0].Name())

	attrs := ended[0].Attributes()
	keys := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		keys = append(keys, string(attr.Key))
	}
	assert.Contains(t, keys, "patchwork.kind")
	assert.Contains(t, keys, "patchwork.cached")
}

func TestOTelSpan_RecordError(t *testing.T) {
	recorder := setupRecorder(t)

	tracer := telemetry.NewOTelTracer("patchwork-test")
	_, span := tracer.Start(t.Context(), "node-b")
	span.RecordError(errors.New("kind blew up"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "kind blew up", ended[0].Status().Description)
}

func TestBridge_VerboseLogsSpans(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New()
	lg.SetOutput(buf)

	bridge := telemetry.NewBridge(lg, true)
	setupRecorder(t, sdktrace.WithSpanProcessor(bridge))

	tracer := telemetry.NewOTelTracer("patchwork-test")
	_, span := tracer.Start(t.Context(), "node-c")
	span.End()

	out := buf.String()
	assert.Contains(t, out, "evaluating node-c")
	assert.Contains(t, out, "finished node-c")
}

func TestBridge_QuietByDefault(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New()
	lg.SetOutput(buf)

	bridge := telemetry.NewBridge(lg, false)
	setupRecorder(t, sdktrace.WithSpanProcessor(bridge))

	tracer := telemetry.NewOTelTracer("patchwork-test")
	_, span := tracer.Start(t.Context(), "node-d")
	span.End()

	assert.Empty(t, buf.String())
}

func TestNoopTracer(t *testing.T) {
	tracer := telemetry.NewNoopTracer()

	ctx, span := tracer.Start(t.Context(), "anything")
	require.NotNil(t, ctx)

	// All operations are safe no-ops.
	span.SetAttribute("key", "value")
	span.RecordError(errors.New("ignored"))
	span.End()
}
