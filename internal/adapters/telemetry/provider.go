package telemetry

import (
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Setup configures the OpenTelemetry SDK with the bridge as a span
// processor and registers it as the global provider, so every span started
// through the tracer adapter is reported. It returns the provider for
// shutdown.
func Setup(bridge *Bridge) *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(bridge),
	)
	otel.SetTracerProvider(tp)
	return tp
}
