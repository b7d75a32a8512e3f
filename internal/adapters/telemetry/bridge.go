package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/patchwork/internal/core/ports"
)

// Bridge implements sdktrace.SpanProcessor, turning node evaluation spans
// into progress log lines. It only reports when verbose is set; the spans
// themselves are recorded either way.
type Bridge struct {
	logger  ports.Logger
	verbose bool
}

var _ sdktrace.SpanProcessor = (*Bridge)(nil)

// NewBridge returns a Bridge reporting to the given logger.
func NewBridge(logger ports.Logger, verbose bool) *Bridge {
	return &Bridge{logger: logger, verbose: verbose}
}

// OnStart is called when a span starts.
func (b *Bridge) OnStart(_ context.Context, s sdktrace.ReadWriteSpan) {
	if !b.verbose || b.logger == nil {
		return
	}
	if !s.SpanContext().IsValid() {
		return
	}
	b.logger.Info(fmt.Sprintf("evaluating %s", s.Name()))
}

// OnEnd is called when a span ends.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if !b.verbose || b.logger == nil {
		return
	}
	if !s.SpanContext().IsValid() {
		return
	}

	took := s.EndTime().Sub(s.StartTime())
	if s.Status().Code == codes.Error {
		b.logger.Warn(fmt.Sprintf("failed %s after %s: %s", s.Name(), took, s.Status().Description))
		return
	}
	b.logger.Info(fmt.Sprintf("finished %s in %s", s.Name(), took))
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}
