package logger_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/patchwork/internal/adapters/logger"
	"go.trai.ch/zerr"
)

// newTestLogger creates a logger with an injected bytes.Buffer. NO_COLOR=1
// keeps the output free of ANSI escape codes.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New()
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Info(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Info("evaluation pass complete")
	assert.Equal(t, "evaluation pass complete\n", buf.String())
}

func TestLogger_Warn(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Warn("cache nearly full")
	assert.Equal(t, "! cache nearly full\n", buf.String())
}

func TestLogger_Error_Plain(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(errors.New("simple failure"))
	assert.Equal(t, "✗ Error: simple failure\n", buf.String())
}

func TestLogger_Error_Multiline(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(errors.New("yaml: unmarshal errors:\n  line 3: cannot unmarshal"))

	want := "✗ Error: yaml: unmarshal errors:\n" +
		"         line 3: cannot unmarshal\n"
	assert.Equal(t, want, buf.String())
}

func TestLogger_Error_ZerrChain(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "two level chain",
			err: zerr.Wrap(
				errors.New("underlying cause"),
				"wrapped message",
			),
			want: "✗ Error: wrapped message\n" +
				"\n" +
				"  Caused by:\n" +
				"    → underlying cause\n",
		},
		{
			name: "three level chain",
			err: zerr.Wrap(
				zerr.Wrap(
					errors.New("edge rejected"),
					"failed to connect nodes",
				),
				"failed to apply patch edit",
			),
			want: "✗ Error: failed to apply patch edit\n" +
				"\n" +
				"  Caused by:\n" +
				"    → failed to connect nodes\n" +
				"    → edge rejected\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Error(tt.err)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestLogger_Error_StdlibChain(t *testing.T) {
	// fmt.Errorf chains don't expose per-layer messages, so the full string
	// lands on the first line.
	inner := errors.New("connection refused")
	outer := fmt.Errorf("failed to reach renderer: %w", inner)

	lg, buf := newTestLogger(t)
	lg.Error(outer)
	assert.Equal(t, "✗ Error: failed to reach renderer: connection refused\n", buf.String())
}

func TestLogger_Error_Nil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_SetJSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)
	lg.Error(errors.New("test error message"))

	out := buf.String()
	assert.Contains(t, out, `"error"`)
	assert.Contains(t, out, `"level":"ERROR"`)
	assert.NotContains(t, out, "✗")
}

func TestLogger_FormatSwitching(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Error(errors.New("error in pretty mode"))
	pretty := buf.String()
	buf.Reset()

	lg.SetJSON(true)
	lg.Error(errors.New("error in json mode"))
	jsonOut := buf.String()
	buf.Reset()

	lg.SetJSON(false)
	lg.Error(errors.New("error back in pretty mode"))
	backToPretty := buf.String()

	assert.Contains(t, pretty, "✗")
	assert.NotContains(t, pretty, `"error"`)

	assert.Contains(t, jsonOut, `"error"`)
	assert.NotContains(t, jsonOut, "✗")

	assert.Contains(t, backToPretty, "✗")
	assert.NotContains(t, backToPretty, `"error"`)
}

func TestLogger_SetOutput_NilDefaultsToStderr(t *testing.T) {
	require.NotPanics(t, func() {
		lg := logger.New()
		lg.SetOutput(nil)
	})
}

func TestLogger_ConcurrentAccess(t *testing.T) {
	lg, _ := newTestLogger(t)

	done := make(chan bool, 6)
	go func() { lg.Info("concurrent info"); done <- true }()
	go func() { lg.Warn("concurrent warn"); done <- true }()
	go func() { lg.Error(errors.New("concurrent error")); done <- true }()
	go func() { lg.SetJSON(true); done <- true }()
	go func() { lg.SetJSON(false); done <- true }()
	go func() { lg.SetOutput(&bytes.Buffer{}); done <- true }()

	for i := 0; i < 6; i++ {
		<-done
	}
}
