package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/patchwork/cmd/patchwork/commands"
	"go.trai.ch/patchwork/internal/app"
	"go.trai.ch/patchwork/internal/build"
)

type mockApp struct {
	runFunc   func(ctx context.Context, path string, opts app.RunOptions) error
	checkFunc func(ctx context.Context, path string, opts app.CheckOptions) error
}

func (m *mockApp) Run(ctx context.Context, path string, opts app.RunOptions) error {
	if m.runFunc != nil {
		return m.runFunc(ctx, path, opts)
	}
	return nil
}

func (m *mockApp) Check(ctx context.Context, path string, opts app.CheckOptions) error {
	if m.checkFunc != nil {
		return m.checkFunc(ctx, path, opts)
	}
	return nil
}

func TestCommands_Eval(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var capturedOpts app.RunOptions
		var capturedPath string
		called := false

		mock := &mockApp{
			runFunc: func(_ context.Context, path string, opts app.RunOptions) error {
				capturedOpts = opts
				capturedPath = path
				called = true
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"eval", "demo/patch.yaml", "--watch", "--verbose", "-j", "2"})

		err := cli.Execute(context.Background())
		require.NoError(t, err)
		assert.True(t, called)
		assert.True(t, capturedOpts.Watch)
		assert.True(t, capturedOpts.Verbose)
		assert.Equal(t, 2, capturedOpts.Parallelism)
		assert.Equal(t, "demo/patch.yaml", capturedPath)
	})

	t.Run("ci flag forces json output", func(t *testing.T) {
		var capturedOpts app.RunOptions

		mock := &mockApp{
			runFunc: func(_ context.Context, _ string, opts app.RunOptions) error {
				capturedOpts = opts
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"eval", "--ci"})

		err := cli.Execute(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "json", capturedOpts.OutputMode)
	})

	t.Run("empty path triggers discovery", func(t *testing.T) {
		var capturedPath string

		mock := &mockApp{
			runFunc: func(_ context.Context, path string, _ app.RunOptions) error {
				capturedPath = path
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"eval"})

		err := cli.Execute(context.Background())
		require.NoError(t, err)
		assert.Empty(t, capturedPath)
	})

	t.Run("returns error on evaluation failure", func(t *testing.T) {
		mock := &mockApp{
			runFunc: func(_ context.Context, _ string, _ app.RunOptions) error {
				return errors.New("simulated error")
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"eval"})
		// Silence output to avoid polluting test logs
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})
}

func TestCommands_Check(t *testing.T) {
	t.Run("forwards the patch path", func(t *testing.T) {
		var capturedPath string

		mock := &mockApp{
			checkFunc: func(_ context.Context, path string, _ app.CheckOptions) error {
				capturedPath = path
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"check", "demo/patch.yaml"})

		err := cli.Execute(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "demo/patch.yaml", capturedPath)
	})

	t.Run("dot dash writes to stdout", func(t *testing.T) {
		var capturedOpts app.CheckOptions

		mock := &mockApp{
			checkFunc: func(_ context.Context, _ string, opts app.CheckOptions) error {
				capturedOpts = opts
				return nil
			},
		}

		cli := commands.New(mock)
		buf := new(bytes.Buffer)
		cli.SetOutput(buf, buf)
		cli.SetArgs([]string{"check", "--dot", "-"})

		err := cli.Execute(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, capturedOpts.DOT)
	})

	t.Run("dot file is created", func(t *testing.T) {
		target := t.TempDir() + "/graph.dot"

		mock := &mockApp{
			checkFunc: func(_ context.Context, _ string, opts app.CheckOptions) error {
				_, err := opts.DOT.Write([]byte("digraph {}\n"))
				return err
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"check", "--dot", target})

		err := cli.Execute(context.Background())
		require.NoError(t, err)
		assert.FileExists(t, target)
	})
}

func TestCommands_Version(t *testing.T) {
	mock := &mockApp{}
	cli := commands.New(mock)

	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"version"})

	err := cli.Execute(context.Background())
	require.NoError(t, err)

	assert.Contains(t, buf.String(), build.Version)
}
