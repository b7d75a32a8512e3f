package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/patchwork/internal/adapters/kinds"
	"go.trai.ch/patchwork/internal/app"
	"go.trai.ch/patchwork/internal/core/domain"
	"go.trai.ch/patchwork/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newMockComponents(t *testing.T) (*app.Components, *mocks.MockPatchLoader, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)

	mockLoader := mocks.NewMockPatchLoader(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockWatcher := mocks.NewMockWatcher(ctrl)

	application := app.New(
		mockLoader,
		mockLogger,
		kinds.NewBuiltinRegistry(),
		kinds.NewTypeChecker(),
		mockWatcher,
	)
	return &app.Components{App: application, Logger: mockLogger}, mockLoader, mockLogger
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	components, _, _ := newMockComponents(t)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)
	assert.Equal(t, 0, exitCode)
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run returns 1 when the command execution fails.
func TestRun_ExecutionError(t *testing.T) {
	components, mockLoader, mockLogger := newMockComponents(t)

	mockLoader.EXPECT().Discover(gomock.Any()).Return("", domain.ErrPatchNotFound)
	mockLogger.EXPECT().Error(gomock.Any())

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"eval"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
}

// TestRun_EvaluationFailure verifies that node failures exit non-zero without
// a duplicate error log.
func TestRun_EvaluationFailure(t *testing.T) {
	components, mockLoader, mockLogger := newMockComponents(t)

	// A const node without its "value" parameter fails evaluation.
	doc := &domain.PatchDoc{
		Name: "broken",
		Nodes: []domain.PatchNode{
			{ID: "source", Kind: domain.NewName("const")},
		},
	}
	mockLoader.EXPECT().Load("patch.yaml").Return(doc, nil)
	mockLogger.EXPECT().Info(gomock.Any()).AnyTimes()
	// Exactly the node-scoped failure, no trailing command error.
	mockLogger.EXPECT().Error(gomock.Any()).Times(1)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"eval", "patch.yaml", "-o", "pretty"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
}
