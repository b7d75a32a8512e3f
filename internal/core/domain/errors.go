package domain

import "go.trai.ch/zerr"

var (
	// ErrNodeNotFound is returned when a referenced node does not exist in the graph.
	ErrNodeNotFound = zerr.New("node not found")

	// ErrNodeAlreadyExists is returned when adding a node whose id is already taken.
	ErrNodeAlreadyExists = zerr.New("node already exists")

	// ErrPortNotFound is returned when a referenced port is not part of a node's kind.
	ErrPortNotFound = zerr.New("port not found")

	// ErrTypeMismatch is returned when two connected port types are incompatible.
	ErrTypeMismatch = zerr.New("port types are incompatible")

	// ErrCycleDetected is returned when an edge would create a cycle, or when
	// evaluation finds nodes on a dependency cycle.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrCapacityExceeded is returned when a single-input port already has an incoming edge.
	ErrCapacityExceeded = zerr.New("input port capacity exceeded")

	// ErrDuplicateEdge is returned when the exact same edge already exists.
	ErrDuplicateEdge = zerr.New("edge already exists")

	// ErrEdgeNotFound is returned when removing an edge that does not exist.
	ErrEdgeNotFound = zerr.New("edge not found")

	// ErrEvaluationFailed is returned when a node's kind logic fails.
	// The failing node stays dirty and is retried on the next pass.
	ErrEvaluationFailed = zerr.New("node evaluation failed")

	// ErrEvaluationSkipped is recorded against nodes that could not evaluate
	// because an upstream dependency failed or sits on a cycle.
	ErrEvaluationSkipped = zerr.New("evaluation skipped, upstream dependency unavailable")

	// ErrKindNotRegistered is returned when a node references a kind with no
	// registered evaluation logic.
	ErrKindNotRegistered = zerr.New("node kind not registered")

	// ErrMissingInput is returned when a required dependency output is not
	// available at evaluation time.
	ErrMissingInput = zerr.New("dependency output unavailable")

	// ErrPatchNotFound is returned when no patch document can be located.
	ErrPatchNotFound = zerr.New("could not find patch file")

	// ErrPatchReadFailed is returned when the patch document cannot be read.
	ErrPatchReadFailed = zerr.New("failed to read patch file")

	// ErrPatchParseFailed is returned when the patch document cannot be parsed.
	ErrPatchParseFailed = zerr.New("failed to parse patch file")

	// ErrInvalidPortRef is returned when an edge endpoint is not of the form "node.port".
	ErrInvalidPortRef = zerr.New("invalid port reference, expected format: node.port")

	// ErrEvaluationAborted is returned when an evaluation pass is cancelled
	// before completing.
	ErrEvaluationAborted = zerr.New("evaluation aborted")
)
