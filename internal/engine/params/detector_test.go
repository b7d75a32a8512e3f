package params_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/patchwork/internal/core/domain"
	"go.trai.ch/patchwork/internal/engine/params"
)

var (
	paramValue = domain.NewName("value")
	paramGain  = domain.NewName("gain")
)

func TestDetector_FirstWriteIsAdded(t *testing.T) {
	d := params.NewDetector()
	defer d.Close()

	change := d.Check("n1", paramValue, 1.0)
	assert.True(t, change.Changed)
	assert.Equal(t, params.KindAdded, change.Kind)
}

func TestDetector_NoOpWriteSuppressed(t *testing.T) {
	d := params.NewDetector()
	defer d.Close()

	d.Check("n1", paramValue, 1.0)

	change := d.Check("n1", paramValue, 1.0)
	assert.False(t, change.Changed)
	assert.Equal(t, params.KindUnchanged, change.Kind)
}

func TestDetector_ModifiedWrite(t *testing.T) {
	d := params.NewDetector()
	defer d.Close()

	d.Check("n1", paramValue, 1.0)

	change := d.Check("n1", paramValue, 2.0)
	assert.True(t, change.Changed)
	assert.Equal(t, params.KindModified, change.Kind)

	// Writing the old value again is a change back, not a no-op.
	change = d.Check("n1", paramValue, 1.0)
	assert.True(t, change.Changed)
	assert.Equal(t, params.KindModified, change.Kind)
}

func TestDetector_StructuralEquality(t *testing.T) {
	d := params.NewDetector()
	defer d.Close()

	// Composite values compare by structure, not by reference.
	d.Check("n1", paramValue, []domain.Value{1.0, "x"})
	change := d.Check("n1", paramValue, []domain.Value{1.0, "x"})
	assert.False(t, change.Changed)

	change = d.Check("n1", paramValue, []domain.Value{1.0, "y"})
	assert.True(t, change.Changed)
}

func TestDetector_KeysAreIndependent(t *testing.T) {
	d := params.NewDetector()
	defer d.Close()

	d.Check("n1", paramValue, 1.0)

	// Same value under a different parameter or node is still a first write.
	assert.Equal(t, params.KindAdded, d.Check("n1", paramGain, 1.0).Kind)
	assert.Equal(t, params.KindAdded, d.Check("n2", paramValue, 1.0).Kind)
}

func TestDetector_Events(t *testing.T) {
	d := params.NewDetector()

	d.Check("n1", paramValue, 1.0)
	d.Check("n1", paramValue, 1.0) // suppressed, no event
	d.Check("n1", paramValue, 2.0)
	d.Close()

	var events []params.Event
	for ev := range d.Events() {
		events = append(events, ev)
	}

	require.Len(t, events, 2)
	assert.Equal(t, params.KindAdded, events[0].Kind)
	assert.Equal(t, params.KindModified, events[1].Kind)
	assert.Equal(t, domain.NodeID("n1"), events[0].Node)
	assert.Equal(t, paramValue, events[0].Param)
}

func TestDetector_BackpressureDropsInsteadOfBlocking(t *testing.T) {
	d := params.NewDetector()
	defer d.Close()

	// No consumer: flood past the buffer. Every write must return
	// immediately and the overflow must be counted, not delivered late.
	for i := range 1000 {
		d.Check("n1", paramValue, float64(i))
	}

	assert.Positive(t, d.Dropped())
}

func TestDetector_Forget(t *testing.T) {
	d := params.NewDetector()
	defer d.Close()

	d.Check("n1", paramValue, 1.0)
	d.Forget("n1")

	// The key is gone, so the same write registers as added again.
	assert.Equal(t, params.KindAdded, d.Check("n1", paramValue, 1.0).Kind)
}

func TestDetector_CheckAfterClose(t *testing.T) {
	d := params.NewDetector()
	d.Close()
	d.Close() // idempotent

	change := d.Check("n1", paramValue, 1.0)
	assert.True(t, change.Changed, "detection still works, only the stream is gone")
}
