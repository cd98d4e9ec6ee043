package sequence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typeflow/fontcache/service/diagnostics"
)

func TestHandleSettlesExactlyOnce(t *testing.T) {
	h := newHandle()
	assert.False(t, h.Settled())

	assert.True(t, h.settle("v", nil))
	assert.False(t, h.settle("other", errors.New("late")))
	assert.True(t, h.Settled())

	value, err := h.Wait(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "v", value)
}

func TestNilHandleMeansNoDependency(t *testing.T) {
	var h *Handle
	assert.True(t, h.Settled())

	value, err := h.Wait(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, value)

	select {
	case <-h.Done():
	default:
		t.Fatal("nil handle Done channel must be closed")
	}
}

func TestHandleWaitHonoursContext(t *testing.T) {
	h := newHandle()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := h.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStandaloneDeferred(t *testing.T) {
	recorder := &diagnostics.Recorder{}
	diagnostics.SetSink(recorder)
	defer diagnostics.SetSink(nil)

	d := NewDeferred("standalone")
	assert.Equal(t, "standalone", d.Label())

	// No dependency was ever assigned: anomaly reported, nil returned, and
	// a nil handle waits as already settled.
	preceding := d.Preceding()
	require.Nil(t, preceding)
	assert.Equal(t, 1, recorder.CountByCode(diagnostics.CodeMissingPreceding))

	_, err := preceding.Wait(context.Background())
	assert.NoError(t, err)

	d.Resolve(42)
	value, err := d.Handle().Wait(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 42, value)
}

func TestRejectPassesErrorThroughUnchanged(t *testing.T) {
	d := NewDeferred("failing")
	cause := errors.New("read failure")
	d.Reject(cause)

	_, err := d.Handle().Wait(context.Background())
	assert.Same(t, cause, err)
}
