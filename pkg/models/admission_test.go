package models

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmissionAtCapacity(t *testing.T) {
	const capacity = 3
	m, _ := newBatchTestManager(capacity, "ok")
	defer m.Shutdown()

	var ids []string
	for i := 0; i < capacity; i++ {
		id, err := m.StartSession(nil)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	// the (N+1)-th start must be rejected, not queued
	_, err := m.StartSession(nil)
	assert.ErrorIs(t, err, ErrAdmissionRejected)

	// one slot frees up after any stop
	_, err = m.StopSession(ids[0])
	require.NoError(t, err)

	id, err := m.StartSession(nil)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

// TestAdmissionCountInvariant interleaves random operations and checks after
// every step that the slot count equals starts minus terminations and stays
// within [0, N].
func TestAdmissionCountInvariant(t *testing.T) {
	const capacity = 4
	m, _ := newBatchTestManager(capacity, "ok")
	defer m.Shutdown()

	rng := rand.New(rand.NewSource(42))
	var live []string
	started, stopped := 0, 0

	checkInvariant := func() {
		active := m.gate.activeCount()
		assert.Equal(t, int64(started-stopped), active)
		assert.GreaterOrEqual(t, active, int64(0))
		assert.LessOrEqual(t, active, int64(capacity))
	}

	for i := 0; i < 500; i++ {
		if len(live) == 0 || rng.Intn(2) == 0 {
			id, err := m.StartSession(nil)
			if started-stopped >= capacity {
				assert.ErrorIs(t, err, ErrAdmissionRejected)
			} else {
				require.NoError(t, err)
				live = append(live, id)
				started++
			}
		} else {
			idx := rng.Intn(len(live))
			id := live[idx]
			live = append(live[:idx], live[idx+1:]...)

			if rng.Intn(3) == 0 {
				// reap instead of stopping, same slot accounting
				ms := m.table.remove(id)
				require.NotNil(t, ms)
				ms.sess.Abort()
				ms.releaseSlot(m.gate)
			} else {
				_, err := m.StopSession(id)
				require.NoError(t, err)
			}
			stopped++
		}
		checkInvariant()
	}
}

func TestAdmissionGateNeverBlocks(t *testing.T) {
	g := newAdmissionGate(1)
	require.True(t, g.tryAcquire())

	done := make(chan bool, 1)
	go func() {
		done <- g.tryAcquire()
	}()
	assert.False(t, <-done)

	g.release()
	assert.True(t, g.tryAcquire())
	assert.Equal(t, int64(1), g.activeCount())
}
