package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Chunks must reach the transcriber exactly once, concatenated in push
// order.
func TestBatchChunksConcatenatedInOrder(t *testing.T) {
	m, ft := newBatchTestManager(2, "转写结果")
	defer m.Shutdown()

	id, err := m.StartSession(nil)
	require.NoError(t, err)

	_, err = m.PushAudio(id, []byte("AAAA"))
	require.NoError(t, err)
	_, err = m.PushAudio(id, []byte("BBBB"))
	require.NoError(t, err)

	result, err := m.StopSession(id)
	require.NoError(t, err)
	assert.Equal(t, "转写结果", result.FinalText)

	assert.Equal(t, 1, ft.callCount())
	assert.Equal(t, []byte("AAAABBBB"), ft.lastCall())
}

// An empty batch session is not an error, it yields an explicit result.
func TestBatchEmptySession(t *testing.T) {
	m, ft := newBatchTestManager(2, "should not be called")
	defer m.Shutdown()

	id, err := m.StartSession(nil)
	require.NoError(t, err)

	result, err := m.StopSession(id)
	require.NoError(t, err)
	assert.Equal(t, NoSpeechDetected, result.FinalText)
	assert.Equal(t, 0, ft.callCount())
}

func TestBatchStatusReportsCollectedBytes(t *testing.T) {
	m, _ := newBatchTestManager(2, "ok")
	defer m.Shutdown()

	id, err := m.StartSession(nil)
	require.NoError(t, err)

	_, err = m.PushAudio(id, make([]byte, 1024))
	require.NoError(t, err)

	snapshot, err := m.GetStatus(id)
	require.NoError(t, err)
	assert.Equal(t, SessionStatusCollecting, snapshot.Status)
	assert.Equal(t, int64(1024), snapshot.BytesCollected)
}

func TestBatchFeedAfterFinalizeIsWrongState(t *testing.T) {
	sess := newBatchSession("t1", &fakeTranscriber{result: "x"}, profileForTest(), nil, 0, testLogEntry())

	require.NoError(t, sess.Feed([]byte("audio")))

	_, err := sess.Finalize(t.Context())
	require.NoError(t, err)

	assert.ErrorIs(t, sess.Feed([]byte("more")), ErrWrongState)

	_, err = sess.Finalize(t.Context())
	assert.ErrorIs(t, err, ErrWrongState)
}

func TestBatchSessionByteLimit(t *testing.T) {
	sess := newBatchSession("t2", &fakeTranscriber{result: "x"}, profileForTest(), nil, 8, testLogEntry())

	require.NoError(t, sess.Feed(make([]byte, 8)))
	assert.ErrorIs(t, sess.Feed([]byte{1}), ErrSessionTooLarge)
}

func TestBatchTranscriberFailure(t *testing.T) {
	m, _ := newBatchTestManager(1, "")
	defer m.Shutdown()

	ft := m.backends.Batch.(*fakeTranscriber)
	ft.err = assert.AnError

	id, err := m.StartSession(nil)
	require.NoError(t, err)

	_, err = m.PushAudio(id, []byte("audio"))
	require.NoError(t, err)

	_, err = m.StopSession(id)
	require.Error(t, err)

	// the slot is free again despite the backend failure
	assert.Equal(t, int64(0), m.gate.activeCount())
	_, err = m.StartSession(nil)
	require.NoError(t, err)
}
