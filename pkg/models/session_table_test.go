package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableSession(id string, now time.Time) *managedSession {
	return newManagedSession(id, "batch", profileForTest(), newBatchSession(id, &fakeTranscriber{}, profileForTest(), nil, 0, testLogEntry()), now)
}

func TestSessionTableInsertRejectsDuplicates(t *testing.T) {
	tb := newSessionTable()
	now := time.Now()

	require.True(t, tb.insert(tableSession("a", now)))
	assert.False(t, tb.insert(tableSession("a", now)))
	assert.Equal(t, 1, tb.size())
}

func TestSessionTableRemoveIsSingleWinner(t *testing.T) {
	tb := newSessionTable()
	tb.insert(tableSession("a", time.Now()))

	require.NotNil(t, tb.remove("a"))
	assert.Nil(t, tb.remove("a"))
	assert.Nil(t, tb.get("a", time.Now()))
}

func TestSessionTableGetRefreshesActivity(t *testing.T) {
	tb := newSessionTable()
	start := time.Now()
	tb.insert(tableSession("a", start))

	later := start.Add(time.Minute)
	ms := tb.get("a", later)
	require.NotNil(t, ms)
	assert.Equal(t, later.UnixNano(), ms.lastActivity.Load())

	// a stale timestamp never rolls activity back
	ms.touch(start)
	assert.Equal(t, later.UnixNano(), ms.lastActivity.Load())
}

func TestSessionTableExpired(t *testing.T) {
	tb := newSessionTable()
	start := time.Now()
	tb.insert(tableSession("old", start))
	tb.insert(tableSession("fresh", start))

	// keep one session alive
	tb.get("fresh", start.Add(4*time.Minute))

	expired := tb.expired(start.Add(5*time.Minute+time.Second), 5*time.Minute)
	require.Len(t, expired, 1)
	assert.Equal(t, "old", expired[0].id)
}
