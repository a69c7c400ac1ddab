package models

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/voxlink/asr-session-server/pkg/asr"
)

const (
	SessionStatusCollecting = "collecting"
	SessionStatusRunning    = "running"
	SessionStatusProcessing = "processing"
	SessionStatusFinished   = "finished"
	SessionStatusError      = "error"
)

const (
	EventTypeIntermediate = "intermediate"
	EventTypeFinal        = "final"
)

// NoSpeechDetected is the explicit result of a session that ended without
// any audio.
const NoSpeechDetected = "no speech detected"

// TimedEvent is one recognition event as received from the backend, kept for
// the intermediate_results report of a streaming session.
type TimedEvent struct {
	Type      string `json:"type"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// TranscriptionResult is the definitive outcome of a finalized session.
type TranscriptionResult struct {
	FinalText string       `json:"final_result"`
	Events    []TimedEvent `json:"intermediate_results,omitempty"`
}

// SessionSnapshot is a point-in-time view of a live session, safe to hand to
// callers after the session itself is gone.
type SessionSnapshot struct {
	SessionId      string  `json:"session_id"`
	Mode           string  `json:"mode"`
	Status         string  `json:"status"`
	Language       string  `json:"language"`
	CreatedAt      int64   `json:"created_at"`
	LastActivityAt int64   `json:"last_activity_at"`
	IdleSeconds    float64 `json:"idle_seconds"`
	BytesCollected int64   `json:"bytes_collected"`
}

// recognitionSession is the variant-specific part of a session. The
// streaming and batch implementations share this capability set so the
// manager never branches on the mode.
type recognitionSession interface {
	Status() string
	Feed(chunk []byte) error
	CurrentTranscript() string
	BytesCollected() int64
	Finalize(ctx context.Context) (*TranscriptionResult, error)
	Abort()
}

// managedSession wraps a recognition session with the bookkeeping the table
// and the reaper need. The admission slot is released through releaseOnce so
// a stop racing the reaper can never double-release.
type managedSession struct {
	id        string
	mode      string
	profile   asr.Profile
	createdAt time.Time

	lastActivity atomic.Int64 // unix nanoseconds
	releaseOnce  sync.Once

	sess recognitionSession
}

func newManagedSession(id, mode string, profile asr.Profile, sess recognitionSession, now time.Time) *managedSession {
	m := &managedSession{
		id:        id,
		mode:      mode,
		profile:   profile,
		createdAt: now,
		sess:      sess,
	}
	m.lastActivity.Store(now.UnixNano())
	return m
}

// touch refreshes the liveness timestamp. lastActivity never goes backwards.
func (m *managedSession) touch(now time.Time) {
	ts := now.UnixNano()
	for {
		prev := m.lastActivity.Load()
		if ts <= prev || m.lastActivity.CompareAndSwap(prev, ts) {
			return
		}
	}
}

func (m *managedSession) idleFor(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, m.lastActivity.Load()))
}

// releaseSlot gives the admission slot back, at most once per session.
func (m *managedSession) releaseSlot(gate *admissionGate) {
	m.releaseOnce.Do(gate.release)
}

func (m *managedSession) snapshot(now time.Time) *SessionSnapshot {
	last := time.Unix(0, m.lastActivity.Load())
	return &SessionSnapshot{
		SessionId:      m.id,
		Mode:           m.mode,
		Status:         m.sess.Status(),
		Language:       m.profile.Language,
		CreatedAt:      m.createdAt.Unix(),
		LastActivityAt: last.Unix(),
		IdleSeconds:    now.Sub(last).Seconds(),
		BytesCollected: m.sess.BytesCollected(),
	}
}
