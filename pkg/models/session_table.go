package models

import (
	"sync"
	"time"
)

// sessionTable is the shared registry of live sessions. Every operation runs
// in one critical section; remove is the single choke point through which a
// session leaves the table, so exactly one of a racing stop and reaper tick
// gets to terminate it.
type sessionTable struct {
	mu       sync.Mutex
	sessions map[string]*managedSession
}

func newSessionTable() *sessionTable {
	return &sessionTable{
		sessions: make(map[string]*managedSession),
	}
}

// insert registers a session. Returns false if the id is already live.
func (t *sessionTable) insert(s *managedSession) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.sessions[s.id]; ok {
		return false
	}
	t.sessions[s.id] = s
	return true
}

// get returns the session and refreshes its liveness timestamp. Any
// authenticated interaction with a session counts as activity.
func (t *sessionTable) get(id string, now time.Time) *managedSession {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sessions[id]
	if !ok {
		return nil
	}
	s.touch(now)
	return s
}

// remove takes the session out of the table. Returns nil when it is already
// gone, which a caller treats as losing the termination race, not an error.
func (t *sessionTable) remove(id string) *managedSession {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sessions[id]
	if !ok {
		return nil
	}
	delete(t.sessions, id)
	return s
}

// expired returns the sessions idle longer than timeout. The caller still
// has to win the remove race before acting on any of them.
func (t *sessionTable) expired(now time.Time, timeout time.Duration) []*managedSession {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []*managedSession
	for _, s := range t.sessions {
		if s.idleFor(now) > timeout {
			out = append(out, s)
		}
	}
	return out
}

func (t *sessionTable) snapshots(now time.Time) []*SessionSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*SessionSnapshot, 0, len(t.sessions))
	for _, s := range t.sessions {
		out = append(out, s.snapshot(now))
	}
	return out
}

func (t *sessionTable) ids() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, 0, len(t.sessions))
	for id := range t.sessions {
		out = append(out, id)
	}
	return out
}

func (t *sessionTable) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sessions)
}
