package models

// GetStatus returns a snapshot of the session, refreshing its liveness
// timestamp as a side effect.
func (m *SessionManager) GetStatus(sessionId string) (*SessionSnapshot, error) {
	now := m.now()
	ms := m.table.get(sessionId, now)
	if ms == nil {
		return nil, ErrSessionNotFound
	}
	return ms.snapshot(now), nil
}

// CurrentTranscript returns the merged transcript accumulated so far. Batch
// sessions have no incremental results, so the transcript stays empty until
// they finish.
func (m *SessionManager) CurrentTranscript(sessionId string) (string, error) {
	ms := m.table.get(sessionId, m.now())
	if ms == nil {
		return "", ErrSessionNotFound
	}
	return ms.sess.CurrentTranscript(), nil
}
