package models

// StopSession terminates the session and returns its definitive result. The
// table removal happens first and decides any race with the reaper; the
// loser observes ErrSessionNotFound. In batch mode this call blocks for the
// full recognition, with no lock held.
func (m *SessionManager) StopSession(sessionId string) (*TranscriptionResult, error) {
	ms := m.table.remove(sessionId)
	if ms == nil {
		return nil, ErrSessionNotFound
	}
	defer ms.releaseSlot(m.gate)

	result, err := ms.sess.Finalize(m.ctx)
	if err != nil {
		ms.sess.Abort()
		m.afterSessionEnded(ms, ms.sess.CurrentTranscript(), "error")
		return nil, err
	}

	m.afterSessionEnded(ms, result.FinalText, "stopped")
	m.logger.WithField("sessionId", sessionId).Infoln("session stopped")
	return result, nil
}
