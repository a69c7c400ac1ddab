package models

import (
	"errors"
)

// PushAudio feeds one chunk to the session and returns the current partial
// transcript. A backend failure aborts the session and releases its slot;
// the caller sees the error exactly once, after that the id is gone.
func (m *SessionManager) PushAudio(sessionId string, chunk []byte) (string, error) {
	ms := m.table.get(sessionId, m.now())
	if ms == nil {
		return "", ErrSessionNotFound
	}

	err := ms.sess.Feed(chunk)
	if err == nil {
		return ms.sess.CurrentTranscript(), nil
	}
	if errors.Is(err, ErrWrongState) || errors.Is(err, ErrSessionTooLarge) {
		return "", err
	}

	// backend failure, the session cannot continue
	m.logger.WithField("sessionId", sessionId).WithError(err).Errorln("aborting session after backend failure")
	if removed := m.table.remove(sessionId); removed != nil {
		removed.sess.Abort()
		m.afterSessionEnded(removed, removed.sess.CurrentTranscript(), "error")
		removed.releaseSlot(m.gate)
	}
	return "", err
}
