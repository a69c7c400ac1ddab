package models

import (
	"time"
)

// reaperLoop periodically reclaims sessions whose clients went away without
// calling stop. It runs until Shutdown cancels the manager context.
func (m *SessionManager) reaperLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.app.Recognizer.ReaperInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.sweep(m.now())
		}
	}
}

// sweep force-terminates every session idle past the timeout. An explicit
// stop racing the sweep wins through the table's remove choke point; losing
// that race is treated as success. One session's cleanup failure never
// stalls the rest of the sweep.
func (m *SessionManager) sweep(now time.Time) {
	timeout := m.app.Recognizer.SessionTimeout

	for _, candidate := range m.table.expired(now, timeout) {
		ms := m.table.remove(candidate.id)
		if ms == nil {
			continue
		}

		l := m.logger.WithField("sessionId", ms.id)
		l.WithField("idle", ms.idleFor(now).String()).Infoln("reaping idle session")

		ms.sess.Abort()
		m.afterSessionEnded(ms, ms.sess.CurrentTranscript(), "expired")
		ms.releaseSlot(m.gate)
	}
}
