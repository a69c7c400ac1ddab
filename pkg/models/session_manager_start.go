package models

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/voxlink/asr-session-server/pkg/asr"
	"github.com/voxlink/asr-session-server/pkg/config"
)

type StartSessionReq struct {
	SessionId string `json:"session_id"`
	Language  string `json:"language"`
	Model     string `json:"model"`
}

// StartSession admits and registers a new session. On any failure after
// admission the slot is released before returning, so no partial session is
// ever left behind.
func (m *SessionManager) StartSession(req *StartSessionReq) (string, error) {
	if req == nil {
		req = new(StartSessionReq)
	}

	if !m.gate.tryAcquire() {
		return "", ErrAdmissionRejected
	}

	sessionId := req.SessionId
	if sessionId == "" {
		sessionId = uuid.NewString()
	}

	profile := asr.Profile{
		Language:   req.Language,
		Model:      req.Model,
		SampleRate: config.AudioSampleRate,
	}
	if profile.Language == "" {
		profile.Language = m.app.Recognizer.DefaultLanguage
	}

	sess, err := m.newRecognitionSession(sessionId, profile)
	if err != nil {
		m.gate.release()
		return "", fmt.Errorf("%w: %v", ErrStartFailed, err)
	}

	ms := newManagedSession(sessionId, m.app.Recognizer.Mode, profile, sess, m.now())
	if !m.table.insert(ms) {
		sess.Abort()
		m.gate.release()
		return "", fmt.Errorf("%w: session id %s is already active", ErrStartFailed, sessionId)
	}

	if m.rs != nil {
		if err := m.rs.SpeechSessionStarted(sessionId); err != nil {
			m.logger.WithError(err).Errorln("failed to record session start")
		}
	}
	if m.natsService != nil {
		m.natsService.BroadcastSessionStarted(sessionId, ms.mode, profile.Language)
	}

	m.logger.WithField("sessionId", sessionId).WithField("mode", ms.mode).Infoln("session started")
	return sessionId, nil
}

func (m *SessionManager) newRecognitionSession(sessionId string, profile asr.Profile) (recognitionSession, error) {
	l := m.logger.WithField("sessionId", sessionId)

	switch m.app.Recognizer.Mode {
	case config.RecognizerModeStreaming:
		if m.backends == nil || m.backends.Stream == nil {
			return nil, fmt.Errorf("no streaming backend configured")
		}
		stream, err := m.backends.Stream.CreateStream(m.ctx, sessionId, profile)
		if err != nil {
			return nil, err
		}
		return newStreamingSession(sessionId, stream, m.app.Recognizer.FinalizeGracePeriod, l), nil
	case config.RecognizerModeBatch:
		if m.backends == nil || m.backends.Batch == nil {
			return nil, fmt.Errorf("no batch backend configured")
		}
		return newBatchSession(sessionId, m.backends.Batch, profile, m.batchPool, m.app.Recognizer.MaxSessionBytes, l), nil
	default:
		return nil, fmt.Errorf("unknown recognizer mode: %q", m.app.Recognizer.Mode)
	}
}
