package natsservice

import "time"

type SessionStartedEvent struct {
	SessionId string `json:"sessionId"`
	Mode      string `json:"mode"`
	Language  string `json:"language"`
	StartedAt int64  `json:"startedAt"`
}

type SessionEndedEvent struct {
	SessionId  string `json:"sessionId"`
	Mode       string `json:"mode"`
	Reason     string `json:"reason"`
	Transcript string `json:"transcript"`
	EndedAt    int64  `json:"endedAt"`
}

// BroadcastSessionStarted publishes a session start event. Delivery is best
// effort, a failure only logs.
func (s *NatsService) BroadcastSessionStarted(sessionId, mode, language string) {
	err := s.publish("session.started", &SessionStartedEvent{
		SessionId: sessionId,
		Mode:      mode,
		Language:  language,
		StartedAt: time.Now().Unix(),
	})
	if err != nil {
		s.logger.WithError(err).Errorln("failed to publish session started event")
	}
}

// BroadcastSessionEnded publishes the final transcript of an ended session.
func (s *NatsService) BroadcastSessionEnded(sessionId, mode, reason, transcript string) {
	err := s.publish("session.ended", &SessionEndedEvent{
		SessionId:  sessionId,
		Mode:       mode,
		Reason:     reason,
		Transcript: transcript,
		EndedAt:    time.Now().Unix(),
	})
	if err != nil {
		s.logger.WithError(err).Errorln("failed to publish session ended event")
	}
}
