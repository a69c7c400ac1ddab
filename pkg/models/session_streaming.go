package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/voxlink/asr-session-server/pkg/asr"
)

// Recognizers tend to open a segment with dangling punctuation left over
// from the previous utterance. We strip it from the head of a hypothesis and
// make sure every finalized segment ends with a sentence terminator.
const (
	leadingPunctuation = "，。？！、；："
	sentenceTerminator = "。"
)

// streamingSession forwards audio to a live recognition stream and merges
// the backend's intermediate and final events into a transcript. Every
// intermediate event carries a complete hypothesis for the still-open
// utterance, so it replaces the current segment instead of being appended.
type streamingSession struct {
	id     string
	stream asr.Stream
	grace  time.Duration
	logger *logrus.Entry

	mu        sync.Mutex
	status    string
	finalized []string
	current   string
	events    []TimedEvent
	bytes     int64
	lastErr   error

	// closed when the result consumer goroutine exits, i.e. the backend
	// has delivered all trailing events.
	done chan struct{}
}

func newStreamingSession(id string, stream asr.Stream, grace time.Duration, logger *logrus.Entry) *streamingSession {
	s := &streamingSession{
		id:     id,
		stream: stream,
		grace:  grace,
		logger: logger,
		status: SessionStatusRunning,
		done:   make(chan struct{}),
	}
	go s.consumeResults()
	return s
}

func (s *streamingSession) consumeResults() {
	defer close(s.done)
	for r := range s.stream.Results() {
		s.applyResult(r, time.Now())
	}
}

func (s *streamingSession) applyResult(r *asr.Result, now time.Time) {
	text := strings.TrimLeft(r.Text, leadingPunctuation)
	if text == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	eventType := EventTypeFinal
	if r.IsPartial {
		eventType = EventTypeIntermediate
	}
	s.events = append(s.events, TimedEvent{
		Type:      eventType,
		Text:      text,
		Timestamp: now.Format("15:04:05"),
	})

	if r.IsPartial {
		s.current = text
		return
	}
	if !strings.HasSuffix(text, sentenceTerminator) {
		text += sentenceTerminator
	}
	s.finalized = append(s.finalized, text)
	s.current = ""
}

func (s *streamingSession) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *streamingSession) BytesCollected() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bytes
}

// Feed forwards one audio chunk to the recognition stream.
func (s *streamingSession) Feed(chunk []byte) error {
	s.mu.Lock()
	if s.status != SessionStatusRunning {
		s.mu.Unlock()
		return ErrWrongState
	}
	s.bytes += int64(len(chunk))
	s.mu.Unlock()

	if _, err := s.stream.Write(chunk); err != nil {
		s.mu.Lock()
		s.status = SessionStatusError
		s.lastErr = err
		s.mu.Unlock()
		return fmt.Errorf("recognition stream rejected audio: %w", err)
	}
	return nil
}

// CurrentTranscript merges the finalized segments with the in-flight
// hypothesis. Reads take the same lock as event merging, so a racing final
// event can never be observed half applied.
func (s *streamingSession) CurrentTranscript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.Join(s.finalized, "") + s.current
}

// Finalize signals end-of-input and waits up to the grace period for the
// backend's trailing final segment before assembling the result.
func (s *streamingSession) Finalize(ctx context.Context) (*TranscriptionResult, error) {
	s.mu.Lock()
	if s.status != SessionStatusRunning && s.status != SessionStatusError {
		s.mu.Unlock()
		return nil, ErrWrongState
	}
	hadErr := s.status == SessionStatusError
	s.status = SessionStatusProcessing
	s.mu.Unlock()

	if err := s.stream.Close(); err != nil && !hadErr {
		s.logger.WithError(err).Warnln("failed to close recognition stream cleanly")
	}

	select {
	case <-s.done:
	case <-time.After(s.grace):
		s.logger.Warnln("recognition backend did not flush within the grace period")
	case <-ctx.Done():
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if hadErr {
		s.status = SessionStatusError
		return nil, fmt.Errorf("recognition backend failed: %w", s.lastErr)
	}
	s.status = SessionStatusFinished

	// when no closing final event arrived within the grace window, the
	// in-flight hypothesis is still the user's last utterance; close it
	// as a segment instead of dropping it
	if s.current != "" {
		text := s.current
		if !strings.HasSuffix(text, sentenceTerminator) {
			text += sentenceTerminator
		}
		s.finalized = append(s.finalized, text)
		s.current = ""
	}

	final := strings.TrimRight(strings.Join(s.finalized, ""), sentenceTerminator)
	return &TranscriptionResult{
		FinalText: final,
		Events:    s.events,
	}, nil
}

// Abort force-closes the stream without waiting for trailing events.
func (s *streamingSession) Abort() {
	s.mu.Lock()
	if s.status == SessionStatusFinished || s.status == SessionStatusError {
		s.mu.Unlock()
		return
	}
	s.status = SessionStatusError
	s.mu.Unlock()

	if err := s.stream.Close(); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.WithError(err).Debugln("error while aborting recognition stream")
	}
}
