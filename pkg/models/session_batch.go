package models

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/gammazero/workerpool"
	"github.com/sirupsen/logrus"
	"github.com/voxlink/asr-session-server/pkg/asr"
)

// batchSession buffers audio chunks in order and transcribes the whole
// payload once at finalize time. The recognition call runs on the shared
// worker pool so a burst of stops cannot fan out unbounded backend requests.
type batchSession struct {
	id          string
	transcriber asr.BatchTranscriber
	profile     asr.Profile
	pool        *workerpool.WorkerPool
	maxBytes    int64
	logger      *logrus.Entry

	mu     sync.Mutex
	status string
	chunks [][]byte
	bytes  int64
	final  string
}

func newBatchSession(id string, transcriber asr.BatchTranscriber, profile asr.Profile, pool *workerpool.WorkerPool, maxBytes int64, logger *logrus.Entry) *batchSession {
	return &batchSession{
		id:          id,
		transcriber: transcriber,
		profile:     profile,
		pool:        pool,
		maxBytes:    maxBytes,
		logger:      logger,
		status:      SessionStatusCollecting,
	}
}

func (s *batchSession) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *batchSession) BytesCollected() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bytes
}

// Feed appends one chunk to the ordered buffer. The chunk is copied because
// the caller may reuse its backing array.
func (s *batchSession) Feed(chunk []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != SessionStatusCollecting {
		return ErrWrongState
	}
	if s.maxBytes > 0 && s.bytes+int64(len(chunk)) > s.maxBytes {
		return ErrSessionTooLarge
	}
	buf := make([]byte, len(chunk))
	copy(buf, chunk)
	s.chunks = append(s.chunks, buf)
	s.bytes += int64(len(chunk))
	return nil
}

// CurrentTranscript is empty until the session is finished; batch mode has
// no incremental results.
func (s *batchSession) CurrentTranscript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.final
}

// Finalize concatenates the buffered chunks and invokes the transcriber once
// on the full payload. An empty buffer is not an error, it yields an
// explicit "no speech detected" result.
func (s *batchSession) Finalize(ctx context.Context) (*TranscriptionResult, error) {
	s.mu.Lock()
	if s.status != SessionStatusCollecting {
		s.mu.Unlock()
		return nil, ErrWrongState
	}
	s.status = SessionStatusProcessing
	chunks := s.chunks
	s.chunks = nil
	s.mu.Unlock()

	audio := bytes.Join(chunks, nil)
	if len(audio) == 0 {
		s.setFinished(NoSpeechDetected)
		return &TranscriptionResult{FinalText: NoSpeechDetected}, nil
	}

	var (
		text string
		err  error
	)
	run := func() {
		text, err = s.transcriber.Transcribe(ctx, audio, s.profile)
	}
	if s.pool != nil {
		s.pool.SubmitWait(run)
	} else {
		run()
	}
	if err != nil {
		s.mu.Lock()
		s.status = SessionStatusError
		s.mu.Unlock()
		return nil, fmt.Errorf("batch transcription failed: %w", err)
	}
	if text == "" {
		text = NoSpeechDetected
	}

	s.setFinished(text)
	return &TranscriptionResult{FinalText: text}, nil
}

func (s *batchSession) setFinished(text string) {
	s.mu.Lock()
	s.status = SessionStatusFinished
	s.final = text
	s.mu.Unlock()
}

// Abort discards the buffered audio without transcribing it.
func (s *batchSession) Abort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == SessionStatusFinished {
		return
	}
	s.status = SessionStatusError
	s.chunks = nil
}
