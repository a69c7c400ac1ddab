package models

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/voxlink/asr-session-server/pkg/asr"
	"github.com/voxlink/asr-session-server/pkg/asr/providers"
	"github.com/voxlink/asr-session-server/pkg/config"
)

// fakeStream is an in-memory recognition stream the tests drive by hand.
type fakeStream struct {
	mu      sync.Mutex
	written []byte
	closed  bool
	results chan *asr.Result
}

func newFakeStream() *fakeStream {
	return &fakeStream{
		results: make(chan *asr.Result, 16),
	}
}

func (f *fakeStream) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return 0, errors.New("stream closed")
	}
	f.written = append(f.written, p...)
	return len(p), nil
}

func (f *fakeStream) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.results)
	}
	return nil
}

func (f *fakeStream) Results() <-chan *asr.Result {
	return f.results
}

func (f *fakeStream) emit(text string, partial bool) {
	f.results <- &asr.Result{Text: text, IsPartial: partial}
}

// fakeStreamProvider hands out fake streams and remembers the last one so a
// test can drive it.
type fakeStreamProvider struct {
	mu   sync.Mutex
	last *fakeStream
	err  error
}

func (p *fakeStreamProvider) CreateStream(_ context.Context, _ string, _ asr.Profile) (asr.Stream, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	p.last = newFakeStream()
	return p.last, nil
}

func (p *fakeStreamProvider) lastStream() *fakeStream {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// fakeTranscriber records every payload it was asked to transcribe.
type fakeTranscriber struct {
	mu     sync.Mutex
	calls  [][]byte
	result string
	err    error
}

func (ft *fakeTranscriber) Transcribe(_ context.Context, audio []byte, _ asr.Profile) (string, error) {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	buf := make([]byte, len(audio))
	copy(buf, audio)
	ft.calls = append(ft.calls, buf)
	return ft.result, ft.err
}

func (ft *fakeTranscriber) callCount() int {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	return len(ft.calls)
}

func (ft *fakeTranscriber) lastCall() []byte {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	if len(ft.calls) == 0 {
		return nil
	}
	return ft.calls[len(ft.calls)-1]
}

func profileForTest() asr.Profile {
	return asr.Profile{Language: "zh-CN", SampleRate: config.AudioSampleRate}
}

func testLogEntry() *logrus.Entry {
	return logrus.New().WithField("test", true)
}

func testAppConfig(mode string, capacity int64) *config.AppConfig {
	return config.New(&config.AppConfig{
		Logger: logrus.New(),
		Recognizer: config.Recognizer{
			Mode:                  mode,
			MaxConcurrentSessions: capacity,
			SessionTimeout:        config.DefaultSessionTimeout,
			ReaperInterval:        config.DefaultReaperInterval,
			FinalizeGracePeriod:   200 * time.Millisecond,
			MaxBatchWorkers:       2,
		},
	})
}

func newTestManager(mode string, capacity int64, backends *providers.Backends) *SessionManager {
	appCnf := testAppConfig(mode, capacity)
	return NewSessionManager(appCnf, nil, nil, nil, backends, appCnf.Logger)
}

func newStreamingTestManager(capacity int64) (*SessionManager, *fakeStreamProvider) {
	fp := new(fakeStreamProvider)
	m := newTestManager(config.RecognizerModeStreaming, capacity, &providers.Backends{Stream: fp})
	return m, fp
}

func newBatchTestManager(capacity int64, result string) (*SessionManager, *fakeTranscriber) {
	ft := &fakeTranscriber{result: result}
	m := newTestManager(config.RecognizerModeBatch, capacity, &providers.Backends{Batch: ft})
	return m, ft
}
