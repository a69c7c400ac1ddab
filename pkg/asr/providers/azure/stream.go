package azure

import (
	"context"
	"sync"

	"github.com/Microsoft/cognitive-services-speech-sdk-go/audio"
	"github.com/Microsoft/cognitive-services-speech-sdk-go/speech"
	"github.com/voxlink/asr-session-server/pkg/asr"
)

// azureStream adapts the Azure PushAudioInputStream plus recognizer pair to
// the asr.Stream interface. SessionStopped and Canceled can both fire for one
// recognition, so closing the results channel is guarded by a sync.Once, and
// deliveries race-check against it.
type azureStream struct {
	pushStream *audio.PushAudioInputStream
	recognizer *speech.SpeechRecognizer
	results    chan *asr.Result

	closed     chan struct{}
	closeOnce  sync.Once
	onReleased func()
}

func newAzureStream(pushStream *audio.PushAudioInputStream, recognizer *speech.SpeechRecognizer, onReleased func()) *azureStream {
	return &azureStream{
		pushStream: pushStream,
		recognizer: recognizer,
		results:    make(chan *asr.Result),
		closed:     make(chan struct{}),
		onReleased: onReleased,
	}
}

// deliver forwards one recognition event to the consumer, dropping it if the
// stream has already been shut down.
func (s *azureStream) deliver(r *asr.Result) {
	select {
	case s.results <- r:
	case <-s.closed:
	}
}

// closeResults terminates the results channel exactly once.
func (s *azureStream) closeResults() {
	s.closeOnce.Do(func() {
		close(s.closed)
		close(s.results)
		if s.onReleased != nil {
			s.onReleased()
		}
	})
}

// Write implements io.Writer by pushing audio into the SDK input stream.
func (s *azureStream) Write(p []byte) (int, error) {
	err := s.pushStream.Write(p)
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close implements io.Closer. It stops the recognizer, which triggers the
// SessionStopped event and in turn closes the results channel.
func (s *azureStream) Close() error {
	err := <-s.recognizer.StopContinuousRecognitionAsync()
	s.pushStream.Close()
	// SessionStopped normally closes the channel, but do not rely on the SDK
	// delivering the event after a failed stop.
	s.closeResults()
	return err
}

// Results implements asr.Stream.
func (s *azureStream) Results() <-chan *asr.Result {
	return s.results
}

// watchCancel stops the recognizer when ctx is cancelled. The caller's ctx
// usually spans many sessions, so the watcher also exits as soon as the
// stream itself closes instead of lingering until shutdown.
func watchCancel(ctx context.Context, closed <-chan struct{}, stop func()) {
	select {
	case <-ctx.Done():
		stop()
	case <-closed:
	}
}
