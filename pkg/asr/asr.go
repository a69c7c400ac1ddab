package asr

import (
	"context"
	"io"
)

// Result is the standardized struct for a single piece of transcribed text
// received from a streaming backend.
type Result struct {
	Text      string `json:"text"`
	IsPartial bool   `json:"is_partial"` // True if this is an intermediate, non-final hypothesis.
}

// Profile holds the recognizer parameters captured when a session is created.
// They are immutable for the session's lifetime.
type Profile struct {
	Language   string `json:"language"`
	Model      string `json:"model"`
	SampleRate int    `json:"sample_rate"`
}

// Stream is the universal, bidirectional interface for a live recognition.
// The caller Write()s raw audio to the stream and receives results by reading
// from the Results() channel. Close() signals end-of-input; the results
// channel is closed once the backend has delivered its trailing events.
type Stream interface {
	io.Writer
	io.Closer

	// Results returns a read-only channel where recognition results are sent.
	Results() <-chan *Result
}

// StreamProvider creates live recognition streams. Each stream is owned by
// exactly one session and never shared.
type StreamProvider interface {
	CreateStream(ctx context.Context, sessionId string, profile Profile) (Stream, error)
}

// BatchTranscriber transcribes a complete utterance in one shot.
type BatchTranscriber interface {
	Transcribe(ctx context.Context, audio []byte, profile Profile) (string, error)
}

// SpeechSynthesizer converts text into audio. The returned reader streams the
// synthesized audio and must be closed by the caller.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text, language, voice string) (io.ReadCloser, error)
}
