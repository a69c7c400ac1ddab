package models

import (
	"context"
	"errors"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/voxlink/asr-session-server/pkg/asr/providers"
	"github.com/voxlink/asr-session-server/pkg/config"
)

var ErrSynthesisUnavailable = errors.New("speech synthesis is not configured")

type SynthesizeReq struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Voice    string `json:"voice"`
}

// SynthesisModel turns text into audio via the configured synthesis backend.
type SynthesisModel struct {
	app      *config.AppConfig
	backends *providers.Backends
	logger   *logrus.Entry
}

func NewSynthesisModel(app *config.AppConfig, backends *providers.Backends, logger *logrus.Logger) *SynthesisModel {
	return &SynthesisModel{
		app:      app,
		backends: backends,
		logger:   logger.WithField("model", "synthesis"),
	}
}

func (m *SynthesisModel) Synthesize(ctx context.Context, req *SynthesizeReq) (io.ReadCloser, error) {
	if m.backends == nil || m.backends.Synthesizer == nil {
		return nil, ErrSynthesisUnavailable
	}

	language := req.Language
	if language == "" {
		language = m.app.Recognizer.DefaultLanguage
	}
	voice := req.Voice
	if voice == "" {
		voice = m.app.AzureSpeech.SynthesisVoice
	}

	return m.backends.Synthesizer.Synthesize(ctx, req.Text, language, voice)
}
