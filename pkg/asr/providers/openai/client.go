package openai

import (
	"bytes"
	"context"
	"errors"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/sirupsen/logrus"
	"github.com/voxlink/asr-session-server/pkg/asr"
	"github.com/voxlink/asr-session-server/pkg/config"
)

// Transcriber implements asr.BatchTranscriber against the OpenAI audio
// transcription API, or any Whisper-compatible server reachable through a
// custom base_url.
type Transcriber struct {
	client openai.Client
	model  string
	log    *logrus.Entry
}

func NewTranscriber(conf config.WhisperAPI, logger *logrus.Logger) (*Transcriber, error) {
	if conf.APIKey == "" && conf.BaseUrl == "" {
		return nil, errors.New("whisper_api requires api_key or a self-hosted base_url")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(conf.APIKey),
	}
	if conf.BaseUrl != "" {
		opts = append(opts, option.WithBaseURL(conf.BaseUrl))
	}

	return &Transcriber{
		client: openai.NewClient(opts...),
		model:  conf.Model,
		log:    logger.WithField("provider", "whisper-api"),
	}, nil
}

// Transcribe implements asr.BatchTranscriber. The audio payload is raw PCM
// exactly as collected from the client; it is wrapped into a WAV container
// before upload because the transcription endpoint expects a real file format.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, profile asr.Profile) (string, error) {
	sampleRate := profile.SampleRate
	if sampleRate == 0 {
		sampleRate = config.AudioSampleRate
	}

	model := t.model
	if profile.Model != "" {
		model = profile.Model
	}

	params := openai.AudioTranscriptionNewParams{
		File:  openai.File(bytes.NewReader(wrapPCMInWav(audio, uint32(sampleRate))), "audio.wav", "audio/wav"),
		Model: openai.AudioModel(model),
	}
	if profile.Language != "" {
		params.Language = openai.String(profile.Language)
	}

	resp, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", err
	}

	t.log.WithField("bytes", len(audio)).Debugln("batch transcription completed")
	return resp.Text, nil
}
