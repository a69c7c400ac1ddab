package providers

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/voxlink/asr-session-server/pkg/asr"
	"github.com/voxlink/asr-session-server/pkg/asr/providers/azure"
	"github.com/voxlink/asr-session-server/pkg/asr/providers/openai"
	"github.com/voxlink/asr-session-server/pkg/config"
)

// Backends bundles the concrete recognition backends selected by the
// configuration. Fields stay nil when the matching backend is not configured;
// the session manager rejects session starts for an unconfigured mode.
type Backends struct {
	Stream      asr.StreamProvider
	Batch       asr.BatchTranscriber
	Synthesizer asr.SpeechSynthesizer
}

// New builds the backends required by the configured recognizer mode. The
// Azure provider additionally serves speech synthesis whenever keys are
// present, regardless of the recognition mode.
func New(appCnf *config.AppConfig, usage azure.KeyUsage, logger *logrus.Logger) (*Backends, error) {
	b := new(Backends)

	if len(appCnf.AzureSpeech.SubscriptionKeys) > 0 {
		p, err := azure.NewProvider(appCnf.AzureSpeech, usage, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create azure provider: %w", err)
		}
		b.Stream = p
		b.Synthesizer = p
	}

	if appCnf.WhisperAPI.APIKey != "" || appCnf.WhisperAPI.BaseUrl != "" {
		t, err := openai.NewTranscriber(appCnf.WhisperAPI, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create whisper transcriber: %w", err)
		}
		b.Batch = t
	}

	switch appCnf.Recognizer.Mode {
	case config.RecognizerModeStreaming:
		if b.Stream == nil {
			return nil, fmt.Errorf("recognizer mode is %q but no azure_speech keys are configured", appCnf.Recognizer.Mode)
		}
	case config.RecognizerModeBatch:
		if b.Batch == nil {
			return nil, fmt.Errorf("recognizer mode is %q but whisper_api is not configured", appCnf.Recognizer.Mode)
		}
	default:
		return nil, fmt.Errorf("unknown recognizer mode: %q", appCnf.Recognizer.Mode)
	}

	return b, nil
}
