package azure

import (
	"context"
	"fmt"
	"io"

	"github.com/Microsoft/cognitive-services-speech-sdk-go/common"
	"github.com/Microsoft/cognitive-services-speech-sdk-go/speech"
)

// Synthesize implements asr.SpeechSynthesizer and returns a streaming reader
// for the synthesized audio data.
func (p *Provider) Synthesize(ctx context.Context, text, language, voice string) (io.ReadCloser, error) {
	key, err := p.selectKey()
	if err != nil {
		return nil, err
	}

	conf, err := speech.NewSpeechConfigFromSubscription(key.SubscriptionKey, key.ServiceRegion)
	if err != nil {
		return nil, fmt.Errorf("failed to create azure speech config: %w", err)
	}
	defer conf.Close()

	if language == "zh-Hans" {
		language = "zh-CN"
	} else if language == "zh-Hant" {
		language = "zh-TW"
	}
	err = conf.SetSpeechSynthesisLanguage(language)
	if err != nil {
		return nil, fmt.Errorf("failed to set synthesis language: %w", err)
	}

	if voice == "" {
		voice = p.conf.SynthesisVoice
	}
	if voice != "" {
		err = conf.SetSpeechSynthesisVoiceName(voice)
		if err != nil {
			return nil, fmt.Errorf("failed to set synthesis voice: %w", err)
		}
	}

	// Audio config is nil because the audio is read from the result stream.
	synthesizer, err := speech.NewSpeechSynthesizerFromConfig(conf, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech synthesizer: %w", err)
	}
	defer synthesizer.Close()

	task := synthesizer.StartSpeakingTextAsync(text)
	var outcome speech.SpeechSynthesisOutcome
	select {
	case outcome = <-task:
	case <-ctx.Done():
		return nil, fmt.Errorf("context canceled while waiting for synthesis result: %w", ctx.Err())
	}

	if outcome.Error != nil {
		outcome.Close()
		return nil, fmt.Errorf("synthesis outcome error: %w", outcome.Error)
	}
	if outcome.Result.Reason != common.SynthesizingAudioStarted {
		cancellation, _ := speech.NewCancellationDetailsFromSpeechSynthesisResult(outcome.Result)
		err := fmt.Errorf("synthesis failed: reason=%s, details=%s", outcome.Result.Reason.String(), cancellation.ErrorDetails)
		outcome.Close()
		return nil, err
	}

	stream, err := speech.NewAudioDataStreamFromSpeechSynthesisResult(outcome.Result)
	if err != nil {
		outcome.Close()
		return nil, fmt.Errorf("failed to create audio data stream: %w", err)
	}

	return &synthesisStream{
		stream:  stream,
		outcome: &outcome,
	}, nil
}

// synthesisStream wraps the SDK audio data stream together with the outcome
// that owns it, so both are released when the consumer is done reading.
type synthesisStream struct {
	stream  *speech.AudioDataStream
	outcome *speech.SpeechSynthesisOutcome
}

func (s *synthesisStream) Read(p []byte) (int, error) {
	n, err := s.stream.Read(p)
	if err != nil {
		return n, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

func (s *synthesisStream) Close() error {
	s.stream.Close()
	s.outcome.Close()
	return nil
}
