// This file contains the specific logic for interacting with the Azure Speech
// SDK. It creates the speech recognizer, manages the connection lifecycle and
// forwards the real-time events from the Azure service.
package azure

import (
	"context"
	"fmt"

	"github.com/Microsoft/cognitive-services-speech-sdk-go/audio"
	"github.com/Microsoft/cognitive-services-speech-sdk-go/speech"
	"github.com/sirupsen/logrus"
	"github.com/voxlink/asr-session-server/pkg/asr"
	"github.com/voxlink/asr-session-server/pkg/config"
)

// CreateStream implements asr.StreamProvider.
func (p *Provider) CreateStream(ctx context.Context, sessionId string, profile asr.Profile) (asr.Stream, error) {
	log := p.log.WithFields(logrus.Fields{
		"method":    "CreateStream",
		"sessionId": sessionId,
	})

	key, err := p.selectKey()
	if err != nil {
		return nil, err
	}

	cnf, err := speech.NewSpeechConfigFromSubscription(key.SubscriptionKey, key.ServiceRegion)
	if err != nil {
		return nil, err
	}

	sampleRate := profile.SampleRate
	if sampleRate == 0 {
		sampleRate = config.AudioSampleRate
	}
	audioFormat, err := audio.GetWaveFormatPCM(uint32(sampleRate), config.AudioBitsPerSample, config.AudioChannels)
	if err != nil {
		return nil, fmt.Errorf("could not create audio format: %v", err)
	}

	inputStream, err := audio.CreatePushAudioInputStreamFromFormat(audioFormat)
	if err != nil {
		return nil, fmt.Errorf("could not create push audio input stream: %v", err)
	}

	audioConfig, err := audio.NewAudioConfigFromStreamInput(inputStream)
	if err != nil {
		return nil, err
	}

	if profile.Language != "" {
		err = cnf.SetSpeechRecognitionLanguage(profile.Language)
		if err != nil {
			return nil, err
		}
	}

	recognizer, err := speech.NewSpeechRecognizerFromConfig(cnf, audioConfig)
	if err != nil {
		return nil, err
	}

	stream := newAzureStream(inputStream, recognizer, func() {
		p.trackClosed(key.Id)
	})

	recognizer.SessionStarted(func(e speech.SessionEventArgs) {
		log.Infoln("azure recognition session started")
	})
	recognizer.SessionStopped(func(e speech.SessionEventArgs) {
		log.Infoln("azure recognition session stopped")
		stream.closeResults()
	})

	recognizer.Recognizing(func(e speech.SpeechRecognitionEventArgs) {
		stream.deliver(&asr.Result{
			Text:      e.Result.Text,
			IsPartial: true,
		})
	})
	recognizer.Recognized(func(e speech.SpeechRecognitionEventArgs) {
		stream.deliver(&asr.Result{
			Text:      e.Result.Text,
			IsPartial: false,
		})
	})
	recognizer.Canceled(func(e speech.SpeechRecognitionCanceledEventArgs) {
		log.Infof("azure recognition canceled: %v", e.ErrorDetails)
		stream.closeResults()
	})

	go func() {
		// StartContinuousRecognitionAsync returns a channel with the result of
		// the async operation; a failed start must unblock the consumer.
		err := <-recognizer.StartContinuousRecognitionAsync()
		if err != nil {
			log.WithError(err).Errorln("error starting azure recognition")
			stream.closeResults()
		}
	}()

	go watchCancel(ctx, stream.closed, func() {
		recognizer.StopContinuousRecognitionAsync()
	})

	p.trackOpened(key.Id)
	return stream, nil
}
