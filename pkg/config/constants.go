package config

import "time"

const (
	RecognizerModeStreaming = "streaming"
	RecognizerModeBatch     = "batch"

	DefaultMaxConcurrentSessions int64 = 5
	DefaultSessionTimeout              = 5 * time.Minute
	DefaultReaperInterval              = time.Minute
	DefaultFinalizeGracePeriod         = 3 * time.Second
	DefaultMaxBatchWorkers             = 4

	// audio format expected from clients, single channel 16kHz PCM
	AudioSampleRate    = 16000
	AudioBitsPerSample = 16
	AudioChannels      = 1
)
