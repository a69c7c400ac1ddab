package azure

import (
	"errors"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/voxlink/asr-session-server/pkg/config"
)

// KeyUsage reports and tracks how many live connections each subscription key
// currently serves, so that key selection can balance across keys. A nil
// implementation disables balancing and the first key wins.
type KeyUsage interface {
	ConnectionsByKeyId(keyId string) (int64, error)
	IncrKeyConnections(keyId string) error
	DecrKeyConnections(keyId string) error
}

// Provider implements asr.StreamProvider and asr.SpeechSynthesizer on top of
// the Azure Cognitive Services Speech SDK.
type Provider struct {
	conf  config.AzureSpeech
	usage KeyUsage
	log   *logrus.Entry
}

func NewProvider(conf config.AzureSpeech, usage KeyUsage, logger *logrus.Logger) (*Provider, error) {
	if len(conf.SubscriptionKeys) == 0 {
		return nil, errors.New("azure provider requires at least one subscription key")
	}
	for _, k := range conf.SubscriptionKeys {
		if k.SubscriptionKey == "" || k.ServiceRegion == "" {
			return nil, errors.New("azure provider requires subscription_key and service_region for every key")
		}
	}

	return &Provider{
		conf:  conf,
		usage: usage,
		log:   logger.WithField("provider", "azure-speech"),
	}, nil
}

// selectKey picks the subscription key with the most remaining connection
// capacity, based on the live connection counts from KeyUsage.
func (p *Provider) selectKey() (*config.AzureSubscriptionKey, error) {
	sub := p.conf.SubscriptionKeys
	if len(sub) == 1 || p.usage == nil {
		return &sub[0], nil
	}

	var keys []config.AzureSubscriptionKey
	for _, k := range sub {
		conns, err := p.usage.ConnectionsByKeyId(k.Id)
		if err != nil {
			continue
		}
		k.MaxConnection = k.MaxConnection - conns
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return nil, errors.New("no usable subscription key found")
	}

	sort.Slice(keys, func(i, j int) bool {
		return keys[i].MaxConnection > keys[j].MaxConnection
	})
	return &keys[0], nil
}

func (p *Provider) trackOpened(keyId string) {
	if p.usage == nil {
		return
	}
	if err := p.usage.IncrKeyConnections(keyId); err != nil {
		p.log.WithError(err).Warnln("failed to increment key connection count")
	}
}

func (p *Provider) trackClosed(keyId string) {
	if p.usage == nil {
		return
	}
	if err := p.usage.DecrKeyConnections(keyId); err != nil {
		p.log.WithError(err).Warnln("failed to decrement key connection count")
	}
}
