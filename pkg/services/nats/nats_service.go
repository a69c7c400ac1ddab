package natsservice

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
	"github.com/voxlink/asr-session-server/pkg/config"
)

const defaultEventPrefix = "asr"

type NatsService struct {
	app    *config.AppConfig
	nc     *nats.Conn
	prefix string
	logger *logrus.Entry
}

func New(app *config.AppConfig, logger *logrus.Logger) *NatsService {
	prefix := defaultEventPrefix
	if app.NatsInfo != nil && app.NatsInfo.EventPrefix != "" {
		prefix = app.NatsInfo.EventPrefix
	}
	return &NatsService{
		app:    app,
		nc:     app.NatsConn,
		prefix: prefix,
		logger: logger.WithField("service", "nats"),
	}
}

func (s *NatsService) publish(subject string, payload interface{}) error {
	if s.nc == nil {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.nc.Publish(fmt.Sprintf("%s.%s", s.prefix, subject), data)
}
