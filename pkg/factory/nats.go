package factory

import (
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
	"github.com/voxlink/asr-session-server/pkg/config"
)

// NewNatsConnection connects to NATS when the event stream is enabled. A
// disabled or absent nats_info leaves appCnf.NatsConn nil, which the nats
// service treats as "do not publish".
func NewNatsConnection(appCnf *config.AppConfig) error {
	info := appCnf.NatsInfo
	if info == nil || !info.Enabled {
		return nil
	}

	var opts []nats.Option
	if info.Username != "" {
		opts = append(opts, nats.UserInfo(info.Username, info.Password))
	}

	nc, err := nats.Connect(strings.Join(info.NatsUrls, ","), opts...)
	if err != nil {
		return err
	}
	appCnf.NatsConn = nc

	appCnf.Logger.WithFields(logrus.Fields{
		"version": nc.ConnectedServerVersion(),
		"address": nc.ConnectedAddr(),
	}).Info("successfully connected to NATS server")

	return nil
}
