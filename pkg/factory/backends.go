package factory

import (
	"github.com/sirupsen/logrus"
	"github.com/voxlink/asr-session-server/pkg/asr/providers"
	"github.com/voxlink/asr-session-server/pkg/config"
	redisservice "github.com/voxlink/asr-session-server/pkg/services/redis"
)

// provideBackends binds the redis service as the key usage tracker of the
// recognition backends.
func provideBackends(appCnf *config.AppConfig, rs *redisservice.RedisService, logger *logrus.Logger) (*providers.Backends, error) {
	return providers.New(appCnf, rs, logger)
}
