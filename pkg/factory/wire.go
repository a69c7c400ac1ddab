//go:build wireinject
// +build wireinject

package factory

import (
	"context"

	"github.com/google/wire"
	"github.com/voxlink/asr-session-server/pkg/config"
	"github.com/voxlink/asr-session-server/pkg/controllers"
	"github.com/voxlink/asr-session-server/pkg/models"
	dbservice "github.com/voxlink/asr-session-server/pkg/services/db"
	natsservice "github.com/voxlink/asr-session-server/pkg/services/nats"
	redisservice "github.com/voxlink/asr-session-server/pkg/services/redis"
)

// build the dependency set for services
var serviceSet = wire.NewSet(
	dbservice.NewDBService,
	redisservice.New,
	natsservice.New,
)

// build the dependency set for models
var modelSet = wire.NewSet(
	provideBackends,
	models.NewSessionManager,
	models.NewSynthesisModel,
)

// build the dependency set for controllers
var controllerSet = wire.NewSet(
	controllers.NewAsrController,
	controllers.NewSynthesisController,
)

// NewAppFactory is the injector function that wire will implement.
func NewAppFactory(ctx context.Context, appConfig *config.AppConfig) (*Application, error) {
	wire.Build(
		serviceSet,
		modelSet,
		controllerSet,
		// Provide the whole AppConfig, and also specific fields needed by constructors.
		wire.FieldsOf(new(*config.AppConfig), "DB", "RDS", "Logger"),

		wire.Struct(new(ApplicationControllers), "*"),
		wire.Struct(new(Application), "*"),
	)
	return nil, nil // This return value is ignored.
}
