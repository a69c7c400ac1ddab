package helpers

import (
	"context"
	"os"

	"github.com/voxlink/asr-session-server/pkg/config"
	"github.com/voxlink/asr-session-server/pkg/factory"
	"gopkg.in/yaml.v3"
)

// PrepareServer opens the infrastructure connections the application needs
// before the factory can be built.
func PrepareServer(ctx context.Context, appCnf *config.AppConfig) error {
	// mysql
	if err := factory.NewDatabaseConnection(ctx, appCnf); err != nil {
		return err
	}

	// redis
	if err := factory.NewRedisConnection(ctx, appCnf); err != nil {
		return err
	}

	// nats, optional
	if err := factory.NewNatsConnection(appCnf); err != nil {
		return err
	}

	return nil
}

func ReadYamlConfigFile(cnfFile string) (*config.AppConfig, error) {
	yamlFile, err := os.ReadFile(cnfFile)
	if err != nil {
		return nil, err
	}

	appCnf := new(config.AppConfig)
	err = yaml.Unmarshal(yamlFile, &appCnf)
	if err != nil {
		return nil, err
	}

	// get current working dir
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	// set the root path
	appCnf.RootWorkingDir = wd

	return appCnf, nil
}
