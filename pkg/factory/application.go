package factory

import (
	"context"

	"github.com/voxlink/asr-session-server/pkg/config"
	"github.com/voxlink/asr-session-server/pkg/controllers"
	"github.com/voxlink/asr-session-server/pkg/models"
)

// ApplicationControllers holds all the controllers.
type ApplicationControllers struct {
	AsrController       *controllers.AsrController
	SynthesisController *controllers.SynthesisController
}

// Application is the root struct holding all dependencies.
type Application struct {
	Controllers    *ApplicationControllers
	AppConfig      *config.AppConfig
	Ctx            context.Context
	SessionManager *models.SessionManager
}

func (a *Application) Boot() {
	a.SessionManager.Boot()
}

func (a *Application) Shutdown() {
	a.SessionManager.Shutdown()
}
