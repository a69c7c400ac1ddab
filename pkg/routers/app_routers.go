package routers

import (
	"io"
	"runtime"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	rr "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/voxlink/asr-session-server/pkg/config"
	"github.com/voxlink/asr-session-server/pkg/controllers"
	"github.com/voxlink/asr-session-server/pkg/factory"
	"github.com/voxlink/asr-session-server/version"
)

// router is a struct to hold the dependencies for setting up routes,
// allowing us to break down the monolithic New() function into smaller,
// more manageable methods.
type router struct {
	app  *fiber.App
	ctrl *factory.ApplicationControllers
}

func New(appConfig *config.AppConfig, ctrl *factory.ApplicationControllers) *fiber.App {
	// --- Fiber App Configuration ---
	cnf := fiber.Config{
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
		AppName:     "asr-session-server version: " + version.Version + " runtime: " + runtime.Version(),
		// audio chunks come in as raw bodies
		BodyLimit: 10 * 1024 * 1024,
	}

	if appConfig.Client.ProxyHeader != "" {
		cnf.ProxyHeader = appConfig.Client.ProxyHeader
	}

	// --- App Initialization & Middleware ---
	app := fiber.New(cnf)

	app.Use(logger.New(logger.Config{
		Done: func(c *fiber.Ctx, logString []byte) {
			appConfig.Logger.Debugln(string(logString))
		},
		Format: "${status} | ${latency} | ${ip} | ${method} | ${path} | ${error}",
		Output: io.Discard,
	}))

	if appConfig.Client.PrometheusConf.Enable {
		prometheus := fiberprometheus.New("asr-session-server")
		prometheus.RegisterAt(app, appConfig.Client.PrometheusConf.MetricsPath)
		app.Use(prometheus.Middleware)
	}

	app.Use(rr.New())
	app.Use(cors.New(cors.Config{
		AllowMethods: "POST,GET,OPTIONS",
	}))

	// --- Route Registration ---
	r := &router{
		app:  app,
		ctrl: ctrl,
	}

	r.registerBaseRoutes()
	r.registerAsrRoutes()
	r.registerTtsRoutes()

	// --- Final Catch-All 404 Handler ---
	// This MUST be the last middleware to be registered.
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).SendString("not found")
	})

	return app
}

func (r *router) registerBaseRoutes() {
	r.app.Get("/healthCheck", controllers.HandleHealthCheck)
}

func (r *router) registerAsrRoutes() {
	asr := r.app.Group("/asr")
	asr.Post("/start", r.ctrl.AsrController.HandleStartSession)
	asr.Post("/push/:sessionId", r.ctrl.AsrController.HandlePushAudio)
	asr.Post("/stop", r.ctrl.AsrController.HandleStopSession)
	asr.Get("/status", r.ctrl.AsrController.HandleSessionStatus)
	asr.Post("/status", r.ctrl.AsrController.HandleSessionStatus)
	asr.Get("/transcription", r.ctrl.AsrController.HandleCurrentTranscription)
	asr.Get("/transcripts", r.ctrl.AsrController.HandleSessionTranscripts)
	asr.Get("/activeSessions", r.ctrl.AsrController.HandleActiveSessions)
	asr.Get("/connectionStatus", r.ctrl.AsrController.HandleConnectionStatus)
}

func (r *router) registerTtsRoutes() {
	tts := r.app.Group("/tts")
	tts.Post("/synthesize", r.ctrl.SynthesisController.HandleSynthesize)
}
