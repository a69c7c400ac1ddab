package controllers

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voxlink/asr-session-server/pkg/asr"
	"github.com/voxlink/asr-session-server/pkg/asr/providers"
	"github.com/voxlink/asr-session-server/pkg/config"
	"github.com/voxlink/asr-session-server/pkg/models"
)

type echoTranscriber struct{}

func (echoTranscriber) Transcribe(_ context.Context, audio []byte, _ asr.Profile) (string, error) {
	return string(audio), nil
}

func setupApp(capacity int64) (*fiber.App, *models.SessionManager) {
	appCnf := config.New(&config.AppConfig{
		Logger: logrus.New(),
		Recognizer: config.Recognizer{
			Mode:                  config.RecognizerModeBatch,
			MaxConcurrentSessions: capacity,
		},
	})

	m := models.NewSessionManager(appCnf, nil, nil, nil, &providers.Backends{Batch: echoTranscriber{}}, appCnf.Logger)
	ac := NewAsrController(m)

	app := fiber.New(fiber.Config{
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
	})
	asrGroup := app.Group("/asr")
	asrGroup.Post("/start", ac.HandleStartSession)
	asrGroup.Post("/push/:sessionId", ac.HandlePushAudio)
	asrGroup.Post("/stop", ac.HandleStopSession)
	asrGroup.Get("/status", ac.HandleSessionStatus)
	asrGroup.Get("/transcripts", ac.HandleSessionTranscripts)
	asrGroup.Get("/activeSessions", ac.HandleActiveSessions)
	asrGroup.Get("/connectionStatus", ac.HandleConnectionStatus)

	return app, m
}

func decodeBody(t *testing.T, r io.Reader) map[string]interface{} {
	t.Helper()
	body, err := io.ReadAll(r)
	require.NoError(t, err)
	out := make(map[string]interface{})
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestAsrSessionLifecycleOverHTTP(t *testing.T) {
	app, m := setupApp(2)
	defer m.Shutdown()

	// start
	req := httptest.NewRequest("POST", "/asr/start", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, "success", body["status"])
	sessionId, _ := body["session_id"].(string)
	require.NotEmpty(t, sessionId)

	// push raw audio
	req = httptest.NewRequest("POST", "/asr/push/"+sessionId, bytes.NewReader([]byte("hello ")))
	req.Header.Set("Content-Type", "application/octet-stream")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	req = httptest.NewRequest("POST", "/asr/push/"+sessionId, bytes.NewReader([]byte("world")))
	req.Header.Set("Content-Type", "application/octet-stream")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	// status
	req = httptest.NewRequest("GET", "/asr/status?session_id="+sessionId, nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	// stop returns the echo transcriber's view of the full payload
	stopBody, err := json.Marshal(fiber.Map{"session_id": sessionId})
	require.NoError(t, err)
	req = httptest.NewRequest("POST", "/asr/stop", bytes.NewReader(stopBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body = decodeBody(t, resp.Body)
	assert.Equal(t, "hello world", body["final_result"])

	// the id is gone now
	req = httptest.NewRequest("GET", "/asr/status?session_id="+sessionId, nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestAsrAdmissionRejectedOverHTTP(t *testing.T) {
	app, m := setupApp(1)
	defer m.Shutdown()

	req := httptest.NewRequest("POST", "/asr/start", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	req = httptest.NewRequest("POST", "/asr/start", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 429, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, "error", body["status"])
}

func TestAsrUnknownSessionOverHTTP(t *testing.T) {
	app, m := setupApp(1)
	defer m.Shutdown()

	req := httptest.NewRequest("POST", "/asr/push/unknown", bytes.NewReader([]byte("x")))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	stopBody, _ := json.Marshal(fiber.Map{"session_id": "unknown"})
	req = httptest.NewRequest("POST", "/asr/stop", bytes.NewReader(stopBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestAsrIntrospectionOverHTTP(t *testing.T) {
	app, m := setupApp(3)
	defer m.Shutdown()

	req := httptest.NewRequest("POST", "/asr/start", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	req = httptest.NewRequest("GET", "/asr/activeSessions", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	body := decodeBody(t, resp.Body)
	assert.Equal(t, float64(1), body["count"])

	req = httptest.NewRequest("GET", "/asr/connectionStatus", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	body = decodeBody(t, resp.Body)
	conn, ok := body["connection"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(3), conn["capacity"])
	assert.Equal(t, float64(1), conn["active_sessions"])
}

func TestAsrStoredTranscriptsWithoutStorage(t *testing.T) {
	app, m := setupApp(1)
	defer m.Shutdown()

	// a server running without a database reports the endpoint as unavailable
	req := httptest.NewRequest("GET", "/asr/transcripts", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	req = httptest.NewRequest("GET", "/asr/transcripts?session_id=abc", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	req = httptest.NewRequest("GET", "/asr/transcripts?offset=-1", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
