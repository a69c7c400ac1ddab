package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/voxlink/asr-session-server/pkg/models"
)

// AsrController holds dependencies for the recognition session handlers.
type AsrController struct {
	SessionManager *models.SessionManager
}

func NewAsrController(m *models.SessionManager) *AsrController {
	return &AsrController{
		SessionManager: m,
	}
}

func sendErrorResponse(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":  "error",
		"message": msg,
	})
}

// statusForError maps the session manager's error taxonomy onto HTTP codes,
// so a client can tell "retry later" from "bad id" from "bad timing".
func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrAdmissionRejected):
		return fiber.StatusTooManyRequests
	case errors.Is(err, models.ErrSessionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrWrongState), errors.Is(err, models.ErrSessionTooLarge):
		return fiber.StatusBadRequest
	case errors.Is(err, models.ErrStorageUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// HandleStartSession creates a new recognition session.
func (ac *AsrController) HandleStartSession(c *fiber.Ctx) error {
	req := new(models.StartSessionReq)
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return sendErrorResponse(c, fiber.StatusBadRequest, err.Error())
		}
	}

	sessionId, err := ac.SessionManager.StartSession(req)
	if err != nil {
		return sendErrorResponse(c, statusForError(err), err.Error())
	}

	return c.JSON(fiber.Map{
		"status":     "success",
		"message":    "session started",
		"session_id": sessionId,
	})
}

// HandlePushAudio ingests one raw audio chunk and returns the current
// partial transcript.
func (ac *AsrController) HandlePushAudio(c *fiber.Ctx) error {
	sessionId := c.Params("sessionId")
	if sessionId == "" {
		return sendErrorResponse(c, fiber.StatusBadRequest, "session_id required")
	}

	transcript, err := ac.SessionManager.PushAudio(sessionId, c.Body())
	if err != nil {
		return sendErrorResponse(c, statusForError(err), err.Error())
	}

	return c.JSON(fiber.Map{
		"status":     "success",
		"transcript": transcript,
	})
}

type sessionIdReq struct {
	SessionId string `json:"session_id" query:"session_id"`
}

// HandleStopSession finalizes the session and returns the definitive
// result. In batch mode this blocks for the duration of recognition.
func (ac *AsrController) HandleStopSession(c *fiber.Ctx) error {
	req := new(sessionIdReq)
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return sendErrorResponse(c, fiber.StatusBadRequest, err.Error())
		}
	}
	if req.SessionId == "" {
		req.SessionId = c.Query("session_id")
	}
	if req.SessionId == "" {
		return sendErrorResponse(c, fiber.StatusBadRequest, "session_id required")
	}

	result, err := ac.SessionManager.StopSession(req.SessionId)
	if err != nil {
		return sendErrorResponse(c, statusForError(err), err.Error())
	}

	return c.JSON(fiber.Map{
		"status":               "success",
		"message":              "session stopped",
		"final_result":         result.FinalText,
		"intermediate_results": result.Events,
	})
}

// HandleSessionStatus reports liveness and progress of one session.
func (ac *AsrController) HandleSessionStatus(c *fiber.Ctx) error {
	sessionId := c.Query("session_id")
	if sessionId == "" && len(c.Body()) > 0 {
		req := new(sessionIdReq)
		if err := c.BodyParser(req); err == nil {
			sessionId = req.SessionId
		}
	}
	if sessionId == "" {
		return sendErrorResponse(c, fiber.StatusBadRequest, "session_id required")
	}

	snapshot, err := ac.SessionManager.GetStatus(sessionId)
	if err != nil {
		return sendErrorResponse(c, statusForError(err), err.Error())
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"session": snapshot,
	})
}

// HandleCurrentTranscription returns the transcript accumulated so far.
func (ac *AsrController) HandleCurrentTranscription(c *fiber.Ctx) error {
	sessionId := c.Query("session_id")
	if sessionId == "" {
		return sendErrorResponse(c, fiber.StatusBadRequest, "session_id required")
	}

	transcript, err := ac.SessionManager.CurrentTranscript(sessionId)
	if err != nil {
		return sendErrorResponse(c, statusForError(err), err.Error())
	}

	return c.JSON(fiber.Map{
		"status":     "success",
		"transcript": transcript,
	})
}

// HandleActiveSessions lists every live session.
func (ac *AsrController) HandleActiveSessions(c *fiber.Ctx) error {
	sessions := ac.SessionManager.ListActiveSessions()
	return c.JSON(fiber.Map{
		"status":   "success",
		"count":    len(sessions),
		"sessions": sessions,
	})
}

// HandleSessionTranscripts serves transcripts of ended sessions from the
// database. With a session_id query it returns that single transcript,
// otherwise a page of recent transcripts, newest first.
func (ac *AsrController) HandleSessionTranscripts(c *fiber.Ctx) error {
	if sessionId := c.Query("session_id"); sessionId != "" {
		info, err := ac.SessionManager.StoredTranscript(sessionId)
		if err != nil {
			return sendErrorResponse(c, statusForError(err), err.Error())
		}
		return c.JSON(fiber.Map{
			"status":     "success",
			"transcript": info,
		})
	}

	offset := c.QueryInt("offset")
	limit := c.QueryInt("limit")
	if offset < 0 || limit < 0 {
		return sendErrorResponse(c, fiber.StatusBadRequest, "offset and limit must not be negative")
	}

	transcripts, total, err := ac.SessionManager.StoredTranscripts(uint64(offset), uint64(limit))
	if err != nil {
		return sendErrorResponse(c, statusForError(err), err.Error())
	}

	return c.JSON(fiber.Map{
		"status":      "success",
		"total":       total,
		"transcripts": transcripts,
	})
}

// HandleConnectionStatus reports admission gate occupancy.
func (ac *AsrController) HandleConnectionStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":     "success",
		"connection": ac.SessionManager.ConnectionStatus(),
	})
}
