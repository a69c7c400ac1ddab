package controllers

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/voxlink/asr-session-server/pkg/models"
)

// SynthesisController holds dependencies for the text-to-speech handler.
type SynthesisController struct {
	SynthesisModel *models.SynthesisModel
}

func NewSynthesisController(m *models.SynthesisModel) *SynthesisController {
	return &SynthesisController{
		SynthesisModel: m,
	}
}

// HandleSynthesize converts the posted text into audio and streams it back.
func (sc *SynthesisController) HandleSynthesize(c *fiber.Ctx) error {
	req := new(models.SynthesizeReq)
	if err := c.BodyParser(req); err != nil {
		return sendErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}
	if req.Text == "" {
		return sendErrorResponse(c, fiber.StatusBadRequest, "text required")
	}

	audio, err := sc.SynthesisModel.Synthesize(c.Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrSynthesisUnavailable) {
			return sendErrorResponse(c, fiber.StatusServiceUnavailable, err.Error())
		}
		return sendErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}
	defer audio.Close()

	data, err := io.ReadAll(audio)
	if err != nil {
		return sendErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}

	c.Set(fiber.HeaderContentType, "audio/mpeg")
	return c.Send(data)
}
