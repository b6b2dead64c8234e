package server

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/emostate/internal/classifier"
	"github.com/danielpatrickdp/emostate/internal/orchestrator"
	"github.com/danielpatrickdp/emostate/internal/session"
	"github.com/danielpatrickdp/emostate/internal/states"
)

type handler struct {
	svc Service
	clf *classifier.Classifier
	log *zap.Logger
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   msg,
	})
}

// chat always answers 200 with the turn's success flag; only an
// unparseable body is rejected.
func (h *handler) chat(c *fiber.Ctx) error {
	var req orchestrator.TurnRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	return c.JSON(h.svc.ProcessTurn(c.UserContext(), req))
}

func (h *handler) summary(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return badRequest(c, "session id is required")
	}

	rep, err := h.svc.SessionSummary(c.UserContext(), id)
	if errors.Is(err, session.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "session not found",
		})
	}
	if err != nil {
		h.log.Error("session summary failed", zap.String("session_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load session",
		})
	}
	return c.JSON(rep)
}

func (h *handler) health(c *fiber.Ctx) error {
	rep := h.svc.Health(c.UserContext())
	status := fiber.StatusOK
	if !rep.OverallStatus {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(rep)
}

type classifyRequest struct {
	Message string `json:"message"`
}

type classifyResponse struct {
	State    states.Meta         `json:"state"`
	Result   classifier.Result   `json:"result"`
	Analysis classifier.Analysis `json:"analysis"`
}

func (h *handler) classify(c *fiber.Ctx) error {
	var req classifyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	res := h.clf.Explain(req.Message)
	return c.JSON(classifyResponse{
		State:    h.svc.Describe(c.UserContext(), res.State),
		Result:   res,
		Analysis: classifier.Analyze(req.Message),
	})
}

func (h *handler) states(c *fiber.Ctx) error {
	return c.JSON(h.svc.States())
}
