package lighting

import (
	"errors"

	"lighting-patcher/core/logger"
	"lighting-patcher/feature/lighting/rules"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the lighting patch.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the lighting routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/lighting")
	group.Get("/plan", h.HandlePlan)
	group.Post("/patch", h.HandlePatch)
	group.Get("/reference", h.HandleReference)
}

// HandlePlan returns a dry-run report of what a patch run would change.
func (h *Handler) HandlePlan(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.Plan(c.Context())
	if err != nil {
		return h.fail(c, l, "Lighting plan failed", err)
	}
	return c.JSON(report)
}

// HandlePatch runs the patcher and writes the patch.
func (h *Handler) HandlePatch(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering lighting patch")

	report, err := h.service.Run(c.Context())
	if err != nil {
		return h.fail(c, l, "Lighting patch failed", err)
	}
	return c.JSON(report)
}

// HandleReference describes the reference set and default lighting cell.
func (h *Handler) HandleReference(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	inspection, err := h.service.Inspect(c.Context())
	if err != nil {
		return h.fail(c, l, "Lighting inspection failed", err)
	}
	return c.JSON(inspection)
}

// fail maps validation failures to 422 and everything else to 500.
func (h *Handler) fail(c *fiber.Ctx, l *zap.Logger, msg string, err error) error {
	var verr *rules.ValidationError
	if errors.As(err, &verr) {
		l.Warn(msg, zap.Error(err))
		names := make([]string, len(verr.Plugins))
		for i, k := range verr.Plugins {
			names[i] = k.FileName()
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   err.Error(),
			"plugins": names,
		})
	}

	l.Error(msg, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}
