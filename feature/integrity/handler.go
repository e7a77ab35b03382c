package integrity

import (
	"errors"

	"lighting-patcher/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/load-order", h.HandleLoadOrderCheck)
	group.Get("/storage", h.HandleStorageCheck)
	group.Get("/database", h.HandleDatabaseCheck)
}

// HandleIntegrityCheck runs every configured check. Checks whose backend is
// not configured are reported as skipped.
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	ctx := c.Context()
	report := make(map[string]any)

	if lo, err := h.service.CheckLoadOrder(ctx); err != nil {
		report["load_order"] = fiber.Map{"status": "error", "error": err.Error()}
	} else {
		report["load_order"] = lo
	}

	if missing, err := h.service.CheckStorage(ctx); err != nil {
		report["storage"] = statusOf(err)
	} else {
		report["storage"] = fiber.Map{"status": "ok", "missing": missing}
	}

	if db, err := h.service.CheckDatabase(); err != nil {
		report["database"] = statusOf(err)
	} else {
		report["database"] = db
	}

	return c.JSON(report)
}

// HandleLoadOrderCheck checks plugin documents and masters.
func (h *Handler) HandleLoadOrderCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckLoadOrder(c.Context())
	if err != nil {
		l.Error("Load order check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if !report.Healthy() {
		l.Warn("Load order has problems",
			zap.Strings("missing_documents", report.MissingDocuments),
			zap.Strings("missing_masters", report.MissingMasters))
	}
	return c.JSON(report)
}

// HandleStorageCheck checks and optionally fixes the storage bucket.
func (h *Handler) HandleStorageCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	missing, err := h.service.CheckStorage(c.Context())
	if errors.Is(err, ErrNoStorage) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Storage check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if len(missing) > 0 {
		l.Warn("Missing objects detected", zap.Strings("missing", missing))

		if fix {
			l.Info("Attempting to fix missing objects")
			if err := h.service.FixStorage(c.Context(), missing); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":   "Failed to fix storage",
					"details": err.Error(),
					"missing": missing,
				})
			}
			return c.JSON(fiber.Map{
				"status": "fixed",
				"fixed":  missing,
			})
		}
	}

	return c.JSON(fiber.Map{
		"status":  "checked",
		"missing": missing,
	})
}

// HandleDatabaseCheck checks the plugins table schema.
func (h *Handler) HandleDatabaseCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Starting database schema check")

	report, err := h.service.CheckDatabase()
	if errors.Is(err, ErrNoDatabase) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Database schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

func statusOf(err error) fiber.Map {
	if errors.Is(err, ErrNoStorage) || errors.Is(err, ErrNoDatabase) {
		return fiber.Map{"status": "skipped", "reason": err.Error()}
	}
	return fiber.Map{"status": "error", "error": err.Error()}
}
