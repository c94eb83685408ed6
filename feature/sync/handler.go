package sync

import (
	"errors"
	"time"

	"device-locator/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for cloud sync.
type Handler struct {
	coordinator *Coordinator
}

// NewHandler creates a new HTTP handler.
func NewHandler(coordinator *Coordinator) *Handler {
	return &Handler{coordinator: coordinator}
}

// RegisterRoutes registers the sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	sync := app.Group("/sync")
	sync.Get("/status", h.HandleStatus)
	sync.Post("/", h.HandleSync)
	sync.Post("/upload", h.HandleUpload)
	sync.Post("/download", h.HandleDownload)
}

// HandleStatus reports whether sync is enabled, busy, and when it last
// completed.
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	status := fiber.Map{
		"enabled": h.coordinator.Enabled(),
		"busy":    h.coordinator.Busy(),
	}
	if last := h.coordinator.LastSync(); !last.IsZero() {
		status["last_sync"] = last.Format(time.RFC3339)
	}
	return c.JSON(status)
}

// HandleSync runs upload then download.
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	res, err := h.coordinator.Sync(c.Context())
	if err != nil {
		return h.errorResponse(c, err)
	}
	logger.WithRayID(zap.L(), c).Info("Sync finished",
		zap.Int("devices", res.Devices), zap.Int("folders", res.Folders))
	return c.JSON(res)
}

// HandleUpload pushes the local collections to the remote store.
func (h *Handler) HandleUpload(c *fiber.Ctx) error {
	res, err := h.coordinator.Upload(c.Context())
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(res)
}

// HandleDownload pulls the remote rows into the local collections.
func (h *Handler) HandleDownload(c *fiber.Ctx) error {
	res, err := h.coordinator.Download(c.Context())
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(res)
}

// errorResponse maps the sync error taxonomy onto HTTP statuses.
func (h *Handler) errorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrSyncDisabled):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrSyncBusy):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrSchemaMismatch):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrUnreachable), errors.Is(err, ErrPartialUpload):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
