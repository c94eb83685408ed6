package maps

import (
	"errors"

	"device-locator/core/logger"
	"device-locator/feature/devices"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for map sessions.
type Handler struct {
	manager *Manager
}

// NewHandler creates a new HTTP handler.
func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

// RegisterRoutes registers the map session routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	sessions := app.Group("/maps/sessions")
	sessions.Post("/", h.HandleOpenSession)
	sessions.Delete("/:id", h.HandleCloseSession)
	sessions.Get("/:id/commands", h.HandleDrainCommands)
	sessions.Post("/:id/events", h.HandleEvent)
	sessions.Post("/:id/render", h.HandleRender)
	sessions.Put("/:id/selection", h.HandleSelect)
	sessions.Put("/:id/editing", h.HandleSetEditing)
	sessions.Post("/:id/navigate", h.HandleNavigate)
}

// HandleOpenSession opens a map session for the requested provider and
// returns the session id along with the boot command batch.
func (h *Handler) HandleOpenSession(c *fiber.Ctx) error {
	var req struct {
		Provider string `json:"provider"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}
	}

	s, err := h.manager.Open(req.Provider)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	l := logger.WithRayID(zap.L(), c)
	l.Info("Map session opened", zap.String("session_id", s.ID), zap.String("provider", s.Provider))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":       s.ID,
		"provider": s.Provider,
		"commands": s.Drain(),
	})
}

// HandleCloseSession tears down a session.
func (h *Handler) HandleCloseSession(c *fiber.Ctx) error {
	if err := h.manager.Close(c.Params("id")); err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"status": "closed"})
}

// HandleDrainCommands hands the queued commands to the shim and clears
// the queue.
func (h *Handler) HandleDrainCommands(c *fiber.Ctx) error {
	s, err := h.manager.Get(c.Params("id"))
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"commands": s.Drain()})
}

// HandleEvent accepts one provider-native event from the shim.
func (h *Handler) HandleEvent(c *fiber.Ctx) error {
	s, err := h.manager.Get(c.Params("id"))
	if err != nil {
		return h.errorResponse(c, err)
	}

	var ev Event
	if err := c.BodyParser(&ev); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if ev.Type == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing event type"})
	}

	result, err := s.HandleEvent(c.Context(), ev)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(result)
}

// HandleRender re-reconciles markers against the current device list.
func (h *Handler) HandleRender(c *fiber.Ctx) error {
	s, err := h.manager.Get(c.Params("id"))
	if err != nil {
		return h.errorResponse(c, err)
	}
	if err := s.Render(); err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"status": "rendered"})
}

// HandleSelect selects a device and flies the view to it.
func (h *Handler) HandleSelect(c *fiber.Ctx) error {
	s, err := h.manager.Get(c.Params("id"))
	if err != nil {
		return h.errorResponse(c, err)
	}

	var req struct {
		DeviceID string `json:"device_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	device, err := s.Select(req.DeviceID)
	if err != nil {
		return h.errorResponse(c, err)
	}
	if req.DeviceID == "" {
		return c.JSON(fiber.Map{"status": "cleared"})
	}
	return c.JSON(device)
}

// HandleSetEditing marks one device's marker as draggable. An empty
// device_id ends position editing.
func (h *Handler) HandleSetEditing(c *fiber.Ctx) error {
	s, err := h.manager.Get(c.Params("id"))
	if err != nil {
		return h.errorResponse(c, err)
	}

	var req struct {
		DeviceID string `json:"device_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if err := s.SetEditing(c.Context(), req.DeviceID); err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"editing": req.DeviceID})
}

// HandleNavigate starts a directions attempt to a device.
func (h *Handler) HandleNavigate(c *fiber.Ctx) error {
	s, err := h.manager.Get(c.Params("id"))
	if err != nil {
		return h.errorResponse(c, err)
	}

	var req struct {
		App      string `json:"app"`
		DeviceID string `json:"device_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	nav, err := s.Navigate(req.App, req.DeviceID)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(nav)
}

// errorResponse maps map-session errors onto HTTP statuses.
func (h *Handler) errorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, devices.ErrDeviceNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
