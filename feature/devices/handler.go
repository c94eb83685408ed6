package devices

import (
	"errors"

	"device-locator/core/logger"
	"device-locator/feature/devices/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for devices and folders.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the device, folder and theme routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	devices := app.Group("/devices")
	devices.Get("/", h.HandleListDevices)
	devices.Post("/", h.HandleCreateDevice)
	devices.Get("/:id", h.HandleGetDevice)
	devices.Put("/:id", h.HandleUpdateDevice)
	devices.Delete("/:id", h.HandleDeleteDevice)
	devices.Put("/:id/folder", h.HandleMoveDevice)

	folders := app.Group("/folders")
	folders.Get("/", h.HandleListFolders)
	folders.Post("/", h.HandleCreateFolder)
	folders.Put("/:id", h.HandleRenameFolder)
	folders.Put("/:id/toggle", h.HandleToggleFolder)
	folders.Delete("/:id", h.HandleDeleteFolder)

	app.Get("/theme", h.HandleGetTheme)
	app.Put("/theme", h.HandleSetTheme)
}

// deviceRequest is the JSON body for create/update calls.
type deviceRequest struct {
	Name        *string  `json:"name"`
	InstalledAt *string  `json:"installed_at"`
	Note        *string  `json:"note"`
	FolderID    *string  `json:"folderid"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// HandleListDevices returns the device collection, optionally filtered by
// the q parameter (substring or chosung match on name and note).
func (h *Handler) HandleListDevices(c *fiber.Ctx) error {
	query := c.Query("q")
	list := h.service.Search(query)
	if list == nil {
		list = []models.Device{}
	}
	return c.JSON(list)
}

// HandleGetDevice returns a single device.
func (h *Handler) HandleGetDevice(c *fiber.Ctx) error {
	d, err := h.service.GetDevice(c.Params("id"))
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(d)
}

// HandleCreateDevice registers a new device at a fixed position.
func (h *Handler) HandleCreateDevice(c *fiber.Ctx) error {
	var req deviceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	d := models.Device{}
	if req.Name != nil {
		d.Name = *req.Name
	}
	if req.InstalledAt != nil {
		d.InstalledAt = *req.InstalledAt
	}
	if req.Note != nil {
		d.Note = *req.Note
	}
	if req.FolderID != nil {
		d.FolderID = *req.FolderID
	}
	if req.Latitude != nil {
		d.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		d.Longitude = *req.Longitude
	}

	created, err := h.service.AddDevice(c.Context(), d)
	if err != nil {
		return h.errorResponse(c, err)
	}

	l := logger.WithRayID(zap.L(), c)
	l.Info("Device registered", zap.String("id", created.ID), zap.String("name", created.Name))
	return c.Status(fiber.StatusCreated).JSON(created)
}

// HandleUpdateDevice edits name, install date, note or folder.
func (h *Handler) HandleUpdateDevice(c *fiber.Ctx) error {
	var req deviceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	patch := DevicePatch{
		Name:        req.Name,
		InstalledAt: req.InstalledAt,
		Note:        req.Note,
		FolderID:    req.FolderID,
	}
	updated, err := h.service.UpdateDevice(c.Context(), c.Params("id"), patch)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(updated)
}

// HandleDeleteDevice removes a device.
func (h *Handler) HandleDeleteDevice(c *fiber.Ctx) error {
	if err := h.service.DeleteDevice(c.Context(), c.Params("id")); err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}

// HandleMoveDevice reassigns a device to another folder.
func (h *Handler) HandleMoveDevice(c *fiber.Ctx) error {
	var req struct {
		FolderID string `json:"folderid"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if err := h.service.MoveDevice(c.Context(), c.Params("id"), req.FolderID); err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"status": "moved"})
}

// HandleListFolders returns the folder collection.
func (h *Handler) HandleListFolders(c *fiber.Ctx) error {
	return c.JSON(h.service.Folders())
}

// HandleCreateFolder creates a folder.
func (h *Handler) HandleCreateFolder(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	f, err := h.service.AddFolder(c.Context(), req.Name)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(f)
}

// HandleRenameFolder changes a folder's name.
func (h *Handler) HandleRenameFolder(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if err := h.service.RenameFolder(c.Context(), c.Params("id"), req.Name); err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"status": "renamed"})
}

// HandleToggleFolder flips a folder's expanded flag.
func (h *Handler) HandleToggleFolder(c *fiber.Ctx) error {
	if err := h.service.ToggleFolder(c.Context(), c.Params("id")); err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"status": "toggled"})
}

// HandleDeleteFolder removes a folder; contained devices move to default.
func (h *Handler) HandleDeleteFolder(c *fiber.Ctx) error {
	if err := h.service.DeleteFolder(c.Context(), c.Params("id")); err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}

// HandleGetTheme returns the persisted theme preference.
func (h *Handler) HandleGetTheme(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"theme": h.service.Theme(c.Context())})
}

// HandleSetTheme persists the theme preference.
func (h *Handler) HandleSetTheme(c *fiber.Ctx) error {
	var req struct {
		Theme string `json:"theme"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if err := h.service.SetTheme(c.Context(), req.Theme); err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"theme": req.Theme})
}

// errorResponse maps domain errors onto HTTP statuses.
func (h *Handler) errorResponse(c *fiber.Ctx, err error) error {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": vErr.Reason})
	case errors.Is(err, ErrDefaultFolder):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrDeviceNotFound), errors.Is(err, ErrFolderNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
