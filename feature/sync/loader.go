package sync

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	coordinator *Coordinator
	handler     *Handler
}

// NewFeature creates a new Sync feature. db may be nil when the remote
// store is unreachable; the feature then loads in disabled form and the
// status endpoint reports it.
func NewFeature(db *gorm.DB, collection Collection, enabled bool, logger *zap.Logger) *Feature {
	c := NewCoordinator(db, collection, enabled, logger)
	return &Feature{coordinator: c, handler: NewHandler(c)}
}

// Coordinator exposes the coordinator for the CLI sync command.
func (f *Feature) Coordinator() *Coordinator {
	return f.coordinator
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "sync"
}

// IsEnabled checks if the feature is enabled. The routes load even when
// sync is disabled so clients get a proper taxonomy error instead of 404.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
