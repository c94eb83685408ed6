package maps

import (
	"device-locator/core/config"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	manager *Manager
	handler *Handler
	enabled bool
}

// NewFeature creates a new Maps feature from the configured provider.
func NewFeature(cfg *config.Config, devices DeviceSource, logger *zap.Logger) *Feature {
	opts := Options{
		Center:        Coordinate{Lat: cfg.Maps.CenterLat, Lng: cfg.Maps.CenterLng},
		Zoom:          cfg.Maps.Zoom,
		KakaoAppKey:   cfg.Maps.KakaoAppKey,
		NaverClientID: cfg.Maps.NaverClientID,
	}
	m := NewManager(cfg.Server.Provider, opts, devices, logger)
	return &Feature{
		manager: m,
		handler: NewHandler(m),
		enabled: cfg.Server.IsValidProvider(),
	}
}

// Manager exposes the session manager for the periodic sweep.
func (f *Feature) Manager() *Manager {
	return f.manager
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "maps"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.enabled
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
