package geocode

import (
	"device-locator/core/config"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new Geocode feature from the configured provider
// credentials.
func NewFeature(cfg config.SearchConfig, logger *zap.Logger) *Feature {
	svc := NewService(logger, NewNaverClient(cfg), NewKakaoClient(cfg))
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Service exposes the search service for the CLI search command.
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "geocode"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
