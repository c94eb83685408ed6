package geocode

import (
	"device-locator/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the address search proxy.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the search proxy routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Options("/search-address", h.HandlePreflight)
	app.Get("/search-address", h.HandleSearch)
	app.Get("/search-address/all", h.HandleSearchAll)
}

// corsHeaders makes the proxy callable from any origin; it exists so the
// browser never has to hold the provider secrets.
func corsHeaders(c *fiber.Ctx) {
	c.Set("Access-Control-Allow-Origin", "*")
	c.Set("Access-Control-Allow-Headers", "Content-Type")
	c.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
}

// HandlePreflight answers the CORS preflight with an empty 200.
func (h *Handler) HandlePreflight(c *fiber.Ctx) error {
	corsHeaders(c)
	return c.SendStatus(fiber.StatusOK)
}

// HandleSearch proxies one provider's keyword search.
func (h *Handler) HandleSearch(c *fiber.Ctx) error {
	corsHeaders(c)

	provider := c.Query("provider")
	query := c.Query("query")
	if provider == "" || query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "provider(naver|kakao)와 query 파라미터가 필요합니다.",
		})
	}
	if !h.service.HasProvider(provider) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "provider는 naver 또는 kakao여야 합니다.",
		})
	}

	results, err := h.service.Search(c.Context(), provider, query)
	if err != nil {
		logger.WithRayID(zap.L(), c).Error("Address search failed",
			zap.String("provider", provider), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "주소검색 중 오류가 발생했습니다.",
			"details": err.Error(),
		})
	}
	if results == nil {
		results = []Result{}
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"provider": provider,
		"query":    query,
		"results":  results,
	})
}

// HandleSearchAll queries every configured provider and merges the hits.
func (h *Handler) HandleSearchAll(c *fiber.Ctx) error {
	corsHeaders(c)

	query := c.Query("query")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "query 파라미터가 필요합니다.",
		})
	}

	results := h.service.SearchAll(c.Context(), query)
	if results == nil {
		results = []Result{}
	}
	return c.JSON(fiber.Map{
		"success": true,
		"query":   query,
		"results": results,
	})
}
