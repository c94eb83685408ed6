package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Header carries the request ID in responses and may carry one in requests.
const Header = "X-Ray-ID"

// New creates a middleware that assigns a RayID to every request.
// An incoming X-Ray-ID is honored so upstream proxies can trace calls;
// otherwise a fresh UUID is generated. The ID is stored in the context
// locals for the logger and echoed back in the response header.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(Header)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals("ray_id", rid)
		c.Set(Header, rid)
		return c.Next()
	}
}
