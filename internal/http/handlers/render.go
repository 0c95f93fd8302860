package handlers

import (
	"github.com/Tkay24/commerce/internal/domain"

	"github.com/gofiber/fiber/v2"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	// Inject user if present
	if u := c.Locals("user"); u != nil {
		data["User"] = u
	}
	// Pick up the token the CSRF middleware put into Locals
	if tok, _ := c.Locals("CSRFToken").(string); tok != "" {
		data["CSRFToken"] = tok
	} else if cookTok := c.Cookies("csrf_"); cookTok != "" {
		// Fallback for edge cases where Locals wasn't populated
		data["CSRFToken"] = cookTok
	}
	return c.Render(tmpl, data)
}

// currentUser returns the authenticated user attached by the session
// middleware, or nil for anonymous requests.
func currentUser(c *fiber.Ctx) *domain.User {
	if u, ok := c.Locals("user").(*domain.User); ok {
		return u
	}
	return nil
}
