package handlers

import (
	"errors"

	"github.com/Tkay24/commerce/internal/domain"
	"github.com/Tkay24/commerce/internal/log"
	"github.com/Tkay24/commerce/internal/services"
	"github.com/Tkay24/commerce/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CommentHandler struct {
	Ledger *services.LedgerService
}

// Add appends a comment to a listing. Message content is unrestricted.
func (h *CommentHandler) Add(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This listing is no longer available"})
	}
	author := currentUser(c)

	if _, err := h.Ledger.AddComment(id, c.FormValue("message"), author); err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return c.Status(404).Render("notfound", fiber.Map{"Message": "This listing is no longer available"})
		}
		log.Error(c, "comment.add.fail", err, map[string]any{"listing": id})
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not add comment. Please retry."})
	}

	log.Audit(c, "comment.add", map[string]any{"listing": id, "author": author.ID})
	return c.Redirect("/listing/" + id)
}
