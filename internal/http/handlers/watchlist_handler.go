package handlers

import (
	"errors"

	"github.com/Tkay24/commerce/internal/domain"
	applog "github.com/Tkay24/commerce/internal/log"
	"github.com/Tkay24/commerce/internal/services"
	"github.com/Tkay24/commerce/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type WatchlistHandler struct {
	Ledger *services.LedgerService
}

func (h *WatchlistHandler) List(c *fiber.Ctx) error {
	user := currentUser(c)
	items, err := h.Ledger.Watchlist(user)
	if err != nil {
		applog.Error(c, "watchlist.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load watchlist"})
	}
	return render(c, "watchlist", fiber.Map{"Items": items})
}

func (h *WatchlistHandler) Save(c *fiber.Ctx) error {
	user := currentUser(c)
	id, ok := validate.ID(c.FormValue("listingId"))
	if !ok {
		return c.Status(400).SendString("missing listingId")
	}
	if err := h.Ledger.WatchListing(id, user); err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return c.Status(404).Render("notfound", fiber.Map{"Message": "This listing is no longer available"})
		}
		applog.Error(c, "watchlist.save.fail", err, map[string]any{"listing": id})
		return c.Status(500).SendString("Could not save listing")
	}
	applog.Audit(c, "watchlist.save", map[string]any{"listing": id, "user": user.ID})
	// redirect back to listing or watchlist
	back := c.Get("Referer")
	if back == "" {
		back = "/listing/" + id
	}
	return c.Redirect(back)
}

func (h *WatchlistHandler) Unsave(c *fiber.Ctx) error {
	user := currentUser(c)
	id, ok := validate.ID(c.FormValue("listingId"))
	if !ok {
		return c.Status(400).SendString("missing listingId")
	}
	if err := h.Ledger.UnwatchListing(id, user); err != nil {
		applog.Error(c, "watchlist.unsave.fail", err, map[string]any{"listing": id})
		return c.Status(500).SendString("Could not remove listing")
	}
	applog.Audit(c, "watchlist.unsave", map[string]any{"listing": id, "user": user.ID})
	back := c.Get("Referer")
	if back == "" {
		back = "/watchlist"
	}
	return c.Redirect(back)
}
