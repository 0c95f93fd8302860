package handlers

import (
	"errors"

	"github.com/Tkay24/commerce/internal/domain"
	"github.com/Tkay24/commerce/internal/log"
	"github.com/Tkay24/commerce/internal/services"
	"github.com/Tkay24/commerce/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type BidHandler struct {
	Ledger *services.LedgerService
}

// Place validates and records a bid, then bounces back to the listing page
// with the outcome in the flash message.
func (h *BidHandler) Place(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This listing is no longer available"})
	}
	bidder := currentUser(c)

	newPrice, err := h.Ledger.PlaceBid(id, c.FormValue("bid_amount"), bidder)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return c.Status(404).Render("notfound", fiber.Map{"Message": "This listing is no longer available"})
		}
		var rej *domain.Rejection
		if errors.As(err, &rej) {
			log.Info(c, "bid.reject", map[string]any{"listing": id, "reason": rej.Reason.Error()})
			return listingRedirect(c, id, "err", "Your bid was unsuccessful. "+rej.Message)
		}
		log.Error(c, "bid.place.fail", err, map[string]any{"listing": id})
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not place bid. Please retry."})
	}

	log.Audit(c, "bid.place", map[string]any{"listing": id, "bidder": bidder.ID, "amount": newPrice.StringFixed(2)})
	return listingRedirect(c, id, "msg", "Your bid was successful.")
}

// Close moves the auction to its terminal state; owner-only, once.
func (h *BidHandler) Close(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This listing is no longer available"})
	}
	requester := currentUser(c)

	err := h.Ledger.CloseAuction(id, requester)
	switch {
	case errors.Is(err, domain.ErrListingNotFound):
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This listing is no longer available"})
	case errors.Is(err, domain.ErrNotAllowed):
		log.Security(c, "auction.close.denied", map[string]any{"listing": id, "user": requester.ID})
		return listingRedirect(c, id, "err", "You are not allowed to close this auction.")
	case err != nil:
		log.Error(c, "auction.close.fail", err, map[string]any{"listing": id})
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not close auction. Please retry."})
	}

	log.Audit(c, "auction.close", map[string]any{"listing": id, "owner": requester.ID})
	return listingRedirect(c, id, "msg", "Auction closed successfully.")
}
