package handlers

import (
	"errors"
	"net/url"

	"github.com/Tkay24/commerce/internal/domain"
	"github.com/Tkay24/commerce/internal/log"
	"github.com/Tkay24/commerce/internal/services"
	"github.com/Tkay24/commerce/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ListingHandler struct {
	Ledger *services.LedgerService
}

// Index shows all active listings, optionally narrowed to one category.
func (h *ListingHandler) Index(c *fiber.Ctx) error {
	cats, err := h.Ledger.Categories()
	if err != nil {
		log.Error(c, "index.error", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load listings. Please retry."})
	}
	listings, err := h.Ledger.ActiveListings("")
	if err != nil {
		log.Error(c, "index.error", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load listings. Please retry."})
	}
	return render(c, "index", fiber.Map{"Listings": listings, "Categories": cats})
}

func (h *ListingHandler) Category(c *fiber.Ctx) error {
	catID, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "category"})
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Category not found"})
	}
	cat, err := h.Ledger.Category(catID)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return c.Status(404).Render("notfound", fiber.Map{"Message": "Category not found"})
		}
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load listings. Please retry."})
	}
	cats, err := h.Ledger.Categories()
	if err != nil {
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load listings. Please retry."})
	}
	listings, err := h.Ledger.ActiveListings(catID)
	if err != nil {
		log.Error(c, "category.error", err, map[string]any{"category": catID})
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load listings. Please retry."})
	}
	return render(c, "index", fiber.Map{"Listings": listings, "Categories": cats, "CategoryName": cat.Name})
}

func (h *ListingHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "listing"})
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This listing is no longer available"})
	}
	d, err := h.Ledger.Detail(id, currentUser(c))
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return c.Status(404).Render("notfound", fiber.Map{"Message": "This listing is no longer available"})
		}
		log.Error(c, "listing.detail.error", err, map[string]any{"listing": id})
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load listing. Please retry."})
	}
	return render(c, "listing", fiber.Map{
		"D":   d,
		"Msg": c.Query("msg"),
		"Err": c.Query("err"),
	})
}

func (h *ListingHandler) CreateForm(c *fiber.Ctx) error {
	cats, err := h.Ledger.Categories()
	if err != nil {
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load categories. Please retry."})
	}
	return render(c, "create", fiber.Map{"Categories": cats, "Err": ""})
}

func (h *ListingHandler) Create(c *fiber.Ctx) error {
	owner := currentUser(c)

	title, ok := validate.Title(c.FormValue("title"))
	if !ok {
		return h.createWithErr(c, "Enter a title (max 64 characters).")
	}
	imageURL, ok := validate.ImageURL(c.FormValue("image_url"))
	if !ok {
		return h.createWithErr(c, "Enter a valid image URL or leave it empty.")
	}
	category, ok := validate.CategoryName(c.FormValue("category"))
	if !ok {
		return h.createWithErr(c, "Choose a category.")
	}

	in := services.CreateListingInput{
		Title:         title,
		Description:   c.FormValue("description"),
		StartingPrice: c.FormValue("starting_bid"),
		ImageURL:      imageURL,
		CategoryName:  category,
	}
	l, err := h.Ledger.CreateListing(in, owner)
	if err != nil {
		var rej *domain.Rejection
		if errors.As(err, &rej) {
			log.Info(c, "listing.create.reject", map[string]any{"reason": rej.Reason.Error()})
			return h.createWithErr(c, rej.Message)
		}
		log.Error(c, "listing.create.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not create listing. Please retry."})
	}

	log.Audit(c, "listing.create", map[string]any{"listing": l.ID, "owner": owner.ID})
	return c.Redirect("/listing/" + l.ID)
}

func (h *ListingHandler) createWithErr(c *fiber.Ctx, msg string) error {
	cats, err := h.Ledger.Categories()
	if err != nil {
		cats = nil
	}
	return render(c.Status(400), "create", fiber.Map{"Categories": cats, "Err": msg})
}

func listingRedirect(c *fiber.Ctx, listingID, key, msg string) error {
	return c.Redirect("/listing/" + listingID + "?" + key + "=" + url.QueryEscape(msg))
}
