package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Tkay24/commerce/internal/domain"
	"github.com/Tkay24/commerce/internal/repos"

	"github.com/shopspring/decimal"
)

// LedgerService owns listing creation, bid validation and the auction
// lifecycle. The acting identity is always passed in explicitly.
type LedgerService struct {
	Listings *repos.ListingRepo
	Bids     *repos.BidRepo
	Cats     *repos.CategoryRepo
	Comments *repos.CommentRepo
	Watch    *repos.WatchlistRepo
	Users    *repos.UserRepo
}

func NewLedgerService(listings *repos.ListingRepo, bids *repos.BidRepo, cats *repos.CategoryRepo,
	comments *repos.CommentRepo, watch *repos.WatchlistRepo, users *repos.UserRepo) *LedgerService {
	return &LedgerService{Listings: listings, Bids: bids, Cats: cats, Comments: comments, Watch: watch, Users: users}
}

type CreateListingInput struct {
	Title         string
	Description   string
	StartingPrice string
	ImageURL      string
	CategoryName  string
}

// CreateListing seeds a bid equal to the starting price and creates the
// listing pointing at it, so the effective price is defined from day one.
func (s *LedgerService) CreateListing(in CreateListingInput, owner *domain.User) (domain.Listing, error) {
	raw := strings.TrimSpace(in.StartingPrice)
	if raw == "" {
		return domain.Listing{}, domain.Reject(domain.ErrMissingStartingPrice, "Starting bid is required.")
	}
	price, err := decimal.NewFromString(raw)
	if err != nil || price.IsNegative() {
		return domain.Listing{}, domain.Reject(domain.ErrInvalidAmount, "Enter a valid non-negative starting bid.")
	}

	cat, err := s.Cats.ByName(in.CategoryName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Listing{}, domain.Reject(domain.ErrCategoryNotFound, "Category does not exist.")
		}
		return domain.Listing{}, err
	}

	id, err := s.Listings.Create(in.Title, in.Description, price, in.ImageURL, cat.ID, owner.ID)
	if err != nil {
		return domain.Listing{}, err
	}
	return s.Listings.Get(id)
}

// PlaceBid validates amount against the starting price, then the current
// price, in that order; the first failing check decides the reported reason.
// Equality passes the starting-price check but not the current-price check.
// Bids on closed listings and owner self-bids are accepted on purpose.
func (s *LedgerService) PlaceBid(listingID, rawAmount string, bidder *domain.User) (decimal.Decimal, error) {
	l, err := s.Listings.Get(listingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, domain.ErrListingNotFound
		}
		return decimal.Zero, err
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(rawAmount))
	if err != nil {
		return decimal.Zero, domain.Reject(domain.ErrInvalidAmount, "Invalid bid amount.")
	}

	if amount.Cmp(l.StartingPrice) < 0 {
		return decimal.Zero, domain.Reject(domain.ErrBidBelowStarting,
			fmt.Sprintf("Bid must be at least the initial price ($%s).", l.StartingPrice.StringFixed(2)))
	}
	if amount.Cmp(l.CurrentPrice) <= 0 {
		return decimal.Zero, domain.Reject(domain.ErrBidNotAboveCurrent,
			fmt.Sprintf("Bid must be higher than the current bid ($%s).", l.CurrentPrice.StringFixed(2)))
	}

	_, ok, err := s.Listings.SwapCurrentBid(listingID, l.CurrentBidID, amount, bidder.ID)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		// Another bid committed between our read and write. Re-read and
		// report against the fresh price rather than regressing it.
		fresh, err := s.Listings.Get(listingID)
		if err != nil {
			return decimal.Zero, err
		}
		return decimal.Zero, domain.Reject(domain.ErrBidNotAboveCurrent,
			fmt.Sprintf("Bid must be higher than the current bid ($%s).", fresh.CurrentPrice.StringFixed(2)))
	}
	return amount, nil
}

// CloseAuction moves an active listing to its terminal closed state. Only the
// owner may close, and only once; both failure modes report the same way.
func (s *LedgerService) CloseAuction(listingID string, requester *domain.User) error {
	if _, err := s.Listings.Get(listingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrListingNotFound
		}
		return err
	}
	ok, err := s.Listings.Close(listingID, requester.ID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotAllowed
	}
	return nil
}

func (s *LedgerService) WatchListing(listingID string, user *domain.User) error {
	if _, err := s.Listings.Get(listingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrListingNotFound
		}
		return err
	}
	return s.Watch.Add(user.ID, listingID)
}

func (s *LedgerService) UnwatchListing(listingID string, user *domain.User) error {
	return s.Watch.Remove(user.ID, listingID)
}

// AddComment appends a comment; message content is not validated, empty
// messages included.
func (s *LedgerService) AddComment(listingID, message string, author *domain.User) (string, error) {
	if _, err := s.Listings.Get(listingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrListingNotFound
		}
		return "", err
	}
	return s.Comments.Add(listingID, author.ID, message)
}

func (s *LedgerService) ActiveListings(categoryID string) ([]repos.ListingRow, error) {
	if categoryID == "" {
		return s.Listings.ListActive()
	}
	return s.Listings.ListActiveByCategory(categoryID)
}

func (s *LedgerService) Watchlist(user *domain.User) ([]repos.ListingRow, error) {
	return s.Listings.WatchedBy(user.ID)
}

func (s *LedgerService) Categories() ([]domain.Category, error) {
	return s.Cats.List()
}

func (s *LedgerService) Category(id string) (domain.Category, error) {
	c, err := s.Cats.ByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Category{}, domain.ErrCategoryNotFound
		}
		return domain.Category{}, err
	}
	return c, nil
}

// ListingDetail is the full listing-page payload.
type ListingDetail struct {
	Listing       domain.Listing
	Owner         string
	CurrentBidder string
	Comments      []domain.Comment
	Watching      bool
	IsOwner       bool
}

func (s *LedgerService) Detail(listingID string, viewer *domain.User) (ListingDetail, error) {
	l, err := s.Listings.Get(listingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ListingDetail{}, domain.ErrListingNotFound
		}
		return ListingDetail{}, err
	}

	owner, err := s.Users.ByID(l.OwnerID)
	if err != nil {
		return ListingDetail{}, err
	}
	comments, err := s.Comments.ForListing(listingID)
	if err != nil {
		return ListingDetail{}, err
	}

	d := ListingDetail{Listing: l, Owner: owner.Username, Comments: comments}
	if l.CurrentBidID != "" {
		cur, err := s.Bids.Get(l.CurrentBidID)
		if err != nil {
			return ListingDetail{}, err
		}
		bidder, err := s.Users.ByID(cur.BidderID)
		if err != nil {
			return ListingDetail{}, err
		}
		d.CurrentBidder = bidder.Username
	}
	if viewer != nil {
		watching, err := s.Watch.Contains(viewer.ID, listingID)
		if err != nil {
			return ListingDetail{}, err
		}
		d.Watching = watching
		d.IsOwner = viewer.ID == l.OwnerID
	}
	return d, nil
}
