package domain

import "github.com/shopspring/decimal"

type Category struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	CreatedAt string `db:"created_at"`
}

type Listing struct {
	ID            string          `db:"id"`
	Title         string          `db:"title"`
	Description   string          `db:"description"`
	StartingPrice decimal.Decimal `db:"starting_price"`
	ImageURL      string          `db:"image_url"`
	CategoryID    string          `db:"category_id"`
	OwnerID       string          `db:"owner_id"`
	CurrentBidID  string          `db:"current_bid_id"`
	CurrentPrice  decimal.Decimal `db:"current_price"`
	Active        bool            `db:"is_active"`
	CreatedAt     string          `db:"created_at"`
}

// Bid rows are immutable; a new bid is always a new row, never an edit.
// A bid is "current" for a listing only through that listing's current_bid_id.
type Bid struct {
	ID        string          `db:"id"`
	Amount    decimal.Decimal `db:"amount"`
	BidderID  string          `db:"bidder_id"`
	CreatedAt string          `db:"created_at"`
}

type Comment struct {
	ID        string `db:"id"`
	ListingID string `db:"listing_id"`
	AuthorID  string `db:"author_id"`
	Author    string `db:"author"`
	Message   string `db:"message"`
	CreatedAt string `db:"created_at"`
}
