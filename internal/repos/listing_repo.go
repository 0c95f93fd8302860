package repos

import (
	"database/sql"

	"github.com/Tkay24/commerce/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type ListingRepo struct{ db *sqlx.DB }

func NewListingRepo(db *sqlx.DB) *ListingRepo { return &ListingRepo{db: db} }

const listingCols = `
  l.id, l.title, COALESCE(l.description,'') AS description, l.starting_price,
  COALESCE(l.image_url,'') AS image_url, COALESCE(l.category_id,'') AS category_id,
  l.owner_id, COALESCE(l.current_bid_id,'') AS current_bid_id,
  COALESCE(b.amount, l.starting_price) AS current_price,
  l.is_active, l.created_at`

// Get loads a listing with its effective current price (starting price until
// a current bid exists).
func (r *ListingRepo) Get(id string) (domain.Listing, error) {
	var l domain.Listing
	err := r.db.Get(&l, `
	  SELECT `+listingCols+`
	  FROM listings l
	  LEFT JOIN bids b ON b.id = l.current_bid_id
	  WHERE l.id = ?
	`, id)
	return l, err
}

// Create inserts the seed bid and the listing that references it as its
// current price, in one transaction. Returns the new listing id.
func (r *ListingRepo) Create(title, description string, startingPrice decimal.Decimal, imageURL, categoryID, ownerID string) (string, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	bidID := uuid.NewString()
	if _, err := tx.Exec(`INSERT INTO bids(id,amount,bidder_id) VALUES(?,?,?)`,
		bidID, startingPrice.String(), ownerID); err != nil {
		return "", err
	}

	listingID := uuid.NewString()
	var catID any
	if categoryID != "" {
		catID = categoryID
	}
	if _, err := tx.Exec(`
	  INSERT INTO listings(id,title,description,starting_price,image_url,category_id,owner_id,current_bid_id,is_active)
	  VALUES(?,?,?,?,?,?,?,?,1)
	`, listingID, title, description, startingPrice.String(), imageURL, catID, ownerID, bidID); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return listingID, nil
}

// SwapCurrentBid inserts a bid row and points the listing at it, keyed on the
// previously observed current bid so two racing bids cannot both win. A zero
// rows-affected result means the current bid moved underneath us.
func (r *ListingRepo) SwapCurrentBid(listingID, prevBidID string, amount decimal.Decimal, bidderID string) (string, bool, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return "", false, err
	}
	defer func() { _ = tx.Rollback() }()

	bidID := uuid.NewString()
	if _, err := tx.Exec(`INSERT INTO bids(id,amount,bidder_id) VALUES(?,?,?)`,
		bidID, amount.String(), bidderID); err != nil {
		return "", false, err
	}

	var res sql.Result
	if prevBidID == "" {
		res, err = tx.Exec(`UPDATE listings SET current_bid_id=? WHERE id=? AND current_bid_id IS NULL`,
			bidID, listingID)
	} else {
		res, err = tx.Exec(`UPDATE listings SET current_bid_id=? WHERE id=? AND current_bid_id=?`,
			bidID, listingID, prevBidID)
	}
	if err != nil {
		return "", false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", false, err
	}
	if n == 0 {
		// leave the orphan bid uncommitted
		return "", false, nil
	}

	if err := tx.Commit(); err != nil {
		return "", false, err
	}
	return bidID, true, nil
}

// Close flips is_active off, keyed on owner and active state in one statement
// so the Active -> Closed transition happens at most once.
func (r *ListingRepo) Close(listingID, ownerID string) (bool, error) {
	res, err := r.db.Exec(`UPDATE listings SET is_active=0 WHERE id=? AND owner_id=? AND is_active=1`,
		listingID, ownerID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ListingRow is the index/watchlist projection.
type ListingRow struct {
	ID           string          `db:"id"`
	Title        string          `db:"title"`
	Description  string          `db:"description"`
	ImageURL     string          `db:"image_url"`
	Category     string          `db:"category"`
	Owner        string          `db:"owner"`
	CurrentPrice decimal.Decimal `db:"current_price"`
	Active       bool            `db:"is_active"`
	CreatedAt    string          `db:"created_at"`
}

const rowSelect = `
  SELECT
    l.id, l.title, COALESCE(l.description,'') AS description,
    COALESCE(l.image_url,'') AS image_url,
    COALESCE(c.name,'') AS category, u.username AS owner,
    COALESCE(b.amount, l.starting_price) AS current_price,
    l.is_active, l.created_at
  FROM listings l
  JOIN users u ON u.id = l.owner_id
  LEFT JOIN categories c ON c.id = l.category_id
  LEFT JOIN bids b ON b.id = l.current_bid_id`

func (r *ListingRepo) ListActive() ([]ListingRow, error) {
	var out []ListingRow
	err := r.db.Select(&out, rowSelect+`
	  WHERE l.is_active = 1
	  ORDER BY l.created_at DESC, l.rowid DESC
	`)
	return out, err
}

func (r *ListingRepo) ListActiveByCategory(categoryID string) ([]ListingRow, error) {
	var out []ListingRow
	err := r.db.Select(&out, rowSelect+`
	  WHERE l.is_active = 1 AND l.category_id = ?
	  ORDER BY l.created_at DESC, l.rowid DESC
	`, categoryID)
	return out, err
}

func (r *ListingRepo) WatchedBy(userID string) ([]ListingRow, error) {
	var out []ListingRow
	err := r.db.Select(&out, rowSelect+`
	  JOIN watchlist_items wi ON wi.listing_id = l.id
	  WHERE wi.user_id = ?
	  ORDER BY wi.created_at DESC, wi.rowid DESC
	`, userID)
	return out, err
}
