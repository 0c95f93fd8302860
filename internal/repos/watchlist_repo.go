package repos

import (
	"github.com/jmoiron/sqlx"
)

type WatchlistRepo struct{ db *sqlx.DB }

func NewWatchlistRepo(db *sqlx.DB) *WatchlistRepo { return &WatchlistRepo{db: db} }

// Add is idempotent: watching an already-watched listing is a no-op.
func (r *WatchlistRepo) Add(userID, listingID string) error {
	_, err := r.db.Exec(`
	  INSERT INTO watchlist_items(user_id, listing_id)
	  VALUES(?, ?)
	  ON CONFLICT(user_id, listing_id) DO NOTHING
	`, userID, listingID)
	return err
}

// Remove is idempotent: removing an absent entry is a no-op.
func (r *WatchlistRepo) Remove(userID, listingID string) error {
	_, err := r.db.Exec(`DELETE FROM watchlist_items WHERE user_id=? AND listing_id=?`, userID, listingID)
	return err
}

func (r *WatchlistRepo) Contains(userID, listingID string) (bool, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM watchlist_items WHERE user_id=? AND listing_id=?`, userID, listingID)
	return n > 0, err
}
