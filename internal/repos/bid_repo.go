package repos

import (
	"github.com/Tkay24/commerce/internal/domain"

	"github.com/jmoiron/sqlx"
)

type BidRepo struct{ db *sqlx.DB }

func NewBidRepo(db *sqlx.DB) *BidRepo { return &BidRepo{db: db} }

func (r *BidRepo) Get(id string) (domain.Bid, error) {
	var b domain.Bid
	err := r.db.Get(&b, `SELECT id, amount, bidder_id, created_at FROM bids WHERE id=?`, id)
	return b, err
}

func (r *BidRepo) ByUser(userID string) ([]domain.Bid, error) {
	var out []domain.Bid
	err := r.db.Select(&out, `
	  SELECT id, amount, bidder_id, created_at
	  FROM bids WHERE bidder_id=?
	  ORDER BY created_at DESC, rowid DESC
	`, userID)
	return out, err
}
