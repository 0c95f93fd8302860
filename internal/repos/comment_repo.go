package repos

import (
	"github.com/Tkay24/commerce/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type CommentRepo struct{ db *sqlx.DB }

func NewCommentRepo(db *sqlx.DB) *CommentRepo { return &CommentRepo{db: db} }

func (r *CommentRepo) Add(listingID, authorID, message string) (string, error) {
	id := uuid.NewString()
	_, err := r.db.Exec(`INSERT INTO comments(id,listing_id,author_id,message) VALUES(?,?,?,?)`,
		id, listingID, authorID, message)
	if err != nil {
		return "", err
	}
	return id, nil
}

// ForListing returns comments in insertion order.
func (r *CommentRepo) ForListing(listingID string) ([]domain.Comment, error) {
	var out []domain.Comment
	err := r.db.Select(&out, `
	  SELECT c.id, c.listing_id, c.author_id, u.username AS author, c.message, c.created_at
	  FROM comments c
	  JOIN users u ON u.id = c.author_id
	  WHERE c.listing_id = ?
	  ORDER BY c.rowid
	`, listingID)
	return out, err
}
