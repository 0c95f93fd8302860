package repos

import (
	"github.com/Tkay24/commerce/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) List() ([]domain.Category, error) {
	var out []domain.Category
	err := r.db.Select(&out, `
	  SELECT id, name, created_at
	  FROM categories
	  ORDER BY name
	`)
	return out, err
}

func (r *CategoryRepo) ByName(name string) (domain.Category, error) {
	var c domain.Category
	err := r.db.Get(&c, `SELECT id, name, created_at FROM categories WHERE LOWER(name)=LOWER(?)`, name)
	return c, err
}

func (r *CategoryRepo) ByID(id string) (domain.Category, error) {
	var c domain.Category
	err := r.db.Get(&c, `SELECT id, name, created_at FROM categories WHERE id=?`, id)
	return c, err
}
