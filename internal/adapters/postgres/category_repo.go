package postgres

import (
	"context"

	"github.com/samirrijal/nearmeconnect/internal/core/domain"
)

// CategoryRepo implements ports.CategoryRepository with pgx.
type CategoryRepo struct {
	db *DB
}

// NewCategoryRepo creates a new CategoryRepo.
func NewCategoryRepo(db *DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

// List returns all categories ordered by name.
func (r *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CategoryRepo) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	var c domain.Category
	err := r.db.Pool.QueryRow(ctx, `SELECT id, name FROM categories WHERE id = $1`, id).Scan(&c.ID, &c.Name)
	if err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (r *CategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	err := r.db.Pool.QueryRow(ctx, `INSERT INTO categories (name) VALUES ($1) RETURNING id`, c.Name).Scan(&c.ID)
	return mapErr(err)
}

func (r *CategoryRepo) Update(ctx context.Context, c *domain.Category) error {
	return execOne(r.db.Pool.Exec(ctx, `UPDATE categories SET name = $2 WHERE id = $1`, c.ID, c.Name))
}

func (r *CategoryRepo) Delete(ctx context.Context, id int64) error {
	return execOne(r.db.Pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id))
}

// EnsureNames inserts any missing categories, ignoring existing ones
// case-insensitively. Returns how many were added.
func (r *CategoryRepo) EnsureNames(ctx context.Context, names []string) (int, error) {
	added := 0
	for _, n := range names {
		tag, err := r.db.Pool.Exec(ctx, `
			INSERT INTO categories (name) VALUES ($1)
			ON CONFLICT ((lower(name))) DO NOTHING
		`, n)
		if err != nil {
			return added, mapErr(err)
		}
		added += int(tag.RowsAffected())
	}
	return added, nil
}
