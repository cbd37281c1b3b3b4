package postgres

import (
	"context"

	"github.com/samirrijal/nearmeconnect/internal/core/domain"
)

const reviewColumns = `id, customer_id, provider_id, rating, comment, created_at`

// ReviewRepo implements ports.ReviewRepository with pgx.
type ReviewRepo struct {
	db *DB
}

// NewReviewRepo creates a new ReviewRepo.
func NewReviewRepo(db *DB) *ReviewRepo {
	return &ReviewRepo{db: db}
}

func (r *ReviewRepo) ListByProvider(ctx context.Context, providerID int64) ([]domain.Review, error) {
	return r.list(ctx, `SELECT `+reviewColumns+` FROM reviews
		WHERE provider_id = $1 ORDER BY created_at DESC, id DESC`, providerID)
}

func (r *ReviewRepo) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Review, error) {
	return r.list(ctx, `SELECT `+reviewColumns+` FROM reviews
		WHERE customer_id = $1 ORDER BY created_at DESC, id DESC`, customerID)
}

func (r *ReviewRepo) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	var rv domain.Review
	err := r.db.Pool.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id).Scan(
		&rv.ID, &rv.CustomerID, &rv.ProviderID, &rv.Rating, &rv.Comment, &rv.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &rv, nil
}

func (r *ReviewRepo) Create(ctx context.Context, rv *domain.Review) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO reviews (customer_id, provider_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, rv.CustomerID, rv.ProviderID, rv.Rating, rv.Comment).Scan(&rv.ID, &rv.CreatedAt)
	return mapErr(err)
}

func (r *ReviewRepo) Update(ctx context.Context, rv *domain.Review) error {
	return execOne(r.db.Pool.Exec(ctx,
		`UPDATE reviews SET rating = $2, comment = $3 WHERE id = $1`, rv.ID, rv.Rating, rv.Comment))
}

func (r *ReviewRepo) Delete(ctx context.Context, id int64) error {
	return execOne(r.db.Pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id))
}

func (r *ReviewRepo) list(ctx context.Context, query string, arg int64) ([]domain.Review, error) {
	rows, err := r.db.Pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.CustomerID, &rv.ProviderID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}
