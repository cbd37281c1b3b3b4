package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/nearmeconnect/internal/core/domain"
)

const requestColumns = `id, customer_id, provider_id, message, is_accepted, is_completed, created_at`

// RequestRepo implements ports.ServiceRequestRepository with pgx.
type RequestRepo struct {
	db *DB
}

// NewRequestRepo creates a new RequestRepo.
func NewRequestRepo(db *DB) *RequestRepo {
	return &RequestRepo{db: db}
}

func (r *RequestRepo) ListByCustomer(ctx context.Context, customerID int64) ([]domain.ServiceRequest, error) {
	return r.list(ctx, `SELECT `+requestColumns+` FROM service_requests
		WHERE customer_id = $1 ORDER BY created_at DESC, id DESC`, customerID)
}

func (r *RequestRepo) ListByProvider(ctx context.Context, providerID int64) ([]domain.ServiceRequest, error) {
	return r.list(ctx, `SELECT `+requestColumns+` FROM service_requests
		WHERE provider_id = $1 ORDER BY created_at DESC, id DESC`, providerID)
}

func (r *RequestRepo) GetByID(ctx context.Context, id int64) (*domain.ServiceRequest, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+requestColumns+` FROM service_requests WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	req, err := pgx.CollectExactlyOneRow(rows, scanRequest)
	if err != nil {
		return nil, mapErr(err)
	}
	return &req, nil
}

func (r *RequestRepo) Create(ctx context.Context, req *domain.ServiceRequest) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO service_requests (customer_id, provider_id, message, is_accepted, is_completed)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, req.CustomerID, req.ProviderID, req.Message, req.IsAccepted, req.IsCompleted,
	).Scan(&req.ID, &req.CreatedAt)
	return mapErr(err)
}

func (r *RequestRepo) Update(ctx context.Context, req *domain.ServiceRequest) error {
	return execOne(r.db.Pool.Exec(ctx, `
		UPDATE service_requests SET message = $2, is_accepted = $3, is_completed = $4
		WHERE id = $1
	`, req.ID, req.Message, req.IsAccepted, req.IsCompleted))
}

func (r *RequestRepo) Delete(ctx context.Context, id int64) error {
	return execOne(r.db.Pool.Exec(ctx, `DELETE FROM service_requests WHERE id = $1`, id))
}

func (r *RequestRepo) list(ctx context.Context, query string, arg int64) ([]domain.ServiceRequest, error) {
	rows, err := r.db.Pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanRequest)
}

func scanRequest(row pgx.CollectableRow) (domain.ServiceRequest, error) {
	var req domain.ServiceRequest
	err := row.Scan(&req.ID, &req.CustomerID, &req.ProviderID, &req.Message,
		&req.IsAccepted, &req.IsCompleted, &req.CreatedAt)
	return req, err
}
