package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/nearmeconnect/internal/core/domain"
)

const userColumns = `
	u.id, u.username, u.email, u.first_name, u.last_name, u.password_hash, u.is_staff, u.created_at,
	COALESCE(p.phone, ''), COALESCE(p.is_service_provider, FALSE)`

// UserRepo implements ports.UserRepository with pgx.
type UserRepo struct {
	db *DB
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts the user and its profile in one transaction.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	err := pgx.BeginFunc(ctx, r.db.Pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `
			INSERT INTO users (username, email, first_name, last_name, password_hash, is_staff)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at
		`, u.Username, u.Email, u.FirstName, u.LastName, u.PasswordHash, u.IsStaff,
		).Scan(&u.ID, &u.CreatedAt); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO user_profiles (user_id, phone, is_service_provider)
			VALUES ($1, $2, $3)
		`, u.ID, u.Profile.Phone, u.Profile.IsServiceProvider)
		return err
	})
	return mapErr(err)
}

// GetByID returns a user with its profile.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+`
		FROM users u LEFT JOIN user_profiles p ON p.user_id = u.id
		WHERE u.id = $1`, id)
}

// GetByUsername returns a user by exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+`
		FROM users u LEFT JOIN user_profiles p ON p.user_id = u.id
		WHERE u.username = $1`, username)
}

// SetStaff grants or revokes staff access.
func (r *UserRepo) SetStaff(ctx context.Context, username string, staff bool) error {
	return execOne(r.db.Pool.Exec(ctx, `UPDATE users SET is_staff = $2 WHERE username = $1`, username, staff))
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var u domain.User
	err := r.db.Pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.IsStaff, &u.CreatedAt,
		&u.Profile.Phone, &u.Profile.IsServiceProvider,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}
