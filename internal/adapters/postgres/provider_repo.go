package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/nearmeconnect/internal/core/domain"
	"github.com/samirrijal/nearmeconnect/internal/core/ports"
)

const providerSelect = `
	SELECT p.id, p.user_id, p.category_id, p.bio, p.phone, p.address,
	       p.latitude, p.longitude, p.profile_image, p.rating, p.created_at,
	       u.username, u.email, u.first_name, u.last_name, u.is_staff, u.created_at,
	       COALESCE(up.phone, ''), COALESCE(up.is_service_provider, FALSE),
	       c.name`

const providerFrom = `
	FROM providers p
	JOIN users u ON u.id = p.user_id
	LEFT JOIN user_profiles up ON up.user_id = u.id
	JOIN categories c ON c.id = p.category_id`

// ProviderRepo implements ports.ProviderRepository with pgx.
type ProviderRepo struct {
	db *DB
}

// NewProviderRepo creates a new ProviderRepo.
func NewProviderRepo(db *DB) *ProviderRepo {
	return &ProviderRepo{db: db}
}

// List returns providers, optionally restricted to a category name.
func (r *ProviderRepo) List(ctx context.Context, f ports.ProviderFilter) ([]domain.Provider, error) {
	rows, err := r.db.Pool.Query(ctx, providerSelect+providerFrom+`
		WHERE ($1 = '' OR lower(c.name) = lower($1))
		ORDER BY p.id
	`, f.Category)
	if err != nil {
		return nil, err
	}
	return collectProviders(rows, false)
}

func (r *ProviderRepo) GetByID(ctx context.Context, id int64) (*domain.Provider, error) {
	return r.getOne(ctx, providerSelect+providerFrom+` WHERE p.id = $1`, id)
}

func (r *ProviderRepo) GetByUserID(ctx context.Context, userID int64) (*domain.Provider, error) {
	return r.getOne(ctx, providerSelect+providerFrom+` WHERE p.user_id = $1`, userID)
}

func (r *ProviderRepo) Create(ctx context.Context, p *domain.Provider) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO providers (user_id, category_id, bio, phone, address, latitude, longitude, profile_image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, rating, created_at
	`, p.UserID, p.CategoryID, p.Bio, p.Phone, p.Address,
		p.Location.Lat, p.Location.Lng, p.ProfileImage,
	).Scan(&p.ID, &p.Rating, &p.CreatedAt)
	return mapErr(err)
}

func (r *ProviderRepo) Update(ctx context.Context, p *domain.Provider) error {
	return execOne(r.db.Pool.Exec(ctx, `
		UPDATE providers
		SET category_id = $2, bio = $3, phone = $4, address = $5,
		    latitude = $6, longitude = $7, profile_image = $8
		WHERE id = $1
	`, p.ID, p.CategoryID, p.Bio, p.Phone, p.Address,
		p.Location.Lat, p.Location.Lng, p.ProfileImage))
}

func (r *ProviderRepo) Delete(ctx context.Context, id int64) error {
	return execOne(r.db.Pool.Exec(ctx, `DELETE FROM providers WHERE id = $1`, id))
}

func (r *ProviderRepo) UpdateLocation(ctx context.Context, id int64, loc domain.GeoPoint) error {
	return execOne(r.db.Pool.Exec(ctx,
		`UPDATE providers SET latitude = $2, longitude = $3 WHERE id = $1`, id, loc.Lat, loc.Lng))
}

// RefreshRating sets rating to the mean of the provider's reviews, 0 when none.
func (r *ProviderRepo) RefreshRating(ctx context.Context, id int64) error {
	return execOne(r.db.Pool.Exec(ctx, `
		UPDATE providers
		SET rating = COALESCE((SELECT avg(rating)::float8 FROM reviews WHERE provider_id = $1), 0)
		WHERE id = $1
	`, id))
}

// NearestInCategory orders by planar distance in degrees, matching the
// approximation used for request range checks.
func (r *ProviderRepo) NearestInCategory(ctx context.Context, category string, origin domain.GeoPoint, limit int) ([]domain.Provider, error) {
	rows, err := r.db.Pool.Query(ctx, providerSelect+`,
	       sqrt(power(p.latitude - $2, 2) + power(p.longitude - $3, 2)) AS distance
	`+providerFrom+`
		WHERE lower(c.name) = lower($1)
		ORDER BY distance, p.id
		LIMIT $4
	`, category, origin.Lat, origin.Lng, limit)
	if err != nil {
		return nil, err
	}
	return collectProviders(rows, true)
}

func (r *ProviderRepo) getOne(ctx context.Context, query string, arg any) (*domain.Provider, error) {
	rows, err := r.db.Pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	ps, err := collectProviders(rows, false)
	if err != nil {
		return nil, err
	}
	if len(ps) == 0 {
		return nil, domain.ErrNotFound
	}
	return &ps[0], nil
}

func collectProviders(rows pgx.Rows, withDistance bool) ([]domain.Provider, error) {
	defer rows.Close()

	var out []domain.Provider
	for rows.Next() {
		var (
			p = domain.Provider{User: &domain.User{}, Category: &domain.Category{}}
			d float64
		)
		dest := []any{
			&p.ID, &p.UserID, &p.CategoryID, &p.Bio, &p.Phone, &p.Address,
			&p.Location.Lat, &p.Location.Lng, &p.ProfileImage, &p.Rating, &p.CreatedAt,
			&p.User.Username, &p.User.Email, &p.User.FirstName, &p.User.LastName, &p.User.IsStaff, &p.User.CreatedAt,
			&p.User.Profile.Phone, &p.User.Profile.IsServiceProvider,
			&p.Category.Name,
		}
		if withDistance {
			dest = append(dest, &d)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		p.User.ID = p.UserID
		p.Category.ID = p.CategoryID
		if withDistance {
			dist := d
			p.Distance = &dist
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
