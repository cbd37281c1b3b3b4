package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samirrijal/nearmeconnect/internal/core/domain"
	"github.com/samirrijal/nearmeconnect/internal/core/ports"
	"github.com/samirrijal/nearmeconnect/internal/pkg/auth"
)

// RegisterInput is the data needed to create an account.
type RegisterInput struct {
	Username          string
	Email             string
	Password          string
	FirstName         string
	LastName          string
	Phone             string
	IsServiceProvider bool
}

// AuthService handles registration, login and token refresh.
type AuthService struct {
	users  ports.UserRepository
	tokens ports.TokenIssuer
}

// NewAuthService creates a new AuthService.
func NewAuthService(users ports.UserRepository, tokens ports.TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register creates a user with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        strings.TrimSpace(in.Email),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
		Profile: domain.UserProfile{
			Phone:             in.Phone,
			IsServiceProvider: in.IsServiceProvider,
		},
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a token pair.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.TokenPair, error) {
	user, err := s.authenticate(ctx, username, password)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return s.tokens.IssuePair(principalOf(user))
}

// AdminLogin is Login restricted to staff accounts.
func (s *AuthService) AdminLogin(ctx context.Context, username, password string) (domain.TokenPair, *domain.User, error) {
	user, err := s.authenticate(ctx, username, password)
	if err != nil {
		return domain.TokenPair{}, nil, err
	}
	if !user.IsStaff {
		return domain.TokenPair{}, nil, domain.ErrInvalidCredentials
	}
	pair, err := s.tokens.IssuePair(principalOf(user))
	if err != nil {
		return domain.TokenPair{}, nil, err
	}
	return pair, user, nil
}

// Refresh exchanges a refresh token for a new access token. The refresh
// token itself is returned unchanged.
func (s *AuthService) Refresh(ctx context.Context, refresh string) (domain.TokenPair, error) {
	if refresh == "" {
		return domain.TokenPair{}, fmt.Errorf("%w: refresh token is required", domain.ErrInvalidInput)
	}
	p, err := s.tokens.ParseRefresh(refresh)
	if err != nil {
		return domain.TokenPair{}, domain.ErrInvalidToken
	}

	// Reload so that flag changes since login are reflected in the new token.
	user, err := s.users.GetByID(ctx, p.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.TokenPair{}, domain.ErrInvalidToken
	}
	if err != nil {
		return domain.TokenPair{}, err
	}

	pair, err := s.tokens.IssuePair(principalOf(user))
	if err != nil {
		return domain.TokenPair{}, err
	}
	pair.Refresh = refresh
	return pair, nil
}

func (s *AuthService) authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func principalOf(u *domain.User) domain.Principal {
	return domain.Principal{
		UserID:            u.ID,
		Username:          u.Username,
		IsStaff:           u.IsStaff,
		IsServiceProvider: u.Profile.IsServiceProvider,
	}
}
