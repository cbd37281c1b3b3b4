package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("already exists")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrLocationUnavailable = errors.New("location unavailable")
	ErrTooFar              = errors.New("provider is too far from your location")
	ErrUpstream            = errors.New("upstream request failed")
)
