package http

import (
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/nearmeconnect/internal/adapters/postgres"
	"github.com/samirrijal/nearmeconnect/internal/adapters/valkey"
	"github.com/samirrijal/nearmeconnect/internal/core/usecases"
	"github.com/samirrijal/nearmeconnect/internal/pkg/auth"
)

// AccessVerifier checks bearer access tokens.
type AccessVerifier interface {
	ParseAccess(token string) (*auth.Claims, error)
}

// EventFeed delivers raw event payloads published on a subject.
type EventFeed interface {
	Subscribe(subject string, fn func(data []byte)) (func(), error)
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Auth       *usecases.AuthService
	Categories *usecases.CategoryService
	Providers  *usecases.ProviderService
	Requests   *usecases.RequestService
	Reviews    *usecases.ReviewService
	Discovery  *usecases.DiscoveryService
	Tokens     AccessVerifier
	Feed       EventFeed
	NATS       *nats.Conn
	DB         *postgres.DB
	Cache      *valkey.Cache
}
