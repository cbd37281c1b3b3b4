package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/nearmeconnect/internal/pkg/metrics"
)

const handlerTimeout = 15 * time.Second

// LegacySunset is when the unversioned /api routes go away.
var LegacySunset = time.Date(2027, time.June, 30, 0, 0, 0, 0, time.UTC)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	registerAPI(app.Group("/v1"), deps)

	// Unversioned layout of the first release, trailing slashes included.
	registerAPI(app.Group("/api", LegacyRoutesMiddleware("/api", "/v1", LegacySunset)), deps)

	app.Post("/graphql", RequireAuth(deps.Tokens), GraphQLHandler(deps))

	SetupDocs(app)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", WebSocketAuth(deps), websocket.New(WebSocketHandler(deps)))
}

func registerAPI(r fiber.Router, deps *Dependencies) {
	authn := RequireAuth(deps.Tokens)
	optional := OptionalAuth(deps.Tokens)
	staff := RequireStaff()
	t := func(h fiber.Handler) fiber.Handler {
		return timeout.NewWithContext(h, handlerTimeout)
	}

	r.Post("/auth/register", t(RegisterHandler(deps)))
	r.Post("/auth/login", t(LoginHandler(deps)))
	r.Post("/auth/token/refresh", t(RefreshHandler(deps)))
	r.Post("/auth/admin/login", t(AdminLoginHandler(deps)))

	r.Get("/discover", optional, t(DiscoverHandler(deps)))
	r.Get("/places/:place_id", optional, t(PlaceDetailsHandler(deps)))
	r.Post("/update-location", authn, t(UpdateLocationHandler(deps)))
	r.Post("/providers/:id/request", authn, t(RequestProviderHandler(deps)))

	r.Get("/categories", authn, t(ListCategoriesHandler(deps)))
	r.Post("/categories", authn, staff, t(CreateCategoryHandler(deps)))
	r.Get("/categories/:id", authn, staff, t(GetCategoryHandler(deps)))
	r.Put("/categories/:id", authn, staff, t(UpdateCategoryHandler(deps)))
	r.Patch("/categories/:id", authn, staff, t(UpdateCategoryHandler(deps)))
	r.Delete("/categories/:id", authn, staff, t(DeleteCategoryHandler(deps)))

	r.Get("/providers", authn, t(ListProvidersHandler(deps)))
	r.Post("/providers", authn, t(CreateProviderHandler(deps)))
	r.Get("/providers/:id", authn, t(GetProviderHandler(deps)))
	r.Put("/providers/:id", authn, t(UpdateProviderHandler(deps)))
	r.Patch("/providers/:id", authn, t(UpdateProviderHandler(deps)))
	r.Delete("/providers/:id", authn, t(DeleteProviderHandler(deps)))

	r.Get("/requests", authn, t(ListRequestsHandler(deps)))
	r.Post("/requests", authn, t(CreateRequestHandler(deps)))
	r.Get("/requests/:id", authn, t(GetRequestHandler(deps)))
	r.Put("/requests/:id", authn, t(UpdateRequestHandler(deps)))
	r.Patch("/requests/:id", authn, t(UpdateRequestHandler(deps)))
	r.Delete("/requests/:id", authn, t(DeleteRequestHandler(deps)))

	r.Get("/reviews", authn, t(ListReviewsHandler(deps)))
	r.Post("/reviews", authn, t(CreateReviewHandler(deps)))
	r.Get("/reviews/:id", authn, t(GetReviewHandler(deps)))
	r.Put("/reviews/:id", authn, t(UpdateReviewHandler(deps)))
	r.Patch("/reviews/:id", authn, t(UpdateReviewHandler(deps)))
	r.Delete("/reviews/:id", authn, t(DeleteReviewHandler(deps)))
}
