package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	handler "github.com/samirrijal/nearmeconnect/internal/adapters/http"
	"github.com/samirrijal/nearmeconnect/internal/core/domain"
	"github.com/samirrijal/nearmeconnect/internal/core/usecases"
	"github.com/samirrijal/nearmeconnect/internal/pkg/auth"
)

var kathmandu = domain.GeoPoint{Lat: 27.7172, Lng: 85.3240}

// ---- Test helpers ----

type testEnv struct {
	users     *mockUserRepo
	providers *mockProviderRepo
	requests  *mockRequestRepo
	places    *mockPlaces
	locator   fixedLocator
	issuer    *auth.Issuer
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	issuer, err := auth.NewIssuer("test-secret", time.Hour, 24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return &testEnv{
		users:     &mockUserRepo{users: map[string]*domain.User{}},
		providers: &mockProviderRepo{},
		requests:  &mockRequestRepo{},
		places:    &mockPlaces{},
		locator:   fixedLocator{point: kathmandu},
		issuer:    issuer,
	}
}

func (e *testEnv) deps() *handler.Dependencies {
	categories := &mockCategoryRepo{}
	locations := usecases.NewLocationService(e.locator, e.locator, nil)
	categorySvc := usecases.NewCategoryService(categories, nil)
	return &handler.Dependencies{
		Auth:       usecases.NewAuthService(e.users, e.issuer),
		Categories: categorySvc,
		Providers:  usecases.NewProviderService(e.providers, categories, locations),
		Requests:   usecases.NewRequestService(e.requests, e.providers, locations, nil),
		Reviews:    usecases.NewReviewService(&mockReviewRepo{}, e.providers, nil),
		Discovery:  usecases.NewDiscoveryService(categorySvc, e.providers, e.places, locations, nil),
		Tokens:     e.issuer,
	}
}

func (e *testEnv) app() *fiber.App {
	return setupApp(e.deps())
}

func (e *testEnv) token(t *testing.T, p domain.Principal) string {
	t.Helper()
	pair, err := e.issuer.IssuePair(p)
	if err != nil {
		t.Fatal(err)
	}
	return pair.Access
}

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return app
}

func readBody(t *testing.T, body io.Reader) []byte {
	t.Helper()
	b, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return b
}

func jsonRequest(method, target, body, token string) *nethttp.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func decodeError(t *testing.T, body io.Reader) handler.APIError {
	t.Helper()
	var e handler.APIError
	if err := json.Unmarshal(readBody(t, body), &e); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return e
}

// ---- Health handler tests ----

func TestHealth_Returns200(t *testing.T) {
	app := newEnv(t).app()

	req := httptest.NewRequest("GET", "/v1/health", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if result["status"] != "healthy" {
		t.Errorf("expected healthy status, got %v", result["status"])
	}
}

func TestReady_NoDB(t *testing.T) {
	// DB, NATS, Cache are nil → should report not ready
	app := newEnv(t).app()

	req := httptest.NewRequest("GET", "/v1/ready", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 503 {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
}

func TestAPIVersionHeader(t *testing.T) {
	app := newEnv(t).app()

	req := httptest.NewRequest("GET", "/v1/health", nil)
	resp, _ := app.Test(req, -1)
	if v := resp.Header.Get("X-API-Version"); v != "1.0.0" {
		t.Errorf("expected X-API-Version 1.0.0, got %q", v)
	}
}

// ---- Auth handler tests ----

func TestRegister_Success(t *testing.T) {
	env := newEnv(t)
	app := env.app()

	body := `{"username":"sita","password":"s3cretpass","email":"sita@example.com","profile":{"phone":"9800000000","is_service_provider":true}}`
	resp, _ := app.Test(jsonRequest("POST", "/v1/auth/register", body, ""), -1)
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, readBody(t, resp.Body))
	}

	var result map[string]string
	json.NewDecoder(resp.Body).Decode(&result)
	if result["message"] != "User created successfully" {
		t.Errorf("unexpected message %q", result["message"])
	}
	u := env.users.users["sita"]
	if u == nil || !u.Profile.IsServiceProvider {
		t.Fatalf("expected stored provider user, got %+v", u)
	}
	if u.PasswordHash == "s3cretpass" {
		t.Error("password stored in clear")
	}
}

func TestRegister_ValidationFailed(t *testing.T) {
	app := newEnv(t).app()

	resp, _ := app.Test(jsonRequest("POST", "/v1/auth/register", `{"username":"sita","password":"short"}`, ""), -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	e := decodeError(t, resp.Body)
	if e.Code != "validation_failed" {
		t.Errorf("expected validation_failed, got %q", e.Code)
	}
	if len(e.Details) != 1 || e.Details[0].Field != "password" {
		t.Errorf("expected a single password detail, got %+v", e.Details)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	env := newEnv(t)
	env.users.users["sita"] = &domain.User{ID: 1, Username: "sita"}
	app := env.app()

	resp, _ := app.Test(jsonRequest("POST", "/v1/auth/register", `{"username":"sita","password":"s3cretpass"}`, ""), -1)
	if resp.StatusCode != 409 {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestLogin_Success(t *testing.T) {
	env := newEnv(t)
	hash, _ := auth.HashPassword("s3cretpass")
	env.users.users["ram"] = &domain.User{ID: 7, Username: "ram", PasswordHash: hash}
	app := env.app()

	resp, _ := app.Test(jsonRequest("POST", "/v1/auth/login", `{"username":"ram","password":"s3cretpass"}`, ""), -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var pair domain.TokenPair
	json.NewDecoder(resp.Body).Decode(&pair)
	claims, err := env.issuer.ParseAccess(pair.Access)
	if err != nil {
		t.Fatalf("access token invalid: %v", err)
	}
	if claims.UserID != 7 || claims.Username != "ram" {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	app := newEnv(t).app()

	resp, _ := app.Test(jsonRequest("POST", "/v1/auth/login", `{"username":"ghost","password":"whatever1"}`, ""), -1)
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if e := decodeError(t, resp.Body); e.Message != "No active account found with the given credentials" {
		t.Errorf("unexpected message %q", e.Message)
	}
}

func TestRefresh_MissingToken(t *testing.T) {
	app := newEnv(t).app()

	resp, _ := app.Test(jsonRequest("POST", "/v1/auth/token/refresh", `{}`, ""), -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if e := decodeError(t, resp.Body); e.Message != "Refresh token is required" {
		t.Errorf("unexpected message %q", e.Message)
	}
}

func TestRefresh_AccessTokenRejected(t *testing.T) {
	env := newEnv(t)
	app := env.app()
	access := env.token(t, domain.Principal{UserID: 1, Username: "ram"})

	resp, _ := app.Test(jsonRequest("POST", "/v1/auth/token/refresh", fmt.Sprintf(`{"refresh":%q}`, access), ""), -1)
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestAdminLogin_NonStaff(t *testing.T) {
	env := newEnv(t)
	hash, _ := auth.HashPassword("s3cretpass")
	env.users.users["ram"] = &domain.User{ID: 7, Username: "ram", PasswordHash: hash}
	app := env.app()

	resp, _ := app.Test(jsonRequest("POST", "/v1/auth/admin/login", `{"username":"ram","password":"s3cretpass"}`, ""), -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if e := decodeError(t, resp.Body); e.Message != "Invalid admin credentials" {
		t.Errorf("unexpected message %q", e.Message)
	}
}

func TestAdminLogin_Staff(t *testing.T) {
	env := newEnv(t)
	hash, _ := auth.HashPassword("s3cretpass")
	env.users.users["admin"] = &domain.User{ID: 1, Username: "admin", PasswordHash: hash, IsStaff: true}
	app := env.app()

	resp, _ := app.Test(jsonRequest("POST", "/v1/auth/admin/login", `{"username":"admin","password":"s3cretpass"}`, ""), -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var result map[string]any
	json.NewDecoder(resp.Body).Decode(&result)
	if result["is_admin"] != true || result["username"] != "admin" || result["access"] == "" {
		t.Errorf("unexpected body %+v", result)
	}
}

// ---- Category handler tests ----

func TestListCategories_RequiresAuth(t *testing.T) {
	app := newEnv(t).app()

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/categories", nil), -1)
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestListCategories_LinkHeader(t *testing.T) {
	env := newEnv(t)
	app := env.app()
	token := env.token(t, domain.Principal{UserID: 1})

	resp, _ := app.Test(jsonRequest("GET", "/v1/categories?offset=0&limit=1", "", token), -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data       []domain.Category `json:"data"`
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if result.Pagination.Total != 2 || len(result.Data) != 1 {
		t.Errorf("expected 1 of 2 categories, got %d of %d", len(result.Data), result.Pagination.Total)
	}

	link := resp.Header.Get("Link")
	if !strings.Contains(link, `rel="next"`) || !strings.Contains(link, `rel="last"`) {
		t.Errorf("expected next and last links, got %s", link)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "private, no-cache" {
		t.Errorf("expected private cache control, got %q", cc)
	}
}

func TestCreateCategory_StaffOnly(t *testing.T) {
	env := newEnv(t)
	app := env.app()

	resp, _ := app.Test(jsonRequest("POST", "/v1/categories", `{"name":"Tailor"}`, env.token(t, domain.Principal{UserID: 2})), -1)
	if resp.StatusCode != 403 {
		t.Fatalf("expected 403 for non-staff, got %d", resp.StatusCode)
	}

	resp, _ = app.Test(jsonRequest("POST", "/v1/categories", `{"name":"Tailor"}`, env.token(t, domain.Principal{UserID: 1, IsStaff: true})), -1)
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201 for staff, got %d", resp.StatusCode)
	}
}

// ---- Provider handler tests ----

func TestGetProvider_NotFound(t *testing.T) {
	env := newEnv(t)
	app := env.app()

	resp, _ := app.Test(jsonRequest("GET", "/v1/providers/99", "", env.token(t, domain.Principal{UserID: 1})), -1)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if e := decodeError(t, resp.Body); e.Message != "Provider not found" {
		t.Errorf("unexpected message %q", e.Message)
	}
}

func TestCreateProvider_CustomerForbidden(t *testing.T) {
	env := newEnv(t)
	app := env.app()

	body := `{"category_id":1,"address":"Thamel, Kathmandu"}`
	resp, _ := app.Test(jsonRequest("POST", "/v1/providers", body, env.token(t, domain.Principal{UserID: 3})), -1)
	if resp.StatusCode != 403 {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestUpdateLocation(t *testing.T) {
	tests := []struct {
		name       string
		isProvider bool
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"not a provider", false, `{"latitude":27.7,"longitude":85.3}`, 403, "Only service providers can update location"},
		{"not a provider, bad format", false, `{"latitude":"abc","longitude":85.3}`, 403, "Only service providers can update location"},
		{"bad format", true, `{"latitude":"abc","longitude":85.3}`, 400, "Invalid coordinate format"},
		{"missing", true, `{}`, 400, "Invalid coordinate format"},
		{"out of range", true, `{"latitude":91,"longitude":85.3}`, 400, "Invalid coordinates - out of valid range"},
		{"numeric strings", true, `{"latitude":"27.7","longitude":"85.3"}`, 200, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t)
			if tt.isProvider {
				env.providers.getByUserIDFn = func(ctx context.Context, userID int64) (*domain.Provider, error) {
					return &domain.Provider{ID: 4, UserID: userID}, nil
				}
			}
			app := env.app()

			resp, _ := app.Test(jsonRequest("POST", "/v1/update-location", tt.body, env.token(t, domain.Principal{UserID: 5})), -1)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, resp.StatusCode)
			}
			if tt.wantMsg != "" {
				if e := decodeError(t, resp.Body); e.Message != tt.wantMsg {
					t.Errorf("expected %q, got %q", tt.wantMsg, e.Message)
				}
				return
			}

			var result struct {
				Message  string          `json:"message"`
				Location domain.GeoPoint `json:"location"`
			}
			json.NewDecoder(resp.Body).Decode(&result)
			if result.Message != "Location updated successfully" || result.Location.Lat != 27.7 {
				t.Errorf("unexpected body %+v", result)
			}
			if env.providers.moved == nil || env.providers.moved.Lng != 85.3 {
				t.Errorf("location not stored: %+v", env.providers.moved)
			}
		})
	}
}

// ---- Request handler tests ----

func TestRequestProvider_TooFar(t *testing.T) {
	env := newEnv(t)
	env.providers.getByIDFn = func(ctx context.Context, id int64) (*domain.Provider, error) {
		// Pokhara, ~1.5 degrees west of Kathmandu.
		return &domain.Provider{ID: id, UserID: 9, Location: domain.GeoPoint{Lat: 28.2096, Lng: 83.9856}}, nil
	}
	app := env.app()

	resp, _ := app.Test(jsonRequest("POST", "/v1/providers/4/request", `{"message":"leaking tap"}`, env.token(t, domain.Principal{UserID: 3})), -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if e := decodeError(t, resp.Body); e.Message != "Provider is too far from your location" {
		t.Errorf("unexpected message %q", e.Message)
	}
	if len(env.requests.created) != 0 {
		t.Error("request must not be stored")
	}
}

func TestRequestProvider_Nearby(t *testing.T) {
	env := newEnv(t)
	env.providers.getByIDFn = func(ctx context.Context, id int64) (*domain.Provider, error) {
		return &domain.Provider{ID: id, UserID: 9, Location: domain.GeoPoint{Lat: 27.72, Lng: 85.33}}, nil
	}
	app := env.app()

	resp, _ := app.Test(jsonRequest("POST", "/v1/providers/4/request", `{"message":"leaking tap"}`, env.token(t, domain.Principal{UserID: 3})), -1)
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, readBody(t, resp.Body))
	}
	if len(env.requests.created) != 1 || env.requests.created[0].CustomerID != 3 {
		t.Fatalf("unexpected stored requests %+v", env.requests.created)
	}
}

func TestRequestProvider_LocationUnavailable(t *testing.T) {
	env := newEnv(t)
	env.locator = fixedLocator{err: domain.ErrLocationUnavailable}
	env.providers.getByIDFn = func(ctx context.Context, id int64) (*domain.Provider, error) {
		return &domain.Provider{ID: id, Location: kathmandu}, nil
	}
	app := env.app()

	resp, _ := app.Test(jsonRequest("POST", "/v1/providers/4/request", `{"message":"hi"}`, env.token(t, domain.Principal{UserID: 3})), -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if e := decodeError(t, resp.Body); e.Message != "Could not determine your location" {
		t.Errorf("unexpected message %q", e.Message)
	}
}

// ---- Discovery handler tests ----

func TestDiscover_Validation(t *testing.T) {
	tests := []struct {
		query   string
		wantMsg string
	}{
		{"", "Service type is required"},
		{"?service=astrologer", "Invalid service type. Valid options: electrician, plumber"},
		{"?service=plumber&radius=0", "Radius must be a positive number (max 50000)"},
		{"?service=plumber&radius=50001", "Radius must be a positive number (max 50000)"},
		{"?service=plumber&radius=abc", "Radius must be a positive number (max 50000)"},
	}

	app := newEnv(t).app()
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, _ := app.Test(httptest.NewRequest("GET", "/v1/discover"+tt.query, nil), -1)
			if resp.StatusCode != 400 {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
			if e := decodeError(t, resp.Body); e.Message != tt.wantMsg {
				t.Errorf("expected %q, got %q", tt.wantMsg, e.Message)
			}
		})
	}
}

func TestDiscover_LocationFailure(t *testing.T) {
	env := newEnv(t)
	env.locator = fixedLocator{err: domain.ErrLocationUnavailable}
	app := env.app()

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/discover?service=Plumber&address=nowhere", nil), -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if e := decodeError(t, resp.Body); e.Message != "Could not determine valid location." {
		t.Errorf("unexpected message %q", e.Message)
	}
}

func TestDiscover_UpstreamFailure(t *testing.T) {
	env := newEnv(t)
	env.places.nearbyFn = func(ctx context.Context, origin domain.GeoPoint, serviceType string, radius int) ([]domain.Place, error) {
		return nil, fmt.Errorf("%w: boom", domain.ErrUpstream)
	}
	app := env.app()

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/discover?service=plumber", nil), -1)
	if resp.StatusCode != 502 {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
}

func TestDiscover_MergesAndRanks(t *testing.T) {
	env := newEnv(t)
	near := 0.01
	env.providers.nearestFn = func(ctx context.Context, category string, origin domain.GeoPoint, limit int) ([]domain.Provider, error) {
		if limit != 10 {
			t.Errorf("expected local cap 10, got %d", limit)
		}
		return []domain.Provider{{
			ID:       4,
			User:     &domain.User{Username: "hari", FirstName: "Hari", LastName: "Thapa"},
			Location: domain.GeoPoint{Lat: kathmandu.Lat + near, Lng: kathmandu.Lng},
			Distance: &near,
		}}, nil
	}
	env.places.nearbyFn = func(ctx context.Context, origin domain.GeoPoint, serviceType string, radius int) ([]domain.Place, error) {
		if serviceType != "plumber" || radius != 2000 {
			t.Errorf("unexpected search %q/%d", serviceType, radius)
		}
		return []domain.Place{{PlaceID: "abc", Name: "Pipe Co", Location: domain.GeoPoint{Lat: kathmandu.Lat + 0.001, Lng: kathmandu.Lng}}}, nil
	}
	app := env.app()

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/discover?service=Plumber&radius=2000", nil), -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, readBody(t, resp.Body))
	}

	var d domain.Discovery
	if err := json.NewDecoder(resp.Body).Decode(&d); err != nil {
		t.Fatal(err)
	}
	if d.ServiceType != "Plumber" || d.Radius != 2000 {
		t.Errorf("unexpected header fields %+v", d)
	}
	if len(d.LocalProviders) != 1 || d.LocalProviders[0].Name != "Hari Thapa (NearMeConnect)" {
		t.Fatalf("unexpected local providers %+v", d.LocalProviders)
	}
	if d.LocalProviders[0].DistanceKm != 1.11 {
		t.Errorf("expected 1.11 km, got %v", d.LocalProviders[0].DistanceKm)
	}
	if len(d.Results) != 2 || d.Results[0].Source != "google" || d.Results[1].Source != "local" {
		t.Errorf("expected google result first, got %+v", d.Results)
	}
}

// ---- Place details tests ----

func TestPlaceDetails_Local(t *testing.T) {
	env := newEnv(t)
	env.providers.getByIDFn = func(ctx context.Context, id int64) (*domain.Provider, error) {
		return &domain.Provider{ID: id, Address: "Thamel"}, nil
	}
	app := env.app()

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/places/12", nil), -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var result struct {
		IsLocal bool            `json:"is_local"`
		Result  domain.Provider `json:"result"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if !result.IsLocal || result.Result.ID != 12 {
		t.Errorf("unexpected body %+v", result)
	}
}

func TestPlaceDetails_ExternalNotFound(t *testing.T) {
	env := newEnv(t)
	app := env.app()

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/places/ChIJxyz", nil), -1)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if e := decodeError(t, resp.Body); e.Message != "Place not found" {
		t.Errorf("unexpected message %q", e.Message)
	}
}

// ---- Legacy routes ----

func TestLegacyRoutes_Deprecated(t *testing.T) {
	app := newEnv(t).app()

	resp, _ := app.Test(httptest.NewRequest("GET", "/api/discover/?service=", nil), -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected the legacy route to reach the handler, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Deprecation") != "true" {
		t.Error("expected Deprecation header")
	}
	if resp.Header.Get("Sunset") == "" {
		t.Error("expected Sunset header")
	}
	if link := resp.Header.Get("Link"); link != `</v1/discover>; rel="successor-version"` {
		t.Errorf("unexpected Link %q", link)
	}
}

func TestLegacyRoutes_RequestProvider(t *testing.T) {
	env := newEnv(t)
	env.providers.getByIDFn = func(ctx context.Context, id int64) (*domain.Provider, error) {
		return &domain.Provider{ID: id, UserID: 50, Location: domain.GeoPoint{Lat: 27.72, Lng: 85.33}}, nil
	}
	app := env.app()

	req := jsonRequest("POST", "/api/providers/7/request/", `{"message":"fix the geyser"}`, env.token(t, domain.Principal{UserID: 20}))
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, readBody(t, resp.Body))
	}
	if resp.Header.Get("Deprecation") != "true" {
		t.Error("expected Deprecation header")
	}
	if link := resp.Header.Get("Link"); link != `</v1/providers/7/request>; rel="successor-version"` {
		t.Errorf("unexpected Link %q", link)
	}
	if len(env.requests.created) != 1 || env.requests.created[0].ProviderID != 7 {
		t.Errorf("expected one request to provider 7, got %+v", env.requests.created)
	}
}

// ---- Middleware ----

func TestETag_NotModified(t *testing.T) {
	app := newEnv(t).app()

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/places/ChIJxyz", nil), -1)
	if resp.Header.Get("ETag") != "" {
		t.Error("error responses must not carry an ETag")
	}

	app = fiber.New()
	app.Use(handler.ETagMiddleware())
	app.Get("/x", func(c *fiber.Ctx) error { return c.SendString("hello") })

	resp, _ = app.Test(httptest.NewRequest("GET", "/x", nil), -1)
	etag := resp.Header.Get("ETag")
	if etag == "" {
		t.Fatal("expected ETag")
	}
	req := httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("If-None-Match", `"other", `+etag)
	resp, _ = app.Test(req, -1)
	if resp.StatusCode != 304 {
		t.Errorf("expected 304, got %d", resp.StatusCode)
	}
}

// TestAccessLogMiddleware verifies structured access logging is emitted.
func TestAccessLogMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(handler.AccessLogMiddleware())
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Request-ID", "test-req-123")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "ok") {
		t.Errorf("expected response body to contain 'ok', got %s", string(body))
	}
}
