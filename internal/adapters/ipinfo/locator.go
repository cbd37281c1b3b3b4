// Package ipinfo implements ports.IPLocator on the ipinfo.io JSON API.
package ipinfo

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/samirrijal/nearmeconnect/internal/core/domain"
	"github.com/samirrijal/nearmeconnect/internal/pkg/httpx"
	"github.com/samirrijal/nearmeconnect/internal/pkg/logging"
	"github.com/samirrijal/nearmeconnect/internal/pkg/metrics"
)

type response struct {
	IP  string `json:"ip"`
	Loc string `json:"loc"` // "lat,lng"
}

// Locator resolves IP addresses to approximate coordinates.
type Locator struct {
	http    *httpx.Client
	baseURL string
	token   string
}

// New creates a Locator. token may be empty for the anonymous tier.
func New(baseURL, token string, timeout time.Duration) *Locator {
	return &Locator{
		http:    httpx.New(timeout),
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
	}
}

// Locate looks up ip. Empty, loopback and private addresses cannot be
// located directly, so the server's own public address is used instead.
func (l *Locator) Locate(ctx context.Context, ip string) (_ domain.GeoPoint, err error) {
	defer logging.Time(ctx, "ipinfo.locate")(&err)
	defer metrics.ObserveUpstream("ipinfo", "locate", time.Now(), &err)

	endpoint := l.baseURL + "/json"
	if Public(ip) {
		endpoint = l.baseURL + "/" + ip + "/json"
	}
	var params map[string]string
	if l.token != "" {
		params = map[string]string{"token": l.token}
	}

	var resp response
	if err := l.http.GetJSON(ctx, endpoint, params, &resp); err != nil {
		return domain.GeoPoint{}, fmt.Errorf("%w: ip lookup: %v", domain.ErrUpstream, err)
	}
	return ParseLoc(resp.Loc)
}

// Public reports whether ip is a routable address worth looking up.
func Public(ip string) bool {
	addr := net.ParseIP(ip)
	if addr == nil {
		return false
	}
	return !(addr.IsLoopback() || addr.IsPrivate() || addr.IsUnspecified() ||
		addr.IsLinkLocalUnicast() || addr.IsLinkLocalMulticast())
}

// ParseLoc parses a "lat,lng" pair and checks its range.
func ParseLoc(loc string) (domain.GeoPoint, error) {
	parts := strings.Split(loc, ",")
	if len(parts) != 2 {
		return domain.GeoPoint{}, fmt.Errorf("%w: malformed loc %q", domain.ErrLocationUnavailable, loc)
	}
	lat, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return domain.GeoPoint{}, fmt.Errorf("%w: malformed loc %q", domain.ErrLocationUnavailable, loc)
	}
	p := domain.GeoPoint{Lat: lat, Lng: lng}
	if !p.Valid() {
		return domain.GeoPoint{}, fmt.Errorf("%w: loc out of range %q", domain.ErrLocationUnavailable, loc)
	}
	return p, nil
}
