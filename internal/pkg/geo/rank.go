package geo

import (
	"sort"

	"github.com/samirrijal/nearmeconnect/internal/core/domain"
)

// Between is PlanarDistance for two points.
func Between(a, b domain.GeoPoint) float64 {
	return PlanarDistance(a.Lat, a.Lng, b.Lat, b.Lng)
}

// RankByDistance sorts results ascending by DistanceKm. Ties keep input order.
func RankByDistance(results []domain.DiscoveryResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].DistanceKm < results[j].DistanceKm
	})
}
