package geo

import (
	"math"

	"marketplace-geo/internal/domain"
)

// NearbyBranches returns the branches within radiusKm of center, annotated with
// their distance. The boundary is inclusive and the result is unordered.
// A non-positive radius yields an empty result.
func NearbyBranches(center domain.Coordinate, radiusKm float64, branches []domain.Branch) []domain.BranchDistance {
	if radiusKm <= 0 {
		return []domain.BranchDistance{}
	}

	nearby := make([]domain.BranchDistance, 0, len(branches))
	for _, b := range branches {
		d := Distance(center, b.Location)
		if d <= radiusKm {
			nearby = append(nearby, domain.BranchDistance{Branch: b, DistanceKm: d})
		}
	}

	return nearby
}

// Bounds is a latitude/longitude box
type Bounds struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// BoundsAround returns a box that fully encloses the circle of radiusKm around center.
// It is only a coarse pre-filter for storage queries; NearbyBranches does the exact check.
func BoundsAround(center domain.Coordinate, radiusKm float64) Bounds {
	if radiusKm < 0 {
		radiusKm = 0
	}

	latDelta := radiusKm / EarthRadiusKm * 180 / math.Pi

	b := Bounds{
		MinLat: math.Max(-90, center.Lat-latDelta),
		MaxLat: math.Min(90, center.Lat+latDelta),
		MinLng: -180,
		MaxLng: 180,
	}

	// near the poles or for huge radii the longitude span covers everything
	cosLat := math.Cos(toRadians(math.Max(math.Abs(b.MinLat), math.Abs(b.MaxLat))))
	if cosLat <= 1e-9 {
		return b
	}

	lngDelta := latDelta / cosLat
	if lngDelta >= 180 {
		return b
	}

	b.MinLng = center.Lng - lngDelta
	b.MaxLng = center.Lng + lngDelta
	if b.MinLng < -180 || b.MaxLng > 180 {
		// crosses the antimeridian; fall back to the full longitude range
		b.MinLng, b.MaxLng = -180, 180
	}

	return b
}

// Contains reports whether c lies inside the box
func (b Bounds) Contains(c domain.Coordinate) bool {
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat && c.Lng >= b.MinLng && c.Lng <= b.MaxLng
}
