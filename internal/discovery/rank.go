package discovery

import (
	"cmp"
	"slices"

	"marketplace-geo/internal/domain"
)

// RankByDistance returns a copy of offers sorted by ascending distance.
// Offers without a distance go last. The sort is stable, so ties and the
// distance-less tail keep their input order.
func RankByDistance(offers []domain.Offer) []domain.Offer {
	ranked := slices.Clone(offers)
	if ranked == nil {
		ranked = []domain.Offer{}
	}

	slices.SortStableFunc(ranked, compareDistance)
	return ranked
}

func compareDistance(a, b domain.Offer) int {
	switch {
	case a.HasDistance() && b.HasDistance():
		return cmp.Compare(*a.DistanceKm, *b.DistanceKm)
	case a.HasDistance():
		return -1
	case b.HasDistance():
		return 1
	default:
		return 0
	}
}
