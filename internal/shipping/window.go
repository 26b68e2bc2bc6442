package shipping

import "marketplace-geo/internal/domain"

// DeliveryWindowFor buckets a distance into a delivery window.
// It does not depend on which rule priced the shipment.
func DeliveryWindowFor(distanceKm float64) domain.DeliveryWindow {
	switch {
	case distanceKm <= 5:
		return domain.DeliverySameDay
	case distanceKm <= 15:
		return domain.DeliveryNextDay
	case distanceKm <= 30:
		return domain.DeliveryTwoDays
	default:
		return domain.DeliveryExtended
	}
}
