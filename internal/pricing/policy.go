package pricing

import (
	"time"

	"stayride-backend/internal/domain"
)

// CancellationPolicy decides whether a pre-check-in cancellation forfeits
// the refund, given when the cancellation happened relative to the booked
// period start.
//
// The two verticals deliberately apply different rules: property stays use
// a directional 24-hour window (a no-show after the start still refunds in
// full), car rentals use a 2-hour window on either side of the start. Do
// not unify them without a product decision.
type CancellationPolicy interface {
	Forfeits(cancelledAt, periodStart time.Time) bool
}

type propertyCancellationPolicy struct {
	window time.Duration
}

func (p propertyCancellationPolicy) Forfeits(cancelledAt, periodStart time.Time) bool {
	if cancelledAt.After(periodStart) {
		// Guest never showed up past the start: full refund.
		return false
	}
	return periodStart.Sub(cancelledAt) <= p.window
}

type carCancellationPolicy struct {
	window time.Duration
}

func (c carCancellationPolicy) Forfeits(cancelledAt, periodStart time.Time) bool {
	d := periodStart.Sub(cancelledAt)
	if d < 0 {
		d = -d
	}
	return d <= c.window
}

var (
	propertyPolicy CancellationPolicy = propertyCancellationPolicy{window: 24 * time.Hour}
	carPolicy      CancellationPolicy = carCancellationPolicy{window: 2 * time.Hour}
)

// PolicyFor returns the cancellation policy of a vertical. Unknown verticals
// get the property policy, the stricter of the two windows.
func PolicyFor(vertical domain.Vertical) CancellationPolicy {
	if vertical == domain.VerticalCar {
		return carPolicy
	}
	return propertyPolicy
}
