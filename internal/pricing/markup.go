package pricing

import (
	"math"

	"stayride-backend/internal/domain"
)

// FinalAmount applies a markup on top of its original amount. A fixed
// amount takes precedence over a percentage when both are present.
func FinalAmount(m *domain.Markup) float64 {
	if m.FixedAmount != nil {
		return Round2(m.OriginalAmount + *m.FixedAmount)
	}
	if m.Percentage != nil {
		return Round2(m.OriginalAmount * (1 + *m.Percentage/100))
	}
	return m.OriginalAmount
}

// RoundToHundred rounds an amount to the nearest hundred.
func RoundToHundred(amount float64) float64 {
	return math.Round(amount/100) * 100
}

// FloorToHundred rounds an amount down to the previous hundred.
func FloorToHundred(amount float64) float64 {
	return math.Floor(amount/100) * 100
}

// MarkupProfit computes the profit a markup-owning user earns from a
// reservation, net of the platform fee.
//
// Two paths exist. With an active Markup record the profit is the markup
// delta minus the platform fee on that delta. Without one but with a markup
// user attached (the ad-hoc path), the profit is the total price minus the
// listing's base price rounded to the nearest hundred and multiplied by the
// duration. The ad-hoc property path additionally subtracts the platform
// fee on the total; the car path does not. The asymmetry mirrors current
// billing behavior and is kept behind the two named variants below so a
// product decision can change one without the other.
func MarkupProfit(r *domain.Reservation, markup *domain.Markup, listing *domain.Listing, feePercent float64) float64 {
	if markup != nil && markup.IsActive {
		profit := FinalAmount(markup) - markup.OriginalAmount
		return Round2(profit - PlatformFee(profit, feePercent))
	}
	if r.MarkupUserID != nil && listing != nil {
		if r.Vertical == domain.VerticalCar {
			return adHocCarProfit(r, listing)
		}
		return adHocPropertyProfit(r, listing, feePercent)
	}
	return 0
}

func adHocPropertyProfit(r *domain.Reservation, listing *domain.Listing, feePercent float64) float64 {
	totalBase := RoundToHundred(listing.BaseAmount) * float64(durationUnits(r))
	profit := r.TotalPrice - PlatformFee(r.TotalPrice, feePercent) - totalBase
	if profit < 0 {
		return 0
	}
	return Round2(profit)
}

func adHocCarProfit(r *domain.Reservation, listing *domain.Listing) float64 {
	totalBase := RoundToHundred(listing.BaseAmount) * float64(durationUnits(r))
	profit := r.TotalPrice - totalBase
	if profit < 0 {
		return 0
	}
	return Round2(profit)
}

// durationUnits returns the billable duration: nights for property stays,
// days for car rentals, minimum 1.
func durationUnits(r *domain.Reservation) int {
	units := int(r.PeriodEnd.Sub(r.PeriodStart).Hours() / 24)
	if units < 1 {
		units = 1
	}
	return units
}
