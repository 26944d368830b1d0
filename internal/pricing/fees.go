package pricing

import "math"

// DefaultPlatformFeePercent is used when no platform fee configuration row
// exists.
const DefaultPlatformFeePercent = 10.0

// Round2 rounds a monetary amount to 2 decimal places.
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// PlatformFee returns the marketplace's cut of amount at the given
// percentage, rounded to 2 decimals. Inputs are assumed non-negative.
func PlatformFee(amount, feePercent float64) float64 {
	return Round2(amount * feePercent / 100)
}

// HostPayout returns what remains for the resource owner after the platform
// fee is taken.
func HostPayout(amount, feePercent float64) float64 {
	return Round2(amount - PlatformFee(amount, feePercent))
}

// FeePercentage resolves the effective platform fee percentage: the
// configured value wins, even when zero; otherwise the fallback applies.
func FeePercentage(configured *float64, fallback float64) float64 {
	if configured == nil {
		return fallback
	}
	return *configured
}
