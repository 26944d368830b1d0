package domain

// PlatformFeeConfig is the singleton marketplace fee setting. A nil
// Percentage means the row is absent and callers fall back to the default.
type PlatformFeeConfig struct {
	ID         int32    `json:"id"`
	Percentage *float64 `json:"percentage,omitempty"`
}
