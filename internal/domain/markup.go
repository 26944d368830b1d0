package domain

import "time"

// Markup is a price layer a referring user adds on top of a listing's base
// price. When both a fixed amount and a percentage are present, the fixed
// amount is authoritative.
type Markup struct {
	ID             int32     `json:"id"`
	OwnerUserID    int32     `json:"owner_user_id"`
	TargetID       int32     `json:"target_id"`
	TargetType     Vertical  `json:"target_type"`
	Percentage     *float64  `json:"percentage,omitempty"`
	FixedAmount    *float64  `json:"fixed_amount,omitempty"`
	OriginalAmount float64   `json:"original_amount"`
	IsActive       bool      `json:"is_active"`
	CreatedOn      time.Time `json:"created_on"`
}
