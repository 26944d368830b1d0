package domain

import "time"

// Listing is a bookable resource: a property (priced per night) or a car
// (priced per day).
type Listing struct {
	ID         int32     `json:"id"`
	Vertical   Vertical  `json:"vertical"`
	OwnerID    int32     `json:"owner_id"`
	Name       string    `json:"name"`
	BaseAmount float64   `json:"base_amount"` // price per night or per day
	IsActive   bool      `json:"is_active"`
	CreatedOn  time.Time `json:"created_on"`
}
