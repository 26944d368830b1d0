package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// Payment is the single active payment record of a reservation. Gateway
// integration lives outside this service; only the settled amount and
// status matter here.
type Payment struct {
	ID            int32         `json:"id"`
	ReservationID int32         `json:"reservation_id"`
	Amount        float64       `json:"amount"`
	Status        PaymentStatus `json:"status"`
	Method        string        `json:"method"`
	Reference     string        `json:"reference"`
	CreatedOn     time.Time     `json:"created_on"`
}

type Refund struct {
	ID            int32     `json:"id"`
	ReservationID int32     `json:"reservation_id"`
	Amount        float64   `json:"amount"`
	Reference     string    `json:"reference"`
	CreatedOn     time.Time `json:"created_on"`
}
