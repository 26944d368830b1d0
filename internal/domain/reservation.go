package domain

import "time"

// Vertical identifies which marketplace vertical a reservation belongs to.
// Property stays are billed per night, car rentals per day.
type Vertical string

const (
	VerticalProperty Vertical = "PROPERTY"
	VerticalCar      Vertical = "CAR"
)

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusPaid      ReservationStatus = "PAID"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
	ReservationStatusFailed    ReservationStatus = "FAILED"
)

type RefundApproval string

const (
	RefundApprovalNone     RefundApproval = ""
	RefundApprovalApproved RefundApproval = "APPROVED"
	RefundApprovalRejected RefundApproval = "REJECTED"
)

type Reservation struct {
	ID               int32             `json:"id"`
	Vertical         Vertical          `json:"vertical"`
	BookingNumber    string            `json:"booking_number"`
	RenterID         int32             `json:"renter_id"`
	ListingID        int32             `json:"listing_id"`
	PeriodStart      time.Time         `json:"period_start"`
	PeriodEnd        time.Time         `json:"period_end"`
	TotalPrice       float64           `json:"total_price"`
	Status           ReservationStatus `json:"status"`
	CheckedInAt      *time.Time        `json:"checked_in_at,omitempty"`
	CheckedOutAt     *time.Time        `json:"checked_out_at,omitempty"`
	CancelledAt      *time.Time        `json:"cancelled_at,omitempty"`
	RefundApproval   RefundApproval    `json:"refund_approval,omitempty"`
	NonRefundReason  string            `json:"non_refund_reason,omitempty"`
	MarkupID         *int32            `json:"markup_id,omitempty"`
	MarkupUserID     *int32            `json:"markup_user_id,omitempty"`
	VerificationCode string            `json:"verification_code,omitempty"`
	CreatedOn        time.Time         `json:"created_on"`
	UpdatedOn        time.Time         `json:"updated_on"`
}
