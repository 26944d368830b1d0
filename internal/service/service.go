package service

import (
	"context"
	"time"

	"stayride-backend/internal/domain"
)

// PayoutBreakdown is the fee split of a reservation's total price.
type PayoutBreakdown struct {
	TotalPrice    float64 `json:"total_price"`
	FeePercent    float64 `json:"fee_percent"`
	PlatformFee   float64 `json:"platform_fee"`
	HostPayout    float64 `json:"host_payout"`
	MarkupProfit  float64 `json:"markup_profit"`
	MaxRefundable float64 `json:"max_refundable"`
}

type RefundService interface {
	MaxRefundable(ctx context.Context, reservationID int32) (float64, error)
	CanProcessRefund(ctx context.Context, reservationID int32) (bool, error)
	// ApproveRefund creates a Refund of amount and records the approval.
	// requestKey deduplicates retries; pass "" to skip deduplication.
	ApproveRefund(ctx context.Context, reservationID int32, amount float64, requestKey string) (*domain.Refund, error)
	RejectRefund(ctx context.Context, reservationID int32, reason string) (*domain.Reservation, error)
}

type ReservationService interface {
	CreateReservation(ctx context.Context, renterID, listingID int32, periodStart, periodEnd time.Time, markupUserID *int32) (*domain.Reservation, error)
	// RecordPayment captures a completed payment for the full reservation
	// price and moves the reservation to PAID.
	RecordPayment(ctx context.Context, renterID, reservationID int32, method, reference string) (*domain.Payment, error)
	CancelReservation(ctx context.Context, renterID, reservationID int32) (*domain.Reservation, error)
	GetReservation(ctx context.Context, renterID, reservationID int32) (*domain.Reservation, error)
	ListReservations(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Reservation, int32, error)
}

type EarningsService interface {
	// MarkupProfit computes what the reservation's markup owner earns, net
	// of the platform fee.
	MarkupProfit(ctx context.Context, reservationID int32) (float64, error)
	PayoutBreakdown(ctx context.Context, reservationID int32) (*PayoutBreakdown, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

type EmailService interface {
	SendBookingConfirmation(ctx context.Context, email, name, bookingNumber, verificationCode string) error
	SendRefundApprovedNotification(ctx context.Context, email, name, bookingNumber string, amount float64) error
	SendRefundRejectedNotification(ctx context.Context, email, name, bookingNumber, reason string) error
	SendCancellationNotification(ctx context.Context, email, name, bookingNumber string, refundable float64) error
	SendAdminNotification(ctx context.Context, adminEmail, subject, message string) error
}
