package repository

import (
	"context"

	"stayride-backend/internal/domain"
)

// RefundRevalidate re-checks refund eligibility against the row state read
// inside the approval transaction, immediately before the Refund row is
// inserted. Returning an error aborts the transaction.
type RefundRevalidate func(reservation *domain.Reservation, payment *domain.Payment, refunds []domain.Refund) error

type ReservationRepository interface {
	Create(ctx context.Context, r *domain.Reservation) error
	GetByID(ctx context.Context, id int32) (*domain.Reservation, error)
	GetByBookingNumber(ctx context.Context, number string) (*domain.Reservation, error)
	BookingNumberExists(ctx context.Context, number string) (bool, error)
	Update(ctx context.Context, r *domain.Reservation) error
	ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Reservation, int32, error)
	ListRefundPending(ctx context.Context) ([]domain.Reservation, error)
	ListPaidWithMarkup(ctx context.Context) ([]domain.Reservation, error)
	ExpirePendingOlderThan(ctx context.Context, hours int32) (int64, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetActiveByReservation(ctx context.Context, reservationID int32) (*domain.Payment, error)
}

type RefundRepository interface {
	ListByReservation(ctx context.Context, reservationID int32) ([]domain.Refund, error)
	// Approve runs the single-row transactional read-modify-write of the
	// refund approval: lock the reservation, reload the payment and the
	// refund list, call revalidate, then insert the Refund and flip
	// refund_approval to approved. Two racing approvals serialize on the
	// row lock; the loser revalidates against the shrunken remainder.
	Approve(ctx context.Context, reservationID int32, refund *domain.Refund, revalidate RefundRevalidate) error
	// Reject records a rejected refund decision together with its reason.
	Reject(ctx context.Context, reservationID int32, reason string) error
}

type MarkupRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Markup, error)
	GetActiveByTarget(ctx context.Context, targetID int32, targetType domain.Vertical) (*domain.Markup, error)
}

type ListingRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Listing, error)
}

type PlatformConfigRepository interface {
	// GetFeePercentage returns the configured platform fee percentage, or
	// nil when no configuration row exists.
	GetFeePercentage(ctx context.Context) (*float64, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	ListAdmins(ctx context.Context) ([]domain.User, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}
