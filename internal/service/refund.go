package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"stayride-backend/internal/domain"
	"stayride-backend/internal/events"
	"stayride-backend/internal/idempotency"
	"stayride-backend/internal/logger"
	"stayride-backend/internal/pricing"
	"stayride-backend/internal/repository"
)

// ErrNotRefundable is returned when a refund decision is requested for a
// reservation that is not cancelled or already has a decision recorded.
var ErrNotRefundable = errors.New("reservation is not eligible for a refund decision")

type refundService struct {
	reservationRepo repository.ReservationRepository
	paymentRepo     repository.PaymentRepository
	refundRepo      repository.RefundRepository
	userRepo        repository.UserRepository
	noteRepo        repository.NotificationRepository
	emailSvc        EmailService
	publisher       events.Publisher
	requests        *idempotency.Store
	calc            *pricing.RefundCalculator
}

func NewRefundService(
	reservationRepo repository.ReservationRepository,
	paymentRepo repository.PaymentRepository,
	refundRepo repository.RefundRepository,
	userRepo repository.UserRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
	publisher events.Publisher,
	requests *idempotency.Store,
	calc *pricing.RefundCalculator,
) RefundService {
	return &refundService{
		reservationRepo: reservationRepo,
		paymentRepo:     paymentRepo,
		refundRepo:      refundRepo,
		userRepo:        userRepo,
		noteRepo:        noteRepo,
		emailSvc:        emailSvc,
		publisher:       publisher,
		requests:        requests,
		calc:            calc,
	}
}

func (s *refundService) MaxRefundable(ctx context.Context, reservationID int32) (float64, error) {
	rv, payment, refunds, err := s.loadRefundContext(ctx, reservationID)
	if err != nil {
		return 0, err
	}
	return s.calc.MaxRefundable(rv, payment, refunds)
}

func (s *refundService) CanProcessRefund(ctx context.Context, reservationID int32) (bool, error) {
	rv, payment, refunds, err := s.loadRefundContext(ctx, reservationID)
	if err != nil {
		return false, err
	}
	return s.calc.CanProcessRefund(rv, payment, refunds)
}

func (s *refundService) ApproveRefund(ctx context.Context, reservationID int32, amount float64, requestKey string) (*domain.Refund, error) {
	if s.requests != nil {
		if err := s.requests.Consume(requestKey); err != nil {
			return nil, err
		}
	}

	rv, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if rv.Status != domain.ReservationStatusCancelled || rv.RefundApproval != domain.RefundApprovalNone {
		return nil, ErrNotRefundable
	}

	refund := &domain.Refund{
		Amount:    amount,
		Reference: uuid.New().String(),
	}

	// The amount is validated again inside the approval transaction, on the
	// locked row's refund sum, so two racing approvals cannot both pass.
	err = s.refundRepo.Approve(ctx, reservationID, refund, func(locked *domain.Reservation, payment *domain.Payment, refunds []domain.Refund) error {
		if locked.Status != domain.ReservationStatusCancelled || locked.RefundApproval != domain.RefundApprovalNone {
			return ErrNotRefundable
		}
		return s.calc.ValidateApproval(locked, payment, refunds, amount)
	})
	if err != nil {
		return nil, err
	}

	s.notifyDecision(ctx, rv, events.Event{
		Type:          events.TypeRefundApproved,
		ReservationID: rv.ID,
		UserID:        rv.RenterID,
		Amount:        amount,
		Reference:     refund.Reference,
	}, func(renter *domain.User) error {
		return s.emailSvc.SendRefundApprovedNotification(ctx, renter.Email, renter.Name, rv.BookingNumber, amount)
	}, "Refund Approved", fmt.Sprintf("A refund of %.2f for booking %s was approved", amount, rv.BookingNumber))

	return refund, nil
}

func (s *refundService) RejectRefund(ctx context.Context, reservationID int32, reason string) (*domain.Reservation, error) {
	if err := pricing.ValidateRejection(reason); err != nil {
		return nil, err
	}

	rv, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if rv.Status != domain.ReservationStatusCancelled || rv.RefundApproval != domain.RefundApprovalNone {
		return nil, ErrNotRefundable
	}

	if err := s.refundRepo.Reject(ctx, reservationID, reason); err != nil {
		return nil, err
	}
	rv.RefundApproval = domain.RefundApprovalRejected
	rv.NonRefundReason = reason

	s.notifyDecision(ctx, rv, events.Event{
		Type:          events.TypeRefundRejected,
		ReservationID: rv.ID,
		UserID:        rv.RenterID,
	}, func(renter *domain.User) error {
		return s.emailSvc.SendRefundRejectedNotification(ctx, renter.Email, renter.Name, rv.BookingNumber, reason)
	}, "Refund Rejected", fmt.Sprintf("Your refund request for booking %s was rejected: %s", rv.BookingNumber, reason))

	return rv, nil
}

// notifyDecision fans a refund decision out to email, the in-app feed and
// the event stream. Dispatch failures are logged, never propagated: the
// decision itself is already durable.
func (s *refundService) notifyDecision(ctx context.Context, rv *domain.Reservation, event events.Event, sendEmail func(*domain.User) error, title, message string) {
	if err := s.publisher.Publish(event); err != nil {
		logger.Error("Failed to publish refund event", "type", event.Type, "reservation_id", rv.ID, "error", err)
	}

	renter, err := s.userRepo.GetByID(ctx, rv.RenterID)
	if err != nil {
		logger.Error("Failed to load renter for refund notification", "renter_id", rv.RenterID, "error", err)
		return
	}

	if err := sendEmail(renter); err != nil {
		logger.Error("Failed to send refund email", "reservation_id", rv.ID, "email", renter.Email, "error", err)
	}

	note := &domain.Notification{
		UserID:  renter.ID,
		Title:   title,
		Message: message,
		Attributes: map[string]string{
			"type":           event.Type,
			"reservation_id": fmt.Sprintf("%d", rv.ID),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Error("Failed to create refund notification", "reservation_id", rv.ID, "error", err)
	}
}

func (s *refundService) loadRefundContext(ctx context.Context, reservationID int32) (*domain.Reservation, *domain.Payment, []domain.Refund, error) {
	rv, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, nil, nil, err
	}
	payment, err := s.paymentRepo.GetActiveByReservation(ctx, reservationID)
	if err != nil {
		return nil, nil, nil, err
	}
	refunds, err := s.refundRepo.ListByReservation(ctx, reservationID)
	if err != nil {
		return nil, nil, nil, err
	}
	return rv, payment, refunds, nil
}
