package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stayride-backend/internal/domain"
	"stayride-backend/internal/events"
	"stayride-backend/internal/logger"
	"stayride-backend/internal/pricing"
	"stayride-backend/internal/repository"
)

var (
	ErrInvalidPeriod      = errors.New("period end must be after period start")
	ErrListingUnavailable = errors.New("listing is not available for booking")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotAwaitingPayment = errors.New("reservation is not awaiting payment")
)

type reservationService struct {
	reservationRepo repository.ReservationRepository
	listingRepo     repository.ListingRepository
	markupRepo      repository.MarkupRepository
	paymentRepo     repository.PaymentRepository
	refundRepo      repository.RefundRepository
	userRepo        repository.UserRepository
	noteRepo        repository.NotificationRepository
	emailSvc        EmailService
	publisher       events.Publisher
	propertyPrefix  string
	carPrefix       string
	now             func() time.Time
	calc            *pricing.RefundCalculator
}

func NewReservationService(
	reservationRepo repository.ReservationRepository,
	listingRepo repository.ListingRepository,
	markupRepo repository.MarkupRepository,
	paymentRepo repository.PaymentRepository,
	refundRepo repository.RefundRepository,
	userRepo repository.UserRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
	publisher events.Publisher,
	propertyPrefix, carPrefix string,
	now func() time.Time,
) ReservationService {
	if now == nil {
		now = time.Now
	}
	return &reservationService{
		reservationRepo: reservationRepo,
		listingRepo:     listingRepo,
		markupRepo:      markupRepo,
		paymentRepo:     paymentRepo,
		refundRepo:      refundRepo,
		userRepo:        userRepo,
		noteRepo:        noteRepo,
		emailSvc:        emailSvc,
		publisher:       publisher,
		propertyPrefix:  propertyPrefix,
		carPrefix:       carPrefix,
		now:             now,
		calc:            pricing.NewRefundCalculator(now),
	}
}

func (s *reservationService) CreateReservation(ctx context.Context, renterID, listingID int32, periodStart, periodEnd time.Time, markupUserID *int32) (*domain.Reservation, error) {
	if !periodEnd.After(periodStart) {
		return nil, ErrInvalidPeriod
	}

	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !listing.IsActive {
		return nil, ErrListingUnavailable
	}

	// Price the period: nights for property, days for car, minimum 1 unit.
	// An active markup on the listing replaces the per-unit base price with
	// the marked-up amount.
	units := int32(periodEnd.Sub(periodStart).Hours() / 24)
	if units < 1 {
		units = 1
	}
	perUnit := listing.BaseAmount
	var markupID *int32
	markup, err := s.markupRepo.GetActiveByTarget(ctx, listingID, listing.Vertical)
	if err != nil {
		return nil, err
	}
	if markup != nil {
		perUnit = pricing.FinalAmount(markup)
		markupID = &markup.ID
		if markupUserID == nil {
			markupUserID = &markup.OwnerUserID
		}
	}
	totalPrice := pricing.Round2(perUnit * float64(units))

	prefix := s.propertyPrefix
	if listing.Vertical == domain.VerticalCar {
		prefix = s.carPrefix
	}
	bookingNumber, err := pricing.GenerateBookingNumber(ctx, prefix, s.reservationRepo.BookingNumberExists)
	if err != nil {
		return nil, err
	}
	verificationCode, err := pricing.GenerateVerificationCode()
	if err != nil {
		return nil, err
	}

	rv := &domain.Reservation{
		Vertical:         listing.Vertical,
		BookingNumber:    bookingNumber,
		RenterID:         renterID,
		ListingID:        listingID,
		PeriodStart:      periodStart,
		PeriodEnd:        periodEnd,
		TotalPrice:       totalPrice,
		Status:           domain.ReservationStatusPending,
		MarkupID:         markupID,
		MarkupUserID:     markupUserID,
		VerificationCode: verificationCode,
	}
	if err := s.reservationRepo.Create(ctx, rv); err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(events.Event{
		Type:          events.TypeReservationCreated,
		ReservationID: rv.ID,
		UserID:        renterID,
		Amount:        totalPrice,
		Reference:     bookingNumber,
	}); err != nil {
		logger.Error("Failed to publish reservation event", "reservation_id", rv.ID, "error", err)
	}

	renter, err := s.userRepo.GetByID(ctx, renterID)
	if err != nil {
		logger.Error("Failed to load renter for booking confirmation", "renter_id", renterID, "error", err)
		return rv, nil
	}
	if err := s.emailSvc.SendBookingConfirmation(ctx, renter.Email, renter.Name, bookingNumber, verificationCode); err != nil {
		logger.Error("Failed to send booking confirmation", "reservation_id", rv.ID, "error", err)
	}

	note := &domain.Notification{
		UserID:  renterID,
		Title:   "Booking Created",
		Message: fmt.Sprintf("Your booking %s for %s was created", bookingNumber, listing.Name),
		Attributes: map[string]string{
			"type":           "RESERVATION_CREATED",
			"reservation_id": fmt.Sprintf("%d", rv.ID),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Error("Failed to create booking notification", "reservation_id", rv.ID, "error", err)
	}

	return rv, nil
}

// RecordPayment captures a completed payment for the full reservation price
// and moves the reservation to PAID. Reference is the processor's charge
// identifier.
func (s *reservationService) RecordPayment(ctx context.Context, renterID, reservationID int32, method, reference string) (*domain.Payment, error) {
	rv, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if rv.RenterID != renterID {
		return nil, ErrUnauthorized
	}
	if rv.Status != domain.ReservationStatusPending && rv.Status != domain.ReservationStatusConfirmed {
		return nil, ErrNotAwaitingPayment
	}

	payment := &domain.Payment{
		ReservationID: rv.ID,
		Amount:        rv.TotalPrice,
		Status:        domain.PaymentStatusCompleted,
		Method:        method,
		Reference:     reference,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	rv.Status = domain.ReservationStatusPaid
	if err := s.reservationRepo.Update(ctx, rv); err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(events.Event{
		Type:          events.TypePaymentRecorded,
		ReservationID: rv.ID,
		UserID:        renterID,
		Amount:        payment.Amount,
		Reference:     rv.BookingNumber,
	}); err != nil {
		logger.Error("Failed to publish payment event", "reservation_id", rv.ID, "error", err)
	}

	return payment, nil
}

func (s *reservationService) CancelReservation(ctx context.Context, renterID, reservationID int32) (*domain.Reservation, error) {
	rv, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if rv.RenterID != renterID {
		return nil, ErrUnauthorized
	}
	if rv.Status == domain.ReservationStatusCancelled {
		return rv, nil
	}

	cancelledAt := s.now()
	rv.Status = domain.ReservationStatusCancelled
	rv.CancelledAt = &cancelledAt
	if err := s.reservationRepo.Update(ctx, rv); err != nil {
		return nil, err
	}

	refundable := s.refundableAmount(ctx, rv)

	renter, err := s.userRepo.GetByID(ctx, renterID)
	if err == nil {
		if err := s.emailSvc.SendCancellationNotification(ctx, renter.Email, renter.Name, rv.BookingNumber, refundable); err != nil {
			logger.Error("Failed to send cancellation email", "reservation_id", rv.ID, "error", err)
		}
	}

	return rv, nil
}

// refundableAmount computes what the renter can still get back after the
// cancellation just recorded. Failures degrade to zero; the email then
// simply omits the amount.
func (s *reservationService) refundableAmount(ctx context.Context, rv *domain.Reservation) float64 {
	payment, err := s.paymentRepo.GetActiveByReservation(ctx, rv.ID)
	if err != nil {
		logger.Error("Failed to load payment for cancellation email", "reservation_id", rv.ID, "error", err)
		return 0
	}
	refunds, err := s.refundRepo.ListByReservation(ctx, rv.ID)
	if err != nil {
		logger.Error("Failed to load refunds for cancellation email", "reservation_id", rv.ID, "error", err)
		return 0
	}
	refundable, err := s.calc.MaxRefundable(rv, payment, refunds)
	if err != nil {
		logger.Warn("Could not compute refundable amount", "reservation_id", rv.ID, "error", err)
		return 0
	}
	return refundable
}

func (s *reservationService) GetReservation(ctx context.Context, renterID, reservationID int32) (*domain.Reservation, error) {
	rv, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if rv.RenterID != renterID {
		return nil, ErrUnauthorized
	}
	return rv, nil
}

func (s *reservationService) ListReservations(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Reservation, int32, error) {
	return s.reservationRepo.ListByRenter(ctx, renterID, status, page, pageSize)
}
