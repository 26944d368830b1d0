package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"stayride-backend/internal/domain"
	"stayride-backend/internal/events"
	"stayride-backend/internal/repository"
)

// MockReservationRepo
type MockReservationRepo struct {
	mock.Mock
}

func (m *MockReservationRepo) Create(ctx context.Context, r *domain.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockReservationRepo) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) GetByBookingNumber(ctx context.Context, number string) (*domain.Reservation, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) BookingNumberExists(ctx context.Context, number string) (bool, error) {
	args := m.Called(ctx, number)
	return args.Bool(0), args.Error(1)
}
func (m *MockReservationRepo) Update(ctx context.Context, r *domain.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockReservationRepo) ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Reservation, int32, error) {
	args := m.Called(ctx, renterID, status, page, pageSize)
	return args.Get(0).([]domain.Reservation), args.Get(1).(int32), args.Error(2)
}
func (m *MockReservationRepo) ListRefundPending(ctx context.Context) ([]domain.Reservation, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) ListPaidWithMarkup(ctx context.Context) ([]domain.Reservation, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) ExpirePendingOlderThan(ctx context.Context, hours int32) (int64, error) {
	args := m.Called(ctx, hours)
	return args.Get(0).(int64), args.Error(1)
}

// MockPaymentRepo
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockPaymentRepo) GetActiveByReservation(ctx context.Context, reservationID int32) (*domain.Payment, error) {
	args := m.Called(ctx, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

// MockRefundRepo
type MockRefundRepo struct {
	mock.Mock
	// state handed to the revalidate callback during Approve
	LockedReservation *domain.Reservation
	LockedPayment     *domain.Payment
	LockedRefunds     []domain.Refund
}

func (m *MockRefundRepo) ListByReservation(ctx context.Context, reservationID int32) ([]domain.Refund, error) {
	args := m.Called(ctx, reservationID)
	return args.Get(0).([]domain.Refund), args.Error(1)
}
func (m *MockRefundRepo) Approve(ctx context.Context, reservationID int32, refund *domain.Refund, revalidate repository.RefundRevalidate) error {
	args := m.Called(ctx, reservationID, refund)
	if err := args.Error(0); err != nil {
		return err
	}
	if revalidate != nil {
		if err := revalidate(m.LockedReservation, m.LockedPayment, m.LockedRefunds); err != nil {
			return err
		}
	}
	return nil
}
func (m *MockRefundRepo) Reject(ctx context.Context, reservationID int32, reason string) error {
	args := m.Called(ctx, reservationID, reason)
	return args.Error(0)
}

// MockMarkupRepo
type MockMarkupRepo struct {
	mock.Mock
}

func (m *MockMarkupRepo) GetByID(ctx context.Context, id int32) (*domain.Markup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Markup), args.Error(1)
}
func (m *MockMarkupRepo) GetActiveByTarget(ctx context.Context, targetID int32, targetType domain.Vertical) (*domain.Markup, error) {
	args := m.Called(ctx, targetID, targetType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Markup), args.Error(1)
}

// MockListingRepo
type MockListingRepo struct {
	mock.Mock
}

func (m *MockListingRepo) GetByID(ctx context.Context, id int32) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

// MockPlatformConfigRepo
type MockPlatformConfigRepo struct {
	mock.Mock
}

func (m *MockPlatformConfigRepo) GetFeePercentage(ctx context.Context) (*float64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*float64), args.Error(1)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) ListAdmins(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendBookingConfirmation(ctx context.Context, email, name, bookingNumber, verificationCode string) error {
	args := m.Called(ctx, email, name, bookingNumber, verificationCode)
	return args.Error(0)
}
func (m *MockEmailService) SendRefundApprovedNotification(ctx context.Context, email, name, bookingNumber string, amount float64) error {
	args := m.Called(ctx, email, name, bookingNumber, amount)
	return args.Error(0)
}
func (m *MockEmailService) SendRefundRejectedNotification(ctx context.Context, email, name, bookingNumber, reason string) error {
	args := m.Called(ctx, email, name, bookingNumber, reason)
	return args.Error(0)
}
func (m *MockEmailService) SendCancellationNotification(ctx context.Context, email, name, bookingNumber string, refundable float64) error {
	args := m.Called(ctx, email, name, bookingNumber, refundable)
	return args.Error(0)
}
func (m *MockEmailService) SendAdminNotification(ctx context.Context, adminEmail, subject, message string) error {
	args := m.Called(ctx, adminEmail, subject, message)
	return args.Error(0)
}

// MockPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}
func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
