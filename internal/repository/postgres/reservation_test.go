package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"stayride-backend/internal/domain"
)

func TestReservationRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewReservationRepository(db)
	ctx := context.Background()
	now := time.Now()

	rv := &domain.Reservation{
		Vertical:         domain.VerticalProperty,
		BookingNumber:    "STY-A1B2C3D4",
		RenterID:         7,
		ListingID:        3,
		PeriodStart:      now.Add(48 * time.Hour),
		PeriodEnd:        now.Add(120 * time.Hour),
		TotalPrice:       750.0,
		Status:           domain.ReservationStatusPending,
		VerificationCode: "042137",
	}

	mock.ExpectQuery("INSERT INTO reservations").
		WithArgs(rv.Vertical, rv.BookingNumber, rv.RenterID, rv.ListingID,
			rv.PeriodStart, rv.PeriodEnd, rv.TotalPrice, rv.Status,
			rv.MarkupID, rv.MarkupUserID, rv.VerificationCode,
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	err = repo.Create(ctx, rv)
	assert.NoError(t, err)
	assert.Equal(t, int32(42), rv.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewReservationRepository(db)
	ctx := context.Background()
	now := time.Now()
	cancelled := now.Add(-time.Hour)

	rv := &domain.Reservation{
		ID:             42,
		Vertical:       domain.VerticalCar,
		BookingNumber:  "CAR-Z9Y8X7W6",
		RenterID:       7,
		ListingID:      4,
		PeriodStart:    now.Add(24 * time.Hour),
		PeriodEnd:      now.Add(72 * time.Hour),
		TotalPrice:     240.0,
		Status:         domain.ReservationStatusCancelled,
		CancelledAt:    &cancelled,
		RefundApproval: domain.RefundApprovalNone,
		CreatedOn:      now,
		UpdatedOn:      now,
	}

	mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id = \\$1").
		WithArgs(int32(42)).
		WillReturnRows(reservationRows(rv))

	got, err := repo.GetByID(ctx, 42)
	assert.NoError(t, err)
	assert.Equal(t, "CAR-Z9Y8X7W6", got.BookingNumber)
	assert.Equal(t, domain.VerticalCar, got.Vertical)
	assert.NotNil(t, got.CancelledAt)
	assert.Nil(t, got.CheckedInAt)
}

func TestReservationRepository_BookingNumberExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewReservationRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("STY-A1B2C3D4").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	taken, err := repo.BookingNumberExists(ctx, "STY-A1B2C3D4")
	assert.NoError(t, err)
	assert.True(t, taken)
}

func TestReservationRepository_ExpirePendingOlderThan(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewReservationRepository(db)
	ctx := context.Background()

	mock.ExpectExec("UPDATE reservations SET status").
		WithArgs(domain.ReservationStatusFailed, domain.ReservationStatusPending, int32(24), domain.PaymentStatusCompleted).
		WillReturnResult(sqlmock.NewResult(0, 3))

	expired, err := repo.ExpirePendingOlderThan(ctx, 24)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), expired)
	assert.NoError(t, mock.ExpectationsWereMet())
}
