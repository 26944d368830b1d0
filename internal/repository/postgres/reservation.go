package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"stayride-backend/internal/domain"
	"stayride-backend/internal/repository"
)

const reservationColumns = `id, vertical, booking_number, renter_id, listing_id, period_start, period_end, total_price, status, checked_in_at, checked_out_at, cancelled_at, refund_approval, non_refund_reason, markup_id, markup_user_id, verification_code, created_on, updated_on`

type reservationRepository struct {
	db *sql.DB
}

func NewReservationRepository(db *sql.DB) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) Create(ctx context.Context, rv *domain.Reservation) error {
	query := `INSERT INTO reservations (vertical, booking_number, renter_id, listing_id, period_start, period_end, total_price, status, markup_id, markup_user_id, verification_code, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		rv.Vertical, rv.BookingNumber, rv.RenterID, rv.ListingID,
		rv.PeriodStart, rv.PeriodEnd, rv.TotalPrice, rv.Status,
		rv.MarkupID, rv.MarkupUserID, rv.VerificationCode, now, now,
	).Scan(&rv.ID)
}

func (r *reservationRepository) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	return scanReservation(r.db.QueryRowContext(ctx, query, id))
}

func (r *reservationRepository) GetByBookingNumber(ctx context.Context, number string) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE booking_number = $1`
	return scanReservation(r.db.QueryRowContext(ctx, query, number))
}

func (r *reservationRepository) BookingNumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM reservations WHERE booking_number = $1)`
	err := r.db.QueryRowContext(ctx, query, number).Scan(&exists)
	return exists, err
}

func (r *reservationRepository) Update(ctx context.Context, rv *domain.Reservation) error {
	query := `UPDATE reservations SET status=$1, checked_in_at=$2, checked_out_at=$3, cancelled_at=$4, refund_approval=$5, non_refund_reason=$6, updated_on=$7 WHERE id=$8`
	_, err := r.db.ExecContext(ctx, query,
		rv.Status, rv.CheckedInAt, rv.CheckedOutAt, rv.CancelledAt,
		rv.RefundApproval, rv.NonRefundReason, time.Now(), rv.ID)
	return err
}

func (r *reservationRepository) ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Reservation, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE renter_id = $1`

	args := []interface{}{renterID}
	argIdx := 2
	if status != "" {
		query += " AND status = $2"
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		rv, err := scanReservation(rows)
		if err != nil {
			return nil, 0, err
		}
		reservations = append(reservations, *rv)
	}
	return reservations, count, rows.Err()
}

func (r *reservationRepository) ListRefundPending(ctx context.Context) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE status = $1 AND refund_approval = ''`
	rows, err := r.db.QueryContext(ctx, query, domain.ReservationStatusCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		rv, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, *rv)
	}
	return reservations, rows.Err()
}

func (r *reservationRepository) ListPaidWithMarkup(ctx context.Context) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE status = $1 AND markup_user_id IS NOT NULL
	            AND updated_on >= NOW() - INTERVAL '1 day'`
	rows, err := r.db.QueryContext(ctx, query, domain.ReservationStatusPaid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		rv, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, *rv)
	}
	return reservations, rows.Err()
}

func (r *reservationRepository) ExpirePendingOlderThan(ctx context.Context, hours int32) (int64, error) {
	query := `UPDATE reservations SET status = $1, updated_on = NOW()
	          WHERE status = $2
	            AND created_on < NOW() - make_interval(hours => $3)
	            AND NOT EXISTS (
	                SELECT 1 FROM payments p
	                WHERE p.reservation_id = reservations.id AND p.status = $4
	            )`
	res, err := r.db.ExecContext(ctx, query,
		domain.ReservationStatusFailed, domain.ReservationStatusPending,
		hours, domain.PaymentStatusCompleted)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	rv := &domain.Reservation{}
	err := row.Scan(
		&rv.ID, &rv.Vertical, &rv.BookingNumber, &rv.RenterID, &rv.ListingID,
		&rv.PeriodStart, &rv.PeriodEnd, &rv.TotalPrice, &rv.Status,
		&rv.CheckedInAt, &rv.CheckedOutAt, &rv.CancelledAt,
		&rv.RefundApproval, &rv.NonRefundReason,
		&rv.MarkupID, &rv.MarkupUserID, &rv.VerificationCode,
		&rv.CreatedOn, &rv.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}
	return rv, nil
}
