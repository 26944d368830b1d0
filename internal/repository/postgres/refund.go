package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"stayride-backend/internal/domain"
	"stayride-backend/internal/repository"
)

type refundRepository struct {
	db *sql.DB
}

func NewRefundRepository(db *sql.DB) repository.RefundRepository {
	return &refundRepository{db: db}
}

func (r *refundRepository) ListByReservation(ctx context.Context, reservationID int32) ([]domain.Refund, error) {
	query := `SELECT id, reservation_id, amount, reference, created_on
	          FROM refunds WHERE reservation_id = $1 ORDER BY created_on`
	rows, err := r.db.QueryContext(ctx, query, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refunds []domain.Refund
	for rows.Next() {
		var rf domain.Refund
		if err := rows.Scan(&rf.ID, &rf.ReservationID, &rf.Amount, &rf.Reference, &rf.CreatedOn); err != nil {
			return nil, err
		}
		refunds = append(refunds, rf)
	}
	return refunds, rows.Err()
}

// Approve performs the refund approval as one transaction: the reservation
// row is locked, payment and prior refunds are re-read from the locked
// snapshot, revalidate re-checks the amount against them, and only then is
// the Refund inserted and refund_approval flipped. A concurrent approval
// blocks on the row lock and revalidates against the reduced remainder.
func (r *refundRepository) Approve(ctx context.Context, reservationID int32, refund *domain.Refund, revalidate repository.RefundRevalidate) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin refund transaction: %w", err)
	}
	defer tx.Rollback()

	rv, err := lockReservation(ctx, tx, reservationID)
	if err != nil {
		return err
	}

	payment, err := getPaymentTx(ctx, tx, reservationID)
	if err != nil {
		return err
	}

	refunds, err := listRefundsTx(ctx, tx, reservationID)
	if err != nil {
		return err
	}

	if err := revalidate(rv, payment, refunds); err != nil {
		return err
	}

	insert := `INSERT INTO refunds (reservation_id, amount, reference, created_on)
	           VALUES ($1, $2, $3, $4) RETURNING id`
	refund.ReservationID = reservationID
	refund.CreatedOn = time.Now()
	if err := tx.QueryRowContext(ctx, insert, reservationID, refund.Amount, refund.Reference, refund.CreatedOn).Scan(&refund.ID); err != nil {
		return fmt.Errorf("failed to insert refund: %w", err)
	}

	update := `UPDATE reservations SET refund_approval = $1, updated_on = $2 WHERE id = $3`
	if _, err := tx.ExecContext(ctx, update, domain.RefundApprovalApproved, time.Now(), reservationID); err != nil {
		return fmt.Errorf("failed to record refund approval: %w", err)
	}

	return tx.Commit()
}

func (r *refundRepository) Reject(ctx context.Context, reservationID int32, reason string) error {
	query := `UPDATE reservations SET refund_approval = $1, non_refund_reason = $2, updated_on = $3 WHERE id = $4`
	res, err := r.db.ExecContext(ctx, query, domain.RefundApprovalRejected, reason, time.Now(), reservationID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func lockReservation(ctx context.Context, tx *sql.Tx, id int32) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1 FOR UPDATE`
	rv, err := scanReservation(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to lock reservation %d: %w", id, err)
	}
	return rv, nil
}

func getPaymentTx(ctx context.Context, tx *sql.Tx, reservationID int32) (*domain.Payment, error) {
	p := &domain.Payment{}
	query := `SELECT id, reservation_id, amount, status, method, reference, created_on
	          FROM payments WHERE reservation_id = $1 ORDER BY created_on DESC LIMIT 1`
	err := tx.QueryRowContext(ctx, query, reservationID).Scan(
		&p.ID, &p.ReservationID, &p.Amount, &p.Status, &p.Method, &p.Reference, &p.CreatedOn)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func listRefundsTx(ctx context.Context, tx *sql.Tx, reservationID int32) ([]domain.Refund, error) {
	query := `SELECT id, reservation_id, amount, reference, created_on
	          FROM refunds WHERE reservation_id = $1 ORDER BY created_on`
	rows, err := tx.QueryContext(ctx, query, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refunds []domain.Refund
	for rows.Next() {
		var rf domain.Refund
		if err := rows.Scan(&rf.ID, &rf.ReservationID, &rf.Amount, &rf.Reference, &rf.CreatedOn); err != nil {
			return nil, err
		}
		refunds = append(refunds, rf)
	}
	return refunds, rows.Err()
}
