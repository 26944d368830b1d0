package postgres

import (
	"context"
	"database/sql"
	"time"

	"stayride-backend/internal/domain"
	"stayride-backend/internal/repository"
)

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	query := `INSERT INTO payments (reservation_id, amount, status, method, reference, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		p.ReservationID, p.Amount, p.Status, p.Method, p.Reference, time.Now(),
	).Scan(&p.ID)
}

// GetActiveByReservation returns the reservation's single active payment, or
// nil when none exists.
func (r *paymentRepository) GetActiveByReservation(ctx context.Context, reservationID int32) (*domain.Payment, error) {
	p := &domain.Payment{}
	query := `SELECT id, reservation_id, amount, status, method, reference, created_on
	          FROM payments WHERE reservation_id = $1 ORDER BY created_on DESC LIMIT 1`
	err := r.db.QueryRowContext(ctx, query, reservationID).Scan(
		&p.ID, &p.ReservationID, &p.Amount, &p.Status, &p.Method, &p.Reference, &p.CreatedOn)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
