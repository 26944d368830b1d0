package pricing

import (
	"errors"
	"fmt"
	"math"
	"time"

	"stayride-backend/internal/domain"
)

var (
	// ErrInvalidAmount is returned when a refund approval asks for an amount
	// outside (0, maxRefundable].
	ErrInvalidAmount = errors.New("refund amount outside refundable range")
	// ErrMissingReason is returned when a rejection carries no reason.
	ErrMissingReason = errors.New("rejection reason is required")
	// ErrInconsistentState is returned when a reservation's lifecycle fields
	// contradict each other, e.g. checked out without ever checking in.
	ErrInconsistentState = errors.New("reservation lifecycle fields are inconsistent")
)

// ReservationState is the refund-relevant lifecycle state, derived once from
// the raw timestamp fields so eligibility can be matched exhaustively.
type ReservationState int

const (
	StateNotStarted ReservationState = iota
	StateActive
	StateCancelledPreStart
	StateCancelledPostStart
	StateCompleted
)

func (s ReservationState) String() string {
	switch s {
	case StateNotStarted:
		return "NOT_STARTED"
	case StateActive:
		return "ACTIVE"
	case StateCancelledPreStart:
		return "CANCELLED_PRE_START"
	case StateCancelledPostStart:
		return "CANCELLED_POST_START"
	case StateCompleted:
		return "COMPLETED"
	}
	return fmt.Sprintf("ReservationState(%d)", int(s))
}

// ClassifyState derives the refund lifecycle state of a reservation.
func ClassifyState(r *domain.Reservation) (ReservationState, error) {
	if r.CheckedOutAt != nil {
		if r.CheckedInAt == nil {
			return StateCompleted, ErrInconsistentState
		}
		return StateCompleted, nil
	}
	cancelled := r.Status == domain.ReservationStatusCancelled
	if cancelled && r.CancelledAt == nil {
		return StateCancelledPreStart, ErrInconsistentState
	}
	if r.CheckedInAt == nil {
		if cancelled {
			return StateCancelledPreStart, nil
		}
		return StateNotStarted, nil
	}
	if cancelled {
		return StateCancelledPostStart, nil
	}
	return StateActive, nil
}

// RefundCalculator computes the maximum refundable amount of a reservation
// at the moment of inquiry. It is stateless; the clock is injected so live
// eligibility checks (no cancelled_at yet) are testable.
type RefundCalculator struct {
	now func() time.Time
}

func NewRefundCalculator(now func() time.Time) *RefundCalculator {
	if now == nil {
		now = time.Now
	}
	return &RefundCalculator{now: now}
}

// MaxRefundable returns the policy-bounded upper limit a refund approval may
// grant, net of prior partial refunds. Payment may be nil when no payment
// record exists.
func (c *RefundCalculator) MaxRefundable(r *domain.Reservation, payment *domain.Payment, refunds []domain.Refund) (float64, error) {
	state, err := ClassifyState(r)
	if err != nil {
		return 0, err
	}

	if state == StateCompleted {
		return 0, nil
	}
	if payment == nil || payment.Status != domain.PaymentStatusCompleted {
		return 0, nil
	}

	remaining := payment.Amount - refundedTotal(refunds)
	if remaining <= 0 {
		return 0, nil
	}

	switch state {
	case StateNotStarted, StateCancelledPreStart:
		ref := c.now()
		if r.CancelledAt != nil {
			ref = *r.CancelledAt
		}
		if PolicyFor(r.Vertical).Forfeits(ref, r.PeriodStart) {
			return 0, nil
		}
		return Round2(remaining), nil

	case StateCancelledPostStart:
		return proRataRefund(r, remaining), nil

	case StateActive:
		// Checked in but not cancelled: remaining is the upper bound, the
		// approval workflow applies further judgement.
		return Round2(remaining), nil
	}
	return Round2(remaining), nil
}

// proRataRefund computes the unused-portion refund after check-in. Units are
// nights for property stays and hours for car rentals; once half or more of
// the period is consumed nothing is refundable.
func proRataRefund(r *domain.Reservation, remaining float64) float64 {
	unit := 24 * time.Hour
	if r.Vertical == domain.VerticalCar {
		unit = time.Hour
	}

	totalUnits := float64(r.PeriodEnd.Sub(r.PeriodStart)) / float64(unit)
	consumedUnits := float64(r.CancelledAt.Sub(r.PeriodStart)) / float64(unit)
	if totalUnits <= 0 {
		return 0
	}
	if consumedUnits < 0 {
		consumedUnits = 0
	}
	if consumedUnits >= math.Ceil(totalUnits/2) {
		return 0
	}
	return Round2(remaining * (totalUnits - consumedUnits) / totalUnits)
}

// CanProcessRefund reports whether a refund approval may proceed: the
// reservation is cancelled, no decision was recorded yet, and something is
// refundable.
func (c *RefundCalculator) CanProcessRefund(r *domain.Reservation, payment *domain.Payment, refunds []domain.Refund) (bool, error) {
	if r.Status != domain.ReservationStatusCancelled {
		return false, nil
	}
	if r.RefundApproval != domain.RefundApprovalNone {
		return false, nil
	}
	max, err := c.MaxRefundable(r, payment, refunds)
	if err != nil {
		return false, err
	}
	return max > 0, nil
}

// ValidateApproval checks that amount is within (0, maxRefundable].
func (c *RefundCalculator) ValidateApproval(r *domain.Reservation, payment *domain.Payment, refunds []domain.Refund, amount float64) error {
	max, err := c.MaxRefundable(r, payment, refunds)
	if err != nil {
		return err
	}
	if amount <= 0 || amount > max {
		return fmt.Errorf("%w: must be between 0.01 and %.2f", ErrInvalidAmount, max)
	}
	return nil
}

// ValidateRejection checks that a rejection carries a non-blank reason.
func ValidateRejection(reason string) error {
	if isBlank(reason) {
		return ErrMissingReason
	}
	return nil
}

func refundedTotal(refunds []domain.Refund) float64 {
	var sum float64
	for _, rf := range refunds {
		sum += rf.Amount
	}
	return sum
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
