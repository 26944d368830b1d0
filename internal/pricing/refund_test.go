package pricing

import (
	"testing"
	"time"

	"stayride-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func fixedNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func timePtr(t time.Time) *time.Time { return &t }

func completedPayment(amount float64) *domain.Payment {
	return &domain.Payment{ID: 1, ReservationID: 1, Amount: amount, Status: domain.PaymentStatusCompleted}
}

func propertyReservation(start, end time.Time) *domain.Reservation {
	return &domain.Reservation{
		ID:          1,
		Vertical:    domain.VerticalProperty,
		PeriodStart: start,
		PeriodEnd:   end,
		Status:      domain.ReservationStatusPaid,
	}
}

func TestClassifyState(t *testing.T) {
	start := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
	end := start.Add(5 * 24 * time.Hour)

	t.Run("Not started", func(t *testing.T) {
		r := propertyReservation(start, end)
		state, err := ClassifyState(r)
		assert.NoError(t, err)
		assert.Equal(t, StateNotStarted, state)
	})

	t.Run("Active after check-in", func(t *testing.T) {
		r := propertyReservation(start, end)
		r.CheckedInAt = timePtr(start)
		state, err := ClassifyState(r)
		assert.NoError(t, err)
		assert.Equal(t, StateActive, state)
	})

	t.Run("Cancelled before check-in", func(t *testing.T) {
		r := propertyReservation(start, end)
		r.Status = domain.ReservationStatusCancelled
		r.CancelledAt = timePtr(start.Add(-48 * time.Hour))
		state, err := ClassifyState(r)
		assert.NoError(t, err)
		assert.Equal(t, StateCancelledPreStart, state)
	})

	t.Run("Cancelled after check-in", func(t *testing.T) {
		r := propertyReservation(start, end)
		r.Status = domain.ReservationStatusCancelled
		r.CheckedInAt = timePtr(start)
		r.CancelledAt = timePtr(start.Add(48 * time.Hour))
		state, err := ClassifyState(r)
		assert.NoError(t, err)
		assert.Equal(t, StateCancelledPostStart, state)
	})

	t.Run("Completed", func(t *testing.T) {
		r := propertyReservation(start, end)
		r.CheckedInAt = timePtr(start)
		r.CheckedOutAt = timePtr(end)
		state, err := ClassifyState(r)
		assert.NoError(t, err)
		assert.Equal(t, StateCompleted, state)
	})

	t.Run("Checked out without check-in is inconsistent", func(t *testing.T) {
		r := propertyReservation(start, end)
		r.CheckedOutAt = timePtr(end)
		_, err := ClassifyState(r)
		assert.ErrorIs(t, err, ErrInconsistentState)
	})

	t.Run("Cancelled status without cancelled_at is inconsistent", func(t *testing.T) {
		r := propertyReservation(start, end)
		r.Status = domain.ReservationStatusCancelled
		_, err := ClassifyState(r)
		assert.ErrorIs(t, err, ErrInconsistentState)
	})
}

func TestMaxRefundable_TerminalZero(t *testing.T) {
	calc := NewRefundCalculator(fixedNow)
	start := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
	end := start.Add(5 * 24 * time.Hour)

	t.Run("Checked out", func(t *testing.T) {
		r := propertyReservation(start, end)
		r.CheckedInAt = timePtr(start)
		r.CheckedOutAt = timePtr(end)
		max, err := calc.MaxRefundable(r, completedPayment(10000), nil)
		assert.NoError(t, err)
		assert.Equal(t, 0.0, max)
	})

	t.Run("No payment", func(t *testing.T) {
		r := propertyReservation(start, end)
		max, err := calc.MaxRefundable(r, nil, nil)
		assert.NoError(t, err)
		assert.Equal(t, 0.0, max)
	})

	t.Run("Payment not completed", func(t *testing.T) {
		r := propertyReservation(start, end)
		p := completedPayment(10000)
		p.Status = domain.PaymentStatusPending
		max, err := calc.MaxRefundable(r, p, nil)
		assert.NoError(t, err)
		assert.Equal(t, 0.0, max)
	})

	t.Run("Fully refunded already", func(t *testing.T) {
		r := propertyReservation(start, end)
		r.Status = domain.ReservationStatusCancelled
		r.CancelledAt = timePtr(start.Add(-72 * time.Hour))
		refunds := []domain.Refund{{Amount: 6000}, {Amount: 4000}}
		max, err := calc.MaxRefundable(r, completedPayment(10000), refunds)
		assert.NoError(t, err)
		assert.Equal(t, 0.0, max)
	})
}

func TestMaxRefundable_PropertyPreCheckIn(t *testing.T) {
	calc := NewRefundCalculator(fixedNow)
	// 5-night stay: day 10 to day 15
	start := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)

	t.Run("Cancelled more than 24h before start refunds in full", func(t *testing.T) {
		r := propertyReservation(start, end)
		r.Status = domain.ReservationStatusCancelled
		r.CancelledAt = timePtr(time.Date(2025, 6, 8, 14, 0, 0, 0, time.UTC))
		max, err := calc.MaxRefundable(r, completedPayment(10000), nil)
		assert.NoError(t, err)
		assert.Equal(t, 10000.0, max)
	})

	t.Run("Cancelled within 24h of start refunds nothing", func(t *testing.T) {
		r := propertyReservation(start, end)
		r.Status = domain.ReservationStatusCancelled
		r.CancelledAt = timePtr(time.Date(2025, 6, 9, 20, 0, 0, 0, time.UTC))
		max, err := calc.MaxRefundable(r, completedPayment(10000), nil)
		assert.NoError(t, err)
		assert.Equal(t, 0.0, max)
	})

	t.Run("No-show cancelled after start refunds in full", func(t *testing.T) {
		r := propertyReservation(start, end)
		r.Status = domain.ReservationStatusCancelled
		r.CancelledAt = timePtr(start.Add(6 * time.Hour))
		max, err := calc.MaxRefundable(r, completedPayment(10000), nil)
		assert.NoError(t, err)
		assert.Equal(t, 10000.0, max)
	})

	t.Run("Live inquiry uses injected clock", func(t *testing.T) {
		// now = June 1, more than 24h before June 10: full remaining.
		r := propertyReservation(start, end)
		max, err := calc.MaxRefundable(r, completedPayment(10000), []domain.Refund{{Amount: 2500}})
		assert.NoError(t, err)
		assert.Equal(t, 7500.0, max)
	})
}

func TestMaxRefundable_CarPreCheckIn(t *testing.T) {
	calc := NewRefundCalculator(fixedNow)
	start := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)

	t.Run("Cancelled 1h before start refunds nothing", func(t *testing.T) {
		r := propertyReservation(start, end)
		r.Vertical = domain.VerticalCar
		r.Status = domain.ReservationStatusCancelled
		r.CancelledAt = timePtr(start.Add(-1 * time.Hour))
		max, err := calc.MaxRefundable(r, completedPayment(8000), nil)
		assert.NoError(t, err)
		assert.Equal(t, 0.0, max)
	})

	t.Run("Cancelled 1h after start refunds nothing", func(t *testing.T) {
		r := propertyReservation(start, end)
		r.Vertical = domain.VerticalCar
		r.Status = domain.ReservationStatusCancelled
		r.CancelledAt = timePtr(start.Add(1 * time.Hour))
		max, err := calc.MaxRefundable(r, completedPayment(8000), nil)
		assert.NoError(t, err)
		assert.Equal(t, 0.0, max)
	})

	t.Run("Cancelled well before start refunds in full", func(t *testing.T) {
		r := propertyReservation(start, end)
		r.Vertical = domain.VerticalCar
		r.Status = domain.ReservationStatusCancelled
		r.CancelledAt = timePtr(start.Add(-26 * time.Hour))
		max, err := calc.MaxRefundable(r, completedPayment(8000), nil)
		assert.NoError(t, err)
		assert.Equal(t, 8000.0, max)
	})
}

func TestMaxRefundable_ProRataAfterCheckIn(t *testing.T) {
	calc := NewRefundCalculator(fixedNow)

	t.Run("Property 2 of 5 nights consumed refunds 60 percent", func(t *testing.T) {
		start := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
		end := time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)
		r := propertyReservation(start, end)
		r.Status = domain.ReservationStatusCancelled
		r.CheckedInAt = timePtr(start)
		r.CancelledAt = timePtr(time.Date(2025, 6, 12, 14, 0, 0, 0, time.UTC))
		max, err := calc.MaxRefundable(r, completedPayment(10000), nil)
		assert.NoError(t, err)
		assert.Equal(t, 6000.0, max) // 10000 * (5-2)/5
	})

	t.Run("Property over half consumed refunds nothing", func(t *testing.T) {
		start := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
		end := time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)
		r := propertyReservation(start, end)
		r.Status = domain.ReservationStatusCancelled
		r.CheckedInAt = timePtr(start)
		// 3 of 5 nights consumed, ceil(5/2)=3
		r.CancelledAt = timePtr(time.Date(2025, 6, 13, 14, 0, 0, 0, time.UTC))
		max, err := calc.MaxRefundable(r, completedPayment(10000), nil)
		assert.NoError(t, err)
		assert.Equal(t, 0.0, max)
	})

	t.Run("Car pro-rata uses hours", func(t *testing.T) {
		start := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
		end := start.Add(10 * time.Hour)
		r := propertyReservation(start, end)
		r.Vertical = domain.VerticalCar
		r.Status = domain.ReservationStatusCancelled
		r.CheckedInAt = timePtr(start)
		// 2 of 10 hours consumed, ceil(10/2)=5, 2 < 5
		r.CancelledAt = timePtr(start.Add(2 * time.Hour))
		max, err := calc.MaxRefundable(r, completedPayment(5000), nil)
		assert.NoError(t, err)
		assert.Equal(t, 4000.0, max) // 5000 * 8/10
	})

	t.Run("Pro-rata bounded by remaining", func(t *testing.T) {
		start := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
		end := time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)
		r := propertyReservation(start, end)
		r.Status = domain.ReservationStatusCancelled
		r.CheckedInAt = timePtr(start)
		r.CancelledAt = timePtr(time.Date(2025, 6, 11, 14, 0, 0, 0, time.UTC))
		refunds := []domain.Refund{{Amount: 4000}}
		max, err := calc.MaxRefundable(r, completedPayment(10000), refunds)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, max, 0.0)
		assert.LessOrEqual(t, max, 6000.0)
		assert.Equal(t, 4800.0, max) // 6000 * 4/5
	})
}

func TestMaxRefundable_Monotonicity(t *testing.T) {
	// Non-increasing as the refunded total grows.
	calc := NewRefundCalculator(fixedNow)
	start := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)
	r := propertyReservation(start, end)
	r.Status = domain.ReservationStatusCancelled
	r.CancelledAt = timePtr(start.Add(-72 * time.Hour))

	prev := 10001.0
	for refunded := 0.0; refunded <= 10000; refunded += 500 {
		max, err := calc.MaxRefundable(r, completedPayment(10000), []domain.Refund{{Amount: refunded}})
		assert.NoError(t, err)
		assert.LessOrEqual(t, max, prev)
		prev = max
	}
	assert.Equal(t, 0.0, prev)
}

func TestMaxRefundable_ActiveNotCancelled(t *testing.T) {
	calc := NewRefundCalculator(fixedNow)
	start := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)
	r := propertyReservation(start, end)
	r.CheckedInAt = timePtr(start)

	// Checked in but not cancelled: remaining is returned as the upper
	// bound for the approval workflow.
	max, err := calc.MaxRefundable(r, completedPayment(10000), []domain.Refund{{Amount: 1000}})
	assert.NoError(t, err)
	assert.Equal(t, 9000.0, max)
}

func TestCanProcessRefund(t *testing.T) {
	calc := NewRefundCalculator(fixedNow)
	start := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)

	t.Run("Eligible cancelled reservation", func(t *testing.T) {
		r := propertyReservation(start, end)
		r.Status = domain.ReservationStatusCancelled
		r.CancelledAt = timePtr(start.Add(-72 * time.Hour))
		ok, err := calc.CanProcessRefund(r, completedPayment(10000), nil)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Not cancelled", func(t *testing.T) {
		r := propertyReservation(start, end)
		ok, err := calc.CanProcessRefund(r, completedPayment(10000), nil)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Decision already recorded", func(t *testing.T) {
		r := propertyReservation(start, end)
		r.Status = domain.ReservationStatusCancelled
		r.CancelledAt = timePtr(start.Add(-72 * time.Hour))
		r.RefundApproval = domain.RefundApprovalRejected
		ok, err := calc.CanProcessRefund(r, completedPayment(10000), nil)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Nothing refundable", func(t *testing.T) {
		r := propertyReservation(start, end)
		r.Status = domain.ReservationStatusCancelled
		r.CancelledAt = timePtr(start.Add(-12 * time.Hour)) // inside 24h window
		ok, err := calc.CanProcessRefund(r, completedPayment(10000), nil)
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestValidateApproval(t *testing.T) {
	calc := NewRefundCalculator(fixedNow)
	start := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)
	r := propertyReservation(start, end)
	r.Status = domain.ReservationStatusCancelled
	r.CancelledAt = timePtr(start.Add(-72 * time.Hour))

	t.Run("Within range", func(t *testing.T) {
		assert.NoError(t, calc.ValidateApproval(r, completedPayment(10000), nil, 10000))
		assert.NoError(t, calc.ValidateApproval(r, completedPayment(10000), nil, 0.01))
	})

	t.Run("Zero amount", func(t *testing.T) {
		err := calc.ValidateApproval(r, completedPayment(10000), nil, 0)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("Exceeds maximum", func(t *testing.T) {
		err := calc.ValidateApproval(r, completedPayment(10000), nil, 10000.01)
		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.Contains(t, err.Error(), "between 0.01 and 10000.00")
	})

	t.Run("Maximum shrinks with prior refunds", func(t *testing.T) {
		refunds := []domain.Refund{{Amount: 9900}}
		err := calc.ValidateApproval(r, completedPayment(10000), refunds, 10000)
		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.NoError(t, calc.ValidateApproval(r, completedPayment(10000), refunds, 100))
	})
}

func TestValidateRejection(t *testing.T) {
	assert.NoError(t, ValidateRejection("guest damaged the property"))
	assert.ErrorIs(t, ValidateRejection(""), ErrMissingReason)
	assert.ErrorIs(t, ValidateRejection("   \t\n"), ErrMissingReason)
}
