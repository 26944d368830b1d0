package jobs

import (
	"context"
	"fmt"
	"strings"

	"stayride-backend/internal/events"
	"stayride-backend/internal/logger"
)

// SendRefundPendingReminders mails the admins a digest of cancelled
// reservations that still have no refund decision and a positive
// refundable remainder.
func (jr *JobRunner) SendRefundPendingReminders() {
	jr.runWithRecovery("SendRefundPendingReminders", func() {
		ctx := context.Background()

		pending, err := jr.store.ListRefundPending(ctx)
		if err != nil {
			logger.Error("Failed to list refund-pending reservations", "error", err)
			return
		}

		var lines []string
		for i := range pending {
			rv := &pending[i]
			payment, err := jr.store.GetActiveByReservation(ctx, rv.ID)
			if err != nil {
				logger.Error("Failed to load payment for reminder", "reservation_id", rv.ID, "error", err)
				continue
			}
			refunds, err := jr.store.ListByReservation(ctx, rv.ID)
			if err != nil {
				logger.Error("Failed to load refunds for reminder", "reservation_id", rv.ID, "error", err)
				continue
			}

			refundable, err := jr.calc.MaxRefundable(rv, payment, refunds)
			if err != nil {
				logger.Warn("Skipping reservation with inconsistent state", "reservation_id", rv.ID, "error", err)
				continue
			}
			if refundable <= 0 {
				continue
			}
			lines = append(lines, fmt.Sprintf("- %s: refundable %.2f", rv.BookingNumber, refundable))
		}

		if len(lines) == 0 {
			logger.Info("No refund decisions pending")
			return
		}

		admins, err := jr.store.ListAdmins(ctx)
		if err != nil {
			logger.Error("Failed to list admins for refund reminders", "error", err)
			return
		}

		subject := fmt.Sprintf("Refund decisions pending: %d", len(lines))
		message := "The following cancelled bookings are awaiting a refund decision:\n\n" + strings.Join(lines, "\n")
		sent := 0
		for _, admin := range admins {
			if err := jr.services.Email.SendAdminNotification(ctx, admin.Email, subject, message); err != nil {
				logger.Error("Failed to send refund reminder", "admin_id", admin.ID, "error", err)
				continue
			}
			sent++
		}

		logger.Info("Sent refund-pending reminders", "pending", len(lines), "admins_notified", sent)
	})
}

// PublishEarningsSnapshots emits one earnings event per reservation that
// carries markup attribution, for downstream accounting.
func (jr *JobRunner) PublishEarningsSnapshots() {
	jr.runWithRecovery("PublishEarningsSnapshots", func() {
		ctx := context.Background()

		reservations, err := jr.store.ListPaidWithMarkup(ctx)
		if err != nil {
			logger.Error("Failed to list reservations for earnings snapshot", "error", err)
			return
		}

		published := 0
		for i := range reservations {
			rv := &reservations[i]
			profit, err := jr.services.Earnings.MarkupProfit(ctx, rv.ID)
			if err != nil {
				logger.Error("Failed to compute markup profit", "reservation_id", rv.ID, "error", err)
				continue
			}
			if profit <= 0 {
				continue
			}

			event := events.Event{
				Type:          events.TypeEarningsSnapshot,
				ReservationID: rv.ID,
				UserID:        *rv.MarkupUserID,
				Amount:        profit,
				Reference:     rv.BookingNumber,
			}
			if err := jr.publisher.Publish(event); err != nil {
				logger.Error("Failed to publish earnings snapshot", "reservation_id", rv.ID, "error", err)
				continue
			}
			published++
		}

		logger.Info("Published earnings snapshots", "count", published)
	})
}
