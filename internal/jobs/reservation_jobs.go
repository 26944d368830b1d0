package jobs

import (
	"context"

	"stayride-backend/internal/logger"
)

// ExpireStalePendingReservations fails pending reservations that never
// received a completed payment within the configured expiry window.
func (jr *JobRunner) ExpireStalePendingReservations() {
	jr.runWithRecovery("ExpireStalePendingReservations", func() {
		ctx := context.Background()

		expired, err := jr.store.ExpirePendingOlderThan(ctx, jr.config.Booking.PendingExpiryHours)
		if err != nil {
			logger.Error("Failed to expire stale pending reservations", "error", err)
			return
		}

		logger.Info("Expired stale pending reservations",
			"count", expired,
			"older_than_hours", jr.config.Booking.PendingExpiryHours)
	})
}
