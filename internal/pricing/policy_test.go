package pricing

import (
	"testing"
	"time"

	"stayride-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestPropertyCancellationPolicy(t *testing.T) {
	policy := PolicyFor(domain.VerticalProperty)
	start := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)

	t.Run("More than 24h before start keeps refund", func(t *testing.T) {
		cancelledAt := start.Add(-48 * time.Hour)
		assert.False(t, policy.Forfeits(cancelledAt, start))
	})

	t.Run("Within 24h before start forfeits", func(t *testing.T) {
		cancelledAt := start.Add(-12 * time.Hour)
		assert.True(t, policy.Forfeits(cancelledAt, start))
	})

	t.Run("Exactly 24h before start forfeits", func(t *testing.T) {
		cancelledAt := start.Add(-24 * time.Hour)
		assert.True(t, policy.Forfeits(cancelledAt, start))
	})

	t.Run("No-show after start keeps refund", func(t *testing.T) {
		// Directional: cancelling after the start means the guest never
		// showed up, which refunds in full.
		cancelledAt := start.Add(3 * time.Hour)
		assert.False(t, policy.Forfeits(cancelledAt, start))
	})
}

func TestCarCancellationPolicy(t *testing.T) {
	policy := PolicyFor(domain.VerticalCar)
	start := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)

	t.Run("One hour before start forfeits", func(t *testing.T) {
		cancelledAt := start.Add(-1 * time.Hour)
		assert.True(t, policy.Forfeits(cancelledAt, start))
	})

	t.Run("One hour after start forfeits", func(t *testing.T) {
		// Magnitude-based window: either side of the start counts.
		cancelledAt := start.Add(1 * time.Hour)
		assert.True(t, policy.Forfeits(cancelledAt, start))
	})

	t.Run("Three hours before start keeps refund", func(t *testing.T) {
		cancelledAt := start.Add(-3 * time.Hour)
		assert.False(t, policy.Forfeits(cancelledAt, start))
	})

	t.Run("Three hours after start keeps refund", func(t *testing.T) {
		cancelledAt := start.Add(3 * time.Hour)
		assert.False(t, policy.Forfeits(cancelledAt, start))
	})
}

func TestPolicyFor_UnknownVertical(t *testing.T) {
	policy := PolicyFor(domain.Vertical("BOAT"))
	start := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	// Falls back to the property policy.
	assert.True(t, policy.Forfeits(start.Add(-12*time.Hour), start))
}
