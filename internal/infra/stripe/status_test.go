package stripe

import (
	"testing"

	"restaurant-app/internal/domain/billing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStripeStatus(t *testing.T) {
	tests := map[string]billing.Status{
		"":                   billing.StatusNone,
		"  ":                 billing.StatusNone,
		"active":             billing.StatusActive,
		" trialing ":         billing.StatusTrialing,
		"past_due":           billing.StatusPastDue,
		"unpaid":             billing.StatusPastDue,
		"incomplete":         billing.StatusIncomplete,
		"canceled":           billing.StatusCanceled,
		"incomplete_expired": billing.StatusCanceled,
		"paused":             billing.Status("paused"),
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeStripeStatus(in), "input %q", in)
	}
}

func TestEntitledStatuses(t *testing.T) {
	assert.True(t, NormalizeStripeStatus("active").Entitled())
	assert.True(t, NormalizeStripeStatus("trialing").Entitled())
	assert.False(t, NormalizeStripeStatus("past_due").Entitled())
	assert.False(t, NormalizeStripeStatus("canceled").Entitled())
	assert.False(t, NormalizeStripeStatus("").Entitled())
}
