package stripe

import (
	"strings"

	"restaurant-app/internal/domain/billing"
)

// NormalizeStripeStatus folds provider subscription states onto the ones the app acts on.
func NormalizeStripeStatus(s string) billing.Status {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return billing.StatusNone
	case "active":
		return billing.StatusActive
	case "trialing":
		return billing.StatusTrialing
	case "past_due", "unpaid":
		return billing.StatusPastDue
	case "incomplete":
		return billing.StatusIncomplete
	case "canceled", "incomplete_expired":
		return billing.StatusCanceled
	default:
		return billing.Status(s)
	}
}
