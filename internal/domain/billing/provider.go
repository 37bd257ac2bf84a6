package billing

import (
	"context"
	"errors"
	"fmt"
)

// Provider is the subset of payment provider capabilities the application uses.
// Calls are synchronous; failures are returned, never swallowed.
type Provider interface {
	CreateCustomer(ctx context.Context, email, name string) (string, error)
	CreateSetupIntent(ctx context.Context, customerID string) (string, error)
	CreateSubscription(ctx context.Context, customerID, priceID, paymentMethodID string) (ProviderSubscription, error)
	// CancelSubscription cancels immediately, not at period end.
	CancelSubscription(ctx context.Context, subscriptionID string) error
	SetDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error
	DefaultPaymentMethod(ctx context.Context, customerID string) (*PaymentMethod, error)
	SubscriptionStatus(ctx context.Context, subscriptionID string) (Status, error)
}

type ProviderSubscription struct {
	ID      string
	Status  Status
	PriceID string
}

type PaymentMethod struct {
	ID    string `json:"id"`
	Brand string `json:"brand"`
	Last4 string `json:"last4"`
}

// ProviderError marks a failure talking to the payment provider.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("payment provider %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

var (
	ErrNoSubscription    = errors.New("no active subscription")
	ErrAlreadySubscribed = errors.New("member already has an active subscription")
	ErrNoCustomer        = errors.New("member has no payment customer")
)
