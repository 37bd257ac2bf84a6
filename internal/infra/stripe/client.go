package stripe

import (
	"context"
	"errors"
	"net/http"
	"time"

	"restaurant-app/internal/domain/billing"
	"restaurant-app/internal/logging"
	"restaurant-app/internal/metrics"

	gobreaker "github.com/sony/gobreaker/v2"
	sdk "github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/customer"
	"github.com/stripe/stripe-go/v75/paymentmethod"
	"github.com/stripe/stripe-go/v75/setupintent"
	"github.com/stripe/stripe-go/v75/subscription"
)

type BreakerConfig struct {
	FailureThreshold uint32
	Timeout          time.Duration
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{FailureThreshold: 5, Timeout: 30 * time.Second}
}

// Client implements billing.Provider on the Stripe API. Every call goes
// through one circuit breaker so an unreachable provider fails fast.
type Client struct {
	cb *gobreaker.CircuitBreaker[any]
}

var _ billing.Provider = (*Client)(nil)

func NewClient(secretKey string, cfg BreakerConfig) *Client {
	sdk.Key = secretKey
	return &Client{cb: newBreaker("stripe-api", cfg)}
}

func newBreaker(name string, cfg BreakerConfig) *gobreaker.CircuitBreaker[any] {
	return gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: isBreakerSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})
}

// isBreakerSuccess keeps request-level rejections (declined card, bad id) from
// counting against provider health.
func isBreakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	var se *sdk.Error
	if errors.As(err, &se) {
		if se.Type == sdk.ErrorTypeCard {
			return true
		}
		return se.HTTPStatusCode >= http.StatusBadRequest && se.HTTPStatusCode < http.StatusInternalServerError &&
			se.HTTPStatusCode != http.StatusTooManyRequests
	}
	return false
}

func (c *Client) do(ctx context.Context, op string, fn func() (any, error)) (any, error) {
	start := time.Now()
	out, err := c.cb.Execute(fn)
	metrics.RecordProviderCall(op, time.Since(start), err)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("op", op).Msg("stripe call failed")
		return nil, &billing.ProviderError{Op: op, Err: err}
	}
	return out, nil
}

func (c *Client) CreateCustomer(ctx context.Context, email, name string) (string, error) {
	out, err := c.do(ctx, "customer.create", func() (any, error) {
		params := &sdk.CustomerParams{
			Email: sdk.String(email),
			Name:  sdk.String(name),
		}
		params.Context = ctx
		return customer.New(params)
	})
	if err != nil {
		return "", err
	}
	return out.(*sdk.Customer).ID, nil
}

func (c *Client) CreateSetupIntent(ctx context.Context, customerID string) (string, error) {
	out, err := c.do(ctx, "setup_intent.create", func() (any, error) {
		params := &sdk.SetupIntentParams{
			Customer:           sdk.String(customerID),
			PaymentMethodTypes: sdk.StringSlice([]string{"card"}),
		}
		params.Context = ctx
		return setupintent.New(params)
	})
	if err != nil {
		return "", err
	}
	return out.(*sdk.SetupIntent).ClientSecret, nil
}

func (c *Client) CreateSubscription(ctx context.Context, customerID, priceID, paymentMethodID string) (billing.ProviderSubscription, error) {
	if err := c.SetDefaultPaymentMethod(ctx, customerID, paymentMethodID); err != nil {
		return billing.ProviderSubscription{}, err
	}

	out, err := c.do(ctx, "subscription.create", func() (any, error) {
		params := &sdk.SubscriptionParams{
			Customer: sdk.String(customerID),
			Items: []*sdk.SubscriptionItemsParams{
				{Price: sdk.String(priceID)},
			},
			DefaultPaymentMethod: sdk.String(paymentMethodID),
			PaymentBehavior:      sdk.String("error_if_incomplete"),
		}
		params.Context = ctx
		return subscription.New(params)
	})
	if err != nil {
		return billing.ProviderSubscription{}, err
	}

	sub := out.(*sdk.Subscription)
	result := billing.ProviderSubscription{
		ID:      sub.ID,
		Status:  NormalizeStripeStatus(string(sub.Status)),
		PriceID: priceID,
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		result.PriceID = sub.Items.Data[0].Price.ID
	}
	return result, nil
}

func (c *Client) CancelSubscription(ctx context.Context, subscriptionID string) error {
	_, err := c.do(ctx, "subscription.cancel", func() (any, error) {
		params := &sdk.SubscriptionCancelParams{}
		params.Context = ctx
		return subscription.Cancel(subscriptionID, params)
	})
	return err
}

func (c *Client) SetDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error {
	_, err := c.do(ctx, "payment_method.attach", func() (any, error) {
		params := &sdk.PaymentMethodAttachParams{Customer: sdk.String(customerID)}
		params.Context = ctx
		return paymentmethod.Attach(paymentMethodID, params)
	})
	if err != nil {
		return err
	}

	_, err = c.do(ctx, "customer.update", func() (any, error) {
		params := &sdk.CustomerParams{
			InvoiceSettings: &sdk.CustomerInvoiceSettingsParams{
				DefaultPaymentMethod: sdk.String(paymentMethodID),
			},
		}
		params.Context = ctx
		return customer.Update(customerID, params)
	})
	return err
}

func (c *Client) DefaultPaymentMethod(ctx context.Context, customerID string) (*billing.PaymentMethod, error) {
	out, err := c.do(ctx, "customer.get", func() (any, error) {
		params := &sdk.CustomerParams{}
		params.Context = ctx
		params.AddExpand("invoice_settings.default_payment_method")
		return customer.Get(customerID, params)
	})
	if err != nil {
		return nil, err
	}

	cus := out.(*sdk.Customer)
	if cus.InvoiceSettings == nil || cus.InvoiceSettings.DefaultPaymentMethod == nil {
		return nil, nil
	}
	pm := cus.InvoiceSettings.DefaultPaymentMethod
	result := &billing.PaymentMethod{ID: pm.ID}
	if pm.Card != nil {
		result.Brand = string(pm.Card.Brand)
		result.Last4 = pm.Card.Last4
	}
	return result, nil
}

func (c *Client) SubscriptionStatus(ctx context.Context, subscriptionID string) (billing.Status, error) {
	out, err := c.do(ctx, "subscription.get", func() (any, error) {
		params := &sdk.SubscriptionParams{}
		params.Context = ctx
		return subscription.Get(subscriptionID, params)
	})
	if err != nil {
		return billing.StatusNone, err
	}
	return NormalizeStripeStatus(string(out.(*sdk.Subscription).Status)), nil
}
