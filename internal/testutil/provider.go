package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"restaurant-app/internal/domain/billing"
)

// DeclinedPaymentMethod is rejected by FakeProvider like a declined card.
const DeclinedPaymentMethod = "pm_card_declined"

var ErrDeclined = errors.New("card declined")

// FakeProvider is an in-memory billing.Provider.
type FakeProvider struct {
	mu        sync.Mutex
	seq       int
	statuses  map[string]billing.Status
	defaults  map[string]*billing.PaymentMethod
	failures  map[string]error
	calls     []string
	customers map[string]string
}

var _ billing.Provider = (*FakeProvider)(nil)

func NewFakeProvider() *FakeProvider {
	return &FakeProvider{
		statuses:  map[string]billing.Status{},
		defaults:  map[string]*billing.PaymentMethod{},
		failures:  map[string]error{},
		customers: map[string]string{},
	}
}

// FailOn makes every call of op return err wrapped as a provider error.
func (f *FakeProvider) FailOn(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[op] = err
}

func (f *FakeProvider) SetStatus(subscriptionID string, status billing.Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[subscriptionID] = status
}

func (f *FakeProvider) Status(subscriptionID string) billing.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statuses[subscriptionID]
}

// Calls returns the operations invoked so far, in order.
func (f *FakeProvider) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *FakeProvider) CallCount(op string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == op {
			n++
		}
	}
	return n
}

func (f *FakeProvider) begin(op string) error {
	f.calls = append(f.calls, op)
	if err, ok := f.failures[op]; ok {
		return &billing.ProviderError{Op: op, Err: err}
	}
	return nil
}

func (f *FakeProvider) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s_fake_%d", prefix, f.seq)
}

func (f *FakeProvider) CreateCustomer(_ context.Context, email, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("customer.create"); err != nil {
		return "", err
	}
	id := f.nextID("cus")
	f.customers[id] = email
	return id, nil
}

func (f *FakeProvider) CreateSetupIntent(_ context.Context, customerID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("setup_intent.create"); err != nil {
		return "", err
	}
	return f.nextID("seti") + "_secret_" + customerID, nil
}

func (f *FakeProvider) CreateSubscription(_ context.Context, customerID, priceID, paymentMethodID string) (billing.ProviderSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("subscription.create"); err != nil {
		return billing.ProviderSubscription{}, err
	}
	if paymentMethodID == DeclinedPaymentMethod {
		return billing.ProviderSubscription{}, &billing.ProviderError{Op: "subscription.create", Err: ErrDeclined}
	}
	id := f.nextID("sub")
	f.statuses[id] = billing.StatusActive
	f.defaults[customerID] = &billing.PaymentMethod{ID: paymentMethodID, Brand: "visa", Last4: "4242"}
	return billing.ProviderSubscription{ID: id, Status: billing.StatusActive, PriceID: priceID}, nil
}

func (f *FakeProvider) CancelSubscription(_ context.Context, subscriptionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("subscription.cancel"); err != nil {
		return err
	}
	f.statuses[subscriptionID] = billing.StatusCanceled
	return nil
}

func (f *FakeProvider) SetDefaultPaymentMethod(_ context.Context, customerID, paymentMethodID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("payment_method.attach"); err != nil {
		return err
	}
	if paymentMethodID == DeclinedPaymentMethod {
		return &billing.ProviderError{Op: "payment_method.attach", Err: ErrDeclined}
	}
	f.defaults[customerID] = &billing.PaymentMethod{ID: paymentMethodID, Brand: "visa", Last4: "4242"}
	return nil
}

func (f *FakeProvider) DefaultPaymentMethod(_ context.Context, customerID string) (*billing.PaymentMethod, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("customer.get"); err != nil {
		return nil, err
	}
	return f.defaults[customerID], nil
}

func (f *FakeProvider) SubscriptionStatus(_ context.Context, subscriptionID string) (billing.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("subscription.get"); err != nil {
		return billing.StatusNone, err
	}
	status, ok := f.statuses[subscriptionID]
	if !ok {
		return billing.StatusNone, &billing.ProviderError{Op: "subscription.get", Err: errors.New("no such subscription")}
	}
	return status, nil
}

// DefaultFor returns the default card recorded for the customer.
func (f *FakeProvider) DefaultFor(customerID string) *billing.PaymentMethod {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.defaults[customerID]
}
