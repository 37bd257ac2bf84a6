package routes_test

import (
	"net/http"
	"net/url"
	"testing"

	"restaurant-app/internal/domain/access"
	"restaurant-app/internal/domain/billing"
	"restaurant-app/internal/domain/users"
	"restaurant-app/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionSignUpPage(t *testing.T) {
	app := newTestApp(t)
	m := testutil.CreateMember(t, app.db)

	w := app.get("/subscription/create", member(m.ID))
	require.Equal(t, http.StatusOK, w.Code)
	intent := decodeBody(t, w)["intent"].(map[string]any)
	assert.NotEmpty(t, intent["client_secret"])

	var stored users.Member
	require.NoError(t, app.db.First(&stored, m.ID).Error)
	require.NotNil(t, stored.StripeCustomerID)
	assert.Equal(t, 1, app.provider.CallCount("customer.create"))
}

func TestSubscribeThenCancel(t *testing.T) {
	app := newTestApp(t)
	m := testutil.CreateMember(t, app.db)

	w := app.request(http.MethodPost, "/subscription", url.Values{"payment_method_id": {"pm_card_visa"}}, member(m.ID))
	requireRedirect(t, w, "/")
	f := flashOf(t, w)
	require.NotNil(t, f)
	assert.Equal(t, "success", f.Kind)

	sub, err := billing.LatestSubscription(app.db, m.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.StatusActive, sub.StripeStatus)
	assert.Equal(t, http.StatusOK, app.get("/favorites", member(m.ID)).Code)

	assert.Equal(t, http.StatusOK, app.get("/subscription/cancel", member(m.ID)).Code)
	requireRedirect(t, app.request(http.MethodDelete, "/subscription", nil, member(m.ID)), "/")

	sub, err = billing.LatestSubscription(app.db, m.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.StatusCanceled, sub.StripeStatus)
	assert.NotNil(t, sub.EndsAt)

	// A second cancel is stopped by the premium gate before the action runs.
	cancels := app.provider.CallCount("subscription.cancel")
	requireRedirect(t, app.request(http.MethodDelete, "/subscription", nil, member(m.ID)), access.PathSubscriptionCreate)
	assert.Equal(t, cancels, app.provider.CallCount("subscription.cancel"))
}

func TestSubscribeDeclinedCardChangesNothing(t *testing.T) {
	app := newTestApp(t)
	m := testutil.CreateMember(t, app.db)

	w := app.request(http.MethodPost, "/subscription", url.Values{"payment_method_id": {testutil.DeclinedPaymentMethod}}, member(m.ID))
	requireRedirect(t, w, access.PathSubscriptionCreate)
	f := flashOf(t, w)
	require.NotNil(t, f)
	assert.Equal(t, "error", f.Kind)

	assert.Zero(t, count(t, app.db, &billing.Subscription{}, "member_id = ?", m.ID))
	requireRedirect(t, app.get("/favorites", member(m.ID)), access.PathSubscriptionCreate)
}

func TestSubscribeRequiresPaymentMethod(t *testing.T) {
	app := newTestApp(t)
	m := testutil.CreateMember(t, app.db)

	w := app.request(http.MethodPost, "/subscription", url.Values{}, member(m.ID))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, decodeBody(t, w)["errors"], "payment_method_id")
	assert.Zero(t, app.provider.CallCount("subscription.create"))
}

func TestSubscriptionEditShowsCard(t *testing.T) {
	app := newTestApp(t)
	m := testutil.CreateMember(t, app.db)
	requireRedirect(t, app.request(http.MethodPost, "/subscription", url.Values{"payment_method_id": {"pm_card_visa"}}, member(m.ID)), "/")

	w := app.get("/subscription/edit", member(m.ID))
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	card := body["card"].(map[string]any)
	assert.Equal(t, "4242", card["last4"])
	assert.NotEmpty(t, body["intent"].(map[string]any)["client_secret"])
}

func TestUpdatePaymentMethod(t *testing.T) {
	app := newTestApp(t)
	m := testutil.CreatePremiumMember(t, app.db, app.provider)

	w := app.request(http.MethodPatch, "/subscription", url.Values{"payment_method_id": {"pm_card_mastercard"}}, member(m.ID))
	requireRedirect(t, w, "/")
	require.NotNil(t, app.provider.DefaultFor(*m.StripeCustomerID))
	assert.Equal(t, "pm_card_mastercard", app.provider.DefaultFor(*m.StripeCustomerID).ID)

	w = app.request(http.MethodPatch, "/subscription", url.Values{"payment_method_id": {testutil.DeclinedPaymentMethod}}, member(m.ID))
	requireRedirect(t, w, access.PathSubscriptionEdit)
	assert.Equal(t, "pm_card_mastercard", app.provider.DefaultFor(*m.StripeCustomerID).ID)
}

func TestCancelProviderFailureKeepsPremium(t *testing.T) {
	app := newTestApp(t)
	m := testutil.CreatePremiumMember(t, app.db, app.provider)
	app.provider.FailOn("subscription.cancel", assert.AnError)

	w := app.request(http.MethodDelete, "/subscription", nil, member(m.ID))
	requireRedirect(t, w, "/subscription/cancel")

	sub, err := billing.LatestSubscription(app.db, m.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.StatusActive, sub.StripeStatus)
}
