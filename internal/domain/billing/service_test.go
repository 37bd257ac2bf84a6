package billing_test

import (
	"context"
	"errors"
	"testing"

	"restaurant-app/internal/domain/billing"
	"restaurant-app/internal/domain/users"
	"restaurant-app/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newService(db *gorm.DB, p *testutil.FakeProvider) *billing.Service {
	return billing.NewService(db, p, billing.NewResolver(db, p), "price_premium")
}

func countSubscriptions(t *testing.T, db *gorm.DB, memberID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&billing.Subscription{}).Where("member_id = ?", memberID).Count(&n).Error)
	return n
}

func TestSubscribeCreatesCustomerAndSubscription(t *testing.T) {
	db := testutil.NewDB(t)
	p := testutil.NewFakeProvider()
	m := testutil.CreateMember(t, db)

	sub, err := newService(db, p).Subscribe(context.Background(), m, "pm_card_visa")
	require.NoError(t, err)
	assert.Equal(t, billing.PlanPremium, sub.Name)
	assert.Equal(t, billing.StatusActive, sub.StripeStatus)

	var reloaded users.Member
	require.NoError(t, db.First(&reloaded, m.ID).Error)
	require.NotNil(t, reloaded.StripeCustomerID)
	assert.Equal(t, 1, p.CallCount("customer.create"))

	premium, err := billing.NewResolver(db, p).IsPremium(context.Background(), m.ID)
	require.NoError(t, err)
	assert.True(t, premium)
}

func TestSubscribeRejectsSecondActivePlan(t *testing.T) {
	db := testutil.NewDB(t)
	p := testutil.NewFakeProvider()
	m := testutil.CreatePremiumMember(t, db, p)

	_, err := newService(db, p).Subscribe(context.Background(), m, "pm_card_visa")
	assert.ErrorIs(t, err, billing.ErrAlreadySubscribed)
	assert.Equal(t, int64(1), countSubscriptions(t, db, m.ID))
	assert.Zero(t, p.CallCount("subscription.create"))
}

func TestSubscribeDeclinedLeavesNoState(t *testing.T) {
	db := testutil.NewDB(t)
	p := testutil.NewFakeProvider()
	m := testutil.CreateMember(t, db)

	_, err := newService(db, p).Subscribe(context.Background(), m, testutil.DeclinedPaymentMethod)
	require.Error(t, err)
	assert.True(t, billing.IsProviderError(err))
	assert.Zero(t, countSubscriptions(t, db, m.ID))
}

func TestSubscribeCompensatesWhenLocalWriteFails(t *testing.T) {
	db := testutil.NewDB(t)
	p := testutil.NewFakeProvider()
	m := testutil.CreateMember(t, db)
	svc := newService(db, p)

	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_subscriptions", func(tx *gorm.DB) {
		if tx.Statement.Table == "subscriptions" {
			_ = tx.AddError(errors.New("disk full"))
		}
	}))

	_, err := svc.Subscribe(context.Background(), m, "pm_card_visa")
	require.Error(t, err)
	assert.Equal(t, 1, p.CallCount("subscription.create"))
	assert.Equal(t, 1, p.CallCount("subscription.cancel"))
	assert.Zero(t, countSubscriptions(t, db, m.ID))
}

func TestCancelEndsSubscriptionImmediately(t *testing.T) {
	db := testutil.NewDB(t)
	p := testutil.NewFakeProvider()
	m := testutil.CreatePremiumMember(t, db, p)
	svc := newService(db, p)

	require.NoError(t, svc.Cancel(context.Background(), m))

	sub, err := billing.LatestSubscription(db, m.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.StatusCanceled, sub.StripeStatus)
	assert.NotNil(t, sub.EndsAt)
	assert.Equal(t, billing.StatusCanceled, p.Status(sub.StripeID))

	premium, err := billing.NewResolver(db, p).IsPremium(context.Background(), m.ID)
	require.NoError(t, err)
	assert.False(t, premium)
}

func TestCancelProviderFailureKeepsPlan(t *testing.T) {
	db := testutil.NewDB(t)
	p := testutil.NewFakeProvider()
	m := testutil.CreatePremiumMember(t, db, p)
	p.FailOn("subscription.cancel", errors.New("unreachable"))

	err := newService(db, p).Cancel(context.Background(), m)
	require.Error(t, err)

	sub, err := billing.LatestSubscription(db, m.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.StatusActive, sub.StripeStatus)
}

func TestCancelWithoutSubscription(t *testing.T) {
	db := testutil.NewDB(t)
	m := testutil.CreateMember(t, db)
	assert.ErrorIs(t, newService(db, testutil.NewFakeProvider()).Cancel(context.Background(), m), billing.ErrNoSubscription)
}

func TestUpdatePaymentMethod(t *testing.T) {
	db := testutil.NewDB(t)
	p := testutil.NewFakeProvider()
	m := testutil.CreatePremiumMember(t, db, p)
	svc := newService(db, p)

	require.NoError(t, svc.UpdatePaymentMethod(context.Background(), m, "pm_card_mastercard"))
	pm, err := svc.DefaultPaymentMethod(context.Background(), m)
	require.NoError(t, err)
	require.NotNil(t, pm)
	assert.Equal(t, "pm_card_mastercard", pm.ID)

	assert.Error(t, svc.UpdatePaymentMethod(context.Background(), m, testutil.DeclinedPaymentMethod))
	assert.Equal(t, "pm_card_mastercard", p.DefaultFor(*m.StripeCustomerID).ID)
}

func TestUpdatePaymentMethodWithoutCustomer(t *testing.T) {
	db := testutil.NewDB(t)
	m := testutil.CreateMember(t, db)
	err := newService(db, testutil.NewFakeProvider()).UpdatePaymentMethod(context.Background(), m, "pm_card_visa")
	assert.ErrorIs(t, err, billing.ErrNoCustomer)
}
