package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"restaurant-app/internal/domain/users"
	"restaurant-app/internal/logging"

	"gorm.io/gorm"
)

// Service runs the subscription lifecycle against the provider and the local table.
type Service struct {
	db       *gorm.DB
	provider Provider
	resolver *Resolver
	priceID  string
	now      func() time.Time
}

func NewService(db *gorm.DB, provider Provider, resolver *Resolver, priceID string) *Service {
	return &Service{db: db, provider: provider, resolver: resolver, priceID: priceID, now: time.Now}
}

// EnsureCustomer returns the member's provider customer id, creating one on first use.
func (s *Service) EnsureCustomer(ctx context.Context, m *users.Member) (string, error) {
	if m.StripeCustomerID != nil && *m.StripeCustomerID != "" {
		return *m.StripeCustomerID, nil
	}
	id, err := s.provider.CreateCustomer(ctx, m.Email, m.Name)
	if err != nil {
		return "", err
	}
	if err := s.db.WithContext(ctx).Model(&users.Member{}).
		Where("id = ?", m.ID).
		Update("stripe_customer_id", id).Error; err != nil {
		return "", fmt.Errorf("save customer id: %w", err)
	}
	m.StripeCustomerID = &id
	return id, nil
}

// SetupIntent returns the client secret the card form needs.
func (s *Service) SetupIntent(ctx context.Context, m *users.Member) (string, error) {
	customerID, err := s.EnsureCustomer(ctx, m)
	if err != nil {
		return "", err
	}
	return s.provider.CreateSetupIntent(ctx, customerID)
}

// Subscribe starts the premium plan. Either both the provider subscription and
// the local row exist afterwards, or neither does.
func (s *Service) Subscribe(ctx context.Context, m *users.Member, paymentMethodID string) (*Subscription, error) {
	premium, err := s.resolver.IsPremium(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	if premium {
		return nil, ErrAlreadySubscribed
	}

	customerID, err := s.EnsureCustomer(ctx, m)
	if err != nil {
		return nil, err
	}

	ps, err := s.provider.CreateSubscription(ctx, customerID, s.priceID, paymentMethodID)
	if err != nil {
		return nil, err
	}

	price := ps.PriceID
	sub := &Subscription{
		MemberID:     m.ID,
		Name:         PlanPremium,
		StripeID:     ps.ID,
		StripeStatus: ps.Status,
		StripePrice:  &price,
	}
	if err := s.db.WithContext(ctx).Create(sub).Error; err != nil {
		if cerr := s.provider.CancelSubscription(ctx, ps.ID); cerr != nil {
			logging.Ctx(ctx).Error().Err(cerr).Str("stripe_id", ps.ID).Msg("compensating cancel failed")
		}
		return nil, fmt.Errorf("save subscription: %w", err)
	}
	return sub, nil
}

// UpdatePaymentMethod replaces the default card. No local state changes.
func (s *Service) UpdatePaymentMethod(ctx context.Context, m *users.Member, paymentMethodID string) error {
	if m.StripeCustomerID == nil || *m.StripeCustomerID == "" {
		return ErrNoCustomer
	}
	return s.provider.SetDefaultPaymentMethod(ctx, *m.StripeCustomerID, paymentMethodID)
}

func (s *Service) DefaultPaymentMethod(ctx context.Context, m *users.Member) (*PaymentMethod, error) {
	if m.StripeCustomerID == nil || *m.StripeCustomerID == "" {
		return nil, ErrNoCustomer
	}
	return s.provider.DefaultPaymentMethod(ctx, *m.StripeCustomerID)
}

// Cancel ends the premium plan immediately.
func (s *Service) Cancel(ctx context.Context, m *users.Member) error {
	sub, err := LatestSubscription(s.db.WithContext(ctx), m.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && sub.StripeStatus == StatusCanceled) {
		return ErrNoSubscription
	}
	if err != nil {
		return fmt.Errorf("load subscription: %w", err)
	}

	if err := s.provider.CancelSubscription(ctx, sub.StripeID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Model(&Subscription{}).
		Where("id = ?", sub.ID).
		Updates(map[string]interface{}{
			"stripe_status": StatusCanceled,
			"ends_at":       s.now(),
		}).Error
}
