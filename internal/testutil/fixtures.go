package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"restaurant-app/internal/domain/billing"
	"restaurant-app/internal/domain/reservations"
	"restaurant-app/internal/domain/restaurants"
	"restaurant-app/internal/domain/reviews"
	"restaurant-app/internal/domain/site"
	"restaurant-app/internal/domain/users"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const Password = "password123"

var seq atomic.Uint64

func next() uint64 { return seq.Add(1) }

func hash(t *testing.T, pw string) string {
	t.Helper()
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(b)
}

func CreateMember(t *testing.T, db *gorm.DB, mutate ...func(*users.Member)) *users.Member {
	t.Helper()
	n := next()
	pw := hash(t, Password)
	m := &users.Member{
		Name:         fmt.Sprintf("Member %d", n),
		Kana:         "Kana",
		Email:        fmt.Sprintf("member%d@example.com", n),
		Password:     &pw,
		AuthProvider: users.ProviderLocal,
		PostalCode:   "1500001",
		Address:      "Tokyo",
		PhoneNumber:  "0312345678",
	}
	for _, f := range mutate {
		f(m)
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

func CreateAdmin(t *testing.T, db *gorm.DB) *users.Administrator {
	t.Helper()
	n := next()
	a := &users.Administrator{
		Name:     fmt.Sprintf("Admin %d", n),
		Email:    fmt.Sprintf("admin%d@example.com", n),
		Password: hash(t, Password),
	}
	require.NoError(t, db.Create(a).Error)
	return a
}

func CreateCategory(t *testing.T, db *gorm.DB, name string) *restaurants.Category {
	t.Helper()
	c := &restaurants.Category{Name: name}
	require.NoError(t, db.Create(c).Error)
	return c
}

func CreateRestaurant(t *testing.T, db *gorm.DB, mutate ...func(*restaurants.Restaurant)) *restaurants.Restaurant {
	t.Helper()
	n := next()
	r := &restaurants.Restaurant{
		Name:            fmt.Sprintf("Restaurant %d", n),
		Description:     "Seasonal dishes",
		LowestPrice:     1000,
		HighestPrice:    5000,
		PostalCode:      "1500001",
		Address:         "Shibuya, Tokyo",
		OpeningTime:     "11:00",
		ClosingTime:     "22:00",
		SeatingCapacity: 40,
	}
	for _, f := range mutate {
		f(r)
	}
	require.NoError(t, db.Create(r).Error)
	return r
}

func CreateReview(t *testing.T, db *gorm.DB, memberID, restaurantID uint, score int) *reviews.Review {
	t.Helper()
	r := &reviews.Review{
		Score:        score,
		Content:      fmt.Sprintf("Review %d", next()),
		MemberID:     memberID,
		RestaurantID: restaurantID,
	}
	require.NoError(t, db.Create(r).Error)
	return r
}

func CreateReservation(t *testing.T, db *gorm.DB, memberID, restaurantID uint, at time.Time) *reservations.Reservation {
	t.Helper()
	r := &reservations.Reservation{
		ReservedDatetime: at,
		NumberOfPeople:   2,
		MemberID:         memberID,
		RestaurantID:     restaurantID,
	}
	require.NoError(t, db.Create(r).Error)
	return r
}

func CreateFavorite(t *testing.T, db *gorm.DB, memberID, restaurantID uint) {
	t.Helper()
	require.NoError(t, db.Create(&restaurants.Favorite{MemberID: memberID, RestaurantID: restaurantID}).Error)
}

// CreateSubscription stores a local subscription row and, when a fake provider
// is given, registers the same status on the provider side.
func CreateSubscription(t *testing.T, db *gorm.DB, p *FakeProvider, memberID uint, status billing.Status) *billing.Subscription {
	t.Helper()
	stripeID := fmt.Sprintf("sub_test_%d", next())
	price := "price_premium"
	s := &billing.Subscription{
		MemberID:     memberID,
		Name:         billing.PlanPremium,
		StripeID:     stripeID,
		StripeStatus: status,
		StripePrice:  &price,
	}
	require.NoError(t, db.Create(s).Error)
	if p != nil {
		p.SetStatus(stripeID, status)
	}
	return s
}

// CreatePremiumMember returns a member with an active subscription on p.
func CreatePremiumMember(t *testing.T, db *gorm.DB, p *FakeProvider) *users.Member {
	t.Helper()
	customerID := fmt.Sprintf("cus_test_%d", next())
	m := CreateMember(t, db, func(m *users.Member) { m.StripeCustomerID = &customerID })
	CreateSubscription(t, db, p, m.ID, billing.StatusActive)
	return m
}

func CreateCompany(t *testing.T, db *gorm.DB) *site.Company {
	t.Helper()
	c := &site.Company{
		Name:              "Nagoyameshi Inc.",
		PostalCode:        "1010022",
		Address:           "Chiyoda, Tokyo",
		Representative:    "Taro Yamada",
		EstablishmentDate: "2015-04-01",
		Capital:           "10,000,000",
		Business:          "Restaurant guide",
		NumberOfEmployees: "12",
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func CreateTerm(t *testing.T, db *gorm.DB) *site.Term {
	t.Helper()
	term := &site.Term{Content: "Terms of service"}
	require.NoError(t, db.Create(term).Error)
	return term
}
