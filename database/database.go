package database

import (
	"errors"
	"fmt"

	"restaurant-app/internal/domain/billing"
	"restaurant-app/internal/domain/reservations"
	"restaurant-app/internal/domain/restaurants"
	"restaurant-app/internal/domain/reviews"
	"restaurant-app/internal/domain/site"
	"restaurant-app/internal/domain/users"
	"restaurant-app/internal/logging"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, errors.New("DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	logging.Info().Msg("connected and migrated")
	return db, nil
}

// Migrate creates or updates every table the application uses.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		// accounts
		&users.Member{},
		&users.Administrator{},
		&billing.Subscription{},

		// catalogue
		&restaurants.Category{},
		&restaurants.Restaurant{},
		&restaurants.Favorite{},

		// member activity
		&reviews.Review{},
		&reservations.Reservation{},

		// site
		&site.Company{},
		&site.Term{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// SeedAdministrator creates the administrator account when none with that email exists.
func SeedAdministrator(db *gorm.DB, name, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	var count int64
	if err := db.Model(&users.Administrator{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash administrator password: %w", err)
	}

	admin := users.Administrator{Name: name, Email: email, Password: string(hashed)}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create administrator: %w", err)
	}
	logging.Info().Str("email", email).Msg("administrator seeded")
	return nil
}

// SeedSite makes sure the company profile and terms rows exist so the
// singleton pages always have something to edit.
func SeedSite(db *gorm.DB) error {
	if err := db.FirstOrCreate(&site.Company{}, site.Company{}).Error; err != nil {
		return fmt.Errorf("seed company: %w", err)
	}
	if err := db.FirstOrCreate(&site.Term{}, site.Term{}).Error; err != nil {
		return fmt.Errorf("seed terms: %w", err)
	}
	return nil
}
