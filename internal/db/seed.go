package db

import (
	"strings" // Email normalization
	"time"    // Birthday truncation

	"blog_system/internal/domain" // Importing domain models

	"github.com/brianvoe/gofakeit/v7" // Fake data
	"github.com/go-faster/errors"     // Error wrapping
	"github.com/gosimple/slug"        // Post slugs
	"github.com/sirupsen/logrus"      // Logrus for structured logging
	"golang.org/x/crypto/bcrypt"      // Password hashing
	"gorm.io/gorm"                    // GORM ORM library
)

// SeedOptions controls the generated data
type SeedOptions struct {
	Users         int    // Users to create, each with one post
	AdminEmail    string // Admin account, skipped when empty
	AdminPassword string // Admin password
	Seed          uint64 // Faker seed, 0 for random
}

// Seed fills the database with fake users, one post each, and an optional
// admin. It runs in one transaction.
func Seed(db *gorm.DB, opts SeedOptions) error {
	faker := gofakeit.New(opts.Seed)
	return db.Transaction(func(tx *gorm.DB) error {
		if opts.AdminEmail != "" {
			if err := seedAdmin(tx, opts.AdminEmail, opts.AdminPassword); err != nil {
				return err
			}
		}
		for i := 0; i < opts.Users; i++ {
			hash, err := bcrypt.GenerateFromPassword([]byte(faker.Password(true, true, true, false, false, 12)), bcrypt.DefaultCost)
			if err != nil {
				return errors.Wrap(err, "hash password")
			}
			now := time.Now().UTC()
			birthday := faker.DateRange(now.AddDate(-60, 0, 0), now.AddDate(-18, 0, 0)).Truncate(24 * time.Hour)
			user := domain.User{
				FirstName:      faker.FirstName(),
				LastName:       faker.LastName(),
				Email:          strings.ToLower(faker.Username()) + "." + faker.DigitN(6) + "@example.com",
				Birthday:       &birthday,
				PasswordDigest: string(hash),
				Role:           domain.RoleUser,
			}
			if err := tx.Create(&user).Error; err != nil {
				return errors.Wrap(err, "create user")
			}

			title := faker.BookTitle()
			post := domain.Post{
				AuthorID:  user.ID,
				Slug:      truncate(slug.Make(title), 90) + "-" + faker.DigitN(4),
				Title:     truncate(title, 100),
				Content:   faker.Paragraph(2, 4, 12, " "),
				Published: faker.Bool(),
			}
			if err := tx.Create(&post).Error; err != nil {
				return errors.Wrap(err, "create post")
			}
		}
		logrus.WithFields(logrus.Fields{"users": opts.Users, "admin": opts.AdminEmail != ""}).Info("Seed completed.")
		return nil
	})
}

func seedAdmin(tx *gorm.DB, email, password string) error {
	if len(password) < 8 {
		return errors.New("admin password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash admin password")
	}
	admin := domain.User{
		FirstName:      "Admin",
		LastName:       "User",
		Email:          strings.ToLower(email),
		PasswordDigest: string(hash),
		Role:           domain.RoleAdmin,
	}
	// Re-running the seed keeps the existing admin
	err = tx.Where(domain.User{Email: admin.Email}).Attrs(admin).FirstOrCreate(&admin).Error
	return errors.Wrap(err, "create admin")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
