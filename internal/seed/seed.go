// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"petition/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	SignedRatio float64
	ShouldClean bool
}

var cities = []string{
	"Berlin", "Hamburg", "Munich", "Cologne", "Frankfurt",
	"Leipzig", "Dresden", "Stuttgart", "Bremen", "Hannover",
}

// Seeder builds demo users, profiles and signatures and persists them.
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{db: db}
}

// ClearAll removes every signature, profile and user in dependency order.
func (s *Seeder) ClearAll() error {
	for _, table := range []string{"sig", "user_profile", "users"} {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// Seed populates the database with test data. Roughly SignedRatio of the
// users get a signature; about three quarters get a profile.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users...", opts.NumUsers)

	s := NewSeeder(db)
	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	users, err := s.CreateUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d test users created", len(users))

	profiles, signatures, err := s.FillIn(users, opts.SignedRatio)
	if err != nil {
		return fmt.Errorf("failed to create profiles and signatures: %w", err)
	}
	log.Printf("✓ %d profiles and %d signatures created", profiles, signatures)

	return nil
}

// CreateUsers inserts count users with the shared demo password.
func (s *Seeder) CreateUsers(count int) ([]*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		user := &models.User{
			First:    gofakeit.FirstName(),
			Last:     gofakeit.LastName(),
			Email:    fmt.Sprintf("%d.%s", i, gofakeit.Email()),
			Password: string(hashed),
		}
		if err := s.db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// FillIn attaches profiles and signatures to the given users and returns
// how many of each were written.
func (s *Seeder) FillIn(users []*models.User, signedRatio float64) (int, int, error) {
	if signedRatio <= 0 {
		signedRatio = 0.6
	}
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	profiles, signatures := 0, 0
	for _, user := range users {
		if r.Float64() < 0.75 {
			profile := &models.Profile{
				UserID: user.ID,
				City:   strings.ToLower(cities[r.Intn(len(cities))]),
				URL:    gofakeit.URL(),
			}
			if r.Float64() < 0.8 {
				age := r.Intn(62) + 18
				profile.Age = &age
			}
			if err := s.db.Create(profile).Error; err != nil {
				return profiles, signatures, err
			}
			profiles++
		}

		if r.Float64() < signedRatio {
			sig := &models.Signature{
				UserID: user.ID,
				Sig:    fakeSignature(user),
			}
			if err := s.db.Create(sig).Error; err != nil {
				return profiles, signatures, err
			}
			signatures++
		}
	}
	return profiles, signatures, nil
}

// fakeSignature produces a data-URL-shaped payload the way the canvas on
// the signing page submits one.
func fakeSignature(user *models.User) string {
	return fmt.Sprintf("data:image/png;base64,%s%s",
		gofakeit.LetterN(24), strings.ToLower(user.First))
}
