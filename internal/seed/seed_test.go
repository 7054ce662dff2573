package seed

import (
	"strings"
	"testing"

	"petition/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Profile{}, &models.Signature{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestSeed(t *testing.T) {
	db := openTestDB(t)

	err := Seed(db, Options{NumUsers: 20, SignedRatio: 0.5})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	var userCount int64
	if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if userCount != 20 {
		t.Fatalf("expected 20 users, got %d", userCount)
	}

	var user models.User
	if err := db.First(&user).Error; err != nil {
		t.Fatalf("read user: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")); err != nil {
		t.Fatalf("demo password does not verify: %v", err)
	}

	var sigCount int64
	if err := db.Model(&models.Signature{}).Distinct("user_id").Count(&sigCount).Error; err != nil {
		t.Fatalf("count signatures: %v", err)
	}
	var sigTotal int64
	if err := db.Model(&models.Signature{}).Count(&sigTotal).Error; err != nil {
		t.Fatalf("count signatures: %v", err)
	}
	if sigCount != sigTotal {
		t.Fatalf("expected one signature per user, got %d rows for %d users", sigTotal, sigCount)
	}

	var profiles []models.Profile
	if err := db.Find(&profiles).Error; err != nil {
		t.Fatalf("read profiles: %v", err)
	}
	for _, p := range profiles {
		if p.City != strings.ToLower(p.City) {
			t.Fatalf("city %q is not lower-cased", p.City)
		}
	}
}

func TestSeedClean(t *testing.T) {
	db := openTestDB(t)

	if err := Seed(db, Options{NumUsers: 5, SignedRatio: 1}); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := Seed(db, Options{NumUsers: 3, SignedRatio: 1, ShouldClean: true}); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	var userCount int64
	if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if userCount != 3 {
		t.Fatalf("expected clean run to leave 3 users, got %d", userCount)
	}
}
