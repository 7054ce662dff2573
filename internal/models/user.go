// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents a registered petition user.
type User struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	First     string     `gorm:"not null" json:"first"`
	Last      string     `gorm:"not null" json:"last"`
	Email     string     `gorm:"uniqueIndex;not null" json:"email"`
	Password  string     `gorm:"not null" json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Profile   *Profile   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
	Signature *Signature `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"signature,omitempty"`
}

// FullName returns the user's display name as rendered on the petition page.
func (u *User) FullName() string {
	return u.First + " " + u.Last
}
