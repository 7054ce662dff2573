package models

import "time"

// Signature is a petition-sign event. The unique index on UserID enforces
// one signature per user at the schema level, so a concurrent or repeated
// submission surfaces as a constraint violation rather than a second row.
type Signature struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Sig       string    `gorm:"column:sig;type:text;not null" json:"sig"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName keeps the legacy schema name.
func (Signature) TableName() string {
	return "sig"
}

// Signer is the read model for the signer listings: a user joined with the
// signature table and (optionally) their profile.
type Signer struct {
	First string `json:"first"`
	Last  string `json:"last"`
	Age   *int   `json:"age,omitempty"`
	City  string `json:"city"`
	URL   string `json:"url"`
}
