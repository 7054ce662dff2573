package models

// Profile holds the optional demographic fields attached one-to-one to a
// user. Age is a pointer: a nil age means the user never supplied one, and
// the column is left untouched on writes that omit it.
type Profile struct {
	UserID uint   `gorm:"primaryKey" json:"user_id"`
	Age    *int   `json:"age,omitempty"`
	City   string `json:"city"`
	URL    string `json:"url"`
}

// TableName keeps the legacy schema name.
func (Profile) TableName() string {
	return "user_profile"
}
