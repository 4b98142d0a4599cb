package domain

import "time"

// User is an authenticated account. Accounts are created on first Google
// sign-in and linked by provider subject or e-mail address.
type User struct {
	ID          string `gorm:"primaryKey;size:64"`
	GoogleID    string `gorm:"uniqueIndex;size:128"`
	Email       string `gorm:"uniqueIndex;size:256"`
	DisplayName string `gorm:"size:256"`
	PictureURL  string `gorm:"size:512"`
	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
