package domain

import "time"

// Artist is a creator whose work can be attached to bases and products.
type Artist struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      string `gorm:"index;size:64"`
	Name        string `gorm:"size:256"`
	Description string
	SocialLink  string `gorm:"size:512"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
