package domain

import "time"

// Tag labels artist bases for search. Names are unique per account,
// compared case-insensitively.
type Tag struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"index;size:64"`
	Name      string `gorm:"size:128"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
