package domain

import "time"

// Customer is a commissioning client with per-platform contact handles.
type Customer struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      string `gorm:"index;size:64"`
	Name        string `gorm:"size:256"`
	Email       string `gorm:"size:256"`
	Discord     string `gorm:"size:256"`
	Twitter     string `gorm:"size:256"`
	Furaffinity string `gorm:"size:256"`
	Instagram   string `gorm:"size:256"`
	Telegram    string `gorm:"size:256"`
	OtherName   string `gorm:"size:256"`
	OtherLink   string `gorm:"size:512"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
