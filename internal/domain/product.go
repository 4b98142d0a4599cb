package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable catalog item, optionally derived from an artist base.
type Product struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      string `gorm:"index;size:64"`
	ArtistID    *uint  `gorm:"index"`
	Artist      *Artist
	BaseID      *uint `gorm:"index"`
	Base        *ArtistBase
	Name        string `gorm:"size:256"`
	Description string
	Price       decimal.Decimal `gorm:"type:decimal(10,2)"`
	AdImageKey  string          `gorm:"size:256"`
	Available   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
