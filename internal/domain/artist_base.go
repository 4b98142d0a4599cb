package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ArtistBase is a reusable template asset: a display image, an optional
// source file (PSD), a price, and a set of tags used for search.
type ArtistBase struct {
	ID            uint   `gorm:"primaryKey"`
	UserID        string `gorm:"index;size:64"`
	ArtistID      *uint  `gorm:"index"`
	Artist        *Artist
	Name          string `gorm:"size:256"`
	Description   string
	Price         decimal.Decimal `gorm:"type:decimal(10,2)"`
	ImageKey      string          `gorm:"size:256"`
	SourceFileKey string          `gorm:"size:256"`
	Tags          []Tag           `gorm:"many2many:artist_base_tags"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
