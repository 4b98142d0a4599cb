package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CommissionType classifies a commission offering.
type CommissionType string

const (
	CommissionTypeDigital     CommissionType = "digital"
	CommissionTypeTraditional CommissionType = "traditional"
	CommissionTypeAnimation   CommissionType = "animation"
	CommissionTypeReference   CommissionType = "reference"
	CommissionTypeIcon        CommissionType = "icon"
	CommissionTypeCustom      CommissionType = "custom"
)

// ValidCommissionType reports whether the value is a known commission type.
func ValidCommissionType(t CommissionType) bool {
	switch t {
	case CommissionTypeDigital, CommissionTypeTraditional, CommissionTypeAnimation,
		CommissionTypeReference, CommissionTypeIcon, CommissionTypeCustom:
		return true
	default:
		return false
	}
}

// Commission is an advertised commission offering with limited slots.
type Commission struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      string `gorm:"index;size:64"`
	Name        string `gorm:"size:256"`
	Description string
	Price       decimal.Decimal `gorm:"type:decimal(10,2)"`
	Type        CommissionType  `gorm:"size:32"`
	Slots       int
	ArtistID    *uint `gorm:"index"`
	Artist      *Artist
	BaseID      *uint `gorm:"index"`
	Base        *ArtistBase
	AdImageURL  string `gorm:"size:512"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
