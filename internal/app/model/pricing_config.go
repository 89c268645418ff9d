package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricingConfig bounds product prices, globally when ProductTypeID is nil.
type PricingConfig struct {
	ID            uint                `gorm:"primarykey" json:"id"`
	MinPrice      decimal.Decimal     `gorm:"type:decimal(10,2);not null;default:0" json:"min_price"`
	MaxPrice      decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"max_price"`
	ProductTypeID *uint               `gorm:"index" json:"product_type_id"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	SoftDelete

	ProductType *ProductType `gorm:"foreignKey:ProductTypeID" json:"product_type,omitempty"`
}

func (PricingConfig) TableName() string {
	return "pricing_configs"
}
