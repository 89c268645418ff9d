package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bundle is a named, optionally discounted grouping of products.
type Bundle struct {
	ID                 uint                `gorm:"primarykey" json:"id"`
	Name               string              `gorm:"type:varchar(255);not null" json:"name"`
	Description        string              `gorm:"type:text" json:"description"`
	DiscountPercentage decimal.NullDecimal `gorm:"type:decimal(5,2)" json:"discount_percentage"`
	IsActive           bool                `gorm:"not null" json:"is_active"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
	SoftDelete

	Products []BundleProduct `gorm:"foreignKey:BundleID" json:"products,omitempty"`
}

func (Bundle) TableName() string {
	return "bundles"
}

// BundleProduct joins a bundle to a product; the pair is unique among non-deleted rows.
type BundleProduct struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	BundleID  uint      `gorm:"not null;uniqueIndex:idx_bundle_products_pair,where:is_deleted = false" json:"bundle_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_bundle_products_pair,where:is_deleted = false;index" json:"product_id"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	SoftDelete

	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (BundleProduct) TableName() string {
	return "bundle_products"
}
