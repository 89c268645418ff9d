package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Product struct {
	ID              uint                        `gorm:"primarykey" json:"id"`
	Name            string                      `gorm:"type:varchar(255);not null;index" json:"name"`
	Description     string                      `gorm:"type:text" json:"description"`
	Price           decimal.Decimal             `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock           int                         `gorm:"not null;default:0;check:chk_products_stock,stock >= 0" json:"stock"`
	ProductTypeID   uint                        `gorm:"not null;index" json:"product_type_id"`
	Images          datatypes.JSONSlice[string] `json:"images"`
	ExtraProperties datatypes.JSONMap           `json:"extra_properties"`
	IsFeatured      bool                        `gorm:"not null;default:false;index" json:"is_featured"`
	IsActive        bool                        `gorm:"not null" json:"is_active"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
	SoftDelete

	ProductType ProductType `gorm:"foreignKey:ProductTypeID" json:"product_type,omitempty"`
}

func (Product) TableName() string {
	return "products"
}
