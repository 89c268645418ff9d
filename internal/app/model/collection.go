package model

import "time"

// Collection is an ordered grouping of products, optionally scoped to a product type.
type Collection struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	Description   string    `gorm:"type:text" json:"description"`
	Image         string    `gorm:"type:varchar(500)" json:"image"`
	ProductTypeID *uint     `gorm:"index" json:"product_type_id"`
	IsActive      bool      `gorm:"not null" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	SoftDelete

	ProductType *ProductType        `gorm:"foreignKey:ProductTypeID" json:"product_type,omitempty"`
	Products    []CollectionProduct `gorm:"foreignKey:CollectionID" json:"products,omitempty"`
}

func (Collection) TableName() string {
	return "collections"
}

type CollectionProduct struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CollectionID uint      `gorm:"not null;uniqueIndex:idx_collection_products_pair,where:is_deleted = false" json:"collection_id"`
	ProductID    uint      `gorm:"not null;uniqueIndex:idx_collection_products_pair,where:is_deleted = false;index" json:"product_id"`
	Position     int       `gorm:"not null;default:0" json:"position"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	SoftDelete

	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (CollectionProduct) TableName() string {
	return "collection_products"
}
