package model

import (
	"time"

	"gorm.io/datatypes"
)

type ProductType struct {
	ID           uint                        `gorm:"primarykey" json:"id"`
	Name         string                      `gorm:"type:varchar(100);not null;uniqueIndex:idx_product_types_name,where:is_deleted = false" json:"name"`
	Description  string                      `gorm:"type:text" json:"description"`
	AllowedTypes datatypes.JSONSlice[string] `json:"allowed_types"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
	SoftDelete
}

func (ProductType) TableName() string {
	return "product_types"
}
