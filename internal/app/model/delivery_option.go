package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type DeliveryOption struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	Name          string          `gorm:"type:varchar(100);not null" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"price"`
	EstimatedDays int             `gorm:"not null;default:0" json:"estimated_days"`
	IsActive      bool            `gorm:"not null" json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	SoftDelete
}

func (DeliveryOption) TableName() string {
	return "delivery_options"
}
