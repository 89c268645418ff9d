package model

import "time"

type Customer struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_customers_email,where:is_deleted = false" json:"email"`
	Phone        string    `gorm:"type:varchar(30)" json:"phone"`
	AddressLine1 string    `gorm:"type:varchar(255)" json:"address_line1"`
	AddressLine2 string    `gorm:"type:varchar(255)" json:"address_line2"`
	City         string    `gorm:"type:varchar(100)" json:"city"`
	State        string    `gorm:"type:varchar(100)" json:"state"`
	PostalCode   string    `gorm:"type:varchar(20)" json:"postal_code"`
	Country      string    `gorm:"type:varchar(100)" json:"country"`
	PasswordHash string    `gorm:"not null" json:"-"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	SoftDelete
}

func (Customer) TableName() string {
	return "customers"
}
