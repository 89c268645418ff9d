package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every valid status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// Order is placed by a customer (UserID set) or a guest (UserID nil).
type Order struct {
	ID               uint            `gorm:"primarykey" json:"id"`
	UserID           *uint           `gorm:"index" json:"user_id"`
	CustomerName     string          `gorm:"type:varchar(100)" json:"customer_name"`
	CustomerEmail    string          `gorm:"type:varchar(255);index" json:"customer_email"`
	CustomerPhone    string          `gorm:"type:varchar(30)" json:"customer_phone"`
	ShippingAddress  string          `gorm:"type:text" json:"shipping_address"`
	DeliveryOptionID *uint           `gorm:"index" json:"delivery_option_id"`
	DeliveryPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"delivery_price"`
	Quantity         int             `gorm:"not null" json:"quantity"`
	TotalPrice       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
	Status           OrderStatus     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Reference        string          `gorm:"type:varchar(40);not null;uniqueIndex" json:"reference"`
	Notes            string          `gorm:"type:text" json:"notes"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	SoftDelete

	Items          []OrderItem     `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	DeliveryOption *DeliveryOption `gorm:"foreignKey:DeliveryOptionID" json:"delivery_option,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem snapshots the product price at the time the order was placed.
type OrderItem struct {
	ID        uint              `gorm:"primarykey" json:"id"`
	OrderID   uint              `gorm:"not null;index" json:"order_id"`
	ProductID uint              `gorm:"not null;index" json:"product_id"`
	Quantity  int               `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"price"`
	Metadata  datatypes.JSONMap `json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	SoftDelete

	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
