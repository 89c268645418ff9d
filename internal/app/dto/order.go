package dto

import (
	"time"

	"github.com/ikkim/shopadmin-backend/internal/app/model"
	"github.com/shopspring/decimal"
)

type OrderItemResponse struct {
	ID          uint                   `json:"id"`
	ProductID   uint                   `json:"product_id"`
	ProductName string                 `json:"product_name"`
	Quantity    int                    `json:"quantity"`
	Price       string                 `json:"price"`
	Subtotal    string                 `json:"subtotal"`
	Metadata    map[string]interface{} `json:"metadata"`
}

type OrderResponse struct {
	ID                 uint                `json:"id"`
	Reference          string              `json:"reference"`
	UserID             *uint               `json:"user_id"`
	CustomerName       string              `json:"customer_name"`
	CustomerEmail      string              `json:"customer_email"`
	CustomerPhone      string              `json:"customer_phone"`
	ShippingAddress    string              `json:"shipping_address"`
	DeliveryOptionID   *uint               `json:"delivery_option_id"`
	DeliveryOptionName string              `json:"delivery_option_name,omitempty"`
	DeliveryPrice      string              `json:"delivery_price"`
	Quantity           int                 `json:"quantity"`
	TotalPrice         string              `json:"total_price"`
	Status             string              `json:"status"`
	Notes              string              `json:"notes"`
	Items              []OrderItemResponse `json:"items"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

func NewOrderResponse(o *model.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			Quantity:    item.Quantity,
			Price:       Money(item.Price),
			Subtotal:    Money(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))),
			Metadata:    jsonObject(item.Metadata),
		})
	}

	resp := OrderResponse{
		ID:               o.ID,
		Reference:        o.Reference,
		UserID:           o.UserID,
		CustomerName:     o.CustomerName,
		CustomerEmail:    o.CustomerEmail,
		CustomerPhone:    o.CustomerPhone,
		ShippingAddress:  o.ShippingAddress,
		DeliveryOptionID: o.DeliveryOptionID,
		DeliveryPrice:    Money(o.DeliveryPrice),
		Quantity:         o.Quantity,
		TotalPrice:       Money(o.TotalPrice),
		Status:           string(o.Status),
		Notes:            o.Notes,
		Items:            items,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
	if o.DeliveryOption != nil {
		resp.DeliveryOptionName = o.DeliveryOption.Name
	}
	return resp
}

func NewOrderResponses(orders []model.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, NewOrderResponse(&orders[i]))
	}
	return out
}
