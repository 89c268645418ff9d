package dto

import (
	"time"

	"github.com/ikkim/shopadmin-backend/internal/app/model"
	"github.com/ikkim/shopadmin-backend/internal/app/repository"
)

type ProductTypeResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	AllowedTypes []string  `json:"allowed_types"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewProductTypeResponse(pt *model.ProductType) ProductTypeResponse {
	return ProductTypeResponse{
		ID:           pt.ID,
		Name:         pt.Name,
		Description:  pt.Description,
		AllowedTypes: stringList(pt.AllowedTypes),
		CreatedAt:    pt.CreatedAt,
		UpdatedAt:    pt.UpdatedAt,
	}
}

func NewProductTypeResponses(types []model.ProductType) []ProductTypeResponse {
	out := make([]ProductTypeResponse, 0, len(types))
	for i := range types {
		out = append(out, NewProductTypeResponse(&types[i]))
	}
	return out
}

type ProductResponse struct {
	ID              uint                   `json:"id"`
	Name            string                 `json:"name"`
	Description     string                 `json:"description"`
	Price           string                 `json:"price"`
	Stock           int                    `json:"stock"`
	ProductTypeID   uint                   `json:"product_type_id"`
	ProductTypeName string                 `json:"product_type_name"`
	Images          []string               `json:"images"`
	ExtraProperties map[string]interface{} `json:"extra_properties"`
	IsFeatured      bool                   `json:"is_featured"`
	IsActive        bool                   `json:"is_active"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

func NewProductResponse(p *model.Product) ProductResponse {
	return ProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Price:           Money(p.Price),
		Stock:           p.Stock,
		ProductTypeID:   p.ProductTypeID,
		ProductTypeName: p.ProductType.Name,
		Images:          stringList(p.Images),
		ExtraProperties: jsonObject(p.ExtraProperties),
		IsFeatured:      p.IsFeatured,
		IsActive:        p.IsActive,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func NewProductResponses(products []model.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, NewProductResponse(&products[i]))
	}
	return out
}

type ProductAvailabilityResponse struct {
	ProductID         uint `json:"product_id"`
	Stock             int  `json:"stock"`
	RequestedQuantity int  `json:"requested_quantity"`
	Available         bool `json:"available"`
	IsActive          bool `json:"is_active"`
}

type ProductStatsResponse struct {
	TotalProducts      int64                         `json:"total_products"`
	ActiveProducts     int64                         `json:"active_products"`
	FeaturedProducts   int64                         `json:"featured_products"`
	OutOfStockProducts int64                         `json:"out_of_stock_products"`
	LowStockProducts   int64                         `json:"low_stock_products"`
	TotalStock         int64                         `json:"total_stock"`
	InventoryValue     string                        `json:"inventory_value"`
	ByProductType      []repository.ProductTypeCount `json:"by_product_type"`
}

func NewProductStatsResponse(s *repository.ProductStats) ProductStatsResponse {
	byType := s.ByType
	if byType == nil {
		byType = []repository.ProductTypeCount{}
	}
	return ProductStatsResponse{
		TotalProducts:      s.Total,
		ActiveProducts:     s.Active,
		FeaturedProducts:   s.Featured,
		OutOfStockProducts: s.OutOfStock,
		LowStockProducts:   s.LowStock,
		TotalStock:         s.TotalStock,
		InventoryValue:     Money(s.InventoryValue),
		ByProductType:      byType,
	}
}

// StockUpdateResult reports the outcome for one product of a bulk stock update.
type StockUpdateResult struct {
	ProductID uint   `json:"product_id"`
	Stock     int    `json:"stock"`
	Updated   bool   `json:"updated"`
	Error     string `json:"error,omitempty"`
}
