package dto

import (
	"time"

	"github.com/ikkim/shopadmin-backend/internal/app/model"
)

type CollectionProductResponse struct {
	ProductResponse
	Position int `json:"position"`
}

type CollectionResponse struct {
	ID              uint                        `json:"id"`
	Name            string                      `json:"name"`
	Description     string                      `json:"description"`
	Image           string                      `json:"image"`
	ProductTypeID   *uint                       `json:"product_type_id"`
	ProductTypeName string                      `json:"product_type_name,omitempty"`
	IsActive        bool                        `json:"is_active"`
	ProductCount    int                         `json:"product_count"`
	Products        []CollectionProductResponse `json:"products"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
}

func NewCollectionProductResponses(items []model.CollectionProduct) []CollectionProductResponse {
	out := make([]CollectionProductResponse, 0, len(items))
	for i := range items {
		if items[i].Product.ID == 0 {
			continue
		}
		out = append(out, CollectionProductResponse{
			ProductResponse: NewProductResponse(&items[i].Product),
			Position:        items[i].Position,
		})
	}
	return out
}

// NewCollectionResponse maps the collection with the given join rows as its products.
func NewCollectionResponse(c *model.Collection, items []model.CollectionProduct) CollectionResponse {
	products := NewCollectionProductResponses(items)
	resp := CollectionResponse{
		ID:            c.ID,
		Name:          c.Name,
		Description:   c.Description,
		Image:         c.Image,
		ProductTypeID: c.ProductTypeID,
		IsActive:      c.IsActive,
		ProductCount:  len(products),
		Products:      products,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
	if c.ProductType != nil {
		resp.ProductTypeName = c.ProductType.Name
	}
	return resp
}
