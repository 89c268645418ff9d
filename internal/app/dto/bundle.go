package dto

import (
	"time"

	"github.com/ikkim/shopadmin-backend/internal/app/model"
	"github.com/shopspring/decimal"
)

type BundleProductResponse struct {
	ProductID       uint     `json:"product_id"`
	Name            string   `json:"name"`
	Price           string   `json:"price"`
	Quantity        int      `json:"quantity"`
	Stock           int      `json:"stock"`
	ProductTypeName string   `json:"product_type_name"`
	Images          []string `json:"images"`
}

type BundleResponse struct {
	ID                 uint                    `json:"id"`
	Name               string                  `json:"name"`
	Description        string                  `json:"description"`
	DiscountPercentage *string                 `json:"discount_percentage"`
	IsActive           bool                    `json:"is_active"`
	ProductCount       int                     `json:"product_count"`
	Products           []BundleProductResponse `json:"products"`
	CreatedAt          time.Time               `json:"created_at"`
	UpdatedAt          time.Time               `json:"updated_at"`
}

// NewBundleResponse skips join rows whose product is no longer live.
func NewBundleResponse(b *model.Bundle) BundleResponse {
	products := make([]BundleProductResponse, 0, len(b.Products))
	for _, item := range b.Products {
		if item.Product.ID == 0 {
			continue
		}
		products = append(products, BundleProductResponse{
			ProductID:       item.ProductID,
			Name:            item.Product.Name,
			Price:           Money(item.Product.Price),
			Quantity:        item.Quantity,
			Stock:           item.Product.Stock,
			ProductTypeName: item.Product.ProductType.Name,
			Images:          stringList(item.Product.Images),
		})
	}

	return BundleResponse{
		ID:                 b.ID,
		Name:               b.Name,
		Description:        b.Description,
		DiscountPercentage: NullableMoney(b.DiscountPercentage),
		IsActive:           b.IsActive,
		ProductCount:       len(products),
		Products:           products,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

func NewBundleResponses(bundles []model.Bundle) []BundleResponse {
	out := make([]BundleResponse, 0, len(bundles))
	for i := range bundles {
		out = append(out, NewBundleResponse(&bundles[i]))
	}
	return out
}

// BundlePrice holds the computed amounts for a bundle, already rounded to cents.
type BundlePrice struct {
	BundleID           uint
	OriginalPrice      decimal.Decimal
	DiscountPercentage decimal.Decimal
	DiscountAmount     decimal.Decimal
	FinalPrice         decimal.Decimal
	ItemCount          int
}

type BundlePriceResponse struct {
	BundleID           uint   `json:"bundle_id"`
	OriginalPrice      string `json:"original_price"`
	DiscountPercentage string `json:"discount_percentage"`
	DiscountAmount     string `json:"discount_amount"`
	FinalPrice         string `json:"final_price"`
	ItemCount          int    `json:"item_count"`
}

func NewBundlePriceResponse(p BundlePrice) BundlePriceResponse {
	return BundlePriceResponse{
		BundleID:           p.BundleID,
		OriginalPrice:      Money(p.OriginalPrice),
		DiscountPercentage: Money(p.DiscountPercentage),
		DiscountAmount:     Money(p.DiscountAmount),
		FinalPrice:         Money(p.FinalPrice),
		ItemCount:          p.ItemCount,
	}
}

// SimilarProductResponse is a product suggested alongside another, with how many bundles they share.
type SimilarProductResponse struct {
	ProductResponse
	SharedBundles int64 `json:"shared_bundles"`
}
