package dto

import (
	"time"

	"github.com/ikkim/shopadmin-backend/internal/app/model"
)

type PricingConfigResponse struct {
	ID              uint      `json:"id"`
	MinPrice        string    `json:"min_price"`
	MaxPrice        *string   `json:"max_price"`
	ProductTypeID   *uint     `json:"product_type_id"`
	ProductTypeName string    `json:"product_type_name,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewPricingConfigResponse(p *model.PricingConfig) PricingConfigResponse {
	resp := PricingConfigResponse{
		ID:            p.ID,
		MinPrice:      Money(p.MinPrice),
		MaxPrice:      NullableMoney(p.MaxPrice),
		ProductTypeID: p.ProductTypeID,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.ProductType != nil {
		resp.ProductTypeName = p.ProductType.Name
	}
	return resp
}

func NewPricingConfigResponses(configs []model.PricingConfig) []PricingConfigResponse {
	out := make([]PricingConfigResponse, 0, len(configs))
	for i := range configs {
		out = append(out, NewPricingConfigResponse(&configs[i]))
	}
	return out
}

type DeliveryOptionResponse struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         string    `json:"price"`
	EstimatedDays int       `json:"estimated_days"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewDeliveryOptionResponse(d *model.DeliveryOption) DeliveryOptionResponse {
	return DeliveryOptionResponse{
		ID:            d.ID,
		Name:          d.Name,
		Description:   d.Description,
		Price:         Money(d.Price),
		EstimatedDays: d.EstimatedDays,
		IsActive:      d.IsActive,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func NewDeliveryOptionResponses(options []model.DeliveryOption) []DeliveryOptionResponse {
	out := make([]DeliveryOptionResponse, 0, len(options))
	for i := range options {
		out = append(out, NewDeliveryOptionResponse(&options[i]))
	}
	return out
}

type HomepageSettingResponse struct {
	ID                 uint              `json:"id"`
	SectionName        string            `json:"section_name"`
	SectionTitle       string            `json:"section_title"`
	SectionDescription string            `json:"section_description"`
	SectionPosition    int               `json:"section_position"`
	SectionImages      []string          `json:"section_images"`
	ProductIDs         []uint            `json:"product_ids"`
	Products           []ProductResponse `json:"products,omitempty"`
	IsActive           bool              `json:"is_active"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

func NewHomepageSettingResponse(h *model.HomepageSetting) HomepageSettingResponse {
	ids := []uint(h.ProductIDs)
	if ids == nil {
		ids = []uint{}
	}
	return HomepageSettingResponse{
		ID:                 h.ID,
		SectionName:        h.SectionName,
		SectionTitle:       h.SectionTitle,
		SectionDescription: h.SectionDescription,
		SectionPosition:    h.SectionPosition,
		SectionImages:      stringList(h.SectionImages),
		ProductIDs:         ids,
		IsActive:           h.IsActive,
		CreatedAt:          h.CreatedAt,
		UpdatedAt:          h.UpdatedAt,
	}
}

func NewHomepageSettingResponses(settings []model.HomepageSetting) []HomepageSettingResponse {
	out := make([]HomepageSettingResponse, 0, len(settings))
	for i := range settings {
		out = append(out, NewHomepageSettingResponse(&settings[i]))
	}
	return out
}

type MailingListEntryResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func NewMailingListEntryResponses(entries []model.MailingListEntry) []MailingListEntryResponse {
	out := make([]MailingListEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, MailingListEntryResponse{ID: e.ID, Email: e.Email, CreatedAt: e.CreatedAt})
	}
	return out
}
