package service

import (
	"context"
	"errors"

	"github.com/ikkim/shopadmin-backend/internal/app/dto"
	"github.com/ikkim/shopadmin-backend/internal/app/model"
	"github.com/ikkim/shopadmin-backend/internal/app/repository"
	apperrors "github.com/ikkim/shopadmin-backend/internal/errors"
	"github.com/ikkim/shopadmin-backend/internal/websocket"
	"github.com/ikkim/shopadmin-backend/pkg/logger"
	"github.com/ikkim/shopadmin-backend/pkg/notify"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrProductNotFound = apperrors.NotFound("Product")

const (
	defaultFeaturedLimit = 10
	defaultSimilarLimit  = 5
	maxSimilarLimit      = 50
)

type ProductListQuery struct {
	PageQuery
	SortBy        string   `form:"sort_by" binding:"omitempty,oneof=created_at updated_at name price stock"`
	SortOrder     string   `form:"sort_order" binding:"omitempty,oneof=asc desc"`
	ProductTypeID *uint    `form:"product_type_id" binding:"omitempty,min=1"`
	MinPrice      *float64 `form:"min_price" binding:"omitempty,gte=0"`
	MaxPrice      *float64 `form:"max_price" binding:"omitempty,gte=0"`
	Search        string   `form:"search" binding:"omitempty,max=100"`
	InStock       *bool    `form:"in_stock"`
	IsFeatured    *bool    `form:"is_featured"`
}

type ProductInput struct {
	Name            string                 `json:"name" binding:"required,min=1,max=255"`
	Description     string                 `json:"description" binding:"omitempty,max=5000"`
	Price           *decimal.Decimal       `json:"price" binding:"required"`
	Stock           *int                   `json:"stock" binding:"required,min=0"`
	ProductTypeID   uint                   `json:"product_type_id" binding:"required,min=1"`
	Images          []string               `json:"images" binding:"omitempty,max=20,dive,required,max=500"`
	ExtraProperties map[string]interface{} `json:"extra_properties"`
	IsFeatured      *bool                  `json:"is_featured"`
	IsActive        *bool                  `json:"is_active"`
}

// ProductPatch changes only the fields that are present.
type ProductPatch struct {
	Name            *string                `json:"name" binding:"omitempty,min=1,max=255"`
	Description     *string                `json:"description" binding:"omitempty,max=5000"`
	Price           *decimal.Decimal       `json:"price"`
	Stock           *int                   `json:"stock" binding:"omitempty,min=0"`
	ProductTypeID   *uint                  `json:"product_type_id" binding:"omitempty,min=1"`
	Images          []string               `json:"images" binding:"omitempty,max=20,dive,required,max=500"`
	ExtraProperties map[string]interface{} `json:"extra_properties"`
	IsFeatured      *bool                  `json:"is_featured"`
	IsActive        *bool                  `json:"is_active"`
}

type StockUpdate struct {
	ProductID uint `json:"product_id" binding:"required,min=1"`
	Stock     *int `json:"stock" binding:"required,min=0"`
}

type BulkStockInput struct {
	Updates []StockUpdate `json:"updates" binding:"required,min=1,max=100,dive"`
}

type ProductService interface {
	List(query ProductListQuery) ([]dto.ProductResponse, dto.Pagination, error)
	Featured(limit int) ([]dto.ProductResponse, error)
	ByType(productTypeID uint, query PageQuery) ([]dto.ProductResponse, dto.Pagination, error)
	Get(id uint) (*dto.ProductResponse, error)
	Similar(id uint, priceRangePct *float64, limit int) ([]dto.ProductResponse, error)
	Availability(id uint, quantity int) (*dto.ProductAvailabilityResponse, error)
	LowStock(threshold *int) ([]dto.ProductResponse, error)
	Stats() (*dto.ProductStatsResponse, error)
	BulkUpdateStock(input BulkStockInput) ([]dto.StockUpdateResult, error)
	Create(input ProductInput) (*dto.ProductResponse, error)
	Update(id uint, input ProductInput) (*dto.ProductResponse, error)
	Patch(id uint, patch ProductPatch) (*dto.ProductResponse, error)
	Delete(id uint) error
	// ReportLowStock emails the low stock digest and returns how many products it listed.
	ReportLowStock(ctx context.Context) (int, error)
}

type ProductServiceConfig struct {
	LowStockThreshold int
	ReportRecipient   string
}

type productService struct {
	db              *gorm.DB
	productRepo     repository.ProductRepository
	productTypeRepo repository.ProductTypeRepository
	pricingRepo     repository.PricingConfigRepository
	mailer          notify.Mailer
	events          EventPublisher
	cfg             ProductServiceConfig
}

func NewProductService(
	db *gorm.DB,
	productRepo repository.ProductRepository,
	productTypeRepo repository.ProductTypeRepository,
	pricingRepo repository.PricingConfigRepository,
	mailer notify.Mailer,
	events EventPublisher,
	cfg ProductServiceConfig,
) ProductService {
	return &productService{
		db:              db,
		productRepo:     productRepo,
		productTypeRepo: productTypeRepo,
		pricingRepo:     pricingRepo,
		mailer:          mailer,
		events:          publisherOrNoop(events),
		cfg:             cfg,
	}
}

func (s *productService) List(query ProductListQuery) ([]dto.ProductResponse, dto.Pagination, error) {
	page := query.Normalize()
	filter := repository.ProductFilter{
		ProductTypeID: query.ProductTypeID,
		Search:        query.Search,
		InStock:       query.InStock,
		Featured:      query.IsFeatured,
		SortBy:        repository.ProductSort(query.SortBy),
		SortOrder:     repository.SortOrder(query.SortOrder),
		Page:          page,
	}
	if query.MinPrice != nil {
		min := decimal.NewFromFloat(*query.MinPrice)
		filter.MinPrice = &min
	}
	if query.MaxPrice != nil {
		max := decimal.NewFromFloat(*query.MaxPrice)
		filter.MaxPrice = &max
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, dto.Pagination{}, apperrors.Validation("min_price must be less than or equal to max_price")
	}

	products, total, err := s.productRepo.List(filter)
	if err != nil {
		return nil, dto.Pagination{}, apperrors.FromDB(err, "Product")
	}
	return dto.NewProductResponses(products), pagination(page, total), nil
}

func (s *productService) Featured(limit int) ([]dto.ProductResponse, error) {
	if limit <= 0 {
		limit = defaultFeaturedLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	featured := true
	products, _, err := s.productRepo.List(repository.ProductFilter{
		Featured:   &featured,
		ActiveOnly: true,
		Page:       repository.Page{Number: 1, Limit: limit},
	})
	if err != nil {
		return nil, apperrors.FromDB(err, "Product")
	}
	return dto.NewProductResponses(products), nil
}

func (s *productService) ByType(productTypeID uint, query PageQuery) ([]dto.ProductResponse, dto.Pagination, error) {
	if _, err := s.productTypeRepo.FindByID(productTypeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, dto.Pagination{}, ErrProductTypeNotFound
		}
		return nil, dto.Pagination{}, apperrors.FromDB(err, "Product type")
	}
	return s.List(ProductListQuery{PageQuery: query, ProductTypeID: &productTypeID})
}

func (s *productService) find(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, apperrors.FromDB(err, "Product")
	}
	return product, nil
}

func (s *productService) Get(id uint) (*dto.ProductResponse, error) {
	product, err := s.find(id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewProductResponse(product)
	return &resp, nil
}

func (s *productService) Similar(id uint, priceRangePct *float64, limit int) ([]dto.ProductResponse, error) {
	product, err := s.find(id)
	if err != nil {
		return nil, err
	}

	query := repository.SimilarQuery{
		ProductTypeID: product.ProductTypeID,
		ExcludeIDs:    []uint{product.ID},
		Limit:         clampSimilarLimit(limit),
	}
	if priceRangePct != nil {
		query.MinPrice, query.MaxPrice = priceWindow(product.Price, *priceRangePct)
	}

	similar, err := s.productRepo.FindSimilar(query)
	if err != nil {
		return nil, apperrors.FromDB(err, "Product")
	}
	return dto.NewProductResponses(similar), nil
}

func clampSimilarLimit(limit int) int {
	if limit <= 0 {
		return defaultSimilarLimit
	}
	if limit > maxSimilarLimit {
		return maxSimilarLimit
	}
	return limit
}

// priceWindow returns price ± pct percent, floored at zero.
func priceWindow(price decimal.Decimal, pct float64) (*decimal.Decimal, *decimal.Decimal) {
	delta := price.Mul(decimal.NewFromFloat(pct)).Div(decimal.NewFromInt(100))
	min := price.Sub(delta)
	if min.IsNegative() {
		min = decimal.Zero
	}
	max := price.Add(delta)
	return &min, &max
}

func (s *productService) Availability(id uint, quantity int) (*dto.ProductAvailabilityResponse, error) {
	if quantity <= 0 {
		quantity = 1
	}
	product, err := s.find(id)
	if err != nil {
		return nil, err
	}
	return &dto.ProductAvailabilityResponse{
		ProductID:         product.ID,
		Stock:             product.Stock,
		RequestedQuantity: quantity,
		Available:         product.IsActive && product.Stock >= quantity,
		IsActive:          product.IsActive,
	}, nil
}

func (s *productService) threshold(override *int) int {
	if override != nil && *override >= 0 {
		return *override
	}
	return s.cfg.LowStockThreshold
}

func (s *productService) LowStock(threshold *int) ([]dto.ProductResponse, error) {
	products, err := s.productRepo.FindLowStock(s.threshold(threshold))
	if err != nil {
		return nil, apperrors.FromDB(err, "Product")
	}
	return dto.NewProductResponses(products), nil
}

func (s *productService) Stats() (*dto.ProductStatsResponse, error) {
	stats, err := s.productRepo.Stats(s.cfg.LowStockThreshold)
	if err != nil {
		return nil, apperrors.FromDB(err, "Product")
	}
	resp := dto.NewProductStatsResponse(stats)
	return &resp, nil
}

func (s *productService) BulkUpdateStock(input BulkStockInput) ([]dto.StockUpdateResult, error) {
	results := make([]dto.StockUpdateResult, 0, len(input.Updates))
	var lowStock []dto.StockUpdateResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.productRepo.WithTx(tx)
		for _, u := range input.Updates {
			result := dto.StockUpdateResult{ProductID: u.ProductID, Stock: *u.Stock}
			updated, err := repo.SetStock(u.ProductID, *u.Stock)
			if err != nil {
				return err
			}
			result.Updated = updated
			if !updated {
				result.Error = ErrProductNotFound.Message
			} else if *u.Stock <= s.cfg.LowStockThreshold {
				lowStock = append(lowStock, result)
			}
			results = append(results, result)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.FromDB(err, "Product")
	}

	for _, r := range lowStock {
		s.events.Publish(websocket.EventProductLowStock, map[string]interface{}{
			"product_id": r.ProductID,
			"stock":      r.Stock,
			"threshold":  s.cfg.LowStockThreshold,
		})
	}
	logger.Info("Bulk stock update completed", map[string]interface{}{
		"requested": len(input.Updates),
		"low_stock": len(lowStock),
	})
	return results, nil
}

func (s *productService) requireProductType(id uint) (*model.ProductType, error) {
	pt, err := s.productTypeRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Validation("product_type_id does not reference an existing product type")
	}
	if err != nil {
		return nil, apperrors.FromDB(err, "Product type")
	}
	return pt, nil
}

// checkPriceBounds enforces the effective pricing config for the product type.
func (s *productService) checkPriceBounds(price decimal.Decimal, productTypeID uint) error {
	if s.pricingRepo == nil {
		return nil
	}
	cfg, err := effectivePricingConfig(s.pricingRepo, &productTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return apperrors.FromDB(err, "Pricing config")
	}
	if price.LessThan(cfg.MinPrice) {
		return apperrors.Validation("price must be at least " + dto.Money(cfg.MinPrice))
	}
	if cfg.MaxPrice.Valid && price.GreaterThan(cfg.MaxPrice.Decimal) {
		return apperrors.Validation("price must be at most " + dto.Money(cfg.MaxPrice.Decimal))
	}
	return nil
}

func (s *productService) validatePrice(price *decimal.Decimal, productTypeID uint) error {
	if err := requirePositive("price", price); err != nil {
		return err
	}
	if err := requireMaxScale("price", *price); err != nil {
		return err
	}
	return s.checkPriceBounds(*price, productTypeID)
}

func (s *productService) Create(input ProductInput) (*dto.ProductResponse, error) {
	pt, err := s.requireProductType(input.ProductTypeID)
	if err != nil {
		return nil, err
	}
	if err := s.validatePrice(input.Price, input.ProductTypeID); err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:            input.Name,
		Description:     input.Description,
		Price:           *input.Price,
		Stock:           *input.Stock,
		ProductTypeID:   input.ProductTypeID,
		Images:          input.Images,
		ExtraProperties: input.ExtraProperties,
		IsActive:        true,
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, apperrors.FromDB(err, "Product")
	}
	product.ProductType = *pt

	logger.Info("Product created", map[string]interface{}{
		"product_id":      product.ID,
		"product_type_id": product.ProductTypeID,
	})
	resp := dto.NewProductResponse(product)
	return &resp, nil
}

func (s *productService) Update(id uint, input ProductInput) (*dto.ProductResponse, error) {
	product, err := s.find(id)
	if err != nil {
		return nil, err
	}
	pt, err := s.requireProductType(input.ProductTypeID)
	if err != nil {
		return nil, err
	}
	if err := s.validatePrice(input.Price, input.ProductTypeID); err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Price = *input.Price
	product.Stock = *input.Stock
	product.ProductTypeID = input.ProductTypeID
	product.Images = input.Images
	product.ExtraProperties = input.ExtraProperties
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	return s.save(product, pt)
}

func (s *productService) Patch(id uint, patch ProductPatch) (*dto.ProductResponse, error) {
	product, err := s.find(id)
	if err != nil {
		return nil, err
	}

	pt := &product.ProductType
	if patch.ProductTypeID != nil && *patch.ProductTypeID != product.ProductTypeID {
		if pt, err = s.requireProductType(*patch.ProductTypeID); err != nil {
			return nil, err
		}
		product.ProductTypeID = *patch.ProductTypeID
	}
	if patch.Price != nil || patch.ProductTypeID != nil {
		price := product.Price
		if patch.Price != nil {
			price = *patch.Price
		}
		if err := s.validatePrice(&price, product.ProductTypeID); err != nil {
			return nil, err
		}
		product.Price = price
	}
	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Stock != nil {
		product.Stock = *patch.Stock
	}
	if patch.Images != nil {
		product.Images = patch.Images
	}
	if patch.ExtraProperties != nil {
		product.ExtraProperties = patch.ExtraProperties
	}
	if patch.IsFeatured != nil {
		product.IsFeatured = *patch.IsFeatured
	}
	if patch.IsActive != nil {
		product.IsActive = *patch.IsActive
	}

	return s.save(product, pt)
}

func (s *productService) save(product *model.Product, pt *model.ProductType) (*dto.ProductResponse, error) {
	if err := s.productRepo.Update(product); err != nil {
		return nil, apperrors.FromDB(err, "Product")
	}
	product.ProductType = *pt

	if product.Stock <= s.cfg.LowStockThreshold {
		s.events.Publish(websocket.EventProductLowStock, map[string]interface{}{
			"product_id": product.ID,
			"name":       product.Name,
			"stock":      product.Stock,
			"threshold":  s.cfg.LowStockThreshold,
		})
	}

	logger.Info("Product updated", map[string]interface{}{
		"product_id": product.ID,
	})
	resp := dto.NewProductResponse(product)
	return &resp, nil
}

func (s *productService) Delete(id uint) error {
	found, err := s.productRepo.Delete(id)
	if err != nil {
		return apperrors.FromDB(err, "Product")
	}
	if !found {
		return ErrProductNotFound
	}
	logger.Info("Product deleted", map[string]interface{}{
		"product_id": id,
	})
	return nil
}

func (s *productService) ReportLowStock(ctx context.Context) (int, error) {
	products, err := s.productRepo.FindLowStock(s.cfg.LowStockThreshold)
	if err != nil {
		return 0, err
	}
	if len(products) == 0 {
		logger.Info("No low stock products to report")
		return 0, nil
	}

	items := make([]notify.LowStockItem, 0, len(products))
	for _, p := range products {
		items = append(items, notify.LowStockItem{ID: p.ID, Name: p.Name, Stock: p.Stock})
	}

	s.events.Publish(websocket.EventProductLowStock, map[string]interface{}{
		"count":     len(items),
		"threshold": s.cfg.LowStockThreshold,
		"products":  items,
	})

	if s.mailer != nil && s.cfg.ReportRecipient != "" {
		msg, err := notify.LowStockEmail(s.cfg.ReportRecipient, s.cfg.LowStockThreshold, items)
		if err != nil {
			return len(items), err
		}
		if err := s.mailer.Send(ctx, msg); err != nil {
			return len(items), err
		}
	}

	logger.Info("Low stock report sent", map[string]interface{}{
		"count":     len(items),
		"recipient": s.cfg.ReportRecipient,
	})
	return len(items), nil
}
