package service

import (
	"errors"

	"github.com/ikkim/shopadmin-backend/internal/app/dto"
	"github.com/ikkim/shopadmin-backend/internal/app/model"
	"github.com/ikkim/shopadmin-backend/internal/app/repository"
	apperrors "github.com/ikkim/shopadmin-backend/internal/errors"
	"github.com/ikkim/shopadmin-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrBundleNotFound         = apperrors.NotFound("Bundle")
	ErrBundleProductNotFound  = apperrors.NotFound("Bundle product")
	ErrProductAlreadyInBundle = apperrors.Conflict("Product is already in this bundle")
)

var hundred = decimal.NewFromInt(100)

type BundleItemInput struct {
	ProductID uint `json:"product_id" binding:"required,min=1"`
	Quantity  int  `json:"quantity" binding:"omitempty,min=1,max=1000"`
}

type BundleInput struct {
	Name               string            `json:"name" binding:"required,min=1,max=255"`
	Description        string            `json:"description" binding:"omitempty,max=5000"`
	DiscountPercentage *decimal.Decimal  `json:"discount_percentage"`
	IsActive           *bool             `json:"is_active"`
	Products           []BundleItemInput `json:"products" binding:"omitempty,max=100,dive"`
}

type BundleProductsInput struct {
	Products []BundleItemInput `json:"products" binding:"required,min=1,max=100,dive"`
}

type BundleQuantityInput struct {
	Quantity int `json:"quantity" binding:"required,min=1,max=1000"`
}

type BundleListQuery struct {
	PageQuery
	Search   string `form:"search" binding:"omitempty,max=100"`
	IsActive *bool  `form:"is_active"`
}

type BundleService interface {
	List(query BundleListQuery) ([]dto.BundleResponse, dto.Pagination, error)
	Get(id uint) (*dto.BundleResponse, error)
	Price(id uint) (*dto.BundlePriceResponse, error)
	Stats() (*repository.BundleStats, error)
	// SimilarProducts ranks products sharing bundles with productID, topped up with
	// products of the same type.
	SimilarProducts(productID uint, limit int) ([]dto.SimilarProductResponse, error)
	Create(input BundleInput) (*dto.BundleResponse, error)
	Update(id uint, input BundleInput) (*dto.BundleResponse, error)
	Delete(id uint) error
	AddProduct(bundleID uint, item BundleItemInput) (*dto.BundleResponse, error)
	AddProducts(bundleID uint, items []BundleItemInput) (*dto.BundleResponse, error)
	UpdateProductQuantity(bundleID, productID uint, quantity int) (*dto.BundleResponse, error)
	RemoveProduct(bundleID, productID uint) error
}

type bundleService struct {
	db          *gorm.DB
	bundleRepo  repository.BundleRepository
	productRepo repository.ProductRepository
}

func NewBundleService(db *gorm.DB, bundleRepo repository.BundleRepository, productRepo repository.ProductRepository) BundleService {
	return &bundleService{db: db, bundleRepo: bundleRepo, productRepo: productRepo}
}

// CalculateBundlePrice sums the live products of the bundle and applies its discount.
// Every amount is rounded to cents.
func CalculateBundlePrice(bundle *model.Bundle) dto.BundlePrice {
	original := decimal.Zero
	count := 0
	for _, item := range bundle.Products {
		if item.Product.ID == 0 {
			continue
		}
		original = original.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		count += item.Quantity
	}
	original = original.Round(2)

	pct := decimal.Zero
	if bundle.DiscountPercentage.Valid {
		pct = bundle.DiscountPercentage.Decimal
	}
	discount := original.Mul(pct).Div(hundred).Round(2)

	return dto.BundlePrice{
		BundleID:           bundle.ID,
		OriginalPrice:      original,
		DiscountPercentage: pct,
		DiscountAmount:     discount,
		FinalPrice:         original.Sub(discount).Round(2),
		ItemCount:          count,
	}
}

func (s *bundleService) List(query BundleListQuery) ([]dto.BundleResponse, dto.Pagination, error) {
	page := query.Normalize()
	bundles, total, err := s.bundleRepo.List(repository.BundleFilter{
		Search:   query.Search,
		IsActive: query.IsActive,
		Page:     page,
	})
	if err != nil {
		return nil, dto.Pagination{}, apperrors.FromDB(err, "Bundle")
	}
	return dto.NewBundleResponses(bundles), pagination(page, total), nil
}

func (s *bundleService) find(id uint) (*model.Bundle, error) {
	bundle, err := s.bundleRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBundleNotFound
	}
	if err != nil {
		return nil, apperrors.FromDB(err, "Bundle")
	}
	return bundle, nil
}

func (s *bundleService) respond(id uint) (*dto.BundleResponse, error) {
	bundle, err := s.find(id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewBundleResponse(bundle)
	return &resp, nil
}

func (s *bundleService) Get(id uint) (*dto.BundleResponse, error) {
	return s.respond(id)
}

func (s *bundleService) Price(id uint) (*dto.BundlePriceResponse, error) {
	bundle, err := s.find(id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewBundlePriceResponse(CalculateBundlePrice(bundle))
	return &resp, nil
}

func (s *bundleService) Stats() (*repository.BundleStats, error) {
	stats, err := s.bundleRepo.Stats()
	if err != nil {
		return nil, apperrors.FromDB(err, "Bundle")
	}
	return stats, nil
}

func (s *bundleService) SimilarProducts(productID uint, limit int) ([]dto.SimilarProductResponse, error) {
	limit = clampSimilarLimit(limit)
	product, err := s.productRepo.FindByID(productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, apperrors.FromDB(err, "Product")
	}

	ranked, err := s.bundleRepo.CooccurringProducts(productID, limit)
	if err != nil {
		return nil, apperrors.FromDB(err, "Bundle")
	}
	ids := make([]uint, 0, len(ranked))
	for _, r := range ranked {
		ids = append(ids, r.ProductID)
	}
	products, err := s.productRepo.FindByIDs(ids)
	if err != nil {
		return nil, apperrors.FromDB(err, "Product")
	}
	byID := make(map[uint]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	out := make([]dto.SimilarProductResponse, 0, limit)
	exclude := []uint{productID}
	for _, r := range ranked {
		p, ok := byID[r.ProductID]
		if !ok {
			continue
		}
		out = append(out, dto.SimilarProductResponse{
			ProductResponse: dto.NewProductResponse(p),
			SharedBundles:   r.SharedBundles,
		})
		exclude = append(exclude, p.ID)
	}

	if len(out) < limit {
		sameType, err := s.productRepo.FindSimilar(repository.SimilarQuery{
			ProductTypeID: product.ProductTypeID,
			ExcludeIDs:    exclude,
			Limit:         limit - len(out),
		})
		if err != nil {
			return nil, apperrors.FromDB(err, "Product")
		}
		for i := range sameType {
			out = append(out, dto.SimilarProductResponse{ProductResponse: dto.NewProductResponse(&sameType[i])})
		}
	}
	return out, nil
}

func validateDiscount(pct *decimal.Decimal) error {
	if pct == nil {
		return nil
	}
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return apperrors.Validation("discount_percentage must be between 0 and 100")
	}
	return requireMaxScale("discount_percentage", *pct)
}

// bundleItems checks that every product exists and appears once, defaulting quantity to 1.
func (s *bundleService) bundleItems(repo repository.ProductRepository, bundleID uint, items []BundleItemInput) ([]model.BundleProduct, error) {
	seen := make(map[uint]bool, len(items))
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		if seen[item.ProductID] {
			return nil, apperrors.Validation("products must not contain the same product twice")
		}
		seen[item.ProductID] = true
		ids = append(ids, item.ProductID)
	}

	found, err := repo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(found) != len(ids) {
		return nil, apperrors.Validation("products reference a product that does not exist")
	}

	rows := make([]model.BundleProduct, 0, len(items))
	for _, item := range items {
		quantity := item.Quantity
		if quantity == 0 {
			quantity = 1
		}
		rows = append(rows, model.BundleProduct{BundleID: bundleID, ProductID: item.ProductID, Quantity: quantity})
	}
	return rows, nil
}

func applyBundleInput(bundle *model.Bundle, input BundleInput) {
	bundle.Name = input.Name
	bundle.Description = input.Description
	bundle.DiscountPercentage = decimal.NullDecimal{}
	if input.DiscountPercentage != nil {
		bundle.DiscountPercentage = decimal.NewNullDecimal(*input.DiscountPercentage)
	}
	if input.IsActive != nil {
		bundle.IsActive = *input.IsActive
	}
}

func (s *bundleService) Create(input BundleInput) (*dto.BundleResponse, error) {
	if err := validateDiscount(input.DiscountPercentage); err != nil {
		return nil, err
	}
	bundle := &model.Bundle{IsActive: true}
	applyBundleInput(bundle, input)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.bundleRepo.WithTx(tx)
		if err := repo.Create(bundle); err != nil {
			return err
		}
		if len(input.Products) == 0 {
			return nil
		}
		rows, err := s.bundleItems(s.productRepo.WithTx(tx), bundle.ID, input.Products)
		if err != nil {
			return err
		}
		return repo.AddProducts(rows)
	})
	if err != nil {
		return nil, apperrors.FromDB(err, "Bundle")
	}

	logger.Info("Bundle created", map[string]interface{}{
		"bundle_id": bundle.ID,
		"products":  len(input.Products),
	})
	return s.respond(bundle.ID)
}

// Update replaces the bundle fields; a non-nil products list also replaces its membership.
func (s *bundleService) Update(id uint, input BundleInput) (*dto.BundleResponse, error) {
	if err := validateDiscount(input.DiscountPercentage); err != nil {
		return nil, err
	}
	bundle, err := s.find(id)
	if err != nil {
		return nil, err
	}
	applyBundleInput(bundle, input)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.bundleRepo.WithTx(tx)
		if err := repo.Update(bundle); err != nil {
			return err
		}
		if input.Products == nil {
			return nil
		}
		if _, err := repo.RemoveAllProducts(id); err != nil {
			return err
		}
		if len(input.Products) == 0 {
			return nil
		}
		rows, err := s.bundleItems(s.productRepo.WithTx(tx), id, input.Products)
		if err != nil {
			return err
		}
		return repo.AddProducts(rows)
	})
	if err != nil {
		return nil, apperrors.FromDB(err, "Bundle")
	}
	return s.respond(id)
}

func (s *bundleService) Delete(id uint) error {
	var found bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.bundleRepo.WithTx(tx)
		var err error
		if found, err = repo.Delete(id); err != nil || !found {
			return err
		}
		_, err = repo.RemoveAllProducts(id)
		return err
	})
	if err != nil {
		return apperrors.FromDB(err, "Bundle")
	}
	if !found {
		return ErrBundleNotFound
	}
	logger.Info("Bundle deleted", map[string]interface{}{
		"bundle_id": id,
	})
	return nil
}

func (s *bundleService) AddProduct(bundleID uint, item BundleItemInput) (*dto.BundleResponse, error) {
	return s.AddProducts(bundleID, []BundleItemInput{item})
}

// AddProducts adds every item or none. A product already in the bundle is a conflict.
func (s *bundleService) AddProducts(bundleID uint, items []BundleItemInput) (*dto.BundleResponse, error) {
	if _, err := s.find(bundleID); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.bundleRepo.WithTx(tx)
		rows, err := s.bundleItems(s.productRepo.WithTx(tx), bundleID, items)
		if err != nil {
			return err
		}
		for _, row := range rows {
			_, err := repo.FindProduct(bundleID, row.ProductID)
			if err == nil {
				return ErrProductAlreadyInBundle
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}
		return repo.AddProducts(rows)
	})
	if err != nil {
		return nil, apperrors.FromDB(err, "Bundle product")
	}
	return s.respond(bundleID)
}

func (s *bundleService) UpdateProductQuantity(bundleID, productID uint, quantity int) (*dto.BundleResponse, error) {
	if quantity < 1 {
		return nil, apperrors.Validation("quantity must be at least 1")
	}
	if _, err := s.find(bundleID); err != nil {
		return nil, err
	}
	updated, err := s.bundleRepo.UpdateProductQuantity(bundleID, productID, quantity)
	if err != nil {
		return nil, apperrors.FromDB(err, "Bundle product")
	}
	if !updated {
		return nil, ErrBundleProductNotFound
	}
	return s.respond(bundleID)
}

func (s *bundleService) RemoveProduct(bundleID, productID uint) error {
	if _, err := s.find(bundleID); err != nil {
		return err
	}
	removed, err := s.bundleRepo.RemoveProduct(bundleID, productID)
	if err != nil {
		return apperrors.FromDB(err, "Bundle product")
	}
	if !removed {
		return ErrBundleProductNotFound
	}
	return nil
}
