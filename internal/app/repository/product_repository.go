package repository

import (
	"fmt"

	"github.com/ikkim/shopadmin-backend/internal/app/model"
	"github.com/ikkim/shopadmin-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductSort string

const (
	ProductSortCreatedAt ProductSort = "created_at"
	ProductSortUpdatedAt ProductSort = "updated_at"
	ProductSortName      ProductSort = "name"
	ProductSortPrice     ProductSort = "price"
	ProductSortStock     ProductSort = "stock"
)

type ProductFilter struct {
	ProductTypeID *uint
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	Search        string
	InStock       *bool
	Featured      *bool
	ActiveOnly    bool
	SortBy        ProductSort
	SortOrder     SortOrder
	Page          Page
}

// SimilarQuery selects products of one type, optionally inside a price window.
type SimilarQuery struct {
	ProductTypeID uint
	ExcludeIDs    []uint
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	Limit         int
}

type ProductTypeCount struct {
	ProductTypeID uint  `json:"product_type_id"`
	Count         int64 `json:"count"`
}

type ProductStats struct {
	Total          int64
	Active         int64
	Featured       int64
	OutOfStock     int64
	LowStock       int64
	TotalStock     int64
	InventoryValue decimal.Decimal
	ByType         []ProductTypeCount
}

type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	Create(product *model.Product) error
	FindByID(id uint) (*model.Product, error)
	FindByIDs(ids []uint) ([]model.Product, error)
	List(filter ProductFilter) ([]model.Product, int64, error)
	FindSimilar(query SimilarQuery) ([]model.Product, error)
	FindLowStock(threshold int) ([]model.Product, error)
	Stats(lowStockThreshold int) (*ProductStats, error)
	Update(product *model.Product) error
	Delete(id uint) (bool, error)
	DeleteByProductType(productTypeID uint) (int64, error)
	DecrementStock(id uint, quantity int) (bool, error)
	IncrementStock(id uint, quantity int) error
	SetStock(id uint, stock int) (bool, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepository{db: tx}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":            product.Name,
		"product_type_id": product.ProductTypeID,
	})

	if err := r.db.Omit(clause.Associations).Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name":            product.Name,
			"product_type_id": product.ProductTypeID,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.Scopes(notDeleted).Preload("ProductType").First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByIDs(ids []uint) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}
	var products []model.Product
	err := r.db.Scopes(notDeleted).Preload("ProductType").Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *productRepository) filtered(filter ProductFilter) *gorm.DB {
	query := r.db.Model(&model.Product{}).Where("is_deleted = ?", false)

	if filter.ProductTypeID != nil {
		query = query.Where("product_type_id = ?", *filter.ProductTypeID)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.Search != "" {
		query = query.Scopes(searchColumns(filter.Search, "name", "description"))
	}
	if filter.InStock != nil {
		if *filter.InStock {
			query = query.Where("stock > 0")
		} else {
			query = query.Where("stock = 0")
		}
	}
	if filter.Featured != nil {
		query = query.Where("is_featured = ?", *filter.Featured)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	return query
}

func (r *productRepository) List(filter ProductFilter) ([]model.Product, int64, error) {
	logger.Debug("Finding products with filter", map[string]interface{}{
		"product_type_id": filter.ProductTypeID,
		"search":          filter.Search,
		"sort_by":         filter.SortBy,
		"sort_order":      filter.SortOrder,
		"page":            filter.Page.Number,
		"limit":           filter.Page.Limit,
	})

	var total int64
	if err := r.filtered(filter).Count(&total).Error; err != nil {
		logger.Error("Failed to count products", err)
		return nil, 0, err
	}

	column := ProductSortCreatedAt
	switch filter.SortBy {
	case ProductSortName, ProductSortPrice, ProductSortStock, ProductSortUpdatedAt:
		column = filter.SortBy
	}

	var products []model.Product
	err := r.filtered(filter).
		Preload("ProductType").
		Order(fmt.Sprintf("%s %s", column, filter.SortOrder.sql())).
		Order("id DESC").
		Scopes(paginate(filter.Page)).
		Find(&products).Error
	if err != nil {
		logger.Error("Failed to list products", err)
		return nil, 0, err
	}

	logger.Debug("Products fetched", map[string]interface{}{
		"count": len(products),
		"total": total,
	})
	return products, total, nil
}

func (r *productRepository) FindSimilar(q SimilarQuery) ([]model.Product, error) {
	query := r.db.Scopes(notDeleted).
		Preload("ProductType").
		Where("product_type_id = ? AND is_active = ?", q.ProductTypeID, true)
	if len(q.ExcludeIDs) > 0 {
		query = query.Where("id NOT IN ?", q.ExcludeIDs)
	}
	if q.MinPrice != nil {
		query = query.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		query = query.Where("price <= ?", *q.MaxPrice)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	var products []model.Product
	if err := query.Order("is_featured DESC, created_at DESC, id DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) FindLowStock(threshold int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Scopes(notDeleted).
		Preload("ProductType").
		Where("stock <= ?", threshold).
		Order("stock ASC, id ASC").
		Find(&products).Error
	if err != nil {
		logger.Error("Failed to find low stock products", err, map[string]interface{}{
			"threshold": threshold,
		})
		return nil, err
	}
	return products, nil
}

func (r *productRepository) Stats(lowStockThreshold int) (*ProductStats, error) {
	stats := &ProductStats{InventoryValue: decimal.Zero}
	live := func() *gorm.DB { return r.db.Model(&model.Product{}).Where("is_deleted = ?", false) }

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.Total, live()},
		{&stats.Active, live().Where("is_active = ?", true)},
		{&stats.Featured, live().Where("is_featured = ?", true)},
		{&stats.OutOfStock, live().Where("stock = 0")},
		{&stats.LowStock, live().Where("stock > 0 AND stock <= ?", lowStockThreshold)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	var rows []struct {
		Price decimal.Decimal
		Stock int
	}
	if err := live().Select("price, stock").Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.TotalStock += int64(row.Stock)
		stats.InventoryValue = stats.InventoryValue.Add(row.Price.Mul(decimal.NewFromInt(int64(row.Stock))))
	}
	stats.InventoryValue = stats.InventoryValue.Round(2)

	if err := live().
		Select("product_type_id, COUNT(*) AS count").
		Group("product_type_id").
		Order("product_type_id ASC").
		Scan(&stats.ByType).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *productRepository) Update(product *model.Product) error {
	if err := r.db.Omit(clause.Associations).Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) Delete(id uint) (bool, error) {
	affected, err := softDelete(r.db, &model.Product{}, "id = ?", id)
	if err != nil {
		logger.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		return false, err
	}
	return affected > 0, nil
}

func (r *productRepository) DeleteByProductType(productTypeID uint) (int64, error) {
	return softDelete(r.db, &model.Product{}, "product_type_id = ?", productTypeID)
}

// DecrementStock takes quantity units only when enough stock remains; false means it did not.
func (r *productRepository) DecrementStock(id uint, quantity int) (bool, error) {
	result := r.db.Model(&model.Product{}).
		Where("id = ? AND is_deleted = ? AND stock >= ?", id, false, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *productRepository) IncrementStock(id uint, quantity int) error {
	return r.db.Model(&model.Product{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", quantity)).Error
}

func (r *productRepository) SetStock(id uint, stock int) (bool, error) {
	result := r.db.Model(&model.Product{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("stock", stock)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
