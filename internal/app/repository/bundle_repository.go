package repository

import (
	"github.com/ikkim/shopadmin-backend/internal/app/model"
	"github.com/ikkim/shopadmin-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BundleFilter struct {
	Search   string
	IsActive *bool
	Page     Page
}

type BundleStats struct {
	TotalBundles        int64   `json:"total_bundles"`
	ActiveBundles       int64   `json:"active_bundles"`
	DiscountedBundles   int64   `json:"discounted_bundles"`
	TotalBundleProducts int64   `json:"total_bundle_products"`
	AverageProducts     float64 `json:"average_products_per_bundle"`
}

// ProductCooccurrence is a product that shares at least one live bundle with another.
type ProductCooccurrence struct {
	ProductID     uint
	SharedBundles int64
}

type BundleRepository interface {
	WithTx(tx *gorm.DB) BundleRepository
	Create(bundle *model.Bundle) error
	FindByID(id uint) (*model.Bundle, error)
	List(filter BundleFilter) ([]model.Bundle, int64, error)
	Update(bundle *model.Bundle) error
	Delete(id uint) (bool, error)
	AddProducts(items []model.BundleProduct) error
	FindProduct(bundleID, productID uint) (*model.BundleProduct, error)
	UpdateProductQuantity(bundleID, productID uint, quantity int) (bool, error)
	RemoveProduct(bundleID, productID uint) (bool, error)
	RemoveAllProducts(bundleID uint) (int64, error)
	Stats() (*BundleStats, error)
	CooccurringProducts(productID uint, limit int) ([]ProductCooccurrence, error)
}

type bundleRepository struct {
	db *gorm.DB
}

func NewBundleRepository(db *gorm.DB) BundleRepository {
	return &bundleRepository{db: db}
}

func (r *bundleRepository) WithTx(tx *gorm.DB) BundleRepository {
	return &bundleRepository{db: tx}
}

func (r *bundleRepository) Create(bundle *model.Bundle) error {
	logger.Debug("Creating bundle in database", map[string]interface{}{
		"name": bundle.Name,
	})
	if err := r.db.Omit(clause.Associations).Create(bundle).Error; err != nil {
		logger.Error("Failed to create bundle in database", err, map[string]interface{}{
			"name": bundle.Name,
		})
		return err
	}
	return nil
}

// withProducts preloads live join rows and their products. Join rows whose product
// was soft-deleted come back with a zero Product and are dropped by the service.
func (r *bundleRepository) withProducts() *gorm.DB {
	return r.db.
		Preload("Products", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_deleted = ?", false).Order("id ASC")
		}).
		Preload("Products.Product", "is_deleted = ?", false).
		Preload("Products.Product.ProductType")
}

func (r *bundleRepository) FindByID(id uint) (*model.Bundle, error) {
	var bundle model.Bundle
	if err := r.withProducts().Scopes(notDeleted).First(&bundle, id).Error; err != nil {
		return nil, err
	}
	return &bundle, nil
}

func (r *bundleRepository) filtered(filter BundleFilter) *gorm.DB {
	query := r.db.Model(&model.Bundle{}).Where("is_deleted = ?", false)
	if filter.Search != "" {
		query = query.Scopes(searchColumns(filter.Search, "name", "description"))
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	return query
}

func (r *bundleRepository) List(filter BundleFilter) ([]model.Bundle, int64, error) {
	var total int64
	if err := r.filtered(filter).Count(&total).Error; err != nil {
		logger.Error("Failed to count bundles", err)
		return nil, 0, err
	}

	var bundles []model.Bundle
	err := r.filtered(filter).
		Preload("Products", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_deleted = ?", false).Order("id ASC")
		}).
		Preload("Products.Product", "is_deleted = ?", false).
		Preload("Products.Product.ProductType").
		Order("created_at DESC, id DESC").
		Scopes(paginate(filter.Page)).
		Find(&bundles).Error
	if err != nil {
		logger.Error("Failed to list bundles", err)
		return nil, 0, err
	}
	return bundles, total, nil
}

func (r *bundleRepository) Update(bundle *model.Bundle) error {
	return r.db.Omit(clause.Associations).Save(bundle).Error
}

func (r *bundleRepository) Delete(id uint) (bool, error) {
	affected, err := softDelete(r.db, &model.Bundle{}, "id = ?", id)
	if err != nil {
		logger.Error("Failed to delete bundle", err, map[string]interface{}{
			"bundle_id": id,
		})
		return false, err
	}
	return affected > 0, nil
}

func (r *bundleRepository) AddProducts(items []model.BundleProduct) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.Omit(clause.Associations).Create(&items).Error
}

func (r *bundleRepository) FindProduct(bundleID, productID uint) (*model.BundleProduct, error) {
	var item model.BundleProduct
	err := r.db.Scopes(notDeleted).
		Preload("Product").
		Where("bundle_id = ? AND product_id = ?", bundleID, productID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *bundleRepository) UpdateProductQuantity(bundleID, productID uint, quantity int) (bool, error) {
	result := r.db.Model(&model.BundleProduct{}).
		Where("bundle_id = ? AND product_id = ? AND is_deleted = ?", bundleID, productID, false).
		Update("quantity", quantity)
	return result.RowsAffected > 0, result.Error
}

func (r *bundleRepository) RemoveProduct(bundleID, productID uint) (bool, error) {
	affected, err := softDelete(r.db, &model.BundleProduct{}, "bundle_id = ? AND product_id = ?", bundleID, productID)
	return affected > 0, err
}

func (r *bundleRepository) RemoveAllProducts(bundleID uint) (int64, error) {
	return softDelete(r.db, &model.BundleProduct{}, "bundle_id = ?", bundleID)
}

func (r *bundleRepository) Stats() (*BundleStats, error) {
	stats := &BundleStats{}
	live := func() *gorm.DB { return r.db.Model(&model.Bundle{}).Where("is_deleted = ?", false) }

	if err := live().Count(&stats.TotalBundles).Error; err != nil {
		return nil, err
	}
	if err := live().Where("is_active = ?", true).Count(&stats.ActiveBundles).Error; err != nil {
		return nil, err
	}
	if err := live().Where("discount_percentage IS NOT NULL AND discount_percentage > 0").Count(&stats.DiscountedBundles).Error; err != nil {
		return nil, err
	}
	err := r.db.Model(&model.BundleProduct{}).
		Joins("JOIN bundles ON bundles.id = bundle_products.bundle_id AND bundles.is_deleted = ?", false).
		Scopes(notDeletedOn("bundle_products")).
		Count(&stats.TotalBundleProducts).Error
	if err != nil {
		return nil, err
	}
	if stats.TotalBundles > 0 {
		avg := float64(stats.TotalBundleProducts) / float64(stats.TotalBundles)
		stats.AverageProducts = float64(int64(avg*100+0.5)) / 100
	}
	return stats, nil
}

// CooccurringProducts ranks live products by how many live bundles they share with productID.
func (r *bundleRepository) CooccurringProducts(productID uint, limit int) ([]ProductCooccurrence, error) {
	var rows []ProductCooccurrence
	query := r.db.Table("bundle_products AS self").
		Select("other.product_id AS product_id, COUNT(DISTINCT other.bundle_id) AS shared_bundles").
		Joins("JOIN bundle_products AS other ON other.bundle_id = self.bundle_id AND other.product_id <> self.product_id AND other.is_deleted = ?", false).
		Joins("JOIN bundles ON bundles.id = self.bundle_id AND bundles.is_deleted = ?", false).
		Joins("JOIN products ON products.id = other.product_id AND products.is_deleted = ?", false).
		Where("self.product_id = ? AND self.is_deleted = ?", productID, false).
		Group("other.product_id").
		Order("shared_bundles DESC, other.product_id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Scan(&rows).Error; err != nil {
		logger.Error("Failed to rank co-occurring products", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}
	return rows, nil
}
