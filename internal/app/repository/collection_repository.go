package repository

import (
	"github.com/ikkim/shopadmin-backend/internal/app/model"
	"github.com/ikkim/shopadmin-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CollectionFilter struct {
	Search        string
	ProductTypeID *uint
	IsActive      *bool
	Page          Page
}

type CollectionRepository interface {
	WithTx(tx *gorm.DB) CollectionRepository
	Create(collection *model.Collection) error
	FindByID(id uint) (*model.Collection, error)
	List(filter CollectionFilter) ([]model.Collection, int64, error)
	Update(collection *model.Collection) error
	Delete(id uint) (bool, error)
	FindProducts(collectionID uint) ([]model.CollectionProduct, error)
	AddProducts(items []model.CollectionProduct) error
	FindProduct(collectionID, productID uint) (*model.CollectionProduct, error)
	NextPosition(collectionID uint) (int, error)
	UpdateProductPosition(collectionID, productID uint, position int) (bool, error)
	RemoveProduct(collectionID, productID uint) (bool, error)
	RemoveAllProducts(collectionID uint) (int64, error)
}

type collectionRepository struct {
	db *gorm.DB
}

func NewCollectionRepository(db *gorm.DB) CollectionRepository {
	return &collectionRepository{db: db}
}

func (r *collectionRepository) WithTx(tx *gorm.DB) CollectionRepository {
	return &collectionRepository{db: tx}
}

func (r *collectionRepository) Create(collection *model.Collection) error {
	logger.Debug("Creating collection in database", map[string]interface{}{
		"name": collection.Name,
	})
	if err := r.db.Omit(clause.Associations).Create(collection).Error; err != nil {
		logger.Error("Failed to create collection in database", err, map[string]interface{}{
			"name": collection.Name,
		})
		return err
	}
	return nil
}

func liveCollectionProducts(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false).Order("position ASC, id ASC")
}

func (r *collectionRepository) FindByID(id uint) (*model.Collection, error) {
	var collection model.Collection
	err := r.db.Scopes(notDeleted).
		Preload("ProductType", "is_deleted = ?", false).
		Preload("Products", liveCollectionProducts).
		Preload("Products.Product", "is_deleted = ?", false).
		Preload("Products.Product.ProductType").
		First(&collection, id).Error
	if err != nil {
		return nil, err
	}
	return &collection, nil
}

func (r *collectionRepository) filtered(filter CollectionFilter) *gorm.DB {
	query := r.db.Model(&model.Collection{}).Where("is_deleted = ?", false)
	if filter.Search != "" {
		query = query.Scopes(searchColumns(filter.Search, "name", "description"))
	}
	if filter.ProductTypeID != nil {
		query = query.Where("product_type_id = ?", *filter.ProductTypeID)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	return query
}

// List returns a page of collections with their live products preloaded.
func (r *collectionRepository) List(filter CollectionFilter) ([]model.Collection, int64, error) {
	var total int64
	if err := r.filtered(filter).Count(&total).Error; err != nil {
		logger.Error("Failed to count collections", err)
		return nil, 0, err
	}

	var collections []model.Collection
	err := r.filtered(filter).
		Preload("ProductType", "is_deleted = ?", false).
		Preload("Products", liveCollectionProducts).
		Preload("Products.Product", "is_deleted = ?", false).
		Preload("Products.Product.ProductType").
		Order("created_at DESC, id DESC").
		Scopes(paginate(filter.Page)).
		Find(&collections).Error
	if err != nil {
		logger.Error("Failed to list collections", err)
		return nil, 0, err
	}
	return collections, total, nil
}

func (r *collectionRepository) Update(collection *model.Collection) error {
	return r.db.Omit(clause.Associations).Save(collection).Error
}

func (r *collectionRepository) Delete(id uint) (bool, error) {
	affected, err := softDelete(r.db, &model.Collection{}, "id = ?", id)
	if err != nil {
		logger.Error("Failed to delete collection", err, map[string]interface{}{
			"collection_id": id,
		})
		return false, err
	}
	return affected > 0, nil
}

// FindProducts returns live join rows whose product is also live, in position order.
func (r *collectionRepository) FindProducts(collectionID uint) ([]model.CollectionProduct, error) {
	var items []model.CollectionProduct
	err := r.db.Model(&model.CollectionProduct{}).
		Joins("JOIN products ON products.id = collection_products.product_id AND products.is_deleted = ?", false).
		Scopes(notDeletedOn("collection_products")).
		Where("collection_products.collection_id = ?", collectionID).
		Preload("Product").
		Preload("Product.ProductType").
		Order("collection_products.position ASC, collection_products.id ASC").
		Find(&items).Error
	return items, err
}

func (r *collectionRepository) AddProducts(items []model.CollectionProduct) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.Omit(clause.Associations).Create(&items).Error
}

func (r *collectionRepository) FindProduct(collectionID, productID uint) (*model.CollectionProduct, error) {
	var item model.CollectionProduct
	err := r.db.Scopes(notDeleted).
		Preload("Product").
		Where("collection_id = ? AND product_id = ?", collectionID, productID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// NextPosition is one past the highest live position in the collection.
func (r *collectionRepository) NextPosition(collectionID uint) (int, error) {
	var maxPosition int
	err := r.db.Model(&model.CollectionProduct{}).
		Where("collection_id = ? AND is_deleted = ?", collectionID, false).
		Select("COALESCE(MAX(position), -1)").
		Scan(&maxPosition).Error
	if err != nil {
		return 0, err
	}
	return maxPosition + 1, nil
}

func (r *collectionRepository) UpdateProductPosition(collectionID, productID uint, position int) (bool, error) {
	result := r.db.Model(&model.CollectionProduct{}).
		Where("collection_id = ? AND product_id = ? AND is_deleted = ?", collectionID, productID, false).
		Update("position", position)
	return result.RowsAffected > 0, result.Error
}

func (r *collectionRepository) RemoveProduct(collectionID, productID uint) (bool, error) {
	affected, err := softDelete(r.db, &model.CollectionProduct{}, "collection_id = ? AND product_id = ?", collectionID, productID)
	return affected > 0, err
}

func (r *collectionRepository) RemoveAllProducts(collectionID uint) (int64, error) {
	return softDelete(r.db, &model.CollectionProduct{}, "collection_id = ?", collectionID)
}
