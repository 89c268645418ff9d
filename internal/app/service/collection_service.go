package service

import (
	"errors"

	"github.com/ikkim/shopadmin-backend/internal/app/dto"
	"github.com/ikkim/shopadmin-backend/internal/app/model"
	"github.com/ikkim/shopadmin-backend/internal/app/repository"
	apperrors "github.com/ikkim/shopadmin-backend/internal/errors"
	"github.com/ikkim/shopadmin-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCollectionNotFound         = apperrors.NotFound("Collection")
	ErrCollectionProductNotFound  = apperrors.NotFound("Collection product")
	ErrProductAlreadyInCollection = apperrors.Conflict("Product is already in this collection")
)

type CollectionInput struct {
	Name          string `json:"name" binding:"required,min=1,max=255"`
	Description   string `json:"description" binding:"omitempty,max=5000"`
	Image         string `json:"image" binding:"omitempty,max=500"`
	ProductTypeID *uint  `json:"product_type_id" binding:"omitempty,min=1"`
	IsActive      *bool  `json:"is_active"`
	ProductIDs    []uint `json:"product_ids" binding:"omitempty,max=200,dive,min=1"`
}

type CollectionItemInput struct {
	ProductID uint `json:"product_id" binding:"required,min=1"`
	Position  *int `json:"position" binding:"omitempty,min=0"`
}

type CollectionProductsInput struct {
	Products []CollectionItemInput `json:"products" binding:"required,min=1,max=200,dive"`
}

type CollectionPositionInput struct {
	Position *int `json:"position" binding:"required,min=0"`
}

type CollectionListQuery struct {
	PageQuery
	Search        string `form:"search" binding:"omitempty,max=100"`
	ProductTypeID *uint  `form:"product_type_id" binding:"omitempty,min=1"`
	IsActive      *bool  `form:"is_active"`
}

type CollectionService interface {
	List(query CollectionListQuery) ([]dto.CollectionResponse, dto.Pagination, error)
	Get(id uint) (*dto.CollectionResponse, error)
	Products(id uint) ([]dto.CollectionProductResponse, error)
	Create(input CollectionInput) (*dto.CollectionResponse, error)
	Update(id uint, input CollectionInput) (*dto.CollectionResponse, error)
	Delete(id uint) error
	AddProduct(collectionID uint, item CollectionItemInput) (*dto.CollectionResponse, error)
	AddProducts(collectionID uint, items []CollectionItemInput) (*dto.CollectionResponse, error)
	UpdateProductPosition(collectionID, productID uint, position int) (*dto.CollectionResponse, error)
	RemoveProduct(collectionID, productID uint) error
}

type collectionService struct {
	db              *gorm.DB
	collectionRepo  repository.CollectionRepository
	productRepo     repository.ProductRepository
	productTypeRepo repository.ProductTypeRepository
}

func NewCollectionService(
	db *gorm.DB,
	collectionRepo repository.CollectionRepository,
	productRepo repository.ProductRepository,
	productTypeRepo repository.ProductTypeRepository,
) CollectionService {
	return &collectionService{
		db:              db,
		collectionRepo:  collectionRepo,
		productRepo:     productRepo,
		productTypeRepo: productTypeRepo,
	}
}

func (s *collectionService) List(query CollectionListQuery) ([]dto.CollectionResponse, dto.Pagination, error) {
	page := query.Normalize()
	collections, total, err := s.collectionRepo.List(repository.CollectionFilter{
		Search:        query.Search,
		ProductTypeID: query.ProductTypeID,
		IsActive:      query.IsActive,
		Page:          page,
	})
	if err != nil {
		return nil, dto.Pagination{}, apperrors.FromDB(err, "Collection")
	}

	out := make([]dto.CollectionResponse, 0, len(collections))
	for i := range collections {
		out = append(out, dto.NewCollectionResponse(&collections[i], collections[i].Products))
	}
	return out, pagination(page, total), nil
}

func (s *collectionService) find(id uint) (*model.Collection, error) {
	collection, err := s.collectionRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCollectionNotFound
	}
	if err != nil {
		return nil, apperrors.FromDB(err, "Collection")
	}
	return collection, nil
}

func (s *collectionService) respond(id uint) (*dto.CollectionResponse, error) {
	collection, err := s.find(id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewCollectionResponse(collection, collection.Products)
	return &resp, nil
}

func (s *collectionService) Get(id uint) (*dto.CollectionResponse, error) {
	return s.respond(id)
}

func (s *collectionService) Products(id uint) ([]dto.CollectionProductResponse, error) {
	if _, err := s.find(id); err != nil {
		return nil, err
	}
	items, err := s.collectionRepo.FindProducts(id)
	if err != nil {
		return nil, apperrors.FromDB(err, "Collection product")
	}
	return dto.NewCollectionProductResponses(items), nil
}

func (s *collectionService) checkProductType(id *uint) error {
	if id == nil {
		return nil
	}
	_, err := s.productTypeRepo.FindByID(*id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.Validation("product_type_id does not reference an existing product type")
	}
	if err != nil {
		return apperrors.FromDB(err, "Product type")
	}
	return nil
}

// collectionItems checks that the products exist and are distinct. Items without a
// position are appended after start in request order.
func collectionItems(repo repository.ProductRepository, collectionID uint, start int, items []CollectionItemInput) ([]model.CollectionProduct, error) {
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

	rows := make([]model.CollectionProduct, 0, len(items))
	next := start
	for _, item := range items {
		position := next
		if item.Position != nil {
			position = *item.Position
		} else {
			next++
		}
		rows = append(rows, model.CollectionProduct{CollectionID: collectionID, ProductID: item.ProductID, Position: position})
	}
	return rows, nil
}

func itemsFromIDs(ids []uint) []CollectionItemInput {
	items := make([]CollectionItemInput, 0, len(ids))
	for _, id := range ids {
		items = append(items, CollectionItemInput{ProductID: id})
	}
	return items
}

func applyCollectionInput(collection *model.Collection, input CollectionInput) {
	collection.Name = input.Name
	collection.Description = input.Description
	collection.Image = input.Image
	collection.ProductTypeID = input.ProductTypeID
	collection.ProductType = nil
	if input.IsActive != nil {
		collection.IsActive = *input.IsActive
	}
}

func (s *collectionService) Create(input CollectionInput) (*dto.CollectionResponse, error) {
	if err := s.checkProductType(input.ProductTypeID); err != nil {
		return nil, err
	}
	collection := &model.Collection{IsActive: true}
	applyCollectionInput(collection, input)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.collectionRepo.WithTx(tx)
		if err := repo.Create(collection); err != nil {
			return err
		}
		if len(input.ProductIDs) == 0 {
			return nil
		}
		rows, err := collectionItems(s.productRepo.WithTx(tx), collection.ID, 0, itemsFromIDs(input.ProductIDs))
		if err != nil {
			return err
		}
		return repo.AddProducts(rows)
	})
	if err != nil {
		return nil, apperrors.FromDB(err, "Collection")
	}

	logger.Info("Collection created", map[string]interface{}{
		"collection_id": collection.ID,
		"products":      len(input.ProductIDs),
	})
	return s.respond(collection.ID)
}

// Update replaces the collection fields; a non-nil product_ids list also replaces its membership.
func (s *collectionService) Update(id uint, input CollectionInput) (*dto.CollectionResponse, error) {
	collection, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if err := s.checkProductType(input.ProductTypeID); err != nil {
		return nil, err
	}
	applyCollectionInput(collection, input)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.collectionRepo.WithTx(tx)
		if err := repo.Update(collection); err != nil {
			return err
		}
		if input.ProductIDs == nil {
			return nil
		}
		if _, err := repo.RemoveAllProducts(id); err != nil {
			return err
		}
		if len(input.ProductIDs) == 0 {
			return nil
		}
		rows, err := collectionItems(s.productRepo.WithTx(tx), id, 0, itemsFromIDs(input.ProductIDs))
		if err != nil {
			return err
		}
		return repo.AddProducts(rows)
	})
	if err != nil {
		return nil, apperrors.FromDB(err, "Collection")
	}
	return s.respond(id)
}

func (s *collectionService) Delete(id uint) error {
	var found bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.collectionRepo.WithTx(tx)
		var err error
		if found, err = repo.Delete(id); err != nil || !found {
			return err
		}
		_, err = repo.RemoveAllProducts(id)
		return err
	})
	if err != nil {
		return apperrors.FromDB(err, "Collection")
	}
	if !found {
		return ErrCollectionNotFound
	}
	logger.Info("Collection deleted", map[string]interface{}{
		"collection_id": id,
	})
	return nil
}

func (s *collectionService) AddProduct(collectionID uint, item CollectionItemInput) (*dto.CollectionResponse, error) {
	return s.AddProducts(collectionID, []CollectionItemInput{item})
}

func (s *collectionService) AddProducts(collectionID uint, items []CollectionItemInput) (*dto.CollectionResponse, error) {
	if _, err := s.find(collectionID); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.collectionRepo.WithTx(tx)
		start, err := repo.NextPosition(collectionID)
		if err != nil {
			return err
		}
		rows, err := collectionItems(s.productRepo.WithTx(tx), collectionID, start, items)
		if err != nil {
			return err
		}
		for _, row := range rows {
			_, err := repo.FindProduct(collectionID, row.ProductID)
			if err == nil {
				return ErrProductAlreadyInCollection
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}
		return repo.AddProducts(rows)
	})
	if err != nil {
		return nil, apperrors.FromDB(err, "Collection product")
	}
	return s.respond(collectionID)
}

func (s *collectionService) UpdateProductPosition(collectionID, productID uint, position int) (*dto.CollectionResponse, error) {
	if position < 0 {
		return nil, apperrors.Validation("position must be greater than or equal to 0")
	}
	if _, err := s.find(collectionID); err != nil {
		return nil, err
	}
	updated, err := s.collectionRepo.UpdateProductPosition(collectionID, productID, position)
	if err != nil {
		return nil, apperrors.FromDB(err, "Collection product")
	}
	if !updated {
		return nil, ErrCollectionProductNotFound
	}
	return s.respond(collectionID)
}

func (s *collectionService) RemoveProduct(collectionID, productID uint) error {
	if _, err := s.find(collectionID); err != nil {
		return err
	}
	removed, err := s.collectionRepo.RemoveProduct(collectionID, productID)
	if err != nil {
		return apperrors.FromDB(err, "Collection product")
	}
	if !removed {
		return ErrCollectionProductNotFound
	}
	return nil
}
