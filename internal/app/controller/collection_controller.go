package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/shopadmin-backend/internal/app/service"
	apperrors "github.com/ikkim/shopadmin-backend/internal/errors"
	"github.com/ikkim/shopadmin-backend/internal/validation"
)

type CollectionController struct {
	collectionService service.CollectionService
}

func NewCollectionController(collectionService service.CollectionService) *CollectionController {
	return &CollectionController{collectionService: collectionService}
}

// GET /api/collections
func (ctrl *CollectionController) List(c *gin.Context) {
	var query service.CollectionListQuery
	if err := validation.BindQuery(c, &query); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	collections, page, err := ctrl.collectionService.List(query)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondPage(c, collections, page)
}

// GET /api/collections/:id
func (ctrl *CollectionController) Get(c *gin.Context) {
	id, err := parseID(c, "id", "collection")
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	collection, err := ctrl.collectionService.Get(id)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondOK(c, collection)
}

// Products lists the collection's products ordered by position
// GET /api/collections/:id/products
func (ctrl *CollectionController) Products(c *gin.Context) {
	id, err := parseID(c, "id", "collection")
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	products, err := ctrl.collectionService.Products(id)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondOK(c, products)
}

// POST /api/collections
func (ctrl *CollectionController) Create(c *gin.Context) {
	var input service.CollectionInput
	if err := validation.BindJSON(c, &input); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	collection, err := ctrl.collectionService.Create(input)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondCreated(c, "Collection created successfully", collection)
}

// PUT /api/collections/:id
func (ctrl *CollectionController) Update(c *gin.Context) {
	id, err := parseID(c, "id", "collection")
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	var input service.CollectionInput
	if err := validation.BindJSON(c, &input); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	collection, err := ctrl.collectionService.Update(id, input)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondMessage(c, "Collection updated successfully", collection)
}

// DELETE /api/collections/:id
func (ctrl *CollectionController) Delete(c *gin.Context) {
	id, err := parseID(c, "id", "collection")
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	if err := ctrl.collectionService.Delete(id); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondMessage(c, "Collection deleted successfully", nil)
}

// POST /api/collections/:id/products
func (ctrl *CollectionController) AddProduct(c *gin.Context) {
	id, err := parseID(c, "id", "collection")
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	var input service.CollectionItemInput
	if err := validation.BindJSON(c, &input); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	collection, err := ctrl.collectionService.AddProduct(id, input)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondCreated(c, "Product added to collection", collection)
}

// POST /api/collections/:id/products/bulk
func (ctrl *CollectionController) AddProducts(c *gin.Context) {
	id, err := parseID(c, "id", "collection")
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	var input service.CollectionProductsInput
	if err := validation.BindJSON(c, &input); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	collection, err := ctrl.collectionService.AddProducts(id, input.Products)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondCreated(c, "Products added to collection", collection)
}

// PUT /api/collections/:id/products/:productId
func (ctrl *CollectionController) UpdateProductPosition(c *gin.Context) {
	id, err := parseID(c, "id", "collection")
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	productID, err := parseID(c, "productId", "product")
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	var input service.CollectionPositionInput
	if err := validation.BindJSON(c, &input); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	collection, err := ctrl.collectionService.UpdateProductPosition(id, productID, *input.Position)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondMessage(c, "Collection product updated", collection)
}

// DELETE /api/collections/:id/products/:productId
func (ctrl *CollectionController) RemoveProduct(c *gin.Context) {
	id, err := parseID(c, "id", "collection")
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	productID, err := parseID(c, "productId", "product")
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	if err := ctrl.collectionService.RemoveProduct(id, productID); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondMessage(c, "Product removed from collection", nil)
}
