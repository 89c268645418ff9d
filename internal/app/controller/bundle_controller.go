package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/shopadmin-backend/internal/app/service"
	apperrors "github.com/ikkim/shopadmin-backend/internal/errors"
	"github.com/ikkim/shopadmin-backend/internal/middleware"
	"github.com/ikkim/shopadmin-backend/internal/validation"
)

type BundleController struct {
	bundleService service.BundleService
}

func NewBundleController(bundleService service.BundleService) *BundleController {
	return &BundleController{bundleService: bundleService}
}

type similarProductsQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=50"`
}

// GET /api/bundles
func (ctrl *BundleController) List(c *gin.Context) {
	var query service.BundleListQuery
	if err := validation.BindQuery(c, &query); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	bundles, page, err := ctrl.bundleService.List(query)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondPage(c, bundles, page)
}

// GET /api/bundles/stats/overview
func (ctrl *BundleController) Stats(c *gin.Context) {
	stats, err := ctrl.bundleService.Stats()
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondOK(c, stats)
}

// SimilarProducts suggests products that are bundled with the given one
// GET /api/bundles/similar-products/:productId
func (ctrl *BundleController) SimilarProducts(c *gin.Context) {
	productID, err := parseID(c, "productId", "product")
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	var query similarProductsQuery
	if err := validation.BindQuery(c, &query); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	products, err := ctrl.bundleService.SimilarProducts(productID, query.Limit)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondOK(c, products)
}

// GET /api/bundles/:id
func (ctrl *BundleController) Get(c *gin.Context) {
	id, err := parseID(c, "id", "bundle")
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	bundle, err := ctrl.bundleService.Get(id)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondOK(c, bundle)
}

// GET /api/bundles/:id/price
func (ctrl *BundleController) Price(c *gin.Context) {
	id, err := parseID(c, "id", "bundle")
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	price, err := ctrl.bundleService.Price(id)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondOK(c, price)
}

// POST /api/bundles
func (ctrl *BundleController) Create(c *gin.Context) {
	var input service.BundleInput
	if err := validation.BindJSON(c, &input); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	bundle, err := ctrl.bundleService.Create(input)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	middleware.GetLoggerFromContext(c).Info("Bundle created", map[string]interface{}{
		"bundle_id": bundle.ID,
		"products":  len(input.Products),
	})
	respondCreated(c, "Bundle created successfully", bundle)
}

// PUT /api/bundles/:id
func (ctrl *BundleController) Update(c *gin.Context) {
	id, err := parseID(c, "id", "bundle")
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	var input service.BundleInput
	if err := validation.BindJSON(c, &input); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	bundle, err := ctrl.bundleService.Update(id, input)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondMessage(c, "Bundle updated successfully", bundle)
}

// DELETE /api/bundles/:id
func (ctrl *BundleController) Delete(c *gin.Context) {
	id, err := parseID(c, "id", "bundle")
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	if err := ctrl.bundleService.Delete(id); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondMessage(c, "Bundle deleted successfully", nil)
}

// POST /api/bundles/:id/products
func (ctrl *BundleController) AddProduct(c *gin.Context) {
	id, err := parseID(c, "id", "bundle")
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	var input service.BundleItemInput
	if err := validation.BindJSON(c, &input); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	bundle, err := ctrl.bundleService.AddProduct(id, input)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondCreated(c, "Product added to bundle", bundle)
}

// POST /api/bundles/:id/products/bulk
func (ctrl *BundleController) AddProducts(c *gin.Context) {
	id, err := parseID(c, "id", "bundle")
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	var input service.BundleProductsInput
	if err := validation.BindJSON(c, &input); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	bundle, err := ctrl.bundleService.AddProducts(id, input.Products)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondCreated(c, "Products added to bundle", bundle)
}

// PUT /api/bundles/:id/products/:productId
func (ctrl *BundleController) UpdateProductQuantity(c *gin.Context) {
	id, err := parseID(c, "id", "bundle")
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	productID, err := parseID(c, "productId", "product")
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	var input service.BundleQuantityInput
	if err := validation.BindJSON(c, &input); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	bundle, err := ctrl.bundleService.UpdateProductQuantity(id, productID, input.Quantity)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondMessage(c, "Bundle product updated", bundle)
}

// DELETE /api/bundles/:id/products/:productId
func (ctrl *BundleController) RemoveProduct(c *gin.Context) {
	id, err := parseID(c, "id", "bundle")
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	productID, err := parseID(c, "productId", "product")
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	if err := ctrl.bundleService.RemoveProduct(id, productID); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondMessage(c, "Product removed from bundle", nil)
}
