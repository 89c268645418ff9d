package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/shopadmin-backend/internal/app/service"
	apperrors "github.com/ikkim/shopadmin-backend/internal/errors"
	"github.com/ikkim/shopadmin-backend/internal/middleware"
	"github.com/ikkim/shopadmin-backend/internal/validation"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

type featuredQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

type searchQuery struct {
	service.ProductListQuery
	Q string `form:"q" binding:"omitempty,max=100"`
}

type similarQuery struct {
	PriceRange *float64 `form:"price_range" binding:"omitempty,gte=0,lte=100"`
	Limit      int      `form:"limit" binding:"omitempty,min=1"`
}

type availabilityQuery struct {
	Quantity int `form:"quantity" binding:"omitempty,min=1"`
}

type lowStockQuery struct {
	Threshold *int `form:"threshold" binding:"omitempty,min=0"`
}

// List returns a filtered, sorted page of products
// GET /api/products
func (ctrl *ProductController) List(c *gin.Context) {
	var query service.ProductListQuery
	if err := validation.BindQuery(c, &query); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	products, page, err := ctrl.productService.List(query)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondPage(c, products, page)
}

// Search accepts the List filters plus q as an alias for search
// GET /api/products/search
func (ctrl *ProductController) Search(c *gin.Context) {
	var query searchQuery
	if err := validation.BindQuery(c, &query); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	if query.Search == "" {
		query.Search = query.Q
	}
	if query.Search == "" {
		apperrors.RespondEnvelope(c, apperrors.Validation("search is required"))
		return
	}

	products, page, err := ctrl.productService.List(query.ProductListQuery)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondPage(c, products, page)
}

// GET /api/products/featured
func (ctrl *ProductController) Featured(c *gin.Context) {
	var query featuredQuery
	if err := validation.BindQuery(c, &query); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	products, err := ctrl.productService.Featured(query.Limit)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondOK(c, products)
}

// GET /api/products/type/:typeId
func (ctrl *ProductController) ByType(c *gin.Context) {
	typeID, err := parseID(c, "typeId", "product type")
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	var query service.PageQuery
	if err := validation.BindQuery(c, &query); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	products, page, err := ctrl.productService.ByType(typeID, query)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondPage(c, products, page)
}

// GET /api/products/:id
func (ctrl *ProductController) Get(c *gin.Context) {
	id, err := parseID(c, "id", "product")
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	product, err := ctrl.productService.Get(id)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondOK(c, product)
}

// Similar returns products of the same type within price_range percent of the price
// GET /api/products/:id/similar
func (ctrl *ProductController) Similar(c *gin.Context) {
	id, err := parseID(c, "id", "product")
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	var query similarQuery
	if err := validation.BindQuery(c, &query); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	products, err := ctrl.productService.Similar(id, query.PriceRange, query.Limit)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondOK(c, products)
}

// GET /api/products/:id/availability
func (ctrl *ProductController) Availability(c *gin.Context) {
	id, err := parseID(c, "id", "product")
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	var query availabilityQuery
	if err := validation.BindQuery(c, &query); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	if query.Quantity == 0 {
		query.Quantity = 1
	}

	availability, err := ctrl.productService.Availability(id, query.Quantity)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondOK(c, availability)
}

// GET /api/products/low-stock
func (ctrl *ProductController) LowStock(c *gin.Context) {
	var query lowStockQuery
	if err := validation.BindQuery(c, &query); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	products, err := ctrl.productService.LowStock(query.Threshold)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondOK(c, products)
}

// GET /api/products/stats
func (ctrl *ProductController) Stats(c *gin.Context) {
	stats, err := ctrl.productService.Stats()
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondOK(c, stats)
}

// BulkUpdateStock sets stock for many products; per-item failures are reported in the results
// POST /api/products/stock/bulk-update
func (ctrl *ProductController) BulkUpdateStock(c *gin.Context) {
	var input service.BulkStockInput
	if err := validation.BindJSON(c, &input); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	results, err := ctrl.productService.BulkUpdateStock(input)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	middleware.GetLoggerFromContext(c).Info("Bulk stock update applied", map[string]interface{}{
		"count": len(results),
	})
	respondMessage(c, "Stock updated", results)
}

// POST /api/products
func (ctrl *ProductController) Create(c *gin.Context) {
	var input service.ProductInput
	if err := validation.BindJSON(c, &input); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	product, err := ctrl.productService.Create(input)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	middleware.GetLoggerFromContext(c).Info("Product created", map[string]interface{}{
		"product_id": product.ID,
	})
	respondCreated(c, "Product created successfully", product)
}

// PUT /api/products/:id
func (ctrl *ProductController) Update(c *gin.Context) {
	id, err := parseID(c, "id", "product")
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	var input service.ProductInput
	if err := validation.BindJSON(c, &input); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	product, err := ctrl.productService.Update(id, input)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondMessage(c, "Product updated successfully", product)
}

// PATCH /api/products/:id
func (ctrl *ProductController) Patch(c *gin.Context) {
	id, err := parseID(c, "id", "product")
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	var patch service.ProductPatch
	if err := validation.BindJSON(c, &patch); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	product, err := ctrl.productService.Patch(id, patch)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondMessage(c, "Product updated successfully", product)
}

// DELETE /api/products/:id
func (ctrl *ProductController) Delete(c *gin.Context) {
	id, err := parseID(c, "id", "product")
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	if err := ctrl.productService.Delete(id); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondMessage(c, "Product deleted successfully", nil)
}
