package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/shopadmin-backend/internal/app/service"
	apperrors "github.com/ikkim/shopadmin-backend/internal/errors"
	"github.com/ikkim/shopadmin-backend/internal/middleware"
	"github.com/ikkim/shopadmin-backend/internal/validation"
)

type ProductTypeController struct {
	productTypeService service.ProductTypeService
}

func NewProductTypeController(productTypeService service.ProductTypeService) *ProductTypeController {
	return &ProductTypeController{productTypeService: productTypeService}
}

// GET /api/product-types
func (ctrl *ProductTypeController) List(c *gin.Context) {
	types, err := ctrl.productTypeService.List()
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondOK(c, types)
}

// GET /api/product-types/:id
func (ctrl *ProductTypeController) Get(c *gin.Context) {
	id, err := parseID(c, "id", "product type")
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	productType, err := ctrl.productTypeService.Get(id)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondOK(c, productType)
}

// POST /api/product-types
func (ctrl *ProductTypeController) Create(c *gin.Context) {
	var input service.ProductTypeInput
	if err := validation.BindJSON(c, &input); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	productType, err := ctrl.productTypeService.Create(input)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondCreated(c, "Product type created successfully", productType)
}

// PUT /api/product-types/:id
func (ctrl *ProductTypeController) Update(c *gin.Context) {
	id, err := parseID(c, "id", "product type")
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	var input service.ProductTypeInput
	if err := validation.BindJSON(c, &input); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	productType, err := ctrl.productTypeService.Update(id, input)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondMessage(c, "Product type updated successfully", productType)
}

// Delete removes the type together with its products
// DELETE /api/product-types/:id
func (ctrl *ProductTypeController) Delete(c *gin.Context) {
	id, err := parseID(c, "id", "product type")
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	if err := ctrl.productTypeService.Delete(id); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	middleware.GetLoggerFromContext(c).Info("Product type deleted", map[string]interface{}{
		"product_type_id": id,
	})
	respondMessage(c, "Product type deleted successfully", nil)
}
