package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/shopadmin-backend/internal/app/service"
	apperrors "github.com/ikkim/shopadmin-backend/internal/errors"
	"github.com/ikkim/shopadmin-backend/internal/validation"
)

// PricingConfigController answers with bare objects and {error}.
type PricingConfigController struct {
	pricingService service.PricingConfigService
}

func NewPricingConfigController(pricingService service.PricingConfigService) *PricingConfigController {
	return &PricingConfigController{pricingService: pricingService}
}

type effectivePricingQuery struct {
	ProductTypeID *uint `form:"product_type_id" binding:"omitempty,min=1"`
}

// GET /api/pricing-config
func (ctrl *PricingConfigController) List(c *gin.Context) {
	configs, err := ctrl.pricingService.List()
	if err != nil {
		apperrors.RespondPlain(c, err)
		return
	}
	c.JSON(http.StatusOK, configs)
}

// Effective resolves the config for product_type_id, falling back to the global config
// GET /api/pricing-config/effective
func (ctrl *PricingConfigController) Effective(c *gin.Context) {
	var query effectivePricingQuery
	if err := validation.BindQuery(c, &query); err != nil {
		apperrors.RespondPlain(c, err)
		return
	}

	cfg, err := ctrl.pricingService.Effective(query.ProductTypeID)
	if err != nil {
		apperrors.RespondPlain(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// GET /api/pricing-config/:id
func (ctrl *PricingConfigController) Get(c *gin.Context) {
	id, err := parseID(c, "id", "pricing config")
	if err != nil {
		apperrors.RespondPlain(c, err)
		return
	}

	cfg, err := ctrl.pricingService.Get(id)
	if err != nil {
		apperrors.RespondPlain(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// POST /api/pricing-config
func (ctrl *PricingConfigController) Create(c *gin.Context) {
	var input service.PricingConfigInput
	if err := validation.BindJSON(c, &input); err != nil {
		apperrors.RespondPlain(c, err)
		return
	}

	cfg, err := ctrl.pricingService.Create(input)
	if err != nil {
		apperrors.RespondPlain(c, err)
		return
	}
	c.JSON(http.StatusCreated, cfg)
}

// PUT /api/pricing-config/:id
func (ctrl *PricingConfigController) Update(c *gin.Context) {
	id, err := parseID(c, "id", "pricing config")
	if err != nil {
		apperrors.RespondPlain(c, err)
		return
	}

	var input service.PricingConfigInput
	if err := validation.BindJSON(c, &input); err != nil {
		apperrors.RespondPlain(c, err)
		return
	}

	cfg, err := ctrl.pricingService.Update(id, input)
	if err != nil {
		apperrors.RespondPlain(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// DELETE /api/pricing-config/:id
func (ctrl *PricingConfigController) Delete(c *gin.Context) {
	id, err := parseID(c, "id", "pricing config")
	if err != nil {
		apperrors.RespondPlain(c, err)
		return
	}

	if err := ctrl.pricingService.Delete(id); err != nil {
		apperrors.RespondPlain(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Pricing config deleted successfully"})
}
