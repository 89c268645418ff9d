package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/shopadmin-backend/internal/app/service"
	apperrors "github.com/ikkim/shopadmin-backend/internal/errors"
	"github.com/ikkim/shopadmin-backend/internal/middleware"
	"github.com/ikkim/shopadmin-backend/internal/validation"
)

// DeliveryOptionController answers with bare objects and {error}.
type DeliveryOptionController struct {
	deliveryService service.DeliveryOptionService
}

func NewDeliveryOptionController(deliveryService service.DeliveryOptionService) *DeliveryOptionController {
	return &DeliveryOptionController{deliveryService: deliveryService}
}

// List returns active options; admin staff also see inactive ones
// GET /api/delivery-options
func (ctrl *DeliveryOptionController) List(c *gin.Context) {
	options, err := ctrl.deliveryService.List(!middleware.IsAdmin(c))
	if err != nil {
		apperrors.RespondPlain(c, err)
		return
	}
	c.JSON(http.StatusOK, options)
}

// GET /api/delivery-options/:id
func (ctrl *DeliveryOptionController) Get(c *gin.Context) {
	id, err := parseID(c, "id", "delivery option")
	if err != nil {
		apperrors.RespondPlain(c, err)
		return
	}

	option, err := ctrl.deliveryService.Get(id)
	if err != nil {
		apperrors.RespondPlain(c, err)
		return
	}
	c.JSON(http.StatusOK, option)
}

// POST /api/delivery-options
func (ctrl *DeliveryOptionController) Create(c *gin.Context) {
	var input service.DeliveryOptionInput
	if err := validation.BindJSON(c, &input); err != nil {
		apperrors.RespondPlain(c, err)
		return
	}

	option, err := ctrl.deliveryService.Create(input)
	if err != nil {
		apperrors.RespondPlain(c, err)
		return
	}
	c.JSON(http.StatusCreated, option)
}

// PUT /api/delivery-options/:id
func (ctrl *DeliveryOptionController) Update(c *gin.Context) {
	id, err := parseID(c, "id", "delivery option")
	if err != nil {
		apperrors.RespondPlain(c, err)
		return
	}

	var input service.DeliveryOptionInput
	if err := validation.BindJSON(c, &input); err != nil {
		apperrors.RespondPlain(c, err)
		return
	}

	option, err := ctrl.deliveryService.Update(id, input)
	if err != nil {
		apperrors.RespondPlain(c, err)
		return
	}
	c.JSON(http.StatusOK, option)
}

// DELETE /api/delivery-options/:id
func (ctrl *DeliveryOptionController) Delete(c *gin.Context) {
	id, err := parseID(c, "id", "delivery option")
	if err != nil {
		apperrors.RespondPlain(c, err)
		return
	}

	if err := ctrl.deliveryService.Delete(id); err != nil {
		apperrors.RespondPlain(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Delivery option deleted successfully"})
}
