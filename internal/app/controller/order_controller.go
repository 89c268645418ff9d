package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/shopadmin-backend/internal/app/service"
	apperrors "github.com/ikkim/shopadmin-backend/internal/errors"
	"github.com/ikkim/shopadmin-backend/internal/middleware"
	"github.com/ikkim/shopadmin-backend/internal/validation"
	"github.com/ikkim/shopadmin-backend/pkg/util"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// Create places an order. Signed-in customers get it linked to their account.
// POST /api/orders
func (ctrl *OrderController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.CreateOrderInput
	if err := validation.BindJSON(c, &input); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	var customerID *uint
	if userType, _ := middleware.GetUserType(c); userType == util.UserTypeCustomer {
		if id, ok := middleware.GetUserID(c); ok {
			customerID = &id
		}
	}

	order, err := ctrl.orderService.Create(input, customerID)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	log.Info("Order placed", map[string]interface{}{
		"order_id":  order.ID,
		"reference": order.Reference,
		"items":     len(input.Items),
	})
	respondCreated(c, "Order created successfully", order)
}

// GetByReference lets a customer look up an order without signing in
// GET /api/orders/reference/:reference
func (ctrl *OrderController) GetByReference(c *gin.Context) {
	order, err := ctrl.orderService.GetByReference(c.Param("reference"))
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondOK(c, order)
}

// GET /api/orders
func (ctrl *OrderController) List(c *gin.Context) {
	var query service.OrderListQuery
	if err := validation.BindQuery(c, &query); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	orders, page, err := ctrl.orderService.List(query)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondPage(c, orders, page)
}

// GET /api/orders/:id
func (ctrl *OrderController) Get(c *gin.Context) {
	id, err := parseID(c, "id", "order")
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	order, err := ctrl.orderService.Get(id)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondOK(c, order)
}

// UpdateStatus moves an order through its lifecycle; cancelling restores stock
// PATCH /api/orders/:id/status
func (ctrl *OrderController) UpdateStatus(c *gin.Context) {
	id, err := parseID(c, "id", "order")
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	var input service.UpdateOrderStatusInput
	if err := validation.BindJSON(c, &input); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	order, err := ctrl.orderService.UpdateStatus(id, input.Status)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	middleware.GetLoggerFromContext(c).Info("Order status updated", map[string]interface{}{
		"order_id": id,
		"status":   input.Status,
	})
	respondMessage(c, "Order status updated successfully", order)
}

// DELETE /api/orders/:id
func (ctrl *OrderController) Delete(c *gin.Context) {
	id, err := parseID(c, "id", "order")
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	if err := ctrl.orderService.Delete(id); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondMessage(c, "Order deleted successfully", nil)
}
