package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/shopadmin-backend/internal/app/service"
	apperrors "github.com/ikkim/shopadmin-backend/internal/errors"
	"github.com/ikkim/shopadmin-backend/internal/middleware"
	"github.com/ikkim/shopadmin-backend/internal/validation"
)

type CustomerController struct {
	customerService service.CustomerService
	orderService    service.OrderService
}

func NewCustomerController(customerService service.CustomerService, orderService service.OrderService) *CustomerController {
	return &CustomerController{
		customerService: customerService,
		orderService:    orderService,
	}
}

// Register creates a customer account and signs it in
// POST /api/customers/register
func (ctrl *CustomerController) Register(c *gin.Context) {
	var input service.RegisterCustomerInput
	if err := validation.BindJSON(c, &input); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	resp, err := ctrl.customerService.Register(c.Request.Context(), input)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	middleware.GetLoggerFromContext(c).Info("Customer registered", map[string]interface{}{
		"customer_id": resp.Customer.ID,
	})
	respondCreated(c, "Customer registered successfully", resp)
}

// Login authenticates a customer by email
// POST /api/customers/login
func (ctrl *CustomerController) Login(c *gin.Context) {
	var input service.CustomerLoginInput
	if err := validation.BindJSON(c, &input); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	resp, err := ctrl.customerService.Login(input)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondMessage(c, "Login successful", resp)
}

// Me returns the signed-in customer's profile
// GET /api/customers/me
func (ctrl *CustomerController) Me(c *gin.Context) {
	id, err := currentUserID(c)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	customer, err := ctrl.customerService.GetByID(id)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondOK(c, customer)
}

// UpdateMe changes the signed-in customer's profile
// PUT /api/customers/me
func (ctrl *CustomerController) UpdateMe(c *gin.Context) {
	id, err := currentUserID(c)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	var input service.UpdateCustomerInput
	if err := validation.BindJSON(c, &input); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	customer, err := ctrl.customerService.UpdateProfile(id, input)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondMessage(c, "Profile updated successfully", customer)
}

// MyOrders lists the signed-in customer's orders
// GET /api/customers/me/orders
func (ctrl *CustomerController) MyOrders(c *gin.Context) {
	id, err := currentUserID(c)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	var query service.PageQuery
	if err := validation.BindQuery(c, &query); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	orders, page, err := ctrl.orderService.ListForCustomer(id, query)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondPage(c, orders, page)
}

// List returns a page of customers
// GET /api/customers
func (ctrl *CustomerController) List(c *gin.Context) {
	var query service.CustomerListQuery
	if err := validation.BindQuery(c, &query); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	customers, page, err := ctrl.customerService.List(query)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondPage(c, customers, page)
}

// Get returns one customer
// GET /api/customers/:id
func (ctrl *CustomerController) Get(c *gin.Context) {
	id, err := parseID(c, "id", "customer")
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	customer, err := ctrl.customerService.GetByID(id)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondOK(c, customer)
}

// Delete soft-deletes a customer
// DELETE /api/customers/:id
func (ctrl *CustomerController) Delete(c *gin.Context) {
	id, err := parseID(c, "id", "customer")
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	if err := ctrl.customerService.Delete(id); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondMessage(c, "Customer deleted successfully", nil)
}
