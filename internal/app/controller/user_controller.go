package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/shopadmin-backend/internal/app/service"
	apperrors "github.com/ikkim/shopadmin-backend/internal/errors"
	"github.com/ikkim/shopadmin-backend/internal/middleware"
	"github.com/ikkim/shopadmin-backend/internal/validation"
)

// UserController serves admin accounts. Responses are bare objects and errors are {error}.
type UserController struct {
	userService service.UserService
}

func NewUserController(userService service.UserService) *UserController {
	return &UserController{userService: userService}
}

// Create creates an admin user
// POST /api/users
func (ctrl *UserController) Create(c *gin.Context) {
	var input service.CreateUserInput
	if err := validation.BindJSON(c, &input); err != nil {
		apperrors.RespondPlain(c, err)
		return
	}

	user, err := ctrl.userService.Create(c.Request.Context(), input)
	if err != nil {
		apperrors.RespondPlain(c, err)
		return
	}

	middleware.GetLoggerFromContext(c).Info("Admin user created", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})
	c.JSON(http.StatusCreated, user)
}

// Login authenticates by username or email
// POST /api/users/login
func (ctrl *UserController) Login(c *gin.Context) {
	var input service.LoginInput
	if err := validation.BindJSON(c, &input); err != nil {
		apperrors.RespondPlain(c, err)
		return
	}

	resp, err := ctrl.userService.Login(input)
	if err != nil {
		apperrors.RespondPlain(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me returns the authenticated admin
// GET /api/users/me
func (ctrl *UserController) Me(c *gin.Context) {
	id, err := currentUserID(c)
	if err != nil {
		apperrors.RespondPlain(c, err)
		return
	}

	user, err := ctrl.userService.GetByID(id)
	if err != nil {
		apperrors.RespondPlain(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// List returns every admin user
// GET /api/users
func (ctrl *UserController) List(c *gin.Context) {
	users, err := ctrl.userService.List()
	if err != nil {
		apperrors.RespondPlain(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Get returns one admin user
// GET /api/users/:id
func (ctrl *UserController) Get(c *gin.Context) {
	id, err := parseID(c, "id", "user")
	if err != nil {
		apperrors.RespondPlain(c, err)
		return
	}

	user, err := ctrl.userService.GetByID(id)
	if err != nil {
		apperrors.RespondPlain(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Update changes an admin user (super admin only)
// PUT /api/users/:id
func (ctrl *UserController) Update(c *gin.Context) {
	id, err := parseID(c, "id", "user")
	if err != nil {
		apperrors.RespondPlain(c, err)
		return
	}

	var input service.UpdateUserInput
	if err := validation.BindJSON(c, &input); err != nil {
		apperrors.RespondPlain(c, err)
		return
	}

	user, err := ctrl.userService.Update(id, input)
	if err != nil {
		apperrors.RespondPlain(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete soft-deletes an admin user
// DELETE /api/users/:id
func (ctrl *UserController) Delete(c *gin.Context) {
	id, err := parseID(c, "id", "user")
	if err != nil {
		apperrors.RespondPlain(c, err)
		return
	}

	if err := ctrl.userService.Delete(id); err != nil {
		apperrors.RespondPlain(c, err)
		return
	}

	middleware.GetLoggerFromContext(c).Info("Admin user deleted", map[string]interface{}{
		"user_id": id,
	})
	c.JSON(http.StatusOK, messageResponse{Message: "User deleted successfully"})
}
