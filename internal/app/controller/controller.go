package controller

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/shopadmin-backend/internal/app/dto"
	apperrors "github.com/ikkim/shopadmin-backend/internal/errors"
	"github.com/ikkim/shopadmin-backend/internal/middleware"
)

// parseID reads a positive numeric path parameter.
func parseID(c *gin.Context, param, entity string) (uint, error) {
	raw := c.Param(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		middleware.GetLoggerFromContext(c).Warn("Invalid path id", map[string]interface{}{
			"param": param,
			"value": raw,
		})
		return 0, &apperrors.AppError{
			Kind:    apperrors.KindValidation,
			Code:    apperrors.ValidationInvalidID,
			Message: fmt.Sprintf("Invalid %s ID", entity),
		}
	}
	return uint(id), nil
}

// currentUserID returns the authenticated principal id set by the auth middleware.
func currentUserID(c *gin.Context) (uint, error) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		return 0, apperrors.Unauthorized(apperrors.AuthUnauthorized, "Authentication required")
	}
	return id, nil
}

type messageResponse struct {
	Message string `json:"message"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.OK(data))
}

func respondCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, dto.OKWithMessage(message, data))
}

func respondMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, dto.OKWithMessage(message, data))
}

func respondPage(c *gin.Context, data interface{}, pagination dto.Pagination) {
	c.JSON(http.StatusOK, dto.Paged(data, pagination))
}
