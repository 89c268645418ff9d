package errors

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/shopadmin-backend/pkg/logger"
)

// ErrorResponse is the body used by resources that answer with bare objects.
type ErrorResponse struct {
	Error string `json:"error"`
}

// EnvelopeResponse is the body used by resources that answer with {success, data}.
type EnvelopeResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// RespondPlain writes {error} with the status derived from err's kind.
func RespondPlain(c *gin.Context, err error) {
	appErr := As(err)
	logFailure(c, appErr)
	c.JSON(appErr.Kind.HTTPStatus(), ErrorResponse{Error: appErr.Message})
}

// RespondEnvelope writes {success:false, message, errors?} with the status derived from err's kind.
func RespondEnvelope(c *gin.Context, err error) {
	appErr := As(err)
	logFailure(c, appErr)
	c.JSON(appErr.Kind.HTTPStatus(), EnvelopeResponse{
		Success: false,
		Message: appErr.Message,
		Errors:  appErr.Details,
	})
}

func logFailure(c *gin.Context, appErr *AppError) {
	log := logger.Get()
	if l, ok := c.Get("logger"); ok {
		if scoped, ok := l.(*logger.Logger); ok {
			log = scoped
		}
	}

	fields := map[string]interface{}{
		"code": appErr.Code,
		"kind": appErr.Kind.String(),
	}
	if appErr.Kind == KindInternal {
		log.Error("Request failed", appErr, fields)
		return
	}
	fields["message"] = appErr.Message
	log.Warn("Request rejected", fields)
	_ = c.Error(appErr)
}
