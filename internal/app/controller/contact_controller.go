package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/shopadmin-backend/internal/app/service"
	apperrors "github.com/ikkim/shopadmin-backend/internal/errors"
	"github.com/ikkim/shopadmin-backend/internal/validation"
)

type ContactController struct {
	contactService service.ContactService
}

func NewContactController(contactService service.ContactService) *ContactController {
	return &ContactController{contactService: contactService}
}

// Submit forwards the form to the shop's inbox; nothing is stored
// POST /api/contact-us
func (ctrl *ContactController) Submit(c *gin.Context) {
	var input service.ContactInput
	if err := validation.BindJSON(c, &input); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	if err := ctrl.contactService.Submit(c.Request.Context(), input); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondMessage(c, "Your message has been sent", nil)
}
