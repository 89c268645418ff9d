package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/shopadmin-backend/internal/app/service"
	apperrors "github.com/ikkim/shopadmin-backend/internal/errors"
	"github.com/ikkim/shopadmin-backend/internal/validation"
)

type MailingListController struct {
	mailingService service.MailingListService
}

func NewMailingListController(mailingService service.MailingListService) *MailingListController {
	return &MailingListController{mailingService: mailingService}
}

// Subscribe adds an email; subscribing twice succeeds without a second row
// POST /api/mailing-list
func (ctrl *MailingListController) Subscribe(c *gin.Context) {
	var input service.SubscribeInput
	if err := validation.BindJSON(c, &input); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	entry, created, err := ctrl.mailingService.Subscribe(input)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	if !created {
		respondMessage(c, "Email is already subscribed", entry)
		return
	}
	respondCreated(c, "Subscribed successfully", entry)
}

// GET /api/mailing-list
func (ctrl *MailingListController) List(c *gin.Context) {
	var query service.PageQuery
	if err := validation.BindQuery(c, &query); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	entries, page, err := ctrl.mailingService.List(query)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondPage(c, entries, page)
}

// DELETE /api/mailing-list/:id
func (ctrl *MailingListController) Delete(c *gin.Context) {
	id, err := parseID(c, "id", "mailing list entry")
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	if err := ctrl.mailingService.Unsubscribe(id); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondMessage(c, "Email removed from mailing list", nil)
}
