package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/shopadmin-backend/internal/app/service"
	apperrors "github.com/ikkim/shopadmin-backend/internal/errors"
	"github.com/ikkim/shopadmin-backend/internal/middleware"
	"github.com/ikkim/shopadmin-backend/internal/validation"
)

type HomepageController struct {
	homepageService service.HomepageService
}

func NewHomepageController(homepageService service.HomepageService) *HomepageController {
	return &HomepageController{homepageService: homepageService}
}

type homepageQuery struct {
	IncludeInactive bool `form:"include_inactive"`
}

// includeInactive honours include_inactive only for admin staff.
func includeInactive(c *gin.Context) (bool, error) {
	var query homepageQuery
	if err := validation.BindQuery(c, &query); err != nil {
		return false, err
	}
	return query.IncludeInactive && middleware.IsAdmin(c), nil
}

// GET /api/homepage-settings
func (ctrl *HomepageController) List(c *gin.Context) {
	inactive, err := includeInactive(c)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	settings, err := ctrl.homepageService.List(inactive)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondOK(c, settings)
}

// GetSection returns one section with its products resolved
// GET /api/homepage-settings/:sectionName
func (ctrl *HomepageController) GetSection(c *gin.Context) {
	inactive, err := includeInactive(c)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	setting, err := ctrl.homepageService.GetSection(c.Param("sectionName"), inactive)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondOK(c, setting)
}

// POST /api/homepage-settings
func (ctrl *HomepageController) Create(c *gin.Context) {
	var input service.HomepageSettingInput
	if err := validation.BindJSON(c, &input); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	setting, err := ctrl.homepageService.Create(input)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondCreated(c, "Homepage section created successfully", setting)
}

// PUT /api/homepage-settings/:id
func (ctrl *HomepageController) Update(c *gin.Context) {
	id, err := parseID(c, "id", "homepage setting")
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	var input service.HomepageSettingInput
	if err := validation.BindJSON(c, &input); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	setting, err := ctrl.homepageService.Update(id, input)
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondMessage(c, "Homepage section updated successfully", setting)
}

// DELETE /api/homepage-settings/:id
func (ctrl *HomepageController) Delete(c *gin.Context) {
	id, err := parseID(c, "id", "homepage setting")
	if err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}

	if err := ctrl.homepageService.Delete(id); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	respondMessage(c, "Homepage section deleted successfully", nil)
}
