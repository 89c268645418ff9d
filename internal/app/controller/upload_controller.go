package controller

import (
	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/shopadmin-backend/internal/errors"
	"github.com/ikkim/shopadmin-backend/internal/middleware"
	"github.com/ikkim/shopadmin-backend/internal/storage"
	"github.com/ikkim/shopadmin-backend/internal/validation"
)

type UploadController struct {
	storage storage.Presigner
}

func NewUploadController(storage storage.Presigner) *UploadController {
	return &UploadController{storage: storage}
}

type PresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required,oneof=image/jpeg image/png image/webp image/gif"`
	Folder      string `json:"folder" binding:"omitempty,oneof=products collections homepage"`
}

// PresignedURL issues an S3 PUT URL for an image upload
// POST /api/uploads/presigned-url
func (ctrl *UploadController) PresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PresignedURLRequest
	if err := validation.BindJSON(c, &req); err != nil {
		apperrors.RespondEnvelope(c, err)
		return
	}
	if req.Folder == "" {
		req.Folder = "products"
	}

	upload, err := ctrl.storage.PresignUpload(c.Request.Context(), req.Filename, req.ContentType, req.Folder)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename":     req.Filename,
			"content_type": req.ContentType,
			"folder":       req.Folder,
		})
		apperrors.RespondEnvelope(c, err)
		return
	}

	log.Info("Presigned URL generated", map[string]interface{}{
		"key": upload.Key,
	})
	respondOK(c, upload)
}
