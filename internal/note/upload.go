package note

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"collabnote/internal/errs"
	"collabnote/internal/models"
	"collabnote/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm/clause"
)

const (
	MsgImageAttached   = "Image attached successfully"
	MsgStorageDisabled = "Image storage is not configured"
	maxImageSize       = 5 * 1024 * 1024
)

var allowedImages = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ImageUpload is an image on its way to object storage.
type ImageUpload struct {
	Filename    string
	Size        int64
	ContentType string
	Body        io.Reader
}

// AttachImage uploads the image and records it against the todo. Anyone who
// may edit the todo may attach images. The stored object is removed again
// when the row cannot be written.
func (s *Service) AttachImage(ctx context.Context, files FileStore, todoID, userID uint, img ImageUpload) (*models.Image, error) {
	if files == nil {
		return nil, errs.New(errs.Persistence, MsgStorageDisabled)
	}

	todo, err := loadWithCollaborators(s.db.WithContext(ctx), todoID)
	if err != nil {
		return nil, err
	}
	if !AccessFor(todo, userID).CanWrite() {
		return nil, errs.Forbidden(MsgNotAuthorizedWrite)
	}

	ext := filepath.Ext(img.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	objectName := fmt.Sprintf("%s%s", uuid.New().String(), ext)

	url, err := files.UploadImage(ctx, objectName, img.Size, img.Body, img.ContentType)
	if err != nil {
		zap.L().Error("image upload failed", zap.Uint("todo_id", todoID), zap.Error(err))
		return nil, errs.Wrap(errs.Persistence, "Image upload failed", err)
	}

	image := models.Image{TodoID: todo.ID, URL: url}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&image).Error; err != nil {
		if rmErr := files.Remove(ctx, objectName); rmErr != nil {
			zap.L().Warn("remove orphaned image failed", zap.String("object", objectName), zap.Error(rmErr))
		}
		return nil, errs.DB("Failed to save image", err)
	}

	if s.views != nil {
		if err := s.views.Revalidate(ctx, ListingPath); err != nil {
			zap.L().Warn("revalidate listing failed", zap.String("path", ListingPath), zap.Error(err))
		}
	}
	return &image, nil
}

func (h *NoteHandler) UploadImage(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}
	id, err := utils.ParamID(c, "id")
	if err != nil {
		utils.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	if header.Size > maxImageSize {
		utils.Error(c, http.StatusBadRequest, "image must not exceed 5MB")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if !allowedImages[contentType] {
		utils.Error(c, http.StatusBadRequest, "unsupported image format")
		return
	}

	image, err := h.notes.AttachImage(c.Request.Context(), h.files, id, userID, ImageUpload{
		Filename:    header.Filename,
		Size:        header.Size,
		ContentType: contentType,
		Body:        file,
	})
	utils.Respond(c, image, err, MsgImageAttached)
}
