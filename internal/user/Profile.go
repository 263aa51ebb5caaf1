package user

import (
	"errors"
	"net/http"
	"strings"

	"collabnote/internal/models"
	"collabnote/internal/utils"
	"collabnote/internal/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (h *UserHandler) Me(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(c, http.StatusNotFound, "user not found")
		} else {
			zap.L().Error("db query user failed", zap.Error(err))
			utils.Error(c, http.StatusInternalServerError, "database error")
		}
		return
	}
	utils.Success(c, user.Brief())
}

func (h *UserHandler) UpdateMyProfile(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	var req validators.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		updates["email"] = strings.TrimSpace(*req.Email)
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if len(updates) == 0 {
		utils.Error(c, http.StatusBadRequest, "at least one field is required")
		return
	}

	db := h.db.WithContext(c.Request.Context())
	result := db.Model(&models.User{}).Where("id = ?", userID).Updates(updates)
	if result.Error != nil {
		zap.L().Error("update profile failed", zap.Error(result.Error))
		utils.Error(c, http.StatusInternalServerError, "failed to update profile")
		return
	}
	if result.RowsAffected == 0 {
		utils.Error(c, http.StatusNotFound, "user not found")
		return
	}

	var updated models.User
	if err := db.First(&updated, userID).Error; err != nil {
		zap.L().Error("reload profile failed", zap.Error(err))
		utils.Error(c, http.StatusInternalServerError, "database error")
		return
	}
	utils.Success(c, updated.Brief())
}
