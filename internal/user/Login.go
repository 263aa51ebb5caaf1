package user

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"collabnote/internal/models"
	"collabnote/internal/utils"
	"collabnote/internal/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func sessionKey(userID uint) string {
	return fmt.Sprintf("user:session:%d", userID)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req validators.LoginUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request")
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).Where("username = ?", req.Username).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			zap.L().Error("lookup user failed", zap.Error(err))
		}
		utils.Error(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		utils.Error(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := utils.GenerateToken(h.cfg, user.ID, user.Username)
	if err != nil {
		zap.L().Error("sign token failed", zap.Error(err))
		utils.Error(c, http.StatusInternalServerError, "failed to generate token")
		return
	}

	if h.sessions != nil {
		session, err := json.Marshal(user.Brief())
		if err != nil {
			zap.L().Warn("marshal session failed", zap.Uint("user_id", user.ID), zap.Error(err))
		} else if err := h.sessions.SetWithRandomTTL(c.Request.Context(), sessionKey(user.ID), string(session), h.cfg.JWTExpirationTime); err != nil {
			zap.L().Warn("cache user session failed", zap.Uint("user_id", user.ID), zap.Error(err))
		}
	}

	utils.Success(c, gin.H{"token": token, "user": user.Brief()})
}
