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
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func (h *UserHandler) Register(c *gin.Context) {
	var req validators.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request")
		return
	}
	req.Username = strings.TrimSpace(req.Username)

	var exists models.User
	err := h.db.WithContext(c.Request.Context()).Select("id").Where("username = ?", req.Username).First(&exists).Error
	if err == nil {
		utils.Error(c, http.StatusConflict, "username already exists")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		zap.L().Error("lookup username failed", zap.Error(err))
		utils.Error(c, http.StatusInternalServerError, "database error")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		zap.L().Error("hash password failed", zap.Error(err))
		utils.Error(c, http.StatusInternalServerError, "failed to register")
		return
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashed),
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = &name
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		zap.L().Error("create user failed", zap.String("username", req.Username), zap.Error(err))
		utils.Error(c, http.StatusInternalServerError, "failed to register")
		return
	}

	utils.SuccessMsg(c, "user registered", user.Brief())
}
