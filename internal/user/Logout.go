package user

import (
	"net/http"

	"collabnote/internal/middleware"
	"collabnote/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logout revokes the bearer token the request was authenticated with.
func (h *UserHandler) Logout(c *gin.Context) {
	if h.sessions == nil {
		utils.Error(c, http.StatusServiceUnavailable, "logout is unavailable")
		return
	}
	tokenString := c.GetString(middleware.ContextToken)
	if tokenString == "" {
		utils.Error(c, http.StatusBadRequest, "missing token")
		return
	}

	if err := utils.AddTokenToBlacklist(c.Request.Context(), h.sessions, tokenString); err != nil {
		zap.L().Error("failed to add token to blacklist", zap.Error(err), zap.String("token_part", utils.GetTokenHash(tokenString)))
		utils.Error(c, http.StatusInternalServerError, "failed to logout")
		return
	}

	if userID, err := utils.GetUserID(c); err == nil {
		if err := h.sessions.Del(c.Request.Context(), sessionKey(userID)); err != nil {
			zap.L().Warn("drop user session failed", zap.Uint("user_id", userID), zap.Error(err))
		}
	}

	utils.SuccessMsg(c, "logged out successfully", nil)
}
