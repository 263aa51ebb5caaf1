package middleware

import (
	"net/http"
	"strings"

	"collabnote/config"
	"collabnote/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextToken is the gin context key holding the raw bearer token.
const ContextToken = "token"

// JWTAuthMiddleware rejects requests without a valid, unrevoked bearer token
// and stores the caller's id under utils.ContextUserID.
func JWTAuthMiddleware(cfg *config.Config, bl utils.Blacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		if msg, ok := authenticate(c, cfg, bl); !ok {
			utils.Error(c, http.StatusUnauthorized, msg)
			return
		}
		c.Next()
	}
}

// OptionalJWTMiddleware identifies the caller when it can and otherwise lets
// the handler decide how to answer an anonymous request.
func OptionalJWTMiddleware(cfg *config.Config, bl utils.Blacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticate(c, cfg, bl)
		c.Next()
	}
}

func authenticate(c *gin.Context, cfg *config.Config, bl utils.Blacklist) (string, bool) {
	header := c.GetHeader("Authorization")
	tokenString, found := strings.CutPrefix(header, "Bearer ")
	if !found || tokenString == "" {
		return "missing bearer token", false
	}

	token, err := utils.ValidateToken(cfg, tokenString)
	if err != nil {
		zap.L().Debug("invalid token", zap.String("token_hash", utils.GetTokenHash(tokenString)), zap.Error(err))
		return "invalid or expired token", false
	}
	claims, err := utils.ExtractClaims(token)
	if err != nil {
		return "invalid token claims", false
	}

	revoked, err := utils.IsTokenBlacklisted(c.Request.Context(), bl, claims)
	if err != nil {
		zap.L().Error("blacklist lookup failed", zap.Error(err))
		return "could not verify token", false
	}
	if revoked {
		return "token has been revoked", false
	}

	userID, err := utils.UserIDFromClaims(claims)
	if err != nil {
		return err.Error(), false
	}

	c.Set(utils.ContextUserID, userID)
	if username, ok := claims["username"].(string); ok {
		c.Set("username", username)
	}
	c.Set(ContextToken, tokenString)
	return "", true
}
