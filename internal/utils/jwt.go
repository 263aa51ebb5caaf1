package utils

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"strconv"
	"time"

	"collabnote/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Blacklist stores revoked token ids.
type Blacklist interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
}

func GenerateToken(cfg *config.Config, userID uint, username string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":  strconv.FormatUint(uint64(userID), 10),
		"username": username,
		"jti":      uuid.NewString(),
		"exp":      now.Add(cfg.JWTExpirationTime).Unix(),
		"iat":      now.Unix(),
		"iss":      cfg.JWTIssuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecretKey))
}

func ValidateToken(cfg *config.Config, tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(cfg.JWTSecretKey), nil
	}, jwt.WithIssuer(cfg.JWTIssuer))
}

func ExtractClaims(token *jwt.Token) (jwt.MapClaims, error) {
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// UserIDFromClaims reads the user_id claim written by GenerateToken.
func UserIDFromClaims(claims jwt.MapClaims) (uint, error) {
	raw, ok := claims["user_id"].(string)
	if !ok {
		return 0, errors.New("user_id claim missing")
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("user_id claim malformed")
	}
	return uint(id), nil
}

func blacklistKey(jti string) string {
	return "blacklist:" + jti
}

// IsTokenBlacklisted reports whether the token's jti was revoked. A nil
// blacklist means revocation is unavailable.
func IsTokenBlacklisted(ctx context.Context, bl Blacklist, claims jwt.MapClaims) (bool, error) {
	if bl == nil {
		return false, nil
	}
	jti, ok := claims["jti"].(string)
	if !ok || jti == "" {
		return false, nil
	}
	exists, err := bl.Exists(ctx, blacklistKey(jti))
	if err != nil {
		return false, fmt.Errorf("redis error checking blacklist: %w", err)
	}
	return exists, nil
}

// AddTokenToBlacklist revokes the token until it would have expired anyway.
func AddTokenToBlacklist(ctx context.Context, bl Blacklist, tokenString string) error {
	if bl == nil {
		return errors.New("token blacklist unavailable")
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return fmt.Errorf("failed to parse token: %w", err)
	}

	jti, ok := claims["jti"].(string)
	if !ok || jti == "" {
		return nil
	}

	ttl := time.Minute
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		if remaining := time.Until(exp.Time); remaining > 0 {
			ttl = remaining
		}
	}
	return bl.Set(ctx, blacklistKey(jti), "1", ttl)
}

func GetTokenHash(token string) string {
	if token == "" {
		return "empty"
	}
	hash := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", hash[:8])
}
