package user

import (
	"context"
	"time"

	"collabnote/config"
	"collabnote/internal/svc"

	"gorm.io/gorm"
)

// SessionStore caches login sessions and revoked tokens.
type SessionStore interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	SetWithRandomTTL(ctx context.Context, key string, value interface{}, baseTTL time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
	Del(ctx context.Context, key string) error
}

type UserHandler struct {
	db       *gorm.DB
	sessions SessionStore
	cfg      *config.Config
}

func NewUserHandler(db *gorm.DB, cfg *config.Config, sessions SessionStore) *UserHandler {
	return &UserHandler{db: db, cfg: cfg, sessions: sessions}
}

// NewUserHandlerFromContext leaves sessions nil when redis is down, which
// disables session caching and logout.
func NewUserHandlerFromContext(sc *svc.ServiceContext) *UserHandler {
	h := &UserHandler{db: sc.DB, cfg: sc.Config}
	if sc.Cache != nil {
		h.sessions = sc.Cache
	}
	return h
}
