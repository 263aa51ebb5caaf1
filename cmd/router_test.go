package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"collabnote/config"
	"collabnote/internal/infra/db"
	"collabnote/internal/svc"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterAuthBoundaries(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		AppEnv:            "test",
		DBDriver:          db.DriverSQLite,
		DBDSN:             "file:router?mode=memory&cache=shared",
		JWTSecretKey:      "secret",
		JWTIssuer:         "collabnote",
		JWTExpirationTime: time.Hour,
		ListCacheTTL:      time.Minute,
	}
	conn, err := db.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	defer db.Close(conn)

	r := newRouter(&svc.ServiceContext{Config: cfg, DB: conn})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/friends/activities/2", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/notes", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}
