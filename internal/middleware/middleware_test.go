package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"collabnote/config"
	"collabnote/internal/errs"
	"collabnote/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memBlacklist map[string]bool

func (m memBlacklist) Set(_ context.Context, key string, _ interface{}, _ time.Duration) error {
	m[key] = true
	return nil
}

func (m memBlacklist) Exists(_ context.Context, key string) (bool, error) {
	return m[key], nil
}

func testConfig() *config.Config {
	return &config.Config{JWTSecretKey: "secret", JWTIssuer: "collabnote", JWTExpirationTime: time.Hour}
}

func whoAmI(c *gin.Context) {
	id, err := utils.GetUserID(c)
	if err != nil {
		c.String(http.StatusOK, "anonymous")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func serve(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	bl := memBlacklist{}
	r := gin.New()
	r.GET("/me", JWTAuthMiddleware(cfg, bl), whoAmI)

	w := serve(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(r, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := utils.GenerateToken(cfg, 7, "alice")
	require.NoError(t, err)
	w = serve(r, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":7}`, w.Body.String())

	require.NoError(t, utils.AddTokenToBlacklist(context.Background(), bl, token))
	w = serve(r, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddlewareRejectsForeignIssuer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	other := testConfig()
	other.JWTIssuer = "someone-else"
	token, err := utils.GenerateToken(other, 7, "alice")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", JWTAuthMiddleware(cfg, nil), whoAmI)
	assert.Equal(t, http.StatusUnauthorized, serve(r, token).Code)
}

func TestOptionalJWTMiddlewareLetsAnonymousThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	r := gin.New()
	r.GET("/me", OptionalJWTMiddleware(cfg, nil), whoAmI)

	w := serve(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())

	token, err := utils.GenerateToken(cfg, 9, "bob")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":9}`, serve(r, token).Body.String())
}

type fakeReader map[uint]error

func (f fakeReader) CanReadNote(_ context.Context, todoID, _ uint) error {
	return f[todoID]
}

func TestNoteReadMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reader := fakeReader{
		1: nil,
		2: errs.Forbidden("You are not authorized to view this note"),
		3: errs.Missing("Note not found"),
	}
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(utils.ContextUserID, uint(5)); c.Next() })
	r.GET("/notes/:id", NoteReadMiddleware(reader), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	cases := map[string]int{
		"/notes/1":   http.StatusNoContent,
		"/notes/2":   http.StatusForbidden,
		"/notes/3":   http.StatusNotFound,
		"/notes/abc": http.StatusBadRequest,
	}
	for path, want := range cases {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, w.Code, path)
	}
}

type fakeLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (f *fakeLimiter) AllowRequest(_ context.Context, key string, _ int, _ time.Duration) (bool, error) {
	f.keys = append(f.keys, key)
	return f.allowed, f.err
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	run := func(l Limiter) int {
		r := gin.New()
		r.Use(func(c *gin.Context) { c.Set(utils.ContextUserID, uint(5)); c.Next() })
		r.GET("/x", RateLimitMiddleware(l, "create_note", 1, time.Minute), func(c *gin.Context) { c.Status(http.StatusNoContent) })
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		return w.Code
	}

	denied := &fakeLimiter{allowed: false}
	assert.Equal(t, http.StatusTooManyRequests, run(denied))
	assert.Equal(t, []string{"rate:limit:5:create_note"}, denied.keys)

	assert.Equal(t, http.StatusNoContent, run(&fakeLimiter{allowed: true}))
	assert.Equal(t, http.StatusNoContent, run(&fakeLimiter{err: errors.New("redis down")}), "limiter failures fail open")
	assert.Equal(t, http.StatusNoContent, run(nil))
}
