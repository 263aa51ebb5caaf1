package user

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"collabnote/config"
	"collabnote/internal/errs"
	"collabnote/internal/infra/db"
	"collabnote/internal/middleware"
	"collabnote/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memSessions struct {
	mu   sync.Mutex
	data map[string]interface{}
}

func (m *memSessions) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = map[string]interface{}{}
	}
	m.data[key] = value
	return nil
}

func (m *memSessions) SetWithRandomTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return m.Set(ctx, key, value, ttl)
}

func (m *memSessions) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

func (m *memSessions) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	conn, err := db.Open(&config.Config{
		DBDriver: db.DriverSQLite,
		DBDSN:    fmt.Sprintf("file:user_%s?mode=memory&cache=shared", name),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	t.Cleanup(func() { _ = db.Close(conn) })
	return conn
}

func seedUser(t *testing.T, conn *gorm.DB, username string) uint {
	t.Helper()
	u := models.User{Username: username, Password: "x"}
	require.NoError(t, conn.Create(&u).Error)
	return u.ID
}

func TestFriendRequestLifecycle(t *testing.T) {
	conn := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, conn, "alice")
	bob := seedUser(t, conn, "bob")

	fs, err := SendFriendRequest(ctx, conn, alice, bob)
	require.NoError(t, err)
	assert.Equal(t, models.FriendshipPending, fs.Status)

	_, err = SendFriendRequest(ctx, conn, bob, alice)
	assert.ErrorIs(t, err, errs.ErrValidation, "a reverse request is a duplicate")

	friends, err := ListFriends(ctx, conn, alice)
	require.NoError(t, err)
	assert.Empty(t, friends)

	_, err = AcceptFriendRequest(ctx, conn, alice, bob)
	assert.ErrorIs(t, err, errs.ErrNotFound, "only the addressee can accept")

	accepted, err := AcceptFriendRequest(ctx, conn, bob, alice)
	require.NoError(t, err)
	assert.Equal(t, models.FriendshipAccepted, accepted.Status)

	friends, err = ListFriends(ctx, conn, alice)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, "bob", friends[0].Username)

	friends, err = ListFriends(ctx, conn, bob)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, "alice", friends[0].Username)
}

func TestSendFriendRequestRejectsSelfAndUnknown(t *testing.T) {
	conn := newTestDB(t)
	alice := seedUser(t, conn, "alice")

	_, err := SendFriendRequest(context.Background(), conn, alice, alice)
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = SendFriendRequest(context.Background(), conn, alice, 999)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.Equal(t, MsgUserNotFound, errs.MessageOf(err))
}

func postJSON(r http.Handler, path string, body interface{}, header map[string]string) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterLoginLogout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	conn := newTestDB(t)
	cfg := &config.Config{JWTSecretKey: "secret", JWTIssuer: "collabnote", JWTExpirationTime: time.Hour}
	sessions := &memSessions{}
	h := NewUserHandler(conn, cfg, sessions)

	r := gin.New()
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	r.POST("/logout", middleware.JWTAuthMiddleware(cfg, sessions), h.Logout)
	r.GET("/me", middleware.JWTAuthMiddleware(cfg, sessions), h.Me)

	w := postJSON(r, "/register", gin.H{"username": "alice", "password": "hunter22"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = postJSON(r, "/register", gin.H{"username": "alice", "password": "hunter22"}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = postJSON(r, "/login", gin.H{"username": "alice", "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(r, "/login", gin.H{"username": "alice", "password": "hunter22"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Data struct {
			Token string           `json:"token"`
			User  models.UserBrief `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Data.Token)
	assert.Equal(t, "alice", login.Data.User.Username)
	assert.Contains(t, sessions.data, sessionKey(login.Data.User.ID))

	auth := map[string]string{"Authorization": "Bearer " + login.Data.Token}
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", auth["Authorization"])
	me := httptest.NewRecorder()
	r.ServeHTTP(me, req)
	assert.Equal(t, http.StatusOK, me.Code)

	w = postJSON(r, "/logout", nil, auth)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotContains(t, sessions.data, sessionKey(login.Data.User.ID))

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", auth["Authorization"])
	me = httptest.NewRecorder()
	r.ServeHTTP(me, req)
	assert.Equal(t, http.StatusUnauthorized, me.Code, "revoked token is refused")
}
