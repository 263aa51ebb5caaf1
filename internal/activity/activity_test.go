package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"collabnote/config"
	"collabnote/internal/errs"
	"collabnote/internal/infra/db"
	"collabnote/internal/models"
	"collabnote/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	conn, err := db.Open(&config.Config{
		DBDriver: db.DriverSQLite,
		DBDSN:    fmt.Sprintf("file:activity_%s?mode=memory&cache=shared", name),
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

func befriend(t *testing.T, conn *gorm.DB, requester, addressee uint, status models.FriendshipStatus) {
	t.Helper()
	require.NoError(t, conn.Create(&models.Friendship{
		RequesterID: requester,
		AddresseeID: addressee,
		Status:      status,
	}).Error)
}

func seedEntries(t *testing.T, s *Service, userID uint) (older, newer models.TimeEntry) {
	t.Helper()
	cat := models.Category{UserID: userID, Name: "Work", Color: "blue"}
	require.NoError(t, s.CreateCategory(context.Background(), &cat))

	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	older = models.TimeEntry{UserID: userID, CategoryID: &cat.ID, Description: "standup", StartTime: base}
	newer = models.TimeEntry{UserID: userID, Description: "review", StartTime: base.Add(3 * time.Hour)}
	require.NoError(t, s.CreateTimeEntry(context.Background(), &older))
	require.NoError(t, s.CreateTimeEntry(context.Background(), &newer))
	return older, newer
}

func TestFriendActivitiesRequiresAcceptedFriendship(t *testing.T) {
	conn := newTestDB(t)
	s := NewService(conn)
	alice := seedUser(t, conn, "alice")
	bob := seedUser(t, conn, "bob")
	carol := seedUser(t, conn, "carol")
	befriend(t, conn, alice, carol, models.FriendshipPending)
	seedEntries(t, s, bob)

	_, err := s.FriendActivities(context.Background(), alice, bob)
	assert.ErrorIs(t, err, errs.ErrAuthorization)
	assert.Equal(t, MsgNotFriends, errs.MessageOf(err))

	_, err = s.FriendActivities(context.Background(), alice, carol)
	assert.ErrorIs(t, err, errs.ErrAuthorization, "a pending request is not a friendship")
}

func TestFriendActivitiesEitherDirection(t *testing.T) {
	conn := newTestDB(t)
	s := NewService(conn)
	alice := seedUser(t, conn, "alice")
	bob := seedUser(t, conn, "bob")
	befriend(t, conn, bob, alice, models.FriendshipAccepted)
	older, newer := seedEntries(t, s, bob)

	for _, viewer := range [][2]uint{{alice, bob}, {bob, alice}} {
		ok, err := s.AreFriends(context.Background(), viewer[0], viewer[1])
		require.NoError(t, err)
		assert.True(t, ok)
	}

	entries, err := s.FriendActivities(context.Background(), alice, bob)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, newer.ID, entries[0].ID)
	assert.Equal(t, older.ID, entries[1].ID)
	require.NotNil(t, entries[1].Category)
	assert.Equal(t, "Work", entries[1].Category.Name)
	assert.Nil(t, entries[0].Category)
}

func TestCreateTimeEntryChecksCategoryOwner(t *testing.T) {
	conn := newTestDB(t)
	s := NewService(conn)
	alice := seedUser(t, conn, "alice")
	bob := seedUser(t, conn, "bob")

	cat := models.Category{UserID: bob, Name: "Bob's"}
	require.NoError(t, s.CreateCategory(context.Background(), &cat))

	entry := models.TimeEntry{UserID: alice, CategoryID: &cat.ID, StartTime: time.Now()}
	err := s.CreateTimeEntry(context.Background(), &entry)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	end := time.Now().Add(-time.Hour)
	entry = models.TimeEntry{UserID: alice, StartTime: time.Now(), EndTime: &end}
	err = s.CreateTimeEntry(context.Background(), &entry)
	assert.ErrorIs(t, err, errs.ErrValidation)

	entries, err := s.TimeEntries(context.Background(), alice)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func newTestRouter(conn *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &ActivityHandler{activities: NewService(conn)}
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-User-ID"); id != "" {
			c.Set(utils.ContextUserID, id)
		}
		c.Next()
	})
	r.GET("/friends/activities/:friendId", h.FriendActivities)
	return r
}

func get(r http.Handler, path, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestFriendActivitiesHandlerStatuses(t *testing.T) {
	conn := newTestDB(t)
	s := NewService(conn)
	alice := seedUser(t, conn, "alice")
	bob := seedUser(t, conn, "bob")
	carol := seedUser(t, conn, "carol")
	befriend(t, conn, alice, bob, models.FriendshipAccepted)
	seedEntries(t, s, bob)
	r := newTestRouter(conn)

	w := get(r, fmt.Sprintf("/friends/activities/%d", bob), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())

	w = get(r, fmt.Sprintf("/friends/activities/%d", bob), fmt.Sprint(carol))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"Not authorized to view this user's activities"}`, w.Body.String())

	w = get(r, "/friends/activities/not-a-number", fmt.Sprint(alice))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = get(r, fmt.Sprintf("/friends/activities/%d", bob), fmt.Sprint(alice))
	require.Equal(t, http.StatusOK, w.Code)
	var entries []models.TimeEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	assert.Len(t, entries, 2)
	assert.True(t, entries[0].StartTime.After(entries[1].StartTime))
}

func TestFriendActivitiesHandlerServerError(t *testing.T) {
	conn := newTestDB(t)
	alice := seedUser(t, conn, "alice")
	r := newTestRouter(conn)
	require.NoError(t, db.Close(conn))

	w := get(r, "/friends/activities/2", fmt.Sprint(alice))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch friend's activities"}`, w.Body.String())
}
