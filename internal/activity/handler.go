package activity

import (
	"net/http"
	"strconv"

	"collabnote/internal/errs"
	"collabnote/internal/models"
	"collabnote/internal/utils"
	"collabnote/internal/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FriendActivities answers with a bare JSON array or a bare {"error": ...}
// object rather than the usual envelope.
func (h *ActivityHandler) FriendActivities(c *gin.Context) {
	viewerID, err := utils.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	// An unparsable id cannot name a friend.
	friendID, err := strconv.ParseUint(c.Param("friendId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": MsgNotFriends})
		return
	}

	entries, err := h.activities.FriendActivities(c.Request.Context(), viewerID, uint(friendID))
	switch errs.KindOf(err) {
	case "":
		c.JSON(http.StatusOK, entries)
	case errs.Authorization:
		c.JSON(http.StatusForbidden, gin.H{"error": MsgNotFriends})
	default:
		zap.L().Error("fetch friend activities failed", zap.Uint("viewer_id", viewerID), zap.Uint64("friend_id", friendID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": MsgFeedFailed})
	}
}

func (h *ActivityHandler) CreateTimeEntry(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	var req validators.CreateTimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	entry := models.TimeEntry{
		UserID:      userID,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	}
	err = h.activities.CreateTimeEntry(c.Request.Context(), &entry)
	utils.Respond(c, entry, err, "Created time entry successfully")
}

func (h *ActivityHandler) ListTimeEntries(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	entries, err := h.activities.TimeEntries(c.Request.Context(), userID)
	utils.Respond(c, entries, err, "Fetched time entries successfully")
}

func (h *ActivityHandler) CreateCategory(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	var req validators.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	cat := models.Category{UserID: userID, Name: req.Name, Color: req.Color}
	err = h.activities.CreateCategory(c.Request.Context(), &cat)
	utils.Respond(c, cat, err, "Created category successfully")
}

func (h *ActivityHandler) ListCategories(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	cats, err := h.activities.Categories(c.Request.Context(), userID)
	utils.Respond(c, cats, err, "Fetched categories successfully")
}
