package user

import (
	"context"
	"errors"
	"net/http"

	"collabnote/internal/errs"
	"collabnote/internal/models"
	"collabnote/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	MsgSelfFriend      = "You can't befriend yourself"
	MsgFriendExists    = "Friend request already exists"
	MsgRequestNotFound = "Friend request not found"
	MsgUserNotFound    = "User not found"
)

// SendFriendRequest records a pending request from requester to addressee.
// A request in either direction blocks a second one.
func SendFriendRequest(ctx context.Context, db *gorm.DB, requesterID, addresseeID uint) (*models.Friendship, error) {
	if requesterID == addresseeID {
		return nil, errs.Invalid(MsgSelfFriend)
	}

	var fs models.Friendship
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var target models.User
		if err := tx.Select("id").First(&target, addresseeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.Missing(MsgUserNotFound)
			}
			return err
		}

		var count int64
		err := tx.Model(&models.Friendship{}).
			Where("(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
				requesterID, addresseeID, addresseeID, requesterID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return errs.Invalid(MsgFriendExists)
		}

		fs = models.Friendship{
			RequesterID: requesterID,
			AddresseeID: addresseeID,
			Status:      models.FriendshipPending,
		}
		return tx.Omit(clause.Associations).Create(&fs).Error
	})
	if err != nil {
		return nil, kinded(err, "Failed to send friend request")
	}
	return &fs, nil
}

// AcceptFriendRequest accepts the pending request requester sent to addressee.
func AcceptFriendRequest(ctx context.Context, db *gorm.DB, addresseeID, requesterID uint) (*models.Friendship, error) {
	var fs models.Friendship
	err := db.WithContext(ctx).
		Where("requester_id = ? AND addressee_id = ? AND status = ?", requesterID, addresseeID, models.FriendshipPending).
		First(&fs).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Missing(MsgRequestNotFound)
		}
		return nil, errs.DB("Failed to accept friend request", err)
	}

	if err := db.WithContext(ctx).Model(&fs).Update("status", models.FriendshipAccepted).Error; err != nil {
		return nil, errs.DB("Failed to accept friend request", err)
	}
	fs.Status = models.FriendshipAccepted
	return &fs, nil
}

// ListFriends returns the users with an accepted friendship with userID.
func ListFriends(ctx context.Context, db *gorm.DB, userID uint) ([]models.UserBrief, error) {
	var links []models.Friendship
	err := db.WithContext(ctx).
		Preload("Requester").
		Preload("Addressee").
		Where("(requester_id = ? OR addressee_id = ?) AND status = ?", userID, userID, models.FriendshipAccepted).
		Order("updated_at DESC").
		Find(&links).Error
	if err != nil {
		return nil, errs.DB("Failed to fetch friends", err)
	}

	friends := make([]models.UserBrief, 0, len(links))
	for _, l := range links {
		if l.RequesterID == userID {
			friends = append(friends, l.Addressee.Brief())
		} else {
			friends = append(friends, l.Requester.Brief())
		}
	}
	return friends, nil
}

func kinded(err error, message string) error {
	var appErr *errs.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	zap.L().Error(message, zap.Error(err))
	return errs.DB(message, err)
}

func (h *UserHandler) SendFriendRequest(c *gin.Context) {
	me, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}
	target, err := utils.ParamID(c, "id")
	if err != nil {
		utils.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	fs, err := SendFriendRequest(c.Request.Context(), h.db, me, target)
	utils.Respond(c, fs, err, "Friend request sent")
}

func (h *UserHandler) AcceptFriendRequest(c *gin.Context) {
	me, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}
	requester, err := utils.ParamID(c, "id")
	if err != nil {
		utils.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	fs, err := AcceptFriendRequest(c.Request.Context(), h.db, me, requester)
	utils.Respond(c, fs, err, "Friend request accepted")
}

func (h *UserHandler) ListFriends(c *gin.Context) {
	me, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	friends, err := ListFriends(c.Request.Context(), h.db, me)
	utils.Respond(c, friends, err, "Fetched friends successfully")
}
