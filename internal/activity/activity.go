// Package activity serves time entries, their categories and the
// friendship-gated feed of a friend's entries.
package activity

import (
	"context"
	"errors"

	"collabnote/internal/errs"
	"collabnote/internal/models"
	"collabnote/internal/svc"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	MsgNotFriends       = "Not authorized to view this user's activities"
	MsgFeedFailed       = "Failed to fetch friend's activities"
	MsgCategoryNotFound = "Category not found"
	MsgEndBeforeStart   = "End time must not be before start time"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// AreFriends reports whether an accepted friendship links a and b in either
// direction.
func (s *Service) AreFriends(ctx context.Context, a, b uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("status = ?", models.FriendshipAccepted).
		Where("(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)", a, b, b, a).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FriendActivities returns friendID's time entries, newest start first, when
// viewerID and friendID are friends.
func (s *Service) FriendActivities(ctx context.Context, viewerID, friendID uint) ([]models.TimeEntry, error) {
	ok, err := s.AreFriends(ctx, viewerID, friendID)
	if err != nil {
		return nil, errs.DB(MsgFeedFailed, err)
	}
	if !ok {
		return nil, errs.Forbidden(MsgNotFriends)
	}
	return s.entriesOf(ctx, friendID, MsgFeedFailed)
}

// TimeEntries returns the user's own entries, newest start first.
func (s *Service) TimeEntries(ctx context.Context, userID uint) ([]models.TimeEntry, error) {
	return s.entriesOf(ctx, userID, "Failed to fetch time entries")
}

func (s *Service) entriesOf(ctx context.Context, userID uint, failure string) ([]models.TimeEntry, error) {
	entries := []models.TimeEntry{}
	err := s.db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ?", userID).
		Order("start_time DESC").
		Find(&entries).Error
	if err != nil {
		return nil, errs.DB(failure, err)
	}
	return entries, nil
}

// CreateTimeEntry stores an entry for entry.UserID. A category, when given,
// must belong to the same user.
func (s *Service) CreateTimeEntry(ctx context.Context, entry *models.TimeEntry) error {
	if entry.EndTime != nil && entry.EndTime.Before(entry.StartTime) {
		return errs.Invalid(MsgEndBeforeStart)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if entry.CategoryID != nil {
			var cat models.Category
			err := tx.Where("id = ? AND user_id = ?", *entry.CategoryID, entry.UserID).First(&cat).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errs.Missing(MsgCategoryNotFound)
				}
				return err
			}
			entry.Category = &cat
		}
		return tx.Omit(clause.Associations).Create(entry).Error
	})
	if err != nil {
		var appErr *errs.Error
		if errors.As(err, &appErr) {
			return appErr
		}
		return errs.DB("Failed to create time entry", err)
	}
	return nil
}

func (s *Service) CreateCategory(ctx context.Context, cat *models.Category) error {
	if err := s.db.WithContext(ctx).Create(cat).Error; err != nil {
		return errs.DB("Failed to create category", err)
	}
	return nil
}

func (s *Service) Categories(ctx context.Context, userID uint) ([]models.Category, error) {
	cats := []models.Category{}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("name ASC").Find(&cats).Error; err != nil {
		return nil, errs.DB("Failed to fetch categories", err)
	}
	return cats, nil
}

type ActivityHandler struct {
	activities *Service
}

func NewActivityHandler(sc *svc.ServiceContext) *ActivityHandler {
	return &ActivityHandler{activities: NewService(sc.DB)}
}
