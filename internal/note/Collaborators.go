package note

import (
	"context"
	"errors"
	"net/http"

	"collabnote/internal/errs"
	"collabnote/internal/models"
	"collabnote/internal/utils"
	"collabnote/internal/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	MsgCollaboratorAdded   = "Collaborator added successfully"
	MsgCollaboratorRemoved = "Collaborator removed successfully"
	MsgUserNotFound        = "User not found"
	MsgCollaboratorMissing = "Collaborator not found"
	MsgOwnerNotRemovable   = "The owner cannot be removed from the note"
)

// AddCollaborator grants targetID access to the todo. Only the owner may
// share. Adding an existing collaborator returns the existing row.
func (s *Service) AddCollaborator(ctx context.Context, todoID, ownerID, targetID uint) (*models.Collaborator, error) {
	var collab models.Collaborator

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		todo, err := loadWithCollaborators(tx, todoID)
		if err != nil {
			return err
		}
		if !AccessFor(todo, ownerID).CanShare() {
			return errs.Forbidden(MsgNotAuthorizedShare)
		}

		var target models.User
		if err := tx.Select("id").First(&target, targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.Missing(MsgUserNotFound)
			}
			return err
		}

		for _, c := range todo.Collaborators {
			if c.UserID == targetID {
				collab = c
				return nil
			}
		}

		collab = models.Collaborator{UserID: targetID, TodoID: todo.ID}
		return tx.Omit(clause.Associations).Create(&collab).Error
	})
	if err != nil {
		err = classify(err, "Failed to add collaborator")
		if errs.KindOf(err) == errs.Persistence {
			zap.L().Error("add collaborator failed", zap.Uint("todo_id", todoID), zap.Error(err))
		}
		return nil, err
	}

	if s.views != nil {
		if err := s.views.Revalidate(ctx, ListingPath); err != nil {
			zap.L().Warn("revalidate listing failed", zap.String("path", ListingPath), zap.Error(err))
		}
	}
	return &collab, nil
}

// RemoveCollaborator revokes targetID's access. The owning collaborator row
// is never removed, so every todo keeps at least one collaborator.
func (s *Service) RemoveCollaborator(ctx context.Context, todoID, ownerID, targetID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		todo, err := loadWithCollaborators(tx, todoID)
		if err != nil {
			return err
		}
		if !AccessFor(todo, ownerID).CanShare() {
			return errs.Forbidden(MsgNotAuthorizedShare)
		}

		for _, c := range todo.Collaborators {
			if c.UserID != targetID {
				continue
			}
			if c.IsOwner || targetID == todo.UserID {
				return errs.Invalid(MsgOwnerNotRemovable)
			}
			return tx.Delete(&models.Collaborator{}, c.ID).Error
		}
		return errs.Missing(MsgCollaboratorMissing)
	})
	if err != nil {
		return classify(err, "Failed to remove collaborator")
	}

	if s.views != nil {
		if err := s.views.Revalidate(ctx, ListingPath); err != nil {
			zap.L().Warn("revalidate listing failed", zap.String("path", ListingPath), zap.Error(err))
		}
	}
	return nil
}

func (h *NoteHandler) AddCollaborator(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}
	id, err := utils.ParamID(c, "id")
	if err != nil {
		utils.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	var req validators.AddCollaboratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	collab, err := h.notes.AddCollaborator(c.Request.Context(), id, userID, req.UserID)
	utils.Respond(c, collab, err, MsgCollaboratorAdded)
}

func (h *NoteHandler) RemoveCollaborator(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}
	id, err := utils.ParamID(c, "id")
	if err != nil {
		utils.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	target, err := utils.ParamID(c, "userId")
	if err != nil {
		utils.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	err = h.notes.RemoveCollaborator(c.Request.Context(), id, userID, target)
	utils.Respond(c, nil, err, MsgCollaboratorRemoved)
}
