package note

import (
	"context"
	"net/http"

	"collabnote/internal/errs"
	"collabnote/internal/models"
	"collabnote/internal/utils"
	"collabnote/internal/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const MsgUpdated = "Updated note successfully"

// UpdateInput replaces title, description and done. Color and Pinned are
// left untouched when nil.
type UpdateInput struct {
	ID          uint
	Title       string
	Description string
	Done        bool
	Color       *string
	Pinned      *bool
	UserID      uint
}

// UpdateTodo authorizes, validates, snapshots the current state into history
// and then applies the update, all in one transaction.
func (s *Service) UpdateTodo(ctx context.Context, in UpdateInput) (*models.Todo, error) {
	var updated models.Todo

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		todo, err := loadWithCollaborators(tx, in.ID)
		if err != nil {
			return err
		}
		if !AccessFor(todo, in.UserID).CanWrite() {
			return errs.Forbidden(MsgNotAuthorizedWrite)
		}
		if blank(in.Title, in.Description) {
			return errs.Invalid(MsgTitleOrDescription)
		}

		if err := recordHistory(tx, todo, in.UserID); err != nil {
			return err
		}

		changes := map[string]interface{}{
			"title":            in.Title,
			"description":      in.Description,
			"done":             in.Done,
			"last_modified_by": in.UserID,
		}
		if in.Pinned != nil {
			changes["pinned"] = *in.Pinned
		}
		if in.Color != nil {
			changes["todo_color"] = *in.Color
		}
		if err := tx.Model(&models.Todo{ID: todo.ID}).Updates(changes).Error; err != nil {
			return err
		}
		return tx.First(&updated, todo.ID).Error
	})
	if err != nil {
		err = classify(err, "Failed to update note")
		if errs.KindOf(err) == errs.Persistence {
			zap.L().Error("update todo failed", zap.Uint("todo_id", in.ID), zap.Error(err))
		}
		return nil, err
	}

	s.afterMutation(ctx, models.NoteUpdated, &updated)
	return &updated, nil
}

func (h *NoteHandler) UpdateNote(c *gin.Context) {
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

	var req validators.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	todo, err := h.notes.UpdateTodo(c.Request.Context(), UpdateInput{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Done:        req.Done,
		Color:       req.Color,
		Pinned:      req.Pinned,
		UserID:      userID,
	})
	utils.Respond(c, todo, err, MsgUpdated)
}

// TogglePin flips the pinned flag through UpdateTodo, so the change is
// recorded in history like any other edit.
func (s *Service) TogglePin(ctx context.Context, id, userID uint) (*models.Todo, error) {
	var current models.Todo
	if err := s.db.WithContext(ctx).First(&current, id).Error; err != nil {
		return nil, classify(notFound(err), "database error")
	}

	pinned := !current.Pinned
	return s.UpdateTodo(ctx, UpdateInput{
		ID:          id,
		Title:       current.Title,
		Description: current.Description,
		Done:        current.Done,
		Pinned:      &pinned,
		UserID:      userID,
	})
}

func (h *NoteHandler) TogglePin(c *gin.Context) {
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

	todo, err := h.notes.TogglePin(c.Request.Context(), id, userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.SuccessMsg(c, MsgUpdated, gin.H{"pinned": todo.Pinned})
}
