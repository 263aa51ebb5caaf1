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
	"gorm.io/gorm/clause"
)

const (
	MsgTitleOrDescription = "At least one of title or description is required"
	MsgUserIDRequired     = "User ID is required"
	MsgCreated            = "Created note successfully"
)

type CreateInput struct {
	Title       string
	Description string
	Done        bool
	Color       *string
	UserID      uint
}

// blank reports whether both fields are empty. Whitespace counts as content.
func blank(title, description string) bool {
	return title == "" && description == ""
}

// CreateTodo inserts the todo and its owning collaborator in one transaction.
func (s *Service) CreateTodo(ctx context.Context, in CreateInput) (*models.Todo, error) {
	if in.UserID == 0 {
		return nil, errs.Invalid(MsgUserIDRequired)
	}
	if blank(in.Title, in.Description) {
		return nil, errs.Invalid(MsgTitleOrDescription)
	}

	creator := in.UserID
	todo := models.Todo{
		Title:          in.Title,
		Description:    in.Description,
		Done:           in.Done,
		TodoColor:      in.Color,
		UserID:         in.UserID,
		LastModifiedBy: &creator,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&todo).Error; err != nil {
			return err
		}
		owner := models.Collaborator{
			UserID:  in.UserID,
			TodoID:  todo.ID,
			IsOwner: true,
		}
		return tx.Omit(clause.Associations).Create(&owner).Error
	})
	if err != nil {
		zap.L().Error("create todo failed", zap.Uint("user_id", in.UserID), zap.Error(err))
		return nil, errs.DB("Failed to create note", err)
	}

	s.afterMutation(ctx, models.NoteCreated, &todo)
	return &todo, nil
}

func (h *NoteHandler) CreateNote(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	var req validators.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, "invalid note")
		return
	}

	todo, err := h.notes.CreateTodo(c.Request.Context(), CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Done:        req.Done,
		Color:       req.Color,
		UserID:      userID,
	})
	utils.Respond(c, todo, err, MsgCreated)
}

// SuggestTitle asks the language model for a title; nothing is stored.
func (h *NoteHandler) SuggestTitle(c *gin.Context) {
	if h.titles == nil {
		utils.Error(c, http.StatusServiceUnavailable, "title suggestions are unavailable")
		return
	}

	var req validators.SuggestTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "description is required")
		return
	}

	title, err := h.titles.SuggestTitle(c.Request.Context(), req.Description)
	if err != nil {
		zap.L().Error("suggest title failed", zap.Error(err))
		utils.Error(c, http.StatusBadGateway, "failed to suggest a title")
		return
	}
	utils.Success(c, gin.H{"title": title})
}
