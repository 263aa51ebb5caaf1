package note

import (
	"context"
	"net/http"

	"collabnote/internal/errs"
	"collabnote/internal/models"
	"collabnote/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// recordHistory snapshots the todo as it is before the pending update.
func recordHistory(tx *gorm.DB, todo *models.Todo, requester uint) error {
	modifiedBy := requester
	if todo.LastModifiedBy != nil {
		modifiedBy = *todo.LastModifiedBy
	}

	snapshot := models.TodoHistory{
		TodoID:         todo.ID,
		Title:          todo.Title,
		Description:    todo.Description,
		Done:           todo.Done,
		Pinned:         todo.Pinned,
		TodoColor:      todo.TodoColor,
		LastModifiedBy: modifiedBy,
		CreatedAt:      todo.UpdatedAt,
	}
	return tx.Create(&snapshot).Error
}

// GetHistory returns every snapshot of the todo, newest first. It does not
// check who is asking; the HTTP route guards it with the read-access
// middleware.
func (s *Service) GetHistory(ctx context.Context, todoID uint) ([]models.TodoHistory, error) {
	var history []models.TodoHistory
	err := s.db.WithContext(ctx).
		Where("todo_id = ?", todoID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&history).Error
	if err != nil {
		return nil, errs.DB("Failed to fetch note history", err)
	}
	return history, nil
}

func (h *NoteHandler) GetNoteHistory(c *gin.Context) {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		utils.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	history, err := h.notes.GetHistory(c.Request.Context(), id)
	utils.Respond(c, history, err, "Fetched note history successfully")
}
