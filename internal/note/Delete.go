package note

import (
	"context"
	"net/http"

	"collabnote/internal/errs"
	"collabnote/internal/models"
	"collabnote/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const MsgDeleted = "Deleted note successfully"

// DeleteTodo removes a todo together with its collaborator and image rows.
// Only the owner may delete. History rows are kept.
func (s *Service) DeleteTodo(ctx context.Context, id, userID uint) error {
	var todo models.Todo

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id", "user_id", "title", "description").First(&todo, id).Error; err != nil {
			return notFound(err)
		}
		if !AccessFor(&todo, userID).CanDelete() {
			return errs.Forbidden(MsgNotAuthorizedDel)
		}

		if err := tx.Where("todo_id = ?", todo.ID).Delete(&models.Collaborator{}).Error; err != nil {
			return err
		}
		if err := tx.Where("todo_id = ?", todo.ID).Delete(&models.Image{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Todo{}, todo.ID).Error
	})
	if err != nil {
		err = classify(err, "Failed to delete note")
		if errs.KindOf(err) == errs.Persistence {
			zap.L().Error("delete todo failed", zap.Uint("todo_id", id), zap.Error(err))
		}
		return err
	}

	s.afterMutation(ctx, models.NoteDeleted, &todo)
	return nil
}

func (h *NoteHandler) DeleteNote(c *gin.Context) {
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

	err = h.notes.DeleteTodo(c.Request.Context(), id, userID)
	utils.Respond(c, nil, err, MsgDeleted)
}
