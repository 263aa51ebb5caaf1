package middleware

import (
	"context"
	"net/http"

	"collabnote/internal/errs"
	"collabnote/internal/utils"

	"github.com/gin-gonic/gin"
)

// NoteReader decides whether a user may read a note.
type NoteReader interface {
	CanReadNote(ctx context.Context, todoID, userID uint) error
}

// NoteReadMiddleware lets the request through only when the caller owns or
// collaborates on the note named by the :id parameter.
func NoteReadMiddleware(notes NoteReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := utils.GetUserID(c)
		if err != nil {
			utils.Error(c, http.StatusUnauthorized, err.Error())
			return
		}
		noteID, err := utils.ParamID(c, "id")
		if err != nil {
			utils.Error(c, http.StatusBadRequest, err.Error())
			return
		}

		if err := notes.CanReadNote(c.Request.Context(), noteID, userID); err != nil {
			utils.Error(c, errs.HTTPStatus(err), errs.MessageOf(err))
			return
		}
		c.Next()
	}
}
