package note

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"collabnote/internal/errs"
	"collabnote/internal/models"
	"collabnote/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	MsgFetched   = "Fetched note details successfully"
	defaultLimit = 10
)

// Page is one page of the notes a user can see.
type Page struct {
	Todos       []models.Todo `json:"todo"`
	TotalCount  int64         `json:"totalCount"`
	CurrentPage int           `json:"currentPage"`
	TotalPages  int           `json:"totalPages"`
}

// normalizePage coerces page up to 1 and limit up to the default.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}

// totalPages is ceil(total/limit) without forming total+limit.
func totalPages(total int64, limit int) int {
	n := total / int64(limit)
	if total%int64(limit) != 0 {
		n++
	}
	return int(n)
}

// pageOffset reports the row offset of page, or false when it is past any
// offset the database can address.
func pageOffset(page, limit int) (int, bool) {
	if page-1 > math.MaxInt/limit {
		return 0, false
	}
	return (page - 1) * limit, true
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("User").
		Preload("Images").
		Preload("Collaborators.User")
}

// ListTodos returns the notes the user owns or collaborates on, pinned first
// and newest first within each group. The count and the page are read
// concurrently and independently, so under concurrent writes the total may
// briefly disagree with the page.
func (s *Service) ListTodos(ctx context.Context, userID uint, page, limit int) (*Page, error) {
	page, limit = normalizePage(page, limit)
	if userID == 0 {
		return &Page{Todos: []models.Todo{}, CurrentPage: page}, errs.Invalid(MsgUserIDRequired)
	}

	var (
		todos []models.Todo
		total int64
	)
	offset, inRange := pageOffset(page, limit)
	g, gctx := errgroup.WithContext(ctx)
	if inRange {
		g.Go(func() error {
			return withDetails(s.db.WithContext(gctx)).
				Scopes(accessibleBy(userID)).
				Order("pinned DESC").
				Order("created_at DESC").
				Offset(offset).
				Limit(limit).
				Find(&todos).Error
		})
	}
	g.Go(func() error {
		return s.db.WithContext(gctx).
			Model(&models.Todo{}).
			Scopes(accessibleBy(userID)).
			Count(&total).Error
	})
	if err := g.Wait(); err != nil {
		zap.L().Error("list todos failed", zap.Uint("user_id", userID), zap.Error(err))
		return &Page{Todos: []models.Todo{}, CurrentPage: page}, errs.DB(err.Error(), err)
	}

	if todos == nil {
		todos = []models.Todo{}
	}
	return &Page{
		Todos:       todos,
		TotalCount:  total,
		CurrentPage: page,
		TotalPages:  totalPages(total, limit),
	}, nil
}

// GetTodo loads one todo with its details for a reader.
func (s *Service) GetTodo(ctx context.Context, id, userID uint) (*models.Todo, error) {
	var todo models.Todo
	if err := withDetails(s.db.WithContext(ctx)).First(&todo, id).Error; err != nil {
		return nil, classify(notFound(err), "database error")
	}
	if !AccessFor(&todo, userID).CanRead() {
		return nil, errs.Forbidden(MsgNotAuthorizedRead)
	}
	return &todo, nil
}

func listingViewPath(userID uint, page, limit int) string {
	return fmt.Sprintf("%s/user/%d?page=%d&limit=%d", ListingPath, userID, page, limit)
}

func (h *NoteHandler) GetNotes(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	page, limit = normalizePage(page, limit)
	viewPath := listingViewPath(userID, page, limit)

	if h.views != nil {
		if cached, err := h.views.GetView(c, viewPath); err == nil {
			var result Page
			if err := json.Unmarshal([]byte(cached), &result); err == nil {
				zap.L().Debug("listing served from cache", zap.String("path", viewPath))
				utils.SuccessMsg(c, MsgFetched, result)
				return
			}
		}
	}

	result, err := h.notes.ListTodos(c.Request.Context(), userID, page, limit)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	if h.views != nil {
		if body, err := json.Marshal(result); err == nil {
			if err := h.views.SetView(c, viewPath, string(body), h.listTTL); err != nil {
				zap.L().Warn("cache listing failed", zap.String("path", viewPath), zap.Error(err))
			}
		}
	}
	utils.SuccessMsg(c, MsgFetched, result)
}

func (h *NoteHandler) GetNote(c *gin.Context) {
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

	todo, err := h.notes.GetTodo(c.Request.Context(), id, userID)
	utils.Respond(c, todo, err, MsgFetched)
}
