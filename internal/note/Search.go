package note

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"collabnote/internal/errs"
	"collabnote/internal/models"
	"collabnote/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	MsgSearchOK          = "Data fetched successfully."
	MsgSearchFailed      = "Error fetching notes."
	MsgQueryRequired     = "Search query 'q' is required"
	MsgQueryTooLong      = "Search query is too long"
	MsgSemanticDisabled  = "Semantic search is not configured"
	unknownUsername      = "Unknown"
	maxQueryLen          = 50
	defaultSemanticLimit = 10
)

// SearchUser is the part of the owner shown in search results.
type SearchUser struct {
	Username string `json:"username"`
}

type SearchImage struct {
	ID  uint   `json:"id"`
	URL string `json:"url"`
}

// SearchHit is one note matching a search.
type SearchHit struct {
	ID             uint          `json:"id"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Done           bool          `json:"done"`
	TodoColor      *string       `json:"todoColor"`
	UpdatedAt      time.Time     `json:"updatedAt"`
	LastModifiedBy *uint         `json:"lastModifiedBy"`
	User           SearchUser    `json:"user"`
	Images         []SearchImage `json:"images"`
}

func toSearchHit(t models.Todo) SearchHit {
	username := t.User.Username
	if username == "" {
		username = unknownUsername
	}
	images := make([]SearchImage, 0, len(t.Images))
	for _, img := range t.Images {
		images = append(images, SearchImage{ID: img.ID, URL: img.URL})
	}
	return SearchHit{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		Done:           t.Done,
		TodoColor:      t.TodoColor,
		UpdatedAt:      t.UpdatedAt,
		LastModifiedBy: t.LastModifiedBy,
		User:           SearchUser{Username: username},
		Images:         images,
	}
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// escapeLike escapes LIKE metacharacters using '!' as the escape character,
// which behaves the same on mysql, postgres and sqlite.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// SearchTodos matches query against title or description, ignoring case,
// among the notes the user owns or collaborates on.
func (s *Service) SearchTodos(ctx context.Context, query string, userID uint) ([]SearchHit, error) {
	// both sides are folded by the database
	pattern := "%" + escapeLike(query) + "%"

	var todos []models.Todo
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Images").
		Scopes(accessibleBy(userID)).
		Where("(LOWER(todos.title) LIKE LOWER(?) ESCAPE '!' OR LOWER(todos.description) LIKE LOWER(?) ESCAPE '!')", pattern, pattern).
		Order("updated_at DESC").
		Find(&todos).Error
	if err != nil {
		zap.L().Error("search todos failed", zap.Uint("user_id", userID), zap.Error(err))
		return []SearchHit{}, errs.DB(MsgSearchFailed, err)
	}

	hits := make([]SearchHit, 0, len(todos))
	for _, t := range todos {
		hits = append(hits, toSearchHit(t))
	}
	return hits, nil
}

// SemanticSearch ranks the user's accessible notes by similarity to query.
// Notes the index returns but the user cannot see are dropped.
func (s *Service) SemanticSearch(ctx context.Context, query string, userID uint, limit int) ([]SearchHit, error) {
	if s.embedder == nil || s.vectors == nil {
		return []SearchHit{}, errs.New(errs.Persistence, MsgSemanticDisabled)
	}
	if limit < 1 {
		limit = defaultSemanticLimit
	}

	vec, err := s.embedder.GetEmbedding(ctx, query)
	if err != nil {
		return []SearchHit{}, errs.Wrap(errs.Persistence, MsgSearchFailed, err)
	}
	ids, err := s.vectors.Search(ctx, vec, uint64(limit))
	if err != nil {
		return []SearchHit{}, errs.Wrap(errs.Persistence, MsgSearchFailed, err)
	}
	if len(ids) == 0 {
		return []SearchHit{}, nil
	}

	var todos []models.Todo
	err = s.db.WithContext(ctx).
		Preload("User").
		Preload("Images").
		Scopes(accessibleBy(userID)).
		Where("todos.id IN ?", ids).
		Find(&todos).Error
	if err != nil {
		return []SearchHit{}, errs.DB(MsgSearchFailed, err)
	}

	byID := make(map[uint]models.Todo, len(todos))
	for _, t := range todos {
		byID[t.ID] = t
	}
	hits := make([]SearchHit, 0, len(todos))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			hits = append(hits, toSearchHit(t))
		}
	}
	return hits, nil
}

func searchQuery(c *gin.Context) (string, bool) {
	query := c.Query("q")
	if query == "" {
		utils.Error(c, http.StatusBadRequest, MsgQueryRequired)
		return "", false
	}
	if utf8.RuneCountInString(query) > maxQueryLen {
		utils.Error(c, http.StatusBadRequest, MsgQueryTooLong)
		return "", false
	}
	return query, true
}

func (h *NoteHandler) SearchNotes(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}
	query, ok := searchQuery(c)
	if !ok {
		return
	}

	hits, err := h.notes.SearchTodos(c.Request.Context(), query, userID)
	utils.Respond(c, hits, err, MsgSearchOK)
}

func (h *NoteHandler) SemanticSearchNotes(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, err.Error())
		return
	}
	query, ok := searchQuery(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultSemanticLimit)))

	hits, err := h.notes.SemanticSearch(c.Request.Context(), query, userID, limit)
	utils.Respond(c, hits, err, MsgSearchOK)
}
