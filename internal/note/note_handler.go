package note

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"collabnote/internal/errs"
	"collabnote/internal/models"
	"collabnote/internal/mq"
	"collabnote/internal/svc"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ListingPath is the view path revalidated after every mutation.
const ListingPath = "/notes"

// Revalidator drops cached views under a path.
type Revalidator interface {
	Revalidate(ctx context.Context, path string) error
}

// Publisher sends note events to the broker.
type Publisher interface {
	Publish(queue string, body []byte) error
}

type Embedder interface {
	GetEmbedding(ctx context.Context, text string) ([]float32, error)
}

type VectorSearcher interface {
	Search(ctx context.Context, vector []float32, limit uint64) ([]uint, error)
}

// ViewCache stores rendered listing pages.
type ViewCache interface {
	GetView(ctx context.Context, path string) (string, error)
	SetView(ctx context.Context, path string, value interface{}, ttl time.Duration) error
}

type FileStore interface {
	UploadImage(ctx context.Context, fileName string, fileSize int64, reader io.Reader, contentType string) (string, error)
	Remove(ctx context.Context, fileName string) error
}

type TitleSuggester interface {
	SuggestTitle(ctx context.Context, description string) (string, error)
}

// Service holds the note operations. Every method opens its own database
// interaction; nothing is shared between calls besides the clients.
type Service struct {
	db       *gorm.DB
	views    Revalidator
	events   Publisher
	embedder Embedder
	vectors  VectorSearcher
}

func NewService(db *gorm.DB, views Revalidator, events Publisher) *Service {
	return &Service{db: db, views: views, events: events}
}

// WithSemanticSearch enables SemanticSearch.
func (s *Service) WithSemanticSearch(embedder Embedder, vectors VectorSearcher) *Service {
	s.embedder = embedder
	s.vectors = vectors
	return s
}

// afterMutation invalidates the listing view and announces the change.
// Neither failure undoes the committed write.
func (s *Service) afterMutation(ctx context.Context, action string, todo *models.Todo) {
	if s.views != nil {
		if err := s.views.Revalidate(ctx, ListingPath); err != nil {
			zap.L().Warn("revalidate listing failed", zap.String("path", ListingPath), zap.Error(err))
		}
	}

	if s.events == nil {
		return
	}
	msg := models.NoteEventMsg{
		Action:      action,
		TodoID:      todo.ID,
		UserID:      todo.UserID,
		Title:       todo.Title,
		Description: todo.Description,
		At:          time.Now().Unix(),
	}
	body, err := json.Marshal(msg)
	if err != nil {
		zap.L().Error("marshal note event failed", zap.Error(err))
		return
	}
	if err := s.events.Publish(mq.NoteEventsQueue, body); err != nil {
		zap.L().Warn("publish note event failed", zap.Uint("todo_id", todo.ID), zap.String("action", action), zap.Error(err))
	}
}

// classify keeps kinded errors and wraps everything else as a persistence failure.
func classify(err error, message string) error {
	var appErr *errs.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return errs.DB(message, err)
}

type NoteHandler struct {
	notes   *Service
	views   ViewCache
	files   FileStore
	titles  TitleSuggester
	listTTL time.Duration
}

// NewNoteHandler wires the note service to whichever clients the service
// context managed to open.
func NewNoteHandler(sc *svc.ServiceContext) *NoteHandler {
	var (
		views  Revalidator
		cache  ViewCache
		events Publisher
	)
	if sc.Cache != nil {
		views = sc.Cache
		cache = sc.Cache
	}
	if sc.Rabbit != nil {
		events = sc.Rabbit
	}

	notes := NewService(sc.DB, views, events)
	if sc.AI != nil && sc.Qdrant != nil {
		notes.WithSemanticSearch(sc.AI, sc.Qdrant)
	}

	h := &NoteHandler{
		notes:   notes,
		views:   cache,
		listTTL: sc.Config.ListCacheTTL,
	}
	if sc.Minio != nil {
		h.files = sc.Minio
	}
	if sc.AI != nil {
		h.titles = sc.AI
	}
	return h
}

// Notes exposes the service for middleware that needs access checks.
func (h *NoteHandler) Notes() *Service {
	return h.notes
}
