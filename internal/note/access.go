package note

import (
	"context"
	"errors"

	"collabnote/internal/errs"
	"collabnote/internal/models"

	"gorm.io/gorm"
)

const (
	MsgNotFound           = "Note not found"
	MsgNotAuthorizedRead  = "You are not authorized to view this note"
	MsgNotAuthorizedWrite = "You are not authorized to update this note"
	MsgNotAuthorizedDel   = "You are not authorized to delete this note"
	MsgNotAuthorizedShare = "Only the owner can manage collaborators"
)

// Access describes what a requester is to a todo.
type Access struct {
	IsOwner        bool
	IsCollaborator bool
}

// AccessFor derives the requester's access from a todo with its collaborators loaded.
func AccessFor(todo *models.Todo, userID uint) Access {
	a := Access{IsOwner: userID != 0 && todo.UserID == userID}
	for _, c := range todo.Collaborators {
		if c.UserID == userID {
			a.IsCollaborator = true
			break
		}
	}
	return a
}

func (a Access) CanRead() bool { return a.IsOwner || a.IsCollaborator }

// CanWrite allows collaborators to edit.
func (a Access) CanWrite() bool { return a.IsOwner || a.IsCollaborator }

// CanDelete is owner-only; collaborators may edit but not delete.
func (a Access) CanDelete() bool { return a.IsOwner }

func (a Access) CanShare() bool { return a.IsOwner }

// loadWithCollaborators fetches a todo and its collaborator list.
func loadWithCollaborators(db *gorm.DB, id uint) (*models.Todo, error) {
	var todo models.Todo
	if err := db.Preload("Collaborators").First(&todo, id).Error; err != nil {
		return nil, classify(notFound(err), "database error")
	}
	return &todo, nil
}

// notFound turns gorm's missing-record error into a NotFound error.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.Missing(MsgNotFound)
	}
	return err
}

// CanReadNote returns nil when userID may read the todo, otherwise a
// NotFound or Authorization error.
func (s *Service) CanReadNote(ctx context.Context, todoID, userID uint) error {
	todo, err := loadWithCollaborators(s.db.WithContext(ctx), todoID)
	if err != nil {
		return err
	}
	if !AccessFor(todo, userID).CanRead() {
		return errs.Forbidden(MsgNotAuthorizedRead)
	}
	return nil
}

// accessibleBy limits a todo query to notes the user owns or collaborates on.
func accessibleBy(userID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		collaborating := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.Collaborator{}).
			Select("todo_id").
			Where("user_id = ?", userID)
		return db.Where("todos.user_id = ? OR todos.id IN (?)", userID, collaborating)
	}
}
