package models

import (
	"time"
)

// Todo is a note. The creator owns it and is also stored as its owning
// collaborator.
type Todo struct {
	ID             uint    `json:"id" gorm:"primaryKey"`
	Title          string  `json:"title"`
	Description    string  `json:"description" gorm:"type:text"`
	Done           bool    `json:"done" gorm:"default:false"`
	Pinned         bool    `json:"pinned" gorm:"default:false;index"`
	TodoColor      *string `json:"todoColor" gorm:"size:64"`
	UserID         uint    `json:"userId" gorm:"index;not null"`
	LastModifiedBy *uint   `json:"lastModifiedBy"`

	User          User           `json:"user" gorm:"foreignKey:UserID"`
	Collaborators []Collaborator `json:"collaborators" gorm:"foreignKey:TodoID"`
	Images        []Image        `json:"images" gorm:"foreignKey:TodoID"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (Todo) TableName() string {
	return "todos"
}

// Collaborator grants a user access to a todo. Exactly one row per todo has
// IsOwner set.
type Collaborator struct {
	ID      uint `json:"id" gorm:"primaryKey"`
	UserID  uint `json:"userId" gorm:"uniqueIndex:idx_collaborator_todo_user;not null"`
	TodoID  uint `json:"todoId" gorm:"uniqueIndex:idx_collaborator_todo_user;index;not null"`
	IsOwner bool `json:"isOwner" gorm:"default:false"`

	User User `json:"user" gorm:"foreignKey:UserID"`

	CreatedAt time.Time `json:"createdAt"`
}

// Image is an attachment stored in object storage.
type Image struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	TodoID uint   `json:"todoId" gorm:"index;not null"`
	URL    string `json:"url" gorm:"size:512"`

	CreatedAt time.Time `json:"createdAt"`
}

// NoteEventMsg is published on every successful note mutation.
type NoteEventMsg struct {
	Action      string `json:"action"` // "created", "updated" or "deleted"
	TodoID      uint   `json:"todo_id"`
	UserID      uint   `json:"user_id"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	At          int64  `json:"at"`
}

const (
	NoteCreated = "created"
	NoteUpdated = "updated"
	NoteDeleted = "deleted"
)
