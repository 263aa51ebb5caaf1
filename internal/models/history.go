package models

import "time"

// TodoHistory is an append-only snapshot of a todo taken just before an update.
// CreatedAt holds the todo's UpdatedAt at the time of the snapshot.
type TodoHistory struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	TodoID         uint      `json:"todoId" gorm:"index;not null"`
	Title          string    `json:"title"`
	Description    string    `json:"description" gorm:"type:text"`
	Done           bool      `json:"done"`
	Pinned         bool      `json:"pinned"`
	TodoColor      *string   `json:"todoColor" gorm:"size:64"`
	LastModifiedBy uint      `json:"lastModifiedBy"`
	CreatedAt      time.Time `json:"createdAt" gorm:"index"`
}

func (TodoHistory) TableName() string {
	return "todo_histories"
}
