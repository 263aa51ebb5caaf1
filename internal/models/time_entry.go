package models

import "time"

type Category struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	UserID uint   `json:"userId" gorm:"index;not null"`
	Name   string `json:"name" gorm:"size:64;not null"`
	Color  string `json:"color" gorm:"size:32"`

	CreatedAt time.Time `json:"createdAt"`
}

// TimeEntry is a span of activity owned by a user.
type TimeEntry struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	UserID      uint       `json:"userId" gorm:"index;not null"`
	CategoryID  *uint      `json:"categoryId"`
	Category    *Category  `json:"category" gorm:"foreignKey:CategoryID"`
	Description string     `json:"description"`
	StartTime   time.Time  `json:"startTime" gorm:"index;not null"`
	EndTime     *time.Time `json:"endTime"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
