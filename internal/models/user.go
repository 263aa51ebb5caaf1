package models

import "time"

type User struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	Username string  `json:"username" gorm:"size:50;uniqueIndex"`
	Name     *string `json:"name" gorm:"size:100"`
	Email    string  `json:"email" gorm:"size:255"`
	Image    *string `json:"image" gorm:"size:512"`
	Password string  `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserBrief is the public part of a user shown next to notes and friends.
type UserBrief struct {
	ID       uint    `json:"id"`
	Username string  `json:"username"`
	Name     *string `json:"name"`
	Image    *string `json:"image"`
	Email    string  `json:"email"`
}

func (u User) Brief() UserBrief {
	return UserBrief{ID: u.ID, Username: u.Username, Name: u.Name, Image: u.Image, Email: u.Email}
}
