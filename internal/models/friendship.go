package models

import "time"

type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "PENDING"
	FriendshipAccepted FriendshipStatus = "ACCEPTED"
	FriendshipDeclined FriendshipStatus = "DECLINED"
)

// Friendship is a directed request from RequesterID to AddresseeID.
type Friendship struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	RequesterID uint             `json:"requesterId" gorm:"uniqueIndex:idx_friendship_pair;not null"`
	AddresseeID uint             `json:"addresseeId" gorm:"uniqueIndex:idx_friendship_pair;index;not null"`
	Status      FriendshipStatus `json:"status" gorm:"size:16;default:PENDING;index"`

	Requester User `json:"requester" gorm:"foreignKey:RequesterID"`
	Addressee User `json:"addressee" gorm:"foreignKey:AddresseeID"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
