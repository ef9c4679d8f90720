package models

import "time"

// MembershipRequest is a pending ask by a user to join a group. It is
// consumed by accept (becomes a GroupMember) or reject (discarded); in
// either case the row is deleted. At most one may exist per (group, user).
type MembershipRequest struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	GroupID   uint      `gorm:"not null;uniqueIndex:idx_group_requester" json:"group_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_group_requester" json:"user_id"`

	// Relationships
	Group Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	User  User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
