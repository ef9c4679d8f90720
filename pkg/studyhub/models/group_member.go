package models

import "time"

// GroupMember represents the many-to-many relationship between users and
// study groups. The group creator is always inserted as the first member
// with IsAdmin set, in the same transaction that creates the group.
type GroupMember struct {
	ID       uint      `gorm:"primarykey" json:"id"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
	GroupID  uint      `gorm:"not null;uniqueIndex:idx_group_member" json:"group_id"`
	MemberID uint      `gorm:"not null;uniqueIndex:idx_group_member" json:"member_id"`
	IsAdmin  bool      `gorm:"default:false" json:"is_admin"`

	// Relationships
	Group  Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	Member User  `gorm:"foreignKey:MemberID" json:"member,omitempty"`
}
