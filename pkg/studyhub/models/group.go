package models

import (
	"time"

	"gorm.io/gorm"
)

// Group represents a study group. The creator is fixed at creation time
// and holds exclusive rights to delete the group, manage admins, and
// remove members.
type Group struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Name      string         `gorm:"not null" json:"name"`
	Major     Major          `gorm:"type:varchar(50);not null" json:"major"`
	CreatorID uint           `gorm:"not null;index" json:"creator_id"`
	ChatLink  string         `json:"chat_link"`
	ImageKey  string         `json:"image_key,omitempty"` // object storage key, empty if no image

	// Relationships
	Creator        User                `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Members        []GroupMember       `gorm:"foreignKey:GroupID" json:"members,omitempty"`
	Interests      []GroupInterest     `gorm:"foreignKey:GroupID" json:"interests,omitempty"`
	ScheduledTimes []ScheduledTime     `gorm:"foreignKey:GroupID" json:"scheduled_times,omitempty"`
	Requests       []MembershipRequest `gorm:"foreignKey:GroupID" json:"requests,omitempty"`
}
