package models

import "time"

// GroupInterest records a single interest tag attached to a study group
type GroupInterest struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	GroupID   uint      `gorm:"not null;index" json:"group_id"`
	Interest  Interest  `gorm:"type:varchar(50);not null" json:"interest"`

	// Relationships
	Group Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`
}
