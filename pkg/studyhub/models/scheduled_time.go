package models

import "time"

// ScheduledTime is a recurring meeting slot for a study group.
// StartTime must be strictly before EndTime; times are "HH:MM" strings
// validated at the API boundary.
type ScheduledTime struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	GroupID   uint      `gorm:"not null;index" json:"group_id"`
	Day       string    `gorm:"not null" json:"day"`
	StartTime string    `gorm:"not null" json:"start_time"`
	EndTime   string    `gorm:"not null" json:"end_time"`

	// Relationships
	Group Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`
}
