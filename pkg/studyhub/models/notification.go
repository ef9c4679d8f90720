package models

import "time"

// Notification is a message delivered to a single user. The group
// workflows only ever append notifications; read and delete state is
// managed by the notifications API.
type Notification struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Message   string    `gorm:"not null" json:"message"`
	IsRead    bool      `gorm:"default:false" json:"is_read"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
