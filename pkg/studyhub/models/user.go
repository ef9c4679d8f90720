package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account on the platform
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `json:"-"`
	FirstName    string         `gorm:"not null" json:"first_name"`
	LastName     string         `gorm:"not null" json:"last_name"`
	MobileNumber string         `gorm:"uniqueIndex;not null" json:"mobile_number"`
	Verified     bool           `gorm:"default:false" json:"verified"`
	Active       bool           `gorm:"default:true" json:"active"`
	LastLogin    time.Time      `json:"last_login"`

	// Relationships
	Profile       *Profile       `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	Interests     []UserInterest `gorm:"foreignKey:UserID" json:"interests,omitempty"`
	Memberships   []GroupMember  `gorm:"foreignKey:MemberID" json:"memberships,omitempty"`
	Notifications []Notification `gorm:"foreignKey:UserID" json:"notifications,omitempty"`
}

// FullName returns the user's display name as used in notifications
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
