package models

import "time"

// Major represents a field of study. The set is closed: values outside
// this list are rejected at the API boundary.
type Major string

const (
	MajorMIS Major = "Management Information Systems"
	MajorCS  Major = "Computer Science"
	MajorBA  Major = "Business Administration"
	MajorEE  Major = "Electrical Engineering"
	MajorME  Major = "Mechanical Engineering"
	MajorCE  Major = "Computer Engineering"
)

// AllMajors lists every valid major
func AllMajors() []Major {
	return []Major{MajorMIS, MajorCS, MajorBA, MajorEE, MajorME, MajorCE}
}

// Valid reports whether m is one of the known majors
func (m Major) Valid() bool {
	for _, known := range AllMajors() {
		if m == known {
			return true
		}
	}
	return false
}

// Profile holds the academic details of a user. Each user has at most one.
type Profile struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	UserID      uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	Major       Major     `gorm:"type:varchar(50);not null" json:"major"`
	DateOfBirth time.Time `json:"date_of_birth"`
	PictureKey  string    `json:"picture_key,omitempty"` // object storage key, empty if no picture

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
