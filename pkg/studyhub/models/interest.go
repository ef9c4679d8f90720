package models

import "time"

// Interest is a study topic tag. Users and groups both carry interests,
// and the recommendation engine matches on overlap. The set is closed.
type Interest string

const (
	InterestAI  Interest = "Artificial Intelligence"
	InterestML  Interest = "Machine Learning"
	InterestDS  Interest = "Data Science"
	InterestSE  Interest = "Software Engineering"
	InterestDB  Interest = "Database Management"
	InterestNW  Interest = "Networks"
	InterestWeb Interest = "Web Development"
	InterestMob Interest = "Mobile Development"
	InterestSec Interest = "Cyber Security"
	InterestIoT Interest = "Internet of Things"
	InterestAR  Interest = "Augmented Reality"
	InterestVR  Interest = "Virtual Reality"
	InterestBC  Interest = "Blockchain"
	InterestCC  Interest = "Cloud Computing"
	InterestRob Interest = "Robotics"
	InterestBL  Interest = "Business Law"
	InterestMK  Interest = "Marketing"
	InterestFN  Interest = "Finance"
	InterestAC  Interest = "Accounting"
	InterestEC  Interest = "Economics"
	InterestPM  Interest = "Project Management"
	InterestHR  Interest = "Human Resources"
)

// AllInterests lists every valid interest tag
func AllInterests() []Interest {
	return []Interest{
		InterestAI, InterestML, InterestDS, InterestSE, InterestDB,
		InterestNW, InterestWeb, InterestMob, InterestSec, InterestIoT,
		InterestAR, InterestVR, InterestBC, InterestCC, InterestRob,
		InterestBL, InterestMK, InterestFN, InterestAC, InterestEC,
		InterestPM, InterestHR,
	}
}

// Valid reports whether i is one of the known interest tags
func (i Interest) Valid() bool {
	for _, known := range AllInterests() {
		if i == known {
			return true
		}
	}
	return false
}

// UserInterest records a single interest tag held by a user.
// Row order (primary key) is the order interests were added, which the
// recommendation engine relies on.
type UserInterest struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Interest  Interest  `gorm:"type:varchar(50);not null" json:"interest"`
}
