// Package notify writes user notifications emitted by the group
// workflows. Notifications are best-effort side effects: they run after
// the primary mutation has committed, and failures are logged rather
// than propagated.
package notify

import (
	"log"

	"github.com/eli-bans/studyhub/pkg/studyhub/models"
	"gorm.io/gorm"
)

// User sends a notification to a single user
func User(db *gorm.DB, userID uint, message string) {
	n := models.Notification{UserID: userID, Message: message}
	if err := db.Create(&n).Error; err != nil {
		log.Printf("Failed to notify user %d: %v", userID, err)
	}
}

// GroupAdmins sends the same notification to every admin member of a group
func GroupAdmins(db *gorm.DB, groupID uint, message string) {
	var admins []models.GroupMember
	if err := db.Where("group_id = ? AND is_admin = ?", groupID, true).Find(&admins).Error; err != nil {
		log.Printf("Failed to load admins of group %d: %v", groupID, err)
		return
	}
	for _, admin := range admins {
		User(db, admin.MemberID, message)
	}
}
