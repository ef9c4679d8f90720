package notify

import (
	"testing"

	"github.com/eli-bans/studyhub/pkg/studyhub/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	models.AutoMigrate(db)
	return db
}

func TestUser(t *testing.T) {
	db := setupTestDB(t)

	User(db, 7, "You created the group Algo Study")

	var notifications []models.Notification
	db.Find(&notifications)
	if len(notifications) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(notifications))
	}
	if notifications[0].UserID != 7 {
		t.Errorf("Expected recipient 7, got %d", notifications[0].UserID)
	}
	if notifications[0].IsRead {
		t.Error("Expected new notification to be unread")
	}
}

func TestGroupAdminsOnlyNotifiesAdmins(t *testing.T) {
	db := setupTestDB(t)

	db.Create(&models.GroupMember{GroupID: 1, MemberID: 10, IsAdmin: true})
	db.Create(&models.GroupMember{GroupID: 1, MemberID: 11, IsAdmin: false})
	db.Create(&models.GroupMember{GroupID: 1, MemberID: 12, IsAdmin: true})
	db.Create(&models.GroupMember{GroupID: 2, MemberID: 13, IsAdmin: true})

	GroupAdmins(db, 1, "Kofi Owusu requested to join the group Algo Study")

	var notifications []models.Notification
	db.Order("user_id").Find(&notifications)
	if len(notifications) != 2 {
		t.Fatalf("Expected 2 notifications, got %d", len(notifications))
	}
	if notifications[0].UserID != 10 || notifications[1].UserID != 12 {
		t.Errorf("Expected recipients 10 and 12, got %d and %d",
			notifications[0].UserID, notifications[1].UserID)
	}
}
