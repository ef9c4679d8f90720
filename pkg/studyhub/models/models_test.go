package models

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	return db
}

func TestAutoMigrate(t *testing.T) {
	db := setupTestDB(t)

	err := AutoMigrate(db)
	if err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}

	// Verify tables exist by checking if we can query them
	tables := []string{
		"users", "profiles", "user_interests", "access_blacklists",
		"notifications", "groups", "group_interests", "group_members",
		"scheduled_times", "membership_requests",
	}
	for _, table := range tables {
		if !db.Migrator().HasTable(table) {
			t.Errorf("Expected table %s to exist", table)
		}
	}
}

func TestUserModel(t *testing.T) {
	db := setupTestDB(t)
	AutoMigrate(db)

	user := User{
		Email:        "ama@example.edu",
		PasswordHash: "hashed_password",
		FirstName:    "Ama",
		LastName:     "Mensah",
		MobileNumber: "+233201234567",
	}

	result := db.Create(&user)
	if result.Error != nil {
		t.Fatalf("Failed to create user: %v", result.Error)
	}

	if user.ID == 0 {
		t.Error("Expected user ID to be set after create")
	}
	if user.FullName() != "Ama Mensah" {
		t.Errorf("Expected full name 'Ama Mensah', got %s", user.FullName())
	}

	// Test unique email constraint
	user2 := User{
		Email:        "ama@example.edu",
		PasswordHash: "another_hash",
		FirstName:    "Other",
		LastName:     "Person",
		MobileNumber: "+233209999999",
	}
	result = db.Create(&user2)
	if result.Error == nil {
		t.Error("Expected error when creating user with duplicate email")
	}
}

func TestGroupAndMembership(t *testing.T) {
	db := setupTestDB(t)
	AutoMigrate(db)

	creator := User{
		Email:        "creator@example.edu",
		FirstName:    "Kofi",
		LastName:     "Owusu",
		MobileNumber: "+233200000001",
	}
	db.Create(&creator)

	group := Group{
		Name:      "Algo Study",
		Major:     MajorCS,
		CreatorID: creator.ID,
		ChatLink:  "https://chat.example.com/algo",
	}
	if err := db.Create(&group).Error; err != nil {
		t.Fatalf("Failed to create group: %v", err)
	}

	member := GroupMember{GroupID: group.ID, MemberID: creator.ID, IsAdmin: true}
	if err := db.Create(&member).Error; err != nil {
		t.Fatalf("Failed to create membership: %v", err)
	}

	// Duplicate membership should violate the unique index
	dup := GroupMember{GroupID: group.ID, MemberID: creator.ID}
	if err := db.Create(&dup).Error; err == nil {
		t.Error("Expected error when creating duplicate membership")
	}
}

func TestMembershipRequestUniqueness(t *testing.T) {
	db := setupTestDB(t)
	AutoMigrate(db)

	req := MembershipRequest{GroupID: 1, UserID: 2}
	if err := db.Create(&req).Error; err != nil {
		t.Fatalf("Failed to create membership request: %v", err)
	}

	dup := MembershipRequest{GroupID: 1, UserID: 2}
	if err := db.Create(&dup).Error; err == nil {
		t.Error("Expected error when creating duplicate membership request")
	}
}

func TestMajorAndInterestValidation(t *testing.T) {
	if !MajorCS.Valid() {
		t.Error("Expected Computer Science to be a valid major")
	}
	if Major("Astrology").Valid() {
		t.Error("Expected Astrology to be rejected as a major")
	}

	if got := len(AllInterests()); got != 22 {
		t.Errorf("Expected 22 interests, got %d", got)
	}
	if !InterestAI.Valid() {
		t.Error("Expected Artificial Intelligence to be a valid interest")
	}
	if Interest("Knitting").Valid() {
		t.Error("Expected Knitting to be rejected as an interest")
	}
}

func TestAccessBlacklist(t *testing.T) {
	db := setupTestDB(t)
	AutoMigrate(db)

	blacklisted, err := IsBlacklisted(db, "some-token")
	if err != nil {
		t.Fatalf("IsBlacklisted failed: %v", err)
	}
	if blacklisted {
		t.Error("Expected unknown token to not be blacklisted")
	}

	if err := Blacklist(db, 1, "some-token"); err != nil {
		t.Fatalf("Blacklist failed: %v", err)
	}

	blacklisted, _ = IsBlacklisted(db, "some-token")
	if !blacklisted {
		t.Error("Expected token to be blacklisted after Blacklist")
	}
}

func TestCleanupBlacklistKeepsLiveTokens(t *testing.T) {
	db := setupTestDB(t)
	AutoMigrate(db)

	// A revoked refresh token is still valid on day 2 and must survive cleanup
	Blacklist(db, 1, "recent-token")
	db.Model(&AccessBlacklist{}).Where("token = ?", "recent-token").
		Update("created_at", time.Now().Add(-2*24*time.Hour))

	Blacklist(db, 1, "stale-token")
	db.Model(&AccessBlacklist{}).Where("token = ?", "stale-token").
		Update("created_at", time.Now().Add(-9*24*time.Hour))

	if err := CleanupBlacklist(db); err != nil {
		t.Fatalf("CleanupBlacklist failed: %v", err)
	}

	blacklisted, _ := IsBlacklisted(db, "recent-token")
	if !blacklisted {
		t.Error("Expected token within the refresh lifetime to stay blacklisted")
	}
	blacklisted, _ = IsBlacklisted(db, "stale-token")
	if blacklisted {
		t.Error("Expected expired entry to be purged")
	}
}
