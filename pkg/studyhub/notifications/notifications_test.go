package notifications

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eli-bans/studyhub/pkg/studyhub/auth"
	"github.com/eli-bans/studyhub/pkg/studyhub/models"
	"github.com/gin-gonic/gin"
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

func setupTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(db)

	notifications := r.Group("/notifications")
	notifications.Use(auth.Middleware(db))
	handler.RegisterRoutes(notifications)

	return r
}

func createTestUser(t *testing.T, db *gorm.DB, email, mobile string) models.User {
	user := models.User{Email: email, FirstName: "Test", LastName: "User", MobileNumber: mobile}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func getAuthHeader(user models.User) string {
	token, _ := auth.GenerateAccessToken(user.ID, user.Email)
	return "Bearer " + token
}

func TestListOnlyOwnNotifications(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "me@example.edu", "+233200000001")
	other := createTestUser(t, db, "other@example.edu", "+233200000002")

	db.Create(&models.Notification{UserID: user.ID, Message: "first"})
	db.Create(&models.Notification{UserID: user.ID, Message: "second"})
	db.Create(&models.Notification{UserID: other.ID, Message: "not yours"})

	req, _ := http.NewRequest("GET", "/notifications", nil)
	req.Header.Set("Authorization", getAuthHeader(user))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var notifications []NotificationResponse
	json.Unmarshal(resp.Body.Bytes(), &notifications)
	if len(notifications) != 2 {
		t.Fatalf("Expected 2 notifications, got %d", len(notifications))
	}
	// Newest first
	if notifications[0].Message != "second" {
		t.Errorf("Expected newest notification first, got %s", notifications[0].Message)
	}
}

func TestToggleRead(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "me@example.edu", "+233200000001")

	notification := models.Notification{UserID: user.ID, Message: "hello"}
	db.Create(&notification)

	req, _ := http.NewRequest("POST", "/notifications/1/toggle-read", nil)
	req.Header.Set("Authorization", getAuthHeader(user))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var updated NotificationResponse
	json.Unmarshal(resp.Body.Bytes(), &updated)
	if !updated.IsRead {
		t.Error("Expected notification to be read after toggle")
	}

	// Toggle back
	req, _ = http.NewRequest("POST", "/notifications/1/toggle-read", nil)
	req.Header.Set("Authorization", getAuthHeader(user))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	json.Unmarshal(resp.Body.Bytes(), &updated)
	if updated.IsRead {
		t.Error("Expected notification to be unread after second toggle")
	}
}

func TestDeleteForeignNotification(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	owner := createTestUser(t, db, "owner@example.edu", "+233200000001")
	other := createTestUser(t, db, "other@example.edu", "+233200000002")

	db.Create(&models.Notification{UserID: owner.ID, Message: "keep out"})

	req, _ := http.NewRequest("DELETE", "/notifications/1", nil)
	req.Header.Set("Authorization", getAuthHeader(other))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for foreign notification, got %d", resp.Code)
	}

	req, _ = http.NewRequest("DELETE", "/notifications/1", nil)
	req.Header.Set("Authorization", getAuthHeader(owner))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Errorf("Expected status 200 for own notification, got %d", resp.Code)
	}
}
