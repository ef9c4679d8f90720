package models

import (
	"time"

	"gorm.io/gorm"
)

// AccessBlacklist holds tokens revoked by logout, both the access token
// and the refresh token presented with it. Entries are purged once the
// longest-lived token kind (the 7-day refresh token) must have expired.
type AccessBlacklist struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Token     string    `gorm:"not null;index" json:"-"`
}

// IsBlacklisted reports whether the given token has been revoked
func IsBlacklisted(db *gorm.DB, token string) (bool, error) {
	var count int64
	if err := db.Model(&AccessBlacklist{}).Where("token = ?", token).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Blacklist revokes a token for the given user
func Blacklist(db *gorm.DB, userID uint, token string) error {
	return db.Create(&AccessBlacklist{UserID: userID, Token: token}).Error
}

// CleanupBlacklist removes blacklist entries older than 8 days. Refresh
// tokens live 7 days, so nothing purged here can still be valid.
func CleanupBlacklist(db *gorm.DB) error {
	cutoff := time.Now().Add(-8 * 24 * time.Hour)
	return db.Where("created_at <= ?", cutoff).Delete(&AccessBlacklist{}).Error
}
