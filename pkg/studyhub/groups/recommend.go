package groups

import (
	"net/http"

	"github.com/eli-bans/studyhub/pkg/studyhub/auth"
	"github.com/eli-bans/studyhub/pkg/studyhub/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Recommend returns groups the user might want to join: first every
// candidate group sharing the user's major, then groups matched by
// interest overlap. The output is deterministic and duplicate-free;
// there is no relevance scoring.
// @Summary Recommend study groups
// @Description Suggest groups the user is not in, by major match then interest overlap
// @Tags groups
// @Produce json
// @Success 200 {array} GroupResponse
// @Failure 404 {object} map[string]string "Profile required"
// @Security BearerAuth
// @Router /groups/recommendations [get]
func (h *Handler) Recommend(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var profile models.Profile
	if err := h.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Create a profile to get recommendations"})
		return
	}

	var interests []models.UserInterest
	if err := h.db.Where("user_id = ?", userID).Order("id").Find(&interests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch interests"})
		return
	}

	recommended, err := recommendGroups(h.db, userID, profile.Major, interests)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute recommendations"})
		return
	}

	resp := make([]GroupResponse, len(recommended))
	for i, group := range recommended {
		resp[i] = h.toGroupResponse(c, group)
	}
	c.JSON(http.StatusOK, resp)
}

// recommendGroups runs the two-pass filter over all groups the user is
// not yet a member of. Candidates are visited in creation order; a
// group matched in the major pass is never revisited in the interest
// pass, so no group appears twice.
func recommendGroups(db *gorm.DB, userID uint, major models.Major, interests []models.UserInterest) ([]models.Group, error) {
	var memberships []models.GroupMember
	if err := db.Where("member_id = ?", userID).Find(&memberships).Error; err != nil {
		return nil, err
	}
	memberOf := make(map[uint]bool, len(memberships))
	for _, m := range memberships {
		memberOf[m.GroupID] = true
	}

	var allGroups []models.Group
	if err := db.Order("id").Find(&allGroups).Error; err != nil {
		return nil, err
	}

	recommended := []models.Group{}
	var candidates []models.Group

	// Pass 1: groups sharing the user's major
	for _, group := range allGroups {
		if memberOf[group.ID] {
			continue
		}
		if group.Major == major {
			recommended = append(recommended, group)
		} else {
			candidates = append(candidates, group)
		}
	}

	// Pass 2: interest overlap, in the order the user recorded interests
	for _, userInterest := range interests {
		var remaining []models.Group
		for _, group := range candidates {
			var count int64
			if err := db.Model(&models.GroupInterest{}).
				Where("group_id = ? AND interest = ?", group.ID, userInterest.Interest).
				Count(&count).Error; err != nil {
				return nil, err
			}
			if count > 0 {
				recommended = append(recommended, group)
			} else {
				remaining = append(remaining, group)
			}
		}
		candidates = remaining
	}

	return recommended, nil
}
