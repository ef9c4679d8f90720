package groups

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/eli-bans/studyhub/pkg/studyhub/auth"
	"github.com/eli-bans/studyhub/pkg/studyhub/models"
	"github.com/eli-bans/studyhub/pkg/studyhub/notify"
	"github.com/gin-gonic/gin"
)

// MemberResponse represents a group member in API responses
type MemberResponse struct {
	ID        uint   `json:"id"`
	UserID    uint   `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	JoinedAt  string `json:"joined_at"`
	IsAdmin   bool   `json:"is_admin"`
}

func toMemberResponse(m models.GroupMember) MemberResponse {
	return MemberResponse{
		ID:        m.ID,
		UserID:    m.MemberID,
		FirstName: m.Member.FirstName,
		LastName:  m.Member.LastName,
		JoinedAt:  m.JoinedAt.Format(time.RFC3339),
		IsAdmin:   m.IsAdmin,
	}
}

// ListMembers returns all members of a group (members only)
// @Summary List group members
// @Tags members
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {array} MemberResponse
// @Failure 403 {object} map[string]string "Not a member"
// @Failure 404 {object} map[string]string "Group not found"
// @Security BearerAuth
// @Router /groups/{id}/members [get]
func (h *Handler) ListMembers(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	var group models.Group
	if err := h.db.First(&group, groupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	if !h.isGroupMember(userID, group.ID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this group"})
		return
	}

	var memberships []models.GroupMember
	if err := h.db.Preload("Member").Where("group_id = ?", group.ID).Order("id").Find(&memberships).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch members"})
		return
	}

	members := make([]MemberResponse, len(memberships))
	for i, m := range memberships {
		members[i] = toMemberResponse(m)
	}
	c.JSON(http.StatusOK, members)
}

// loadMemberForCreator fetches a membership row and checks that the
// acting user is the creator of its group. Admin management and member
// removal are creator-only operations.
func (h *Handler) loadMemberForCreator(c *gin.Context, actingUserID uint) (models.GroupMember, bool) {
	memberID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID"})
		return models.GroupMember{}, false
	}

	var member models.GroupMember
	if err := h.db.Preload("Group").Preload("Member").First(&member, memberID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group member not found"})
		return models.GroupMember{}, false
	}

	if member.Group.CreatorID != actingUserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the group creator may manage members"})
		return models.GroupMember{}, false
	}

	return member, true
}

// MakeAdmin promotes a member to group admin (creator only)
// @Summary Promote a member to admin
// @Tags members
// @Produce json
// @Param id path int true "Member ID"
// @Success 200 {object} MemberResponse
// @Failure 403 {object} map[string]string "Not the group creator"
// @Failure 404 {object} map[string]string "Member not found"
// @Security BearerAuth
// @Router /groups/members/{id}/admin [post]
func (h *Handler) MakeAdmin(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	member, ok := h.loadMemberForCreator(c, userID)
	if !ok {
		return
	}

	member.IsAdmin = true
	if err := h.db.Save(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update member"})
		return
	}

	var actor models.User
	h.db.First(&actor, userID)
	notify.User(h.db, member.MemberID, fmt.Sprintf("You are now an admin of the group %s", member.Group.Name))
	notify.GroupAdmins(h.db, member.GroupID, fmt.Sprintf("%s made %s an admin of the group %s",
		actor.FullName(), member.Member.FullName(), member.Group.Name))

	c.JSON(http.StatusOK, toMemberResponse(member))
}

// RemoveAdmin demotes an admin back to a regular member (creator only).
// The last remaining admin of a group cannot be demoted.
func (h *Handler) RemoveAdmin(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	member, ok := h.loadMemberForCreator(c, userID)
	if !ok {
		return
	}

	if member.IsAdmin && h.adminCount(member.GroupID) == 1 {
		c.JSON(http.StatusForbidden, gin.H{"error": "A group must keep at least one admin"})
		return
	}

	member.IsAdmin = false
	if err := h.db.Save(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update member"})
		return
	}

	var actor models.User
	h.db.First(&actor, userID)
	notify.User(h.db, member.MemberID, fmt.Sprintf("You are no longer an admin of the group %s", member.Group.Name))
	notify.GroupAdmins(h.db, member.GroupID, fmt.Sprintf("%s removed %s as an admin of the group %s",
		actor.FullName(), member.Member.FullName(), member.Group.Name))

	c.JSON(http.StatusOK, toMemberResponse(member))
}

// RemoveMember removes a member from a group (creator only). The last
// remaining admin cannot be removed; promote someone else or delete the
// group instead.
func (h *Handler) RemoveMember(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	member, ok := h.loadMemberForCreator(c, userID)
	if !ok {
		return
	}

	if member.IsAdmin && h.adminCount(member.GroupID) == 1 {
		c.JSON(http.StatusForbidden, gin.H{"error": "A group must keep at least one admin"})
		return
	}

	if err := h.db.Delete(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove member"})
		return
	}

	var actor models.User
	h.db.First(&actor, userID)
	notify.User(h.db, member.MemberID, fmt.Sprintf("You were removed from the group %s", member.Group.Name))
	notify.GroupAdmins(h.db, member.GroupID, fmt.Sprintf("%s removed %s from the group %s",
		actor.FullName(), member.Member.FullName(), member.Group.Name))

	c.JSON(http.StatusOK, gin.H{"message": "Group member removed"})
}

// RegisterMemberRoutes registers member management routes
func (h *Handler) RegisterMemberRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/members", h.ListMembers)
	rg.POST("/members/:id/admin", h.MakeAdmin)
	rg.DELETE("/members/:id/admin", h.RemoveAdmin)
	rg.DELETE("/members/:id", h.RemoveMember)
}
