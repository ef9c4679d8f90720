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
	"gorm.io/gorm"
)

// RequestResponse represents a membership request in API responses
type RequestResponse struct {
	ID        uint   `json:"id"`
	GroupID   uint   `json:"group_id"`
	GroupName string `json:"group_name"`
	UserID    uint   `json:"user_id"`
	UserName  string `json:"user_name"`
	CreatedAt string `json:"created_at"`
}

func toRequestResponse(r models.MembershipRequest) RequestResponse {
	return RequestResponse{
		ID:        r.ID,
		GroupID:   r.GroupID,
		GroupName: r.Group.Name,
		UserID:    r.UserID,
		UserName:  r.User.FullName(),
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
}

// RequestMembership files a request to join a group and notifies the
// group's admins
// @Summary Request group membership
// @Tags requests
// @Produce json
// @Param id path int true "Group ID"
// @Success 201 {object} map[string]string "Membership request sent"
// @Failure 404 {object} map[string]string "Group not found"
// @Failure 409 {object} map[string]string "Already a member or already requested"
// @Security BearerAuth
// @Router /groups/{id}/requests [post]
func (h *Handler) RequestMembership(c *gin.Context) {
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

	if h.isGroupMember(userID, group.ID) {
		c.JSON(http.StatusConflict, gin.H{"error": "You are already a member of this group"})
		return
	}

	var existing models.MembershipRequest
	if err := h.db.Where("group_id = ? AND user_id = ?", group.ID, userID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You have already requested to join this group"})
		return
	}

	request := models.MembershipRequest{GroupID: group.ID, UserID: userID}
	if err := h.db.Create(&request).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create membership request"})
		return
	}

	var user models.User
	h.db.First(&user, userID)
	notify.GroupAdmins(h.db, group.ID, fmt.Sprintf("%s requested to join the group %s", user.FullName(), group.Name))

	c.JSON(http.StatusCreated, gin.H{"message": "Membership request sent"})
}

// ListMyRequests returns the current user's pending requests
func (h *Handler) ListMyRequests(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var requests []models.MembershipRequest
	if err := h.db.Preload("Group").Preload("User").Where("user_id = ?", userID).Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch membership requests"})
		return
	}

	resp := make([]RequestResponse, len(requests))
	for i, r := range requests {
		resp[i] = toRequestResponse(r)
	}
	c.JSON(http.StatusOK, resp)
}

// CancelRequest withdraws one of the current user's pending requests
func (h *Handler) CancelRequest(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	var request models.MembershipRequest
	if err := h.db.First(&request, requestID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Membership request not found"})
		return
	}

	if request.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to delete this request"})
		return
	}

	if err := h.db.Delete(&request).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete membership request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Membership request deleted"})
}

// ListGroupRequests returns pending requests for a group (admin only)
func (h *Handler) ListGroupRequests(c *gin.Context) {
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

	if !h.isGroupAdmin(userID, group.ID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to view membership requests"})
		return
	}

	var requests []models.MembershipRequest
	if err := h.db.Preload("Group").Preload("User").Where("group_id = ?", group.ID).Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch membership requests"})
		return
	}

	resp := make([]RequestResponse, len(requests))
	for i, r := range requests {
		resp[i] = toRequestResponse(r)
	}
	c.JSON(http.StatusOK, resp)
}

// AcceptRequest converts a pending request into a non-admin membership.
// Accept and reject are terminal: the request row is deleted, so a
// second call on either path returns 404.
// @Summary Accept a membership request
// @Tags requests
// @Produce json
// @Param id path int true "Request ID"
// @Success 200 {object} map[string]string "Membership request accepted"
// @Failure 403 {object} map[string]string "Not an admin of the group"
// @Failure 404 {object} map[string]string "Request not found"
// @Security BearerAuth
// @Router /groups/requests/{id}/accept [post]
func (h *Handler) AcceptRequest(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	var request models.MembershipRequest
	if err := h.db.Preload("Group").Preload("User").First(&request, requestID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Membership request not found"})
		return
	}

	if !h.isGroupAdmin(userID, request.GroupID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to accept membership requests"})
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		member := models.GroupMember{GroupID: request.GroupID, MemberID: request.UserID}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}
		return tx.Delete(&request).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept membership request"})
		return
	}

	var actor models.User
	h.db.First(&actor, userID)
	notify.User(h.db, request.UserID, fmt.Sprintf("Your request to join the group %s was accepted", request.Group.Name))
	notify.GroupAdmins(h.db, request.GroupID, fmt.Sprintf("%s accepted %s's request to join the group %s",
		actor.FullName(), request.User.FullName(), request.Group.Name))

	c.JSON(http.StatusOK, gin.H{"message": "Membership request accepted"})
}

// RejectRequest discards a pending request
// @Summary Reject a membership request
// @Tags requests
// @Produce json
// @Param id path int true "Request ID"
// @Success 200 {object} map[string]string "Membership request rejected"
// @Failure 403 {object} map[string]string "Not an admin of the group"
// @Failure 404 {object} map[string]string "Request not found"
// @Security BearerAuth
// @Router /groups/requests/{id}/reject [post]
func (h *Handler) RejectRequest(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	var request models.MembershipRequest
	if err := h.db.Preload("Group").Preload("User").First(&request, requestID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Membership request not found"})
		return
	}

	if !h.isGroupAdmin(userID, request.GroupID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to reject membership requests"})
		return
	}

	if err := h.db.Delete(&request).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject membership request"})
		return
	}

	var actor models.User
	h.db.First(&actor, userID)
	notify.User(h.db, request.UserID, fmt.Sprintf("Your request to join the group %s was rejected", request.Group.Name))
	notify.GroupAdmins(h.db, request.GroupID, fmt.Sprintf("%s rejected %s's request to join the group %s",
		actor.FullName(), request.User.FullName(), request.Group.Name))

	c.JSON(http.StatusOK, gin.H{"message": "Membership request rejected"})
}

// RegisterRequestRoutes registers membership request routes
func (h *Handler) RegisterRequestRoutes(rg *gin.RouterGroup) {
	rg.POST("/:id/requests", h.RequestMembership)
	rg.GET("/:id/requests", h.ListGroupRequests)
	rg.GET("/requests", h.ListMyRequests)
	rg.DELETE("/requests/:id", h.CancelRequest)
	rg.POST("/requests/:id/accept", h.AcceptRequest)
	rg.POST("/requests/:id/reject", h.RejectRequest)
}
