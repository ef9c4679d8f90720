package groups

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/eli-bans/studyhub/pkg/studyhub/auth"
	"github.com/eli-bans/studyhub/pkg/studyhub/models"
	"github.com/eli-bans/studyhub/pkg/studyhub/notify"
	"github.com/eli-bans/studyhub/pkg/studyhub/storage"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler handles study group requests
type Handler struct {
	db    *gorm.DB
	store storage.ObjectStore
}

// NewHandler creates a new groups handler
func NewHandler(db *gorm.DB, store storage.ObjectStore) *Handler {
	return &Handler{db: db, store: store}
}

// CreateGroupRequest represents the request to create a study group
type CreateGroupRequest struct {
	Name      string   `json:"name" binding:"required"`
	Major     string   `json:"major" binding:"required"`
	ChatLink  string   `json:"chat_link"`
	Interests []string `json:"interests"`
}

// UpdateGroupRequest represents the request to update a study group
type UpdateGroupRequest struct {
	Name      string   `json:"name"`
	Major     string   `json:"major"`
	ChatLink  string   `json:"chat_link"`
	Interests []string `json:"interests"`
}

// GroupInterestResponse represents a group interest in API responses
type GroupInterestResponse struct {
	ID       uint   `json:"id"`
	Interest string `json:"interest"`
}

// GroupResponse represents a study group in API responses
type GroupResponse struct {
	ID          uint                    `json:"id"`
	Name        string                  `json:"name"`
	Major       string                  `json:"major"`
	CreatorID   uint                    `json:"creator_id"`
	ChatLink    string                  `json:"chat_link"`
	ImageURL    string                  `json:"image_url,omitempty"`
	CreatedAt   string                  `json:"created_at"`
	MemberCount int                     `json:"member_count"`
	Interests   []GroupInterestResponse `json:"interests"`
}

func (h *Handler) toGroupResponse(c *gin.Context, group models.Group) GroupResponse {
	var memberCount int64
	h.db.Model(&models.GroupMember{}).Where("group_id = ?", group.ID).Count(&memberCount)

	var interests []models.GroupInterest
	h.db.Where("group_id = ?", group.ID).Order("id").Find(&interests)

	resp := GroupResponse{
		ID:          group.ID,
		Name:        group.Name,
		Major:       string(group.Major),
		CreatorID:   group.CreatorID,
		ChatLink:    group.ChatLink,
		CreatedAt:   group.CreatedAt.Format(time.RFC3339),
		MemberCount: int(memberCount),
		Interests:   make([]GroupInterestResponse, len(interests)),
	}
	for i, interest := range interests {
		resp.Interests[i] = GroupInterestResponse{ID: interest.ID, Interest: string(interest.Interest)}
	}

	if group.ImageKey != "" {
		url, err := h.store.PresignedURL(c.Request.Context(), group.ImageKey, time.Hour)
		if err != nil {
			log.Printf("Failed to presign image for group %d: %v", group.ID, err)
		} else {
			resp.ImageURL = url
		}
	}
	return resp
}

// isGroupAdmin reports whether the user is an admin member of the group
func (h *Handler) isGroupAdmin(userID, groupID uint) bool {
	var count int64
	h.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND member_id = ? AND is_admin = ?", groupID, userID, true).
		Count(&count)
	return count > 0
}

// isGroupMember reports whether the user holds any membership in the group
func (h *Handler) isGroupMember(userID, groupID uint) bool {
	var count int64
	h.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND member_id = ?", groupID, userID).
		Count(&count)
	return count > 0
}

func (h *Handler) adminCount(groupID uint) int64 {
	var count int64
	h.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND is_admin = ?", groupID, true).
		Count(&count)
	return count
}

func (h *Handler) memberCount(groupID uint) int64 {
	var count int64
	h.db.Model(&models.GroupMember{}).Where("group_id = ?", groupID).Count(&count)
	return count
}

// validateGroupInterests checks every tag against the closed interest set
func validateGroupInterests(raw []string) ([]models.Interest, bool) {
	interests := make([]models.Interest, len(raw))
	for i, value := range raw {
		interest := models.Interest(value)
		if !interest.Valid() {
			return nil, false
		}
		interests[i] = interest
	}
	return interests, true
}

// Create creates a study group with the current user as creator and
// first admin member
// @Summary Create a study group
// @Description Create a group; the creator becomes its first admin member
// @Tags groups
// @Accept json
// @Produce json
// @Param request body CreateGroupRequest true "Group details"
// @Success 201 {object} GroupResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /groups [post]
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	major := models.Major(req.Major)
	if !major.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid major"})
		return
	}

	interests, ok := validateGroupInterests(req.Interests)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid interest"})
		return
	}

	var group models.Group
	err := h.db.Transaction(func(tx *gorm.DB) error {
		group = models.Group{
			Name:      req.Name,
			Major:     major,
			CreatorID: userID,
			ChatLink:  req.ChatLink,
		}
		if err := tx.Create(&group).Error; err != nil {
			return err
		}

		// Creator joins as the first admin member
		member := models.GroupMember{GroupID: group.ID, MemberID: userID, IsAdmin: true}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}

		for _, interest := range interests {
			if err := tx.Create(&models.GroupInterest{GroupID: group.ID, Interest: interest}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create group"})
		return
	}

	notify.User(h.db, userID, fmt.Sprintf("You created the group %s on %s",
		group.Name, group.CreatedAt.Format("2006-01-02")))

	c.JSON(http.StatusCreated, h.toGroupResponse(c, group))
}

// List returns all groups the current user is a member of
// @Summary List my groups
// @Tags groups
// @Produce json
// @Success 200 {array} GroupResponse
// @Security BearerAuth
// @Router /groups [get]
func (h *Handler) List(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var memberships []models.GroupMember
	if err := h.db.Preload("Group").Where("member_id = ?", userID).Find(&memberships).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch groups"})
		return
	}

	groups := make([]GroupResponse, len(memberships))
	for i, m := range memberships {
		groups[i] = h.toGroupResponse(c, m.Group)
	}
	c.JSON(http.StatusOK, groups)
}

// Get returns a specific study group
// @Summary Get a study group
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} GroupResponse
// @Failure 404 {object} map[string]string "Group not found"
// @Security BearerAuth
// @Router /groups/{id} [get]
func (h *Handler) Get(c *gin.Context) {
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

	c.JSON(http.StatusOK, h.toGroupResponse(c, group))
}

// Update updates a group's details (creator only)
// @Summary Update a study group
// @Description Update name, major, or chat link and add interests (creator only)
// @Tags groups
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param request body UpdateGroupRequest true "Fields to update"
// @Success 200 {object} GroupResponse
// @Failure 403 {object} map[string]string "Not the creator"
// @Failure 404 {object} map[string]string "Group not found"
// @Security BearerAuth
// @Router /groups/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
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

	if group.CreatorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to update this group"})
		return
	}

	var req UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != "" {
		group.Name = req.Name
	}
	if req.Major != "" {
		major := models.Major(req.Major)
		if !major.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid major"})
			return
		}
		group.Major = major
	}
	if req.ChatLink != "" {
		group.ChatLink = req.ChatLink
	}

	interests, ok := validateGroupInterests(req.Interests)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid interest"})
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&group).Error; err != nil {
			return err
		}
		// Add new interests, skipping ones the group already has
		for _, interest := range interests {
			var count int64
			if err := tx.Model(&models.GroupInterest{}).
				Where("group_id = ? AND interest = ?", group.ID, interest).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			if err := tx.Create(&models.GroupInterest{GroupID: group.ID, Interest: interest}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update group"})
		return
	}

	c.JSON(http.StatusOK, h.toGroupResponse(c, group))
}

// UploadImage stores a new group image and replaces the old one (creator only)
// @Summary Upload group image
// @Tags groups
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Group ID"
// @Param image formData file true "Image file"
// @Success 200 {object} GroupResponse
// @Failure 403 {object} map[string]string "Not the creator"
// @Failure 404 {object} map[string]string "Group not found"
// @Security BearerAuth
// @Router /groups/{id}/image [post]
func (h *Handler) UploadImage(c *gin.Context) {
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

	if group.CreatorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to update this group"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image"})
		return
	}
	defer file.Close()

	key := storage.NewObjectKey("group_images", fileHeader.Filename)
	contentType := fileHeader.Header.Get("Content-Type")
	if err := h.store.Upload(c.Request.Context(), key, file, fileHeader.Size, contentType); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
		return
	}

	oldKey := group.ImageKey
	group.ImageKey = key
	if err := h.db.Save(&group).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update group"})
		return
	}

	// Remove the replaced object, best effort
	if oldKey != "" {
		if err := h.store.Delete(c.Request.Context(), oldKey); err != nil {
			log.Printf("Failed to delete old group image %s: %v", oldKey, err)
		}
	}

	c.JSON(http.StatusOK, h.toGroupResponse(c, group))
}

// Delete deletes a group and all its dependents. Only the creator may
// delete, and only while they are the sole remaining member.
// @Summary Delete a study group
// @Description Delete a group (creator only, no other members allowed)
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} map[string]string "Group deleted"
// @Failure 403 {object} map[string]string "Not the creator"
// @Failure 409 {object} map[string]string "Group still has members"
// @Security BearerAuth
// @Router /groups/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
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

	if group.CreatorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to delete this group"})
		return
	}

	if h.memberCount(group.ID) > 1 {
		c.JSON(http.StatusConflict, gin.H{"error": "You cannot delete a group with members"})
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		for _, dependent := range []interface{}{
			&models.GroupMember{}, &models.GroupInterest{},
			&models.ScheduledTime{}, &models.MembershipRequest{},
		} {
			if err := tx.Where("group_id = ?", group.ID).Delete(dependent).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&group).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete group"})
		return
	}

	// Remove the stored image, best effort
	if group.ImageKey != "" {
		if err := h.store.Delete(c.Request.Context(), group.ImageKey); err != nil {
			log.Printf("Failed to delete image of group %d: %v", group.ID, err)
		}
	}

	notify.User(h.db, userID, fmt.Sprintf("You deleted the group %s!", group.Name))

	c.JSON(http.StatusOK, gin.H{"message": "Group deleted"})
}

// Leave removes the current user's own membership
// @Summary Leave a study group
// @Description Leave a group; the last admin must promote a successor or delete the group first
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} map[string]string "You have left the group"
// @Failure 403 {object} map[string]string "Last admin cannot leave"
// @Failure 404 {object} map[string]string "Group or membership not found"
// @Security BearerAuth
// @Router /groups/{id}/leave [post]
func (h *Handler) Leave(c *gin.Context) {
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

	var membership models.GroupMember
	if err := h.db.Where("group_id = ? AND member_id = ?", group.ID, userID).First(&membership).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "You are not a member of this group"})
		return
	}

	// A group must not be left without an admin
	if membership.IsAdmin && h.adminCount(group.ID) == 1 {
		if h.memberCount(group.ID) == 1 {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are the only member; delete the group instead"})
		} else {
			c.JSON(http.StatusForbidden, gin.H{"error": "Promote another admin before leaving the group"})
		}
		return
	}

	if err := h.db.Delete(&membership).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to leave group"})
		return
	}

	var user models.User
	h.db.First(&user, userID)
	notify.User(h.db, userID, fmt.Sprintf("You left the group %s", group.Name))
	notify.GroupAdmins(h.db, group.ID, fmt.Sprintf("%s left the group %s", user.FullName(), group.Name))

	c.JSON(http.StatusOK, gin.H{"message": "You have left the group"})
}

// RemoveInterest removes an interest tag from a group (creator only)
// @Summary Remove a group interest
// @Tags groups
// @Produce json
// @Param id path int true "Group interest ID"
// @Success 200 {object} map[string]string "Interest removed"
// @Failure 403 {object} map[string]string "Not the creator"
// @Failure 404 {object} map[string]string "Interest not found"
// @Security BearerAuth
// @Router /groups/interests/{id} [delete]
func (h *Handler) RemoveInterest(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	interestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid interest ID"})
		return
	}

	var interest models.GroupInterest
	if err := h.db.Preload("Group").First(&interest, interestID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Interest not found"})
		return
	}

	if interest.Group.CreatorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to remove this interest"})
		return
	}

	if err := h.db.Delete(&interest).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove interest"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Interest removed"})
}

// RegisterRoutes registers group lifecycle routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/recommendations", h.Recommend)
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id", h.Update)
	rg.POST("/:id/image", h.UploadImage)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/leave", h.Leave)
	rg.DELETE("/interests/:id", h.RemoveInterest)
}
