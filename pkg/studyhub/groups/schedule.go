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

const timeLayout = "15:04"

// CreateScheduledTimeRequest represents the request to add a meeting slot
type CreateScheduledTimeRequest struct {
	Day       string `json:"day" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

// UpdateScheduledTimeRequest represents the request to change a meeting slot
type UpdateScheduledTimeRequest struct {
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// ScheduledTimeResponse represents a meeting slot in API responses
type ScheduledTimeResponse struct {
	ID        uint   `json:"id"`
	GroupID   uint   `json:"group_id"`
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func toScheduledTimeResponse(s models.ScheduledTime) ScheduledTimeResponse {
	return ScheduledTimeResponse{
		ID:        s.ID,
		GroupID:   s.GroupID,
		Day:       s.Day,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
	}
}

// validTimeRange reports whether both times parse as HH:MM and start is
// strictly before end
func validTimeRange(start, end string) bool {
	startAt, err := time.Parse(timeLayout, start)
	if err != nil {
		return false
	}
	endAt, err := time.Parse(timeLayout, end)
	if err != nil {
		return false
	}
	return startAt.Before(endAt)
}

// CreateScheduledTime adds a meeting slot to a group (admin only)
// @Summary Create a scheduled time
// @Description Add a recurring meeting slot; start time must be before end time
// @Tags schedule
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param request body CreateScheduledTimeRequest true "Meeting slot"
// @Success 201 {object} ScheduledTimeResponse
// @Failure 400 {object} map[string]string "Invalid time range"
// @Failure 403 {object} map[string]string "Not a group admin"
// @Security BearerAuth
// @Router /groups/{id}/times [post]
func (h *Handler) CreateScheduledTime(c *gin.Context) {
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

	var req CreateScheduledTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !validTimeRange(req.StartTime, req.EndTime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Start time must be before end time"})
		return
	}

	if !h.isGroupAdmin(userID, group.ID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to create a scheduled time"})
		return
	}

	scheduled := models.ScheduledTime{
		GroupID:   group.ID,
		Day:       req.Day,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := h.db.Create(&scheduled).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create scheduled time"})
		return
	}

	var actor models.User
	h.db.First(&actor, userID)
	notify.GroupAdmins(h.db, group.ID, fmt.Sprintf("%s created a scheduled time for the group %s",
		actor.FullName(), group.Name))

	c.JSON(http.StatusCreated, toScheduledTimeResponse(scheduled))
}

// ListScheduledTimes returns the meeting slots of a group
func (h *Handler) ListScheduledTimes(c *gin.Context) {
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

	var times []models.ScheduledTime
	if err := h.db.Where("group_id = ?", group.ID).Order("id").Find(&times).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch scheduled times"})
		return
	}

	resp := make([]ScheduledTimeResponse, len(times))
	for i, s := range times {
		resp[i] = toScheduledTimeResponse(s)
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateScheduledTime changes a meeting slot (admin only)
func (h *Handler) UpdateScheduledTime(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	timeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scheduled time ID"})
		return
	}

	var scheduled models.ScheduledTime
	if err := h.db.Preload("Group").First(&scheduled, timeID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Scheduled time not found"})
		return
	}

	if !h.isGroupAdmin(userID, scheduled.GroupID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to update this scheduled time"})
		return
	}

	var req UpdateScheduledTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Day != "" {
		scheduled.Day = req.Day
	}
	if req.StartTime != "" {
		scheduled.StartTime = req.StartTime
	}
	if req.EndTime != "" {
		scheduled.EndTime = req.EndTime
	}

	// The combined result must still be a valid range
	if !validTimeRange(scheduled.StartTime, scheduled.EndTime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Start time must be before end time"})
		return
	}

	if err := h.db.Save(&scheduled).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update scheduled time"})
		return
	}

	var actor models.User
	h.db.First(&actor, userID)
	notify.GroupAdmins(h.db, scheduled.GroupID, fmt.Sprintf("%s updated a scheduled time for the group %s",
		actor.FullName(), scheduled.Group.Name))

	c.JSON(http.StatusOK, toScheduledTimeResponse(scheduled))
}

// DeleteScheduledTime removes a meeting slot (admin only)
func (h *Handler) DeleteScheduledTime(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	timeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scheduled time ID"})
		return
	}

	var scheduled models.ScheduledTime
	if err := h.db.Preload("Group").First(&scheduled, timeID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Scheduled time not found"})
		return
	}

	if !h.isGroupAdmin(userID, scheduled.GroupID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to delete this scheduled time"})
		return
	}

	if err := h.db.Delete(&scheduled).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete scheduled time"})
		return
	}

	var actor models.User
	h.db.First(&actor, userID)
	notify.GroupAdmins(h.db, scheduled.GroupID, fmt.Sprintf("%s deleted a scheduled time for the group %s",
		actor.FullName(), scheduled.Group.Name))

	c.JSON(http.StatusOK, gin.H{"message": "Scheduled time deleted"})
}

// RegisterScheduleRoutes registers scheduled time routes
func (h *Handler) RegisterScheduleRoutes(rg *gin.RouterGroup) {
	rg.POST("/:id/times", h.CreateScheduledTime)
	rg.GET("/:id/times", h.ListScheduledTimes)
	rg.PATCH("/times/:id", h.UpdateScheduledTime)
	rg.DELETE("/times/:id", h.DeleteScheduledTime)
}
