package profiles

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/eli-bans/studyhub/pkg/studyhub/auth"
	"github.com/eli-bans/studyhub/pkg/studyhub/models"
	"github.com/eli-bans/studyhub/pkg/studyhub/storage"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// Handler handles user profile requests
type Handler struct {
	db    *gorm.DB
	store storage.ObjectStore
}

// NewHandler creates a new profiles handler
func NewHandler(db *gorm.DB, store storage.ObjectStore) *Handler {
	return &Handler{db: db, store: store}
}

// CreateProfileRequest represents the request to create a profile
type CreateProfileRequest struct {
	Major       string   `json:"major" binding:"required"`
	DateOfBirth string   `json:"date_of_birth" binding:"required"`
	Interests   []string `json:"interests"`
}

// UpdateProfileRequest represents the request to update a profile
type UpdateProfileRequest struct {
	Major       string   `json:"major"`
	DateOfBirth string   `json:"date_of_birth"`
	Interests   []string `json:"interests"`
}

// InterestResponse represents a single user interest in API responses
type InterestResponse struct {
	ID       uint   `json:"id"`
	Interest string `json:"interest"`
}

// ProfileResponse represents a profile in API responses
type ProfileResponse struct {
	ID          uint               `json:"id"`
	UserID      uint               `json:"user_id"`
	FirstName   string             `json:"first_name"`
	LastName    string             `json:"last_name"`
	Major       string             `json:"major"`
	DateOfBirth string             `json:"date_of_birth"`
	PictureURL  string             `json:"picture_url,omitempty"`
	Interests   []InterestResponse `json:"interests"`
}

func (h *Handler) toProfileResponse(c *gin.Context, profile models.Profile) ProfileResponse {
	var user models.User
	h.db.First(&user, profile.UserID)

	var interests []models.UserInterest
	h.db.Where("user_id = ?", profile.UserID).Order("id").Find(&interests)

	resp := ProfileResponse{
		ID:          profile.ID,
		UserID:      profile.UserID,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Major:       string(profile.Major),
		DateOfBirth: profile.DateOfBirth.Format(dateLayout),
		Interests:   make([]InterestResponse, len(interests)),
	}
	for i, interest := range interests {
		resp.Interests[i] = InterestResponse{ID: interest.ID, Interest: string(interest.Interest)}
	}

	if profile.PictureKey != "" {
		url, err := h.store.PresignedURL(c.Request.Context(), profile.PictureKey, time.Hour)
		if err != nil {
			log.Printf("Failed to presign picture for profile %d: %v", profile.ID, err)
		} else {
			resp.PictureURL = url
		}
	}
	return resp
}

// validateInterests checks every tag against the closed interest set
func validateInterests(raw []string) ([]models.Interest, bool) {
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

// addInterests inserts the given tags for a user, skipping ones already held
func addInterests(tx *gorm.DB, userID uint, interests []models.Interest) error {
	for _, interest := range interests {
		var count int64
		if err := tx.Model(&models.UserInterest{}).
			Where("user_id = ? AND interest = ?", userID, interest).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := tx.Create(&models.UserInterest{UserID: userID, Interest: interest}).Error; err != nil {
			return err
		}
	}
	return nil
}

// Create creates the current user's profile
// @Summary Create profile
// @Description Create the authenticated user's profile with major, date of birth and interests
// @Tags profiles
// @Accept json
// @Produce json
// @Param request body CreateProfileRequest true "Profile details"
// @Success 201 {object} ProfileResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 409 {object} map[string]string "Profile already exists"
// @Security BearerAuth
// @Router /profiles [post]
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	major := models.Major(req.Major)
	if !major.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid major"})
		return
	}

	dob, err := time.Parse(dateLayout, req.DateOfBirth)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date of birth, expected YYYY-MM-DD"})
		return
	}

	interests, ok := validateInterests(req.Interests)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid interest"})
		return
	}

	var existing models.Profile
	if err := h.db.Where("user_id = ?", userID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Profile already exists"})
		return
	}

	profile := models.Profile{UserID: userID, Major: major, DateOfBirth: dob}
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}
		return addInterests(tx, userID, interests)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create profile"})
		return
	}

	c.JSON(http.StatusCreated, h.toProfileResponse(c, profile))
}

// Update updates the current user's profile
// @Summary Update my profile
// @Description Update profile fields and add interests (duplicates are skipped)
// @Tags profiles
// @Accept json
// @Produce json
// @Param request body UpdateProfileRequest true "Fields to update"
// @Success 200 {object} ProfileResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Profile not found"
// @Security BearerAuth
// @Router /profiles [patch]
func (h *Handler) Update(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var profile models.Profile
	if err := h.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	if req.Major != "" {
		major := models.Major(req.Major)
		if !major.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid major"})
			return
		}
		profile.Major = major
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse(dateLayout, req.DateOfBirth)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date of birth, expected YYYY-MM-DD"})
			return
		}
		profile.DateOfBirth = dob
	}

	interests, ok := validateInterests(req.Interests)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid interest"})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&profile).Error; err != nil {
			return err
		}
		return addInterests(tx, userID, interests)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, h.toProfileResponse(c, profile))
}

// Me returns the current user's profile
// @Summary Get my profile
// @Tags profiles
// @Produce json
// @Success 200 {object} ProfileResponse
// @Failure 404 {object} map[string]string "Profile not found"
// @Security BearerAuth
// @Router /profiles/me [get]
func (h *Handler) Me(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var profile models.Profile
	if err := h.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	c.JSON(http.StatusOK, h.toProfileResponse(c, profile))
}

// List returns all profiles
// @Summary List profiles
// @Tags profiles
// @Produce json
// @Success 200 {array} ProfileResponse
// @Security BearerAuth
// @Router /profiles [get]
func (h *Handler) List(c *gin.Context) {
	var profiles []models.Profile
	if err := h.db.Order("id").Find(&profiles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profiles"})
		return
	}

	resp := make([]ProfileResponse, len(profiles))
	for i, profile := range profiles {
		resp[i] = h.toProfileResponse(c, profile)
	}
	c.JSON(http.StatusOK, resp)
}

// Get returns the profile of a specific user
// @Summary Get a user's profile
// @Tags profiles
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} ProfileResponse
// @Failure 404 {object} map[string]string "Profile not found"
// @Security BearerAuth
// @Router /profiles/{userId} [get]
func (h *Handler) Get(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var profile models.Profile
	if err := h.db.Where("user_id = ?", targetID).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	c.JSON(http.StatusOK, h.toProfileResponse(c, profile))
}

// UploadPicture stores a new profile picture and replaces the old one
// @Summary Upload profile picture
// @Tags profiles
// @Accept multipart/form-data
// @Produce json
// @Param picture formData file true "Picture file"
// @Success 200 {object} ProfileResponse
// @Failure 400 {object} map[string]string "Picture file required"
// @Failure 404 {object} map[string]string "Profile not found"
// @Security BearerAuth
// @Router /profiles/picture [post]
func (h *Handler) UploadPicture(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var profile models.Profile
	if err := h.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	fileHeader, err := c.FormFile("picture")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Picture file required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read picture"})
		return
	}
	defer file.Close()

	key := storage.NewObjectKey("profile_pictures", fileHeader.Filename)
	contentType := fileHeader.Header.Get("Content-Type")
	if err := h.store.Upload(c.Request.Context(), key, file, fileHeader.Size, contentType); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store picture"})
		return
	}

	oldKey := profile.PictureKey
	profile.PictureKey = key
	if err := h.db.Save(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	// Remove the replaced object, best effort
	if oldKey != "" {
		if err := h.store.Delete(c.Request.Context(), oldKey); err != nil {
			log.Printf("Failed to delete old picture %s: %v", oldKey, err)
		}
	}

	c.JSON(http.StatusOK, h.toProfileResponse(c, profile))
}

// RemoveInterest removes one of the current user's interests
// @Summary Remove an interest
// @Tags profiles
// @Produce json
// @Param id path int true "Interest ID"
// @Success 200 {object} ProfileResponse
// @Failure 403 {object} map[string]string "Not your interest"
// @Failure 404 {object} map[string]string "Interest not found"
// @Security BearerAuth
// @Router /profiles/interests/{id} [delete]
func (h *Handler) RemoveInterest(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	interestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid interest ID"})
		return
	}

	var interest models.UserInterest
	if err := h.db.First(&interest, interestID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Interest not found"})
		return
	}

	if interest.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to remove this interest"})
		return
	}

	if err := h.db.Delete(&interest).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove interest"})
		return
	}

	var profile models.Profile
	if err := h.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{"message": "Interest removed"})
		return
	}
	c.JSON(http.StatusOK, h.toProfileResponse(c, profile))
}

// RegisterRoutes registers profile routes on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.PATCH("", h.Update)
	rg.GET("", h.List)
	rg.GET("/me", h.Me)
	rg.GET("/:userId", h.Get)
	rg.POST("/picture", h.UploadPicture)
	rg.DELETE("/interests/:id", h.RemoveInterest)
}
