package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bbyte-app/backend/internal/database"
	"github.com/bbyte-app/backend/internal/logger"
	"github.com/bbyte-app/backend/internal/models"
	"github.com/bbyte-app/backend/internal/util"
)

// SearchUsers finds profiles by name or username substring
// GET /api/v1/users/search?query=
func (h *Handlers) SearchUsers(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		util.RespondBadRequest(c, "query parameter is required")
		return
	}

	pattern := "%" + strings.ToLower(query) + "%"
	var summaries []models.UserSummary
	err := database.DB.Model(&models.UserProfile{}).
		Select("user_id AS id, name, username, profile_picture").
		Where("LOWER(name) LIKE ? OR LOWER(username) LIKE ?", pattern, pattern).
		Order("username").
		Scan(&summaries).Error
	if err != nil {
		util.RespondInternalError(c, "Failed to search users", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": summaries})
}

// UpdateProfileRequest is the partial-update payload for PUT /users/me.
// Nil pointers leave the current value alone.
type UpdateProfileRequest struct {
	Name           *string  `json:"name,omitempty"`
	Username       *string  `json:"username,omitempty"`
	Bio            *string  `json:"bio,omitempty"`
	Gender         *string  `json:"gender,omitempty"`
	CustomGender   *string  `json:"custom_gender,omitempty"`
	ProfilePicture *string  `json:"profile_picture,omitempty"`
	WebsiteURLs    []string `json:"website_urls,omitempty"`
}

// UpdateMe applies a partial update to the caller's user row, profile row and
// website urls in one transaction. URLs are append-only: new unique urls are
// added until the per-user cap, everything past it is silently skipped.
// PUT /api/v1/users/me
func (h *Handlers) UpdateMe(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var profile models.UserProfile
		if err := tx.First(&profile, "user_id = ?", user.ID).Error; err != nil {
			return err
		}

		if req.Name != nil {
			user.Name = *req.Name
			profile.Name = *req.Name
		}
		if req.Username != nil {
			user.Username = *req.Username
			profile.Username = *req.Username
		}
		if req.Bio != nil {
			profile.Bio = *req.Bio
		}
		if req.Gender != nil {
			profile.Gender = *req.Gender
		}
		if req.CustomGender != nil {
			profile.CustomGender = *req.CustomGender
		}
		if req.ProfilePicture != nil {
			profile.ProfilePicture = *req.ProfilePicture
		}

		if err := tx.Save(user).Error; err != nil {
			return err
		}
		if err := tx.Save(&profile).Error; err != nil {
			return err
		}

		for _, raw := range req.WebsiteURLs {
			url := strings.TrimSpace(raw)
			if url == "" {
				continue
			}

			var count int64
			if err := tx.Model(&models.UserWebsiteURL{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
				return err
			}
			if count >= models.MaxWebsiteURLs {
				break
			}

			var existing int64
			if err := tx.Model(&models.UserWebsiteURL{}).Where("user_id = ? AND url = ?", user.ID, url).Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				continue
			}

			if err := tx.Create(&models.UserWebsiteURL{UserID: user.ID, URL: url}).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		util.RespondInternalError(c, "Failed to update profile", err)
		return
	}

	var updated models.User
	if err := database.DB.Preload("Profile").Preload("WebsiteURLs").First(&updated, "id = ?", user.ID).Error; err != nil {
		logger.Warn("Failed to reload updated user "+user.ID, err)
		c.JSON(http.StatusOK, gin.H{"user": user})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": updated})
}

// GetUserProfile returns one profile with its website urls
// GET /api/v1/users/:username/profile
func (h *Handlers) GetUserProfile(c *gin.Context) {
	username := c.Param("username")

	var profile models.UserProfile
	if err := database.DB.First(&profile, "username = ?", username).Error; err != nil {
		util.RespondNotFound(c, "user")
		return
	}

	var urls []models.UserWebsiteURL
	if err := database.DB.Where("user_id = ?", profile.UserID).Order("created_at").Find(&urls).Error; err != nil {
		util.RespondInternalError(c, "Failed to load website urls", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":      profile,
		"website_urls": urls,
	})
}

// GetAllProfiles returns every profile projection
// GET /api/v1/profiles
func (h *Handlers) GetAllProfiles(c *gin.Context) {
	var profiles []models.UserProfile
	if err := database.DB.Order("created_at DESC").Find(&profiles).Error; err != nil {
		util.RespondInternalError(c, "Failed to load profiles", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}

// GetStats returns platform-wide totals
// GET /api/v1/stats
func (h *Handlers) GetStats(c *gin.Context) {
	var userCount int64
	if err := database.DB.Model(&models.UserProfile{}).Count(&userCount).Error; err != nil {
		util.RespondInternalError(c, "Failed to count users", err)
		return
	}

	var postCount int64
	if err := database.DB.Model(&models.Post{}).Count(&postCount).Error; err != nil {
		util.RespondInternalError(c, "Failed to count posts", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_user_count": userCount,
		"total_post_count": postCount,
	})
}

// GetUserFollowers lists who follows the named user
// GET /api/v1/users/:username/followers
func (h *Handlers) GetUserFollowers(c *gin.Context) {
	username := c.Param("username")

	var user models.User
	if err := database.DB.First(&user, "username = ?", username).Error; err != nil {
		util.RespondNotFound(c, "user")
		return
	}

	summaries, err := followerSummaries(user.ID)
	if err != nil {
		util.RespondInternalError(c, "Failed to load followers", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"followers": summaries})
}

// GetUserFollowing lists who the named user follows
// GET /api/v1/users/:username/following
func (h *Handlers) GetUserFollowing(c *gin.Context) {
	username := c.Param("username")

	var user models.User
	if err := database.DB.First(&user, "username = ?", username).Error; err != nil {
		util.RespondNotFound(c, "user")
		return
	}

	summaries, err := followingSummaries(user.ID)
	if err != nil {
		util.RespondInternalError(c, "Failed to load following", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"following": summaries})
}
