package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bbyte-app/backend/internal/database"
	"github.com/bbyte-app/backend/internal/models"
	"github.com/bbyte-app/backend/internal/util"
)

// FollowUser creates a follow edge from the caller to :id
// POST /api/v1/follow/:id
func (h *Handlers) FollowUser(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	targetID := c.Param("id")

	if targetID == userID {
		util.RespondBadRequest(c, "cannot follow yourself")
		return
	}

	var target models.User
	if err := database.DB.First(&target, "id = ?", targetID).Error; err != nil {
		util.RespondNotFound(c, "user")
		return
	}

	var existing int64
	if err := database.DB.Model(&models.Follower{}).
		Where("follower_user_id = ? AND following_user_id = ?", userID, targetID).
		Count(&existing).Error; err != nil {
		util.RespondInternalError(c, "Failed to check follow state", err)
		return
	}
	if existing > 0 {
		util.RespondBadRequest(c, "already following this user")
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		edge := models.Follower{FollowerUserID: userID, FollowingUserID: targetID}
		if err := tx.Create(&edge).Error; err != nil {
			return err
		}
		if err := recountFollowCounters(tx, userID, targetID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		util.RespondInternalError(c, "Failed to follow user", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "followed"})
}

// UnfollowUser removes the caller's follow edge to :id
// DELETE /api/v1/follow/:id
func (h *Handlers) UnfollowUser(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	targetID := c.Param("id")

	var edge models.Follower
	if err := database.DB.
		Where("follower_user_id = ? AND following_user_id = ?", userID, targetID).
		First(&edge).Error; err != nil {
		util.RespondBadRequest(c, "not following this user")
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&edge).Error; err != nil {
			return err
		}
		return recountFollowCounters(tx, userID, targetID)
	})
	if err != nil {
		util.RespondInternalError(c, "Failed to unfollow user", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "unfollowed"})
}

// GetFollowers lists the caller's followers
// GET /api/v1/followers
func (h *Handlers) GetFollowers(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	summaries, err := followerSummaries(userID)
	if err != nil {
		util.RespondInternalError(c, "Failed to load followers", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"followers": summaries})
}

// GetFollowing lists who the caller follows
// GET /api/v1/following
func (h *Handlers) GetFollowing(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	summaries, err := followingSummaries(userID)
	if err != nil {
		util.RespondInternalError(c, "Failed to load following", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"following": summaries})
}

// recountFollowCounters recomputes following_count for the follower and
// follower_count for the followee from the edge table. Both profile rows must
// exist; a missing row aborts the surrounding transaction.
func recountFollowCounters(tx *gorm.DB, followerID, followingID string) error {
	var followerProfile, followingProfile models.UserProfile
	if err := tx.First(&followerProfile, "user_id = ?", followerID).Error; err != nil {
		return err
	}
	if err := tx.First(&followingProfile, "user_id = ?", followingID).Error; err != nil {
		return err
	}

	var followingCount int64
	if err := tx.Model(&models.Follower{}).Where("follower_user_id = ?", followerID).Count(&followingCount).Error; err != nil {
		return err
	}
	if err := tx.Model(&followerProfile).UpdateColumn("following_count", followingCount).Error; err != nil {
		return err
	}

	var followerCount int64
	if err := tx.Model(&models.Follower{}).Where("following_user_id = ?", followingID).Count(&followerCount).Error; err != nil {
		return err
	}
	return tx.Model(&followingProfile).UpdateColumn("follower_count", followerCount).Error
}

func followerSummaries(userID string) ([]models.UserSummary, error) {
	var summaries []models.UserSummary
	err := database.DB.Model(&models.Follower{}).
		Select("user_profiles.user_id AS id, user_profiles.name, user_profiles.username, user_profiles.profile_picture").
		Joins("JOIN user_profiles ON user_profiles.user_id = followers.follower_user_id").
		Where("followers.following_user_id = ?", userID).
		Order("followers.created_at DESC").
		Scan(&summaries).Error
	if summaries == nil {
		summaries = []models.UserSummary{}
	}
	return summaries, err
}

func followingSummaries(userID string) ([]models.UserSummary, error) {
	var summaries []models.UserSummary
	err := database.DB.Model(&models.Follower{}).
		Select("user_profiles.user_id AS id, user_profiles.name, user_profiles.username, user_profiles.profile_picture").
		Joins("JOIN user_profiles ON user_profiles.user_id = followers.following_user_id").
		Where("followers.follower_user_id = ?", userID).
		Order("followers.created_at DESC").
		Scan(&summaries).Error
	if summaries == nil {
		summaries = []models.UserSummary{}
	}
	return summaries, err
}
