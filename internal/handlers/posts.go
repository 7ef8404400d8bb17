package handlers

import (
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bbyte-app/backend/internal/database"
	"github.com/bbyte-app/backend/internal/logger"
	"github.com/bbyte-app/backend/internal/metrics"
	"github.com/bbyte-app/backend/internal/models"
	"github.com/bbyte-app/backend/internal/util"
)

// CreatePost uploads a video and creates the post row
// POST /api/v1/posts
func (h *Handlers) CreatePost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		metrics.Get().UploadsTotal.WithLabelValues("video", "error").Inc()
		util.RespondUploadError(c, "video file is required", err)
		return
	}

	if err := util.ValidateVideoUpload(header); err != nil {
		metrics.Get().UploadsTotal.WithLabelValues("video", "error").Inc()
		util.RespondUploadError(c, "invalid video file", err)
		return
	}

	file, err := header.Open()
	if err != nil {
		metrics.Get().UploadsTotal.WithLabelValues("video", "error").Inc()
		util.RespondUploadError(c, "failed to read video file", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		metrics.Get().UploadsTotal.WithLabelValues("video", "error").Inc()
		util.RespondUploadError(c, "failed to read video file", err)
		return
	}

	result, err := h.uploader.UploadVideo(c.Request.Context(), data, userID, header.Filename)
	if err != nil {
		metrics.Get().UploadsTotal.WithLabelValues("video", "error").Inc()
		util.RespondUploadError(c, "failed to upload video", err)
		return
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(header.Filename)), ".")
	width, _ := strconv.Atoi(c.PostForm("width"))
	height, _ := strconv.Atoi(c.PostForm("height"))

	post := models.Post{
		UserID:           userID,
		Caption:          c.PostForm("caption"),
		OriginalFileName: header.Filename,
		FileURL:          result.URL,
		PublicID:         result.Key,
		FileSize:         header.Size,
		FileType:         ext,
		MimeType:         util.VideoContentType(filepath.Ext(header.Filename)),
		Width:            width,
		Height:           height,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		return recountPostCount(tx, userID)
	})
	if err != nil {
		metrics.Get().UploadsTotal.WithLabelValues("video", "error").Inc()
		// The object is already in S3; clean it up so storage doesn't leak.
		if delErr := h.uploader.Delete(c.Request.Context(), result.Key); delErr != nil {
			logger.Warn("Failed to delete orphaned video "+result.Key, delErr)
		}
		util.RespondUploadError(c, "failed to save post", err)
		return
	}

	metrics.Get().UploadsTotal.WithLabelValues("video", "ok").Inc()
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// GetPosts returns the global post list, newest first
// GET /api/v1/posts
func (h *Handlers) GetPosts(c *gin.Context) {
	limit, offset := util.ParsePagination(c, 20, 100)

	var posts []models.Post
	err := database.DB.Preload("User").Preload("User.Profile").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	if err != nil {
		util.RespondInternalError(c, "Failed to load posts", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// GetUserPosts returns one user's posts, newest first
// GET /api/v1/posts/user/:id
func (h *Handlers) GetUserPosts(c *gin.Context) {
	targetID := c.Param("id")

	var user models.User
	if err := database.DB.First(&user, "id = ?", targetID).Error; err != nil {
		util.RespondNotFound(c, "user")
		return
	}

	limit, offset := util.ParsePagination(c, 20, 100)

	var posts []models.Post
	err := database.DB.Where("user_id = ?", targetID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	if err != nil {
		util.RespondInternalError(c, "Failed to load posts", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// FeedPost decorates a post with per-viewer flags and comment depth counts.
// The raw likes association is never serialized on the feed.
type FeedPost struct {
	models.Post
	CommentCount     int64 `json:"comment_count"`
	ReplyCount       int64 `json:"reply_count"`
	NestedReplyCount int64 `json:"nested_reply_count"`
	Liked            bool  `json:"liked"`
	Followed         bool  `json:"followed"`
	IsOwner          bool  `json:"is_owner"`
}

// GetFeed returns the global feed decorated for the caller
// GET /api/v1/posts/feed
func (h *Handlers) GetFeed(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	limit, offset := util.ParsePagination(c, 20, 100)

	var posts []models.Post
	err := database.DB.Preload("User").Preload("User.Profile").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	if err != nil {
		util.RespondInternalError(c, "Failed to load feed", err)
		return
	}

	feed := make([]FeedPost, 0, len(posts))
	for _, post := range posts {
		fp, err := h.decorateFeedPost(post, userID)
		if err != nil {
			util.RespondInternalError(c, "Failed to build feed", err)
			return
		}
		feed = append(feed, fp)
	}

	c.JSON(http.StatusOK, gin.H{"posts": feed})
}

func (h *Handlers) decorateFeedPost(post models.Post, viewerID string) (FeedPost, error) {
	post.Likes = nil

	fp := FeedPost{
		Post:    post,
		IsOwner: post.UserID == viewerID,
	}

	db := database.DB

	if err := db.Model(&models.PostComment{}).
		Where("post_id = ? AND super_comment_id IS NULL", post.ID).
		Count(&fp.CommentCount).Error; err != nil {
		return fp, err
	}

	// Level-two replies: parents are top-level comments on this post.
	if err := db.Model(&models.PostComment{}).
		Where("post_id = ? AND super_comment_id IN (?)", post.ID,
			db.Model(&models.PostComment{}).Select("id").
				Where("post_id = ? AND super_comment_id IS NULL", post.ID)).
		Count(&fp.ReplyCount).Error; err != nil {
		return fp, err
	}

	// Level-three replies: parents are level-two replies.
	if err := db.Model(&models.PostComment{}).
		Where("post_id = ? AND super_comment_id IN (?)", post.ID,
			db.Model(&models.PostComment{}).Select("id").
				Where("post_id = ? AND super_comment_id IN (?)", post.ID,
					db.Model(&models.PostComment{}).Select("id").
						Where("post_id = ? AND super_comment_id IS NULL", post.ID))).
		Count(&fp.NestedReplyCount).Error; err != nil {
		return fp, err
	}

	var liked int64
	if err := db.Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", viewerID, post.ID).
		Count(&liked).Error; err != nil {
		return fp, err
	}
	fp.Liked = liked > 0

	if !fp.IsOwner {
		var followed int64
		if err := db.Model(&models.Follower{}).
			Where("follower_user_id = ? AND following_user_id = ?", viewerID, post.UserID).
			Count(&followed).Error; err != nil {
			return fp, err
		}
		fp.Followed = followed > 0
	}

	return fp, nil
}

// DeletePost removes a post the caller owns, destroying the stored video
// first. A storage failure aborts the delete so the row still points at a
// live object.
// DELETE /api/v1/posts/:id
func (h *Handlers) DeletePost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	postID := c.Param("id")

	var post models.Post
	if err := database.DB.First(&post, "id = ?", postID).Error; err != nil {
		util.RespondNotFound(c, "post")
		return
	}

	if post.UserID != userID {
		util.RespondForbidden(c, "you can only delete your own posts")
		return
	}

	if err := h.uploader.Delete(c.Request.Context(), post.PublicID); err != nil {
		util.RespondUploadError(c, "failed to delete video from storage", err)
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&post).Error; err != nil {
			return err
		}
		return recountPostCount(tx, userID)
	})
	if err != nil {
		util.RespondInternalError(c, "Failed to delete post", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "post deleted"})
}

// recountPostCount recomputes the owner's post_count from live rows.
func recountPostCount(tx *gorm.DB, userID string) error {
	var count int64
	if err := tx.Model(&models.Post{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	return tx.Model(&models.UserProfile{}).
		Where("user_id = ?", userID).
		UpdateColumn("post_count", count).Error
}
