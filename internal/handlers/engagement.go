package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bbyte-app/backend/internal/database"
	"github.com/bbyte-app/backend/internal/events"
	"github.com/bbyte-app/backend/internal/models"
	"github.com/bbyte-app/backend/internal/util"
)

// ToggleLikePost likes a post, or removes the like if it already exists
// POST /api/v1/posts/:id/like
func (h *Handlers) ToggleLikePost(c *gin.Context) {
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

	liked := false
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Like
		err := tx.Where("user_id = ? AND post_id = ?", userID, postID).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
		case err == gorm.ErrRecordNotFound:
			liked = true
			if err := tx.Create(&models.Like{UserID: userID, PostID: postID}).Error; err != nil {
				return err
			}
		default:
			return err
		}
		return recountPostLikes(tx, postID)
	})
	if err != nil {
		util.RespondInternalError(c, "Failed to toggle like", err)
		return
	}

	if liked {
		h.bus.Publish(events.PostLikedEvent{
			ActorID:     userID,
			PostID:      postID,
			PostOwnerID: post.UserID,
		})
	}

	c.JSON(http.StatusCreated, gin.H{"liked": liked})
}

// ToggleLikeComment likes a comment, or removes the like if it already exists
// POST /api/v1/comments/:id/like
func (h *Handlers) ToggleLikeComment(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	commentID := c.Param("id")

	var comment models.PostComment
	if err := database.DB.First(&comment, "id = ?", commentID).Error; err != nil {
		util.RespondNotFound(c, "comment")
		return
	}

	liked := false
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.CommentLike
		err := tx.Where("user_id = ? AND comment_id = ?", userID, commentID).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
		case err == gorm.ErrRecordNotFound:
			liked = true
			if err := tx.Create(&models.CommentLike{UserID: userID, CommentID: commentID}).Error; err != nil {
				return err
			}
		default:
			return err
		}
		return recountCommentLikes(tx, commentID)
	})
	if err != nil {
		util.RespondInternalError(c, "Failed to toggle comment like", err)
		return
	}

	if liked {
		h.bus.Publish(events.CommentLikedEvent{
			ActorID:        userID,
			PostID:         comment.PostID,
			CommentID:      commentID,
			CommentOwnerID: comment.UserID,
		})
	}

	c.JSON(http.StatusCreated, gin.H{"liked": liked})
}

// CreateComment adds a top-level comment to a post
// POST /api/v1/posts/:id/comment
func (h *Handlers) CreateComment(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	postID := c.Param("id")

	var req struct {
		Comment string `json:"comment" binding:"required,min=1,max=255"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	var post models.Post
	if err := database.DB.First(&post, "id = ?", postID).Error; err != nil {
		util.RespondNotFound(c, "post")
		return
	}

	comment := models.PostComment{
		PostID:  postID,
		UserID:  userID,
		Comment: req.Comment,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		return recountPostComments(tx, postID)
	})
	if err != nil {
		util.RespondInternalError(c, "Failed to create comment", err)
		return
	}

	h.bus.Publish(events.CommentCreatedEvent{
		ActorID:     userID,
		PostID:      postID,
		PostOwnerID: post.UserID,
		CommentID:   comment.ID,
		Comment:     comment.Comment,
	})

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// CreateReply adds a reply to a comment on a post
// POST /api/v1/posts/:id/comments/:comment_id/reply
func (h *Handlers) CreateReply(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	postID := c.Param("id")
	parentID := c.Param("comment_id")

	var req struct {
		Comment string `json:"comment" binding:"required,min=1,max=255"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	var post models.Post
	if err := database.DB.First(&post, "id = ?", postID).Error; err != nil {
		util.RespondNotFound(c, "post")
		return
	}

	var parent models.PostComment
	if err := database.DB.First(&parent, "id = ? AND post_id = ?", parentID, postID).Error; err != nil {
		util.RespondNotFound(c, "comment")
		return
	}

	reply := models.PostComment{
		PostID:         postID,
		UserID:         userID,
		SuperCommentID: &parent.ID,
		Comment:        req.Comment,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&reply).Error; err != nil {
			return err
		}
		return recountCommentReplies(tx, parent.ID)
	})
	if err != nil {
		util.RespondInternalError(c, "Failed to create reply", err)
		return
	}

	h.bus.Publish(events.ReplyCreatedEvent{
		ActorID:       userID,
		PostID:        postID,
		ParentID:      parent.ID,
		ParentOwnerID: parent.UserID,
		ReplyID:       reply.ID,
		Comment:       reply.Comment,
	})

	c.JSON(http.StatusCreated, gin.H{"reply": reply})
}

// GetPostComments returns a post's comments with two reply levels unrolled
// GET /api/v1/posts/:id/comments
func (h *Handlers) GetPostComments(c *gin.Context) {
	postID := c.Param("id")

	var post models.Post
	if err := database.DB.First(&post, "id = ?", postID).Error; err != nil {
		util.RespondNotFound(c, "post")
		return
	}

	var comments []models.PostComment
	err := database.DB.
		Preload("User").Preload("User.Profile").
		Preload("Replies").Preload("Replies.User").Preload("Replies.User.Profile").
		Preload("Replies.Replies").Preload("Replies.Replies.User").
		Where("post_id = ? AND super_comment_id IS NULL", postID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		util.RespondInternalError(c, "Failed to load comments", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

func recountPostLikes(tx *gorm.DB, postID string) error {
	var count int64
	if err := tx.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return err
	}
	return tx.Model(&models.Post{}).Where("id = ?", postID).
		UpdateColumn("like_count", count).Error
}

func recountPostComments(tx *gorm.DB, postID string) error {
	var count int64
	if err := tx.Model(&models.PostComment{}).
		Where("post_id = ? AND super_comment_id IS NULL", postID).
		Count(&count).Error; err != nil {
		return err
	}
	return tx.Model(&models.Post{}).Where("id = ?", postID).
		UpdateColumn("comment_count", count).Error
}

func recountCommentLikes(tx *gorm.DB, commentID string) error {
	var count int64
	if err := tx.Model(&models.CommentLike{}).Where("comment_id = ?", commentID).Count(&count).Error; err != nil {
		return err
	}
	return tx.Model(&models.PostComment{}).Where("id = ?", commentID).
		UpdateColumn("comment_like_count", count).Error
}

func recountCommentReplies(tx *gorm.DB, commentID string) error {
	var count int64
	if err := tx.Model(&models.PostComment{}).Where("super_comment_id = ?", commentID).Count(&count).Error; err != nil {
		return err
	}
	return tx.Model(&models.PostComment{}).Where("id = ?", commentID).
		UpdateColumn("comment_reply_count", count).Error
}
