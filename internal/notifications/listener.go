// Package notifications persists notification rows in response to domain
// events. Persistence is the terminal effect: there is no push or email
// delivery here.
package notifications

import (
	"github.com/bbyte-app/backend/internal/database"
	"github.com/bbyte-app/backend/internal/events"
	"github.com/bbyte-app/backend/internal/logger"
	"github.com/bbyte-app/backend/internal/metrics"
	"github.com/bbyte-app/backend/internal/models"
	"go.uber.org/zap"
)

// Listener subscribes to engagement events and writes one Notification row
// per event, addressed to the affected content's owner. The payload is a
// snapshot of the actor's profile at event time.
type Listener struct{}

// NewListener creates a notification listener.
func NewListener() *Listener {
	return &Listener{}
}

// Register wires the listener into the bus.
func (l *Listener) Register(bus *events.Bus) {
	bus.Subscribe(events.CommentCreated, l.onCommentCreated)
	bus.Subscribe(events.PostLiked, l.onPostLiked)
	bus.Subscribe(events.ReplyCreated, l.onReplyCreated)
	bus.Subscribe(events.CommentLiked, l.onCommentLiked)
}

func (l *Listener) onCommentCreated(evt events.Event) {
	e, ok := evt.(events.CommentCreatedEvent)
	if !ok {
		return
	}
	if e.ActorID == e.PostOwnerID {
		return
	}

	data := l.actorSnapshot(e.ActorID)
	data["commented_by"] = e.ActorID
	data["post_id"] = e.PostID
	data["comment_id"] = e.CommentID
	data["post_video_url"] = l.postVideoURL(e.PostID)

	l.persist(e.PostOwnerID, models.NotificationTypeComment, data)
}

func (l *Listener) onPostLiked(evt events.Event) {
	e, ok := evt.(events.PostLikedEvent)
	if !ok {
		return
	}
	if e.ActorID == e.PostOwnerID {
		return
	}

	data := l.actorSnapshot(e.ActorID)
	data["liked_by"] = e.ActorID
	data["post_id"] = e.PostID
	data["post_video_url"] = l.postVideoURL(e.PostID)

	l.persist(e.PostOwnerID, models.NotificationTypeLike, data)
}

func (l *Listener) onReplyCreated(evt events.Event) {
	e, ok := evt.(events.ReplyCreatedEvent)
	if !ok {
		return
	}
	if e.ActorID == e.ParentOwnerID {
		return
	}

	data := l.actorSnapshot(e.ActorID)
	data["replied_by"] = e.ActorID
	data["post_id"] = e.PostID
	data["comment_id"] = e.ParentID
	data["reply_id"] = e.ReplyID
	data["post_video_url"] = l.postVideoURL(e.PostID)

	l.persist(e.ParentOwnerID, models.NotificationTypeReply, data)
}

func (l *Listener) onCommentLiked(evt events.Event) {
	e, ok := evt.(events.CommentLikedEvent)
	if !ok {
		return
	}
	if e.ActorID == e.CommentOwnerID {
		return
	}

	data := l.actorSnapshot(e.ActorID)
	data["liked_by"] = e.ActorID
	data["post_id"] = e.PostID
	data["comment_id"] = e.CommentID

	l.persist(e.CommentOwnerID, models.NotificationTypeCommentLike, data)
}

// actorSnapshot captures the actor's username and profile picture as they
// are right now, so the notification survives later profile edits.
func (l *Listener) actorSnapshot(actorID string) map[string]string {
	data := map[string]string{}

	var actor models.User
	if err := database.DB.Preload("Profile").First(&actor, "id = ?", actorID).Error; err != nil {
		logger.Warn("Failed to load actor for notification snapshot", err)
		return data
	}

	data["username"] = actor.Username
	if actor.Profile != nil {
		data["profile_picture"] = actor.Profile.ProfilePicture
	}
	return data
}

func (l *Listener) postVideoURL(postID string) string {
	var post models.Post
	if err := database.DB.Select("file_url").First(&post, "id = ?", postID).Error; err != nil {
		return ""
	}
	return post.FileURL
}

func (l *Listener) persist(recipientID string, typ models.NotificationType, data map[string]string) {
	notification := models.Notification{
		UserID: recipientID,
		Type:   typ,
		Data:   data,
	}
	if err := database.DB.Create(&notification).Error; err != nil {
		logger.Error("Failed to persist notification", err)
		return
	}

	metrics.Get().NotificationsCreatedTotal.WithLabelValues(string(typ)).Inc()
	logger.Log.Debug("Notification persisted",
		zap.String("type", string(typ)),
		logger.WithUserID(recipientID),
	)
}
