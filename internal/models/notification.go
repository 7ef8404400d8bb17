package models

import (
	"time"

	"gorm.io/gorm"
)

// NotificationType identifies the domain event that produced a notification.
type NotificationType string

const (
	NotificationTypeComment     NotificationType = "comment"
	NotificationTypeLike        NotificationType = "like"
	NotificationTypeReply       NotificationType = "reply"
	NotificationTypeCommentLike NotificationType = "comment_like"
)

// Notification is a persisted notification addressed to the owner of the
// content an event touched. Data is a snapshot taken at event time (actor
// id, actor username and picture, target ids, media URL), so the row stays
// meaningful even if the actor later changes their profile. Persistence is
// the terminal effect; delivery is someone else's problem.
type Notification struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"not null;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`

	Type NotificationType  `gorm:"not null" json:"type"`
	Data map[string]string `gorm:"type:jsonb;serializer:json" json:"data"`

	ReadAt *time.Time `json:"read_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = generateUUID()
	}
	return nil
}
