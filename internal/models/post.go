package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is a video post. The binary lives in object storage; PublicID is the
// storage key used to destroy the remote object when the post is deleted.
type Post struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"not null;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Caption          string `gorm:"type:text" json:"caption"`
	OriginalFileName string `json:"original_file_name"`
	FileURL          string `gorm:"not null" json:"file_url"`
	PublicID         string `gorm:"not null" json:"public_id"`
	FileSize         int64  `json:"file_size"`
	FileType         string `json:"file_type"`
	MimeType         string `json:"mime_type"`
	Width            int    `json:"width"`
	Height           int    `json:"height"`

	LikeCount    int `gorm:"default:0" json:"like_count"`
	CommentCount int `gorm:"default:0" json:"comment_count"`

	Comments []PostComment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
	Likes    []Like        `gorm:"foreignKey:PostID" json:"likes,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// PostComment is a comment on a post. SuperCommentID links a reply to its
// parent comment; the self-reference allows arbitrary depth but the read
// path only unrolls two reply levels.
type PostComment struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	PostID string `gorm:"not null;index" json:"post_id"`
	Post   Post   `gorm:"foreignKey:PostID" json:"-"`
	UserID string `gorm:"not null;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	SuperCommentID *string        `gorm:"type:uuid;index" json:"super_comment_id,omitempty"`
	Replies        []*PostComment `gorm:"foreignKey:SuperCommentID" json:"replies,omitempty"`

	Comment string `gorm:"type:text;not null" json:"comment"`

	CommentReplyCount int `gorm:"default:0" json:"comment_reply_count"`
	CommentLikeCount  int `gorm:"default:0" json:"comment_like_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Like is a post like, unique per (user, post). Liking is a toggle: the
// engagement handlers delete an existing row instead of erroring.
type Like struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"not null;index:idx_likes_user_post,unique" json:"user_id"`
	PostID string `gorm:"not null;index:idx_likes_user_post,unique" json:"post_id"`

	CreatedAt time.Time `json:"created_at"`
}

// CommentLike is a comment like, unique per (user, comment).
type CommentLike struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string `gorm:"not null;index:idx_comment_likes_user_comment,unique" json:"user_id"`
	CommentID string `gorm:"not null;index:idx_comment_likes_user_comment,unique" json:"comment_id"`

	CreatedAt time.Time `json:"created_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = generateUUID()
	}
	return nil
}

func (c *PostComment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = generateUUID()
	}
	return nil
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = generateUUID()
	}
	return nil
}

func (cl *CommentLike) BeforeCreate(tx *gorm.DB) error {
	if cl.ID == "" {
		cl.ID = generateUUID()
	}
	return nil
}
