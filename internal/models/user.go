package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a Bbyte account. Credentials live here; everything the
// profile page shows lives on UserProfile.
type User struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`

	PasswordHash *string `gorm:"type:text" json:"-"`

	Profile     *UserProfile     `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	WebsiteURLs []UserWebsiteURL `gorm:"foreignKey:UserID" json:"website_urls,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// UserProfile holds the public profile plus denormalized aggregate counts.
// The counts are recomputed from the true row counts inside the same
// transaction as the write that changes them, never blindly incremented.
type UserProfile struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"uniqueIndex;not null" json:"user_id"`

	// Denormalized copies of the identity fields, kept in sync on profile
	// updates so profile listings don't need a join.
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`

	Bio            string `gorm:"type:text" json:"bio"`
	Gender         string `json:"gender"`
	CustomGender   string `json:"custom_gender"`
	ProfilePicture string `json:"profile_picture"`

	PostCount      int `gorm:"default:0" json:"post_count"`
	FollowerCount  int `gorm:"default:0" json:"follower_count"`
	FollowingCount int `gorm:"default:0" json:"following_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserWebsiteURL is one external link on a profile. A user may have at most
// five, unique per user; the cap is enforced by the profile update path.
type UserWebsiteURL struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"not null;index:idx_website_urls_user_url,unique" json:"user_id"`
	URL    string `gorm:"not null;index:idx_website_urls_user_url,unique" json:"url"`

	CreatedAt time.Time `json:"created_at"`
}

// MaxWebsiteURLs caps the links a profile may list.
const MaxWebsiteURLs = 5

// Follower is a directed follow edge: follower follows following.
// Edges are unique per pair and never reflexive.
type Follower struct {
	ID              string `gorm:"primaryKey;type:uuid" json:"id"`
	FollowerUserID  string `gorm:"not null;index:idx_followers_pair,unique" json:"follower_user_id"`
	FollowingUserID string `gorm:"not null;index:idx_followers_pair,unique" json:"following_user_id"`

	FollowerUser  User `gorm:"foreignKey:FollowerUserID" json:"-"`
	FollowingUser User `gorm:"foreignKey:FollowingUserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// UserSummary is the minimal projection returned by search, follower and
// following listings.
type UserSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = generateUUID()
	}
	return nil
}

func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = generateUUID()
	}
	return nil
}

func (w *UserWebsiteURL) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = generateUUID()
	}
	return nil
}

func (f *Follower) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = generateUUID()
	}
	return nil
}

func generateUUID() string {
	return uuid.New().String()
}
