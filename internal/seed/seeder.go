package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/bbyte-app/backend/internal/logger"
	"github.com/bbyte-app/backend/internal/models"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	_ = gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{db: db}
}

// SeedDev fills the development database with realistic data: users with
// profiles, a follow graph, posts, comments, replies and likes. Counters are
// recomputed at the end so they match the seeded rows.
func (s *Seeder) SeedDev() error {
	log := func(msg string) {
		logger.Log.Info(msg)
	}

	log("Creating users...")
	users, err := s.seedUsers(50)
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	log("Creating follow graph...")
	if err := s.seedFollows(users); err != nil {
		return fmt.Errorf("failed to seed follows: %w", err)
	}

	log("Creating posts...")
	posts, err := s.seedPosts(users, 200)
	if err != nil {
		return fmt.Errorf("failed to seed posts: %w", err)
	}

	log("Creating comments and replies...")
	if err := s.seedComments(users, posts, 400); err != nil {
		return fmt.Errorf("failed to seed comments: %w", err)
	}

	log("Creating likes...")
	if err := s.seedLikes(users, posts, 800); err != nil {
		return fmt.Errorf("failed to seed likes: %w", err)
	}

	log("Recomputing counters...")
	if err := s.recountAll(); err != nil {
		return fmt.Errorf("failed to recount: %w", err)
	}

	log("Seeding complete")
	return nil
}

func (s *Seeder) seedUsers(count int) ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	passwordHash := string(hash)

	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		name := gofakeit.Name()
		username := fmt.Sprintf("%s%d", gofakeit.Username(), i)
		email := fmt.Sprintf("%d.%s", i, gofakeit.Email())

		user := models.User{
			Name:         name,
			Username:     username,
			Email:        email,
			PasswordHash: &passwordHash,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, err
		}

		profile := models.UserProfile{
			UserID:         user.ID,
			Name:           name,
			Username:       username,
			Email:          email,
			Bio:            gofakeit.Sentence(10),
			Gender:         gofakeit.RandomString([]string{"male", "female", "custom", ""}),
			ProfilePicture: gofakeit.ImageURL(256, 256),
		}
		if err := s.db.Create(&profile).Error; err != nil {
			return nil, err
		}

		for j := 0; j < rand.Intn(3); j++ {
			url := models.UserWebsiteURL{UserID: user.ID, URL: gofakeit.URL()}
			// Unique per user; a duplicate fake URL just gets skipped.
			s.db.Create(&url)
		}

		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) seedFollows(users []models.User) error {
	for i := range users {
		followCount := rand.Intn(10)
		for j := 0; j < followCount; j++ {
			target := users[rand.Intn(len(users))]
			if target.ID == users[i].ID {
				continue
			}
			edge := models.Follower{
				FollowerUserID:  users[i].ID,
				FollowingUserID: target.ID,
			}
			// Pair uniqueness is enforced by the index; duplicates are skipped.
			s.db.Create(&edge)
		}
	}
	return nil
}

func (s *Seeder) seedPosts(users []models.User, count int) ([]models.Post, error) {
	posts := make([]models.Post, 0, count)
	for i := 0; i < count; i++ {
		owner := users[rand.Intn(len(users))]
		key := fmt.Sprintf("videos/seed/%s/%s.mp4", owner.ID, gofakeit.UUID())
		post := models.Post{
			UserID:           owner.ID,
			Caption:          gofakeit.Sentence(8),
			OriginalFileName: gofakeit.Word() + ".mp4",
			FileURL:          "https://cdn.example.com/" + key,
			PublicID:         key,
			FileSize:         int64(gofakeit.Number(1<<20, 50<<20)),
			FileType:         "mp4",
			MimeType:         "video/mp4",
			Width:            1080,
			Height:           1920,
		}
		if err := s.db.Create(&post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (s *Seeder) seedComments(users []models.User, posts []models.Post, count int) error {
	var comments []models.PostComment
	for i := 0; i < count; i++ {
		post := posts[rand.Intn(len(posts))]
		author := users[rand.Intn(len(users))]
		comment := models.PostComment{
			PostID:  post.ID,
			UserID:  author.ID,
			Comment: gofakeit.Sentence(6),
		}
		if err := s.db.Create(&comment).Error; err != nil {
			return err
		}
		comments = append(comments, comment)
	}

	// Replies to roughly a quarter of the comments.
	for i := 0; i < count/4; i++ {
		parent := comments[rand.Intn(len(comments))]
		author := users[rand.Intn(len(users))]
		reply := models.PostComment{
			PostID:         parent.PostID,
			UserID:         author.ID,
			SuperCommentID: &parent.ID,
			Comment:        gofakeit.Sentence(5),
		}
		if err := s.db.Create(&reply).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedLikes(users []models.User, posts []models.Post, count int) error {
	for i := 0; i < count; i++ {
		like := models.Like{
			UserID: users[rand.Intn(len(users))].ID,
			PostID: posts[rand.Intn(len(posts))].ID,
		}
		// (user, post) uniqueness is enforced by the index; duplicates skip.
		s.db.Create(&like)
	}
	return nil
}

// recountAll recomputes every denormalized counter from the seeded rows.
func (s *Seeder) recountAll() error {
	statements := []string{
		`UPDATE user_profiles SET post_count = (
			SELECT COUNT(*) FROM posts
			WHERE posts.user_id = user_profiles.user_id AND posts.deleted_at IS NULL)`,
		`UPDATE user_profiles SET follower_count = (
			SELECT COUNT(*) FROM followers
			WHERE followers.following_user_id = user_profiles.user_id)`,
		`UPDATE user_profiles SET following_count = (
			SELECT COUNT(*) FROM followers
			WHERE followers.follower_user_id = user_profiles.user_id)`,
		`UPDATE posts SET like_count = (
			SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id)`,
		`UPDATE posts SET comment_count = (
			SELECT COUNT(*) FROM post_comments
			WHERE post_comments.post_id = posts.id AND post_comments.super_comment_id IS NULL)`,
		`UPDATE post_comments SET comment_reply_count = (
			SELECT COUNT(*) FROM post_comments AS replies
			WHERE replies.super_comment_id = post_comments.id)`,
		`UPDATE post_comments SET comment_like_count = (
			SELECT COUNT(*) FROM comment_likes
			WHERE comment_likes.comment_id = post_comments.id)`,
	}
	for _, stmt := range statements {
		if err := s.db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
