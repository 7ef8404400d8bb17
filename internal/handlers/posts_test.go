package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbyte-app/backend/internal/models"
)

func (suite *HandlersTestSuite) TestCreatePostUploadsAndRecounts() {
	t := suite.T()

	alice := suite.createUser("Alice", "alice")

	w := suite.doMultipart("/api/v1/posts", alice.ID,
		map[string]string{"caption": "my first clip"},
		[]formFile{{field: "file", filename: "clip.mp4", contentType: "video/mp4", data: []byte("fake video bytes")}})
	assert.Equal(t, http.StatusCreated, w.Code)

	var post models.Post
	require.NoError(t, suite.db.First(&post, "user_id = ?", alice.ID).Error)
	assert.Equal(t, "my first clip", post.Caption)
	assert.Equal(t, "clip.mp4", post.OriginalFileName)
	assert.Equal(t, "mp4", post.FileType)
	assert.NotEmpty(t, post.PublicID)

	assert.Equal(t, 1, suite.profileFor(alice.ID).PostCount)
	assert.Len(t, suite.uploader.Uploads, 1)
}

func (suite *HandlersTestSuite) TestCreatePostRejectsNonVideo() {
	t := suite.T()

	alice := suite.createUser("Alice", "alice")

	w := suite.doMultipart("/api/v1/posts", alice.ID,
		map[string]string{"caption": "nope"},
		[]formFile{{field: "file", filename: "song.mp3", contentType: "audio/mpeg", data: []byte("not a video")}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var count int64
	require.NoError(t, suite.db.Model(&models.Post{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	assert.Empty(t, suite.uploader.Uploads)
}

func (suite *HandlersTestSuite) TestCreatePostUploadFailure() {
	t := suite.T()

	alice := suite.createUser("Alice", "alice")
	suite.uploader.FailUploads = true

	w := suite.doMultipart("/api/v1/posts", alice.ID,
		map[string]string{"caption": "boom"},
		[]formFile{{field: "file", filename: "clip.mov", contentType: "video/quicktime", data: []byte("bytes")}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var count int64
	require.NoError(t, suite.db.Model(&models.Post{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	assert.Equal(t, 0, suite.profileFor(alice.ID).PostCount)
}

func (suite *HandlersTestSuite) TestDeletePostOwnerOnly() {
	t := suite.T()

	alice := suite.createUser("Alice", "alice")
	bob := suite.createUser("Bob", "bob")
	post := suite.createPost(alice, "mine")

	w := suite.doJSON("DELETE", "/api/v1/posts/"+post.ID, bob.ID, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	require.NoError(t, suite.db.Model(&models.Post{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func (suite *HandlersTestSuite) TestDeletePostDestroysObjectAndRecounts() {
	t := suite.T()

	alice := suite.createUser("Alice", "alice")
	post := suite.createPost(alice, "mine")
	require.NoError(t, suite.db.Model(&models.UserProfile{}).
		Where("user_id = ?", alice.ID).UpdateColumn("post_count", 1).Error)

	w := suite.doJSON("DELETE", "/api/v1/posts/"+post.ID, alice.ID, nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	var count int64
	require.NoError(t, suite.db.Model(&models.Post{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	assert.Equal(t, 0, suite.profileFor(alice.ID).PostCount)
	assert.Contains(t, suite.uploader.Deleted, post.PublicID)
}

func (suite *HandlersTestSuite) TestDeletePostNotFound() {
	t := suite.T()

	alice := suite.createUser("Alice", "alice")

	w := suite.doJSON("DELETE", "/api/v1/posts/00000000-0000-0000-0000-000000000000", alice.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestFeedFlagsAndCounts() {
	t := suite.T()

	alice := suite.createUser("Alice", "alice")
	bob := suite.createUser("Bob", "bob")
	carol := suite.createUser("Carol", "carol")

	bobPost := suite.createPost(bob, "bob's clip")
	suite.createPost(alice, "alice's clip")

	// Alice follows Bob and likes his post.
	require.Equal(t, http.StatusCreated, suite.doJSON("POST", "/api/v1/follow/"+bob.ID, alice.ID, nil).Code)
	require.Equal(t, http.StatusCreated, suite.doJSON("POST", "/api/v1/posts/"+bobPost.ID+"/like", alice.ID, nil).Code)

	// Carol comments, Alice replies, Bob replies to the reply.
	require.Equal(t, http.StatusCreated, suite.doJSON("POST", "/api/v1/posts/"+bobPost.ID+"/comment", carol.ID,
		map[string]string{"comment": "top level"}).Code)

	var comment models.PostComment
	require.NoError(t, suite.db.First(&comment, "post_id = ? AND super_comment_id IS NULL", bobPost.ID).Error)

	require.Equal(t, http.StatusCreated, suite.doJSON("POST", "/api/v1/posts/"+bobPost.ID+"/comments/"+comment.ID+"/reply", alice.ID,
		map[string]string{"comment": "reply"}).Code)

	var reply models.PostComment
	require.NoError(t, suite.db.First(&reply, "super_comment_id = ?", comment.ID).Error)

	require.Equal(t, http.StatusCreated, suite.doJSON("POST", "/api/v1/posts/"+bobPost.ID+"/comments/"+reply.ID+"/reply", bob.ID,
		map[string]string{"comment": "nested reply"}).Code)

	w := suite.doJSON("GET", "/api/v1/posts/feed", alice.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Posts []struct {
			ID               string          `json:"id"`
			CommentCount     int64           `json:"comment_count"`
			ReplyCount       int64           `json:"reply_count"`
			NestedReplyCount int64           `json:"nested_reply_count"`
			Liked            bool            `json:"liked"`
			Followed         bool            `json:"followed"`
			IsOwner          bool            `json:"is_owner"`
			Likes            json.RawMessage `json:"likes"`
		} `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Posts, 2)

	for _, p := range resp.Posts {
		switch p.ID {
		case bobPost.ID:
			assert.Equal(t, int64(1), p.CommentCount)
			assert.Equal(t, int64(1), p.ReplyCount)
			assert.Equal(t, int64(1), p.NestedReplyCount)
			assert.True(t, p.Liked)
			assert.True(t, p.Followed)
			assert.False(t, p.IsOwner)
		default:
			assert.True(t, p.IsOwner)
			assert.False(t, p.Followed)
			assert.False(t, p.Liked)
		}
		// Raw likes are stripped from the feed payload.
		assert.Empty(t, p.Likes)
	}
}

func (suite *HandlersTestSuite) TestGetUserPosts() {
	t := suite.T()

	alice := suite.createUser("Alice", "alice")
	bob := suite.createUser("Bob", "bob")
	suite.createPost(alice, "one")
	suite.createPost(alice, "two")
	suite.createPost(bob, "other")

	w := suite.doJSON("GET", "/api/v1/posts/user/"+alice.ID, bob.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Posts []models.Post `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Posts, 2)
}
