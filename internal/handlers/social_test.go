package handlers

import (
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbyte-app/backend/internal/models"
)

func (suite *HandlersTestSuite) TestFollowUserCreatesEdgeAndRecounts() {
	t := suite.T()

	alice := suite.createUser("Alice", "alice")
	bob := suite.createUser("Bob", "bob")

	w := suite.doJSON("POST", "/api/v1/follow/"+bob.ID, alice.ID, nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	var edges int64
	require.NoError(t, suite.db.Model(&models.Follower{}).
		Where("follower_user_id = ? AND following_user_id = ?", alice.ID, bob.ID).
		Count(&edges).Error)
	assert.Equal(t, int64(1), edges)

	assert.Equal(t, 1, suite.profileFor(alice.ID).FollowingCount)
	assert.Equal(t, 1, suite.profileFor(bob.ID).FollowerCount)
}

func (suite *HandlersTestSuite) TestFollowUserDuplicateRejected() {
	t := suite.T()

	alice := suite.createUser("Alice", "alice")
	bob := suite.createUser("Bob", "bob")

	w := suite.doJSON("POST", "/api/v1/follow/"+bob.ID, alice.ID, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = suite.doJSON("POST", "/api/v1/follow/"+bob.ID, alice.ID, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var edges int64
	require.NoError(t, suite.db.Model(&models.Follower{}).Count(&edges).Error)
	assert.Equal(t, int64(1), edges)
	assert.Equal(t, 1, suite.profileFor(bob.ID).FollowerCount)
}

func (suite *HandlersTestSuite) TestFollowUserSelfFollowRejected() {
	t := suite.T()

	alice := suite.createUser("Alice", "alice")

	w := suite.doJSON("POST", "/api/v1/follow/"+alice.ID, alice.ID, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var edges int64
	require.NoError(t, suite.db.Model(&models.Follower{}).Count(&edges).Error)
	assert.Equal(t, int64(0), edges)
	assert.Equal(t, 0, suite.profileFor(alice.ID).FollowingCount)
}

func (suite *HandlersTestSuite) TestFollowUserUnknownTarget() {
	t := suite.T()

	alice := suite.createUser("Alice", "alice")

	w := suite.doJSON("POST", "/api/v1/follow/00000000-0000-0000-0000-000000000000", alice.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestUnfollowUserRemovesEdgeAndRecounts() {
	t := suite.T()

	alice := suite.createUser("Alice", "alice")
	bob := suite.createUser("Bob", "bob")

	w := suite.doJSON("POST", "/api/v1/follow/"+bob.ID, alice.ID, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = suite.doJSON("DELETE", "/api/v1/follow/"+bob.ID, alice.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var edges int64
	require.NoError(t, suite.db.Model(&models.Follower{}).Count(&edges).Error)
	assert.Equal(t, int64(0), edges)
	assert.Equal(t, 0, suite.profileFor(alice.ID).FollowingCount)
	assert.Equal(t, 0, suite.profileFor(bob.ID).FollowerCount)
}

func (suite *HandlersTestSuite) TestUnfollowUserNotFollowing() {
	t := suite.T()

	alice := suite.createUser("Alice", "alice")
	bob := suite.createUser("Bob", "bob")

	w := suite.doJSON("DELETE", "/api/v1/follow/"+bob.ID, alice.ID, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestLikePostToggle() {
	t := suite.T()

	alice := suite.createUser("Alice", "alice")
	bob := suite.createUser("Bob", "bob")
	post := suite.createPost(bob, "first clip")

	// First toggle likes.
	w := suite.doJSON("POST", "/api/v1/posts/"+post.ID+"/like", alice.ID, nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	var reloaded models.Post
	require.NoError(t, suite.db.First(&reloaded, "id = ?", post.ID).Error)
	assert.Equal(t, 1, reloaded.LikeCount)

	// Second toggle unlikes and restores the count.
	w = suite.doJSON("POST", "/api/v1/posts/"+post.ID+"/like", alice.ID, nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	require.NoError(t, suite.db.First(&reloaded, "id = ?", post.ID).Error)
	assert.Equal(t, 0, reloaded.LikeCount)

	var likes int64
	require.NoError(t, suite.db.Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", alice.ID, post.ID).
		Count(&likes).Error)
	assert.Equal(t, int64(0), likes)
}

func (suite *HandlersTestSuite) TestLikeCommentToggle() {
	t := suite.T()

	alice := suite.createUser("Alice", "alice")
	bob := suite.createUser("Bob", "bob")
	post := suite.createPost(bob, "clip")

	w := suite.doJSON("POST", "/api/v1/posts/"+post.ID+"/comment", bob.ID,
		map[string]string{"comment": "nice"})
	require.Equal(t, http.StatusCreated, w.Code)

	var comment models.PostComment
	require.NoError(t, suite.db.First(&comment, "post_id = ?", post.ID).Error)

	w = suite.doJSON("POST", "/api/v1/comments/"+comment.ID+"/like", alice.ID, nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	require.NoError(t, suite.db.First(&comment, "id = ?", comment.ID).Error)
	assert.Equal(t, 1, comment.CommentLikeCount)

	w = suite.doJSON("POST", "/api/v1/comments/"+comment.ID+"/like", alice.ID, nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	require.NoError(t, suite.db.First(&comment, "id = ?", comment.ID).Error)
	assert.Equal(t, 0, comment.CommentLikeCount)
}

func (suite *HandlersTestSuite) TestCreateCommentRecountsPost() {
	t := suite.T()

	alice := suite.createUser("Alice", "alice")
	bob := suite.createUser("Bob", "bob")
	post := suite.createPost(bob, "clip")

	for i := 0; i < 3; i++ {
		w := suite.doJSON("POST", "/api/v1/posts/"+post.ID+"/comment", alice.ID,
			map[string]string{"comment": "hello"})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	var reloaded models.Post
	require.NoError(t, suite.db.First(&reloaded, "id = ?", post.ID).Error)
	assert.Equal(t, 3, reloaded.CommentCount)
}

func (suite *HandlersTestSuite) TestCreateCommentRequiresBody() {
	t := suite.T()

	alice := suite.createUser("Alice", "alice")
	post := suite.createPost(alice, "clip")

	w := suite.doJSON("POST", "/api/v1/posts/"+post.ID+"/comment", alice.ID,
		map[string]string{"comment": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestCreateCommentTooLong() {
	t := suite.T()

	alice := suite.createUser("Alice", "alice")
	post := suite.createPost(alice, "clip")

	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}
	w := suite.doJSON("POST", "/api/v1/posts/"+post.ID+"/comment", alice.ID,
		map[string]string{"comment": string(long)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestCreateReplyRecountsParent() {
	t := suite.T()

	alice := suite.createUser("Alice", "alice")
	bob := suite.createUser("Bob", "bob")
	post := suite.createPost(bob, "clip")

	w := suite.doJSON("POST", "/api/v1/posts/"+post.ID+"/comment", bob.ID,
		map[string]string{"comment": "top"})
	require.Equal(t, http.StatusCreated, w.Code)

	var parent models.PostComment
	require.NoError(t, suite.db.First(&parent, "post_id = ?", post.ID).Error)

	for i := 0; i < 2; i++ {
		w = suite.doJSON("POST", "/api/v1/posts/"+post.ID+"/comments/"+parent.ID+"/reply", alice.ID,
			map[string]string{"comment": "re"})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	require.NoError(t, suite.db.First(&parent, "id = ?", parent.ID).Error)
	assert.Equal(t, 2, parent.CommentReplyCount)

	// Replies don't count toward the post's top-level comment count.
	var reloaded models.Post
	require.NoError(t, suite.db.First(&reloaded, "id = ?", post.ID).Error)
	assert.Equal(t, 1, reloaded.CommentCount)
}

func (suite *HandlersTestSuite) TestCreateReplyParentMustMatchPost() {
	t := suite.T()

	alice := suite.createUser("Alice", "alice")
	postA := suite.createPost(alice, "a")
	postB := suite.createPost(alice, "b")

	w := suite.doJSON("POST", "/api/v1/posts/"+postA.ID+"/comment", alice.ID,
		map[string]string{"comment": "on a"})
	require.Equal(t, http.StatusCreated, w.Code)

	var parent models.PostComment
	require.NoError(t, suite.db.First(&parent, "post_id = ?", postA.ID).Error)

	w = suite.doJSON("POST", "/api/v1/posts/"+postB.ID+"/comments/"+parent.ID+"/reply", alice.ID,
		map[string]string{"comment": "wrong post"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
