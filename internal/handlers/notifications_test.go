package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbyte-app/backend/internal/models"
)

func (suite *HandlersTestSuite) TestLikeCreatesNotificationForOwner() {
	t := suite.T()

	alice := suite.createUser("Alice", "alice")
	bob := suite.createUser("Bob", "bob")
	post := suite.createPost(bob, "clip")

	w := suite.doJSON("POST", "/api/v1/posts/"+post.ID+"/like", alice.ID, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	suite.bus.Drain()

	var notification models.Notification
	require.NoError(t, suite.db.First(&notification, "user_id = ?", bob.ID).Error)
	assert.Equal(t, models.NotificationTypeLike, notification.Type)
	assert.Equal(t, alice.ID, notification.Data["liked_by"])
	assert.Equal(t, "alice", notification.Data["username"])
	assert.Equal(t, post.ID, notification.Data["post_id"])
	assert.Equal(t, post.FileURL, notification.Data["post_video_url"])
	assert.Nil(t, notification.ReadAt)
}

func (suite *HandlersTestSuite) TestUnlikeCreatesNoNotification() {
	t := suite.T()

	alice := suite.createUser("Alice", "alice")
	bob := suite.createUser("Bob", "bob")
	post := suite.createPost(bob, "clip")

	require.Equal(t, http.StatusCreated, suite.doJSON("POST", "/api/v1/posts/"+post.ID+"/like", alice.ID, nil).Code)
	require.Equal(t, http.StatusCreated, suite.doJSON("POST", "/api/v1/posts/"+post.ID+"/like", alice.ID, nil).Code)
	suite.bus.Drain()

	// Only the like itself notified, not the removal.
	var count int64
	require.NoError(t, suite.db.Model(&models.Notification{}).Where("user_id = ?", bob.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func (suite *HandlersTestSuite) TestSelfActionsProduceNoNotification() {
	t := suite.T()

	alice := suite.createUser("Alice", "alice")
	post := suite.createPost(alice, "clip")

	require.Equal(t, http.StatusCreated, suite.doJSON("POST", "/api/v1/posts/"+post.ID+"/like", alice.ID, nil).Code)
	require.Equal(t, http.StatusCreated, suite.doJSON("POST", "/api/v1/posts/"+post.ID+"/comment", alice.ID,
		map[string]string{"comment": "own post"}).Code)
	suite.bus.Drain()

	var count int64
	require.NoError(t, suite.db.Model(&models.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func (suite *HandlersTestSuite) TestCommentAndReplyNotifications() {
	t := suite.T()

	alice := suite.createUser("Alice", "alice")
	bob := suite.createUser("Bob", "bob")
	post := suite.createPost(bob, "clip")

	require.Equal(t, http.StatusCreated, suite.doJSON("POST", "/api/v1/posts/"+post.ID+"/comment", alice.ID,
		map[string]string{"comment": "hey"}).Code)
	suite.bus.Drain()

	var notification models.Notification
	require.NoError(t, suite.db.First(&notification, "user_id = ? AND type = ?", bob.ID, models.NotificationTypeComment).Error)
	assert.Equal(t, alice.ID, notification.Data["commented_by"])

	// Bob replies to Alice's comment; the reply notification goes to Alice.
	var comment models.PostComment
	require.NoError(t, suite.db.First(&comment, "post_id = ? AND super_comment_id IS NULL", post.ID).Error)

	require.Equal(t, http.StatusCreated, suite.doJSON("POST", "/api/v1/posts/"+post.ID+"/comments/"+comment.ID+"/reply", bob.ID,
		map[string]string{"comment": "hi back"}).Code)
	suite.bus.Drain()

	require.NoError(t, suite.db.First(&notification, "user_id = ? AND type = ?", alice.ID, models.NotificationTypeReply).Error)
	assert.Equal(t, bob.ID, notification.Data["replied_by"])
	assert.Equal(t, comment.ID, notification.Data["comment_id"])
}

func (suite *HandlersTestSuite) TestGetNotificationsAndMarkRead() {
	t := suite.T()

	alice := suite.createUser("Alice", "alice")
	bob := suite.createUser("Bob", "bob")
	post := suite.createPost(bob, "clip")

	require.Equal(t, http.StatusCreated, suite.doJSON("POST", "/api/v1/posts/"+post.ID+"/like", alice.ID, nil).Code)
	require.Equal(t, http.StatusCreated, suite.doJSON("POST", "/api/v1/posts/"+post.ID+"/comment", alice.ID,
		map[string]string{"comment": "hello"}).Code)
	suite.bus.Drain()

	w := suite.doJSON("GET", "/api/v1/notifications", bob.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Notifications []models.Notification `json:"notifications"`
		UnreadCount   int64                 `json:"unread_count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Notifications, 2)
	assert.Equal(t, int64(2), resp.UnreadCount)

	w = suite.doJSON("POST", "/api/v1/notifications/read", bob.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = suite.doJSON("GET", "/api/v1/notifications", bob.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(0), resp.UnreadCount)
}
