package events

// Event names consumed by the notification listeners.
const (
	PostLiked      = "post.liked"
	CommentCreated = "comment.created"
	ReplyCreated   = "reply.created"
	CommentLiked   = "comment.liked"
)

// PostLikedEvent fires when a like toggle creates a like row (never when it
// removes one).
type PostLikedEvent struct {
	ActorID     string
	PostID      string
	PostOwnerID string
}

func (PostLikedEvent) Name() string { return PostLiked }

// CommentCreatedEvent fires when a top-level comment is created.
type CommentCreatedEvent struct {
	ActorID     string
	PostID      string
	PostOwnerID string
	CommentID   string
	Comment     string
}

func (CommentCreatedEvent) Name() string { return CommentCreated }

// ReplyCreatedEvent fires when a reply to a comment is created.
type ReplyCreatedEvent struct {
	ActorID        string
	PostID         string
	ParentID       string
	ParentOwnerID  string
	ReplyID        string
	Comment        string
}

func (ReplyCreatedEvent) Name() string { return ReplyCreated }

// CommentLikedEvent fires when a comment like toggle creates a like row.
type CommentLikedEvent struct {
	ActorID        string
	PostID         string
	CommentID      string
	CommentOwnerID string
}

func (CommentLikedEvent) Name() string { return CommentLiked }
