package model

import "time"

// Comment is a user note attached to a movie. IDs are creation timestamps in
// milliseconds, bumped when needed so they stay strictly increasing.
type Comment struct {
	ID         int64     `json:"id"`
	MovieID    int64     `json:"movie_id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"author_name"`
	AuthorID   string    `json:"author_id"`
	CreatedAt  time.Time `json:"timestamp"`
}

// CommentInput is what a signed-in user submits.
type CommentInput struct {
	Text       string `json:"text"`
	AuthorName string `json:"author_name"`
	AuthorID   string `json:"author_id"`
}

// CreateCommentRequest is the HTTP payload for a new comment; the author is taken
// from the session.
type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// Key-value entries held in the shared store.
const (
	CommentsKey      = "moviehub_comments"
	LegacySessionKey = "moviehub_user"
)
