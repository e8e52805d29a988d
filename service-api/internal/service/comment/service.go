package comment

import (
	"context"
	"errors"

	"moviehub/pkg/auth"
	"moviehub/pkg/comments"
	"moviehub/pkg/model"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotCommentOwner = errors.New("comment belongs to another user")
	ErrDeleteFailed    = errors.New("comment could not be deleted")
)

// Store is the comment persistence used by the service
type Store interface {
	List(ctx context.Context, movieID int64) []model.Comment
	Get(ctx context.Context, movieID, commentID int64) (*model.Comment, bool)
	Create(ctx context.Context, movieID int64, input model.CommentInput) (*model.Comment, error)
	Delete(ctx context.Context, movieID, commentID int64) bool
}

// Service defines the comment service interface
type Service interface {
	List(ctx context.Context, movieID int64) []model.Comment
	Create(ctx context.Context, movieID int64, author *auth.JWTClaims, text string) (*model.Comment, error)
	Delete(ctx context.Context, movieID, commentID int64, requester *auth.JWTClaims) error
}

type commentService struct {
	store Store
}

// NewCommentService creates a new comment service instance.
func NewCommentService(store Store) Service {
	return &commentService{store: store}
}

func (s *commentService) List(ctx context.Context, movieID int64) []model.Comment {
	return s.store.List(ctx, movieID)
}

// Create posts a comment as the signed-in author
func (s *commentService) Create(ctx context.Context, movieID int64, author *auth.JWTClaims, text string) (*model.Comment, error) {
	return s.store.Create(ctx, movieID, model.CommentInput{
		Text:       text,
		AuthorName: author.Username,
		AuthorID:   author.UserID.String(),
	})
}

// Delete removes a comment written by requester
func (s *commentService) Delete(ctx context.Context, movieID, commentID int64, requester *auth.JWTClaims) error {
	existing, ok := s.store.Get(ctx, movieID, commentID)
	if !ok {
		return ErrCommentNotFound
	}
	if existing.AuthorID != requester.UserID.String() {
		return ErrNotCommentOwner
	}
	if !s.store.Delete(ctx, movieID, commentID) {
		return ErrDeleteFailed
	}
	return nil
}

// compile-time check
var _ Store = (*comments.Store)(nil)
