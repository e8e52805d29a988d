package comments

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"moviehub/pkg/logger"
	"moviehub/pkg/model"
	"moviehub/pkg/redis"
)

// DefaultMaxLength bounds comment text, counted in characters after trimming.
const DefaultMaxLength = 500

var (
	ErrEmptyText   = errors.New("comment text is required")
	ErrTextTooLong = errors.New("comment text is too long")
)

// KeyValue is a JSON key-value store such as the redis client wrapper.
type KeyValue interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Store keeps every comment in a single mapping from movie id to comments,
// newest first. It does not check ownership.
type Store struct {
	mu        sync.Mutex
	kv        KeyValue
	maxLength int
	now       func() time.Time
	lastID    int64
}

// NewStore creates a comment store. A non-positive maxLength uses DefaultMaxLength.
func NewStore(kv KeyValue, maxLength int) *Store {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &Store{
		kv:        kv,
		maxLength: maxLength,
		now:       time.Now,
	}
}

// RemoveLegacySession deletes the session record left by older clients.
func (s *Store) RemoveLegacySession(ctx context.Context) error {
	if err := s.kv.Delete(ctx, model.LegacySessionKey); err != nil {
		return fmt.Errorf("remove legacy session: %w", err)
	}
	return nil
}

// Validate checks text the way Create does.
func (s *Store) Validate(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyText
	}
	if utf8.RuneCountInString(text) > s.maxLength {
		return fmt.Errorf("%w: max %d characters", ErrTextTooLong, s.maxLength)
	}
	return nil
}

// List returns the comments of movieID, newest first. Read failures yield an
// empty list.
func (s *Store) List(ctx context.Context, movieID int64) []model.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load(ctx)
	if err != nil {
		logger.Error(err, "failed to read comments")
		return []model.Comment{}
	}
	list := all[key(movieID)]
	if list == nil {
		return []model.Comment{}
	}
	return list
}

// Get returns one comment.
func (s *Store) Get(ctx context.Context, movieID, commentID int64) (*model.Comment, bool) {
	for _, c := range s.List(ctx, movieID) {
		if c.ID == commentID {
			c := c
			return &c, true
		}
	}
	return nil, false
}

// Create validates input, prepends a new comment for movieID and persists the
// whole mapping. Write failures are returned.
func (s *Store) Create(ctx context.Context, movieID int64, input model.CommentInput) (*model.Comment, error) {
	if err := s.Validate(input.Text); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	comment := model.Comment{
		ID:         s.nextID(now),
		MovieID:    movieID,
		Text:       strings.TrimSpace(input.Text),
		AuthorName: input.AuthorName,
		AuthorID:   input.AuthorID,
		CreatedAt:  now.UTC(),
	}

	k := key(movieID)
	all[k] = append([]model.Comment{comment}, all[k]...)

	if err := s.kv.Set(ctx, model.CommentsKey, all, 0); err != nil {
		return nil, fmt.Errorf("save comment: %w", err)
	}
	return &comment, nil
}

// Delete removes commentID from movieID's comments and reports whether a
// record was removed. Failures are logged and reported as false.
func (s *Store) Delete(ctx context.Context, movieID, commentID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load(ctx)
	if err != nil {
		logger.Error(err, "failed to read comments for delete")
		return false
	}

	k := key(movieID)
	list := all[k]
	kept := make([]model.Comment, 0, len(list))
	for _, c := range list {
		if c.ID != commentID {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(list) {
		return false
	}

	if len(kept) == 0 {
		delete(all, k)
	} else {
		all[k] = kept
	}
	if err := s.kv.Set(ctx, model.CommentsKey, all, 0); err != nil {
		logger.Error(err, "failed to save comments after delete")
		return false
	}
	return true
}

func (s *Store) load(ctx context.Context) (map[string][]model.Comment, error) {
	all := map[string][]model.Comment{}
	err := s.kv.Get(ctx, model.CommentsKey, &all)
	if errors.Is(err, redis.ErrKeyNotFound) {
		return map[string][]model.Comment{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}
	if all == nil {
		all = map[string][]model.Comment{}
	}
	return all, nil
}

// nextID derives an id from the creation time in milliseconds, bumped past
// the previous id when two comments land in the same millisecond.
func (s *Store) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func key(movieID int64) string {
	return strconv.FormatInt(movieID, 10)
}
