package comments

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"moviehub/pkg/model"
	"moviehub/pkg/redis"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := redis.NewClientFromOptions(&goredis.Options{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return NewStore(client, 0), mr
}

func TestListEmpty(t *testing.T) {
	s, _ := newTestStore(t)
	got := s.List(context.Background(), 550)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCreateRejectsInvalidText(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t)

	tests := []struct {
		name string
		text string
		want error
	}{
		{name: "empty", text: "", want: ErrEmptyText},
		{name: "whitespace", text: "   \n\t", want: ErrEmptyText},
		{name: "too long", text: strings.Repeat("a", 501), want: ErrTextTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(ctx, 550, model.CommentInput{Text: tt.text, AuthorName: "A", AuthorID: "1"})
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.False(t, mr.Exists(model.CommentsKey))
	assert.Empty(t, s.List(ctx, 550))
}

func TestCreateAcceptsMaxLengthInCharacters(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Create(context.Background(), 1, model.CommentInput{Text: strings.Repeat("é", 500), AuthorID: "1"})
	assert.NoError(t, err)
}

func TestCreateThenList(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	created, err := s.Create(ctx, 550, model.CommentInput{Text: "hello", AuthorName: "A", AuthorID: "1"})
	require.NoError(t, err)

	got := s.List(ctx, 550)
	require.Len(t, got, 1)
	assert.Equal(t, created.ID, got[0].ID)
	assert.Equal(t, "hello", got[0].Text)
	assert.Equal(t, "A", got[0].AuthorName)
	assert.Equal(t, "1", got[0].AuthorID)
	assert.Equal(t, int64(550), got[0].MovieID)
	assert.Empty(t, s.List(ctx, 13))
}

func TestCreatePrependsWithIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	first, err := s.Create(ctx, 550, model.CommentInput{Text: "first", AuthorID: "1"})
	require.NoError(t, err)
	second, err := s.Create(ctx, 550, model.CommentInput{Text: "second", AuthorID: "2"})
	require.NoError(t, err)

	assert.Equal(t, fixed.UnixMilli(), first.ID)
	assert.Greater(t, second.ID, first.ID)

	got := s.List(ctx, 550)
	require.Len(t, got, 2)
	assert.Equal(t, "second", got[0].Text)
	assert.Equal(t, "first", got[1].Text)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	a, err := s.Create(ctx, 550, model.CommentInput{Text: "a", AuthorID: "1"})
	require.NoError(t, err)
	b, err := s.Create(ctx, 550, model.CommentInput{Text: "b", AuthorID: "1"})
	require.NoError(t, err)

	assert.False(t, s.Delete(ctx, 550, 12345))
	assert.Len(t, s.List(ctx, 550), 2)
	assert.False(t, s.Delete(ctx, 13, a.ID), "wrong movie")

	assert.True(t, s.Delete(ctx, 550, a.ID))
	got := s.List(ctx, 550)
	require.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].ID)

	_, ok := s.Get(ctx, 550, a.ID)
	assert.False(t, ok)
}

func TestReadFailuresDegrade(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t)
	require.NoError(t, mr.Set(model.CommentsKey, "{corrupt"))

	assert.Empty(t, s.List(ctx, 550))
	assert.False(t, s.Delete(ctx, 550, 1))

	_, err := s.Create(ctx, 550, model.CommentInput{Text: "hi", AuthorID: "1"})
	assert.Error(t, err)
}

type failingKV struct{}

func (failingKV) Get(ctx context.Context, key string, dest interface{}) error {
	return redis.ErrKeyNotFound
}

func (failingKV) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return errors.New("disk full")
}

func (failingKV) Delete(ctx context.Context, keys ...string) error {
	return errors.New("disk full")
}

func TestWriteFailurePropagatesFromCreate(t *testing.T) {
	s := NewStore(failingKV{}, 0)
	_, err := s.Create(context.Background(), 1, model.CommentInput{Text: "hi"})
	assert.ErrorContains(t, err, "disk full")
	assert.Error(t, s.RemoveLegacySession(context.Background()))
}

func TestRemoveLegacySession(t *testing.T) {
	s, mr := newTestStore(t)
	require.NoError(t, mr.Set(model.LegacySessionKey, `{"email":"old@example.com"}`))

	require.NoError(t, s.RemoveLegacySession(context.Background()))
	assert.False(t, mr.Exists(model.LegacySessionKey))
}
