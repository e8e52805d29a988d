package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewClientFromOptions(&goredis.Options{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestSetGetDelete(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestClient(t)

	type record struct {
		Name string `json:"name"`
	}

	require.NoError(t, c.Set(ctx, "k", record{Name: "alien"}, 0))
	assert.Equal(t, `{"name":"alien"}`, mustGet(t, mr, "k"))

	var got record
	require.NoError(t, c.Get(ctx, "k", &got))
	assert.Equal(t, "alien", got.Name)

	ok, err := c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.Delete(ctx, "k"))
	err = c.Get(ctx, "k", &got)
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestSetExpiration(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestClient(t)

	require.NoError(t, c.Set(ctx, "session", 1, time.Minute))
	mr.FastForward(2 * time.Minute)

	ok, err := c.Exists(ctx, "session")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPublishSubscribe(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)

	sub := c.Subscribe(ctx, "events")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, c.Publish(ctx, "events", map[string]int{"seq": 1}))

	select {
	case msg := <-sub.Channel():
		assert.Equal(t, `{"seq":1}`, msg.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestNewClientFailsWithoutServer(t *testing.T) {
	_, err := NewClientFromOptions(&goredis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond})
	assert.Error(t, err)
}

func mustGet(t *testing.T, mr *miniredis.Miniredis, key string) string {
	t.Helper()
	v, err := mr.Get(key)
	require.NoError(t, err)
	return v
}
