package movie

import (
	"context"
	"errors"
	"sync"
	"testing"

	"moviehub/pkg/model"
	"moviehub/pkg/redis"
	"moviehub/pkg/tmdb"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCatalog struct {
	mu      sync.Mutex
	details map[int64]int
	fail    map[int64]error
}

func (c *countingCatalog) Discover(ctx context.Context, page int) (*model.MoviePage, error) {
	return &model.MoviePage{Page: page, TotalPages: 1, Results: []model.Movie{}}, nil
}

func (c *countingCatalog) Trending(ctx context.Context) (*model.MoviePage, error) {
	return &model.MoviePage{Page: 1, TotalPages: 1, Results: []model.Movie{}}, nil
}

func (c *countingCatalog) Details(ctx context.Context, id int64) (*model.Movie, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.details[id]++
	if err, ok := c.fail[id]; ok {
		return nil, err
	}
	return &model.Movie{ID: id, Title: "movie", PosterPath: "/p.jpg"}, nil
}

func (c *countingCatalog) Similar(ctx context.Context, id int64) (*model.MoviePage, error) {
	if err, ok := c.fail[id]; ok {
		return nil, err
	}
	return &model.MoviePage{Page: 1, TotalPages: 1, Results: []model.Movie{}}, nil
}

func (c *countingCatalog) calls(id int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.details[id]
}

func newCache(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := redis.NewClientFromOptions(&goredis.Options{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestWatchlistMoviesKeepsOrderAndSkipsMissing(t *testing.T) {
	catalog := &countingCatalog{
		details: map[int64]int{},
		fail:    map[int64]error{2: tmdb.ErrNotFound},
	}
	svc := NewMovieService(catalog, nil)

	movies, err := svc.WatchlistMovies(context.Background(), []int64{5, 2, 9, 1, 7, 3})
	require.NoError(t, err)

	ids := make([]int64, 0, len(movies))
	for _, m := range movies {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []int64{5, 9, 1, 7, 3}, ids)
}

func TestWatchlistMoviesFailsOnCatalogError(t *testing.T) {
	catalog := &countingCatalog{
		details: map[int64]int{},
		fail:    map[int64]error{9: &tmdb.APIError{StatusCode: 500, Endpoint: "/movie/9"}},
	}
	svc := NewMovieService(catalog, nil)

	_, err := svc.WatchlistMovies(context.Background(), []int64{1, 9})
	var apiErr *tmdb.APIError
	assert.True(t, errors.As(err, &apiErr))
}

func TestWatchlistMoviesEmpty(t *testing.T) {
	svc := NewMovieService(&countingCatalog{details: map[int64]int{}}, nil)

	movies, err := svc.WatchlistMovies(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, movies)
}

func TestGetMovieUsesCache(t *testing.T) {
	catalog := &countingCatalog{details: map[int64]int{}}
	svc := NewMovieService(catalog, newCache(t))

	first, err := svc.GetMovie(context.Background(), 550)
	require.NoError(t, err)
	second, err := svc.GetMovie(context.Background(), 550)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, catalog.calls(550))
}

func TestNotFoundMapping(t *testing.T) {
	catalog := &countingCatalog{
		details: map[int64]int{},
		fail:    map[int64]error{404: tmdb.ErrNotFound},
	}
	svc := NewMovieService(catalog, nil)

	_, err := svc.GetMovie(context.Background(), 404)
	assert.ErrorIs(t, err, ErrMovieNotFound)

	_, err = svc.Similar(context.Background(), 404)
	assert.ErrorIs(t, err, ErrMovieNotFound)
}
