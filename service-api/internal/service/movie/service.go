package movie

import (
	"context"
	"errors"
	"fmt"
	"time"

	"moviehub/pkg/logger"
	"moviehub/pkg/model"
	"moviehub/pkg/redis"
	"moviehub/pkg/tmdb"

	"golang.org/x/sync/errgroup"
)

const (
	detailsCacheTTL    = 10 * time.Minute
	watchlistFetchSize = 4
)

var ErrMovieNotFound = errors.New("movie not found")

// Catalog is the movie catalog the service reads from
type Catalog interface {
	Discover(ctx context.Context, page int) (*model.MoviePage, error)
	Trending(ctx context.Context) (*model.MoviePage, error)
	Details(ctx context.Context, id int64) (*model.Movie, error)
	Similar(ctx context.Context, id int64) (*model.MoviePage, error)
}

// Cache stores decoded JSON values with an expiration
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// Service defines the movie service interface
type Service interface {
	Discover(ctx context.Context, page int) (*model.MoviePage, error)
	Trending(ctx context.Context) (*model.MoviePage, error)
	GetMovie(ctx context.Context, id int64) (*model.Movie, error)
	Similar(ctx context.Context, id int64) (*model.MoviePage, error)
	WatchlistMovies(ctx context.Context, ids []int64) ([]model.Movie, error)
}

// movieService provides movie-related services.
type movieService struct {
	catalog Catalog
	cache   Cache
}

// NewMovieService creates a new movie service instance. cache may be nil.
func NewMovieService(catalog Catalog, cache Cache) Service {
	return &movieService{
		catalog: catalog,
		cache:   cache,
	}
}

func (s *movieService) Discover(ctx context.Context, page int) (*model.MoviePage, error) {
	return s.catalog.Discover(ctx, page)
}

func (s *movieService) Trending(ctx context.Context) (*model.MoviePage, error) {
	return s.catalog.Trending(ctx)
}

// GetMovie returns the movie details, served from cache when possible
func (s *movieService) GetMovie(ctx context.Context, id int64) (*model.Movie, error) {
	key := detailsKey(id)
	if s.cache != nil {
		var cached model.Movie
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, redis.ErrKeyNotFound) {
			logger.Warnf("movie cache read failed for %d: %v", id, err)
		}
	}

	movie, err := s.catalog.Details(ctx, id)
	if errors.Is(err, tmdb.ErrNotFound) {
		return nil, ErrMovieNotFound
	}
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, movie, detailsCacheTTL); err != nil {
			logger.Warnf("movie cache write failed for %d: %v", id, err)
		}
	}
	return movie, nil
}

func (s *movieService) Similar(ctx context.Context, id int64) (*model.MoviePage, error) {
	page, err := s.catalog.Similar(ctx, id)
	if errors.Is(err, tmdb.ErrNotFound) {
		return nil, ErrMovieNotFound
	}
	return page, err
}

// WatchlistMovies fetches details for every id, keeping the input order.
// Movies the catalog no longer knows are skipped.
func (s *movieService) WatchlistMovies(ctx context.Context, ids []int64) ([]model.Movie, error) {
	found := make([]*model.Movie, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(watchlistFetchSize)
	for i, id := range ids {
		g.Go(func() error {
			movie, err := s.GetMovie(gctx, id)
			if errors.Is(err, ErrMovieNotFound) {
				logger.Debugf("watchlist movie %d not found, skipping", id)
				return nil
			}
			if err != nil {
				return fmt.Errorf("fetch movie %d: %w", id, err)
			}
			found[i] = movie
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	movies := make([]model.Movie, 0, len(ids))
	for _, m := range found {
		if m != nil {
			movies = append(movies, *m)
		}
	}
	return movies, nil
}

func detailsKey(id int64) string {
	return fmt.Sprintf("moviehub:movie:%d", id)
}
