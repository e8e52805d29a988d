package listing

import (
	"context"
	"errors"
	"time"

	"moviehub/pkg/logger"
	"moviehub/pkg/model"
)

const (
	fetchMoviesError   = "Failed to fetch movies. Please try again later."
	fetchTrendingError = "Failed to fetch trending movies."
)

// ErrStale is returned when a fetch resolved after its query was replaced.
var ErrStale = errors.New("stale response discarded")

// Catalog is the subset of the movie catalog a browse session reads.
type Catalog interface {
	ListCategory(ctx context.Context, category model.Category, page int) (*model.MoviePage, error)
	Search(ctx context.Context, query string, page int) (*model.MoviePage, error)
	Trending(ctx context.Context) (*model.MoviePage, error)
}

// Browser is the fetch step around a Manager: it turns query changes and
// continuation signals into catalog calls and dispatches their results.
type Browser struct {
	catalog      Catalog
	manager      *Manager
	trigger      *Trigger
	debouncer    *Debouncer
	fetchTimeout time.Duration
}

// NewBrowser creates a session starting on the popular category.
func NewBrowser(catalog Catalog, searchDebounce time.Duration) *Browser {
	return &Browser{
		catalog:      catalog,
		manager:      NewManager(),
		trigger:      NewTrigger(),
		debouncer:    NewDebouncer(searchDebounce),
		fetchTimeout: 15 * time.Second,
	}
}

// State returns the current list state.
func (b *Browser) State() ListState {
	return b.manager.State()
}

// Load fetches the current page of the current query for the first render.
// Once that page is shown it returns ErrStale; a page whose fetch failed is
// retried through NextPage.
func (b *Browser) Load(ctx context.Context) error {
	return b.fetch(ctx, b.manager.Current())
}

// Search switches to term and fetches its first page.
func (b *Browser) Search(ctx context.Context, term string) error {
	b.debouncer.Cancel()
	return b.fetch(ctx, b.manager.SetSearchTerm(term))
}

// SearchDebounced applies term after the debounce delay, so only the last of
// a burst of keystrokes reaches the catalog.
func (b *Browser) SearchDebounced(term string) {
	b.debouncer.Schedule(func() {
		ctx, cancel := context.WithTimeout(context.Background(), b.fetchTimeout)
		defer cancel()
		if err := b.fetch(ctx, b.manager.SetSearchTerm(term)); err != nil && !errors.Is(err, ErrStale) {
			logger.Warnf("debounced search for %q failed: %v", term, err)
		}
	})
}

// SetCategory switches to category browsing and fetches the first page.
func (b *Browser) SetCategory(ctx context.Context, category string) error {
	b.debouncer.Cancel()
	return b.fetch(ctx, b.manager.SetCategory(category))
}

// NextPage requests and fetches the next page. It reports false when the
// manager refused the continuation.
func (b *Browser) NextPage(ctx context.Context) (bool, error) {
	req, ok := b.manager.RequestNextPage()
	if !ok {
		return false, nil
	}
	return true, b.fetch(ctx, req)
}

// Observe attaches the continuation trigger to a new sentinel.
func (b *Browser) Observe(target string) {
	b.trigger.Observe(target)
}

// Sentinel reports the visibility of the sentinel target and loads the next
// page when the trigger fires.
func (b *Browser) Sentinel(ctx context.Context, target string, visible bool) (bool, error) {
	if b.trigger.Target() != target {
		b.trigger.Observe(target)
	}
	fired := b.trigger.Update(target, visible, func() bool {
		return b.manager.State().CanContinue()
	})
	if !fired {
		return false, nil
	}
	return b.NextPage(ctx)
}

// LoadTrending refreshes the trending row.
func (b *Browser) LoadTrending(ctx context.Context) error {
	req := b.manager.OnTrendingStart()

	page, err := b.catalog.Trending(ctx)
	if err != nil {
		logger.Error(err, "failed to fetch trending movies")
		b.manager.OnTrendingError(req, fetchTrendingError)
		return err
	}
	if !b.manager.OnTrendingSuccess(req, page.Results) {
		return ErrStale
	}
	return nil
}

// Close cancels any pending debounced search.
func (b *Browser) Close() {
	b.debouncer.Stop()
}

func (b *Browser) fetch(ctx context.Context, req Request) error {
	if !b.manager.OnFetchStart(req) {
		return ErrStale
	}

	var (
		page *model.MoviePage
		err  error
	)
	if req.Searching() {
		page, err = b.catalog.Search(ctx, req.SearchTerm, req.Page)
	} else {
		page, err = b.catalog.ListCategory(ctx, req.Category, req.Page)
	}

	if err != nil {
		logger.ErrorFields(err, "failed to fetch movies", logger.Fields{
			"search_term": req.SearchTerm,
			"category":    string(req.Category),
			"page":        req.Page,
		})
		if !b.manager.OnFetchError(req, fetchMoviesError) {
			return ErrStale
		}
		return err
	}

	if !b.manager.OnFetchSuccess(req, page.Results, page.TotalPages) {
		return ErrStale
	}
	return nil
}
