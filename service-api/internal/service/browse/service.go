package browse

import (
	"context"
	"errors"
	"sync"
	"time"

	"moviehub/pkg/listing"
	"moviehub/pkg/logger"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("browse session not found")

// Service keeps one listing session per browser tab
type Service interface {
	Create(ctx context.Context) (uuid.UUID, listing.ListState, error)
	State(id uuid.UUID) (listing.ListState, error)
	Search(ctx context.Context, id uuid.UUID, term string) (listing.ListState, error)
	SearchDebounced(id uuid.UUID, term string) (listing.ListState, error)
	SetCategory(ctx context.Context, id uuid.UUID, category string) (listing.ListState, error)
	NextPage(ctx context.Context, id uuid.UUID) (listing.ListState, bool, error)
	Sentinel(ctx context.Context, id uuid.UUID, target string, visible bool) (listing.ListState, bool, error)
	Trending(ctx context.Context, id uuid.UUID) (listing.ListState, error)
	Close()
}

type session struct {
	browser  *listing.Browser
	lastSeen time.Time
}

type browseService struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session

	catalog  listing.Catalog
	debounce time.Duration
	ttl      time.Duration
	now      func() time.Time

	stop chan struct{}
	// done is closed when the sweeper exits; nil when no sweeper runs
	done chan struct{}
}

// NewBrowseService creates the session registry and starts evicting sessions
// idle for longer than ttl.
func NewBrowseService(catalog listing.Catalog, debounce, ttl time.Duration) Service {
	s := newBrowseService(catalog, debounce, ttl)
	s.done = make(chan struct{})
	go s.sweep()
	return s
}

func newBrowseService(catalog listing.Catalog, debounce, ttl time.Duration) *browseService {
	return &browseService{
		sessions: make(map[uuid.UUID]*session),
		catalog:  catalog,
		debounce: debounce,
		ttl:      ttl,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
}

// Create opens a session on the popular category and loads its first page
// and the trending row. Fetch failures are reported through the state.
func (s *browseService) Create(ctx context.Context) (uuid.UUID, listing.ListState, error) {
	browser := listing.NewBrowser(s.catalog, s.debounce)
	id := uuid.New()

	s.mu.Lock()
	s.sessions[id] = &session{browser: browser, lastSeen: s.now()}
	s.mu.Unlock()

	if err := browser.Load(ctx); err != nil {
		logger.Warnf("initial load for browse session %s failed: %v", id, err)
	}
	if err := browser.LoadTrending(ctx); err != nil {
		logger.Warnf("trending load for browse session %s failed: %v", id, err)
	}
	return id, browser.State(), nil
}

func (s *browseService) State(id uuid.UUID) (listing.ListState, error) {
	browser, err := s.get(id)
	if err != nil {
		return listing.ListState{}, err
	}
	return browser.State(), nil
}

func (s *browseService) Search(ctx context.Context, id uuid.UUID, term string) (listing.ListState, error) {
	browser, err := s.get(id)
	if err != nil {
		return listing.ListState{}, err
	}
	logIgnored(browser.Search(ctx, term))
	return browser.State(), nil
}

func (s *browseService) SearchDebounced(id uuid.UUID, term string) (listing.ListState, error) {
	browser, err := s.get(id)
	if err != nil {
		return listing.ListState{}, err
	}
	browser.SearchDebounced(term)
	return browser.State(), nil
}

func (s *browseService) SetCategory(ctx context.Context, id uuid.UUID, category string) (listing.ListState, error) {
	browser, err := s.get(id)
	if err != nil {
		return listing.ListState{}, err
	}
	logIgnored(browser.SetCategory(ctx, category))
	return browser.State(), nil
}

func (s *browseService) NextPage(ctx context.Context, id uuid.UUID) (listing.ListState, bool, error) {
	browser, err := s.get(id)
	if err != nil {
		return listing.ListState{}, false, err
	}
	started, err := browser.NextPage(ctx)
	logIgnored(err)
	return browser.State(), started, nil
}

func (s *browseService) Sentinel(ctx context.Context, id uuid.UUID, target string, visible bool) (listing.ListState, bool, error) {
	browser, err := s.get(id)
	if err != nil {
		return listing.ListState{}, false, err
	}
	fired, err := browser.Sentinel(ctx, target, visible)
	logIgnored(err)
	return browser.State(), fired, nil
}

func (s *browseService) Trending(ctx context.Context, id uuid.UUID) (listing.ListState, error) {
	browser, err := s.get(id)
	if err != nil {
		return listing.ListState{}, err
	}
	logIgnored(browser.LoadTrending(ctx))
	return browser.State(), nil
}

// Close stops the sweeper and every session
func (s *browseService) Close() {
	select {
	case <-s.stop:
		return
	default:
		close(s.stop)
	}
	if s.done != nil {
		<-s.done
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		sess.browser.Close()
		delete(s.sessions, id)
	}
}

func (s *browseService) get(id uuid.UUID) (*listing.Browser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.lastSeen = s.now()
	return sess.browser, nil
}

func (s *browseService) sweep() {
	defer close(s.done)

	interval := s.ttl / 2
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if n := s.evictIdle(); n > 0 {
				logger.Debugf("evicted %d idle browse sessions", n)
			}
		}
	}
}

// evictIdle closes sessions unused for longer than the ttl
func (s *browseService) evictIdle() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			sess.browser.Close()
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

// fetch failures already live in the list state; stale results are expected
func logIgnored(err error) {
	if err != nil && !errors.Is(err, listing.ErrStale) {
		logger.Debugf("browse fetch: %v", err)
	}
}
