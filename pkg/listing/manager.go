package listing

import (
	"strings"
	"sync"

	"moviehub/pkg/model"
)

// ListState is a snapshot of a browse session.
type ListState struct {
	SearchTerm      string         `json:"search_term"`
	Category        model.Category `json:"category"`
	CategoryTitle   string         `json:"category_title"`
	CurrentPage     int            `json:"current_page"`
	TotalPages      int            `json:"total_pages"`
	Items           []model.Movie  `json:"items"`
	HasMore         bool           `json:"has_more"`
	TrendingItems   []model.Movie  `json:"trending_items"`
	LoadingInitial  bool           `json:"loading_initial"`
	LoadingMore     bool           `json:"loading_more"`
	LoadingTrending bool           `json:"loading_trending"`
	ErrorMessage    string         `json:"error_message,omitempty"`
	TrendingError   string         `json:"trending_error,omitempty"`
	Generation      uint64         `json:"generation"`
}

// Searching reports whether the session is in search mode.
func (s ListState) Searching() bool {
	return strings.TrimSpace(s.SearchTerm) != ""
}

// Request identifies one list fetch. A result is applied only while its
// generation and page still match the manager.
type Request struct {
	Generation uint64
	Page       int
	SearchTerm string
	Category   model.Category
}

// Continuation reports whether the request appends to existing items.
func (r Request) Continuation() bool {
	return r.Page > 1
}

// Searching reports whether the request uses search rather than category semantics.
func (r Request) Searching() bool {
	return strings.TrimSpace(r.SearchTerm) != ""
}

// TrendingRequest identifies one trending fetch.
type TrendingRequest struct {
	Seq uint64
}

// Manager holds the list state of one browse session and reduces fetch
// lifecycle events into it. It performs no I/O.
type Manager struct {
	mu    sync.Mutex
	state ListState

	// lastPage is the highest page applied for the current generation.
	lastPage    int
	trendingSeq uint64
}

// NewManager starts in category mode on popular, page 1.
func NewManager() *Manager {
	m := &Manager{}
	m.state = ListState{
		Category:      model.CategoryPopular,
		CategoryTitle: model.CategoryPopular.Title(),
		CurrentPage:   1,
		HasMore:       true,
		Items:         []model.Movie{},
		TrendingItems: []model.Movie{},
	}
	return m
}

// State returns a copy of the current state.
func (m *Manager) State() ListState {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.state
	s.Items = append([]model.Movie{}, m.state.Items...)
	s.TrendingItems = append([]model.Movie{}, m.state.TrendingItems...)
	return s
}

// SetSearchTerm switches the query to term and returns the ticket for its first page.
func (m *Manager) SetSearchTerm(term string) Request {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.SearchTerm = term
	m.resetLocked()
	return m.currentLocked()
}

// SetCategory switches to category browsing, clearing any search term. Names
// outside the enumerated set fall back to popular.
func (m *Manager) SetCategory(category string) Request {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := model.ParseCategory(category)
	m.state.Category = c
	m.state.CategoryTitle = c.Title()
	m.state.SearchTerm = ""
	m.resetLocked()
	return m.currentLocked()
}

func (m *Manager) resetLocked() {
	m.state.Generation++
	m.state.Items = []model.Movie{}
	m.state.CurrentPage = 1
	m.state.TotalPages = 0
	m.state.HasMore = true
	m.state.LoadingInitial = false
	m.state.LoadingMore = false
	m.state.ErrorMessage = ""
	m.lastPage = 0
}

// Current returns the ticket for the current page of the current query.
func (m *Manager) Current() Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentLocked()
}

func (m *Manager) currentLocked() Request {
	return Request{
		Generation: m.state.Generation,
		Page:       m.state.CurrentPage,
		SearchTerm: m.state.SearchTerm,
		Category:   m.state.Category,
	}
}

// RequestNextPage advances to the next page. It is a no-op returning false when
// nothing more is available or a fetch is already in flight. While the current
// page has not been applied, after its fetch failed, the ticket re-requests
// that page instead so items stay the concatenation of pages 1..k. On success
// the returned fetch is already marked as loading.
func (m *Manager) RequestNextPage() (Request, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.state.HasMore || m.state.LoadingMore || m.state.LoadingInitial {
		return Request{}, false
	}
	if m.pendingLocked() {
		m.markLoadingLocked(m.currentLocked())
		return m.currentLocked(), true
	}
	m.state.CurrentPage++
	m.state.LoadingMore = true
	return m.currentLocked(), true
}

// pendingLocked reports whether the current page is still to be applied.
func (m *Manager) pendingLocked() bool {
	return m.lastPage < m.state.CurrentPage
}

func (m *Manager) markLoadingLocked(req Request) {
	if req.Continuation() {
		m.state.LoadingMore = true
	} else {
		m.state.LoadingInitial = true
	}
}

// OnFetchStart marks req as in flight. Stale tickets and pages already
// applied are ignored.
func (m *Manager) OnFetchStart(req Request) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.matchesLocked(req) || req.Page <= m.lastPage {
		return false
	}
	m.markLoadingLocked(req)
	return true
}

// OnFetchSuccess applies a fetched page. Page 1 replaces the items, later pages
// append. Posterless movies are dropped but totalPages still drives HasMore.
// It returns false for a stale or repeated page, leaving the items untouched.
func (m *Manager) OnFetchSuccess(req Request, items []model.Movie, totalPages int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.matchesLocked(req) {
		return false
	}
	if req.Page <= m.lastPage {
		// the page is already shown; release the flag this fetch holds
		m.clearLoadingLocked(req)
		return false
	}

	visible := withPosters(items)
	if req.Page == 1 {
		m.state.Items = visible
	} else {
		m.state.Items = append(m.state.Items, visible...)
	}

	m.lastPage = req.Page
	m.state.TotalPages = totalPages
	m.state.HasMore = req.Page < totalPages
	m.state.LoadingInitial = false
	m.state.LoadingMore = false
	m.state.ErrorMessage = ""
	return true
}

// OnFetchError records message and keeps the items already shown. A failed
// continuation steps the cursor back so the same page can be requested again.
func (m *Manager) OnFetchError(req Request, message string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.matchesLocked(req) {
		return false
	}

	m.state.ErrorMessage = message
	m.clearLoadingLocked(req)
	if req.Continuation() && m.lastPage > 0 {
		m.state.CurrentPage = m.lastPage
	}
	return true
}

func (m *Manager) clearLoadingLocked(req Request) {
	if req.Continuation() {
		m.state.LoadingMore = false
	} else {
		m.state.LoadingInitial = false
	}
}

func (m *Manager) matchesLocked(req Request) bool {
	return req.Generation == m.state.Generation && req.Page == m.state.CurrentPage
}

// OnTrendingStart marks a trending fetch as in flight and returns its ticket.
// Only the most recent ticket may resolve.
func (m *Manager) OnTrendingStart() TrendingRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.trendingSeq++
	m.state.LoadingTrending = true
	return TrendingRequest{Seq: m.trendingSeq}
}

// OnTrendingSuccess replaces the trending items.
func (m *Manager) OnTrendingSuccess(req TrendingRequest, items []model.Movie) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if req.Seq != m.trendingSeq {
		return false
	}
	m.state.TrendingItems = withPosters(items)
	m.state.LoadingTrending = false
	m.state.TrendingError = ""
	return true
}

// OnTrendingError records message and keeps the previous trending items.
func (m *Manager) OnTrendingError(req TrendingRequest, message string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if req.Seq != m.trendingSeq {
		return false
	}
	m.state.TrendingError = message
	m.state.LoadingTrending = false
	return true
}

func withPosters(items []model.Movie) []model.Movie {
	out := make([]model.Movie, 0, len(items))
	for _, item := range items {
		if item.HasPoster() {
			out = append(out, item)
		}
	}
	return out
}
