package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"moviehub/pkg/logger"
	"moviehub/pkg/model"
	"moviehub/pkg/storage"

	"github.com/google/uuid"
)

var (
	ErrNotSignedIn   = errors.New("no user is signed in")
	ErrSignInFailed  = errors.New("sign in failed")
	ErrLibraryFormat = errors.New("library file is malformed")
	ErrClosed        = errors.New("synchronizer is closed")
)

// Identity is the profile returned by an identity provider.
type Identity struct {
	UUID     uuid.UUID
	Username string
	Email    string
}

// IdentityProvider runs the provider side of sign-in and sign-out.
type IdentityProvider interface {
	SignIn(ctx context.Context) (*Identity, error)
	SignOut(ctx context.Context) error
}

// FileStore is the cloud file API scoped by path.
type FileStore interface {
	Read(ctx context.Context, path string) ([]byte, error)
	Write(ctx context.Context, path string, data []byte) error
}

// Notifier receives library write lifecycle events.
type Notifier interface {
	Notify(ctx context.Context, event model.LibraryEvent)
}

// LibraryPath is the fixed location of a user's favorites/watchlist file.
func LibraryPath(userID uuid.UUID) string {
	return fmt.Sprintf("users/%s/moviehub/library.json", userID.String())
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithNotifier publishes write events to n.
func WithNotifier(n Notifier) Option {
	return func(s *Synchronizer) { s.notifier = n }
}

// WithWriteTimeout bounds each cloud write.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Synchronizer) { s.writeTimeout = d }
}

// Synchronizer owns the signed-in user and serializes every cloud write of
// their favorites and watchlist through a single write queue.
type Synchronizer struct {
	mu     sync.Mutex
	user   *model.User
	status model.SyncStatus

	files        FileStore
	notifier     Notifier
	writeTimeout time.Duration
	now          func() time.Time

	queue *writeQueue
}

// NewSynchronizer creates a signed-out synchronizer and starts its write queue.
func NewSynchronizer(files FileStore, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		files:        files,
		writeTimeout: 30 * time.Second,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.queue = newWriteQueue(s.runWrite)
	return s
}

// SignIn runs the provider flow and loads the user's library. A missing
// library file yields empty lists. On any failure the synchronizer stays
// signed out.
func (s *Synchronizer) SignIn(ctx context.Context, provider IdentityProvider) (*model.User, error) {
	identity, err := provider.SignIn(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSignInFailed, err)
	}
	if identity == nil || identity.UUID == uuid.Nil {
		return nil, fmt.Errorf("%w: provider returned no identity", ErrSignInFailed)
	}

	lib, err := s.loadLibrary(ctx, identity.UUID)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		UUID:      identity.UUID,
		Username:  identity.Username,
		Email:     identity.Email,
		Favorites: lib.Favorites,
		Watchlist: lib.Watchlist,
	}

	s.mu.Lock()
	s.user = user
	s.status = model.SyncStatus{}
	out := cloneUser(user)
	s.mu.Unlock()

	logger.InfoFields("user signed in", logger.Fields{
		"user_id":   identity.UUID.String(),
		"favorites": len(lib.Favorites),
		"watchlist": len(lib.Watchlist),
	})
	return out, nil
}

func (s *Synchronizer) loadLibrary(ctx context.Context, userID uuid.UUID) (model.Library, error) {
	lib := model.Library{Favorites: []int64{}, Watchlist: []int64{}}

	data, err := s.files.Read(ctx, LibraryPath(userID))
	if errors.Is(err, storage.ErrNotFound) {
		return lib, nil
	}
	if err != nil {
		return lib, fmt.Errorf("%w: read library: %v", ErrSignInFailed, err)
	}

	if err := json.Unmarshal(data, &lib); err != nil {
		return lib, fmt.Errorf("%w: %v", ErrLibraryFormat, err)
	}
	lib.Favorites = dedupe(lib.Favorites)
	lib.Watchlist = dedupe(lib.Watchlist)
	return lib, nil
}

// SignOut lets queued writes finish (bounded by ctx), asks the provider to
// sign out and clears the user whatever the provider answers.
func (s *Synchronizer) SignOut(ctx context.Context, provider IdentityProvider) {
	if err := s.queue.wait(ctx); err != nil {
		logger.Warnf("sign out before library writes drained: %v", err)
	}

	if provider != nil {
		if err := provider.SignOut(ctx); err != nil {
			logger.Error(err, "identity provider sign out failed")
		}
	}

	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
}

// User returns a copy of the signed-in user, or nil.
func (s *Synchronizer) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	return cloneUser(s.user)
}

// SignedIn reports whether a user is present.
func (s *Synchronizer) SignedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

// IsFavorite reports favorites membership of movieID.
func (s *Synchronizer) IsFavorite(movieID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && contains(s.user.Favorites, movieID)
}

// IsInWatchlist reports watchlist membership of movieID.
func (s *Synchronizer) IsInWatchlist(movieID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && contains(s.user.Watchlist, movieID)
}

// ToggleFavorite flips movieID in favorites and queues a cloud write. It
// returns the new membership.
func (s *Synchronizer) ToggleFavorite(movieID int64) (bool, error) {
	return s.toggle(model.ListFavorites, movieID)
}

// ToggleWatchlist flips movieID in the watchlist and queues a cloud write. It
// returns the new membership.
func (s *Synchronizer) ToggleWatchlist(movieID int64) (bool, error) {
	return s.toggle(model.ListWatchlist, movieID)
}

func (s *Synchronizer) toggle(list model.LibraryList, movieID int64) (bool, error) {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return false, ErrNotSignedIn
	}

	current := s.user.Watchlist
	if list == model.ListFavorites {
		current = s.user.Favorites
	}
	updated, member := flip(current, movieID)
	userID := s.user.UUID

	// enqueue under the lock so queue order matches mutation order; a closed
	// queue leaves the lists untouched
	seq, pending, err := s.queue.enqueue(writeJob{userID: userID, list: list, movieID: movieID, member: member})
	if err != nil {
		s.mu.Unlock()
		return false, err
	}
	if list == model.ListFavorites {
		s.user.Favorites = updated
	} else {
		s.user.Watchlist = updated
	}
	s.status.Pending = pending
	s.mu.Unlock()

	s.notify(model.LibraryEvent{
		Type:    model.LibraryEventQueued,
		UserID:  userID,
		Seq:     seq,
		List:    list,
		MovieID: movieID,
		Member:  member,
		Pending: pending,
	})
	return member, nil
}

// Status returns the sync indicator.
func (s *Synchronizer) Status() model.SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.status
	st.Pending = s.queue.pending()
	return st
}

// Wait blocks until every queued write has completed or ctx is done.
func (s *Synchronizer) Wait(ctx context.Context) error {
	return s.queue.wait(ctx)
}

// Close stops the write queue after draining it.
func (s *Synchronizer) Close() {
	s.queue.close()
}

// runWrite persists the latest snapshot. It runs on the queue goroutine only.
func (s *Synchronizer) runWrite(job writeJob) {
	s.mu.Lock()
	if s.user == nil || s.user.UUID != job.userID {
		s.mu.Unlock()
		logger.Debugf("dropping library write %d: user signed out", job.seq)
		return
	}
	lib := model.Library{Favorites: s.user.Favorites, Watchlist: s.user.Watchlist}.Clone()
	s.mu.Unlock()

	data, err := json.Marshal(lib)
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
		err = s.files.Write(ctx, LibraryPath(job.userID), data)
		cancel()
	}

	now := s.now()
	pending := s.queue.pending() - 1
	event := model.LibraryEvent{
		UserID:  job.userID,
		Seq:     job.seq,
		List:    job.list,
		MovieID: job.movieID,
		Member:  job.member,
		Pending: pending,
	}

	s.mu.Lock()
	s.status.Pending = pending
	if err != nil {
		s.status.LastError = err.Error()
		s.status.LastErrorAt = &now
		event.Type = model.LibraryEventFailed
		event.Error = err.Error()
	} else {
		s.status.LastError = ""
		s.status.LastErrorAt = nil
		s.status.LastSyncAt = &now
		event.Type = model.LibraryEventSynced
	}
	s.mu.Unlock()

	if err != nil {
		logger.ErrorFields(err, "library write failed", logger.Fields{"user_id": job.userID.String(), "seq": job.seq})
	}
	s.notify(event)
}

func (s *Synchronizer) notify(event model.LibraryEvent) {
	if s.notifier == nil {
		return
	}
	event.Timestamp = s.now()
	s.notifier.Notify(context.Background(), event)
}

func flip(ids []int64, id int64) ([]int64, bool) {
	for i, v := range ids {
		if v == id {
			out := make([]int64, 0, len(ids)-1)
			out = append(out, ids[:i]...)
			return append(out, ids[i+1:]...), false
		}
	}
	return append(append(make([]int64, 0, len(ids)+1), ids...), id), true
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func dedupe(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func cloneUser(u *model.User) *model.User {
	c := *u
	c.Favorites = append([]int64{}, u.Favorites...)
	c.Watchlist = append([]int64{}, u.Watchlist...)
	return &c
}
