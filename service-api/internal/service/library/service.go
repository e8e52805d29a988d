package library

import (
	"context"
	"fmt"
	"sync"
	"time"

	"moviehub/pkg/auth"
	"moviehub/pkg/library"
	"moviehub/pkg/logger"
	"moviehub/pkg/model"
	"moviehub/pkg/storage"

	"github.com/google/uuid"
)

// Publisher publishes JSON messages on a channel, as the redis client does
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) error
}

// SessionStore looks up and revokes the sign-in session a token was issued
// for, as the auth repository does
type SessionStore interface {
	GetSession(ctx context.Context, sessionID uuid.UUID) (*model.Token, error)
	DeleteSession(ctx context.Context, sessionID uuid.UUID) error
}

// Service owns one synchronizer per signed-in user
type Service interface {
	SignIn(ctx context.Context, account *model.Account) (*model.User, error)
	SignOut(ctx context.Context, claims *auth.JWTClaims)
	User(ctx context.Context, claims *auth.JWTClaims) (*model.User, error)
	ToggleFavorite(ctx context.Context, claims *auth.JWTClaims, movieID int64) (bool, error)
	ToggleWatchlist(ctx context.Context, claims *auth.JWTClaims, movieID int64) (bool, error)
	Membership(ctx context.Context, claims *auth.JWTClaims, movieID int64) (favorite, watchlist bool)
	Status(ctx context.Context, claims *auth.JWTClaims) (model.SyncStatus, error)
	Close()
}

type libraryService struct {
	mu        sync.Mutex
	syncers   map[uuid.UUID]*library.Synchronizer
	restoreMu sync.Mutex

	files    storage.Provider
	sessions SessionStore
	notifier library.Notifier
}

// NewLibraryService creates the per-user synchronizer registry. publisher may be nil.
func NewLibraryService(files storage.Provider, sessions SessionStore, publisher Publisher) Service {
	s := &libraryService{
		syncers:  make(map[uuid.UUID]*library.Synchronizer),
		files:    files,
		sessions: sessions,
	}
	if publisher != nil {
		s.notifier = &eventPublisher{publisher: publisher}
	}
	return s
}

// SignIn loads the library of an account that has just been authenticated
func (s *libraryService) SignIn(ctx context.Context, account *model.Account) (*model.User, error) {
	return s.signIn(ctx, account.ID, staticIdentity{identity: &library.Identity{
		UUID:     account.ID,
		Username: account.Username,
		Email:    account.Email,
	}})
}

func (s *libraryService) signIn(ctx context.Context, userID uuid.UUID, provider library.IdentityProvider) (*model.User, error) {
	syncer := s.newSynchronizer()
	user, err := syncer.SignIn(ctx, provider)
	if err != nil {
		syncer.Close()
		return nil, err
	}

	s.mu.Lock()
	previous := s.syncers[userID]
	s.syncers[userID] = syncer
	s.mu.Unlock()

	if previous != nil {
		go previous.Close()
	}
	return user, nil
}

// SignOut revokes the token's session, drains the user's synchronizer and
// discards it
func (s *libraryService) SignOut(ctx context.Context, claims *auth.JWTClaims) {
	provider := s.identity(claims)

	s.mu.Lock()
	syncer := s.syncers[claims.UserID]
	delete(s.syncers, claims.UserID)
	s.mu.Unlock()

	if syncer == nil {
		// nothing loaded on this instance, still revoke provider side
		if err := provider.SignOut(ctx); err != nil {
			logger.Error(err, "identity provider sign out failed")
		}
		return
	}

	syncer.SignOut(ctx, provider)
	syncer.Close()
}

// session returns the user's synchronizer for a token whose sign-in session
// is still live, restoring it when this instance has none (for example after
// a restart). Revoked or unknown sessions get library.ErrNotSignedIn.
func (s *libraryService) session(ctx context.Context, claims *auth.JWTClaims) (*library.Synchronizer, error) {
	identity := s.identity(claims)
	if syncer := s.lookup(claims.UserID); syncer != nil {
		if err := identity.verify(ctx); err != nil {
			return nil, err
		}
		return syncer, nil
	}

	s.restoreMu.Lock()
	defer s.restoreMu.Unlock()

	// another request may have restored it while we waited
	if syncer := s.lookup(claims.UserID); syncer != nil {
		if err := identity.verify(ctx); err != nil {
			return nil, err
		}
		return syncer, nil
	}

	user, err := s.signIn(ctx, claims.UserID, identity)
	if err != nil {
		return nil, fmt.Errorf("restore library session: %w", err)
	}
	logger.Debugf("restored library session for %s", user.UUID)

	syncer := s.lookup(claims.UserID)
	if syncer == nil {
		return nil, library.ErrNotSignedIn
	}
	return syncer, nil
}

func (s *libraryService) lookup(userID uuid.UUID) *library.Synchronizer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncers[userID]
}

func (s *libraryService) identity(claims *auth.JWTClaims) *tokenIdentity {
	return &tokenIdentity{claims: claims, sessions: s.sessions}
}

func (s *libraryService) User(ctx context.Context, claims *auth.JWTClaims) (*model.User, error) {
	syncer, err := s.session(ctx, claims)
	if err != nil {
		return nil, err
	}
	user := syncer.User()
	if user == nil {
		return nil, library.ErrNotSignedIn
	}
	return user, nil
}

func (s *libraryService) ToggleFavorite(ctx context.Context, claims *auth.JWTClaims, movieID int64) (bool, error) {
	syncer, err := s.session(ctx, claims)
	if err != nil {
		return false, err
	}
	return syncer.ToggleFavorite(movieID)
}

func (s *libraryService) ToggleWatchlist(ctx context.Context, claims *auth.JWTClaims, movieID int64) (bool, error) {
	syncer, err := s.session(ctx, claims)
	if err != nil {
		return false, err
	}
	return syncer.ToggleWatchlist(movieID)
}

// Membership reports list membership; lookup failures read as not a member
func (s *libraryService) Membership(ctx context.Context, claims *auth.JWTClaims, movieID int64) (bool, bool) {
	syncer, err := s.session(ctx, claims)
	if err != nil {
		logger.Warnf("membership lookup failed: %v", err)
		return false, false
	}
	return syncer.IsFavorite(movieID), syncer.IsInWatchlist(movieID)
}

func (s *libraryService) Status(ctx context.Context, claims *auth.JWTClaims) (model.SyncStatus, error) {
	syncer, err := s.session(ctx, claims)
	if err != nil {
		return model.SyncStatus{}, err
	}
	return syncer.Status(), nil
}

// Close drains every synchronizer
func (s *libraryService) Close() {
	s.mu.Lock()
	syncers := s.syncers
	s.syncers = make(map[uuid.UUID]*library.Synchronizer)
	s.mu.Unlock()

	for _, syncer := range syncers {
		syncer.Close()
	}
}

func (s *libraryService) newSynchronizer() *library.Synchronizer {
	opts := []library.Option{library.WithWriteTimeout(30 * time.Second)}
	if s.notifier != nil {
		opts = append(opts, library.WithNotifier(s.notifier))
	}
	return library.NewSynchronizer(s.files, opts...)
}

// staticIdentity is the identity provider for an account whose password was
// just checked
type staticIdentity struct {
	identity *library.Identity
}

func (p staticIdentity) SignIn(ctx context.Context) (*library.Identity, error) {
	return p.identity, nil
}

func (p staticIdentity) SignOut(ctx context.Context) error {
	return nil
}

// tokenIdentity is the identity provider behind a bearer token: it signs in
// only while the token's session is live, and signing out revokes the session
type tokenIdentity struct {
	claims   *auth.JWTClaims
	sessions SessionStore
}

func (p *tokenIdentity) verify(ctx context.Context) error {
	token, err := p.sessions.GetSession(ctx, p.claims.SessionID)
	if err != nil {
		return fmt.Errorf("look up session: %w", err)
	}
	if token == nil || token.UserID != p.claims.UserID {
		return library.ErrNotSignedIn
	}
	return nil
}

func (p *tokenIdentity) SignIn(ctx context.Context) (*library.Identity, error) {
	if err := p.verify(ctx); err != nil {
		return nil, err
	}
	return &library.Identity{
		UUID:     p.claims.UserID,
		Username: p.claims.Username,
		Email:    p.claims.Email,
	}, nil
}

func (p *tokenIdentity) SignOut(ctx context.Context) error {
	return p.sessions.DeleteSession(ctx, p.claims.SessionID)
}

// eventPublisher fans library events out on the user's pub/sub channel
type eventPublisher struct {
	publisher Publisher
}

func (p *eventPublisher) Notify(ctx context.Context, event model.LibraryEvent) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := p.publisher.Publish(ctx, model.LibraryEventsChannel(event.UserID), event); err != nil {
		logger.Error(err, "failed to publish library event")
	}
}
