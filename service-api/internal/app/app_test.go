package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"moviehub/pkg/assistant"
	"moviehub/pkg/config"
	"moviehub/pkg/library"
	"moviehub/pkg/model"
	"moviehub/pkg/redis"
	"moviehub/pkg/storage"
	"moviehub/pkg/tmdb"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUserRepo struct {
	mu       sync.Mutex
	accounts map[string]*model.Account
}

func (r *memUserRepo) Create(ctx context.Context, account *model.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.Email]; ok {
		return fmt.Errorf("duplicate %s", account.Email)
	}
	cp := *account
	r.accounts[account.Email] = &cp
	return nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[email]
	if !ok {
		return nil, nil
	}
	cp := *account
	return &cp, nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.accounts {
		if account.ID == id {
			cp := *account
			return &cp, nil
		}
	}
	return nil, nil
}

type memAuthRepo struct {
	mu     sync.Mutex
	tokens map[uuid.UUID]model.Token
}

func (r *memAuthRepo) StoreRefreshToken(ctx context.Context, sessionID, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[sessionID] = model.Token{ID: sessionID, Value: tokenHash, UserID: userID, ExpiresAt: expiresAt}
	return nil
}

func (r *memAuthRepo) GetSession(ctx context.Context, sessionID uuid.UUID) (*model.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[sessionID]
	if !ok || time.Now().After(token.ExpiresAt) {
		return nil, nil
	}
	return &token, nil
}

func (r *memAuthRepo) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, sessionID)
	return nil
}

func (r *memAuthRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}

// cannedAssistant answers every prompt by echoing it back
type cannedAssistant struct{}

func (cannedAssistant) Complete(ctx context.Context, messages []assistant.Message) (string, error) {
	return "You asked: " + messages[len(messages)-1].Content, nil
}

func catalogHandler(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/movie/popular", "/discover/movie":
		w.Write([]byte(`{"page":1,"total_pages":3,"results":[
			{"id":550,"title":"Fight Club","poster_path":"/fc.jpg"},
			{"id":551,"title":"No Poster","poster_path":""}]}`))
	case "/trending/movie/day":
		w.Write([]byte(`{"page":1,"total_pages":1,"results":[{"id":603,"title":"The Matrix","poster_path":"/m.jpg"}]}`))
	case "/movie/550":
		w.Write([]byte(`{"id":550,"title":"Fight Club","poster_path":"/fc.jpg","runtime":139,
			"videos":{"results":[{"key":"abc","site":"YouTube","type":"Trailer","name":"Trailer"}]}}`))
	case "/movie/550/similar":
		w.Write([]byte(`{"page":1,"total_pages":1,"results":[{"id":807,"title":"Se7en","poster_path":"/s.jpg"}]}`))
	default:
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status_message":"The resource you requested could not be found."}`))
	}
}

type testServer struct {
	handler  *gin.Engine
	app      *AppServer
	files    storage.Provider
	authRepo *memAuthRepo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	mr := miniredis.RunT(t)
	redisClient, err := redis.NewClientFromOptions(&goredis.Options{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { redisClient.Close() })

	files, err := storage.NewLocalProvider(t.TempDir())
	require.NoError(t, err)

	catalog := httptest.NewServer(http.HandlerFunc(catalogHandler))
	t.Cleanup(catalog.Close)

	cfg := &config.Config{
		Port:      "0",
		JWTSecret: "test-secret",
		Browse:    config.BrowseConfig{SearchDebounce: 0, SessionTTL: time.Minute},
		Comments:  config.CommentsConfig{MaxLength: 500},
	}
	authRepo := &memAuthRepo{tokens: map[uuid.UUID]model.Token{}}
	app := NewAppServerWithDependencies(cfg, Dependencies{
		UserRepo:  &memUserRepo{accounts: map[string]*model.Account{}},
		AuthRepo:  authRepo,
		Redis:     redisClient,
		Files:     files,
		Catalog:   tmdb.NewClient(catalog.URL, "test-token", 5*time.Second),
		Assistant: cannedAssistant{},
	})

	return &testServer{
		handler:  app.RegisterHandlers(),
		app:      app,
		files:    files,
		authRepo: authRepo,
	}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)

	var out map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

func (s *testServer) signIn(t *testing.T) (access, refresh string, userID uuid.UUID) {
	t.Helper()

	w, _ := s.do(t, http.MethodPost, "/api/v1/users/register", "", gin.H{
		"username": "Ada",
		"email":    "ada@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, body := s.do(t, http.MethodPost, "/api/v1/auth/signin", "", gin.H{
		"email":    "ada@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	user := body["user"].(map[string]interface{})
	userID = uuid.MustParse(user["uuid"].(string))
	return body["access_token"].(string), body["refresh_token"].(string), userID
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	defer s.app.Close()

	w, body := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
}

func TestRegisterAndSignIn(t *testing.T) {
	s := newTestServer(t)
	defer s.app.Close()

	access, _, _ := s.signIn(t)
	assert.NotEmpty(t, access)

	w, _ := s.do(t, http.MethodPost, "/api/v1/users/register", "", gin.H{
		"username": "Ada",
		"email":    "ada@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/v1/auth/signin", "", gin.H{
		"email":    "ada@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/v1/users/register", "", gin.H{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLibraryRoutes(t *testing.T) {
	s := newTestServer(t)
	defer s.app.Close()

	w, _ := s.do(t, http.MethodGet, "/api/v1/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	access, refresh, userID := s.signIn(t)

	w, body := s.do(t, http.MethodPost, "/api/v1/me/watchlist/550", access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["in_watchlist"])

	w, body = s.do(t, http.MethodGet, "/api/v1/me", access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, []interface{}{float64(550)}, user["watchlist"])
	assert.Empty(t, user["favorites"])

	w, body = s.do(t, http.MethodGet, "/api/v1/movies/550", access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["in_watchlist"])
	assert.Equal(t, false, body["is_favorite"])
	assert.NotNil(t, body["trailer"])

	w, body = s.do(t, http.MethodGet, "/api/v1/me/watchlist/movies", access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["total"])

	w, _ = s.do(t, http.MethodGet, "/api/v1/me/sync", access, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// sign-out drains the write queue before clearing the session
	w, _ = s.do(t, http.MethodPost, "/api/v1/auth/signout", "", gin.H{"refresh_token": refresh})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, s.authRepo.count())

	data, err := s.files.Read(context.Background(), library.LibraryPath(userID))
	require.NoError(t, err)
	var stored model.Library
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Equal(t, []int64{550}, stored.Watchlist)
	assert.Empty(t, stored.Favorites)
}

func TestSignedOutTokenCannotChangeLibrary(t *testing.T) {
	s := newTestServer(t)
	defer s.app.Close()

	access, refresh, userID := s.signIn(t)

	w, _ := s.do(t, http.MethodPost, "/api/v1/auth/signout", "", gin.H{"refresh_token": refresh})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/v1/me/watchlist/550", access, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/v1/me", access, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/v1/me/sync", access, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, body := s.do(t, http.MethodGet, "/api/v1/movies/550", access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["in_watchlist"])

	exists, err := s.files.Exists(context.Background(), library.LibraryPath(userID))
	require.NoError(t, err)
	assert.False(t, exists, "no library write after sign-out")

	// signing in again starts a new session with a working token
	w, body = s.do(t, http.MethodPost, "/api/v1/auth/signin", "", gin.H{
		"email":    "ada@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	fresh := body["access_token"].(string)

	w, body = s.do(t, http.MethodPost, "/api/v1/me/watchlist/550", fresh, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["in_watchlist"])

	w, _ = s.do(t, http.MethodPost, "/api/v1/me/favorites/550", access, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAssistantRoutes(t *testing.T) {
	s := newTestServer(t)
	defer s.app.Close()

	w, _ := s.do(t, http.MethodPost, "/api/v1/assistant/chat", "", gin.H{"prompt": "hi"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	access, refresh, _ := s.signIn(t)

	w, body := s.do(t, http.MethodPost, "/api/v1/assistant/chat", access, gin.H{"prompt": "a heist movie"})
	require.Equal(t, http.StatusOK, w.Code)
	messages := body["messages"].([]interface{})
	require.Len(t, messages, 2)
	reply := messages[1].(map[string]interface{})
	assert.Equal(t, "ai", reply["from"])
	assert.Equal(t, "You asked: a heist movie", reply["text"])

	w, _ = s.do(t, http.MethodPost, "/api/v1/assistant/chat", access, gin.H{"prompt": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = s.do(t, http.MethodGet, "/api/v1/assistant/messages", access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["messages"], 2)

	w, _ = s.do(t, http.MethodDelete, "/api/v1/assistant/messages", access, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, body = s.do(t, http.MethodGet, "/api/v1/assistant/messages", access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["messages"], 0)

	w, _ = s.do(t, http.MethodPost, "/api/v1/auth/signout", "", gin.H{"refresh_token": refresh})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/v1/assistant/chat", access, gin.H{"prompt": "still there?"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMovieRoutes(t *testing.T) {
	s := newTestServer(t)
	defer s.app.Close()

	w, body := s.do(t, http.MethodGet, "/api/v1/movies/550", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, hasMembership := body["in_watchlist"]
	assert.False(t, hasMembership)

	w, _ = s.do(t, http.MethodGet, "/api/v1/movies/999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/v1/movies/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = s.do(t, http.MethodGet, "/api/v1/movies/550/similar", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["results"], 1)

	w, body = s.do(t, http.MethodGet, "/api/v1/movies/discover?page=1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), body["total_pages"])

	w, _ = s.do(t, http.MethodGet, "/api/v1/movies/trending", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCommentRoutes(t *testing.T) {
	s := newTestServer(t)
	defer s.app.Close()

	access, _, _ := s.signIn(t)

	w, _ := s.do(t, http.MethodPost, "/api/v1/movies/550/comments", "", gin.H{"text": "hi"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/v1/movies/550/comments", access, gin.H{"text": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body := s.do(t, http.MethodPost, "/api/v1/movies/550/comments", access, gin.H{"text": "  Great film  "})
	require.Equal(t, http.StatusCreated, w.Code)
	comment := body["comment"].(map[string]interface{})
	assert.Equal(t, "Great film", comment["text"])
	assert.Equal(t, "Ada", comment["author_name"])
	commentID := int64(comment["id"].(float64))

	w, body = s.do(t, http.MethodGet, "/api/v1/movies/550/comments", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["total"])

	path := fmt.Sprintf("/api/v1/movies/550/comments/%d", commentID)
	w, _ = s.do(t, http.MethodDelete, path, access, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodDelete, path, access, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBrowseRoutes(t *testing.T) {
	s := newTestServer(t)
	defer s.app.Close()

	type session struct {
		SessionID string `json:"session_id"`
		State     struct {
			CurrentPage   int           `json:"current_page"`
			Items         []model.Movie `json:"items"`
			HasMore       bool          `json:"has_more"`
			TrendingItems []model.Movie `json:"trending_items"`
		} `json:"state"`
		Pages struct {
			Pages []int `json:"pages"`
		} `json:"pages"`
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/browse", nil)
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Len(t, created.State.Items, 1)
	assert.Equal(t, int64(550), created.State.Items[0].ID)
	assert.True(t, created.State.HasMore)
	assert.Len(t, created.State.TrendingItems, 1)
	assert.Equal(t, []int{1, 2, 3}, created.Pages.Pages)

	base := "/api/v1/browse/" + created.SessionID

	w, body := s.do(t, http.MethodPost, base+"/sentinel", "", gin.H{"target": "row-1", "visible": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["fired"])

	w, body = s.do(t, http.MethodGet, base, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	state := body["state"].(map[string]interface{})
	assert.Equal(t, float64(2), state["current_page"])
	assert.Len(t, state["items"], 2)

	w, body = s.do(t, http.MethodPut, base+"/category", "", gin.H{"category": "not-a-category"})
	require.Equal(t, http.StatusOK, w.Code)
	state = body["state"].(map[string]interface{})
	assert.Equal(t, "popular", state["category"])
	assert.Equal(t, float64(1), state["current_page"])

	w, _ = s.do(t, http.MethodGet, "/api/v1/browse/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/v1/browse/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
