package tmdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"moviehub/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-token", 0)
}

func TestClientSendsBearerAndQuery(t *testing.T) {
	var gotPath, gotQuery, gotAuth string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"page":2,"results":[{"id":1,"title":"Batman","poster_path":"/b.jpg"}],"total_pages":3}`))
	})

	page, err := c.Search(context.Background(), "batman begins", 2)
	require.NoError(t, err)

	assert.Equal(t, "/search/movie", gotPath)
	assert.Equal(t, "page=2&query=batman+begins", gotQuery)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Batman", page.Results[0].Title)
}

func TestClientEndpoints(t *testing.T) {
	tests := []struct {
		name      string
		call      func(c *Client) error
		wantPath  string
		wantQuery string
	}{
		{
			name:      "discover",
			call:      func(c *Client) error { _, err := c.Discover(context.Background(), 0); return err },
			wantPath:  "/discover/movie",
			wantQuery: "page=1&sort_by=popularity.desc",
		},
		{
			name: "category",
			call: func(c *Client) error {
				_, err := c.ListCategory(context.Background(), model.CategoryTopRated, 4)
				return err
			},
			wantPath:  "/movie/top_rated",
			wantQuery: "page=4",
		},
		{
			name:     "trending",
			call:     func(c *Client) error { _, err := c.Trending(context.Background()); return err },
			wantPath: "/trending/movie/day",
		},
		{
			name:      "details",
			call:      func(c *Client) error { _, err := c.Details(context.Background(), 550); return err },
			wantPath:  "/movie/550",
			wantQuery: "append_to_response=credits%2Creviews%2Cvideos",
		},
		{
			name:      "similar",
			call:      func(c *Client) error { _, err := c.Similar(context.Background(), 550); return err },
			wantPath:  "/movie/550/similar",
			wantQuery: "page=1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath, gotQuery string
			c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotQuery = r.URL.RawQuery
				w.Write([]byte(`{}`))
			})
			require.NoError(t, tt.call(c))
			assert.Equal(t, tt.wantPath, gotPath)
			assert.Equal(t, tt.wantQuery, gotQuery)
		})
	}
}

func TestClientDefaultsTotalPages(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"page":1,"results":[]}`))
	})

	page, err := c.Search(context.Background(), "nothing", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalPages)
	assert.Empty(t, page.Results)
}

func TestClientErrors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		_, err := c.Details(context.Background(), 1)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("api error", func(t *testing.T) {
		c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"status_message":"Invalid API key"}`))
		})
		_, err := c.Trending(context.Background())
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		assert.Equal(t, "/trending/movie/day", apiErr.Endpoint)
		assert.Equal(t, "Invalid API key", apiErr.Message)
	})

	t.Run("invalid category", func(t *testing.T) {
		c := NewClient("http://127.0.0.1:0", "", 0)
		_, err := c.ListCategory(context.Background(), model.Category("latest"), 1)
		assert.ErrorIs(t, err, ErrInvalidCategory)
	})
}

func TestImageURL(t *testing.T) {
	assert.Equal(t, "", ImageURL("", PosterSize))
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/poster.png", ImageURL("/poster.png", ""))
	assert.Equal(t, "https://image.tmdb.org/t/p/original/bg.jpg", ImageURL("bg.jpg", BackdropSize))
}
