package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"moviehub/pkg/logger"
	"moviehub/pkg/model"
)

const defaultBaseURL = "https://api.themoviedb.org/3"

var (
	ErrNotFound        = errors.New("movie not found")
	ErrInvalidCategory = errors.New("invalid category")
)

// APIError is returned for any non-2xx catalog response.
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("tmdb %s: status %d: %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("tmdb %s: status %d", e.Endpoint, e.StatusCode)
}

// Client is a thin wrapper over the TMDB v3 REST API. It performs no retries.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// NewClient creates a catalog client. token is the v4 read access token sent as
// a bearer credential.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   strings.TrimSpace(token),
		httpc:   &http.Client{Timeout: timeout},
	}
}

// WithHTTPClient swaps the underlying transport, mostly for tests.
func (c *Client) WithHTTPClient(httpc *http.Client) *Client {
	if httpc != nil {
		c.httpc = httpc
	}
	return c
}

// Discover lists movies sorted by popularity.
func (c *Client) Discover(ctx context.Context, page int) (*model.MoviePage, error) {
	params := url.Values{}
	params.Set("sort_by", "popularity.desc")
	params.Set("page", strconv.Itoa(normalizePage(page)))

	var out model.MoviePage
	if err := c.get(ctx, "/discover/movie", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListCategory lists one of the fixed movie buckets.
func (c *Client) ListCategory(ctx context.Context, category model.Category, page int) (*model.MoviePage, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(normalizePage(page)))

	var out model.MoviePage
	if err := c.get(ctx, "/movie/"+string(category), params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Search runs a title search. An empty result set is not an error.
func (c *Client) Search(ctx context.Context, query string, page int) (*model.MoviePage, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(normalizePage(page)))

	var out model.MoviePage
	if err := c.get(ctx, "/search/movie", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Trending returns today's trending movies.
func (c *Client) Trending(ctx context.Context) (*model.MoviePage, error) {
	var out model.MoviePage
	if err := c.get(ctx, "/trending/movie/day", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Details fetches a movie with credits, reviews and videos appended.
func (c *Client) Details(ctx context.Context, id int64) (*model.Movie, error) {
	params := url.Values{}
	params.Set("append_to_response", "credits,reviews,videos")

	var out model.Movie
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", id), params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Similar returns the first page of movies similar to id.
func (c *Client) Similar(ctx context.Context, id int64) (*model.MoviePage, error) {
	params := url.Values{}
	params.Set("page", "1")

	var out model.MoviePage
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/similar", id), params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, dest interface{}) error {
	u := c.baseURL + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create tmdb request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Endpoint: endpoint}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var payload struct {
			StatusMessage string `json:"status_message"`
		}
		if json.Unmarshal(body, &payload) == nil {
			apiErr.Message = payload.StatusMessage
		}
		logger.Warnf("tmdb request to %s failed with status %d", endpoint, resp.StatusCode)
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode tmdb %s: %w", endpoint, err)
	}

	if page, ok := dest.(*model.MoviePage); ok {
		if page.TotalPages < 1 {
			page.TotalPages = 1
		}
		if page.Results == nil {
			page.Results = []model.Movie{}
		}
	}
	return nil
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
