package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/keroda/watchdeck/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Watchdeck/1.0"

	// PageSize is the catalog's contractual page size. A returned page
	// shorter than this signals end of data.
	PageSize = 20
)

// Client implements domain.CatalogClient against the TMDB v3 API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new catalog API client
func NewClient(baseURL, apiKey string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// doRequest performs an authenticated GET and returns the body
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("catalog request", "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("catalog request failed", "error", err)
		return nil, domain.ErrCatalogUnavailable
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusUnauthorized:
		return nil, domain.ErrAuthFailed
	case http.StatusNotFound:
		return nil, domain.ErrItemNotFound
	default:
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.StatusMessage != "" {
			return nil, fmt.Errorf("catalog error %d: %s", resp.StatusCode, apiErr.StatusMessage)
		}
		c.logger.Error("catalog request error", "status", resp.StatusCode, "path", path)
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
}

// listPage fetches one page of a list endpoint and applies the
// page-size contract: exactly PageSize items means more pages may
// follow, fewer means end of data.
func (c *Client) listPage(ctx context.Context, path string, query url.Values, fallback domain.MediaType) ([]domain.CatalogItem, bool, error) {
	body, err := c.doRequest(ctx, path, query)
	if err != nil {
		return nil, false, err
	}

	var page pagedResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, false, fmt.Errorf("failed to parse response: %w", err)
	}

	items := make([]domain.CatalogItem, 0, len(page.Results))
	for _, r := range page.Results {
		item := mapResult(r, fallback)
		if !item.MediaType.Valid() {
			continue // multi-search can return people
		}
		items = append(items, item)
	}

	hasMore := len(page.Results) == PageSize
	return items, hasMore, nil
}

// Trending returns one page of trending titles plus a has-more flag
func (c *Client) Trending(ctx context.Context, media domain.MediaType, page int) ([]domain.CatalogItem, bool, error) {
	if page < 1 {
		page = 1
	}
	query := url.Values{"page": {strconv.Itoa(page)}}
	path := fmt.Sprintf("/trending/%s/week", media)
	return c.listPage(ctx, path, query, media)
}

// Search returns one page of titles matching the query
func (c *Client) Search(ctx context.Context, query string, page int) ([]domain.CatalogItem, bool, error) {
	if page < 1 {
		page = 1
	}
	q := url.Values{
		"query": {query},
		"page":  {strconv.Itoa(page)},
	}
	return c.listPage(ctx, "/search/multi", q, "")
}

// GetDetail returns full detail for one title
func (c *Client) GetDetail(ctx context.Context, media domain.MediaType, id int) (*domain.CatalogItem, error) {
	path := fmt.Sprintf("/%s/%d", media, id)
	body, err := c.doRequest(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	switch media {
	case domain.MediaTypeMovie:
		var d movieDetail
		if err := json.Unmarshal(body, &d); err != nil {
			return nil, fmt.Errorf("failed to parse movie detail: %w", err)
		}
		return mapMovieDetail(d), nil
	case domain.MediaTypeTV:
		var d tvDetail
		if err := json.Unmarshal(body, &d); err != nil {
			return nil, fmt.Errorf("failed to parse tv detail: %w", err)
		}
		return mapTVDetail(d), nil
	default:
		return nil, fmt.Errorf("unknown media type %q", media)
	}
}

// GetSeason returns all episodes of one season of a show
func (c *Client) GetSeason(ctx context.Context, showID, season int) ([]domain.EpisodeInfo, error) {
	path := fmt.Sprintf("/tv/%d/season/%d", showID, season)
	body, err := c.doRequest(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var d seasonDetail
	if err := json.Unmarshal(body, &d); err != nil {
		return nil, fmt.Errorf("failed to parse season detail: %w", err)
	}
	return mapSeason(d), nil
}
