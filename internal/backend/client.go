package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/keroda/watchdeck/internal/domain"
)

// Table names on the PostgREST backend
const (
	tableEntries = "library_entries"
	tableMarks   = "episode_watch_marks"
)

// Composite-key columns used for conflict resolution
const (
	entryConflictCols = "user_id,tmdb_id,media_type"
	markConflictCols  = "user_id,tmdb_id,season_number,episode_number"
)

// Client implements domain.LibraryBackend against a PostgREST-style
// REST API (Supabase-compatible): upserts with on_conflict columns,
// deletes by column equality filters, selects with Range pagination.
//
// Mutations carry no client timeout; cancellation is context-driven
// and a hung call simply stays pending.
type Client struct {
	baseURL     string
	apiKey      string
	accessToken string
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewClient creates a backend client. accessToken is the signed-in
// user's bearer token; apiKey is the project key sent on every call.
func NewClient(baseURL, apiKey, accessToken string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:     baseURL,
		apiKey:      apiKey,
		accessToken: accessToken,
		httpClient:  &http.Client{},
		logger:      logger,
	}
}

// doRequest performs an authenticated request and returns the body.
// prefer and rangeHeader are optional PostgREST headers.
func (c *Client) doRequest(ctx context.Context, method, table string, query url.Values, body any, prefer, rangeHeader string) ([]byte, error) {
	reqURL := fmt.Sprintf("%s/%s", c.baseURL, table)
	if len(query) > 0 {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}
	if rangeHeader != "" {
		req.Header.Set("Range-Unit", "items")
		req.Header.Set("Range", rangeHeader)
	}

	c.logger.Debug("backend request", "method", method, "table", table)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("backend request failed", "error", err)
		return nil, domain.ErrBackendUnavailable
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, domain.ErrAuthFailed
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return respBody, nil
	default:
		c.logger.Error("backend request error", "status", resp.StatusCode, "table", table, "body", string(respBody))
		return nil, fmt.Errorf("backend status %d: %s", resp.StatusCode, string(respBody))
	}
}

// eq formats a PostgREST equality filter value
func eq(v string) string { return "eq." + v }

// === Library entries ===

// UpsertEntry inserts or updates by composite key and returns the row.
func (c *Client) UpsertEntry(ctx context.Context, entry *domain.LibraryEntry) (*domain.LibraryEntry, error) {
	query := url.Values{"on_conflict": {entryConflictCols}}
	body, err := c.doRequest(ctx, http.MethodPost, tableEntries, query, entry,
		"resolution=merge-duplicates,return=representation", "")
	if err != nil {
		return nil, err
	}

	var rows []domain.LibraryEntry
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse upsert response: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("upsert returned no rows")
	}
	return &rows[0], nil
}

// EnsureEntry inserts the entry if its composite key is new, ignoring
// the duplicate otherwise.
func (c *Client) EnsureEntry(ctx context.Context, entry *domain.LibraryEntry) error {
	query := url.Values{"on_conflict": {entryConflictCols}}
	_, err := c.doRequest(ctx, http.MethodPost, tableEntries, query, entry,
		"resolution=ignore-duplicates", "")
	return err
}

// UpdateEntry applies a typed patch to one row by id. The patch
// enumerates exactly the fields the mutation may alter.
func (c *Client) UpdateEntry(ctx context.Context, id int64, patch domain.EntryPatch) error {
	body := map[string]any{}
	if patch.Status != nil {
		if *patch.Status == domain.StatusNone {
			// Clearing a status stores SQL null, not an empty string.
			body["status"] = nil
		} else {
			body["status"] = *patch.Status
		}
	}
	if patch.IsFavorite != nil {
		body["is_favorite"] = *patch.IsFavorite
	}
	if patch.UpdatedAt != nil {
		body["updated_at"] = *patch.UpdatedAt
	}
	if patch.CompletedAt != nil {
		body["completed_at"] = patch.CompletedAt
	}
	if patch.ClearCompletedAt {
		body["completed_at"] = nil
	}
	if len(body) == 0 {
		return nil
	}

	query := url.Values{"id": {eq(strconv.FormatInt(id, 10))}}
	_, err := c.doRequest(ctx, http.MethodPatch, tableEntries, query, body, "", "")
	return err
}

// DeleteEntry removes the row matching the composite key.
func (c *Client) DeleteEntry(ctx context.Context, key domain.EntryKey) error {
	query := url.Values{
		"user_id":    {eq(key.UserID)},
		"tmdb_id":    {eq(strconv.Itoa(key.TMDBID))},
		"media_type": {eq(string(key.MediaType))},
	}
	_, err := c.doRequest(ctx, http.MethodDelete, tableEntries, query, nil, "", "")
	return err
}

// GetEntry returns the entry for the key, or domain.ErrItemNotFound.
func (c *Client) GetEntry(ctx context.Context, key domain.EntryKey) (*domain.LibraryEntry, error) {
	query := url.Values{
		"user_id":    {eq(key.UserID)},
		"tmdb_id":    {eq(strconv.Itoa(key.TMDBID))},
		"media_type": {eq(string(key.MediaType))},
		"limit":      {"1"},
	}
	body, err := c.doRequest(ctx, http.MethodGet, tableEntries, query, nil, "", "")
	if err != nil {
		return nil, err
	}

	var rows []domain.LibraryEntry
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse entry response: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrItemNotFound
	}
	return &rows[0], nil
}

// ListEntries returns a page ordered by updated_at descending.
func (c *Client) ListEntries(ctx context.Context, userID string, filter domain.ListingFilter, offset, limit int) ([]domain.LibraryEntry, error) {
	query := url.Values{
		"user_id": {eq(userID)},
		"order":   {"updated_at.desc"},
	}
	if filter.Status != domain.StatusNone {
		query.Set("status", eq(string(filter.Status)))
	}
	if filter.FavoritesOnly {
		query.Set("is_favorite", "eq.true")
	}
	if filter.MediaType != "" {
		query.Set("media_type", eq(string(filter.MediaType)))
	}

	rangeHeader := fmt.Sprintf("%d-%d", offset, offset+limit-1)
	body, err := c.doRequest(ctx, http.MethodGet, tableEntries, query, nil, "", rangeHeader)
	if err != nil {
		return nil, err
	}

	var rows []domain.LibraryEntry
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse listing response: %w", err)
	}
	return rows, nil
}

// === Episode watch marks ===

// UpsertMarks bulk-inserts marks, ignoring duplicate composite keys.
func (c *Client) UpsertMarks(ctx context.Context, marks []domain.EpisodeWatchMark) error {
	if len(marks) == 0 {
		return nil
	}
	query := url.Values{"on_conflict": {markConflictCols}}
	_, err := c.doRequest(ctx, http.MethodPost, tableMarks, query, marks,
		"resolution=ignore-duplicates", "")
	return err
}

// DeleteMarks removes every mark matching the partial composite key.
// Only bound columns become filters: show-level deletes bind
// (user, tmdb), season-level adds season_number, episode-level adds
// episode_number.
func (c *Client) DeleteMarks(ctx context.Context, match domain.MarkMatch) error {
	query := url.Values{
		"user_id": {eq(match.UserID)},
		"tmdb_id": {eq(strconv.Itoa(match.TMDBID))},
	}
	if match.Season != nil {
		query.Set("season_number", eq(strconv.Itoa(*match.Season)))
	}
	if match.Episode != nil {
		query.Set("episode_number", eq(strconv.Itoa(*match.Episode)))
	}
	_, err := c.doRequest(ctx, http.MethodDelete, tableMarks, query, nil, "", "")
	return err
}

// ListMarks returns the user's marks for one season of a show.
func (c *Client) ListMarks(ctx context.Context, userID string, tmdbID, season int) ([]domain.EpisodeWatchMark, error) {
	query := url.Values{
		"user_id":       {eq(userID)},
		"tmdb_id":       {eq(strconv.Itoa(tmdbID))},
		"season_number": {eq(strconv.Itoa(season))},
		"order":         {"episode_number.asc"},
	}
	body, err := c.doRequest(ctx, http.MethodGet, tableMarks, query, nil, "", "")
	if err != nil {
		return nil, err
	}

	var rows []domain.EpisodeWatchMark
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse marks response: %w", err)
	}
	return rows, nil
}
