package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/keroda/watchdeck/internal/domain"
	"github.com/keroda/watchdeck/internal/log"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "anon-key", "user-token", log.NullLogger())
}

func TestUpsertEntryConflictHandling(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/library_entries" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if got := r.URL.Query().Get("on_conflict"); got != "user_id,tmdb_id,media_type" {
			t.Errorf("on_conflict = %q", got)
		}
		if got := r.Header.Get("Prefer"); got != "resolution=merge-duplicates,return=representation" {
			t.Errorf("Prefer = %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer user-token" {
			t.Errorf("Authorization = %q", got)
		}

		var entry domain.LibraryEntry
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &entry); err != nil {
			t.Errorf("bad body: %v", err)
		}
		entry.ID = 77
		json.NewEncoder(w).Encode([]domain.LibraryEntry{entry})
	})

	entry := &domain.LibraryEntry{UserID: "u1", TMDBID: 42, MediaType: domain.MediaTypeMovie, Status: domain.StatusWatchlist}
	stored, err := client.UpsertEntry(context.Background(), entry)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if stored.ID != 77 {
		t.Fatalf("expected backend-assigned id, got %d", stored.ID)
	}
	if stored.Status != domain.StatusWatchlist {
		t.Fatalf("status lost in round trip: %q", stored.Status)
	}
}

func TestEnsureEntryIgnoresDuplicates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Prefer"); got != "resolution=ignore-duplicates" {
			t.Errorf("Prefer = %q", got)
		}
		w.WriteHeader(http.StatusCreated)
	})

	entry := &domain.LibraryEntry{UserID: "u1", TMDBID: 42, MediaType: domain.MediaTypeTV}
	if err := client.EnsureEntry(context.Background(), entry); err != nil {
		t.Fatalf("ensure: %v", err)
	}
}

func TestUpdateEntryPatchFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s", r.Method)
		}
		if got := r.URL.Query().Get("id"); got != "eq.77" {
			t.Errorf("id filter = %q", got)
		}

		var body map[string]any
		data, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(data, &body); err != nil {
			t.Errorf("bad body: %v", err)
		}
		if body["status"] != "completed" {
			t.Errorf("status = %v", body["status"])
		}
		if _, ok := body["is_favorite"]; ok {
			t.Error("patch must not leak unrelated fields")
		}
		w.WriteHeader(http.StatusNoContent)
	})

	status := domain.StatusCompleted
	err := client.UpdateEntry(context.Background(), 77, domain.EntryPatch{Status: &status})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
}

func TestUpdateEntryClearCompletedAt(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &body)
		v, ok := body["completed_at"]
		if !ok || v != nil {
			t.Errorf("expected explicit completed_at null, got %v (present=%t)", v, ok)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.UpdateEntry(context.Background(), 1, domain.EntryPatch{ClearCompletedAt: true})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
}

func TestDeleteMarksPartialKey(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/episode_watch_marks" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("user_id") != "eq.u1" || q.Get("tmdb_id") != "eq.100" {
			t.Errorf("missing show-level filters: %v", q)
		}
		if q.Get("season_number") != "eq.2" {
			t.Errorf("season filter = %q", q.Get("season_number"))
		}
		if q.Has("episode_number") {
			t.Error("unbound episode must not become a filter")
		}
		w.WriteHeader(http.StatusNoContent)
	})

	season := 2
	err := client.DeleteMarks(context.Background(), domain.MarkMatch{UserID: "u1", TMDBID: 100, Season: &season})
	if err != nil {
		t.Fatalf("delete marks: %v", err)
	}
}

func TestListEntriesRangeAndOrder(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("order") != "updated_at.desc" {
			t.Errorf("order = %q", q.Get("order"))
		}
		if q.Get("status") != "eq.watching" {
			t.Errorf("status = %q", q.Get("status"))
		}
		if got := r.Header.Get("Range"); got != "40-59" {
			t.Errorf("Range = %q", got)
		}
		json.NewEncoder(w).Encode([]domain.LibraryEntry{{UserID: "u1", TMDBID: 1, MediaType: domain.MediaTypeTV}})
	})

	rows, err := client.ListEntries(context.Background(), "u1",
		domain.ListingFilter{Status: domain.StatusWatching}, 40, 20)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
}

func TestGetEntryNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]domain.LibraryEntry{})
	})

	_, err := client.GetEntry(context.Background(), domain.EntryKey{UserID: "u1", TMDBID: 9, MediaType: domain.MediaTypeMovie})
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestUnauthorized(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.GetEntry(context.Background(), domain.EntryKey{UserID: "u1", TMDBID: 9, MediaType: domain.MediaTypeMovie})
	if !errors.Is(err, domain.ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
}
