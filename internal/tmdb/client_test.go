package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/keroda/watchdeck/internal/domain"
	"github.com/keroda/watchdeck/internal/log"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, NewClient(srv.URL, "test-key", log.NullLogger())
}

func pageBody(t *testing.T, n int, mediaType string) []byte {
	t.Helper()
	page := pagedResponse{Page: 1}
	for i := 1; i <= n; i++ {
		page.Results = append(page.Results, result{
			ID:        i,
			MediaType: mediaType,
			Title:     fmt.Sprintf("Movie %d", i),
			Name:      fmt.Sprintf("Show %d", i),
		})
	}
	body, err := json.Marshal(page)
	if err != nil {
		t.Fatalf("marshal page: %v", err)
	}
	return body
}

func TestTrendingFullPageHasMore(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/trending/movie/week" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("api_key") != "test-key" {
			t.Error("missing api key")
		}
		w.Write(pageBody(t, 20, "movie"))
	})

	items, hasMore, err := client.Trending(context.Background(), domain.MediaTypeMovie, 1)
	if err != nil {
		t.Fatalf("trending: %v", err)
	}
	if len(items) != 20 {
		t.Fatalf("expected 20 items, got %d", len(items))
	}
	if !hasMore {
		t.Fatal("a full page of 20 must signal more pages")
	}
}

func TestTrendingShortPageEndsPagination(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(pageBody(t, 7, "tv"))
	})

	items, hasMore, err := client.Trending(context.Background(), domain.MediaTypeTV, 3)
	if err != nil {
		t.Fatalf("trending: %v", err)
	}
	if len(items) != 7 {
		t.Fatalf("expected 7 items, got %d", len(items))
	}
	if hasMore {
		t.Fatal("a short page must signal no further pages")
	}
}

func TestSearchSkipsPersonResults(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		page := pagedResponse{Results: []result{
			{ID: 1, MediaType: "movie", Title: "Heat"},
			{ID: 2, MediaType: "person", Name: "Al Pacino"},
			{ID: 3, MediaType: "tv", Name: "Heat TV"},
		}}
		json.NewEncoder(w).Encode(page)
	})

	items, _, err := client.Search(context.Background(), "heat", 1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected person filtered out, got %d items", len(items))
	}
	if items[0].MediaType != domain.MediaTypeMovie || items[1].MediaType != domain.MediaTypeTV {
		t.Fatalf("unexpected media types: %v, %v", items[0].MediaType, items[1].MediaType)
	}
}

func TestGetDetailTV(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tv/100" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(tvDetail{
			ID:               100,
			Name:             "Frieren",
			OriginalLanguage: "ja",
			Genres:           []genre{{ID: 16, Name: "Animation"}},
			NumberOfEpisodes: 28,
			NumberOfSeasons:  1,
			Seasons: []seasonBrief{
				{SeasonNumber: 0, EpisodeCount: 2},
				{SeasonNumber: 1, EpisodeCount: 28},
			},
			LastEpisodeToAir: &episodeBrief{SeasonNumber: 1, EpisodeNumber: 28},
		})
	})

	item, err := client.GetDetail(context.Background(), domain.MediaTypeTV, 100)
	if err != nil {
		t.Fatalf("get detail: %v", err)
	}
	if item.Title != "Frieren" {
		t.Fatalf("expected title Frieren, got %q", item.Title)
	}
	if !item.IsAnime() {
		t.Fatal("ja + Animation genre must derive anime")
	}
	if len(item.Seasons) != 2 || item.Seasons[1].EpisodeCount != 28 {
		t.Fatalf("seasons not mapped: %+v", item.Seasons)
	}
	if item.LastAired == nil || item.LastAired.Season != 1 || item.LastAired.Episode != 28 {
		t.Fatalf("last aired not mapped: %+v", item.LastAired)
	}
}

func TestGetDetailNotFound(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(apiError{StatusCode: 34, StatusMessage: "not found"})
	})

	_, err := client.GetDetail(context.Background(), domain.MediaTypeMovie, 999)
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestGetSeason(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tv/100/season/2" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(seasonDetail{
			SeasonNumber: 2,
			Episodes: []episodePayload{
				{SeasonNumber: 2, EpisodeNumber: 1, Name: "Opening"},
				{SeasonNumber: 2, EpisodeNumber: 2, Name: "Middle"},
			},
		})
	})

	episodes, err := client.GetSeason(context.Background(), 100, 2)
	if err != nil {
		t.Fatalf("get season: %v", err)
	}
	if len(episodes) != 2 {
		t.Fatalf("expected 2 episodes, got %d", len(episodes))
	}
	if episodes[0].Code() != "S02E01" {
		t.Fatalf("unexpected code %s", episodes[0].Code())
	}
}
