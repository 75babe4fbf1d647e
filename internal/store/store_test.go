package store

import (
	"testing"

	"github.com/keroda/watchdeck/internal/domain"
)

// Memory-only mode exercises the same code paths without touching disk.
func newMemStore(t *testing.T) *CatalogStore {
	t.Helper()
	s, err := NewCatalogStore("")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestDetailRoundTrip(t *testing.T) {
	s := newMemStore(t)

	item := &domain.CatalogItem{ID: 42, MediaType: domain.MediaTypeMovie, Title: "Heat"}
	if err := s.SaveDetail(item); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok := s.GetDetail(domain.MediaTypeMovie, 42)
	if !ok {
		t.Fatal("expected hit")
	}
	if got.Title != "Heat" {
		t.Fatalf("title = %q", got.Title)
	}

	if _, ok := s.GetDetail(domain.MediaTypeTV, 42); ok {
		t.Fatal("media type must partition the key space")
	}
}

func TestSeasonEpisodesRoundTrip(t *testing.T) {
	s := newMemStore(t)

	eps := []domain.EpisodeInfo{{Season: 1, Episode: 1}, {Season: 1, Episode: 2}}
	if err := s.SaveSeasonEpisodes(100, 1, eps); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok := s.GetSeasonEpisodes(100, 1)
	if !ok || len(got) != 2 {
		t.Fatalf("expected 2 episodes, ok=%t got=%d", ok, len(got))
	}
}

func TestInvalidateShowLeavesNeighborIDs(t *testing.T) {
	s := newMemStore(t)

	s.SaveDetail(&domain.CatalogItem{ID: 100, MediaType: domain.MediaTypeTV, Title: "A"})
	s.SaveDetail(&domain.CatalogItem{ID: 1000, MediaType: domain.MediaTypeTV, Title: "B"})
	s.SaveSeasonEpisodes(100, 1, []domain.EpisodeInfo{{Season: 1, Episode: 1}})
	s.SaveSeasonEpisodes(1000, 1, []domain.EpisodeInfo{{Season: 1, Episode: 1}})

	s.InvalidateShow(100)

	if _, ok := s.GetDetail(domain.MediaTypeTV, 100); ok {
		t.Fatal("detail for 100 should be gone")
	}
	if _, ok := s.GetSeasonEpisodes(100, 1); ok {
		t.Fatal("seasons for 100 should be gone")
	}
	if _, ok := s.GetDetail(domain.MediaTypeTV, 1000); !ok {
		t.Fatal("detail for 1000 must survive")
	}
	if _, ok := s.GetSeasonEpisodes(1000, 1); !ok {
		t.Fatal("seasons for 1000 must survive")
	}
}
