package search

import (
	"io"
	"log/slog"
	"testing"

	"github.com/keroda/watchdeck/internal/domain"
)

func newTestService() *Service {
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func items() []domain.CatalogItem {
	return []domain.CatalogItem{
		{ID: 1, MediaType: domain.MediaTypeTV, Title: "Mr. Robot"},
		{ID: 2, MediaType: domain.MediaTypeTV, Title: "Breaking Bad"},
		{ID: 3, MediaType: domain.MediaTypeMovie, Title: "Robot Dreams"},
	}
}

func TestFilterMatchesSubsequence(t *testing.T) {
	s := newTestService()
	s.Index(items())

	results := s.Filter("robot")
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2: %+v", len(results), results)
	}
	for _, r := range results {
		if r.Item.ID != 1 && r.Item.ID != 3 {
			t.Fatalf("unexpected match: %+v", r.Item)
		}
		if len(r.MatchedIndexes) == 0 {
			t.Fatal("match without highlight positions")
		}
	}
}

func TestFilterEmptyQuery(t *testing.T) {
	s := newTestService()
	s.Index(items())
	if got := s.Filter("   "); got != nil {
		t.Fatalf("blank query returned %d results, want none", len(got))
	}
}

func TestIndexDeduplicates(t *testing.T) {
	s := newTestService()
	s.Index(items())
	s.Index(items())
	if got := s.index.Len(); got != 3 {
		t.Fatalf("index holds %d items after re-index, want 3", got)
	}
}

func TestClearDropsIndex(t *testing.T) {
	s := newTestService()
	s.Index(items())
	s.Clear()
	if got := s.Filter("robot"); got != nil {
		t.Fatalf("cleared index returned %d results", len(got))
	}
}

func TestRankPrefersCloserTitles(t *testing.T) {
	ranked := Rank([]domain.CatalogItem{
		{ID: 1, Title: "The Matrix Resurrections"},
		{ID: 2, Title: "The Matrix"},
		{ID: 3, Title: "Unrelated"},
	}, "the matrix")

	if ranked[0].ID != 2 {
		t.Fatalf("ranked[0] = %q, want the exact title first", ranked[0].Title)
	}
	if ranked[len(ranked)-1].ID != 3 {
		t.Fatalf("unmatched title not last: %+v", ranked)
	}
}
