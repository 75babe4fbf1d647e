package library

import (
	"testing"

	"github.com/keroda/watchdeck/internal/domain"
)

func TestToLibraryEntryMovie(t *testing.T) {
	item := domain.CatalogItem{
		ID:          603,
		MediaType:   domain.MediaTypeMovie,
		Title:       "The Matrix",
		ReleaseDate: "1999-03-31",
		Score:       8.2,
	}
	entry := ToLibraryEntry("u", item)

	if entry.ID != 0 {
		t.Fatalf("ID = %d, want 0 before upsert", entry.ID)
	}
	if entry.TotalEpisodes != 1 {
		t.Fatalf("TotalEpisodes = %d, want 1 for movies", entry.TotalEpisodes)
	}
	if entry.Status != domain.StatusNone || entry.IsFavorite {
		t.Fatalf("fresh entry must be untracked: %+v", entry)
	}
	if entry.IsAnime {
		t.Fatal("non-Japanese movie flagged anime")
	}
}

func TestToLibraryEntryAnimeShow(t *testing.T) {
	item := domain.CatalogItem{
		ID:               1429,
		MediaType:        domain.MediaTypeTV,
		Title:            "Attack on Titan",
		OriginalLanguage: "ja",
		GenreIDs:         []int{domain.AnimationGenreID, 10765},
		EpisodeCount:     87,
	}
	entry := ToLibraryEntry("u", item)

	if !entry.IsAnime {
		t.Fatal("Japanese animation must be flagged anime")
	}
	if entry.TotalEpisodes != 87 {
		t.Fatalf("TotalEpisodes = %d, want episode count", entry.TotalEpisodes)
	}
	if entry.CurrentSeason != 1 {
		t.Fatalf("CurrentSeason = %d, want 1", entry.CurrentSeason)
	}
}

func TestToCatalogItemRoundTrip(t *testing.T) {
	item := domain.CatalogItem{
		ID:          42,
		MediaType:   domain.MediaTypeTV,
		Title:       "Severance",
		PosterPath:  "/p.jpg",
		ReleaseDate: "2022-02-18",
		Score:       8.7,
	}
	got := ToCatalogItem(*ToLibraryEntry("u", item))

	if got.ID != item.ID || got.MediaType != item.MediaType || got.Title != item.Title {
		t.Fatalf("identity fields lost: %+v", got)
	}
	if got.PosterPath != item.PosterPath || got.ReleaseDate != item.ReleaseDate {
		t.Fatalf("display fields lost: %+v", got)
	}
}
