package catalog

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/keroda/watchdeck/internal/domain"
	"github.com/keroda/watchdeck/internal/store"
)

type fakeClient struct {
	detailCalls int
	seasonCalls int
	detail      *domain.CatalogItem
	episodes    []domain.EpisodeInfo
}

func (f *fakeClient) Trending(context.Context, domain.MediaType, int) ([]domain.CatalogItem, bool, error) {
	return nil, false, nil
}

func (f *fakeClient) Search(context.Context, string, int) ([]domain.CatalogItem, bool, error) {
	return nil, false, nil
}

func (f *fakeClient) GetDetail(context.Context, domain.MediaType, int) (*domain.CatalogItem, error) {
	f.detailCalls++
	item := *f.detail
	return &item, nil
}

func (f *fakeClient) GetSeason(context.Context, int, int) ([]domain.EpisodeInfo, error) {
	f.seasonCalls++
	return f.episodes, nil
}

func newTestCatalog(t *testing.T) (*Service, *fakeClient) {
	t.Helper()
	st, err := store.NewCatalogStore("") // memory-only
	if err != nil {
		t.Fatalf("NewCatalogStore: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	client := &fakeClient{
		detail: &domain.CatalogItem{ID: 42, MediaType: domain.MediaTypeTV, Title: "Some Show"},
		episodes: []domain.EpisodeInfo{
			{Season: 1, Episode: 1, Name: "Pilot"},
		},
	}
	return NewService(client, st, slog.New(slog.NewTextHandler(io.Discard, nil))), client
}

func TestGetDetailServedFromStoreOnRepeat(t *testing.T) {
	svc, client := newTestCatalog(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		item, err := svc.GetDetail(ctx, domain.MediaTypeTV, 42)
		if err != nil {
			t.Fatalf("GetDetail: %v", err)
		}
		if item.Title != "Some Show" {
			t.Fatalf("Title = %q", item.Title)
		}
	}
	if client.detailCalls != 1 {
		t.Fatalf("remote hit %d times, want 1", client.detailCalls)
	}
}

func TestGetSeasonServedFromStoreOnRepeat(t *testing.T) {
	svc, client := newTestCatalog(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		episodes, err := svc.GetSeason(ctx, 42, 1)
		if err != nil {
			t.Fatalf("GetSeason: %v", err)
		}
		if len(episodes) != 1 || episodes[0].Name != "Pilot" {
			t.Fatalf("episodes = %+v", episodes)
		}
	}
	if client.seasonCalls != 1 {
		t.Fatalf("remote hit %d times, want 1", client.seasonCalls)
	}
}

func TestRefreshShowDropsStoredMetadata(t *testing.T) {
	svc, client := newTestCatalog(t)
	ctx := context.Background()

	if _, err := svc.GetDetail(ctx, domain.MediaTypeTV, 42); err != nil {
		t.Fatalf("GetDetail: %v", err)
	}
	if _, err := svc.GetSeason(ctx, 42, 1); err != nil {
		t.Fatalf("GetSeason: %v", err)
	}

	if _, err := svc.RefreshShow(ctx, 42); err != nil {
		t.Fatalf("RefreshShow: %v", err)
	}
	if client.detailCalls != 2 {
		t.Fatalf("detail fetched %d times, want refetch after refresh", client.detailCalls)
	}

	if _, err := svc.GetSeason(ctx, 42, 1); err != nil {
		t.Fatalf("GetSeason after refresh: %v", err)
	}
	if client.seasonCalls != 2 {
		t.Fatalf("season fetched %d times, want refetch after refresh", client.seasonCalls)
	}
}
