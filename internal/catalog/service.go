package catalog

import (
	"context"
	"log/slog"

	"github.com/keroda/watchdeck/internal/domain"
	"github.com/keroda/watchdeck/internal/search"
	"github.com/keroda/watchdeck/internal/store"
)

// Service serves catalog reads, answering detail lookups from the
// on-disk store before going to the remote catalog. List endpoints
// are never stored; trending and search results go stale too fast.
type Service struct {
	client domain.CatalogClient
	store  *store.CatalogStore
	logger *slog.Logger
}

func NewService(client domain.CatalogClient, st *store.CatalogStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		client: client,
		store:  st,
		logger: logger,
	}
}

// Trending returns one page of trending titles plus a has-more flag.
func (s *Service) Trending(ctx context.Context, media domain.MediaType, page int) ([]domain.CatalogItem, bool, error) {
	return s.client.Trending(ctx, media, page)
}

// Search returns one page of titles matching the query, re-ranked so
// closer title matches come first.
func (s *Service) Search(ctx context.Context, query string, page int) ([]domain.CatalogItem, bool, error) {
	items, hasMore, err := s.client.Search(ctx, query, page)
	if err != nil {
		return nil, false, err
	}
	return search.Rank(items, query), hasMore, nil
}

// GetDetail returns full detail for one title, preferring the store.
func (s *Service) GetDetail(ctx context.Context, media domain.MediaType, id int) (*domain.CatalogItem, error) {
	if item, ok := s.store.GetDetail(media, id); ok {
		return item, nil
	}
	item, err := s.client.GetDetail(ctx, media, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveDetail(item); err != nil {
		s.logger.Warn("failed to store detail", "media", media, "id", id, "error", err)
	}
	return item, nil
}

// GetSeason returns the episodes of one season, preferring the store.
func (s *Service) GetSeason(ctx context.Context, showID, season int) ([]domain.EpisodeInfo, error) {
	if episodes, ok := s.store.GetSeasonEpisodes(showID, season); ok {
		return episodes, nil
	}
	episodes, err := s.client.GetSeason(ctx, showID, season)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveSeasonEpisodes(showID, season, episodes); err != nil {
		s.logger.Warn("failed to store season", "show", showID, "season", season, "error", err)
	}
	return episodes, nil
}

// RefreshShow drops the stored metadata for a show and refetches its
// detail, picking up newly aired episodes.
func (s *Service) RefreshShow(ctx context.Context, id int) (*domain.CatalogItem, error) {
	s.store.InvalidateShow(id)
	return s.GetDetail(ctx, domain.MediaTypeTV, id)
}
