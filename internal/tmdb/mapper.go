package tmdb

import "github.com/keroda/watchdeck/internal/domain"

// mapResult converts a list result to a domain CatalogItem. fallback is
// the media type of the endpoint, used when the payload carries none.
func mapResult(r result, fallback domain.MediaType) domain.CatalogItem {
	media := fallback
	switch r.MediaType {
	case "movie":
		media = domain.MediaTypeMovie
	case "tv":
		media = domain.MediaTypeTV
	}

	title := r.Title
	date := r.ReleaseDate
	if media == domain.MediaTypeTV {
		title = r.Name
		date = r.FirstAirDate
	}

	return domain.CatalogItem{
		ID:               r.ID,
		MediaType:        media,
		Title:            title,
		Overview:         r.Overview,
		PosterPath:       r.PosterPath,
		BackdropPath:     r.BackdropPath,
		ReleaseDate:      date,
		Score:            r.VoteAverage,
		GenreIDs:         r.GenreIDs,
		OriginalLanguage: r.OriginalLanguage,
	}
}

func mapMovieDetail(d movieDetail) *domain.CatalogItem {
	return &domain.CatalogItem{
		ID:               d.ID,
		MediaType:        domain.MediaTypeMovie,
		Title:            d.Title,
		Overview:         d.Overview,
		PosterPath:       d.PosterPath,
		BackdropPath:     d.BackdropPath,
		ReleaseDate:      d.ReleaseDate,
		Score:            d.VoteAverage,
		GenreIDs:         genreIDs(d.Genres),
		OriginalLanguage: d.OriginalLanguage,
	}
}

func mapTVDetail(d tvDetail) *domain.CatalogItem {
	item := &domain.CatalogItem{
		ID:               d.ID,
		MediaType:        domain.MediaTypeTV,
		Title:            d.Name,
		Overview:         d.Overview,
		PosterPath:       d.PosterPath,
		BackdropPath:     d.BackdropPath,
		ReleaseDate:      d.FirstAirDate,
		Score:            d.VoteAverage,
		GenreIDs:         genreIDs(d.Genres),
		OriginalLanguage: d.OriginalLanguage,
		EpisodeCount:     d.NumberOfEpisodes,
		SeasonCount:      d.NumberOfSeasons,
	}

	for _, s := range d.Seasons {
		item.Seasons = append(item.Seasons, domain.SeasonInfo{
			Number:       s.SeasonNumber,
			EpisodeCount: s.EpisodeCount,
			Name:         s.Name,
			AirDate:      s.AirDate,
		})
	}

	if d.LastEpisodeToAir != nil {
		item.LastAired = &domain.EpisodeRef{
			Season:  d.LastEpisodeToAir.SeasonNumber,
			Episode: d.LastEpisodeToAir.EpisodeNumber,
		}
	}

	return item
}

func mapSeason(d seasonDetail) []domain.EpisodeInfo {
	episodes := make([]domain.EpisodeInfo, 0, len(d.Episodes))
	for _, e := range d.Episodes {
		episodes = append(episodes, domain.EpisodeInfo{
			Season:    e.SeasonNumber,
			Episode:   e.EpisodeNumber,
			Name:      e.Name,
			Overview:  e.Overview,
			AirDate:   e.AirDate,
			StillPath: e.StillPath,
			Runtime:   e.Runtime,
		})
	}
	return episodes
}

func genreIDs(genres []genre) []int {
	if len(genres) == 0 {
		return nil
	}
	ids := make([]int, 0, len(genres))
	for _, g := range genres {
		ids = append(ids, g.ID)
	}
	return ids
}
