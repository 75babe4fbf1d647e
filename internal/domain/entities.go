package domain

import "fmt"

// MediaType distinguishes catalog content kinds. Values match the
// catalog API's path segments and the backend's media_type column.
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// Valid reports whether the media type is one of the known kinds.
func (m MediaType) Valid() bool {
	return m == MediaTypeMovie || m == MediaTypeTV
}

// AnimationGenreID is the catalog genre id for "Animation".
const AnimationGenreID = 16

// CatalogItem is a denormalized catalog title (movie or TV show) as
// returned by the catalog API. Detail fetches populate the TV-only
// fields; list fetches leave them zero.
type CatalogItem struct {
	ID               int       `json:"id"`
	MediaType        MediaType `json:"mediaType"`
	Title            string    `json:"title"`
	Overview         string    `json:"overview,omitempty"`
	PosterPath       string    `json:"posterPath,omitempty"`
	BackdropPath     string    `json:"backdropPath,omitempty"`
	ReleaseDate      string    `json:"releaseDate,omitempty"` // YYYY-MM-DD
	Score            float64   `json:"score,omitempty"`       // 0-10 aggregate
	GenreIDs         []int     `json:"genreIds,omitempty"`
	OriginalLanguage string    `json:"originalLanguage,omitempty"`

	// TV-only fields (zero for movies)
	EpisodeCount int          `json:"episodeCount,omitempty"`
	SeasonCount  int          `json:"seasonCount,omitempty"`
	Seasons      []SeasonInfo `json:"seasons,omitempty"`
	LastAired    *EpisodeRef  `json:"lastAired,omitempty"`
}

// IsAnime reports whether the item is Japanese animation: original
// language "ja" AND the Animation genre present.
func (c CatalogItem) IsAnime() bool {
	if c.OriginalLanguage != "ja" {
		return false
	}
	for _, id := range c.GenreIDs {
		if id == AnimationGenreID {
			return true
		}
	}
	return false
}

// Year returns the release year, or 0 when the date is unknown.
func (c CatalogItem) Year() int {
	if len(c.ReleaseDate) < 4 {
		return 0
	}
	var y int
	if _, err := fmt.Sscanf(c.ReleaseDate[:4], "%d", &y); err != nil {
		return 0
	}
	return y
}

// SeasonInfo is a season summary from a show's detail payload.
type SeasonInfo struct {
	Number       int    `json:"number"`
	EpisodeCount int    `json:"episodeCount"`
	Name         string `json:"name,omitempty"`
	AirDate      string `json:"airDate,omitempty"`
}

// DisplayTitle returns the season name for lists ("Specials" for season 0).
func (s SeasonInfo) DisplayTitle() string {
	if s.Number == 0 {
		return "Specials"
	}
	if s.Name != "" && s.Name != fmt.Sprintf("Season %d", s.Number) {
		return fmt.Sprintf("Season %d: %s", s.Number, s.Name)
	}
	return fmt.Sprintf("Season %d", s.Number)
}

// EpisodeRef identifies an episode position within a show.
type EpisodeRef struct {
	Season  int `json:"season"`
	Episode int `json:"episode"`
}

// EpisodeInfo is a single episode from a season detail payload.
type EpisodeInfo struct {
	Season    int    `json:"season"`
	Episode   int    `json:"episode"`
	Name      string `json:"name,omitempty"`
	Overview  string `json:"overview,omitempty"`
	AirDate   string `json:"airDate,omitempty"`
	StillPath string `json:"stillPath,omitempty"`
	Runtime   int    `json:"runtime,omitempty"` // minutes
}

// Code returns the formatted episode code (e.g., "S01E05").
func (e EpisodeInfo) Code() string {
	return fmt.Sprintf("S%02dE%02d", e.Season, e.Episode)
}
