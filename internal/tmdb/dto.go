package tmdb

// pagedResponse is the envelope for list endpoints
type pagedResponse struct {
	Page         int      `json:"page"`
	Results      []result `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// result is one item from a list endpoint. Movies carry title/
// release_date; shows carry name/first_air_date. media_type is only
// present on multi-search and trending/all responses.
type result struct {
	ID               int     `json:"id"`
	MediaType        string  `json:"media_type,omitempty"`
	Title            string  `json:"title,omitempty"`
	Name             string  `json:"name,omitempty"`
	Overview         string  `json:"overview,omitempty"`
	PosterPath       string  `json:"poster_path,omitempty"`
	BackdropPath     string  `json:"backdrop_path,omitempty"`
	ReleaseDate      string  `json:"release_date,omitempty"`
	FirstAirDate     string  `json:"first_air_date,omitempty"`
	VoteAverage      float64 `json:"vote_average,omitempty"`
	GenreIDs         []int   `json:"genre_ids,omitempty"`
	OriginalLanguage string  `json:"original_language,omitempty"`
}

// genre appears on detail payloads instead of genre_ids
type genre struct {
	ID   int    `json:"id"`
	Name string `json:"name,omitempty"`
}

// movieDetail is the /movie/{id} payload
type movieDetail struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview,omitempty"`
	PosterPath       string  `json:"poster_path,omitempty"`
	BackdropPath     string  `json:"backdrop_path,omitempty"`
	ReleaseDate      string  `json:"release_date,omitempty"`
	VoteAverage      float64 `json:"vote_average,omitempty"`
	Genres           []genre `json:"genres,omitempty"`
	OriginalLanguage string  `json:"original_language,omitempty"`
	Runtime          int     `json:"runtime,omitempty"`
}

// tvDetail is the /tv/{id} payload
type tvDetail struct {
	ID               int           `json:"id"`
	Name             string        `json:"name"`
	Overview         string        `json:"overview,omitempty"`
	PosterPath       string        `json:"poster_path,omitempty"`
	BackdropPath     string        `json:"backdrop_path,omitempty"`
	FirstAirDate     string        `json:"first_air_date,omitempty"`
	VoteAverage      float64       `json:"vote_average,omitempty"`
	Genres           []genre       `json:"genres,omitempty"`
	OriginalLanguage string        `json:"original_language,omitempty"`
	NumberOfEpisodes int           `json:"number_of_episodes,omitempty"`
	NumberOfSeasons  int           `json:"number_of_seasons,omitempty"`
	Seasons          []seasonBrief `json:"seasons,omitempty"`
	LastEpisodeToAir *episodeBrief `json:"last_episode_to_air,omitempty"`
}

// seasonBrief is a season summary inside /tv/{id}
type seasonBrief struct {
	SeasonNumber int    `json:"season_number"`
	EpisodeCount int    `json:"episode_count"`
	Name         string `json:"name,omitempty"`
	AirDate      string `json:"air_date,omitempty"`
}

// episodeBrief is the last_episode_to_air summary
type episodeBrief struct {
	SeasonNumber  int `json:"season_number"`
	EpisodeNumber int `json:"episode_number"`
}

// seasonDetail is the /tv/{id}/season/{n} payload
type seasonDetail struct {
	SeasonNumber int              `json:"season_number"`
	Episodes     []episodePayload `json:"episodes,omitempty"`
}

// episodePayload is one episode inside a season detail
type episodePayload struct {
	SeasonNumber  int    `json:"season_number"`
	EpisodeNumber int    `json:"episode_number"`
	Name          string `json:"name,omitempty"`
	Overview      string `json:"overview,omitempty"`
	AirDate       string `json:"air_date,omitempty"`
	StillPath     string `json:"still_path,omitempty"`
	Runtime       int    `json:"runtime,omitempty"`
}

// apiError is the error envelope for non-2xx responses
type apiError struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}
