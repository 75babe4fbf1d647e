package library

import "github.com/keroda/watchdeck/internal/domain"

// MarkSet is the sparse watched-episode set for one show: membership
// means watched, absence means unwatched. No dense array is ever
// allocated, so unknown episode counts cost nothing.
type MarkSet map[domain.EpisodeKey]struct{}

// NewMarkSet builds the set from remote (or cached) mark rows.
func NewMarkSet(marks []domain.EpisodeWatchMark) MarkSet {
	set := make(MarkSet, len(marks))
	for _, m := range marks {
		set[m.Key()] = struct{}{}
	}
	return set
}

// Contains reports whether the episode is watched.
func (s MarkSet) Contains(season, episode int) bool {
	_, ok := s[domain.EpisodeKey{Season: season, Episode: episode}]
	return ok
}

// CountSeason returns the number of watched episodes in the season.
func (s MarkSet) CountSeason(season int) int {
	n := 0
	for k := range s {
		if k.Season == season {
			n++
		}
	}
	return n
}

// SeasonComplete reports whether every episode of the season is
// watched. A season with no known episodes is never complete.
func SeasonComplete(set MarkSet, season, episodeCount int) bool {
	return episodeCount > 0 && set.CountSeason(season) >= episodeCount
}

// SeasonWatchBound returns how many episodes of the season may be
// marked watched by a show-level bulk operation:
//
//   - specials (season 0) are always excluded,
//   - seasons before the last-aired season count in full,
//   - the last-aired season is clamped to its last aired episode,
//   - seasons after the boundary have nothing aired.
//
// A nil boundary means nothing is known to have aired.
func SeasonWatchBound(season domain.SeasonInfo, lastAired *domain.EpisodeRef) int {
	if season.Number == 0 || lastAired == nil {
		return 0
	}
	switch {
	case season.Number < lastAired.Season:
		return season.EpisodeCount
	case season.Number == lastAired.Season:
		return min(season.EpisodeCount, lastAired.Episode)
	default:
		return 0
	}
}

// SeasonBound pairs a season number with its bulk-watch bound.
type SeasonBound struct {
	Season int
	Count  int
}

// ShowWatchPlan lists, per aired season, how many episodes a
// show-level "mark watched" covers. Seasons with nothing aired are
// omitted entirely.
func ShowWatchPlan(item *domain.CatalogItem) []SeasonBound {
	var plan []SeasonBound
	for _, season := range item.Seasons {
		bound := SeasonWatchBound(season, item.LastAired)
		if bound > 0 {
			plan = append(plan, SeasonBound{Season: season.Number, Count: bound})
		}
	}
	return plan
}

// SeasonMarks materializes the mark rows for episodes 1..count of one
// season, used for optimistic bulk writes.
func SeasonMarks(userID string, tmdbID, season, count int) []domain.EpisodeWatchMark {
	marks := make([]domain.EpisodeWatchMark, 0, count)
	for ep := 1; ep <= count; ep++ {
		marks = append(marks, domain.EpisodeWatchMark{
			UserID:  userID,
			TMDBID:  tmdbID,
			Season:  season,
			Episode: ep,
		})
	}
	return marks
}
