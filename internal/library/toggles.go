package library

import (
	"context"
	"time"

	"github.com/keroda/watchdeck/internal/cache"
	"github.com/keroda/watchdeck/internal/domain"
)

func cachedMarks(prev any, present bool) []domain.EpisodeWatchMark {
	if !present {
		return nil
	}
	marks, ok := prev.([]domain.EpisodeWatchMark)
	if !ok {
		return nil
	}
	return marks
}

func intPtr(v int) *int { return &v }

func stampMarks(marks []domain.EpisodeWatchMark) []domain.EpisodeWatchMark {
	now := time.Now().UTC()
	for i := range marks {
		marks[i].WatchedAt = now
	}
	return marks
}

// ToggleEpisode flips the watched state of a single episode. Watching
// an episode also tracks the show if it is not in the library yet.
func (s *Service) ToggleEpisode(ctx context.Context, item domain.CatalogItem, ref domain.EpisodeRef) error {
	if err := s.requireSession(); err != nil {
		return err
	}

	marks, err := s.SeasonMarks(ctx, item.ID, ref.Season)
	if err != nil {
		return err
	}
	watched := NewMarkSet(marks).Contains(ref.Season, ref.Episode)

	marksKey := cache.MarksKey(s.userID, item.ID, ref.Season)
	mark := domain.EpisodeWatchMark{
		UserID:    s.userID,
		TMDBID:    item.ID,
		Season:    ref.Season,
		Episode:   ref.Episode,
		WatchedAt: time.Now().UTC(),
	}

	spec := mutationSpec{
		name: "toggle episode",
		updates: []keyUpdate{{
			key: marksKey,
			apply: func(prev any, present bool) any {
				cur := cachedMarks(prev, present)
				if watched {
					out := make([]domain.EpisodeWatchMark, 0, len(cur))
					for _, m := range cur {
						if m.Season == ref.Season && m.Episode == ref.Episode {
							continue
						}
						out = append(out, m)
					}
					return out
				}
				out := make([]domain.EpisodeWatchMark, len(cur), len(cur)+1)
				copy(out, cur)
				return append(out, mark)
			},
		}},
		invalidateKeys:     []cache.Key{cache.EntryKey(s.userID, item.MediaType, item.ID)},
		invalidatePrefixes: []cache.Key{cache.ListingPrefix(s.userID)},
	}

	if watched {
		spec.remote = func(ctx context.Context) error {
			return s.backend.DeleteMarks(ctx, domain.MarkMatch{
				UserID:  s.userID,
				TMDBID:  item.ID,
				Season:  intPtr(ref.Season),
				Episode: intPtr(ref.Episode),
			})
		}
	} else {
		spec.remote = func(ctx context.Context) error {
			if err := s.backend.EnsureEntry(ctx, ToLibraryEntry(s.userID, item)); err != nil {
				return err
			}
			return s.backend.UpsertMarks(ctx, []domain.EpisodeWatchMark{mark})
		}
	}

	return s.runMutation(ctx, spec)
}

// ToggleSeason flips a season between fully watched and unwatched: it
// clears the season when every aired episode is marked, and marks it
// in full otherwise.
func (s *Service) ToggleSeason(ctx context.Context, item domain.CatalogItem, season domain.SeasonInfo) error {
	if err := s.requireSession(); err != nil {
		return err
	}

	bound := SeasonWatchBound(season, item.LastAired)
	if bound == 0 {
		return nil
	}

	marks, err := s.SeasonMarks(ctx, item.ID, season.Number)
	if err != nil {
		return err
	}
	complete := SeasonComplete(NewMarkSet(marks), season.Number, bound)

	return s.MarkSeason(ctx, item, season, !complete)
}

// MarkSeason sets the watched state of a season to an explicit value.
// Marking an already-complete season again leaves the mark set
// unchanged, as does clearing an empty one.
func (s *Service) MarkSeason(ctx context.Context, item domain.CatalogItem, season domain.SeasonInfo, watched bool) error {
	if err := s.requireSession(); err != nil {
		return err
	}

	bound := SeasonWatchBound(season, item.LastAired)
	if bound == 0 {
		return nil
	}

	marksKey := cache.MarksKey(s.userID, item.ID, season.Number)
	full := stampMarks(SeasonMarks(s.userID, item.ID, season.Number, bound))

	spec := mutationSpec{
		name: "mark season",
		updates: []keyUpdate{{
			key: marksKey,
			apply: func(any, bool) any {
				if watched {
					return full
				}
				return []domain.EpisodeWatchMark{}
			},
		}},
		invalidateKeys:     []cache.Key{cache.EntryKey(s.userID, item.MediaType, item.ID)},
		invalidatePrefixes: []cache.Key{cache.ListingPrefix(s.userID)},
	}

	if watched {
		spec.remote = func(ctx context.Context) error {
			if err := s.backend.EnsureEntry(ctx, ToLibraryEntry(s.userID, item)); err != nil {
				return err
			}
			return s.backend.UpsertMarks(ctx, full)
		}
	} else {
		spec.remote = func(ctx context.Context) error {
			return s.backend.DeleteMarks(ctx, domain.MarkMatch{
				UserID: s.userID,
				TMDBID: item.ID,
				Season: intPtr(season.Number),
			})
		}
	}

	return s.runMutation(ctx, spec)
}

// ToggleShowWatched flips a show between fully watched and unwatched:
// it clears all marks when every aired season is complete, and marks
// the show in full otherwise.
func (s *Service) ToggleShowWatched(ctx context.Context, item domain.CatalogItem) error {
	if err := s.requireSession(); err != nil {
		return err
	}

	plan := ShowWatchPlan(&item)
	if len(plan) == 0 {
		return nil
	}

	complete := true
	for _, sb := range plan {
		marks, err := s.SeasonMarks(ctx, item.ID, sb.Season)
		if err != nil {
			return err
		}
		if !SeasonComplete(NewMarkSet(marks), sb.Season, sb.Count) {
			complete = false
			break
		}
	}

	return s.MarkShowWatched(ctx, item, !complete)
}

// MarkShowWatched sets the watched state of every aired, non-specials
// season to an explicit value. Specials (season 0) and unaired seasons
// are never touched, and repeating a direction leaves the mark set
// unchanged.
func (s *Service) MarkShowWatched(ctx context.Context, item domain.CatalogItem, watched bool) error {
	if err := s.requireSession(); err != nil {
		return err
	}

	plan := ShowWatchPlan(&item)
	if len(plan) == 0 {
		return nil
	}

	var allMarks []domain.EpisodeWatchMark
	spec := mutationSpec{
		name:               "mark show watched",
		invalidateKeys:     []cache.Key{cache.EntryKey(s.userID, item.MediaType, item.ID)},
		invalidatePrefixes: []cache.Key{cache.ListingPrefix(s.userID)},
	}
	for _, sb := range plan {
		full := stampMarks(SeasonMarks(s.userID, item.ID, sb.Season, sb.Count))
		if watched {
			allMarks = append(allMarks, full...)
		}
		spec.updates = append(spec.updates, keyUpdate{
			key: cache.MarksKey(s.userID, item.ID, sb.Season),
			apply: func(any, bool) any {
				if watched {
					return full
				}
				return []domain.EpisodeWatchMark{}
			},
		})
	}

	if watched {
		spec.remote = func(ctx context.Context) error {
			if err := s.backend.EnsureEntry(ctx, ToLibraryEntry(s.userID, item)); err != nil {
				return err
			}
			return s.backend.UpsertMarks(ctx, allMarks)
		}
	} else {
		// Per-season deletes: a show-wide match would also clear
		// specials, which this operation never touches.
		spec.remote = func(ctx context.Context) error {
			for _, sb := range plan {
				match := domain.MarkMatch{
					UserID: s.userID,
					TMDBID: item.ID,
					Season: intPtr(sb.Season),
				}
				if err := s.backend.DeleteMarks(ctx, match); err != nil {
					return err
				}
			}
			return nil
		}
	}

	return s.runMutation(ctx, spec)
}
