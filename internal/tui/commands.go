package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/keroda/watchdeck/internal/catalog"
	"github.com/keroda/watchdeck/internal/domain"
	"github.com/keroda/watchdeck/internal/library"
)

// Command factories for async operations. Reads run under bounded
// contexts; mutations run unbounded because pending is a valid state
// and the optimistic value already covers the wait.

const readTimeout = 30 * time.Second

// LoadTrendingCmd loads one page of trending titles
func LoadTrendingCmd(cat *catalog.Service, media domain.MediaType, page int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
		defer cancel()

		items, hasMore, err := cat.Trending(ctx, media, page)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading trending", Retry: LoadTrendingCmd(cat, media, page)}
		}
		return TrendingLoadedMsg{Items: items, HasMore: hasMore, Page: page, Media: media}
	}
}

// SearchCatalogCmd searches the catalog
func SearchCatalogCmd(cat *catalog.Service, query string, page int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
		defer cancel()

		items, hasMore, err := cat.Search(ctx, query, page)
		if err != nil {
			return ErrMsg{Err: err, Context: "searching catalog", Retry: SearchCatalogCmd(cat, query, page)}
		}
		return SearchResultsMsg{Items: items, HasMore: hasMore, Page: page, Query: query}
	}
}

// LoadDetailCmd loads a title's full detail
func LoadDetailCmd(cat *catalog.Service, media domain.MediaType, id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
		defer cancel()

		item, err := cat.GetDetail(ctx, media, id)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading detail", Retry: LoadDetailCmd(cat, media, id)}
		}
		return DetailLoadedMsg{Item: item}
	}
}

// LoadSeasonCmd loads a season's episode list
func LoadSeasonCmd(cat *catalog.Service, showID, season int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
		defer cancel()

		episodes, err := cat.GetSeason(ctx, showID, season)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading season", Retry: LoadSeasonCmd(cat, showID, season)}
		}
		return SeasonLoadedMsg{ShowID: showID, Season: season, Episodes: episodes}
	}
}

// RefreshShowCmd refetches a show's metadata, dropping the disk cache
func RefreshShowCmd(cat *catalog.Service, id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
		defer cancel()

		item, err := cat.RefreshShow(ctx, id)
		if err != nil {
			return ErrMsg{Err: err, Context: "refreshing show", Retry: RefreshShowCmd(cat, id)}
		}
		return DetailLoadedMsg{Item: item}
	}
}

// LoadLibraryCmd loads one page of the user's library
func LoadLibraryCmd(lib *library.Service, filter domain.ListingFilter, page int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
		defer cancel()

		entries, hasMore, err := lib.Listing(ctx, filter, page)
		if errors.Is(err, domain.ErrNotSignedIn) {
			return SignInRequiredMsg{}
		}
		if err != nil {
			return ErrMsg{Err: err, Context: "loading library", Retry: LoadLibraryCmd(lib, filter, page)}
		}
		return LibraryLoadedMsg{Entries: entries, HasMore: hasMore, Page: page, Filter: filter}
	}
}

// LoadEntryCmd loads a title's library entry
func LoadEntryCmd(lib *library.Service, item domain.CatalogItem) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
		defer cancel()

		entry, err := lib.Entry(ctx, item)
		if errors.Is(err, domain.ErrNotSignedIn) {
			return SignInRequiredMsg{}
		}
		if err != nil {
			return ErrMsg{Err: err, Context: "loading entry", Retry: LoadEntryCmd(lib, item)}
		}
		return EntryLoadedMsg{Entry: entry}
	}
}

// LoadMarksCmd loads a season's watch marks
func LoadMarksCmd(lib *library.Service, showID, season int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
		defer cancel()

		marks, err := lib.SeasonMarks(ctx, showID, season)
		if errors.Is(err, domain.ErrNotSignedIn) {
			return SignInRequiredMsg{}
		}
		if err != nil {
			return ErrMsg{Err: err, Context: "loading watch marks", Retry: LoadMarksCmd(lib, showID, season)}
		}
		return MarksLoadedMsg{ShowID: showID, Season: season, Marks: marks}
	}
}

// mutationCmd wraps a library mutation: sign-out becomes a prompt,
// failure becomes a retryable dialog, success reloads the views the
// mutation invalidated.
func mutationCmd(name string, run func(context.Context) error, reload ...tea.Cmd) tea.Cmd {
	var cmd tea.Cmd
	cmd = func() tea.Msg {
		err := run(context.Background())
		if errors.Is(err, domain.ErrNotSignedIn) {
			return SignInRequiredMsg{}
		}
		if err != nil {
			return ErrMsg{Err: err, Context: name, Retry: cmd}
		}
		return MutationSettledMsg{Reload: reload}
	}
	return cmd
}

// ToggleEpisodeCmd flips one episode's watched state
func ToggleEpisodeCmd(lib *library.Service, item domain.CatalogItem, ref domain.EpisodeRef) tea.Cmd {
	return mutationCmd("toggling episode",
		func(ctx context.Context) error { return lib.ToggleEpisode(ctx, item, ref) },
		LoadMarksCmd(lib, item.ID, ref.Season),
		LoadEntryCmd(lib, item),
	)
}

// ToggleSeasonCmd flips a whole season's watched state
func ToggleSeasonCmd(lib *library.Service, item domain.CatalogItem, season domain.SeasonInfo) tea.Cmd {
	return mutationCmd("toggling season",
		func(ctx context.Context) error { return lib.ToggleSeason(ctx, item, season) },
		LoadMarksCmd(lib, item.ID, season.Number),
		LoadEntryCmd(lib, item),
	)
}

// ToggleShowCmd flips a whole show's watched state
func ToggleShowCmd(lib *library.Service, item domain.CatalogItem, season int) tea.Cmd {
	return mutationCmd("toggling show",
		func(ctx context.Context) error { return lib.ToggleShowWatched(ctx, item) },
		LoadMarksCmd(lib, item.ID, season),
		LoadEntryCmd(lib, item),
	)
}

// SetStatusCmd applies the tri-state status toggle
func SetStatusCmd(lib *library.Service, item domain.CatalogItem, status domain.Status) tea.Cmd {
	return mutationCmd("updating status",
		func(ctx context.Context) error { return lib.SetStatus(ctx, item, status) },
		LoadEntryCmd(lib, item),
	)
}

// ToggleFavoriteCmd flips the favorite flag
func ToggleFavoriteCmd(lib *library.Service, item domain.CatalogItem) tea.Cmd {
	return mutationCmd("toggling favorite",
		func(ctx context.Context) error { return lib.ToggleFavorite(ctx, item) },
		LoadEntryCmd(lib, item),
	)
}
