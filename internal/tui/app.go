package tui

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/keroda/watchdeck/internal/catalog"
	"github.com/keroda/watchdeck/internal/domain"
	"github.com/keroda/watchdeck/internal/library"
	"github.com/keroda/watchdeck/internal/search"
	"github.com/keroda/watchdeck/internal/tui/styles"
)

// ApplicationState represents the current top-level view
type ApplicationState int

const (
	StateLibrary ApplicationState = iota
	StateBrowse
	StateSearch
	StateDetail
)

// statusTabs is the tab order in the library view; the zero status
// means "all".
var statusTabs = []domain.Status{
	domain.StatusNone,
	domain.StatusWatchlist,
	domain.StatusWatching,
	domain.StatusCompleted,
	domain.StatusDropped,
	domain.StatusPaused,
}

// Model is the main Bubble Tea model for the application
type Model struct {
	State     ApplicationState
	prevState ApplicationState

	// Services
	Catalog   *catalog.Service
	Library   *library.Service
	FilterSvc *search.Service
	Logger    *slog.Logger

	keys        KeyMap
	spinner     spinner.Model
	searchInput textinput.Model

	Width  int
	Height int

	Loading      bool
	SignedIn     bool
	signInNotice bool
	errDialog    *ErrMsg

	// Library view
	entries    []domain.LibraryEntry
	libPage    int
	libHasMore bool
	libCursor  int
	tabIdx     int
	favsOnly   bool

	// Browse view
	trending      []domain.CatalogItem
	browseMedia   domain.MediaType
	browsePage    int
	browseHasMore bool
	browseCursor  int

	// Search view
	results       []domain.CatalogItem
	query         string
	searchPage    int
	searchHasMore bool
	searchCursor  int
	typing        bool

	// Detail view
	detail    *domain.CatalogItem
	entry     domain.LibraryEntry
	seasonIdx int
	episodes  []domain.EpisodeInfo
	marks     library.MarkSet
	epCursor  int
}

// New creates the application model
func New(cat *catalog.Service, lib *library.Service, filter *search.Service, signedIn bool, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.AccentStyle

	input := textinput.New()
	input.Placeholder = "search movies and shows"
	input.CharLimit = 100

	return Model{
		State:       StateBrowse,
		Catalog:     cat,
		Library:     lib,
		FilterSvc:   filter,
		Logger:      logger,
		keys:        DefaultKeyMap(),
		spinner:     sp,
		searchInput: input,
		SignedIn:    signedIn,
		browseMedia: domain.MediaTypeMovie,
		browsePage:  1,
		libPage:     1,
		marks:       library.MarkSet{},
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		LoadTrendingCmd(m.Catalog, m.browseMedia, 1),
	)
}

func (m Model) listingFilter() domain.ListingFilter {
	return domain.ListingFilter{
		Status:        statusTabs[m.tabIdx],
		FavoritesOnly: m.favsOnly,
	}
}

// selectedItem returns the catalog item under the cursor, if any.
func (m Model) selectedItem() (domain.CatalogItem, bool) {
	switch m.State {
	case StateLibrary:
		if m.libCursor < len(m.entries) {
			return library.ToCatalogItem(m.entries[m.libCursor]), true
		}
	case StateBrowse:
		if m.browseCursor < len(m.trending) {
			return m.trending[m.browseCursor], true
		}
	case StateSearch:
		if m.searchCursor < len(m.results) {
			return m.results[m.searchCursor], true
		}
	case StateDetail:
		if m.detail != nil {
			return *m.detail, true
		}
	}
	return domain.CatalogItem{}, false
}

func (m Model) currentSeason() (domain.SeasonInfo, bool) {
	if m.detail == nil || m.seasonIdx >= len(m.detail.Seasons) {
		return domain.SeasonInfo{}, false
	}
	return m.detail.Seasons[m.seasonIdx], true
}

func (m *Model) openDetail(item domain.CatalogItem) tea.Cmd {
	if m.State != StateDetail {
		m.prevState = m.State
	}
	m.State = StateDetail
	m.detail = nil
	m.entry = domain.LibraryEntry{}
	m.episodes = nil
	m.marks = library.MarkSet{}
	m.seasonIdx = 0
	m.epCursor = 0
	m.Loading = true

	cmds := []tea.Cmd{LoadDetailCmd(m.Catalog, item.MediaType, item.ID)}
	if m.SignedIn {
		cmds = append(cmds, LoadEntryCmd(m.Library, item))
	}
	return tea.Batch(cmds...)
}

func (m *Model) loadSeason() tea.Cmd {
	season, ok := m.currentSeason()
	if !ok || m.detail == nil {
		return nil
	}
	m.episodes = nil
	m.marks = library.MarkSet{}
	m.epCursor = 0
	cmds := []tea.Cmd{LoadSeasonCmd(m.Catalog, m.detail.ID, season.Number)}
	if m.SignedIn {
		cmds = append(cmds, LoadMarksCmd(m.Library, m.detail.ID, season.Number))
	}
	return tea.Batch(cmds...)
}

func (m *Model) reloadLibrary() tea.Cmd {
	m.Loading = true
	return LoadLibraryCmd(m.Library, m.listingFilter(), m.libPage)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ErrMsg:
		m.Loading = false
		m.errDialog = &msg
		m.Logger.Error("operation failed", "context", msg.Context, "error", msg.Err)
		return m, nil

	case SignInRequiredMsg:
		m.Loading = false
		m.signInNotice = true
		return m, nil

	case TrendingLoadedMsg:
		m.Loading = false
		m.trending = msg.Items
		m.browseMedia = msg.Media
		m.browsePage = msg.Page
		m.browseHasMore = msg.HasMore
		m.browseCursor = 0
		m.FilterSvc.Index(msg.Items)
		return m, nil

	case SearchResultsMsg:
		m.Loading = false
		if msg.Query != m.query {
			// A stale search settled after the query changed.
			return m, nil
		}
		m.results = msg.Items
		m.searchPage = msg.Page
		m.searchHasMore = msg.HasMore
		m.searchCursor = 0
		m.FilterSvc.Index(msg.Items)
		return m, nil

	case LibraryLoadedMsg:
		m.Loading = false
		m.entries = msg.Entries
		m.libPage = msg.Page
		m.libHasMore = msg.HasMore
		if m.libCursor >= len(m.entries) {
			m.libCursor = 0
		}
		return m, nil

	case DetailLoadedMsg:
		m.Loading = false
		m.detail = msg.Item
		if msg.Item.MediaType == domain.MediaTypeTV && len(msg.Item.Seasons) > 0 {
			// Land on the first regular season, not specials.
			m.seasonIdx = 0
			for i, s := range msg.Item.Seasons {
				if s.Number > 0 {
					m.seasonIdx = i
					break
				}
			}
			cmd := m.loadSeason()
			return m, cmd
		}
		return m, nil

	case SeasonLoadedMsg:
		if m.detail == nil || msg.ShowID != m.detail.ID {
			return m, nil
		}
		if season, ok := m.currentSeason(); !ok || season.Number != msg.Season {
			return m, nil
		}
		m.episodes = msg.Episodes
		return m, nil

	case MarksLoadedMsg:
		if m.detail == nil || msg.ShowID != m.detail.ID {
			return m, nil
		}
		if season, ok := m.currentSeason(); !ok || season.Number != msg.Season {
			return m, nil
		}
		m.marks = library.NewMarkSet(msg.Marks)
		return m, nil

	case EntryLoadedMsg:
		m.entry = msg.Entry
		return m, nil

	case MutationSettledMsg:
		cmds := msg.Reload
		if m.State == StateLibrary {
			cmds = append(cmds, m.reloadLibrary())
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The error dialog captures all input while visible.
	if m.errDialog != nil {
		switch {
		case key.Matches(msg, m.keys.Confirm):
			retry := m.errDialog.Retry
			m.errDialog = nil
			if retry != nil {
				m.Loading = true
				return m, tea.Batch(m.spinner.Tick, retry)
			}
			return m, nil
		case key.Matches(msg, m.keys.Dismiss), key.Matches(msg, m.keys.Quit):
			m.errDialog = nil
			return m, nil
		}
		return m, nil
	}

	if m.signInNotice {
		m.signInNotice = false
	}

	// Search input swallows keys while focused.
	if m.State == StateSearch && m.typing {
		switch msg.String() {
		case "enter":
			m.typing = false
			m.searchInput.Blur()
			m.query = m.searchInput.Value()
			if m.query == "" {
				return m, nil
			}
			m.Loading = true
			return m, tea.Batch(m.spinner.Tick, SearchCatalogCmd(m.Catalog, m.query, 1))
		case "esc":
			m.typing = false
			m.searchInput.Blur()
			m.State = m.prevState
			return m, nil
		}
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Library):
		m.State = StateLibrary
		cmd := m.reloadLibrary()
		return m, cmd

	case key.Matches(msg, m.keys.Browse):
		m.State = StateBrowse
		if len(m.trending) == 0 {
			m.Loading = true
			return m, tea.Batch(m.spinner.Tick, LoadTrendingCmd(m.Catalog, m.browseMedia, 1))
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		if m.State != StateSearch {
			m.prevState = m.State
		}
		m.State = StateSearch
		m.typing = true
		m.searchInput.Focus()
		return m, textinput.Blink
	}

	switch m.State {
	case StateLibrary:
		return m.handleLibraryKey(msg)
	case StateBrowse:
		return m.handleBrowseKey(msg)
	case StateSearch:
		return m.handleSearchKey(msg)
	case StateDetail:
		return m.handleDetailKey(msg)
	}
	return m, nil
}

// statusForKey maps a status hotkey to its status, if any.
func (m Model) statusForKey(msg tea.KeyMsg) (domain.Status, bool) {
	switch {
	case key.Matches(msg, m.keys.Watchlist):
		return domain.StatusWatchlist, true
	case key.Matches(msg, m.keys.Watching):
		return domain.StatusWatching, true
	case key.Matches(msg, m.keys.Completed):
		return domain.StatusCompleted, true
	case key.Matches(msg, m.keys.Dropped):
		return domain.StatusDropped, true
	case key.Matches(msg, m.keys.Paused):
		return domain.StatusPaused, true
	}
	return domain.StatusNone, false
}

func (m Model) handleItemAction(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	item, ok := m.selectedItem()
	if !ok {
		return m, nil, false
	}
	if status, ok := m.statusForKey(msg); ok {
		return m, SetStatusCmd(m.Library, item, status), true
	}
	if key.Matches(msg, m.keys.Favorite) {
		return m, ToggleFavoriteCmd(m.Library, item), true
	}
	return m, nil, false
}

func (m Model) handleLibraryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.libCursor > 0 {
			m.libCursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.libCursor < len(m.entries)-1 {
			m.libCursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Tab):
		m.tabIdx = (m.tabIdx + 1) % len(statusTabs)
		m.libPage = 1
		cmd := m.reloadLibrary()
		return m, cmd
	case key.Matches(msg, m.keys.Filter):
		m.favsOnly = !m.favsOnly
		m.libPage = 1
		cmd := m.reloadLibrary()
		return m, cmd
	case key.Matches(msg, m.keys.Right):
		if m.libHasMore {
			m.libPage++
			cmd := m.reloadLibrary()
			return m, cmd
		}
		return m, nil
	case key.Matches(msg, m.keys.Left):
		if m.libPage > 1 {
			m.libPage--
			cmd := m.reloadLibrary()
			return m, cmd
		}
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		cmd := m.reloadLibrary()
		return m, cmd
	case key.Matches(msg, m.keys.Enter):
		if item, ok := m.selectedItem(); ok {
			cmd := m.openDetail(item)
			return m, cmd
		}
		return m, nil
	}
	if model, cmd, handled := m.handleItemAction(msg); handled {
		return model, cmd
	}
	return m, nil
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.browseCursor > 0 {
			m.browseCursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.browseCursor < len(m.trending)-1 {
			m.browseCursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Tab):
		if m.browseMedia == domain.MediaTypeMovie {
			m.browseMedia = domain.MediaTypeTV
		} else {
			m.browseMedia = domain.MediaTypeMovie
		}
		m.Loading = true
		return m, tea.Batch(m.spinner.Tick, LoadTrendingCmd(m.Catalog, m.browseMedia, 1))
	case key.Matches(msg, m.keys.Right):
		if m.browseHasMore {
			m.Loading = true
			return m, tea.Batch(m.spinner.Tick, LoadTrendingCmd(m.Catalog, m.browseMedia, m.browsePage+1))
		}
		return m, nil
	case key.Matches(msg, m.keys.Left):
		if m.browsePage > 1 {
			m.Loading = true
			return m, tea.Batch(m.spinner.Tick, LoadTrendingCmd(m.Catalog, m.browseMedia, m.browsePage-1))
		}
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		if item, ok := m.selectedItem(); ok {
			cmd := m.openDetail(item)
			return m, cmd
		}
		return m, nil
	}
	if model, cmd, handled := m.handleItemAction(msg); handled {
		return model, cmd
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.searchCursor > 0 {
			m.searchCursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.searchCursor < len(m.results)-1 {
			m.searchCursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Right):
		if m.searchHasMore {
			m.Loading = true
			return m, tea.Batch(m.spinner.Tick, SearchCatalogCmd(m.Catalog, m.query, m.searchPage+1))
		}
		return m, nil
	case key.Matches(msg, m.keys.Left):
		if m.searchPage > 1 {
			m.Loading = true
			return m, tea.Batch(m.spinner.Tick, SearchCatalogCmd(m.Catalog, m.query, m.searchPage-1))
		}
		return m, nil
	case key.Matches(msg, m.keys.Back):
		m.State = m.prevState
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		if item, ok := m.selectedItem(); ok {
			cmd := m.openDetail(item)
			return m, cmd
		}
		return m, nil
	}
	if model, cmd, handled := m.handleItemAction(msg); handled {
		return model, cmd
	}
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.State = m.prevState
		return m, nil
	case key.Matches(msg, m.keys.Up):
		if m.epCursor > 0 {
			m.epCursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.epCursor < len(m.episodes)-1 {
			m.epCursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Left):
		if m.detail != nil && m.seasonIdx > 0 {
			m.seasonIdx--
			cmd := m.loadSeason()
			return m, cmd
		}
		return m, nil
	case key.Matches(msg, m.keys.Right):
		if m.detail != nil && m.seasonIdx < len(m.detail.Seasons)-1 {
			m.seasonIdx++
			cmd := m.loadSeason()
			return m, cmd
		}
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		if m.detail != nil && m.detail.MediaType == domain.MediaTypeTV {
			m.Loading = true
			return m, tea.Batch(m.spinner.Tick, RefreshShowCmd(m.Catalog, m.detail.ID))
		}
		return m, nil
	case key.Matches(msg, m.keys.ToggleEpisode):
		if m.detail != nil && m.epCursor < len(m.episodes) {
			ep := m.episodes[m.epCursor]
			ref := domain.EpisodeRef{Season: ep.Season, Episode: ep.Episode}
			return m, ToggleEpisodeCmd(m.Library, *m.detail, ref)
		}
		return m, nil
	case key.Matches(msg, m.keys.ToggleSeason):
		if season, ok := m.currentSeason(); ok {
			return m, ToggleSeasonCmd(m.Library, *m.detail, season)
		}
		return m, nil
	case key.Matches(msg, m.keys.ToggleShow):
		if season, ok := m.currentSeason(); ok {
			return m, ToggleShowCmd(m.Library, *m.detail, season.Number)
		}
		return m, nil
	}
	if model, cmd, handled := m.handleItemAction(msg); handled {
		return model, cmd
	}
	return m, nil
}
