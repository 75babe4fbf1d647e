package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/keroda/watchdeck/internal/domain"
)

// Message types for the TUI

// ErrMsg carries a failed operation to the error dialog. Retry, when
// set, re-issues the operation from the dialog.
type ErrMsg struct {
	Err     error
	Context string
	Retry   tea.Cmd
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// TrendingLoadedMsg signals that a trending page has been loaded
type TrendingLoadedMsg struct {
	Items   []domain.CatalogItem
	HasMore bool
	Page    int
	Media   domain.MediaType
}

// SearchResultsMsg signals that catalog search results are ready
type SearchResultsMsg struct {
	Items   []domain.CatalogItem
	HasMore bool
	Page    int
	Query   string
}

// LibraryLoadedMsg signals that a library listing page has been loaded
type LibraryLoadedMsg struct {
	Entries []domain.LibraryEntry
	HasMore bool
	Page    int
	Filter  domain.ListingFilter
}

// DetailLoadedMsg signals that a title's full detail has been loaded
type DetailLoadedMsg struct {
	Item *domain.CatalogItem
}

// SeasonLoadedMsg signals that a season's episodes have been loaded
type SeasonLoadedMsg struct {
	ShowID   int
	Season   int
	Episodes []domain.EpisodeInfo
}

// MarksLoadedMsg signals that a season's watch marks have been loaded
type MarksLoadedMsg struct {
	ShowID int
	Season int
	Marks  []domain.EpisodeWatchMark
}

// EntryLoadedMsg signals that an item's library entry has been loaded
type EntryLoadedMsg struct {
	Entry domain.LibraryEntry
}

// MutationSettledMsg signals that a library mutation settled remotely;
// the carried commands reload the invalidated views.
type MutationSettledMsg struct {
	Reload []tea.Cmd
}

// SignInRequiredMsg signals that a mutation was attempted signed out
type SignInRequiredMsg struct{}
