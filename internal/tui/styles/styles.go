package styles

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	DeckTeal   = lipgloss.Color("#2DD4BF")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#10B981")
	Red        = lipgloss.Color("#EF4444")
	Amber      = lipgloss.Color("#F59E0B")
)

// Borders
var (
	ActiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DeckTeal)

	InactiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray)

	DialogBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Red).
			Padding(1, 2)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(DeckTeal)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	FavoriteStyle = lipgloss.NewStyle().
			Foreground(Amber)

	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(SlateLight).
				Padding(0, 1)

	NormalItemStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Padding(0, 1)

	TabActiveStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(SlateDark).
			Bold(true).
			Padding(0, 1)

	TabInactiveStyle = lipgloss.NewStyle().
				Foreground(DimGray).
				Padding(0, 1)

	HelpStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Raw watch state characters (unstyled)
const (
	UnwatchedChar = "○"
	WatchedChar   = "✓"
	FavoriteChar  = "♥"
)

// Pre-rendered watch state indicators
var (
	WatchedCheck = lipgloss.NewStyle().Foreground(Green).Render(WatchedChar)
	UnwatchedDot = lipgloss.NewStyle().Foreground(DimGray).Render(UnwatchedChar)
	FavoriteMark = FavoriteStyle.Render(FavoriteChar)
)
