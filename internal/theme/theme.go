package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// TitleStyle is used for the pane title.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	MarginBottom(1)

// ButtonStyle is the base style for an unselected button.
var ButtonStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder).
	Foreground(ColorWhite)

// PrimaryButtonStyle highlights the selected quick pick.
var PrimaryButtonStyle = ButtonStyle.
	Bold(true).
	BorderForeground(ColorBlue).
	Foreground(ColorBlue)

// FocusedButtonStyle marks the button under the cursor.
var FocusedButtonStyle = ButtonStyle.
	BorderForeground(ColorYellow)

// DisabledStyle dims controls while a request is in flight.
var DisabledStyle = lipgloss.NewStyle().
	Foreground(ColorSubtle)

// SuccessBannerStyle renders a success message bar.
var SuccessBannerStyle = lipgloss.NewStyle().
	Bold(true).
	Padding(0, 1).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorGreen).
	Foreground(ColorGreen)

// ErrorBannerStyle renders an error message bar.
var ErrorBannerStyle = SuccessBannerStyle.
	BorderForeground(ColorRed).
	Foreground(ColorRed)

// PromptStyle frames the blocked-send dialog body.
var PromptStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorYellow)

// LabelStyle is used for field labels.
var LabelStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// PanelStyle wraps the whole pane.
var PanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)
