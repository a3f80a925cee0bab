package controller

import "github.com/charmbracelet/lipgloss"

var (
	accentColor = lipgloss.AdaptiveColor{Light: "4", Dark: "12"}
	dimColor    = lipgloss.AdaptiveColor{Light: "240", Dark: "245"}
	alertColor  = lipgloss.AdaptiveColor{Light: "1", Dark: "9"}
	okColor     = lipgloss.AdaptiveColor{Light: "2", Dark: "10"}
)

// TitleStyle renders region headings.
func TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(accentColor)
}

// DimStyle renders secondary text such as disabled controls.
func DimStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(dimColor)
}

// RegionBorder returns the rounded border drawn around the visible region.
func RegionBorder() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Padding(0, 1)
}

// NotificationStyle renders the post-submit notification.
func NotificationStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(okColor).
		Padding(0, 1)
}

// AlertStyle renders the blocking failure alert.
func AlertStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(alertColor).
		Foreground(alertColor).
		Padding(0, 1)
}

// ButtonStyle renders the submit control, dimmed when not interactive.
func ButtonStyle(enabled bool) lipgloss.Style {
	if enabled {
		return lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	}
	return DimStyle()
}
