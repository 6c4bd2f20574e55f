package ui

import "github.com/charmbracelet/lipgloss"

// Palette, as 256-color codes.
const (
	ColorAccent    = "39"  // headers, tags
	ColorAccentDim = "31"  // ids
	ColorWhite     = "255" // titles
	ColorGray      = "245" // labels, dates
	ColorDarkGray  = "238" // separators
	ColorGreen     = "114"
	ColorRed       = "196"
	ColorYellow    = "220"
)

// Styles holds the lipgloss styles used by CLI output.
type Styles struct {
	Header  lipgloss.Style
	Title   lipgloss.Style
	ID      lipgloss.Style
	Tag     lipgloss.Style
	Date    lipgloss.Style
	Label   lipgloss.Style
	Dim     lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Panel   lipgloss.Style
}

// DefaultStyles returns colored styles for terminals.
func DefaultStyles() Styles {
	fg := func(c string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(c)) }
	return Styles{
		Header:  fg(ColorAccent).Bold(true),
		Title:   fg(ColorWhite),
		ID:      fg(ColorAccentDim),
		Tag:     fg(ColorAccent),
		Date:    fg(ColorGray),
		Label:   fg(ColorGray),
		Dim:     fg(ColorDarkGray),
		Success: fg(ColorGreen),
		Warning: fg(ColorYellow),
		Error:   fg(ColorRed),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorDarkGray)).
			Padding(0, 1),
	}
}

// NoColorStyles returns unstyled components for pipes and NO_COLOR.
func NoColorStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Header:  plain,
		Title:   plain,
		ID:      plain,
		Tag:     plain,
		Date:    plain,
		Label:   plain,
		Dim:     plain,
		Success: plain,
		Warning: plain,
		Error:   plain,
		Panel:   plain,
	}
}

// GetStyles returns the styles for the given color preference.
func GetStyles(noColor bool) Styles {
	if noColor {
		return NoColorStyles()
	}
	return DefaultStyles()
}
