package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
}

var (
	ThemeDeepSpace = Theme{
		Name:      "deepspace",
		Primary:   lipgloss.Color("#00cccc"),
		Secondary: lipgloss.Color("#ff88ff"),
		Accent:    lipgloss.Color("#ffd700"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#555566"),
		Warning:   lipgloss.Color("#ffaa00"),
		Error:     lipgloss.Color("#ff4444"),
	}

	// Warm palette after the reddened light of receding galaxies.
	ThemeRedshift = Theme{
		Name:      "redshift",
		Primary:   lipgloss.Color("#e8604c"),
		Secondary: lipgloss.Color("#c2410c"),
		Accent:    lipgloss.Color("#fbbf77"),
		Text:      lipgloss.Color("#fdecdc"),
		Muted:     lipgloss.Color("#6b3a33"),
		Warning:   lipgloss.Color("#f5c542"),
		Error:     lipgloss.Color("#d7263d"),
	}

	ThemeAurora = Theme{
		Name:      "aurora",
		Primary:   lipgloss.Color("#3ddc97"),
		Secondary: lipgloss.Color("#7c5cff"),
		Accent:    lipgloss.Color("#46b1c9"),
		Text:      lipgloss.Color("#e6fff4"),
		Muted:     lipgloss.Color("#3b5249"),
		Warning:   lipgloss.Color("#e9c46a"),
		Error:     lipgloss.Color("#e76f51"),
	}

	ThemeMono = Theme{
		Name:      "mono",
		Primary:   lipgloss.Color("#d0d0d0"),
		Secondary: lipgloss.Color("#a8a8a8"),
		Accent:    lipgloss.Color("#f5f5f5"),
		Text:      lipgloss.Color("#e4e4e4"),
		Muted:     lipgloss.Color("#5f5f5f"),
		Warning:   lipgloss.Color("#bcbcbc"),
		Error:     lipgloss.Color("#ffffff"),
	}

	Themes = []Theme{
		ThemeDeepSpace,
		ThemeRedshift,
		ThemeAurora,
		ThemeMono,
	}
)

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeDeepSpace
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
