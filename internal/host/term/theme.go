package term

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colours of the status line.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Warning   lipgloss.Color
}

var (
	ThemeNebula = Theme{
		Name:      "nebula",
		Primary:   lipgloss.Color("#a855f7"),
		Secondary: lipgloss.Color("#3b82f6"),
		Accent:    lipgloss.Color("#4b0082"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#666688"),
		Warning:   lipgloss.Color("#ffaa00"),
	}

	ThemeCyberpunk = Theme{
		Name:      "cyberpunk",
		Primary:   lipgloss.Color("#ff00ff"),
		Secondary: lipgloss.Color("#00ffff"),
		Accent:    lipgloss.Color("#ffff00"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#666666"),
		Warning:   lipgloss.Color("#ff8800"),
	}

	ThemeRetro = Theme{
		Name:      "retro",
		Primary:   lipgloss.Color("#00ff00"),
		Secondary: lipgloss.Color("#00cc00"),
		Accent:    lipgloss.Color("#88ff88"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
		Warning:   lipgloss.Color("#ffff00"),
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Accent:    lipgloss.Color("#0088ff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
		Warning:   lipgloss.Color("#ffaa00"),
	}
)

var themes = map[string]Theme{
	ThemeNebula.Name:    ThemeNebula,
	ThemeCyberpunk.Name: ThemeCyberpunk,
	ThemeRetro.Name:     ThemeRetro,
	ThemeMinimal.Name:   ThemeMinimal,
}

func GetTheme(name string) (Theme, bool) {
	t, ok := themes[name]
	return t, ok
}

func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// next returns the theme after t in name order.
func next(t Theme) Theme {
	names := ThemeNames()
	for i, name := range names {
		if name == t.Name {
			return themes[names[(i+1)%len(names)]]
		}
	}
	return ThemeNebula
}
