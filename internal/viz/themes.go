package viz

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// Theme is a color scheme for terminal reports.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Good    lipgloss.Color
	Bad     lipgloss.Color

	// curve colors for target and value in plots
	TargetCurve asciigraph.AnsiColor
	ValueCurve  asciigraph.AnsiColor
}

var (
	ThemeDefault = Theme{
		Name:        "default",
		Primary:     lipgloss.Color("#00ffff"),
		Accent:      lipgloss.Color("#00ccff"),
		Text:        lipgloss.Color("#ffffff"),
		Muted:       lipgloss.Color("#888899"),
		Good:        lipgloss.Color("#00ff88"),
		Bad:         lipgloss.Color("#ff4444"),
		TargetCurve: asciigraph.DarkGray,
		ValueCurve:  asciigraph.Aqua,
	}

	ThemeRetro = Theme{
		Name:        "retro",
		Primary:     lipgloss.Color("#00ff00"),
		Accent:      lipgloss.Color("#88ff88"),
		Text:        lipgloss.Color("#00ff00"),
		Muted:       lipgloss.Color("#005500"),
		Good:        lipgloss.Color("#88ff88"),
		Bad:         lipgloss.Color("#ff0000"),
		TargetCurve: asciigraph.Green,
		ValueCurve:  asciigraph.Lime,
	}

	ThemeMinimal = Theme{
		Name:        "minimal",
		Primary:     lipgloss.Color("#ffffff"),
		Accent:      lipgloss.Color("#0088ff"),
		Text:        lipgloss.Color("#ffffff"),
		Muted:       lipgloss.Color("#888888"),
		Good:        lipgloss.Color("#00ff00"),
		Bad:         lipgloss.Color("#ff0000"),
		TargetCurve: asciigraph.Default,
		ValueCurve:  asciigraph.Default,
	}
)

var themes = map[string]Theme{
	ThemeDefault.Name: ThemeDefault,
	ThemeRetro.Name:   ThemeRetro,
	ThemeMinimal.Name: ThemeMinimal,
}

// ThemeByName looks up a theme. The empty name selects the default.
func ThemeByName(name string) (Theme, error) {
	if name == "" {
		return ThemeDefault, nil
	}
	t, ok := themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme: %s (available: %v)", name, ThemeNames())
	}
	return t, nil
}

func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for n := range themes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
