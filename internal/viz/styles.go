package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Styles holds the rendered styles of one theme.
type Styles struct {
	Theme  Theme
	Title  lipgloss.Style
	Header lipgloss.Style
	Label  lipgloss.Style
	Value  lipgloss.Style
	Muted  lipgloss.Style
	Good   lipgloss.Style
	Bad    lipgloss.Style
	Panel  lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Theme: t,
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Text).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Muted),
		Label: lipgloss.NewStyle().Foreground(t.Muted),
		Value: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		Muted: lipgloss.NewStyle().Foreground(t.Muted),
		Good:  lipgloss.NewStyle().Foreground(t.Good).Bold(true),
		Bad:   lipgloss.NewStyle().Foreground(t.Bad).Bold(true),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 1),
	}
}

// Default is the style set of ThemeDefault.
var Default = NewStyles(ThemeDefault)

// KeyValues renders "label: value" lines in a panel, in the given order.
func (s Styles) KeyValues(title string, keys []string, values map[string]string) string {
	var b strings.Builder
	b.WriteString(s.Title.Render(title))
	for _, k := range keys {
		b.WriteString("\n")
		b.WriteString(s.Label.Render(k + ":"))
		b.WriteString(" ")
		b.WriteString(s.Value.Render(values[k]))
	}
	return s.Panel.Render(b.String())
}

// MetricsTable renders metrics sorted by name. Non-finite values are
// highlighted as failures.
func (s Styles) MetricsTable(m map[string]float64) string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.Muted).
		Headers("METRIC", "VALUE")
	for _, n := range names {
		t.Row(n, FormatFloat(m[n]))
	}
	t.StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return s.Title.Padding(0, 1)
		case col == 0:
			return s.Label.Padding(0, 1)
		}
		if row >= 0 && row < len(names) && !finite(m[names[row]]) {
			return s.Bad.Padding(0, 1)
		}
		return s.Value.Padding(0, 1)
	})
	return t.Render()
}

// Sparkline renders a one-line summary of values, resampled to width.
func (s Styles) Sparkline(values []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(values) == 0 {
		return s.Muted.Render(strings.Repeat("─", width))
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if !finite(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	rng := hi - lo
	if rng <= 0 || math.IsInf(rng, 0) || math.IsNaN(rng) {
		rng = 1
	}

	step := len(values) / width
	if step < 1 {
		step = 1
	}
	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		v := values[i*step]
		if !finite(v) {
			b.WriteString(s.Bad.Render("!"))
			continue
		}
		idx := int((v - lo) / rng * float64(len(chars)-1))
		idx = max(0, min(idx, len(chars)-1))
		b.WriteRune(chars[idx])
	}
	return s.Value.Render(b.String())
}

// Separator renders a muted horizontal rule.
func (s Styles) Separator(width int) string {
	if width < 8 {
		width = 8
	}
	mid := width / 2
	return s.Muted.Render(strings.Repeat("─", mid-3) + " ◆ " + strings.Repeat("─", width-mid-3))
}

func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	return fmt.Sprintf("%.6f", v)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
