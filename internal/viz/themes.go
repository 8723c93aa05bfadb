package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the colors of rendered output. Ramp runs from the lowest
// to the highest value of a heatmap.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Muted   lipgloss.Color
	Ramp    []lipgloss.Color
}

// Available themes
var (
	// ThemeJet approximates matplotlib's jet colormap.
	ThemeJet = Theme{
		Name:    "jet",
		Primary: lipgloss.Color("#00ffff"),
		Muted:   lipgloss.Color("#666688"),
		Ramp: []lipgloss.Color{
			"#00007f", "#0000ff", "#007fff", "#00ffff", "#7fff7f",
			"#ffff00", "#ff7f00", "#ff0000", "#7f0000",
		},
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Primary: lipgloss.Color("#0077be"),
		Muted:   lipgloss.Color("#4488aa"),
		Ramp: []lipgloss.Color{
			"#001a33", "#003366", "#0077be", "#00a8cc", "#66d9ef", "#e0f0ff",
		},
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Ramp: []lipgloss.Color{
			"#002200", "#005500", "#008800", "#00cc00", "#00ff00", "#88ff88",
		},
	}

	Themes = []Theme{
		ThemeJet,
		ThemeOcean,
		ThemeRetroGreen,
	}
)

// GetTheme returns a theme by name, falling back to jet.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeJet
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// color returns the ramp color for a level in [0, 1].
func (t Theme) color(level float64) lipgloss.Color {
	if len(t.Ramp) == 0 {
		return t.Primary
	}
	i := int(level*float64(len(t.Ramp)-1) + 0.5)
	if i < 0 {
		i = 0
	}
	if i >= len(t.Ramp) {
		i = len(t.Ramp) - 1
	}
	return t.Ramp[i]
}
