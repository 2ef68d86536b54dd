package theme

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/gdamore/tcell/v2"
)

// PanelColors defines color scheme for the browser panels
type PanelColors struct {
	Background tcell.Color
	Foreground tcell.Color
	Border     tcell.Color
	Title      tcell.Color
	HeaderBg   tcell.Color
	HeaderFg   tcell.Color
	SelectedBg tcell.Color
	SelectedFg tcell.Color
}

// StatusColors defines color scheme for the status bar
type StatusColors struct {
	Background  tcell.Color
	Foreground  tcell.Color
	HighlightFg tcell.Color
	ErrorFg     tcell.Color
}

// PlotColors defines the colors used when rendering figures
type PlotColors struct {
	Background tcell.Color
	Axis       tcell.Color
	Grid       tcell.Color
	Line       tcell.Color
	Text       tcell.Color
}

// Theme interface defines all theming properties
type Theme interface {
	// Name returns the theme name
	Name() string

	PanelColors() PanelColors
	StatusColors() StatusColors
	PlotColors() PlotColors
}

// ThemeManager manages theme selection
type ThemeManager struct {
	currentTheme Theme
	themes       map[string]Theme
}

// NewThemeManager creates a new theme manager with the built-in themes registered
func NewThemeManager() *ThemeManager {
	tm := &ThemeManager{
		themes: make(map[string]Theme),
	}

	tm.RegisterTheme(NewTelixTheme())
	tm.RegisterTheme(NewPaperTheme())

	tm.SetTheme("paper")

	return tm
}

// RegisterTheme registers a new theme
func (tm *ThemeManager) RegisterTheme(theme Theme) {
	tm.themes[theme.Name()] = theme
}

// SetTheme sets the current theme by name
func (tm *ThemeManager) SetTheme(name string) error {
	if theme, exists := tm.themes[name]; exists {
		tm.currentTheme = theme
		return nil
	}
	return fmt.Errorf("theme '%s' not found", name)
}

// Current returns the current theme
func (tm *ThemeManager) Current() Theme {
	return tm.currentTheme
}

// Available returns the sorted list of available theme names
func (tm *ThemeManager) Available() []string {
	names := make([]string, 0, len(tm.themes))
	for name := range tm.themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Global theme manager instance
var defaultThemeManager = NewThemeManager()

// GetThemeManager returns the global theme manager
func GetThemeManager() *ThemeManager {
	return defaultThemeManager
}

// Current returns the current theme from the global manager
func Current() Theme {
	return defaultThemeManager.Current()
}

// SetTheme selects a theme on the global manager
func SetTheme(name string) error {
	return defaultThemeManager.SetTheme(name)
}

// RGBA converts a tcell color into an image color. Unset or invalid
// colors become opaque black.
func RGBA(c tcell.Color) color.RGBA {
	r, g, b := c.RGB()
	if r < 0 || g < 0 || b < 0 {
		return color.RGBA{A: 255}
	}
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}
}
