package theme

import (
	"github.com/gdamore/tcell/v2"
)

// Standard ANSI 16-color palette using fixed hex values
var (
	DOSBlack     = tcell.NewHexColor(0x000000)
	DOSRed       = tcell.NewHexColor(0x800000)
	DOSGreen     = tcell.NewHexColor(0x008000)
	DOSBrown     = tcell.NewHexColor(0x808000)
	DOSBlue      = tcell.NewHexColor(0x000080)
	DOSMagenta   = tcell.NewHexColor(0x800080)
	DOSCyan      = tcell.NewHexColor(0x008080)
	DOSLightGray = tcell.NewHexColor(0xC0C0C0)

	DOSDarkGray     = tcell.NewHexColor(0x808080)
	DOSLightRed     = tcell.NewHexColor(0xFF0000)
	DOSLightGreen   = tcell.NewHexColor(0x00FF00)
	DOSYellow       = tcell.NewHexColor(0xFFFF00)
	DOSLightBlue    = tcell.NewHexColor(0x0000FF)
	DOSLightMagenta = tcell.NewHexColor(0xFF00FF)
	DOSLightCyan    = tcell.NewHexColor(0x00FFFF)
	DOSWhite        = tcell.NewHexColor(0xFFFFFF)
)

// TelixTheme implements the classic Telix DOS terminal theme
type TelixTheme struct{}

// NewTelixTheme creates a new Telix theme instance
func NewTelixTheme() *TelixTheme {
	return &TelixTheme{}
}

// Name returns the theme name
func (t *TelixTheme) Name() string {
	return "telix"
}

// PanelColors returns the panel color scheme
func (t *TelixTheme) PanelColors() PanelColors {
	return PanelColors{
		Background: DOSBlack,
		Foreground: DOSLightGray,
		Border:     DOSLightGray,
		Title:      DOSYellow,
		HeaderBg:   DOSBlue,
		HeaderFg:   DOSWhite,
		SelectedBg: DOSRed,
		SelectedFg: DOSWhite,
	}
}

// StatusColors returns the status bar color scheme
func (t *TelixTheme) StatusColors() StatusColors {
	return StatusColors{
		Background:  DOSBlue,
		Foreground:  DOSLightGray,
		HighlightFg: DOSYellow,
		ErrorFg:     DOSLightRed,
	}
}

// PlotColors returns a dark figure palette
func (t *TelixTheme) PlotColors() PlotColors {
	return PlotColors{
		Background: DOSBlack,
		Axis:       DOSLightGray,
		Grid:       tcell.NewHexColor(0x303030),
		Line:       DOSLightCyan,
		Text:       DOSLightGray,
	}
}
