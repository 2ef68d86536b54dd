package theme

import (
	"github.com/gdamore/tcell/v2"
)

// PaperTheme is a light theme whose figures look like printed plots
type PaperTheme struct{}

// NewPaperTheme creates a new paper theme instance
func NewPaperTheme() *PaperTheme {
	return &PaperTheme{}
}

// Name returns the theme name
func (t *PaperTheme) Name() string {
	return "paper"
}

// PanelColors returns the panel color scheme
func (t *PaperTheme) PanelColors() PanelColors {
	return PanelColors{
		Background: tcell.ColorDefault,
		Foreground: tcell.ColorDefault,
		Border:     DOSDarkGray,
		Title:      DOSBlue,
		HeaderBg:   DOSLightGray,
		HeaderFg:   DOSBlack,
		SelectedBg: DOSBlue,
		SelectedFg: DOSWhite,
	}
}

// StatusColors returns the status bar color scheme
func (t *PaperTheme) StatusColors() StatusColors {
	return StatusColors{
		Background:  DOSLightGray,
		Foreground:  DOSBlack,
		HighlightFg: DOSBlue,
		ErrorFg:     DOSRed,
	}
}

// PlotColors returns a white-background figure palette
func (t *PaperTheme) PlotColors() PlotColors {
	return PlotColors{
		Background: DOSWhite,
		Axis:       DOSBlack,
		Grid:       tcell.NewHexColor(0xE0E0E0),
		Line:       tcell.NewHexColor(0x1F77B4),
		Text:       DOSBlack,
	}
}
