package theme

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// ThemedComponents provides convenience factory functions for creating themed components
// while still allowing manual styling using theme properties
type ThemedComponents struct {
	theme Theme
}

// NewThemedComponents creates a new themed components factory
func NewThemedComponents(theme Theme) *ThemedComponents {
	return &ThemedComponents{theme: theme}
}

// NewList creates a bordered list with theme applied
func (tc *ThemedComponents) NewList(title string) *tview.List {
	list := tview.NewList()
	colors := tc.theme.PanelColors()

	list.SetBackgroundColor(colors.Background)
	list.SetMainTextColor(colors.Foreground)
	list.SetSelectedTextColor(colors.SelectedFg)
	list.SetSelectedBackgroundColor(colors.SelectedBg)
	list.SetBorderColor(colors.Border)
	list.SetTitleColor(colors.Title)
	list.ShowSecondaryText(false)
	list.SetBorder(true)
	list.SetTitle(" " + title + " ")

	return list
}

// NewTable creates a bordered, row-selectable table with theme applied
func (tc *ThemedComponents) NewTable(title string) *tview.Table {
	table := tview.NewTable()
	colors := tc.theme.PanelColors()

	table.SetBackgroundColor(colors.Background)
	table.SetBorderColor(colors.Border)
	table.SetTitleColor(colors.Title)
	table.SetSelectedStyle(tcell.StyleDefault.
		Background(colors.SelectedBg).
		Foreground(colors.SelectedFg))
	table.SetFixed(1, 0)
	table.SetSelectable(true, false)
	table.SetBorder(true)
	table.SetTitle(" " + title + " ")

	return table
}

// NewHeaderCell creates a non-selectable header cell
func (tc *ThemedComponents) NewHeaderCell(text string) *tview.TableCell {
	colors := tc.theme.PanelColors()
	return tview.NewTableCell(text).
		SetTextColor(colors.HeaderFg).
		SetBackgroundColor(colors.HeaderBg).
		SetAlign(tview.AlignRight).
		SetSelectable(false).
		SetExpansion(1)
}

// NewStatusBar creates a one-line text view styled as a status bar
func (tc *ThemedComponents) NewStatusBar() *tview.TextView {
	status := tview.NewTextView()
	colors := tc.theme.StatusColors()

	status.SetBackgroundColor(colors.Background)
	status.SetTextColor(colors.Foreground)
	status.SetDynamicColors(true)

	return status
}
