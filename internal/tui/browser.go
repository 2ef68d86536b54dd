// Package tui is an interactive terminal browser for a loaded iteration
// log: pick a field on the left, read its ranking on the right.
package tui

import (
	"fmt"
	"io"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"vaspio/internal/log"
	"vaspio/internal/oszicar"
	"vaspio/internal/plot"
	"vaspio/internal/theme"
)

const helpText = "r=reverse  p=save plot  Tab=switch pane  q=quit"

// Browser is the tview application around one parser
type Browser struct {
	app        *tview.Application
	parser     *oszicar.Parser
	components *theme.ThemedComponents

	root   *tview.Flex
	fields *tview.List
	table  *tview.Table
	status *tview.TextView

	rows    int
	reverse bool
	field   string
}

// NewBrowser builds the layout for p. rows limits the ranking table; 0
// shows every step.
func NewBrowser(p *oszicar.Parser, rows int) *Browser {
	components := theme.NewThemedComponents(theme.Current())

	b := &Browser{
		app:        tview.NewApplication(),
		parser:     p,
		components: components,
		fields:     components.NewList("Fields"),
		table:      components.NewTable("Ranking"),
		status:     components.NewStatusBar(),
		rows:       rows,
	}

	for _, name := range Fields(p) {
		b.fields.AddItem(name, "", 0, nil)
	}
	b.fields.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		b.selectField(mainText)
	})
	b.fields.SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		b.app.SetFocus(b.table)
	})

	body := tview.NewFlex().
		AddItem(b.fields, 20, 0, true).
		AddItem(b.table, 0, 1, false)
	b.root = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(body, 0, 1, true).
		AddItem(b.status, 1, 0, false)

	b.app.SetRoot(b.root, true).SetFocus(b.fields)
	b.app.SetInputCapture(b.handleKey)

	if fields := Fields(p); len(fields) > 0 {
		b.selectField(fields[0])
	} else {
		b.setStatus(Summary(p), false)
	}
	return b
}

// Run blocks until the user quits. Log output on stderr is muted while the
// screen is owned by the browser.
func (b *Browser) Run() error {
	if log.Writer() == os.Stderr {
		log.SetOutput(io.Discard)
		defer log.SetOutput(os.Stderr)
	}
	return b.app.Run()
}

// Stop ends Run
func (b *Browser) Stop() {
	b.app.Stop()
}

func (b *Browser) handleKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyTab:
		if b.app.GetFocus() == b.table {
			b.app.SetFocus(b.fields)
		} else {
			b.app.SetFocus(b.table)
		}
		return nil
	case tcell.KeyEscape:
		b.app.SetFocus(b.fields)
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case 'q':
			b.Stop()
			return nil
		case 'r':
			b.reverse = !b.reverse
			b.refresh()
			return nil
		case 'p':
			b.savePlot()
			return nil
		}
	}
	return event
}

func (b *Browser) selectField(name string) {
	b.field = name
	b.refresh()
}

func (b *Browser) refresh() {
	if b.field == "" {
		return
	}

	ranking, err := BuildRanking(b.parser, b.field, b.rows, b.reverse)
	if err != nil {
		b.setStatus(err.Error(), true)
		return
	}

	b.table.Clear()
	for col, text := range ranking.Header {
		b.table.SetCell(0, col, b.components.NewHeaderCell(text))
	}
	colors := theme.Current().PanelColors()
	for row, values := range ranking.Rows {
		for col, text := range values {
			b.table.SetCell(row+1, col, tview.NewTableCell(text).
				SetTextColor(colors.Foreground).
				SetAlign(tview.AlignRight).
				SetExpansion(1))
		}
	}
	b.table.ScrollToBeginning()

	order := "smallest first"
	if b.reverse {
		order = "largest first"
	}
	b.table.SetTitle(fmt.Sprintf(" %s (%s) ", b.field, order))
	b.setStatus(Summary(b.parser), false)
}

func (b *Browser) savePlot() {
	if b.field == "" {
		return
	}
	fig, err := b.parser.PlotSeries(b.field, plot.ModeSave)
	if err != nil {
		b.setStatus(err.Error(), true)
		return
	}
	b.setStatus("saved "+fig.Path, false)
}

func (b *Browser) setStatus(text string, isError bool) {
	colors := theme.Current().StatusColors()
	color := colors.Foreground
	if isError {
		color = colors.ErrorFg
	}
	b.status.SetText(fmt.Sprintf(" [%s]%s[-]  |  %s", color.String(), tview.Escape(text), helpText))
}
