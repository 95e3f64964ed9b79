package listing

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/rv32tools/rv32asm/parser"
)

// Browser is a read-only interactive viewer over a finished symbol table:
// no stepping or breakpoint surface, since nothing here executes code.
type Browser struct {
	App   *tview.Application
	Table *tview.Table

	symbols *parser.SymbolTable
}

// NewBrowser builds a Browser over st.
func NewBrowser(st *parser.SymbolTable) *Browser {
	b := &Browser{
		App:     tview.NewApplication(),
		Table:   tview.NewTable(),
		symbols: st,
	}

	b.Table.SetBorders(true).SetBorder(true).SetTitle(" Symbols (q to quit) ")
	b.Table.SetSelectable(true, false)
	b.populate()

	b.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC || event.Rune() == 'q' {
			b.App.Stop()
			return nil
		}
		return event
	})

	return b
}

func (b *Browser) populate() {
	headers := []string{"Name", "Kind", "Value", "References"}
	for col, h := range headers {
		b.Table.SetCell(0, col, tview.NewTableCell(h).
			SetSelectable(false).
			SetTextColor(tcell.ColorYellow).
			SetAlign(tview.AlignCenter))
	}

	for row, sym := range b.symbols.GetAllSymbols() {
		r := row + 1
		b.Table.SetCell(r, 0, tview.NewTableCell(sym.Name))
		b.Table.SetCell(r, 1, tview.NewTableCell(sym.Kind.String()))
		b.Table.SetCell(r, 2, tview.NewTableCell(fmt.Sprintf("0x%08X", uint32(sym.Value))))
		b.Table.SetCell(r, 3, tview.NewTableCell(fmt.Sprintf("%d", sym.RefCount)))
	}
}

// Run blocks, driving the browser until the user quits.
func (b *Browser) Run() error {
	return b.App.SetRoot(b.Table, true).SetFocus(b.Table).Run()
}
