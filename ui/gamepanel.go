package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"termtris/engine"
	"termtris/types"
)

// GameInfoPanel displays score, level and the next piece alongside a well.
type GameInfoPanel struct {
	box     *tview.TextView
	title   string
	state   engine.GameState
	garbage int
	bonus   int
	versus  bool
}

// NewGameInfoPanel creates a new game info panel.
func NewGameInfoPanel(title string) *GameInfoPanel {
	panel := &GameInfoPanel{
		box:   tview.NewTextView(),
		title: title,
	}

	panel.box.SetDynamicColors(true)
	panel.box.SetBorder(false)
	panel.box.SetTextAlign(tview.AlignLeft)

	return panel
}

// Box returns the underlying tview component.
func (p *GameInfoPanel) Box() *tview.TextView {
	return p.box
}

// SetTitle changes the heading shown above the stats.
func (p *GameInfoPanel) SetTitle(title string) {
	p.title = title
	p.refresh()
}

// SetGame updates the panel with a single-player state.
func (p *GameInfoPanel) SetGame(s engine.GameState) {
	p.state = s
	p.versus = false
	p.refresh()
}

// SetPlayer updates the panel with one side of a versus match.
func (p *GameInfoPanel) SetPlayer(s engine.PlayerState) {
	p.state = s.GameState
	p.garbage = s.GarbageQueue
	p.bonus = s.LevelBonus
	p.versus = true
	p.refresh()
}

// refresh updates the panel text.
func (p *GameInfoPanel) refresh() {
	var b strings.Builder

	fmt.Fprintf(&b, "[white::b]%s[-:-:-]\n", p.title)
	b.WriteString("[dimgray]──────────────[-:-:-]\n")
	fmt.Fprintf(&b, "[white]Score:[-:-:-] %d\n", p.state.Score)
	fmt.Fprintf(&b, "[white]Lines:[-:-:-] %d\n", p.state.Lines)
	fmt.Fprintf(&b, "[white]Level:[-:-:-] %d", p.state.Level)
	if p.versus && p.bonus > 0 {
		fmt.Fprintf(&b, " [yellow](+%d)[-]", p.bonus)
	}
	b.WriteString("\n")
	if p.versus {
		color := "white"
		if p.garbage > 0 {
			color = "red"
		}
		fmt.Fprintf(&b, "[white]Garbage:[-:-:-] [%s]%d[-]\n", color, p.garbage)
	}

	b.WriteString("\n[white::b]Next[-:-:-]\n")
	b.WriteString("[dimgray]──────────────[-:-:-]\n")
	b.WriteString(previewPiece(p.state.Next))

	if p.state.Over {
		b.WriteString("\n[red::b]TOPPED OUT[-:-:-]\n")
	}

	p.box.SetText(b.String())
}

// previewPiece renders t as text, trimming empty rows.
func previewPiece(t types.Tetromino) string {
	var b strings.Builder
	for _, row := range t.Shape {
		line := ""
		empty := true
		for _, filled := range row {
			if filled {
				line += "██"
				empty = false
			} else {
				line += "  "
			}
		}
		if !empty {
			b.WriteString("  " + strings.TrimRight(line, " ") + "\n")
		}
	}
	return b.String()
}

// CreateGameLayout creates the single-player layout with the well and side panel.
func CreateGameLayout(well *WellUI, panel *GameInfoPanel, hint *tview.TextView) *tview.Flex {
	// Create horizontal flex: well | info panel
	boardRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	boardRow.AddItem(nil, 0, 1, false)
	boardRow.AddItem(well.Box, wellWidth+2, 0, true)
	boardRow.AddItem(panel.Box(), 20, 0, false)
	boardRow.AddItem(nil, 0, 1, false)

	// Main vertical flex: board area on top, compact status bar at bottom
	mainFlex := tview.NewFlex().SetDirection(tview.FlexRow)
	mainFlex.AddItem(boardRow, 0, 1, true)
	mainFlex.AddItem(hint, 2, 0, false)

	return mainFlex
}

// CreateVersusLayout places both wells side by side, each with its panel.
func CreateVersusLayout(wells [2]*WellUI, panels [2]*GameInfoPanel, hint *tview.TextView) *tview.Flex {
	boardRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	boardRow.AddItem(nil, 0, 1, false)
	boardRow.AddItem(panels[0].Box(), 18, 0, false)
	boardRow.AddItem(wells[0].Box, wellWidth+2, 0, true)
	boardRow.AddItem(nil, 4, 0, false)
	boardRow.AddItem(wells[1].Box, wellWidth+2, 0, false)
	boardRow.AddItem(panels[1].Box(), 18, 0, false)
	boardRow.AddItem(nil, 0, 1, false)

	mainFlex := tview.NewFlex().SetDirection(tview.FlexRow)
	mainFlex.AddItem(boardRow, 0, 1, true)
	mainFlex.AddItem(hint, 2, 0, false)

	return mainFlex
}

// CreateCenteredForm creates a centered form container for the setup screen.
func CreateCenteredForm(form tview.Primitive, maxWidth int) *tview.Flex {
	centered := tview.NewFlex().SetDirection(tview.FlexColumn)
	centered.AddItem(nil, 0, 1, false)
	centered.AddItem(form, maxWidth, 0, true)
	centered.AddItem(nil, 0, 1, false)

	return centered
}
