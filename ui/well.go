// Package ui specifies custom controls for tview to play tetris in the terminal.
package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"termtris/config"
	"termtris/engine"
	"termtris/types"
)

// Dimensions of a drawn well including its border. Each cell is 2 characters
// wide for a square appearance.
const (
	wellWidth  = types.Width*2 + 2
	wellHeight = types.Height + 2
)

// WellUI draws one player's board with the falling piece.
type WellUI struct {
	Box    *tview.Box
	cfg    *config.Config
	styles [types.Garbage + 1]tcell.Color
	wellBG [2]tcell.Color
	border tcell.Color
	ghost  tcell.Color
	state  engine.GameState
	banner string
}

func NewWell(c *config.Config) *WellUI {
	well := &WellUI{Box: tview.NewBox()}
	well.SetConfig(c)
	well.Box.SetDrawFunc(func(screen tcell.Screen, x int, y int, width int, height int) (int, int, int, int) {
		if width < wellWidth || height < wellHeight {
			drawText(screen, x, y, "window too small", tcell.StyleDefault)
			return x, y, width, height
		}
		// Center horizontally in the allotted space.
		left := x + (width-wellWidth)/2
		well.drawBorder(screen, left, y)
		well.drawCells(screen, left+1, y+1)
		if well.banner != "" {
			well.drawBanner(screen, left+1, y+1+types.Height/2)
		}
		return x, y, width, height
	})
	return well
}

func (w *WellUI) SetConfig(c *config.Config) {
	colors := c.Theme.Colors
	for cell := types.Empty; cell <= types.Garbage; cell++ {
		w.styles[cell] = tcell.PaletteColor(colors.Cell(cell))
	}
	w.wellBG = [2]tcell.Color{tcell.PaletteColor(colors.WellColor), tcell.PaletteColor(colors.WellColorAlt)}
	w.border = tcell.PaletteColor(colors.BorderColor)
	w.ghost = tcell.PaletteColor(colors.GhostColor)
	w.cfg = c
}

// SetState replaces the drawn game.
func (w *WellUI) SetState(s engine.GameState) {
	w.state = s
}

// SetBanner shows text across the middle of the well. An empty string hides it.
func (w *WellUI) SetBanner(text string) {
	w.banner = text
}

func (w *WellUI) drawBorder(screen tcell.Screen, l, t int) {
	style := tcell.StyleDefault.Foreground(w.border)
	for row := t; row < t+wellHeight-1; row++ {
		screen.SetContent(l, row, '│', nil, style)
		screen.SetContent(l+wellWidth-1, row, '│', nil, style)
	}
	bottom := t + wellHeight - 1
	screen.SetContent(l, bottom, '└', nil, style)
	for col := l + 1; col < l+wellWidth-1; col++ {
		screen.SetContent(col, bottom, '─', nil, style)
	}
	screen.SetContent(l+wellWidth-1, bottom, '┘', nil, style)
}

func (w *WellUI) drawCells(screen tcell.Screen, l, t int) {
	s := w.state
	theme := w.cfg.Theme

	view := s.Board
	var ghost types.Board
	if !s.Over {
		view = engine.Place(s.Board, s.Current, s.Position)
		if theme.DrawGhost {
			landing := engine.DropLanding(s.Board, s.Current, s.Position)
			ghost = engine.Place(types.Board{}, s.Current, landing)
		}
	}

	for y := 0; y < types.Height; y++ {
		for x := 0; x < types.Width; x++ {
			bg := w.wellBG[0]
			if theme.CheckeredWell && (x%2+y%2) == 1 {
				bg = w.wellBG[1]
			}
			cell := view[y][x]
			switch {
			case cell.Filled():
				fg := w.styles[cell]
				if theme.DrawBlockBackground {
					bg = fg
				}
				drawBlockCell(screen, tcell.StyleDefault.Background(bg).Foreground(fg), theme.Symbols.Block, x, y, l, t)
			case ghost[y][x].Filled():
				drawBlockCell(screen, tcell.StyleDefault.Background(bg).Foreground(w.ghost), theme.Symbols.Ghost, x, y, l, t)
			default:
				drawBlockCell(screen, tcell.StyleDefault.Background(bg).Foreground(w.border), theme.Symbols.Empty, x, y, l, t)
			}
		}
	}
}

func (w *WellUI) drawBanner(screen tcell.Screen, l, t int) {
	style := tcell.StyleDefault.Background(MenuColors.ButtonBG).Foreground(MenuColors.ButtonText).Bold(true)
	text := []rune(" " + w.banner + " ")
	if len(text) > types.Width*2 {
		text = text[:types.Width*2]
	}
	start := l + (types.Width*2-len(text))/2
	for i, ch := range text {
		screen.SetContent(start+i, t, ch, nil, style)
	}
}

// drawBlockCell draws a cell (2 characters wide)
func drawBlockCell(s tcell.Screen, c tcell.Style, r rune, x, y, l, t int) {
	s.SetContent(l+x*2, t+y, r, nil, c)
	s.SetContent(l+x*2+1, t+y, r, nil, c)
}

// drawText writes a string to the screen at the given position.
func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, ch := range []rune(text) {
		screen.SetContent(x+i, y, ch, nil, style)
	}
}
