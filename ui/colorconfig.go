package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"termtris/config"
	"termtris/types"
)

// ColorConfigUI lets the player pick a palette color for each kind of block.
type ColorConfigUI struct {
	flex      *tview.Flex
	colorList *tview.List
	preview   *tview.Box
	cfg       *config.Config
	settings  config.SettingsStore
	colors    config.ConfigColors
	target    int
	name      string
	onDone    func(saved *config.Config, err error)
}

// colorTargets are the cells the picker cycles through with Tab.
// types.Empty stands for the well background.
var colorTargets = []types.Cell{
	types.CellI, types.CellO, types.CellT, types.CellS,
	types.CellZ, types.CellJ, types.CellL, types.Garbage, types.Empty,
}

var palette = []struct {
	code int
	name string
}{
	{51, "Cyan"},
	{45, "Turquoise"},
	{226, "Yellow"},
	{220, "Gold"},
	{129, "Purple"},
	{171, "Orchid"},
	{46, "Green"},
	{34, "Forest"},
	{196, "Red"},
	{160, "Crimson"},
	{21, "Blue"},
	{33, "Sky Blue"},
	{208, "Orange"},
	{214, "Amber"},
	{244, "Gray"},
	{250, "Light Gray"},
	{255, "White"},
	{236, "Charcoal"},
	{234, "Dark Gray"},
	{232, "Black"},
	{17, "Navy"},
}

// NewColorConfig creates the color screen. onDone receives the saved config,
// or the error from settings; it is called with a nil config when cancelled.
func NewColorConfig(cfg *config.Config, settings config.SettingsStore, onDone func(saved *config.Config, err error)) *ColorConfigUI {
	cc := &ColorConfigUI{
		cfg:      cfg,
		settings: settings,
		colors:   cfg.Theme.Colors,
		onDone:   onDone,
	}

	cc.colorList = tview.NewList()
	cc.colorList.SetBorder(true)
	cc.colorList.ShowSecondaryText(false)
	for i, c := range palette {
		cc.colorList.AddItem(fmt.Sprintf("[#%06x]████[-] %s (%d)",
			tcell.PaletteColor(c.code).Hex(), c.name, c.code),
			"", rune('a'+i), nil)
	}

	cc.colorList.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		if index >= 0 && index < len(palette) {
			cc.apply(palette[index].code)
		}
	})
	cc.colorList.SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		cc.save()
	})
	cc.colorList.SetInputCapture(cc.handleInput)

	cc.preview = tview.NewBox()
	cc.preview.SetBorder(true)
	cc.preview.SetTitle(" Preview ")
	cc.preview.SetDrawFunc(cc.drawPreview)

	cc.flex = tview.NewFlex().
		AddItem(cc.colorList, 32, 0, true).
		AddItem(cc.preview, 0, 1, false)

	cc.selectTarget(0)
	return cc
}

func (cc *ColorConfigUI) Flex() *tview.Flex {
	return cc.flex
}

// Reset discards unsaved picks and reloads the colors from cfg.
func (cc *ColorConfigUI) Reset(cfg *config.Config) {
	cc.cfg = cfg
	cc.colors = cfg.Theme.Colors
	cc.selectTarget(0)
}

func (cc *ColorConfigUI) current() types.Cell {
	return colorTargets[cc.target]
}

func (cc *ColorConfigUI) colorOf(cell types.Cell) int {
	if cell == types.Empty {
		return cc.colors.WellColor
	}
	return cc.colors.Cell(cell)
}

func (cc *ColorConfigUI) apply(code int) {
	cell := cc.current()
	if cell == types.Empty {
		cc.colors.WellColor = code
		cc.colors.WellColorAlt = code
		return
	}
	cc.colors.SetCell(cell, code)
}

func (cc *ColorConfigUI) selectTarget(i int) {
	cc.target = (i + len(colorTargets)) % len(colorTargets)
	cell := cc.current()
	name := "Well"
	if cell != types.Empty {
		name = cell.String() + " piece"
		if cell == types.Garbage {
			name = "Garbage"
		}
	}
	cc.name = name
	cc.colorList.SetTitle(fmt.Sprintf(" %s (Tab: next) ", name))

	// SetCurrentItem fires the changed func, so restore the color afterwards.
	code := cc.colorOf(cell)
	for i, c := range palette {
		if c.code == code {
			cc.colorList.SetCurrentItem(i)
			break
		}
	}
	cc.apply(code)
}

func (cc *ColorConfigUI) save() {
	next := cc.cfg.Clone()
	next.Theme.Colors = cc.colors
	if err := next.Validate(); err != nil {
		cc.onDone(nil, err)
		return
	}
	if err := cc.settings.Save(&next); err != nil {
		cc.onDone(nil, err)
		return
	}
	cc.cfg = &next
	cc.onDone(cc.cfg, nil)
}

func (cc *ColorConfigUI) handleInput(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyTab:
		cc.selectTarget(cc.target + 1)
		return nil
	case tcell.KeyBacktab:
		cc.selectTarget(cc.target - 1)
		return nil
	case tcell.KeyEscape:
		cc.colors = cc.cfg.Theme.Colors
		cc.onDone(nil, nil)
		return nil
	}
	return event
}

// previewRows is a small well with one of each piece locked in it.
var previewRows = []string{
	"..........",
	"....T.....",
	"...TTT..O.",
	"I......OO.",
	"I.SS..JLL.",
	"ISSZZ.JJL#",
	"I..ZZ.JL.#",
	"#########.",
}

func (cc *ColorConfigUI) drawPreview(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	startX := x + 2
	startY := y + 1
	if width < types.Width*2+4 || height < len(previewRows)+4 {
		return x, y, width, height
	}

	symbols := cc.cfg.Theme.Symbols
	well := tcell.PaletteColor(cc.colors.WellColor)
	border := tcell.PaletteColor(cc.colors.BorderColor)
	for row, line := range previewRows {
		for col, ch := range line {
			cell := previewCell(ch)
			style := tcell.StyleDefault.Background(well).Foreground(border)
			r := symbols.Empty
			if cell.Filled() {
				fg := tcell.PaletteColor(cc.colors.Cell(cell))
				style = tcell.StyleDefault.Background(well).Foreground(fg)
				if cc.cfg.Theme.DrawBlockBackground {
					style = style.Background(fg)
				}
				r = symbols.Block
			}
			drawBlockCell(screen, style, r, col, row, startX, startY)
		}
	}

	info := fmt.Sprintf("Editing: %s  color %d", cc.name, cc.colorOf(cc.current()))
	drawText(screen, startX, startY+len(previewRows)+1, info, tcell.StyleDefault.Foreground(MenuColors.Label))
	drawText(screen, startX, startY+len(previewRows)+2, "Enter: save   Esc: cancel", tcell.StyleDefault.Foreground(MenuColors.Hint))
	return x, y, width, height
}

func previewCell(ch rune) types.Cell {
	switch ch {
	case '#':
		return types.Garbage
	case '.':
		return types.Empty
	}
	for p := types.I; p <= types.L; p++ {
		if p.String() == string(ch) {
			return p.Cell()
		}
	}
	return types.Empty
}
