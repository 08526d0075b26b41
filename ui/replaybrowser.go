package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"termtris/config"
	"termtris/engine"
	"termtris/replay"
	"termtris/types"
)

// ReplayBrowserUI provides a screen for browsing recorded games.
type ReplayBrowserUI struct {
	flex     *tview.Flex
	list     *tview.List
	preview  *tview.Box
	hint     *tview.TextView
	cfg      *config.Config
	dir      string
	replays  []replay.Info
	outcomes map[string]*replay.Outcome // cached final positions by path
	selected int
	onDone   func()
}

// NewReplayBrowser creates a browser over the replays stored in dir.
func NewReplayBrowser(c *config.Config, dir string, onDone func()) *ReplayBrowserUI {
	rb := &ReplayBrowserUI{
		cfg:      c,
		dir:      dir,
		onDone:   onDone,
		outcomes: make(map[string]*replay.Outcome),
	}

	rb.list = tview.NewList()
	rb.list.SetBorder(true)
	rb.list.SetTitle(" Replays ")
	rb.list.ShowSecondaryText(false)
	rb.list.SetHighlightFullLine(true)
	rb.list.SetMainTextStyle(tcell.StyleDefault.Foreground(MenuColors.Label))
	rb.list.SetSelectedStyle(tcell.StyleDefault.
		Foreground(MenuColors.ButtonText).
		Background(MenuColors.ButtonFocus))

	rb.preview = tview.NewBox()
	rb.preview.SetBorder(true)
	rb.preview.SetTitle(" Final position ")
	rb.preview.SetDrawFunc(rb.drawPreview)

	rb.hint = tview.NewTextView()
	rb.hint.SetDynamicColors(true)
	rb.hint.SetBorder(false)
	rb.hint.SetText("  [dimgray]d[-] delete  [dimgray]q[-] back")

	rb.list.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		rb.selected = index
	})
	rb.list.SetInputCapture(rb.handleInput)

	topRow := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(rb.list, 40, 0, true).
		AddItem(rb.preview, 0, 1, false)

	rb.flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(topRow, 0, 1, true).
		AddItem(rb.hint, 1, 0, false)

	rb.load()
	return rb
}

func (rb *ReplayBrowserUI) Flex() *tview.Flex {
	return rb.flex
}

// SetDir points the browser at another directory and reloads.
func (rb *ReplayBrowserUI) SetDir(dir string) {
	rb.dir = dir
	rb.Refresh()
}

// Refresh reloads the replay list from disk.
func (rb *ReplayBrowserUI) Refresh() {
	rb.outcomes = make(map[string]*replay.Outcome)
	rb.load()
}

func (rb *ReplayBrowserUI) load() {
	rb.list.Clear()
	rb.replays = nil
	rb.selected = 0

	replays, err := replay.ListReplays(rb.dir)
	if err != nil {
		debugLog.Printf("list replays in %s: %v", rb.dir, err)
	}
	if len(replays) == 0 {
		rb.list.AddItem("[dimgray]No replays found[-]", "", 0, nil)
		return
	}

	rb.replays = replays
	for _, info := range replays {
		result := info.Result
		if result == "" {
			result = "..."
		}
		label := fmt.Sprintf("%s  %-6s  %s", info.Date, info.Mode, tview.Escape(result))
		rb.list.AddItem(label, "", 0, nil)
	}
}

func (rb *ReplayBrowserUI) handleInput(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEscape:
		if rb.onDone != nil {
			rb.onDone()
		}
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case 'q':
			if rb.onDone != nil {
				rb.onDone()
			}
			return nil
		case 'd':
			rb.deleteSelected()
			return nil
		}
	}
	return event
}

func (rb *ReplayBrowserUI) deleteSelected() {
	if rb.selected < 0 || rb.selected >= len(rb.replays) {
		return
	}
	path := rb.replays[rb.selected].FilePath
	if err := os.Remove(path); err != nil {
		debugLog.Printf("delete replay %s: %v", path, err)
	}
	rb.Refresh()
}

// outcome replays the file once and caches the result.
func (rb *ReplayBrowserUI) outcome(info replay.Info) *replay.Outcome {
	if o, ok := rb.outcomes[info.FilePath]; ok {
		return o
	}
	o, err := replay.ReplayToEnd(info.FilePath)
	if err != nil {
		debugLog.Printf("replay %s: %v", info.FilePath, err)
	}
	rb.outcomes[info.FilePath] = o
	return o
}

func (rb *ReplayBrowserUI) drawPreview(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	if rb.selected < 0 || rb.selected >= len(rb.replays) {
		return x, y, width, height
	}
	info := rb.replays[rb.selected]
	o := rb.outcome(info)
	startX := x + 2
	startY := y + 1

	infoStyle := tcell.StyleDefault.Foreground(MenuColors.Label)
	dimStyle := tcell.StyleDefault.Foreground(MenuColors.Hint)
	resultStyle := tcell.StyleDefault.Foreground(MenuColors.Selected)

	if o == nil {
		drawText(screen, startX, startY, "Could not replay this file", dimStyle)
		return x, y, width, height
	}

	var boards []engine.GameState
	switch o.Mode {
	case replay.ModeVersus:
		boards = []engine.GameState{o.Versus.Players[0].GameState, o.Versus.Players[1].GameState}
	default:
		boards = []engine.GameState{o.Single}
	}

	need := len(boards)*(types.Width+2) + 2
	if width < need || height < types.Height+8 {
		drawText(screen, startX, startY, "window too small", dimStyle)
		return x, y, width, height
	}

	for i, s := range boards {
		rb.drawMiniWell(screen, startX+i*(types.Width+2), startY, s.Board)
	}

	infoY := startY + types.Height + 1
	drawText(screen, startX, infoY, fmt.Sprintf("%s | %d actions | seed %d", info.Mode, o.Actions, info.Seed), infoStyle)
	infoY++
	if len(info.Players) > 0 {
		drawText(screen, startX, infoY, strings.Join(info.Players, " vs "), dimStyle)
		infoY++
	}
	for i, s := range boards {
		label := "Score"
		if len(boards) > 1 {
			label = fmt.Sprintf("P%d", i+1)
		}
		drawText(screen, startX, infoY, fmt.Sprintf("%s: %d  lines %d  level %d", label, s.Score, s.Lines, s.Level), dimStyle)
		infoY++
	}
	result := info.Result
	if result == "" {
		result = "Unfinished"
	}
	drawText(screen, startX, infoY, "Result: "+result, resultStyle)

	return x, y, width, height
}

// drawMiniWell draws a board one character per cell.
func (rb *ReplayBrowserUI) drawMiniWell(screen tcell.Screen, l, t int, board types.Board) {
	colors := rb.cfg.Theme.Colors
	emptyStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(colors.BorderColor))
	for y := 0; y < types.Height; y++ {
		for x := 0; x < types.Width; x++ {
			cell := board[y][x]
			if !cell.Filled() {
				screen.SetContent(l+x, t+y, '·', nil, emptyStyle)
				continue
			}
			style := tcell.StyleDefault.Foreground(tcell.PaletteColor(colors.Cell(cell)))
			screen.SetContent(l+x, t+y, '█', nil, style)
		}
	}
}
