package ui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"termtris/leaderboard"
)

// ScoresUI lists the best leaderboard entries.
type ScoresUI struct {
	flex   *tview.Flex
	table  *tview.Table
	hint   *tview.TextView
	store  leaderboard.Store
	queue  Queue
	onDone func()
}

func NewScores(store leaderboard.Store, queue Queue, onDone func()) *ScoresUI {
	sc := &ScoresUI{
		store:  store,
		queue:  queue,
		onDone: onDone,
	}

	sc.table = tview.NewTable()
	sc.table.SetBorder(true)
	sc.table.SetTitle(" High Scores ")
	sc.table.SetSelectable(true, false)
	sc.table.SetFixed(1, 0)
	sc.table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(MenuColors.ButtonText).
		Background(MenuColors.ButtonFocus))
	sc.table.SetInputCapture(sc.handleInput)

	sc.hint = tview.NewTextView()
	sc.hint.SetDynamicColors(true)
	sc.hint.SetText("  [dimgray]r[-] refresh  [dimgray]q[-] back")

	sc.flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(sc.table, 0, 1, true).
		AddItem(sc.hint, 1, 0, false)
	return sc
}

func (sc *ScoresUI) Flex() *tview.Flex {
	return sc.flex
}

// Refresh loads the leaderboard in the background.
func (sc *ScoresUI) Refresh() {
	sc.setMessage("Loading...")
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		entries, err := sc.store.Top(ctx, 20)
		sc.queue(func() {
			if err != nil {
				debugLog.Printf("load scores: %v", err)
				sc.setMessage(fmt.Sprintf("Could not load scores: %v", err))
				return
			}
			sc.show(entries)
		})
	}()
}

func (sc *ScoresUI) setMessage(msg string) {
	sc.table.Clear()
	sc.table.SetCell(0, 0, tview.NewTableCell(msg).SetTextColor(MenuColors.Hint).SetSelectable(false))
}

func (sc *ScoresUI) show(entries []leaderboard.Entry) {
	sc.table.Clear()
	for col, title := range []string{"#", "Name", "Score", "Mode", "Date"} {
		sc.table.SetCell(0, col, tview.NewTableCell(title).
			SetTextColor(MenuColors.Title).
			SetAttributes(tcell.AttrBold).
			SetSelectable(false))
	}
	if len(entries) == 0 {
		sc.table.SetCell(1, 1, tview.NewTableCell("No scores yet").SetTextColor(MenuColors.Hint))
		return
	}
	for i, e := range entries {
		row := i + 1
		sc.table.SetCell(row, 0, tview.NewTableCell(strconv.Itoa(row)).SetTextColor(MenuColors.Hint))
		sc.table.SetCell(row, 1, tview.NewTableCell(tview.Escape(e.Name)).SetTextColor(MenuColors.Label).SetExpansion(1))
		sc.table.SetCell(row, 2, tview.NewTableCell(strconv.Itoa(e.Score)).SetAlign(tview.AlignRight).SetTextColor(MenuColors.Selected))
		sc.table.SetCell(row, 3, tview.NewTableCell(e.Mode).SetTextColor(MenuColors.Hint))
		sc.table.SetCell(row, 4, tview.NewTableCell(e.CreatedAt.Local().Format("2006-01-02")).SetTextColor(MenuColors.Hint))
	}
	sc.table.Select(1, 0)
}

func (sc *ScoresUI) handleInput(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEscape:
		if sc.onDone != nil {
			sc.onDone()
		}
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case 'q':
			if sc.onDone != nil {
				sc.onDone()
			}
			return nil
		case 'r':
			sc.Refresh()
			return nil
		}
	}
	return event
}

// NewNamePrompt asks for a name to submit score under. onSubmit receives the
// trimmed name; onSkip is called when the player declines.
func NewNamePrompt(name string, score int, onSubmit func(name string), onSkip func()) tview.Primitive {
	form := tview.NewForm()
	form.AddInputField("Name", name, leaderboard.MaxNameLength, func(text string, lastChar rune) bool {
		return len([]rune(text)) <= leaderboard.MaxNameLength
	}, func(text string) {
		name = text
	})
	form.AddButton("Submit", func() {
		if _, err := leaderboard.Validate(leaderboard.Submission{Name: name, Score: score}); err != nil {
			form.SetTitle(" Enter a name (1-24 characters) ")
			return
		}
		onSubmit(name)
	})
	form.AddButton("Skip", onSkip)
	form.SetCancelFunc(onSkip)

	form.SetBorder(true)
	form.SetTitle(fmt.Sprintf(" Game over: %d points ", score))
	form.SetTitleAlign(tview.AlignCenter)
	form.SetButtonBackgroundColor(MenuColors.ButtonBG)
	form.SetButtonTextColor(MenuColors.ButtonText)

	// Center the form in a modal-sized box.
	row := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(form, 7, 0, true).
		AddItem(nil, 0, 1, false)
	return CreateCenteredForm(row, 44)
}
