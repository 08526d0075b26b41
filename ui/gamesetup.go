package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"termtris/replay"
)

// GameOptions is what the setup form collects.
type GameOptions struct {
	Mode         replay.Mode
	PlayerName   string
	OpponentName string
}

// GameSetupUI provides a form for configuring a new game.
type GameSetupUI struct {
	form *tview.Form
	flex *tview.Flex
	opts GameOptions
}

// SetupActions are the callbacks wired to the setup buttons.
type SetupActions struct {
	Start   func(GameOptions)
	Scores  func()
	Replays func()
	Colors  func()
	Quit    func()
}

// NewGameSetup creates a new game setup form.
func NewGameSetup(defaults GameOptions, actions SetupActions) *GameSetupUI {
	setup := &GameSetupUI{opts: defaults}
	if setup.opts.Mode == "" {
		setup.opts.Mode = replay.ModeSingle
	}

	modes := []string{"Single player", "Versus (same keyboard)"}
	initialMode := 0
	if setup.opts.Mode == replay.ModeVersus {
		initialMode = 1
	}

	form := tview.NewForm()

	form.AddDropDown("Mode", modes, initialMode, func(option string, index int) {
		setup.opts.Mode = replay.ModeSingle
		if index == 1 {
			setup.opts.Mode = replay.ModeVersus
		}
	})

	form.AddInputField("Name", setup.opts.PlayerName, 24, nil, func(text string) {
		setup.opts.PlayerName = strings.TrimSpace(text)
	})

	form.AddInputField("Opponent", setup.opts.OpponentName, 24, nil, func(text string) {
		setup.opts.OpponentName = strings.TrimSpace(text)
	})

	form.AddButton("Start", func() {
		if actions.Start != nil {
			actions.Start(setup.opts)
		}
	})
	form.AddButton("Scores", func() {
		if actions.Scores != nil {
			actions.Scores()
		}
	})
	form.AddButton("Replays", func() {
		if actions.Replays != nil {
			actions.Replays()
		}
	})
	form.AddButton("Colors", func() {
		if actions.Colors != nil {
			actions.Colors()
		}
	})
	form.AddButton("Quit", func() {
		if actions.Quit != nil {
			actions.Quit()
		}
	})

	form.SetBorder(true)
	form.SetTitle(" New Game ")
	form.SetTitleAlign(tview.AlignCenter)
	form.SetButtonBackgroundColor(MenuColors.ButtonBG)
	form.SetButtonTextColor(MenuColors.ButtonText)

	// Create help text
	helpText := tview.NewTextView().
		SetText("Tab/Shift+Tab: navigate fields  |  Arrow keys: change dropdown  |  Enter: confirm").
		SetTextAlign(tview.AlignCenter)
	helpText.SetTextColor(tcell.ColorGray)

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(form, 0, 1, true).
		AddItem(helpText, 1, 0, false)

	setup.form = form
	setup.flex = flex
	return setup
}

// Form returns the flex container with form and help text.
func (s *GameSetupUI) Form() *tview.Flex {
	return s.flex
}

// Options returns the current form values.
func (s *GameSetupUI) Options() GameOptions {
	return s.opts
}
