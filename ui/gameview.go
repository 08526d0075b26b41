package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"termtris/config"
	"termtris/engine"
)

func newHint() *tview.TextView {
	hint := tview.NewTextView()
	hint.SetDynamicColors(true)
	hint.SetBorder(false)
	hint.SetTextAlign(tview.AlignCenter)
	return hint
}

// SingleView shows a single-player session.
type SingleView struct {
	frame   *tview.Flex
	well    *WellUI
	panel   *GameInfoPanel
	hint    *tview.TextView
	keys    *KeyMap
	session *SingleSession
	onExit  func()
}

func NewSingleView(c *config.Config, keys *KeyMap, onExit func()) *SingleView {
	v := &SingleView{
		well:   NewWell(c),
		panel:  NewGameInfoPanel("termtris"),
		hint:   newHint(),
		keys:   keys,
		onExit: onExit,
	}
	v.frame = CreateGameLayout(v.well, v.panel, v.hint)
	v.well.Box.SetInputCapture(v.handleInput)
	return v
}

// Frame returns the layout to add to the page stack.
func (v *SingleView) Frame() *tview.Flex {
	return v.frame
}

// Well returns the focusable well.
func (v *SingleView) Well() *WellUI {
	return v.well
}

// Attach shows s in the view, replacing any previous session.
func (v *SingleView) Attach(s *SingleSession) {
	if v.session != nil && v.session != s {
		v.session.Close()
	}
	v.session = s
	s.OnChange = v.update
}

// Detach closes the attached session.
func (v *SingleView) Detach() {
	if v.session != nil {
		v.session.Close()
		v.session = nil
	}
}

func (v *SingleView) SetConfig(c *config.Config) {
	v.well.SetConfig(c)
}

func (v *SingleView) update(s engine.GameState) {
	v.well.SetState(s)
	v.panel.SetGame(s)
	if s.Over {
		v.well.SetBanner("GAME OVER")
		v.hint.SetText(fmt.Sprintf("Final score [white::b]%d[-:-:-]   r restart   esc menu", s.Score))
		return
	}
	v.well.SetBanner("")
	v.hint.SetText("←→ move   ↓ soft drop   ↑/x rotate   space drop   r restart   esc menu")
}

func (v *SingleView) handleInput(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() == tcell.KeyEscape {
		v.Detach()
		if v.onExit != nil {
			v.onExit()
		}
		return nil
	}
	if v.session == nil {
		return event
	}
	if b, ok := v.keys.Lookup(event); ok {
		v.session.Dispatch(b.Action())
		return nil
	}
	return event
}

// VersusView shows a local two-player session.
type VersusView struct {
	frame   *tview.Flex
	wells   [2]*WellUI
	panels  [2]*GameInfoPanel
	hint    *tview.TextView
	keys    *KeyMap
	session *VersusSession
	onExit  func()
}

func NewVersusView(c *config.Config, keys *KeyMap, names [2]string, onExit func()) *VersusView {
	v := &VersusView{
		wells:  [2]*WellUI{NewWell(c), NewWell(c)},
		panels: [2]*GameInfoPanel{NewGameInfoPanel(""), NewGameInfoPanel("")},
		hint:   newHint(),
		keys:   keys,
		onExit: onExit,
	}
	v.SetNames(names)
	v.frame = CreateVersusLayout(v.wells, v.panels, v.hint)
	v.wells[0].Box.SetInputCapture(v.handleInput)
	return v
}

// SetNames changes the player titles.
func (v *VersusView) SetNames(names [2]string) {
	for i, name := range names {
		if name == "" {
			name = fmt.Sprintf("Player %d", i+1)
		}
		v.panels[i].SetTitle(name)
	}
}

func (v *VersusView) Frame() *tview.Flex {
	return v.frame
}

// Well returns the focusable well, which receives input for both players.
func (v *VersusView) Well() *WellUI {
	return v.wells[0]
}

func (v *VersusView) Attach(s *VersusSession) {
	if v.session != nil && v.session != s {
		v.session.Close()
	}
	v.session = s
	s.OnChange = v.update
}

func (v *VersusView) Detach() {
	if v.session != nil {
		v.session.Close()
		v.session = nil
	}
}

func (v *VersusView) SetConfig(c *config.Config) {
	for _, w := range v.wells {
		w.SetConfig(c)
	}
}

func (v *VersusView) update(s engine.VersusState) {
	for i, p := range s.Players {
		v.wells[i].SetState(p.GameState)
		v.panels[i].SetPlayer(p)
		v.wells[i].SetBanner("")
	}

	switch {
	case s.Draw:
		v.wells[0].SetBanner("DRAW")
		v.wells[1].SetBanner("DRAW")
	case s.Winner != 0:
		winner := s.Winner - 1
		v.wells[winner].SetBanner("WINNER")
		v.wells[1-winner].SetBanner("TOPPED OUT")
	}

	if s.Finished() {
		v.hint.SetText("r rematch   esc menu")
		return
	}
	v.hint.SetText("P1: a d s w, q drop      P2: ←→↓↑, enter drop      esc menu")
}

func (v *VersusView) handleInput(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() == tcell.KeyEscape {
		v.Detach()
		if v.onExit != nil {
			v.onExit()
		}
		return nil
	}
	if v.session == nil {
		return event
	}
	if b, ok := v.keys.Lookup(event); ok {
		v.session.Dispatch(b.Action())
		return nil
	}
	return event
}
