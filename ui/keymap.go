package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/kamstrup/intmap"

	"termtris/config"
	"termtris/engine"
)

// Command is something a key can be bound to.
type Command uint8

const (
	CmdNone Command = iota
	CmdLeft
	CmdRight
	CmdDown
	CmdRotate
	CmdDrop
	CmdRestart
)

// Binding is a command issued on behalf of a player.
type Binding struct {
	Command Command
	Player  int
}

// Action returns the engine action for b.
func (b Binding) Action() engine.Action {
	switch b.Command {
	case CmdLeft:
		return engine.Move(-1, 0).For(b.Player)
	case CmdRight:
		return engine.Move(1, 0).For(b.Player)
	case CmdDown:
		return engine.Move(0, 1).For(b.Player)
	case CmdRotate:
		return engine.RotateAction().For(b.Player)
	case CmdDrop:
		return engine.Drop().For(b.Player)
	case CmdRestart:
		return engine.Restart()
	}
	return engine.Action{}
}

// KeyMap resolves key events to bindings.
type KeyMap struct {
	keys  *intmap.Map[tcell.Key, Binding]
	runes *intmap.Map[rune, Binding]
}

// NewKeyMap builds a key map from per-player bindings; the first argument is
// player one. A key bound to two different commands is an error, except that
// players may share their restart keys.
func NewKeyMap(players ...config.KeyBindings) (*KeyMap, error) {
	m := &KeyMap{
		keys:  intmap.New[tcell.Key, Binding](16),
		runes: intmap.New[rune, Binding](32),
	}
	for player, b := range players {
		groups := []struct {
			cmd  Command
			keys []string
		}{
			{CmdLeft, b.Left},
			{CmdRight, b.Right},
			{CmdDown, b.Down},
			{CmdRotate, b.Rotate},
			{CmdDrop, b.Drop},
			{CmdRestart, b.Restart},
		}
		for _, g := range groups {
			for _, name := range g.keys {
				if err := m.bind(name, Binding{Command: g.cmd, Player: player}); err != nil {
					return nil, err
				}
			}
		}
	}
	return m, nil
}

func (m *KeyMap) bind(name string, b Binding) error {
	key, r, err := ParseKey(name)
	if err != nil {
		return err
	}
	var prev Binding
	var taken bool
	if key == tcell.KeyRune {
		prev, taken = m.runes.Get(r)
	} else {
		prev, taken = m.keys.Get(key)
	}
	if taken && prev != b && !(prev.Command == CmdRestart && b.Command == CmdRestart) {
		return fmt.Errorf("key %q is bound twice", name)
	}
	if key == tcell.KeyRune {
		m.runes.Put(r, b)
	} else {
		m.keys.Put(key, b)
	}
	return nil
}

// Lookup returns the binding for ev, if any.
func (m *KeyMap) Lookup(ev *tcell.EventKey) (Binding, bool) {
	if ev.Key() == tcell.KeyRune {
		return m.runes.Get(ev.Rune())
	}
	return m.keys.Get(ev.Key())
}

// keyByName is the reverse of tcell.KeyNames, lowercased.
var keyByName = func() map[string]tcell.Key {
	names := make(map[string]tcell.Key, len(tcell.KeyNames))
	for k, name := range tcell.KeyNames {
		names[strings.ToLower(name)] = k
	}
	return names
}()

// ParseKey converts a configured key name to a tcell key, or to KeyRune and
// the character for printable keys.
func ParseKey(name string) (tcell.Key, rune, error) {
	if strings.EqualFold(name, "space") {
		return tcell.KeyRune, ' ', nil
	}
	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		return tcell.KeyRune, r, nil
	}
	if k, ok := keyByName[strings.ToLower(name)]; ok {
		return k, 0, nil
	}
	return 0, 0, fmt.Errorf("unknown key %q", name)
}
