package engine

import "fmt"

// ActionKind discriminates the actions a host can dispatch.
type ActionKind uint8

const (
	ActionNone ActionKind = iota
	ActionMove
	ActionRotate
	ActionTick
	ActionDrop
	ActionRestart
	// ActionAddGarbage only has meaning for the versus reducer.
	ActionAddGarbage
)

var actionNames = [...]string{"none", "move", "rotate", "tick", "drop", "restart", "addGarbage"}

func (k ActionKind) String() string {
	if int(k) < len(actionNames) {
		return actionNames[k]
	}
	return fmt.Sprintf("ActionKind(%d)", k)
}

// Action is one input to a reducer.
// Player is ignored by the single-player reducer.
type Action struct {
	Kind   ActionKind
	Player int
	DX     int
	DY     int
	Lines  int
}

// Move shifts the active piece by dx, dy.
func Move(dx, dy int) Action {
	return Action{Kind: ActionMove, DX: dx, DY: dy}
}

// RotateAction turns the active piece clockwise.
func RotateAction() Action {
	return Action{Kind: ActionRotate}
}

// Tick advances gravity by one row.
func Tick() Action {
	return Action{Kind: ActionTick}
}

// Drop hard-drops the active piece.
func Drop() Action {
	return Action{Kind: ActionDrop}
}

// Restart reinitializes the game.
func Restart() Action {
	return Action{Kind: ActionRestart}
}

// Garbage queues lines of garbage on player's board.
func Garbage(player, lines int) Action {
	return Action{Kind: ActionAddGarbage, Player: player, Lines: lines}
}

// For returns a copy of a addressed to player.
func (a Action) For(player int) Action {
	a.Player = player
	return a
}

func (a Action) String() string {
	switch a.Kind {
	case ActionMove:
		return fmt.Sprintf("move(p%d %+d,%+d)", a.Player, a.DX, a.DY)
	case ActionAddGarbage:
		return fmt.Sprintf("addGarbage(p%d %d)", a.Player, a.Lines)
	case ActionRestart:
		return "restart"
	}
	return fmt.Sprintf("%s(p%d)", a.Kind, a.Player)
}

// validMove rejects move payloads that are not a single step left, right or down.
func validMove(a Action) bool {
	if a.DX < -1 || a.DX > 1 {
		return false
	}
	return a.DY == 0 || a.DY == 1
}
