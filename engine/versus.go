package engine

// Players in a versus match.
const (
	PlayerOne = 0
	PlayerTwo = 1
)

// milestoneLines is how many cleared rows grant the opponent one level.
const milestoneLines = 5

// PlayerState is one side of a versus match.
type PlayerState struct {
	GameState
	// GarbageQueue holds incoming garbage rows not yet pushed into Board.
	GarbageQueue int
	// LevelBonus counts levels imposed by the opponent's milestones.
	LevelBonus int
}

// VersusState is the complete state of a local two-player match.
type VersusState struct {
	Players [2]PlayerState
	// Winner is 1 or 2 once a single player has topped out, 0 otherwise.
	Winner int
	// Draw is set when both players have topped out.
	Draw    bool
	Started bool
}

// Finished returns true once the match has a winner or ended in a draw.
func (s VersusState) Finished() bool {
	return s.Winner != 0 || s.Draw
}

// InitVersus returns a fresh match.
func (e *Engine) InitVersus() VersusState {
	var s VersusState
	for i := range s.Players {
		s.Players[i] = PlayerState{GameState: e.InitGame()}
	}
	s.Started = true
	return s
}

// ReduceVersus applies a to s and returns the resulting state.
// Per-player actions act on s.Players[a.Player] only; the opponent is
// touched solely through its garbage queue and level on a lock.
func (e *Engine) ReduceVersus(s VersusState, a Action) VersusState {
	if a.Kind == ActionRestart {
		return e.InitVersus()
	}
	if s.Finished() {
		return s
	}
	if a.Player != PlayerOne && a.Player != PlayerTwo {
		return s
	}

	switch a.Kind {
	case ActionAddGarbage:
		if a.Lines > 0 {
			s.Players[a.Player].GarbageQueue += a.Lines
		}
		return s
	case ActionMove:
		if !validMove(a) {
			return s
		}
	case ActionRotate, ActionTick, ActionDrop:
	default:
		return s
	}

	p := s.Players[a.Player]
	if p.Over {
		return s
	}
	if p.GarbageQueue > 0 {
		p.Board = AddGarbage(p.Board, p.GarbageQueue, e.rng)
		p.GarbageQueue = 0
	}

	prevLines := p.Lines
	locked, cleared := false, 0
	switch a.Kind {
	case ActionMove:
		p.GameState, _ = shift(p.GameState, a.DX, a.DY)
	case ActionRotate:
		p.GameState = turn(p.GameState)
	case ActionTick:
		var moved bool
		if p.GameState, moved = shift(p.GameState, 0, 1); !moved {
			p.GameState, cleared = e.lock(p.GameState, p.LevelBonus)
			locked = true
		}
	case ActionDrop:
		p.Position = DropLanding(p.Board, p.Current, p.Position)
		p.GameState, cleared = e.lock(p.GameState, p.LevelBonus)
		locked = true
	}
	s.Players[a.Player] = p

	if !locked {
		return s
	}

	opp := &s.Players[1-a.Player]
	if cleared >= 2 {
		opp.GarbageQueue += cleared - 1
	}
	if crossed := p.Lines/milestoneLines - prevLines/milestoneLines; crossed > 0 {
		opp.LevelBonus += crossed
		opp.Level += crossed
	}
	s.Winner, s.Draw = arbitrate(s.Players)
	return s
}

// arbitrate decides the match outcome from the players' top-out flags.
func arbitrate(players [2]PlayerState) (winner int, draw bool) {
	one, two := players[PlayerOne].Over, players[PlayerTwo].Over
	switch {
	case one && two:
		return 0, true
	case one:
		return 2, false
	case two:
		return 1, false
	}
	return 0, false
}
