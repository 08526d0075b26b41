package engine

import "termtris/types"

// GameState is the complete state of a single-player game.
// It is a value: reducers return a new GameState and never modify their input.
type GameState struct {
	Board    types.Board
	Current  types.Tetromino
	Next     types.Tetromino
	Position types.Position
	Score    int
	Lines    int
	Level    int
	Over     bool
}

// lineScores is indexed by the number of rows cleared in one lock.
var lineScores = [...]int{0, 40, 100, 300, 1200}

// LockScore returns the points awarded for clearing lines rows at level.
func LockScore(lines, level int) int {
	if lines < 0 || lines >= len(lineScores) {
		return 0
	}
	return lineScores[lines] * level
}

// LevelForLines returns the level reached after clearing lines rows in total.
func LevelForLines(lines int) int {
	return 1 + lines/10
}

// InitGame returns a fresh game with an empty board and two new pieces.
func (e *Engine) InitGame() GameState {
	current := e.pieces.Next()
	return GameState{
		Current:  current,
		Next:     e.pieces.Next(),
		Position: types.SpawnPosition,
		Level:    1,
	}
}

// Reduce applies a to s and returns the resulting state.
// Illegal moves, unknown actions and bad payloads return s unchanged.
func (e *Engine) Reduce(s GameState, a Action) GameState {
	if a.Kind == ActionRestart {
		return e.InitGame()
	}
	if s.Over {
		return s
	}

	switch a.Kind {
	case ActionMove:
		if !validMove(a) {
			return s
		}
		next, _ := shift(s, a.DX, a.DY)
		return next
	case ActionRotate:
		return turn(s)
	case ActionTick:
		if next, ok := shift(s, 0, 1); ok {
			return next
		}
		next, _ := e.lock(s, 0)
		return next
	case ActionDrop:
		s.Position = DropLanding(s.Board, s.Current, s.Position)
		next, _ := e.lock(s, 0)
		return next
	}
	return s
}

// shift moves the active piece if the target is free.
func shift(s GameState, dx, dy int) (GameState, bool) {
	target := s.Position.Add(dx, dy)
	if Collides(s.Board, s.Current, target) {
		return s, false
	}
	s.Position = target
	return s, true
}

// turn rotates the active piece in place. There is no wall kick.
func turn(s GameState) GameState {
	rotated := Rotate(s.Current)
	if Collides(s.Board, rotated, s.Position) {
		return s
	}
	s.Current = rotated
	return s
}

// lock stamps the active piece, clears lines, scores, and spawns the next
// piece. levelBonus is added on top of the level earned from lines.
// It returns the new state and the number of rows cleared.
func (e *Engine) lock(s GameState, levelBonus int) (GameState, int) {
	board, cleared := ClearFullLines(Place(s.Board, s.Current, s.Position))

	s.Board = board
	s.Score += LockScore(cleared, s.Level)
	s.Lines += cleared
	s.Level = LevelForLines(s.Lines) + levelBonus

	s.Current = s.Next
	s.Next = e.pieces.Next()
	s.Position = types.SpawnPosition
	s.Over = Collides(board, s.Current, s.Position)
	return s, cleared
}
