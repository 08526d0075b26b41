package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"termtris/types"
)

func newTestEngine(seq ...types.PieceType) *Engine {
	return New(NewSequenceGenerator(seq...), &fixedRand{vals: []int{0}})
}

func TestInitGame(t *testing.T) {
	e := newTestEngine(types.T, types.L)
	s := e.InitGame()

	if s.Current.Type != types.T || s.Next.Type != types.L {
		t.Fatalf("current/next = %s/%s, want T/L", s.Current.Type, s.Next.Type)
	}
	if s.Position != types.SpawnPosition {
		t.Fatalf("position = %+v, want spawn", s.Position)
	}
	if s.Level != 1 || s.Score != 0 || s.Lines != 0 || s.Over {
		t.Fatalf("unexpected initial counters: %+v", s)
	}
	if s.Board.Count() != 0 {
		t.Fatal("initial board should be empty")
	}
}

func TestHardDropOnEmptyBoard(t *testing.T) {
	e := newTestEngine(types.I, types.O)
	s := e.Reduce(e.InitGame(), Drop())

	for x := 0; x < types.Width; x++ {
		want := types.Empty
		if x >= 3 && x <= 6 {
			want = types.CellI
		}
		if s.Board[19][x] != want {
			t.Fatalf("row 19 col %d = %s, want %s\n%s", x, s.Board[19][x], want, s.Board)
		}
	}
	if s.Board.Count() != 4 {
		t.Fatalf("expected exactly 4 cells on board, got %d", s.Board.Count())
	}
	if s.Lines != 0 || s.Score != 0 {
		t.Fatalf("lines/score = %d/%d, want 0/0", s.Lines, s.Score)
	}
	if s.Current.Type != types.O || s.Position != types.SpawnPosition {
		t.Fatalf("next piece should spawn, got %s at %+v", s.Current.Type, s.Position)
	}
}

func TestHardDropClearsSingleLine(t *testing.T) {
	e := newTestEngine(types.O)
	s := e.InitGame()
	fillRow(&s.Board, 19, 0, 7, types.Garbage)
	s.Position = types.Position{X: 8, Y: 0}

	got := e.Reduce(s, Drop())

	if got.Lines != 1 {
		t.Fatalf("lines = %d, want 1", got.Lines)
	}
	if got.Score != 40*s.Level {
		t.Fatalf("score = %d, want %d", got.Score, 40*s.Level)
	}
	// The O's top half drops into the floor row.
	if got.Board[19][8] != types.CellO || got.Board[19][9] != types.CellO {
		t.Fatalf("expected O remains on row 19, got\n%s", got.Board)
	}
	if got.Board.Count() != 2 {
		t.Fatalf("expected 2 cells left, got %d", got.Board.Count())
	}
}

func TestTetrisScoreAtLevelTwo(t *testing.T) {
	e := newTestEngine(types.I)
	s := e.InitGame()
	s.Lines, s.Level, s.Score = 10, 2, 500
	for y := 16; y < 20; y++ {
		fillRow(&s.Board, y, 0, 8, types.Garbage)
	}
	s.Current = Rotate(s.Current)
	s.Position = types.Position{X: 7, Y: 0}

	got := e.Reduce(s, Drop())

	if got.Score-s.Score != 2400 {
		t.Fatalf("score delta = %d, want 2400", got.Score-s.Score)
	}
	if got.Lines != 14 || got.Level != 2 {
		t.Fatalf("lines/level = %d/%d, want 14/2", got.Lines, got.Level)
	}
	if got.Board.Count() != 0 {
		t.Fatalf("board should be empty after tetris, got\n%s", got.Board)
	}
}

func TestLevelRecomputedFromLines(t *testing.T) {
	e := newTestEngine(types.I)
	s := e.InitGame()
	s.Lines = 9
	fillRow(&s.Board, 19, 0, 5, types.Garbage)
	s.Position = types.Position{X: 6, Y: 0}

	got := e.Reduce(s, Drop())
	if got.Lines != 10 || got.Level != 2 {
		t.Fatalf("lines/level = %d/%d, want 10/2", got.Lines, got.Level)
	}
	if got.Score != 40 {
		t.Fatalf("score = %d, want 40 (scored at the old level)", got.Score)
	}
}

func TestMove(t *testing.T) {
	e := newTestEngine(types.I)
	s := e.InitGame()

	tests := []struct {
		name   string
		from   types.Position
		action Action
		want   types.Position
	}{
		{"left", types.Position{X: 3, Y: 0}, Move(-1, 0), types.Position{X: 2, Y: 0}},
		{"right", types.Position{X: 3, Y: 0}, Move(1, 0), types.Position{X: 4, Y: 0}},
		{"down", types.Position{X: 3, Y: 0}, Move(0, 1), types.Position{X: 3, Y: 1}},
		{"left wall", types.Position{X: 0, Y: 0}, Move(-1, 0), types.Position{X: 0, Y: 0}},
		{"right wall", types.Position{X: 6, Y: 0}, Move(1, 0), types.Position{X: 6, Y: 0}},
		{"floor", types.Position{X: 3, Y: 18}, Move(0, 1), types.Position{X: 3, Y: 18}},
		{"two columns", types.Position{X: 3, Y: 0}, Move(2, 0), types.Position{X: 3, Y: 0}},
		{"upwards", types.Position{X: 3, Y: 5}, Move(0, -1), types.Position{X: 3, Y: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.Position = tt.from
			got := e.Reduce(s, tt.action)
			if got.Position != tt.want {
				t.Fatalf("position = %+v, want %+v", got.Position, tt.want)
			}
			if got.Board != s.Board {
				t.Fatal("move must not touch the board")
			}
		})
	}
}

func TestRotate(t *testing.T) {
	e := newTestEngine(types.I)
	s := e.InitGame()

	got := e.Reduce(s, RotateAction())
	if got.Current != Rotate(s.Current) {
		t.Fatal("free rotation should be committed")
	}

	// Rotating a flat I resting on the floor would push it below row 19.
	s.Position = types.Position{X: 3, Y: 18}
	got = e.Reduce(s, RotateAction())
	if diff := cmp.Diff(s, got); diff != "" {
		t.Fatalf("blocked rotation changed state (-want +got):\n%s", diff)
	}
}

func TestTickMovesDownThenLocks(t *testing.T) {
	e := newTestEngine(types.I, types.T)
	s := e.InitGame()

	s = e.Reduce(s, Tick())
	if s.Position.Y != 1 {
		t.Fatalf("tick should move down, y = %d", s.Position.Y)
	}

	s.Position.Y = 18
	s = e.Reduce(s, Tick())
	if s.Board[19][3] != types.CellI {
		t.Fatalf("grounded tick should lock the piece, got\n%s", s.Board)
	}
	if s.Current.Type != types.T || s.Next.Type != types.I {
		t.Fatalf("current/next after lock = %s/%s, want T/I", s.Current.Type, s.Next.Type)
	}
}

func TestTopOutSetsOver(t *testing.T) {
	e := newTestEngine(types.O)
	s := e.InitGame()
	for y := 2; y < types.Height; y++ {
		fillRow(&s.Board, y, 1, 9, types.Garbage)
	}

	s = e.Reduce(s, Tick())
	if !s.Over {
		t.Fatalf("spawn overlaps the locked O, game should be over\n%s", s.Board)
	}
	if s.Position != types.SpawnPosition {
		t.Fatalf("position = %+v, want spawn", s.Position)
	}
}

func TestOverFreezesState(t *testing.T) {
	e := newTestEngine(types.O)
	s := e.InitGame()
	s.Over = true
	s.Score = 1234

	for _, a := range []Action{Move(-1, 0), Move(0, 1), RotateAction(), Tick(), Drop(), Garbage(0, 2)} {
		if diff := cmp.Diff(s, e.Reduce(s, a)); diff != "" {
			t.Fatalf("%s changed a finished game (-want +got):\n%s", a, diff)
		}
	}

	got := e.Reduce(s, Restart())
	if got.Over || got.Score != 0 || got.Board.Count() != 0 {
		t.Fatalf("restart should reinitialize, got %+v", got)
	}
}

func TestUnknownActionIsNoop(t *testing.T) {
	e := newTestEngine(types.S)
	s := e.InitGame()
	for _, a := range []Action{{}, {Kind: ActionKind(42)}, Garbage(0, 3)} {
		if diff := cmp.Diff(s, e.Reduce(s, a)); diff != "" {
			t.Fatalf("%s changed state (-want +got):\n%s", a, diff)
		}
	}
}

func TestScoreNeverDecreases(t *testing.T) {
	e := NewSeeded(7)
	s := e.InitGame()
	actions := []Action{Move(-1, 0), RotateAction(), Tick(), Move(1, 0), Drop()}
	for i := 0; i < 500; i++ {
		next := e.Reduce(s, actions[i%len(actions)])
		if next.Score < s.Score {
			t.Fatalf("step %d: score went from %d to %d", i, s.Score, next.Score)
		}
		if next.Level != LevelForLines(next.Lines) {
			t.Fatalf("step %d: level %d does not match lines %d", i, next.Level, next.Lines)
		}
		s = next
	}
}

func TestSeededEnginesAgree(t *testing.T) {
	a, b := NewSeeded(99), NewSeeded(99)
	sa, sb := a.InitGame(), b.InitGame()
	for i := 0; i < 200; i++ {
		act := Drop()
		if i%3 == 0 {
			act = Move(-1, 0)
		}
		sa, sb = a.Reduce(sa, act), b.Reduce(sb, act)
	}
	if diff := cmp.Diff(sa, sb); diff != "" {
		t.Fatalf("seeded engines diverged (-a +b):\n%s", diff)
	}
}

func TestLockScore(t *testing.T) {
	tests := []struct {
		lines, level, want int
	}{
		{0, 3, 0},
		{1, 1, 40},
		{2, 2, 200},
		{3, 1, 300},
		{4, 2, 2400},
		{5, 1, 0},
	}
	for _, tt := range tests {
		if got := LockScore(tt.lines, tt.level); got != tt.want {
			t.Errorf("LockScore(%d, %d) = %d, want %d", tt.lines, tt.level, got, tt.want)
		}
	}
}
