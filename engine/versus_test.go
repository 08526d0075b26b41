package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"termtris/types"
)

// setupDouble arranges player p to clear two rows with a vertical I drop.
func setupDouble(s *VersusState, p int) {
	ps := &s.Players[p]
	fillRow(&ps.Board, 18, 0, 8, types.Garbage)
	fillRow(&ps.Board, 19, 0, 8, types.Garbage)
	ps.Current = Rotate(NewTetromino(types.I))
	ps.Position = types.Position{X: 7, Y: 0}
}

func TestInitVersus(t *testing.T) {
	e := newTestEngine(types.I, types.O)
	s := e.InitVersus()
	if !s.Started || s.Finished() {
		t.Fatalf("fresh match should be started and running: %+v", s)
	}
	for i, p := range s.Players {
		if p.Level != 1 || p.GarbageQueue != 0 || p.Over {
			t.Fatalf("player %d not fresh: %+v", i, p)
		}
	}
}

func TestActionsAffectOnlyTheirPlayer(t *testing.T) {
	e := newTestEngine(types.T)
	s := e.InitVersus()

	got := e.ReduceVersus(s, Move(-1, 0).For(PlayerTwo))
	if diff := cmp.Diff(s.Players[PlayerOne], got.Players[PlayerOne]); diff != "" {
		t.Fatalf("player one changed (-want +got):\n%s", diff)
	}
	if got.Players[PlayerTwo].Position.X != 2 {
		t.Fatalf("player two x = %d, want 2", got.Players[PlayerTwo].Position.X)
	}
}

func TestGarbageIsDeferred(t *testing.T) {
	e := New(NewSequenceGenerator(types.T), &fixedRand{vals: []int{4}})
	s := e.InitVersus()
	setupDouble(&s, PlayerOne)
	opponentBoard := s.Players[PlayerTwo].Board

	s = e.ReduceVersus(s, Drop().For(PlayerOne))

	if s.Players[PlayerOne].Lines != 2 {
		t.Fatalf("player one lines = %d, want 2", s.Players[PlayerOne].Lines)
	}
	opp := s.Players[PlayerTwo]
	if opp.GarbageQueue != 1 {
		t.Fatalf("garbage queue = %d, want 1", opp.GarbageQueue)
	}
	if opp.Board != opponentBoard {
		t.Fatal("opponent board must not change before their next action")
	}

	s = e.ReduceVersus(s, Move(1, 0).For(PlayerTwo))
	opp = s.Players[PlayerTwo]
	if opp.GarbageQueue != 0 {
		t.Fatalf("garbage queue = %d after materializing, want 0", opp.GarbageQueue)
	}
	for x, c := range opp.Board[19] {
		want := types.Garbage
		if x == 4 {
			want = types.Empty
		}
		if c != want {
			t.Fatalf("row 19 col %d = %s, want %s", x, c, want)
		}
	}
}

func TestGarbagePerClearSize(t *testing.T) {
	tests := []struct {
		rows int
		want int
	}{
		{1, 0},
		{2, 1},
		{3, 2},
		{4, 3},
	}
	for _, tt := range tests {
		e := newTestEngine(types.T)
		s := e.InitVersus()
		ps := &s.Players[PlayerOne]
		for y := types.Height - tt.rows; y < types.Height; y++ {
			fillRow(&ps.Board, y, 0, 8, types.Garbage)
		}
		ps.Current = Rotate(NewTetromino(types.I))
		ps.Position = types.Position{X: 7, Y: 0}

		s = e.ReduceVersus(s, Drop().For(PlayerOne))
		if got := s.Players[PlayerOne].Lines; got != tt.rows {
			t.Fatalf("%d rows: cleared %d", tt.rows, got)
		}
		if got := s.Players[PlayerTwo].GarbageQueue; got != tt.want {
			t.Errorf("%d rows: opponent queue = %d, want %d", tt.rows, got, tt.want)
		}
	}
}

func TestGarbageMaterializesBeforeCollision(t *testing.T) {
	e := New(NewSequenceGenerator(types.I), &fixedRand{vals: []int{0}})
	s := e.InitVersus()
	p := &s.Players[PlayerTwo]
	p.GarbageQueue = 3
	p.Position = types.Position{X: 3, Y: 15}

	// On an empty board the I would keep falling. Three garbage rows land
	// first, so row 17 is blocked and the tick locks instead.
	s = e.ReduceVersus(s, Tick().For(PlayerTwo))
	got := s.Players[PlayerTwo]
	if got.Board[16][3] != types.CellI {
		t.Fatalf("I should lock on top of the garbage, got\n%s", got.Board)
	}
	if got.GarbageQueue != 0 {
		t.Fatalf("queue = %d, want 0", got.GarbageQueue)
	}
}

func TestMilestoneRaisesOpponentLevel(t *testing.T) {
	e := newTestEngine(types.T)
	s := e.InitVersus()
	s.Players[PlayerOne].Lines = 4
	fillRow(&s.Players[PlayerOne].Board, 19, 0, 8, types.Garbage)
	s.Players[PlayerOne].Current = Rotate(NewTetromino(types.I))
	s.Players[PlayerOne].Position = types.Position{X: 7, Y: 0}

	s = e.ReduceVersus(s, Drop().For(PlayerOne))

	if s.Players[PlayerOne].Lines != 5 {
		t.Fatalf("lines = %d, want 5", s.Players[PlayerOne].Lines)
	}
	opp := s.Players[PlayerTwo]
	if opp.Level != 2 || opp.LevelBonus != 1 {
		t.Fatalf("opponent level/bonus = %d/%d, want 2/1", opp.Level, opp.LevelBonus)
	}
	if s.Players[PlayerOne].Level != 1 {
		t.Fatalf("clearing player level = %d, want 1", s.Players[PlayerOne].Level)
	}

	// The bonus survives the opponent's own lock.
	s = e.ReduceVersus(s, Drop().For(PlayerTwo))
	if got := s.Players[PlayerTwo].Level; got != 2 {
		t.Fatalf("opponent level after own lock = %d, want 2", got)
	}
}

func TestMilestoneCrossingSeveral(t *testing.T) {
	e := newTestEngine(types.T)
	s := e.InitVersus()
	s.Players[PlayerOne].Lines = 8
	setupDouble(&s, PlayerOne)
	fillRow(&s.Players[PlayerOne].Board, 17, 0, 8, types.Garbage)
	fillRow(&s.Players[PlayerOne].Board, 16, 0, 8, types.Garbage)

	s = e.ReduceVersus(s, Drop().For(PlayerOne))
	if s.Players[PlayerOne].Lines != 12 {
		t.Fatalf("lines = %d, want 12", s.Players[PlayerOne].Lines)
	}
	// 8 -> 12 crosses the 10 milestone only.
	if got := s.Players[PlayerTwo].LevelBonus; got != 1 {
		t.Fatalf("bonus = %d, want 1", got)
	}
}

func topOut(s *VersusState, p int) {
	ps := &s.Players[p]
	for y := 2; y < types.Height; y++ {
		fillRow(&ps.Board, y, 1, 9, types.Garbage)
	}
	ps.Current = NewTetromino(types.O)
	ps.Next = NewTetromino(types.O)
}

func TestWinnerAndFreeze(t *testing.T) {
	e := newTestEngine(types.O)
	s := e.InitVersus()
	topOut(&s, PlayerOne)

	s = e.ReduceVersus(s, Tick().For(PlayerOne))
	if !s.Players[PlayerOne].Over {
		t.Fatal("player one should have topped out")
	}
	if s.Winner != 2 || s.Draw {
		t.Fatalf("winner/draw = %d/%v, want 2/false", s.Winner, s.Draw)
	}

	for _, a := range []Action{
		Move(1, 0).For(PlayerTwo),
		RotateAction().For(PlayerTwo),
		Tick().For(PlayerTwo),
		Drop().For(PlayerTwo),
		Garbage(PlayerOne, 2),
	} {
		if diff := cmp.Diff(s, e.ReduceVersus(s, a)); diff != "" {
			t.Fatalf("%s changed a finished match (-want +got):\n%s", a, diff)
		}
	}

	s = e.ReduceVersus(s, Restart())
	if s.Finished() || s.Players[PlayerOne].Over || s.Players[PlayerOne].Board.Count() != 0 {
		t.Fatalf("restart should reinitialize both players: %+v", s)
	}
}

func TestPlayerTwoTopOutDeclaresPlayerOne(t *testing.T) {
	e := newTestEngine(types.O)
	s := e.InitVersus()
	topOut(&s, PlayerTwo)
	s = e.ReduceVersus(s, Drop().For(PlayerTwo))
	if s.Winner != 1 {
		t.Fatalf("winner = %d, want 1", s.Winner)
	}
}

func TestSimultaneousTopOutIsDraw(t *testing.T) {
	e := newTestEngine(types.O)
	s := e.InitVersus()
	s.Players[PlayerTwo].Over = true
	topOut(&s, PlayerOne)

	s = e.ReduceVersus(s, Tick().For(PlayerOne))
	if !s.Draw || s.Winner != 0 {
		t.Fatalf("winner/draw = %d/%v, want 0/true", s.Winner, s.Draw)
	}
	if !s.Finished() {
		t.Fatal("a draw ends the match")
	}
	frozen := e.ReduceVersus(s, Tick().For(PlayerOne))
	if diff := cmp.Diff(s, frozen); diff != "" {
		t.Fatalf("drawn match accepted a tick (-want +got):\n%s", diff)
	}
}

func TestAddGarbageAction(t *testing.T) {
	e := newTestEngine(types.T)
	s := e.InitVersus()

	got := e.ReduceVersus(s, Garbage(PlayerTwo, 3))
	if got.Players[PlayerTwo].GarbageQueue != 3 {
		t.Fatalf("queue = %d, want 3", got.Players[PlayerTwo].GarbageQueue)
	}
	if got.Players[PlayerTwo].Board != s.Players[PlayerTwo].Board {
		t.Fatal("queued garbage must not touch the board")
	}

	for _, a := range []Action{Garbage(PlayerTwo, 0), Garbage(PlayerTwo, -1), Garbage(2, 4), Move(-1, 0).For(-1)} {
		if diff := cmp.Diff(s, e.ReduceVersus(s, a)); diff != "" {
			t.Fatalf("%s should be a no-op (-want +got):\n%s", a, diff)
		}
	}
}

func TestInvalidMoveDoesNotMaterializeGarbage(t *testing.T) {
	e := newTestEngine(types.T)
	s := e.InitVersus()
	s.Players[PlayerOne].GarbageQueue = 2

	got := e.ReduceVersus(s, Move(3, 0).For(PlayerOne))
	if diff := cmp.Diff(s, got); diff != "" {
		t.Fatalf("invalid move changed state (-want +got):\n%s", diff)
	}
}
