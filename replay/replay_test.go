package replay

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"termtris/engine"
)

func TestEncodeAction(t *testing.T) {
	tests := []struct {
		action engine.Action
		want   string
	}{
		{engine.Move(-1, 0), ";M[0,-1,0]"},
		{engine.Move(0, 1).For(1), ";M[1,0,1]"},
		{engine.RotateAction().For(1), ";R[1]"},
		{engine.Tick(), ";T[0]"},
		{engine.Drop().For(1), ";D[1]"},
		{engine.Restart(), ";X[]"},
		{engine.Garbage(1, 3), ";G[1,3]"},
	}
	for _, tt := range tests {
		got, ok := EncodeAction(tt.action)
		if !ok || got != tt.want {
			t.Errorf("EncodeAction(%s) = %q, %v, want %q", tt.action, got, ok, tt.want)
		}
	}

	if _, ok := EncodeAction(engine.Action{}); ok {
		t.Error("empty action should not be encoded")
	}
}

func TestParseActions(t *testing.T) {
	content := "(;AP[termtris:1.0]MD[versus]SD[7]DT[2026-10-16]PN[ann][bob]RE[]\n;M[1,1,0];R[0];T[1];D[0];G[0,2];X[])\n"
	got, err := ParseActions(content)
	if err != nil {
		t.Fatalf("ParseActions: %v", err)
	}
	want := []engine.Action{
		engine.Move(1, 0).For(1),
		engine.RotateAction(),
		engine.Tick().For(1),
		engine.Drop(),
		engine.Garbage(0, 2),
		engine.Restart(),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("actions mismatch (-want +got):\n%s", diff)
	}
}

func TestNewRecorder(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewRecorder(dir, ModeSingle, 42, "ann")
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	defer rec.Close()

	if !strings.HasSuffix(rec.FilePath, "_single"+Extension) {
		t.Fatalf("unexpected file name %q", rec.FilePath)
	}
	content, err := os.ReadFile(rec.FilePath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	for _, want := range []string{"(;AP[termtris:1.0]", "MD[single]", "SD[42]", "PN[ann]", "RE[]"} {
		if !strings.Contains(string(content), want) {
			t.Errorf("header missing %q:\n%s", want, content)
		}
	}
}

func TestRecorderReplaysToSameState(t *testing.T) {
	const seed = 1234
	dir := t.TempDir()
	rec, err := NewRecorder(dir, ModeSingle, seed, "ann")
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}

	e := engine.NewSeeded(seed)
	live := e.InitGame()
	script := []engine.Action{
		engine.Move(-1, 0), engine.RotateAction(), engine.Drop(),
		engine.Tick(), engine.Move(1, 0), engine.Move(1, 0), engine.Drop(),
		engine.Tick(), engine.Tick(), engine.RotateAction(), engine.Drop(),
	}
	for i := 0; i < 10; i++ {
		for _, a := range script {
			live = e.Reduce(live, a)
			if err := rec.AddAction(a); err != nil {
				t.Fatalf("AddAction: %v", err)
			}
		}
	}
	if err := rec.SetResult("1200"); err != nil {
		t.Fatalf("SetResult: %v", err)
	}
	rec.Close()

	out, err := ReplayToEnd(rec.FilePath)
	if err != nil {
		t.Fatalf("ReplayToEnd: %v", err)
	}
	if out.Actions != 10*len(script) {
		t.Fatalf("replayed %d actions, want %d", out.Actions, 10*len(script))
	}
	if diff := cmp.Diff(live, out.Single); diff != "" {
		t.Fatalf("replayed state differs (-live +replay):\n%s", diff)
	}

	info, err := ParseHeader(rec.FilePath)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if info.Result != "1200" || info.Seed != seed || info.Mode != ModeSingle {
		t.Fatalf("unexpected header %+v", info)
	}
}

func TestVersusReplay(t *testing.T) {
	const seed = 99
	e := engine.NewSeeded(seed)
	live := e.InitVersus()
	var actions []engine.Action
	for i := 0; i < 60; i++ {
		a := engine.Drop().For(i % 2)
		if i%5 == 0 {
			a = engine.Move(-1, 0).For(i % 2)
		}
		live = e.ReduceVersus(live, a)
		actions = append(actions, a)
	}

	out := Replay(ModeVersus, seed, actions)
	if diff := cmp.Diff(live, out.Versus); diff != "" {
		t.Fatalf("versus replay differs (-live +replay):\n%s", diff)
	}
}

func TestUnfinishedFileParses(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewRecorder(dir, ModeVersus, 5, "ann", "bob")
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	rec.AddAction(engine.Tick().For(1))
	rec.AddAction(engine.Drop())
	// No SetResult and no Close: the file has no closing parenthesis.

	info, err := ParseHeader(rec.FilePath)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if info.ActionCount != 2 {
		t.Fatalf("action count = %d, want 2", info.ActionCount)
	}
	if diff := cmp.Diff([]string{"ann", "bob"}, info.Players); diff != "" {
		t.Fatalf("players mismatch (-want +got):\n%s", diff)
	}
	rec.Close()
}

func TestEscapedPlayerNames(t *testing.T) {
	dir := t.TempDir()
	name := `x]y\z;(w)`
	rec, err := NewRecorder(dir, ModeSingle, 1, name)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	rec.SetResult("0")
	rec.Close()

	info, err := ParseHeader(rec.FilePath)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if len(info.Players) != 1 || info.Players[0] != name {
		t.Fatalf("players = %q, want [%q]", info.Players, name)
	}
}

func TestMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"foreign", "(;GM[1]FF[4]SZ[19])"},
		{"bad mode", "(;AP[termtris:1.0]MD[coop]SD[1])"},
		{"bad seed", "(;AP[termtris:1.0]MD[single]SD[abc])"},
		{"unknown action", "(;AP[termtris:1.0]MD[single]SD[1];Q[0])"},
		{"arity", "(;AP[termtris:1.0]MD[single]SD[1];M[0,1])"},
		{"bad number", "(;AP[termtris:1.0]MD[single]SD[1];T[x])"},
		{"unterminated", "(;AP[termtris:1.0]MD[single]SD[1"},
		{"lowercase", "(;AP[termtris:1.0]md[single])"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseActions(tt.content)
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestListReplays(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"2026-01-01_100000.000_single.ttr": "(;AP[termtris:1.0]MD[single]SD[1]DT[2026-01-01]RE[40])",
		"2026-03-01_100000.000_versus.ttr": "(;AP[termtris:1.0]MD[versus]SD[2]DT[2026-03-01]RE[P2];T[0])",
		"2026-02-01_100000.000_single.ttr": "garbage",
		"notes.txt":                        "(;AP[termtris:1.0]MD[single]SD[3])",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	infos, err := ListReplays(dir)
	if err != nil {
		t.Fatalf("ListReplays: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 replays, got %d", len(infos))
	}
	if infos[0].Mode != ModeVersus || infos[0].ActionCount != 1 {
		t.Fatalf("newest replay should come first, got %+v", infos[0])
	}
	if infos[1].Result != "40" {
		t.Fatalf("second replay result = %q, want 40", infos[1].Result)
	}
}

func TestListReplaysMissingDir(t *testing.T) {
	infos, err := ListReplays(filepath.Join(t.TempDir(), "nope"))
	if err != nil || infos != nil {
		t.Fatalf("missing dir should yield nothing, got %v, %v", infos, err)
	}
}
