package ui

import (
	"context"
	"io"
	"log"
	"math/rand/v2"
	"strconv"
	"sync/atomic"
	"time"

	"termtris/engine"
	"termtris/replay"
)

var debugLog = log.New(io.Discard, "", log.Ltime|log.Lmicroseconds)

// SetDebugLog directs session diagnostics to w.
func SetDebugLog(w io.Writer) {
	debugLog = log.New(w, "", log.Ltime|log.Lmicroseconds)
}

// Queue runs f on the UI goroutine. tview.Application.QueueUpdateDraw
// satisfies it.
type Queue func(f func())

// SessionOptions configures a game session.
type SessionOptions struct {
	// ReplayDir receives one replay file per game. Empty disables recording.
	ReplayDir string
	Players   []string
	Sink      AudioSink
	Queue     Queue

	// Optional overrides, mostly for tests.
	NewSeed      func() uint64
	NewEngine    func(seed uint64) *engine.Engine
	TickInterval func(level int) time.Duration
}

func (o *SessionOptions) defaults() {
	if o.Sink == nil {
		o.Sink = NopSink{}
	}
	if o.Queue == nil {
		o.Queue = func(f func()) { f() }
	}
	if o.NewSeed == nil {
		o.NewSeed = rand.Uint64
	}
	if o.NewEngine == nil {
		o.NewEngine = engine.NewSeeded
	}
	if o.TickInterval == nil {
		o.TickInterval = engine.TickInterval
	}
}

// ticker fires on its own goroutine until stopped.
type ticker struct {
	cancel context.CancelFunc
}

func startTicker(interval func() time.Duration, fire func()) *ticker {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		timer := time.NewTimer(interval())
		defer timer.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
				fire()
				timer.Reset(interval())
			}
		}
	}()
	return &ticker{cancel: cancel}
}

func (t *ticker) Stop() {
	if t != nil {
		t.cancel()
	}
}

// recording wraps a replay recorder that may be absent.
type recording struct {
	rec *replay.Recorder
}

func startRecording(dir string, mode replay.Mode, seed uint64, players []string) recording {
	if dir == "" {
		return recording{}
	}
	rec, err := replay.NewRecorder(dir, mode, seed, players...)
	if err != nil {
		debugLog.Printf("replay disabled: %v", err)
		return recording{}
	}
	debugLog.Printf("recording %s game to %s (seed %d)", mode, rec.FilePath, seed)
	return recording{rec: rec}
}

func (r recording) add(a engine.Action) {
	if r.rec == nil {
		return
	}
	if err := r.rec.AddAction(a); err != nil {
		debugLog.Printf("record %s: %v", a, err)
	}
}

func (r recording) finish(result string) {
	if r.rec == nil {
		return
	}
	if err := r.rec.SetResult(result); err != nil {
		debugLog.Printf("record result: %v", err)
	}
	r.rec.Close()
}

// SingleSession hosts one single-player game at a time. All methods except
// the tick goroutine run on the UI goroutine.
type SingleSession struct {
	opts   SessionOptions
	eng    *engine.Engine
	seed   uint64
	state  engine.GameState
	rec    recording
	ticks  *ticker
	level  atomic.Int32
	closed bool

	OnChange   func(engine.GameState)
	OnGameOver func(engine.GameState)
}

func NewSingleSession(opts SessionOptions) *SingleSession {
	opts.defaults()
	return &SingleSession{opts: opts}
}

// Start begins a new game.
func (s *SingleSession) Start() {
	s.closed = false
	s.seed = s.opts.NewSeed()
	s.eng = s.opts.NewEngine(s.seed)
	s.state = s.eng.InitGame()
	s.level.Store(int32(s.state.Level))
	s.rec = startRecording(s.opts.ReplayDir, replay.ModeSingle, s.seed, s.opts.Players)
	s.ticks = startTicker(func() time.Duration {
		return s.opts.TickInterval(int(s.level.Load()))
	}, func() {
		s.opts.Queue(func() { s.Dispatch(engine.Tick()) })
	})
	s.changed()
}

// State returns the current game.
func (s *SingleSession) State() engine.GameState {
	return s.state
}

// Seed returns the seed of the current game.
func (s *SingleSession) Seed() uint64 {
	return s.seed
}

// Dispatch applies a to the game.
func (s *SingleSession) Dispatch(a engine.Action) {
	if s.closed || s.eng == nil {
		return
	}
	if a.Kind == engine.ActionRestart {
		s.end()
		s.Start()
		return
	}
	if s.state.Over {
		return
	}

	prev := s.state
	s.state = s.eng.Reduce(prev, a)
	s.rec.add(a)
	if s.state == prev {
		return
	}
	s.level.Store(int32(s.state.Level))
	for _, snd := range Effects(prev, s.state) {
		s.opts.Sink.Play(snd)
	}
	s.changed()

	if s.state.Over {
		debugLog.Printf("game over: score %d, lines %d, level %d", s.state.Score, s.state.Lines, s.state.Level)
		s.end()
		if s.OnGameOver != nil {
			s.OnGameOver(s.state)
		}
	}
}

func (s *SingleSession) changed() {
	if s.OnChange != nil {
		s.OnChange(s.state)
	}
}

// end stops the ticker and closes the replay.
func (s *SingleSession) end() {
	s.ticks.Stop()
	s.ticks = nil
	s.rec.finish(strconv.Itoa(s.state.Score))
	s.rec = recording{}
}

// Close ends the session. Queued ticks are ignored afterwards.
func (s *SingleSession) Close() {
	if s.closed {
		return
	}
	s.end()
	s.closed = true
}

// VersusSession hosts a local two-player match.
type VersusSession struct {
	opts   SessionOptions
	eng    *engine.Engine
	seed   uint64
	state  engine.VersusState
	rec    recording
	ticks  *ticker
	closed bool

	OnChange   func(engine.VersusState)
	OnFinished func(engine.VersusState)
}

func NewVersusSession(opts SessionOptions) *VersusSession {
	opts.defaults()
	return &VersusSession{opts: opts}
}

// Start begins a new match.
func (s *VersusSession) Start() {
	s.closed = false
	s.seed = s.opts.NewSeed()
	s.eng = s.opts.NewEngine(s.seed)
	s.state = s.eng.InitVersus()
	s.rec = startRecording(s.opts.ReplayDir, replay.ModeVersus, s.seed, s.opts.Players)
	s.ticks = startTicker(func() time.Duration {
		return engine.VersusTickInterval
	}, func() {
		s.opts.Queue(func() {
			s.Dispatch(engine.Tick().For(engine.PlayerOne))
			s.Dispatch(engine.Tick().For(engine.PlayerTwo))
		})
	})
	s.changed()
}

// State returns the current match.
func (s *VersusSession) State() engine.VersusState {
	return s.state
}

// Dispatch applies a to the match.
func (s *VersusSession) Dispatch(a engine.Action) {
	if s.closed || s.eng == nil {
		return
	}
	if a.Kind == engine.ActionRestart {
		s.end()
		s.Start()
		return
	}
	if s.state.Finished() {
		return
	}

	prev := s.state
	s.state = s.eng.ReduceVersus(prev, a)
	s.rec.add(a)
	if s.state == prev {
		return
	}
	for i := range s.state.Players {
		for _, snd := range VersusEffects(prev.Players[i], s.state.Players[i]) {
			s.opts.Sink.Play(snd)
		}
	}
	s.changed()

	if s.state.Finished() {
		debugLog.Printf("match over: %s", MatchResult(s.state))
		s.end()
		if s.OnFinished != nil {
			s.OnFinished(s.state)
		}
	}
}

func (s *VersusSession) changed() {
	if s.OnChange != nil {
		s.OnChange(s.state)
	}
}

func (s *VersusSession) end() {
	s.ticks.Stop()
	s.ticks = nil
	s.rec.finish(MatchResult(s.state))
	s.rec = recording{}
}

// Close ends the session. Queued ticks are ignored afterwards.
func (s *VersusSession) Close() {
	if s.closed {
		return
	}
	s.end()
	s.closed = true
}

// MatchResult summarizes a match as "P1", "P2", "draw" or "" while running.
func MatchResult(s engine.VersusState) string {
	switch {
	case s.Draw:
		return "draw"
	case s.Winner != 0:
		return "P" + strconv.Itoa(s.Winner)
	}
	return ""
}
