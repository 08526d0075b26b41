package ui

import (
	"termtris/engine"
	"termtris/types"
)

// Sound is a game event worth signalling to the player.
type Sound uint8

const (
	SoundLock Sound = iota + 1
	SoundClear
	SoundTetris
	SoundGarbage
	SoundGameOver
)

// AudioSink plays sounds. Implementations must not block.
type AudioSink interface {
	Play(Sound)
}

// NopSink discards every sound.
type NopSink struct{}

func (NopSink) Play(Sound) {}

// beeper is the part of tcell.Screen the bell sink uses.
type beeper interface {
	Beep() error
}

// BellSink rings the terminal bell for notable events. Plain locks are silent.
type BellSink struct {
	screen beeper
}

func NewBellSink(screen beeper) *BellSink {
	return &BellSink{screen: screen}
}

func (b *BellSink) Play(s Sound) {
	if b.screen == nil {
		return
	}
	switch s {
	case SoundClear, SoundGarbage, SoundGameOver:
		b.screen.Beep()
	case SoundTetris:
		b.screen.Beep()
		b.screen.Beep()
	}
}

// Effects returns the sounds caused by the transition from prev to next.
func Effects(prev, next engine.GameState) []Sound {
	if prev.Over {
		return nil
	}
	var sounds []Sound
	switch cleared := next.Lines - prev.Lines; {
	case cleared >= 4:
		sounds = append(sounds, SoundTetris)
	case cleared > 0:
		sounds = append(sounds, SoundClear)
	case pieceCells(next.Board) > pieceCells(prev.Board):
		sounds = append(sounds, SoundLock)
	}
	if next.Over {
		sounds = append(sounds, SoundGameOver)
	}
	return sounds
}

// VersusEffects returns the sounds for one player's side of a match.
func VersusEffects(prev, next engine.PlayerState) []Sound {
	sounds := Effects(prev.GameState, next.GameState)
	if next.GarbageQueue > prev.GarbageQueue {
		sounds = append(sounds, SoundGarbage)
	}
	return sounds
}

// pieceCells counts locked tetromino cells, ignoring garbage.
func pieceCells(b types.Board) int {
	n := 0
	for _, row := range b {
		for _, c := range row {
			if c.Filled() && c != types.Garbage {
				n++
			}
		}
	}
	return n
}
