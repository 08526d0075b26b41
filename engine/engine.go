// Package engine implements the tetris rules as pure state reducers.
package engine

import (
	"math/rand/v2"

	"termtris/types"
)

// Randomizer is the source of every random choice the engine makes.
// *rand.Rand from math/rand/v2 satisfies it.
type Randomizer interface {
	IntN(n int) int
}

// Generator produces the next piece to enter play.
type Generator interface {
	Next() types.Tetromino
}

// Engine bundles the reducers with their random sources.
// An Engine must not be used from more than one goroutine at a time.
type Engine struct {
	pieces Generator
	rng    Randomizer
}

// New creates an engine drawing pieces from gen and garbage holes from rng.
func New(gen Generator, rng Randomizer) *Engine {
	return &Engine{pieces: gen, rng: rng}
}

// NewSeeded creates an engine whose every random choice derives from seed.
// Two engines with the same seed fed the same actions produce the same states.
func NewSeeded(seed uint64) *Engine {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return New(NewRandomGenerator(rng), rng)
}

// NewRandomGenerator returns a generator picking uniformly among the seven pieces.
func NewRandomGenerator(r Randomizer) Generator {
	return &randomGenerator{r: r}
}

type randomGenerator struct {
	r Randomizer
}

func (g *randomGenerator) Next() types.Tetromino {
	return NewTetromino(types.PieceTypes[g.r.IntN(len(types.PieceTypes))])
}

// NewSequenceGenerator returns a generator that cycles through seq forever.
// An empty sequence yields I pieces.
func NewSequenceGenerator(seq ...types.PieceType) Generator {
	return &sequenceGenerator{seq: seq}
}

type sequenceGenerator struct {
	seq []types.PieceType
	i   int
}

func (g *sequenceGenerator) Next() types.Tetromino {
	if len(g.seq) == 0 {
		return NewTetromino(types.I)
	}
	t := NewTetromino(g.seq[g.i%len(g.seq)])
	g.i++
	return t
}
