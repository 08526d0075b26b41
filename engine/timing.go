package engine

import "time"

// VersusTickInterval is the gravity period for both players in a versus match.
const VersusTickInterval = 600 * time.Millisecond

const (
	baseTickMillis = 1000
	tickStepMillis = 75
	minTickMillis  = 100
)

// TickInterval returns the single-player gravity period at level.
func TickInterval(level int) time.Duration {
	ms := baseTickMillis - (level-1)*tickStepMillis
	if ms < minTickMillis {
		ms = minTickMillis
	}
	return time.Duration(ms) * time.Millisecond
}
