package ledger

import (
	"math/rand/v2"
	"sync"
)

// DiceRoller draws an integer uniformly from the closed interval [min, max]
type DiceRoller interface {
	Roll(min, max int) int
}

// RollerFunc adapts a plain function to DiceRoller
type RollerFunc func(min, max int) int

// Roll implements DiceRoller
func (f RollerFunc) Roll(min, max int) int {
	return f(min, max)
}

// RandomRoller draws from the runtime's randomly seeded generator. Each call
// is an independent draw, and it is safe for concurrent use.
type RandomRoller struct{}

// Roll implements DiceRoller
func (RandomRoller) Roll(min, max int) int {
	return min + rand.IntN(max-min+1)
}

// SequenceRoller replays a fixed list of rolls, cycling when exhausted.
// It ignores the requested bounds and exists for deterministic tests and
// replays.
type SequenceRoller struct {
	mu    sync.Mutex
	rolls []int
	next  int
}

// NewSequenceRoller creates a roller returning rolls in order
func NewSequenceRoller(rolls ...int) *SequenceRoller {
	return &SequenceRoller{rolls: rolls}
}

// Roll implements DiceRoller
func (r *SequenceRoller) Roll(min, max int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.rolls) == 0 {
		return min
	}
	roll := r.rolls[r.next%len(r.rolls)]
	r.next++
	return roll
}
