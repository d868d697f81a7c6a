// Package tictactoe is a minimal concrete game wiring the three external
// contracts of the search engine (state, evaluator, response generator) to a
// trivial 3x3 board, so the engine can be exercised end to end without a
// host application.
package tictactoe

import (
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/hailam/gametree/internal/search"
)

// Mark is the content of a cell.
type Mark int8

const (
	Empty Mark = iota
	X          // Maximizer's mark
	O          // Minimizer's mark
)

const (
	maxWinsValue float32 = 1000
	minWinsValue float32 = -1000
)

// lines enumerates every winning triple of cell indices.
var lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // columns
	{0, 4, 8}, {2, 4, 6}, // diagonals
}

// cellWeight gives a light positional heuristic: the center is strongest,
// corners next, edges weakest.
var cellWeight = [9]float32{2, 1, 2, 1, 3, 1, 2, 1, 2}

// State is a 3x3 tic-tac-toe position.
type State struct {
	cells [9]Mark
	mover search.Player
}

// NewGame returns the empty starting position with the maximizer to move.
func NewGame() *State {
	return &State{mover: search.Maximizer}
}

// Fingerprint packs the nine cells (2 bits each) and the mover (bit 18) into
// a 32-bit word, then hashes its four little-endian bytes. The packed word
// alone already distinguishes every position; xxhash's avalanche turns it
// into a well-distributed 64-bit value, matching what the cache expects of a
// real fingerprinting scheme.
func (s *State) Fingerprint() uint64 {
	var packed uint32
	for i, m := range s.cells {
		packed |= uint32(m) << uint(2*i)
	}
	if s.mover == search.Minimizer {
		packed |= 1 << 18
	}

	var buf [4]byte
	buf[0] = byte(packed)
	buf[1] = byte(packed >> 8)
	buf[2] = byte(packed >> 16)
	buf[3] = byte(packed >> 24)

	h := xxhash.Sum64(buf[:])
	// The all-ones fingerprint is reserved as the cache's "unused slot"
	// sentinel; no real position may produce it. Collision odds are
	// astronomically small for a 9-cell game, but flip the low bit to make
	// the exclusion exact rather than merely probable.
	if h == ^uint64(0) {
		h ^= 1
	}
	return h
}

// WhoseTurn reports the mover.
func (s *State) WhoseTurn() search.Player { return s.mover }

func (s *State) markAt(row, col int) Mark { return s.cells[row*3+col] }

// String renders the board for debugging and CLI output.
func (s *State) String() string {
	var b strings.Builder
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			switch s.markAt(row, col) {
			case X:
				b.WriteByte('X')
			case O:
				b.WriteByte('O')
			default:
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func markFor(p search.Player) Mark {
	if p == search.Maximizer {
		return X
	}
	return O
}

func (s *State) winner() Mark {
	for _, l := range lines {
		a, b, c := s.cells[l[0]], s.cells[l[1]], s.cells[l[2]]
		if a != Empty && a == b && b == c {
			return a
		}
	}
	return Empty
}

func (s *State) full() bool {
	for _, m := range s.cells {
		if m == Empty {
			return false
		}
	}
	return true
}

// Generator enumerates legal moves: one successor per empty cell.
type Generator struct{}

// Generate implements search.ResponseGenerator. depth is unused: this game's
// legal moves never vary by search depth.
func (Generator) Generate(state search.GameState, depth int) []search.GameState {
	s := state.(*State)

	if s.winner() != Empty || s.full() {
		return nil
	}

	mark := markFor(s.mover)
	next := search.Minimizer
	if s.mover == search.Minimizer {
		next = search.Maximizer
	}

	var out []search.GameState
	for i, m := range s.cells {
		if m != Empty {
			continue
		}
		child := *s
		child.cells[i] = mark
		child.mover = next
		out = append(out, &child)
	}
	return out
}

// Evaluator scores a position from the maximizer's (X's) perspective.
type Evaluator struct{}

func (Evaluator) MaxWinsValue() float32 { return maxWinsValue }
func (Evaluator) MinWinsValue() float32 { return minWinsValue }

// Evaluate returns a win sentinel for a decided game, else a small
// positional heuristic: the weighted sum of X's occupied cells minus O's.
func (Evaluator) Evaluate(state search.GameState) float32 {
	s := state.(*State)

	switch s.winner() {
	case X:
		return maxWinsValue
	case O:
		return minWinsValue
	}

	var score float32
	for i, m := range s.cells {
		switch m {
		case X:
			score += cellWeight[i]
		case O:
			score -= cellWeight[i]
		}
	}
	return score
}
