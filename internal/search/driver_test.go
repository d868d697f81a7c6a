package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hailam/gametree/internal/cache"
)

const (
	testMaxWins = 1000
	testMinWins = -1000
)

// node is a hand-built test game state: an identity (for readable failure
// messages), a fingerprint, and the mover whose turn it is.
type node struct {
	name  string
	fp    uint64
	mover Player
}

func (n *node) Fingerprint() uint64 { return n.fp }
func (n *node) WhoseTurn() Player   { return n.mover }

// tree wires together a fixed set of nodes, a generator keyed by fingerprint,
// and an evaluator keyed by fingerprint, so scenarios can be built as plain
// Go literals instead of a real game's move rules.
type tree struct {
	children   map[uint64][]GameState
	values     map[uint64]float32
	evalCalls  map[uint64]int
	generation map[uint64]int
}

func newTree() *tree {
	return &tree{
		children:   map[uint64][]GameState{},
		values:     map[uint64]float32{},
		evalCalls:  map[uint64]int{},
		generation: map[uint64]int{},
	}
}

func (t *tree) Generate(s GameState, depth int) []GameState {
	t.generation[s.Fingerprint()]++
	return t.children[s.Fingerprint()]
}

func (t *tree) Evaluate(s GameState) float32 {
	t.evalCalls[s.Fingerprint()]++
	return t.values[s.Fingerprint()]
}

func (t *tree) MaxWinsValue() float32 { return testMaxWins }
func (t *tree) MinWinsValue() float32 { return testMinWins }

func TestFindBestReplyLeafAtRootReturnsNone(t *testing.T) {
	tr := newTree()
	root := &node{name: "root", fp: 1, mover: Maximizer}

	d := New(cache.New(64, 10), tr, tr, 1)
	_, ok := d.FindBestReply(root)
	require.False(t, ok)
}

func TestFindBestReplyOnePlyMaxPick(t *testing.T) {
	tr := newTree()
	root := &node{name: "root", fp: 1, mover: Maximizer}
	c2 := &node{name: "c2", fp: 2, mover: Minimizer}
	c3 := &node{name: "c3", fp: 3, mover: Minimizer}
	c4 := &node{name: "c4", fp: 4, mover: Minimizer}
	tr.children[root.fp] = []GameState{c2, c3, c4}
	tr.values[c2.fp] = 5
	tr.values[c3.fp] = 10
	tr.values[c4.fp] = 3

	d := New(cache.New(64, 10), tr, tr, 1)
	best, ok := d.FindBestReply(root)
	require.True(t, ok)
	require.Equal(t, c3, best)
}

func TestFindBestReplyOnePlyMinPick(t *testing.T) {
	tr := newTree()
	root := &node{name: "root", fp: 1, mover: Minimizer}
	c2 := &node{name: "c2", fp: 2, mover: Maximizer}
	c3 := &node{name: "c3", fp: 3, mover: Maximizer}
	c4 := &node{name: "c4", fp: 4, mover: Maximizer}
	tr.children[root.fp] = []GameState{c2, c3, c4}
	tr.values[c2.fp] = 5
	tr.values[c3.fp] = 10
	tr.values[c4.fp] = 3

	d := New(cache.New(64, 10), tr, tr, 1)
	best, ok := d.FindBestReply(root)
	require.True(t, ok)
	require.Equal(t, c4, best)
}

func TestFindBestReplyWinningShortCircuit(t *testing.T) {
	tr := newTree()
	root := &node{name: "root", fp: 1, mover: Maximizer}
	win := &node{name: "win", fp: 2, mover: Minimizer}
	other := &node{name: "other", fp: 3, mover: Minimizer}
	unreached := &node{name: "unreached", fp: 4, mover: Maximizer}
	tr.children[root.fp] = []GameState{win, other}
	tr.children[other.fp] = []GameState{unreached}
	tr.values[win.fp] = testMaxWins
	tr.values[other.fp] = 5
	tr.values[unreached.fp] = -999

	d := New(cache.New(64, 10), tr, tr, 3)
	best, ok := d.FindBestReply(root)
	require.True(t, ok)
	require.Equal(t, win, best)
	require.Zero(t, tr.generation[other.fp], "search must not expand replies ordered after the winning reply")
}

func TestFindBestReplyTwoPlyOpposingPlay(t *testing.T) {
	tr := newTree()
	root := &node{name: "root", fp: 1, mover: Maximizer}
	a := &node{name: "A", fp: 2, mover: Minimizer}
	b := &node{name: "B", fp: 3, mover: Minimizer}
	leafA := &node{name: "leafA", fp: 4, mover: Maximizer}
	leafB := &node{name: "leafB", fp: 5, mover: Maximizer}
	tr.children[root.fp] = []GameState{a, b}
	tr.children[a.fp] = []GameState{leafA} // Bob forced to this leaf
	tr.children[b.fp] = []GameState{leafB} // Bob forced to this leaf
	tr.values[leafA.fp] = 6
	tr.values[leafB.fp] = 15

	d := New(cache.New(64, 10), tr, tr, 3)
	best, ok := d.FindBestReply(root)
	require.True(t, ok)
	require.Equal(t, b, best)
}

func TestFindBestReplyCacheReuseAcrossSearches(t *testing.T) {
	tr := newTree()
	root := &node{name: "root", fp: 1, mover: Maximizer}
	c2 := &node{name: "c2", fp: 2, mover: Minimizer}
	c3 := &node{name: "c3", fp: 3, mover: Minimizer}
	c4 := &node{name: "c4", fp: 4, mover: Minimizer}
	tr.children[root.fp] = []GameState{c2, c3, c4}
	tr.values[c2.fp] = 5
	tr.values[c3.fp] = 10
	tr.values[c4.fp] = 3

	c := cache.New(64, 10)
	d := New(c, tr, tr, 1)

	best, ok := d.FindBestReply(root)
	require.True(t, ok)
	require.Equal(t, c3, best)

	_, quality, found := c.Check(root.fp, -1)
	require.True(t, found)
	require.Equal(t, int16(1), quality)

	// Reset the per-child evaluator call counters and search again: the
	// second run must resolve every child's preliminary value from the
	// cache, never calling the evaluator again.
	tr.evalCalls = map[uint64]int{}

	best, ok = d.FindBestReply(root)
	require.True(t, ok)
	require.Equal(t, c3, best)
	require.Zero(t, tr.evalCalls[c2.fp])
	require.Zero(t, tr.evalCalls[c3.fp])
	require.Zero(t, tr.evalCalls[c4.fp])
}

func TestFindBestReplyValuesStayWithinWinSentinels(t *testing.T) {
	tr := newTree()
	root := &node{name: "root", fp: 1, mover: Maximizer}
	c2 := &node{name: "c2", fp: 2, mover: Minimizer}
	c3 := &node{name: "c3", fp: 3, mover: Minimizer}
	tr.children[root.fp] = []GameState{c2, c3}
	tr.values[c2.fp] = 500
	tr.values[c3.fp] = -500

	c := cache.New(64, 10)
	d := New(c, tr, tr, 2)
	best, ok := d.FindBestReply(root)
	require.True(t, ok)
	require.Equal(t, c2, best)

	value, _, found := c.Check(root.fp, -1)
	require.True(t, found)
	require.GreaterOrEqual(t, value, float32(testMinWins))
	require.LessOrEqual(t, value, float32(testMaxWins))
}

func TestNewRejectsNegativeMaxDepth(t *testing.T) {
	require.Panics(t, func() {
		New(cache.New(8, 1), newTree(), newTree(), -1)
	})
}
