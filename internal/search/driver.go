package search

import (
	"log"
	"math"
	"sort"

	"github.com/hailam/gametree/internal/cache"
)

var (
	negInf = float32(math.Inf(-1))
	posInf = float32(math.Inf(1))
)

// response is a transient record of a successor state and the value/quality
// backing it, scoped to the recursion frame that produced it.
type response struct {
	state   GameState
	value   float32
	quality int16
}

// Driver is the search entry point. It holds no state of its own beyond its
// collaborators; the transposition cache is the only thing that persists
// across calls to FindBestReply.
type Driver struct {
	cache    *cache.Cache
	eval     Evaluator
	gen      ResponseGenerator
	maxDepth int
}

// New builds a Driver. maxDepth must be non-negative.
func New(c *cache.Cache, eval Evaluator, gen ResponseGenerator, maxDepth int) *Driver {
	if maxDepth < 0 {
		panic("search: max depth must not be negative")
	}
	return &Driver{cache: c, eval: eval, gen: gen, maxDepth: maxDepth}
}

// FindBestReply searches root to the driver's configured depth and returns
// the successor state that is optimal for root's mover under optimal
// opposing play. ok is false when root has no legal replies.
func (d *Driver) FindBestReply(root GameState) (best GameState, ok bool) {
	var r response
	if root.WhoseTurn() == Maximizer {
		r, ok = d.maximizerSearch(root, negInf, posInf, 0)
	} else {
		r, ok = d.minimizerSearch(root, negInf, posInf, 0)
	}
	if !ok {
		log.Printf("[driver] no legal reply to fingerprint %#x", root.Fingerprint())
		return nil, false
	}
	return r.state, true
}

// generateResponses enumerates state's successors at depth and resolves
// each one's preliminary value via the cache or the evaluator.
func (d *Driver) generateResponses(state GameState, depth int) []response {
	successors := d.gen.Generate(state, depth)
	if len(successors) == 0 {
		return nil
	}
	responses := make([]response, len(successors))
	for i, s := range successors {
		value, quality := d.preliminaryValue(s)
		responses[i] = response{state: s, value: value, quality: quality}
	}
	return responses
}

// preliminaryValue resolves a state's value from the cache, falling back to
// the static evaluator on miss. A miss is unconditionally written back to
// the cache at quality 0 so repeated evaluator calls for the same
// fingerprint are amortized across the search.
func (d *Driver) preliminaryValue(state GameState) (float32, int16) {
	if value, quality, ok := d.cache.Check(state.Fingerprint(), -1); ok {
		return value, quality
	}
	value := d.eval.Evaluate(state)
	d.cache.Update(state.Fingerprint(), value, 0)
	return value, 0
}

// maximizerSearch evaluates all of state's responses and returns the one
// with the highest value, pruning on a beta cutoff.
func (d *Driver) maximizerSearch(state GameState, alpha, beta float32, depth int) (response, bool) {
	replyDepth := depth + 1
	searchQuality := int16(d.maxDepth - replyDepth)

	responses := d.generateResponses(state, depth)
	if len(responses) == 0 {
		return response{}, false
	}

	sort.Slice(responses, func(i, j int) bool {
		return responses[i].value > responses[j].value
	})

	bestValue := negInf
	bestQuality := int16(-1)
	var bestState GameState
	pruned := false

	for i := range responses {
		r := &responses[i]

		skip := r.value >= d.eval.MaxWinsValue() ||
			replyDepth >= d.maxDepth ||
			r.quality >= searchQuality
		if !skip {
			if sub, ok := d.minimizerSearch(r.state, alpha, beta, replyDepth); ok {
				r.value = sub.value
				r.quality = sub.quality
			}
		}

		if r.value > bestValue {
			bestValue = r.value
			bestQuality = r.quality
			bestState = r.state

			if bestValue >= d.eval.MaxWinsValue() {
				break
			}
			if bestValue > beta {
				pruned = true
				break
			}
			if bestValue > alpha {
				alpha = bestValue
			}
		}
	}

	if bestState == nil {
		panic("search: maximizer search produced no best state from a non-empty response list")
	}

	if !pruned {
		d.cache.Update(state.Fingerprint(), bestValue, bestQuality+1)
	}

	return response{state: bestState, value: bestValue, quality: bestQuality + 1}, true
}

// minimizerSearch is the dual of maximizerSearch: it picks the lowest value
// and prunes on an alpha cutoff.
func (d *Driver) minimizerSearch(state GameState, alpha, beta float32, depth int) (response, bool) {
	replyDepth := depth + 1
	searchQuality := int16(d.maxDepth - replyDepth)

	responses := d.generateResponses(state, depth)
	if len(responses) == 0 {
		return response{}, false
	}

	sort.Slice(responses, func(i, j int) bool {
		return responses[i].value < responses[j].value
	})

	bestValue := posInf
	bestQuality := int16(-1)
	var bestState GameState
	pruned := false

	for i := range responses {
		r := &responses[i]

		skip := r.value <= d.eval.MinWinsValue() ||
			replyDepth >= d.maxDepth ||
			r.quality >= searchQuality
		if !skip {
			if sub, ok := d.maximizerSearch(r.state, alpha, beta, replyDepth); ok {
				r.value = sub.value
				r.quality = sub.quality
			}
		}

		if r.value < bestValue {
			bestValue = r.value
			bestQuality = r.quality
			bestState = r.state

			if bestValue <= d.eval.MinWinsValue() {
				break
			}
			if bestValue < alpha {
				pruned = true
				break
			}
			if bestValue < beta {
				beta = bestValue
			}
		}
	}

	if bestState == nil {
		panic("search: minimizer search produced no best state from a non-empty response list")
	}

	if !pruned {
		d.cache.Update(state.Fingerprint(), bestValue, bestQuality+1)
	}

	return response{state: bestState, value: bestValue, quality: bestQuality + 1}, true
}
