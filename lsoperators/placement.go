package lsoperators

import (
	"math"

	"github.com/katalvlaran/vrpsolve/solutionstate"
)

// bestPlacement finds the cheapest feasible contiguous insertion of block
// into baseSeq on vehicle v, optionally also trying the reversed block.
// Returns the winning sequence and whether any placement was feasible.
// Complexity: O(n) candidate positions × O(n) evals.
func bestPlacement(p *solutionstate.Problem, sol *solutionstate.Solution, v int, baseSeq, block []int, tryReverse bool) ([]int, bool) {
	bestCost := int64(math.MaxInt64)
	var best []int

	variants := [][]int{block}
	if tryReverse && len(block) > 1 {
		variants = append(variants, reversed(block))
	}
	for _, variant := range variants {
		for pos := 0; pos <= len(baseSeq); pos++ {
			seq := splice(baseSeq, variant, pos, pos)
			if !solutionstate.SeqFeasible(p, sol, v, seq) {
				continue
			}
			if c := solutionstate.SeqEval(p, v, seq).Cost; c < bestCost {
				bestCost, best = c, seq
			}
		}
	}

	return best, best != nil
}

// bestPairPlacement finds the cheapest feasible insertion of a
// pickup-delivery pair into baseSeq, trying the delivery both directly
// after the pickup and further down. Complexity: O(n²)
// candidates.
func bestPairPlacement(p *solutionstate.Problem, sol *solutionstate.Solution, v int, baseSeq []int, pickup, delivery int) ([]int, bool) {
	bestCost := int64(math.MaxInt64)
	var best []int

	for pPos := 0; pPos <= len(baseSeq); pPos++ {
		withPickup := splice(baseSeq, []int{pickup}, pPos, pPos)
		for dPos := pPos + 1; dPos <= len(withPickup); dPos++ {
			seq := splice(withPickup, []int{delivery}, dPos, dPos)
			if !solutionstate.SeqFeasible(p, sol, v, seq) {
				continue
			}
			if c := solutionstate.SeqEval(p, v, seq).Cost; c < bestCost {
				bestCost, best = c, seq
			}
		}
	}

	return best, best != nil
}

// BestPlacement exposes the contiguous-block insertion search to the
// driver's job-addition step, which reuses the exact same placement logic
// the operators do.
func BestPlacement(p *solutionstate.Problem, sol *solutionstate.Solution, v int, baseSeq, block []int, tryReverse bool) ([]int, bool) {
	return bestPlacement(p, sol, v, baseSeq, block, tryReverse)
}

// BestPairPlacement exposes the pickup-delivery insertion search to the
// driver's job-addition step.
func BestPairPlacement(p *solutionstate.Problem, sol *solutionstate.Solution, v int, baseSeq []int, pickup, delivery int) ([]int, bool) {
	return bestPairPlacement(p, sol, v, baseSeq, pickup, delivery)
}

// without returns seq with the span [first, last) removed.
func without(seq []int, first, last int) []int {
	return splice(seq, nil, first, last)
}
