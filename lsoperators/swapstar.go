package lsoperators

import (
	"math"

	"github.com/katalvlaran/vrpsolve/costmodel"
	"github.com/katalvlaran/vrpsolve/solutionstate"
)

// SwapStar finds, for two routes, the best pair (i, j) such that removing
// i from route A and j from route B, then reinserting i in B and j in A
// at their locally-best positions, improves the total.
// Unlike Exchange, the landing positions are re-optimised rather than
// inherited.
type SwapStar struct {
	base
	noUpperBound
}

// NewSwapStar proposes the best single-task star swap between source and
// target.
func NewSwapStar(p *solutionstate.Problem, sol *solutionstate.Solution, source, target int) *SwapStar {
	return &SwapStar{base: base{p: p, sol: sol, source: source, target: target}}
}

func (op *SwapStar) Name() string { return "SwapStar" }

func (op *SwapStar) ComputeGain() costmodel.Gain {
	src := op.sol.Routes[op.source].RouteRanks()
	tgt := op.sol.Routes[op.target].RouteRanks()

	bestCost := int64(math.MinInt64)
	found := false
	for i := 0; i < len(src); i++ {
		if isPaired(op.p, src[i]) {
			continue
		}
		srcStripped := without(src, i, i+1)
		for j := 0; j < len(tgt); j++ {
			if isPaired(op.p, tgt[j]) {
				continue
			}
			tgtStripped := without(tgt, j, j+1)

			newSource, okS := bestPlacement(op.p, op.sol, op.source, srcStripped, []int{tgt[j]}, false)
			if !okS {
				continue
			}
			newTarget, okT := bestPlacement(op.p, op.sol, op.target, tgtStripped, []int{src[i]}, false)
			if !okT {
				continue
			}
			g := op.gainFor(newSource, newTarget)
			if !found || g.Cost > bestCost {
				bestCost = g.Cost
				found = true
				op.newSource, op.newTarget = newSource, newTarget
				op.gain = g
			}
		}
	}
	op.computed = found
	if !found {
		return costmodel.Gain{}
	}

	return op.gain
}

func (op *SwapStar) IsValid() bool { return op.valid() }
func (op *SwapStar) Apply() error  { return op.apply() }
