package lsoperators

import (
	"github.com/katalvlaran/vrpsolve/costmodel"
	"github.com/katalvlaran/vrpsolve/solutionstate"
	"github.com/katalvlaran/vrpsolve/vrp"
)

// PDShift moves a pickup-delivery pair from the source route to the
// target route, re-optimising the pair's insertion positions there.
type PDShift struct {
	base
	pickupPos int
}

// NewPDShift proposes moving the shipment whose pickup sits at pickupPos
// of the source route into the target route.
func NewPDShift(p *solutionstate.Problem, sol *solutionstate.Solution, source, pickupPos, target int) *PDShift {
	return &PDShift{
		base:      base{p: p, sol: sol, source: source, target: target},
		pickupPos: pickupPos,
	}
}

func (op *PDShift) Name() string { return "PDShift" }

// GainUpperBound: the source saving from dropping both halves plus the
// target route's whole current cost bounds the total gain.
func (op *PDShift) GainUpperBound() (costmodel.Gain, bool) {
	src := op.sol.Routes[op.source].RouteRanks()
	pickup, delivery, ok := op.pair(src)
	if !ok {
		return costmodel.Gain{}, true
	}
	stripped := removeRanks(src, pickup, delivery)
	oldEval := op.sol.RouteEval(op.p, op.source)
	newEval := solutionstate.SeqEval(op.p, op.source, stripped)

	bound := costmodel.GainOf(oldEval, newEval)
	bound.Cost += op.sol.RouteEval(op.p, op.target).Cost

	return bound, true
}

// pair resolves the pickup at pickupPos and its delivery rank; fails when
// the position does not hold a pickup.
func (op *PDShift) pair(src []int) (pickup, delivery int, ok bool) {
	if op.pickupPos >= len(src) {
		return 0, 0, false
	}
	pickup = src[op.pickupPos]
	if op.p.Jobs[pickup].Type != vrp.Pickup {
		return 0, 0, false
	}

	return pickup, op.p.Jobs[pickup].PairRank, true
}

// removeRanks drops both named ranks from seq.
func removeRanks(seq []int, a, b int) []int {
	out := make([]int, 0, len(seq)-2)
	for _, r := range seq {
		if r != a && r != b {
			out = append(out, r)
		}
	}

	return out
}

func (op *PDShift) ComputeGain() costmodel.Gain {
	src := op.sol.Routes[op.source].RouteRanks()
	pickup, delivery, ok := op.pair(src)
	if !ok {
		return costmodel.Gain{}
	}

	newSource := removeRanks(src, pickup, delivery)
	newTarget, placed := bestPairPlacement(op.p, op.sol, op.target, op.sol.Routes[op.target].RouteRanks(), pickup, delivery)
	if !placed {
		return costmodel.Gain{}
	}

	op.newSource, op.newTarget = newSource, newTarget
	op.gain = op.gainFor(newSource, newTarget)
	op.computed = true

	return op.gain
}

func (op *PDShift) IsValid() bool { return op.valid() }
func (op *PDShift) Apply() error  { return op.apply() }
