package lsoperators

import (
	"math"

	"github.com/katalvlaran/vrpsolve/costmodel"
	"github.com/katalvlaran/vrpsolve/solutionstate"
)

// RouteExchange swaps two entire routes between vehicles — the cheap way
// to fix a heterogeneous-fleet misassignment where each vehicle would
// rather drive the other's tour.
type RouteExchange struct {
	base
	noUpperBound
}

// NewRouteExchange proposes swapping the full routes of source and target.
func NewRouteExchange(p *solutionstate.Problem, sol *solutionstate.Solution, source, target int) *RouteExchange {
	return &RouteExchange{base: base{p: p, sol: sol, source: source, target: target}}
}

func (op *RouteExchange) Name() string { return "RouteExchange" }

func (op *RouteExchange) ComputeGain() costmodel.Gain {
	src := op.sol.Routes[op.source].RouteRanks()
	tgt := op.sol.Routes[op.target].RouteRanks()
	if len(src) == 0 && len(tgt) == 0 {
		return costmodel.Gain{}
	}

	op.newSource = append([]int(nil), tgt...)
	op.newTarget = append([]int(nil), src...)
	op.gain = op.gainFor(op.newSource, op.newTarget)
	op.computed = true

	return op.gain
}

func (op *RouteExchange) IsValid() bool { return op.valid() }
func (op *RouteExchange) Apply() error  { return op.apply() }

// RouteSplit splits one route in two, dispatching each half to a
// currently-empty vehicle; the split point minimises the summed cost of
// the two new routes.
type RouteSplit struct {
	base
	noUpperBound
	// secondTarget receives the tail half; base.target receives the head.
	secondTarget int
	newSecond    []int
}

// NewRouteSplit proposes splitting source's route across the two empty
// vehicles headTarget and tailTarget.
func NewRouteSplit(p *solutionstate.Problem, sol *solutionstate.Solution, source, headTarget, tailTarget int) *RouteSplit {
	return &RouteSplit{
		base:         base{p: p, sol: sol, source: source, target: headTarget},
		secondTarget: tailTarget,
	}
}

func (op *RouteSplit) Name() string { return "RouteSplit" }

func (op *RouteSplit) UpdateCandidates() []int {
	return []int{op.source, op.target, op.secondTarget}
}

func (op *RouteSplit) AdditionCandidates() []int { return op.UpdateCandidates() }

func (op *RouteSplit) InvalidatedBy(vehicle int) bool {
	return vehicle == op.source || vehicle == op.target || vehicle == op.secondTarget
}

func (op *RouteSplit) ComputeGain() costmodel.Gain {
	src := op.sol.Routes[op.source].RouteRanks()
	if len(src) < 2 ||
		op.sol.Routes[op.target].Len() > 0 ||
		op.sol.Routes[op.secondTarget].Len() > 0 {
		return costmodel.Gain{}
	}

	oldEval := op.sol.RouteEval(op.p, op.source)
	bestCost := int64(math.MaxInt64)
	found := false
	for cut := 1; cut < len(src); cut++ {
		head, tail := src[:cut], src[cut:]
		if !tailSwappable(op.p, head, tail) {
			continue
		}
		headEval := solutionstate.SeqEval(op.p, op.target, head)
		tailEval := solutionstate.SeqEval(op.p, op.secondTarget, tail)
		if c := headEval.Cost + tailEval.Cost; c < bestCost {
			bestCost = c
			found = true
			op.newTarget = append([]int(nil), head...)
			op.newSecond = append([]int(nil), tail...)
		}
	}
	if !found {
		return costmodel.Gain{}
	}

	op.newSource = nil
	newEval := solutionstate.SeqEval(op.p, op.target, op.newTarget).
		Add(solutionstate.SeqEval(op.p, op.secondTarget, op.newSecond))
	op.gain = costmodel.GainOf(oldEval, newEval)
	op.computed = true

	return op.gain
}

func (op *RouteSplit) IsValid() bool {
	if !op.computed {
		return false
	}

	return solutionstate.SeqFeasible(op.p, op.sol, op.target, op.newTarget) &&
		solutionstate.SeqFeasible(op.p, op.sol, op.secondTarget, op.newSecond)
}

func (op *RouteSplit) Apply() error {
	if !op.computed {
		return ErrInvalidMove
	}
	if err := op.sol.Routes[op.source].SetRoute(nil); err != nil {
		return err
	}
	if err := op.sol.Routes[op.target].SetRoute(op.newTarget); err != nil {
		return err
	}

	return op.sol.Routes[op.secondTarget].SetRoute(op.newSecond)
}
