package lsoperators

import (
	"github.com/katalvlaran/vrpsolve/costmodel"
	"github.com/katalvlaran/vrpsolve/solutionstate"
)

// Relocate moves one single task from the source route to its best
// position in the target route.
type Relocate struct {
	base
	sourcePos int
}

// NewRelocate proposes moving the job at sourcePos of vehicle source into
// vehicle target.
func NewRelocate(p *solutionstate.Problem, sol *solutionstate.Solution, source, sourcePos, target int) *Relocate {
	return &Relocate{
		base:      base{p: p, sol: sol, source: source, target: target},
		sourcePos: sourcePos,
	}
}

func (op *Relocate) Name() string { return "Relocate" }

// GainUpperBound: the move can never gain more than the source-route
// saving from dropping the task plus the target route's entire current
// cost (an insertion can at best drive the target to zero; with
// non-metric matrices it may genuinely shrink it).
func (op *Relocate) GainUpperBound() (costmodel.Gain, bool) {
	srcRanks := op.sol.Routes[op.source].RouteRanks()
	if op.sourcePos >= len(srcRanks) || isPaired(op.p, srcRanks[op.sourcePos]) {
		return costmodel.Gain{}, true
	}
	oldEval := op.sol.RouteEval(op.p, op.source)
	newEval := solutionstate.SeqEval(op.p, op.source, without(srcRanks, op.sourcePos, op.sourcePos+1))

	bound := costmodel.GainOf(oldEval, newEval)
	bound.Cost += op.sol.RouteEval(op.p, op.target).Cost

	return bound, true
}

func (op *Relocate) ComputeGain() costmodel.Gain {
	srcRanks := op.sol.Routes[op.source].RouteRanks()
	if op.sourcePos >= len(srcRanks) {
		return costmodel.Gain{}
	}
	rank := srcRanks[op.sourcePos]
	if isPaired(op.p, rank) {
		return costmodel.Gain{} // PDShift owns paired jobs
	}

	newSource := without(srcRanks, op.sourcePos, op.sourcePos+1)
	newTarget, ok := bestPlacement(op.p, op.sol, op.target, op.sol.Routes[op.target].RouteRanks(), []int{rank}, false)
	if !ok {
		return costmodel.Gain{}
	}

	op.newSource, op.newTarget = newSource, newTarget
	op.gain = op.gainFor(newSource, newTarget)
	op.computed = true

	return op.gain
}

func (op *Relocate) IsValid() bool { return op.valid() }
func (op *Relocate) Apply() error  { return op.apply() }

// IntraRelocate moves one task to a different position within the same
// route.
type IntraRelocate struct {
	base
	noUpperBound
	fromPos, toPos int
}

// NewIntraRelocate proposes moving the job at fromPos to toPos (position
// in the route after removal).
func NewIntraRelocate(p *solutionstate.Problem, sol *solutionstate.Solution, vehicle, fromPos, toPos int) *IntraRelocate {
	return &IntraRelocate{
		base:    base{p: p, sol: sol, source: vehicle, target: vehicle},
		fromPos: fromPos,
		toPos:   toPos,
	}
}

func (op *IntraRelocate) Name() string { return "IntraRelocate" }

func (op *IntraRelocate) ComputeGain() costmodel.Gain {
	ranks := op.sol.Routes[op.source].RouteRanks()
	if op.fromPos >= len(ranks) || op.toPos > len(ranks)-1 || op.fromPos == op.toPos {
		return costmodel.Gain{}
	}
	rank := ranks[op.fromPos]
	if isPaired(op.p, rank) {
		return costmodel.Gain{}
	}

	removed := without(ranks, op.fromPos, op.fromPos+1)
	op.newSource = splice(removed, []int{rank}, op.toPos, op.toPos)
	op.newTarget = op.newSource
	op.gain = op.gainFor(op.newSource, op.newTarget)
	op.computed = true

	return op.gain
}

func (op *IntraRelocate) IsValid() bool { return op.valid() }
func (op *IntraRelocate) Apply() error  { return op.apply() }
