package lsoperators

import (
	"github.com/katalvlaran/vrpsolve/costmodel"
	"github.com/katalvlaran/vrpsolve/solutionstate"
)

// OrOpt moves a consecutive-task edge from the source route to its best
// position in the target route, optionally reversed.
type OrOpt struct {
	base
	sourcePos int
}

// NewOrOpt proposes moving source's edge [sourcePos, sourcePos+1] into
// target.
func NewOrOpt(p *solutionstate.Problem, sol *solutionstate.Solution, source, sourcePos, target int) *OrOpt {
	return &OrOpt{
		base:      base{p: p, sol: sol, source: source, target: target},
		sourcePos: sourcePos,
	}
}

func (op *OrOpt) Name() string { return "OrOpt" }

// GainUpperBound: the source saving from dropping the edge plus the
// target route's whole current cost bounds the total gain regardless of
// whether the matrix is metric.
func (op *OrOpt) GainUpperBound() (costmodel.Gain, bool) {
	src := op.sol.Routes[op.source].RouteRanks()
	if _, ok := edgeAt(op.p, src, op.sourcePos); !ok {
		return costmodel.Gain{}, true
	}
	oldEval := op.sol.RouteEval(op.p, op.source)
	newEval := solutionstate.SeqEval(op.p, op.source, without(src, op.sourcePos, op.sourcePos+2))

	bound := costmodel.GainOf(oldEval, newEval)
	bound.Cost += op.sol.RouteEval(op.p, op.target).Cost

	return bound, true
}

func (op *OrOpt) ComputeGain() costmodel.Gain {
	src := op.sol.Routes[op.source].RouteRanks()
	edge, ok := edgeAt(op.p, src, op.sourcePos)
	if !ok {
		return costmodel.Gain{}
	}

	newSource := without(src, op.sourcePos, op.sourcePos+2)
	newTarget, placed := bestPlacement(op.p, op.sol, op.target, op.sol.Routes[op.target].RouteRanks(), edge, blockReversible(op.p, edge))
	if !placed {
		return costmodel.Gain{}
	}

	op.newSource, op.newTarget = newSource, newTarget
	op.gain = op.gainFor(newSource, newTarget)
	op.computed = true

	return op.gain
}

func (op *OrOpt) IsValid() bool { return op.valid() }
func (op *OrOpt) Apply() error  { return op.apply() }

// IntraOrOpt moves a consecutive-task edge to a different position within
// the same route.
type IntraOrOpt struct {
	base
	noUpperBound
	fromPos, toPos int
}

// NewIntraOrOpt proposes moving the edge at fromPos to position toPos in
// the shortened route.
func NewIntraOrOpt(p *solutionstate.Problem, sol *solutionstate.Solution, vehicle, fromPos, toPos int) *IntraOrOpt {
	return &IntraOrOpt{
		base:    base{p: p, sol: sol, source: vehicle, target: vehicle},
		fromPos: fromPos,
		toPos:   toPos,
	}
}

func (op *IntraOrOpt) Name() string { return "IntraOrOpt" }

func (op *IntraOrOpt) ComputeGain() costmodel.Gain {
	ranks := op.sol.Routes[op.source].RouteRanks()
	edge, ok := edgeAt(op.p, ranks, op.fromPos)
	if !ok {
		return costmodel.Gain{}
	}
	removed := without(ranks, op.fromPos, op.fromPos+2)
	if op.toPos < 0 || op.toPos > len(removed) || op.toPos == op.fromPos {
		return costmodel.Gain{}
	}

	best := costmodel.Gain{}
	found := false
	variants := [][]int{edge}
	if blockReversible(op.p, edge) {
		variants = append(variants, reversed(edge))
	}
	for _, variant := range variants {
		seq := splice(removed, variant, op.toPos, op.toPos)
		g := op.gainFor(seq, seq)
		if !found || g.Cost > best.Cost {
			best, found = g, true
			op.newSource, op.newTarget = seq, seq
		}
	}
	op.gain = best
	op.computed = found

	return op.gain
}

func (op *IntraOrOpt) IsValid() bool { return op.valid() }
func (op *IntraOrOpt) Apply() error  { return op.apply() }
