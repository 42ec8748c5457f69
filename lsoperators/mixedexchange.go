package lsoperators

import (
	"github.com/katalvlaran/vrpsolve/costmodel"
	"github.com/katalvlaran/vrpsolve/solutionstate"
)

// MixedExchange swaps a single task from the source route with a
// consecutive-task edge from the target route.
type MixedExchange struct {
	base
	noUpperBound
	sourcePos, targetPos int
}

// NewMixedExchange proposes swapping source's task at sourcePos with
// target's edge [targetPos, targetPos+1].
func NewMixedExchange(p *solutionstate.Problem, sol *solutionstate.Solution, source, sourcePos, target, targetPos int) *MixedExchange {
	return &MixedExchange{
		base:      base{p: p, sol: sol, source: source, target: target},
		sourcePos: sourcePos,
		targetPos: targetPos,
	}
}

func (op *MixedExchange) Name() string { return "MixedExchange" }

func (op *MixedExchange) ComputeGain() costmodel.Gain {
	src := op.sol.Routes[op.source].RouteRanks()
	tgt := op.sol.Routes[op.target].RouteRanks()
	if op.sourcePos >= len(src) {
		return costmodel.Gain{}
	}
	single := src[op.sourcePos]
	if isPaired(op.p, single) {
		return costmodel.Gain{}
	}
	edge, ok := edgeAt(op.p, tgt, op.targetPos)
	if !ok {
		return costmodel.Gain{}
	}

	edgeVariants := [][]int{edge}
	if blockReversible(op.p, edge) {
		edgeVariants = append(edgeVariants, reversed(edge))
	}

	best := costmodel.Gain{}
	found := false
	for _, ev := range edgeVariants {
		newSource := splice(src, ev, op.sourcePos, op.sourcePos+1)
		newTarget := splice(tgt, []int{single}, op.targetPos, op.targetPos+2)
		g := op.gainFor(newSource, newTarget)
		if !found || g.Cost > best.Cost {
			best, found = g, true
			op.newSource, op.newTarget = newSource, newTarget
		}
	}
	op.gain = best
	op.computed = found

	return op.gain
}

func (op *MixedExchange) IsValid() bool { return op.valid() }
func (op *MixedExchange) Apply() error  { return op.apply() }

// IntraMixedExchange swaps a task with a disjoint consecutive edge within
// one route.
type IntraMixedExchange struct {
	base
	noUpperBound
	taskPos, edgePos int
}

// NewIntraMixedExchange proposes swapping the task at taskPos with the
// edge at edgePos of one route; the two spans must not overlap.
func NewIntraMixedExchange(p *solutionstate.Problem, sol *solutionstate.Solution, vehicle, taskPos, edgePos int) *IntraMixedExchange {
	return &IntraMixedExchange{
		base:    base{p: p, sol: sol, source: vehicle, target: vehicle},
		taskPos: taskPos,
		edgePos: edgePos,
	}
}

func (op *IntraMixedExchange) Name() string { return "IntraMixedExchange" }

func (op *IntraMixedExchange) ComputeGain() costmodel.Gain {
	ranks := op.sol.Routes[op.source].RouteRanks()
	if op.taskPos >= len(ranks) {
		return costmodel.Gain{}
	}
	overlaps := op.taskPos >= op.edgePos && op.taskPos <= op.edgePos+1
	if overlaps {
		return costmodel.Gain{}
	}
	single := ranks[op.taskPos]
	if isPaired(op.p, single) {
		return costmodel.Gain{}
	}
	edge, ok := edgeAt(op.p, ranks, op.edgePos)
	if !ok {
		return costmodel.Gain{}
	}

	edgeVariants := [][]int{edge}
	if blockReversible(op.p, edge) {
		edgeVariants = append(edgeVariants, reversed(edge))
	}

	best := costmodel.Gain{}
	found := false
	for _, ev := range edgeVariants {
		var seq []int
		if op.taskPos < op.edgePos {
			seq = splice(ranks, ev, op.taskPos, op.taskPos+1)
			seq = splice(seq, []int{single}, op.edgePos+1, op.edgePos+3)
		} else {
			seq = splice(ranks, []int{single}, op.edgePos, op.edgePos+2)
			seq = splice(seq, ev, op.taskPos-1, op.taskPos)
		}
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

func (op *IntraMixedExchange) IsValid() bool { return op.valid() }
func (op *IntraMixedExchange) Apply() error  { return op.apply() }
