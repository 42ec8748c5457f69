package lsoperators

import (
	"github.com/katalvlaran/vrpsolve/costmodel"
	"github.com/katalvlaran/vrpsolve/solutionstate"
)

// Exchange swaps two single tasks across two routes, each landing in the
// other's old position.
type Exchange struct {
	base
	noUpperBound
	sourcePos, targetPos int
}

// NewExchange proposes swapping source's job at sourcePos with target's
// job at targetPos.
func NewExchange(p *solutionstate.Problem, sol *solutionstate.Solution, source, sourcePos, target, targetPos int) *Exchange {
	return &Exchange{
		base:      base{p: p, sol: sol, source: source, target: target},
		sourcePos: sourcePos,
		targetPos: targetPos,
	}
}

func (op *Exchange) Name() string { return "Exchange" }

func (op *Exchange) ComputeGain() costmodel.Gain {
	src := op.sol.Routes[op.source].RouteRanks()
	tgt := op.sol.Routes[op.target].RouteRanks()
	if op.sourcePos >= len(src) || op.targetPos >= len(tgt) {
		return costmodel.Gain{}
	}
	a, b := src[op.sourcePos], tgt[op.targetPos]
	if isPaired(op.p, a) || isPaired(op.p, b) {
		return costmodel.Gain{}
	}

	op.newSource = splice(src, []int{b}, op.sourcePos, op.sourcePos+1)
	op.newTarget = splice(tgt, []int{a}, op.targetPos, op.targetPos+1)
	op.gain = op.gainFor(op.newSource, op.newTarget)
	op.computed = true

	return op.gain
}

func (op *Exchange) IsValid() bool { return op.valid() }
func (op *Exchange) Apply() error  { return op.apply() }

// IntraExchange swaps two tasks within one route.
type IntraExchange struct {
	base
	noUpperBound
	firstPos, secondPos int
}

// NewIntraExchange proposes swapping positions firstPos and secondPos of
// one vehicle's route.
func NewIntraExchange(p *solutionstate.Problem, sol *solutionstate.Solution, vehicle, firstPos, secondPos int) *IntraExchange {
	return &IntraExchange{
		base:      base{p: p, sol: sol, source: vehicle, target: vehicle},
		firstPos:  firstPos,
		secondPos: secondPos,
	}
}

func (op *IntraExchange) Name() string { return "IntraExchange" }

func (op *IntraExchange) ComputeGain() costmodel.Gain {
	ranks := op.sol.Routes[op.source].RouteRanks()
	if op.firstPos >= op.secondPos || op.secondPos >= len(ranks) {
		return costmodel.Gain{}
	}
	a, b := ranks[op.firstPos], ranks[op.secondPos]
	if isPaired(op.p, a) || isPaired(op.p, b) {
		return costmodel.Gain{}
	}

	seq := append([]int(nil), ranks...)
	seq[op.firstPos], seq[op.secondPos] = b, a
	op.newSource, op.newTarget = seq, seq
	op.gain = op.gainFor(seq, seq)
	op.computed = true

	return op.gain
}

func (op *IntraExchange) IsValid() bool { return op.valid() }
func (op *IntraExchange) Apply() error  { return op.apply() }
