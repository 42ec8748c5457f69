package lsoperators

import (
	"github.com/katalvlaran/vrpsolve/costmodel"
	"github.com/katalvlaran/vrpsolve/solutionstate"
	"github.com/katalvlaran/vrpsolve/vrp"
)

// TwoOpt swaps the tails of two routes after the chosen ranks.
type TwoOpt struct {
	base
	sourcePos, targetPos int
}

// NewTwoOpt proposes exchanging source's tail after sourcePos with
// target's tail after targetPos. Position -1 means "before the first
// task" (the whole route is the tail).
func NewTwoOpt(p *solutionstate.Problem, sol *solutionstate.Solution, source, sourcePos, target, targetPos int) *TwoOpt {
	return &TwoOpt{
		base:      base{p: p, sol: sol, source: source, target: target},
		sourcePos: sourcePos,
		targetPos: targetPos,
	}
}

func (op *TwoOpt) Name() string { return "TwoOpt" }

// GainUpperBound bounds the gain by the cost of the two edges the move
// severs: a tail swap cannot save more than dropping both crossing edges
// entirely.
func (op *TwoOpt) GainUpperBound() (costmodel.Gain, bool) {
	src := op.sol.Routes[op.source].RouteRanks()
	tgt := op.sol.Routes[op.target].RouteRanks()

	var bound costmodel.Gain
	bound.Cost += severedEdgeCost(op.p, op.source, src, op.sourcePos, &op.p.Vehicles[op.source])
	bound.Cost += severedEdgeCost(op.p, op.target, tgt, op.targetPos, &op.p.Vehicles[op.target])

	return bound, true
}

// severedEdgeCost prices the edge leaving position pos (or the start leg
// when pos == -1).
func severedEdgeCost(p *solutionstate.Problem, v int, ranks []int, pos int, veh *vrp.Vehicle) int64 {
	var from int
	if pos >= 0 && pos < len(ranks) {
		from = p.Jobs[ranks[pos]].Location.Index
	} else if veh.Start != nil {
		from = veh.Start.Index
	} else {
		return 0
	}
	if pos+1 < len(ranks) {
		return p.Edge(v, from, p.Jobs[ranks[pos+1]].Location.Index).Cost
	}
	if veh.End != nil {
		return p.Edge(v, from, veh.End.Index).Cost
	}

	return 0
}

func splitTail(ranks []int, pos int) (head, tail []int) {
	cut := pos + 1
	if cut < 0 {
		cut = 0
	}
	if cut > len(ranks) {
		cut = len(ranks)
	}

	return ranks[:cut], ranks[cut:]
}

// tailSwappable refuses cuts that separate a pickup from its delivery.
func tailSwappable(p *solutionstate.Problem, head, tail []int) bool {
	inHead := make(map[int]bool, len(head))
	for _, r := range head {
		inHead[r] = true
	}
	for _, r := range tail {
		if isPaired(p, r) && inHead[p.Jobs[r].PairRank] {
			return false
		}
	}

	return true
}

func (op *TwoOpt) ComputeGain() costmodel.Gain {
	src := op.sol.Routes[op.source].RouteRanks()
	tgt := op.sol.Routes[op.target].RouteRanks()
	srcHead, srcTail := splitTail(src, op.sourcePos)
	tgtHead, tgtTail := splitTail(tgt, op.targetPos)
	if !tailSwappable(op.p, srcHead, srcTail) || !tailSwappable(op.p, tgtHead, tgtTail) {
		return costmodel.Gain{}
	}

	op.newSource = append(append([]int(nil), srcHead...), tgtTail...)
	op.newTarget = append(append([]int(nil), tgtHead...), srcTail...)
	op.gain = op.gainFor(op.newSource, op.newTarget)
	op.computed = true

	return op.gain
}

func (op *TwoOpt) IsValid() bool { return op.valid() }
func (op *TwoOpt) Apply() error  { return op.apply() }

// ReverseTwoOpt moves the reversed prefix of the source route onto the
// head of the target route.
type ReverseTwoOpt struct {
	base
	noUpperBound
	sourcePos int
}

// NewReverseTwoOpt proposes reversing source's prefix [0, sourcePos] and
// prepending it to target.
func NewReverseTwoOpt(p *solutionstate.Problem, sol *solutionstate.Solution, source, sourcePos, target int) *ReverseTwoOpt {
	return &ReverseTwoOpt{
		base:      base{p: p, sol: sol, source: source, target: target},
		sourcePos: sourcePos,
	}
}

func (op *ReverseTwoOpt) Name() string { return "ReverseTwoOpt" }

func (op *ReverseTwoOpt) ComputeGain() costmodel.Gain {
	src := op.sol.Routes[op.source].RouteRanks()
	tgt := op.sol.Routes[op.target].RouteRanks()
	if op.sourcePos < 0 || op.sourcePos >= len(src) {
		return costmodel.Gain{}
	}
	prefix := src[:op.sourcePos+1]
	if !blockReversible(op.p, prefix) {
		return costmodel.Gain{}
	}
	rest := src[op.sourcePos+1:]
	if !tailSwappable(op.p, prefix, rest) {
		return costmodel.Gain{}
	}

	op.newSource = append([]int(nil), rest...)
	op.newTarget = append(reversed(prefix), tgt...)
	op.gain = op.gainFor(op.newSource, op.newTarget)
	op.computed = true

	return op.gain
}

func (op *ReverseTwoOpt) IsValid() bool { return op.valid() }
func (op *ReverseTwoOpt) Apply() error  { return op.apply() }

// IntraTwoOpt reverses a segment within one route.
type IntraTwoOpt struct {
	base
	noUpperBound
	firstPos, lastPos int
}

// NewIntraTwoOpt proposes reversing the segment [firstPos, lastPos] of
// one route.
func NewIntraTwoOpt(p *solutionstate.Problem, sol *solutionstate.Solution, vehicle, firstPos, lastPos int) *IntraTwoOpt {
	return &IntraTwoOpt{
		base:     base{p: p, sol: sol, source: vehicle, target: vehicle},
		firstPos: firstPos,
		lastPos:  lastPos,
	}
}

func (op *IntraTwoOpt) Name() string { return "IntraTwoOpt" }

func (op *IntraTwoOpt) ComputeGain() costmodel.Gain {
	ranks := op.sol.Routes[op.source].RouteRanks()
	if op.firstPos < 0 || op.lastPos <= op.firstPos || op.lastPos >= len(ranks) {
		return costmodel.Gain{}
	}
	segment := ranks[op.firstPos : op.lastPos+1]
	if !blockReversible(op.p, segment) {
		return costmodel.Gain{}
	}

	op.newSource = splice(ranks, reversed(segment), op.firstPos, op.lastPos+1)
	op.newTarget = op.newSource
	op.gain = op.gainFor(op.newSource, op.newTarget)
	op.computed = true

	return op.gain
}

func (op *IntraTwoOpt) IsValid() bool { return op.valid() }
func (op *IntraTwoOpt) Apply() error  { return op.apply() }
