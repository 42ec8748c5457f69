package lsoperators

import (
	"github.com/katalvlaran/vrpsolve/costmodel"
	"github.com/katalvlaran/vrpsolve/solutionstate"
)

// CrossExchange swaps two consecutive-task edges across routes, with each
// edge optionally reversed; ComputeGain commits to the best of the four
// orientation variants.
type CrossExchange struct {
	base
	noUpperBound
	sourcePos, targetPos int
}

// NewCrossExchange proposes swapping source's edge [sourcePos,
// sourcePos+1] with target's edge [targetPos, targetPos+1].
func NewCrossExchange(p *solutionstate.Problem, sol *solutionstate.Solution, source, sourcePos, target, targetPos int) *CrossExchange {
	return &CrossExchange{
		base:      base{p: p, sol: sol, source: source, target: target},
		sourcePos: sourcePos,
		targetPos: targetPos,
	}
}

func (op *CrossExchange) Name() string { return "CrossExchange" }

// edgeAt extracts the two-task block starting at pos, refusing blocks
// that split a shipment (the pair must move together or not at all; a
// block holding exactly pickup+delivery is fine).
func edgeAt(p *solutionstate.Problem, ranks []int, pos int) ([]int, bool) {
	if pos+1 >= len(ranks) {
		return nil, false
	}
	a, b := ranks[pos], ranks[pos+1]
	if isPaired(p, a) && p.Jobs[a].PairRank != b {
		return nil, false
	}
	if isPaired(p, b) && p.Jobs[b].PairRank != a {
		return nil, false
	}

	return []int{a, b}, true
}

// blockReversible reports whether reversing the block keeps any shipment
// pair inside it in pickup-before-delivery order; a paired block can
// never be reversed.
func blockReversible(p *solutionstate.Problem, block []int) bool {
	for _, r := range block {
		if isPaired(p, r) {
			return false
		}
	}

	return true
}

func (op *CrossExchange) ComputeGain() costmodel.Gain {
	src := op.sol.Routes[op.source].RouteRanks()
	tgt := op.sol.Routes[op.target].RouteRanks()
	srcEdge, okS := edgeAt(op.p, src, op.sourcePos)
	tgtEdge, okT := edgeAt(op.p, tgt, op.targetPos)
	if !okS || !okT {
		return costmodel.Gain{}
	}

	srcVariants := [][]int{tgtEdge}
	if blockReversible(op.p, tgtEdge) {
		srcVariants = append(srcVariants, reversed(tgtEdge))
	}
	tgtVariants := [][]int{srcEdge}
	if blockReversible(op.p, srcEdge) {
		tgtVariants = append(tgtVariants, reversed(srcEdge))
	}

	best := costmodel.Gain{}
	found := false
	for _, sv := range srcVariants {
		for _, tv := range tgtVariants {
			newSource := splice(src, sv, op.sourcePos, op.sourcePos+2)
			newTarget := splice(tgt, tv, op.targetPos, op.targetPos+2)
			g := op.gainFor(newSource, newTarget)
			if !found || g.Cost > best.Cost {
				best, found = g, true
				op.newSource, op.newTarget = newSource, newTarget
			}
		}
	}
	op.gain = best
	op.computed = found

	return op.gain
}

func (op *CrossExchange) IsValid() bool { return op.valid() }
func (op *CrossExchange) Apply() error  { return op.apply() }

// IntraCrossExchange swaps two disjoint consecutive-task edges within one
// route, with the same orientation variants.
type IntraCrossExchange struct {
	base
	noUpperBound
	firstPos, secondPos int
}

// NewIntraCrossExchange proposes swapping the edges at firstPos and
// secondPos (secondPos ≥ firstPos+2) of one route.
func NewIntraCrossExchange(p *solutionstate.Problem, sol *solutionstate.Solution, vehicle, firstPos, secondPos int) *IntraCrossExchange {
	return &IntraCrossExchange{
		base:      base{p: p, sol: sol, source: vehicle, target: vehicle},
		firstPos:  firstPos,
		secondPos: secondPos,
	}
}

func (op *IntraCrossExchange) Name() string { return "IntraCrossExchange" }

func (op *IntraCrossExchange) ComputeGain() costmodel.Gain {
	ranks := op.sol.Routes[op.source].RouteRanks()
	if op.secondPos < op.firstPos+2 || op.secondPos+1 >= len(ranks) {
		return costmodel.Gain{}
	}
	firstEdge, okF := edgeAt(op.p, ranks, op.firstPos)
	secondEdge, okS := edgeAt(op.p, ranks, op.secondPos)
	if !okF || !okS {
		return costmodel.Gain{}
	}

	firstVariants := [][]int{secondEdge}
	if blockReversible(op.p, secondEdge) {
		firstVariants = append(firstVariants, reversed(secondEdge))
	}
	secondVariants := [][]int{firstEdge}
	if blockReversible(op.p, firstEdge) {
		secondVariants = append(secondVariants, reversed(firstEdge))
	}

	best := costmodel.Gain{}
	found := false
	for _, fv := range firstVariants {
		for _, sv := range secondVariants {
			seq := splice(ranks, fv, op.firstPos, op.firstPos+2)
			seq = splice(seq, sv, op.secondPos, op.secondPos+2)
			g := op.gainFor(seq, seq)
			if !found || g.Cost > best.Cost {
				best, found = g, true
				op.newSource, op.newTarget = seq, seq
			}
		}
	}
	op.gain = best
	op.computed = found

	return op.gain
}

func (op *IntraCrossExchange) IsValid() bool { return op.valid() }
func (op *IntraCrossExchange) Apply() error  { return op.apply() }
