package lsoperators

import (
	"math"

	"github.com/katalvlaran/vrpsolve/costmodel"
	"github.com/katalvlaran/vrpsolve/solutionstate"
	"github.com/katalvlaran/vrpsolve/vrp"
)

// UnassignedExchange swaps one unassigned job with one route task when
// that improves priority or cost. The evicted task joins
// the unassigned set.
type UnassignedExchange struct {
	base
	noUpperBound
	unassignedRank int
	evictedRank    int
}

// NewUnassignedExchange proposes bringing unassignedRank onto vehicle
// source in place of one of its tasks.
func NewUnassignedExchange(p *solutionstate.Problem, sol *solutionstate.Solution, source, unassignedRank int) *UnassignedExchange {
	return &UnassignedExchange{
		base:           base{p: p, sol: sol, source: source, target: source},
		unassignedRank: unassignedRank,
		evictedRank:    -1,
	}
}

func (op *UnassignedExchange) Name() string { return "UnassignedExchange" }

// priorityDelta is the priority the move wins; it dominates cost in the
// indicator order, so any positive delta beats any pure cost gain.
func (op *UnassignedExchange) priorityDelta() int {
	if op.evictedRank < 0 {
		return 0
	}

	return op.p.Jobs[op.unassignedRank].Priority - op.p.Jobs[op.evictedRank].Priority
}

// PriorityDelta exposes the priority improvement to the driver's move
// ranking.
func (op *UnassignedExchange) PriorityDelta() int { return op.priorityDelta() }

func (op *UnassignedExchange) ComputeGain() costmodel.Gain {
	in := op.p.Jobs[op.unassignedRank]
	if in.Type == vrp.Delivery || !op.p.VehicleCanTake(op.source, op.unassignedRank) {
		return costmodel.Gain{}
	}

	ranks := op.sol.Routes[op.source].RouteRanks()
	bestScore := int64(math.MinInt64)
	found := false
	for pos := 0; pos < len(ranks); pos++ {
		out := ranks[pos]
		if isPaired(op.p, out) || (in.Type == vrp.Pickup) {
			// Pair-for-task swaps go through PriorityReplace/PDShift.
			continue
		}
		stripped := without(ranks, pos, pos+1)
		seq, ok := bestPlacement(op.p, op.sol, op.source, stripped, []int{op.unassignedRank}, false)
		if !ok {
			continue
		}
		g := op.gainFor(seq, seq)
		prio := int64(in.Priority-op.p.Jobs[out].Priority)<<32 + g.Cost
		if !found || prio > bestScore {
			bestScore = prio
			found = true
			op.newSource, op.newTarget = seq, seq
			op.gain = g
			op.evictedRank = out
		}
	}
	op.computed = found
	if !found {
		return costmodel.Gain{}
	}

	return op.gain
}

func (op *UnassignedExchange) IsValid() bool {
	if !op.valid() {
		return false
	}

	// The swap must win on priority, or at equal priority win on cost.
	return op.priorityDelta() > 0 || (op.priorityDelta() == 0 && op.gain.Improves())
}

func (op *UnassignedExchange) Apply() error {
	if err := op.apply(); err != nil {
		return err
	}
	delete(op.sol.Unassigned, op.unassignedRank)
	op.sol.Unassigned[op.evictedRank] = struct{}{}

	return nil
}

// PriorityReplace evicts a low-priority task (or pair) to admit an
// unassigned higher-priority one.
type PriorityReplace struct {
	base
	noUpperBound
	unassignedRank int
	evicted        []int
}

// NewPriorityReplace proposes admitting unassignedRank onto vehicle
// source by evicting whatever lower-priority tasks block it.
func NewPriorityReplace(p *solutionstate.Problem, sol *solutionstate.Solution, source, unassignedRank int) *PriorityReplace {
	return &PriorityReplace{
		base:           base{p: p, sol: sol, source: source, target: source},
		unassignedRank: unassignedRank,
	}
}

func (op *PriorityReplace) Name() string { return "PriorityReplace" }

// PriorityDelta exposes the net priority improvement.
func (op *PriorityReplace) PriorityDelta() int {
	delta := op.p.Jobs[op.unassignedRank].Priority
	for _, r := range op.evicted {
		delta -= op.p.Jobs[r].Priority
	}

	return delta
}

func (op *PriorityReplace) ComputeGain() costmodel.Gain {
	in := &op.p.Jobs[op.unassignedRank]
	if in.Type == vrp.Delivery || !op.p.VehicleCanTake(op.source, op.unassignedRank) {
		return costmodel.Gain{}
	}

	ranks := op.sol.Routes[op.source].RouteRanks()
	bestDelta := 0
	found := false
	for pos := 0; pos < len(ranks); pos++ {
		if isPaired(op.p, ranks[pos]) {
			if op.p.Jobs[ranks[pos]].Type != vrp.Pickup {
				continue
			}
			// Evict the whole shipment.
			pair := op.p.Jobs[ranks[pos]].PairRank
			stripped := removeRanks(ranks, ranks[pos], pair)
			op.tryAdmit(stripped, []int{ranks[pos], pair}, &bestDelta, &found)

			continue
		}
		op.tryAdmit(without(ranks, pos, pos+1), []int{ranks[pos]}, &bestDelta, &found)
	}
	op.computed = found
	if !found {
		return costmodel.Gain{}
	}

	return op.gain
}

// tryAdmit attempts to place the unassigned job (and its pair) into the
// stripped route, keeping the variant with the best priority delta.
func (op *PriorityReplace) tryAdmit(stripped, evicted []int, bestDelta *int, found *bool) {
	in := &op.p.Jobs[op.unassignedRank]
	var seq []int
	var ok bool
	if in.Type == vrp.Pickup {
		seq, ok = bestPairPlacement(op.p, op.sol, op.source, stripped, op.unassignedRank, in.PairRank)
	} else {
		seq, ok = bestPlacement(op.p, op.sol, op.source, stripped, []int{op.unassignedRank}, false)
	}
	if !ok {
		return
	}

	delta := in.Priority
	for _, r := range evicted {
		delta -= op.p.Jobs[r].Priority
	}
	if delta <= 0 || (*found && delta <= *bestDelta) {
		return
	}
	*bestDelta = delta
	*found = true
	op.newSource, op.newTarget = seq, seq
	op.evicted = evicted
	op.gain = op.gainFor(seq, seq)
}

func (op *PriorityReplace) IsValid() bool {
	return op.valid() && op.PriorityDelta() > 0
}

func (op *PriorityReplace) Apply() error {
	if err := op.apply(); err != nil {
		return err
	}
	delete(op.sol.Unassigned, op.unassignedRank)
	if op.p.Jobs[op.unassignedRank].Type == vrp.Pickup {
		delete(op.sol.Unassigned, op.p.Jobs[op.unassignedRank].PairRank)
	}
	for _, r := range op.evicted {
		op.sol.Unassigned[r] = struct{}{}
	}

	return nil
}
