// Package lsoperators implements the local-search move catalogue: ~20
// named families of intra- and inter-route edits, each a small value
// object created per candidate and discarded after the driver's best-move
// pick.
//
// Every operator follows the same contract: ComputeGain returns the exact
// Eval delta old − new; IsValid checks every feasibility constraint
// without touching authoritative state; Apply commits through the routes'
// own Replace/SetRoute so sweeps stay consistent; UpdateCandidates names
// the vehicles whose caches the driver must invalidate.
package lsoperators

import (
	"errors"

	"github.com/katalvlaran/vrpsolve/costmodel"
	"github.com/katalvlaran/vrpsolve/solutionstate"
)

// ErrInvalidMove is returned by Apply when called on a move whose IsValid
// is false — a driver bug, not a data condition.
var ErrInvalidMove = errors.New("lsoperators: apply called on invalid move")

// Operator is the gain/validity/apply contract every move family
// implements.
type Operator interface {
	// Name identifies the family for tie-break ordering and diagnostics.
	Name() string

	// GainUpperBound returns a cheap value ≥ the true gain, and whether
	// the family supports the short-circuit at all.
	GainUpperBound() (costmodel.Gain, bool)

	// ComputeGain returns the exact Eval delta old − new; positive Cost
	// means improvement. May commit the operator to a variant (e.g.
	// "reverse the edge").
	ComputeGain() costmodel.Gain

	// IsValid checks all feasibility constraints; side-effect-free on
	// authoritative route state.
	IsValid() bool

	// Apply mutates the involved routes; must only be called when
	// IsValid() is true.
	Apply() error

	// AdditionCandidates returns vehicles that may newly accommodate
	// unassigned jobs after this move.
	AdditionCandidates() []int

	// UpdateCandidates returns the vehicles whose caches this move
	// touches.
	UpdateCandidates() []int

	// InvalidatedBy reports whether a change on the given vehicle makes
	// this stored candidate stale.
	InvalidatedBy(vehicle int) bool
}

// base carries what every operator needs: the problem, the solution, and
// the one or two routes (by vehicle index) the move edits. Gain is
// computed by full candidate-sequence re-evaluation, so applying a move
// then recomputing the solution eval from scratch always reproduces the
// reported gain.
type base struct {
	p   *solutionstate.Problem
	sol *solutionstate.Solution

	source int
	target int // == source for intra-route families

	// newSource/newTarget are the candidate sequences the move proposes;
	// set by ComputeGain and reused by IsValid/Apply.
	newSource []int
	newTarget []int

	gain     costmodel.Gain
	computed bool
}

func (b *base) AdditionCandidates() []int { return b.UpdateCandidates() }

func (b *base) UpdateCandidates() []int {
	if b.target == b.source {
		return []int{b.source}
	}

	return []int{b.source, b.target}
}

func (b *base) InvalidatedBy(vehicle int) bool {
	return vehicle == b.source || vehicle == b.target
}

// gainFor evaluates the proposed sequences against the current ones.
func (b *base) gainFor(newSource, newTarget []int) costmodel.Gain {
	oldEval := b.sol.RouteEval(b.p, b.source)
	newEval := solutionstate.SeqEval(b.p, b.source, newSource)
	if b.target != b.source {
		oldEval = oldEval.Add(b.sol.RouteEval(b.p, b.target))
		newEval = newEval.Add(solutionstate.SeqEval(b.p, b.target, newTarget))
	}

	return costmodel.GainOf(oldEval, newEval)
}

// valid re-checks the proposed sequences against every constraint.
func (b *base) valid() bool {
	if !b.computed {
		return false
	}
	if !solutionstate.SeqFeasible(b.p, b.sol, b.source, b.newSource) {
		return false
	}
	if b.target != b.source && !solutionstate.SeqFeasible(b.p, b.sol, b.target, b.newTarget) {
		return false
	}

	return true
}

// apply commits the proposed sequences.
func (b *base) apply() error {
	if !b.computed {
		return ErrInvalidMove
	}
	if err := b.sol.Routes[b.source].SetRoute(b.newSource); err != nil {
		return err
	}
	if b.target != b.source {
		if err := b.sol.Routes[b.target].SetRoute(b.newTarget); err != nil {
			return err
		}
	}

	return nil
}

// noUpperBound is embedded by families without a cheap bound.
type noUpperBound struct{}

func (noUpperBound) GainUpperBound() (costmodel.Gain, bool) { return costmodel.Gain{}, false }

// splice returns ranks with repl substituted for [first, last).
func splice(ranks, repl []int, first, last int) []int {
	out := make([]int, 0, len(ranks)-(last-first)+len(repl))
	out = append(out, ranks[:first]...)
	out = append(out, repl...)
	out = append(out, ranks[last:]...)

	return out
}

// reversed returns a reversed copy of seq.
func reversed(seq []int) []int {
	out := make([]int, len(seq))
	for i, v := range seq {
		out[len(seq)-1-i] = v
	}

	return out
}

// isPaired reports whether the job at rank is half of a shipment; moves
// that relocate single ranks skip paired jobs (PDShift handles those).
func isPaired(p *solutionstate.Problem, rank int) bool {
	return p.Jobs[rank].PairRank >= 0
}
