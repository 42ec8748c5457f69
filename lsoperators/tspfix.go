package lsoperators

import (
	"time"

	"github.com/katalvlaran/vrpsolve/costmodel"
	"github.com/katalvlaran/vrpsolve/matrix"
	"github.com/katalvlaran/vrpsolve/solutionstate"
	"github.com/katalvlaran/vrpsolve/tspsolve"
)

// TSPFix re-solves a single route as a symmetric TSP through the external
// subsolver and adopts the result when it beats the current order. The
// family's whole-route variant collapses into this one operator: with the
// route anchored at the vehicle start (or its first job when open), a
// partial-route re-solve and a full-route re-solve are the same
// computation, so a separate RouteFix type would duplicate it verbatim.
// Routes carrying shipments are left to the pairwise operators: a blind
// reorder cannot honour precedence.
type TSPFix struct {
	base
	noUpperBound
	solver   tspsolve.Solver
	deadline time.Time
}

// NewTSPFix proposes refining vehicle source's route through solver.
func NewTSPFix(p *solutionstate.Problem, sol *solutionstate.Solution, source int, solver tspsolve.Solver, deadline time.Time) *TSPFix {
	return &TSPFix{
		base:     base{p: p, sol: sol, source: source, target: source},
		solver:   solver,
		deadline: deadline,
	}
}

func (op *TSPFix) Name() string { return "TSPFix" }

func (op *TSPFix) ComputeGain() costmodel.Gain {
	ranks := op.sol.Routes[op.source].RouteRanks()
	if len(ranks) < 3 {
		return costmodel.Gain{}
	}
	for _, r := range ranks {
		if isPaired(op.p, r) {
			return costmodel.Gain{}
		}
	}

	veh := &op.p.Vehicles[op.source]
	// Local point table: 0 = start (or first job when open), then jobs.
	points := make([]int, 0, len(ranks)+1)
	anchor := 0
	if veh.Start != nil {
		points = append(points, veh.Start.Index)
	} else {
		anchor = -1
	}
	for _, r := range ranks {
		points = append(points, op.p.Jobs[r].Location.Index)
	}
	if anchor < 0 {
		anchor = 0
	}

	n := len(points)
	dist, err := matrix.NewDense(n, n)
	if err != nil {
		return costmodel.Gain{}
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			// Symmetrise: the subsolver contract is symmetric TSP.
			c := op.p.Edge(op.source, points[i], points[j]).Cost
			cr := op.p.Edge(op.source, points[j], points[i]).Cost
			if err := dist.Set(i, j, float64(c+cr)/2); err != nil {
				return costmodel.Gain{}
			}
		}
	}

	order, err := op.solver.Solve(dist, anchor, anchor, op.deadline)
	if err != nil {
		return costmodel.Gain{}
	}

	// The solver's order excludes the anchor point; map the interior
	// locals back onto job ranks. For an open route the anchor is the
	// first job itself, pinned at the front of the rebuilt sequence.
	seq := make([]int, 0, len(ranks))
	if veh.Start != nil {
		for _, local := range order {
			if local < 1 || local-1 >= len(ranks) {
				continue
			}
			seq = append(seq, ranks[local-1])
		}
	} else {
		seq = append(seq, ranks[0])
		for _, local := range order {
			if local < 1 || local >= len(ranks) {
				continue
			}
			seq = append(seq, ranks[local])
		}
	}
	if len(seq) != len(ranks) {
		return costmodel.Gain{}
	}

	op.newSource, op.newTarget = seq, seq
	op.gain = op.gainFor(seq, seq)
	op.computed = true

	return op.gain
}

func (op *TSPFix) IsValid() bool { return op.valid() }
func (op *TSPFix) Apply() error  { return op.apply() }
