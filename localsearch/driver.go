// Package localsearch implements the neighbourhood-search driver: best-move
// selection over the operator catalogue, job re-addition, cache
// invalidation, and ruin-and-recreate perturbation under a wall-clock
// deadline.
package localsearch

import (
	"math/rand"
	"time"

	"github.com/katalvlaran/vrpsolve/costmodel"
	"github.com/katalvlaran/vrpsolve/lsoperators"
	"github.com/katalvlaran/vrpsolve/solutionstate"
	"github.com/katalvlaran/vrpsolve/tspsolve"
	"github.com/katalvlaran/vrpsolve/vrp"
)

// Options tunes one local-search run.
type Options struct {
	// MaxNbJobsRemoval caps the ruin size k.
	MaxNbJobsRemoval int
	// Seed drives the perturbation RNG; fixed seed → deterministic run.
	Seed int64
	// TSP, when non-nil, enables the TSPFix family.
	TSP tspsolve.Solver
}

// DefaultOptions returns the driver defaults: ruin bound 8, seed 0, no
// TSP subsolver.
func DefaultOptions() Options {
	return Options{MaxNbJobsRemoval: 8}
}

// Driver owns one solution and improves it in place.
type Driver struct {
	p     *solutionstate.Problem
	sol   *solutionstate.Solution
	state *solutionstate.State
	opts  Options
	rng   *rand.Rand

	best    *solutionstate.Solution
	bestInd solutionstate.Indicator
}

// New builds a driver around sol; the driver takes ownership of it.
func New(p *solutionstate.Problem, sol *solutionstate.Solution, opts Options) *Driver {
	if opts.MaxNbJobsRemoval <= 0 {
		opts.MaxNbJobsRemoval = DefaultOptions().MaxNbJobsRemoval
	}

	return &Driver{
		p:     p,
		sol:   sol,
		state: solutionstate.New(p.Jobs, len(p.Vehicles)),
		opts:  opts,
		rng:   rand.New(rand.NewSource(opts.Seed)),
	}
}

// Solution returns the best solution seen so far.
func (d *Driver) Solution() *solutionstate.Solution { return d.best }

// Run iterates descent + perturbation until the deadline, then leaves the
// best solution in Solution(). Complexity per ls step is dominated by the
// operator enumeration, O(V² · n²) candidate evals worst case.
func (d *Driver) Run(deadline time.Time) solutionstate.Indicator {
	k := 1
	d.best = d.sol.Clone(d.p)
	d.bestInd = d.sol.Indicator(d.p)

	for {
		d.descend(deadline)

		ind := d.sol.Indicator(d.p)
		if ind.Less(d.bestInd) {
			d.best = d.sol.Clone(d.p)
			d.bestInd = ind
			if k > 1 {
				k /= 2
			}
		} else {
			k *= 2
			if k > d.opts.MaxNbJobsRemoval {
				k = d.opts.MaxNbJobsRemoval
			}
		}

		if !time.Now().Before(deadline) {
			return d.bestInd
		}
		d.perturb(k)
		d.state.InvalidateAll()
	}
}

// descend runs ls steps until no move and no addition improves.
func (d *Driver) descend(deadline time.Time) {
	for {
		if !time.Now().Before(deadline) {
			return
		}
		if op := d.bestMove(); op != nil {
			if err := op.Apply(); err == nil {
				for _, v := range op.UpdateCandidates() {
					d.state.Invalidate(v)
				}

				continue
			}
		}
		if d.addBestUnassigned() {
			continue
		}

		return
	}
}

// refreshCaches rebuilds the dirty per-route caches and neighbour tables
// the enumeration filters consult.
func (d *Driver) refreshCaches() {
	for v := range d.sol.Routes {
		prof, err := d.p.Set.Profile(d.p.Vehicles[v].Profile)
		if err != nil {
			continue
		}
		vv := v
		d.state.Rebuild(v, d.sol.Routes[v], prof, func(i, j int) int64 {
			return d.p.Edge(vv, i, j).Cost
		})
	}
	d.state.RebuildNearest()
}

// pairEligible applies the cheap cross-route filters: skill overlap is
// not knowable cheaply, but far-apart bounding boxes are (solutionstate
// BBoxes); empty routes always stay eligible so vehicles can open.
func (d *Driver) pairEligible(u, v int) bool {
	if d.sol.Routes[u].Len() == 0 || d.sol.Routes[v].Len() == 0 {
		return true
	}
	cu, cv := d.state.Cache(u), d.state.Cache(v)
	if cu == nil || cv == nil {
		return true
	}

	return cu.BBox.Overlaps(cv.BBox)
}

// bestMove enumerates the operator catalogue and returns the best valid
// strictly-improving move, or nil. Families are tried in a fixed table
// order so equal gains resolve deterministically.
func (d *Driver) bestMove() lsoperators.Operator {
	d.refreshCaches()

	var best lsoperators.Operator
	var bestGain costmodel.Gain
	bestPriority := 0

	tryOp := func(op lsoperators.Operator) {
		if bound, ok := op.GainUpperBound(); ok && bound.Cost <= bestGain.Cost {
			return
		}
		gain := op.ComputeGain()

		priority := 0
		if pr, ok := op.(interface{ PriorityDelta() int }); ok {
			priority = pr.PriorityDelta()
		}
		if priority < bestPriority {
			return
		}
		if priority == bestPriority && gain.Cost <= bestGain.Cost {
			return
		}
		if !op.IsValid() {
			return
		}
		best, bestGain, bestPriority = op, gain, priority
	}

	d.forEachCandidate(tryOp)

	if best == nil || (bestPriority <= 0 && !bestGain.Improves()) {
		return nil
	}

	return best
}

// forEachCandidate walks the full candidate space in deterministic order.
func (d *Driver) forEachCandidate(tryOp func(lsoperators.Operator)) {
	p, sol := d.p, d.sol
	nV := len(sol.Routes)

	// Priority-improving admissions first: they dominate the indicator.
	unassigned := sol.UnassignedRanks()
	for v := 0; v < nV; v++ {
		for _, j := range unassigned {
			if p.Jobs[j].Type == vrp.Delivery {
				continue
			}
			tryOp(lsoperators.NewUnassignedExchange(p, sol, v, j))
			tryOp(lsoperators.NewPriorityReplace(p, sol, v, j))
		}
	}

	// Inter-route families.
	for u := 0; u < nV; u++ {
		nu := sol.Routes[u].Len()
		for v := 0; v < nV; v++ {
			if u == v || !d.pairEligible(u, v) {
				continue
			}
			nv := sol.Routes[v].Len()

			for i := 0; i < nu; i++ {
				tryOp(lsoperators.NewRelocate(p, sol, u, i, v))
				tryOp(lsoperators.NewOrOpt(p, sol, u, i, v))
				tryOp(lsoperators.NewPDShift(p, sol, u, i, v))
				tryOp(lsoperators.NewReverseTwoOpt(p, sol, u, i, v))
				for j := 0; j < nv; j++ {
					tryOp(lsoperators.NewExchange(p, sol, u, i, v, j))
					tryOp(lsoperators.NewCrossExchange(p, sol, u, i, v, j))
					tryOp(lsoperators.NewMixedExchange(p, sol, u, i, v, j))
				}
			}
			for i := -1; i < nu; i++ {
				for j := -1; j < nv; j++ {
					tryOp(lsoperators.NewTwoOpt(p, sol, u, i, v, j))
				}
			}
			if u < v {
				tryOp(lsoperators.NewSwapStar(p, sol, u, v))
				tryOp(lsoperators.NewRouteExchange(p, sol, u, v))
			}
		}
	}

	// Route splits need two empty receivers.
	var empty []int
	for v := 0; v < nV; v++ {
		if sol.Routes[v].Len() == 0 {
			empty = append(empty, v)
		}
	}
	if len(empty) >= 2 {
		for u := 0; u < nV; u++ {
			if sol.Routes[u].Len() >= 2 {
				tryOp(lsoperators.NewRouteSplit(p, sol, u, empty[0], empty[1]))
			}
		}
	}

	// Intra-route families.
	for v := 0; v < nV; v++ {
		n := sol.Routes[v].Len()
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				tryOp(lsoperators.NewIntraExchange(p, sol, v, i, j))
				tryOp(lsoperators.NewIntraTwoOpt(p, sol, v, i, j))
			}
			for j := 0; j < n-1; j++ {
				if j != i {
					tryOp(lsoperators.NewIntraRelocate(p, sol, v, i, j))
					tryOp(lsoperators.NewIntraMixedExchange(p, sol, v, i, j))
				}
			}
		}
		for i := 0; i+1 < n; i++ {
			for j := i + 2; j+1 < n; j++ {
				tryOp(lsoperators.NewIntraCrossExchange(p, sol, v, i, j))
			}
			for j := 0; j <= n-2; j++ {
				if j != i {
					tryOp(lsoperators.NewIntraOrOpt(p, sol, v, i, j))
				}
			}
		}
		if d.opts.TSP != nil && n >= 3 {
			tryOp(lsoperators.NewTSPFix(p, sol, v, d.opts.TSP, time.Time{}))
		}
	}
}

// addBestUnassigned inserts the cheapest feasible unassigned job into any
// route; returns whether an addition happened.
func (d *Driver) addBestUnassigned() bool {
	p, sol := d.p, d.sol

	bestCost := int64(0)
	var bestSeq []int
	bestV, bestRank := -1, -1
	found := false

	for _, j := range sol.UnassignedRanks() {
		job := &p.Jobs[j]
		if job.Type == vrp.Delivery {
			continue
		}
		for v := range sol.Routes {
			if !p.VehicleCanTake(v, j) {
				continue
			}
			current := sol.RouteEval(p, v).Cost
			var seq []int
			var ok bool
			if job.Type == vrp.Pickup {
				seq, ok = lsoperators.BestPairPlacement(p, sol, v, sol.Routes[v].RouteRanks(), j, job.PairRank)
			} else {
				seq, ok = lsoperators.BestPlacement(p, sol, v, sol.Routes[v].RouteRanks(), []int{j}, false)
			}
			if !ok {
				continue
			}
			delta := solutionstate.SeqEval(p, v, seq).Cost - current
			if !found || delta < bestCost {
				found = true
				bestCost, bestSeq, bestV, bestRank = delta, seq, v, j
			}
		}
	}

	if !found {
		return false
	}
	if err := sol.Routes[bestV].SetRoute(bestSeq); err != nil {
		return false
	}
	delete(sol.Unassigned, bestRank)
	if p.Jobs[bestRank].Type == vrp.Pickup {
		delete(sol.Unassigned, p.Jobs[bestRank].PairRank)
	}
	d.state.Invalidate(bestV)

	return true
}
