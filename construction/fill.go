package construction

import (
	"math"

	"github.com/katalvlaran/vrpsolve/solutionstate"
	"github.com/katalvlaran/vrpsolve/vrp"
)

// fillRoute seeds vehicle v's empty route (if requested) then runs the
// regret-weighted insertion loop until no unassigned job fits. Mutates s in place; commits every insertion through the
// route's own Replace so all sweeps stay consistent.
func fillRoute(p *solutionstate.Problem, s *solutionstate.Solution, v int, regrets []int64, init InitStrategy, lambda float64) {
	if init != InitNone && s.Routes[v].Len() == 0 {
		seedRoute(p, s, v, init)
	}

	// Lower bounds on insertion deltas, maintained per unassigned job:
	// min travel from any route location to the job, and back. An
	// insertion's cost delta can never beat
	// min_route_to_unassigned + min_unassigned_to_route − the replaced
	// edge, so a candidate whose bound cannot beat the current best score
	// is pruned before its O(n²) placement scan.
	lowerBound := func(j int) int64 {
		ranks := s.Routes[v].RouteRanks()
		veh := &p.Vehicles[v]
		loc := p.Jobs[j].Location.Index

		points := make([]int, 0, len(ranks)+2)
		if veh.Start != nil {
			points = append(points, veh.Start.Index)
		}
		for _, r := range ranks {
			points = append(points, p.Jobs[r].Location.Index)
		}
		if veh.End != nil {
			points = append(points, veh.End.Index)
		}
		if len(points) == 0 {
			return 0
		}

		minTo, minFrom := int64(math.MaxInt64), int64(math.MaxInt64)
		var maxEdge int64
		for _, pt := range points {
			if d := p.Travel(v, pt, loc); d < minTo {
				minTo = d
			}
			if d := p.Travel(v, loc, pt); d < minFrom {
				minFrom = d
			}
		}
		for i := 1; i < len(points); i++ {
			if d := p.Travel(v, points[i-1], points[i]); d > maxEdge {
				maxEdge = d
			}
		}
		bound := minTo + minFrom - maxEdge
		if bound < 0 {
			bound = 0
		}

		return bound
	}

	for {
		bestScore := math.MaxFloat64
		var bestIns insertion
		bestRank := -1

		for _, j := range s.UnassignedRanks() {
			job := &p.Jobs[j]
			if job.Type == vrp.Delivery || !p.VehicleCanTake(v, j) {
				continue
			}

			// Prune: even a zero-cost insertion cannot beat the best
			// score once the bound is too high.
			if bestRank >= 0 {
				bound := float64(lowerBound(j)) - regretTerm(lambda, regrets[j])
				if bound >= bestScore {
					continue
				}
			}

			ins := bestInsertion(p, s, v, j)
			if !ins.ok {
				continue
			}
			score := float64(ins.delta) - regretTerm(lambda, regrets[j])
			if score < bestScore {
				bestScore, bestIns, bestRank = score, ins, j
			}
		}

		if bestRank < 0 {
			return
		}
		commit(p, s, v, bestRank, bestIns)
	}
}

// commit applies a chosen insertion and maintains the unassigned set.
func commit(p *solutionstate.Problem, s *solutionstate.Solution, v, rank int, ins insertion) {
	if err := s.Routes[v].SetRoute(ins.seq); err != nil {
		// SeqFeasible vetted the sequence; a failure here is an internal
		// inconsistency, so leave the route untouched and the job
		// unassigned rather than corrupt the solution.
		return
	}
	delete(s.Unassigned, rank)
	if p.Jobs[rank].Type == vrp.Pickup {
		delete(s.Unassigned, p.Jobs[rank].PairRank)
	}
}
