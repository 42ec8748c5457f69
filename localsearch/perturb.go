package localsearch

import (
	"github.com/katalvlaran/vrpsolve/solutionstate"
	"github.com/katalvlaran/vrpsolve/vrp"
)

// perturb ruins the current solution by removing k jobs chosen with
// probability proportional to their removal gain — expensive-to-serve
// jobs are the likeliest to move — and places them in the unassigned set
// for the next descent to recreate.
func (d *Driver) perturb(k int) {
	for ; k > 0; k-- {
		type candidate struct {
			vehicle int
			rank    int
			weight  int64
		}

		var candidates []candidate
		var totalWeight int64
		for v := range d.sol.Routes {
			ranks := d.sol.Routes[v].RouteRanks()
			current := d.sol.RouteEval(d.p, v).Cost
			for _, rank := range ranks {
				job := &d.p.Jobs[rank]
				if job.Type == vrp.Delivery {
					continue // removed together with its pickup
				}
				stripped := stripJob(d.p, ranks, rank)
				gain := current - solutionstate.SeqEval(d.p, v, stripped).Cost
				weight := gain
				if weight < 1 {
					weight = 1
				}
				candidates = append(candidates, candidate{vehicle: v, rank: rank, weight: weight})
				totalWeight += weight
			}
		}
		if len(candidates) == 0 {
			return
		}

		pick := d.rng.Int63n(totalWeight)
		chosen := candidates[len(candidates)-1]
		for _, c := range candidates {
			if pick < c.weight {
				chosen = c

				break
			}
			pick -= c.weight
		}

		ranks := d.sol.Routes[chosen.vehicle].RouteRanks()
		stripped := stripJob(d.p, ranks, chosen.rank)
		if err := d.sol.Routes[chosen.vehicle].SetRoute(stripped); err != nil {
			return
		}
		d.sol.Unassigned[chosen.rank] = struct{}{}
		if d.p.Jobs[chosen.rank].Type == vrp.Pickup {
			d.sol.Unassigned[d.p.Jobs[chosen.rank].PairRank] = struct{}{}
		}
	}
}

// stripJob removes rank (and, for a pickup, its paired delivery) from
// seq.
func stripJob(p *solutionstate.Problem, seq []int, rank int) []int {
	pair := -1
	if p.Jobs[rank].Type == vrp.Pickup {
		pair = p.Jobs[rank].PairRank
	}
	out := make([]int, 0, len(seq))
	for _, r := range seq {
		if r == rank || r == pair {
			continue
		}
		out = append(out, r)
	}

	return out
}
