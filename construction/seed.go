package construction

import (
	"sort"
	"strconv"

	"github.com/katalvlaran/vrpsolve/core"
	"github.com/katalvlaran/vrpsolve/prim_kruskal"
	"github.com/katalvlaran/vrpsolve/solutionstate"
	"github.com/katalvlaran/vrpsolve/vrp"
)

// seedRoute places one "best" unassigned job on vehicle v's empty route
// according to the init strategy: higher amount,
// earliest deadline, furthest from depot, or nearest to depot. Pickup
// jobs are seeded together with their delivery.
func seedRoute(p *solutionstate.Problem, s *solutionstate.Solution, v int, init InitStrategy) {
	candidates := seedOrder(p, s, v, init)
	for _, j := range candidates {
		var seq []int
		if p.Jobs[j].Type == vrp.Pickup {
			seq = []int{j, p.Jobs[j].PairRank}
		} else {
			seq = []int{j}
		}
		if !solutionstate.SeqFeasible(p, s, v, seq) {
			continue
		}
		commit(p, s, v, j, insertion{
			seq:  seq,
			eval: solutionstate.SeqEval(p, v, seq),
			ok:   true,
		})

		return
	}
}

// seedOrder ranks the unassigned seed candidates best-first for the given
// strategy. The distance-driven strategies (furthest/nearest) are ordered
// along the minimum spanning tree over job locations rather than by raw
// depot distance alone: MST-edge order groups jobs into natural clusters,
// so consecutive seeds land in distinct clusters.
func seedOrder(p *solutionstate.Problem, s *solutionstate.Solution, v int, init InitStrategy) []int {
	var ranks []int
	for _, j := range s.UnassignedRanks() {
		if p.Jobs[j].Type == vrp.Delivery || !p.VehicleCanTake(v, j) {
			continue
		}
		ranks = append(ranks, j)
	}

	switch init {
	case InitHigherAmount:
		sort.SliceStable(ranks, func(a, b int) bool {
			ja, jb := &p.Jobs[ranks[a]], &p.Jobs[ranks[b]]
			la := sumAmount(ja)
			lb := sumAmount(jb)

			return lb < la
		})
	case InitEarliestDeadline:
		sort.SliceStable(ranks, func(a, b int) bool {
			return deadline(&p.Jobs[ranks[a]]) < deadline(&p.Jobs[ranks[b]])
		})
	case InitFurthest, InitNearest:
		depot := depotIndex(p, v)
		clusterOrder := mstClusterOrder(p, v, ranks)
		sort.SliceStable(ranks, func(a, b int) bool {
			da := p.Travel(v, depot, p.Jobs[ranks[a]].Location.Index)
			db := p.Travel(v, depot, p.Jobs[ranks[b]].Location.Index)
			if da != db {
				if init == InitFurthest {
					return da > db
				}

				return da < db
			}

			return clusterOrder[ranks[a]] < clusterOrder[ranks[b]]
		})
	}

	return ranks
}

func sumAmount(j *vrp.Job) int64 {
	var total int64
	for _, c := range j.PickupAmount {
		total += c
	}
	for _, c := range j.DeliveryAmount {
		total += c
	}

	return total
}

func deadline(j *vrp.Job) int64 {
	if len(j.TimeWindows) == 0 {
		return int64(1) << 62
	}

	return j.TimeWindows[len(j.TimeWindows)-1].End
}

func depotIndex(p *solutionstate.Problem, v int) int {
	if p.Vehicles[v].Start != nil {
		return p.Vehicles[v].Start.Index
	}
	if p.Vehicles[v].End != nil {
		return p.Vehicles[v].End.Index
	}

	return 0
}

// mstClusterOrder builds a minimum spanning tree over the candidate job
// locations (Kruskal over a complete weighted graph) and returns each
// rank's position in MST-edge discovery order. Ties in depot distance are
// then broken cluster-by-cluster instead of by raw rank, mirroring the
// clustering pass the route-seeding literature applies before insertion.
func mstClusterOrder(p *solutionstate.Problem, v int, ranks []int) map[int]int {
	order := make(map[int]int, len(ranks))
	for i, r := range ranks {
		order[r] = i // fallback: table order
	}
	if len(ranks) < 3 {
		return order
	}

	g := core.NewGraph(core.WithWeighted())
	for _, r := range ranks {
		_ = g.AddVertex(strconv.Itoa(r))
	}
	for a := 0; a < len(ranks); a++ {
		for b := a + 1; b < len(ranks); b++ {
			w := p.Travel(v, p.Jobs[ranks[a]].Location.Index, p.Jobs[ranks[b]].Location.Index)
			if _, err := g.AddEdge(strconv.Itoa(ranks[a]), strconv.Itoa(ranks[b]), w); err != nil {
				return order
			}
		}
	}

	edges, _, err := prim_kruskal.Kruskal(g)
	if err != nil {
		return order
	}
	pos := 0
	seen := make(map[int]bool, len(ranks))
	for _, e := range edges {
		for _, id := range []string{e.From, e.To} {
			r, convErr := strconv.Atoi(id)
			if convErr != nil || seen[r] {
				continue
			}
			seen[r] = true
			order[r] = pos
			pos++
		}
	}

	return order
}
