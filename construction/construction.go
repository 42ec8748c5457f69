// Package construction implements the insertion-heuristic family that
// seeds initial solutions: a Solomon-I1 style regret insertion over a
// fixed vehicle order, and a dynamic-vehicle-choice variant that re-ranks
// the remaining fleet at every outer step.
//
// Heuristics never fail; jobs that cannot be placed stay in the
// solution's unassigned set.
package construction

import (
	"math"
	"sort"

	"github.com/katalvlaran/vrpsolve/costmodel"
	"github.com/katalvlaran/vrpsolve/solutionstate"
	"github.com/katalvlaran/vrpsolve/vrp"
)

// InitStrategy selects how an empty route is seeded before the insertion
// loop.
type InitStrategy int

const (
	// InitNone skips seeding; the insertion loop fills from scratch.
	InitNone InitStrategy = iota
	// InitHigherAmount seeds with the unassigned job of largest amount.
	InitHigherAmount
	// InitEarliestDeadline seeds with the job whose last window closes first.
	InitEarliestDeadline
	// InitFurthest seeds with the job furthest from the vehicle start.
	InitFurthest
	// InitNearest seeds with the job nearest to the vehicle start.
	InitNearest
)

// SortStrategy orders the fleet before filling.
type SortStrategy int

const (
	// SortAvailability orders by decreasing capacity, then TW length,
	// then range.
	SortAvailability SortStrategy = iota
	// SortCost orders by increasing fixed cost, then as Availability.
	SortCost
)

// VehicleOrder ranks the fleet under the given sort strategy, returning
// vehicle indices. Complexity: O(V log V).
func VehicleOrder(p *solutionstate.Problem, strategy SortStrategy) []int {
	order := make([]int, len(p.Vehicles))
	for i := range order {
		order[i] = i
	}

	twLength := func(v int) int64 {
		return p.Vehicles[v].Availability.End - p.Vehicles[v].Availability.Start
	}
	availabilityLess := func(a, b int) bool {
		ca, cb := p.Vehicles[a].Capacity, p.Vehicles[b].Capacity
		if len(ca) == len(cb) && !ca.Equal(cb) {
			return cb.Less(ca) // decreasing capacity
		}
		if la, lb := twLength(a), twLength(b); la != lb {
			return la > lb
		}
		if ra, rb := p.Vehicles[a].MaxTravelTime, p.Vehicles[b].MaxTravelTime; ra != rb {
			return ra > rb
		}

		return a < b
	}

	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if strategy == SortCost {
			if fa, fb := p.Vehicles[a].Costs.Fixed, p.Vehicles[b].Costs.Fixed; fa != fb {
				return fa < fb
			}
		}

		return availabilityLess(a, b)
	})

	return order
}

// insertion is one candidate placement of a job (or pickup-delivery pair)
// into a route.
type insertion struct {
	seq   []int
	eval  costmodel.Eval // route eval after the insertion
	delta int64          // eval.Cost - current route cost
	ok    bool
}

// bestInsertion scans every feasible placement of rank (and, for a
// pickup, of its paired delivery both directly after and further down the
// route) and returns the cheapest. Complexity: O(n²) for a
// pair, O(n) route evals each.
func bestInsertion(p *solutionstate.Problem, s *solutionstate.Solution, v, rank int) insertion {
	current := s.RouteEval(p, v).Cost
	ranks := s.Routes[v].RouteRanks()
	job := &p.Jobs[rank]

	best := insertion{delta: math.MaxInt64}
	consider := func(seq []int) {
		if !solutionstate.SeqFeasible(p, s, v, seq) {
			return
		}
		eval := solutionstate.SeqEval(p, v, seq)
		if d := eval.Cost - current; d < best.delta {
			best = insertion{seq: seq, eval: eval, delta: d, ok: true}
		}
	}

	switch job.Type {
	case vrp.Single:
		for pos := 0; pos <= len(ranks); pos++ {
			consider(splice(ranks, []int{rank}, pos, pos))
		}
	case vrp.Pickup:
		del := job.PairRank
		for pPos := 0; pPos <= len(ranks); pPos++ {
			withPickup := splice(ranks, []int{rank}, pPos, pPos)
			for dPos := pPos + 1; dPos <= len(withPickup); dPos++ {
				consider(splice(withPickup, []int{del}, dPos, dPos))
			}
		}
	case vrp.Delivery:
		// Deliveries are always placed together with their pickup.
	}

	return best
}

func splice(ranks, repl []int, first, last int) []int {
	out := make([]int, 0, len(ranks)-(last-first)+len(repl))
	out = append(out, ranks[:first]...)
	out = append(out, repl...)
	out = append(out, ranks[last:]...)

	return out
}

// regretTable computes, for each (vehicle-position v in order, job j), the
// minimum empty-route insertion eval across all vehicles strictly after v
// in the order. The sentinel guard falls back to
// the vehicle's own eval when no later vehicle can carry any compatible
// job, keeping λ meaningful.
func regretTable(p *solutionstate.Problem, order []int) [][]int64 {
	nJobs := len(p.Jobs)
	regrets := make([][]int64, len(order))

	// emptyEval[v][j]: cost of serving j alone on an empty route of v.
	scratch := solutionstate.NewSolution(p)
	emptyEval := make([][]int64, len(p.Vehicles))
	for _, v := range order {
		emptyEval[v] = make([]int64, nJobs)
		for j := range p.Jobs {
			emptyEval[v][j] = math.MaxInt64
			if !p.VehicleCanTake(v, j) || p.Jobs[j].Type == vrp.Delivery {
				continue
			}
			var seq []int
			if p.Jobs[j].Type == vrp.Pickup {
				seq = []int{j, p.Jobs[j].PairRank}
			} else {
				seq = []int{j}
			}
			if solutionstate.SeqFeasible(p, scratch, v, seq) {
				emptyEval[v][j] = solutionstate.SeqEval(p, v, seq).Cost
			}
		}
	}

	for vi := range order {
		regrets[vi] = make([]int64, nJobs)
		anyReachable := false
		for j := 0; j < nJobs; j++ {
			minLater := int64(math.MaxInt64)
			for wi := vi + 1; wi < len(order); wi++ {
				if e := emptyEval[order[wi]][j]; e < minLater {
					minLater = e
				}
			}
			if minLater < math.MaxInt64 {
				anyReachable = true
			}
			regrets[vi][j] = minLater
		}
		if !anyReachable {
			// Sentinel guard: no later vehicle reaches any compatible
			// job, so regret against own eval instead.
			for j := 0; j < nJobs; j++ {
				regrets[vi][j] = emptyEval[order[vi]][j]
			}
		}
	}

	return regrets
}

// regretTerm converts a (possibly unreachable) regret entry into the λ
// weighted score component.
func regretTerm(lambda float64, regret int64) float64 {
	if regret == math.MaxInt64 {
		return 0
	}

	return lambda * float64(regret)
}

// applyUserSteps honours vehicles that declare an initial step sequence:
// the named jobs are placed on that vehicle before any heuristic runs,
// provided the whole sequence is feasible.
func applyUserSteps(p *solutionstate.Problem, s *solutionstate.Solution) {
	var idToRank map[string]int
	for v := range p.Vehicles {
		if len(p.Vehicles[v].Steps) == 0 || s.Routes[v].Len() > 0 {
			continue
		}
		if idToRank == nil {
			idToRank = make(map[string]int, len(p.Jobs))
			for rank := range p.Jobs {
				idToRank[p.Jobs[rank].ID] = rank
			}
		}
		seq := make([]int, 0, len(p.Vehicles[v].Steps))
		ok := true
		for _, id := range p.Vehicles[v].Steps {
			rank, found := idToRank[id]
			if !found {
				ok = false

				break
			}
			if _, unassigned := s.Unassigned[rank]; !unassigned {
				ok = false

				break
			}
			seq = append(seq, rank)
		}
		if !ok || !solutionstate.SeqFeasible(p, s, v, seq) {
			continue
		}
		if err := s.Routes[v].SetRoute(seq); err != nil {
			continue
		}
		for _, rank := range seq {
			delete(s.Unassigned, rank)
		}
	}
}

// Basic runs the fixed-vehicle-order insertion heuristic over the given
// solution in place and returns the resulting total Eval. Vehicles are filled one at a time in order.
func Basic(p *solutionstate.Problem, s *solutionstate.Solution, order []int, init InitStrategy, lambda float64) costmodel.Eval {
	applyUserSteps(p, s)
	regrets := regretTable(p, order)
	for vi, v := range order {
		fillRoute(p, s, v, regrets[vi], init, lambda)
	}

	return s.Eval(p)
}

// DynamicVehicleChoice re-ranks the remaining vehicles at each outer step
// by the number of unassigned jobs closer to them than to any other
// still-available vehicle, then fills the winner.
func DynamicVehicleChoice(p *solutionstate.Problem, s *solutionstate.Solution, order []int, init InitStrategy, lambda float64) costmodel.Eval {
	applyUserSteps(p, s)
	remaining := append([]int(nil), order...)
	for len(remaining) > 0 && len(s.Unassigned) > 0 {
		winner := 0
		bestScore := -1
		for i, v := range remaining {
			score := closerJobCount(p, s, v, remaining)
			if score > bestScore {
				bestScore, winner = score, i
			}
		}
		v := remaining[winner]
		remaining = append(remaining[:winner], remaining[winner+1:]...)

		// Regrets against the vehicles still unfilled after this one.
		regretOrder := append([]int{v}, remaining...)
		regrets := regretTable(p, regretOrder)
		fillRoute(p, s, v, regrets[0], init, lambda)
	}

	return s.Eval(p)
}

// closerJobCount counts unassigned jobs whose start-distance to v beats
// every other still-available vehicle.
func closerJobCount(p *solutionstate.Problem, s *solutionstate.Solution, v int, available []int) int {
	start := func(u int) (int, bool) {
		if p.Vehicles[u].Start != nil {
			return p.Vehicles[u].Start.Index, true
		}

		return 0, false
	}

	vStart, ok := start(v)
	if !ok {
		return 0
	}
	count := 0
	for _, j := range s.UnassignedRanks() {
		if !p.VehicleCanTake(v, j) {
			continue
		}
		loc := p.Jobs[j].Location.Index
		mine := p.Travel(v, vStart, loc)
		closest := true
		for _, u := range available {
			if u == v {
				continue
			}
			if uStart, ok := start(u); ok && p.Travel(u, uStart, loc) < mine {
				closest = false

				break
			}
		}
		if closest {
			count++
		}
	}

	return count
}
