package solutionstate

import (
	"hash/fnv"
	"sort"

	"github.com/katalvlaran/vrpsolve/costmodel"
	"github.com/katalvlaran/vrpsolve/route"
)

// Solution is the authoritative optimisation state one worker owns: one
// TWRoute per vehicle plus the set of currently-unassigned job ranks.
// Everything else (State's caches, Evals, the Indicator) derives from it.
type Solution struct {
	Routes     []*route.TWRoute
	Unassigned map[int]struct{}
}

// NewSolution builds the all-unassigned starting state: one empty route
// per vehicle, every job rank in Unassigned.
func NewSolution(p *Problem) *Solution {
	s := &Solution{
		Routes:     make([]*route.TWRoute, len(p.Vehicles)),
		Unassigned: make(map[int]struct{}, len(p.Jobs)),
	}
	for v := range p.Vehicles {
		s.Routes[v] = route.NewTWRoute(p.Jobs, &p.Vehicles[v], p.TravelFor(v))
	}
	for rank := range p.Jobs {
		s.Unassigned[rank] = struct{}{}
	}

	return s
}

// Clone deep-copies the solution so a worker or a speculative apply can
// mutate freely.
func (s *Solution) Clone(p *Problem) *Solution {
	out := &Solution{
		Routes:     make([]*route.TWRoute, len(s.Routes)),
		Unassigned: make(map[int]struct{}, len(s.Unassigned)),
	}
	for v, r := range s.Routes {
		nr := route.NewTWRoute(p.Jobs, &p.Vehicles[v], p.TravelFor(v))
		_ = nr.SetRoute(r.RouteRanks())
		out.Routes[v] = nr
	}
	for rank := range s.Unassigned {
		out.Unassigned[rank] = struct{}{}
	}

	return out
}

// SeqEval computes the full Eval of vehicle v serving the candidate
// sequence seq: travel edges from start through every job to end, plus
// setup+service charged as TaskDuration and per-task-hour cost, plus the
// one-time fixed cost when seq is non-empty.
// Complexity: O(len(seq)).
func SeqEval(p *Problem, v int, seq []int) costmodel.Eval {
	if len(seq) == 0 {
		return costmodel.Eval{}
	}

	veh := &p.Vehicles[v]
	w := p.Wrappers[v]
	eval := costmodel.Eval{Cost: w.FixedCost()}

	prevLoc := -1
	if veh.Start != nil {
		prevLoc = veh.Start.Index
	}
	for _, rank := range seq {
		job := &p.Jobs[rank]
		loc := job.Location.Index
		if prevLoc >= 0 {
			eval = eval.Add(p.Edge(v, prevLoc, loc))
		}
		action := job.Service(veh.Profile)
		if prevLoc != loc {
			action += job.Setup(veh.Profile)
		}
		eval.TaskDuration += action
		eval.Cost += w.TaskCost(action)
		prevLoc = loc
	}
	if veh.End != nil && prevLoc >= 0 {
		eval = eval.Add(p.Edge(v, prevLoc, veh.End.Index))
	}

	return eval
}

// RouteEval evaluates vehicle v's current route.
func (s *Solution) RouteEval(p *Problem, v int) costmodel.Eval {
	return SeqEval(p, v, s.Routes[v].RouteRanks())
}

// Eval sums every route's Eval into the solution-wide total.
func (s *Solution) Eval(p *Problem) costmodel.Eval {
	var total costmodel.Eval
	for v := range s.Routes {
		total = total.Add(s.RouteEval(p, v))
	}

	return total
}

// AssignedCount returns the number of jobs currently on routes.
func (s *Solution) AssignedCount(p *Problem) int {
	return len(p.Jobs) - len(s.Unassigned)
}

// UnassignedRanks returns the unassigned set as a sorted slice, for
// deterministic iteration.
func (s *Solution) UnassignedRanks() []int {
	out := make([]int, 0, len(s.Unassigned))
	for rank := range s.Unassigned {
		out = append(out, rank)
	}
	sort.Ints(out)

	return out
}

// Indicator is the total-order key by which two solutions are ranked:
// (−priority_sum, −assigned_count, cost, used_vehicles, duration,
// distance, route_sizes_hash), lexicographic.
type Indicator struct {
	PrioritySum    int
	AssignedCount  int
	Cost           int64
	UsedVehicles   int
	Duration       int64
	Distance       int64
	RouteSizesHash uint64
}

// Indicator derives the ranking key for the current solution.
func (s *Solution) Indicator(p *Problem) Indicator {
	var ind Indicator
	ind.AssignedCount = s.AssignedCount(p)

	h := fnv.New64a()
	var buf [8]byte
	for v := range s.Routes {
		ranks := s.Routes[v].RouteRanks()
		if len(ranks) > 0 {
			ind.UsedVehicles++
		}
		for _, rank := range ranks {
			ind.PrioritySum += p.Jobs[rank].Priority
		}
		eval := s.RouteEval(p, v)
		ind.Cost += eval.Cost
		ind.Duration += eval.Duration
		ind.Distance += eval.Distance

		n := uint64(len(ranks))
		for b := 0; b < 8; b++ {
			buf[b] = byte(n >> (8 * b))
		}
		_, _ = h.Write(buf[:])
	}
	ind.RouteSizesHash = h.Sum64()

	return ind
}

// Less implements the strict lexicographic indicator order: higher
// priority first, then more assigned tasks, then lower cost, fewer used
// vehicles, shorter duration, shorter distance, then the route-sizes hash
// as the final determinising key.
func (a Indicator) Less(b Indicator) bool {
	if a.PrioritySum != b.PrioritySum {
		return a.PrioritySum > b.PrioritySum
	}
	if a.AssignedCount != b.AssignedCount {
		return a.AssignedCount > b.AssignedCount
	}
	if a.Cost != b.Cost {
		return a.Cost < b.Cost
	}
	if a.UsedVehicles != b.UsedVehicles {
		return a.UsedVehicles < b.UsedVehicles
	}
	if a.Duration != b.Duration {
		return a.Duration < b.Duration
	}
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}

	return a.RouteSizesHash < b.RouteSizesHash
}

// Equal reports whether every key matches; equal indicators are treated as
// duplicates by the multi-start deduplication.
func (a Indicator) Equal(b Indicator) bool {
	return a == b
}
