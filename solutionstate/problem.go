package solutionstate

import (
	"github.com/katalvlaran/vrpsolve/costmodel"
	"github.com/katalvlaran/vrpsolve/matrices"
	"github.com/katalvlaran/vrpsolve/route"
	"github.com/katalvlaran/vrpsolve/vrp"
)

// Problem bundles the immutable inputs every heuristic and operator reads:
// the job table, the fleet, the per-profile matrices, and one cost wrapper
// per vehicle. It is built once per solve and shared read-only across
// workers (each worker owns its own Solution, never its own Problem).
type Problem struct {
	Jobs     []vrp.Job
	Vehicles []vrp.Vehicle

	Set      *matrices.Set
	Wrappers []*costmodel.Wrapper

	profiles []*matrices.Profile // resolved per vehicle, same index
}

// NewProblem resolves each vehicle's profile and builds its cost wrapper.
// Vehicles whose profile declares an explicit cost matrix get a
// user-supplied wrapper (per-hour/per-km disabled).
func NewProblem(jobs []vrp.Job, vehicles []vrp.Vehicle, set *matrices.Set) (*Problem, error) {
	p := &Problem{
		Jobs:     jobs,
		Vehicles: vehicles,
		Set:      set,
		Wrappers: make([]*costmodel.Wrapper, len(vehicles)),
		profiles: make([]*matrices.Profile, len(vehicles)),
	}
	for v := range vehicles {
		prof, err := set.Profile(vehicles[v].Profile)
		if err != nil {
			return nil, err
		}
		p.profiles[v] = prof

		speed := vehicles[v].SpeedFactor
		if speed == 0 {
			speed = 1
		}
		schedule := costmodel.CostSchedule{
			Fixed:       vehicles[v].Costs.Fixed,
			PerHour:     vehicles[v].Costs.PerHour,
			PerKm:       vehicles[v].Costs.PerKm,
			PerTaskHour: vehicles[v].Costs.PerTaskHour,
		}
		var w *costmodel.Wrapper
		if prof.Cost != nil {
			w, err = costmodel.NewUserSuppliedWrapper(speed, vehicles[v].Costs.Fixed)
		} else {
			w, err = costmodel.NewWrapper(speed, schedule)
		}
		if err != nil {
			return nil, err
		}
		p.Wrappers[v] = w
	}

	return p, nil
}

// Dim returns the capacity-vector dimension of the fleet.
func (p *Problem) Dim() int {
	if len(p.Vehicles) == 0 {
		return 0
	}

	return len(p.Vehicles[0].Capacity)
}

// Travel returns the internal, speed-scaled travel duration for vehicle v
// between location indices i and j. Complexity: O(1).
func (p *Problem) Travel(v, i, j int) int64 {
	d, err := p.profiles[v].DurationAt(i, j)
	if err != nil {
		return 0
	}

	return p.Wrappers[v].ScaledDuration(costmodel.ToInternal(d))
}

// Distance returns the internal distance for vehicle v between i and j.
func (p *Problem) Distance(v, i, j int) int64 {
	d, err := p.profiles[v].DistanceAt(i, j)
	if err != nil {
		return 0
	}

	return costmodel.ToInternal(d)
}

// Edge returns the full Eval of traversing (i,j) with vehicle v: the
// wrapper-combined cost plus the duration and distance components carried
// through for reporting and indicator tie-breaks.
func (p *Problem) Edge(v, i, j int) costmodel.Eval {
	dur := p.Travel(v, i, j)
	dist := p.Distance(v, i, j)
	userCost := int64(0)
	if c, ok, err := p.profiles[v].CostAt(i, j); ok && err == nil {
		userCost = costmodel.ToInternal(c)
	}

	return costmodel.Eval{
		Cost:     p.Wrappers[v].EdgeCost(dur, dist, userCost),
		Duration: dur,
		Distance: dist,
	}
}

// TravelFor adapts Travel to the route.TravelFunc closure TWRoute needs.
func (p *Problem) TravelFor(v int) route.TravelFunc {
	return func(i, j int) int64 { return p.Travel(v, i, j) }
}

// VehicleCanTake reports whether vehicle v's skills cover job rank's
// requirements.
func (p *Problem) VehicleCanTake(v, rank int) bool {
	return p.Vehicles[v].Skills.Covers(p.Jobs[rank].Skills)
}

// HomogeneousCosts reports whether every vehicle's effective per-edge
// variable cost matches — the flag operator filters consult before
// assuming a cross-route move's travel deltas are directly comparable.
func (p *Problem) HomogeneousCosts() bool {
	for v := 1; v < len(p.Wrappers); v++ {
		if !p.Wrappers[0].Equivalent(p.Wrappers[v]) {
			return false
		}
		if p.Vehicles[0].Profile != p.Vehicles[v].Profile {
			return false
		}
	}

	return true
}

// HeterogeneousProfiles reports whether the fleet mixes routing profiles.
func (p *Problem) HeterogeneousProfiles() bool {
	for v := 1; v < len(p.Vehicles); v++ {
		if p.Vehicles[v].Profile != p.Vehicles[0].Profile {
			return true
		}
	}

	return false
}
