package vrpio

import (
	"github.com/katalvlaran/vrpsolve/amount"
	"github.com/katalvlaran/vrpsolve/solutionstate"
	"github.com/katalvlaran/vrpsolve/vrp"
)

// simStep is one simulated stop: either a job, a break, or the route's
// start/end marker.
type simStep struct {
	kind     string // start, job, pickup, delivery, break, end
	rank     int    // job rank, or break index for kind=="break"
	location int
	arrival  int64
	waiting  int64
	setup    int64
	service  int64
	load     amount.Amount
	// violations collected for this step (check mode).
	violations []ViolationDoc
}

// simulate replays vehicle v serving seq, deriving arrival, waiting,
// setup, service, and load per stop. Breaks are scheduled lazily: a
// pending break is taken as soon as postponing it past the next job
// would push it beyond its last time window. Used by both solution
// serialisation and the check mode, so the two agree by construction.
func simulate(p *solutionstate.Problem, v int, seq []int) []simStep {
	veh := &p.Vehicles[v]
	dim := len(veh.Capacity)

	// Initial load: everything delivered along the way starts on board.
	load := amount.Zero(dim)
	for _, rank := range seq {
		if p.Jobs[rank].Type == vrp.Single || p.Jobs[rank].Type == vrp.Delivery {
			load = amount.Add(load, padTo(p.Jobs[rank].DeliveryAmount, dim))
		}
	}

	var steps []simStep
	now := veh.Availability.Start
	loc := -1
	var startViols []ViolationDoc
	if !load.LessEq(veh.Capacity) {
		startViols = append(startViols, ViolationDoc{Cause: ViolationLoad})
	}
	if veh.Start != nil {
		loc = veh.Start.Index
		steps = append(steps, simStep{kind: "start", rank: -1, location: loc, arrival: now, load: load.Clone(), violations: startViols})
		startViols = nil
	}

	pending := append([]vrp.Break(nil), veh.Breaks...)

	takeBreak := func(b vrp.Break) {
		w, ok := vrp.EarliestTimeWindowEndAfter(b.TimeWindows, now)
		start := now
		var viols []ViolationDoc
		if !ok {
			viols = append(viols, ViolationDoc{Cause: ViolationLeadTime})
		} else if w.Start > now {
			start = w.Start
		}
		if b.MaxLoad != nil && !load.LessEq(padTo(b.MaxLoad, dim)) {
			viols = append(viols, ViolationDoc{Cause: ViolationMaxLoad})
		}
		steps = append(steps, simStep{
			kind:       "break",
			rank:       -1,
			location:   loc,
			arrival:    now,
			waiting:    start - now,
			service:    b.Service,
			load:       load.Clone(),
			violations: viols,
		})
		now = start + b.Service
	}

	for _, rank := range seq {
		job := &p.Jobs[rank]
		target := job.Location.Index
		travel := int64(0)
		if loc >= 0 {
			travel = p.Travel(v, loc, target)
		}

		// Take any pending break that cannot survive the next leg.
		for len(pending) > 0 {
			b := pending[0]
			last := b.TimeWindows[len(b.TimeWindows)-1]
			if now+travel <= last.End {
				break
			}
			takeBreak(b)
			pending = pending[1:]
		}

		arrival := now + travel
		w, ok := vrp.EarliestTimeWindowEndAfter(job.TimeWindows, arrival)
		start := arrival
		viols := startViols
		startViols = nil
		if !ok {
			viols = append(viols, ViolationDoc{Cause: ViolationLeadTime})
		} else if w.Start > arrival {
			start = w.Start
		}

		setup := int64(0)
		if loc != target {
			setup = job.Setup(veh.Profile)
		}
		service := job.Service(veh.Profile)

		switch job.Type {
		case vrp.Pickup:
			load = amount.Add(load, padTo(job.PickupAmount, dim))
		case vrp.Delivery:
			load = amount.Sub(load, padTo(job.DeliveryAmount, dim))
		case vrp.Single:
			load = amount.Sub(load, padTo(job.DeliveryAmount, dim))
			load = amount.Add(load, padTo(job.PickupAmount, dim))
		}
		if !load.LessEq(veh.Capacity) {
			viols = append(viols, ViolationDoc{Cause: ViolationLoad})
		}

		steps = append(steps, simStep{
			kind:       stepKind(job.Type),
			rank:       rank,
			location:   target,
			arrival:    arrival,
			waiting:    start - arrival,
			setup:      setup,
			service:    service,
			load:       load.Clone(),
			violations: viols,
		})
		now = start + setup + service
		loc = target
	}

	for _, b := range pending {
		takeBreak(b)
	}

	if veh.End != nil {
		travel := int64(0)
		if loc >= 0 {
			travel = p.Travel(v, loc, veh.End.Index)
		}
		arrival := now + travel
		var viols []ViolationDoc
		if arrival > veh.Availability.End {
			viols = append(viols, ViolationDoc{Cause: ViolationDelay})
		}
		steps = append(steps, simStep{kind: "end", rank: -1, location: veh.End.Index, arrival: arrival, load: load.Clone(), violations: viols})
	}

	return steps
}

func stepKind(t vrp.JobType) string {
	switch t {
	case vrp.Pickup:
		return "pickup"
	case vrp.Delivery:
		return "delivery"
	default:
		return "job"
	}
}

func padTo(a amount.Amount, dim int) amount.Amount {
	if len(a) == dim {
		return a
	}
	out := amount.Zero(dim)
	copy(out, a)

	return out
}
