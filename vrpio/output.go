package vrpio

import (
	"github.com/katalvlaran/vrpsolve/amount"
	"github.com/katalvlaran/vrpsolve/costmodel"
	"github.com/katalvlaran/vrpsolve/routing"
	"github.com/katalvlaran/vrpsolve/solutionstate"
	"github.com/katalvlaran/vrpsolve/vrp"
)

// BuildOutput serialises a solved solution into the external schema,
// optionally enriching non-empty routes with router geometry.
func BuildOutput(parsed *Parsed, p *solutionstate.Problem, sol *solutionstate.Solution, times ComputingTimesDoc, router routing.Router, withGeometry bool) *OutputDoc {
	out := &OutputDoc{Code: CodeOK}
	summary := &SummaryDoc{ComputingTimes: times}
	dim := p.Dim()
	totalDelivery := amount.Zero(dim)
	totalPickup := amount.Zero(dim)
	var totalDistance int64
	hasDistance := false

	for v := range sol.Routes {
		seq := sol.Routes[v].RouteRanks()
		if len(seq) == 0 {
			continue
		}
		eval := sol.RouteEval(p, v)
		routeDoc := RouteDoc{
			Vehicle: parsed.VehicleID[v],
			Cost:    costmodel.ToUser(eval.Cost),
		}

		var setup, service, waiting int64
		delivery := amount.Zero(dim)
		pickup := amount.Zero(dim)
		priority := 0

		steps := simulate(p, v, seq)
		for _, st := range steps {
			doc := StepDoc{
				Type:        st.kind,
				Arrival:     costmodel.ToUser(st.arrival),
				WaitingTime: costmodel.ToUser(st.waiting),
				Setup:       costmodel.ToUser(st.setup),
				Service:     costmodel.ToUser(st.service),
				Load:        st.load,
				Violations:  st.violations,
			}
			if st.rank >= 0 {
				doc.ID = parsed.JobID[st.rank]
				doc.Description = parsed.Descriptions[st.rank]
				idx := st.location
				doc.LocationIndex = &idx
				if coords, ok := parsed.Coords[st.rank]; ok {
					doc.Location = coords
				}
				job := &p.Jobs[st.rank]
				priority += job.Priority
				delivery = amount.Add(delivery, padTo(job.DeliveryAmount, dim))
				pickup = amount.Add(pickup, padTo(job.PickupAmount, dim))
			} else {
				idx := st.location
				doc.LocationIndex = &idx
			}
			setup += st.setup
			service += st.service
			waiting += st.waiting
			routeDoc.Steps = append(routeDoc.Steps, doc)
			routeDoc.Violations = append(routeDoc.Violations, st.violations...)
		}

		routeDoc.Setup = costmodel.ToUser(setup)
		routeDoc.Service = costmodel.ToUser(service)
		routeDoc.WaitingTime = costmodel.ToUser(waiting)
		routeDoc.Duration = costmodel.ToUser(eval.Duration)
		routeDoc.Priority = priority
		routeDoc.Delivery = delivery
		routeDoc.Pickup = pickup
		if eval.Distance > 0 {
			d := costmodel.ToUser(eval.Distance)
			routeDoc.Distance = &d
			totalDistance += eval.Distance
			hasDistance = true
		}

		if withGeometry && router != nil {
			locs := make([]vrp.Location, 0, len(seq)+2)
			if p.Vehicles[v].Start != nil {
				locs = append(locs, *p.Vehicles[v].Start)
			}
			for _, rank := range seq {
				locs = append(locs, p.Jobs[rank].Location)
			}
			if p.Vehicles[v].End != nil {
				locs = append(locs, *p.Vehicles[v].End)
			}
			if geom, err := router.AddGeometry(locs); err == nil {
				routeDoc.Geometry = geom
			}
		}

		summary.Cost += routeDoc.Cost
		summary.Routes++
		summary.Setup += routeDoc.Setup
		summary.Service += routeDoc.Service
		summary.Duration += routeDoc.Duration
		summary.WaitingTime += routeDoc.WaitingTime
		summary.Priority += priority
		totalDelivery = amount.Add(totalDelivery, delivery)
		totalPickup = amount.Add(totalPickup, pickup)
		summary.Violations = append(summary.Violations, routeDoc.Violations...)

		out.Routes = append(out.Routes, routeDoc)
	}

	summary.Delivery = totalDelivery
	summary.Pickup = totalPickup
	if hasDistance {
		d := costmodel.ToUser(totalDistance)
		summary.Distance = &d
	}

	for _, rank := range sol.UnassignedRanks() {
		u := UnassignedDoc{
			ID:          parsed.JobID[rank],
			Type:        stepKind(p.Jobs[rank].Type),
			Description: parsed.Descriptions[rank],
		}
		if coords, ok := parsed.Coords[rank]; ok {
			u.Location = coords
		}
		out.Unassigned = append(out.Unassigned, u)
	}
	summary.Unassigned = len(out.Unassigned)
	out.Summary = summary

	return out
}

// ErrorOutput serialises a fatal error into the single-object form.
func ErrorOutput(code int, err error) *OutputDoc {
	return &OutputDoc{Code: code, Error: err.Error()}
}

// vehicleIndexByID recovers the fleet slot for a user vehicle id.
func (parsed *Parsed) vehicleIndexByID(id uint64) int {
	for v, vid := range parsed.VehicleID {
		if vid == id {
			return v
		}
	}

	return -1
}

// jobRankByID recovers the global rank for a user job id.
func (parsed *Parsed) jobRankByID(id uint64) int {
	for rank, jid := range parsed.JobID {
		if jid == id {
			return rank
		}
	}

	return -1
}
