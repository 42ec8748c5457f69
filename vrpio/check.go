package vrpio

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/katalvlaran/vrpsolve/costmodel"
	"github.com/katalvlaran/vrpsolve/routing"
	"github.com/katalvlaran/vrpsolve/solutionstate"
	"github.com/katalvlaran/vrpsolve/vrp"
)

// RunCheck is the check-mode pipeline: decode the document (problem plus
// declared routes), resolve it like a solve would, then validate instead
// of optimising.
func RunCheck(data []byte, router routing.Router) (*OutputDoc, error) {
	var doc CheckDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInput, err)
	}
	parsed, err := buildParsed(&doc.InputDoc, router)
	if err != nil {
		return nil, err
	}
	p, err := solutionstate.NewProblem(parsed.Input.Jobs, parsed.Input.Vehicles, parsed.Set)
	if err != nil {
		return nil, err
	}

	return Check(parsed, p, doc.Routes)
}

// ErrTimingInconsistent is raised by the check mode when a user-supplied
// step sequence's declared arrival/duration/waiting disagrees with the
// re-derived values.
var ErrTimingInconsistent = errors.New("vrpio: declared step timing inconsistent with re-derived schedule")

// CheckDoc is the check-mode input: the original problem plus
// fully-specified routes to validate instead of solve.
type CheckDoc struct {
	InputDoc
	Routes []CheckRouteDoc `json:"routes"`
}

// CheckRouteDoc is one user-supplied route to validate.
type CheckRouteDoc struct {
	Vehicle uint64    `json:"vehicle"`
	Steps   []StepDoc `json:"steps"`
}

// Check validates user-supplied routes against every constraint the
// solver enforces, emitting the same violation tags the output schema
// carries: a feasibility violation
// in a solution is not an error, so Check succeeds with a populated
// violations list. The declared arrivals, when present, are compared
// against the re-derived schedule.
func Check(parsed *Parsed, p *solutionstate.Problem, routes []CheckRouteDoc) (*OutputDoc, error) {
	sol := solutionstate.NewSolution(p)

	type routePlan struct {
		vehicle int
		seq     []int
		decl    []StepDoc
	}
	var plans []routePlan

	for _, r := range routes {
		v := parsed.vehicleIndexByID(r.Vehicle)
		if v < 0 {
			return nil, fmt.Errorf("%w: unknown vehicle %d", ErrInput, r.Vehicle)
		}
		var seq []int
		for _, st := range r.Steps {
			switch st.Type {
			case "job", "pickup", "delivery":
				rank := parsed.jobRankByID(st.ID)
				if rank < 0 {
					return nil, fmt.Errorf("%w: unknown job %d", ErrInput, st.ID)
				}
				seq = append(seq, rank)
			}
		}
		plans = append(plans, routePlan{vehicle: v, seq: seq, decl: r.Steps})
	}

	// Force-assign the declared sequences, bypassing feasibility: the
	// point of check mode is to report violations, not refuse them.
	out := &OutputDoc{Code: CodeOK}
	summary := &SummaryDoc{}
	for _, plan := range plans {
		veh := &p.Vehicles[plan.vehicle]
		routeDoc := RouteDoc{Vehicle: parsed.VehicleID[plan.vehicle]}

		routeDoc.Violations = append(routeDoc.Violations, staticViolations(p, plan.vehicle, plan.seq)...)

		steps := simulate(p, plan.vehicle, plan.seq)
		declJobs := jobSteps(plan.decl)
		derivedJobs := 0
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
				// Compare declared vs re-derived arrival when supplied.
				if derivedJobs < len(declJobs) && declJobs[derivedJobs].Arrival != 0 {
					if declJobs[derivedJobs].Arrival != doc.Arrival {
						return nil, ErrTimingInconsistent
					}
				}
				derivedJobs++
			}
			routeDoc.Steps = append(routeDoc.Steps, doc)
			routeDoc.Violations = append(routeDoc.Violations, st.violations...)
		}

		// Travel-range constraints over the whole route.
		eval := solutionstate.SeqEval(p, plan.vehicle, plan.seq)
		if veh.MaxTravelTime > 0 && eval.Duration > veh.MaxTravelTime {
			routeDoc.Violations = append(routeDoc.Violations, ViolationDoc{Cause: ViolationMaxTravelTime})
		}
		if veh.MaxDistance > 0 && eval.Distance > veh.MaxDistance {
			routeDoc.Violations = append(routeDoc.Violations, ViolationDoc{Cause: ViolationMaxDistance})
		}
		routeDoc.Cost = costmodel.ToUser(eval.Cost)
		routeDoc.Duration = costmodel.ToUser(eval.Duration)

		summary.Cost += routeDoc.Cost
		summary.Routes++
		summary.Violations = append(summary.Violations, routeDoc.Violations...)
		out.Routes = append(out.Routes, routeDoc)

		for _, rank := range plan.seq {
			delete(sol.Unassigned, rank)
		}
	}

	for _, rank := range sol.UnassignedRanks() {
		out.Unassigned = append(out.Unassigned, UnassignedDoc{
			ID:   parsed.JobID[rank],
			Type: stepKind(p.Jobs[rank].Type),
		})
	}
	summary.Unassigned = len(out.Unassigned)
	out.Summary = summary

	return out, nil
}

// staticViolations reports the order- and membership-level breaches the
// timing simulation cannot see: skills, max_tasks, precedence, and
// missing breaks.
func staticViolations(p *solutionstate.Problem, v int, seq []int) []ViolationDoc {
	var out []ViolationDoc
	veh := &p.Vehicles[v]

	if veh.MaxTasks > 0 && len(seq) > veh.MaxTasks {
		out = append(out, ViolationDoc{Cause: ViolationMaxTasks})
	}
	for _, rank := range seq {
		if !p.VehicleCanTake(v, rank) {
			out = append(out, ViolationDoc{Cause: ViolationSkills})

			break
		}
	}

	// Precedence: every delivery needs its pickup earlier on this route.
	pos := make(map[int]int, len(seq))
	for i, rank := range seq {
		pos[rank] = i
	}
	for i, rank := range seq {
		if p.Jobs[rank].Type != vrp.Delivery {
			continue
		}
		pPos, ok := pos[p.Jobs[rank].PairRank]
		if !ok || pPos > i {
			out = append(out, ViolationDoc{Cause: ViolationPrecedence})

			break
		}
	}

	// Missing break: a break whose every window closes before the route
	// can reach it can never be taken.
	if len(veh.Breaks) > 0 && len(seq) > 0 {
		steps := simulate(p, v, seq)
		breaks := 0
		for _, st := range steps {
			if st.kind == "break" {
				breaks++
			}
		}
		if breaks < len(veh.Breaks) {
			out = append(out, ViolationDoc{Cause: ViolationMissingBreak})
		}
	}

	return out
}

func jobSteps(steps []StepDoc) []StepDoc {
	var out []StepDoc
	for _, st := range steps {
		switch st.Type {
		case "job", "pickup", "delivery":
			out = append(out, st)
		}
	}

	return out
}
