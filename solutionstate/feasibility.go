package solutionstate

// SeqFeasible is the shared feasibility oracle construction and every
// operator consult before committing a candidate sequence to vehicle v:
// max_tasks, skills, then the exact capacity/pairing/time-window/break
// simulation via TWRoute.TrySetRoute, then the vehicle's travel-time and
// distance ranges.
// Complexity: O(len(seq)).
func SeqFeasible(p *Problem, s *Solution, v int, seq []int) bool {
	veh := &p.Vehicles[v]
	if veh.MaxTasks > 0 && len(seq) > veh.MaxTasks {
		return false
	}
	for _, rank := range seq {
		if !p.VehicleCanTake(v, rank) {
			return false
		}
	}
	if !s.Routes[v].TrySetRoute(seq) {
		return false
	}

	if veh.MaxTravelTime > 0 || veh.MaxDistance > 0 {
		var travel, distance int64
		prevLoc := -1
		if veh.Start != nil {
			prevLoc = veh.Start.Index
		}
		for _, rank := range seq {
			loc := p.Jobs[rank].Location.Index
			if prevLoc >= 0 {
				travel += p.Travel(v, prevLoc, loc)
				distance += p.Distance(v, prevLoc, loc)
			}
			prevLoc = loc
		}
		if veh.End != nil && prevLoc >= 0 {
			travel += p.Travel(v, prevLoc, veh.End.Index)
			distance += p.Distance(v, prevLoc, veh.End.Index)
		}
		if veh.MaxTravelTime > 0 && travel > veh.MaxTravelTime {
			return false
		}
		if veh.MaxDistance > 0 && distance > veh.MaxDistance {
			return false
		}
	}

	return true
}
