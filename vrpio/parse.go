package vrpio

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/katalvlaran/vrpsolve/bfs"
	"github.com/katalvlaran/vrpsolve/core"
	"github.com/katalvlaran/vrpsolve/costmodel"
	"github.com/katalvlaran/vrpsolve/dfs"
	"github.com/katalvlaran/vrpsolve/matrices"
	"github.com/katalvlaran/vrpsolve/matrix"
	"github.com/katalvlaran/vrpsolve/routing"
	"github.com/katalvlaran/vrpsolve/vrp"
)

// Exit codes: 0 success, 1 internal error, 2 input error,
// 3 routing error.
const (
	CodeOK       = 0
	CodeInternal = 1
	CodeInput    = 2
	CodeRouting  = 3
)

// ErrInput tags fatal input-document problems.
var ErrInput = errors.New("vrpio: invalid input")

// Parsed is the fully-resolved problem: the solver-side Input plus the
// registered matrices and bookkeeping to map ranks back to user IDs on
// output.
type Parsed struct {
	Input *vrp.Input
	Set   *matrices.Set

	// JobID[rank] / VehicleID[v] recover user-facing numeric ids.
	JobID     []uint64
	VehicleID []uint64

	// Coords[rank] preserves declared coordinates for output echoing.
	Coords map[int][]float64

	// Descriptions per rank, echoed on output.
	Descriptions []string
}

// Parse decodes and validates an input document, resolving locations and
// registering matrices. When the document declares no matrices, router is
// asked to fill them from coordinates (routing errors surface as such).
func Parse(data []byte, router routing.Router) (*Parsed, error) {
	var doc InputDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInput, err)
	}

	return buildParsed(&doc, router)
}

// locationResolver interns declared coordinates, handing out matrix
// indices; explicit location_index declarations bypass it.
type locationResolver struct {
	explicit bool // document uses location_index
	implicit bool // document uses coordinates
	coords   [][]float64
	maxIndex int
}

func (lr *locationResolver) resolve(index *int, coord []float64) (vrp.Location, error) {
	if index != nil {
		lr.explicit = true
		if *index < 0 {
			return vrp.Location{}, fmt.Errorf("%w: negative location_index %d", ErrInput, *index)
		}
		if *index > lr.maxIndex {
			lr.maxIndex = *index
		}
		loc := vrp.Location{Index: *index}
		if len(coord) == 2 {
			loc.Lon, loc.Lat = coord[0], coord[1]
		}

		return loc, nil
	}
	if len(coord) != 2 {
		return vrp.Location{}, fmt.Errorf("%w: location needs [lon, lat] or location_index", ErrInput)
	}
	lr.implicit = true
	for i, c := range lr.coords {
		if c[0] == coord[0] && c[1] == coord[1] {
			return vrp.Location{Index: i, Lon: coord[0], Lat: coord[1]}, nil
		}
	}
	lr.coords = append(lr.coords, coord)
	idx := len(lr.coords) - 1
	if idx > lr.maxIndex {
		lr.maxIndex = idx
	}

	return vrp.Location{Index: idx, Lon: coord[0], Lat: coord[1]}, nil
}

func scaleWindows(raw [][2]int64) []vrp.TimeWindow {
	if len(raw) == 0 {
		// No declared window means "always available".
		return []vrp.TimeWindow{{Start: 0, End: costmodel.ToInternal(4e9)}}
	}
	out := make([]vrp.TimeWindow, len(raw))
	for i, w := range raw {
		out[i] = vrp.TimeWindow{
			Start: costmodel.ToInternal(float64(w[0])),
			End:   costmodel.ToInternal(float64(w[1])),
		}
	}

	return out
}

func buildJob(doc *JobDoc, typ vrp.JobType, lr *locationResolver, profiles []string) (vrp.Job, error) {
	loc, err := lr.resolve(doc.LocationIndex, doc.Location)
	if err != nil {
		return vrp.Job{}, err
	}
	for _, a := range append(append([]int64{}, doc.Pickup...), doc.Delivery...) {
		if a < 0 {
			return vrp.Job{}, fmt.Errorf("%w: job %d: %v", ErrInput, doc.ID, vrp.ErrBadPickupDelivery)
		}
	}
	if doc.Priority < 0 || doc.Priority > 100 {
		return vrp.Job{}, fmt.Errorf("%w: job %d: priority outside [0,100]", ErrInput, doc.ID)
	}

	setup := make(map[string]int64, len(profiles))
	service := make(map[string]int64, len(profiles))
	for _, prof := range profiles {
		setup[prof] = costmodel.ToInternal(float64(doc.Setup))
		service[prof] = costmodel.ToInternal(float64(doc.Service))
	}

	return vrp.Job{
		ID:               strconv.FormatUint(doc.ID, 10),
		Location:         loc,
		Type:             typ,
		PickupAmount:     doc.Pickup,
		DeliveryAmount:   doc.Delivery,
		Skills:           vrp.NewSkillSet(doc.Skills...),
		Priority:         doc.Priority,
		TimeWindows:      scaleWindows(doc.TimeWindows),
		SetupByProfile:   setup,
		ServiceByProfile: service,
		PairRank:         -1,
		Description:      doc.Description,
	}, nil
}

func buildParsed(doc *InputDoc, router routing.Router) (*Parsed, error) {
	if len(doc.Vehicles) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrInput, vrp.ErrNoVehicles)
	}
	if len(doc.Jobs) == 0 && len(doc.Shipments) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrInput, vrp.ErrNoJobs)
	}

	profileSet := make(map[string]bool)
	var profiles []string
	for i := range doc.Vehicles {
		if doc.Vehicles[i].Profile == "" {
			doc.Vehicles[i].Profile = "car"
		}
		if !profileSet[doc.Vehicles[i].Profile] {
			profileSet[doc.Vehicles[i].Profile] = true
			profiles = append(profiles, doc.Vehicles[i].Profile)
		}
	}

	lr := &locationResolver{}
	out := &Parsed{Coords: make(map[int][]float64)}

	var jobs []vrp.Job
	addCoord := func(rank int, j *JobDoc) {
		if len(j.Location) == 2 {
			out.Coords[rank] = j.Location
		}
	}
	for i := range doc.Jobs {
		j, err := buildJob(&doc.Jobs[i], vrp.Single, lr, profiles)
		if err != nil {
			return nil, err
		}
		addCoord(len(jobs), &doc.Jobs[i])
		out.JobID = append(out.JobID, doc.Jobs[i].ID)
		out.Descriptions = append(out.Descriptions, doc.Jobs[i].Description)
		jobs = append(jobs, j)
	}
	for i := range doc.Shipments {
		sh := &doc.Shipments[i]
		if len(sh.Pickup.Pickup) == 0 && len(sh.Amount) > 0 {
			sh.Pickup.Pickup = sh.Amount
		}
		if len(sh.Delivery.Delivery) == 0 && len(sh.Amount) > 0 {
			sh.Delivery.Delivery = sh.Amount
		}
		if len(sh.Pickup.Skills) == 0 {
			sh.Pickup.Skills = sh.Skills
		}
		if len(sh.Delivery.Skills) == 0 {
			sh.Delivery.Skills = sh.Skills
		}
		if sh.Pickup.Priority == 0 {
			sh.Pickup.Priority = sh.Priority
		}
		if sh.Delivery.Priority == 0 {
			sh.Delivery.Priority = sh.Priority
		}

		pickup, err := buildJob(&sh.Pickup, vrp.Pickup, lr, profiles)
		if err != nil {
			return nil, err
		}
		delivery, err := buildJob(&sh.Delivery, vrp.Delivery, lr, profiles)
		if err != nil {
			return nil, err
		}
		// The delivery sits at pickup_rank + 1 in the global table.
		pickup.PairRank = len(jobs) + 1
		delivery.PairRank = len(jobs)
		if sh.MaxLifetime > 0 {
			pickup.MaxLifetime = time.Duration(sh.MaxLifetime) * time.Second
		}
		addCoord(len(jobs), &sh.Pickup)
		out.JobID = append(out.JobID, sh.Pickup.ID)
		out.Descriptions = append(out.Descriptions, sh.Pickup.Description)
		jobs = append(jobs, pickup)
		addCoord(len(jobs), &sh.Delivery)
		out.JobID = append(out.JobID, sh.Delivery.ID)
		out.Descriptions = append(out.Descriptions, sh.Delivery.Description)
		jobs = append(jobs, delivery)
	}

	vehicles := make([]vrp.Vehicle, 0, len(doc.Vehicles))
	for i := range doc.Vehicles {
		vd := &doc.Vehicles[i]
		v := vrp.Vehicle{
			ID:          strconv.FormatUint(vd.ID, 10),
			Profile:     vd.Profile,
			Capacity:    vd.Capacity,
			Skills:      vrp.NewSkillSet(vd.Skills...),
			SpeedFactor: vd.SpeedFactor,
			MaxTasks:    vd.MaxTasks,
		}
		if v.SpeedFactor == 0 {
			v.SpeedFactor = 1
		}
		if vd.MaxTravelTime > 0 {
			v.MaxTravelTime = costmodel.ToInternal(float64(vd.MaxTravelTime))
		}
		if vd.MaxDistance > 0 {
			v.MaxDistance = costmodel.ToInternal(float64(vd.MaxDistance))
		}
		if vd.Costs != nil {
			v.Costs = vrp.CostSchedule{
				Fixed:       costmodel.ToInternal(float64(vd.Costs.Fixed)),
				PerHour:     vd.Costs.PerHour / 3600,
				PerKm:       vd.Costs.PerKm / 1000,
				PerTaskHour: vd.Costs.PerTaskHour / 3600,
			}
		} else {
			// Default: one cost unit per duration unit.
			v.Costs = vrp.CostSchedule{PerHour: 1}
		}
		if vd.TimeWindow != nil {
			v.Availability = vrp.TimeWindow{
				Start: costmodel.ToInternal(float64(vd.TimeWindow[0])),
				End:   costmodel.ToInternal(float64(vd.TimeWindow[1])),
			}
		} else {
			v.Availability = vrp.TimeWindow{Start: 0, End: costmodel.ToInternal(4e9)}
		}
		if vd.StartIndex != nil || len(vd.Start) == 2 {
			loc, err := lr.resolve(vd.StartIndex, vd.Start)
			if err != nil {
				return nil, err
			}
			v.Start = &loc
		}
		if vd.EndIndex != nil || len(vd.End) == 2 {
			loc, err := lr.resolve(vd.EndIndex, vd.End)
			if err != nil {
				return nil, err
			}
			v.End = &loc
		}
		for _, bd := range vd.Breaks {
			b := vrp.Break{
				ID:          strconv.FormatUint(bd.ID, 10),
				TimeWindows: scaleWindows(bd.TimeWindows),
				Service:     costmodel.ToInternal(float64(bd.Service)),
				MaxLoad:     bd.MaxLoad,
			}
			v.Breaks = append(v.Breaks, b)
		}
		for _, step := range vd.Steps {
			if step.Type == "job" || step.Type == "pickup" || step.Type == "delivery" {
				v.Steps = append(v.Steps, strconv.FormatUint(step.ID, 10))
			}
		}
		out.VehicleID = append(out.VehicleID, vd.ID)
		vehicles = append(vehicles, v)
	}

	set, err := buildMatrices(doc, lr, profiles, router)
	if err != nil {
		return nil, err
	}

	input := &vrp.Input{Jobs: jobs, Vehicles: vehicles, ProfileOf: profileSet}
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInput, err)
	}
	if err := checkStepPrecedence(input); err != nil {
		return nil, err
	}
	if err := checkReachability(input, set); err != nil {
		return nil, err
	}
	out.Input = input
	out.Set = set

	return out, nil
}

// checkStepPrecedence rejects user-supplied initial step sequences that
// contradict shipment precedence. Both constraint families become arcs of
// one directed order graph — pickup→delivery for every shipment, and
// consecutive declared steps per vehicle — and any cycle in it means some
// declared order forces a delivery before its pickup (directly or through
// a chain of step constraints). Depth-first cycle enumeration reports the
// offending jobs.
func checkStepPrecedence(input *vrp.Input) error {
	declared := false
	for v := range input.Vehicles {
		if len(input.Vehicles[v].Steps) > 1 {
			declared = true

			break
		}
	}
	if !declared {
		return nil // nothing to contradict
	}

	idToRank := make(map[string]int, len(input.Jobs))
	for rank := range input.Jobs {
		idToRank[input.Jobs[rank].ID] = rank
	}

	g := core.NewGraph(core.WithDirected(true))
	for rank := range input.Jobs {
		_ = g.AddVertex(strconv.Itoa(rank))
	}
	seen := make(map[[2]int]bool)
	addArc := func(from, to int) error {
		if from == to || seen[[2]int{from, to}] {
			return nil // parallel order arcs carry no extra information
		}
		seen[[2]int{from, to}] = true
		if _, err := g.AddEdge(strconv.Itoa(from), strconv.Itoa(to), 0); err != nil {
			return fmt.Errorf("%w: %v", ErrInput, err)
		}

		return nil
	}
	for rank := range input.Jobs {
		if input.Jobs[rank].Type == vrp.Pickup {
			if err := addArc(rank, input.Jobs[rank].PairRank); err != nil {
				return err
			}
		}
	}
	for v := range input.Vehicles {
		steps := input.Vehicles[v].Steps
		for i := 1; i < len(steps); i++ {
			prev, okPrev := idToRank[steps[i-1]]
			next, okNext := idToRank[steps[i]]
			if !okPrev || !okNext {
				return fmt.Errorf("%w: vehicle %s declares unknown step job", ErrInput, input.Vehicles[v].ID)
			}
			if err := addArc(prev, next); err != nil {
				return err
			}
		}
	}

	hasCycle, cycles, err := dfs.DetectCycles(g)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInput, err)
	}
	if hasCycle {
		return fmt.Errorf("%w: declared vehicle steps contradict shipment precedence (job ranks %v)", ErrInput, cycles[0])
	}

	return nil
}

// buildMatrices registers explicit per-profile matrices, or asks the
// router to fill them from coordinates.
func buildMatrices(doc *InputDoc, lr *locationResolver, profiles []string, router routing.Router) (*matrices.Set, error) {
	set := matrices.NewSet()

	if len(doc.Matrices) > 0 {
		for profile, bundle := range doc.Matrices {
			dur, err := denseFrom(bundle.Durations)
			if err != nil {
				return nil, err
			}
			var dist *matrix.Dense
			if len(bundle.Distances) > 0 {
				if dist, err = denseFrom(bundle.Distances); err != nil {
					return nil, err
				}
			} else {
				// Distance defaults to the duration metric when absent.
				if dist, err = denseFrom(bundle.Durations); err != nil {
					return nil, err
				}
			}
			var cost *matrix.Dense
			if len(bundle.Costs) > 0 {
				if cost, err = denseFrom(bundle.Costs); err != nil {
					return nil, err
				}
			}
			if dur.Rows() <= lr.maxIndex {
				return nil, fmt.Errorf("%w: matrix for profile %q smaller than max location index %d", ErrInput, profile, lr.maxIndex)
			}
			if err := set.Register(profile, dur, dist, cost); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInput, err)
			}
		}

		return set, nil
	}

	if router == nil {
		return nil, fmt.Errorf("%w: no matrices declared and no router configured", ErrInput)
	}
	locations := make([]vrp.Location, len(lr.coords))
	for i, c := range lr.coords {
		locations[i] = vrp.Location{Index: i, Lon: c[0], Lat: c[1]}
	}
	m, err := router.GetMatrices(locations)
	if err != nil {
		return nil, err
	}
	for _, profile := range profiles {
		if err := set.Register(profile, m.Duration, m.Distance, nil); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInput, err)
		}
	}

	return set, nil
}

func denseFrom(rows [][]float64) (*matrix.Dense, error) {
	n := len(rows)
	m, err := matrix.NewDense(n, n)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInput, err)
	}
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: matrix row %d is not square", ErrInput, i)
		}
		for j, v := range row {
			if err := m.Set(i, j, v); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInput, err)
			}
		}
	}

	return m, nil
}

// checkReachability verifies that every job location is connected to
// every vehicle's start within that vehicle's profile matrix, walking a
// finite-edge graph breadth-first.
func checkReachability(input *vrp.Input, set *matrices.Set) error {
	for profile := range input.ProfileOf {
		prof, err := set.Profile(profile)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInput, err)
		}
		n := prof.Dim()
		g := core.NewGraph()
		for i := 0; i < n; i++ {
			_ = g.AddVertex(strconv.Itoa(i))
		}
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				if d, err := prof.DurationAt(i, j); err == nil && !isInf(d) {
					_, _ = g.AddEdge(strconv.Itoa(i), strconv.Itoa(j), 0)
				}
			}
		}

		for v := range input.Vehicles {
			if input.Vehicles[v].Profile != profile || input.Vehicles[v].Start == nil {
				continue
			}
			res, err := bfs.BFS(g, strconv.Itoa(input.Vehicles[v].Start.Index))
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInput, err)
			}
			reached := make(map[string]bool, len(res.Order))
			for _, id := range res.Order {
				reached[id] = true
			}
			for j := range input.Jobs {
				if !reached[strconv.Itoa(input.Jobs[j].Location.Index)] {
					return fmt.Errorf("%w: %v: index %d", ErrInput, vrp.ErrUnreachableLocation, input.Jobs[j].Location.Index)
				}
			}
		}
	}

	return nil
}

func isInf(v float64) bool { return v > 1e17 || v < -1e17 }
