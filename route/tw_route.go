package route

import (
	"errors"
	"math"

	"github.com/katalvlaran/vrpsolve/amount"
	"github.com/katalvlaran/vrpsolve/costmodel"
	"github.com/katalvlaran/vrpsolve/vrp"
)

// ErrTimeWindowInfeasible is returned when propagating earliest/latest
// bounds finds no feasible time window for a job or break.
var ErrTimeWindowInfeasible = errors.New("route: no feasible time window")

// ErrCargoExpired is returned when a pickup with a MaxLifetime constraint
// cannot reach its matching delivery within that lifetime.
var ErrCargoExpired = errors.New("route: cargo lifetime exceeded")

// ErrBreakOverload is returned when a break with a MaxLoad cap would be
// taken while the vehicle carries more than that cap.
var ErrBreakOverload = errors.New("route: break max_load exceeded")

// TravelFunc returns the travel duration between two location indices,
// already scaled by the vehicle's speed factor (costmodel.Wrapper does
// that scaling upstream; TWRoute only ever calls this closure).
type TravelFunc func(fromLocation, toLocation int) int64

// PreviousInfo carries the state threaded through a forward simulation
// walk: the earliest time achieved so far, the location it was achieved
// at, and (for IsValidAdditionForTW) the travel still owed to the next
// point.
type PreviousInfo struct {
	Earliest int64
	Travel   int64
	Location int
}

// breakOrder is the decision produced by the order-choice policy at a
// break/task pair.
type breakOrder int

const (
	taskFirst breakOrder = iota
	breakFirstOrder
)

// TWRoute extends RawRoute with earliest/latest feasible service-start
// bounds, an interleaved break schedule, and break load-margin sweeps.
type TWRoute struct {
	raw     *RawRoute
	jobs    []vrp.Job
	vehicle *vrp.Vehicle
	travel  TravelFunc

	earliest   []int64
	latest     []int64
	actionTime []int64

	// breaksAtRank[i] counts breaks scheduled immediately before the job
	// at rank i; breaksCounts is its prefix sum; trailingBreaks counts
	// breaks scheduled after the last job.
	breaksAtRank   []int
	breaksCounts   []int
	trailingBreaks int

	// breakEarliest/breakLatest are flattened per scheduled break slot,
	// in route order.
	breakEarliest []int64
	breakLatest   []int64
	breakLoads    []amount.Amount // instantaneous load when break k starts

	// fwdSmallestBreaksLoadMargin[k] / bwd... are the component-wise min
	// of (break.MaxLoad - currentLoad) across all breaks up to/after k.
	fwdBreakMargin []amount.Amount
	bwdBreakMargin []amount.Amount
}

// NewTWRoute builds an empty TWRoute for vehicle, backed by the shared job
// table jobs and a travel-duration lookup.
func NewTWRoute(jobs []vrp.Job, vehicle *vrp.Vehicle, travel TravelFunc) *TWRoute {
	t := &TWRoute{
		raw:     NewRawRoute(jobs, vehicle.Capacity),
		jobs:    jobs,
		vehicle: vehicle,
		travel:  travel,
	}
	_ = t.SetRoute(nil)

	return t
}

// Raw exposes the underlying capacity-only RawRoute (used by operators
// that only need capacity sweeps).
func (t *TWRoute) Raw() *RawRoute { return t.raw }

func (t *TWRoute) Len() int                   { return t.raw.Len() }
func (t *TWRoute) RouteRanks() []int          { return t.raw.Route() }
func (t *TWRoute) Capacity() amount.Amount    { return t.raw.Capacity() }
func (t *TWRoute) Earliest(i int) int64       { return t.earliest[i] }
func (t *TWRoute) Latest(i int) int64         { return t.latest[i] }
func (t *TWRoute) ActionTime(i int) int64     { return t.actionTime[i] }
func (t *TWRoute) BreaksBeforeRank(i int) int { return t.breaksAtRank[i] }

func (t *TWRoute) IsValidAdditionForCapacity(pickup, delivery amount.Amount, pos int) bool {
	return t.raw.IsValidAdditionForCapacity(pickup, delivery, pos)
}

func (t *TWRoute) Add(jobRank, pos int) error {
	seq := insertAt(t.raw.Route(), jobRank, pos)

	return t.SetRoute(seq)
}

func (t *TWRoute) Remove(pos, count int) error {
	seq := removeSpan(t.raw.Route(), pos, count)

	return t.SetRoute(seq)
}

func (t *TWRoute) Replace(jobRanks []int, firstPos, lastPos int) error {
	seq := spliceAt(t.raw.Route(), jobRanks, firstPos, lastPos)

	return t.SetRoute(seq)
}

func insertAt(route []int, v, pos int) []int {
	out := make([]int, 0, len(route)+1)
	out = append(out, route[:pos]...)
	out = append(out, v)
	out = append(out, route[pos:]...)

	return out
}

func removeSpan(route []int, pos, count int) []int {
	out := make([]int, 0, len(route)-count)
	out = append(out, route[:pos]...)
	out = append(out, route[pos+count:]...)

	return out
}

func spliceAt(route []int, repl []int, first, last int) []int {
	out := make([]int, 0, len(route)-(last-first)+len(repl))
	out = append(out, route[:first]...)
	out = append(out, repl...)
	out = append(out, route[last:]...)

	return out
}

// SetRoute replaces the route contents, recomputes RawRoute's capacity
// sweeps, schedules breaks into the new sequence, and propagates
// earliest/latest bounds end to end.
func (t *TWRoute) SetRoute(seq []int) error {
	if err := t.raw.SetRoute(seq); err != nil {
		return err
	}

	return t.propagate(seq)
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}

	return b
}

// decideOrder implements the order-choice policy at a break / task pair:
// the pair order minimising the pair's completion time wins, refined by:
//  1. if either order alone is infeasible, pick the feasible one;
//  2. on ties, prefer the task first — except for deliveries, whose wide
//     windows may otherwise induce unbounded wait between zero-load
//     breaks.
func decideOrder(job *vrp.Job, breakFeasible, taskFirstFeasible bool, breakFirstDone, taskFirstDone int64) breakOrder {
	if !breakFeasible {
		return taskFirst
	}
	if !taskFirstFeasible {
		return breakFirstOrder
	}
	if breakFirstDone < taskFirstDone {
		return breakFirstOrder
	}
	if taskFirstDone < breakFirstDone {
		return taskFirst
	}
	if job.Type == vrp.Delivery {
		return breakFirstOrder
	}

	return taskFirst
}

// propagate runs the forward sweep computing earliest[], actionTime[], and
// the break schedule, then the backward sweep computing latest[] and the
// break-load-margin sweeps.
func (t *TWRoute) propagate(seq []int) error {
	n := len(seq)
	t.earliest = make([]int64, n)
	t.latest = make([]int64, n)
	t.actionTime = make([]int64, n)
	t.breaksAtRank = make([]int, n)
	t.breaksCounts = make([]int, n)
	t.trailingBreaks = 0

	profile := t.vehicle.Profile
	pending := make([]*vrp.Break, len(t.vehicle.Breaks))
	for i := range t.vehicle.Breaks {
		pending[i] = &t.vehicle.Breaks[i]
	}

	cur := PreviousInfo{Earliest: t.vehicle.Availability.Start}
	if t.vehicle.Start != nil {
		cur.Location = t.vehicle.Start.Index
	} else if n > 0 {
		cur.Location = t.jobs[seq[0]].Location.Index
	}

	var breakEarliest, breakLatest []int64
	var breakLoads []amount.Amount
	dim := len(t.vehicle.Capacity)

	// Initial load: single-job deliveries ride from the start; shipment
	// loads only enter at their pickup.
	load := amount.Zero(dim)
	for _, rank := range seq {
		if t.jobs[rank].Type == vrp.Single {
			load = amount.Add(load, padded(t.jobs[rank].DeliveryAmount, dim))
		}
	}

	scheduleCount := 0
	for i, rank := range seq {
		job := &t.jobs[rank]

		travelTime := int64(0)
		if i > 0 || t.vehicle.Start != nil {
			travelTime = t.travel(cur.Location, job.Location.Index)
		}
		setup := int64(0)
		if cur.Location != job.Location.Index {
			setup = job.Setup(profile)
		}
		action := job.Service(profile) + setup

		// completeTask simulates serving this job starting the leg at
		// the given time; a break taken first happens at the current
		// location, so travel and setup are unchanged either way.
		completeTask := func(from int64) (int64, bool) {
			arrival := from + travelTime
			tw, ok := vrp.EarliestTimeWindowEndAfter(job.TimeWindows, arrival)
			if !ok {
				return 0, false
			}

			return max64(arrival, tw.Start) + action, true
		}

		for len(pending) > 0 {
			b := pending[0]
			bw, breakFeasible := vrp.EarliestTimeWindowEndAfter(b.TimeWindows, cur.Earliest)

			breakFirstDone := int64(math.MaxInt64)
			if breakFeasible {
				if done, ok := completeTask(max64(cur.Earliest, bw.Start) + b.Service); ok {
					breakFirstDone = done
				}
			}
			taskDone, taskOK := completeTask(cur.Earliest)
			taskFirstFeasible := false
			taskFirstDone := int64(math.MaxInt64)
			if taskOK {
				if w2, ok2 := vrp.EarliestTimeWindowEndAfter(b.TimeWindows, taskDone); ok2 {
					taskFirstFeasible = true
					taskFirstDone = max64(taskDone, w2.Start) + b.Service
				}
			}
			if !breakFeasible && !taskOK {
				return ErrTimeWindowInfeasible
			}
			order := decideOrder(job, breakFeasible, taskFirstFeasible, breakFirstDone, taskFirstDone)
			if order != breakFirstOrder {
				break
			}
			start := max64(cur.Earliest, bw.Start)
			if start > bw.End {
				return ErrTimeWindowInfeasible
			}
			breakEarliest = append(breakEarliest, start)
			breakLatest = append(breakLatest, 0) // filled in backward pass
			breakLoads = append(breakLoads, load.Clone())
			cur.Earliest = start + b.Service
			t.breaksAtRank[i]++
			scheduleCount++
			pending = pending[1:]
		}

		arrival := cur.Earliest + travelTime
		tw, ok := vrp.EarliestTimeWindowEndAfter(job.TimeWindows, arrival)
		if !ok {
			return ErrTimeWindowInfeasible
		}
		start := max64(arrival, tw.Start)

		t.earliest[i] = start
		t.actionTime[i] = action
		cur.Earliest = start + action
		cur.Location = job.Location.Index

		switch job.Type {
		case vrp.Pickup:
			load = amount.Add(load, padded(job.PickupAmount, dim))
		case vrp.Delivery:
			load = amount.Sub(load, padded(job.DeliveryAmount, dim))
		case vrp.Single:
			load = amount.Sub(load, padded(job.DeliveryAmount, dim))
			load = amount.Add(load, padded(job.PickupAmount, dim))
		}

		t.breaksCounts[i] = scheduleCount
	}

	for _, b := range pending {
		bw, ok := vrp.EarliestTimeWindowEndAfter(b.TimeWindows, cur.Earliest)
		if !ok {
			return ErrTimeWindowInfeasible
		}
		start := max64(cur.Earliest, bw.Start)
		if start > bw.End {
			return ErrTimeWindowInfeasible
		}
		breakEarliest = append(breakEarliest, start)
		breakLatest = append(breakLatest, 0)
		breakLoads = append(breakLoads, load.Clone())
		cur.Earliest = start + b.Service
		t.trailingBreaks++
		scheduleCount++
	}
	if n > 0 {
		t.breaksCounts[n-1] = scheduleCount
	}

	if t.vehicle.End != nil {
		finalTravel := int64(0)
		if n > 0 {
			finalTravel = t.travel(cur.Location, t.vehicle.End.Index)
		}
		if cur.Earliest+finalTravel > t.vehicle.Availability.End {
			return ErrTimeWindowInfeasible
		}
	} else if cur.Earliest > t.vehicle.Availability.End {
		return ErrTimeWindowInfeasible
	}

	t.breakEarliest = breakEarliest
	t.breakLatest = breakLatest
	t.breakLoads = breakLoads

	if err := t.checkCargoLifetimes(seq); err != nil {
		return err
	}

	return t.propagateBackward(seq, dim)
}

// checkCargoLifetimes enforces the optional per-shipment constraint that a
// delivery be served within the pickup's MaxLifetime of the pickup's own
// service start. Only shipments that declare the constraint pay the scan.
func (t *TWRoute) checkCargoLifetimes(seq []int) error {
	var posOf map[int]int
	for i, rank := range seq {
		job := &t.jobs[rank]
		if job.Type != vrp.Pickup || job.MaxLifetime <= 0 {
			continue
		}
		if posOf == nil {
			posOf = make(map[int]int, len(seq))
			for q, r := range seq {
				posOf[r] = q
			}
		}
		q, ok := posOf[job.PairRank]
		if !ok {
			continue // pairing errors are RawRoute's to report
		}
		if t.earliest[q]-t.earliest[i] > costmodel.ToInternal(job.MaxLifetime.Seconds()) {
			return ErrCargoExpired
		}
	}

	return nil
}

// propagateBackward computes latest[] and break-load-margin sweeps by
// walking the route from the end, mirroring the forward pass with window
// End constraints instead of Start constraints.
func (t *TWRoute) propagateBackward(seq []int, dim int) error {
	n := len(seq)

	curLatest := t.vehicle.Availability.End
	curLocation := 0
	if t.vehicle.End != nil {
		curLocation = t.vehicle.End.Index
	} else if n > 0 {
		curLocation = t.jobs[seq[n-1]].Location.Index
	}

	// Walk breaks scheduled after the last job backward first.
	breakIdx := len(t.breakEarliest) - 1
	for k := 0; k < t.trailingBreaks && breakIdx >= 0; k++ {
		b := t.vehicle.Breaks[breakIdx]
		latest := latestEndWithin(b.TimeWindows, curLatest)
		t.breakLatest[breakIdx] = latest
		curLatest = latest - b.Service
		breakIdx--
	}

	for i := n - 1; i >= 0; i-- {
		job := &t.jobs[seq[i]]
		travelTime := int64(0)
		if i < n-1 || t.vehicle.End != nil {
			travelTime = t.travel(job.Location.Index, curLocation)
		}
		latestArrival := curLatest - t.actionTime[i] - travelTime
		latest := latestEndWithin(job.TimeWindows, latestArrival)
		if latest < t.earliest[i] {
			return ErrTimeWindowInfeasible
		}
		t.latest[i] = latest
		curLatest = latest
		curLocation = job.Location.Index

		// Breaks immediately before rank i: breaksAtRank[i] many, ending
		// at breakIdx.
		count := t.breaksAtRank[i]
		for k := 0; k < count && breakIdx >= 0; k++ {
			b := t.vehicle.Breaks[breakIdx]
			l := latestEndWithin(b.TimeWindows, curLatest)
			t.breakLatest[breakIdx] = l
			curLatest = l - b.Service
			breakIdx--
		}
	}

	t.computeBreakMargins(dim)

	for i := range t.vehicle.Breaks {
		b := &t.vehicle.Breaks[i]
		if b.MaxLoad == nil || i >= len(t.breakLoads) {
			continue
		}
		if !t.breakLoads[i].LessEq(padded(b.MaxLoad, dim)) {
			return ErrBreakOverload
		}
	}

	return nil
}

// latestEndWithin returns the latest service-start time <= bound that
// falls in one of tws; falls back to bound if no window matches (callers
// already validated forward feasibility, so this only tightens the bound).
func latestEndWithin(tws []vrp.TimeWindow, bound int64) int64 {
	best := bound
	found := false
	for _, w := range tws {
		if w.Start > bound {
			continue
		}
		end := w.End
		if end > bound {
			end = bound
		}
		if !found || end > best {
			best = end
			found = true
		}
	}
	if !found {
		return bound
	}

	return best
}

// computeBreakMargins derives fwd/bwd component-wise min of
// (break.MaxLoad - currentLoad) sweeps.
func (t *TWRoute) computeBreakMargins(dim int) {
	k := len(t.breakLoads)
	t.fwdBreakMargin = make([]amount.Amount, k)
	t.bwdBreakMargin = make([]amount.Amount, k)
	if k == 0 {
		return
	}

	margin := func(i int) amount.Amount {
		b := t.vehicle.Breaks[i]
		if b.MaxLoad == nil {
			return amount.Zero(dim) // no cap declared: treat as always-satisfied (zero slack tracked separately)
		}

		return amount.Sub(padded(b.MaxLoad, dim), t.breakLoads[i])
	}

	running := margin(0)
	t.fwdBreakMargin[0] = running
	for i := 1; i < k; i++ {
		running = amount.Min(running, margin(i))
		t.fwdBreakMargin[i] = running
	}
	running = margin(k - 1)
	t.bwdBreakMargin[k-1] = running
	for i := k - 2; i >= 0; i-- {
		running = amount.Min(running, margin(i))
		t.bwdBreakMargin[i] = running
	}
}

// IsValidAdditionForTW simulates splicing jobRanks (reified as seq, for
// the capacity-margin walk only) in place of [firstPos, lastPos) without
// mutating state, verifying the resulting earliest/latest chain stays
// feasible end to end. This is the authoritative — if more
// expensive — feasibility check used by cross-route operators; intra-route
// operators that only shift a contiguous span may use the cheaper
// peak-based RawRoute checks first and fall back to this for the final
// verdict.
func (t *TWRoute) IsValidAdditionForTW(delivery amount.Amount, seq []InsertedJob, firstPos, lastPos int, checkMaxLoad bool) bool {
	ranks := make([]int, 0, len(seq))
	for _, j := range seq {
		ranks = append(ranks, j.Rank)
	}
	scratch := t.scratchClone()
	if scratch.SetRoute(spliceAt(t.raw.Route(), ranks, firstPos, lastPos)) != nil {
		return false
	}
	if !checkMaxLoad {
		return true
	}
	for _, m := range scratch.fwdBreakMargin {
		if !amount.Zero(len(m)).LessEq(m) {
			return false
		}
	}

	return true
}

// scratchClone returns a fresh TWRoute sharing the same job table, vehicle
// and travel lookup, used to simulate a candidate splice without mutating
// the receiver.
func (t *TWRoute) scratchClone() *TWRoute {
	return &TWRoute{jobs: t.jobs, vehicle: t.vehicle, travel: t.travel, raw: NewRawRoute(t.jobs, t.vehicle.Capacity)}
}

// TrySetRoute simulates SetRoute(seq) on a scratch copy and reports
// whether it would succeed, without mutating the receiver. Operators use
// this as the exact (if O(|route|)) feasibility oracle before Apply.
func (t *TWRoute) TrySetRoute(seq []int) bool {
	return t.scratchClone().SetRoute(seq) == nil
}
