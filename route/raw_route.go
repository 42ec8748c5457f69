// Package route implements the two route state machines the solver edits
// in place: RawRoute (capacity-only) and TWRoute (capacity + time windows +
// breaks). Both maintain amortised-O(1) feasibility predicates via cached
// forward/backward sweeps recomputed on every mutation.
//
// Sentinel errors, dense flat-slice sweeps recomputed in a single pass,
// and invariant checks run right after mutation rather than lazily on
// read.
package route

import (
	"errors"

	"github.com/katalvlaran/vrpsolve/amount"
	"github.com/katalvlaran/vrpsolve/vrp"
)

// Sentinel errors for invariant or precondition violations. These signal a
// programmer/caller bug (an operator calling Apply on an invalid move), not
// a recoverable input-data error, but are still returned rather than
// panicking since route mutation sits on the solver's hot path and callers
// (operators) are expected to check IsValid first.
var (
	ErrPositionOutOfRange = errors.New("route: position out of range")
	ErrCapacityExceeded   = errors.New("route: capacity exceeded")
	ErrBadPairing         = errors.New("route: pickup/delivery pairing broken")
)

// RawRoute is the ordered sequence of job ranks assigned to one vehicle,
// together with the cached capacity sweeps (peaks, prefix/suffix
// pickup-delivery sums, margins).
type RawRoute struct {
	jobs     []vrp.Job // shared, immutable global job table
	capacity amount.Amount

	route []int // job ranks, in visiting order

	fwdPickups    []amount.Amount // prefix sums over single jobs, len == len(route)
	fwdDeliveries []amount.Amount
	bwdPickups    []amount.Amount // suffix sums over single jobs, len == len(route)
	bwdDeliveries []amount.Amount
	pdLoads       []amount.Amount // running open-shipment load, len == len(route)
	nbPickups     []int           // prefix counts, len == len(route)
	nbDeliveries  []int

	currentLoads []amount.Amount // per step s=0..len(route)+1
	fwdPeaks     []amount.Amount
	bwdPeaks     []amount.Amount

	deliveryMargin amount.Amount
	pickupMargin   amount.Amount
}

// NewRawRoute returns an empty RawRoute for a vehicle with the given
// capacity, backed by the shared job table jobs (ranks index into it).
func NewRawRoute(jobs []vrp.Job, capacity amount.Amount) *RawRoute {
	r := &RawRoute{jobs: jobs, capacity: capacity}
	_ = r.SetRoute(nil)

	return r
}

// Jobs exposes the shared global job table this route's ranks index into.
func (r *RawRoute) Jobs() []vrp.Job { return r.jobs }

// Route returns the current sequence of job ranks. Callers must not mutate
// the returned slice.
func (r *RawRoute) Route() []int { return r.route }

// Len returns the number of jobs currently on the route.
func (r *RawRoute) Len() int { return len(r.route) }

// Capacity returns the vehicle's capacity vector.
func (r *RawRoute) Capacity() amount.Amount { return r.capacity }

// FwdPeak returns the component-wise running-max load up to and including
// step s (s in [0, Len()+1]).
func (r *RawRoute) FwdPeak(s int) amount.Amount { return r.fwdPeaks[s] }

// BwdPeak returns the component-wise running-max load from step s onward.
func (r *RawRoute) BwdPeak(s int) amount.Amount { return r.bwdPeaks[s] }

// CurrentLoad returns the vehicle load at step s.
func (r *RawRoute) CurrentLoad(s int) amount.Amount { return r.currentLoads[s] }

// DeliveryMargin returns capacity minus the whole-route single-job
// delivery sum.
func (r *RawRoute) DeliveryMargin() amount.Amount { return r.deliveryMargin }

// PickupMargin returns capacity minus the whole-route single-job pickup
// sum.
func (r *RawRoute) PickupMargin() amount.Amount { return r.pickupMargin }

func zeroAt(dim int) amount.Amount { return amount.Zero(dim) }

// SetRoute replaces the route contents and recomputes every sweep from
// scratch. Complexity: O(|seq|).
func (r *RawRoute) SetRoute(seq []int) error {
	n := len(seq)
	dim := len(r.capacity)

	route := make([]int, n)
	copy(route, seq)

	fwdP := make([]amount.Amount, n)
	fwdD := make([]amount.Amount, n)
	bwdP := make([]amount.Amount, n)
	bwdD := make([]amount.Amount, n)
	pd := make([]amount.Amount, n)
	nbP := make([]int, n)
	nbD := make([]int, n)

	runningP := zeroAt(dim)
	runningD := zeroAt(dim)
	runningPD := zeroAt(dim)
	cntP, cntD := 0, 0

	for i, rank := range route {
		j := &r.jobs[rank]
		switch j.Type {
		case vrp.Single:
			runningP = amount.Add(runningP, padded(j.PickupAmount, dim))
			runningD = amount.Add(runningD, padded(j.DeliveryAmount, dim))
		case vrp.Pickup:
			runningPD = amount.Add(runningPD, padded(j.PickupAmount, dim))
			cntP++
		case vrp.Delivery:
			runningPD = amount.Sub(runningPD, padded(j.DeliveryAmount, dim))
			cntD++
		}
		fwdP[i] = runningP.Clone()
		fwdD[i] = runningD.Clone()
		pd[i] = runningPD.Clone()
		nbP[i] = cntP
		nbD[i] = cntD
	}

	runningP = zeroAt(dim)
	runningD = zeroAt(dim)
	for i := n - 1; i >= 0; i-- {
		j := &r.jobs[route[i]]
		if j.Type == vrp.Single {
			runningP = amount.Add(runningP, padded(j.PickupAmount, dim))
			runningD = amount.Add(runningD, padded(j.DeliveryAmount, dim))
		}
		bwdP[i] = runningP.Clone()
		bwdD[i] = runningD.Clone()
	}

	r.route = route
	r.fwdPickups, r.fwdDeliveries = fwdP, fwdD
	r.bwdPickups, r.bwdDeliveries = bwdP, bwdD
	r.pdLoads = pd
	r.nbPickups, r.nbDeliveries = nbP, nbD

	r.recomputeLoadsAndPeaks(dim)

	if n > 0 {
		r.deliveryMargin = amount.Sub(r.capacity, fwdD[n-1])
		r.pickupMargin = amount.Sub(r.capacity, fwdP[n-1])
	} else {
		r.deliveryMargin = r.capacity.Clone()
		r.pickupMargin = r.capacity.Clone()
	}

	return r.checkInvariants()
}

func padded(a amount.Amount, dim int) amount.Amount {
	if len(a) == dim {
		return a
	}
	out := amount.Zero(dim)
	copy(out, a)

	return out
}

func (r *RawRoute) fwdPickupsAt(i, dim int) amount.Amount {
	n := len(r.fwdPickups)
	if n == 0 || i < 0 {
		return zeroAt(dim)
	}
	if i >= n {
		i = n - 1
	}

	return r.fwdPickups[i]
}

func (r *RawRoute) pdLoadsAt(i, dim int) amount.Amount {
	n := len(r.pdLoads)
	if n == 0 || i < 0 {
		return zeroAt(dim)
	}
	if i >= n {
		i = n - 1
	}

	return r.pdLoads[i]
}

func (r *RawRoute) bwdDeliveriesAt(i, dim int) amount.Amount {
	n := len(r.bwdDeliveries)
	if n == 0 {
		return zeroAt(dim)
	}
	if i < 0 {
		i = 0
	}
	if i >= n {
		return zeroAt(dim)
	}

	return r.bwdDeliveries[i]
}

// recomputeLoadsAndPeaks derives current_loads / fwd_peaks / bwd_peaks for
// steps s=0..n+1 from the sweeps already populated:
//
//	current_loads[s] = fwd_pickups[s-1] + pd_loads[s-1] + bwd_deliveries[s-1]
func (r *RawRoute) recomputeLoadsAndPeaks(dim int) {
	n := len(r.route)
	steps := n + 2
	loads := make([]amount.Amount, steps)
	for s := 0; s < steps; s++ {
		loads[s] = amount.Add(
			amount.Add(r.fwdPickupsAt(s-1, dim), r.pdLoadsAt(s-1, dim)),
			r.bwdDeliveriesAt(s-1, dim),
		)
	}

	fwdPeaks := make([]amount.Amount, steps)
	bwdPeaks := make([]amount.Amount, steps)
	fwdPeaks[0] = loads[0]
	for s := 1; s < steps; s++ {
		fwdPeaks[s] = amount.Max(fwdPeaks[s-1], loads[s])
	}
	bwdPeaks[steps-1] = loads[steps-1]
	for s := steps - 2; s >= 0; s-- {
		bwdPeaks[s] = amount.Max(bwdPeaks[s+1], loads[s])
	}

	r.currentLoads = loads
	r.fwdPeaks = fwdPeaks
	r.bwdPeaks = bwdPeaks
}

// checkInvariants asserts the prefix-count, zero-tail and capacity
// invariants (the fourth, the
// well-nested pickup/delivery pairing, is checked by Add/Remove/Replace
// callers via ErrBadPairing since it depends on global job ranks rather
// than route-local state).
func (r *RawRoute) checkInvariants() error {
	n := len(r.route)
	for i := 0; i < n; i++ {
		if r.nbDeliveries[i] > r.nbPickups[i] {
			return ErrBadPairing
		}
	}
	if n > 0 && !r.pdLoads[n-1].IsZero() {
		return ErrBadPairing
	}
	for s := range r.currentLoads {
		if !r.currentLoads[s].LessEq(r.capacity) {
			return ErrCapacityExceeded
		}
	}

	return nil
}

// Add inserts job rank jobRank at position pos in [0, Len()].
// Complexity: O(|route|) (full sweep rebuild).
func (r *RawRoute) Add(jobRank, pos int) error {
	if pos < 0 || pos > len(r.route) {
		return ErrPositionOutOfRange
	}
	seq := make([]int, 0, len(r.route)+1)
	seq = append(seq, r.route[:pos]...)
	seq = append(seq, jobRank)
	seq = append(seq, r.route[pos:]...)

	return r.SetRoute(seq)
}

// Remove deletes the contiguous span [pos, pos+count) from the route.
// Complexity: O(|route|).
func (r *RawRoute) Remove(pos, count int) error {
	if pos < 0 || count < 0 || pos+count > len(r.route) {
		return ErrPositionOutOfRange
	}
	seq := make([]int, 0, len(r.route)-count)
	seq = append(seq, r.route[:pos]...)
	seq = append(seq, r.route[pos+count:]...)

	return r.SetRoute(seq)
}

// Replace splices jobRanks in place of the sub-route [firstPos, lastPos).
// Complexity: O(|route|).
func (r *RawRoute) Replace(jobRanks []int, firstPos, lastPos int) error {
	if firstPos < 0 || lastPos < firstPos || lastPos > len(r.route) {
		return ErrPositionOutOfRange
	}
	seq := make([]int, 0, len(r.route)-(lastPos-firstPos)+len(jobRanks))
	seq = append(seq, r.route[:firstPos]...)
	seq = append(seq, jobRanks...)
	seq = append(seq, r.route[lastPos:]...)

	return r.SetRoute(seq)
}

// IsValidAdditionForCapacity reports whether inserting a single job with
// the given pickup/delivery amounts at position pos keeps every load
// within capacity, in O(1) using the cached peak sweeps.
func (r *RawRoute) IsValidAdditionForCapacity(pickup, delivery amount.Amount, pos int) bool {
	dim := len(r.capacity)
	pickup, delivery = padded(pickup, dim), padded(delivery, dim)

	return amount.Add(r.fwdPeaks[pos], delivery).LessEq(r.capacity) &&
		amount.Add(r.bwdPeaks[pos], pickup).LessEq(r.capacity)
}

// IsValidAdditionForCapacityMargins checks that splicing a single
// single-job in place of the open range [first, last) keeps peaks under
// capacity, reusing the already-computed peaks adjusted for the replaced
// range's boundary.
func (r *RawRoute) IsValidAdditionForCapacityMargins(pickup, delivery amount.Amount, first, last int) bool {
	dim := len(r.capacity)
	pickup, delivery = padded(pickup, dim), padded(delivery, dim)

	return amount.Add(r.fwdPeaks[first], delivery).LessEq(r.capacity) &&
		amount.Add(r.bwdPeaks[last], pickup).LessEq(r.capacity)
}

// InsertedJob is a minimal view of one element of a candidate inserted
// sequence, used by IsValidAdditionForCapacityInclusion so the walk works
// uniformly over forward, reverse, or short in-place slices.
type InsertedJob struct {
	Rank     int
	Pickup   amount.Amount
	Delivery amount.Amount
}

// IsValidAdditionForCapacityInclusion walks an inserted sequence of single
// jobs, maintaining the running load via += pickup - delivery, and returns
// false at the first capacity violation. deliveryFromRest
// is the delivery load still pending after the inserted sequence (the
// suffix's bwd_deliveries), since those jobs' amounts are already aboard.
// Complexity: O(len(seq)).
func (r *RawRoute) IsValidAdditionForCapacityInclusion(seq []InsertedJob, first, last int) bool {
	dim := len(r.capacity)
	load := r.currentLoads[first].Clone()
	rest := r.bwdDeliveriesAt(last, dim)
	for _, job := range seq {
		load = amount.Add(load, padded(job.Pickup, dim))
		load = amount.Sub(load, padded(job.Delivery, dim))
		if !amount.Add(load, rest).LessEq(r.capacity) {
			return false
		}
	}

	return true
}
