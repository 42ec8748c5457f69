// Package vrp defines the problem's data model: jobs, shipments, vehicles,
// breaks, time windows, and the overall Input a solve call operates on.
//
// Field docs name the invariant a field carries rather than restating
// the field name.
package vrp

import (
	"errors"
	"time"

	"github.com/katalvlaran/vrpsolve/amount"
)

// Amount is re-exported here so that package vrp's public structs can name
// capacity fields without every caller importing amount directly.
type Amount = amount.Amount

// Sentinel input-error values. These are fatal
// and must be reported before any routing call.
var (
	ErrUnknownProfile      = errors.New("vrp: reference to unknown profile")
	ErrCapacityMismatch    = errors.New("vrp: capacity vector size mismatch")
	ErrInconsistentWindows = errors.New("vrp: time windows must be sorted and non-overlapping")
	ErrUnreachableLocation = errors.New("vrp: unreachable location index")
	ErrBadPickupDelivery   = errors.New("vrp: pickup/delivery amounts must be non-negative")
	ErrNoVehicles          = errors.New("vrp: input has no vehicles")
	ErrNoJobs              = errors.New("vrp: input has no jobs or shipments")
)

// JobType distinguishes a standalone task from one half of a shipment.
type JobType int

const (
	// Single is a job with no pickup/delivery pairing.
	Single JobType = iota
	// Pickup is the first half of a shipment; its matching Delivery sits
	// at PickupRank+1 in the global job table.
	Pickup
	// Delivery is the second half of a shipment.
	Delivery
)

func (t JobType) String() string {
	switch t {
	case Single:
		return "single"
	case Pickup:
		return "pickup"
	case Delivery:
		return "delivery"
	default:
		return "unknown"
	}
}

// TimeWindow is a service-start interval [Start, End] in internal
// fixed-point time units since the solve epoch; vrpio scales user-facing
// seconds on parse so every time-like quantity in the solver shares one
// unit.
type TimeWindow struct {
	Start int64
	End   int64
}

// Contains reports whether t falls within the window.
func (w TimeWindow) Contains(t int64) bool { return t >= w.Start && t <= w.End }

// Location indexes into a profile's duration/distance/cost matrices.
// Coordinates are carried only for diagnostics and geometry enrichment;
// every optimisation-path lookup uses Index.
type Location struct {
	Index int
	Lat   float64
	Lon   float64
}

// Job is an immutable task.
type Job struct {
	ID       string
	Location Location
	Type     JobType

	// PickupAmount / DeliveryAmount are the capacity deltas a vehicle
	// carries after visiting this job; exactly one is typically non-zero
	// depending on Type, except Single jobs which may carry both (a
	// same-stop swap, e.g. exchanging empty pallets for full ones).
	PickupAmount   Amount
	DeliveryAmount Amount

	Skills   SkillSet
	Priority int // 0..100

	// TimeWindows is sorted, non-overlapping.
	TimeWindows []TimeWindow

	// SetupByProfile / ServiceByProfile key by vehicle profile name,
	// since the original schema allows per-vehicle-type durations.
	SetupByProfile   map[string]int64
	ServiceByProfile map[string]int64

	// PairRank, for Pickup/Delivery jobs, is the rank of the *other* half
	// of the shipment in the global job table. -1 for Single jobs.
	PairRank int

	// MaxLifetime, if non-zero, bounds the elapsed time between a
	// pickup's service start and its matching delivery's service start.
	MaxLifetime time.Duration

	Description string
}

// Setup returns the setup duration for this job under the given profile.
func (j *Job) Setup(profile string) int64 { return j.SetupByProfile[profile] }

// Service returns the service duration for this job under the given profile.
func (j *Job) Service(profile string) int64 { return j.ServiceByProfile[profile] }

// EarliestTimeWindowEndAfter returns the end of the lexicographically
// earliest time window whose end is >= from, and ok=false if none exists.
func EarliestTimeWindowEndAfter(tws []TimeWindow, from int64) (TimeWindow, bool) {
	for _, w := range tws {
		if w.End >= from {
			return w, true
		}
	}

	return TimeWindow{}, false
}

// Break is a mandatory rest period a vehicle must schedule somewhere in
// its route.
type Break struct {
	ID          string
	TimeWindows []TimeWindow
	Service     int64
	// MaxLoad, if non-nil, caps the instantaneous vehicle load while this
	// break is in progress.
	MaxLoad Amount
}

// IsValidStart reports whether t falls within one of the break's time
// windows.
func (b Break) IsValidStart(t int64) bool {
	for _, w := range b.TimeWindows {
		if w.Contains(t) {
			return true
		}
	}

	return false
}

// CostSchedule mirrors costmodel.CostSchedule at the input boundary; kept
// as a distinct type here so vrp has no import-cycle dependency on
// costmodel (vrp is pure data, costmodel derives Wrapper from it).
type CostSchedule struct {
	Fixed       int64
	PerHour     float64
	PerKm       float64
	PerTaskHour float64
}

// Vehicle describes one unit of the fleet.
type Vehicle struct {
	ID string

	// Start / End are nil when the vehicle may start or end anywhere
	// (an "open" route); in that case the corresponding leg contributes
	// zero travel.
	Start *Location
	End   *Location

	Profile  string
	Capacity Amount
	Skills   SkillSet

	Availability TimeWindow
	Breaks       []Break

	Costs       CostSchedule
	SpeedFactor float64

	MaxTasks      int // 0 = unlimited
	MaxTravelTime int64
	MaxDistance   int64

	// Steps, if non-empty, is a user-supplied initial sequence of job IDs
	// the construction heuristic should seed this vehicle's route with
	// before running insertion.
	Steps []string
}

// SkillSet is a small bitset-like set of integer skill tags.
type SkillSet map[int]struct{}

// NewSkillSet builds a SkillSet from a list of skill ids.
func NewSkillSet(ids ...int) SkillSet {
	s := make(SkillSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}

	return s
}

// Covers reports whether s contains every skill in required (s ⊇ required).
func (s SkillSet) Covers(required SkillSet) bool {
	for id := range required {
		if _, ok := s[id]; !ok {
			return false
		}
	}

	return true
}

// Shipment is an input-level convenience pairing a Pickup and Delivery Job
// that, once flattened, occupy consecutive ranks in the global job table.
type Shipment struct {
	Pickup   Job
	Delivery Job
}

// Input is the fully-parsed, validated problem instance a solve call
// consumes.
type Input struct {
	Jobs      []Job
	Vehicles  []Vehicle
	ProfileOf map[string]bool // set of declared profile names
}

// Validate checks the structural invariants classed as fatal input
// errors: capacity-vector size consistency, non-overlapping time
// windows, and (via the reachable argument, supplied by the caller after
// matrices are known) unknown-profile references. Reachability itself is
// checked by vrpio using bfs.BFS over the profile's matrix; Validate
// only checks what is knowable from the Input alone.
func (in *Input) Validate() error {
	if len(in.Vehicles) == 0 {
		return ErrNoVehicles
	}
	if len(in.Jobs) == 0 {
		return ErrNoJobs
	}

	dim := -1
	for i := range in.Vehicles {
		v := &in.Vehicles[i]
		if !in.ProfileOf[v.Profile] {
			return ErrUnknownProfile
		}
		if dim == -1 {
			dim = len(v.Capacity)
		} else if len(v.Capacity) != dim {
			return ErrCapacityMismatch
		}
		for _, b := range v.Breaks {
			if err := validateWindows(b.TimeWindows); err != nil {
				return err
			}
		}
	}

	for i := range in.Jobs {
		j := &in.Jobs[i]
		if dim != -1 && (len(j.PickupAmount) != 0 && len(j.PickupAmount) != dim ||
			len(j.DeliveryAmount) != 0 && len(j.DeliveryAmount) != dim) {
			return ErrCapacityMismatch
		}
		if err := validateWindows(j.TimeWindows); err != nil {
			return err
		}
		if j.Type == Delivery {
			if j.PairRank < 0 || j.PairRank >= len(in.Jobs) || j.PairRank != i-1 {
				return ErrBadPickupDelivery
			}
		}
		if j.Type == Pickup {
			if j.PairRank != i+1 || j.PairRank >= len(in.Jobs) {
				return ErrBadPickupDelivery
			}
		}
	}

	return nil
}

func validateWindows(tws []TimeWindow) error {
	prevEnd := int64(-1)
	for _, w := range tws {
		if w.Start > w.End || w.Start <= prevEnd {
			return ErrInconsistentWindows
		}
		prevEnd = w.End
	}

	return nil
}
