package route

import "github.com/katalvlaran/vrpsolve/amount"

// Route is the capability bundle operators are generic over. RawRoute implements it
// with IsValidAdditionForTW always returning true; TWRoute overrides with
// the real propagation-based check.
type Route interface {
	Len() int
	RouteRanks() []int
	Capacity() amount.Amount
	IsValidAdditionForCapacity(pickup, delivery amount.Amount, pos int) bool
	IsValidAdditionForTW(delivery amount.Amount, seq []InsertedJob, firstPos, lastPos int, checkMaxLoad bool) bool
	Add(jobRank, pos int) error
	Remove(pos, count int) error
	Replace(jobRanks []int, firstPos, lastPos int) error
}

// RouteRanks adapts RawRoute.Route to the Route interface's naming (Route
// is also the package name, so the interface method is named RouteRanks to
// avoid shadowing at call sites like r.Route().Route()).
func (r *RawRoute) RouteRanks() []int { return r.route }

// IsValidAdditionForTW is trivially true for a capacity-only RawRoute: it
// carries no time-window state, so every insertion that passes the
// capacity check is time-feasible by construction.
func (r *RawRoute) IsValidAdditionForTW(amount.Amount, []InsertedJob, int, int, bool) bool {
	return true
}

var (
	_ Route = (*RawRoute)(nil)
	_ Route = (*TWRoute)(nil)
)
