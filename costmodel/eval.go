// Package costmodel implements the solver's internal fixed-point cost
// scalar, the Eval/Gain tuples used to rank moves and solutions, and the
// per-vehicle CostWrapper that turns raw matrix lookups into comparable
// Eval deltas.
//
// Design mirrors the tsp package: sentinel errors only, a single
// stabilization constant applied at the boundary between internal
// fixed-point arithmetic and user-facing float64 output, and no hidden
// allocations in the hot comparison path.
package costmodel

import "errors"

// ErrNegativeSpeedFactor indicates a vehicle speed factor <= 0, which would
// make scaled durations meaningless (division by a non-positive number).
var ErrNegativeSpeedFactor = errors.New("costmodel: speed factor must be > 0")

// scale converts user-facing float64 seconds/meters/currency into the
// solver's internal fixed-point units. 1e3 keeps millisecond/milli-unit
// resolution while staying well within int64 range for realistic VRP
// instances (durations/distances bounded by ~1e6 before scaling).
const scale = 1000

// ToInternal scales a user-facing unit (seconds, meters, or currency) into
// the solver's internal fixed-point representation.
// Complexity: O(1).
func ToInternal(userUnits float64) int64 {
	return int64(userUnits*scale + 0.5)
}

// ToUser rescales an internal fixed-point value back to user-facing units.
// Complexity: O(1).
func ToUser(internal int64) float64 {
	return float64(internal) / scale
}

// Eval is the solver's comparable cost tuple: (Cost, Duration, Distance,
// TaskDuration), all in internal fixed-point units. Comparisons used by
// the local-search driver and the solution indicator only ever look at
// Cost; Duration/Distance/TaskDuration are carried through for reporting
// and for the solution-indicator's secondary tie-break keys.
type Eval struct {
	Cost         int64
	Duration     int64
	Distance     int64
	TaskDuration int64
}

// Add returns the pointwise sum of two Evals (used when summing edge costs
// along a route, or route Evals into a solution-wide Eval).
// Complexity: O(1).
func (e Eval) Add(o Eval) Eval {
	return Eval{
		Cost:         e.Cost + o.Cost,
		Duration:     e.Duration + o.Duration,
		Distance:     e.Distance + o.Distance,
		TaskDuration: e.TaskDuration + o.TaskDuration,
	}
}

// Sub returns the pointwise difference e - o.
// Complexity: O(1).
func (e Eval) Sub(o Eval) Eval {
	return Eval{
		Cost:         e.Cost - o.Cost,
		Duration:     e.Duration - o.Duration,
		Distance:     e.Distance - o.Distance,
		TaskDuration: e.TaskDuration - o.TaskDuration,
	}
}

// Less reports whether e is strictly cheaper than o by Cost alone — the
// comparison every local-search gain check and insertion-score comparison
// uses (GLOSSARY "Gain": positive means "apply this").
// Complexity: O(1).
func (e Eval) Less(o Eval) bool {
	return e.Cost < o.Cost
}

// Gain is the cost delta of a candidate move: old Eval minus new Eval.
// A positive Gain.Cost means applying the move improves the solution
// (GLOSSARY "Gain").
type Gain struct {
	Cost         int64
	Duration     int64
	Distance     int64
	TaskDuration int64
}

// GainOf computes the Gain of replacing oldEval with newEval.
// Complexity: O(1).
func GainOf(oldEval, newEval Eval) Gain {
	d := oldEval.Sub(newEval)

	return Gain{Cost: d.Cost, Duration: d.Duration, Distance: d.Distance, TaskDuration: d.TaskDuration}
}

// Improves reports whether this Gain represents a strict improvement.
// Complexity: O(1).
func (g Gain) Improves() bool {
	return g.Cost > 0
}
