// Package tspsolve declares the single-method interface through which the
// local-search operators RouteFix/TSPFix hand one route to an exact
// symmetric-TSP refinement, plus the default implementation backed by the
// tsp package's Christofides + 2-opt pipeline.
package tspsolve

import (
	"errors"
	"time"

	"github.com/katalvlaran/vrpsolve/matrix"
	"github.com/katalvlaran/vrpsolve/tsp"
)

// ErrEmptyRoute is returned when a solve is requested over fewer than two
// locations; there is nothing to reorder.
var ErrEmptyRoute = errors.New("tspsolve: route too short to refine")

// Solver re-solves a single route as a TSP. dist is a square matrix over
// the route's own local indices (0 = start, then one index per job, and,
// if the vehicle has a distinct end, the last index = end). start and end
// are local indices; deadline bounds wall-clock time. The returned slice
// is the visiting order of the interior indices (excluding start/end).
type Solver interface {
	Solve(dist *matrix.Dense, start, end int, deadline time.Time) ([]int, error)
}

// Christofides is the default in-process Solver, a thin adapter over the
// tsp package's dispatcher: Christofides construction with a 2-opt
// post-pass, exactly as tsp.SolveWithMatrix composes them.
type Christofides struct{}

// Solve implements Solver.
//
// Open routes (start != end) are handled by the standard closed-tour
// reduction: solve the cycle through all points, then rotate so the tour
// starts at start, and emit the interior order. That keeps the adapter a
// pure consumer of the symmetric solver the operators' contract names.
func (Christofides) Solve(dist *matrix.Dense, start, end int, deadline time.Time) ([]int, error) {
	n := dist.Rows()
	if n < 3 {
		return nil, ErrEmptyRoute
	}

	opts := tsp.DefaultOptions()
	opts.StartVertex = start
	opts.EnableLocalSearch = true
	if !deadline.IsZero() {
		if left := time.Until(deadline); left > 0 {
			opts.TimeLimit = left
		}
	}

	res, err := tsp.SolveWithMatrix(dist, nil, opts)
	if err != nil {
		return nil, err
	}

	// res.Tour is a closed cycle [start, ..., start]; emit the interior
	// order, dropping the end index when the route is open.
	order := make([]int, 0, n-1)
	for _, idx := range res.Tour[1 : len(res.Tour)-1] {
		if idx == end && end != start {
			continue
		}
		order = append(order, idx)
	}

	return order, nil
}

var _ Solver = Christofides{}
