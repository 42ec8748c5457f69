// Package routing declares the wrapper interface through which the solver
// obtains travel-time and travel-distance matrices, plus two concrete
// implementations: an in-memory router serving caller-supplied matrices
// (the usual path when the input declares explicit matrices) and a
// graph-backed router deriving matrices from a weighted core.Graph via
// single-source shortest paths.
//
// HTTPWrapper additionally speaks to an OSRM-compatible daemon over plain
// HTTP for deployments that route against a live road network.
package routing

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/katalvlaran/vrpsolve/core"
	"github.com/katalvlaran/vrpsolve/dijkstra"
	"github.com/katalvlaran/vrpsolve/matrix"
	"github.com/katalvlaran/vrpsolve/vrp"
)

// ErrRouting wraps any transport failure or unfound edge; the message
// carries the offending location index.
var ErrRouting = errors.New("routing: matrix computation failed")

// Matrices is the duration/distance pair a Router returns for a location
// list, in user units (seconds, meters).
type Matrices struct {
	Duration *matrix.Dense
	Distance *matrix.Dense
}

// Router supplies travel matrices and geometry enrichment for a list of
// locations.
type Router interface {
	// GetMatrices fills full square duration/distance matrices over
	// locations.
	GetMatrices(locations []vrp.Location) (Matrices, error)

	// GetSparseMatrices fills only the entries required by the declared
	// vehicle step sequences, returning one polyline geometry per
	// vehicle.
	GetSparseMatrices(locations []vrp.Location, vehicles []vrp.Vehicle, jobs []vrp.Job) (Matrices, []string, error)

	// AddGeometry augments a finished route's ordered locations with a
	// polyline string.
	AddGeometry(orderedLocations []vrp.Location) (string, error)
}

// GraphRouter derives matrices from a weighted graph whose vertex IDs are
// decimal location indices, running one Dijkstra sweep per source. Useful
// for tests and for inputs that describe their road network as a graph
// rather than full matrices.
type GraphRouter struct {
	Graph *core.Graph
	// DistancePerUnit converts one unit of graph edge weight into meters
	// for the distance matrix; duration uses the weight as seconds.
	DistancePerUnit float64
}

// NewGraphRouter wraps g; weights are read as seconds, and distances as
// weight * distancePerUnit meters.
func NewGraphRouter(g *core.Graph, distancePerUnit float64) *GraphRouter {
	return &GraphRouter{Graph: g, DistancePerUnit: distancePerUnit}
}

// GetMatrices implements Router by |locations| single-source Dijkstra
// sweeps. Complexity: O(L · (V+E) log V).
func (r *GraphRouter) GetMatrices(locations []vrp.Location) (Matrices, error) {
	n := len(locations)
	dur, err := matrix.NewDense(n, n)
	if err != nil {
		return Matrices{}, err
	}
	dist, err := matrix.NewDense(n, n)
	if err != nil {
		return Matrices{}, err
	}

	for i, from := range locations {
		dists, _, err := dijkstra.Dijkstra(r.Graph, dijkstra.Source(strconv.Itoa(from.Index)))
		if err != nil {
			return Matrices{}, fmt.Errorf("%w: location %d: %v", ErrRouting, from.Index, err)
		}
		for j, to := range locations {
			d, ok := dists[strconv.Itoa(to.Index)]
			if !ok {
				return Matrices{}, fmt.Errorf("%w: no path from location %d to %d", ErrRouting, from.Index, to.Index)
			}
			if err := dur.Set(i, j, float64(d)); err != nil {
				return Matrices{}, err
			}
			if err := dist.Set(i, j, float64(d)*r.DistancePerUnit); err != nil {
				return Matrices{}, err
			}
		}
	}

	return Matrices{Duration: dur, Distance: dist}, nil
}

// GetSparseMatrices falls back to the full computation; the graph sweeps
// already amortise across targets, so there is nothing to save by
// sparsifying here.
func (r *GraphRouter) GetSparseMatrices(locations []vrp.Location, _ []vrp.Vehicle, _ []vrp.Job) (Matrices, []string, error) {
	m, err := r.GetMatrices(locations)

	return m, nil, err
}

// AddGeometry returns an empty polyline: a pure graph carries no road
// geometry to draw.
func (r *GraphRouter) AddGeometry([]vrp.Location) (string, error) { return "", nil }

// MatrixRouter serves matrices the caller already has — the path taken
// when the input document declares explicit per-profile matrices and no
// routing daemon is needed.
type MatrixRouter struct {
	M Matrices
}

// GetMatrices returns the stored matrices, verifying they cover every
// requested location index.
func (r *MatrixRouter) GetMatrices(locations []vrp.Location) (Matrices, error) {
	n := r.M.Duration.Rows()
	for _, loc := range locations {
		if loc.Index < 0 || loc.Index >= n {
			return Matrices{}, fmt.Errorf("%w: location index %d outside matrix of dimension %d", ErrRouting, loc.Index, n)
		}
	}

	return r.M, nil
}

// GetSparseMatrices returns the stored matrices unchanged; with the data
// already dense there is nothing to fill lazily.
func (r *MatrixRouter) GetSparseMatrices(locations []vrp.Location, _ []vrp.Vehicle, _ []vrp.Job) (Matrices, []string, error) {
	m, err := r.GetMatrices(locations)

	return m, nil, err
}

// AddGeometry returns an empty polyline; matrices carry no geometry.
func (r *MatrixRouter) AddGeometry([]vrp.Location) (string, error) { return "", nil }

var (
	_ Router = (*GraphRouter)(nil)
	_ Router = (*MatrixRouter)(nil)
)
