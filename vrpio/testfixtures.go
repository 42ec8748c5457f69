package vrpio

import (
	"fmt"
	"math/rand"

	"github.com/katalvlaran/vrpsolve/builder"
	"github.com/katalvlaran/vrpsolve/core"
	"github.com/katalvlaran/vrpsolve/dijkstra"
	"github.com/katalvlaran/vrpsolve/matrix"
)

// FixtureTopology selects the synthetic road-network shape behind a
// generated instance.
type FixtureTopology int

const (
	// FixtureGrid lays locations out on a rows×cols street grid.
	FixtureGrid FixtureTopology = iota
	// FixtureCycle lays locations on a ring road.
	FixtureCycle
	// FixtureComplete connects every location pair directly.
	FixtureComplete
)

// SyntheticInstance generates a solvable benchmark instance: a synthetic
// road network (builder topologies reinterpreted as location layouts), a
// duration matrix from all-pairs shortest paths over it, nJobs random
// single jobs, and one depot-based vehicle per nVehicles. Deterministic
// for a fixed seed.
func SyntheticInstance(topology FixtureTopology, nLocations, nJobs, nVehicles int, seed int64) (*InputDoc, error) {
	var cons builder.Constructor
	switch topology {
	case FixtureGrid:
		side := 2
		for side*side < nLocations {
			side++
		}
		cons = builder.Grid(side, side)
	case FixtureCycle:
		cons = builder.Cycle(nLocations)
	default:
		cons = builder.Complete(nLocations)
	}

	rng := rand.New(rand.NewSource(seed))
	g, err := builder.BuildGraph(
		[]core.GraphOption{core.WithWeighted()},
		[]builder.BuilderOption{
			builder.WithSeed(seed),
			builder.WithWeightFn(func(r *rand.Rand) int64 { return int64(r.Intn(90) + 10) }),
		},
		cons,
	)
	if err != nil {
		return nil, err
	}

	ids := g.Vertices()
	n := len(ids)
	if n < 2 {
		return nil, fmt.Errorf("vrpio: topology produced %d locations", n)
	}

	durations := make([][]float64, n)
	for i := range durations {
		durations[i] = make([]float64, n)
		dists, _, err := dijkstra.Dijkstra(g, dijkstra.Source(ids[i]))
		if err != nil {
			return nil, err
		}
		for j := range ids {
			if d, ok := dists[ids[j]]; ok {
				durations[i][j] = float64(d)
			} else {
				durations[i][j] = 1e18 // disconnected under this topology
			}
		}
	}

	doc := &InputDoc{Matrices: map[string]MatrixBundle{"car": {Durations: durations}}}
	for j := 0; j < nJobs; j++ {
		idx := 1 + rng.Intn(n-1)
		doc.Jobs = append(doc.Jobs, JobDoc{
			ID:            uint64(j + 1),
			LocationIndex: &idx,
			Delivery:      []int64{int64(rng.Intn(3) + 1)},
			Service:       60,
		})
	}
	depot := 0
	for v := 0; v < nVehicles; v++ {
		doc.Vehicles = append(doc.Vehicles, VehicleDoc{
			ID:         uint64(v + 1),
			Profile:    "car",
			StartIndex: &depot,
			EndIndex:   &depot,
			Capacity:   []int64{int64(3 * nJobs)},
		})
	}

	return doc, nil
}

// DenseFromDurations is a test helper converting a raw duration table to
// the matrix type the solver consumes.
func DenseFromDurations(rows [][]float64) (*matrix.Dense, error) { return denseFrom(rows) }
