// Package solutionstate holds the derived, rebuildable-on-demand caches
// the local-search driver consults between steps: per-route edge-sum
// gains, skill-rank frontiers, priority prefix sums, bounding boxes, and
// cheapest-neighbour tables across routes.
//
// State here is never authoritative — it is always reconstructible from
// (input, routes) — so every cache is keyed by vehicle index and
// invalidated wholesale for that index when an operator reports the rank
// touched it.
package solutionstate

import (
	"math"

	"github.com/katalvlaran/vrpsolve/matrices"
	"github.com/katalvlaran/vrpsolve/route"
	"github.com/katalvlaran/vrpsolve/vrp"
)

// BBox is an axis-aligned bounding box over a route's job coordinates,
// used to cheaply discard far-apart route pairs before the more expensive
// cross-route operator enumeration.
type BBox struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// Overlaps reports whether two bounding boxes intersect.
func (b BBox) Overlaps(o BBox) bool {
	return b.MinLat <= o.MaxLat && o.MinLat <= b.MaxLat &&
		b.MinLon <= o.MaxLon && o.MinLon <= b.MaxLon
}

// RouteCache is the per-vehicle derived cache.
type RouteCache struct {
	EdgeSumCost int64 // sum of travel cost along the route, recomputed from scratch
	BBox        BBox
	// SkillFrontier[s] is the rank of the last job on the route requiring
	// skill s, or -1 if none (a cheap frontier used to bound skill-aware
	// insertion candidates).
	SkillFrontier map[int]int
	// PriorityPrefix[i] is the sum of Job.Priority over route ranks [0,i].
	PriorityPrefix []int
}

// State is the full derived cache over every vehicle's route.
type State struct {
	caches  []*RouteCache
	jobs    []vrp.Job
	dirty   []bool
	nearest [][]int // cheapest-neighbour table: nearest[v] = vehicle indices sorted by proximity to v
}

// New builds an empty State sized for nVehicles routes.
func New(jobs []vrp.Job, nVehicles int) *State {
	return &State{
		jobs:  jobs,
		caches: make([]*RouteCache, nVehicles),
		dirty: alwaysDirty(nVehicles),
	}
}

func alwaysDirty(n int) []bool {
	d := make([]bool, n)
	for i := range d {
		d[i] = true
	}

	return d
}

// Invalidate marks the cache for vehicle index v stale.
func (s *State) Invalidate(v int) {
	if v >= 0 && v < len(s.dirty) {
		s.dirty[v] = true
	}
}

// InvalidateAll marks every per-vehicle cache stale (used after a
// perturbation ruins an unbounded number of routes).
func (s *State) InvalidateAll() {
	for i := range s.dirty {
		s.dirty[i] = true
	}
}

// Rebuild recomputes the cache for vehicle v from its current route, a
// profile's distance/cost matrices, and a per-edge cost function, if and
// only if it is marked dirty. Complexity: O(|route|) when dirty, O(1)
// otherwise.
func (s *State) Rebuild(v int, r route.Route, profile *matrices.Profile, edgeCost func(i, j int) int64) {
	if v < 0 || v >= len(s.dirty) || !s.dirty[v] {
		return
	}

	ranks := r.RouteRanks()
	cache := &RouteCache{
		SkillFrontier: make(map[int]int),
		BBox:          BBox{MinLat: math.Inf(1), MaxLat: math.Inf(-1), MinLon: math.Inf(1), MaxLon: math.Inf(-1)},
	}
	cache.PriorityPrefix = make([]int, len(ranks))

	running := 0
	var prevLoc int
	for i, rk := range ranks {
		job := &s.jobs[rk]
		running += job.Priority
		cache.PriorityPrefix[i] = running

		loc := job.Location
		cache.BBox.MinLat = math.Min(cache.BBox.MinLat, loc.Lat)
		cache.BBox.MaxLat = math.Max(cache.BBox.MaxLat, loc.Lat)
		cache.BBox.MinLon = math.Min(cache.BBox.MinLon, loc.Lon)
		cache.BBox.MaxLon = math.Max(cache.BBox.MaxLon, loc.Lon)

		for sk := range job.Skills {
			cache.SkillFrontier[sk] = i
		}

		if i > 0 {
			cache.EdgeSumCost += edgeCost(prevLoc, loc.Index)
		}
		prevLoc = loc.Index
	}

	s.caches[v] = cache
	s.dirty[v] = false
}

// Cache returns the (possibly stale) cache for vehicle v; callers must
// call Rebuild first if freshness matters.
func (s *State) Cache(v int) *RouteCache {
	if v < 0 || v >= len(s.caches) {
		return nil
	}

	return s.caches[v]
}

// RebuildNearest recomputes, for every vehicle v, the list of other
// vehicle indices sorted by ascending bounding-box centroid distance — the
// cheapest-neighbour tables consulted by cross-route filters. Complexity:
// O(V^2 log V).
func (s *State) RebuildNearest() {
	n := len(s.caches)
	s.nearest = make([][]int, n)
	centroids := make([][2]float64, n)
	for v, c := range s.caches {
		if c == nil {
			continue
		}
		centroids[v] = [2]float64{(c.BBox.MinLat + c.BBox.MaxLat) / 2, (c.BBox.MinLon + c.BBox.MaxLon) / 2}
	}
	for v := 0; v < n; v++ {
		order := make([]int, 0, n-1)
		for u := 0; u < n; u++ {
			if u != v {
				order = append(order, u)
			}
		}
		dist := func(u int) float64 {
			dy := centroids[v][0] - centroids[u][0]
			dx := centroids[v][1] - centroids[u][1]

			return dy*dy + dx*dx
		}
		sortByDistance(order, dist)
		s.nearest[v] = order
	}
}

func sortByDistance(order []int, dist func(int) float64) {
	for i := 1; i < len(order); i++ {
		j := i
		for j > 0 && dist(order[j-1]) > dist(order[j]) {
			order[j-1], order[j] = order[j], order[j-1]
			j--
		}
	}
}

// Nearest returns the vehicle indices nearest to v, ordered ascending.
func (s *State) Nearest(v int) []int {
	if v < 0 || v >= len(s.nearest) {
		return nil
	}

	return s.nearest[v]
}

// PriorityAssigned sums priority across every cached route (used by the
// solution-indicator's -priority_sum key).
func (s *State) PriorityAssigned() int {
	total := 0
	for _, c := range s.caches {
		if c != nil && len(c.PriorityPrefix) > 0 {
			total += c.PriorityPrefix[len(c.PriorityPrefix)-1]
		}
	}

	return total
}

