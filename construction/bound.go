package construction

import (
	"context"
	"strconv"

	"github.com/katalvlaran/vrpsolve/core"
	"github.com/katalvlaran/vrpsolve/flow"
	"github.com/katalvlaran/vrpsolve/solutionstate"
	"github.com/katalvlaran/vrpsolve/vrp"
)

// SkillFeasibilityBound returns a fast upper bound on the number of jobs
// any assignment can place, from a max-flow over the bipartite
// skill-compatibility network: source → every job (capacity 1), job →
// every vehicle whose skills cover it (capacity 1), vehicle → sink
// (capacity max_tasks, or the job count when unlimited). A bound below
// the job count means some jobs are permanently unassignable, which the
// caller can report without waiting for construction to discover it one
// failed insertion at a time.
func SkillFeasibilityBound(ctx context.Context, p *solutionstate.Problem) int {
	nJobs := 0
	for j := range p.Jobs {
		if p.Jobs[j].Type != vrp.Delivery {
			nJobs++
		}
	}
	if nJobs == 0 {
		return 0
	}

	const source, sink = "src", "snk"
	g := core.NewGraph(core.WithDirected(true), core.WithWeighted())
	_ = g.AddVertex(source)
	_ = g.AddVertex(sink)

	jobID := func(j int) string { return "j" + strconv.Itoa(j) }
	vehID := func(v int) string { return "v" + strconv.Itoa(v) }

	for j := range p.Jobs {
		if p.Jobs[j].Type == vrp.Delivery {
			continue
		}
		_ = g.AddVertex(jobID(j))
		if _, err := g.AddEdge(source, jobID(j), 1); err != nil {
			return nJobs
		}
	}
	for v := range p.Vehicles {
		_ = g.AddVertex(vehID(v))
		capacity := int64(nJobs)
		if p.Vehicles[v].MaxTasks > 0 {
			capacity = int64(p.Vehicles[v].MaxTasks)
		}
		if _, err := g.AddEdge(vehID(v), sink, capacity); err != nil {
			return nJobs
		}
		for j := range p.Jobs {
			if p.Jobs[j].Type == vrp.Delivery || !p.VehicleCanTake(v, j) {
				continue
			}
			if _, err := g.AddEdge(jobID(j), vehID(v), 1); err != nil {
				return nJobs
			}
		}
	}

	opts := flow.DefaultOptions()
	opts.Ctx = ctx
	maxFlow, _, err := flow.Dinic(g, source, sink, opts)
	if err != nil {
		return nJobs // bound degrades gracefully to "no information"
	}

	return int(maxFlow)
}
