// Package vrpsolve is a metaheuristic vehicle-routing-problem solver.
//
// Given a fleet of heterogeneous vehicles and a set of geo-located tasks
// with time, capacity, skill and precedence constraints, it produces a
// plan assigning each task to at most one vehicle in a specific order,
// minimising a weighted sum of travel cost, distance and fixed vehicle
// costs.
//
// The solver is organized as one directory per concern:
//
//	amount/        — fixed-size capacity vectors and their algebra
//	costmodel/     — internal fixed-point cost scalar, Eval/Gain tuples
//	matrices/      — per-profile duration/distance/cost matrices
//	vrp/           — the problem data model (jobs, vehicles, breaks)
//	route/         — RawRoute / TWRoute state machines with cached sweeps
//	solutionstate/ — Problem/Solution, derived caches, the indicator order
//	construction/  — regret-based insertion heuristics
//	lsoperators/   — the local-search move catalogue
//	localsearch/   — best-move descent with ruin-and-recreate perturbation
//	orchestrator/  — bounded-parallel multi-start with dedup by indicator
//	routing/       — travel-matrix providers (in-memory, graph, HTTP)
//	tspsolve/      — single-route TSP refinement behind a small interface
//	vrpio/         — JSON input/output schema, check mode, CLI pipeline
//	cmd/           — the vroom-solve command-line front end
//
// General-purpose graph and matrix infrastructure lives alongside the
// domain packages:
//
//	core/         — thread-safe Graph, Vertex, Edge primitives
//	matrix/       — dense matrices, adjacency/incidence views, APSP
//	bfs/, dfs/    — traversals with hooks and cancellation
//	dijkstra/     — single-source shortest paths
//	prim_kruskal/ — minimum spanning trees
//	flow/         — max-flow (Dinic)
//	builder/      — synthetic graph generators for tests and benchmarks
//	tsp/          — approximate travelling-salesman solvers with local search
package vrpsolve
