package vrpio

import (
	"context"
	"errors"
	"time"

	"github.com/katalvlaran/vrpsolve/localsearch"
	"github.com/katalvlaran/vrpsolve/orchestrator"
	"github.com/katalvlaran/vrpsolve/routing"
	"github.com/katalvlaran/vrpsolve/solutionstate"
	"github.com/katalvlaran/vrpsolve/tspsolve"
)

// Config carries the run-level knobs the CLI surfaces.
type Config struct {
	// Router serves matrices when the input declares none, and geometry
	// when WithGeometry is set.
	Router routing.Router
	// WithGeometry enriches finished routes with polylines.
	WithGeometry bool
	// Timeout bounds total solving wall-clock; zero means the
	// orchestrator default.
	Timeout time.Duration
	// NbThreads bounds worker parallelism.
	NbThreads int
	// NbSearches caps the number of multi-start candidates
	// ("exploration depth").
	NbSearches int
}

// Solve runs the whole pipeline — parse, construct, search, serialise —
// and returns the output document. Fatal errors come back as an error
// alongside a single-object error document.
func Solve(ctx context.Context, data []byte, cfg Config) (*OutputDoc, error) {
	loadStart := time.Now()
	parsed, err := Parse(data, cfg.Router)
	if err != nil {
		return ErrorOutput(classify(err), err), err
	}

	p, err := solutionstate.NewProblem(parsed.Input.Jobs, parsed.Input.Vehicles, parsed.Set)
	if err != nil {
		return ErrorOutput(CodeInput, err), err
	}
	loading := time.Since(loadStart)

	solveStart := time.Now()
	lsOpts := localsearch.DefaultOptions()
	lsOpts.TSP = tspsolve.Christofides{}
	result, err := orchestrator.Solve(ctx, p, orchestrator.DefaultParameters(), orchestrator.Options{
		NbSearches: cfg.NbSearches,
		NbThreads:  cfg.NbThreads,
		Timeout:    cfg.Timeout,
		LS:         lsOpts,
	})
	if err != nil {
		return ErrorOutput(CodeInternal, err), err
	}
	solving := time.Since(solveStart)

	times := ComputingTimesDoc{
		Loading: loading.Milliseconds(),
		Solving: solving.Milliseconds(),
	}

	return BuildOutput(parsed, p, result.Solution, times, cfg.Router, cfg.WithGeometry), nil
}

// classify maps an error to the schema's exit code.
func classify(err error) int {
	switch {
	case errors.Is(err, routing.ErrRouting):
		return CodeRouting
	case errors.Is(err, ErrInput):
		return CodeInput
	default:
		return CodeInternal
	}
}
