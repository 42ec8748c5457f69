// Package orchestrator runs the multi-start search: N heuristic parameter
// sets explored in a bounded worker pool, deduplicated by solution
// indicator, with the best survivor chosen under the indicator order.
package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/katalvlaran/vrpsolve/construction"
	"github.com/katalvlaran/vrpsolve/localsearch"
	"github.com/katalvlaran/vrpsolve/solutionstate"
)

// Strategy selects the construction heuristic variant.
type Strategy int

const (
	// StrategyBasic fills vehicles in a fixed order.
	StrategyBasic Strategy = iota
	// StrategyDynamic re-ranks the remaining fleet every outer step.
	StrategyDynamic
)

// HeuristicParameters is one multi-start candidate's recipe.
type HeuristicParameters struct {
	Strategy Strategy
	Init     construction.InitStrategy
	Lambda   float64
	Sort     construction.SortStrategy
}

// DefaultParameters is the standard candidate ladder: both strategies
// crossed with the seeding variants over a small λ grid.
func DefaultParameters() []HeuristicParameters {
	inits := []construction.InitStrategy{
		construction.InitNone,
		construction.InitHigherAmount,
		construction.InitEarliestDeadline,
		construction.InitFurthest,
		construction.InitNearest,
	}
	lambdas := []float64{0, 0.5, 1}

	var out []HeuristicParameters
	for _, strategy := range []Strategy{StrategyBasic, StrategyDynamic} {
		for _, init := range inits {
			for _, lambda := range lambdas {
				out = append(out, HeuristicParameters{
					Strategy: strategy,
					Init:     init,
					Lambda:   lambda,
					Sort:     construction.SortAvailability,
				})
			}
		}
	}

	return out
}

// Options bounds the multi-start run.
type Options struct {
	// NbSearches caps how many parameter sets run; 0 means all supplied.
	NbSearches int
	// NbThreads bounds worker parallelism; 0 means 1.
	NbThreads int
	// Timeout is the total wall-clock budget, divided across candidates
	// Zero means a generous default.
	Timeout time.Duration
	// LS tunes each candidate's local search.
	LS localsearch.Options
}

// Result carries the winning solution and its indicator.
type Result struct {
	Solution  *solutionstate.Solution
	Indicator solutionstate.Indicator
}

// Solve runs up to NbSearches candidates under a counting semaphore of
// size min(NbSearches, NbThreads), deduplicates post-heuristic solutions
// by indicator equality, and returns the solution minimising the
// indicator order. Deterministic for fixed input, parameters and thread
// count, up to first-found tie-breaks between identical indicators.
func Solve(ctx context.Context, p *solutionstate.Problem, params []HeuristicParameters, opts Options) (Result, error) {
	if opts.NbSearches > 0 && opts.NbSearches < len(params) {
		params = params[:opts.NbSearches]
	}
	threads := opts.NbThreads
	if threads < 1 {
		threads = 1
	}
	if threads > len(params) {
		threads = len(params)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	perCandidate := timeout / time.Duration(maxInt(1, len(params))) * time.Duration(threads)

	var (
		mu       sync.Mutex
		seen     = make(map[solutionstate.Indicator]bool, len(params))
		best     *solutionstate.Solution
		bestInd  solutionstate.Indicator
		haveBest bool

		errMu    sync.Mutex
		firstErr error
	)

	sem := make(chan struct{}, threads)
	var wg sync.WaitGroup

	for i := range params {
		wg.Add(1)
		go func(idx int, hp HeuristicParameters) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			if ctx.Err() != nil {
				return
			}
			defer func() {
				if r := recover(); r != nil {
					errMu.Lock()
					if firstErr == nil {
						if err, ok := r.(error); ok {
							firstErr = err
						} else {
							firstErr = &panicError{value: r}
						}
					}
					errMu.Unlock()
				}
			}()

			sol := runHeuristic(p, hp)
			ind := sol.Indicator(p)

			mu.Lock()
			duplicate := seen[ind]
			seen[ind] = true
			mu.Unlock()
			if duplicate {
				// Another candidate already reached this exact state;
				// re-running LS from it would only repeat work.
				record(&mu, &best, &bestInd, &haveBest, sol, ind, p)

				return
			}

			lsOpts := opts.LS
			lsOpts.Seed = int64(idx)
			driver := localsearch.New(p, sol, lsOpts)
			finalInd := driver.Run(time.Now().Add(perCandidate))
			record(&mu, &best, &bestInd, &haveBest, driver.Solution(), finalInd, p)
		}(i, params[i])
	}
	wg.Wait()

	errMu.Lock()
	err := firstErr
	errMu.Unlock()
	if err != nil {
		return Result{}, err
	}

	return Result{Solution: best, Indicator: bestInd}, nil
}

// runHeuristic builds one candidate's initial solution, honouring the
// heterogeneous-fleet second pass: when profiles differ and the candidate
// sorts by availability, a cost-sorted pass also runs and the cheaper of
// the two (by pre-LS eval) survives.
func runHeuristic(p *solutionstate.Problem, hp HeuristicParameters) *solutionstate.Solution {
	run := func(sortStrategy construction.SortStrategy) (*solutionstate.Solution, int64) {
		sol := solutionstate.NewSolution(p)
		order := construction.VehicleOrder(p, sortStrategy)
		var eval int64
		if hp.Strategy == StrategyDynamic {
			eval = construction.DynamicVehicleChoice(p, sol, order, hp.Init, hp.Lambda).Cost
		} else {
			eval = construction.Basic(p, sol, order, hp.Init, hp.Lambda).Cost
		}

		return sol, eval
	}

	sol, eval := run(hp.Sort)
	if hp.Sort == construction.SortAvailability && p.HeterogeneousProfiles() {
		if alt, altEval := run(construction.SortCost); altEval < eval {
			sol = alt
		}
	}

	return sol
}

// record updates the shared best under the dedup mutex.
func record(mu *sync.Mutex, best **solutionstate.Solution, bestInd *solutionstate.Indicator, have *bool, sol *solutionstate.Solution, ind solutionstate.Indicator, p *solutionstate.Problem) {
	mu.Lock()
	defer mu.Unlock()
	if !*have || ind.Less(*bestInd) {
		*best = sol.Clone(p)
		*bestInd = ind
		*have = true
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}

	return b
}

// panicError surfaces a worker panic value as the run's first error,
// mirroring the exception_ptr slot of the original design.
type panicError struct{ value any }

func (e *panicError) Error() string { return "orchestrator: worker panic" }
