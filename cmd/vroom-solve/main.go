// Command vroom-solve is the command-line front end: it reads a problem
// document, runs the solver pipeline, and writes the solution document.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/katalvlaran/vrpsolve/routing"
	"github.com/katalvlaran/vrpsolve/vrpio"
)

type cliOptions struct {
	routerAddress string
	routerPort    int
	routerProfile string
	geometry      bool
	inputFile     string
	outputFile    string
	timeout       time.Duration
	threads       int
	exploration   int
	checkMode     bool
}

func newCommand() *cobra.Command {
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:   "vroom-solve",
		Short: "Solve a vehicle routing problem document",
		Long: `vroom-solve reads a VRP document (jobs, shipments, vehicles, optional
matrices), runs the multi-start metaheuristic solver, and emits the
solution document on stdout or to a file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	addFlags(flags, opts)

	return cmd
}

func addFlags(flags *pflag.FlagSet, opts *cliOptions) {
	flags.StringVarP(&opts.routerAddress, "address", "a", "", "routing daemon address (empty: input must declare matrices)")
	flags.IntVarP(&opts.routerPort, "port", "p", 5000, "routing daemon port")
	flags.StringVar(&opts.routerProfile, "router-profile", "car", "routing daemon profile")
	flags.BoolVarP(&opts.geometry, "geometry", "g", false, "add route geometry to the output")
	flags.StringVarP(&opts.inputFile, "input", "i", "", "input file (default: stdin)")
	flags.StringVarP(&opts.outputFile, "output", "o", "", "output file (default: stdout)")
	flags.DurationVarP(&opts.timeout, "timeout", "l", 0, "total solving time limit")
	flags.IntVarP(&opts.threads, "threads", "t", 4, "number of worker threads")
	flags.IntVarP(&opts.exploration, "explore", "x", 0, "exploration depth: number of multi-start candidates (0 = all)")
	flags.BoolVarP(&opts.checkMode, "check", "c", false, "validate the input's declared routes instead of solving")
}

func run(ctx context.Context, opts *cliOptions) error {
	data, err := readInput(opts.inputFile)
	if err != nil {
		return writeError(opts.outputFile, vrpio.CodeInput, err)
	}

	var router routing.Router
	if opts.routerAddress != "" {
		router = routing.NewHTTPWrapper(
			fmt.Sprintf("http://%s:%d", opts.routerAddress, opts.routerPort),
			opts.routerProfile,
		)
	}

	if opts.checkMode {
		out, err := vrpio.RunCheck(data, router)
		if err != nil {
			return writeError(opts.outputFile, vrpio.CodeInput, err)
		}

		return writeOutput(opts.outputFile, out)
	}

	cfg := vrpio.Config{
		Router:       router,
		WithGeometry: opts.geometry,
		Timeout:      opts.timeout,
		NbThreads:    opts.threads,
		NbSearches:   opts.exploration,
	}

	out, solveErr := vrpio.Solve(ctx, data, cfg)
	if writeErr := writeOutput(opts.outputFile, out); writeErr != nil {
		return writeErr
	}
	if solveErr != nil {
		return exitError(out.Code, solveErr)
	}

	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}

	return os.ReadFile(path)
}

func writeOutput(path string, out *vrpio.OutputDoc) error {
	data, err := out.Marshal()
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if path == "" {
		_, err = os.Stdout.Write(data)

		return err
	}

	return os.WriteFile(path, data, 0o644)
}

func writeError(path string, code int, err error) error {
	if writeErr := writeOutput(path, vrpio.ErrorOutput(code, err)); writeErr != nil {
		return writeErr
	}

	return exitError(code, err)
}

// exitCodeError carries the schema exit code to main.
type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string { return e.err.Error() }

func exitError(code int, err error) error {
	return &exitCodeError{code: code, err: err}
}

func main() {
	cmd := newCommand()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		var coded *exitCodeError
		if errors.As(err, &coded) {
			fmt.Fprintln(os.Stderr, coded.err)
			os.Exit(coded.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(vrpio.CodeInternal)
	}
}
