package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/MeKo-Tech/timeit/internal/bench"
	"github.com/MeKo-Tech/timeit/internal/config"
	"github.com/MeKo-Tech/timeit/internal/metrics"
	"github.com/MeKo-Tech/timeit/internal/timer"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// runOptions holds the flags of the run command that are not configuration keys.
type runOptions struct {
	commands []string
	name     string
	host     bool
}

// runReport is the json/yaml document written by the run command.
type runReport struct {
	Host    *bench.Host    `json:"host,omitempty" yaml:"host,omitempty"`
	Results []resultReport `json:"results" yaml:"results"`
}

type resultReport struct {
	Name         string            `json:"name" yaml:"name"`
	Iterations   int               `json:"iterations" yaml:"iterations"`
	Error        string            `json:"error,omitempty" yaml:"error,omitempty"`
	Summary      timer.Summary     `json:"summary" yaml:"summary"`
	MemoryBefore bench.MemoryStats `json:"memory_before" yaml:"memory_before"`
	MemoryAfter  bench.MemoryStats `json:"memory_after" yaml:"memory_after"`
}

func newRunCommand(a *app) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run [flags] [-- command [args...]]",
		Short: "Time a command over repeated runs",
		Long: `Run a command repeatedly and report bias-corrected wall and CPU time.

The command is given after "--" and executed directly, or as one or more
-c/--command strings that are each run through the shell and timed as
separate entries. Warmup runs are executed first and not timed.

CPU time defaults to the user and system time of the finished command
(--cpu-clock children). The thread and process clocks measure timeit itself
while it starts and waits for the command.`,
		Example: `  timeit run -- sleep 0.1
  timeit run --runs 5 --warmup 0 --format json -- ls -la
  timeit run --format table -c 'sort big.txt' -c 'sort -S 1G big.txt'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, args, opts)
		},
	}

	cmd.Flags().IntP("runs", "n", 10, "number of timed runs")
	cmd.Flags().Int("warmup", 1, "number of untimed runs before measuring")
	cmd.Flags().StringP("format", "f", "text", "output format (text, table, json, yaml)")
	cmd.Flags().Bool("metrics", false, "append the statistics in Prometheus text format")
	cmd.Flags().Bool("shell", false, "run the command after -- through the shell")
	cmd.Flags().String("unit", "auto", "time unit (auto, s, ms, us, ns)")
	cmd.Flags().String("cpu-clock", "children", "cpu clock (children, thread, process, none)")
	cmd.Flags().StringArrayVarP(&opts.commands, "command", "c", nil, "shell command to time (repeatable)")
	cmd.Flags().StringVar(&opts.name, "name", "", "timer name for the command after --")
	cmd.Flags().BoolVar(&opts.host, "host", false, "include a description of the host")

	a.bind(cmd, "run.runs", "runs")
	a.bind(cmd, "run.warmup", "warmup")
	a.bind(cmd, "run.format", "format")
	a.bind(cmd, "run.metrics", "metrics")
	a.bind(cmd, "run.shell", "shell")
	a.bind(cmd, "timer.unit", "unit")
	a.bind(cmd, "run.cpu_clock", "cpu-clock")

	return cmd
}

func (a *app) run(cmd *cobra.Command, args []string, opts *runOptions) error {
	cfg, err := a.validConfig()
	if err != nil {
		return err
	}
	if len(args) == 0 && len(opts.commands) == 0 {
		return errors.New("no command given: pass it after -- or with -c")
	}

	tmpl, err := cfg.ToRunTimerConfig()
	if err != nil {
		return err
	}
	tmpl.Logger = a.logger

	suite := bench.NewSuite(bench.Options{Warmup: cfg.Run.Warmup, Timer: tmpl, Logger: a.logger})
	defer func() { _ = suite.Close() }()

	if err := addCommands(suite, cfg, args, opts); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	a.logger.Debug("running commands",
		"benchmarks", suite.Names(),
		"runs", cfg.Run.Runs,
		"warmup", cfg.Run.Warmup)
	results := suite.RunAll(ctx, cfg.Run.Runs)

	out := cmd.OutOrStdout()
	var host *bench.Host
	if opts.host {
		h := bench.DescribeHost(ctx)
		host = &h
	}
	if err := writeResults(out, cfg, tmpl.Unit, host, results); err != nil {
		return err
	}

	if cfg.Run.Metrics {
		reg, err := metrics.NewRegistry(suite.Registry())
		if err != nil {
			return err
		}
		if err := metrics.Write(out, reg); err != nil {
			return err
		}
	}

	return firstFailure(ctx, results)
}

// addCommands registers one benchmark per -c string plus one for the argv after --.
func addCommands(suite *bench.Suite, cfg *config.Config, args []string, opts *runOptions) error {
	for _, line := range opts.commands {
		fn, err := bench.Command([]string{line}, true)
		if err != nil {
			return err
		}
		suite.Add(bench.CommandName([]string{line}), fn)
	}

	if len(args) > 0 {
		fn, err := bench.Command(args, cfg.Run.Shell)
		if err != nil {
			return err
		}
		name := opts.name
		if name == "" {
			name = bench.CommandName(args)
		}
		suite.Add(name, fn)
	}
	return nil
}

func writeResults(w io.Writer, cfg *config.Config, unit timer.Unit, host *bench.Host, results []bench.Result) error {
	switch cfg.Run.Format {
	case "json", "yaml":
		doc := runReport{Host: host, Results: make([]resultReport, 0, len(results))}
		for _, r := range results {
			rr := resultReport{
				Name:         r.Name,
				Iterations:   r.Iterations,
				Summary:      r.Summary,
				MemoryBefore: r.MemoryBefore,
				MemoryAfter:  r.MemoryAfter,
			}
			if r.Error != nil {
				rr.Error = r.Error.Error()
			}
			doc.Results = append(doc.Results, rr)
		}
		if cfg.Run.Format == "json" {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(doc)
		}
		enc := yaml.NewEncoder(w)
		defer func() { _ = enc.Close() }()
		return enc.Encode(doc)

	case "table":
		if host != nil {
			_, _ = fmt.Fprintf(w, "Host: %s\n", host)
		}
		return bench.WriteTable(w, results, unit)

	default:
		if host != nil {
			_, _ = fmt.Fprintf(w, "Host: %s\n", host)
		}
		for _, r := range results {
			if _, err := fmt.Fprintln(w, r.Report); err != nil {
				return err
			}
			if r.Error != nil {
				_, _ = fmt.Fprintf(w, "[Timer: %s] stopped after %d run(s): %v\n", r.Name, r.Iterations, r.Error)
			}
		}
		return nil
	}
}

func firstFailure(ctx context.Context, results []bench.Result) error {
	failed := 0
	var first error
	for _, r := range results {
		if r.Error != nil {
			failed++
			if first == nil {
				first = fmt.Errorf("%s: %w", r.Name, r.Error)
			}
		}
	}
	if first == nil {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("interrupted: %w", err)
		}
		return nil
	}
	return fmt.Errorf("%d of %d command(s) failed, first: %w", failed, len(results), first)
}
