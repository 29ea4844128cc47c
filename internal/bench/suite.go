// Package bench runs named functions repeatedly under bias-corrected timers
// and collects their statistics.
package bench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/MeKo-Tech/timeit/internal/timer"
)

// ErrNotFound is returned for a benchmark name that was never added.
var ErrNotFound = errors.New("benchmark not found")

// Func is a function under measurement. It is called once per iteration.
type Func func(ctx context.Context) error

// Benchmark represents a benchmark function.
type Benchmark struct {
	Name string
	Func Func
}

// Options configures a Suite.
type Options struct {
	// Warmup is the number of untimed calls made before measuring.
	Warmup int
	// Timer is the template for the timer of every benchmark. Its Name,
	// Autostart and PrintOnClose fields are ignored.
	Timer timer.Config
	// Logger receives progress messages. Defaults to slog.Default().
	Logger *slog.Logger
}

// Result holds the result of a benchmark run.
type Result struct {
	Name         string
	Iterations   int
	Summary      timer.Summary
	Report       string
	MemoryBefore MemoryStats
	MemoryAfter  MemoryStats
	Error        error
}

// String returns a one-line description of the result.
func (r Result) String() string {
	if r.Error != nil {
		return fmt.Sprintf("%s: ERROR after %d iterations - %v", r.Name, r.Iterations, r.Error)
	}
	unit, _ := timer.ParseUnit(r.Summary.Unit)
	return fmt.Sprintf("%s: %d iterations, mean: %s, total: %s, mem: %+d KB",
		r.Name, r.Iterations,
		timer.FormatDuration(r.Summary.Wall.Mean, unit),
		timer.FormatDuration(float64(r.Summary.Wall.Sum), unit),
		r.MemoryAfter.AllocDelta(r.MemoryBefore)/1024)
}

// Suite manages multiple benchmarks. Each benchmark owns a timer in the
// suite's registry, named after the benchmark.
type Suite struct {
	benchmarks []Benchmark
	results    []Result
	registry   *timer.Registry
	warmup     int
	logger     *slog.Logger
	mu         sync.Mutex
}

// NewSuite creates an empty suite.
func NewSuite(opts Options) *Suite {
	tmpl := opts.Timer
	tmpl.Autostart = false
	tmpl.PrintOnClose = false
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if tmpl.Logger == nil {
		tmpl.Logger = logger
	}
	return &Suite{
		registry: timer.NewRegistry(tmpl),
		warmup:   max(opts.Warmup, 0),
		logger:   logger,
	}
}

// Add adds a benchmark to the suite. Adding a name twice replaces the function.
func (s *Suite) Add(name string, fn Func) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.benchmarks {
		if s.benchmarks[i].Name == name {
			s.benchmarks[i].Func = fn
			return
		}
	}
	s.benchmarks = append(s.benchmarks, Benchmark{Name: name, Func: fn})
}

// Names returns the benchmark names in insertion order.
func (s *Suite) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.benchmarks))
	for _, b := range s.benchmarks {
		names = append(names, b.Name)
	}
	return names
}

// Registry returns the registry holding the suite's timers.
func (s *Suite) Registry() *timer.Registry {
	return s.registry
}

// Run runs a single benchmark with the specified number of iterations.
func (s *Suite) Run(ctx context.Context, name string, iterations int) Result {
	s.mu.Lock()
	var benchmark *Benchmark
	for i := range s.benchmarks {
		if s.benchmarks[i].Name == name {
			b := s.benchmarks[i]
			benchmark = &b
			break
		}
	}
	s.mu.Unlock()

	if benchmark == nil {
		return Result{Name: name, Error: fmt.Errorf("%w: %q", ErrNotFound, name)}
	}
	return s.runBenchmark(ctx, *benchmark, iterations)
}

// RunAll runs all benchmarks in insertion order and stores the results.
// It stops early if ctx is cancelled.
func (s *Suite) RunAll(ctx context.Context, iterations int) []Result {
	s.mu.Lock()
	benchmarks := append([]Benchmark(nil), s.benchmarks...)
	s.mu.Unlock()

	results := make([]Result, 0, len(benchmarks))
	for _, b := range benchmarks {
		if ctx.Err() != nil {
			break
		}
		results = append(results, s.runBenchmark(ctx, b, iterations))
	}

	s.mu.Lock()
	s.results = results
	s.mu.Unlock()
	return results
}

// Results returns the results of the last RunAll.
func (s *Suite) Results() []Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results
}

// Close closes the suite's timers.
func (s *Suite) Close() error {
	return s.registry.Close()
}

// runBenchmark executes a single benchmark. A rerun replaces the timer's history.
func (s *Suite) runBenchmark(ctx context.Context, b Benchmark, iterations int) Result {
	result := Result{Name: b.Name}

	t, err := s.registry.Get(b.Name)
	if err != nil {
		result.Error = err
		return result
	}
	t.Reset(false)

	for i := range s.warmup {
		if err := ctx.Err(); err != nil {
			result.Error = err
			return result
		}
		if err := b.Func(ctx); err != nil {
			result.Error = fmt.Errorf("warmup %d: %w", i+1, err)
			return result
		}
	}

	// Force garbage collection before measuring
	runtime.GC()
	result.MemoryBefore = GetMemoryStats()

	for range iterations {
		if err := ctx.Err(); err != nil {
			result.Error = err
			break
		}
		blk := t.Block()
		err := b.Func(ctx)
		blk.End()
		if err != nil {
			result.Error = err
			break
		}
		result.Iterations++
	}

	result.MemoryAfter = GetMemoryStats()
	result.Summary = t.Summary()
	result.Report = t.String()

	s.logger.Debug("benchmark finished",
		"benchmark", b.Name,
		"iterations", result.Iterations,
		"mean_ns", result.Summary.Wall.Mean,
		"error", result.Error)
	return result
}
