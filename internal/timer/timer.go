// Package timer measures the wall and CPU time of code sections over repeated
// runs and reports statistics about them.
//
// A Timer compensates for the cost of its own clock reads: every start and
// stop samples each clock twice and the two resulting spans are combined so the
// sampling overhead cancels to first order (see Correct).
//
// A Timer is meant to be used by a single goroutine. It performs no locking.
package timer

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/MeKo-Tech/timeit/internal/clock"
)

// ErrNoName is returned when a timer is created without a name.
var ErrNoName = errors.New("timer: name is required")

// Config describes how a Timer is constructed.
type Config struct {
	// Name labels the timer in reports. It does not need to be unique.
	Name string
	// Unit is the unit used when printing durations.
	Unit Unit
	// Autostart starts the timer immediately after construction.
	Autostart bool
	// PrintOnClose writes the report to Output when Close is called.
	PrintOnClose bool
	// Output receives the report printed by Close. Defaults to os.Stderr.
	Output io.Writer
	// Sampler provides the clocks. Defaults to clock.Default().
	Sampler clock.Sampler
	// CPUDriftCorrection subtracts the estimated cost of the nested CPU reads
	// from the wall time. It assumes both clocks cost about the same to read.
	CPUDriftCorrection bool
	// LockOSThread pins the goroutine to its OS thread while the timer runs so
	// a thread CPU clock keeps measuring the same thread.
	LockOSThread bool
	// Logger receives debug messages. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns the configuration used when only a name is given.
func DefaultConfig(name string) Config {
	return Config{
		Name:               name,
		Unit:               Auto,
		Autostart:          true,
		CPUDriftCorrection: true,
		LockOSThread:       true,
	}
}

// Timer accumulates bias-corrected wall and CPU time per run and keeps the
// history of committed runs.
type Timer struct {
	name            string
	unit            Unit
	printOnClose    bool
	out             io.Writer
	sampler         clock.Sampler
	driftCorrection bool
	lockThread      bool
	logger          *slog.Logger

	running bool
	locked  bool
	closed  bool

	// current run
	elapsed    int64
	elapsedCPU int64

	// committed runs; cpuRuns[i] is Invalid when run i had no valid CPU time
	runs    []int64
	cpuRuns []int64

	wallStart Bracket
	cpuStart  Bracket
	// cpuValid is cleared by the first failed CPU read of a run.
	cpuValid bool
	// cpuInnerValid tracks the inner CPU sample of the current segment.
	cpuInnerValid bool
}

// New creates a timer from cfg. It fails only if the name is empty or no
// monotonic clock is available.
func New(cfg Config) (*Timer, error) {
	if cfg.Name == "" {
		return nil, ErrNoName
	}

	sampler := cfg.Sampler
	if sampler == nil {
		var err error
		if sampler, err = clock.Default(); err != nil {
			return nil, fmt.Errorf("timer %q: %w", cfg.Name, err)
		}
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	t := &Timer{
		name:            cfg.Name,
		unit:            cfg.Unit,
		printOnClose:    cfg.PrintOnClose,
		out:             out,
		sampler:         sampler,
		driftCorrection: cfg.CPUDriftCorrection,
		lockThread:      cfg.LockOSThread && sampler.Source() == clock.SourceThread,
		logger:          logger,
		cpuValid:        true,
		cpuInnerValid:   true,
	}
	if cfg.Autostart {
		t.Start()
	}
	return t, nil
}

// MustNew is like New but panics on error.
func MustNew(cfg Config) *Timer {
	t, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the timer's label.
func (t *Timer) Name() string { return t.name }

// Unit returns the unit used for reports.
func (t *Timer) Unit() Unit { return t.unit }

// Running reports whether the timer is currently measuring.
func (t *Timer) Running() bool { return t.running }

// CPUSource returns the CPU clock the timer reads.
func (t *Timer) CPUSource() clock.Source { return t.sampler.Source() }

// Start begins or resumes measuring. It does nothing if the timer is running.
func (t *Timer) Start() {
	if t.running {
		return
	}
	t.running = true
	if t.lockThread {
		runtime.LockOSThread()
		t.locked = true
	}

	t.wallStart.Outer = t.sampler.Wall()
	t.wallStart.Inner = t.sampler.Wall()
	if !t.cpuValid {
		return
	}

	var err error
	if t.cpuStart.Outer, err = t.sampler.CPU(); err != nil {
		t.disableCPU(err)
		return
	}
	t.cpuStart.Inner, err = t.sampler.CPU()
	t.cpuInnerValid = err == nil
}

// Stop pauses measuring and adds the corrected elapsed time of the segment
// to the current run. It does nothing if the timer is stopped.
func (t *Timer) Stop() {
	if !t.running {
		return
	}

	// Reverse order of Start so the CPU brackets stay nested in the wall brackets.
	var cpuStop Bracket
	innerOK := false
	if t.cpuValid {
		var err error
		if t.cpuInnerValid {
			cpuStop.Inner, err = t.sampler.CPU()
			innerOK = err == nil
		}
		if cpuStop.Outer, err = t.sampler.CPU(); err != nil {
			t.disableCPU(err)
		}
	}
	var wallStop Bracket
	wallStop.Inner = t.sampler.Wall()
	wallStop.Outer = t.sampler.Wall()

	if t.locked {
		runtime.UnlockOSThread()
		t.locked = false
	}

	var drift int64
	if t.cpuValid {
		if innerOK {
			inner, outer := Spans(t.cpuStart, cpuStop)
			drift = Drift(inner, outer)
			t.elapsedCPU += Correct(inner, outer)
		} else {
			t.elapsedCPU += clamp(cpuStop.Outer - t.cpuStart.Outer)
		}
	}
	if !t.driftCorrection {
		drift = 0
	}

	inner, outer := Spans(t.wallStart, wallStop)
	t.elapsed += CorrectWall(inner, outer, drift)
	t.running = false
}

// Reset stops the timer and clears the current run. If newRun is true and the
// run measured any time, it is committed to the run history first. If newRun
// is false the history is discarded as well.
func (t *Timer) Reset(newRun bool) {
	t.Stop()
	if newRun {
		if t.elapsed > 0 {
			cpu := Invalid
			if t.cpuValid {
				cpu = t.elapsedCPU
			}
			t.runs = append(t.runs, t.elapsed)
			t.cpuRuns = append(t.cpuRuns, cpu)
		}
	} else {
		t.runs = nil
		t.cpuRuns = nil
	}
	t.elapsed = 0
	t.elapsedCPU = 0
	t.cpuValid = true
	t.cpuInnerValid = true
}

// ElapsedTime returns the wall time of the current run in nanoseconds,
// including the live segment if the timer is running. The live segment is
// not bias corrected.
func (t *Timer) ElapsedTime() int64 {
	result := t.elapsed
	if t.running {
		result += clamp(t.sampler.Wall() - t.wallStart.Inner)
	}
	return result
}

// ElapsedCPUTime returns the CPU time of the current run in nanoseconds or
// Invalid if CPU time could not be measured.
func (t *Timer) ElapsedCPUTime() int64 {
	if !t.cpuValid {
		return Invalid
	}
	result := t.elapsedCPU
	if t.running {
		now, err := t.sampler.CPU()
		if err != nil {
			return Invalid
		}
		result += clamp(now - t.cpuStart.Outer)
	}
	return result
}

// RunTimes returns the committed wall times plus the current run if it has
// measured anything.
func (t *Timer) RunTimes() []int64 {
	runs, _ := t.history()
	return runs
}

// CPURunTimes returns the CPU times parallel to RunTimes.
func (t *Timer) CPURunTimes() []int64 {
	_, cpuRuns := t.history()
	return cpuRuns
}

// Close ends the timer's life: it stops a running measurement and prints the
// report if PrintOnClose was set. Output errors are ignored. Close is
// idempotent and always returns nil.
func (t *Timer) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	t.Stop()
	if t.printOnClose {
		_, _ = fmt.Fprintln(t.out, t.String())
	}
	return nil
}

func (t *Timer) history() (runs, cpuRuns []int64) {
	runs = append(make([]int64, 0, len(t.runs)+1), t.runs...)
	cpuRuns = append(make([]int64, 0, len(t.cpuRuns)+1), t.cpuRuns...)
	if live := t.ElapsedTime(); live != 0 {
		runs = append(runs, live)
		cpuRuns = append(cpuRuns, t.ElapsedCPUTime())
	}
	return runs, cpuRuns
}

func (t *Timer) disableCPU(err error) {
	t.cpuValid = false
	if t.sampler.Source() == clock.SourceNone {
		return
	}
	t.logger.Debug("cpu clock unavailable, skipping cpu time for this run",
		"timer", t.name, "source", t.sampler.Source().String(), "error", err)
}

func (t *Timer) cpuLabel() string {
	if t.sampler.Source() == clock.SourceThread {
		return "Thread"
	}
	return "CPU"
}
