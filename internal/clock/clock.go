// Package clock provides the time sources used by the timer: a monotonic wall
// clock that is always available and a best-effort CPU clock that reports either
// the calling thread's, the whole process' or the waited-for children's CPU time.
package clock

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrUnavailable is returned by Sampler.CPU when no CPU clock can be read.
	// It is an expected outcome on some platforms, not a failure.
	ErrUnavailable = errors.New("clock: cpu time unavailable")

	// ErrNoMonotonic is returned when no monotonic wall clock can be acquired.
	ErrNoMonotonic = errors.New("clock: no monotonic wall clock")
)

// Source identifies which CPU clock a sampler reads.
type Source int

const (
	// SourceNone disables CPU sampling.
	SourceNone Source = iota
	// SourceThread reads the CPU time of the calling OS thread.
	SourceThread
	// SourceProcess reads the CPU time of the whole process.
	SourceProcess
	// SourceChildren reads the accumulated CPU time of terminated child
	// processes that have been waited for.
	SourceChildren
)

// String returns the configuration name of the source.
func (s Source) String() string {
	switch s {
	case SourceNone:
		return "none"
	case SourceThread:
		return "thread"
	case SourceProcess:
		return "process"
	case SourceChildren:
		return "children"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

// ParseSource converts a configuration value into a Source.
func ParseSource(name string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "thread":
		return SourceThread, nil
	case "process", "cpu":
		return SourceProcess, nil
	case "children", "child":
		return SourceChildren, nil
	case "none", "off":
		return SourceNone, nil
	default:
		return SourceNone, fmt.Errorf("unknown cpu clock %q (valid: thread, process, children, none)", name)
	}
}

// Sampler reads the current instants of the wall and CPU clocks.
// All values are nanoseconds since a source-specific epoch, so only
// differences between two readings of the same source are meaningful.
type Sampler interface {
	// Wall returns the monotonic wall clock. It never fails.
	Wall() int64
	// CPU returns the CPU clock or ErrUnavailable.
	CPU() (int64, error)
	// Source reports which CPU clock CPU reads.
	Source() Source
}

// Sample is a single reading of both clocks.
type Sample struct {
	Wall     int64
	CPU      int64
	CPUValid bool
}

// Take reads the wall clock and then the CPU clock of s.
func Take(s Sampler) Sample {
	sample := Sample{Wall: s.Wall()}
	if cpu, err := s.CPU(); err == nil {
		sample.CPU = cpu
		sample.CPUValid = true
	}
	return sample
}

// Default returns the platform sampler with a thread CPU clock, falling back
// to the process clock where threads cannot be measured.
func Default() (Sampler, error) {
	return New(SourceThread)
}

// epoch anchors wall readings; time.Since uses the runtime's monotonic clock.
var epoch = time.Now()

func wallNow() int64 {
	return int64(time.Since(epoch))
}

type noCPU struct{}

func (noCPU) Wall() int64         { return wallNow() }
func (noCPU) CPU() (int64, error) { return 0, ErrUnavailable }
func (noCPU) Source() Source      { return SourceNone }
