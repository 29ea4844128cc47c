package timer

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
)

// Block measures one run of a timer. It starts the timer when created and
// commits the run when ended:
//
//	b := t.Block()
//	defer b.End()
type Block struct {
	timer *Timer
	ended bool
}

// Block starts t and returns a guard that commits the run on End.
func (t *Timer) Block() *Block {
	t.Start()
	return &Block{timer: t}
}

// End stops the timer and commits the run. Only the first call commits.
func (b *Block) End() {
	b.timer.Stop()
	if b.ended {
		return
	}
	b.ended = true
	b.timer.Reset(true)
}

// Measure runs fn under a temporary timer and prints its report to stderr.
// An empty name is replaced with the caller's file and line.
func Measure(name string, fn func()) {
	cfg := DefaultConfig(callerName(name))
	if err := MeasureWith(cfg, fn); err != nil {
		slog.Default().Warn("measurement skipped", "timer", cfg.Name, "error", err)
	}
}

// MeasureValue is like Measure for functions returning a value.
func MeasureValue[T any](name string, fn func() T) T {
	var result T
	cfg := DefaultConfig(callerName(name))
	if err := MeasureWith(cfg, func() { result = fn() }); err != nil {
		slog.Default().Warn("measurement skipped", "timer", cfg.Name, "error", err)
	}
	return result
}

// MeasureWith runs fn under a timer built from cfg and prints the report when
// fn returns, including by panic. Autostart and PrintOnClose are forced on.
// If the timer cannot be created fn still runs and the error is returned.
func MeasureWith(cfg Config, fn func()) error {
	cfg.Autostart = true
	cfg.PrintOnClose = true
	t, err := New(cfg)
	if err != nil {
		fn()
		return err
	}
	defer func() { _ = t.Close() }()
	fn()
	return nil
}

// callerName returns name or, if empty, the location of the caller's caller.
func callerName(name string) string {
	if name != "" {
		return name
	}
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return "anonymous timer"
	}
	return fmt.Sprintf("anonymous (%s:%d)", filepath.Base(file), line)
}
