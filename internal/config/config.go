package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/MeKo-Tech/timeit/internal/clock"
	"github.com/MeKo-Tech/timeit/internal/timer"
)

// Output formats accepted by the run command.
var validFormats = []string{"text", "table", "json", "yaml"}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Verbose:  false,
		Timer: TimerConfig{
			Unit:            timer.Auto.String(),
			Autostart:       true,
			PrintOnClose:    false,
			CPUClock:        clock.SourceThread.String(),
			DriftCorrection: true,
			LockOSThread:    true,
		},
		Run: RunConfig{
			Runs:     10,
			Warmup:   1,
			Shell:    false,
			Format:   "text",
			Metrics:  false,
			CPUClock: clock.SourceChildren.String(),
		},
	}
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	// Validate log level
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	if _, err := timer.ParseUnit(c.Timer.Unit); err != nil {
		return fmt.Errorf("invalid timer.unit: %w", err)
	}
	if _, err := clock.ParseSource(c.Timer.CPUClock); err != nil {
		return fmt.Errorf("invalid timer.cpu_clock: %w", err)
	}

	if c.Run.Runs <= 0 {
		return fmt.Errorf("invalid run.runs: %d (must be positive)", c.Run.Runs)
	}
	if c.Run.Warmup < 0 {
		return fmt.Errorf("invalid run.warmup: %d (must not be negative)", c.Run.Warmup)
	}
	if _, err := clock.ParseSource(c.Run.CPUClock); err != nil {
		return fmt.Errorf("invalid run.cpu_clock: %w", err)
	}
	if !slices.Contains(validFormats, c.Run.Format) {
		return fmt.Errorf("invalid run.format: %s (must be one of: %s)", c.Run.Format, strings.Join(validFormats, ", "))
	}

	return nil
}

// SlogLevel returns the slog level for LogLevel. Verbose forces debug.
func (c *Config) SlogLevel() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ToTimerConfig converts the timer settings into a timer template. The
// returned config has no name and reads the configured CPU clock.
func (c *Config) ToTimerConfig() (timer.Config, error) {
	return c.timerConfig(c.Timer.CPUClock)
}

// ToRunTimerConfig is like ToTimerConfig but reads run.cpu_clock, the clock
// used when timing external commands.
func (c *Config) ToRunTimerConfig() (timer.Config, error) {
	return c.timerConfig(c.Run.CPUClock)
}

func (c *Config) timerConfig(cpuClock string) (timer.Config, error) {
	unit, err := timer.ParseUnit(c.Timer.Unit)
	if err != nil {
		return timer.Config{}, err
	}
	src, err := clock.ParseSource(cpuClock)
	if err != nil {
		return timer.Config{}, err
	}
	sampler, err := clock.New(src)
	if err != nil {
		return timer.Config{}, fmt.Errorf("cpu clock %s: %w", src, err)
	}

	return timer.Config{
		Unit:               unit,
		Autostart:          c.Timer.Autostart,
		PrintOnClose:       c.Timer.PrintOnClose,
		Sampler:            sampler,
		CPUDriftCorrection: c.Timer.DriftCorrection,
		LockOSThread:       c.Timer.LockOSThread,
	}, nil
}
