package timer

import (
	"fmt"
	"math"
	"strings"
)

// Unit selects how durations are rendered in reports.
type Unit int

const (
	// Auto picks a unit per value so the magnitude stays readable.
	Auto Unit = iota
	Seconds
	Milliseconds
	Microseconds
	Nanoseconds
)

// Auto switches to the next coarser unit once a value reaches five of it.
const (
	autoMicroThreshold  = 5_000
	autoMilliThreshold  = 5_000_000
	autoSecondThreshold = 5_000_000_000
)

func (u Unit) String() string {
	switch u {
	case Auto:
		return "auto"
	case Seconds:
		return "s"
	case Milliseconds:
		return "ms"
	case Microseconds:
		return "us"
	case Nanoseconds:
		return "ns"
	default:
		return fmt.Sprintf("unit(%d)", int(u))
	}
}

// ParseUnit converts a unit name such as "ms" or "milliseconds".
func ParseUnit(name string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto", "default":
		return Auto, nil
	case "s", "sec", "second", "seconds":
		return Seconds, nil
	case "ms", "millisecond", "milliseconds":
		return Milliseconds, nil
	case "us", "µs", "microsecond", "microseconds":
		return Microseconds, nil
	case "ns", "nanosecond", "nanoseconds":
		return Nanoseconds, nil
	default:
		return Auto, fmt.Errorf("unknown time unit %q (valid: auto, s, ms, us, ns)", name)
	}
}

// Resolve returns the concrete unit used for ns. Non-auto units resolve to themselves.
func (u Unit) Resolve(ns float64) Unit {
	if u != Auto {
		return u
	}
	abs := math.Abs(ns)
	switch {
	case abs < autoMicroThreshold:
		return Nanoseconds
	case abs < autoMilliThreshold:
		return Microseconds
	case abs < autoSecondThreshold:
		return Milliseconds
	default:
		return Seconds
	}
}

// FormatDuration renders ns nanoseconds in unit u. Nanoseconds are printed as
// integers, all other units with three decimals.
func FormatDuration(ns float64, u Unit) string {
	switch u.Resolve(ns) {
	case Seconds:
		return fmt.Sprintf("%.3fs", ns/1e9)
	case Milliseconds:
		return fmt.Sprintf("%.3fms", ns/1e6)
	case Microseconds:
		return fmt.Sprintf("%.3fus", ns/1e3)
	default:
		return fmt.Sprintf("%.0fns", ns)
	}
}
