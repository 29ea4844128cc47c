package timer

import "math"

// Invalid marks a run without a valid CPU measurement.
const Invalid int64 = -1

// Stats summarizes one series of run durations in nanoseconds.
type Stats struct {
	// Total is the number of entries including invalid ones.
	Total int `json:"total" yaml:"total"`
	// Count is the number of valid entries the other fields are computed over.
	Count  int     `json:"count" yaml:"count"`
	Mean   float64 `json:"mean_ns" yaml:"mean_ns"`
	StdDev float64 `json:"stddev_ns" yaml:"stddev_ns"`
	Min    int64   `json:"min_ns" yaml:"min_ns"`
	Max    int64   `json:"max_ns" yaml:"max_ns"`
	Sum    int64   `json:"sum_ns" yaml:"sum_ns"`
}

// Valid reports whether at least one entry was valid.
func (s Stats) Valid() bool {
	return s.Count > 0
}

// Complete reports whether every entry was valid.
func (s Stats) Complete() bool {
	return s.Count == s.Total
}

// ComputeStats aggregates runs, skipping Invalid entries. The standard
// deviation uses the n-1 denominator and is zero for fewer than two entries.
func ComputeStats(runs []int64) Stats {
	s := Stats{Total: len(runs)}
	for _, v := range runs {
		if v == Invalid {
			continue
		}
		if s.Count == 0 || v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
		s.Sum += v
		s.Count++
	}
	if s.Count == 0 {
		return s
	}

	s.Mean = float64(s.Sum) / float64(s.Count)
	if s.Count < 2 {
		return s
	}

	var sq float64
	for _, v := range runs {
		if v == Invalid {
			continue
		}
		d := float64(v) - s.Mean
		sq += d * d
	}
	s.StdDev = math.Sqrt(sq / float64(s.Count-1))
	return s
}
