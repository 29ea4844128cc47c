package clock

import "runtime"

// Overhead is the measured mean cost of a single clock read.
type Overhead struct {
	Samples int
	// WallNs is the mean duration of one Wall call in nanoseconds.
	WallNs float64
	// CPUNs is the mean duration of one CPU call, or -1 when CPU time is unavailable.
	CPUNs float64
}

// Calibrate measures the cost of reading the clocks of s by timing n
// back-to-back reads of each. A thread clock is read from one OS thread.
func Calibrate(s Sampler, n int) Overhead {
	if n <= 0 {
		n = 1
	}
	if s.Source() == SourceThread {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
	}
	o := Overhead{Samples: n, CPUNs: -1}

	start := s.Wall()
	for range n {
		s.Wall()
	}
	o.WallNs = float64(s.Wall()-start) / float64(n)

	if _, err := s.CPU(); err != nil {
		return o
	}
	start = s.Wall()
	for range n {
		if _, err := s.CPU(); err != nil {
			return o
		}
	}
	o.CPUNs = float64(s.Wall()-start) / float64(n)
	return o
}
