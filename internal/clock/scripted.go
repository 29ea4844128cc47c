package clock

// Scripted replays fixed sequences of instants. It lets timer logic be tested
// against exact clock readings. A negative CPU entry is reported as
// ErrUnavailable. Once a script is exhausted its last value is repeated.
type Scripted struct {
	wall   []int64
	cpu    []int64
	source Source

	wallPos int
	cpuPos  int
}

// NewScripted returns a sampler that yields wall and cpu in order.
func NewScripted(src Source, wall, cpu []int64) *Scripted {
	return &Scripted{wall: wall, cpu: cpu, source: src}
}

// Wall returns the next scripted wall instant.
func (s *Scripted) Wall() int64 {
	return next(s.wall, &s.wallPos)
}

// CPU returns the next scripted CPU instant.
func (s *Scripted) CPU() (int64, error) {
	if s.source == SourceNone || len(s.cpu) == 0 {
		return 0, ErrUnavailable
	}
	v := next(s.cpu, &s.cpuPos)
	if v < 0 {
		return 0, ErrUnavailable
	}
	return v, nil
}

// Source returns the source the script pretends to be.
func (s *Scripted) Source() Source {
	return s.source
}

// Remaining reports how many wall and CPU readings are left before the script repeats.
func (s *Scripted) Remaining() (wall, cpu int) {
	return len(s.wall) - s.wallPos, len(s.cpu) - s.cpuPos
}

func next(values []int64, pos *int) int64 {
	if len(values) == 0 {
		return 0
	}
	if *pos >= len(values) {
		return values[len(values)-1]
	}
	v := values[*pos]
	*pos++
	return v
}
