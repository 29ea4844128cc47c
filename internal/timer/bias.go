package timer

// Every boundary of a timed interval is sampled twice back to back. The first
// start sample and the second stop sample form the outer bracket, the second
// start sample and the first stop sample the inner bracket. Assuming every read
// costs the same, the outer span exceeds the inner span by exactly two reads,
// while the inner span still contains one read. Hence
//
//	elapsed = inner - (outer - inner)/2 = 1.5*inner - 0.5*outer
//
// The wall clock brackets the CPU brackets, so the wall span also contains the
// four CPU reads. Their cost is estimated from the CPU drift (outer - inner of
// the CPU spans) and removed from the wall estimate.

// Bracket holds the two back-to-back instants taken at one boundary.
type Bracket struct {
	Outer int64
	Inner int64
}

// Spans returns the inner and outer durations between a start and a stop bracket.
func Spans(start, stop Bracket) (inner, outer int64) {
	return stop.Inner - start.Inner, stop.Outer - start.Outer
}

// Drift returns the sampling overhead contained in the outer span.
func Drift(inner, outer int64) int64 {
	return outer - inner
}

// Correct returns the overhead-corrected duration 1.5*inner - 0.5*outer,
// clamped at zero.
func Correct(inner, outer int64) int64 {
	return clamp(inner + inner/2 - outer/2)
}

// CorrectWall corrects a wall span and additionally removes the cost of the
// four CPU reads nested inside it, estimated as twice the CPU drift.
func CorrectWall(inner, outer, cpuDrift int64) int64 {
	return clamp(inner + inner/2 - outer/2 - 2*cpuDrift)
}

func clamp(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
