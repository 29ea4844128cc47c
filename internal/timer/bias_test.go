package timer

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestSpans(t *testing.T) {
	inner, outer := Spans(Bracket{Outer: 10, Inner: 12}, Bracket{Inner: 112, Outer: 115})
	assert.Equal(t, int64(100), inner)
	assert.Equal(t, int64(105), outer)
	assert.Equal(t, int64(5), Drift(inner, outer))
}

func TestCorrect(t *testing.T) {
	tests := []struct {
		name         string
		inner, outer int64
		want         int64
	}{
		{"no overhead", 100, 100, 100},
		{"two reads of overhead", 100, 104, 98},
		{"odd spans", 101, 103, 100},
		{"outer much larger clamps", 10, 100, 0},
		{"zero", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Correct(tt.inner, tt.outer))
		})
	}
}

func TestCorrectWall(t *testing.T) {
	assert.Equal(t, int64(96), CorrectWall(100, 104, 1))
	assert.Equal(t, int64(98), CorrectWall(100, 104, 0))
	assert.Equal(t, int64(0), CorrectWall(100, 104, 1_000))
}

// genSpan generates inner/outer spans where the outer span is at least the
// inner one, as produced by nested brackets on a monotonic clock.
func genSpan() gopter.Gen {
	return gopter.CombineGens(
		gen.Int64Range(0, 1_000_000_000),
		gen.Int64Range(0, 10_000),
	).Map(func(vals []interface{}) [2]int64 {
		inner, ok := vals[0].(int64)
		if !ok {
			panic("expected int64")
		}
		overhead, ok := vals[1].(int64)
		if !ok {
			panic("expected int64")
		}
		return [2]int64{inner, inner + overhead}
	})
}

func TestCorrect_NeverNegative(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("corrected duration is non-negative for arbitrary spans", prop.ForAll(
		func(inner, outer int64) bool {
			return Correct(inner, outer) >= 0
		},
		gen.Int64Range(-1_000_000, 1_000_000),
		gen.Int64Range(-1_000_000, 1_000_000),
	))

	properties.Property("corrected wall duration is non-negative for arbitrary drift", prop.ForAll(
		func(inner, outer, drift int64) bool {
			return CorrectWall(inner, outer, drift) >= 0
		},
		gen.Int64Range(-1_000_000, 1_000_000),
		gen.Int64Range(-1_000_000, 1_000_000),
		gen.Int64Range(-1_000, 1_000),
	))

	properties.TestingRun(t)
}

func TestCorrect_RemovesOverhead(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("corrected duration never exceeds the inner span", prop.ForAll(
		func(span [2]int64) bool {
			return Correct(span[0], span[1]) <= span[0]
		},
		genSpan(),
	))

	properties.Property("corrected duration is within one overhead of the inner span", prop.ForAll(
		func(span [2]int64) bool {
			got := Correct(span[0], span[1])
			overhead := span[1] - span[0]
			return span[0]-got <= overhead/2+1
		},
		genSpan(),
	))

	properties.TestingRun(t)
}
