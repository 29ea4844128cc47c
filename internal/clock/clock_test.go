package clock

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSource(t *testing.T) {
	tests := []struct {
		in      string
		want    Source
		wantErr bool
	}{
		{"thread", SourceThread, false},
		{"", SourceThread, false},
		{"Process", SourceProcess, false},
		{"cpu", SourceProcess, false},
		{"none", SourceNone, false},
		{"off", SourceNone, false},
		{"children", SourceChildren, false},
		{"child", SourceChildren, false},
		{"gpu", SourceNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSource(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSourceString(t *testing.T) {
	assert.Equal(t, "thread", SourceThread.String())
	assert.Equal(t, "process", SourceProcess.String())
	assert.Equal(t, "none", SourceNone.String())
	assert.Equal(t, "children", SourceChildren.String())
	assert.Equal(t, "source(7)", Source(7).String())
}

func TestDefaultSamplerWallIsMonotonic(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)

	prev := s.Wall()
	for range 10_000 {
		now := s.Wall()
		require.GreaterOrEqual(t, now, prev)
		prev = now
	}
}

func TestDefaultSamplerCPU(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("thread cpu clock is only guaranteed on linux")
	}

	s, err := Default()
	require.NoError(t, err)
	assert.Equal(t, SourceThread, s.Source())

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	first, err := s.CPU()
	require.NoError(t, err)

	x := 0
	for i := range 1_000_000 {
		x += i % 7
	}
	_ = x

	second, err := s.CPU()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, second, first)
}

func TestNoneSourceIsUnavailable(t *testing.T) {
	s, err := New(SourceNone)
	require.NoError(t, err)

	_, err = s.CPU()
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, SourceNone, s.Source())
}

func TestTake(t *testing.T) {
	s := NewScripted(SourceThread, []int64{10}, []int64{20, -1})

	first := Take(s)
	assert.Equal(t, Sample{Wall: 10, CPU: 20, CPUValid: true}, first)

	second := Take(s)
	assert.Equal(t, int64(10), second.Wall)
	assert.False(t, second.CPUValid)
}

func TestScriptedRepeatsLastValue(t *testing.T) {
	s := NewScripted(SourceProcess, []int64{1, 2}, []int64{5})

	assert.Equal(t, int64(1), s.Wall())
	assert.Equal(t, int64(2), s.Wall())
	assert.Equal(t, int64(2), s.Wall())

	v, err := s.CPU()
	require.NoError(t, err)
	assert.Equal(t, int64(5), v)
	v, err = s.CPU()
	require.NoError(t, err)
	assert.Equal(t, int64(5), v)

	wall, cpu := s.Remaining()
	assert.Equal(t, 0, wall)
	assert.Equal(t, 0, cpu)
}

func TestScriptedWithoutCPU(t *testing.T) {
	s := NewScripted(SourceThread, []int64{1}, nil)
	_, err := s.CPU()
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestCalibrate(t *testing.T) {
	// One read before the loop, ten in the loop and one after.
	wall := []int64{0}
	for i := 1; i <= 10; i++ {
		wall = append(wall, int64(i*3))
	}
	wall = append(wall, 40)
	// CPU loop: a start and end read around ten CPU calls.
	wall = append(wall, 100, 150)

	s := NewScripted(SourceThread, wall, []int64{1})
	o := Calibrate(s, 10)

	assert.Equal(t, 10, o.Samples)
	assert.InDelta(t, 4.0, o.WallNs, 1e-9)
	assert.InDelta(t, 5.0, o.CPUNs, 1e-9)
}

func TestCalibrateWithoutCPU(t *testing.T) {
	s, err := New(SourceNone)
	require.NoError(t, err)

	o := Calibrate(s, 100)
	assert.GreaterOrEqual(t, o.WallNs, 0.0)
	assert.InDelta(t, -1.0, o.CPUNs, 1e-9)
}
