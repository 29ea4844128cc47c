package timer

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/MeKo-Tech/timeit/internal/clock"
	"github.com/MeKo-Tech/timeit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockCommitsOnce(t *testing.T) {
	tm, _ := scriptedTimer(t, clock.SourceNone, []int64{0, 1, 102, 103, 500, 501}, nil)

	b := tm.Block()
	assert.True(t, tm.Running())
	b.End()
	b.End()

	assert.False(t, tm.Running())
	assert.Equal(t, []int64{100}, tm.RunTimes())
}

func TestBlockWithDefer(t *testing.T) {
	tm, _ := scriptedTimer(t, clock.SourceNone, []int64{
		0, 1, 102, 103,
		200, 201, 402, 403,
	}, nil)

	section := func() {
		b := tm.Block()
		defer b.End()
	}
	section()
	section()

	assert.Equal(t, []int64{100, 200}, tm.RunTimes())
}

func TestBlockOnRunningTimerKeepsStart(t *testing.T) {
	tm, _ := scriptedTimer(t, clock.SourceNone, []int64{0, 1, 102, 103}, nil)

	tm.Start()
	b := tm.Block()
	b.End()

	assert.Equal(t, []int64{100}, tm.RunTimes())
}

func TestMeasureWithPrintsReport(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig("op")
	cfg.Output = &buf

	err := MeasureWith(cfg, func() { testutil.BusyWait(time.Millisecond) })
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(buf.String(), "[Timer: op] 1 run(s) took: "))
}

func TestMeasureWithPrintsOnPanic(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig("boom")
	cfg.Output = &buf

	assert.Panics(t, func() {
		_ = MeasureWith(cfg, func() {
			testutil.BusyWait(time.Millisecond)
			panic("boom")
		})
	})
	assert.Contains(t, buf.String(), "[Timer: boom]")
}

func TestMeasureWithInvalidConfigStillRuns(t *testing.T) {
	ran := false
	err := MeasureWith(Config{}, func() { ran = true })

	assert.ErrorIs(t, err, ErrNoName)
	assert.True(t, ran)
}

func TestMeasureValueReturnsResult(t *testing.T) {
	got := MeasureValue("answer", func() int { return 42 })
	assert.Equal(t, 42, got)
}

func TestMeasureRunsFunction(t *testing.T) {
	calls := 0
	Measure("", func() { calls++ })
	assert.Equal(t, 1, calls)
}

func TestCallerName(t *testing.T) {
	assert.Equal(t, "named", callerName("named"))

	anonymous := func() string { return callerName("") }
	assert.Contains(t, anonymous(), "block_test.go:")
	assert.True(t, strings.HasPrefix(anonymous(), "anonymous ("))
}
