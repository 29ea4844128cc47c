package timer

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/MeKo-Tech/timeit/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRenderNoRuns(t *testing.T) {
	got := render("idle", nil, nil, Auto, "Thread")
	assert.Equal(t, "[Timer: idle] 0 run(s) took: no time at all.", got)
}

func TestRenderSingleRun(t *testing.T) {
	got := render("render", []int64{1_500_000}, []int64{1_200_000}, Auto, "Thread")
	assert.Equal(t, "[Timer: render] 1 run(s) took: 1500.000us (Thread: 1200.000us).", got)

	got = render("render", []int64{1_500_000}, []int64{Invalid}, Milliseconds, "CPU")
	assert.Equal(t, "[Timer: render] 1 run(s) took: 1.500ms.", got)
}

func TestRenderMultipleRuns(t *testing.T) {
	got := render("loop", []int64{100, 200, 300}, []int64{50, 60, 70}, Nanoseconds, "Thread")
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 4)

	assert.Equal(t, "[Timer: loop] 3 run(s) took: ", lines[0])
	assert.Equal(t,
		"  Type             Mean (+/- stddev)                Longest         Shortest          Sum       ",
		lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "  Real  "))
	assert.Contains(t, lines[2], "200ns +- 100ns")
	assert.Contains(t, lines[2], "300ns")
	assert.Contains(t, lines[2], "100ns")
	assert.Contains(t, lines[2], "600ns")
	assert.True(t, strings.HasPrefix(lines[3], " Thread "))
	assert.Contains(t, lines[3], "60ns +- 10ns")
	assert.NotContains(t, got, "Warning")
}

func TestRenderWarnsAboutInvalidCPURuns(t *testing.T) {
	got := render("partial", []int64{100, 200, 300}, []int64{50, Invalid, 70}, Nanoseconds, "CPU")

	assert.Contains(t, got, "\n  CPU   ")
	assert.Contains(t, got, "60ns +- 14ns")
	assert.Contains(t, got, "120ns")
	assert.True(t, strings.HasSuffix(got, "Warning: Only 2 of 3 had valid times!"))
}

func TestRenderNoValidCPURuns(t *testing.T) {
	got := render("nocpu", []int64{100, 200}, []int64{Invalid, Invalid}, Auto, "CPU")
	assert.True(t, strings.HasSuffix(got, "no valid times"))
}

func TestPadCentersAndToleratesLongText(t *testing.T) {
	var b strings.Builder
	pad(&b, "ab", 6)
	assert.Equal(t, "  ab  ", b.String())

	b.Reset()
	pad(&b, "toolong", 3)
	assert.Equal(t, "toolong", b.String())
}

func TestTimerStringAndSummary(t *testing.T) {
	s := clock.NewScripted(clock.SourceNone, []int64{
		0, 1, 102, 103,
		200, 201, 402, 403,
	}, nil)
	cfg := DefaultConfig("summary")
	cfg.Autostart = false
	cfg.Sampler = s
	cfg.Unit = Nanoseconds
	tm := MustNew(cfg)

	for range 2 {
		b := tm.Block()
		b.End()
	}

	report := tm.String()
	assert.Contains(t, report, "[Timer: summary] 2 run(s) took:")
	assert.Contains(t, report, "150ns +- 71ns")

	sum := tm.Summary()
	assert.Equal(t, "summary", sum.Name)
	assert.Equal(t, "ns", sum.Unit)
	assert.Equal(t, "none", sum.CPUSource)
	assert.Equal(t, 2, sum.Runs)
	assert.Equal(t, []int64{100, 200}, sum.WallRuns)

	data, err := json.Marshal(sum)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"wall_runs_ns":[100,200]`)

	out, err := yaml.Marshal(sum)
	require.NoError(t, err)
	assert.Contains(t, string(out), "cpu_source: none")
}
