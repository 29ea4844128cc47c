package timer

import (
	"fmt"
	"strings"
)

// Column widths of the multi-run table.
const (
	typeWidth  = 8
	meanWidth  = 40
	valueWidth = 16
)

// Summary is a machine-readable snapshot of a timer.
type Summary struct {
	Name      string  `json:"name" yaml:"name"`
	Unit      string  `json:"unit" yaml:"unit"`
	Running   bool    `json:"running" yaml:"running"`
	Runs      int     `json:"runs" yaml:"runs"`
	CPUSource string  `json:"cpu_source" yaml:"cpu_source"`
	Wall      Stats   `json:"wall" yaml:"wall"`
	CPU       Stats   `json:"cpu" yaml:"cpu"`
	WallRuns  []int64 `json:"wall_runs_ns" yaml:"wall_runs_ns"`
	CPURuns   []int64 `json:"cpu_runs_ns" yaml:"cpu_runs_ns"`
}

// Summary returns statistics over the run history including the current run.
func (t *Timer) Summary() Summary {
	runs, cpuRuns := t.history()
	return Summary{
		Name:      t.name,
		Unit:      t.unit.String(),
		Running:   t.running,
		Runs:      len(runs),
		CPUSource: t.sampler.Source().String(),
		Wall:      ComputeStats(runs),
		CPU:       ComputeStats(cpuRuns),
		WallRuns:  runs,
		CPURuns:   cpuRuns,
	}
}

// String renders the report: a single sentence for zero or one run, a table
// of mean, standard deviation, longest, shortest and sum otherwise.
func (t *Timer) String() string {
	runs, cpuRuns := t.history()
	return render(t.name, runs, cpuRuns, t.unit, t.cpuLabel())
}

func render(name string, runs, cpuRuns []int64, unit Unit, cpuLabel string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[Timer: %s] %d run(s) took: ", name, len(runs))

	switch len(runs) {
	case 0:
		b.WriteString("no time at all.")
	case 1:
		b.WriteString(FormatDuration(float64(runs[0]), unit))
		if len(cpuRuns) > 0 && cpuRuns[0] != Invalid {
			fmt.Fprintf(&b, " (%s: %s)", cpuLabel, FormatDuration(float64(cpuRuns[0]), unit))
		}
		b.WriteByte('.')
	default:
		b.WriteByte('\n')
		pad(&b, "Type", typeWidth)
		pad(&b, "Mean (+/- stddev)", meanWidth)
		pad(&b, "Longest", valueWidth)
		pad(&b, "Shortest", valueWidth)
		pad(&b, "Sum", valueWidth)
		b.WriteByte('\n')
		pad(&b, "Real", typeWidth)
		writeStats(&b, ComputeStats(runs), unit)
		b.WriteByte('\n')
		pad(&b, cpuLabel, typeWidth)
		writeStats(&b, ComputeStats(cpuRuns), unit)
	}
	return b.String()
}

func writeStats(b *strings.Builder, s Stats, unit Unit) {
	if !s.Valid() {
		b.WriteString("no valid times")
		return
	}
	mean := FormatDuration(s.Mean, unit) + " +- " + FormatDuration(s.StdDev, unit)
	pad(b, mean, meanWidth)
	pad(b, FormatDuration(float64(s.Max), unit), valueWidth)
	pad(b, FormatDuration(float64(s.Min), unit), valueWidth)
	pad(b, FormatDuration(float64(s.Sum), unit), valueWidth)
	if !s.Complete() {
		fmt.Fprintf(b, "\nWarning: Only %d of %d had valid times!", s.Count, s.Total)
	}
}

// pad centers text in a field of the given width.
func pad(b *strings.Builder, text string, width int) {
	left := 0
	if width > len(text) {
		left = (width - len(text)) / 2
	}
	b.WriteString(strings.Repeat(" ", left))
	b.WriteString(text)
	if right := width - left - len(text); right > 0 {
		b.WriteString(strings.Repeat(" ", right))
	}
}
