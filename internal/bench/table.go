package bench

import (
	"fmt"
	"io"

	"github.com/MeKo-Tech/timeit/internal/timer"
	"github.com/olekukonko/tablewriter"
)

// WriteTable renders results as a comparison table with one row per benchmark.
func WriteTable(w io.Writer, results []Result, unit timer.Unit) error {
	table := tablewriter.NewWriter(w)
	table.Header("Benchmark", "Runs", "Mean", "StdDev", "Shortest", "Longest", "CPU Mean", "Mem", "Status")

	for _, r := range results {
		row := []string{r.Name, fmt.Sprintf("%d", r.Iterations), "-", "-", "-", "-", "-", "-", "ok"}
		if wall := r.Summary.Wall; wall.Valid() {
			row[2] = timer.FormatDuration(wall.Mean, unit)
			row[3] = timer.FormatDuration(wall.StdDev, unit)
			row[4] = timer.FormatDuration(float64(wall.Min), unit)
			row[5] = timer.FormatDuration(float64(wall.Max), unit)
			row[7] = fmt.Sprintf("%+d KB", r.MemoryAfter.AllocDelta(r.MemoryBefore)/1024)
		}
		if cpu := r.Summary.CPU; cpu.Valid() {
			row[6] = timer.FormatDuration(cpu.Mean, unit)
			if !cpu.Complete() {
				row[6] += fmt.Sprintf(" (%d/%d)", cpu.Count, cpu.Total)
			}
		}
		if r.Error != nil {
			row[8] = "error: " + r.Error.Error()
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("append row %q: %w", r.Name, err)
		}
	}

	return table.Render()
}
