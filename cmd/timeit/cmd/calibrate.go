package cmd

import (
	"fmt"

	"github.com/MeKo-Tech/timeit/internal/bench"
	"github.com/MeKo-Tech/timeit/internal/clock"
	"github.com/MeKo-Tech/timeit/internal/timer"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newCalibrateCommand(a *app) *cobra.Command {
	var samples int

	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Measure clock read overhead and the residual bias of empty sections",
		Long: `Measure how long a single read of each clock takes and how much time the
timer reports for a section that does nothing.

A well corrected timer reports a residual close to zero. Sections corrected
to exactly zero are counted separately because they are not recorded as runs.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.validConfig()
			if err != nil {
				return err
			}
			if samples <= 0 {
				return fmt.Errorf("invalid --samples: %d (must be positive)", samples)
			}

			tmpl, err := cfg.ToTimerConfig()
			if err != nil {
				return err
			}
			tmpl.Logger = a.logger

			overhead := clock.Calibrate(tmpl.Sampler, samples)
			residual, err := bench.Residual(tmpl, samples)
			if err != nil {
				return err
			}

			a.logger.Debug("calibration finished",
				"samples", samples,
				"wall_read_ns", overhead.WallNs,
				"cpu_read_ns", overhead.CPUNs)
			return writeCalibration(cmd, tmpl.Sampler.Source(), tmpl.Unit, overhead, residual)
		},
	}

	cmd.Flags().IntVar(&samples, "samples", 10000, "number of clock reads and empty sections")
	cmd.Flags().String("cpu-clock", "thread", "cpu clock (thread, process, none)")
	cmd.Flags().String("unit", "auto", "time unit (auto, s, ms, us, ns)")
	a.bind(cmd, "timer.cpu_clock", "cpu-clock")
	a.bind(cmd, "timer.unit", "unit")

	return cmd
}

func writeCalibration(cmd *cobra.Command, src clock.Source, unit timer.Unit, o clock.Overhead, r bench.ResidualResult) error {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Calibration over %d samples (cpu clock: %s)\n", o.Samples, src)

	table := tablewriter.NewWriter(out)
	table.Header("Measurement", "Mean", "StdDev", "Longest", "Zero")

	rows := [][]string{
		{"wall clock read", fmt.Sprintf("%.1fns", o.WallNs), "-", "-", "-"},
	}
	if o.CPUNs >= 0 {
		rows = append(rows, []string{"cpu clock read", fmt.Sprintf("%.1fns", o.CPUNs), "-", "-", "-"})
	} else {
		rows = append(rows, []string{"cpu clock read", "unavailable", "-", "-", "-"})
	}
	rows = append(rows,
		residualRow("empty section (real)", r.Summary.Wall, unit, r.Zero, r.Samples),
		residualRow("empty section (cpu)", r.Summary.CPU, unit, -1, r.Samples),
	)

	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func residualRow(label string, s timer.Stats, unit timer.Unit, zero, samples int) []string {
	row := []string{label, "no valid times", "-", "-", "-"}
	if zero >= 0 {
		row[4] = fmt.Sprintf("%d/%d", zero, samples)
	}
	if !s.Valid() {
		return row
	}
	row[1] = timer.FormatDuration(s.Mean, unit)
	row[2] = timer.FormatDuration(s.StdDev, unit)
	row[3] = timer.FormatDuration(float64(s.Max), unit)
	return row
}
