// Package metrics exports timer statistics as Prometheus metrics.
package metrics

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/MeKo-Tech/timeit/internal/timer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Namespace prefixes every metric name.
const Namespace = "timeit"

// Quantiles reported by the wall and CPU summaries.
var Quantiles = []float64{0.5, 0.9, 0.99}

// SummarySource provides timer snapshots, e.g. a *timer.Registry.
type SummarySource interface {
	Summaries() []timer.Summary
}

// Collector implements prometheus.Collector over the timers of a source.
// Values are computed on every scrape.
type Collector struct {
	source SummarySource

	runs       *prometheus.Desc
	wall       *prometheus.Desc
	wallMean   *prometheus.Desc
	wallStdDev *prometheus.Desc
	wallMin    *prometheus.Desc
	wallMax    *prometheus.Desc
	cpu        *prometheus.Desc
	cpuInvalid *prometheus.Desc
}

// NewCollector returns a collector reading from source.
func NewCollector(source SummarySource) *Collector {
	timerLabel := []string{"timer"}
	desc := func(name, help string, labels []string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(Namespace, "", name), help, labels, nil)
	}
	return &Collector{
		source:     source,
		runs:       desc("runs_total", "Number of runs recorded by the timer", timerLabel),
		wall:       desc("wall_seconds", "Bias-corrected wall time per run", timerLabel),
		wallMean:   desc("wall_mean_seconds", "Mean wall time per run", timerLabel),
		wallStdDev: desc("wall_stddev_seconds", "Sample standard deviation of the wall time per run", timerLabel),
		wallMin:    desc("wall_min_seconds", "Shortest wall time of a run", timerLabel),
		wallMax:    desc("wall_max_seconds", "Longest wall time of a run", timerLabel),
		cpu:        desc("cpu_seconds", "Bias-corrected CPU time per run with valid CPU readings", []string{"timer", "source"}),
		cpuInvalid: desc("cpu_invalid_runs", "Runs without a valid CPU time", timerLabel),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.runs
	ch <- c.wall
	ch <- c.wallMean
	ch <- c.wallStdDev
	ch <- c.wallMin
	ch <- c.wallMax
	ch <- c.cpu
	ch <- c.cpuInvalid
}

// Collect implements prometheus.Collector. A timer whose name is not a valid
// label value yields invalid metrics, which Gather reports as an error.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, s := range c.source.Summaries() {
		ch <- constMetric(c.runs, prometheus.CounterValue, float64(s.Runs), s.Name)
		ch <- summary(c.wall, s.Wall, s.WallRuns, s.Name)
		ch <- summary(c.cpu, s.CPU, s.CPURuns, s.Name, s.CPUSource)
		ch <- constMetric(c.cpuInvalid, prometheus.GaugeValue, float64(s.CPU.Total-s.CPU.Count), s.Name)

		if !s.Wall.Valid() {
			continue
		}
		ch <- constMetric(c.wallMean, prometheus.GaugeValue, seconds(s.Wall.Mean), s.Name)
		ch <- constMetric(c.wallStdDev, prometheus.GaugeValue, seconds(s.Wall.StdDev), s.Name)
		ch <- constMetric(c.wallMin, prometheus.GaugeValue, seconds(float64(s.Wall.Min)), s.Name)
		ch <- constMetric(c.wallMax, prometheus.GaugeValue, seconds(float64(s.Wall.Max)), s.Name)
	}
}

// NewRegistry returns a Prometheus registry holding a collector for source.
func NewRegistry(source SummarySource) (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(NewCollector(source)); err != nil {
		return nil, fmt.Errorf("register timer collector: %w", err)
	}
	return reg, nil
}

// Write encodes everything g gathers in the Prometheus text format.
func Write(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

func constMetric(desc *prometheus.Desc, vt prometheus.ValueType, v float64, labels ...string) prometheus.Metric {
	m, err := prometheus.NewConstMetric(desc, vt, v, labels...)
	if err != nil {
		return prometheus.NewInvalidMetric(desc, err)
	}
	return m
}

func summary(desc *prometheus.Desc, stats timer.Stats, runs []int64, labels ...string) prometheus.Metric {
	m, err := prometheus.NewConstSummary(desc,
		uint64(stats.Count), //nolint:gosec // G115: count is never negative
		seconds(float64(stats.Sum)),
		quantiles(runs),
		labels...)
	if err != nil {
		return prometheus.NewInvalidMetric(desc, err)
	}
	return m
}

// quantiles returns nearest-rank quantiles over the valid entries of runs.
func quantiles(runs []int64) map[float64]float64 {
	valid := make([]int64, 0, len(runs))
	for _, r := range runs {
		if r != timer.Invalid {
			valid = append(valid, r)
		}
	}
	out := make(map[float64]float64, len(Quantiles))
	if len(valid) == 0 {
		return out
	}
	sort.Slice(valid, func(i, j int) bool { return valid[i] < valid[j] })
	for _, q := range Quantiles {
		rank := int(math.Ceil(q*float64(len(valid)))) - 1
		rank = min(max(rank, 0), len(valid)-1)
		out[q] = seconds(float64(valid[rank]))
	}
	return out
}

func seconds(ns float64) float64 {
	return ns / 1e9
}
