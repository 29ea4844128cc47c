package bench

import (
	"fmt"

	"github.com/MeKo-Tech/timeit/internal/timer"
)

// ResidualResult describes the time a timer reports for empty sections.
type ResidualResult struct {
	Samples int `json:"samples" yaml:"samples"`
	// Zero counts sections corrected to exactly zero. They are not committed
	// as runs and so are missing from Summary.
	Zero    int           `json:"zero" yaml:"zero"`
	Summary timer.Summary `json:"summary" yaml:"summary"`
}

// Residual times samples empty sections with a timer built from template.
// An unbiased timer reports a mean near zero.
func Residual(template timer.Config, samples int) (ResidualResult, error) {
	if samples <= 0 {
		return ResidualResult{}, fmt.Errorf("samples must be positive, got %d", samples)
	}
	template.Name = "empty section"
	template.Autostart = false
	template.PrintOnClose = false

	t, err := timer.New(template)
	if err != nil {
		return ResidualResult{}, err
	}
	defer func() { _ = t.Close() }()

	for range samples {
		t.Start()
		t.Stop()
		t.Reset(true)
	}

	sum := t.Summary()
	return ResidualResult{Samples: samples, Zero: samples - sum.Runs, Summary: sum}, nil
}
