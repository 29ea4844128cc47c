package timer

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
)

// Registry holds named timers for call sites that want to reuse one timer
// across invocations, e.g. a function timed every time it is called.
//
// The caller owns the registry: create it before the first Get and Close it
// after the last use. Nothing is registered implicitly. The registry is safe
// for concurrent use, the timers it returns are not; each must stay confined
// to one goroutine. Methods that read timers (Summaries, Report, Close) must
// not race with measurements in progress.
type Registry struct {
	mu       sync.Mutex
	template Config
	timers   map[string]*Timer
	logger   *slog.Logger
}

// NewRegistry returns an empty registry creating timers from template.
// The template's Name is ignored.
func NewRegistry(template Config) *Registry {
	logger := template.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		template: template,
		timers:   make(map[string]*Timer),
		logger:   logger,
	}
}

// Get returns the timer registered under name, creating it on first use.
func (r *Registry) Get(name string) (*Timer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.timers[name]; ok {
		return t, nil
	}

	cfg := r.template
	cfg.Name = name
	t, err := New(cfg)
	if err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	r.timers[name] = t
	r.logger.Debug("timer registered", "timer", name, "cpu_source", t.CPUSource().String())
	return t, nil
}

// MustGet is like Get but panics on error.
func (r *Registry) MustGet(name string) *Timer {
	t, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the timer registered under name without creating it.
func (r *Registry) Lookup(name string) (*Timer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.timers[name]
	return t, ok
}

// Len returns the number of registered timers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.timers)
}

// Timers returns all registered timers sorted by name.
func (r *Registry) Timers() []*Timer {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Timer, 0, len(r.timers))
	for _, t := range r.timers {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Summaries returns the summary of every timer sorted by name.
func (r *Registry) Summaries() []Summary {
	timers := r.Timers()
	out := make([]Summary, 0, len(timers))
	for _, t := range timers {
		out = append(out, t.Summary())
	}
	return out
}

// Report writes the report of every timer, one per line block.
func (r *Registry) Report(w io.Writer) error {
	for _, t := range r.Timers() {
		if _, err := fmt.Fprintln(w, t.String()); err != nil {
			return fmt.Errorf("write report for %q: %w", t.name, err)
		}
	}
	return nil
}

// Close closes every timer in name order and empties the registry.
func (r *Registry) Close() error {
	for _, t := range r.Timers() {
		_ = t.Close()
	}
	r.mu.Lock()
	r.timers = make(map[string]*Timer)
	r.mu.Unlock()
	return nil
}
