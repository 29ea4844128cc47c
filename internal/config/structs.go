package config

// Config represents the complete configuration for the timeit tool. It is
// loaded from configuration files, environment variables and command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Defaults for every timer the tool creates
	Timer TimerConfig `mapstructure:"timer" yaml:"timer" json:"timer"`

	// Settings for the run command
	Run RunConfig `mapstructure:"run" yaml:"run" json:"run"`
}

// TimerConfig contains timer construction settings.
type TimerConfig struct {
	Unit            string `mapstructure:"unit" yaml:"unit" json:"unit"`
	Autostart       bool   `mapstructure:"autostart" yaml:"autostart" json:"autostart"`
	PrintOnClose    bool   `mapstructure:"print_on_close" yaml:"print_on_close" json:"print_on_close"`
	CPUClock        string `mapstructure:"cpu_clock" yaml:"cpu_clock" json:"cpu_clock"`
	DriftCorrection bool   `mapstructure:"drift_correction" yaml:"drift_correction" json:"drift_correction"`
	LockOSThread    bool   `mapstructure:"lock_os_thread" yaml:"lock_os_thread" json:"lock_os_thread"`
}

// RunConfig contains settings for timing external commands.
type RunConfig struct {
	Runs    int    `mapstructure:"runs" yaml:"runs" json:"runs"`
	Warmup  int    `mapstructure:"warmup" yaml:"warmup" json:"warmup"`
	Shell   bool   `mapstructure:"shell" yaml:"shell" json:"shell"`
	Format  string `mapstructure:"format" yaml:"format" json:"format"`
	Metrics bool   `mapstructure:"metrics" yaml:"metrics" json:"metrics"`

	// CPU clock for timed commands; "children" reports the commands' own CPU time
	CPUClock string `mapstructure:"cpu_clock" yaml:"cpu_clock" json:"cpu_clock"`
}
