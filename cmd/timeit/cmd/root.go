package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/MeKo-Tech/timeit/internal/config"
	"github.com/MeKo-Tech/timeit/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app holds the state shared by the commands of one root command.
type app struct {
	v       *viper.Viper
	loader  *config.Loader
	cfg     *config.Config
	cfgFile string
	logger  *slog.Logger

	// bindings maps config keys to flag names per command. Several commands
	// share keys, so only the executing command's flags are bound.
	bindings map[*cobra.Command]map[string]string
}

// NewRootCommand builds the timeit command tree. Every call returns an
// independent tree with its own configuration state.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New(), bindings: make(map[*cobra.Command]map[string]string)}
	a.loader = config.NewLoaderWithViper(a.v)

	rootCmd := &cobra.Command{
		Use:   "timeit",
		Short: "Precise wall and CPU timing of commands and code sections",
		Long: `timeit measures how long commands take over repeated runs.

Every start and stop samples each clock twice so the cost of reading the clocks
cancels out. Wall time comes from the monotonic clock, CPU time from the thread
or process CPU clock where the platform provides one.

Examples:
  timeit run -- sleep 0.1
  timeit run --runs 20 --format table -c 'gzip -k -f big.log'
  timeit calibrate
  timeit config init`,
		Version:           version.String(),
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	// Global flags that apply to all commands
	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "",
		"config file (default is search in ., $HOME, $XDG_CONFIG_HOME/timeit, $HOME/.config/timeit, /etc/timeit)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (equivalent to --log-level=debug)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	_ = a.v.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = a.v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(
		newRunCommand(a),
		newCalibrateCommand(a),
		newConfigCommand(a),
		newVersionCommand(),
	)
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the configuration and installs the structured logger. Values
// are not validated here so that config subcommands work with a broken file.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	for key, name := range a.bindings[cmd] {
		if err := a.v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}

	cfg, err := a.loader.LoadWithFileWithoutValidation(a.cfgFile)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	a.cfg = cfg

	// Logs go to stderr so reports on stdout stay machine readable.
	a.logger = slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(a.logger)

	a.logger.Debug("configuration loaded",
		"file", a.loader.GetConfigFileUsed(),
		"command", cmd.CommandPath())
	return nil
}

// bind records that flag name of cmd overrides the config key.
func (a *app) bind(cmd *cobra.Command, key, name string) {
	if a.bindings[cmd] == nil {
		a.bindings[cmd] = make(map[string]string)
	}
	a.bindings[cmd][key] = name
}

// validConfig returns the loaded configuration after validating it.
func (a *app) validConfig() (*config.Config, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return a.cfg, nil
}
