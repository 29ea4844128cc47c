package cmd

import (
	"fmt"

	"github.com/MeKo-Tech/timeit/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCommand(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and create configuration files",
	}

	var resolved bool
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration as YAML",
		Long: `Print the configuration after merging defaults, the config file,
TIMEIT_* environment variables and flags.

With --resolved the raw settings are printed as they were read, before
decoding into the configuration structure.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if used := a.loader.GetConfigFileUsed(); used != "" {
				_, _ = fmt.Fprintf(out, "# config file: %s\n", used)
			}
			if err := a.cfg.Validate(); err != nil {
				_, _ = fmt.Fprintf(out, "# invalid: %v\n", err)
			}
			var doc any = a.cfg
			if resolved {
				doc = a.loader.GetResolvedConfig()
			}
			data, err := yaml.Marshal(doc)
			if err != nil {
				return fmt.Errorf("encode configuration: %w", err)
			}
			_, err = out.Write(data)
			return err
		},
	}

	showCmd.Flags().BoolVar(&resolved, "resolved", false, "print the raw merged settings")

	initCmd := &cobra.Command{
		Use:   "init [file]",
		Short: "Write a configuration file with the default values",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			written, err := config.GenerateDefaultConfigFile(path)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", written)
			return nil
		},
	}

	pathsCmd := &cobra.Command{
		Use:   "paths",
		Short: "List the directories searched for timeit.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, p := range config.GetConfigSearchPaths() {
				_, _ = fmt.Fprintln(out, p)
			}
			_, _ = fmt.Fprintf(out, "Environment prefix: %s_\n", config.EnvPrefix)
			return nil
		},
	}

	configCmd.AddCommand(showCmd, initCmd, pathsCmd)
	return configCmd
}
