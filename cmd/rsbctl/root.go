package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Chapsvision-dev/rsbctl/internal/config"
	"github.com/Chapsvision-dev/rsbctl/internal/logx"
	"github.com/Chapsvision-dev/rsbctl/internal/output"
	"github.com/Chapsvision-dev/rsbctl/internal/version"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configFile string
	logLevel   string
	logFormat  string
	output     string
}

// config loads the configuration and applies the --output override.
func (o *globalOptions) config() (config.Config, error) {
	cfg, err := loadConfig(o.configFile)
	if err != nil {
		return config.Config{}, err
	}
	if o.output != "" {
		cfg.Output = o.output
	}
	return cfg, nil
}

// format is the output format for commands that do not load the config.
func (o *globalOptions) format() string {
	if o.output != "" {
		return o.output
	}
	return output.FormatTable
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:           "rsbctl",
		Short:         "Recovery Services backup item-level recovery tool",
		Long:          "rsbctl provisions and revokes file-level access to Azure Backup recovery points\nand lists VM image offers.",
		Version:       version.Info(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("log-level") || cmd.Flags().Changed("log-format") {
				logx.Init(opts.logLevel, opts.logFormat)
			}
			switch opts.output {
			case "", output.FormatJSON, output.FormatYAML, output.FormatTable:
				return nil
			default:
				return usageError{fmt.Errorf("unsupported output format %q (json|yaml|table)", opts.output)}
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return usageError{fmt.Errorf("a command is required")}
		},
	}
	root.SetVersionTemplate("rsbctl {{.Version}}\n")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "config file (yaml or json); environment variables take precedence")
	pf.StringVar(&opts.logLevel, "log-level", envOr("LOG_LEVEL", "info"), "log level: trace|debug|info|warn|error")
	pf.StringVar(&opts.logFormat, "log-format", envOr("LOG_FORMAT", "console"), "log format: json|console")
	pf.StringVarP(&opts.output, "output", "o", "", "output format: json|yaml|table (default from RSB_OUTPUT)")

	root.AddCommand(
		newMountScriptCmd(opts),
		newImageOffersCmd(opts),
		newProvidersCmd(opts),
		newVersionCmd(),
	)
	return root
}

// rangeArgs wraps cobra.RangeArgs so arity errors exit as usage errors.
func rangeArgs(minArgs, maxArgs int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.RangeArgs(minArgs, maxArgs)(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
