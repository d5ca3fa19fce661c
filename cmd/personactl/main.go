// Command personactl drives the persona pipeline from a terminal: generate a
// batch, filter it and write the exports, or delete everything on the
// service.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/BerylCAtieno/persona-studio/internal/config"
	"github.com/BerylCAtieno/persona-studio/internal/gateway"
	"github.com/BerylCAtieno/persona-studio/internal/logger"
)

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	configPath string
	serviceURL string
	timeout    time.Duration
	verbose    bool

	cfg *config.Config
	log *logger.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "personactl",
		Short: "Generate, filter and export synthetic personas",
		Long: `personactl talks to the persona generation service directly.

Available subcommands:
  generate   - Generate personas, filter them and write CSV/XLSX exports
  delete-all - Delete every persona stored by the service`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.log != nil {
				opts.log.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", os.Getenv("CONFIG_FILE"), "TOML config file")
	cmd.PersistentFlags().StringVar(&opts.serviceURL, "service-url", "", "Persona service base URL (overrides config)")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0, "Service request timeout (overrides config)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(newGenerateCmd(opts))
	cmd.AddCommand(newDeleteAllCmd(opts))
	return cmd
}

func (o *rootOptions) init(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.serviceURL != "" {
		cfg.Service.BaseURL = o.serviceURL
	}
	if o.timeout > 0 {
		cfg.Service.Timeout = config.Duration(o.timeout)
	}
	o.cfg = cfg

	if o.verbose {
		if o.log, err = logger.New(cfg.Logging.Mode); err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
	} else {
		o.log = logger.Nop()
	}
	return nil
}

func (o *rootOptions) client() *gateway.Client {
	return gateway.NewClient(o.cfg.Service.BaseURL, o.cfg.Service.Timeout.Duration(), gateway.WithLogger(o.log))
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
