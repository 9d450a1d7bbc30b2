package cli

import (
	"fmt"
	"strings"

	"CryptoReportBot/config"

	"github.com/spf13/cobra"
)

type loadFunc func() (*config.Config, error)

func newConfigCmd(load loadFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Generate or validate configuration files",
		Long: `Manage configuration files.

Examples:
  cryptoreport config init -o config.yaml
  cryptoreport config validate -c config.yaml`,
	}

	var output string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.SaveToFile(config.Default(), output); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Created default configuration: %s\n", output)
			fmt.Fprintf(cmd.OutOrStdout(), "\nEdit the file and run with:\n  cryptoreport serve -c %s\n", output)
			return nil
		},
	}
	initCmd.Flags().StringVarP(&output, "output", "o", "config.yaml", "output config file path")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Load and validate the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "✓ Configuration valid")
			fmt.Fprintf(out, "  Symbols: %s\n", strings.Join(cfg.Symbols, ", "))
			fmt.Fprintf(out, "  Scheduler: %s every %s (enabled: %t)\n", cfg.Scheduler.Symbol, cfg.Scheduler.Interval, cfg.Scheduler.Enabled)
			fmt.Fprintf(out, "  Candle store: %s\n", orNone(cfg.Database.Driver))
			fmt.Fprintf(out, "  Cache: %s\n", orNone(cfg.Redis.Addr))
			fmt.Fprintf(out, "  Kafka: %s\n", orNone(strings.Join(cfg.Kafka.Brokers, ",")))
			fmt.Fprintf(out, "  Telegram: %t\n", cfg.Telegram.Token != "")
			return nil
		},
	}

	cmd.AddCommand(initCmd, validateCmd)
	return cmd
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
