package cli

import (
	"CryptoReportBot/config"

	"github.com/spf13/cobra"
)

// NewRootCommand assembles the command tree.
func NewRootCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cryptoreport",
		Short: "Multi-timeframe crypto analysis reports",
		Long: `cryptoreport fetches 15m, 1h, 4h and 1d candles from Binance Futures and
turns them into a fixed-format analysis report: anchor candle, trade matrix,
key levels, technical signals, sentiment, market drivers and risk notes.

Reports are advisory only. Nothing here places orders.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	load := func() (*config.Config, error) {
		return config.Load(configPath)
	}

	cmd.AddCommand(
		newServeCmd(load),
		newAnalyzeCmd(load),
		newConfigCmd(load),
	)

	return cmd
}

// Execute runs the root command with the process arguments.
func Execute() error {
	return NewRootCommand().Execute()
}
