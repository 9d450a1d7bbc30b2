package cli

import (
	"encoding/json"
	"fmt"

	"CryptoReportBot/internal/handlers"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd(load loadFunc) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze [SYMBOL]",
		Short: "Generate one report and print it",
		Long: `Fetch all timeframes for SYMBOL (default: the scheduler symbol) and print
the report. Symbols may be written as eth, ETH/USDT or ETHUSDT.

Example:
  cryptoreport analyze btc`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			logger, err := NewLogger(cfg.Logging)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			symbol := cfg.Scheduler.Symbol
			if len(args) == 1 {
				symbol = args[0]
			}

			provider, closeCache := withCache(cmd.Context(), cfg.Redis, newLiveProvider(cfg.Exchange, logger), logger)
			defer closeCache()

			analyzer := handlers.NewAnalysisHandler(provider, cfg.Analysis, cfg.Symbols, cfg.Exchange.CandleLimit, cfg.Scheduler.FetchTimeout, logger)
			r, text, err := analyzer.Analyze(cmd.Context(), symbol)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(r)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), text)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON instead of text")
	return cmd
}
