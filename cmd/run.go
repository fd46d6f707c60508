package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mselser95/intraday-exec/internal/app"
	"github.com/mselser95/intraday-exec/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the trading engine on the live bar feed",
	Long: `Starts the trading engine, which will:
1. Connect to the websocket bar feed and subscribe the configured universe
2. Optimize target positions once per minute
3. Work position deltas through the configured execution algorithm
4. Fill orders against the paper book`,
	RunE: runEngine,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(runCmd)
}

func runEngine(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	application, err := app.New(cfg, logger, nil)
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	err = application.Run()
	if err != nil {
		return fmt.Errorf("run app: %w", err)
	}

	return nil
}
