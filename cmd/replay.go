package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mselser95/intraday-exec/internal/app"
	"github.com/mselser95/intraday-exec/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var replayCmd = &cobra.Command{
	Use:   "replay <bars.csv>",
	Short: "Run the engine against a CSV bar file",
	Long: `Replays a CSV file of bars through the full decision and execution
pipeline with the paper gateway. The file needs a header row and the
columns instrument_id,ts_event,open,high,low,close,volume with ts_event
in nanoseconds since the Unix epoch.

The engine shuts down when the file is exhausted.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
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

	application, err := app.New(cfg, logger, &app.Options{ReplayFile: args[0]})
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	err = application.Run()
	if err != nil {
		return fmt.Errorf("run app: %w", err)
	}

	return nil
}
