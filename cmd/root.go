package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "intraday-exec",
	Short: "Intraday portfolio trading engine",
	Long: `Intraday portfolio trading engine that consumes minute bars,
optimizes target dollar positions once per minute under position, trade,
net-delta and exposure caps, and works the resulting deltas through an
execution scheduler (market, twap, pov, vwap).

Orders fill against a paper book; decisions and orders can be persisted
to PostgreSQL or logged to the console.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A .env file is optional; environment variables win.
		_ = godotenv.Load()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
