package cmd

import (
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mselser95/intraday-exec/internal/optimizer"
	"github.com/mselser95/intraday-exec/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var optimizeCmd = &cobra.Command{
	Use:   "optimize <problem.json>",
	Short: "Run one optimization from a JSON problem file",
	Long: `Runs a single target position optimization and prints the result as
JSON. Useful for inspecting what the optimizer would do with a given
set of alphas, positions and caps without running the engine.`,
	Args: cobra.ExactArgs(1),
	RunE: runOptimize,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(optimizeCmd)
}

// optimizeProblem is the JSON shape of a one-shot problem file.
type optimizeProblem struct {
	InstrumentIDs      []string  `json:"instrument_ids"`
	Alpha              []float64 `json:"alpha"`
	CurrentPositionUSD []float64 `json:"current_position_usd"`
	TradingCost        []float64 `json:"trading_cost"`
	RiskLambda         []float64 `json:"risk_lambda"`
	PositionCapUSD     []float64 `json:"position_cap_usd"`
	TradeCapUSD        []float64 `json:"trade_cap_usd"`
	FactorLoading      []float64 `json:"factor_loading,omitempty"`
	MaxFactorExposure  float64   `json:"max_factor_exposure,omitempty"`
	MaxNetDeltaUSD     float64   `json:"max_net_delta_usd,omitempty"`
	MaxGrossUSD        float64   `json:"max_gross_usd,omitempty"`
}

// optimizeResult is the JSON shape printed to stdout.
type optimizeResult struct {
	InstrumentIDs     []string  `json:"instrument_ids"`
	TargetPositionUSD []float64 `json:"target_position_usd"`
	Solved            bool      `json:"solved"`
	FallbackReason    string    `json:"fallback_reason,omitempty"`
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	return optimizeFile(args[0], cfg, cmd.OutOrStdout())
}

func optimizeFile(path string, cfg *config.Config, out io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read problem file: %w", err)
	}

	var problem optimizeProblem
	err = json.Unmarshal(data, &problem)
	if err != nil {
		return fmt.Errorf("parse problem file: %w", err)
	}

	opt := optimizer.New(optimizer.NewPenaltySolver(cfg.SolverMaxIter, cfg.SolverTolerance), zap.NewNop())

	res, err := opt.Optimize(&optimizer.Input{
		InstrumentIDs:      problem.InstrumentIDs,
		Alpha:              problem.Alpha,
		CurrentPositionUSD: problem.CurrentPositionUSD,
		TradingCost:        problem.TradingCost,
		RiskLambda:         problem.RiskLambda,
		PositionCapUSD:     problem.PositionCapUSD,
		TradeCapUSD:        problem.TradeCapUSD,
		FactorLoading:      problem.FactorLoading,
		MaxFactorExposure:  problem.MaxFactorExposure,
		MaxNetDeltaUSD:     problem.MaxNetDeltaUSD,
		MaxGrossUSD:        problem.MaxGrossUSD,
	})
	if err != nil {
		return fmt.Errorf("optimize: %w", err)
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")

	return encoder.Encode(optimizeResult{
		InstrumentIDs:     res.InstrumentIDs,
		TargetPositionUSD: res.TargetPositionUSD,
		Solved:            res.Solved,
		FallbackReason:    res.FallbackReason,
	})
}
