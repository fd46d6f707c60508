package app

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mselser95/intraday-exec/pkg/config"
)

// writeReplayFixture writes a weekday session of one-minute bars with a
// price drifting below its opening VWAP, which gives the reversion
// model something to buy.
func writeReplayFixture(t *testing.T, minutes int) string {
	t.Helper()

	start := time.Date(2024, time.January, 8, 15, 0, 0, 0, time.UTC)

	content := "instrument_id,ts_event,open,high,low,close,volume\n"
	for i := 0; i < minutes; i++ {
		ts := start.Add(time.Duration(i) * time.Minute).UnixNano()
		price := 100.0 - float64(i)*0.05
		content += fmt.Sprintf("AAPL.XNAS,%d,%.2f,%.2f,%.2f,%.2f,%d\n",
			ts, price, price+0.1, price-0.1, price, 50_000)
	}

	path := filepath.Join(t.TempDir(), "bars.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAppReplayRunsToCompletion(t *testing.T) {
	t.Setenv("INSTRUMENTS", "AAPL.XNAS")
	t.Setenv("HTTP_PORT", "0")
	t.Setenv("STORAGE_MODE", "console")
	t.Setenv("GATEWAY_MODE", "paper")
	t.Setenv("EXEC_ALGO", "twap")
	t.Setenv("EXEC_HORIZON_MINUTES", "5")

	cfg, err := config.LoadFromEnv()
	require.NoError(t, err)

	a, err := New(cfg, zap.NewNop(), &Options{ReplayFile: writeReplayFixture(t, 30)})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- a.Run()
	}()

	select {
	case err := <-done:
		assert.NoError(t, err, "replay run shuts down cleanly")
	case <-time.After(30 * time.Second):
		t.Fatal("replay run did not complete")
	}
}

func TestAppRejectsLiveGateway(t *testing.T) {
	t.Setenv("INSTRUMENTS", "AAPL.XNAS")
	t.Setenv("GATEWAY_MODE", "live")

	cfg, err := config.LoadFromEnv()
	require.NoError(t, err)

	_, err = New(cfg, zap.NewNop(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gateway")
}
