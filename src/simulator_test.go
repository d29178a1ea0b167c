package nrpucch

import (
	"context"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallSimulation(testType string) SimulationConfig {
	var cfg = DefaultSimulationConfig()
	cfg.TestType = testType
	cfg.SNRRange = []float64{-20, 10}
	cfg.NumSlots = 100
	cfg.Seed = 3

	return cfg
}

func Test_SimulatorDetection(t *testing.T) {
	var sim, err = NewSimulator(smallSimulation(TEST_TYPE_DETECTION), nil)
	require.NoError(t, err)

	var report, runErr = sim.Run(context.Background())
	require.NoError(t, runErr)

	assert.Equal(t, sim.RunID(), report.RunID)
	require.Len(t, report.Points, 2)

	var low, high = report.Points[0], report.Points[1]
	assert.Equal(t, 100, high.Trials)
	assert.Equal(t, 100, high.Hits)
	assert.InDelta(t, 1.0, high.Probability, 1e-12)
	assert.Greater(t, high.MetricMean, low.MetricMean)
	assert.Less(t, low.Probability, 0.9)
	assert.InDelta(t, -10.0, high.NoiseVar, 1)
}

func Test_SimulatorFalseAlarm(t *testing.T) {
	var cfg = smallSimulation(TEST_TYPE_FALSE_ALARM)
	cfg.Multiplex = []MultiplexEntry{{0, 0, 2}, {6, 3, 2}}
	cfg.NRxPorts = 2
	cfg.Channel = CHANNEL_RAYLEIGH

	var sim, err = NewSimulator(cfg, nil)
	require.NoError(t, err)

	var report, runErr = sim.Run(context.Background())
	require.NoError(t, runErr)

	for _, p := range report.Points {
		assert.Equal(t, 200, p.Trials)
		assert.Less(t, p.Probability, 0.05)
	}
}

// At a fixed SNR, more receive ports never detect less.  With a flat
// channel hopping adds contributions but no diversity, so hopping and
// non-hopping resources are compared among themselves.
func Test_SimulatorDetectionGrowsWithContributions(t *testing.T) {
	var detectionProbability = func(nPorts int, hopping bool) float64 {
		var cfg = DefaultSimulationConfig()
		cfg.Channel = CHANNEL_RAYLEIGH
		cfg.NRxPorts = nPorts
		cfg.SNRRange = []float64{-3}
		cfg.NumSlots = 1000
		cfg.Seed = 8
		if hopping {
			cfg.PUCCH.FrequencyHopping = FREQUENCY_HOPPING_INTRASLOT
			cfg.PUCCH.PRBSet = []int{0, 24}
		}

		var sim, err = NewSimulator(cfg, nil)
		require.NoError(t, err)

		var report, runErr = sim.Run(context.Background())
		require.NoError(t, runErr)
		require.Len(t, report.Points, 1)

		return report.Points[0].Probability
	}

	for _, hopping := range []bool{false, true} {
		var previous = 0.0
		for _, nPorts := range []int{1, 2, 4} {
			var pd = detectionProbability(nPorts, hopping)
			var contributions = nPorts * 2 * IfThenElse(hopping, 2, 1)

			assert.GreaterOrEqual(t, pd, previous, "%d contributions, %d ports, hopping %v", contributions, nPorts, hopping)
			previous = pd
		}
	}
}

func Test_SimulatorCancelled(t *testing.T) {
	var sim, err = NewSimulator(smallSimulation(TEST_TYPE_DETECTION), nil)
	require.NoError(t, err)

	var ctx, cancel = context.WithCancel(context.Background())
	cancel()

	var report, runErr = sim.Run(ctx)
	assert.ErrorIs(t, runErr, context.Canceled)
	assert.Empty(t, report.Points)
}

func Test_SimulatorMetrics(t *testing.T) {
	var sim, err = NewSimulator(smallSimulation(TEST_TYPE_DETECTION), nil)
	require.NoError(t, err)

	var _, runErr = sim.Run(context.Background())
	require.NoError(t, runErr)

	var server = httptest.NewServer(sim.MetricsHandler())
	defer server.Close()

	var resp, getErr = server.Client().Get(server.URL)
	require.NoError(t, getErr)
	defer resp.Body.Close()

	var body, readErr = io.ReadAll(resp.Body)
	require.NoError(t, readErr)

	assert.Contains(t, string(body), `nrpucch_sim_trials_total{run_id="`+sim.RunID()+`",snr_db="10"} 100`)
	assert.Contains(t, string(body), `nrpucch_sim_detections_total{run_id="`+sim.RunID()+`",snr_db="10"} 100`)
	assert.Contains(t, string(body), "nrpucch_sim_probability")
}

func Test_NewSimulatorRejectsBadConfig(t *testing.T) {
	var tests = []struct {
		name   string
		modify func(*SimulationConfig)
		err    error
	}{
		{"test type", func(c *SimulationConfig) { c.TestType = "Throughput" }, nil},
		{"channel", func(c *SimulationConfig) { c.Channel = "TDLA30" }, nil},
		{"no slots", func(c *SimulationConfig) { c.NumSlots = 0 }, nil},
		{"no SNR", func(c *SimulationConfig) { c.SNRRange = nil }, nil},
		{"ports", func(c *SimulationConfig) { c.NRxPorts = 5 }, ErrInvalidGrid},
		{"three ports", func(c *SimulationConfig) { c.NRxPorts = 3 }, ErrUnsupportedContributions},
		{"group hopping", func(c *SimulationConfig) { c.PUCCH.GroupHopping = GROUP_HOPPING_ENABLE }, ErrUnsupportedGroupHopping},
		{"multiplex", func(c *SimulationConfig) { c.Multiplex = nil }, ErrEmptyMultiplexList},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg = DefaultSimulationConfig()
			tt.modify(&cfg)

			var _, err = NewSimulator(cfg, nil)
			require.Error(t, err)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func Test_LoadSimulationConfig(t *testing.T) {
	var file = filepath.Join(t.TempDir(), "sim.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
carrier:
  ncellid: 301
  nslot: 4
pucch:
  prb_set: [7]
  symbol_allocation: [4, 10]
multiplex:
  - initial_cyclic_shift: 2
    occi: 4
    num_bits: 0
test_type: False Alarm
snr_range: [-3, 0, 3]
`), 0644))

	var cfg, err = LoadSimulationConfig(file)
	require.NoError(t, err)

	assert.Equal(t, 301, cfg.Carrier.NCellID)
	assert.Equal(t, 25, cfg.Carrier.NSizeGrid, "defaults survive")
	assert.Equal(t, []int{7}, cfg.PUCCH.PRBSet)
	assert.Equal(t, [2]int{4, 10}, cfg.PUCCH.SymbolAllocation)
	assert.Equal(t, GROUP_HOPPING_NEITHER, cfg.PUCCH.GroupHopping)
	assert.Equal(t, []MultiplexEntry{{2, 4, 0}}, cfg.Multiplex)
	assert.True(t, cfg.isSR())
	assert.Equal(t, TEST_TYPE_FALSE_ALARM, cfg.TestType)
	assert.Equal(t, []float64{-3, 0, 3}, cfg.SNRRange)
	assert.Equal(t, 1000, cfg.NumSlots)
}

func Test_LoadSimulationConfigErrors(t *testing.T) {
	var dir = t.TempDir()

	var _, err = LoadSimulationConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	var bad = filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("pucch: [unterminated"), 0644))
	_, err = LoadSimulationConfig(bad)
	assert.Error(t, err)

	var invalid = filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("pucch:\n  frequency_hopping: interSlot\n"), 0644))
	_, err = LoadSimulationConfig(invalid)
	assert.ErrorIs(t, err, ErrUnsupportedFrequencyHopping)
}
