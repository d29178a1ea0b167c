package nrpucch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// pflag (not unreasonably) assumes it only ever gets called once. But the
// tools are also worth running end to end from go test, which means doing
// some slight bodges.
func setupPflag(args []string) {
	os.Args = args
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
}

func Test_SimulatorReportFile(t *testing.T) {
	var file = filepath.Join(t.TempDir(), "report.yaml")

	setupPflag([]string{"pucch1-sim", "--slots", "20", "--snr", "0,10", "--seed", "7", "--log-level", "warn", "-o", file})
	SimulatorMain()

	var data, err = os.ReadFile(file)
	require.NoError(t, err)

	var report SimulationReport
	require.NoError(t, yaml.Unmarshal(data, &report))

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, TEST_TYPE_DETECTION, report.Config.TestType)
	require.Len(t, report.Points, 2)
	assert.Equal(t, 20, report.Points[0].Trials)
	assert.Equal(t, 20, report.Points[1].Hits)
}

func Test_SimulatorReportStdout(t *testing.T) {
	setupPflag([]string{"pucch1-sim", "--slots", "10", "--snr", "-5", "--test-type", "False Alarm", "--log-level", "error"})

	AssertOutputContains(t, SimulatorMain, "test_type: False Alarm")
}

func Test_SimulatorConfigFile(t *testing.T) {
	var dir = t.TempDir()
	var config = filepath.Join(dir, "scenario.yaml")
	var report = filepath.Join(dir, "report.yaml")

	require.NoError(t, os.WriteFile(config, []byte(`
pucch:
  prb_set: [2, 20]
  symbol_allocation: [0, 14]
  frequency_hopping: intraSlot
multiplex:
  - {initial_cyclic_shift: 0, occi: 0, num_bits: 2}
  - {initial_cyclic_shift: 6, occi: 1, num_bits: 2}
nrx_ports: 2
snr_range: [5]
num_slots: 5
`), 0644))

	// --slots wins over the file.
	setupPflag([]string{"pucch1-sim", "-c", config, "--slots", "8", "--log-level", "error", "-o", report})
	SimulatorMain()

	var data, err = os.ReadFile(report)
	require.NoError(t, err)

	var parsed SimulationReport
	require.NoError(t, yaml.Unmarshal(data, &parsed))

	assert.Equal(t, 2, parsed.Config.NRxPorts)
	assert.Equal(t, FREQUENCY_HOPPING_INTRASLOT, parsed.Config.PUCCH.FrequencyHopping)
	require.Len(t, parsed.Points, 1)
	assert.Equal(t, 16, parsed.Points[0].Trials)
}

func Test_TestVectorBundleFile(t *testing.T) {
	var file = filepath.Join(t.TempDir(), "vectors.tar.gz")

	setupPflag([]string{"pucch1-testvectors", "--cases", "4", "--seed", "3", "--snr", "25", "--log-level", "warn", "-o", file})
	TestVectorMain()

	var f, err = os.Open(file)
	require.NoError(t, err)
	defer f.Close()

	var cases, readErr = ReadTestVectorBundle(f)
	require.NoError(t, readErr)
	require.Len(t, cases, 4)

	for i, tc := range cases {
		assert.Equal(t, i, tc.Index)
		assert.Len(t, tc.Expected, len(tc.Multiplex))
	}
}

func Test_Version(t *testing.T) {
	setupPflag([]string{"pucch1-sim", "--version"})

	AssertOutputContains(t, SimulatorMain, "nrpucch !UNKNOWN! (revision")
}
