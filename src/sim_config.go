package nrpucch

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	TEST_TYPE_DETECTION   = "Detection"
	TEST_TYPE_FALSE_ALARM = "False Alarm"
)

// Scenario for the performance simulator and the test vector generator.
type SimulationConfig struct {
	Carrier   Carrier          `yaml:"carrier"`
	PUCCH     Format1Config    `yaml:"pucch"`
	Multiplex []MultiplexEntry `yaml:"multiplex"`
	NRxPorts  int              `yaml:"nrx_ports"`
	TestType  string           `yaml:"test_type"`
	Channel   string           `yaml:"channel"`
	SNRRange  []float64        `yaml:"snr_range"` // dB, per resource element and receive port.
	NumSlots  int              `yaml:"num_slots"` // Per SNR point.
	Seed      uint64           `yaml:"seed"`
}

func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		Carrier: DefaultCarrier(),
		PUCCH:   DefaultFormat1Config(),
		Multiplex: []MultiplexEntry{
			{InitialCyclicShift: 0, OCCI: 0, NumBits: 1},
		},
		NRxPorts: 1,
		TestType: TEST_TYPE_DETECTION,
		Channel:  CHANNEL_AWGN,
		SNRRange: []float64{-10, -8, -6, -4, -2, 0},
		NumSlots: 1000,
		Seed:     0,
	}
}

/*------------------------------------------------------------------
 *
 * Name:	LoadSimulationConfig
 *
 * Purpose:	Read a YAML scenario file.
 *
 * Description:	Anything missing from the file keeps its default,
 *		see DefaultSimulationConfig.
 *
 *------------------------------------------------------------------*/

func LoadSimulationConfig(path string) (SimulationConfig, error) {
	var cfg = DefaultSimulationConfig()

	var data, readErr = os.ReadFile(path)
	if readErr != nil {
		return cfg, fmt.Errorf("reading simulation config: %w", readErr)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing simulation config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("simulation config %s: %w", path, err)
	}

	return cfg, nil
}

func (cfg SimulationConfig) Validate() error {
	if cfg.TestType != TEST_TYPE_DETECTION && cfg.TestType != TEST_TYPE_FALSE_ALARM {
		return fmt.Errorf("test type %q, must be %q or %q", cfg.TestType, TEST_TYPE_DETECTION, TEST_TYPE_FALSE_ALARM)
	}

	if cfg.Channel != CHANNEL_AWGN && cfg.Channel != CHANNEL_RAYLEIGH {
		return fmt.Errorf("channel %q, must be %q or %q", cfg.Channel, CHANNEL_AWGN, CHANNEL_RAYLEIGH)
	}

	if cfg.NumSlots < 1 {
		return fmt.Errorf("number of slots must be positive, got %d", cfg.NumSlots)
	}

	if len(cfg.SNRRange) == 0 {
		return fmt.Errorf("empty SNR range")
	}

	if cfg.NRxPorts < 1 || cfg.NRxPorts > MAX_RX_PORTS {
		return fmt.Errorf("%w: %d receive ports", ErrInvalidGrid, cfg.NRxPorts)
	}

	if err := cfg.Carrier.Validate(); err != nil {
		return err
	}

	if err := cfg.PUCCH.Validate(cfg.Carrier); err != nil {
		return err
	}

	if err := ValidateMultiplexList(cfg.Multiplex, cfg.PUCCH.MaxOCCI()); err != nil {
		return err
	}

	var _, err = detectionThreshold(cfg.NRxPorts * 2 * cfg.PUCCH.NumHops())

	return err
}

func (cfg SimulationConfig) isSR() bool {
	return cfg.Multiplex[0].NumBits == 0
}
