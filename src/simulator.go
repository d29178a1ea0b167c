package nrpucch

/*------------------------------------------------------------------
 *
 * Purpose:	PUCCH Format 1 performance simulation.
 *
 * Description:	Two kinds of run:
 *
 *		Detection	Every multiplexed user sends random
 *				HARQ-ACK bits (or a positive SR) through
 *				its own channel, AWGN is added and we count
 *				how often the detector reports the right
 *				payload.
 *
 *		False Alarm	The grid holds noise only and we count how
 *				often the detector claims a transmission.
 *
 *		The slot number advances from one trial to the next so
 *		the cyclic shift hopping pattern changes as it would on
 *		the air.
 *
 *------------------------------------------------------------------*/

import (
	"context"
	"math"
	"net/http"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"
)

type SNRPoint struct {
	SNR          float64 `yaml:"snr_db"`
	Trials       int     `yaml:"trials"`
	Hits         int     `yaml:"hits"` // Detections, or false alarms.
	Probability  float64 `yaml:"probability"`
	MetricMean   float64 `yaml:"metric_mean"`
	MetricStdDev float64 `yaml:"metric_stddev"`
	EPRE         float64 `yaml:"epre_db"`      // Mean over the slots.
	NoiseVar     float64 `yaml:"noise_var_db"` // Mean estimate over the slots.
}

type SimulationReport struct {
	RunID    string           `yaml:"run_id"`
	Version  string           `yaml:"version"`
	Started  time.Time        `yaml:"started"`
	Duration time.Duration    `yaml:"duration"`
	Config   SimulationConfig `yaml:"config"`
	Points   []SNRPoint       `yaml:"points"`
}

type Simulator struct {
	cfg     SimulationConfig
	runID   string
	channel *Channel
	metrics *simMetrics
	logger  *log.Logger
}

func NewSimulator(cfg SimulationConfig, logger *log.Logger) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var channel, err = NewChannel(cfg.Channel, cfg.Seed)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = discardLogger()
	}

	var runID = uuid.New().String()

	return &Simulator{
		cfg:     cfg,
		runID:   runID,
		channel: channel,
		metrics: newSimMetrics(runID),
		logger:  logger.With("run", runID[:8]),
	}, nil
}

func (s *Simulator) RunID() string {
	return s.runID
}

func (s *Simulator) MetricsHandler() http.Handler {
	return s.metrics.handler()
}

/*------------------------------------------------------------------
 *
 * Name:	Run
 *
 * Purpose:	Sweep the SNR range.
 *
 * Returns:	One point per SNR.  On cancellation, the points
 *		finished so far together with the context error.
 *
 *------------------------------------------------------------------*/

func (s *Simulator) Run(ctx context.Context) (SimulationReport, error) {
	var report = SimulationReport{
		RunID:   s.runID,
		Version: versionString(),
		Started: time.Now(),
		Config:  s.cfg,
	}

	s.logger.Info("starting simulation",
		"test", s.cfg.TestType,
		"channel", s.cfg.Channel,
		"ports", s.cfg.NRxPorts,
		"hopping", s.cfg.PUCCH.FrequencyHopping,
		"users", len(s.cfg.Multiplex),
		"payload", IfThenElse(s.cfg.isSR(), "SR", "HARQ-ACK"),
		"slots", s.cfg.NumSlots)

	var slot = 0
	for _, snr := range s.cfg.SNRRange {
		var point, err = s.runPoint(ctx, snr, &slot)
		if err != nil {
			report.Duration = time.Since(report.Started)
			return report, err
		}

		report.Points = append(report.Points, point)

		s.logger.Info("SNR point done",
			"snr_db", snr,
			"trials", point.Trials,
			"hits", point.Hits,
			"probability", point.Probability,
			"metric_mean", point.MetricMean)
	}

	report.Duration = time.Since(report.Started)

	return report, nil
}

func (s *Simulator) runPoint(ctx context.Context, snr float64, slot *int) (SNRPoint, error) {
	var label = snrLabel(snr)
	var noiseVar = 1 / dB2Linear(snr)
	var detection = s.cfg.TestType == TEST_TYPE_DETECTION

	var point = SNRPoint{SNR: snr}
	var metrics = make([]float64, 0, s.cfg.NumSlots*len(s.cfg.Multiplex))
	var epre, noise = 0.0, 0.0

	for n := 0; n < s.cfg.NumSlots; n++ {
		if err := ctx.Err(); err != nil {
			return point, err
		}

		var carrier = s.cfg.Carrier
		carrier.NSlot = *slot
		*slot++

		var grid, gridErr = NewCarrierGrid(carrier, s.cfg.NRxPorts)
		if gridErr != nil {
			return point, gridErr
		}

		var sent = make([][]uint8, len(s.cfg.Multiplex))
		if detection {
			for i, e := range s.cfg.Multiplex {
				sent[i] = s.channel.Bits(e.NumBits)
				var taps = s.channel.Taps(s.cfg.NRxPorts)
				if err := ModulateFormat1(carrier, s.cfg.PUCCH, e, sent[i], grid, taps); err != nil {
					return point, err
				}
			}
		}

		s.channel.AddNoise(grid, noiseVar)

		var result, err = DetectFormat1(carrier, s.cfg.PUCCH, grid, s.cfg.Multiplex)
		if err != nil {
			return point, err
		}

		epre += result.EPRE
		noise += result.NoiseVar

		for i, r := range result.Results {
			point.Trials++
			s.metrics.trials.WithLabelValues(label).Inc()

			if !math.IsInf(r.DetectionMetric, 0) {
				metrics = append(metrics, r.DetectionMetric)
				s.metrics.metric.WithLabelValues(label).Observe(r.DetectionMetric)
			}

			if detection {
				if r.IsValid && slices.Equal(r.Bits, sent[i]) {
					point.Hits++
					s.metrics.detections.WithLabelValues(label).Inc()
				}
			} else if r.IsValid {
				point.Hits++
				s.metrics.falseAlarms.WithLabelValues(label).Inc()
			}
		}

		s.metrics.probability.WithLabelValues(label, s.cfg.TestType).Set(float64(point.Hits) / float64(point.Trials))

		if (n+1)%1000 == 0 {
			s.logger.Debug("progress", "snr_db", snr, "slots", n+1, "hits", point.Hits)
		}
	}

	point.Probability = float64(point.Hits) / float64(point.Trials)
	if len(metrics) > 0 {
		point.MetricMean, point.MetricStdDev = stat.MeanStdDev(metrics, nil)
	}
	point.EPRE = linear2dB(epre / float64(s.cfg.NumSlots))
	point.NoiseVar = linear2dB(noise / float64(s.cfg.NumSlots))

	return point, nil
}
