package nrpucch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/lestrrat-go/strftime"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

/*------------------------------------------------------------------
 *
 * Name:	SimulatorMain
 *
 * Purpose:	Command line front end for the PUCCH Format 1
 *		performance simulator.
 *
 * Usage:	pucch1-sim [OPTIONS]
 *
 *		Options override the values from --config.
 *
 *---------------------------------------------------------------*/

func SimulatorMain() {
	var configFile = pflag.StringP("config", "c", "", "YAML scenario file.")
	var testType = pflag.StringP("test-type", "t", TEST_TYPE_DETECTION, "\"Detection\" or \"False Alarm\".")
	var snrRange = pflag.Float64Slice("snr", nil, "SNR values in dB, comma separated.")
	var numSlots = pflag.IntP("slots", "n", 1000, "Slots per SNR value.")
	var seed = pflag.Uint64("seed", 0, "Random seed.")
	var rxPorts = pflag.IntP("rx-ports", "r", 1, "Number of receive ports.")
	var channel = pflag.String("channel", CHANNEL_AWGN, "Channel model, \"AWGN\" or \"Rayleigh\".")
	var reportPattern = pflag.StringP("report", "o", "", "Report file, strftime pattern allowed.  Default is stdout.")
	var logLevel = pflag.String("log-level", "info", "debug, info, warn or error.")
	var metricsListen = pflag.String("metrics-listen", "", "Serve Prometheus metrics on this address while running, e.g. :9110.")
	var version = pflag.Bool("version", false, "Print version and exit.")
	var help = pflag.Bool("help", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - PUCCH Format 1 detector performance simulation\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	if *version {
		printVersion()
		return
	}

	var logger, logErr = newLogger(os.Stderr, "pucch1-sim", *logLevel)
	if logErr != nil {
		fmt.Fprintf(os.Stderr, "%s\n", logErr)
		os.Exit(1)
	}

	var cfg = DefaultSimulationConfig()
	if *configFile != "" {
		var err error
		cfg, err = LoadSimulationConfig(*configFile)
		if err != nil {
			logger.Error("bad configuration", "err", err)
			os.Exit(1)
		}
	}

	if pflag.CommandLine.Changed("test-type") || *configFile == "" {
		cfg.TestType = *testType
	}
	if pflag.CommandLine.Changed("snr") {
		cfg.SNRRange = *snrRange
	}
	if pflag.CommandLine.Changed("slots") || *configFile == "" {
		cfg.NumSlots = *numSlots
	}
	if pflag.CommandLine.Changed("seed") {
		cfg.Seed = *seed
	}
	if pflag.CommandLine.Changed("rx-ports") || *configFile == "" {
		cfg.NRxPorts = *rxPorts
	}
	if pflag.CommandLine.Changed("channel") || *configFile == "" {
		cfg.Channel = *channel
	}

	var sim, simErr = NewSimulator(cfg, logger)
	if simErr != nil {
		logger.Error("cannot set up simulation", "err", simErr)
		os.Exit(1)
	}

	if *metricsListen != "" {
		var mux = http.NewServeMux()
		mux.Handle("/metrics", sim.MetricsHandler())

		var server = &http.Server{Addr: *metricsListen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Warn("metrics server stopped", "err", err)
			}
		}()
		defer server.Close()

		logger.Info("serving metrics", "addr", *metricsListen)
	}

	var ctx, stop = signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var report, runErr = sim.Run(ctx)
	if runErr != nil {
		logger.Warn("simulation interrupted", "err", runErr, "points", len(report.Points))
	}

	if err := writeReport(*reportPattern, report, os.Stdout); err != nil {
		logger.Error("cannot write report", "err", err)
		os.Exit(1)
	}

	if runErr != nil {
		os.Exit(1)
	}
}

// Empty pattern or "-" means w.
func writeReport(pattern string, report any, w io.Writer) error {
	var data, err = yaml.Marshal(report)
	if err != nil {
		return err
	}

	if pattern == "" || pattern == "-" {
		_, err = w.Write(data)
		return err
	}

	var name, nameErr = strftime.Format(pattern, time.Now())
	if nameErr != nil {
		return fmt.Errorf("report name pattern %q: %w", pattern, nameErr)
	}

	return os.WriteFile(name, data, 0644)
}
