package nrpucch

import (
	"fmt"
	"os"
	"time"

	"github.com/lestrrat-go/strftime"
	"github.com/spf13/pflag"
)

/*------------------------------------------------------------------
 *
 * Name:	TestVectorMain
 *
 * Purpose:	Write a bundle of detector test vectors.
 *
 * Usage:	pucch1-testvectors [OPTIONS]
 *
 *---------------------------------------------------------------*/

func TestVectorMain() {
	var outputPattern = pflag.StringP("output", "o", "pucch_detector_test_%Y%m%d.tar.gz", "Output file, strftime pattern allowed.")
	var numCases = pflag.IntP("cases", "n", 20, "Number of test cases.")
	var seed = pflag.Uint64("seed", 0, "Random seed.")
	var snr = pflag.Float64("snr", 20, "SNR in dB.")
	var logLevel = pflag.String("log-level", "info", "debug, info, warn or error.")
	var version = pflag.Bool("version", false, "Print version and exit.")
	var help = pflag.Bool("help", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - PUCCH Format 1 detector test vector generator\n", os.Args[0])
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

	var logger, logErr = newLogger(os.Stderr, "pucch1-testvectors", *logLevel)
	if logErr != nil {
		fmt.Fprintf(os.Stderr, "%s\n", logErr)
		os.Exit(1)
	}

	var name, nameErr = strftime.Format(*outputPattern, time.Now())
	if nameErr != nil {
		logger.Error("bad output name", "pattern", *outputPattern, "err", nameErr)
		os.Exit(1)
	}

	var cases, genErr = GenerateTestVectors(TestVectorConfig{NumCases: *numCases, Seed: *seed, SNR: *snr}, logger)
	if genErr != nil {
		logger.Error("cannot generate test vectors", "err", genErr)
		os.Exit(1)
	}

	var f, createErr = os.Create(name)
	if createErr != nil {
		logger.Error("cannot create output", "err", createErr)
		os.Exit(1)
	}

	if err := WriteTestVectorBundle(f, cases); err != nil {
		f.Close()
		logger.Error("cannot write test vectors", "file", name, "err", err)
		os.Exit(1)
	}

	if err := f.Close(); err != nil {
		logger.Error("cannot write test vectors", "file", name, "err", err)
		os.Exit(1)
	}

	logger.Info("wrote test vectors", "file", name, "cases", len(cases))
}
