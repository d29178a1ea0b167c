package nrpucch

/*------------------------------------------------------------------
 *
 * Purpose:	PUCCH Format 1 multi-user detector.
 *
 * Description:	Several UEs can share one Format 1 resource, told
 *		apart by initial cyclic shift and time-domain OCC.  For
 *		each of them we decide whether something was sent and,
 *		if so, which HARQ-ACK bits.
 *
 *		For every transmission the detection metric is
 *
 *			(main + 2 * cross) / noise variance
 *
 *		where main is the average of the data and DM-RS power
 *		and cross is the coherent DM-RS x data correlation
 *		projected on the decided symbol, both accumulated over
 *		ports and hops.  The threshold depends only on how many
 *		terms (ports x 2 x hops) went into the metric.
 *
 *		Stateless.  Nothing is kept between calls, so slots can
 *		be processed in parallel by the caller.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"
	"gopkg.in/yaml.v3"
)

type DetectionResult struct {
	InitialCyclicShift int        `yaml:"initial_cyclic_shift"`
	OCCI               int        `yaml:"occi"`
	IsValid            bool       `yaml:"is_valid"`
	DetectionMetric    float64    `yaml:"detection_metric"` // Normalised: 1 is the decision boundary.
	Bits               []uint8    `yaml:"bits"`             // Empty for SR.
	Symbol             complex128 `yaml:"-"`                // Stored as [re, im], see MarshalYAML.
	RSRP               float64    `yaml:"rsrp"`
}

type detectionResultYAML struct {
	InitialCyclicShift int        `yaml:"initial_cyclic_shift"`
	OCCI               int        `yaml:"occi"`
	IsValid            bool       `yaml:"is_valid"`
	DetectionMetric    float64    `yaml:"detection_metric"`
	Bits               []uint8    `yaml:"bits"`
	Symbol             [2]float64 `yaml:"symbol,flow"`
	RSRP               float64    `yaml:"rsrp"`
}

func (r DetectionResult) MarshalYAML() (any, error) {
	return detectionResultYAML{
		InitialCyclicShift: r.InitialCyclicShift,
		OCCI:               r.OCCI,
		IsValid:            r.IsValid,
		DetectionMetric:    r.DetectionMetric,
		Bits:               r.Bits,
		Symbol:             [2]float64{real(r.Symbol), imag(r.Symbol)},
		RSRP:               r.RSRP,
	}, nil
}

func (r *DetectionResult) UnmarshalYAML(value *yaml.Node) error {
	var y detectionResultYAML
	if err := value.Decode(&y); err != nil {
		return err
	}

	*r = DetectionResult{
		InitialCyclicShift: y.InitialCyclicShift,
		OCCI:               y.OCCI,
		IsValid:            y.IsValid,
		DetectionMetric:    y.DetectionMetric,
		Bits:               y.Bits,
		Symbol:             complex(y.Symbol[0], y.Symbol[1]),
		RSRP:               y.RSRP,
	}

	return nil
}

type Format1Detection struct {
	Results  []DetectionResult
	EPRE     float64
	NoiseVar float64
}

/*------------------------------------------------------------------
 *
 * Name:	DetectFormat1
 *
 * Purpose:	Detect all the multiplexed Format 1 transmissions in
 *		one slot.
 *
 * Inputs:	carrier	- Numerology, cell ID and slot.
 *		cfg	- Shared Format 1 resource.
 *		grid	- Received resource grid, one port per receive antenna.
 *		list	- Transmissions to look for.
 *
 * Returns:	One result per list entry, in list order, plus the EPRE
 *		and noise variance over the whole allocation.
 *		Any configuration problem gives an error and no results.
 *
 *------------------------------------------------------------------*/

func DetectFormat1(carrier Carrier, cfg Format1Config, grid *ResourceGrid, list []MultiplexEntry) (Format1Detection, error) {
	if err := carrier.Validate(); err != nil {
		return Format1Detection{}, err
	}

	if err := cfg.Validate(carrier); err != nil {
		return Format1Detection{}, err
	}

	if err := ValidateMultiplexList(list, cfg.MaxOCCI()); err != nil {
		return Format1Detection{}, err
	}

	if err := checkGrid(carrier, grid); err != nil {
		return Format1Detection{}, err
	}

	var nHops = cfg.NumHops()
	var nPorts = grid.NumPorts()

	var threshold, thresholdErr = detectionThreshold(nPorts * 2 * nHops)
	if thresholdErr != nil {
		return Format1Detection{}, thresholdErr
	}

	var seq = hoppingInfo(carrier, cfg)
	var base = lowPAPRBase(seq.u, seq.v)
	var fft = fourier.NewCmplxFFT(NRE)

	var hops = make([]hopResult, nHops)
	for hop := range hops {
		hops[hop] = processHop(hop, seq, base, carrier, cfg, grid, list, fft)
	}

	var epreNum, noiseNum = 0.0, 0.0
	var epreDen, noiseDen, dmrsTotal = 0, 0, 0
	for _, h := range hops {
		epreNum += h.epreNum
		epreDen += h.epreDen
		noiseNum += h.noiseNum
		noiseDen += h.noiseDen
		dmrsTotal += h.nDMRS
	}

	// No degrees of freedom left means no noise estimate, and no detections.
	var noiseVar = 0.0
	if noiseDen > 0 {
		noiseVar = noiseNum / float64(noiseDen)
	}

	var detection = Format1Detection{
		Results:  make([]DetectionResult, len(list)),
		EPRE:     epreNum / float64(epreDen),
		NoiseVar: noiseVar,
	}

	for i, e := range list {
		detection.Results[i] = DetectionResult{
			InitialCyclicShift: e.InitialCyclicShift,
			OCCI:               e.OCCI,
			IsValid:            false,
		}

		var mainSum, rsrp = 0.0, 0.0
		var cross complex128
		for _, h := range hops {
			var he, ok = h.entries[e.key()]
			Assert(ok)

			mainSum += he.main
			cross += he.cross

			var portPower = 0.0
			for _, ch := range he.chEst {
				portPower += absSquared(ch)
			}
			rsrp += float64(h.nDMRS) * portPower / float64(nPorts)
		}

		var symbol, bits, magnitude = decideSymbol(cross, e.NumBits)
		var metric = detectionMetric(mainSum+2*magnitude, noiseVar)
		var isValid = metric > threshold

		if e.NumBits == 0 {
			// SR: only a positive correlation counts as transmitted.
			isValid = isValid && bits[0] == 0
			bits = []uint8{}
		}

		var r = &detection.Results[i]
		r.IsValid = isValid
		r.DetectionMetric = metric / threshold
		r.Bits = bits
		r.Symbol = symbol
		r.RSRP = rsrp / float64(dmrsTotal)
	}

	return detection, nil
}

// Zero without a noise estimate, so it never passes a threshold.
func detectionMetric(numerator float64, noiseVar float64) float64 {
	if noiseVar <= 0 {
		return 0
	}

	return numerator / noiseVar
}

func checkGrid(carrier Carrier, grid *ResourceGrid) error {
	if grid == nil {
		return fmt.Errorf("%w: nil grid", ErrInvalidGrid)
	}

	var _, nSymbols, _ = grid.Dims()

	if grid.NumPRB() != carrier.NSizeGrid {
		return fmt.Errorf("%w: grid has %d PRBs, carrier %d", ErrInvalidGrid, grid.NumPRB(), carrier.NSizeGrid)
	}

	if nSymbols != carrier.SymbolsPerSlot() {
		return fmt.Errorf("%w: grid has %d symbols, slot has %d", ErrInvalidGrid, nSymbols, carrier.SymbolsPerSlot())
	}

	return nil
}
