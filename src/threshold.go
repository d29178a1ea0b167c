package nrpucch

import "fmt"

// Detection thresholds keyed by the number of contributions to the metric
// (receive ports x 2 x hops).  Empirically calibrated; keep as they are.
var detectionThresholds = map[int]float64{
	2:  0.90,
	4:  3.00,
	8:  4.45,
	16: 6.95,
}

func detectionThreshold(contributions int) (float64, error) {
	var threshold, ok = detectionThresholds[contributions]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedContributions, contributions)
	}

	return threshold, nil
}
