package nrpucch

import (
	"bytes"
	"math/cmplx"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newTestRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, ^seed))
}

func Test_randomTestVectorCaseIsValid(t *testing.T) {
	var rng = newTestRand(11)

	for i := 0; i < 200; i++ {
		var tc = randomTestVectorCase(rng, i)

		require.NoError(t, tc.Carrier.Validate())
		require.NoError(t, tc.PUCCH.Validate(tc.Carrier))
		require.NoError(t, ValidateMultiplexList(tc.Multiplex, tc.PUCCH.MaxOCCI()))

		var _, err = detectionThreshold(tc.GridDims[2] * 2 * tc.PUCCH.NumHops())
		require.NoError(t, err)
	}
}

func Test_TestVectorBundleRoundTrip(t *testing.T) {
	var cases, err = GenerateTestVectors(TestVectorConfig{NumCases: 6, Seed: 99, SNR: 30}, nil)
	require.NoError(t, err)
	require.Len(t, cases, 6)

	var buf bytes.Buffer
	require.NoError(t, WriteTestVectorBundle(&buf, cases))

	var loaded, readErr = ReadTestVectorBundle(&buf)
	require.NoError(t, readErr)
	require.Len(t, loaded, len(cases))

	for i, tc := range loaded {
		var orig = cases[i]

		assert.Equal(t, orig.Index, tc.Index)
		assert.Equal(t, orig.Carrier, tc.Carrier)
		assert.Equal(t, orig.PUCCH, tc.PUCCH)
		assert.Equal(t, orig.Multiplex, tc.Multiplex)
		assert.Equal(t, orig.Sent, tc.Sent)
		assert.Equal(t, orig.GridDims, tc.GridDims)

		// Generated in single precision, so nothing is lost on the way.
		assert.Equal(t, orig.Grid.Samples(), tc.Grid.Samples())

		assert.Equal(t, orig.Expected, tc.Expected)
		assert.Equal(t, orig.EPRE, tc.EPRE)
		assert.Equal(t, orig.NoiseVar, tc.NoiseVar)

		// The stored answer is exactly what the detector gives on the stored grid.
		var detection, detErr = DetectFormat1(tc.Carrier, tc.PUCCH, tc.Grid, tc.Multiplex)
		require.NoError(t, detErr)
		require.Len(t, tc.Expected, len(detection.Results))

		for j, r := range detection.Results {
			var e = tc.Expected[j]
			assert.Equal(t, e.IsValid, r.IsValid, "case %d entry %d", i, j)
			assert.Equal(t, e.Bits, r.Bits, "case %d entry %d", i, j)
			assert.Equal(t, e.DetectionMetric, r.DetectionMetric, "case %d entry %d", i, j)
			assert.Equal(t, e.Symbol, r.Symbol, "case %d entry %d", i, j)
			assert.Equal(t, e.RSRP, r.RSRP, "case %d entry %d", i, j)
		}
		assert.Equal(t, tc.NoiseVar, detection.NoiseVar)
	}
}

func Test_DetectionResultSymbolYAML(t *testing.T) {
	var r = DetectionResult{
		InitialCyclicShift: 4,
		OCCI:               2,
		IsValid:            true,
		DetectionMetric:    3.25,
		Bits:               []uint8{0, 1},
		Symbol:             symbolAntiDiag,
		RSRP:               0.5,
	}

	var data, err = yaml.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), "symbol: [")

	var back DetectionResult
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, r, back)

	// Every detected symbol in a bundle is a unit constellation point.
	var cases, genErr = GenerateTestVectors(TestVectorConfig{NumCases: 3, Seed: 5, SNR: 30}, nil)
	require.NoError(t, genErr)

	var buf bytes.Buffer
	require.NoError(t, WriteTestVectorBundle(&buf, cases))

	var loaded, readErr = ReadTestVectorBundle(&buf)
	require.NoError(t, readErr)

	for _, tc := range loaded {
		for _, e := range tc.Expected {
			assert.InDelta(t, 1.0, cmplx.Abs(e.Symbol), 1e-12, "case %d", tc.Index)
		}
	}
}

func Test_ReadTestVectorBundleRejectsGarbage(t *testing.T) {
	var _, err = ReadTestVectorBundle(bytes.NewReader([]byte("definitely not gzip")))
	assert.ErrorIs(t, err, ErrBadTestVectorBundle)
}

func Test_ReadTestVectorBundleMissingSymbols(t *testing.T) {
	var cases, err = GenerateTestVectors(TestVectorConfig{NumCases: 1, Seed: 1, SNR: 20}, nil)
	require.NoError(t, err)

	// Claim a bigger grid than was written.
	cases[0].GridDims[0] += NRE

	var buf bytes.Buffer
	require.NoError(t, WriteTestVectorBundle(&buf, cases))

	var _, readErr = ReadTestVectorBundle(&buf)
	assert.ErrorIs(t, readErr, ErrBadTestVectorBundle)
}

func Test_GenerateTestVectorsNeedsCases(t *testing.T) {
	var _, err = GenerateTestVectors(TestVectorConfig{NumCases: 0}, nil)
	assert.Error(t, err)
}
