package nrpucch

/*------------------------------------------------------------------
 *
 * Purpose:	Detector test vectors.
 *
 * Description:	Random Format 1 scenarios are put through the reference
 *		modulator and a noisy channel, and the detector is run
 *		on the result.  The received grid and the detector's
 *		answer are stored together in a gzipped tar so another
 *		implementation can be checked against them.
 *
 *		Per case N the bundle holds
 *
 *		  pucch_detector_test_input_rx_symbols<N>.dat
 *			Received grid, interleaved little-endian float32
 *			I/Q, subcarrier index fastest and port slowest.
 *
 *		  pucch_detector_test_<N>.yaml
 *			Carrier, PUCCH configuration, multiplex list,
 *			what was sent and what the detector found.
 *
 *------------------------------------------------------------------*/

import (
	"archive/tar"
	"bytes"
	"cmp"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"regexp"
	"slices"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/gzip"
	"gopkg.in/yaml.v3"
)

const (
	TEST_VECTOR_SYMBOLS_FMT  = "pucch_detector_test_input_rx_symbols%d.dat"
	TEST_VECTOR_MANIFEST_FMT = "pucch_detector_test_%d.yaml"
)

var testVectorManifestName = regexp.MustCompile(`^pucch_detector_test_(\d+)\.yaml$`)

var ErrBadTestVectorBundle = errors.New("nrpucch: malformed test vector bundle")

type TestVectorCase struct {
	Index     int               `yaml:"index"`
	Carrier   Carrier           `yaml:"carrier"`
	PUCCH     Format1Config     `yaml:"pucch"`
	Multiplex []MultiplexEntry  `yaml:"multiplex"`
	GridDims  [3]int            `yaml:"grid_dims"` // subcarriers, symbols, ports
	SNR       float64           `yaml:"snr_db"`
	Sent      [][]uint8         `yaml:"sent_bits"`
	Expected  []DetectionResult `yaml:"expected"`
	EPRE      float64           `yaml:"epre"`
	NoiseVar  float64           `yaml:"noise_var"`

	Grid *ResourceGrid `yaml:"-"`
}

type TestVectorConfig struct {
	NumCases int
	Seed     uint64
	SNR      float64 // dB
}

/*------------------------------------------------------------------
 *
 * Name:	GenerateTestVectors
 *
 * Purpose:	Build random detector scenarios and their answers.
 *
 * Description:	Each case draws the receive port count, frequency
 *		hopping, symbol allocation and a set of distinct
 *		(cyclic shift, OCC) users, all SR or all HARQ-ACK.
 *		Every user goes through its own Rayleigh channel.
 *		The detector runs on the grid as it will be stored, in
 *		single precision, so a reader of the bundle gets the
 *		same answers bit for bit.
 *
 *------------------------------------------------------------------*/

func GenerateTestVectors(cfg TestVectorConfig, logger *log.Logger) ([]TestVectorCase, error) {
	if cfg.NumCases < 1 {
		return nil, fmt.Errorf("number of test cases must be positive, got %d", cfg.NumCases)
	}

	if logger == nil {
		logger = discardLogger()
	}

	var rng = rand.New(rand.NewPCG(cfg.Seed, ^cfg.Seed))
	var channel, err = NewChannel(CHANNEL_RAYLEIGH, cfg.Seed+1)
	if err != nil {
		return nil, err
	}

	var noiseVar = 1 / dB2Linear(cfg.SNR)
	var cases = make([]TestVectorCase, 0, cfg.NumCases)

	for n := 0; n < cfg.NumCases; n++ {
		var tc = randomTestVectorCase(rng, n)
		tc.SNR = cfg.SNR

		var grid, gridErr = NewCarrierGrid(tc.Carrier, tc.GridDims[2])
		if gridErr != nil {
			return nil, gridErr
		}

		tc.Sent = make([][]uint8, len(tc.Multiplex))
		for i, e := range tc.Multiplex {
			tc.Sent[i] = channel.Bits(e.NumBits)
			if err := ModulateFormat1(tc.Carrier, tc.PUCCH, e, tc.Sent[i], grid, channel.Taps(tc.GridDims[2])); err != nil {
				return nil, fmt.Errorf("test case %d: %w", n, err)
			}
		}

		channel.AddNoise(grid, noiseVar)
		roundToFloat32(grid)

		var result, detErr = DetectFormat1(tc.Carrier, tc.PUCCH, grid, tc.Multiplex)
		if detErr != nil {
			return nil, fmt.Errorf("test case %d: %w", n, detErr)
		}

		tc.Grid = grid
		tc.Expected = result.Results
		tc.EPRE = result.EPRE
		tc.NoiseVar = result.NoiseVar

		logger.Debug("test case", "index", n,
			"ports", tc.GridDims[2],
			"hopping", tc.PUCCH.FrequencyHopping,
			"allocation", tc.PUCCH.SymbolAllocation,
			"users", len(tc.Multiplex))

		cases = append(cases, tc)
	}

	return cases, nil
}

func randomTestVectorCase(rng *rand.Rand, index int) TestVectorCase {
	var carrier = DefaultCarrier()
	carrier.NCellID = rng.IntN(1008)
	carrier.NSlot = rng.IntN(carrier.SlotsPerFrame())

	var pucch = DefaultFormat1Config()
	var length = 4 + rng.IntN(MAX_NSYMB_PER_SLOT-3)
	var start = rng.IntN(MAX_NSYMB_PER_SLOT - length + 1)
	pucch.SymbolAllocation = [2]int{start, length}
	pucch.PRBSet = []int{rng.IntN(carrier.NSizeGrid)}

	if rng.IntN(2) == 1 {
		pucch.FrequencyHopping = FREQUENCY_HOPPING_INTRASLOT
		pucch.PRBSet = append(pucch.PRBSet, rng.IntN(carrier.NSizeGrid))
	}

	var ports = []int{1, 2, 4}[rng.IntN(3)]

	// Distinct (cyclic shift, OCC) pairs.
	var maxOCCI = pucch.MaxOCCI()
	var slots = rng.Perm(NRE * maxOCCI)
	var nUsers = 1 + rng.IntN(min(6, len(slots)))
	var numBits = rng.IntN(3) // Shared by everyone, so SR and ACK never mix.

	var multiplex = make([]MultiplexEntry, nUsers)
	for i := range multiplex {
		multiplex[i] = MultiplexEntry{
			InitialCyclicShift: slots[i] % NRE,
			OCCI:               slots[i] / NRE,
			NumBits:            numBits,
		}
	}

	return TestVectorCase{
		Index:     index,
		Carrier:   carrier,
		PUCCH:     pucch,
		Multiplex: multiplex,
		GridDims:  [3]int{carrier.NSizeGrid * NRE, carrier.SymbolsPerSlot(), ports},
	}
}

/*------------------------------------------------------------------
 *
 * Name:	WriteTestVectorBundle
 *
 * Purpose:	Store test cases as a .tar.gz.
 *
 *------------------------------------------------------------------*/

func WriteTestVectorBundle(w io.Writer, cases []TestVectorCase) error {
	var zw = gzip.NewWriter(w)
	var tw = tar.NewWriter(zw)
	var now = time.Now()

	var add = func(name string, data []byte) error {
		var hdr = &tar.Header{
			Name:    name,
			Mode:    0644,
			Size:    int64(len(data)),
			ModTime: now,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		_, err := tw.Write(data)
		return err
	}

	for _, tc := range cases {
		if tc.Grid == nil {
			return fmt.Errorf("test case %d has no grid", tc.Index)
		}

		var symbols bytes.Buffer
		if err := binary.Write(&symbols, binary.LittleEndian, gridToFloat32(tc.Grid)); err != nil {
			return err
		}
		if err := add(fmt.Sprintf(TEST_VECTOR_SYMBOLS_FMT, tc.Index), symbols.Bytes()); err != nil {
			return err
		}

		var manifest, err = yaml.Marshal(tc)
		if err != nil {
			return err
		}
		if err := add(fmt.Sprintf(TEST_VECTOR_MANIFEST_FMT, tc.Index), manifest); err != nil {
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return err
	}

	return zw.Close()
}

/*------------------------------------------------------------------
 *
 * Name:	ReadTestVectorBundle
 *
 * Purpose:	Load what WriteTestVectorBundle wrote.
 *
 * Returns:	Cases sorted by index, each with its grid.
 *
 *------------------------------------------------------------------*/

func ReadTestVectorBundle(r io.Reader) ([]TestVectorCase, error) {
	var zr, err = gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadTestVectorBundle, err)
	}
	defer zr.Close()

	var files = make(map[string][]byte)
	var tr = tar.NewReader(zr)
	for {
		var hdr, err = tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadTestVectorBundle, err)
		}

		var data, readErr = io.ReadAll(tr)
		if readErr != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrBadTestVectorBundle, hdr.Name, readErr)
		}
		files[hdr.Name] = data
	}

	var cases []TestVectorCase
	for name, manifest := range files {
		var m = testVectorManifestName.FindStringSubmatch(name)
		if m == nil {
			continue
		}

		var index, _ = strconv.Atoi(m[1])

		var tc TestVectorCase
		if err := yaml.Unmarshal(manifest, &tc); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrBadTestVectorBundle, name, err)
		}
		if tc.Index != index {
			return nil, fmt.Errorf("%w: %s holds case %d", ErrBadTestVectorBundle, name, tc.Index)
		}

		var symbols, ok = files[fmt.Sprintf(TEST_VECTOR_SYMBOLS_FMT, index)]
		if !ok {
			return nil, fmt.Errorf("%w: no symbols for case %d", ErrBadTestVectorBundle, index)
		}

		tc.Grid, err = gridFromFloat32(symbols, tc.GridDims)
		if err != nil {
			return nil, fmt.Errorf("%w: case %d: %w", ErrBadTestVectorBundle, index, err)
		}

		cases = append(cases, tc)
	}

	slices.SortFunc(cases, func(a, b TestVectorCase) int { return cmp.Compare(a.Index, b.Index) })

	return cases, nil
}

// Drop the precision the bundle cannot hold.
func roundToFloat32(grid *ResourceGrid) {
	var samples = grid.Samples()

	for i, s := range samples {
		samples[i] = complex(float64(float32(real(s))), float64(float32(imag(s))))
	}
}

// Interleaved I/Q, the complex single precision layout.
func gridToFloat32(grid *ResourceGrid) []float32 {
	var samples = grid.Samples()
	var out = make([]float32, 2*len(samples))

	for i, s := range samples {
		out[2*i] = float32(real(s))
		out[2*i+1] = float32(imag(s))
	}

	return out
}

func gridFromFloat32(data []byte, dims [3]int) (*ResourceGrid, error) {
	var grid, err = NewResourceGrid(dims[0], dims[1], dims[2])
	if err != nil {
		return nil, err
	}

	var samples = grid.Samples()
	if len(data) != 8*len(samples) {
		return nil, fmt.Errorf("%d bytes of symbols for a %dx%dx%d grid", len(data), dims[0], dims[1], dims[2])
	}

	var iq = make([]float32, 2*len(samples))
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, iq); err != nil {
		return nil, err
	}

	for i := range samples {
		samples[i] = complex(float64(iq[2*i]), float64(iq[2*i+1]))
	}

	return grid, nil
}
