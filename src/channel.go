package nrpucch

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

const (
	CHANNEL_AWGN     = "AWGN"     // Unit gain, random phase per port.
	CHANNEL_RAYLEIGH = "Rayleigh" // Flat Rayleigh fading, independent per port.
)

// Channel is the simulation channel: per-port flat gains plus complex AWGN.
// Seeded, so a run can be repeated.  Not safe for concurrent use.
type Channel struct {
	model  string
	src    rand.Source
	normal distuv.Normal
	phase  distuv.Uniform
}

func NewChannel(model string, seed uint64) (*Channel, error) {
	if model != CHANNEL_AWGN && model != CHANNEL_RAYLEIGH {
		return nil, fmt.Errorf("unknown channel model %q", model)
	}

	var src = rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)

	return &Channel{
		model:  model,
		src:    src,
		normal: distuv.Normal{Mu: 0, Sigma: 1, Src: src},
		phase:  distuv.Uniform{Min: 0, Max: 2 * math.Pi, Src: src},
	}, nil
}

// Circularly symmetric complex Gaussian with the given variance.
func (c *Channel) complexGaussian(variance float64) complex128 {
	var sigma = math.Sqrt(variance / 2)

	return complex(sigma*c.normal.Rand(), sigma*c.normal.Rand())
}

// One gain per receive port, unit average power.
func (c *Channel) Taps(nPorts int) []complex128 {
	var taps = make([]complex128, nPorts)

	for p := range taps {
		if c.model == CHANNEL_RAYLEIGH {
			taps[p] = c.complexGaussian(1)
		} else {
			taps[p] = cis(c.phase.Rand())
		}
	}

	return taps
}

// Add complex AWGN of the given variance to every resource element.
func (c *Channel) AddNoise(grid *ResourceGrid, noiseVar float64) {
	var samples = grid.Samples()

	for i := range samples {
		samples[i] += c.complexGaussian(noiseVar)
	}
}

// Random bits for the payload of a transmission.
func (c *Channel) Bits(n int) []uint8 {
	var bits = make([]uint8, n)

	for i := range bits {
		bits[i] = uint8(c.src.Uint64() & 1)
	}

	return bits
}
