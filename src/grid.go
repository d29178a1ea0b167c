package nrpucch

import "fmt"

// ResourceGrid holds the received (or transmitted) resource elements of one
// slot: subcarriers x OFDM symbols x antenna ports.
//
// Storage is column-major (subcarrier index fastest, port slowest), the same
// order MATLAB hands arrays to a MEX, so grids can be dumped and reloaded
// without reshuffling.
type ResourceGrid struct {
	nSubcarriers int
	nSymbols     int
	nPorts       int
	data         []complex128
}

func NewResourceGrid(nSubcarriers, nSymbols, nPorts int) (*ResourceGrid, error) {
	if nSubcarriers <= 0 || nSubcarriers%NRE != 0 || nSubcarriers > NRE*MAX_RB {
		return nil, fmt.Errorf("%w: %d subcarriers, must be a positive multiple of %d", ErrInvalidGrid, nSubcarriers, NRE)
	}

	if nSymbols <= 0 || nSymbols > MAX_NSYMB_PER_SLOT {
		return nil, fmt.Errorf("%w: %d OFDM symbols", ErrInvalidGrid, nSymbols)
	}

	if nPorts <= 0 || nPorts > MAX_RX_PORTS {
		return nil, fmt.Errorf("%w: %d ports, must be 1 to %d", ErrInvalidGrid, nPorts, MAX_RX_PORTS)
	}

	return &ResourceGrid{
		nSubcarriers: nSubcarriers,
		nSymbols:     nSymbols,
		nPorts:       nPorts,
		data:         make([]complex128, nSubcarriers*nSymbols*nPorts),
	}, nil
}

// Grid sized for the whole carrier.
func NewCarrierGrid(carrier Carrier, nPorts int) (*ResourceGrid, error) {
	return NewResourceGrid(carrier.NSizeGrid*NRE, carrier.SymbolsPerSlot(), nPorts)
}

func (g *ResourceGrid) index(k, l, p int) int {
	Assert(k >= 0 && k < g.nSubcarriers)
	Assert(l >= 0 && l < g.nSymbols)
	Assert(p >= 0 && p < g.nPorts)

	return (p*g.nSymbols+l)*g.nSubcarriers + k
}

func (g *ResourceGrid) At(k, l, p int) complex128 {
	return g.data[g.index(k, l, p)]
}

func (g *ResourceGrid) Set(k, l, p int, v complex128) {
	g.data[g.index(k, l, p)] = v
}

func (g *ResourceGrid) Add(k, l, p int, v complex128) {
	g.data[g.index(k, l, p)] += v
}

func (g *ResourceGrid) Dims() (nSubcarriers, nSymbols, nPorts int) {
	return g.nSubcarriers, g.nSymbols, g.nPorts
}

func (g *ResourceGrid) NumPRB() int {
	return g.nSubcarriers / NRE
}

func (g *ResourceGrid) NumPorts() int {
	return g.nPorts
}

func (g *ResourceGrid) Clone() *ResourceGrid {
	var c = *g
	c.data = make([]complex128, len(g.data))
	copy(c.data, g.data)

	return &c
}

// Raw column-major samples.  Shared, not copied.
func (g *ResourceGrid) Samples() []complex128 {
	return g.data
}
