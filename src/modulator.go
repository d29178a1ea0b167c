package nrpucch

/*------------------------------------------------------------------
 *
 * Purpose:	Reference PUCCH Format 1 modulator.
 *
 * Description:	Maps one Format 1 transmission, data and DM-RS,
 *		onto a resource grid following 38.211 sections 6.3.2.4
 *		and 6.4.1.3.1.  Used to build test grids for the detector
 *		and by the performance simulator.
 *
 *		Samples are added to whatever is already in the grid so
 *		several multiplexed users can be stacked up.
 *
 *------------------------------------------------------------------*/

import "fmt"

// BPSK for one bit, QPSK for two, 38.211 section 5.1.
// A positive SR is sent as bit 0.
func format1Symbol(bits []uint8) complex128 {
	switch len(bits) {
	case 0:
		return symbolDiag
	case 1:
		var s = float64(1 - 2*int(bits[0]&1))
		return complex(s*invSqrt2, s*invSqrt2)
	default:
		var re = float64(1 - 2*int(bits[0]&1))
		var im = float64(1 - 2*int(bits[1]&1))
		return complex(re*invSqrt2, im*invSqrt2)
	}
}

/*------------------------------------------------------------------
 *
 * Name:	ModulateFormat1
 *
 * Purpose:	Add one Format 1 transmission to a grid.
 *
 * Inputs:	carrier, cfg	- As for the detector.
 *		entry		- Cyclic shift, OCC and payload size.
 *		bits		- HARQ-ACK bits, empty for a positive SR.
 *		grid		- Accumulates the result.
 *		gains		- Complex channel per grid port.
 *
 * Returns:	Error if the configuration or the bits don't fit.
 *
 *------------------------------------------------------------------*/

func ModulateFormat1(carrier Carrier, cfg Format1Config, entry MultiplexEntry, bits []uint8, grid *ResourceGrid, gains []complex128) error {
	if err := carrier.Validate(); err != nil {
		return err
	}

	if err := cfg.Validate(carrier); err != nil {
		return err
	}

	if err := ValidateMultiplexList([]MultiplexEntry{entry}, cfg.MaxOCCI()); err != nil {
		return err
	}

	if len(bits) != entry.NumBits {
		return fmt.Errorf("%w: %d bits given for a %d-bit transmission", ErrInvalidNumBits, len(bits), entry.NumBits)
	}

	if err := checkGrid(carrier, grid); err != nil {
		return err
	}

	if len(gains) != grid.NumPorts() {
		return fmt.Errorf("%w: %d channel gains for %d ports", ErrInvalidGrid, len(gains), grid.NumPorts())
	}

	var d = format1Symbol(bits)
	var seq = hoppingInfo(carrier, cfg)
	var base = lowPAPRBase(seq.u, seq.v)

	for hop := 0; hop < cfg.NumHops(); hop++ {
		var dataSymbols, dmrsSymbols = partitionHop(cfg.SymbolAllocation, hop, cfg.IntraSlotHopping())
		var prb = cfg.gridPRB(carrier, hop)

		var place = func(symbols []int, value complex128) {
			var w = orthogonalCoverCode(len(symbols), entry.OCCI)
			for m, l := range symbols {
				var r = lowPAPRSequence(base, cyclicShiftIndex(entry.InitialCyclicShift, seq.ncs[l]))
				for p, g := range gains {
					for k := 0; k < NRE; k++ {
						grid.Add(prb*NRE+k, l, p, g*value*w[m]*r[k])
					}
				}
			}
		}

		place(dataSymbols, d)
		place(dmrsSymbols, 1)
	}

	return nil
}
