package nrpucch

/*------------------------------------------------------------------
 *
 * Purpose:	Per-hop correlation for the Format 1 detector.
 *
 * Description:	Every multiplexed transmission in a hop is the same
 *		base sequence, rotated by its cyclic shift and spread in
 *		time by its OCC.  Once the base sequence and the hopping
 *		part of the cyclic shift are removed, a 12-point DFT over
 *		the subcarriers puts initial cyclic shift m0 in bin m0,
 *		so all 12 shifts are resolved at once.  Despreading with
 *		each OCC then separates the time-domain codes.
 *
 *		Amplitudes are normalised so that a transmission with
 *		channel h shows up as h*sqrt(N) (N repetitions in the
 *		hop), with noise variance sigma^2/12.
 *
 *		Only the listed transmissions are assumed to be on the
 *		air.  The noise estimate is whatever is left of the hop
 *		once their codes are taken out: the gated DM-RS
 *		reconstruction from the DM-RS symbols, and the whole
 *		(OCC, cyclic shift) projection from the data symbols,
 *		since the data symbol itself is not known yet.
 *
 *------------------------------------------------------------------*/

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// A listed cyclic shift counts as occupied when its power across ports is
// within 10 dB of the strongest shift of the same OCC.  Empirical, no
// reference data behind it; tune only with simulation results.
const occupancyGateRatio = 0.1

type hopEntry struct {
	main  float64      // Average of data and DM-RS power, summed over ports.
	cross complex128   // sum_p dmrs * conj(data)
	chEst []complex128 // Per port.
}

type hopResult struct {
	entries map[muxKey]hopEntry

	epreNum float64 // Received energy, data and DM-RS.
	epreDen int     // Resource elements times ports.

	noiseNum float64 // Residual energy once the listed codes are removed.
	noiseDen int     // Degrees of freedom left in the residual.

	nDMRS int
}

// Base sequence and hopping removed, one 12-sample row per (symbol, port).
type hopSamples [][NRE]complex128

/*------------------------------------------------------------------
 *
 * Name:	processHop
 *
 * Purpose:	Correlate one hop against every transmission in the
 *		multiplex list.
 *
 * Inputs:	hop	- 0 or 1.
 *		seq	- u, v and n_cs per symbol.
 *		base	- Low-PAPR base sequence.
 *		carrier, cfg, grid, list
 *		fft	- 12-point complex DFT.
 *
 * Returns:	Main/cross/channel per transmission, EPRE and noise
 *		accumulators.
 *
 *------------------------------------------------------------------*/

func processHop(hop int, seq sequenceHopping, base [NRE]complex128, carrier Carrier, cfg Format1Config,
	grid *ResourceGrid, list []MultiplexEntry, fft *fourier.CmplxFFT) hopResult {

	var dataSymbols, dmrsSymbols = partitionHop(cfg.SymbolAllocation, hop, cfg.IntraSlotHopping())
	var nData, nDMRS = len(dataSymbols), len(dmrsSymbols)
	Assert(nData > 0 && nDMRS > 0)

	var prb = cfg.gridPRB(carrier, hop)
	Assert(prb >= 0 && prb < grid.NumPRB())

	var nPorts = grid.NumPorts()

	var zData, dataEnergy = extractHop(grid, prb, dataSymbols, seq.ncs, base)
	var zDMRS, dmrsEnergy = extractHop(grid, prb, dmrsSymbols, seq.ncs, base)

	var xData = transformHop(zData, fft)
	var xDMRS = transformHop(zDMRS, fft)

	var result = hopResult{
		entries: make(map[muxKey]hopEntry, len(list)),
		epreNum: dataEnergy + dmrsEnergy,
		epreDen: NRE * (nData + nDMRS) * nPorts,
		nDMRS:   nDMRS,
	}

	// Noiseless DM-RS estimate, same layout as zDMRS.
	var recon = make(hopSamples, nDMRS*nPorts)
	var nOccupied = 0

	// Data energy of the listed codes, taken out of the noise estimate.
	var dataListed = 0.0

	for _, occi := range usedOCCs(list, cfg.MaxOCCI()) {
		var wData = orthogonalCoverCode(nData, occi)
		var wDMRS = orthogonalCoverCode(nDMRS, occi)

		var ampData = despread(xData, wData, nPorts)
		var ampDMRS = despread(xDMRS, wDMRS, nPorts)

		var listed [NRE]bool
		for _, e := range list {
			if e.OCCI == occi {
				listed[e.InitialCyclicShift] = true
			}
		}

		// Channel per cyclic shift and port.
		var chEst = make([][NRE]complex128, nPorts)
		var power [NRE]float64
		var maxPower = 0.0
		for p := 0; p < nPorts; p++ {
			for cs := 0; cs < NRE; cs++ {
				chEst[p][cs] = ampDMRS[p][cs] / complex(math.Sqrt(float64(nDMRS)), 0)
				power[cs] += absSquared(chEst[p][cs])
			}
		}
		for cs := 0; cs < NRE; cs++ {
			maxPower = max(maxPower, power[cs])
		}

		// Unlisted shifts stay in the residual whatever their power.
		var gated = make([][NRE]complex128, nPorts)
		for cs := 0; cs < NRE; cs++ {
			if listed[cs] && power[cs] > occupancyGateRatio*maxPower {
				nOccupied++
				for p := 0; p < nPorts; p++ {
					gated[p][cs] = chEst[p][cs]
				}
			}
		}

		// Back to subcarriers, then spread again with the DM-RS code.
		for p := 0; p < nPorts; p++ {
			var waveform = fft.Sequence(nil, gated[p][:])
			for m := 0; m < nDMRS; m++ {
				var row = &recon[m*nPorts+p]
				for k := 0; k < NRE; k++ {
					row[k] += wDMRS[m] * waveform[k]
				}
			}
		}

		for _, e := range list {
			if e.OCCI != occi {
				continue
			}

			var entry = hopEntry{chEst: make([]complex128, nPorts)}
			for p := 0; p < nPorts; p++ {
				var d = ampData[p][e.InitialCyclicShift]
				var r = ampDMRS[p][e.InitialCyclicShift]

				entry.main += (absSquared(d) + absSquared(r)) / 2
				entry.cross += r * cmplx.Conj(d)
				entry.chEst[p] = chEst[p][e.InitialCyclicShift]
				dataListed += absSquared(d)
			}
			result.entries[e.key()] = entry
		}
	}

	for i := range zDMRS {
		for k := 0; k < NRE; k++ {
			result.noiseNum += absSquared(zDMRS[i][k] - recon[i][k])
		}
	}

	// transformHop scales by 1/12, so a bin holds 1/12 of the energy in the symbol.
	result.noiseNum += math.Max(dataEnergy-NRE*dataListed, 0)
	result.noiseDen = NRE*(nDMRS+nData)*nPorts - (nOccupied+len(list))*nPorts

	return result
}

// Pick the PRB out of the grid and strip the base sequence and the hopping
// cyclic shift, leaving exp(j 2 pi m0 k / 12) per transmission.
func extractHop(grid *ResourceGrid, prb int, symbols []int, ncs []int, base [NRE]complex128) (hopSamples, float64) {
	var nPorts = grid.NumPorts()
	var z = make(hopSamples, len(symbols)*nPorts)
	var energy = 0.0

	for m, l := range symbols {
		var derotate = lowPAPRSequence(base, ncs[l])
		for p := 0; p < nPorts; p++ {
			var row = &z[m*nPorts+p]
			for k := 0; k < NRE; k++ {
				var y = grid.At(prb*NRE+k, l, p)
				energy += absSquared(y)
				row[k] = y * cmplx.Conj(derotate[k])
			}
		}
	}

	return z, energy
}

// DFT over subcarriers: bin cs holds initial cyclic shift cs, scaled by 1/12.
func transformHop(z hopSamples, fft *fourier.CmplxFFT) hopSamples {
	var x = make(hopSamples, len(z))

	for i := range z {
		var coeff = fft.Coefficients(nil, z[i][:])
		for cs := 0; cs < NRE; cs++ {
			x[i][cs] = coeff[cs] / NRE
		}
	}

	return x
}

// Inner product with the cover code over the hop's repetitions,
// normalised by sqrt(N).  Result is [port][cyclic shift].
func despread(x hopSamples, w []complex128, nPorts int) [][NRE]complex128 {
	var n = len(w)
	var scale = complex(1/math.Sqrt(float64(n)), 0)
	var amp = make([][NRE]complex128, nPorts)

	for m := 0; m < n; m++ {
		var wc = cmplx.Conj(w[m])
		for p := 0; p < nPorts; p++ {
			for cs := 0; cs < NRE; cs++ {
				amp[p][cs] += wc * x[m*nPorts+p][cs]
			}
		}
	}

	for p := 0; p < nPorts; p++ {
		for cs := 0; cs < NRE; cs++ {
			amp[p][cs] *= scale
		}
	}

	return amp
}
