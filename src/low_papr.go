package nrpucch

import "math"

// phi(n) for M_ZC = 12, 38.211 Table 5.2.2.2-2.  Row is the sequence group u.
var lowPAPRPhi12 = [30][NRE]int8{
	{-3, 1, -3, -3, -3, 3, -3, -1, 1, 1, 1, -3},
	{-3, 3, 1, -3, 1, 3, -1, -1, 1, 3, 3, 3},
	{-3, 3, 3, 1, -3, 3, -1, 1, 3, -3, 3, -3},
	{-3, -3, -1, 3, 3, 3, -3, 3, -3, 1, -1, -3},
	{-3, -1, -1, 1, 3, 1, 1, -1, 1, -1, -3, 1},
	{-3, -3, 3, 1, -3, -3, -3, -1, 3, -1, 1, 3},
	{1, -1, 3, -1, -1, -1, -3, -1, 1, 1, 1, -3},
	{-1, -3, 3, -1, -3, -3, -3, -1, 1, -1, 1, -3},
	{-3, -1, 3, 1, -3, -1, -3, 3, 1, 3, 3, 1},
	{-3, -1, -1, -3, -3, -1, -3, 3, 1, 3, -1, -3},
	{-3, 3, -3, 3, 3, -3, -1, -1, 3, 3, 1, -3},
	{-3, -1, -3, -1, -1, -3, 3, 3, -1, -1, 1, -3},
	{-3, -1, 3, -3, -3, -1, -3, 1, -1, -3, 3, 3},
	{-3, 1, -1, -1, 3, 3, -3, -1, -1, -3, -1, -3},
	{1, 3, -3, 1, 3, 3, 3, 1, -1, 1, -1, 3},
	{-3, 1, 3, -1, -1, -3, -3, -1, -1, 3, 1, -3},
	{-1, -1, -1, -1, 1, -3, -1, 3, 3, -1, -3, 1},
	{-1, 1, 1, -1, 1, 3, 3, -1, -1, -3, 1, -3},
	{-3, 1, 3, 3, -1, -1, -3, 3, 3, -3, 3, -3},
	{-3, -3, 3, -3, -1, 3, 3, 3, -1, -3, 1, -3},
	{3, 1, 3, 1, 3, -3, -1, 1, 3, 1, -1, -3},
	{-3, 3, 1, 3, -3, 1, 1, 1, 1, 3, -3, 3},
	{-3, 3, 3, 3, -1, -3, -3, -1, -3, 1, 3, -3},
	{3, -1, -3, 3, -3, -1, 3, 3, 3, -3, -1, -3},
	{-3, -1, 1, -3, 1, 3, 3, 3, -1, -3, 3, 3},
	{-3, 3, 1, -1, 3, 3, -3, 1, -1, 1, -1, 1},
	{-1, 1, 3, -3, 1, -1, 1, -1, -1, -3, 1, -1},
	{-3, -3, 3, 3, 3, -3, -1, 1, -3, 3, 1, -3},
	{1, -1, 3, 1, 1, -1, -1, -1, 1, 3, -3, 1},
	{-3, 3, -3, 3, -3, -3, 3, -1, -1, 1, 3, -3},
}

/*------------------------------------------------------------------
 *
 * Name:	lowPAPRBase
 *
 * Purpose:	Base sequence r_bar_{u,v}(n) of length 12.
 *
 * Inputs:	u	- Sequence group, 0-29.
 *		v	- Sequence number.  Always 0 for one resource block.
 *
 * Returns:	exp(j * phi(n) * pi / 4), n = 0..11.
 *
 *------------------------------------------------------------------*/

func lowPAPRBase(u int, v int) [NRE]complex128 {
	Assert(u >= 0 && u < 30)
	Assert(v == 0)

	var r [NRE]complex128
	for n := range r {
		r[n] = cis(float64(lowPAPRPhi12[u][n]) * math.Pi / 4)
	}

	return r
}

// r_{u,v}^{(alpha)}(n) = exp(j alpha n) r_bar(n), alpha = 2 pi cs / 12.
func lowPAPRSequence(base [NRE]complex128, cs int) [NRE]complex128 {
	var r [NRE]complex128
	for n := range r {
		r[n] = cis(2*math.Pi*float64(cs*n)/NRE) * base[n]
	}

	return r
}
