package nrpucch

import "math"

// Phases (units of 2*pi/4) of the length-4 codes, 38.211 Table 6.3.2.4.1-2.
// Every other length is a DFT row: phi(m) = i*m mod N.
var occPhase4 = [4][4]int{
	{0, 0, 0, 0},
	{0, 2, 0, 2},
	{0, 0, 2, 2},
	{0, 2, 2, 0},
}

/*------------------------------------------------------------------
 *
 * Name:	orthogonalCoverCode
 *
 * Purpose:	Time-domain OCC w_i(m) for Format 1.
 *
 * Inputs:	n	- Spreading factor, 1 to 7.
 *		i	- Code index, less than n.
 *
 * Returns:	w_i(m), m = 0..n-1, unit magnitude.
 *
 *------------------------------------------------------------------*/

func orthogonalCoverCode(n int, i int) []complex128 {
	Assert(n >= 1 && n <= 7)
	Assert(i >= 0 && i < n)

	var w = make([]complex128, n)
	for m := range w {
		var phi = (i * m) % n
		if n == 4 {
			phi = occPhase4[i][m]
		}
		w[m] = cis(2 * math.Pi * float64(phi) / float64(n))
	}

	return w
}
