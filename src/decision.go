package nrpucch

/*------------------------------------------------------------------
 *
 * Name:	decideSymbol
 *
 * Purpose:	Maximum likelihood decision of the Format 1 symbol.
 *
 * Inputs:	cross	- Accumulated DM-RS x conj(data) correlation.
 *		nBits	- 0 (SR), 1 or 2.
 *
 * Returns:	symbol		- Decided constellation point.
 *		bits		- Corresponding bits.  For SR a single interim
 *				  bit, 0 meaning positive correlation.
 *		magnitude	- Re(cross * symbol), never negative.
 *
 * Description:	BPSK:  (1+j)/sqrt2 is bit 0, its negation bit 1.
 *		QPSK:  (1+j)/sqrt2 is [0 0], (1-j)/sqrt2 is [0 1],
 *		       negations are [1 1] and [1 0].
 *		Pick the diagonal with the larger |Re|, then the sign.
 *
 *------------------------------------------------------------------*/

const invSqrt2 = 0.70710678118654752440

var (
	symbolDiag     = complex(invSqrt2, invSqrt2)  // (1+j)/sqrt2
	symbolAntiDiag = complex(invSqrt2, -invSqrt2) // (1-j)/sqrt2
)

func decideSymbol(cross complex128, nBits int) (symbol complex128, bits []uint8, magnitude float64) {
	Assert(nBits >= 0 && nBits <= 2)

	if nBits < 2 {
		symbol = symbolDiag
		bits = []uint8{0}
		magnitude = real(cross * symbol)
	} else {
		var m1 = real(cross * symbolDiag)
		var m2 = real(cross * symbolAntiDiag)

		if abs(m1) >= abs(m2) {
			symbol = symbolDiag
			bits = []uint8{0, 0}
			magnitude = m1
		} else {
			symbol = symbolAntiDiag
			bits = []uint8{0, 1}
			magnitude = m2
		}
	}

	if magnitude < 0 {
		symbol = -symbol
		for i := range bits {
			bits[i] ^= 1
		}
		magnitude = -magnitude
	}

	return symbol, bits, magnitude
}

func abs(x float64) float64 {
	return IfThenElse(x < 0, -x, x)
}
