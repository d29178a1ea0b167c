package nrpucch

/*------------------------------------------------------------------
 *
 * Purpose:	Pseudo-random sequence c(n), 38.211 section 5.2.1.
 *
 * Description:	Length-31 Gold sequence.  x1 starts from 1 followed by
 *		zeros, x2 from c_init.  The first Nc = 1600 outputs are
 *		discarded.
 *
 *------------------------------------------------------------------*/

const goldNc = 1600

func goldSequence(cInit uint32, length int) []uint8 {
	var total = goldNc + length
	var x1 = make([]uint8, total+31)
	var x2 = make([]uint8, total+31)

	x1[0] = 1
	for i := 0; i < 31; i++ {
		x2[i] = uint8((cInit >> i) & 1)
	}

	for n := 0; n < total; n++ {
		x1[n+31] = (x1[n+3] + x1[n]) % 2
		x2[n+31] = (x2[n+3] + x2[n+2] + x2[n+1] + x2[n]) % 2
	}

	var c = make([]uint8, length)
	for n := range c {
		c[n] = (x1[n+goldNc] + x2[n+goldNc]) % 2
	}

	return c
}

/*------------------------------------------------------------------
 *
 * Name:	hoppingInfo
 *
 * Purpose:	Sequence group, sequence number and the per-symbol
 *		cyclic shift hopping for PUCCH, 38.211 section 6.3.2.2.
 *
 * Inputs:	carrier, cfg
 *
 * Returns:	u, v and n_cs(n_s,f, l) for every symbol l of the slot.
 *
 * Description:	Only group hopping "neither" is supported, so u is
 *		n_ID mod 30 and v is 0 for both hops.  The caller has
 *		already validated the configuration.
 *
 *------------------------------------------------------------------*/

type sequenceHopping struct {
	u   int
	v   int
	ncs []int // Indexed by slot symbol.
}

func hoppingInfo(carrier Carrier, cfg Format1Config) sequenceHopping {
	Assert(cfg.GroupHopping == GROUP_HOPPING_NEITHER)

	var nID = cfg.NID(carrier)
	var nSymb = carrier.SymbolsPerSlot()
	var slot = carrier.SlotInFrame()

	var c = goldSequence(uint32(nID), 8*nSymb*(slot+1))

	var ncs = make([]int, nSymb)
	for l := range ncs {
		var sum = 0
		for m := 0; m < 8; m++ {
			sum += int(c[8*nSymb*slot+8*l+m]) << m
		}
		ncs[l] = sum
	}

	return sequenceHopping{
		u:   nID % 30,
		v:   0,
		ncs: ncs,
	}
}

// alpha_l = 2*pi/12 * ((m0 + n_cs(n_s,f, l)) mod 12), 38.211 section 6.3.2.2.2.
func cyclicShiftIndex(m0 int, ncs int) int {
	return (m0 + ncs) % NRE
}
