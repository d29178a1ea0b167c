package nrpucch

import "fmt"

// One code-division multiplexed Format 1 transmission sharing the resource.
type MultiplexEntry struct {
	InitialCyclicShift int `yaml:"initial_cyclic_shift"` // m0, 0-11
	OCCI               int `yaml:"occi"`                 // Time-domain OCC index.
	NumBits            int `yaml:"num_bits"`             // 0 = SR only, 1 or 2 = HARQ-ACK.
}

// Map key for per-transmission state.
type muxKey struct {
	cyclicShift int
	occi        int
}

func (e MultiplexEntry) key() muxKey {
	return muxKey{cyclicShift: e.InitialCyclicShift, occi: e.OCCI}
}

/*------------------------------------------------------------------
 *
 * Name:	ValidateMultiplexList
 *
 * Purpose:	Check a list of multiplexed transmissions against
 *		the Format 1 resource they share.
 *
 * Inputs:	list	- Transmissions to detect.
 *		maxOCCI	- Number of OCC indices the symbol allocation allows.
 *
 * Returns:	nil or a configuration error.
 *
 *------------------------------------------------------------------*/

func ValidateMultiplexList(list []MultiplexEntry, maxOCCI int) error {
	if len(list) == 0 {
		return ErrEmptyMultiplexList
	}

	var seen = make(map[muxKey]int, len(list))
	var nSR, nACK int

	for i, e := range list {
		if e.InitialCyclicShift < 0 || e.InitialCyclicShift >= NRE {
			return fmt.Errorf("%w: entry %d has %d", ErrInvalidCyclicShift, i, e.InitialCyclicShift)
		}

		if e.OCCI < 0 || e.OCCI >= maxOCCI {
			return fmt.Errorf("%w: entry %d has OCCI %d, allocation allows 0 to %d", ErrInvalidOCCI, i, e.OCCI, maxOCCI-1)
		}

		switch e.NumBits {
		case 0:
			nSR++
		case 1, 2:
			nACK++
		default:
			return fmt.Errorf("%w: entry %d has %d", ErrInvalidNumBits, i, e.NumBits)
		}

		if j, dup := seen[e.key()]; dup {
			return fmt.Errorf("%w: entries %d and %d (cyclic shift %d, OCCI %d)",
				ErrDuplicateMultiplexEntry, j, i, e.InitialCyclicShift, e.OCCI)
		}
		seen[e.key()] = i
	}

	if nSR > 0 && nACK > 0 {
		return fmt.Errorf("%w: %d SR and %d HARQ-ACK entries", ErrMixedSRAndACK, nSR, nACK)
	}

	return nil
}

// OCC indices used by at least one entry, ascending.
func usedOCCs(list []MultiplexEntry, maxOCCI int) []int {
	var used []int

	for i := 0; i < maxOCCI; i++ {
		for _, e := range list {
			if e.OCCI == i {
				used = append(used, i)
				break
			}
		}
	}

	return used
}
