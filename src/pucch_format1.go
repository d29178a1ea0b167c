package nrpucch

/*------------------------------------------------------------------
 *
 * Purpose:	PUCCH Format 1 resource configuration.
 *
 * Description:	Frequency allocation (one PRB, or two with intra-slot
 *		frequency hopping), time allocation and the sequence
 *		hopping parameters.
 *
 *		Format 1 alternates DM-RS and data symbols, starting
 *		with DM-RS on the first allocated symbol.  With intra-slot
 *		hopping the first hop takes floor(len/2) symbols and the
 *		second hop the rest.
 *
 *------------------------------------------------------------------*/

import "fmt"

const (
	FREQUENCY_HOPPING_NEITHER   = "neither"
	FREQUENCY_HOPPING_INTRASLOT = "intraSlot"
	FREQUENCY_HOPPING_INTERSLOT = "interSlot"
)

const (
	GROUP_HOPPING_NEITHER = "neither"
	GROUP_HOPPING_ENABLE  = "enable"
	GROUP_HOPPING_DISABLE = "disable"
)

type Format1Config struct {
	PRBSet           []int  `yaml:"prb_set"`           // Relative to the BWP.  Second entry is the second hop.
	SymbolAllocation [2]int `yaml:"symbol_allocation"` // [start, length]
	FrequencyHopping string `yaml:"frequency_hopping"`
	GroupHopping     string `yaml:"group_hopping"`
	HoppingID        *int   `yaml:"hopping_id,omitempty"` // Overrides NCellID when set.
	NStartBWP        *int   `yaml:"nstart_bwp,omitempty"` // Defaults to the carrier grid.
	NSizeBWP         *int   `yaml:"nsize_bwp,omitempty"`
}

func DefaultFormat1Config() Format1Config {
	return Format1Config{
		PRBSet:           []int{0},
		SymbolAllocation: [2]int{0, 14},
		FrequencyHopping: FREQUENCY_HOPPING_NEITHER,
		GroupHopping:     GROUP_HOPPING_NEITHER,
	}
}

func (cfg Format1Config) IntraSlotHopping() bool {
	return cfg.FrequencyHopping == FREQUENCY_HOPPING_INTRASLOT
}

func (cfg Format1Config) NumHops() int {
	return IfThenElse(cfg.IntraSlotHopping(), 2, 1)
}

// n_ID for the base sequence and cyclic shift hopping.
func (cfg Format1Config) NID(carrier Carrier) int {
	if cfg.HoppingID != nil {
		return *cfg.HoppingID
	}

	return carrier.NCellID
}

func (cfg Format1Config) bwp(carrier Carrier) (start int, size int) {
	start = carrier.NStartGrid
	if cfg.NStartBWP != nil {
		start = *cfg.NStartBWP
	}

	size = carrier.NStartGrid + carrier.NSizeGrid - start
	if cfg.NSizeBWP != nil {
		size = *cfg.NSizeBWP
	}

	return start, size
}

// PRB of the given hop, as an index into the carrier resource grid.
func (cfg Format1Config) gridPRB(carrier Carrier, hop int) int {
	var bwpStart, _ = cfg.bwp(carrier)

	return bwpStart - carrier.NStartGrid + cfg.PRBSet[hop]
}

// Number of usable OCC indices.  Valid indices are 0 .. MaxOCCI()-1.
func (cfg Format1Config) MaxOCCI() int {
	return nofDataSymbols(cfg.SymbolAllocation[1], 0, cfg.IntraSlotHopping())
}

/*------------------------------------------------------------------
 *
 * Name:	Validate
 *
 * Purpose:	Reject configurations the detector cannot process.
 *
 * Returns:	nil, or one of the ErrXxx configuration errors.
 *
 *------------------------------------------------------------------*/

func (cfg Format1Config) Validate(carrier Carrier) error {
	switch cfg.GroupHopping {
	case GROUP_HOPPING_NEITHER:
	case GROUP_HOPPING_ENABLE, GROUP_HOPPING_DISABLE:
		return fmt.Errorf("%w: got %q", ErrUnsupportedGroupHopping, cfg.GroupHopping)
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrUnsupportedGroupHopping, cfg.GroupHopping)
	}

	switch cfg.FrequencyHopping {
	case FREQUENCY_HOPPING_NEITHER:
		if len(cfg.PRBSet) != 1 {
			return fmt.Errorf("%w: %d PRBs without frequency hopping", ErrInvalidPRB, len(cfg.PRBSet))
		}
	case FREQUENCY_HOPPING_INTRASLOT:
		if len(cfg.PRBSet) != 2 {
			return fmt.Errorf("%w: intra-slot hopping needs two PRBs, got %d", ErrInvalidPRB, len(cfg.PRBSet))
		}
	case FREQUENCY_HOPPING_INTERSLOT:
		return fmt.Errorf("%w: inter-slot hopping", ErrUnsupportedFrequencyHopping)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFrequencyHopping, cfg.FrequencyHopping)
	}

	if cfg.HoppingID != nil && (*cfg.HoppingID < 0 || *cfg.HoppingID > 1023) {
		return fmt.Errorf("%w: hopping ID %d not in [0, 1023]", ErrInvalidCarrier, *cfg.HoppingID)
	}

	var bwpStart, bwpSize = cfg.bwp(carrier)
	if bwpStart < carrier.NStartGrid || bwpSize < 1 || bwpStart+bwpSize > carrier.NStartGrid+carrier.NSizeGrid {
		return fmt.Errorf("%w: BWP [%d, +%d) outside grid [%d, +%d)", ErrInvalidPRB, bwpStart, bwpSize, carrier.NStartGrid, carrier.NSizeGrid)
	}

	for _, prb := range cfg.PRBSet {
		if prb < 0 || prb >= bwpSize {
			return fmt.Errorf("%w: PRB %d, BWP has %d PRBs", ErrInvalidPRB, prb, bwpSize)
		}
	}

	var start, length = cfg.SymbolAllocation[0], cfg.SymbolAllocation[1]
	var minLength = IfThenElse(cfg.IntraSlotHopping(), 4, 2)

	if start < 0 || length < minLength || start+length > carrier.SymbolsPerSlot() {
		return fmt.Errorf("%w: [%d, %d] with %d symbols per slot (minimum length %d)",
			ErrInvalidSymbolAllocation, start, length, carrier.SymbolsPerSlot(), minLength)
	}

	return nil
}

/*------------------------------------------------------------------
 *
 * Name:	partitionHop
 *
 * Purpose:	Split the symbols of one hop into data and DM-RS.
 *
 * Inputs:	allocation	- [start, length] of the PUCCH.
 *		hop		- 0 or 1.
 *		intraSlot	- True when frequency hopping is on.
 *
 * Returns:	Slot symbol indices carrying data and DM-RS, in order.
 *
 * Description:	All the floor/ceil arithmetic on the allocation length
 *		lives here.  The counts are checked against the
 *		spreading factor tables in 38.211 (Tables 6.3.2.4.1-1
 *		and 6.4.1.3.1.1-1); a mismatch is a bug, not bad input.
 *
 *------------------------------------------------------------------*/

func partitionHop(allocation [2]int, hop int, intraSlot bool) (data []int, dmrs []int) {
	var start, length = allocation[0], allocation[1]

	Assert(hop == 0 || (intraSlot && hop == 1))

	var first, last = 0, length // Offsets relative to the allocation start.
	if intraSlot {
		var split = length / 2
		if hop == 0 {
			last = split
		} else {
			first = split
		}
	}

	var mask [MAX_NSYMB_PER_SLOT]bool // true for DM-RS
	for offset := first; offset < last; offset++ {
		mask[offset] = offset%2 == 0
	}

	for offset := first; offset < last; offset++ {
		if mask[offset] {
			dmrs = append(dmrs, start+offset)
		} else {
			data = append(data, start+offset)
		}
	}

	Assert(len(data) == nofDataSymbols(length, hop, intraSlot))
	Assert(len(dmrs) == nofDMRSSymbols(length, hop, intraSlot))

	return data, dmrs
}

// Data spreading factor N_SF,m'.
func nofDataSymbols(length int, hop int, intraSlot bool) int {
	if !intraSlot {
		return length / 2
	}

	if hop == 0 {
		return length / 4
	}

	return length/2 - length/4
}

// DM-RS spreading factor.
func nofDMRSSymbols(length int, hop int, intraSlot bool) int {
	var total = (length + 1) / 2

	if !intraSlot {
		return total
	}

	var firstHop = (length/2 + 1) / 2
	if hop == 0 {
		return firstHop
	}

	return total - firstHop
}
