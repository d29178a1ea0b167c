package nrpucch

/*------------------------------------------------------------------
 *
 * Purpose:	Carrier numerology.
 *
 * Description:	Only the handful of constants the PUCCH processing
 *		needs: cell ID, cyclic prefix, slot and grid size.
 *		Everything here is immutable for one detection call.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"slices"
)

// Subcarriers per resource block.
const NRE = 12

const MAX_NSYMB_PER_SLOT = 14

const MAX_RB = 275

const MAX_RX_PORTS = 4

const (
	CYCLIC_PREFIX_NORMAL   = "normal"
	CYCLIC_PREFIX_EXTENDED = "extended"
)

var validSubcarrierSpacings = []int{15, 30, 60, 120, 240}

type Carrier struct {
	NCellID           int    `yaml:"ncellid"`
	SubcarrierSpacing int    `yaml:"subcarrier_spacing"` // kHz
	CyclicPrefix      string `yaml:"cyclic_prefix"`
	NSlot             int    `yaml:"nslot"` // Slot counter, wraps at the frame length.
	NSizeGrid         int    `yaml:"nsize_grid"`
	NStartGrid        int    `yaml:"nstart_grid"`
}

func DefaultCarrier() Carrier {
	return Carrier{
		NCellID:           1,
		SubcarrierSpacing: 15,
		CyclicPrefix:      CYCLIC_PREFIX_NORMAL,
		NSlot:             0,
		NSizeGrid:         25,
		NStartGrid:        0,
	}
}

func (c Carrier) Validate() error {
	if c.NCellID < 0 || c.NCellID > 1007 {
		return fmt.Errorf("%w: NCellID %d not in [0, 1007]", ErrInvalidCarrier, c.NCellID)
	}

	if !slices.Contains(validSubcarrierSpacings, c.SubcarrierSpacing) {
		return fmt.Errorf("%w: subcarrier spacing %d kHz", ErrInvalidCarrier, c.SubcarrierSpacing)
	}

	switch c.CyclicPrefix {
	case CYCLIC_PREFIX_NORMAL:
	case CYCLIC_PREFIX_EXTENDED:
		if c.SubcarrierSpacing != 60 {
			return fmt.Errorf("%w: extended cyclic prefix requires 60 kHz, got %d kHz", ErrInvalidCarrier, c.SubcarrierSpacing)
		}
	default:
		return fmt.Errorf("%w: cyclic prefix %q", ErrInvalidCarrier, c.CyclicPrefix)
	}

	if c.NSizeGrid < 1 || c.NSizeGrid > MAX_RB {
		return fmt.Errorf("%w: NSizeGrid %d not in [1, %d]", ErrInvalidCarrier, c.NSizeGrid, MAX_RB)
	}

	if c.NStartGrid < 0 || c.NStartGrid > 2199 {
		return fmt.Errorf("%w: NStartGrid %d not in [0, 2199]", ErrInvalidCarrier, c.NStartGrid)
	}

	if c.NSlot < 0 {
		return fmt.Errorf("%w: negative slot number %d", ErrInvalidCarrier, c.NSlot)
	}

	return nil
}

func (c Carrier) SymbolsPerSlot() int {
	return IfThenElse(c.CyclicPrefix == CYCLIC_PREFIX_EXTENDED, 12, MAX_NSYMB_PER_SLOT)
}

func (c Carrier) SlotsPerFrame() int {
	return 10 * c.SubcarrierSpacing / 15
}

// n_s,f in 38.211 notation.
func (c Carrier) SlotInFrame() int {
	return c.NSlot % c.SlotsPerFrame()
}
