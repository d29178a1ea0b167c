package nrpucch

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_partitionHopNoHopping(t *testing.T) {
	for length := 2; length <= MAX_NSYMB_PER_SLOT; length++ {
		for start := 0; start+length <= MAX_NSYMB_PER_SLOT; start++ {
			var data, dmrs = partitionHop([2]int{start, length}, 0, false)

			assert.Len(t, data, length/2)
			assert.Len(t, dmrs, (length+1)/2)
			assert.Equal(t, start, dmrs[0], "DM-RS on the first symbol")

			for _, l := range dmrs {
				assert.Equal(t, 0, (l-start)%2)
			}
			for _, l := range data {
				assert.Equal(t, 1, (l-start)%2)
			}
		}
	}
}

func Test_partitionHopIntraSlot(t *testing.T) {
	for length := 4; length <= MAX_NSYMB_PER_SLOT; length++ {
		var allocation = [2]int{MAX_NSYMB_PER_SLOT - length, length}

		var data0, dmrs0 = partitionHop(allocation, 0, true)
		var data1, dmrs1 = partitionHop(allocation, 1, true)

		assert.Len(t, data0, length/4)
		assert.Len(t, data1, length/2-length/4)
		assert.Len(t, dmrs0, (length/2+1)/2)
		assert.Equal(t, (length+1)/2, len(dmrs0)+len(dmrs1))
		assert.Equal(t, length/2, len(data0)+len(dmrs0), "first hop takes floor(len/2) symbols")

		// Every allocated symbol lands in exactly one place.
		var all = slices.Concat(data0, dmrs0, data1, dmrs1)
		slices.Sort(all)
		var expected = make([]int, length)
		for i := range expected {
			expected[i] = allocation[0] + i
		}
		assert.Equal(t, expected, all)

		// The second hop starts after the first hop ends.
		assert.Less(t, slices.Max(slices.Concat(data0, dmrs0)), slices.Min(slices.Concat(data1, dmrs1)))
	}
}

// DM-RS symbols per hop with intra-slot hopping, 38.211 Table 6.4.1.3.1.1-1.
func Test_nofDMRSSymbolsIntraSlot(t *testing.T) {
	var table = map[int][2]int{
		4: {1, 1}, 5: {1, 2}, 6: {2, 1}, 7: {2, 2}, 8: {2, 2}, 9: {2, 3},
		10: {3, 2}, 11: {3, 3}, 12: {3, 3}, 13: {3, 4}, 14: {4, 3},
	}

	for length, want := range table {
		assert.Equal(t, want[0], nofDMRSSymbols(length, 0, true), "length %d", length)
		assert.Equal(t, want[1], nofDMRSSymbols(length, 1, true), "length %d", length)
	}
}

func Test_MaxOCCI(t *testing.T) {
	var cfg = DefaultFormat1Config()
	assert.Equal(t, 7, cfg.MaxOCCI())

	cfg.SymbolAllocation = [2]int{10, 4}
	assert.Equal(t, 2, cfg.MaxOCCI())

	cfg.FrequencyHopping = FREQUENCY_HOPPING_INTRASLOT
	cfg.SymbolAllocation = [2]int{0, 14}
	assert.Equal(t, 3, cfg.MaxOCCI())
	assert.Equal(t, 2, cfg.NumHops())
}

func Test_Format1ConfigValidate(t *testing.T) {
	var carrier = DefaultCarrier()

	var tests = []struct {
		name   string
		modify func(*Format1Config)
		err    error
	}{
		{"default", func(*Format1Config) {}, nil},
		{"group hopping enable", func(c *Format1Config) { c.GroupHopping = GROUP_HOPPING_ENABLE }, ErrUnsupportedGroupHopping},
		{"group hopping disable", func(c *Format1Config) { c.GroupHopping = GROUP_HOPPING_DISABLE }, ErrUnsupportedGroupHopping},
		{"inter-slot hopping", func(c *Format1Config) { c.FrequencyHopping = FREQUENCY_HOPPING_INTERSLOT }, ErrUnsupportedFrequencyHopping},
		{"unknown hopping", func(c *Format1Config) { c.FrequencyHopping = "sometimes" }, ErrUnsupportedFrequencyHopping},
		{"intra-slot with one PRB", func(c *Format1Config) { c.FrequencyHopping = FREQUENCY_HOPPING_INTRASLOT }, ErrInvalidPRB},
		{"two PRBs without hopping", func(c *Format1Config) { c.PRBSet = []int{0, 1} }, ErrInvalidPRB},
		{"PRB past the grid", func(c *Format1Config) { c.PRBSet = []int{25} }, ErrInvalidPRB},
		{"negative PRB", func(c *Format1Config) { c.PRBSet = []int{-1} }, ErrInvalidPRB},
		{"allocation too long", func(c *Format1Config) { c.SymbolAllocation = [2]int{1, 14} }, ErrInvalidSymbolAllocation},
		{"allocation too short", func(c *Format1Config) { c.SymbolAllocation = [2]int{0, 1} }, ErrInvalidSymbolAllocation},
		{"hopping needs four symbols", func(c *Format1Config) {
			c.FrequencyHopping = FREQUENCY_HOPPING_INTRASLOT
			c.PRBSet = []int{0, 24}
			c.SymbolAllocation = [2]int{0, 3}
		}, ErrInvalidSymbolAllocation},
		{"hopping ID range", func(c *Format1Config) {
			var id = 1024
			c.HoppingID = &id
		}, ErrInvalidCarrier},
		{"BWP outside grid", func(c *Format1Config) {
			var start, size = 20, 10
			c.NStartBWP, c.NSizeBWP = &start, &size
		}, ErrInvalidPRB},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg = DefaultFormat1Config()
			tt.modify(&cfg)

			var err = cfg.Validate(carrier)
			if tt.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func Test_gridPRBWithBWP(t *testing.T) {
	var carrier = DefaultCarrier()
	carrier.NStartGrid = 10

	var start, size = 15, 8
	var cfg = DefaultFormat1Config()
	cfg.NStartBWP, cfg.NSizeBWP = &start, &size
	cfg.PRBSet = []int{3}

	require.NoError(t, cfg.Validate(carrier))
	assert.Equal(t, 8, cfg.gridPRB(carrier, 0))
}
