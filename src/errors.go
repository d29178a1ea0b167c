package nrpucch

import "errors"

// Configuration errors.  These are never retried: the caller gets the error
// and no results.  Match them with errors.Is, the returned errors carry
// extra context.
var (
	ErrInvalidCarrier = errors.New("nrpucch: invalid carrier configuration")

	ErrInvalidGrid = errors.New("nrpucch: resource grid does not match the configuration")

	ErrUnsupportedGroupHopping = errors.New("nrpucch: only group hopping \"neither\" is supported")

	ErrUnsupportedFrequencyHopping = errors.New("nrpucch: unsupported frequency hopping mode")

	ErrInvalidPRB = errors.New("nrpucch: PRB allocation outside the resource grid")

	ErrInvalidSymbolAllocation = errors.New("nrpucch: invalid symbol allocation")

	ErrEmptyMultiplexList = errors.New("nrpucch: empty multiplex list")

	ErrInvalidCyclicShift = errors.New("nrpucch: initial cyclic shift out of range (must be 0-11)")

	ErrInvalidOCCI = errors.New("nrpucch: orthogonal cover code index out of range")

	ErrInvalidNumBits = errors.New("nrpucch: number of bits must be 0, 1 or 2")

	ErrDuplicateMultiplexEntry = errors.New("nrpucch: duplicated cyclic shift and OCC pair")

	ErrMixedSRAndACK = errors.New("nrpucch: cannot mix SR-only and HARQ-ACK transmissions")

	ErrUnsupportedContributions = errors.New("nrpucch: unsupported number of detection contributions")
)
