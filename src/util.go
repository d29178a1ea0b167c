package nrpucch

import (
	"fmt"
	"math"
	"math/cmplx"
	"runtime"
)

// Because sometimes it's really convenient to have C's ternary ?:
func IfThenElse[T any](x bool, a T, b T) T { //nolint:ireturn
	if x {
		return a
	} else {
		return b
	}
}

// Can't be "assert" because of conflicts with stretchr/testify/assert, but otherwise, it's compatible enough
func Assert(t bool) {
	if !t {
		_, file, line, _ := runtime.Caller(1)
		panic(fmt.Sprintf("Assertion failed at %s:%d", file, line))
	}
}

// Squared magnitude, without the square root cmplx.Abs would take.
func absSquared(z complex128) float64 {
	return real(z)*real(z) + imag(z)*imag(z)
}

// exp(j*theta)
func cis(theta float64) complex128 {
	return cmplx.Rect(1, theta)
}

func dB2Linear(db float64) float64 {
	return math.Pow(10, db/10)
}

func linear2dB(x float64) float64 {
	return 10 * math.Log10(x)
}
