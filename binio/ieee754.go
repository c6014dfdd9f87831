package binio

import "math"

// Pack754 encodes f as an IEEE-754 style bit pattern with the given total
// width and exponent width. The layout is sign, exponent, significand from the
// most significant bit down; the exponent is biased by 2^(expbits-1)-1.
//
// bits and expbits must describe a format no wider than binary64
// (bits <= 64, expbits <= 11, bits-expbits-1 <= 52). Pack754(f, 64, 11)
// equals math.Float64bits(f) and Pack754(f, 32, 8) equals
// math.Float32bits(float32(f)).
func Pack754(f float64, bits, expbits uint) uint64 {
	sigbits := bits - expbits - 1
	expMax := uint64(1)<<expbits - 1
	bias := int(expMax >> 1)

	var sign uint64
	if math.Signbit(f) {
		sign = 1 << (bits - 1)
	}

	switch {
	case math.IsNaN(f):
		return sign | expMax<<sigbits | 1<<(sigbits-1)
	case math.IsInf(f, 0):
		return sign | expMax<<sigbits
	case f == 0:
		return sign
	}

	abs := math.Abs(f)
	frac, e := math.Frexp(abs) // abs = frac * 2^e, frac in [0.5, 1)
	exp := e - 1 + bias

	var mag uint64
	if exp <= 0 {
		// subnormal: value = sig * 2^(1-bias-sigbits)
		mag = uint64(math.RoundToEven(math.Ldexp(abs, bias-1+int(sigbits))))
	} else {
		sig := math.RoundToEven(math.Ldexp(frac*2-1, int(sigbits)))
		// a carry out of the significand bumps the exponent
		mag = uint64(exp)<<sigbits + uint64(sig)
	}
	if mag >= expMax<<sigbits {
		mag = expMax << sigbits
	}
	return sign | mag
}

// Unpack754 is the inverse of Pack754.
func Unpack754(i uint64, bits, expbits uint) float64 {
	sigbits := bits - expbits - 1
	expMax := uint64(1)<<expbits - 1
	bias := int(expMax >> 1)

	neg := i>>(bits-1)&1 == 1
	exp := i >> sigbits & expMax
	sig := i & (uint64(1)<<sigbits - 1)

	var v float64
	switch {
	case exp == expMax && sig == 0:
		v = math.Inf(1)
	case exp == expMax:
		return math.NaN()
	case exp == 0:
		v = math.Ldexp(float64(sig), 1-bias-int(sigbits))
	default:
		v = math.Ldexp(float64(uint64(1)<<sigbits|sig), int(exp)-bias-int(sigbits))
	}
	if neg {
		v = math.Copysign(v, -1)
	}
	return v
}
