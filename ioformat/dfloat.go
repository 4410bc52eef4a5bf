/*
NAME
  dfloat.go

DESCRIPTION
  dfloat.go implements the portable double serialisation used by the
  lrptiq file format: each double becomes a big-endian 2-byte frexp
  exponent and an 8-byte mantissa scaled by 2^53, so a file produced on
  one architecture reads back identically on another.

LICENSE
  See LICENSE.
*/

// Package ioformat implements the bit-exact on-disk file formats that sit
// on either side of the DSP core: the lrptiq I/Q sample container and the
// lrptqpsk soft/hard symbol container.
package ioformat

import (
	"encoding/binary"
	"math"

	"github.com/dvdesolve/liblrpt/lrpterr"
)

// mantissaScale is 2^53, the largest integer exactly representable in a
// float64 mantissa, used to quantise frexp's fractional part into an
// 8-byte integer.
const mantissaScale = 1 << 53

// encodedDoubleSize is the on-disk size in bytes of one serialised double:
// a 2-byte exponent plus an 8-byte mantissa.
const encodedDoubleSize = 2 + 8

// EncodeDouble serialises v into dst (which must be at least
// encodedDoubleSize bytes) as a big-endian frexp exponent followed by a
// big-endian scaled mantissa. NaN and +-Inf are rejected, since the wire
// format has no representation for them and a silently propagated NaN
// would corrupt every downstream stage.
func EncodeDouble(v float64, dst []byte) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return lrpterr.New(lrpterr.InvalidParam, "dfloat: cannot encode NaN or Inf")
	}
	if len(dst) < encodedDoubleSize {
		return lrpterr.New(lrpterr.InvalidParam, "dfloat: dst too small")
	}

	frac, exp := math.Frexp(v)
	mantissa := int64(frac * mantissaScale)

	binary.BigEndian.PutUint16(dst[0:2], uint16(int16(exp)))
	binary.BigEndian.PutUint64(dst[2:10], uint64(mantissa))
	return nil
}

// DecodeDouble reverses EncodeDouble.
func DecodeDouble(src []byte) (float64, error) {
	if len(src) < encodedDoubleSize {
		return 0, lrpterr.New(lrpterr.InvalidParam, "dfloat: src too small")
	}

	exp := int16(binary.BigEndian.Uint16(src[0:2]))
	mantissa := int64(binary.BigEndian.Uint64(src[2:10]))

	frac := float64(mantissa) / mantissaScale
	return math.Ldexp(frac, int(exp)), nil
}
