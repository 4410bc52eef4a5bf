/*
NAME
  viterbi.go

DESCRIPTION
  viterbi.go implements a soft-decision Viterbi decoder for the rate-1/2,
  constraint-length-7 convolutional code used on the LRPT downlink,
  consuming the demodulator's signed soft symbols directly as branch
  metrics.

LICENSE
  See LICENSE.
*/

package frame

import (
	"math"

	"github.com/dvdesolve/liblrpt/dsp"
	"github.com/dvdesolve/liblrpt/lrpterr"
)

// Convolutional code parameters: K=7, rate 1/2, CCSDS/NASA standard
// generator polynomials (octal 171, 133).
const (
	constraintLength = 7
	numStates        = 1 << (constraintLength - 1)
	poly1            = 0o171
	poly2            = 0o133
)

// Viterbi decodes a stream of soft QPSK symbols (two branch metrics per
// output bit pair) back into the original bitstream.
type Viterbi struct {
	pathMetric [numStates]int32
	nextMetric [numStates]int32
	history    [][numStates]uint8 // per-step predecessor low bit, for traceback
}

// NewViterbi constructs a decoder with its path metrics reset to the
// all-zero start state.
func NewViterbi() *Viterbi {
	v := &Viterbi{}
	for i := 1; i < numStates; i++ {
		v.pathMetric[i] = math.MaxInt32 / 2
	}
	return v
}

func parityOf(v int) int {
	p := 0
	for v != 0 {
		p ^= v & 1
		v >>= 1
	}
	return p
}

// expectedBits returns the two encoder output bits for transitioning out
// of state with input bit in.
func expectedBits(state, in int) (int, int) {
	reg := (in << (constraintLength - 1)) | state
	return parityOf(reg & poly1), parityOf(reg & poly2)
}

// branchCost scores how well sym's I and Q components (each in
// [-128,127]) match the two expected bits e1, e2: 0 => expect a
// negative-going soft value, 1 => expect positive. Lower cost is a
// better match.
func branchCost(sym dsp.SoftSymbol, e1, e2 int) int32 {
	cost := func(v int8, bit int) int32 {
		if bit == 1 {
			return 127 - int32(v)
		}
		return int32(v) + 128
	}
	return cost(sym.I, e1) + cost(sym.Q, e2)
}

// Decode runs the full Viterbi trellis over syms (one soft symbol pair
// per trellis step, I carrying bit e1's metric and Q carrying e2's) and
// returns the maximum-likelihood bitstream packed MSB first, eight
// decoded bits per byte. Traceback starts from the zero state;
// tailBits (normally constraintLength-1) are assumed to be a known
// all-zero flush and are trimmed from the end of the traced-back path.
func Decode(syms *dsp.QPSKSequence, tailBits int) ([]byte, error) {
	n := syms.Len()
	if n == 0 {
		return nil, lrpterr.New(lrpterr.NoData, "viterbi: empty symbol sequence")
	}

	v := NewViterbi()
	v.history = make([][numStates]uint8, n)

	for t := 0; t < n; t++ {
		for s := range v.nextMetric {
			v.nextMetric[s] = math.MaxInt32 / 2
		}

		sym := syms.At(t)
		for state := 0; state < numStates; state++ {
			if v.pathMetric[state] >= math.MaxInt32/2 {
				continue
			}
			for in := 0; in < 2; in++ {
				e1, e2 := expectedBits(state, in)
				next := (in<<(constraintLength-1) | state) >> 1
				cost := v.pathMetric[state] + branchCost(sym, e1, e2)
				if cost < v.nextMetric[next] {
					v.nextMetric[next] = cost
					v.history[t][next] = uint8(state & 1)
				}
			}
		}
		v.pathMetric = v.nextMetric
	}

	// Traceback from the all-zero state (flush tail guarantees it).
	bits := make([]byte, 0, n)
	state := 0
	for t := n - 1; t >= 0; t-- {
		bits = append(bits, byte(state>>(constraintLength-2)))
		state = (state<<1)&(numStates-1) | int(v.history[t][state])
	}
	// bits was built newest-first; reverse to restore transmission order.
	for i, j := 0, len(bits)-1; i < j; i, j = i+1, j-1 {
		bits[i], bits[j] = bits[j], bits[i]
	}

	if tailBits > 0 && tailBits <= len(bits) {
		bits = bits[:len(bits)-tailBits]
	}

	return packBits(bits), nil
}

func packBits(bits []byte) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b != 0 {
			out[i/8] |= 1 << (7 - uint(i%8))
		}
	}
	return out
}
