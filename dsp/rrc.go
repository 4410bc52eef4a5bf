/*
NAME
  rrc.go

DESCRIPTION
  rrc.go implements the root-raised-cosine interpolating matched filter.

LICENSE
  See LICENSE.
*/

package dsp

import (
	"math"

	"github.com/dvdesolve/liblrpt/lrpterr"
)

// RRC is a root-raised-cosine matched filter realised as an FIR over a
// complex ring buffer. It does not change sample rate by itself: the
// demodulator invokes Apply InterpFactor times per input sample, feeding
// the same input repeated, to realise F-times interpolation.
type RRC struct {
	taps int // T = 2*order + 1
	h    []float64
	m    []Sample
	idm  int
}

// NewRRC designs an RRC filter. order sets the number of taps
// (T = 2*order+1); interp is the interpolation factor F; osf is the
// oversample factor; rolloff is alpha in (0, 1].
func NewRRC(order, interp, osf int, rolloff float64) (*RRC, error) {
	if order <= 0 || interp <= 0 || osf <= 0 {
		return nil, lrpterr.New(lrpterr.InvalidParam, "rrc: order, interp and osf must be positive")
	}

	taps := 2*order + 1
	h := make([]float64, taps)
	for i := 0; i < taps; i++ {
		if i == order {
			h[i] = 1 - rolloff + 4*rolloff/math.Pi
			continue
		}
		tau := math.Abs(float64(order-i)) / float64(osf*interp)
		mm := math.Pi * tau
		q := 4 * rolloff * tau
		h[i] = (math.Sin(mm*(1-rolloff)) + q*math.Cos(mm*(1+rolloff))) / (mm * (1 - q*q))
	}

	return &RRC{
		taps: taps,
		h:    h,
		m:    make([]Sample, taps),
	}, nil
}

// Apply feeds x into the ring and returns the filtered output
// sum_j h[j] * m[(idm+j) mod T], then decrements idm with wrap.
func (f *RRC) Apply(x Sample) Sample {
	f.m[f.idm] = x

	var out Sample
	for j := 0; j < f.taps; j++ {
		out += complex(f.h[j], 0) * f.m[(f.idm+j)%f.taps]
	}

	f.idm--
	if f.idm < 0 {
		f.idm = f.taps - 1
	}

	return out
}
