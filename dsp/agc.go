/*
NAME
  agc.go

DESCRIPTION
  agc.go implements automatic gain control with DC-bias tracking.

LICENSE
  See LICENSE.
*/

package dsp

import "math/cmplx"

// AGC constants, per spec.md §4.3.
const (
	agcWAvg   = 65536
	agcWBias  = 262144
	AGCMaxGain = 20
	agcTarget = 180
)

// AGC tracks a DC bias and a running magnitude average to hold the
// envelope of its input near a target level. Gain is always clamped to
// [0, AGCMaxGain].
type AGC struct {
	bias Sample
	avg  float64
	gain float64
}

// NewAGC returns an AGC with the spec's initial state: bias 0,
// avg == target, gain == 1.
func NewAGC() *AGC {
	return &AGC{avg: agcTarget, gain: 1}
}

// Apply updates the bias and magnitude average from x and returns the
// gain-corrected, bias-removed sample gain * (x - bias).
func (a *AGC) Apply(x Sample) Sample {
	a.bias = complex(((agcWBias-1)*real(a.bias)+real(x))/agcWBias, ((agcWBias-1)*imag(a.bias)+imag(x))/agcWBias)
	xp := x - a.bias

	mag := cmplx.Abs(xp)
	a.avg = ((agcWAvg-1)*a.avg + mag) / agcWAvg

	a.gain = agcTarget / a.avg
	if a.gain > AGCMaxGain {
		a.gain = AGCMaxGain
	}

	return complex(a.gain, 0) * xp
}

// Gain returns the current gain snapshot, a read-only telemetry value.
func (a *AGC) Gain() float64 { return a.gain }

// MagAvg returns the current magnitude running-average snapshot.
func (a *AGC) MagAvg() float64 { return a.avg }
