/*
NAME
  costas.go

DESCRIPTION
  costas.go implements the decision-directed Costas phase-locked loop with
  hysteretic lock detection, shared by plain QPSK and Offset QPSK.

LICENSE
  See LICENSE.
*/

package dsp

import (
	"math"

	"github.com/dvdesolve/liblrpt/lrpterr"
)

// Mode selects the Costas loop's error-scale and mixing behaviour.
type Mode int

const (
	QPSK Mode = iota
	OQPSK
)

// PLL constants, per spec.md §4.4.
const (
	pllDamping       = 1 / math.Sqrt2
	pllInitFreq      = 0.001
	pllErrScaleQPSK  = 43
	pllErrScaleOQPSK = 80
	pllLockedDivisor = 10
	pllDeltaWindow   = 100
	pllAvgWindowBase = 20000
	pllAvgWindowMult = 10 // applied when locked
	pllBWShrink      = 4  // applied when locked
	pllMaxLockedFreq = 0.8
)

// tanhLUT is a 256-entry lookup table over integer inputs [-128, 127],
// indexed as tanhLUT[v+128].
var tanhLUT [256]float64

func init() {
	for v := -128; v <= 127; v++ {
		tanhLUT[v+128] = math.Tanh(float64(v))
	}
}

func tanhLookup(v float64) float64 {
	iv := int(math.Round(v))
	if iv < -128 {
		iv = -128
	} else if iv > 127 {
		iv = 127
	}
	return tanhLUT[iv+128]
}

// Costas is a Costas PLL with hysteretic lock detection.
type Costas struct {
	mode Mode
	interp int // interpolation factor, used to scale the phase-average window

	phase float64
	freq  float64

	alpha, beta float64
	zeta        float64
	bw          float64 // current loop bandwidth
	bwUnlocked  float64 // the unlocked (wide) bandwidth, restored on unlock

	errAvg       float64 // moving average of |error|, window errAvgWindow
	errAvgWindow float64

	delta float64 // sliding window of beta*error, window pllDeltaWindow

	locked            bool
	lockedThreshold   float64
	unlockedThreshold float64

	errScale float64
}

// NewCostas constructs a Costas PLL. bw is the initial (unlocked) loop
// bandwidth in rad/symbol; lockedThreshold must be strictly less than
// unlockedThreshold (the hysteresis band); interp is the demodulator's
// interpolation factor, which scales the phase-average window.
func NewCostas(bw, lockedThreshold, unlockedThreshold float64, mode Mode, interp int) (*Costas, error) {
	if !(lockedThreshold < unlockedThreshold) {
		return nil, lrpterr.New(lrpterr.InvalidParam, "costas: locked threshold must be < unlocked threshold")
	}
	if interp <= 0 {
		return nil, lrpterr.New(lrpterr.InvalidParam, "costas: interp must be positive")
	}

	c := &Costas{
		mode:              mode,
		interp:            interp,
		freq:              pllInitFreq,
		zeta:              pllDamping,
		bw:                bw,
		bwUnlocked:        bw,
		errAvg:            1e6, // deliberately large: spurious early lock is impossible
		errAvgWindow:      pllAvgWindowBase / float64(interp),
		lockedThreshold:   lockedThreshold,
		unlockedThreshold: unlockedThreshold,
	}
	if mode == OQPSK {
		c.errScale = pllErrScaleOQPSK
	} else {
		c.errScale = pllErrScaleQPSK
	}
	c.recomputeCoeffs()
	return c, nil
}

// recomputeCoeffs derives alpha/beta from the current damping and
// bandwidth: alpha = 4*zeta*bw/(1+2*zeta*bw+bw^2), beta = 4*bw^2/(same).
func (c *Costas) recomputeCoeffs() {
	d := 1 + 2*c.zeta*c.bw + c.bw*c.bw
	c.alpha = 4 * c.zeta * c.bw / d
	c.beta = 4 * c.bw * c.bw / d
}

// Mix produces y = x * e^{-j*phase}, then advances phase by the current
// NCO frequency modulo 2*pi.
func (c *Costas) Mix(x Sample) Sample {
	y := x * cmplxExp(-c.phase)
	c.phase = math.Mod(c.phase+c.freq, 2*math.Pi)
	if c.phase < 0 {
		c.phase += 2 * math.Pi
	}
	return y
}

// cmplxExp returns e^{j*theta}.
func cmplxExp(theta float64) Sample {
	return complex(math.Cos(theta), math.Sin(theta))
}

// phaseError computes the decision-directed phase error from the current
// symbol sample x and its co-sample (identical to x for plain QPSK; the
// quadrature arm for offset QPSK).
func (c *Costas) phaseError(x, co Sample) float64 {
	return (tanhLookup(real(x))*imag(x) - tanhLookup(imag(co))*real(co)) / c.errScale
}

// Correct runs one phase/frequency correction cycle given the raw phase
// error from phaseError, mixing NCO phase, tracking the lock-detection
// moving average, updating the frequency delta, and running the lock
// state machine. It returns the error applied, divided by pllLockedDivisor
// while the loop is locked.
func (c *Costas) Correct(error float64) float64 {
	if error > 1 {
		error = 1
	} else if error < -1 {
		error = -1
	}

	absErr := math.Abs(error)
	c.errAvg = ((c.errAvgWindow-1)*c.errAvg + absErr) / c.errAvgWindow

	c.phase = math.Mod(c.phase+c.alpha*error, 2*math.Pi)
	if c.phase < 0 {
		c.phase += 2 * math.Pi
	}

	if c.locked {
		error /= pllLockedDivisor
	}

	c.delta = ((pllDeltaWindow-1)*c.delta + c.beta*error) / pllDeltaWindow
	c.freq += c.delta

	c.updateLockState()

	if math.Abs(c.freq) >= pllMaxLockedFreq {
		c.freq = 0
	}

	return error
}

// updateLockState implements the hysteretic lock/unlock transitions:
// entering lock shrinks bw and widens the averaging window; leaving lock
// restores both.
func (c *Costas) updateLockState() {
	if !c.locked {
		if c.errAvg < c.lockedThreshold {
			c.locked = true
			c.bw = c.bwUnlocked / pllBWShrink
			c.errAvgWindow = (pllAvgWindowBase / float64(c.interp)) * pllAvgWindowMult
			c.recomputeCoeffs()
		}
		return
	}
	if c.errAvg > c.unlockedThreshold {
		c.locked = false
		c.bw = c.bwUnlocked
		c.errAvgWindow = pllAvgWindowBase / float64(c.interp)
		c.recomputeCoeffs()
	}
}

// Locked reports the current lock state, a read-only telemetry value.
func (c *Costas) Locked() bool { return c.locked }

// ErrAvg returns the current |error| moving-average snapshot.
func (c *Costas) ErrAvg() float64 { return c.errAvg }

// Freq returns the current NCO frequency snapshot.
func (c *Costas) Freq() float64 { return c.freq }
