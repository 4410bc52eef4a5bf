/*
NAME
  demod.go

DESCRIPTION
  demod.go implements Gardner symbol-timing recovery and the demodulator
  orchestrator that drives the Chebyshev IIR, RRC, AGC, and Costas PLL
  stages over a block of baseband samples, emitting soft QPSK symbols.

LICENSE
  See LICENSE.
*/

package dsp

import (
	"github.com/dvdesolve/liblrpt/lrpterr"
)

// gardnerTimingScale is the spec's fixed divisor (2_000_000) applied to
// the Gardner timing-error term before it nudges resync_offset.
const gardnerTimingScale = 2_000_000

// DemodConfig parameterises a Demodulator.
type DemodConfig struct {
	// SampleRate is the input I/Q sample rate Fs, in Hz.
	SampleRate float64
	// SymbolRate is the transmitted symbol rate R, in symbols/second.
	SymbolRate float64
	// InterpFactor is F, the RRC interpolation factor.
	InterpFactor int
	// Mode selects QPSK or OQPSK demodulation.
	Mode Mode

	// Chebyshev pre-filter parameters.
	ChebyBandwidth float64
	ChebyRipple    float64
	ChebyPoles     int
	ChebyType      ChebyshevType

	// RRC matched-filter parameters.
	RRCOrder   int
	RRCOSF     int
	RRCRolloff float64

	// Costas PLL parameters.
	PLLBandwidth         float64
	PLLLockedThreshold   float64
	PLLUnlockedThreshold float64
}

// Demodulator owns one AGC, one Costas PLL, one RRC filter, and a
// Chebyshev pre-filter, and carries the Gardner timing state
// across calls to Process.
type Demodulator struct {
	mode   Mode
	interp int
	sp     float64 // symbol period in samples: F * Fs / R
	half   float64 // sp/2
	half1  float64 // sp/2 + 1

	cheby *Chebyshev
	rrc   *RRC
	agc   *AGC
	pll   *Costas

	resyncOffset float64
	before       Sample
	middle       Sample
	inphase      Sample
	prevI        float64
}

// NewDemodulator constructs a Demodulator from cfg.
func NewDemodulator(cfg DemodConfig) (*Demodulator, error) {
	if cfg.SampleRate <= 0 || cfg.SymbolRate <= 0 || cfg.InterpFactor <= 0 {
		return nil, lrpterr.New(lrpterr.InvalidParam, "demod: sample rate, symbol rate and interp factor must be positive")
	}

	cheby, err := NewChebyshev(cfg.ChebyBandwidth, cfg.SampleRate, cfg.ChebyRipple, cfg.ChebyPoles, cfg.ChebyType)
	if err != nil {
		return nil, err
	}
	rrc, err := NewRRC(cfg.RRCOrder, cfg.InterpFactor, cfg.RRCOSF, cfg.RRCRolloff)
	if err != nil {
		return nil, err
	}
	pll, err := NewCostas(cfg.PLLBandwidth, cfg.PLLLockedThreshold, cfg.PLLUnlockedThreshold, cfg.Mode, cfg.InterpFactor)
	if err != nil {
		return nil, err
	}

	sp := float64(cfg.InterpFactor) * cfg.SampleRate / cfg.SymbolRate

	return &Demodulator{
		mode:   cfg.Mode,
		interp: cfg.InterpFactor,
		sp:     sp,
		half:   sp / 2,
		half1:  sp/2 + 1,
		cheby:  cheby,
		rrc:    rrc,
		agc:    NewAGC(),
		pll:    pll,
	}, nil
}

// Process runs the full pipeline (Chebyshev pre-filter, then for each
// sample F RRC/Gardner/AGC/PLL steps) over in, appending emitted soft
// symbols to out. in is not modified; the Chebyshev stage is applied to a
// local copy.
func (d *Demodulator) Process(in *Sequence, out *QPSKSequence) {
	pre := FromComplex(in.Slice())
	d.cheby.ApplySequence(pre)

	for _, x := range pre.Slice() {
		for k := 0; k < d.interp; k++ {
			d.step(d.rrc.Apply(x), out)
		}
	}
}

// step runs one Gardner-gated decision cycle for a single post-RRC
// sample, per spec.md §4.5.
func (d *Demodulator) step(x Sample, out *QPSKSequence) {
	switch {
	case d.resyncOffset >= d.half && d.resyncOffset < d.half1:
		d.midpointTick(x)
	case d.resyncOffset >= d.sp:
		d.decisionTick(x, out)
	default:
		d.resyncOffset++
	}
}

func (d *Demodulator) midpointTick(x Sample) {
	if d.mode == OQPSK {
		a := d.agc.Apply(x)
		d.inphase = d.pll.Mix(a)
		d.middle = complex(d.prevI, imag(d.inphase))
		d.prevI = real(d.inphase)
	} else {
		d.middle = d.agc.Apply(x)
	}
	d.resyncOffset++
}

func (d *Demodulator) decisionTick(x Sample, out *QPSKSequence) {
	var current, errSample Sample

	if d.mode == OQPSK {
		a := d.agc.Apply(x)
		quad := d.pll.Mix(a)
		current = complex(d.prevI, imag(quad))
		d.prevI = real(quad)
		errSample = quad
	} else {
		current = d.agc.Apply(x)
		errSample = current
	}

	d.resyncOffset -= d.sp

	te := (imag(errSample) - imag(d.before)) * imag(d.middle)
	d.resyncOffset += te * d.sp / gardnerTimingScale

	d.before = current

	co := errSample
	if d.mode != OQPSK {
		current = d.pll.Mix(current)
		co = current
	}

	phaseErr := d.pll.phaseError(current, co)
	d.pll.Correct(phaseErr)

	d.resyncOffset++

	out.Append(SoftSymbol{
		I: clampI8(real(current) / 2),
		Q: clampI8(imag(current) / 2),
	})
}

// PLL exposes the demodulator's Costas PLL for observability (§6).
func (d *Demodulator) PLL() *Costas { return d.pll }

// AGC exposes the demodulator's AGC for observability (§6).
func (d *Demodulator) AGC() *AGC { return d.agc }
