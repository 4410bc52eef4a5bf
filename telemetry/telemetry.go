/*
NAME
  telemetry.go

DESCRIPTION
  telemetry.go exposes read-only observability snapshots of the running
  demodulator: PLL lock state, AGC gain, and windowed jitter statistics,
  intended for UI/ops visibility rather than control-flow decisions.

LICENSE
  See LICENSE.
*/

// Package telemetry provides read-only snapshots of demodulator health
// for operator-facing tooling. Readers tolerate seeing any recent value;
// no atomicity beyond what the underlying dsp types already provide is
// required (spec.md §6 Observability hooks).
package telemetry

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/dvdesolve/liblrpt/dsp"
)

// windowSize bounds how much recent history Tracker keeps for its
// windowed mean/variance statistics.
const windowSize = 512

// Snapshot is a point-in-time read of demodulator health.
type Snapshot struct {
	Locked        bool
	PLLErrAvg     float64
	PLLFreq       float64
	AGCGain       float64
	AGCMagAvg     float64
	SymbolMean    float64
	SymbolVariance float64
}

// Tracker accumulates a bounded window of emitted symbol magnitudes
// alongside a Demodulator, so Snapshot can report jitter the way a
// ground-station health panel would, in addition to the PLL/AGC scalars
// already named by the spec.
type Tracker struct {
	demod *dsp.Demodulator
	mags  []float64
	head  int
	full  bool
}

// NewTracker wraps d.
func NewTracker(d *dsp.Demodulator) *Tracker {
	return &Tracker{demod: d, mags: make([]float64, windowSize)}
}

// Observe records one emitted symbol's magnitude into the jitter window.
func (t *Tracker) Observe(sym dsp.SoftSymbol) {
	mag := math.Hypot(float64(sym.I), float64(sym.Q))
	t.mags[t.head] = mag
	t.head = (t.head + 1) % len(t.mags)
	if t.head == 0 {
		t.full = true
	}
}

// Snapshot returns the current health snapshot.
func (t *Tracker) Snapshot() Snapshot {
	window := t.mags
	if !t.full {
		window = t.mags[:t.head]
	}

	var mean, variance float64
	if len(window) > 0 {
		mean, variance = stat.MeanVariance(window, nil)
	}

	pll := t.demod.PLL()
	agc := t.demod.AGC()
	return Snapshot{
		Locked:         pll.Locked(),
		PLLErrAvg:      pll.ErrAvg(),
		PLLFreq:        pll.Freq(),
		AGCGain:        agc.Gain(),
		AGCMagAvg:      agc.MagAvg(),
		SymbolMean:     mean,
		SymbolVariance: variance,
	}
}
