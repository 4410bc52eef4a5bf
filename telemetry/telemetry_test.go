/*
NAME
  telemetry_test.go

DESCRIPTION
  telemetry_test.go tests that Tracker reports the Demodulator's PLL/AGC
  state and windowed symbol statistics.

LICENSE
  See LICENSE.
*/

package telemetry

import (
	"testing"

	"github.com/dvdesolve/liblrpt/dsp"
)

func newTestDemodulator(t *testing.T) *dsp.Demodulator {
	t.Helper()
	d, err := dsp.NewDemodulator(dsp.DemodConfig{
		SampleRate:           38400,
		SymbolRate:           9600,
		InterpFactor:         4,
		Mode:                 dsp.QPSK,
		ChebyBandwidth:       12000,
		ChebyRipple:          0.5,
		ChebyPoles:           4,
		ChebyType:            dsp.Lowpass,
		RRCOrder:             8,
		RRCOSF:               2,
		RRCRolloff:           0.6,
		PLLBandwidth:         0.045,
		PLLLockedThreshold:   0.5,
		PLLUnlockedThreshold: 0.515,
	})
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestSnapshotReflectsState(t *testing.T) {
	d := newTestDemodulator(t)
	tr := NewTracker(d)

	tr.Observe(dsp.SoftSymbol{I: 100, Q: -100})
	tr.Observe(dsp.SoftSymbol{I: 50, Q: 50})

	snap := tr.Snapshot()
	if snap.Locked != d.PLL().Locked() {
		t.Errorf("Snapshot.Locked = %v, want %v", snap.Locked, d.PLL().Locked())
	}
	if snap.AGCGain != d.AGC().Gain() {
		t.Errorf("Snapshot.AGCGain = %v, want %v", snap.AGCGain, d.AGC().Gain())
	}
	if snap.SymbolMean <= 0 {
		t.Error("SymbolMean should be positive after observing non-zero symbols")
	}
}

func TestSnapshotEmptyWindow(t *testing.T) {
	d := newTestDemodulator(t)
	tr := NewTracker(d)
	snap := tr.Snapshot()
	if snap.SymbolMean != 0 || snap.SymbolVariance != 0 {
		t.Errorf("an empty window should report zero mean/variance, got %v/%v", snap.SymbolMean, snap.SymbolVariance)
	}
}
