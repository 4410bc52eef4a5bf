/*
NAME
  spectrum.go

DESCRIPTION
  spectrum.go provides a diagnostic power-spectral-density snapshot of the
  baseband stream, for the same kind of ground-station telemetry the PLL's
  |error| average and the AGC's gain already expose.

LICENSE
  See LICENSE.
*/

package dsp

import (
	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// PSD computes a windowed power-spectral-density estimate of samples,
// returning one magnitude-squared bin per FFT point (DC first). The FFT
// runs over all len(samples) points, one bin per sample, since go-dsp's
// FFT accepts any length; no further framing/averaging is performed,
// matching the teacher's own single-shot FFT use in codec/pcm/filters.go.
func PSD(samples []Sample) []float64 {
	n := len(samples)
	if n == 0 {
		return nil
	}

	win := window.FlatTop(n)
	windowed := make([]complex128, n)
	for i, s := range samples {
		windowed[i] = complex(real(s)*win[i], imag(s)*win[i])
	}

	spec := fft.FFT(windowed)
	out := make([]float64, len(spec))
	for i, c := range spec {
		out[i] = real(c)*real(c) + imag(c)*imag(c)
	}
	return out
}
