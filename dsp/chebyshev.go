/*
NAME
  chebyshev.go

DESCRIPTION
  chebyshev.go implements the recursive Chebyshev IIR filter applied to the
  complex baseband stream before interpolation and demodulation.

LICENSE
  See LICENSE.
*/

package dsp

import (
	"math"

	"github.com/dvdesolve/liblrpt/lrpterr"
)

// ChebyshevType selects the filter's frequency response shape.
type ChebyshevType int

const (
	Lowpass ChebyshevType = iota
	Highpass
	Bandpass
)

// maxChebyshevPoles bounds the pole count the design procedure accepts.
const maxChebyshevPoles = 252

// Chebyshev is a recursive Chebyshev IIR filter over complex samples. Both
// I and Q channels share one complex state: Apply runs the same recursion
// on the complex value as a whole, rather than on I and Q separately.
//
// Coefficients are derived once at construction from (bandwidth, sample
// rate, ripple, pole count, type) and never mutated afterward.
type Chebyshev struct {
	poles int // P, even, <= maxChebyshevPoles

	a []float64 // feed-forward coefficients, length P+1
	b []float64 // feedback coefficients, length P+1

	x  []Sample // ring of past inputs, length P+1
	y  []Sample // ring of past outputs, length P+1
	ri int      // ring index in [0, P]
}

// NewChebyshev designs a Chebyshev IIR filter. bandwidth and sampleRate are
// in Hz, ripple is a percentage (0 for a Butterworth-flat passband), poles
// must be even and at most maxChebyshevPoles.
func NewChebyshev(bandwidth, sampleRate, ripple float64, poles int, kind ChebyshevType) (*Chebyshev, error) {
	if poles <= 0 || poles%2 != 0 || poles > maxChebyshevPoles {
		return nil, lrpterr.New(lrpterr.InvalidParam, "chebyshev: pole count must be even and <= 252")
	}

	a, b := designChebyshev(bandwidth, sampleRate, ripple, poles, kind)

	c := &Chebyshev{
		poles: poles,
		a:     a,
		b:     b,
		x:     make([]Sample, poles+1),
		y:     make([]Sample, poles+1),
	}
	return c, nil
}

// designChebyshev implements spec.md §4.1's deterministic design procedure:
// pre-warp, place poles on the unit circle (warped to an ellipse when
// ripple > 0), bilinear-transform and low/high-transform each conjugate
// pole pair, cascade-convolve the pairs, and gain-normalise.
func designChebyshev(bandwidth, sampleRate, ripple float64, poles int, kind ChebyshevType) (a, b []float64) {
	P := poles

	w := 2 * math.Pi * (bandwidth / 2) / sampleRate
	t := 2 * math.Tan(0.5)

	var k float64
	switch kind {
	case Highpass:
		k = -math.Cos((w+1)/2) / math.Cos((w-1)/2)
	case Lowpass:
		k = math.Sin((1-w)/2) / math.Sin((1+w)/2)
	default: // Bandpass
		k = 1
	}

	// Running cascade accumulators, sized P+3 to give the two-element-wide
	// scratch the spec calls for; a[0]/b[0] seed to 1 for the convolution
	// identity.
	ta := make([]float64, P+3)
	tb := make([]float64, P+3)
	ta[2] = 1
	tb[2] = 1

	for p := 1; p <= P/2; p++ {
		theta := math.Pi/(2*float64(P)) + float64(p-1)*math.Pi/float64(P)
		rp := -math.Cos(theta)
		ip := math.Sin(theta)

		if ripple > 0 {
			es := math.Sqrt(math.Pow(100/(100-ripple), 2) - 1)
			vx := math.Asinh(1/es) / float64(P)
			kx := math.Cosh(math.Acosh(1/es) / float64(P))
			rp *= math.Sinh(vx) / kx
			ip *= math.Cosh(vx) / kx
		}

		// Bilinear transform of the pole (rp, ip) onto the z-plane.
		m := rp*rp + ip*ip
		d := 4 - 4*rp*t + m*t*t
		x0 := t * t / d
		x1 := 2 * x0
		x2 := x0
		y1 := (8 - 2*m*t*t) / d
		y2 := (-4 - 4*rp*t - m*t*t) / d

		// Low/high-pass frequency transform onto (a0,a1,a2,b1,b2), sharing
		// one k-substitution formula for both types (k==1 for bandpass
		// degenerates it to a direct pass-through of the bilinear section).
		d2 := 1 + y1*k - y2*k*k
		a0 := (x0 - x1*k + x2*k*k) / d2
		a1 := (-2*x0*k + x1 + x1*k*k - 2*x2*k) / d2
		a2 := (x0*k*k - x1*k + x2) / d2
		b1 := (2*k + y1 + y1*k*k - 2*y2*k) / d2
		b2 := (-(k * k) - y1*k + y2) / d2

		if kind == Highpass {
			a1 = -a1
			b1 = -b1
		}

		// Cascade-convolve this pair into the running a/b arrays.
		na := make([]float64, P+3)
		nb := make([]float64, P+3)
		copy(na, ta)
		copy(nb, tb)
		for i := 2; i < P+3; i++ {
			ta[i] = a0*na[i] + a1*na[i-1] + a2*na[i-2]
			tb[i] = nb[i] - b1*nb[i-1] - b2*nb[i-2]
		}
	}

	// Drop the two leading scratch entries; negate b.
	a = make([]float64, P+1)
	b = make([]float64, P+1)
	for i := 0; i <= P; i++ {
		a[i] = ta[i+2]
		b[i] = -tb[i+2]
	}
	b[0] = 0 // the recursion has no b[0] term; keep it out of the gain sum

	// Gain-normalise.
	var sa, sb float64
	if kind == Highpass {
		sign := 1.0
		for i := 0; i <= P; i++ {
			sa += a[i] * sign
			sb += b[i] * sign
			sign = -sign
		}
	} else {
		for i := 0; i <= P; i++ {
			sa += a[i]
			sb += b[i]
		}
	}
	gain := sa / (1 - sb)
	for i := 0; i <= P; i++ {
		a[i] /= gain
	}

	return a, b
}

// advance moves the ring index forward modulo P+1. Factoring this out
// avoids the classic bug of advancing the index outside the inner pole
// loop, which silently detunes the filter.
func (c *Chebyshev) advance() {
	c.ri++
	if c.ri > c.poles {
		c.ri = 0
	}
}

// Apply filters one complex sample through the recursion
//
//	y = a[0]*x + sum_{j=1..P} (a[j]*x_mem[ri] + b[j]*y_mem[ri])
//
// advancing ri modulo P+1 after every term, then writes x and y into the
// ring at the final index. Apply never fails given a well-formed filter.
func (c *Chebyshev) Apply(x Sample) Sample {
	y := complex(c.a[0], 0) * x

	for j := 1; j <= c.poles; j++ {
		y += complex(c.a[j], 0)*c.x[c.ri] + complex(c.b[j], 0)*c.y[c.ri]
		c.advance()
	}

	c.x[c.ri] = x
	c.y[c.ri] = y
	return y
}

// ApplySequence filters every sample of seq in place.
func (c *Chebyshev) ApplySequence(seq *Sequence) {
	for i := range seq.buf {
		seq.buf[i] = c.Apply(seq.buf[i])
	}
}
