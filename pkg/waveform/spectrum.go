// SPDX-License-Identifier: MIT
package waveform

import (
	"fmt"
	"math"
	"math/bits"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

// Analyzer computes Hann-windowed magnitude spectra of acquired sequences.
// Its buffers are allocated once; an Analyzer is not safe for concurrent
// use.
type Analyzer struct {
	size   int
	rate   float64
	fft    *fourier.FFT
	window []float64
	input  []float64
	coeffs []complex128
	mags   []float64
}

// NewAnalyzer creates an analyzer for sequences of up to n samples taken at
// rate Hz. The transform length is n rounded up to a power of two.
func NewAnalyzer(n int, rate float64) (*Analyzer, error) {
	if n < 2 {
		return nil, fmt.Errorf("spectrum needs at least 2 samples, got %d", n)
	}
	if rate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %g", rate)
	}
	size := nextPowerOfTwo(n)

	window := make([]float64, size)
	for i := range size {
		window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(size-1)))
	}
	return &Analyzer{
		size:   size,
		rate:   rate,
		fft:    fourier.NewFFT(size),
		window: window,
		input:  make([]float64, size),
		coeffs: make([]complex128, size/2+1),
		mags:   make([]float64, size/2+1),
	}, nil
}

// Size returns the transform length.
func (a *Analyzer) Size() int { return a.size }

// Magnitudes returns the spectrum of seq, zero padded to Size. The result
// is overwritten by the next call.
func (a *Analyzer) Magnitudes(seq []float64) []float64 {
	return a.transform(seq, 0)
}

func (a *Analyzer) transform(seq []float64, offset float64) []float64 {
	for i := range a.size {
		if i < len(seq) {
			a.input[i] = (seq[i] - offset) * a.window[i]
		} else {
			a.input[i] = 0
		}
	}
	a.fft.Coefficients(a.coeffs, a.input)
	for i, c := range a.coeffs {
		a.mags[i] = cmplx.Abs(c)
	}
	return a.mags
}

// Freq returns the frequency in Hz of bin i.
func (a *Analyzer) Freq(i int) float64 {
	if i < 0 || i >= len(a.mags) {
		return 0
	}
	return a.fft.Freq(i) * a.rate
}

// Dominant returns the frequency of the strongest non-DC component of seq.
// The mean of seq is removed before the transform.
func (a *Analyzer) Dominant(seq []float64) float64 {
	if len(seq) == 0 {
		return 0
	}
	mags := a.transform(seq, stat.Mean(seq, nil))
	return a.Freq(PeakBin(mags, 1, len(mags)-1))
}

// nextPowerOfTwo returns the smallest power of two >= n, 1 for n <= 0.
func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
