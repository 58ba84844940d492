// SPDX-License-Identifier: MIT
// Package waveform generates deterministic test signals to load on DACs.
package waveform

import (
	"math"

	"qkdhal/pkg/hal"
)

// Sine returns n samples of amplitude*sin(2*pi*freq*t) sampled at rate Hz.
func Sine(n int, rate, freq, amplitude float64) []float64 {
	seq := make([]float64, max(n, 0))
	for i := range seq {
		t := float64(i) / rate
		seq[i] = amplitude * math.Sin(2*math.Pi*freq*t)
	}
	return seq
}

// Harmonics sums sines of freq and its multiples. weights[k] is the
// amplitude of harmonic k+1.
func Harmonics(n int, rate, freq float64, weights ...float64) []float64 {
	seq := make([]float64, max(n, 0))
	for k, w := range weights {
		h := Sine(n, rate, freq*float64(k+1), w)
		for i := range seq {
			seq[i] += h[i]
		}
	}
	return seq
}

// Constant returns n samples equal to v.
func Constant(n int, v float64) []float64 {
	seq := make([]float64, max(n, 0))
	for i := range seq {
		seq[i] = v
	}
	return seq
}

// Buffer replicates seq on every channel. Each channel gets its own copy.
func Buffer(channels int, seq []float64) hal.Buffer {
	buf := make(hal.Buffer, max(channels, 0))
	for i := range buf {
		buf[i] = append([]float64(nil), seq...)
	}
	return buf
}

// PeakBin returns the index of the largest magnitude in [start, end],
// clamped to the slice bounds.
func PeakBin(magnitudes []float64, start, end int) int {
	if len(magnitudes) == 0 {
		return 0
	}
	start = max(start, 0)
	end = min(end, len(magnitudes)-1)

	peak := start
	for i := start + 1; i <= end; i++ {
		if magnitudes[i] > magnitudes[peak] {
			peak = i
		}
	}
	return peak
}
