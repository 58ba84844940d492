// SPDX-License-Identifier: MIT
package adc

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"qkdhal/pkg/hal"
	"qkdhal/pkg/samples"
)

// DefaultVariance is the variance of the samples returned by
// FakeADC.GetData.
const DefaultVariance = 1.0

// FakeADC returns normally distributed samples of mean 0. The location is
// ignored; only the number of channels matters.
type FakeADC struct {
	channels []int
	cfg      Config
	convert  Converter

	// Source feeds the normal distribution. Nil uses the global source.
	Source rand.Source
}

var _ ADC = (*FakeADC)(nil)

// NewFake creates a FakeADC.
func NewFake(spec hal.Spec) *FakeADC {
	return &FakeADC{
		channels: append([]int(nil), spec.Channels...),
		convert:  Identity,
	}
}

func (f *FakeADC) Open() error  { return nil }
func (f *FakeADC) Close() error { return nil }

// SetAcquisitionParameters uses AcquisitionTime and TargetRate.
func (f *FakeADC) SetAcquisitionParameters(cfg Config) error {
	f.cfg = Config{AcquisitionTime: cfg.AcquisitionTime, TargetRate: cfg.TargetRate}
	return nil
}

func (f *FakeADC) ArmAcquisition() error  { return nil }
func (f *FakeADC) StopAcquisition() error { return nil }
func (f *FakeADC) Trigger() error         { return nil }

// GetData returns int(AcquisitionTime*TargetRate) samples per channel drawn
// with DefaultVariance.
func (f *FakeADC) GetData() (hal.Buffer, error) {
	return f.Sample(DefaultVariance), nil
}

// Sample is GetData with an explicit variance. A variance of zero yields
// samples that are all exactly 0; a negative variance is treated as zero.
func (f *FakeADC) Sample(variance float64) hal.Buffer {
	dist := distuv.Normal{
		Mu:    0,
		Sigma: math.Sqrt(math.Max(variance, 0)),
		Src:   f.Source,
	}

	n := f.cfg.Samples()
	if n < 0 {
		n = 0
	}
	buf := make(hal.Buffer, len(f.channels))
	for i := range buf {
		seq := make([]float64, n)
		for j := range seq {
			seq[j] = dist.Rand()
		}
		buf[i] = f.convert(seq)
	}
	return buf
}

func (f *FakeADC) String() string { return "Fake ADC" }

// LoadingADC replays recorded samples. SetAcquisitionParameters takes one
// file path per channel and Trigger loads them; GetData returns the file
// contents unchanged.
type LoadingADC struct {
	channels []int
	paths    []string
	data     hal.Buffer
	convert  Converter
}

var _ ADC = (*LoadingADC)(nil)

// NewLoading creates a LoadingADC.
func NewLoading(spec hal.Spec) *LoadingADC {
	return &LoadingADC{
		channels: append([]int(nil), spec.Channels...),
		convert:  Identity,
	}
}

func (l *LoadingADC) Open() error  { return nil }
func (l *LoadingADC) Close() error { return nil }

// SetAcquisitionParameters uses Paths.
func (l *LoadingADC) SetAcquisitionParameters(cfg Config) error {
	l.paths = append([]string(nil), cfg.Paths...)
	return nil
}

func (l *LoadingADC) ArmAcquisition() error  { return nil }
func (l *LoadingADC) StopAcquisition() error { return nil }

// Trigger loads every configured file. Supported formats are those of
// package samples (.npy, .wav).
func (l *LoadingADC) Trigger() error {
	data, err := samples.LoadAll(l.paths)
	if err != nil {
		return fmt.Errorf("loading adc trigger: %w", err)
	}
	l.data = data
	return nil
}

// GetData returns the data loaded by the last Trigger.
func (l *LoadingADC) GetData() (hal.Buffer, error) {
	if l.data == nil {
		return nil, fmt.Errorf("%w: no data loaded, trigger first", hal.ErrInvalidState)
	}
	out := hal.CloneBuffer(l.data)
	for i, seq := range out {
		out[i] = l.convert(seq)
	}
	return out, nil
}

func (l *LoadingADC) String() string { return "Loading ADC" }
