// SPDX-License-Identifier: MIT
/*
Package dac defines the digital-to-analog converter contract and its fake.

A DAC emits the sequences loaded with LoadData, one per channel, in the
channel order given at construction. Emission runs between StartEmission
and StopEmission.
*/
package dac

import (
	"reflect"

	"qkdhal/pkg/hal"
	"qkdhal/pkg/hal/registry"
)

// DAC is the digital-to-analog converter contract.
type DAC interface {
	hal.Hardware

	SetEmissionParameters(cfg Config) error
	LoadData(data hal.Buffer) error
	StartEmission() error
	StopEmission() error
}

// Config holds the emission parameters.
type Config struct {
	SampleRate float64 `yaml:"sample_rate"` // Emission rate, in Hz.
	Repeat     bool    `yaml:"repeat"`      // Loop the loaded data until StopEmission.
	FullScale  float64 `yaml:"full_scale"`  // Output voltage mapped to the largest code.
}

// FakeDAC keeps the loaded data and the emission state in memory.
type FakeDAC struct {
	channels []int
	cfg      Config
	data     hal.Buffer
	emitting bool
}

var _ DAC = (*FakeDAC)(nil)

// NewFake creates a FakeDAC. Its data is nil and it is not emitting.
func NewFake(spec hal.Spec) *FakeDAC {
	return &FakeDAC{channels: append([]int(nil), spec.Channels...)}
}

func (f *FakeDAC) Open() error  { return nil }
func (f *FakeDAC) Close() error { return nil }

func (f *FakeDAC) SetEmissionParameters(cfg Config) error {
	f.cfg = cfg
	return nil
}

// LoadData stores a copy of data. The channel count is not checked.
func (f *FakeDAC) LoadData(data hal.Buffer) error {
	f.data = hal.CloneBuffer(data)
	return nil
}

func (f *FakeDAC) StartEmission() error {
	f.emitting = true
	return nil
}

func (f *FakeDAC) StopEmission() error {
	f.emitting = false
	return nil
}

// Data returns the last loaded data, nil if none.
func (f *FakeDAC) Data() hal.Buffer { return f.data }

// Emitting reports whether emission was started and not stopped.
func (f *FakeDAC) Emitting() bool { return f.emitting }

func (f *FakeDAC) String() string { return "Fake DAC" }

func init() {
	registry.MustRegisterContract(registry.Contract{
		Category:      hal.DAC,
		Description:   "Digital to analog converter",
		InterfaceType: registry.TypeOf[DAC](),
	})
	registry.Register(registry.Entry{
		Category: hal.DAC,
		Type:     reflect.TypeOf(&FakeDAC{}),
		Factory:  func(spec hal.Spec) (hal.Hardware, error) { return NewFake(spec), nil },
	})
}
