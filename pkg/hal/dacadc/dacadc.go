// SPDX-License-Identifier: MIT
// Package dacadc defines the contract of a synchronised DAC/ADC pair, where
// emission and acquisition start and stop together.
package dacadc

import (
	"reflect"

	"qkdhal/pkg/hal"
	"qkdhal/pkg/hal/registry"
)

// DACADC emits the loaded DAC data and acquires ADC data over the same
// time window.
type DACADC interface {
	hal.Hardware

	SetParameters(cfg Config) error
	LoadDACData(data hal.Buffer) error
	GetADCData() (hal.Buffer, error)
	Start() error
	Stop() error
}

// Config holds the parameters of both sides.
type Config struct {
	SampleRate      float64 `yaml:"sample_rate"`      // Shared rate, in Hz.
	AcquisitionTime float64 `yaml:"acquisition_time"` // Seconds acquired after Start.
	ADCChannels     []int   `yaml:"adc_channels"`     // Acquisition channels; the construction channels drive the DAC.
	FullScale       float64 `yaml:"full_scale"`
}

// FakeDACADC does nothing and acquires nothing.
type FakeDACADC struct {
	channels []int
}

var _ DACADC = (*FakeDACADC)(nil)

func NewFake(spec hal.Spec) *FakeDACADC {
	return &FakeDACADC{channels: append([]int(nil), spec.Channels...)}
}

func (f *FakeDACADC) Open() error                     { return nil }
func (f *FakeDACADC) Close() error                    { return nil }
func (f *FakeDACADC) SetParameters(Config) error      { return nil }
func (f *FakeDACADC) LoadDACData(hal.Buffer) error    { return nil }
func (f *FakeDACADC) Start() error                    { return nil }
func (f *FakeDACADC) Stop() error                     { return nil }
func (f *FakeDACADC) GetADCData() (hal.Buffer, error) { return hal.Buffer{}, nil }
func (f *FakeDACADC) String() string                  { return "Fake DAC/ADC" }

func init() {
	registry.MustRegisterContract(registry.Contract{
		Category:      hal.DACADC,
		Description:   "Synchronised digital to analog and analog to digital converter",
		InterfaceType: registry.TypeOf[DACADC](),
	})
	registry.Register(registry.Entry{
		Category: hal.DACADC,
		Type:     reflect.TypeOf(&FakeDACADC{}),
		Factory:  func(spec hal.Spec) (hal.Hardware, error) { return NewFake(spec), nil },
	})
}
