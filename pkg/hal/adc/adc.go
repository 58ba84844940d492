// SPDX-License-Identifier: MIT
/*
Package adc defines the analog-to-digital converter contract and its fakes.

The acquisition sequence is:

	SetAcquisitionParameters -> ArmAcquisition -> Trigger -> GetData

StopAcquisition issued after ArmAcquisition and before Trigger cancels the
arm. GetData returns one sequence per channel, in the channel order given at
construction, in volts.
*/
package adc

import (
	"reflect"

	"gonum.org/v1/gonum/floats"

	"qkdhal/pkg/hal"
	"qkdhal/pkg/hal/registry"
)

// ADC is the analog-to-digital converter contract.
type ADC interface {
	hal.Hardware

	SetAcquisitionParameters(cfg Config) error
	// ArmAcquisition leaves the device one trigger away from acquiring.
	ArmAcquisition() error
	StopAcquisition() error
	Trigger() error
	GetData() (hal.Buffer, error)
}

// Config holds the acquisition parameters. Each concrete type documents
// the fields it uses; unused fields are ignored and missing ones are zero.
type Config struct {
	AcquisitionTime float64  `yaml:"acquisition_time"` // Duration of an acquisition, in seconds.
	TargetRate      float64  `yaml:"target_rate"`      // Target sampling rate, in Hz.
	Paths           []string `yaml:"paths"`            // One sample file per channel (LoadingADC).
}

// Samples returns the number of samples per channel of an acquisition.
func (c Config) Samples() int {
	return int(c.AcquisitionTime * c.TargetRate)
}

// Converter maps raw device units to volts. It may modify data in place and
// must return the converted slice.
type Converter func(data []float64) []float64

// Identity returns data unchanged.
func Identity(data []float64) []float64 { return data }

// Linear returns a converter computing gain*x + offset.
func Linear(gain, offset float64) Converter {
	return func(data []float64) []float64 {
		floats.Scale(gain, data)
		floats.AddConst(offset, data)
		return data
	}
}

func init() {
	registry.MustRegisterContract(registry.Contract{
		Category:      hal.ADC,
		Description:   "Analog to digital converter",
		InterfaceType: registry.TypeOf[ADC](),
	})
	registry.Register(registry.Entry{
		Category: hal.ADC,
		Type:     reflect.TypeOf(&FakeADC{}),
		Factory:  func(spec hal.Spec) (hal.Hardware, error) { return NewFake(spec), nil },
	})
	registry.Register(registry.Entry{
		Category: hal.ADC,
		Type:     reflect.TypeOf(&LoadingADC{}),
		Factory:  func(spec hal.Spec) (hal.Hardware, error) { return NewLoading(spec), nil },
	})
}
