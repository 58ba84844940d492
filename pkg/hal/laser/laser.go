// SPDX-License-Identifier: MIT
// Package laser defines the laser source contract.
package laser

import (
	"reflect"

	"qkdhal/pkg/hal"
	"qkdhal/pkg/hal/registry"
)

// Laser is a laser source.
type Laser interface {
	hal.Hardware

	SetParameters(cfg Config) error
	// Enable turns emission on. Auxiliary stabilisation loops (temperature,
	// current, wavelength locking) are disabled while the laser is enabled.
	Enable() error
	Disable() error
}

// Config holds the laser parameters.
type Config struct {
	Power       float64 `yaml:"power"`       // Output power, in W.
	Current     float64 `yaml:"current"`     // Drive current, in A.
	Temperature float64 `yaml:"temperature"` // Set point, in degrees Celsius.
	Wavelength  float64 `yaml:"wavelength"`  // In m.
}

// FakeLaser accepts every command.
type FakeLaser struct{}

var _ Laser = (*FakeLaser)(nil)

func NewFake(hal.Spec) *FakeLaser { return &FakeLaser{} }

func (*FakeLaser) Open() error                { return nil }
func (*FakeLaser) Close() error               { return nil }
func (*FakeLaser) SetParameters(Config) error { return nil }
func (*FakeLaser) Enable() error              { return nil }
func (*FakeLaser) Disable() error             { return nil }
func (*FakeLaser) String() string             { return "Fake Laser" }

func init() {
	registry.MustRegisterContract(registry.Contract{
		Category:      hal.Laser,
		Description:   "Laser source",
		InterfaceType: registry.TypeOf[Laser](),
	})
	registry.Register(registry.Entry{
		Category: hal.Laser,
		Type:     reflect.TypeOf(&FakeLaser{}),
		Factory:  func(spec hal.Spec) (hal.Hardware, error) { return NewFake(spec), nil },
	})
}
