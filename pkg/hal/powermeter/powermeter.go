// SPDX-License-Identifier: MIT
// Package powermeter defines the optical power meter contract.
package powermeter

import (
	"reflect"

	"qkdhal/pkg/hal"
	"qkdhal/pkg/hal/registry"
)

// PowerMeter measures optical power.
type PowerMeter interface {
	hal.Hardware

	// Read returns one measurement, in W.
	Read() (float64, error)
}

// FakePowerMeter always reads 1e-6.
type FakePowerMeter struct{}

var _ PowerMeter = (*FakePowerMeter)(nil)

func NewFake(hal.Spec) *FakePowerMeter { return &FakePowerMeter{} }

func (*FakePowerMeter) Open() error  { return nil }
func (*FakePowerMeter) Close() error { return nil }

func (*FakePowerMeter) Read() (float64, error) { return 1e-6, nil }

func (*FakePowerMeter) String() string { return "Fake Power Meter" }

func init() {
	registry.MustRegisterContract(registry.Contract{
		Category:      hal.PowerMeter,
		Description:   "Optical power meter",
		InterfaceType: registry.TypeOf[PowerMeter](),
	})
	registry.Register(registry.Entry{
		Category: hal.PowerMeter,
		Type:     reflect.TypeOf(&FakePowerMeter{}),
		Factory:  func(spec hal.Spec) (hal.Hardware, error) { return NewFake(spec), nil },
	})
}
