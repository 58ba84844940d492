// SPDX-License-Identifier: MIT
// Package powersupply defines the programmable multi-channel power supply
// contract. Channels are numbered from 1.
package powersupply

import (
	"reflect"

	"qkdhal/pkg/hal"
	"qkdhal/pkg/hal/registry"
)

// DefaultChannel is the output addressed when callers have no preference.
const DefaultChannel = 1

// PowerSupply sets the voltage and current limit of its outputs.
type PowerSupply interface {
	hal.Hardware

	SetVoltage(volts float64, channel int) error
	SetIntensity(amperes float64, channel int) error
	Output(on bool, channel int) error
}

// FakePowerSupply accepts every command.
type FakePowerSupply struct{}

var _ PowerSupply = (*FakePowerSupply)(nil)

func NewFake(hal.Spec) *FakePowerSupply { return &FakePowerSupply{} }

func (*FakePowerSupply) Open() error                     { return nil }
func (*FakePowerSupply) Close() error                    { return nil }
func (*FakePowerSupply) SetVoltage(float64, int) error   { return nil }
func (*FakePowerSupply) SetIntensity(float64, int) error { return nil }
func (*FakePowerSupply) Output(bool, int) error          { return nil }
func (*FakePowerSupply) String() string                  { return "Fake Power Supply" }

func init() {
	registry.MustRegisterContract(registry.Contract{
		Category:      hal.PowerSupply,
		Description:   "Power supply",
		InterfaceType: registry.TypeOf[PowerSupply](),
	})
	registry.Register(registry.Entry{
		Category: hal.PowerSupply,
		Type:     reflect.TypeOf(&FakePowerSupply{}),
		Factory:  func(spec hal.Spec) (hal.Hardware, error) { return NewFake(spec), nil },
	})
}
