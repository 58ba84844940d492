// SPDX-License-Identifier: MIT
// Package voltmeter defines the voltmeter contract.
package voltmeter

import (
	"reflect"

	"qkdhal/pkg/hal"
	"qkdhal/pkg/hal/registry"
)

// VoltMeter measures a voltage.
type VoltMeter interface {
	hal.Hardware

	// Voltage returns one measurement, in V.
	Voltage() (float64, error)
}

// FakeVoltMeter always reads 0.
type FakeVoltMeter struct{}

var _ VoltMeter = (*FakeVoltMeter)(nil)

func NewFake(hal.Spec) *FakeVoltMeter { return &FakeVoltMeter{} }

func (*FakeVoltMeter) Open() error  { return nil }
func (*FakeVoltMeter) Close() error { return nil }

func (*FakeVoltMeter) Voltage() (float64, error) { return 0, nil }

func (*FakeVoltMeter) String() string { return "Fake Voltmeter" }

func init() {
	registry.MustRegisterContract(registry.Contract{
		Category:      hal.VoltMeter,
		Description:   "Voltmeter",
		InterfaceType: registry.TypeOf[VoltMeter](),
	})
	registry.Register(registry.Entry{
		Category: hal.VoltMeter,
		Type:     reflect.TypeOf(&FakeVoltMeter{}),
		Factory:  func(spec hal.Spec) (hal.Hardware, error) { return NewFake(spec), nil },
	})
}
