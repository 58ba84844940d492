// SPDX-License-Identifier: MIT
// Package voa defines the variable optical attenuator contract.
package voa

import (
	"fmt"
	"reflect"

	"qkdhal/pkg/hal"
	"qkdhal/pkg/hal/registry"
)

// VOA is a variable optical attenuator. The meaning of the value
// (attenuation in dB, drive voltage, ...) is set by the driver.
type VOA interface {
	hal.Hardware

	SetValue(value float64) error
}

// Config holds the attenuator parameters applied after opening.
type Config struct {
	Value *float64 `yaml:"value"` // Left unchanged when nil.
}

// FakeVOA remembers the last value set.
type FakeVOA struct {
	value float64
}

var _ VOA = (*FakeVOA)(nil)

func NewFake(hal.Spec) *FakeVOA { return &FakeVOA{} }

func (*FakeVOA) Open() error  { return nil }
func (*FakeVOA) Close() error { return nil }

func (f *FakeVOA) SetValue(value float64) error {
	f.value = value
	return nil
}

// Value returns the last value set, 0 initially.
func (f *FakeVOA) Value() float64 { return f.value }

func (f *FakeVOA) String() string {
	return fmt.Sprintf("Fake VOA (value : %g)", f.value)
}

func init() {
	registry.MustRegisterContract(registry.Contract{
		Category:      hal.VOA,
		Description:   "Variable optical attenuator",
		InterfaceType: registry.TypeOf[VOA](),
	})
	registry.Register(registry.Entry{
		Category: hal.VOA,
		Type:     reflect.TypeOf(&FakeVOA{}),
		Factory:  func(spec hal.Spec) (hal.Hardware, error) { return NewFake(spec), nil },
	})
}
