// SPDX-License-Identifier: MIT
// Package amperemeter defines the ammeter contract.
package amperemeter

import (
	"reflect"

	"qkdhal/pkg/hal"
	"qkdhal/pkg/hal/registry"
)

// AmpereMeter measures a current.
type AmpereMeter interface {
	hal.Hardware

	// Current returns one measurement, in A.
	Current() (float64, error)
}

// FakeAmpereMeter always reads 0.
type FakeAmpereMeter struct{}

var _ AmpereMeter = (*FakeAmpereMeter)(nil)

func NewFake(hal.Spec) *FakeAmpereMeter { return &FakeAmpereMeter{} }

func (*FakeAmpereMeter) Open() error  { return nil }
func (*FakeAmpereMeter) Close() error { return nil }

func (*FakeAmpereMeter) Current() (float64, error) { return 0, nil }

func (*FakeAmpereMeter) String() string { return "Fake Ammeter" }

func init() {
	registry.MustRegisterContract(registry.Contract{
		Category:      hal.AmpereMeter,
		Description:   "Ammeter",
		InterfaceType: registry.TypeOf[AmpereMeter](),
	})
	registry.Register(registry.Entry{
		Category: hal.AmpereMeter,
		Type:     reflect.TypeOf(&FakeAmpereMeter{}),
		Factory:  func(spec hal.Spec) (hal.Hardware, error) { return NewFake(spec), nil },
	})
}
