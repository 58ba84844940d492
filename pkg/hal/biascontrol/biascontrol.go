// SPDX-License-Identifier: MIT
// Package biascontrol defines the electro-optic modulator bias controller
// contract.
package biascontrol

import (
	"reflect"
	"time"

	"qkdhal/pkg/hal"
	"qkdhal/pkg/hal/registry"
)

// ModulatorBiasController drives the bias of an electro-optic modulator.
type ModulatorBiasController interface {
	hal.Hardware

	// Lock returns once the controller reached a working, low-noise
	// state. It blocks for as long as that takes, up to cfg.Timeout when the
	// driver supports one.
	Lock(cfg Config) error
}

// Config holds the locking parameters.
type Config struct {
	SetPoint float64       `yaml:"set_point"` // Target working point, driver units.
	Timeout  time.Duration `yaml:"timeout"`   // Zero waits forever.
}

// FakeBiasController locks instantly.
type FakeBiasController struct{}

var _ ModulatorBiasController = (*FakeBiasController)(nil)

func NewFake(hal.Spec) *FakeBiasController { return &FakeBiasController{} }

func (*FakeBiasController) Open() error       { return nil }
func (*FakeBiasController) Close() error      { return nil }
func (*FakeBiasController) Lock(Config) error { return nil }
func (*FakeBiasController) String() string    { return "Fake Bias Controller" }

func init() {
	registry.MustRegisterContract(registry.Contract{
		Category:      hal.ModulatorBiasController,
		Description:   "Modulator bias controller",
		InterfaceType: registry.TypeOf[ModulatorBiasController](),
	})
	registry.Register(registry.Entry{
		Category: hal.ModulatorBiasController,
		Type:     reflect.TypeOf(&FakeBiasController{}),
		Factory:  func(spec hal.Spec) (hal.Hardware, error) { return NewFake(spec), nil },
	})
}
