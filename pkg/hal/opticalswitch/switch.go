// SPDX-License-Identifier: MIT
/*
Package opticalswitch defines the optical switch contract.

A switch has a set of integer states. Hardware that cannot report its state
must return the last state it was commanded to; wrap such drivers with
Cached.
*/
package opticalswitch

import (
	"reflect"
	"sync"

	"qkdhal/pkg/hal"
	"qkdhal/pkg/hal/registry"
)

// Switch is an optical switch.
type Switch interface {
	hal.Hardware

	SetState(state int) error
	ReadState() (int, error)
}

// Setter is a switch driver that can only be commanded.
type Setter interface {
	hal.Hardware

	SetState(state int) error
}

// Config holds the switch parameters applied after opening.
type Config struct {
	State *int `yaml:"state"` // Initial state, left unchanged when nil.
}

// CachedSwitch turns a Setter into a Switch by remembering the last state
// successfully set.
type CachedSwitch struct {
	Setter

	mu    sync.Mutex
	state int
}

var _ Switch = (*CachedSwitch)(nil)

// Cached wraps s. The state reads initial until the first successful
// SetState.
func Cached(s Setter, initial int) *CachedSwitch {
	return &CachedSwitch{Setter: s, state: initial}
}

func (c *CachedSwitch) SetState(state int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.Setter.SetState(state); err != nil {
		return err
	}
	c.state = state
	return nil
}

func (c *CachedSwitch) ReadState() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, nil
}

// FakeSwitch always reads state 0, whatever it was set to.
type FakeSwitch struct{}

var _ Switch = (*FakeSwitch)(nil)

func NewFake(hal.Spec) *FakeSwitch { return &FakeSwitch{} }

func (*FakeSwitch) Open() error             { return nil }
func (*FakeSwitch) Close() error            { return nil }
func (*FakeSwitch) SetState(int) error      { return nil }
func (*FakeSwitch) ReadState() (int, error) { return 0, nil }
func (*FakeSwitch) String() string          { return "Fake Switch" }

func init() {
	registry.MustRegisterContract(registry.Contract{
		Category:      hal.Switch,
		Description:   "Optical switch",
		InterfaceType: registry.TypeOf[Switch](),
	})
	registry.Register(registry.Entry{
		Category: hal.Switch,
		Type:     reflect.TypeOf(&FakeSwitch{}),
		Factory:  func(spec hal.Spec) (hal.Hardware, error) { return NewFake(spec), nil },
	})
}
