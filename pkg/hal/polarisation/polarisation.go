// SPDX-License-Identifier: MIT
// Package polarisation defines the motorised polarisation controller
// contract. A controller has up to three wave plates, addressed by Channel.
package polarisation

import (
	"fmt"
	"reflect"
	"strings"

	"qkdhal/pkg/hal"
	"qkdhal/pkg/hal/registry"
)

// Channel identifies a wave plate.
type Channel int

const (
	QWP1 Channel = iota + 1
	HWP
	QWP2
)

// DefaultChannel is the plate addressed when callers have no preference.
const DefaultChannel = HWP

var channelNames = map[Channel]string{
	QWP1: "Quarter Wave Plate 1",
	HWP:  "Half Wave Plate",
	QWP2: "Quarter Wave Plate 2",
}

func (c Channel) String() string {
	if s, ok := channelNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Channel(%d)", int(c))
}

// ParseChannel accepts "qwp1", "hwp", "qwp2" or a display name,
// case-insensitively.
func ParseChannel(s string) (Channel, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "qwp1":
		return QWP1, nil
	case "hwp":
		return HWP, nil
	case "qwp2":
		return QWP2, nil
	}
	for c, name := range channelNames {
		if strings.EqualFold(name, s) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown wave plate %q", s)
}

// Controller moves wave plates. Positions are in the driver's units,
// usually degrees.
type Controller interface {
	hal.Hardware

	MoveBy(increment float64, ch Channel) error
	MoveTo(position float64, ch Channel) error
	// Home moves every plate to its reference position.
	Home() error
	Position(ch Channel) (float64, error)
}

// FakeController accepts every move and always reports position 0.
type FakeController struct{}

var _ Controller = (*FakeController)(nil)

func NewFake(hal.Spec) *FakeController { return &FakeController{} }

func (*FakeController) Open() error                       { return nil }
func (*FakeController) Close() error                      { return nil }
func (*FakeController) MoveBy(float64, Channel) error     { return nil }
func (*FakeController) MoveTo(float64, Channel) error     { return nil }
func (*FakeController) Home() error                       { return nil }
func (*FakeController) Position(Channel) (float64, error) { return 0, nil }
func (*FakeController) String() string                    { return "Fake Polarisation Controller" }

func init() {
	registry.MustRegisterContract(registry.Contract{
		Category:      hal.PolarisationController,
		Description:   "Polarisation controller",
		InterfaceType: registry.TypeOf[Controller](),
	})
	registry.Register(registry.Entry{
		Category: hal.PolarisationController,
		Type:     reflect.TypeOf(&FakeController{}),
		Factory:  func(spec hal.Spec) (hal.Hardware, error) { return NewFake(spec), nil },
	})
}
