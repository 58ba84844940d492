// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"strings"

	"qkdhal/pkg/hal"
	"qkdhal/pkg/hal/adc"
	"qkdhal/pkg/hal/biascontrol"
	"qkdhal/pkg/hal/dac"
	"qkdhal/pkg/hal/dacadc"
	"qkdhal/pkg/hal/laser"
	"qkdhal/pkg/hal/opticalswitch"
	"qkdhal/pkg/hal/voa"
)

const (
	DefaultConfigFile      = "qkdhal.yaml"
	DefaultLogLevel        = "info"
	DefaultMonitorInterval = "1s"
	DefaultMonitorAddress  = ":9100"
	DefaultTransport       = TransportLog
	DefaultUDPTarget       = "127.0.0.1:9090"
)

// Transports accepted by monitor.transport.
const (
	TransportNone      = "none"
	TransportLog       = "log"
	TransportWebSocket = "websocket"
	TransportUDP       = "udp"
)

// Instrument declares one instrument of the bench. Driver names a
// registered hardware type as "<package>.<Type>", e.g. "adc.FakeADC". The
// parameter block matching the driver's category is applied after Open;
// the others are ignored.
type Instrument struct {
	Name     string `yaml:"name"`
	Driver   string `yaml:"driver"`
	Category string `yaml:"category,omitempty"` // Optional; checked against the driver when set.
	Location string `yaml:"location,omitempty"`
	Channels []int  `yaml:"channels,omitempty"`

	ADC    *adc.Config           `yaml:"adc,omitempty"`
	DAC    *dac.Config           `yaml:"dac,omitempty"`
	DACADC *dacadc.Config        `yaml:"dacadc,omitempty"`
	Laser  *laser.Config         `yaml:"laser,omitempty"`
	Bias   *biascontrol.Config   `yaml:"bias,omitempty"`
	VOA    *voa.Config           `yaml:"voa,omitempty"`
	Switch *opticalswitch.Config `yaml:"switch,omitempty"`
}

// Spec returns the construction parameters of the instrument.
func (i Instrument) Spec() hal.Spec {
	return hal.Spec{Location: i.Location, Channels: append([]int(nil), i.Channels...)}
}

// SplitDriver splits a driver reference into package and type name.
func SplitDriver(ref string) (pkg, name string, err error) {
	pkg, name, ok := strings.Cut(ref, ".")
	if !ok || pkg == "" || name == "" || strings.Contains(name, ".") {
		return "", "", fmt.Errorf("driver %q is not of the form <package>.<Type>", ref)
	}
	return pkg, name, nil
}

func (i Instrument) validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return fmt.Errorf("instrument name is required")
	}
	if _, _, err := SplitDriver(i.Driver); err != nil {
		return fmt.Errorf("instrument %q: %w", i.Name, err)
	}
	if i.Category != "" {
		if _, err := hal.ParseCategory(i.Category); err != nil {
			return fmt.Errorf("instrument %q: %w", i.Name, err)
		}
	}
	return nil
}
