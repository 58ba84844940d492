// SPDX-License-Identifier: MIT
/*
Package hal defines the capability contracts shared by every laboratory
instrument of the QKD bench.

Each instrument category (ADC, DAC, laser, powermeter, ...) lives in its own
sub-package under pkg/hal and declares a Go interface embedding Hardware.
Concrete types register themselves with pkg/hal/registry from init(), which
makes them discoverable and constructible by name.

The contracts do not enforce a state machine. Whether an operation on an
unopened instance fails, and with which error, is decided by each concrete
type. Fakes never fail.
*/
package hal

import (
	"fmt"
	"strings"
)

// Hardware is the lifecycle every instrument implements.
type Hardware interface {
	// Open establishes the connection with the device. It fails with an
	// error wrapping ErrConnection if the device cannot be reached.
	Open() error
	// Close releases the device. Calling it twice is allowed by convention.
	Close() error
}

// Category names an instrument capability contract.
type Category string

const (
	ADC                     Category = "adc"
	DAC                     Category = "dac"
	DACADC                  Category = "dacadc"
	Laser                   Category = "laser"
	ModulatorBiasController Category = "biascontrol"
	PolarisationController  Category = "polarisation"
	PowerMeter              Category = "powermeter"
	VoltMeter               Category = "voltmeter"
	AmpereMeter             Category = "amperemeter"
	PowerSupply             Category = "powersupply"
	Switch                  Category = "switch"
	VOA                     Category = "voa"
)

// Categories lists every known category in declaration order.
var Categories = []Category{
	ADC, DAC, DACADC, Laser, ModulatorBiasController, PolarisationController,
	PowerMeter, VoltMeter, AmpereMeter, PowerSupply, Switch, VOA,
}

// ParseCategory converts a string (case-insensitive) to a Category.
func ParseCategory(s string) (Category, error) {
	want := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, c := range Categories {
		if c == want {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown instrument category %q", s)
}

// Spec holds the construction parameters common to every concrete type.
// Both fields are opaque to the contracts.
type Spec struct {
	Location string // Device address, serial number, index or file path.
	Channels []int  // Logical channels; fixes the order of sample buffers.
}

// Buffer holds one sample sequence per channel, in the order of the
// channels given at construction.
type Buffer [][]float64

// CheckBuffer verifies that buf holds exactly channels sequences.
func CheckBuffer(buf Buffer, channels int) error {
	if len(buf) != channels {
		return fmt.Errorf("%w: got %d sequences, want %d", ErrChannelCount, len(buf), channels)
	}
	return nil
}

// CloneBuffer returns a deep copy of buf. A nil buffer stays nil.
func CloneBuffer(buf Buffer) Buffer {
	if buf == nil {
		return nil
	}
	out := make(Buffer, len(buf))
	for i, seq := range buf {
		out[i] = append([]float64(nil), seq...)
	}
	return out
}
