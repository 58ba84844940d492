// SPDX-License-Identifier: MIT
/*
Package bench builds the instruments declared in the configuration and
drives their lifecycle.

Build constructs every instrument through the registry; nothing touches
hardware until Open, which opens the instruments in declaration order and
applies their parameter blocks. Close releases them in reverse order.
*/
package bench

import (
	"errors"
	"fmt"
	"reflect"

	"qkdhal/internal/config"
	"qkdhal/internal/log"
	"qkdhal/pkg/hal"
	"qkdhal/pkg/hal/adc"
	"qkdhal/pkg/hal/amperemeter"
	"qkdhal/pkg/hal/biascontrol"
	"qkdhal/pkg/hal/dac"
	"qkdhal/pkg/hal/dacadc"
	"qkdhal/pkg/hal/laser"
	"qkdhal/pkg/hal/opticalswitch"
	"qkdhal/pkg/hal/polarisation"
	"qkdhal/pkg/hal/powermeter"
	"qkdhal/pkg/hal/powersupply"
	"qkdhal/pkg/hal/registry"
	"qkdhal/pkg/hal/voa"
	"qkdhal/pkg/hal/voltmeter"
)

// ErrUnknownInstrument is returned by the accessors for a name absent from
// the bench.
var ErrUnknownInstrument = errors.New("unknown instrument")

// Instrument is one built instrument.
type Instrument struct {
	Name     string
	Driver   string
	Category hal.Category
	Hardware hal.Hardware

	decl config.Instrument
}

// Bench is the set of instruments of a configuration.
type Bench struct {
	instruments []*Instrument
	byName      map[string]*Instrument
	opened      int
}

// Build constructs every configured instrument. It fails on the first
// instrument that cannot be built, naming it; a driver whose optional
// dependency is missing fails here with an error matching
// deps.ErrMissingDependency.
func Build(cfg *config.Config) (*Bench, error) {
	b := &Bench{byName: map[string]*Instrument{}}
	for _, decl := range cfg.Instruments {
		entry, ok := registry.Lookup(decl.Driver)
		if !ok {
			return nil, fmt.Errorf("instrument %q: unknown driver %q", decl.Name, decl.Driver)
		}
		if decl.Category != "" {
			want, err := hal.ParseCategory(decl.Category)
			if err != nil {
				return nil, fmt.Errorf("instrument %q: %w", decl.Name, err)
			}
			if !implements(entry.Type, want) {
				return nil, fmt.Errorf("instrument %q: driver %s is not a %s", decl.Name, decl.Driver, want)
			}
		}

		hw, err := registry.New(decl.Driver, decl.Spec())
		if err != nil {
			return nil, fmt.Errorf("instrument %q: %w", decl.Name, err)
		}
		inst := &Instrument{
			Name:     decl.Name,
			Driver:   decl.Driver,
			Category: entry.Category,
			Hardware: hw,
			decl:     decl,
		}
		b.instruments = append(b.instruments, inst)
		b.byName[decl.Name] = inst
		log.Debugf("bench: built %s (%s)", decl.Name, decl.Driver)
	}
	return b, nil
}

func implements(t reflect.Type, c hal.Category) bool {
	ct, ok := registry.ContractFor(c)
	return ok && t.Implements(ct.InterfaceType)
}

// Instruments returns the instruments in declaration order.
func (b *Bench) Instruments() []*Instrument {
	return append([]*Instrument(nil), b.instruments...)
}

// Open opens every instrument in declaration order and applies its
// parameters. On failure the instruments already opened are closed again.
func (b *Bench) Open() error {
	for b.opened < len(b.instruments) {
		inst := b.instruments[b.opened]
		if err := inst.Hardware.Open(); err != nil {
			err = fmt.Errorf("open %s: %w", inst.Name, err)
			return errors.Join(err, b.Close())
		}
		b.opened++
		if err := apply(inst); err != nil {
			err = fmt.Errorf("configure %s: %w", inst.Name, err)
			return errors.Join(err, b.Close())
		}
		log.Infof("bench: opened %s (%v)", inst.Name, inst.Hardware)
	}
	return nil
}

// apply sends the parameter blocks the instrument understands.
func apply(inst *Instrument) error {
	d := inst.decl
	switch hw := inst.Hardware.(type) {
	case adc.ADC:
		if d.ADC != nil {
			return hw.SetAcquisitionParameters(*d.ADC)
		}
	case dac.DAC:
		if d.DAC != nil {
			return hw.SetEmissionParameters(*d.DAC)
		}
	case dacadc.DACADC:
		if d.DACADC != nil {
			return hw.SetParameters(*d.DACADC)
		}
	case laser.Laser:
		if d.Laser != nil {
			return hw.SetParameters(*d.Laser)
		}
	case biascontrol.ModulatorBiasController:
		if d.Bias != nil {
			return hw.Lock(*d.Bias)
		}
	case voa.VOA:
		if d.VOA != nil && d.VOA.Value != nil {
			return hw.SetValue(*d.VOA.Value)
		}
	case opticalswitch.Switch:
		if d.Switch != nil && d.Switch.State != nil {
			return hw.SetState(*d.Switch.State)
		}
	}
	return nil
}

// Close closes the opened instruments in reverse order and returns every
// error joined.
func (b *Bench) Close() error {
	var errs []error
	for i := b.opened - 1; i >= 0; i-- {
		inst := b.instruments[i]
		if err := inst.Hardware.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", inst.Name, err))
		}
	}
	b.opened = 0
	return errors.Join(errs...)
}

func lookup[T any](b *Bench, name string, c hal.Category) (T, error) {
	var zero T
	inst, ok := b.byName[name]
	if !ok {
		return zero, fmt.Errorf("%w %q", ErrUnknownInstrument, name)
	}
	hw, ok := inst.Hardware.(T)
	if !ok {
		return zero, fmt.Errorf("instrument %q (%s) is not a %s", name, inst.Driver, c)
	}
	return hw, nil
}

func (b *Bench) ADC(name string) (adc.ADC, error) { return lookup[adc.ADC](b, name, hal.ADC) }
func (b *Bench) DAC(name string) (dac.DAC, error) { return lookup[dac.DAC](b, name, hal.DAC) }

func (b *Bench) DACADC(name string) (dacadc.DACADC, error) {
	return lookup[dacadc.DACADC](b, name, hal.DACADC)
}

func (b *Bench) Laser(name string) (laser.Laser, error) {
	return lookup[laser.Laser](b, name, hal.Laser)
}

func (b *Bench) BiasController(name string) (biascontrol.ModulatorBiasController, error) {
	return lookup[biascontrol.ModulatorBiasController](b, name, hal.ModulatorBiasController)
}

func (b *Bench) PolarisationController(name string) (polarisation.Controller, error) {
	return lookup[polarisation.Controller](b, name, hal.PolarisationController)
}

func (b *Bench) PowerMeter(name string) (powermeter.PowerMeter, error) {
	return lookup[powermeter.PowerMeter](b, name, hal.PowerMeter)
}

func (b *Bench) VoltMeter(name string) (voltmeter.VoltMeter, error) {
	return lookup[voltmeter.VoltMeter](b, name, hal.VoltMeter)
}

func (b *Bench) AmpereMeter(name string) (amperemeter.AmpereMeter, error) {
	return lookup[amperemeter.AmpereMeter](b, name, hal.AmpereMeter)
}

func (b *Bench) PowerSupply(name string) (powersupply.PowerSupply, error) {
	return lookup[powersupply.PowerSupply](b, name, hal.PowerSupply)
}

func (b *Bench) Switch(name string) (opticalswitch.Switch, error) {
	return lookup[opticalswitch.Switch](b, name, hal.Switch)
}

func (b *Bench) VOA(name string) (voa.VOA, error) { return lookup[voa.VOA](b, name, hal.VOA) }
