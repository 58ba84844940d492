// SPDX-License-Identifier: MIT

package soundcard

import (
	"fmt"
	"math"

	"qkdhal/pkg/hal"
	"qkdhal/pkg/hal/adc"
	"qkdhal/pkg/hal/dacadc"
	"qkdhal/pkg/hal/deps"
)

// DACADC runs one duplex stream: the construction channels emit the loaded
// data in a loop while Config.ADCChannels are recorded for
// Config.AcquisitionTime seconds. Both directions share the device clock.
type DACADC struct {
	dev  *device
	cfg  dacadc.Config
	data [][]int32
	rec  *recorder
	last hal.Buffer
}

var _ dacadc.DACADC = (*DACADC)(nil)

var dacadcGuard = deps.Need("soundcard.DACADC", Dependency)

var newGuardedDACADC = deps.Wrap(dacadcGuard, newDACADC)

// NewDACADC creates a synchronised sound card DAC/ADC. It fails with a
// *deps.MissingDependencyError when PortAudio is not available.
func NewDACADC(spec hal.Spec) (*DACADC, error) {
	return newGuardedDACADC(spec)
}

func newDACADC(spec hal.Spec) (*DACADC, error) {
	dev, err := newDevice(spec)
	if err != nil {
		return nil, err
	}
	return &DACADC{dev: dev}, nil
}

func (d *DACADC) Open() error {
	d.dev.mu.Lock()
	defer d.dev.mu.Unlock()
	return d.dev.openLocked()
}

func (d *DACADC) Close() error {
	d.dev.mu.Lock()
	defer d.dev.mu.Unlock()
	d.rec = nil
	d.last = nil
	return d.dev.closeLocked()
}

// SetParameters uses every Config field. ADCChannels defaults to the
// construction channels.
func (d *DACADC) SetParameters(cfg dacadc.Config) error {
	d.dev.mu.Lock()
	defer d.dev.mu.Unlock()
	if err := d.dev.requireOpen(); err != nil {
		return err
	}
	if cfg.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %g", hal.ErrInvalidConfig, cfg.SampleRate)
	}
	if cfg.AcquisitionTime < 0 {
		return fmt.Errorf("%w: negative acquisition time %g", hal.ErrInvalidConfig, cfg.AcquisitionTime)
	}
	if len(cfg.ADCChannels) == 0 {
		cfg.ADCChannels = d.dev.channels
	} else if err := checkChannels(cfg.ADCChannels); err != nil {
		return err
	}
	cfg.ADCChannels = append([]int(nil), cfg.ADCChannels...)
	d.cfg = cfg
	return nil
}

func (d *DACADC) LoadDACData(data hal.Buffer) error {
	d.dev.mu.Lock()
	defer d.dev.mu.Unlock()
	if err := d.dev.requireOpen(); err != nil {
		return err
	}
	if err := hal.CheckBuffer(data, len(d.dev.channels)); err != nil {
		return err
	}
	d.data = toPCM(data, fullScaleOr(d.cfg.FullScale))
	return nil
}

func (d *DACADC) Start() error {
	d.dev.mu.Lock()
	defer d.dev.mu.Unlock()
	if err := d.dev.requireOpen(); err != nil {
		return err
	}
	if d.cfg.SampleRate <= 0 {
		return fmt.Errorf("%w: parameters not set", hal.ErrInvalidState)
	}

	samples := int(d.cfg.AcquisitionTime * d.cfg.SampleRate)
	inWidth := width(d.cfg.ADCChannels)
	outWidth := width(d.dev.channels)
	rec := newRecorder(d.cfg.ADCChannels, inWidth, samples)
	pl := newPlayer(d.dev.channels, outWidth, d.data, true)

	p := streamParams{InChannels: inWidth, OutChannels: outWidth, SampleRate: d.cfg.SampleRate}
	err := d.dev.startLocked(p, func(in, out []int32) {
		rec.write(in)
		pl.read(out)
	})
	if err != nil {
		return err
	}
	d.rec = rec
	d.last = nil
	return nil
}

func (d *DACADC) Stop() error {
	d.dev.mu.Lock()
	defer d.dev.mu.Unlock()
	if err := d.dev.requireOpen(); err != nil {
		return err
	}
	return d.dev.stopLocked()
}

// GetADCData waits for the acquisition started by Start and returns it in
// volts, one sequence per ADC channel.
func (d *DACADC) GetADCData() (hal.Buffer, error) {
	d.dev.mu.Lock()
	defer d.dev.mu.Unlock()
	if err := d.dev.requireOpen(); err != nil {
		return nil, err
	}
	if d.last != nil {
		return hal.CloneBuffer(d.last), nil
	}
	if d.rec == nil {
		return nil, fmt.Errorf("%w: not started", hal.ErrInvalidState)
	}

	raw, err := d.rec.wait(timeoutFor(d.cfg.AcquisitionTime))
	if err != nil {
		return nil, err
	}
	convert := adc.Linear(fullScaleOr(d.cfg.FullScale)/math.MaxInt32, 0)
	for i, seq := range raw {
		raw[i] = convert(seq)
	}
	d.rec = nil
	d.last = raw
	return hal.CloneBuffer(raw), nil
}

func (d *DACADC) String() string {
	return fmt.Sprintf("Sound card DAC/ADC (device %d, channels %v)", d.dev.id, d.dev.channels)
}
