// SPDX-License-Identifier: MIT

package soundcard

import (
	"fmt"

	"qkdhal/pkg/hal"
	"qkdhal/pkg/hal/dac"
	"qkdhal/pkg/hal/deps"
)

// DAC emits on the output channels of a sound card.
type DAC struct {
	dev  *device
	cfg  dac.Config
	data [][]int32
}

var _ dac.DAC = (*DAC)(nil)

var dacGuard = deps.Need("soundcard.DAC", Dependency)

var newGuardedDAC = deps.Wrap(dacGuard, newDAC)

// NewDAC creates a sound card DAC. It fails with a
// *deps.MissingDependencyError when PortAudio is not available.
func NewDAC(spec hal.Spec) (*DAC, error) {
	return newGuardedDAC(spec)
}

func newDAC(spec hal.Spec) (*DAC, error) {
	dev, err := newDevice(spec)
	if err != nil {
		return nil, err
	}
	return &DAC{dev: dev}, nil
}

func (d *DAC) Open() error {
	d.dev.mu.Lock()
	defer d.dev.mu.Unlock()
	return d.dev.openLocked()
}

func (d *DAC) Close() error {
	d.dev.mu.Lock()
	defer d.dev.mu.Unlock()
	return d.dev.closeLocked()
}

// SetEmissionParameters uses SampleRate, Repeat and FullScale
// (DefaultFullScale when zero). Data already loaded keeps its old scaling.
func (d *DAC) SetEmissionParameters(cfg dac.Config) error {
	d.dev.mu.Lock()
	defer d.dev.mu.Unlock()
	if err := d.dev.requireOpen(); err != nil {
		return err
	}
	if cfg.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %g", hal.ErrInvalidConfig, cfg.SampleRate)
	}
	d.cfg = cfg
	return nil
}

// LoadData takes one sequence per channel, in volts.
func (d *DAC) LoadData(data hal.Buffer) error {
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

func (d *DAC) StartEmission() error {
	d.dev.mu.Lock()
	defer d.dev.mu.Unlock()
	if err := d.dev.requireOpen(); err != nil {
		return err
	}
	if d.cfg.SampleRate <= 0 {
		return fmt.Errorf("%w: emission parameters not set", hal.ErrInvalidState)
	}
	if d.data == nil {
		return fmt.Errorf("%w: no data loaded", hal.ErrInvalidState)
	}

	w := width(d.dev.channels)
	pl := newPlayer(d.dev.channels, w, d.data, d.cfg.Repeat)
	p := streamParams{OutChannels: w, SampleRate: d.cfg.SampleRate}
	return d.dev.startLocked(p, func(_, out []int32) { pl.read(out) })
}

func (d *DAC) StopEmission() error {
	d.dev.mu.Lock()
	defer d.dev.mu.Unlock()
	if err := d.dev.requireOpen(); err != nil {
		return err
	}
	return d.dev.stopLocked()
}

func (d *DAC) String() string {
	return fmt.Sprintf("Sound card DAC (device %d, channels %v)", d.dev.id, d.dev.channels)
}
