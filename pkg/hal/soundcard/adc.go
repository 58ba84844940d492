// SPDX-License-Identifier: MIT

package soundcard

import (
	"fmt"
	"math"

	"qkdhal/pkg/hal"
	"qkdhal/pkg/hal/adc"
	"qkdhal/pkg/hal/deps"
)

// ADC acquires from the input channels of a sound card. Trigger starts the
// stream; GetData blocks until AcquisitionTime seconds were recorded.
type ADC struct {
	dev *device
	cfg adc.Config

	// FullScale is the input voltage of the largest PCM code.
	FullScale float64

	armed bool
	rec   *recorder
	data  hal.Buffer
}

var _ adc.ADC = (*ADC)(nil)

var adcGuard = deps.Need("soundcard.ADC", Dependency)

var newGuardedADC = deps.Wrap(adcGuard, newADC)

// NewADC creates a sound card ADC. It fails with a
// *deps.MissingDependencyError when PortAudio is not available.
func NewADC(spec hal.Spec) (*ADC, error) {
	return newGuardedADC(spec)
}

func newADC(spec hal.Spec) (*ADC, error) {
	dev, err := newDevice(spec)
	if err != nil {
		return nil, err
	}
	return &ADC{dev: dev, FullScale: DefaultFullScale}, nil
}

func (a *ADC) Open() error {
	a.dev.mu.Lock()
	defer a.dev.mu.Unlock()
	return a.dev.openLocked()
}

func (a *ADC) Close() error {
	a.dev.mu.Lock()
	defer a.dev.mu.Unlock()
	a.armed = false
	a.rec = nil
	a.data = nil
	return a.dev.closeLocked()
}

// SetAcquisitionParameters uses AcquisitionTime and TargetRate, the sample
// rate requested from the device.
func (a *ADC) SetAcquisitionParameters(cfg adc.Config) error {
	a.dev.mu.Lock()
	defer a.dev.mu.Unlock()
	if err := a.dev.requireOpen(); err != nil {
		return err
	}
	if cfg.TargetRate <= 0 {
		return fmt.Errorf("%w: target rate must be positive, got %g", hal.ErrInvalidConfig, cfg.TargetRate)
	}
	if cfg.AcquisitionTime < 0 {
		return fmt.Errorf("%w: negative acquisition time %g", hal.ErrInvalidConfig, cfg.AcquisitionTime)
	}
	a.cfg = cfg
	return nil
}

// ArmAcquisition prepares a recorder. The stream starts at Trigger.
func (a *ADC) ArmAcquisition() error {
	a.dev.mu.Lock()
	defer a.dev.mu.Unlock()
	if err := a.dev.requireOpen(); err != nil {
		return err
	}
	if a.cfg.TargetRate <= 0 {
		return fmt.Errorf("%w: acquisition parameters not set", hal.ErrInvalidState)
	}
	if err := a.dev.stopLocked(); err != nil {
		return err
	}
	a.rec = nil
	a.data = nil
	a.armed = true
	return nil
}

// StopAcquisition cancels an armed or running acquisition.
func (a *ADC) StopAcquisition() error {
	a.dev.mu.Lock()
	defer a.dev.mu.Unlock()
	if err := a.dev.requireOpen(); err != nil {
		return err
	}
	a.armed = false
	a.rec = nil
	a.data = nil
	return a.dev.stopLocked()
}

func (a *ADC) Trigger() error {
	a.dev.mu.Lock()
	defer a.dev.mu.Unlock()
	if err := a.dev.requireOpen(); err != nil {
		return err
	}
	if !a.armed {
		return fmt.Errorf("%w: trigger before arm", hal.ErrInvalidState)
	}

	w := width(a.dev.channels)
	rec := newRecorder(a.dev.channels, w, a.cfg.Samples())
	p := streamParams{InChannels: w, SampleRate: a.cfg.TargetRate}
	if err := a.dev.startLocked(p, func(in, _ []int32) { rec.write(in) }); err != nil {
		return err
	}
	a.armed = false
	a.rec = rec
	a.data = nil
	return nil
}

// GetData waits for the triggered acquisition and returns it in volts.
// Later calls return the same data until the ADC is armed again, stopped or
// closed.
func (a *ADC) GetData() (hal.Buffer, error) {
	a.dev.mu.Lock()
	defer a.dev.mu.Unlock()
	if err := a.dev.requireOpen(); err != nil {
		return nil, err
	}
	if a.data != nil {
		return hal.CloneBuffer(a.data), nil
	}
	if a.rec == nil {
		return nil, fmt.Errorf("%w: no acquisition triggered", hal.ErrInvalidState)
	}

	raw, err := a.rec.wait(timeoutFor(a.cfg.AcquisitionTime))
	if serr := a.dev.stopLocked(); err == nil {
		err = serr
	}
	if err != nil {
		return nil, err
	}

	convert := adc.Linear(fullScaleOr(a.FullScale)/math.MaxInt32, 0)
	for i, seq := range raw {
		raw[i] = convert(seq)
	}
	a.rec = nil
	a.data = raw
	return hal.CloneBuffer(raw), nil
}

func (a *ADC) String() string {
	return fmt.Sprintf("Sound card ADC (device %d, channels %v)", a.dev.id, a.dev.channels)
}
