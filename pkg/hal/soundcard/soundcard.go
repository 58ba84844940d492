// SPDX-License-Identifier: MIT
/*
Package soundcard drives a PortAudio sound card as a low-rate ADC, DAC or
synchronised DAC/ADC.

The PortAudio binding needs cgo and libportaudio, so it is only compiled
with the "portaudio" build tag:

	go build -tags portaudio ./...

Without the tag the types below still exist and are listed by the registry,
but NewADC, NewDAC and NewDACADC fail with a *deps.MissingDependencyError.

Spec.Location is the PortAudio device index ("" or "-1" for the system
default). Spec.Channels are the zero-based channel indices of the device;
samples are returned in that order. Every operation before Open fails with
hal.ErrNotOpen.
*/
package soundcard

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"qkdhal/internal/log"
	"qkdhal/pkg/hal"
)

// Dependency is the name under which the PortAudio binding is provided.
const Dependency = "portaudio"

const (
	// DefaultDevice selects the system default input or output device.
	DefaultDevice = -1

	// DefaultFullScale is the voltage mapped to the largest PCM code.
	DefaultFullScale = 1.0

	framesPerBuffer = 256
)

// ErrTimeout is returned when a stream does not deliver the requested
// samples in time.
var ErrTimeout = errors.New("soundcard: acquisition timed out")

// Device describes a PortAudio device.
type Device struct {
	ID                int
	Name              string
	MaxInputChannels  int
	MaxOutputChannels int
	DefaultSampleRate float64
}

// Kind returns "Input", "Output" or "Input/Output".
func (d Device) Kind() string {
	switch {
	case d.MaxInputChannels > 0 && d.MaxOutputChannels > 0:
		return "Input/Output"
	case d.MaxInputChannels > 0:
		return "Input"
	case d.MaxOutputChannels > 0:
		return "Output"
	}
	return ""
}

// streamParams describes a stream to open. Samples are interleaved int32.
type streamParams struct {
	Device          int
	InChannels      int
	OutChannels     int
	SampleRate      float64
	FramesPerBuffer int
}

type stream interface {
	Start() error
	Stop() error
	Close() error
}

// callback receives interleaved input frames and fills interleaved output
// frames. Either slice is empty when the stream has no such direction.
type callback func(in, out []int32)

var errNoBackend = fmt.Errorf("%s backend not compiled in", Dependency)

// Backend hooks, replaced by the portaudio build and by tests.
var (
	initializeFunc = func() error { return errNoBackend }
	terminateFunc  = func() error { return errNoBackend }
	openStreamFunc = func(streamParams, callback) (stream, error) { return nil, errNoBackend }
	devicesFunc    = func() ([]Device, error) { return nil, errNoBackend }
)

var logger = log.For("soundcard")

// Devices returns every PortAudio device.
func Devices() ([]Device, error) {
	if err := initializeFunc(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	defer terminateFunc()
	return devicesFunc()
}

func parseDevice(location string) (int, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return DefaultDevice, nil
	}
	id, err := strconv.Atoi(location)
	if err != nil || id < DefaultDevice {
		return 0, fmt.Errorf("%w: invalid device index %q", hal.ErrInvalidConfig, location)
	}
	return id, nil
}

func checkChannels(channels []int) error {
	if len(channels) == 0 {
		return fmt.Errorf("%w: at least one channel is required", hal.ErrInvalidConfig)
	}
	for _, c := range channels {
		if c < 0 {
			return fmt.Errorf("%w: invalid channel index %d", hal.ErrInvalidConfig, c)
		}
	}
	return nil
}

// width returns the number of device channels a stream needs to reach
// every channel index.
func width(channels []int) int {
	w := 0
	for _, c := range channels {
		w = max(w, c+1)
	}
	return w
}

// device tracks the PortAudio session shared by the three drivers.
type device struct {
	mu       sync.Mutex
	id       int
	channels []int
	open     bool
	stream   stream
}

func newDevice(spec hal.Spec) (*device, error) {
	id, err := parseDevice(spec.Location)
	if err != nil {
		return nil, err
	}
	if err := checkChannels(spec.Channels); err != nil {
		return nil, err
	}
	return &device{id: id, channels: append([]int(nil), spec.Channels...)}, nil
}

func (d *device) openLocked() error {
	if d.open {
		return nil
	}
	if err := initializeFunc(); err != nil {
		return fmt.Errorf("%w: failed to initialize PortAudio: %v", hal.ErrConnection, err)
	}
	d.open = true
	return nil
}

func (d *device) closeLocked() error {
	if !d.open {
		return nil
	}
	err := d.stopLocked()
	d.open = false
	if terr := terminateFunc(); terr != nil {
		err = errors.Join(err, fmt.Errorf("failed to terminate PortAudio: %w", terr))
	}
	return err
}

func (d *device) requireOpen() error {
	if !d.open {
		return hal.ErrNotOpen
	}
	return nil
}

func (d *device) startLocked(p streamParams, cb callback) error {
	if err := d.stopLocked(); err != nil {
		return err
	}
	p.Device = d.id
	p.FramesPerBuffer = framesPerBuffer
	s, err := openStreamFunc(p, cb)
	if err != nil {
		return fmt.Errorf("failed to open stream on device %d: %w", d.id, err)
	}
	if err := s.Start(); err != nil {
		s.Close()
		return fmt.Errorf("failed to start stream on device %d: %w", d.id, err)
	}
	logger.Debugf("stream started on device %d (in %d, out %d, %.0f Hz)",
		d.id, p.InChannels, p.OutChannels, p.SampleRate)
	d.stream = s
	return nil
}

func (d *device) stopLocked() error {
	if d.stream == nil {
		return nil
	}
	s := d.stream
	d.stream = nil
	if err := s.Stop(); err != nil {
		s.Close()
		return err
	}
	logger.Debugf("stream stopped on device %d", d.id)
	return s.Close()
}

// recorder collects the selected channels of interleaved input frames until
// it holds want samples per channel.
type recorder struct {
	mu    sync.Mutex
	pick  []int
	width int
	want  int
	data  [][]int32
	done  chan struct{}
}

func newRecorder(channels []int, streamWidth, want int) *recorder {
	r := &recorder{
		pick:  channels,
		width: streamWidth,
		want:  want,
		data:  make([][]int32, len(channels)),
		done:  make(chan struct{}),
	}
	for i := range r.data {
		r.data[i] = make([]int32, 0, want)
	}
	if want <= 0 {
		close(r.done)
	}
	return r
}

func (r *recorder) write(in []int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.width == 0 || len(r.data) == 0 || len(r.data[0]) >= r.want {
		return
	}
	frames := len(in) / r.width
	for f := 0; f < frames && len(r.data[0]) < r.want; f++ {
		frame := in[f*r.width : (f+1)*r.width]
		for i, c := range r.pick {
			r.data[i] = append(r.data[i], frame[c])
		}
	}
	if len(r.data[0]) >= r.want {
		close(r.done)
	}
}

// wait blocks until every sample arrived or timeout elapsed, then returns
// the raw PCM codes.
func (r *recorder) wait(timeout time.Duration) (hal.Buffer, error) {
	select {
	case <-r.done:
	case <-time.After(timeout):
		return nil, ErrTimeout
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return toFloat(r.data), nil
}

// player fills interleaved output frames from per-channel PCM codes.
type player struct {
	mu     sync.Mutex
	pick   []int
	width  int
	data   [][]int32
	pos    int
	repeat bool
}

func newPlayer(channels []int, streamWidth int, data [][]int32, repeat bool) *player {
	return &player{pick: channels, width: streamWidth, data: data, repeat: repeat}
}

func (p *player) read(out []int32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	clear(out)
	if p.width == 0 {
		return
	}
	n := 0
	for _, seq := range p.data {
		n = max(n, len(seq))
	}
	frames := len(out) / p.width
	for f := 0; f < frames; f++ {
		if p.pos >= n {
			if !p.repeat || n == 0 {
				return
			}
			p.pos = 0
		}
		frame := out[f*p.width : (f+1)*p.width]
		for i, c := range p.pick {
			if i < len(p.data) && p.pos < len(p.data[i]) {
				frame[c] = p.data[i][p.pos]
			}
		}
		p.pos++
	}
}

func fullScaleOr(v float64) float64 {
	if v <= 0 {
		return DefaultFullScale
	}
	return v
}

// toPCM scales volts to int32 codes, clipping at the full scale.
func toPCM(buf hal.Buffer, fullScale float64) [][]int32 {
	out := make([][]int32, len(buf))
	for i, seq := range buf {
		out[i] = make([]int32, len(seq))
		for j, v := range seq {
			c := math.Round(v / fullScale * math.MaxInt32)
			c = math.Max(math.Min(c, math.MaxInt32), math.MinInt32)
			out[i][j] = int32(c)
		}
	}
	return out
}

func toFloat(codes [][]int32) hal.Buffer {
	out := make(hal.Buffer, len(codes))
	for i, seq := range codes {
		out[i] = make([]float64, len(seq))
		for j, c := range seq {
			out[i][j] = float64(c)
		}
	}
	return out
}

func timeoutFor(seconds float64) time.Duration {
	return 2*time.Duration(seconds*float64(time.Second)) + time.Second
}
