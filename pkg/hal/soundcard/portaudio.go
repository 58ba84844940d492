// SPDX-License-Identifier: MIT

//go:build portaudio

package soundcard

import (
	"fmt"

	"github.com/gordonklaus/portaudio"

	"qkdhal/pkg/hal/deps"
)

func init() {
	deps.Provide(Dependency, probe)

	initializeFunc = portaudio.Initialize
	terminateFunc = portaudio.Terminate
	openStreamFunc = paOpenStream
	devicesFunc = paDevices
}

// probe checks that libportaudio loads and initializes.
func probe() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	return portaudio.Terminate()
}

func paDevices() ([]Device, error) {
	infos, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	devices := make([]Device, len(infos))
	for i, info := range infos {
		devices[i] = Device{
			ID:                i,
			Name:              info.Name,
			MaxInputChannels:  info.MaxInputChannels,
			MaxOutputChannels: info.MaxOutputChannels,
			DefaultSampleRate: info.DefaultSampleRate,
		}
	}
	return devices, nil
}

// paDevice returns the device with the given index, or the system default
// for the direction when id is DefaultDevice.
func paDevice(id int, input bool) (*portaudio.DeviceInfo, error) {
	if id == DefaultDevice {
		if input {
			return portaudio.DefaultInputDevice()
		}
		return portaudio.DefaultOutputDevice()
	}
	infos, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	if id < 0 || id >= len(infos) {
		return nil, fmt.Errorf("invalid device ID: %d", id)
	}
	return infos[id], nil
}

func paOpenStream(p streamParams, cb callback) (stream, error) {
	params := portaudio.StreamParameters{
		FramesPerBuffer: p.FramesPerBuffer,
		SampleRate:      p.SampleRate,
	}
	if p.InChannels > 0 {
		dev, err := paDevice(p.Device, true)
		if err != nil {
			return nil, err
		}
		params.Input = portaudio.StreamDeviceParameters{
			Device:   dev,
			Channels: p.InChannels,
			Latency:  dev.DefaultHighInputLatency,
		}
	}
	if p.OutChannels > 0 {
		dev, err := paDevice(p.Device, false)
		if err != nil {
			return nil, err
		}
		params.Output = portaudio.StreamDeviceParameters{
			Device:   dev,
			Channels: p.OutChannels,
			Latency:  dev.DefaultHighOutputLatency,
		}
	}

	s, err := portaudio.OpenStream(params, func(in, out []int32) { cb(in, out) })
	if err != nil {
		return nil, err
	}
	return s, nil
}
