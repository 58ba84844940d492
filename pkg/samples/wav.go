// SPDX-License-Identifier: MIT

package samples

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	wavBitDepth    = 32
	wavPCMFormat   = 1
	wavMaxPCMValue = math.MaxInt32
)

// ReadWAV reads a mono WAV file and returns its PCM values unchanged along
// with the sample rate.
func ReadWAV(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("%s: not a valid wav file", path)
	}
	if dec.NumChans != 1 {
		return nil, 0, fmt.Errorf("%s: expected a mono file, got %d channels", path, dec.NumChans)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: failed to decode pcm data: %w", path, err)
	}

	seq := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		seq[i] = float64(v)
	}
	return seq, int(dec.SampleRate), nil
}

// WriteWAV writes seq as a mono 32-bit PCM file. With a zero FullScale the
// values are written as raw PCM codes (rounded); otherwise FullScale maps to
// the largest code. Values outside the PCM range are clipped.
func WriteWAV(path string, seq []float64, opts Options) error {
	rate := opts.SampleRate
	if rate <= 0 {
		rate = DefaultSampleRate
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := wav.NewEncoder(file, rate, wavBitDepth, 1, wavPCMFormat)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  rate,
		},
		Data:           make([]int, len(seq)),
		SourceBitDepth: wavBitDepth,
	}
	for i, v := range seq {
		buf.Data[i] = toPCM(v, opts.FullScale)
	}

	if err := enc.Write(buf); err != nil {
		file.Close()
		return fmt.Errorf("%s: failed to write wav data: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func toPCM(v, fullScale float64) int {
	if fullScale != 0 {
		v = v / fullScale * wavMaxPCMValue
	}
	v = math.Round(v)
	if v > wavMaxPCMValue {
		v = wavMaxPCMValue
	}
	if v < -wavMaxPCMValue-1 {
		v = -wavMaxPCMValue - 1
	}
	return int(v)
}
