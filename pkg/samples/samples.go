// SPDX-License-Identifier: MIT
/*
Package samples reads and writes per-channel sample sequence files.

One file holds one channel. Two formats are supported, chosen by the file
extension:

  - .npy: NumPy float64 1-D arrays. Lossless, and compatible with the
    recordings produced by the Python tooling of the bench.
  - .wav: mono 32-bit PCM. Reading returns the integer PCM values unchanged
    (raw device units); writing scales by Options.FullScale.
*/
package samples

import (
	"fmt"
	"path/filepath"
	"strings"

	"qkdhal/pkg/hal"
)

// Format identifies a sample file format.
type Format string

const (
	NPY Format = "npy"
	WAV Format = "wav"
)

// Options controls how sequences are written.
type Options struct {
	SampleRate int     // WAV sample rate in Hz; DefaultSampleRate when zero.
	FullScale  float64 // WAV: value mapped to the maximum PCM code; zero writes raw values.
}

// DefaultSampleRate is used for WAV files when Options.SampleRate is zero.
const DefaultSampleRate = 48000

// ParseFormat converts "npy" or "wav" (case-insensitive, optional leading
// dot) to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.TrimPrefix(strings.ToLower(s), ".")) {
	case NPY:
		return NPY, nil
	case WAV:
		return WAV, nil
	default:
		return "", fmt.Errorf("unsupported sample format %q", s)
	}
}

// FormatOf returns the format of path from its extension.
func FormatOf(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("sample file %q has no extension", path)
	}
	return ParseFormat(ext)
}

// Load reads one channel from path.
func Load(path string) ([]float64, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	switch f {
	case WAV:
		seq, _, err := ReadWAV(path)
		return seq, err
	default:
		return ReadNPYFile(path)
	}
}

// LoadAll reads one file per channel, in order.
func LoadAll(paths []string) (hal.Buffer, error) {
	buf := make(hal.Buffer, 0, len(paths))
	for _, p := range paths {
		seq, err := Load(p)
		if err != nil {
			return nil, err
		}
		buf = append(buf, seq)
	}
	return buf, nil
}

// Save writes one channel to path.
func Save(path string, seq []float64, opts Options) error {
	f, err := FormatOf(path)
	if err != nil {
		return err
	}
	switch f {
	case WAV:
		return WriteWAV(path, seq, opts)
	default:
		return WriteNPYFile(path, seq)
	}
}

// SaveAll writes every channel of buf to dir as <prefix>_ch<i>.<format> and
// returns the paths written.
func SaveAll(dir, prefix string, format Format, buf hal.Buffer, opts Options) ([]string, error) {
	paths := make([]string, 0, len(buf))
	for i, seq := range buf {
		p := filepath.Join(dir, fmt.Sprintf("%s_ch%d.%s", prefix, i, format))
		if err := Save(p, seq, opts); err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}
