// SPDX-License-Identifier: MIT

package samples

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/sbinet/npyio"
)

// ReadNPY decodes a 1-D numeric array from r. Integer and float32 arrays
// are converted to float64 value by value; no scaling is applied.
func ReadNPY(r io.Reader) ([]float64, error) {
	nr, err := npyio.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode npy data: %w", err)
	}

	var seq []float64
	dtype := nr.Header.Descr.Type
	rt := npyio.TypeFrom(dtype)
	if rt == nil {
		return nil, fmt.Errorf("failed to decode npy data: unknown dtype %q", dtype)
	}
	switch rt.Kind() {
	case reflect.Float64:
		err = nr.Read(&seq)
	case reflect.Float32:
		seq, err = readAs[float32](nr)
	case reflect.Int8:
		seq, err = readAs[int8](nr)
	case reflect.Int16:
		seq, err = readAs[int16](nr)
	case reflect.Int32:
		seq, err = readAs[int32](nr)
	case reflect.Int64:
		seq, err = readAs[int64](nr)
	case reflect.Uint8:
		seq, err = readAs[uint8](nr)
	case reflect.Uint16:
		seq, err = readAs[uint16](nr)
	case reflect.Uint32:
		seq, err = readAs[uint32](nr)
	case reflect.Uint64:
		seq, err = readAs[uint64](nr)
	default:
		return nil, fmt.Errorf("failed to decode npy data: unsupported dtype %q", dtype)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode npy data: %w", err)
	}
	return seq, nil
}

type numeric interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~float32
}

func readAs[T numeric](nr *npyio.Reader) ([]float64, error) {
	var raw []T
	if err := nr.Read(&raw); err != nil {
		return nil, err
	}
	seq := make([]float64, len(raw))
	for i, v := range raw {
		seq[i] = float64(v)
	}
	return seq, nil
}

// WriteNPY encodes seq to w as a float64 array.
func WriteNPY(w io.Writer, seq []float64) error {
	if seq == nil {
		seq = []float64{}
	}
	if err := npyio.Write(w, seq); err != nil {
		return fmt.Errorf("failed to encode npy data: %w", err)
	}
	return nil
}

// ReadNPYFile reads a .npy file.
func ReadNPYFile(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	seq, err := ReadNPY(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return seq, nil
}

// WriteNPYFile writes seq to a .npy file, replacing it if it exists.
func WriteNPYFile(path string, seq []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	if err := WriteNPY(w, seq); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
