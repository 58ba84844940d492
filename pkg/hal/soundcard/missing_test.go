// SPDX-License-Identifier: MIT

//go:build !portaudio

package soundcard

import (
	"errors"
	"reflect"
	"testing"

	"qkdhal/pkg/hal"
	"qkdhal/pkg/hal/deps"
	"qkdhal/pkg/hal/registry"
)

func TestConstructorsRequirePortAudio(t *testing.T) {
	spec := hal.Spec{Channels: []int{0}}
	ctors := map[string]func() error{
		"NewADC":    func() error { _, err := NewADC(spec); return err },
		"NewDAC":    func() error { _, err := NewDAC(spec); return err },
		"NewDACADC": func() error { _, err := NewDACADC(spec); return err },
	}
	for name, ctor := range ctors {
		for i := 0; i < 2; i++ {
			err := ctor()
			if !errors.Is(err, deps.ErrMissingDependency) {
				t.Fatalf("%s attempt %d: error = %v, want missing dependency", name, i, err)
			}
			var missing *deps.MissingDependencyError
			if !errors.As(err, &missing) || !reflect.DeepEqual(missing.Missing, []string{Dependency}) {
				t.Errorf("%s: missing = %+v", name, missing)
			}
		}
	}

	hw, err := registry.New("soundcard.DAC", spec)
	if hw != nil || !errors.Is(err, deps.ErrMissingDependency) {
		t.Errorf("registry.New = %v, %v", hw, err)
	}
}
