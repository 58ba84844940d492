// SPDX-License-Identifier: MIT

package laser

import (
	"testing"

	"qkdhal/pkg/hal"
)

func TestFakeLaser(t *testing.T) {
	var l Laser = NewFake(hal.Spec{Location: "/dev/ttyUSB0"})
	steps := []struct {
		name string
		fn   func() error
	}{
		{"Open", l.Open},
		{"SetParameters", func() error { return l.SetParameters(Config{Power: 1e-3}) }},
		{"Enable", l.Enable},
		{"Disable", l.Disable},
		{"Close", l.Close},
		{"Close again", l.Close},
	}
	for _, s := range steps {
		if err := s.fn(); err != nil {
			t.Errorf("%s error: %v", s.name, err)
		}
	}
}
