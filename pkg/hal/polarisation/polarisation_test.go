// SPDX-License-Identifier: MIT

package polarisation

import (
	"testing"

	"qkdhal/pkg/hal"
)

func TestChannelNames(t *testing.T) {
	tests := []struct {
		in   string
		want Channel
	}{
		{"qwp1", QWP1},
		{"HWP", HWP},
		{" qwp2 ", QWP2},
		{"half wave plate", HWP},
		{"Quarter Wave Plate 1", QWP1},
	}
	for _, tt := range tests {
		got, err := ParseChannel(tt.in)
		if err != nil {
			t.Errorf("ParseChannel(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseChannel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseChannel("lambda"); err == nil {
		t.Error("expected error for unknown plate")
	}
	if DefaultChannel.String() != "Half Wave Plate" {
		t.Errorf("DefaultChannel = %v", DefaultChannel)
	}
}

func TestFakePositionIsAlwaysZero(t *testing.T) {
	c := NewFake(hal.Spec{})
	read := func() {
		t.Helper()
		for _, ch := range []Channel{QWP1, HWP, QWP2} {
			if p, err := c.Position(ch); err != nil || p != 0 {
				t.Errorf("Position(%v) = %g, %v; want 0, nil", ch, p, err)
			}
		}
	}

	read()
	c.Open()
	c.MoveTo(45, HWP)
	c.MoveBy(10, QWP1)
	read()
	c.Home()
	c.Close()
	read()
}
