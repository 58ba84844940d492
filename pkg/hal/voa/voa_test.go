// SPDX-License-Identifier: MIT

package voa

import (
	"testing"

	"qkdhal/pkg/hal"
)

func TestFakeVOA(t *testing.T) {
	v := NewFake(hal.Spec{})
	if got := v.String(); got != "Fake VOA (value : 0)" {
		t.Errorf("initial String = %q", got)
	}

	tests := []struct {
		value float64
		want  string
	}{
		{3.5, "Fake VOA (value : 3.5)"},
		{-1, "Fake VOA (value : -1)"},
		{0.25, "Fake VOA (value : 0.25)"},
	}
	for _, tt := range tests {
		if err := v.SetValue(tt.value); err != nil {
			t.Fatalf("SetValue(%g) error: %v", tt.value, err)
		}
		if v.Value() != tt.value {
			t.Errorf("Value = %g, want %g", v.Value(), tt.value)
		}
		if got := v.String(); got != tt.want {
			t.Errorf("String = %q, want %q", got, tt.want)
		}
	}
}
