// SPDX-License-Identifier: MIT

package dac

import (
	"reflect"
	"testing"

	"qkdhal/pkg/hal"
	"qkdhal/pkg/hal/registry"
)

func TestFakeDAC(t *testing.T) {
	f := NewFake(hal.Spec{Channels: []int{0, 1}})
	if f.Data() != nil {
		t.Errorf("initial data = %v, want nil", f.Data())
	}
	if f.Emitting() {
		t.Error("new FakeDAC is emitting")
	}

	if err := f.Open(); err != nil {
		t.Fatalf("Open error: %v", err)
	}
	data := hal.Buffer{{1, 2}, {3}}
	if err := f.LoadData(data); err != nil {
		t.Fatalf("LoadData error: %v", err)
	}
	data[0][0] = 42
	if want := (hal.Buffer{{1, 2}, {3}}); !reflect.DeepEqual(f.Data(), want) {
		t.Errorf("Data = %v, want %v", f.Data(), want)
	}

	f.StartEmission()
	if !f.Emitting() {
		t.Error("not emitting after StartEmission")
	}
	f.StopEmission()
	if f.Emitting() {
		t.Error("still emitting after StopEmission")
	}
	if err := f.Close(); err != nil {
		t.Errorf("Close error: %v", err)
	}
	if got := f.String(); got != "Fake DAC" {
		t.Errorf("String = %q", got)
	}
}

func TestRegistered(t *testing.T) {
	list := registry.ListCategory(registry.DefaultNamespace, hal.DAC)
	if !reflect.DeepEqual(list["dac"], []string{"FakeDAC"}) {
		t.Errorf("dac listing = %v", list)
	}
}
