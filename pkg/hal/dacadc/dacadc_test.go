// SPDX-License-Identifier: MIT

package dacadc

import (
	"testing"

	"qkdhal/pkg/hal"
)

func TestFakeDACADCReturnsEmptyData(t *testing.T) {
	f := NewFake(hal.Spec{Channels: []int{0}})

	check := func(stage string) {
		t.Helper()
		data, err := f.GetADCData()
		if err != nil {
			t.Fatalf("%s: GetADCData error: %v", stage, err)
		}
		if data == nil || len(data) != 0 {
			t.Errorf("%s: GetADCData = %#v, want empty buffer", stage, data)
		}
	}

	check("before open")
	f.Open()
	f.SetParameters(Config{SampleRate: 1000, AcquisitionTime: 1})
	f.LoadDACData(hal.Buffer{{1, 2, 3}})
	f.Start()
	check("running")
	f.Stop()
	f.Close()
	f.Close()
	check("after close")
}
