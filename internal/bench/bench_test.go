// SPDX-License-Identifier: MIT

package bench

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"qkdhal/internal/config"
	"qkdhal/pkg/hal"
	"qkdhal/pkg/hal/deps"
	"qkdhal/pkg/hal/registry"
	"qkdhal/pkg/hal/voa"

	_ "qkdhal/pkg/hal/all"
)

func ptr[T any](v T) *T { return &v }

func load(t *testing.T, doc string) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if err := config.Parse([]byte(doc), cfg); err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	return cfg
}

const labYAML = `
instruments:
  - name: bob-adc
    driver: adc.FakeADC
    channels: [0, 1, 2]
    adc: {acquisition_time: 2.0, target_rate: 10}
  - name: alice-dac
    driver: dac.FakeDAC
    channels: [0]
  - name: pm
    driver: powermeter.FakePowerMeter
    category: powermeter
  - name: att
    driver: voa.FakeVOA
    voa: {value: 7.5}
  - name: pol
    driver: polarisation.FakeController
  - name: sw
    driver: opticalswitch.FakeSwitch
    switch: {state: 2}
`

func TestBuildOpenClose(t *testing.T) {
	b, err := Build(load(t, labYAML))
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if n := len(b.Instruments()); n != 6 {
		t.Fatalf("got %d instruments, want 6", n)
	}
	if err := b.Open(); err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer b.Close()

	a, err := b.ADC("bob-adc")
	if err != nil {
		t.Fatalf("ADC error: %v", err)
	}
	a.ArmAcquisition()
	a.Trigger()
	data, err := a.GetData()
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 3 || len(data[0]) != 20 {
		t.Errorf("acquired %d x %d samples, want 3 x 20", len(data), len(data[0]))
	}

	v, _ := b.VOA("att")
	if got := v.(*voa.FakeVOA).Value(); got != 7.5 {
		t.Errorf("VOA value after Open = %g, want 7.5", got)
	}

	if _, err := b.PowerMeter("nope"); !errors.Is(err, ErrUnknownInstrument) {
		t.Errorf("unknown instrument error = %v", err)
	}
	if _, err := b.DAC("pm"); err == nil || !strings.Contains(err.Error(), "is not a dac") {
		t.Errorf("wrong category error = %v", err)
	}
}

func TestReaders(t *testing.T) {
	b, err := Build(load(t, labYAML))
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, s := range b.Readers() {
		v, err := s.Read()
		if err != nil {
			t.Errorf("%s %s: %v", s.Instrument, s.Quantity, err)
		}
		if s.Instrument == "pm" && v != 1e-6 {
			t.Errorf("power meter read %g", v)
		}
		got = append(got, s.Instrument+"/"+s.Quantity)
	}
	want := []string{
		"pm/optical_power",
		"pol/position_qwp1", "pol/position_hwp", "pol/position_qwp2",
		"sw/state",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("readers = %v, want %v", got, want)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		decl    config.Instrument
		wantErr string
		is      error
	}{
		{"unknown driver", config.Instrument{Name: "x", Driver: "adc.Oscilloscope"}, `instrument "x": unknown driver`, nil},
		{"wrong category", config.Instrument{Name: "x", Driver: "adc.FakeADC", Category: "dac"}, "is not a dac", nil},
		{"missing dependency", config.Instrument{Name: "card", Driver: "soundcard.ADC", Channels: []int{0}}, `instrument "card"`, deps.ErrMissingDependency},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.is != nil && deps.Available("portaudio") {
				t.Skip("portaudio is available in this build")
			}
			_, err := Build(&config.Config{Instruments: []config.Instrument{tt.decl}})
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want %q", err, tt.wantErr)
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("error %v does not match %v", err, tt.is)
			}
		})
	}
}

// flaky fails to open and records closes.
type flaky struct {
	name    string
	failing bool
	log     *[]string
}

func (f *flaky) Open() error {
	if f.failing {
		return hal.ErrConnection
	}
	*f.log = append(*f.log, "open "+f.name)
	return nil
}

func (f *flaky) Close() error {
	*f.log = append(*f.log, "close "+f.name)
	if f.name == "b" {
		return errors.New("stuck")
	}
	return nil
}

func TestOpenRollbackAndCloseOrder(t *testing.T) {
	var calls []string
	b := &Bench{byName: map[string]*Instrument{}}
	for _, name := range []string{"a", "b", "c"} {
		b.instruments = append(b.instruments, &Instrument{
			Name:     name,
			Hardware: &flaky{name: name, failing: name == "c", log: &calls},
		})
	}

	err := b.Open()
	if !errors.Is(err, hal.ErrConnection) {
		t.Fatalf("Open error = %v, want ErrConnection", err)
	}
	if !strings.Contains(err.Error(), "close b: stuck") {
		t.Errorf("close errors not joined: %v", err)
	}
	want := []string{"open a", "open b", "close b", "close a"}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
	if err := b.Close(); err != nil {
		t.Errorf("Close after rollback = %v, want nil", err)
	}
}

func TestApplyParameters(t *testing.T) {
	cfg := &config.Config{Instruments: []config.Instrument{
		{Name: "att", Driver: "voa.FakeVOA", VOA: &voa.Config{Value: ptr(1.25)}},
		{Name: "att2", Driver: "voa.FakeVOA"},
	}}
	b, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Open(); err != nil {
		t.Fatal(err)
	}
	for name, want := range map[string]string{"att": "Fake VOA (value : 1.25)", "att2": "Fake VOA (value : 0)"} {
		v, _ := b.VOA(name)
		if got := v.(*voa.FakeVOA).String(); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
	if len(registry.Entries()) == 0 {
		t.Error("registry is empty")
	}
}
