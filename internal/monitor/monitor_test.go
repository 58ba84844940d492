// SPDX-License-Identifier: MIT

package monitor

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// recordingTransport keeps every message sent to it.
type recordingTransport struct {
	mu   sync.Mutex
	sent []any
}

func (r *recordingTransport) Send(data any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, data)
	return nil
}

func (r *recordingTransport) Close() error { return nil }

func (r *recordingTransport) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func constant(v float64) func() (float64, error) {
	return func() (float64, error) { return v, nil }
}

func failing() (float64, error) { return 0, errors.New("gpib timeout") }

func TestPoll(t *testing.T) {
	tr := &recordingTransport{}
	sources := []Source{
		{Instrument: "pm1", Quantity: "optical_power", Unit: "W", Read: constant(1e-6)},
		{Instrument: "vm1", Quantity: "voltage", Unit: "V", Read: failing},
		{Instrument: "am1", Quantity: "current", Unit: "A", Read: constant(0)},
	}
	p := NewPoller(time.Second, sources, tr)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	got := p.Poll()
	if len(got) != 2 {
		t.Fatalf("got %d readings, want 2: %+v", len(got), got)
	}
	want := Reading{Instrument: "pm1", Quantity: "optical_power", Unit: "W", Value: 1e-6, Time: fixed}
	if got[0] != want {
		t.Errorf("reading = %+v, want %+v", got[0], want)
	}
	if got[1].Instrument != "am1" {
		t.Errorf("second reading from %s, want am1", got[1].Instrument)
	}
	if tr.count() != 2 {
		t.Errorf("transport received %d messages, want 2", tr.count())
	}
}

func TestMetricsHandler(t *testing.T) {
	p := NewPoller(time.Second, []Source{
		{Instrument: "pm1", Quantity: "optical_power", Unit: "W", Read: constant(2.5)},
		{Instrument: "vm1", Quantity: "voltage", Unit: "V", Read: failing},
	}, nil)
	p.Poll()
	p.Poll()

	srv := httptest.NewServer(p.MetricsHandler())
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET error: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	for _, want := range []string{
		`qkdhal_reading{instrument="pm1",quantity="optical_power",unit="W"} 2.5`,
		`qkdhal_read_errors_total{instrument="vm1"} 2`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics missing %q:\n%s", want, body)
		}
	}
}

func TestStartStop(t *testing.T) {
	tr := &recordingTransport{}
	p := NewPoller(5*time.Millisecond, []Source{
		{Instrument: "pm1", Quantity: "optical_power", Unit: "W", Read: constant(1)},
	}, tr)

	p.Start()
	p.Start()

	deadline := time.Now().Add(2 * time.Second)
	for tr.count() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("only %d polls after 2s", tr.count())
		}
		time.Sleep(time.Millisecond)
	}

	if err := p.Stop(); err != nil {
		t.Fatalf("Stop error: %v", err)
	}
	n := tr.count()
	time.Sleep(20 * time.Millisecond)
	if tr.count() != n {
		t.Errorf("polling continued after Stop: %d -> %d", n, tr.count())
	}
	if err := p.Stop(); err != nil {
		t.Errorf("second Stop error: %v", err)
	}

	// A stopped poller can be started again.
	p.Start()
	defer p.Stop()
}

func TestDefaultInterval(t *testing.T) {
	if p := NewPoller(0, nil, nil); p.interval != DefaultInterval {
		t.Errorf("interval = %v, want %v", p.interval, DefaultInterval)
	}
}
