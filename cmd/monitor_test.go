// SPDX-License-Identifier: MIT

package cmd

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"qkdhal/internal/config"
	"qkdhal/internal/monitor"
)

const monitorYAML = `
instruments:
  - name: pm
    driver: powermeter.FakePowerMeter
  - name: att
    driver: voa.FakeVOA
monitor:
  interval: 10ms
  address: 127.0.0.1:0
  transport: websocket
`

func loadConfig(t *testing.T, content string) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfig(writeConfig(t, content))
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	return cfg
}

func TestMonitorServesMetricsAndReadings(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ready := make(chan string, 1)
	done := make(chan error, 1)
	go func() { done <- runMonitor(ctx, loadConfig(t, monitorYAML), ready) }()

	var addr string
	select {
	case addr = <-ready:
	case err := <-done:
		t.Fatalf("monitor exited early: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("monitor never became ready")
	}

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/ws", nil)
	if err != nil {
		t.Fatalf("Dial error: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var r monitor.Reading
	if err := conn.ReadJSON(&r); err != nil {
		t.Fatalf("ReadJSON error: %v", err)
	}
	if r.Instrument != "pm" || r.Quantity != "optical_power" || r.Unit != "W" || r.Value != 1e-6 {
		t.Errorf("reading = %+v", r)
	}

	resp, err := http.Get("http://" + addr + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics error: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	want := `qkdhal_reading{instrument="pm",quantity="optical_power",unit="W"} 1e-06`
	if !strings.Contains(string(body), want) {
		t.Errorf("metrics missing %q:\n%s", want, body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("monitor returned %v after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("monitor did not shut down")
	}
}

func TestMonitorCommand(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"log transport", "monitor:\n  interval: 5ms\n  address: 127.0.0.1:0\n  transport: log\n", ""},
		{"bad address", "monitor:\n  address: 127.0.0.1:-1\n", "monitor:"},
		{"unknown driver", "instruments:\n  - name: x\n    driver: adc.Oscilloscope\n", "unknown driver"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			var out bytes.Buffer
			root := NewRootCommand(&out)
			root.SetArgs([]string{"monitor", "--config", writeConfig(t, tt.content)})
			err := root.ExecuteContext(ctx)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("monitor error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
