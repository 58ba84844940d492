// SPDX-License-Identifier: MIT

package udp

import (
	"encoding/json"
	"errors"
	"net"
	"testing"
	"time"

	"qkdhal/internal/transport"
)

func listen(t *testing.T) *net.UDPConn {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("ListenUDP error: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestTransportSendsJSONDatagrams(t *testing.T) {
	srv := listen(t)

	tr, err := NewTransport(srv.LocalAddr().String())
	if err != nil {
		t.Fatalf("NewTransport error: %v", err)
	}
	defer tr.Close()

	msg := map[string]any{"instrument": "pm1", "value": 1e-6}
	if err := tr.Send(msg); err != nil {
		t.Fatalf("Send error: %v", err)
	}

	buf := make([]byte, 1024)
	srv.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, _, err := srv.ReadFromUDP(buf)
	if err != nil {
		t.Fatalf("ReadFromUDP error: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(buf[:n], &got); err != nil {
		t.Fatalf("datagram is not JSON: %q", buf[:n])
	}
	if got["instrument"] != "pm1" || got["value"] != 1e-6 {
		t.Errorf("received %v", got)
	}
}

func TestSendAfterClose(t *testing.T) {
	srv := listen(t)
	s, err := NewUDPSender(srv.LocalAddr().String())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close error: %v", err)
	}
	if err := s.Send([]byte("x")); !errors.Is(err, transport.ErrClosed) {
		t.Errorf("Send after Close = %v, want ErrClosed", err)
	}
}

func TestBadAddress(t *testing.T) {
	if _, err := NewTransport("not an address"); err == nil {
		t.Error("expected resolve error")
	}
}

func TestUnencodable(t *testing.T) {
	srv := listen(t)
	tr, _ := NewTransport(srv.LocalAddr().String())
	defer tr.Close()
	if err := tr.Send(make(chan int)); err == nil {
		t.Error("expected encode error")
	}
}
