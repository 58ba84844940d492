// SPDX-License-Identifier: MIT

// Package udp sends readings to a UDP listener, one JSON document per
// datagram.
package udp

import (
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"qkdhal/internal/log"
	"qkdhal/internal/transport"
)

var logger = log.For("udp")

// UDPSender handles sending data packets over UDP.
type UDPSender struct {
	conn   *net.UDPConn
	mu     sync.Mutex // Protects conn during Close
	closed bool
}

// NewUDPSender creates a new UDPSender targeting the specified address.
// The address should be in the format "host:port", e.g., "127.0.0.1:9090".
func NewUDPSender(targetAddress string) (*UDPSender, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", targetAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve UDP target address '%s': %w", targetAddress, err)
	}

	// No local address: the kernel picks the source port.
	conn, err := net.DialUDP("udp", nil, udpAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial UDP for target '%s': %w", targetAddress, err)
	}

	logger.Infof("connection established to %s", conn.RemoteAddr())
	return &UDPSender{conn: conn}, nil
}

// Send transmits the given byte slice as a UDP packet.
func (s *UDPSender) Send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return transport.ErrClosed
	}
	if _, err := s.conn.Write(data); err != nil {
		logger.Warnf("error sending packet: %v", err)
		return fmt.Errorf("failed to send UDP packet: %w", err)
	}
	return nil
}

// Close closes the underlying UDP connection.
func (s *UDPSender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	logger.Debugf("closing connection to %s", s.conn.RemoteAddr())
	if err := s.conn.Close(); err != nil {
		return fmt.Errorf("failed to close UDP connection: %w", err)
	}
	return nil
}

// Transport encodes every message as JSON and sends it in one datagram.
type Transport struct {
	sender *UDPSender
}

var _ transport.Transport = (*Transport)(nil)

// NewTransport dials targetAddress.
func NewTransport(targetAddress string) (*Transport, error) {
	s, err := NewUDPSender(targetAddress)
	if err != nil {
		return nil, err
	}
	return &Transport{sender: s}, nil
}

func (t *Transport) Send(data any) error {
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode UDP payload: %w", err)
	}
	return t.sender.Send(b)
}

func (t *Transport) Close() error {
	return t.sender.Close()
}
