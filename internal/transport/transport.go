// SPDX-License-Identifier: MIT

// Package transport publishes instrument readings to observers.
package transport

import "errors"

// ErrClosed is returned by Send after Close.
var ErrClosed = errors.New("transport closed")

// Transport defines a generic interface for sending readings or events.
// Implementations must be safe for concurrent use.
type Transport interface {
	Send(data any) error
	Close() error
}

// Discard drops everything sent to it.
type Discard struct{}

func (Discard) Send(any) error { return nil }
func (Discard) Close() error   { return nil }

var _ Transport = Discard{}
