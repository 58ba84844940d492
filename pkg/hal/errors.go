// SPDX-License-Identifier: MIT

package hal

import "errors"

var (
	// Connection and lifecycle
	ErrConnection = errors.New("connection failed")
	ErrNotOpen    = errors.New("device not open")

	// Operation issued outside the expected open/armed/triggered sequence
	ErrInvalidState = errors.New("invalid state")

	// Configuration and data shape
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrChannelCount  = errors.New("channel count mismatch")
)
