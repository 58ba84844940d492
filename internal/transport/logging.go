// SPDX-License-Identifier: MIT

package transport

import (
	"encoding/json"

	"qkdhal/internal/log"
)

var logger = log.For("transport")

// LoggingTransport writes every message to the log at INFO level, as JSON
// when possible.
type LoggingTransport struct{}

// NewLoggingTransport creates a new LoggingTransport instance.
func NewLoggingTransport() *LoggingTransport {
	logger.Debugf("using LoggingTransport")
	return &LoggingTransport{}
}

// Send logs data. It never fails.
func (lt *LoggingTransport) Send(data any) error {
	b, err := json.Marshal(data)
	if err != nil {
		logger.Infof("%T %+v", data, data)
		return nil
	}
	logger.Infof("%s", b)
	return nil
}

// Close is a no-op for LoggingTransport.
func (lt *LoggingTransport) Close() error {
	return nil
}

var _ Transport = (*LoggingTransport)(nil)
