// SPDX-License-Identifier: MIT
/*
Package monitor polls the measuring instruments of a bench at a fixed
interval. Every reading is sent to a transport and exported as a
Prometheus gauge; failed reads are counted per instrument.
*/
package monitor

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"qkdhal/internal/log"
	"qkdhal/internal/transport"
)

// DefaultInterval is used when NewPoller gets a non-positive interval.
const DefaultInterval = time.Second

var logger = log.For("monitor")

// Source is one quantity reported by an instrument.
type Source struct {
	Instrument string
	Quantity   string // e.g. "optical_power", "voltage"
	Unit       string
	Read       func() (float64, error)
}

// Reading is the result of one successful read.
type Reading struct {
	Instrument string    `json:"instrument"`
	Quantity   string    `json:"quantity"`
	Unit       string    `json:"unit"`
	Value      float64   `json:"value"`
	Time       time.Time `json:"time"`
}

// Poller reads every source on each tick of its interval. Reads run one
// after the other on the poller goroutine, so sources need not be safe
// for concurrent use as long as nothing else drives the instruments.
type Poller struct {
	sources   []Source
	transport transport.Transport
	interval  time.Duration
	now       func() time.Time

	registry   *prometheus.Registry
	values     *prometheus.GaugeVec
	readErrors *prometheus.CounterVec

	ticker   *time.Ticker
	doneChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	mu       sync.Mutex
}

// NewPoller creates a poller. A nil transport discards readings.
func NewPoller(interval time.Duration, sources []Source, tr transport.Transport) *Poller {
	if interval <= 0 {
		logger.Warnf("invalid interval %v, defaulting to %v", interval, DefaultInterval)
		interval = DefaultInterval
	}
	if tr == nil {
		tr = transport.Discard{}
	}

	reg := prometheus.NewRegistry()
	p := &Poller{
		sources:   append([]Source(nil), sources...),
		transport: tr,
		interval:  interval,
		now:       time.Now,
		registry:  reg,
		values: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "qkdhal",
			Name:      "reading",
			Help:      "Last value read from an instrument",
		}, []string{"instrument", "quantity", "unit"}),
		readErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "qkdhal",
			Name:      "read_errors_total",
			Help:      "Total number of failed instrument reads",
		}, []string{"instrument"}),
	}
	reg.MustRegister(p.values, p.readErrors)
	return p
}

// MetricsHandler serves the poller metrics in the Prometheus text format.
func (p *Poller) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Poll reads every source once, in order, and returns the successful
// readings. Each reading is also sent to the transport.
func (p *Poller) Poll() []Reading {
	out := make([]Reading, 0, len(p.sources))
	for _, s := range p.sources {
		v, err := s.Read()
		if err != nil {
			p.readErrors.WithLabelValues(s.Instrument).Inc()
			logger.Warnf("%s %s: %v", s.Instrument, s.Quantity, err)
			continue
		}
		r := Reading{
			Instrument: s.Instrument,
			Quantity:   s.Quantity,
			Unit:       s.Unit,
			Value:      v,
			Time:       p.now(),
		}
		p.values.WithLabelValues(s.Instrument, s.Quantity, s.Unit).Set(v)
		if err := p.transport.Send(r); err != nil {
			logger.Warnf("send %s %s: %v", s.Instrument, s.Quantity, err)
		}
		out = append(out, r)
	}
	return out
}

// Start begins polling in a new goroutine. Calling Start on a running
// poller is a no-op.
func (p *Poller) Start() {
	p.mu.Lock()
	if p.ticker != nil {
		p.mu.Unlock()
		logger.Warnf("Start called but already running")
		return
	}
	p.ticker = time.NewTicker(p.interval)
	p.doneChan = make(chan struct{})
	p.stopOnce = sync.Once{}
	ticker := p.ticker
	doneChan := p.doneChan
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		logger.Infof("polling %d sources every %v", len(p.sources), p.interval)
		for {
			select {
			case <-ticker.C:
				p.Poll()
			case <-doneChan:
				return
			}
		}
	}()
}

// Stop ends polling and waits for the current round to finish. It is safe
// to call Stop on a stopped poller.
func (p *Poller) Stop() error {
	p.mu.Lock()
	if p.ticker == nil {
		p.mu.Unlock()
		return nil
	}
	p.stopOnce.Do(func() {
		close(p.doneChan)
		p.ticker.Stop()
		p.ticker = nil
	})
	p.mu.Unlock()

	p.wg.Wait()
	logger.Debugf("poller stopped")
	return nil
}
